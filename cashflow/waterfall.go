package cashflow

import "math"

// Point is one bar of the waterfall decomposition. Start/End are the bar
// extents; Cumulative is the running total after this delta. Subtotal and
// total bars restart from zero.
type Point struct {
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
	Cumulative float64 `json:"cumulative"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Subtotal   bool    `json:"subtotal,omitempty"`
	Total      bool    `json:"total,omitempty"`
}

// Waterfall builds the ordered delta sequence bridging net income to net
// cash change: net income, the non-zero operating adjustments in canonical
// order, an operating subtotal, the investing and financing deltas when
// non-zero, and a final total. Zero adjustment lines are omitted from the
// sequence but their (zero) contribution is still inside the totals.
func Waterfall(s Statement) []Point {
	cumulative := s.NetIncome
	points := []Point{{
		Name:       "net income",
		Value:      s.NetIncome,
		Cumulative: cumulative,
	}}

	adjustments := []struct {
		name  string
		delta float64
	}{
		{"depreciation", s.Depreciation},
		{"receivables change", -s.AccountsReceivableChange},
		{"inventory change", -s.InventoryChange},
		{"payables change", s.AccountsPayableChange},
		{"other operating", s.OtherOperating},
	}

	for _, adj := range adjustments {
		if adj.delta == 0 {
			continue
		}
		cumulative += adj.delta
		points = append(points, Point{
			Name:       adj.name,
			Value:      adj.delta,
			Cumulative: cumulative,
		})
	}

	points = append(points, Point{
		Name:       "operating cash flow",
		Value:      s.OperatingCashFlow,
		Cumulative: s.OperatingCashFlow,
		Subtotal:   true,
	})
	cumulative = s.OperatingCashFlow

	if s.InvestingCashFlow != 0 {
		cumulative += s.InvestingCashFlow
		points = append(points, Point{
			Name:       "investing cash flow",
			Value:      s.InvestingCashFlow,
			Cumulative: cumulative,
		})
	}

	if s.FinancingCashFlow != 0 {
		cumulative += s.FinancingCashFlow
		points = append(points, Point{
			Name:       "financing cash flow",
			Value:      s.FinancingCashFlow,
			Cumulative: cumulative,
		})
	}

	points = append(points, Point{
		Name:       "net cash change",
		Value:      s.NetCashChange,
		Cumulative: s.NetCashChange,
		Total:      true,
	})

	return positioned(points)
}

// positioned assigns bar extents: floating bars span the running total
// before and after their delta; the first bar and subtotal/total bars
// stand on the axis.
func positioned(points []Point) []Point {
	var running float64

	for i := range points {
		p := &points[i]
		if i == 0 || p.Subtotal || p.Total {
			p.Start = 0
			p.End = p.Value
			if !p.Total {
				running = p.Value
			}
			continue
		}

		start := running
		end := running + p.Value
		running = end
		p.Start = math.Min(start, end)
		p.End = math.Max(start, end)
	}

	return points
}
