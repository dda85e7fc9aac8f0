package compare

import (
	"fmt"
	"math"
	"sort"
	"time"

	"hashav/reconcile/model"
)

// Severity thresholds, applied to |difference| with strict comparison:
// exactly 10,000 is a warning, not critical.
const (
	CriticalThreshold = 10_000.0
	WarningThreshold  = 1_000.0
	// LowMatchRateThreshold flags months whose match rate falls below it.
	LowMatchRateThreshold = 80.0

	defaultWarningAlertLimit = 5
)

// Severity orders alerts: critical before warning before info.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

func severityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityWarning:
		return 1
	default:
		return 2
	}
}

// Alert is a single actionable finding from classification.
type Alert struct {
	ID         string    `json:"id"`
	Severity   Severity  `json:"severity"`
	Category   string    `json:"category"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	Value      float64   `json:"value"`
	Threshold  float64   `json:"threshold,omitempty"`
	AccountKey int       `json:"accountKey,omitempty"`
	Month      int       `json:"month,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Summary aggregates the comparison outcome across all accounts.
type Summary struct {
	TotalAccounts          int     `json:"totalAccounts"`
	MatchedAccounts        int     `json:"matchedAccounts"`
	DiscrepantAccounts     int     `json:"discrepantAccounts"`
	MatchRate              float64 `json:"matchRate"`
	TotalDiscrepancyAmount float64 `json:"totalDiscrepancyAmount"`
	CriticalCount          int     `json:"criticalCount"`
	WarningCount           int     `json:"warningCount"`
	InfoCount              int     `json:"infoCount"`
}

// CodeRollup groups discrepant accounts by sort code.
type CodeRollup struct {
	Code       int     `json:"code"`
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// MonthRollup summarizes one month's discrepancies across all accounts.
type MonthRollup struct {
	Month              int     `json:"month"`
	TotalDiscrepancy   float64 `json:"totalDiscrepancy"`
	DiscrepantAccounts int     `json:"discrepantAccounts"`
	MatchRate          float64 `json:"matchRate"`
}

// Result is the full classification output.
type Result struct {
	Summary Summary       `json:"summary"`
	Alerts  []Alert       `json:"alerts"`
	ByCode  []CodeRollup  `json:"byCode"`
	ByMonth []MonthRollup `json:"byMonth"`
}

// Classifier turns comparison records into severity-tagged findings.
// The zero value is not usable; construct with NewClassifier.
type Classifier struct {
	// WarningAlertLimit caps the number of warning-level discrepancy
	// alerts emitted per run. A pagination concern, not an invariant.
	WarningAlertLimit int

	now func() time.Time
}

// NewClassifier returns a Classifier with the default warning-alert cap.
func NewClassifier() *Classifier {
	return &Classifier{
		WarningAlertLimit: defaultWarningAlertLimit,
		now:               time.Now,
	}
}

// Classify computes the summary, alerts and rollups for a comparison.
// A record is discrepant iff |difference| exceeds model.AmountEpsilon.
func (c *Classifier) Classify(records []Record) Result {
	summary := c.summarize(records)
	byMonth := c.rollupByMonth(records)

	return Result{
		Summary: summary,
		Alerts:  c.alerts(records, byMonth),
		ByCode:  c.rollupByCode(records),
		ByMonth: byMonth,
	}
}

func discrepant(r Record) bool {
	return math.Abs(r.Difference) > model.AmountEpsilon
}

func (c *Classifier) summarize(records []Record) Summary {
	s := Summary{TotalAccounts: len(records), MatchRate: 100}

	for _, r := range records {
		if !discrepant(r) {
			continue
		}
		s.DiscrepantAccounts++
		abs := math.Abs(r.Difference)
		s.TotalDiscrepancyAmount += abs

		switch {
		case abs > CriticalThreshold:
			s.CriticalCount++
		case abs > WarningThreshold:
			s.WarningCount++
		default:
			s.InfoCount++
		}
	}

	s.MatchedAccounts = s.TotalAccounts - s.DiscrepantAccounts
	if s.TotalAccounts > 0 {
		s.MatchRate = float64(s.MatchedAccounts) / float64(s.TotalAccounts) * 100
	}
	return s
}

func (c *Classifier) rollupByCode(records []Record) []CodeRollup {
	byCode := make(map[int]*CodeRollup)
	order := make([]int, 0)

	for _, r := range records {
		if !discrepant(r) {
			continue
		}
		roll, ok := byCode[r.SortCode]
		if !ok {
			roll = &CodeRollup{Code: r.SortCode, Name: r.SortCodeName}
			byCode[r.SortCode] = roll
			order = append(order, r.SortCode)
		}
		roll.Amount += math.Abs(r.Difference)
		roll.Count++
	}

	var grandTotal float64
	for _, code := range order {
		grandTotal += byCode[code].Amount
	}

	rollups := make([]CodeRollup, 0, len(order))
	for _, code := range order {
		roll := *byCode[code]
		if grandTotal > 0 {
			roll.Percentage = roll.Amount / grandTotal * 100
		}
		rollups = append(rollups, roll)
	}

	sort.SliceStable(rollups, func(i, j int) bool { return rollups[i].Amount > rollups[j].Amount })
	return rollups
}

func (c *Classifier) rollupByMonth(records []Record) []MonthRollup {
	months := activeMonthsOf(records)
	rollups := make([]MonthRollup, 0, len(months))

	for _, month := range months {
		roll := MonthRollup{Month: month, MatchRate: 100}
		for _, r := range records {
			for _, m := range r.Monthly {
				if m.Month != month {
					continue
				}
				abs := math.Abs(m.Diff)
				roll.TotalDiscrepancy += abs
				if abs > model.AmountEpsilon {
					roll.DiscrepantAccounts++
				}
			}
		}
		if len(records) > 0 {
			roll.MatchRate = float64(len(records)-roll.DiscrepantAccounts) / float64(len(records)) * 100
		}
		rollups = append(rollups, roll)
	}
	return rollups
}

// activeMonthsOf recovers the active month set from the records' monthly
// slices, preserving the order Compare emitted.
func activeMonthsOf(records []Record) []int {
	if len(records) == 0 {
		return nil
	}
	months := make([]int, 0, len(records[0].Monthly))
	for _, m := range records[0].Monthly {
		months = append(months, m.Month)
	}
	return months
}

func (c *Classifier) alerts(records []Record, byMonth []MonthRollup) []Alert {
	now := c.now()
	var alerts []Alert

	for _, r := range records {
		abs := math.Abs(r.Difference)
		if abs > CriticalThreshold {
			alerts = append(alerts, Alert{
				ID:         fmt.Sprintf("disc-critical-%d", r.AccountKey),
				Severity:   SeverityCritical,
				Category:   "discrepancy",
				Title:      "significant discrepancy",
				Message:    fmt.Sprintf("difference of %.2f in account %s (%d)", abs, r.AccountName, r.AccountKey),
				Value:      r.Difference,
				Threshold:  CriticalThreshold,
				AccountKey: r.AccountKey,
				Timestamp:  now,
			})
		}
	}

	warnings := 0
	for _, r := range records {
		abs := math.Abs(r.Difference)
		if abs > WarningThreshold && abs <= CriticalThreshold {
			if warnings >= c.WarningAlertLimit {
				break
			}
			warnings++
			alerts = append(alerts, Alert{
				ID:         fmt.Sprintf("disc-warning-%d", r.AccountKey),
				Severity:   SeverityWarning,
				Category:   "discrepancy",
				Title:      "moderate discrepancy",
				Message:    fmt.Sprintf("difference of %.2f in account %s (%d)", abs, r.AccountName, r.AccountKey),
				Value:      r.Difference,
				Threshold:  WarningThreshold,
				AccountKey: r.AccountKey,
				Timestamp:  now,
			})
		}
	}

	for _, m := range byMonth {
		if m.MatchRate < LowMatchRateThreshold {
			alerts = append(alerts, Alert{
				ID:        fmt.Sprintf("match-%d", m.Month),
				Severity:  SeverityWarning,
				Category:  "trend",
				Title:     "low match rate",
				Message:   fmt.Sprintf("month %d matched only %.1f%% of accounts", m.Month, m.MatchRate),
				Value:     m.MatchRate,
				Threshold: LowMatchRateThreshold,
				Month:     m.Month,
				Timestamp: now,
			})
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return severityRank(alerts[i].Severity) < severityRank(alerts[j].Severity)
	})
	return alerts
}
