package compare

import (
	"math"
	"strconv"
	"strings"

	"hashav/reconcile/model"
)

// KPISet is the headline-figure block the dashboard renders next to the
// discrepancy summary. Values are raw numbers; formatting is the
// presentation layer's job.
type KPISet struct {
	CashBalance     float64 `json:"cashBalance"`
	PreviousCash    float64 `json:"previousCash"`
	CashTrendPct    float64 `json:"cashTrendPct"`
	CustomerBalance float64 `json:"customerBalance"`
	CustomerDays    float64 `json:"customerDays"`
	SupplierBalance float64 `json:"supplierBalance"`
	SupplierDays    float64 `json:"supplierDays"`
	ActiveAlerts    int     `json:"activeAlerts"`
}

// Sort-code bands for flow figures: 600s are revenue, 800s cost/operating.
const (
	revenueBandStart = 600
	revenueBandEnd   = 700
	cogsBandStart    = 800
	cogsBandEnd      = 900

	daysPerYear = 365
)

// KPIs derives the dashboard headline figures from monthly balances and
// ledger flows. Customer and supplier days are the simplified
// balance-over-daily-flow ratios, zero when the flow is zero.
func KPIs(balances []model.MonthlyBalance, ledger []model.LedgerEntry, activeMonths []int, alerts []Alert) KPISet {
	var k KPISet
	k.ActiveAlerts = len(alerts)
	if len(activeMonths) == 0 {
		return k
	}

	lastMonth := activeMonths[len(activeMonths)-1]
	prevMonth := 0
	if len(activeMonths) > 1 {
		prevMonth = activeMonths[len(activeMonths)-2]
	}

	k.CashBalance = closingByPrefix(balances, lastMonth, "1")
	k.PreviousCash = closingByPrefix(balances, prevMonth, "1")
	if k.PreviousCash != 0 {
		k.CashTrendPct = (k.CashBalance - k.PreviousCash) / k.PreviousCash * 100
	}

	k.CustomerBalance = closingByPrefix(balances, lastMonth, "16") + closingByPrefix(balances, lastMonth, "17")
	revenue := absFlowInBand(ledger, revenueBandStart, revenueBandEnd)
	if revenue > 0 {
		k.CustomerDays = k.CustomerBalance / (revenue / daysPerYear)
	}

	k.SupplierBalance = math.Abs(closingByPrefix(balances, lastMonth, "20")) +
		math.Abs(closingByPrefix(balances, lastMonth, "21"))
	cogs := absFlowInBand(ledger, cogsBandStart, cogsBandEnd)
	if cogs > 0 {
		k.SupplierDays = k.SupplierBalance / (cogs / daysPerYear)
	}

	return k
}

func closingByPrefix(balances []model.MonthlyBalance, month int, prefix string) float64 {
	var sum float64
	for _, b := range balances {
		if b.Month != month {
			continue
		}
		if strings.HasPrefix(strconv.Itoa(b.AccountKey), prefix) {
			sum += b.ClosingBalance
		}
	}
	return sum
}

func absFlowInBand(ledger []model.LedgerEntry, lo, hi int) float64 {
	var sum float64
	for _, tx := range ledger {
		if tx.SortCode >= lo && tx.SortCode < hi {
			sum += math.Abs(tx.Amount)
		}
	}
	return sum
}
