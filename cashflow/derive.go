package cashflow

import (
	"math"

	"hashav/reconcile/model"
)

// Statement is an indirect-method cash-flow statement for one month.
// All amounts are signed; the presentation layer formats them.
type Statement struct {
	Month int `json:"month"`
	Year  int `json:"year"`

	// NetIncome is a heuristic proxy derived from balance movements
	// (cash+customers-suppliers), not an audited P&L figure.
	NetIncome float64 `json:"netIncome"`

	Depreciation             float64 `json:"depreciation"`
	AccountsReceivableChange float64 `json:"accountsReceivableChange"`
	InventoryChange          float64 `json:"inventoryChange"`
	AccountsPayableChange    float64 `json:"accountsPayableChange"`
	OtherOperating           float64 `json:"otherOperating"`
	OperatingCashFlow        float64 `json:"operatingCashFlow"`

	PropertyPurchase  float64 `json:"propertyPurchase"`
	PropertySale      float64 `json:"propertySale"`
	InvestingCashFlow float64 `json:"investingCashFlow"`

	LoanProceeds      float64 `json:"loanProceeds"`
	LoanRepayments    float64 `json:"loanRepayments"`
	FinancingCashFlow float64 `json:"financingCashFlow"`

	NetCashChange float64 `json:"netCashChange"`
	OpeningCash   float64 `json:"openingCash"`
	ClosingCash   float64 `json:"closingCash"`

	// ReconciliationWarning is set when the three components do not sum
	// to NetCashChange within tolerance. The decomposition approximates a
	// true indirect-method statement; a mismatch is surfaced, never hidden.
	ReconciliationWarning bool    `json:"reconciliationWarning"`
	ReconciliationGap     float64 `json:"reconciliationGap"`
}

// MonthlySummary is one month's cash-flow trend point.
type MonthlySummary struct {
	Month          int     `json:"month"`
	Year           int     `json:"year"`
	Operating      float64 `json:"operating"`
	Investing      float64 `json:"investing"`
	Financing      float64 `json:"financing"`
	NetChange      float64 `json:"netChange"`
	ClosingBalance float64 `json:"closingBalance"`
}

type bucketTotals struct {
	change  float64
	opening float64
	closing float64
}

// Derive computes the cash-flow statement for the target month from
// monthly balances, classified into buckets by the injected table.
func Derive(balances []model.MonthlyBalance, month int, table Classification) Statement {
	totals := make(map[Bucket]*bucketTotals, len(bucketOrder))
	for _, b := range bucketOrder {
		totals[b] = &bucketTotals{}
	}

	var year int
	for _, b := range balances {
		if b.Month != month {
			continue
		}
		if year == 0 {
			year = b.Year
		}
		bucket, ok := table.BucketFor(b.AccountKey)
		if !ok {
			continue
		}
		t := totals[bucket]
		t.change += b.Change
		t.opening += b.OpeningBalance
		t.closing += b.ClosingBalance
	}

	customers := totals[BucketCustomers].change
	suppliers := totals[BucketSuppliers].change
	inventory := totals[BucketInventory].change
	cashBank := totals[BucketCash].change + totals[BucketBank].change
	fixedAssets := totals[BucketFixedAssets].change
	loans := totals[BucketLoans].change

	netIncome := cashBank + customers - suppliers

	st := Statement{
		Month:                    month,
		Year:                     year,
		NetIncome:                netIncome,
		AccountsReceivableChange: customers,
		InventoryChange:          inventory,
		AccountsPayableChange:    suppliers,
		OperatingCashFlow:        netIncome - customers + suppliers - inventory,
		InvestingCashFlow:        -fixedAssets,
		FinancingCashFlow:        loans,
		OpeningCash:              totals[BucketCash].opening + totals[BucketBank].opening,
		ClosingCash:              totals[BucketCash].closing + totals[BucketBank].closing,
	}

	if fixedAssets > 0 {
		st.PropertyPurchase = fixedAssets
	} else {
		st.PropertySale = -fixedAssets
	}
	if loans > 0 {
		st.LoanProceeds = loans
	} else {
		st.LoanRepayments = -loans
	}

	st.NetCashChange = st.ClosingCash - st.OpeningCash

	st.ReconciliationGap = st.OperatingCashFlow + st.InvestingCashFlow + st.FinancingCashFlow - st.NetCashChange
	st.ReconciliationWarning = math.Abs(st.ReconciliationGap) > model.AmountEpsilon

	return st
}

// MonthlySummaries computes the per-month trend series over activeMonths.
func MonthlySummaries(balances []model.MonthlyBalance, activeMonths []int, year int, table Classification) []MonthlySummary {
	summaries := make([]MonthlySummary, 0, len(activeMonths))

	for _, month := range activeMonths {
		var s MonthlySummary
		s.Month = month
		s.Year = year

		var customers, suppliers float64
		for _, b := range balances {
			if b.Month != month {
				continue
			}
			s.NetChange += b.Change

			bucket, ok := table.BucketFor(b.AccountKey)
			if !ok {
				continue
			}
			switch bucket {
			case BucketCash, BucketBank:
				s.ClosingBalance += b.ClosingBalance
			case BucketCustomers:
				customers += b.Change
			case BucketSuppliers:
				suppliers += b.Change
			}
		}
		s.Operating = suppliers - customers
		summaries = append(summaries, s)
	}

	return summaries
}
