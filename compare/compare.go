// Package compare joins ledger transactions with trial-balance rows and
// classifies the resulting discrepancies.
package compare

import (
	"fmt"
	"math"
	"sort"

	"hashav/reconcile/model"
)

// Record is the per-account comparison of ledger totals against the
// trial balance. Derived and ephemeral: recomputed from scratch on every
// input change.
type Record struct {
	AccountKey   int                `json:"accountKey"`
	AccountName  string             `json:"accountName"`
	SortCode     int                `json:"sortCode"`
	SortCodeName string             `json:"sortCodeName"`
	LedgerTotal  float64            `json:"ledgerTotal"`
	BalanceTotal float64            `json:"balanceTotal"`
	Difference   float64            `json:"difference"`
	MatchRate    float64            `json:"matchRate"`
	Monthly      []MonthlyComparison `json:"monthly"`
}

// MonthlyComparison is one month's slice of a Record.
type MonthlyComparison struct {
	Month   int     `json:"month"`
	Ledger  float64 `json:"ledger"`
	Balance float64 `json:"balance"`
	Diff    float64 `json:"diff"`
}

// Diagnostic reports an input excluded from aggregation for data-quality
// reasons. Excluded values never enter any total.
type Diagnostic struct {
	AccountKey int    `json:"accountKey"`
	Month      int    `json:"month"`
	Reason     string `json:"reason"`
}

// Comparison is the full output of Compare.
type Comparison struct {
	Records     []Record     `json:"records"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
	// ExcludedCount is the number of input amounts, ledger or balance,
	// dropped for data-quality reasons. Pending a product decision these
	// only reduce counts; they never appear as an "unclassified" total.
	ExcludedCount int `json:"excludedCount"`
}

type accountAgg struct {
	accountName  string
	sortCode     int
	sortCodeName string
	monthly      map[int]float64
	total        float64
}

// Compare joins ledger entries with trial-balance rows per account.
// Accounts present in only one input appear with the other total at zero.
// Trial-balance totals sum only over activeMonths. Output is sorted by
// account key, so identical inputs in any order produce identical output.
func Compare(ledger []model.LedgerEntry, balances []model.TrialBalanceRow, activeMonths []int) Comparison {
	byAccount := make(map[int]*accountAgg)
	var diags []Diagnostic

	for _, tx := range ledger {
		if math.IsNaN(tx.Amount) || math.IsInf(tx.Amount, 0) {
			diags = append(diags, Diagnostic{
				AccountKey: tx.AccountKey,
				Month:      tx.Month,
				Reason:     fmt.Sprintf("non-finite amount %v", tx.Amount),
			})
			continue
		}

		agg, ok := byAccount[tx.AccountKey]
		if !ok {
			agg = &accountAgg{
				accountName:  tx.AccountName,
				sortCode:     tx.SortCode,
				sortCodeName: tx.SortCodeName,
				monthly:      make(map[int]float64),
			}
			byAccount[tx.AccountKey] = agg
		}
		agg.monthly[tx.Month] += tx.Amount
		agg.total += tx.Amount
	}

	balanceByAccount := make(map[int]model.TrialBalanceRow, len(balances))
	for _, row := range balances {
		balanceByAccount[row.AccountKey] = row
	}

	keySet := make(map[int]struct{}, len(byAccount)+len(balanceByAccount))
	for k := range byAccount {
		keySet[k] = struct{}{}
	}
	for k := range balanceByAccount {
		keySet[k] = struct{}{}
	}
	keys := make([]int, 0, len(keySet))
	for k := range keySet {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	records := make([]Record, 0, len(keys))
	for _, key := range keys {
		agg := byAccount[key]
		row, hasRow := balanceByAccount[key]

		var ledgerTotal float64
		if agg != nil {
			ledgerTotal = agg.total
		}

		// Balance amounts get the same data-quality guard as ledger
		// entries: a non-finite monthly total is excluded from every sum
		// and surfaced as a diagnostic.
		var balanceTotal float64
		monthlyBalance := make(map[int]float64, len(activeMonths))
		if hasRow {
			for _, month := range activeMonths {
				v := row.MonthlyTotals[month]
				if math.IsNaN(v) || math.IsInf(v, 0) {
					diags = append(diags, Diagnostic{
						AccountKey: key,
						Month:      month,
						Reason:     fmt.Sprintf("non-finite amount %v", v),
					})
					continue
				}
				monthlyBalance[month] = v
				balanceTotal += v
			}
		}

		monthly := make([]MonthlyComparison, 0, len(activeMonths))
		for _, month := range activeMonths {
			var l, b float64
			if agg != nil {
				l = agg.monthly[month]
			}
			b = monthlyBalance[month]
			monthly = append(monthly, MonthlyComparison{
				Month:   month,
				Ledger:  l,
				Balance: b,
				Diff:    l - b,
			})
		}

		rec := Record{
			AccountKey:   key,
			LedgerTotal:  ledgerTotal,
			BalanceTotal: balanceTotal,
			Difference:   ledgerTotal - balanceTotal,
			MatchRate:    matchRate(ledgerTotal, balanceTotal),
			Monthly:      monthly,
		}
		if agg != nil {
			rec.AccountName = agg.accountName
			rec.SortCode = agg.sortCode
			rec.SortCodeName = agg.sortCodeName
		}
		if rec.AccountName == "" && hasRow {
			rec.AccountName = row.AccountName
		}
		if rec.SortCode == 0 && hasRow {
			rec.SortCode = row.SortCode
			rec.SortCodeName = row.SortCodeName
		}
		records = append(records, rec)
	}

	return Comparison{
		Records:       records,
		Diagnostics:   diags,
		ExcludedCount: len(diags),
	}
}

// matchRate expresses ledger/balance agreement as a percentage in [0,100].
func matchRate(ledgerTotal, balanceTotal float64) float64 {
	if balanceTotal != 0 {
		return math.Max(0, 100-math.Abs(ledgerTotal-balanceTotal)/math.Abs(balanceTotal)*100)
	}
	if ledgerTotal == 0 {
		return 100
	}
	return 0
}
