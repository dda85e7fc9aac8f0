package ingest

import (
	"context"
	"fmt"
	"sort"

	"hashav/reconcile/appcontext"
	"hashav/reconcile/csvfile"
	"hashav/reconcile/mapping"
	"hashav/reconcile/model"
)

// LoadLedger reads a ledger export into entries. Rows with an unusable
// date or amount are skipped with a warning, matching the tolerance the
// rest of the pipeline has for partially broken exports.
func LoadLedger(ctx context.Context, filePath string) ([]model.LedgerEntry, error) {
	logger := appcontext.LoggerFromContext(ctx)

	table, err := parseTable(ctx, filePath)
	if err != nil {
		return nil, err
	}
	rows, err := mapRows(table, mapping.TransactionFields, mapping.RequiredTransactionFields)
	if err != nil {
		return nil, fmt.Errorf("ledger file %s: %w", filePath, err)
	}

	var entries []model.LedgerEntry
	for _, row := range rows {
		date, ok := csvfile.ParseDate(row["transaction_date"])
		if !ok {
			logger.WarnContext(ctx, "Skipping record with invalid date format", "date", row["transaction_date"])
			continue
		}
		amount, ok := csvfile.ParseAmount(row["amount"])
		if !ok {
			logger.WarnContext(ctx, "Skipping record with invalid amount format", "amount", row["amount"])
			continue
		}
		month, _ := csvfile.MonthOfDate(date)
		year, _ := csvfile.YearOfDate(date)

		entries = append(entries, model.LedgerEntry{
			AccountKey:   atoi(row["account_key"]),
			AccountName:  row["account_name"],
			SortCode:     atoi(row["sort_code"]),
			SortCodeName: row["sort_code_name"],
			Amount:       amount,
			Month:        month,
			Year:         year,
		})
	}

	return entries, nil
}

// LoadTrialBalance reads a trial-balance export, one row per account per
// month, into per-account rows with monthly totals.
func LoadTrialBalance(ctx context.Context, filePath string) ([]model.TrialBalanceRow, error) {
	logger := appcontext.LoggerFromContext(ctx)

	table, err := parseTable(ctx, filePath)
	if err != nil {
		return nil, err
	}
	rows, err := mapRows(table, mapping.TrialBalanceFields, mapping.RequiredTrialBalanceFields)
	if err != nil {
		return nil, fmt.Errorf("trial balance file %s: %w", filePath, err)
	}

	byAccount := make(map[int]*model.TrialBalanceRow)
	for _, row := range rows {
		month := atoi(row["month"])
		if month < 1 || month > 12 {
			logger.WarnContext(ctx, "Skipping record with invalid month", "month", row["month"])
			continue
		}
		amount, ok := csvfile.ParseAmount(row["amount"])
		if !ok {
			logger.WarnContext(ctx, "Skipping record with invalid amount format", "amount", row["amount"])
			continue
		}

		key := atoi(row["account_key"])
		tb, exists := byAccount[key]
		if !exists {
			tb = &model.TrialBalanceRow{
				AccountKey:    key,
				AccountName:   row["account_name"],
				SortCode:      atoi(row["sort_code"]),
				SortCodeName:  row["sort_code_name"],
				MonthlyTotals: make(map[int]float64),
			}
			byAccount[key] = tb
		}
		tb.MonthlyTotals[month] += amount
	}

	out := make([]model.TrialBalanceRow, 0, len(byAccount))
	for _, tb := range byAccount {
		out = append(out, *tb)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountKey < out[j].AccountKey })

	return out, nil
}

// LoadBalances reads a monthly-balance export into per-account balance
// rows. Change is derived from the opening and closing columns.
func LoadBalances(ctx context.Context, filePath string) ([]model.MonthlyBalance, error) {
	logger := appcontext.LoggerFromContext(ctx)

	table, err := parseTable(ctx, filePath)
	if err != nil {
		return nil, err
	}
	rows, err := mapRows(table, mapping.BalanceFields, mapping.RequiredBalanceFields)
	if err != nil {
		return nil, fmt.Errorf("balance file %s: %w", filePath, err)
	}

	var balances []model.MonthlyBalance
	for _, row := range rows {
		month := atoi(row["month"])
		if month < 1 || month > 12 {
			logger.WarnContext(ctx, "Skipping record with invalid month", "month", row["month"])
			continue
		}
		opening, _ := csvfile.ParseAmount(row["opening_balance"])
		closing, _ := csvfile.ParseAmount(row["closing_balance"])

		balances = append(balances, model.MonthlyBalance{
			AccountKey:     atoi(row["account_key"]),
			AccountName:    row["account_name"],
			Month:          month,
			Year:           atoi(row["year"]),
			OpeningBalance: opening,
			ClosingBalance: closing,
			Change:         closing - opening,
		})
	}

	return balances, nil
}

// ActiveMonths returns the sorted distinct months present in the ledger
// and trial balance.
func ActiveMonths(ledger []model.LedgerEntry, balances []model.TrialBalanceRow) []int {
	seen := make(map[int]bool)
	for _, e := range ledger {
		if e.Month >= 1 && e.Month <= 12 {
			seen[e.Month] = true
		}
	}
	for _, tb := range balances {
		for month, amount := range tb.MonthlyTotals {
			if amount != 0 {
				seen[month] = true
			}
		}
	}

	months := make([]int, 0, len(seen))
	for m := range seen {
		months = append(months, m)
	}
	sort.Ints(months)
	return months
}
