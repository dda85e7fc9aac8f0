package compare_test

import (
	"math"
	"testing"

	"hashav/reconcile/compare"
	"hashav/reconcile/model"
)

func TestCompare_LedgerOnlyAccount(t *testing.T) {
	ledger := []model.LedgerEntry{
		{AccountKey: 1001, AccountName: "לקוח א", Amount: 500, Month: 1},
	}

	result := compare.Compare(ledger, nil, []int{1})

	if len(result.Records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(result.Records))
	}
	r := result.Records[0]
	if r.LedgerTotal != 500 {
		t.Errorf("Expected ledgerTotal 500, got %v", r.LedgerTotal)
	}
	if r.BalanceTotal != 0 {
		t.Errorf("Expected balanceTotal 0, got %v", r.BalanceTotal)
	}
	if r.Difference != 500 {
		t.Errorf("Expected difference 500, got %v", r.Difference)
	}
	if r.MatchRate != 0 {
		t.Errorf("Expected matchRate 0, got %v", r.MatchRate)
	}
}

func TestCompare_MatchingAccount(t *testing.T) {
	ledger := []model.LedgerEntry{
		{AccountKey: 2000, Amount: 700, Month: 1},
		{AccountKey: 2000, Amount: 500, Month: 2},
	}
	balances := []model.TrialBalanceRow{
		{AccountKey: 2000, MonthlyTotals: map[int]float64{1: 700, 2: 500}},
	}

	result := compare.Compare(ledger, balances, []int{1, 2})

	if len(result.Records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(result.Records))
	}
	r := result.Records[0]
	if r.Difference != 0 {
		t.Errorf("Expected difference 0, got %v", r.Difference)
	}
	if r.MatchRate != 100 {
		t.Errorf("Expected matchRate 100, got %v", r.MatchRate)
	}
}

func TestCompare_UnionOfAccountKeys(t *testing.T) {
	ledger := []model.LedgerEntry{
		{AccountKey: 100, Amount: 10, Month: 1},
	}
	balances := []model.TrialBalanceRow{
		{AccountKey: 200, MonthlyTotals: map[int]float64{1: 20}},
	}

	result := compare.Compare(ledger, balances, []int{1})

	if len(result.Records) != 2 {
		t.Fatalf("Expected records for both accounts, got %d", len(result.Records))
	}
	if result.Records[0].AccountKey != 100 || result.Records[1].AccountKey != 200 {
		t.Errorf("Expected records sorted by account key, got %d then %d",
			result.Records[0].AccountKey, result.Records[1].AccountKey)
	}
}

func TestCompare_MatchRateBounds(t *testing.T) {
	ledger := []model.LedgerEntry{
		{AccountKey: 1, Amount: 1000000, Month: 1},
		{AccountKey: 2, Amount: -50, Month: 1},
		{AccountKey: 3, Amount: 0, Month: 1},
	}
	balances := []model.TrialBalanceRow{
		{AccountKey: 1, MonthlyTotals: map[int]float64{1: 10}},
		{AccountKey: 2, MonthlyTotals: map[int]float64{1: 49}},
		{AccountKey: 3, MonthlyTotals: map[int]float64{1: 0}},
	}

	result := compare.Compare(ledger, balances, []int{1})

	for _, r := range result.Records {
		if r.MatchRate < 0 || r.MatchRate > 100 {
			t.Errorf("matchRate out of bounds for account %d: %v", r.AccountKey, r.MatchRate)
		}
	}
}

func TestCompare_BothZeroIsFullMatch(t *testing.T) {
	balances := []model.TrialBalanceRow{
		{AccountKey: 42, MonthlyTotals: map[int]float64{1: 0}},
	}

	result := compare.Compare(nil, balances, []int{1})

	if len(result.Records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(result.Records))
	}
	if result.Records[0].MatchRate != 100 {
		t.Errorf("Expected matchRate 100 for zero/zero account, got %v", result.Records[0].MatchRate)
	}
}

func TestCompare_NonFiniteAmountsExcluded(t *testing.T) {
	ledger := []model.LedgerEntry{
		{AccountKey: 1, Amount: math.NaN(), Month: 1},
		{AccountKey: 1, Amount: math.Inf(1), Month: 1},
		{AccountKey: 1, Amount: 100, Month: 1},
	}

	result := compare.Compare(ledger, nil, []int{1})

	if result.ExcludedCount != 2 {
		t.Errorf("Expected 2 excluded entries, got %d", result.ExcludedCount)
	}
	if len(result.Diagnostics) != 2 {
		t.Errorf("Expected 2 diagnostics, got %d", len(result.Diagnostics))
	}
	if len(result.Records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(result.Records))
	}
	if result.Records[0].LedgerTotal != 100 {
		t.Errorf("Non-finite amounts must not enter totals, got %v", result.Records[0].LedgerTotal)
	}
}

func TestCompare_NonFiniteBalanceTotalsExcluded(t *testing.T) {
	balances := []model.TrialBalanceRow{
		{AccountKey: 7, MonthlyTotals: map[int]float64{1: math.NaN(), 2: 300}},
		{AccountKey: 8, MonthlyTotals: map[int]float64{1: math.Inf(-1), 2: math.Inf(1)}},
	}

	result := compare.Compare(nil, balances, []int{1, 2})

	if result.ExcludedCount != 3 {
		t.Errorf("Expected 3 excluded balance amounts, got %d", result.ExcludedCount)
	}
	if len(result.Diagnostics) != 3 {
		t.Errorf("Expected a diagnostic per excluded amount, got %d", len(result.Diagnostics))
	}

	if len(result.Records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(result.Records))
	}
	for _, r := range result.Records {
		if math.IsNaN(r.MatchRate) || r.MatchRate < 0 || r.MatchRate > 100 {
			t.Errorf("matchRate invariant violated for account %d: %v", r.AccountKey, r.MatchRate)
		}
		if math.IsNaN(r.BalanceTotal) || math.IsInf(r.BalanceTotal, 0) {
			t.Errorf("Non-finite amounts must not enter balanceTotal, got %v for account %d", r.BalanceTotal, r.AccountKey)
		}
		if math.IsNaN(r.Difference) || math.IsInf(r.Difference, 0) {
			t.Errorf("Non-finite amounts must not enter difference, got %v for account %d", r.Difference, r.AccountKey)
		}
	}

	if result.Records[0].BalanceTotal != 300 {
		t.Errorf("Expected account 7 balanceTotal 300 with the NaN month dropped, got %v", result.Records[0].BalanceTotal)
	}
	if result.Records[0].Monthly[0].Balance != 0 {
		t.Errorf("Excluded month must compare as zero, got %v", result.Records[0].Monthly[0].Balance)
	}
}

func TestCompare_MonthlyBreakdown(t *testing.T) {
	ledger := []model.LedgerEntry{
		{AccountKey: 5, Amount: 100, Month: 1},
		{AccountKey: 5, Amount: 200, Month: 2},
	}
	balances := []model.TrialBalanceRow{
		{AccountKey: 5, MonthlyTotals: map[int]float64{1: 100, 2: 150}},
	}

	result := compare.Compare(ledger, balances, []int{1, 2})

	r := result.Records[0]
	if len(r.Monthly) != 2 {
		t.Fatalf("Expected 2 monthly rows, got %d", len(r.Monthly))
	}
	if r.Monthly[0].Diff != 0 {
		t.Errorf("Expected month 1 diff 0, got %v", r.Monthly[0].Diff)
	}
	if r.Monthly[1].Diff != 50 {
		t.Errorf("Expected month 2 diff 50, got %v", r.Monthly[1].Diff)
	}
}

func TestCompare_InactiveMonthsIgnoredInBalanceTotal(t *testing.T) {
	balances := []model.TrialBalanceRow{
		{AccountKey: 9, MonthlyTotals: map[int]float64{1: 100, 12: 999}},
	}

	result := compare.Compare(nil, balances, []int{1})

	if result.Records[0].BalanceTotal != 100 {
		t.Errorf("Expected balanceTotal to sum active months only, got %v", result.Records[0].BalanceTotal)
	}
}
