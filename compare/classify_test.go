package compare_test

import (
	"fmt"
	"testing"

	"hashav/reconcile/compare"
)

func record(key int, difference float64) compare.Record {
	return compare.Record{
		AccountKey:  key,
		AccountName: fmt.Sprintf("account %d", key),
		LedgerTotal: difference,
		Difference:  difference,
	}
}

func TestClassify_CriticalBoundaryIsStrict(t *testing.T) {
	classifier := compare.NewClassifier()

	result := classifier.Classify([]compare.Record{record(1, 10000.00)})
	if result.Summary.CriticalCount != 0 {
		t.Errorf("difference of exactly 10000.00 must not be critical")
	}
	if result.Summary.WarningCount != 1 {
		t.Errorf("difference of exactly 10000.00 should be a warning, got %+v", result.Summary)
	}

	result = classifier.Classify([]compare.Record{record(1, 10000.01)})
	if result.Summary.CriticalCount != 1 {
		t.Errorf("difference of 10000.01 must be critical, got %+v", result.Summary)
	}
}

func TestClassify_EpsilonIsNotDiscrepant(t *testing.T) {
	classifier := compare.NewClassifier()

	result := classifier.Classify([]compare.Record{record(1, 0.01), record(2, -0.01)})

	if result.Summary.DiscrepantAccounts != 0 {
		t.Errorf("differences within epsilon must not be discrepant, got %d", result.Summary.DiscrepantAccounts)
	}
	if result.Summary.MatchRate != 100 {
		t.Errorf("Expected matchRate 100, got %v", result.Summary.MatchRate)
	}
}

func TestClassify_SeverityBands(t *testing.T) {
	classifier := compare.NewClassifier()

	result := classifier.Classify([]compare.Record{
		record(1, 500),      // info
		record(2, 1000.01),  // warning
		record(3, -20000),   // critical
	})

	s := result.Summary
	if s.InfoCount != 1 || s.WarningCount != 1 || s.CriticalCount != 1 {
		t.Errorf("Expected one finding per band, got %+v", s)
	}
	if s.DiscrepantAccounts != 3 {
		t.Errorf("Expected 3 discrepant accounts, got %d", s.DiscrepantAccounts)
	}
	if s.TotalDiscrepancyAmount != 500+1000.01+20000 {
		t.Errorf("Expected absolute discrepancy sum, got %v", s.TotalDiscrepancyAmount)
	}
}

func TestClassify_AlertOrdering(t *testing.T) {
	classifier := compare.NewClassifier()

	result := classifier.Classify([]compare.Record{
		record(1, 2000),
		record(2, 50000),
		record(3, 3000),
	})

	if len(result.Alerts) < 3 {
		t.Fatalf("Expected at least 3 alerts, got %d", len(result.Alerts))
	}
	if result.Alerts[0].Severity != compare.SeverityCritical {
		t.Errorf("Expected critical alert first, got %s", result.Alerts[0].Severity)
	}
	for i := 1; i < len(result.Alerts); i++ {
		if result.Alerts[i-1].Severity == compare.SeverityWarning && result.Alerts[i].Severity == compare.SeverityCritical {
			t.Errorf("Alerts out of severity order at index %d", i)
		}
	}
}

func TestClassify_WarningAlertCap(t *testing.T) {
	classifier := compare.NewClassifier()
	classifier.WarningAlertLimit = 2

	var records []compare.Record
	for i := 0; i < 10; i++ {
		records = append(records, record(i+1, 5000))
	}

	result := classifier.Classify(records)

	warnings := 0
	for _, a := range result.Alerts {
		if a.Category == "discrepancy" && a.Severity == compare.SeverityWarning {
			warnings++
		}
	}
	if warnings != 2 {
		t.Errorf("Expected warning alerts capped at 2, got %d", warnings)
	}
	// The cap is presentation only; the summary still counts everything.
	if result.Summary.WarningCount != 10 {
		t.Errorf("Expected summary to count all 10 warnings, got %d", result.Summary.WarningCount)
	}
}

func TestClassify_ByCodeRollup(t *testing.T) {
	classifier := compare.NewClassifier()

	records := []compare.Record{
		{AccountKey: 1, SortCode: 100, SortCodeName: "לקוחות", Difference: 300},
		{AccountKey: 2, SortCode: 100, SortCodeName: "לקוחות", Difference: -200},
		{AccountKey: 3, SortCode: 200, SortCodeName: "ספקים", Difference: 1500},
		{AccountKey: 4, SortCode: 300, SortCodeName: "מלאי", Difference: 0},
	}

	result := classifier.Classify(records)

	if len(result.ByCode) != 2 {
		t.Fatalf("Expected 2 code rollups (zero-diff code excluded), got %d", len(result.ByCode))
	}
	if result.ByCode[0].Code != 200 {
		t.Errorf("Expected rollups sorted by amount desc, got code %d first", result.ByCode[0].Code)
	}
	if result.ByCode[1].Amount != 500 {
		t.Errorf("Expected code 100 rollup amount 500, got %v", result.ByCode[1].Amount)
	}
	totalPct := result.ByCode[0].Percentage + result.ByCode[1].Percentage
	if totalPct < 99.99 || totalPct > 100.01 {
		t.Errorf("Expected percentages to sum to 100, got %v", totalPct)
	}
}

func TestClassify_LowMatchRateMonthAlert(t *testing.T) {
	classifier := compare.NewClassifier()

	// Five accounts, all discrepant in month 1: month match rate 0%.
	var records []compare.Record
	for i := 0; i < 5; i++ {
		records = append(records, compare.Record{
			AccountKey: i + 1,
			Difference: 200,
			Monthly:    []compare.MonthlyComparison{{Month: 1, Ledger: 200, Balance: 0, Diff: 200}},
		})
	}

	result := classifier.Classify(records)

	found := false
	for _, a := range result.Alerts {
		if a.Category == "trend" && a.Month == 1 {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected a low match-rate alert for month 1, alerts: %+v", result.Alerts)
	}
}

func TestClassify_EmptyInput(t *testing.T) {
	classifier := compare.NewClassifier()

	result := classifier.Classify(nil)

	if result.Summary.TotalAccounts != 0 {
		t.Errorf("Expected zero accounts, got %d", result.Summary.TotalAccounts)
	}
	if result.Summary.MatchRate != 100 {
		t.Errorf("Expected matchRate 100 for empty input, got %v", result.Summary.MatchRate)
	}
	if len(result.Alerts) != 0 {
		t.Errorf("Expected no alerts, got %d", len(result.Alerts))
	}
}
