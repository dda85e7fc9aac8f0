// Package synthetic generates deterministic Hashavshevet-style export
// files for local runs and demos.
package synthetic

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"hashav/reconcile/model"
)

// Fixed seed keeps runs reproducible.
const seed = 1

// account is one synthetic account card; the generators derive every
// export file from the same set so the files reconcile against each other.
type account struct {
	key      int
	name     string
	sortCode int
}

func syntheticAccounts(rows int) []account {
	prefixes := []struct {
		base     int
		name     string
		sortCode int
	}{
		{10000, "קופה", 100},
		{13000, "בנק לאומי עוש", 110},
		{16000, "לקוח", 100},
		{20000, "ספק", 200},
		{18000, "מלאי", 300},
		{25000, "הלוואה", 400},
		{60000, "הכנסות", 600},
		{80000, "הוצאות", 800},
	}

	accounts := make([]account, 0, rows)
	for i := 0; i < rows; i++ {
		p := prefixes[i%len(prefixes)]
		accounts = append(accounts, account{
			key:      p.base + i,
			name:     fmt.Sprintf("%s %d", p.name, i+1),
			sortCode: p.sortCode,
		})
	}
	return accounts
}

// GenerateSyntheticData writes one deterministic set of export files
// (sort codes, account index, ledger, trial balance, monthly balances)
// into dir. Filenames carry the tokens the ingestion kind detector keys
// on.
func GenerateSyntheticData(rows int, dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory '%s': %w", dir, err)
		}
	}

	rng := rand.New(rand.NewSource(seed))
	accounts := syntheticAccounts(rows)

	if err := writeSortCodes(dir); err != nil {
		return err
	}
	if err := writeAccounts(dir, accounts); err != nil {
		return err
	}
	if err := writeLedger(dir, accounts, rng); err != nil {
		return err
	}
	if err := writeTrialBalance(dir, accounts, rng); err != nil {
		return err
	}
	if err := writeBalances(dir, accounts, rng); err != nil {
		return err
	}

	return nil
}

func writeCSV(dir, name string, header []string, rows [][]string) error {
	filePath := filepath.Join(dir, name)
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file '%s': %w", filePath, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	return nil
}

func writeSortCodes(dir string) error {
	codes := []struct {
		code int
		name string
	}{
		{100, "לקוחות"},
		{110, "בנקים"},
		{200, "ספקים"},
		{300, "מלאי"},
		{400, "הלוואות"},
		{600, "הכנסות"},
		{800, "הוצאות הנהלה"},
	}

	rows := make([][]string, 0, len(codes))
	for i, c := range codes {
		rows = append(rows, []string{
			fmt.Sprintf("%d", c.code),
			c.name,
			"",
			fmt.Sprintf("%d", i+1),
		})
	}

	return writeCSV(dir, "sort-codes.csv", []string{"קוד מיון", "שם קוד מיון", "קוד אב", "סדר"}, rows)
}

func writeAccounts(dir string, accounts []account) error {
	rows := make([][]string, 0, len(accounts))
	for _, a := range accounts {
		rows = append(rows, []string{
			fmt.Sprintf("%d", a.key),
			a.name,
			fmt.Sprintf("%d", a.sortCode),
			string(model.AccountTypeForSortCode(a.sortCode)),
		})
	}

	return writeCSV(dir, "accounts-index.csv", []string{"מפתח", "שם", "קוד מיון", "סוג"}, rows)
}

func writeLedger(dir string, accounts []account, rng *rand.Rand) error {
	var rows [][]string
	for _, a := range accounts {
		for month := 1; month <= 3; month++ {
			amount := float64(int(rng.Float64()*100000)) / 100
			rows = append(rows, []string{
				fmt.Sprintf("%d", a.key),
				a.name,
				fmt.Sprintf("%d", a.sortCode),
				fmt.Sprintf("%.2f", amount),
				fmt.Sprintf("%02d/%02d/2025", 1+rng.Intn(28), month),
			})
		}
	}

	return writeCSV(dir, "ledger-transactions.csv",
		[]string{"מפתח חשבון", "שם חשבון", "קוד מיון", "סכום", "תאריך"}, rows)
}

func writeTrialBalance(dir string, accounts []account, rng *rand.Rand) error {
	var rows [][]string
	for _, a := range accounts {
		for month := 1; month <= 3; month++ {
			amount := float64(int(rng.Float64()*100000)) / 100
			rows = append(rows, []string{
				fmt.Sprintf("%d", a.key),
				a.name,
				fmt.Sprintf("%d", a.sortCode),
				fmt.Sprintf("%d", month),
				fmt.Sprintf("%.2f", amount),
			})
		}
	}

	return writeCSV(dir, "trial-balance.csv",
		[]string{"מפתח חשבון", "שם חשבון", "קוד מיון", "חודש", "סכום"}, rows)
}

func writeBalances(dir string, accounts []account, rng *rand.Rand) error {
	var rows [][]string
	for _, a := range accounts {
		opening := float64(int(rng.Float64()*1000000)) / 100
		for month := 1; month <= 3; month++ {
			closing := opening + float64(int((rng.Float64()-0.5)*50000))/100
			rows = append(rows, []string{
				fmt.Sprintf("%d", a.key),
				a.name,
				fmt.Sprintf("%d", month),
				"2025",
				fmt.Sprintf("%.2f", opening),
				fmt.Sprintf("%.2f", closing),
			})
			opening = closing
		}
	}

	return writeCSV(dir, "monthly-balances.csv",
		[]string{"מפתח חשבון", "שם חשבון", "חודש", "שנה", "יתרת פתיחה", "יתרת סגירה"}, rows)
}
