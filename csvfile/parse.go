package csvfile

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts monetary cell text to a float. Export cells carry
// thousands separators and occasionally a currency marker; parsing goes
// through decimal so grouped values survive exactly before the engines'
// float math takes over. The second return is false for empty or
// unparseable cells.
func ParseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "₪")
	s = strings.TrimSuffix(s, "₪")
	s = strings.TrimSuffix(s, "NIS")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	f, _ := d.Float64()
	return f, true
}

// ParseDate normalizes a date cell to YYYY-MM-DD. Exports use DD/MM/YYYY;
// already-normalized values pass through. The second return is false when
// the text matches neither shape.
func ParseDate(s string) (string, bool) {
	s = strings.TrimSpace(s)

	var day, month, year int
	if n, _ := fmt.Sscanf(s, "%d/%d/%d", &day, &month, &year); n == 3 {
		if month < 1 || month > 12 || day < 1 || day > 31 {
			return "", false
		}
		return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
	}
	if n, _ := fmt.Sscanf(s, "%d-%d-%d", &year, &month, &day); n == 3 {
		if month < 1 || month > 12 || day < 1 || day > 31 {
			return "", false
		}
		return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
	}

	return "", false
}

// MonthOfDate extracts the month from a normalized YYYY-MM-DD date.
func MonthOfDate(date string) (int, bool) {
	var year, month, day int
	if n, _ := fmt.Sscanf(date, "%d-%d-%d", &year, &month, &day); n != 3 {
		return 0, false
	}
	if month < 1 || month > 12 {
		return 0, false
	}
	return month, true
}

// YearOfDate extracts the year from a normalized YYYY-MM-DD date.
func YearOfDate(date string) (int, bool) {
	var year, month, day int
	if n, _ := fmt.Sscanf(date, "%d-%d-%d", &year, &month, &day); n != 3 {
		return 0, false
	}
	return year, true
}
