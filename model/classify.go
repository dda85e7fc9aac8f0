package model

// ReportType maps a sort code into a report section.
type ReportType string

const (
	ReportIncome    ReportType = "income"
	ReportCOGS      ReportType = "cogs"
	ReportOperating ReportType = "operating"
	ReportFinancial ReportType = "financial"
	ReportOther     ReportType = "other"
)

// AccountType classifies an account card.
type AccountType string

const (
	AccountCustomer  AccountType = "customer"
	AccountSupplier  AccountType = "supplier"
	AccountBank      AccountType = "bank"
	AccountCash      AccountType = "cash"
	AccountExpense   AccountType = "expense"
	AccountIncome    AccountType = "income"
	AccountAsset     AccountType = "asset"
	AccountLiability AccountType = "liability"
	AccountEquity    AccountType = "equity"
	AccountOther     AccountType = "other"
)

// ReportTypeForCode maps a Hashavshevet sort code into its report section.
// Sort codes are banded: 600s income, 700s cost of goods sold, 800s
// operating expenses, 900 and up financial.
func ReportTypeForCode(code int) ReportType {
	switch {
	case code >= 600 && code < 700:
		return ReportIncome
	case code >= 700 && code < 800:
		return ReportCOGS
	case code >= 800 && code < 900:
		return ReportOperating
	case code >= 900:
		return ReportFinancial
	default:
		return ReportOther
	}
}

// AccountTypeForSortCode infers an account type from the account's sort
// code band when the export does not carry an explicit type column.
func AccountTypeForSortCode(sortCode int) AccountType {
	switch {
	case sortCode >= 100 && sortCode < 200:
		return AccountCustomer
	case sortCode >= 200 && sortCode < 300:
		return AccountSupplier
	case sortCode >= 600 && sortCode < 700:
		return AccountIncome
	case sortCode >= 800 && sortCode < 900:
		return AccountExpense
	default:
		return AccountOther
	}
}
