package mapping

// Target-field tables for the Hashavshevet export layouts the platform
// ingests. Labels are the Hebrew column headers the exports carry.

// TransactionFields covers ledger ("biurim") exports.
var TransactionFields = []TargetField{
	{Name: "koteret", Label: "מספר מסמך"},
	{Name: "sort_code", Label: "קוד מיון"},
	{Name: "sort_code_name", Label: "שם קוד מיון"},
	{Name: "account_key", Label: "מפתח חשבון"},
	{Name: "account_name", Label: "שם חשבון"},
	{Name: "amount", Label: "סכום"},
	{Name: "details", Label: "פרטים"},
	{Name: "transaction_date", Label: "תאריך"},
	{Name: "counter_account_name", Label: "שם חשבון נגדי"},
	{Name: "counter_account_number", Label: "מספר חשבון נגדי"},
}

// BalanceFields covers monthly-balance exports.
var BalanceFields = []TargetField{
	{Name: "account_key", Label: "מפתח חשבון"},
	{Name: "account_name", Label: "שם חשבון"},
	{Name: "month", Label: "חודש"},
	{Name: "year", Label: "שנה"},
	{Name: "opening_balance", Label: "יתרת פתיחה"},
	{Name: "closing_balance", Label: "יתרת סגירה"},
}

// TrialBalanceFields covers trial-balance exports, one row per account
// per month.
var TrialBalanceFields = []TargetField{
	{Name: "account_key", Label: "מפתח חשבון"},
	{Name: "account_name", Label: "שם חשבון"},
	{Name: "sort_code", Label: "קוד מיון"},
	{Name: "sort_code_name", Label: "שם קוד מיון"},
	{Name: "month", Label: "חודש"},
	{Name: "amount", Label: "סכום"},
}

// SortCodeFields covers sort-code index exports.
var SortCodeFields = []TargetField{
	{Name: "code", Label: "קוד מיון"},
	{Name: "name", Label: "שם קוד מיון"},
	{Name: "parent_code", Label: "קוד אב"},
	{Name: "sort_order", Label: "סדר"},
}

// AccountFields covers account-index exports (general, customers,
// suppliers).
var AccountFields = []TargetField{
	{Name: "account_key", Label: "מפתח"},
	{Name: "account_name", Label: "שם"},
	{Name: "sort_code", Label: "קוד מיון"},
	{Name: "account_type", Label: "סוג"},
	{Name: "id_number", Label: "מספר זהות"},
	{Name: "address", Label: "כתובת"},
	{Name: "phone", Label: "טלפון"},
	{Name: "email", Label: "דואר אלקטרוני"},
	{Name: "balance", Label: "יתרה"},
}

// Required target fields per import kind; ingestion is blocked while any
// is unmapped.
var (
	RequiredTransactionFields  = []string{"transaction_date", "amount"}
	RequiredBalanceFields      = []string{"account_key", "month", "year"}
	RequiredTrialBalanceFields = []string{"account_key", "month", "amount"}
	RequiredSortCodeFields     = []string{"code", "name"}
	RequiredAccountFields      = []string{"account_key", "account_name"}
)
