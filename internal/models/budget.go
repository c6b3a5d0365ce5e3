package models

type CurrencyFormat struct {
	ISOCode        string `json:"iso_code"`
	CurrencySymbol string `json:"currency_symbol"`
	DecimalDigits  int    `json:"decimal_digits"`
	SymbolFirst    bool   `json:"symbol_first"`
}

type Budget struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	LastModifiedOn string          `json:"last_modified_on,omitempty"`
	FirstMonth     string          `json:"first_month,omitempty"`
	LastMonth      string          `json:"last_month,omitempty"`
	CurrencyFormat *CurrencyFormat `json:"currency_format,omitempty"`
}

type BudgetSettings struct {
	DateFormat     map[string]string `json:"date_format,omitempty"`
	CurrencyFormat *CurrencyFormat   `json:"currency_format,omitempty"`
}

type Account struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Type             string     `json:"type"`
	OnBudget         bool       `json:"on_budget"`
	Closed           bool       `json:"closed"`
	Balance          Milliunits `json:"balance"`
	ClearedBalance   Milliunits `json:"cleared_balance"`
	UnclearedBalance Milliunits `json:"uncleared_balance"`
}
