package dto

import "cloud.google.com/go/civil"

// AllAccounts selects every account of a budget.
const AllAccounts = "all"

// TransactionFilter narrows a transaction listing. Start and End are
// inclusive; Flag is a flag colour or a configured flag-group key.
type TransactionFilter struct {
	AccountID string
	Start     civil.Date
	End       civil.Date
	Flag      string
}

// ProxyResponse is an upstream response relayed verbatim.
type ProxyResponse struct {
	Status      int
	ContentType string
	Body        []byte
}
