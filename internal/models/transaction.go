package models

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Milliunits is the upstream fixed-point amount: 1000 milliunits make one
// major currency unit. Negative values are outflows.
type Milliunits int64

// ToMajorUnits converts to major currency units without rounding.
func (m Milliunits) ToMajorUnits() decimal.Decimal {
	return decimal.New(int64(m), -3)
}

// Spend is the sign-flipped major-unit amount: outflows are positive.
func (m Milliunits) Spend() decimal.Decimal {
	return m.ToMajorUnits().Neg()
}

// Abs returns the magnitude in major units.
func (m Milliunits) Abs() decimal.Decimal {
	return m.ToMajorUnits().Abs()
}

// SplitCategory is the category name the upstream API gives split parents.
const SplitCategory = "Split"

type Transaction struct {
	ID                string           `json:"id"`
	Date              civil.Date       `json:"date,omitzero"`
	Amount            Milliunits       `json:"amount"`
	Memo              string           `json:"memo,omitempty"`
	Cleared           string           `json:"cleared,omitempty"`
	Approved          bool             `json:"approved"`
	FlagColor         string           `json:"flag_color,omitempty"`
	FlagName          string           `json:"flag_name,omitempty"`
	AccountID         string           `json:"account_id,omitempty"`
	AccountName       string           `json:"account_name,omitempty"`
	PayeeID           string           `json:"payee_id,omitempty"`
	PayeeName         string           `json:"payee_name,omitempty"`
	CategoryID        string           `json:"category_id,omitempty"`
	CategoryName      string           `json:"category_name,omitempty"`
	TransferAccountID string           `json:"transfer_account_id,omitempty"`
	ImportID          string           `json:"import_id,omitempty"`
	Deleted           bool             `json:"deleted"`
	Subtransactions   []SubTransaction `json:"subtransactions,omitempty"`
}

type SubTransaction struct {
	ID                string     `json:"id"`
	TransactionID     string     `json:"transaction_id"`
	Amount            Milliunits `json:"amount"`
	Memo              string     `json:"memo,omitempty"`
	PayeeID           string     `json:"payee_id,omitempty"`
	PayeeName         string     `json:"payee_name,omitempty"`
	CategoryID        string     `json:"category_id,omitempty"`
	CategoryName      string     `json:"category_name,omitempty"`
	TransferAccountID string     `json:"transfer_account_id,omitempty"`
	Deleted           bool       `json:"deleted"`
}

func (t *Transaction) IsSplit() bool {
	return t.CategoryName == SplitCategory
}

func (t *Transaction) IsTransfer() bool {
	return t.TransferAccountID != ""
}

// IsSpend reports an outflow that is neither a transfer nor a split parent.
func (t *Transaction) IsSpend() bool {
	return t.Amount < 0 && !t.IsTransfer() && !t.IsSplit()
}
