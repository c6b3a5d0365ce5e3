package models

import "cloud.google.com/go/civil"

type ScheduledTransaction struct {
	ID                string                    `json:"id"`
	DateFirst         civil.Date                `json:"date_first,omitzero"`
	DateNext          civil.Date                `json:"date_next"`
	Frequency         string                    `json:"frequency"`
	Amount            Milliunits                `json:"amount"`
	Memo              string                    `json:"memo,omitempty"`
	FlagColor         string                    `json:"flag_color,omitempty"`
	FlagName          string                    `json:"flag_name,omitempty"`
	AccountID         string                    `json:"account_id"`
	AccountName       string                    `json:"account_name,omitempty"`
	PayeeID           string                    `json:"payee_id,omitempty"`
	PayeeName         string                    `json:"payee_name,omitempty"`
	CategoryID        string                    `json:"category_id,omitempty"`
	CategoryName      string                    `json:"category_name,omitempty"`
	TransferAccountID string                    `json:"transfer_account_id,omitempty"`
	Deleted           bool                      `json:"deleted"`
	Subtransactions   []ScheduledSubTransaction `json:"subtransactions,omitempty"`
}

type ScheduledSubTransaction struct {
	ID                     string     `json:"id"`
	ScheduledTransactionID string     `json:"scheduled_transaction_id"`
	Amount                 Milliunits `json:"amount"`
	Memo                   string     `json:"memo,omitempty"`
	PayeeID                string     `json:"payee_id,omitempty"`
	PayeeName              string     `json:"payee_name,omitempty"`
	CategoryID             string     `json:"category_id,omitempty"`
	CategoryName           string     `json:"category_name,omitempty"`
	TransferAccountID      string     `json:"transfer_account_id,omitempty"`
	Deleted                bool       `json:"deleted"`
}
