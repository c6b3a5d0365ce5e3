package models

import "testing"

func TestMilliunitsConversion(t *testing.T) {
	m := Milliunits(-12345)
	if got := m.ToMajorUnits().String(); got != "-12.345" {
		t.Fatalf("ToMajorUnits = %s", got)
	}
	if got := m.Spend().String(); got != "12.345" {
		t.Fatalf("Spend = %s", got)
	}
	if got := m.Abs().String(); got != "12.345" {
		t.Fatalf("Abs = %s", got)
	}
}

func TestTransactionPredicates(t *testing.T) {
	tests := []struct {
		name  string
		tx    Transaction
		spend bool
	}{
		{"outflow", Transaction{Amount: -1000}, true},
		{"inflow", Transaction{Amount: 1000}, false},
		{"transfer", Transaction{Amount: -1000, TransferAccountID: "acc"}, false},
		{"split parent", Transaction{Amount: -1000, CategoryName: SplitCategory}, false},
	}
	for _, tt := range tests {
		if got := tt.tx.IsSpend(); got != tt.spend {
			t.Errorf("%s: IsSpend = %v", tt.name, got)
		}
	}
}
