package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/budget-report/internal/dto"
	"github.com/GregMSThompson/budget-report/internal/models"
)

type cashFlow struct {
	spent   decimal.Decimal
	income  decimal.Decimal
	expense decimal.Decimal
}

func (f cashFlow) stats() *dto.CashFlowStats {
	income := f.income.InexactFloat64()
	expense := f.expense.InexactFloat64()
	var savings float64
	if f.income.IsPositive() {
		savings = f.income.Sub(f.expense).Div(f.income).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}
	return &dto.CashFlowStats{
		Income:      income,
		Expense:     expense,
		Net:         f.income.Sub(f.expense).InexactFloat64(),
		SavingsRate: savings,
	}
}

// expandLineItems replaces every split parent by copies carrying its live
// sub-transactions. A split parent is never a line item itself. Transfers,
// whole or as a split part, move money between accounts and are dropped.
func expandLineItems(txs []models.Transaction) []models.Transaction {
	items := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.IsTransfer() {
			continue
		}
		if !tx.IsSplit() {
			items = append(items, tx)
			continue
		}
		for _, sub := range tx.Subtransactions {
			if sub.Deleted || sub.TransferAccountID != "" {
				continue
			}
			item := tx
			item.ID = sub.ID
			item.Amount = sub.Amount
			item.CategoryID = sub.CategoryID
			item.CategoryName = sub.CategoryName
			if item.CategoryName == "" {
				item.CategoryName = uncategorizedName
			}
			if sub.PayeeName != "" {
				item.PayeeName = sub.PayeeName
			}
			if sub.Memo != "" {
				item.Memo = sub.Memo
			}
			item.Subtransactions = nil
			items = append(items, item)
		}
	}
	return items
}

type categoryAcc struct {
	id    string
	name  string
	total decimal.Decimal
	txs   []models.Transaction
}

func buildCategories(txs []models.Transaction) ([]dto.CategorySpending, cashFlow) {
	var flow cashFlow
	accs := map[string]*categoryAcc{}
	var order []string

	for _, item := range expandLineItems(txs) {
		spend := item.Amount.Spend()
		if spend.IsPositive() {
			flow.expense = flow.expense.Add(spend)
		} else {
			flow.income = flow.income.Add(spend.Abs())
		}

		id := item.CategoryID
		if id == "" {
			id = uncategorizedID
		}
		acc, ok := accs[id]
		if !ok {
			name := item.CategoryName
			if name == "" {
				name = uncategorizedName
			}
			acc = &categoryAcc{id: id, name: name}
			accs[id] = acc
			order = append(order, id)
		}
		acc.total = acc.total.Add(spend)
		acc.txs = append(acc.txs, item)
	}

	out := make([]dto.CategorySpending, 0, len(order))
	for _, id := range order {
		acc := accs[id]
		flow.spent = flow.spent.Add(acc.total)
		out = append(out, dto.CategorySpending{
			CategoryID:   acc.id,
			CategoryName: acc.name,
			TotalAmount:  acc.total.InexactFloat64(),
			Transactions: acc.txs,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalAmount > out[j].TotalAmount
	})
	return out, flow
}
