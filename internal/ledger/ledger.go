// Package ledger operates on the budget sub-document: setting the budget,
// recording expenses, and aggregating totals by category.
//
// Arithmetic runs on [decimal.Decimal] so that rounding to two places is
// exact; float64 appears only at the JSON boundary of the document model.
package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"studyhub/internal/document"
)

// Validation errors.
var (
	// ErrInvalidAmount rejects input that does not parse as a number, or a
	// negative budget total.
	ErrInvalidAmount = errors.New("invalid amount")
)

// DefaultCategory is assigned to expenses recorded without a category.
const DefaultCategory = "Other"

// SetBudget resets the ledger to a new total: total and remaining both
// become the parsed amount and the expense list is cleared. The raw value
// must parse as a non-negative number.
func SetBudget(doc *document.UserDocument, rawTotal string) error {
	total, err := parseAmount(rawTotal)
	if err != nil {
		return fmt.Errorf("%w: total %q", ErrInvalidAmount, rawTotal)
	}

	if total.IsNegative() {
		return fmt.Errorf("%w: total %q is negative", ErrInvalidAmount, rawTotal)
	}

	value, _ := total.Round(2).Float64()

	doc.Budget = document.Ledger{
		Total:     value,
		Remaining: value,
		Expenses:  []document.Expense{},
	}

	return nil
}

// AddExpense appends an expense and decrements remaining by its amount,
// rounded to two decimals. The amount carries no sign constraint: a negative
// amount acts as a correction and increases remaining. A blank category
// defaults to [DefaultCategory].
func AddExpense(doc *document.UserDocument, item, rawAmount, category string) error {
	amount, err := parseAmount(rawAmount)
	if err != nil {
		return fmt.Errorf("%w: amount %q", ErrInvalidAmount, rawAmount)
	}

	category = strings.TrimSpace(category)
	if category == "" {
		category = DefaultCategory
	}

	remaining := decimal.NewFromFloat(doc.Budget.Remaining).Sub(amount).Round(2)
	doc.Budget.Remaining, _ = remaining.Float64()

	amountValue, _ := amount.Float64()
	doc.Budget.Expenses = append(doc.Budget.Expenses, document.Expense{
		Item:     strings.TrimSpace(item),
		Amount:   amountValue,
		Category: category,
	})

	return nil
}

// CategoryTotals aggregates expense amounts per category. The result is
// computed fresh on every call and never persisted.
func CategoryTotals(doc *document.UserDocument) map[string]float64 {
	sums := make(map[string]decimal.Decimal)

	for _, e := range doc.Budget.Expenses {
		sums[e.Category] = sums[e.Category].Add(decimal.NewFromFloat(e.Amount))
	}

	totals := make(map[string]float64, len(sums))
	for category, sum := range sums {
		totals[category], _ = sum.Round(2).Float64()
	}

	return totals
}

// Snapshot is a read-only ledger summary handed to the external advisory
// service. It is detached from the document: mutating the snapshot cannot
// affect ledger state.
type Snapshot struct {
	Total     float64            `json:"total"`
	Remaining float64            `json:"remaining"`
	Expenses  []document.Expense `json:"expenses"`
}

// Summary captures the current ledger state as a [Snapshot].
func Summary(doc *document.UserDocument) Snapshot {
	expenses := make([]document.Expense, len(doc.Budget.Expenses))
	copy(expenses, doc.Budget.Expenses)

	return Snapshot{
		Total:     doc.Budget.Total,
		Remaining: doc.Budget.Remaining,
		Expenses:  expenses,
	}
}

func parseAmount(raw string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(raw))
}
