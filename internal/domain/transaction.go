package domain

import (
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// TransactionType classifies the direction of a money movement.
type TransactionType string

const (
	// TypeCredit is an inflow.
	TypeCredit TransactionType = "Credit"
	// TypeDebit is an outflow.
	TypeDebit TransactionType = "Debit"
	// TypeRefund is an inflow reversing a prior debit.
	TypeRefund TransactionType = "Refund"
)

// TransactionTypes lists every valid type in display order.
var TransactionTypes = []TransactionType{TypeCredit, TypeDebit, TypeRefund}

// Category is a spending or income classification tag.
type Category string

const (
	CategoryShopping      Category = "Shopping"
	CategoryTravel        Category = "Travel"
	CategoryUtility       Category = "Utility"
	CategoryFood          Category = "Food"
	CategoryEntertainment Category = "Entertainment"
	CategoryIncome        Category = "Income"
	CategoryOther         Category = "Other"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryShopping,
	CategoryTravel,
	CategoryUtility,
	CategoryFood,
	CategoryEntertainment,
	CategoryIncome,
	CategoryOther,
}

// NewTransaction holds the fields of a transaction before the store assigns an ID.
type NewTransaction struct {
	Date        civil.Date      `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Location    string          `json:"location"`
	Type        TransactionType `json:"type"`
	Category    Category        `json:"category"`
}

// Transaction is one recorded financial movement.
// Records are never mutated after the store creates them.
type Transaction struct {
	ID string `json:"id"`
	NewTransaction
}

// Signed returns the amount as it contributes to the balance:
// positive for credits, negative for everything else.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == TypeCredit {
		return t.Amount
	}
	return t.Amount.Neg()
}

// Balance sums every transaction's signed amount.
func Balance(txns []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txns {
		total = total.Add(t.Signed())
	}
	return total
}

// ParseType resolves a type name case-insensitively to its canonical value.
func ParseType(s string) (TransactionType, bool) {
	norm := normalize(s)
	for _, t := range TransactionTypes {
		if normalize(string(t)) == norm {
			return t, true
		}
	}
	return "", false
}

// ParseCategory resolves a category name case-insensitively to its canonical value.
func ParseCategory(s string) (Category, bool) {
	norm := normalize(s)
	for _, c := range Categories {
		if normalize(string(c)) == norm {
			return c, true
		}
	}
	return "", false
}

// Color returns the hex colour used to render the type.
func (t TransactionType) Color() string {
	switch t {
	case TypeCredit:
		return "#4CAF50"
	case TypeDebit:
		return "#F44336"
	case TypeRefund:
		return "#FF9800"
	}
	return ""
}

// normalize uppercases and trims a name for comparison.
func normalize(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// SeedTransactions returns the example records a fresh session starts with.
func SeedTransactions() []Transaction {
	return []Transaction{
		{
			ID: "1",
			NewTransaction: NewTransaction{
				Date:        civil.Date{Year: 2025, Month: 6, Day: 25},
				Amount:      decimal.RequireFromString("50.00"),
				Description: "Grocery Shopping",
				Location:    "Walmart",
				Type:        TypeDebit,
				Category:    CategoryShopping,
			},
		},
		{
			ID: "2",
			NewTransaction: NewTransaction{
				Date:        civil.Date{Year: 2025, Month: 6, Day: 24},
				Amount:      decimal.RequireFromString("1200.00"),
				Description: "Salary Deposit",
				Location:    "Bank Transfer",
				Type:        TypeCredit,
				Category:    CategoryIncome,
			},
		},
	}
}
