package domain

import (
	"fmt"
	"sort"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Field names used as keys in ValidationResult.Errors.
const (
	FieldDate        = "date"
	FieldAmount      = "amount"
	FieldDescription = "description"
	FieldLocation    = "location"
	FieldType        = "type"
	FieldCategory    = "category"
)

const (
	msgDateRequired        = "Date is required"
	msgDateInvalid         = "Date must be a valid calendar date (YYYY-MM-DD)"
	msgAmountInvalid       = "Amount must be a valid positive number"
	msgAmountTooLarge      = "Amount must be less than 1,000,000,000,000"
	msgDescriptionRequired = "Description is required"
	msgLocationRequired    = "Location is required"
	msgTypeRequired        = "Transaction type is required"
	msgCategoryRequired    = "Category is required"
)

// Amounts are below 10^maxAmountDigits and carry at most maxAmountScale
// decimal places.
const (
	maxAmountDigits = 12
	maxAmountScale  = 20
)

var maxAmount = decimal.New(1, maxAmountDigits)

// Draft is unvalidated form input. Every field is raw text; a missing
// field is the same as an empty one.
type Draft struct {
	Date        string `json:"date"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Type        string `json:"type"`
	Category    string `json:"category"`
}

// ValidationResult reports per-field error messages for a draft.
type ValidationResult struct {
	IsValid bool              `json:"is_valid"`
	Errors  map[string]string `json:"errors"`
}

// ValidationError is returned by Draft.Parse when a draft fails validation.
type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fmt.Sprintf("invalid transaction: %s", strings.Join(fields, ", "))
}

// Validate checks every field of the draft and collects one message per
// failing field. It has no side effects.
func Validate(d Draft) ValidationResult {
	_, errs := d.check()
	return ValidationResult{
		IsValid: len(errs) == 0,
		Errors:  errs,
	}
}

// Parse validates the draft and converts it into a typed record.
// On failure it returns a *ValidationError with the same messages Validate reports.
func (d Draft) Parse() (NewTransaction, error) {
	t, errs := d.check()
	if len(errs) > 0 {
		return NewTransaction{}, &ValidationError{Errors: errs}
	}
	return t, nil
}

func (d Draft) check() (NewTransaction, map[string]string) {
	var t NewTransaction
	errs := make(map[string]string)

	if date := strings.TrimSpace(d.Date); date == "" {
		errs[FieldDate] = msgDateRequired
	} else if parsed, err := civil.ParseDate(date); err != nil || !parsed.IsValid() {
		errs[FieldDate] = msgDateInvalid
	} else {
		t.Date = parsed
	}

	// The exponent is bounded before any arithmetic on the amount.
	amount, err := decimal.NewFromString(strings.TrimSpace(d.Amount))
	switch {
	case err != nil || !amount.IsPositive() || amount.Exponent() < -maxAmountScale:
		errs[FieldAmount] = msgAmountInvalid
	case amount.Exponent() >= maxAmountDigits || amount.GreaterThanOrEqual(maxAmount):
		errs[FieldAmount] = msgAmountTooLarge
	default:
		t.Amount = amount
	}

	if t.Description = strings.TrimSpace(d.Description); t.Description == "" {
		errs[FieldDescription] = msgDescriptionRequired
	}
	if t.Location = strings.TrimSpace(d.Location); t.Location == "" {
		errs[FieldLocation] = msgLocationRequired
	}

	if strings.TrimSpace(d.Type) == "" {
		errs[FieldType] = msgTypeRequired
	} else if typ, ok := ParseType(d.Type); !ok {
		errs[FieldType] = fmt.Sprintf("Transaction type must be one of %s", joinNames(TransactionTypes))
	} else {
		t.Type = typ
	}

	if strings.TrimSpace(d.Category) == "" {
		errs[FieldCategory] = msgCategoryRequired
	} else if cat, ok := ParseCategory(d.Category); !ok {
		errs[FieldCategory] = fmt.Sprintf("Category must be one of %s", joinNames(Categories))
	} else {
		t.Category = cat
	}

	return t, errs
}

func joinNames[T ~string](values []T) string {
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = string(v)
	}
	return strings.Join(names, ", ")
}
