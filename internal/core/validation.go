package core

import (
	"errors"
	"strings"
)

// Reason codes for a failed validation.
const (
	ReasonMissingField  Reason = "missing_field"
	ReasonInvalidAmount Reason = "invalid_amount"
	ReasonInvalidDate   Reason = "invalid_date"
)

type (
	Reason string

	// FormInput holds the raw text of the transaction form.
	FormInput struct {
		Description string
		Amount      string
		Date        string // YYYY-MM-DD
	}

	// ValidationResult is either a ready Transaction or a failure reason.
	ValidationResult struct {
		Transaction Transaction
		Reason      Reason
		Field       string
	}

	// ValidationError is the error form of a failed ValidationResult.
	ValidationError struct {
		Reason Reason
		Field  string
	}
)

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonMissingField:
		return "missing field: " + e.Field
	case ReasonInvalidAmount:
		return "invalid amount"
	case ReasonInvalidDate:
		return "invalid date"
	default:
		return "invalid " + e.Field
	}
}

// Unwrap maps reasons onto the package sentinel errors.
func (e *ValidationError) Unwrap() error {
	switch e.Reason {
	case ReasonInvalidAmount:
		return ErrInvalidAmount
	case ReasonInvalidDate:
		return ErrInvalidDate
	case ReasonMissingField:
		if e.Field == "description" {
			return ErrEmptyDescription
		}
	}
	return nil
}

// OK reports whether validation succeeded.
func (r ValidationResult) OK() bool {
	return r.Reason == ""
}

// Err returns nil on success, a *ValidationError otherwise.
func (r ValidationResult) Err() error {
	if r.OK() {
		return nil
	}
	return &ValidationError{Reason: r.Reason, Field: r.Field}
}

// Message is the user facing text for a failed result.
func (r ValidationResult) Message() string {
	return reasonMessage(r.Reason)
}

// Message is the user facing text for the failure.
func (e *ValidationError) Message() string {
	return reasonMessage(e.Reason)
}

func reasonMessage(reason Reason) string {
	switch reason {
	case "":
		return ""
	case ReasonMissingField:
		return "Please fill in all fields"
	case ReasonInvalidAmount:
		return "Amount is not a valid number"
	case ReasonInvalidDate:
		return "Date must be in YYYY-MM-DD format"
	default:
		return "Invalid input"
	}
}

// ValidateForm checks the raw form fields and converts them into a
// Transaction ready for Ledger.Add. Description, amount and date are all
// required.
func ValidateForm(in FormInput) ValidationResult {
	switch {
	case strings.TrimSpace(in.Description) == "":
		return fail(ReasonMissingField, "description")
	case strings.TrimSpace(in.Amount) == "":
		return fail(ReasonMissingField, "amount")
	case strings.TrimSpace(in.Date) == "":
		return fail(ReasonMissingField, "date")
	}

	cents, err := ParseAmountInput(in.Amount)
	if err != nil {
		return fail(ReasonInvalidAmount, "amount")
	}
	date, err := ParseDateInput(in.Date)
	if err != nil {
		return fail(ReasonInvalidDate, "date")
	}

	return ValidationResult{Transaction: Transaction{
		Description: in.Description,
		Amount:      Money{Cents: cents},
		Date:        date,
	}}
}

// AsValidationError reports whether err is a validation failure.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

func fail(reason Reason, field string) ValidationResult {
	return ValidationResult{Reason: reason, Field: field}
}
