package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ruralpay/cashbook/internal/catalog"
	"github.com/ruralpay/cashbook/internal/models"
)

// ErrorResponse represents error response structure
type ErrorResponse struct {
	Error   string            `json:"error"`             // Error message
	Details map[string]string `json:"details,omitempty"` // Validation details
}

// ValidationHelper provides shared validation functionality
type ValidationHelper struct {
	validator *validator.Validate
}

// NewValidationHelper creates a new validation helper
func NewValidationHelper() *ValidationHelper {
	return &ValidationHelper{
		validator: validator.New(),
	}
}

// ValidateStruct validates a struct and returns validation errors
func (vh *ValidationHelper) ValidateStruct(s any) error {
	return vh.validator.Struct(s)
}

// ledgerNameInput is checked before any ledger create or rename.
type ledgerNameInput struct {
	Name string `validate:"required,max=100"`
}

// entryInput carries the entry fields the validator can check by tag.
type entryInput struct {
	Type      string   `validate:"required,oneof=in out"`
	Details   string   `validate:"max=500"`
	Category  string   `validate:"max=64"`
	Mode      string   `validate:"max=64"`
	FileNames []string `validate:"dive,max=255"`
}

// ValidateLedgerName trims name and checks it is usable.
func (vh *ValidationHelper) ValidateLedgerName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if err := vh.ValidateStruct(&ledgerNameInput{Name: name}); err != nil {
		return "", fieldError(err)
	}
	return name, nil
}

// NormalizeEntry validates e and resolves category and mode through the
// catalog. The returned entry is a copy.
func (vh *ValidationHelper) NormalizeEntry(e models.Entry, cat *catalog.Catalog) (models.Entry, error) {
	e = e.Clone()
	e.Type = models.EntryType(strings.ToLower(strings.TrimSpace(string(e.Type))))
	e.Details = strings.TrimSpace(e.Details)

	in := entryInput{
		Type:     string(e.Type),
		Details:  e.Details,
		Category: e.Category,
		Mode:     e.Mode,
	}
	for _, a := range e.Attachments {
		in.FileNames = append(in.FileNames, a.FileName)
	}
	if err := vh.ValidateStruct(&in); err != nil {
		return models.Entry{}, fieldError(err)
	}

	if e.DateTime.IsZero() {
		return models.Entry{}, &ValidationError{Field: "dateTime", Reason: "is required"}
	}
	if e.Amount.IsNegative() {
		return models.Entry{}, &ValidationError{Field: "amount", Reason: "must not be negative"}
	}

	var ok bool
	if e.Category, ok = cat.Category(e.Category); !ok {
		return models.Entry{}, &ValidationError{Field: "category", Reason: fmt.Sprintf("unknown category %q", e.Category)}
	}
	if e.Mode, ok = cat.Mode(e.Mode); !ok {
		return models.Entry{}, &ValidationError{Field: "mode", Reason: fmt.Sprintf("unknown mode %q", e.Mode)}
	}

	for _, a := range e.Attachments {
		if !a.IsPersisted() && !a.IsPending() {
			return models.Entry{}, &ValidationError{Field: "attachments", Reason: fmt.Sprintf("attachment %q has no data", a.FileName)}
		}
	}
	return e, nil
}

// fieldError turns validator output into a ValidationError naming the first
// failing field.
func fieldError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &ValidationError{
			Field:  verrs[0].Field(),
			Reason: fmt.Sprintf("failed on '%s' tag", verrs[0].Tag()),
			Cause:  err,
		}
	}
	return &ValidationError{Field: "input", Reason: err.Error(), Cause: err}
}

// SendErrorResponse sends a JSON error response
func SendErrorResponse(w http.ResponseWriter, message string, statusCode int, validationErr error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResp := ErrorResponse{Error: message}
	if validationErr != nil {
		errorResp.Details = make(map[string]string)
		var verrs validator.ValidationErrors
		var verr *ValidationError
		switch {
		case errors.As(validationErr, &verrs):
			for _, err := range verrs {
				errorResp.Details[err.Field()] = fmt.Sprintf("Field Validation Failed on '%s' tag", err.Tag())
			}
		case errors.As(validationErr, &verr):
			errorResp.Details[verr.Field] = verr.Reason
		default:
			errorResp.Details["error"] = validationErr.Error()
		}
	}

	json.NewEncoder(w).Encode(errorResp)
}
