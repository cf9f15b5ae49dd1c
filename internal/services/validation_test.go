package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ruralpay/cashbook/internal/catalog"
	"github.com/ruralpay/cashbook/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationHelper_ValidateLedgerName(t *testing.T) {
	vh := NewValidationHelper()

	t.Run("trims the name", func(t *testing.T) {
		name, err := vh.ValidateLedgerName("  Trips\t")
		assert.NoError(t, err)
		assert.Equal(t, "Trips", name)
	})

	t.Run("blank name", func(t *testing.T) {
		_, err := vh.ValidateLedgerName("   ")

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "Name", verr.Field)

		var verrs validator.ValidationErrors
		assert.ErrorAs(t, err, &verrs)
	})

	t.Run("overlong name", func(t *testing.T) {
		long := make([]byte, 101)
		for i := range long {
			long[i] = 'a'
		}
		_, err := vh.ValidateLedgerName(string(long))
		assert.Error(t, err)
	})
}

func TestValidationHelper_NormalizeEntry(t *testing.T) {
	vh := NewValidationHelper()
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("canonical values", func(t *testing.T) {
		in := models.Entry{Type: " In ", DateTime: at, Amount: decimal.RequireFromString("12.50"), Category: "food", Mode: ""}

		got, err := vh.NormalizeEntry(in, catalog.Default())
		require.NoError(t, err)

		assert.Equal(t, models.EntryIn, got.Type)
		assert.Equal(t, "Food", got.Category)
		assert.Equal(t, "Cash", got.Mode)
		assert.Equal(t, " In ", string(in.Type), "input must not be modified")
	})

	t.Run("free text outside a strict catalog", func(t *testing.T) {
		in := models.Entry{Type: models.EntryOut, DateTime: at, Category: "Pets"}

		got, err := vh.NormalizeEntry(in, catalog.Default())
		require.NoError(t, err)
		assert.Equal(t, "Pets", got.Category)

		strict := catalog.Default()
		strict.Strict = true
		_, err = vh.NormalizeEntry(in, strict)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "category", verr.Field)
	})

	t.Run("zero amount is allowed", func(t *testing.T) {
		_, err := vh.NormalizeEntry(models.Entry{Type: models.EntryOut, DateTime: at}, catalog.Default())
		assert.NoError(t, err)
	})
}

func TestSendErrorResponse(t *testing.T) {
	t.Run("error response without validation errors", func(t *testing.T) {
		w := httptest.NewRecorder()

		SendErrorResponse(w, "Something went wrong", http.StatusInternalServerError, nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var response ErrorResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, "Something went wrong", response.Error)
		assert.Nil(t, response.Details)
	})

	t.Run("error response with validator errors", func(t *testing.T) {
		vh := NewValidationHelper()
		validationErr := vh.ValidateStruct(&entryInput{Type: "sideways", Details: string(make([]byte, 501))})
		assert.Error(t, validationErr)

		w := httptest.NewRecorder()
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, validationErr)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var response ErrorResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, "Validation failed", response.Error)
		assert.Contains(t, response.Details, "Type")
		assert.Contains(t, response.Details, "Details")
	})

	t.Run("error response with a local validation error", func(t *testing.T) {
		w := httptest.NewRecorder()
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, &ValidationError{Field: "amount", Reason: "must not be negative"})

		var response ErrorResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "must not be negative", response.Details["amount"])
	})

	t.Run("unauthorized error", func(t *testing.T) {
		w := httptest.NewRecorder()

		SendErrorResponse(w, "Unauthorized access", http.StatusUnauthorized, nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)

		var response ErrorResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, "Unauthorized access", response.Error)
	})
}
