package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ruralpay/cashbook/internal/auth"
	"github.com/ruralpay/cashbook/internal/models"
	"github.com/ruralpay/cashbook/internal/repository"
	"github.com/ruralpay/cashbook/internal/services"
	"github.com/shopspring/decimal"
)

const maxBodyBytes = 16 << 20

type LedgerHandler struct {
	stores   *StoreRegistry
	currency string
}

func NewLedgerHandler(stores *StoreRegistry, currency string) *LedgerHandler {
	return &LedgerHandler{stores: stores, currency: currency}
}

// Routes registers the ledger API on r.
func (h *LedgerHandler) Routes(r chi.Router) {
	r.Post("/sync", h.Sync)
	r.Get("/notices", h.Notices)

	r.Get("/ledgers", h.ListLedgers)
	r.Post("/ledgers", h.CreateLedger)
	r.Route("/ledgers/{ledgerId}", func(r chi.Router) {
		r.Get("/", h.GetLedger)
		r.Put("/", h.RenameLedger)
		r.Delete("/", h.DeleteLedger)
		r.Get("/summary", h.Summary)
		r.Put("/order", h.ReorderEntries)

		r.Post("/entries", h.AddEntry)
		r.Post("/entries/bulk-delete", h.BulkDeleteEntries)
		r.Put("/entries/{entryId}", h.UpdateEntry)
		r.Delete("/entries/{entryId}", h.DeleteEntry)
		r.Post("/entries/{entryId}/move", h.MoveEntry)
		r.Delete("/entries/{entryId}/attachments/{attachmentId}", h.RemoveAttachment)
	})
}

type ledgerRequest struct {
	Name      string     `json:"name"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

type attachmentRequest struct {
	ID       string `json:"id,omitempty"`
	FileName string `json:"fileName"`
	// Data is base64 or a data URL.
	Data string `json:"data"`
}

type entryRequest struct {
	Type        string              `json:"type"`
	DateTime    time.Time           `json:"dateTime"`
	Details     string              `json:"details"`
	Amount      decimal.Decimal     `json:"amount"`
	Category    string              `json:"category"`
	Mode        string              `json:"mode"`
	Attachments []attachmentRequest `json:"attachments"`
}

type idsRequest struct {
	IDs []string `json:"ids"`
}

type moveRequest struct {
	Delta int `json:"delta"`
}

type summaryResponse struct {
	services.LedgerSummary
	Display services.DisplayTotals `json:"display"`
}

// ListLedgers returns every ledger of the caller
// @Summary List ledgers
// @Tags Ledgers
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Ledger
// @Failure 401 {object} services.ErrorResponse
// @Router /ledgers [get]
func (h *LedgerHandler) ListLedgers(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, store.Ledgers())
}

func (h *LedgerHandler) GetLedger(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}
	ledger, found := store.Ledger(chi.URLParam(r, "ledgerId"))
	if !found {
		writeError(w, services.ErrUnknownLedger)
		return
	}
	writeJSON(w, http.StatusOK, ledger)
}

// CreateLedger creates a named ledger
// @Summary Create ledger
// @Tags Ledgers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{name=string} true "Ledger name"
// @Success 201 {object} models.Ledger
// @Failure 400 {object} services.ErrorResponse
// @Router /ledgers [post]
func (h *LedgerHandler) CreateLedger(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}
	var req ledgerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ledger, err := store.CreateLedger(r.Context(), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ledger)
}

func (h *LedgerHandler) RenameLedger(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}
	var req ledgerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "ledgerId")
	if err := store.RenameLedger(r.Context(), id, req.Name, req.CreatedAt); err != nil {
		writeError(w, err)
		return
	}
	ledger, _ := store.Ledger(id)
	writeJSON(w, http.StatusOK, ledger)
}

func (h *LedgerHandler) DeleteLedger(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}
	if err := store.DeleteLedger(r.Context(), chi.URLParam(r, "ledgerId")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Summary returns running balances and totals of a ledger
// @Summary Ledger summary
// @Tags Ledgers
// @Produce json
// @Security BearerAuth
// @Param ledgerId path string true "Ledger ID"
// @Success 200 {object} summaryResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /ledgers/{ledgerId}/summary [get]
func (h *LedgerHandler) Summary(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}
	summary, err := store.Summary(chi.URLParam(r, "ledgerId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{
		LedgerSummary: summary,
		Display:       summary.Totals.Display(h.currency),
	})
}

func (h *LedgerHandler) ReorderEntries(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}
	var req idsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "ledgerId")
	if err := store.ReorderEntries(id, req.IDs); err != nil {
		writeError(w, err)
		return
	}
	ledger, _ := store.Ledger(id)
	writeJSON(w, http.StatusOK, ledger)
}

// AddEntry records a cash movement with optional image attachments
// @Summary Add entry
// @Tags Entries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param ledgerId path string true "Ledger ID"
// @Success 201 {object} models.Entry
// @Failure 400 {object} services.ErrorResponse
// @Failure 502 {object} services.ErrorResponse
// @Router /ledgers/{ledgerId}/entries [post]
func (h *LedgerHandler) AddEntry(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}
	entry, ok := decodeEntry(w, r)
	if !ok {
		return
	}

	created, err := store.AddEntry(r.Context(), chi.URLParam(r, "ledgerId"), entry)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *LedgerHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}
	entry, ok := decodeEntry(w, r)
	if !ok {
		return
	}
	entry.ID = chi.URLParam(r, "entryId")

	updated, err := store.UpdateEntry(r.Context(), chi.URLParam(r, "ledgerId"), entry)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *LedgerHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}
	if err := store.DeleteEntry(r.Context(), chi.URLParam(r, "ledgerId"), chi.URLParam(r, "entryId")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LedgerHandler) BulkDeleteEntries(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}
	var req idsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := store.BulkDeleteEntries(r.Context(), chi.URLParam(r, "ledgerId"), req.IDs); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LedgerHandler) MoveEntry(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}
	var req moveRequest
	if !decodeBody(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "ledgerId")
	if err := store.MoveEntry(id, chi.URLParam(r, "entryId"), req.Delta); err != nil {
		writeError(w, err)
		return
	}
	ledger, _ := store.Ledger(id)
	writeJSON(w, http.StatusOK, ledger)
}

func (h *LedgerHandler) RemoveAttachment(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}
	err := store.RemoveAttachment(r.Context(),
		chi.URLParam(r, "ledgerId"), chi.URLParam(r, "entryId"), chi.URLParam(r, "attachmentId"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Sync reloads the caller's ledgers from the database.
func (h *LedgerHandler) Sync(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}
	if err := store.LoadAll(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, store.Ledgers())
}

// Notices returns and clears pending user notices.
func (h *LedgerHandler) Notices(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}
	notices := store.DrainNotices()
	if notices == nil {
		notices = []services.Notice{}
	}
	writeJSON(w, http.StatusOK, notices)
}

func (h *LedgerHandler) store(w http.ResponseWriter, r *http.Request) (*services.LedgerStore, bool) {
	accountID, ok := auth.AccountFromContext(r.Context())
	if !ok {
		services.SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return nil, false
	}
	store, err := h.stores.Store(r.Context(), accountID)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return store, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		services.SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		services.SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return false
	}
	return true
}

func decodeEntry(w http.ResponseWriter, r *http.Request) (models.Entry, bool) {
	var req entryRequest
	if !decodeBody(w, r, &req) {
		return models.Entry{}, false
	}

	entry := models.Entry{
		Type:     models.EntryType(req.Type),
		DateTime: req.DateTime,
		Details:  req.Details,
		Amount:   req.Amount,
		Category: req.Category,
		Mode:     req.Mode,
	}
	for _, a := range req.Attachments {
		data, err := attachmentData(a.Data)
		if err != nil {
			services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest,
				&services.ValidationError{Field: "attachments", Reason: "data must be base64 or a data URL"})
			return models.Entry{}, false
		}
		entry.Attachments = append(entry.Attachments, models.Attachment{
			ID:        a.ID,
			FileName:  a.FileName,
			LocalData: data,
		})
	}
	return entry, true
}

func attachmentData(s string) ([]byte, error) {
	if strings.HasPrefix(s, "data:") {
		return []byte(s), nil
	}
	return base64.StdEncoding.DecodeString(s)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps store errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	var verr *services.ValidationError
	var remote *repository.RemoteError
	switch {
	case errors.As(err, &verr):
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
	case errors.Is(err, auth.ErrNoAccount):
		services.SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
	case errors.Is(err, services.ErrBusy):
		services.SendErrorResponse(w, err.Error(), http.StatusConflict, nil)
	case errors.Is(err, services.ErrUnknownLedger),
		errors.Is(err, services.ErrUnknownEntry),
		errors.Is(err, services.ErrUnknownAttachment),
		repository.IsNotFound(err):
		services.SendErrorResponse(w, err.Error(), http.StatusNotFound, nil)
	case errors.As(err, &remote):
		log.Printf("[HANDLER] Remote failure: %v", err)
		services.SendErrorResponse(w, "Storage unavailable", http.StatusBadGateway, nil)
	default:
		log.Printf("[HANDLER] Unexpected error: %v", err)
		services.SendErrorResponse(w, "Internal server error", http.StatusInternalServerError, nil)
	}
}
