package handlers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/ruralpay/cashbook/internal/auth"
	"github.com/ruralpay/cashbook/internal/models"
	"github.com/ruralpay/cashbook/internal/services"
	"github.com/ruralpay/cashbook/internal/services/servicestest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	remote  *servicestest.Remote
	blobs   *servicestest.Blobs
	handler http.Handler
}

// withTestAccount stands in for the JWT middleware.
func withTestAccount(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.Header.Get("X-Account"); id != "" {
			r = r.WithContext(auth.WithAccount(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{remote: servicestest.NewRemote(), blobs: servicestest.NewBlobs()}
	registry := NewStoreRegistry(func(accountID string) *services.LedgerStore {
		uploader := services.NewAttachmentUploader(ts.blobs, ts.remote.Attachments(), 2)
		return services.NewLedgerStore(ts.remote, ts.remote.Entries(), uploader, auth.NewSession(accountID), services.StoreOptions{})
	})

	r := chi.NewRouter()
	r.Use(withTestAccount)
	r.Route("/api/v1", NewLedgerHandler(registry, "USD").Routes)
	ts.handler = r
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, "/api/v1"+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Account", "acct-1")
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func (ts *testServer) createLedger(t *testing.T, name string) models.Ledger {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/ledgers", map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.Ledger](t, w)
}

func TestLedgerHandler_Ledgers(t *testing.T) {
	ts := newTestServer(t)

	created := ts.createLedger(t, "Trips")
	assert.Equal(t, "Trips", created.Name)

	t.Run("list", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/ledgers", nil)
		require.Equal(t, http.StatusOK, w.Code)
		ledgers := decode[[]models.Ledger](t, w)
		require.Len(t, ledgers, 1)
		assert.Equal(t, created.ID, ledgers[0].ID)
	})

	t.Run("duplicate name", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/ledgers", map[string]string{"name": "TRIPS"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decode[services.ErrorResponse](t, w)
		assert.Contains(t, resp.Details, "name")
	})

	t.Run("rename", func(t *testing.T) {
		w := ts.do(t, http.MethodPut, "/ledgers/"+created.ID, map[string]string{"name": "Holidays"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Holidays", decode[models.Ledger](t, w).Name)
	})

	t.Run("unknown ledger", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/ledgers/nope", nil).Code)
		assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/ledgers/nope/summary", nil).Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/ledgers", bytes.NewBufferString(`{"name": "A", "extra": 1}`))
		req.Header.Set("X-Account", "acct-1")
		w := httptest.NewRecorder()
		ts.handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("delete", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, ts.do(t, http.MethodDelete, "/ledgers/"+created.ID, nil).Code)
		assert.Empty(t, decode[[]models.Ledger](t, ts.do(t, http.MethodGet, "/ledgers", nil)))
	})
}

func TestLedgerHandler_Entries(t *testing.T) {
	ts := newTestServer(t)
	ledger := ts.createLedger(t, "Shop")
	base := "/ledgers/" + ledger.ID

	add := func(t *testing.T, body map[string]any) models.Entry {
		t.Helper()
		w := ts.do(t, http.MethodPost, base+"/entries", body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		return decode[models.Entry](t, w)
	}

	first := add(t, map[string]any{
		"type": "in", "dateTime": "2024-03-01T09:00:00Z", "amount": "100",
		"attachments": []map[string]string{{"fileName": "bill.png", "data": base64.StdEncoding.EncodeToString(servicestest.PNG)}},
	})
	second := add(t, map[string]any{"type": "out", "dateTime": "2024-03-01T10:00:00Z", "amount": 40, "category": "food"})
	third := add(t, map[string]any{"type": "in", "dateTime": "2024-03-01T11:00:00Z", "amount": "10.00"})

	t.Run("attachment is stored", func(t *testing.T) {
		require.Len(t, first.Attachments, 1)
		assert.True(t, first.Attachments[0].IsPersisted())
		assert.Equal(t, "https://blobs.test/acct-1/"+first.ID+"/bill.png", first.Attachments[0].URL)
		assert.Equal(t, "Food", second.Category)
	})

	t.Run("summary", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, base+"/summary", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Balances []string `json:"balances"`
			Display  services.DisplayTotals
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, []string{"100", "60", "70"}, resp.Balances)
		assert.Equal(t, "$110.00", resp.Display.CashIn)
		assert.Equal(t, "$70.00", resp.Display.Net)
	})

	t.Run("invalid entry", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, base+"/entries", map[string]any{"type": "sideways", "dateTime": "2024-03-01T09:00:00Z"})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = ts.do(t, http.MethodPost, base+"/entries", map[string]any{
			"type": "in", "dateTime": "2024-03-01T09:00:00Z",
			"attachments": []map[string]string{{"fileName": "x.png", "data": "%%%"}},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("update", func(t *testing.T) {
		w := ts.do(t, http.MethodPut, base+"/entries/"+third.ID, map[string]any{
			"type": "in", "dateTime": "2024-03-01T08:00:00Z", "amount": "15",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "15", decode[models.Entry](t, w).Amount.String())
	})

	t.Run("reorder and move", func(t *testing.T) {
		w := ts.do(t, http.MethodPut, base+"/order", map[string][]string{"ids": {second.ID}})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = ts.do(t, http.MethodPost, base+"/entries/"+second.ID+"/move", map[string]int{"delta": -1})
		require.Equal(t, http.StatusOK, w.Code)
		l := decode[models.Ledger](t, w)
		assert.Equal(t, second.ID, l.Entries[1].ID)
	})

	t.Run("failed delete is reported and recovered", func(t *testing.T) {
		ts.remote.Fail("delete entry", errors.New("timeout"))
		defer ts.remote.Fail("delete entry", nil)

		w := ts.do(t, http.MethodDelete, base+"/entries/"+second.ID, nil)
		assert.Equal(t, http.StatusBadGateway, w.Code)

		l := decode[models.Ledger](t, ts.do(t, http.MethodGet, base, nil))
		assert.Len(t, l.Entries, 3)

		notices := decode[[]services.Notice](t, ts.do(t, http.MethodGet, "/notices", nil))
		require.Len(t, notices, 1)
		assert.Equal(t, services.NoticeError, notices[0].Level)
		assert.Empty(t, decode[[]services.Notice](t, ts.do(t, http.MethodGet, "/notices", nil)))
	})

	t.Run("remove attachment", func(t *testing.T) {
		path := base + "/entries/" + first.ID + "/attachments/" + first.Attachments[0].ID
		assert.Equal(t, http.StatusNoContent, ts.do(t, http.MethodDelete, path, nil).Code)
		assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodDelete, path, nil).Code)
	})

	t.Run("bulk delete", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, ts.do(t, http.MethodPost, base+"/entries/bulk-delete", map[string][]string{"ids": {}}).Code)
		assert.Equal(t, http.StatusNoContent, ts.do(t, http.MethodPost, base+"/entries/bulk-delete", map[string][]string{"ids": {first.ID, second.ID}}).Code)

		w := ts.do(t, http.MethodPost, "/sync", nil)
		require.Equal(t, http.StatusOK, w.Code)
		ledgers := decode[[]models.Ledger](t, w)
		require.Len(t, ledgers, 1)
		require.Len(t, ledgers[0].Entries, 1)
		assert.Equal(t, third.ID, ledgers[0].Entries[0].ID)
	})
}

func TestLedgerHandler_Unauthorized(t *testing.T) {
	ts := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ledgers", nil)
	w := httptest.NewRecorder()

	ts.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStoreRegistry(t *testing.T) {
	remote := servicestest.NewRemote()
	built := 0
	registry := NewStoreRegistry(func(accountID string) *services.LedgerStore {
		built++
		uploader := services.NewAttachmentUploader(servicestest.NewBlobs(), remote.Attachments(), 1)
		return services.NewLedgerStore(remote, remote.Entries(), uploader, auth.NewSession(accountID), services.StoreOptions{})
	})
	ctx := t.Context()

	a, err := registry.Store(ctx, "acct-1")
	require.NoError(t, err)
	b, err := registry.Store(ctx, "acct-1")
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, 1, remote.Calls("fetch ledgers"))

	registry.Forget("acct-1")
	remote.Fail("fetch ledgers", errors.New("down"))
	_, err = registry.Store(ctx, "acct-1")
	assert.Error(t, err)
	assert.Equal(t, 2, built)
}
