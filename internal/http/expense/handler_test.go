package expense_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/home-budget-web/backend/internal/expense"
	"github.com/home-budget-web/backend/internal/featureflag"
	expensehttp "github.com/home-budget-web/backend/internal/http/expense"
	"github.com/home-budget-web/backend/internal/record"
	"github.com/home-budget-web/backend/internal/store/jsonfile"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	path := filepath.Join(t.TempDir(), "expenses.json")
	st := jsonfile.New[*record.Expense](path, nil, "₪")
	svc := expense.NewService(st, featureflag.NewResolver(nil), "₪")

	r := chi.NewRouter()
	r.Route("/expenses", expensehttp.NewHandler(svc).Routes)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return srv
}

func doJSON(t *testing.T, srv *httptest.Server, method, path, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, srv.URL+path, bytes.NewBufferString(body))
	require.NoError(t, err)

	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func createExpense(t *testing.T, srv *httptest.Server, body string) map[string]any {
	t.Helper()

	resp := doJSON(t, srv, http.MethodPost, "/expenses", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var got map[string]any
	decodeBody(t, resp, &got)

	return got
}

func TestCreateExpense(t *testing.T) {
	srv := newServer(t)

	got := createExpense(t, srv, `{
		"date": "2025-12-01",
		"category": "Groceries",
		"amount": 142.50,
		"account": "Visa"
	}`)

	assert.Equal(t, float64(1), got["id"])
	assert.Equal(t, "2025-12-01", got["date"])
	assert.Equal(t, "Groceries", got["category"])
	assert.Equal(t, 142.50, got["amount"])
	assert.Equal(t, "₪", got["currency"], "omitted currency gets the default")
	assert.Nil(t, got["business"])
	assert.Nil(t, got["notes"])
}

func TestCreateExpenseValidation(t *testing.T) {
	srv := newServer(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "MissingRequiredField", body: `{"date": "2025-12-01", "amount": 10.00, "account": "Visa"}`},
		{name: "UnknownKey", body: `{"date": "2025-12-01", "category": "Groceries", "amount": 10.00, "account": "Visa", "color": "red"}`},
		{name: "BadDate", body: `{"date": "01/12/2025", "category": "Groceries", "amount": 10.00, "account": "Visa"}`},
		{name: "NotJSON", body: `date=2025-12-01`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, srv, http.MethodPost, "/expenses", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestListExpenses(t *testing.T) {
	srv := newServer(t)

	resp := doJSON(t, srv, http.MethodGet, "/expenses", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got []map[string]any
	decodeBody(t, resp, &got)
	assert.Empty(t, got, "empty store lists as [], not null")

	createExpense(t, srv, `{"date": "2025-12-01", "category": "Groceries", "amount": 142.50, "account": "Visa"}`)
	createExpense(t, srv, `{"date": "2025-12-02", "category": "Transport", "amount": 11.80, "account": "Cash"}`)

	resp = doJSON(t, srv, http.MethodGet, "/expenses", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	decodeBody(t, resp, &got)
	assert.Len(t, got, 2)
}

func TestGetExpense(t *testing.T) {
	srv := newServer(t)

	createExpense(t, srv, `{"date": "2025-12-01", "category": "Groceries", "amount": 142.50, "account": "Visa"}`)

	t.Run("Found", func(t *testing.T) {
		resp := doJSON(t, srv, http.MethodGet, "/expenses/1", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var got map[string]any
		decodeBody(t, resp, &got)
		assert.Equal(t, "Groceries", got["category"])
	})

	t.Run("NotFound", func(t *testing.T) {
		resp := doJSON(t, srv, http.MethodGet, "/expenses/42", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("BadID", func(t *testing.T) {
		resp := doJSON(t, srv, http.MethodGet, "/expenses/abc", "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestUpdateExpense(t *testing.T) {
	srv := newServer(t)

	createExpense(t, srv, `{"date": "2025-12-01", "category": "Groceries", "amount": 142.50, "account": "Visa"}`)

	t.Run("Field", func(t *testing.T) {
		resp := doJSON(t, srv, http.MethodPatch, "/expenses/1", `{"field": "category", "value": "Transport"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var got map[string]any
		decodeBody(t, resp, &got)
		assert.Equal(t, "Transport", got["category"])
	})

	t.Run("AmountKeepsExactDecimal", func(t *testing.T) {
		resp := doJSON(t, srv, http.MethodPatch, "/expenses/1", `{"field": "amount", "value": 99.10}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var raw json.RawMessage
		decodeBody(t, resp, &raw)
		assert.Contains(t, string(raw), `"amount":99.10`)
	})

	t.Run("CurrencyClearedReappliesDefault", func(t *testing.T) {
		resp := doJSON(t, srv, http.MethodPatch, "/expenses/1", `{"field": "currency", "value": ""}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var got map[string]any
		decodeBody(t, resp, &got)
		assert.Equal(t, "₪", got["currency"])
	})

	t.Run("UnknownField", func(t *testing.T) {
		resp := doJSON(t, srv, http.MethodPatch, "/expenses/1", `{"field": "color", "value": "red"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("IDIsImmutable", func(t *testing.T) {
		resp := doJSON(t, srv, http.MethodPatch, "/expenses/1", `{"field": "id", "value": 9}`)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("BadValue", func(t *testing.T) {
		resp := doJSON(t, srv, http.MethodPatch, "/expenses/1", `{"field": "date", "value": "tomorrow"}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("NotFound", func(t *testing.T) {
		resp := doJSON(t, srv, http.MethodPatch, "/expenses/42", `{"field": "category", "value": "Transport"}`)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestReplaceExpense(t *testing.T) {
	srv := newServer(t)

	createExpense(t, srv, `{"date": "2025-12-01", "category": "Groceries", "amount": 142.50, "account": "Visa", "notes": "weekly run"}`)

	t.Run("ReplacesWholeRecord", func(t *testing.T) {
		resp := doJSON(t, srv, http.MethodPut, "/expenses/1", `{"date": "2025-12-05", "category": "Transport", "amount": 11.80, "account": "Cash"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var got map[string]any
		decodeBody(t, resp, &got)
		assert.Equal(t, float64(1), got["id"])
		assert.Equal(t, "Transport", got["category"])
		assert.Nil(t, got["notes"], "fields absent from the body are cleared")
	})

	t.Run("NotFound", func(t *testing.T) {
		resp := doJSON(t, srv, http.MethodPut, "/expenses/42", `{"date": "2025-12-05", "category": "Transport", "amount": 11.80, "account": "Cash"}`)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestDeleteExpense(t *testing.T) {
	srv := newServer(t)

	createExpense(t, srv, `{"date": "2025-12-01", "category": "Groceries", "amount": 142.50, "account": "Visa"}`)

	resp := doJSON(t, srv, http.MethodDelete, "/expenses/1", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, srv, http.MethodDelete, "/expenses/1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBulkDeleteExpenses(t *testing.T) {
	srv := newServer(t)

	for _, category := range []string{"Groceries", "Transport", "Dining"} {
		createExpense(t, srv, `{"date": "2025-12-01", "category": "`+category+`", "amount": 10.00, "account": "Visa"}`)
	}

	resp := doJSON(t, srv, http.MethodPost, "/expenses/bulk-delete", `{"ids": [1, 3, 42]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got map[string]any
	decodeBody(t, resp, &got)
	assert.Equal(t, float64(2), got["deleted"], "missing ids are skipped, not errors")
}

func TestExpenseSummary(t *testing.T) {
	srv := newServer(t)

	createExpense(t, srv, `{"date": "2025-12-01", "category": "Groceries", "amount": 100.00, "account": "Visa"}`)
	createExpense(t, srv, `{"date": "2025-12-02", "category": "Transport", "amount": 50.00, "account": "Cash"}`)

	t.Run("Basic", func(t *testing.T) {
		t.Setenv(featureflag.EnvKey(featureflag.EnhancedExpenseStats), "false")

		resp := doJSON(t, srv, http.MethodGet, "/expenses/summary", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var got map[string]any
		decodeBody(t, resp, &got)
		assert.Equal(t, float64(150), got["total"])
		assert.Equal(t, float64(2), got["count"])
		assert.NotContains(t, got, "average")
	})

	t.Run("Enhanced", func(t *testing.T) {
		t.Setenv(featureflag.EnvKey(featureflag.EnhancedExpenseStats), "true")

		resp := doJSON(t, srv, http.MethodGet, "/expenses/summary", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var got map[string]any
		decodeBody(t, resp, &got)
		assert.Equal(t, float64(75), got["average"])
		assert.Equal(t, float64(50), got["min"])
		assert.Equal(t, float64(100), got["max"])
	})
}

func TestFormatAmount(t *testing.T) {
	srv := newServer(t)

	t.Run("V2", func(t *testing.T) {
		t.Setenv(featureflag.EnvKey(featureflag.ExpenseAmountV2Format), "true")

		resp := doJSON(t, srv, http.MethodGet, "/expenses/format?amount=1234.5&currency=EUR", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var got map[string]any
		decodeBody(t, resp, &got)
		assert.Equal(t, "1,234.50 EUR", got["formatted"])
	})

	t.Run("InvalidAmount", func(t *testing.T) {
		resp := doJSON(t, srv, http.MethodGet, "/expenses/format?amount=lots", "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestContentTypeHeaderSet(t *testing.T) {
	srv := newServer(t)

	resp := doJSON(t, srv, http.MethodGet, "/expenses", "")
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json"))
}
