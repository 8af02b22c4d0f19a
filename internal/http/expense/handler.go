package expense

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/home-budget-web/backend/internal/expense"
	"github.com/home-budget-web/backend/internal/record"
)

type Handler struct {
	svc      *expense.Service
	validate *validator.Validate
}

func NewHandler(svc *expense.Service) *Handler {
	return &Handler{svc: svc, validate: validator.New()}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/summary", h.summary)
	r.Get("/format", h.format)
	r.Post("/bulk-delete", h.bulkDelete)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Put("/{id}", h.replace)
	r.Delete("/{id}", h.delete)
}

type expenseRequest struct {
	Date     string         `json:"date" validate:"required"`
	Business *string        `json:"business"`
	Category string         `json:"category" validate:"required"`
	Amount   *record.Amount `json:"amount" validate:"required"`
	Account  string         `json:"account" validate:"required"`
	Currency string         `json:"currency"`
	Notes    *string        `json:"notes"`
}

func (req *expenseRequest) toParams() (expense.CreateParams, error) {
	date, err := record.ParseDate(req.Date)
	if err != nil {
		return expense.CreateParams{}, err
	}

	return expense.CreateParams{
		Date:     date,
		Business: req.Business,
		Category: req.Category,
		Amount:   *req.Amount,
		Account:  req.Account,
		Currency: req.Currency,
		Notes:    req.Notes,
	}, nil
}

// decodeParams parses and validates a create/replace body. Unknown JSON
// keys are rejected, matching the strict schema the API has always had.
func (h *Handler) decodeParams(r *http.Request) (expense.CreateParams, error) {
	var req expenseRequest

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		return expense.CreateParams{}, err
	}

	if err := h.validate.Struct(&req); err != nil {
		return expense.CreateParams{}, err
	}

	return req.toParams()
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	params, err := h.decodeParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	e, err := h.svc.Create(r.Context(), params)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, e)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.svc.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if expenses == nil {
		expenses = []*record.Expense{}
	}

	writeJSON(w, http.StatusOK, expenses)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	e, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, record.ErrNotFound) {
			http.Error(w, "expense not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, e)
}

type updateRequest struct {
	Field string `json:"field" validate:"required"`
	Value any    `json:"value"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateRequest

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	// Keep amounts as json.Number so they survive as exact decimals.
	dec.UseNumber()

	if err := dec.Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	e, err := h.svc.Update(r.Context(), id, req.Field, req.Value)
	if err != nil {
		writeUpdateError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, e)
}

func (h *Handler) replace(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	params, err := h.decodeParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	e, err := h.svc.Replace(r.Context(), id, params)
	if err != nil {
		if errors.Is(err, record.ErrNotFound) {
			http.Error(w, "expense not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, e)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	deleted, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if !deleted {
		http.Error(w, "expense not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type bulkDeleteRequest struct {
	IDs []int `json:"ids" validate:"required"`
}

func (h *Handler) bulkDelete(w http.ResponseWriter, r *http.Request) {
	var req bulkDeleteRequest

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	count, err := h.svc.BulkDelete(r.Context(), req.IDs)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, bulkDeleteResponse{Deleted: count})
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Summary(r.Context(), parseUserID(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, toSummaryResponse(summary))
}

func (h *Handler) format(w http.ResponseWriter, r *http.Request) {
	var amount record.Amount
	if err := amount.UnmarshalJSON([]byte(r.URL.Query().Get("amount"))); err != nil {
		http.Error(w, "invalid amount", http.StatusBadRequest)
		return
	}

	currency := r.URL.Query().Get("currency")

	formatted := h.svc.FormatAmount(r.Context(), amount, currency, parseUserID(r))
	writeJSON(w, http.StatusOK, formatResponse{Formatted: formatted})
}

func parseID(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "id"))
}

// parseUserID reads the optional user_id query param used for per-user
// feature flags. Absent or malformed means global context.
func parseUserID(r *http.Request) *int {
	raw := r.URL.Query().Get("user_id")
	if raw == "" {
		return nil
	}

	id, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}

	return &id
}

func writeUpdateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, record.ErrNotFound):
		http.Error(w, "expense not found", http.StatusNotFound)
	case errors.Is(err, record.ErrInvalidField):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, record.ErrInvalidValue):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
