// internal/api/handler/transaction.go
package handler

import (
	"log/slog"
	"net/http"
	"time"


	"finflow-tracker/internal/api/types"
	"finflow-tracker/internal/domain"
	"finflow-tracker/internal/service"
)

// TransactionHandler handles HTTP requests for transactions.
type TransactionHandler struct {
	responder
	transactionService service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(ts service.TransactionService, logger *slog.Logger) *TransactionHandler {
	return &TransactionHandler{
		responder:          responder{logger: logger},
		transactionService: ts,
	}
}

// Create handles POST /transactions
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	var in domain.TransactionInput
	if err := decodeJSON(r, &in); err != nil {
		h.respondWithError(w, err)
		return
	}
	if in.CategoryID != "" {
		if in.CategoryID, err = canonicalUUID("categoryId", in.CategoryID); err != nil {
			h.respondWithError(w, err)
			return
		}
	}

	tx, err := h.transactionService.Create(r.Context(), userID, in)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusCreated, tx)
}

// List handles GET /transactions
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	filter, err := parseFilter(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	page, err := h.transactionService.Query(r.Context(), userID, filter)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, types.PaginatedResponse[domain.Transaction]{
		Data: page.Data,
		Pagination: types.Pagination{
			Total:      page.Total,
			Page:       page.Page,
			Limit:      page.Limit,
			TotalPages: page.TotalPages(),
		},
	})
}

// Stats handles GET /transactions/stats
func (h *TransactionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	start, end, err := periodFrom(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	st, err := h.transactionService.Stats(r.Context(), userID, start, end)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, st)
}

// Summary handles GET /transactions/summary
func (h *TransactionHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	start, end, err := periodFrom(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	st, err := h.transactionService.Stats(r.Context(), userID, start, end)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, st.Summary())
}

// ByCategory handles GET /transactions/by-category
func (h *TransactionHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	start, end, err := periodFrom(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	st, err := h.transactionService.Stats(r.Context(), userID, start, end)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, st.ByCategory)
}

// Get handles GET /transactions/{id}
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, id, err := ownedIDFrom(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	tx, err := h.transactionService.Get(r.Context(), id, userID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, tx)
}

// Update handles PATCH /transactions/{id}
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, id, err := ownedIDFrom(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	var patch domain.TransactionPatch
	if err := decodeJSON(r, &patch); err != nil {
		h.respondWithError(w, err)
		return
	}
	if patch.CategoryID != nil {
		categoryID, err := canonicalUUID("categoryId", *patch.CategoryID)
		if err != nil {
			h.respondWithError(w, err)
			return
		}
		patch.CategoryID = &categoryID
	}

	tx, err := h.transactionService.Update(r.Context(), id, userID, patch)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, tx)
}

// Delete handles DELETE /transactions/{id}
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, id, err := ownedIDFrom(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	if err := h.transactionService.Delete(r.Context(), id, userID); err != nil {
		h.respondWithError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseFilter reads the listing query parameters. Range and enum checks are
// left to TransactionFilter.Normalize; only unparsable values fail here.
func parseFilter(r *http.Request) (domain.TransactionFilter, error) {
	q := r.URL.Query()
	f := domain.TransactionFilter{
		Type:       domain.TransactionType(q.Get("type")),
		Status:     domain.TransactionStatus(q.Get("status")),
		CategoryID: q.Get("categoryId"),
		Search:     q.Get("search"),
		Tag:        q.Get("tag"),
		OrderBy:    q.Get("orderBy"),
		Order:      q.Get("order"),
	}

	var err error
	if f.CategoryID != "" {
		if f.CategoryID, err = canonicalUUID("categoryId", f.CategoryID); err != nil {
			return f, err
		}
	}
	if f.StartDate, f.EndDate, err = periodFrom(r); err != nil {
		return f, err
	}
	if f.MinAmount, err = optionalDecimal(r, "minAmount"); err != nil {
		return f, err
	}
	if f.MaxAmount, err = optionalDecimal(r, "maxAmount"); err != nil {
		return f, err
	}
	if f.Page, err = pageParam(r, "page"); err != nil {
		return f, err
	}
	if f.Limit, err = pageParam(r, "limit"); err != nil {
		return f, err
	}
	return f, nil
}

func periodFrom(r *http.Request) (start, end *time.Time, err error) {
	if start, err = optionalDate(r, "startDate"); err != nil {
		return nil, nil, err
	}
	if end, err = optionalDate(r, "endDate"); err != nil {
		return nil, nil, err
	}
	return start, end, nil
}
