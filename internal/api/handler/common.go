// internal/api/handler/common.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"finflow-tracker/internal/api/types"
	"finflow-tracker/internal/domain"
	"finflow-tracker/internal/util"
)

// DefaultTimeout bounds the time spent serving a single request.
const DefaultTimeout = 30 * time.Second

// responder writes JSON bodies and maps service errors to status codes.
type responder struct {
	logger *slog.Logger
}

// Helper function to send JSON responses.
func (h responder) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// Helper function to send error responses.
func (h responder) respondWithError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case util.IsError(err, util.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case util.IsError(err, util.ErrTransactionNotFound):
		statusCode = http.StatusNotFound
		message = "Transaction not found"
	case util.IsError(err, util.ErrGoalNotFound):
		statusCode = http.StatusNotFound
		message = "Goal not found"
	case util.IsError(err, util.ErrNotFound):
		statusCode = http.StatusNotFound
		message = "Resource not found"
	default:
		h.logger.Error("Unhandled service error", "error", err)
	}

	h.respondWithJSON(w, statusCode, types.ErrorResponse{Error: message})
}

// decodeJSON reads the request body into dst, reporting malformed bodies as invalid input.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return util.Invalid("malformed request body")
	}
	return nil
}

// userIDFrom returns the acting user, taken from the userId query parameter.
func userIDFrom(r *http.Request) (string, error) {
	userID := strings.TrimSpace(r.URL.Query().Get("userId"))
	if userID == "" {
		return "", util.Invalid("userId query parameter is required")
	}
	return canonicalUUID("userId", userID)
}

// ownedIDFrom returns the acting user and the {id} path parameter.
func ownedIDFrom(r *http.Request) (userID, id string, err error) {
	if userID, err = userIDFrom(r); err != nil {
		return "", "", err
	}
	if id, err = canonicalUUID("id", chi.URLParam(r, "id")); err != nil {
		return "", "", err
	}
	return userID, id, nil
}

// canonicalUUID parses value as a UUID and returns its lower-case hyphenated form.
func canonicalUUID(name, value string) (string, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return "", util.Invalid("%s must be a valid UUID", name)
	}
	return id.String(), nil
}

func optionalDate(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := domain.ParseDate(raw)
	if err != nil {
		return nil, util.Invalid("%s must be a YYYY-MM-DD date", name)
	}
	return &t, nil
}

func optionalDecimal(r *http.Request, name string) (*decimal.Decimal, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	d, err := domain.ParseMoney(raw)
	if err != nil {
		return nil, util.Invalid("%s must be a number", name)
	}
	return &d, nil
}

func optionalInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, util.Invalid("%s must be an integer", name)
	}
	return n, nil
}

// pageParam reads page or limit. An absent parameter stays zero so Normalize
// applies the default; an explicit 0 becomes -1 so Normalize rejects it.
func pageParam(r *http.Request, name string) (int, error) {
	n, err := optionalInt(r, name)
	if err != nil {
		return 0, err
	}
	if n == 0 && r.URL.Query().Get(name) != "" {
		return -1, nil
	}
	return n, nil
}
