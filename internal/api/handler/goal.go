// internal/api/handler/goal.go
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"finflow-tracker/internal/domain"
	"finflow-tracker/internal/goals"
	"finflow-tracker/internal/service"
)

// GoalHandler handles HTTP requests for financial goals.
type GoalHandler struct {
	responder
	goalService service.GoalService
}

// NewGoalHandler creates a new GoalHandler.
func NewGoalHandler(gs service.GoalService, logger *slog.Logger) *GoalHandler {
	return &GoalHandler{
		responder:   responder{logger: logger},
		goalService: gs,
	}
}

// ProgressRequest is the body of PATCH /goals/{id}/progress.
// Operation is 1 to add and -1 to subtract; it defaults to 1.
type ProgressRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Operation *int            `json:"operation,omitempty"`
}

// Create handles POST /goals
func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	var in domain.GoalInput
	if err := decodeJSON(r, &in); err != nil {
		h.respondWithError(w, err)
		return
	}

	goal, err := h.goalService.Create(r.Context(), userID, in)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusCreated, goal)
}

// List handles GET /goals, optionally narrowed by ?status=
func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	status := domain.GoalStatus(r.URL.Query().Get("status"))
	h.list(w, r, func(ctx context.Context, userID string) ([]goals.View, error) {
		return h.goalService.List(ctx, userID, status)
	})
}

// Active handles GET /goals/active
func (h *GoalHandler) Active(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.goalService.Active)
}

// Completed handles GET /goals/completed
func (h *GoalHandler) Completed(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.goalService.Completed)
}

// Overdue handles GET /goals/overdue
func (h *GoalHandler) Overdue(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.goalService.Overdue)
}

// Stats handles GET /goals/stats
func (h *GoalHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	st, err := h.goalService.Stats(r.Context(), userID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, st)
}

// Get handles GET /goals/{id}
func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, id, err := ownedIDFrom(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	goal, err := h.goalService.Get(r.Context(), id, userID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, goal)
}

// Update handles PATCH /goals/{id}
func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, id, err := ownedIDFrom(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	var patch domain.GoalPatch
	if err := decodeJSON(r, &patch); err != nil {
		h.respondWithError(w, err)
		return
	}

	goal, err := h.goalService.Update(r.Context(), id, userID, patch)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, goal)
}

// Delete handles DELETE /goals/{id}
func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, id, err := ownedIDFrom(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	if err := h.goalService.Delete(r.Context(), id, userID); err != nil {
		h.respondWithError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Progress handles PATCH /goals/{id}/progress
func (h *GoalHandler) Progress(w http.ResponseWriter, r *http.Request) {
	userID, id, err := ownedIDFrom(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	var req ProgressRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}
	dir := goals.Add
	if req.Operation != nil {
		dir = goals.Direction(*req.Operation)
	}

	goal, err := h.goalService.ApplyProgress(r.Context(), id, userID, req.Amount, dir)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) list(w http.ResponseWriter, r *http.Request, fetch func(context.Context, string) ([]goals.View, error)) {
	userID, err := userIDFrom(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	list, err := fetch(r.Context(), userID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, list)
}
