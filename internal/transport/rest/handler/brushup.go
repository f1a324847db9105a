package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"talentscope/internal/model"
	"talentscope/internal/service"
)

// BrushUpHandler handles refinement endpoints
type BrushUpHandler struct {
	brushUpSvc *service.BrushUpService
}

func NewBrushUpHandler(brushUpSvc *service.BrushUpService) *BrushUpHandler {
	return &BrushUpHandler{brushUpSvc: brushUpSvc}
}

type triggerBrushUpRequest struct {
	Trigger   model.TriggerType `json:"trigger"`
	SourceRef string            `json:"sourceRef,omitempty"`
}

// Trigger handles POST /v1/users/{id}/brushup. Suppressed and failed runs
// are structured 200 outcomes, not transport errors; only a gated run (no
// audit trail, nothing happened) gets its own representation.
func (h *BrushUpHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]

	var req triggerBrushUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.brushUpSvc.Run(r.Context(), userID, req.Trigger, req.SourceRef)
	if err != nil {
		var insufficientErr *model.InsufficientDataError
		if errors.As(err, &insufficientErr) {
			writeJSON(w, http.StatusOK, &model.BrushUpResult{
				Status: model.BrushUpSuppressed,
				Reason: "insufficient data",
			})
			return
		}
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ListHistory handles GET /v1/users/{id}/brushup/history
func (h *BrushUpHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]

	history, err := h.brushUpSvc.ListHistory(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"history": history})
}

// GetVersionDiff handles GET /v1/brushup/{historyId}/diff
func (h *BrushUpHandler) GetVersionDiff(w http.ResponseWriter, r *http.Request) {
	historyID := mux.Vars(r)["historyId"]

	diff, err := h.brushUpSvc.GetVersionDiff(r.Context(), historyID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, diff)
}
