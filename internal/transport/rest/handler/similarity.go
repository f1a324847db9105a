package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"talentscope/internal/service"
)

// SimilarityHandler handles peer-similarity endpoints
type SimilarityHandler struct {
	similaritySvc *service.SimilarityService
}

func NewSimilarityHandler(similaritySvc *service.SimilarityService) *SimilarityHandler {
	return &SimilarityHandler{similaritySvc: similaritySvc}
}

// GetSimilarMembers handles GET /v1/users/{id}/similar?min=&limit=
func (h *SimilarityHandler) GetSimilarMembers(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]

	minSimilarity := service.DefaultMinSimilarity
	if raw := r.URL.Query().Get("min"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v >= 0 && v <= 100 {
			minSimilarity = v
		}
	}
	limit := service.DefaultSimilarLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}

	scores, err := h.similaritySvc.CachedSimilarMembers(r.Context(), userID, minSimilarity, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"similarMembers": scores})
}

// ComputeMatrix handles POST /v1/similarity/matrix
func (h *SimilarityHandler) ComputeMatrix(w http.ResponseWriter, r *http.Request) {
	report, err := h.similaritySvc.ComputeCohortMatrix(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
