package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"talentscope/internal/model"
	"talentscope/internal/service"
)

// DiagnosisHandler handles answer submission and diagnosis endpoints
type DiagnosisHandler struct {
	scoringSvc *service.ScoringService
}

func NewDiagnosisHandler(scoringSvc *service.ScoringService) *DiagnosisHandler {
	return &DiagnosisHandler{scoringSvc: scoringSvc}
}

type submitAnswersRequest struct {
	Answers []struct {
		QuestionID string `json:"questionId"`
		Score      int    `json:"score"`
	} `json:"answers"`
}

// SubmitAnswers handles PUT /v1/users/{id}/answers
func (h *DiagnosisHandler) SubmitAnswers(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]

	var req submitAnswersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Answers) == 0 {
		writeError(w, http.StatusBadRequest, "answers required")
		return
	}

	answers := make([]*model.Answer, len(req.Answers))
	for i, a := range req.Answers {
		answers[i] = &model.Answer{
			UserID:     userID,
			QuestionID: a.QuestionID,
			Score:      a.Score,
		}
	}

	if err := h.scoringSvc.SubmitAnswers(r.Context(), userID, answers); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"saved": len(answers)})
}

// CompleteDiagnosis handles POST /v1/users/{id}/diagnosis
func (h *DiagnosisHandler) CompleteDiagnosis(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]

	result, potentials, err := h.scoringSvc.CompleteDiagnosis(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"diagnosis":       result,
		"potentialScores": potentials,
	})
}

// GetDiagnosis handles GET /v1/users/{id}/diagnosis
func (h *DiagnosisHandler) GetDiagnosis(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]

	result, potentials, err := h.scoringSvc.GetDiagnosis(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"diagnosis":       result,
		"potentialScores": potentials,
	})
}
