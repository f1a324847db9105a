package handler

import (
	"net/http"

	"talentscope/internal/repository"
)

// QuestionHandler serves the questionnaire reference data
type QuestionHandler struct {
	questionRepo repository.QuestionRepo
}

func NewQuestionHandler(questionRepo repository.QuestionRepo) *QuestionHandler {
	return &QuestionHandler{questionRepo: questionRepo}
}

// List handles GET /v1/questions
func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	questions, err := h.questionRepo.GetActive(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"questions": questions})
}
