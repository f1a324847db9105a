package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"talentscope/internal/repository"
	"talentscope/internal/service"
	"talentscope/internal/transport/rest/handler"
)

// Container holds all dependencies for the router
type Container struct {
	ScoringService    *service.ScoringService
	SimilarityService *service.SimilarityService
	BrushUpService    *service.BrushUpService
	QuestionRepo      repository.QuestionRepo
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	diagnosisHandler := handler.NewDiagnosisHandler(c.ScoringService)
	similarityHandler := handler.NewSimilarityHandler(c.SimilarityService)
	brushUpHandler := handler.NewBrushUpHandler(c.BrushUpService)
	questionHandler := handler.NewQuestionHandler(c.QuestionRepo)

	r.Use(corsMiddleware)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	v1 := r.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/questions", questionHandler.List).Methods("GET", "OPTIONS")

	v1.HandleFunc("/users/{id}/answers", diagnosisHandler.SubmitAnswers).Methods("PUT", "OPTIONS")
	v1.HandleFunc("/users/{id}/diagnosis", diagnosisHandler.CompleteDiagnosis).Methods("POST", "OPTIONS")
	v1.HandleFunc("/users/{id}/diagnosis", diagnosisHandler.GetDiagnosis).Methods("GET", "OPTIONS")

	v1.HandleFunc("/users/{id}/similar", similarityHandler.GetSimilarMembers).Methods("GET", "OPTIONS")
	v1.HandleFunc("/similarity/matrix", similarityHandler.ComputeMatrix).Methods("POST", "OPTIONS")

	v1.HandleFunc("/users/{id}/brushup", brushUpHandler.Trigger).Methods("POST", "OPTIONS")
	v1.HandleFunc("/users/{id}/brushup/history", brushUpHandler.ListHistory).Methods("GET", "OPTIONS")
	v1.HandleFunc("/brushup/{historyId}/diff", brushUpHandler.GetVersionDiff).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
