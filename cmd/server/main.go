package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"talentscope/internal/cache"
	"talentscope/internal/config"
	"talentscope/internal/repository"
	"talentscope/internal/service"
	"talentscope/internal/transport/rest"
	"talentscope/pkg/logger"
)

func main() {
	log, err := logger.New(os.Getenv("APP_ENV"))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx := context.Background()
	cfg := config.Load()
	aiConfig := config.DefaultAIConfig()

	log.Info("starting talentscope",
		"mongoDb", cfg.MongoDB,
		"brushUpModel", aiConfig.Models.BrushUp,
		"aiEnabled", aiConfig.IsEnabled(),
	)
	if !aiConfig.IsEnabled() {
		log.Warn("GEMINI_API_KEY not set, brush-up uses the mock evaluator")
	}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("failed to connect to MongoDB", "error", err)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("failed to ping MongoDB", "error", err)
	}
	log.Info("connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("failed to ping Redis", "error", err)
	}
	log.Info("connected to Redis")

	// Repositories
	questionRepo := repository.NewQuestionRepo(db)
	answerRepo := repository.NewAnswerRepo(db)
	diagnosisRepo := repository.NewDiagnosisRepo(mongoClient, db)
	similarityRepo := repository.NewSimilarityRepo(db)
	brushUpRepo := repository.NewBrushUpRepo(db)
	auditRepo := repository.NewAuditRepo(db)
	signalRepo := repository.NewSignalRepo(db)

	// Caches
	simCache := cache.NewSimilarMembersCache(rdb)

	// Services
	evaluator := service.NewEvaluatorService(aiConfig)
	scoringSvc := service.NewScoringService(questionRepo, answerRepo, diagnosisRepo, similarityRepo, simCache, log)
	similaritySvc := service.NewSimilarityService(diagnosisRepo, similarityRepo, simCache, cfg.MatrixWorkers, log)
	brushUpSvc := service.NewBrushUpService(diagnosisRepo, signalRepo, auditRepo, brushUpRepo, similarityRepo, simCache, evaluator, log)

	router := rest.NewRouter(&rest.Container{
		ScoringService:    scoringSvc,
		SimilarityService: similaritySvc,
		BrushUpService:    brushUpSvc,
		QuestionRepo:      questionRepo,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen and serve", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("server forced to shutdown", "error", err)
	}

	log.Info("server exited")
}
