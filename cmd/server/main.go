package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/quizforge/quiz-cms-backend/internal/config"
	"github.com/quizforge/quiz-cms-backend/internal/database"
	"github.com/quizforge/quiz-cms-backend/internal/handler"
	"github.com/quizforge/quiz-cms-backend/internal/logger"
	"github.com/quizforge/quiz-cms-backend/internal/middleware"
	"github.com/quizforge/quiz-cms-backend/internal/repository"
	"github.com/quizforge/quiz-cms-backend/internal/router"
	"github.com/quizforge/quiz-cms-backend/internal/service"
	"github.com/quizforge/quiz-cms-backend/internal/validator"
	"github.com/quizforge/quiz-cms-backend/internal/worker"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Quiz CMS Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	adminRepo := repository.NewAdminRepository(pool)
	brandRepo := repository.NewBrandRepository(pool)
	quizRepo := repository.NewQuizRepository(pool)
	versionRepo := repository.NewVersionRepository(pool)
	stepRepo := repository.NewStepRepository(pool)
	fieldRepo := repository.NewFieldRepository(pool)
	optionRepo := repository.NewOptionRepository(pool)
	groupedInputRepo := repository.NewGroupedInputRepository(pool)
	mediaRepo := repository.NewMediaRepository(pool)
	submissionRepo := repository.NewSubmissionRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	quizCache := service.NewQuizCache(rdb, cfg.AssembledCacheTTL)
	publisher := service.NewRedisLayoutPublisher(rdb)
	submissionQueue := worker.NewSubmissionQueue(rdb)
	layoutLocks := service.NewLayoutLocks()

	authService := service.NewAuthService(cfg, rdb, adminRepo)
	brandService := service.NewBrandService(brandRepo, log)
	quizService := service.NewQuizService(quizRepo, versionRepo, quizCache, log)
	versionService := service.NewVersionService(versionRepo, quizRepo, quizCache, log)
	stepService := service.NewStepService(stepRepo, fieldRepo, versionRepo, quizCache, layoutLocks, log)
	fieldService := service.NewFieldService(fieldRepo, groupedInputRepo, stepRepo, publisher, quizCache, layoutLocks, cfg.AutoPlaceMaxRows, log)
	optionService := service.NewOptionService(optionRepo, fieldRepo, stepRepo, quizCache, log)
	groupedInputService := service.NewGroupedInputService(groupedInputRepo, fieldRepo, stepRepo, quizCache, layoutLocks, cfg.AutoPlaceMaxRows, log)
	mediaService := service.NewMediaService(mediaRepo, service.NewFSBlobStore(cfg.UploadDir), cfg.MediaBaseURL, cfg.MaxUploadBytes, log)
	assemblyService := service.NewAssemblyService(quizRepo, versionRepo, service.RepositoryContent{
		StepRepo:         stepRepo,
		FieldRepo:        fieldRepo,
		OptionRepo:       optionRepo,
		GroupedInputRepo: groupedInputRepo,
		MediaRepo:        mediaRepo,
	}, quizCache, log)
	submissionService := service.NewSubmissionService(submissionRepo, quizRepo, versionRepo, submissionQueue, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:         handler.NewAuthHandler(authService, cfg),
		Brand:        handler.NewBrandHandler(brandService),
		Quiz:         handler.NewQuizHandler(quizService, assemblyService),
		Version:      handler.NewVersionHandler(versionService),
		Step:         handler.NewStepHandler(stepService),
		Field:        handler.NewFieldHandler(fieldService),
		Option:       handler.NewOptionHandler(optionService),
		GroupedInput: handler.NewGroupedInputHandler(groupedInputService),
		Media:        handler.NewMediaHandler(mediaService),
		Submission:   handler.NewSubmissionHandler(submissionService),
		Public:       handler.NewPublicHandler(assemblyService, submissionService),
		LayoutWS:     handler.NewLayoutWSHandler(rdb, stepService, log, cfg.AllowedOrigins),
	}

	// Auth: 30 requests per minute per IP. Public: 120 per minute per IP.
	limiters := &router.Limiters{
		Auth:   middleware.NewRateLimiter(30, time.Minute),
		Public: middleware.NewRateLimiter(120, time.Minute),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	var workers sync.WaitGroup

	submissionWorker := worker.NewSubmissionWorker(submissionQueue, submissionRepo, cfg.SubmissionBatchSize, log)
	workers.Add(1)
	go func() {
		defer workers.Done()
		submissionWorker.Start(workerCtx)
	}()
	go limiters.Auth.RunCleanup(workerCtx)
	go limiters.Public.RunCleanup(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, limiters, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and wait for the submission queue to drain.
	workerCancel()
	workers.Wait()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
