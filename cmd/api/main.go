package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/survey-vote-service/internal/api/http"
	"github.com/spec-kit/survey-vote-service/internal/api/http/handlers"
	"github.com/spec-kit/survey-vote-service/internal/auth"
	"github.com/spec-kit/survey-vote-service/internal/config"
	"github.com/spec-kit/survey-vote-service/internal/events"
	"github.com/spec-kit/survey-vote-service/internal/observability"
	"github.com/spec-kit/survey-vote-service/internal/persistence"
	"github.com/spec-kit/survey-vote-service/internal/repository"
	"github.com/spec-kit/survey-vote-service/internal/service"
	"github.com/spec-kit/survey-vote-service/internal/session"
	"github.com/spec-kit/survey-vote-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	respondentRepo := repository.NewRespondentRepository(pool)
	surveyRepo := repository.NewSurveyRepository(pool)
	voteRepo := repository.NewVoteRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)

	var sessionStore session.Store
	if cfg.Session.UseMemoryStore {
		logger.Warn("using in-process session store; tokens do not survive restarts")
		sessionStore = session.NewMemoryStore()
	} else {
		sessionStore = session.NewRedisStore(redis.Client)
	}
	sessions := session.NewAuthority(sessionStore, voteRepo, cfg.Session.TTL())

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	identityService := service.NewIdentityService(respondentRepo, cfg.Session.ValidCohorts)
	votingService := service.NewVotingService(service.VotingDependencies{
		Identity:   identityService,
		Sessions:   sessions,
		Snapshots:  surveyRepo,
		VoteRepo:   voteRepo,
		Dispatcher: dispatcher,
	})
	surveyService := service.NewSurveyService(service.SurveyDependencies{
		SurveyRepo: surveyRepo,
		VoteRepo:   voteRepo,
		Dispatcher: dispatcher,
	})
	resultsService := service.NewResultsService(surveyRepo, voteRepo, respondentRepo)
	adminService := service.NewAdminService(cfg.Auth, adminRepo)
	auditService := service.NewAuditService(dispatcher, logger, cfg.Audit)
	worker.StartAuditWorker(auditService)

	adminMiddleware := auth.NewAdminMiddleware(adminService.TokenManager(), adminRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:          handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Auth:            handlers.NewAuthHandler(votingService, adminService),
		Votes:           handlers.NewVotesHandler(votingService),
		Surveys:         handlers.NewSurveysHandler(surveyService),
		AdminSurveys:    handlers.NewAdminSurveysHandler(surveyService),
		Results:         handlers.NewResultsHandler(resultsService),
		AdminMiddleware: adminMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
