package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"

	"github.com/tonpuu/riichi-league/internal/config"
	"github.com/tonpuu/riichi-league/internal/infrastructure/authz"
	"github.com/tonpuu/riichi-league/internal/infrastructure/evidence"
	"github.com/tonpuu/riichi-league/internal/infrastructure/repository/postgres"
	"github.com/tonpuu/riichi-league/internal/infrastructure/snapshot"
	"github.com/tonpuu/riichi-league/internal/interfaces/httpapi"
	idgen "github.com/tonpuu/riichi-league/internal/platform/id"
	"github.com/tonpuu/riichi-league/internal/platform/logging"
	"github.com/tonpuu/riichi-league/internal/platform/resilience"
	"github.com/tonpuu/riichi-league/internal/usecase"
)

// App bundles the wired service with the resources main has to close
// on shutdown.
type App struct {
	Server  *http.Server
	Ranking *usecase.RankingService
	DB      *sqlx.DB
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	submissionRepo := postgres.NewSubmissionRepository(db)
	gameRepo := postgres.NewGameRepository(db)
	playerRepo := postgres.NewPlayerRepository(db)
	standingRepo := postgres.NewStandingRepository(db)
	ratingRepo := postgres.NewRatingRepository(db)
	seasonRepo := postgres.NewSeasonRepository(db)

	cache := snapshot.NewRankingCache(standingRepo, playerRepo, ratingRepo, logger)

	evidenceStore, err := newEvidenceStore(ctx, cfg, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	idGen := idgen.NewRandomGenerator()

	submissionSvc := usecase.NewSubmissionService(submissionRepo, ratingRepo, idGen)
	reviewSvc := usecase.NewReviewService(submissionRepo, standingRepo, ratingRepo, seasonRepo, cache, evidenceStore, idGen, logger)
	rankingSvc := usecase.NewRankingService(cache, standingRepo, playerRepo, ratingRepo, logger)
	tableSvc := usecase.NewTableService(ratingRepo, seasonRepo, cache, idGen, logger)
	playerSvc := usecase.NewPlayerService(playerRepo, idGen)
	gameSvc := usecase.NewGameService(gameRepo)
	recalcSvc := usecase.NewRecalcService(gameRepo, standingRepo, ratingRepo, cache, logger)

	verifier := authz.NewClient(authz.ClientConfig{
		BaseURL:        cfg.AuthBaseURL,
		IntrospectPath: cfg.AuthIntrospectPath,
		Timeout:        cfg.AuthTimeout,
		CacheTTL:       cfg.AuthCacheTTL,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.AuthCircuitEnabled,
			FailureThreshold: cfg.AuthCircuitFailureCount,
			OpenTimeout:      cfg.AuthCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.AuthCircuitHalfOpenMaxReq,
		},
	}, logger)

	handler := httpapi.NewHandler(submissionSvc, reviewSvc, rankingSvc, tableSvc, playerSvc, gameSvc, recalcSvc, logger)
	router := httpapi.NewRouter(handler, verifier, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		_ = db.Close()
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &App{
		Server:  server,
		Ranking: rankingSvc,
		DB:      db,
	}, nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dbURL,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func newEvidenceStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (usecase.EvidenceStore, error) {
	if !cfg.R2Enabled {
		logger.Info("evidence store disabled", "reason", "R2_ENABLED=false")
		return evidence.NopStore{}, nil
	}

	store, err := evidence.NewR2Store(ctx, evidence.R2StoreConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("build evidence store: %w", err)
	}
	return store, nil
}
