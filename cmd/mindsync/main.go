package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/mindsync/internal/config"
	"github.com/kailas-cloud/mindsync/internal/db"
	"github.com/kailas-cloud/mindsync/internal/db/memory"
	dbRedis "github.com/kailas-cloud/mindsync/internal/db/redis"
	"github.com/kailas-cloud/mindsync/internal/domain/embedding"
	"github.com/kailas-cloud/mindsync/internal/domain/keyword"
	"github.com/kailas-cloud/mindsync/internal/domain/lexicon"
	"github.com/kailas-cloud/mindsync/internal/domain/taxonomy"
	logpkg "github.com/kailas-cloud/mindsync/internal/logger"
	"github.com/kailas-cloud/mindsync/internal/metrics"
	journalrepo "github.com/kailas-cloud/mindsync/internal/repository/journal"
	chiTransport "github.com/kailas-cloud/mindsync/internal/transport/chi"
	openaiResp "github.com/kailas-cloud/mindsync/internal/transport/openai"
	askuc "github.com/kailas-cloud/mindsync/internal/usecase/ask"
	healthuc "github.com/kailas-cloud/mindsync/internal/usecase/health"
	indexinguc "github.com/kailas-cloud/mindsync/internal/usecase/indexing"
	retrievaluc "github.com/kailas-cloud/mindsync/internal/usecase/retrieval"
	"github.com/kailas-cloud/mindsync/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting mindsync API server",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("responder", cfg.Responder.Provider),
	)

	store, err := newStore(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Registered explicitly, no init().
	metrics.Register()

	// Ranking components shared by indexing and retrieval.
	tx := taxonomy.Default()
	if cfg.Retrieval.TaxonomyFile != "" {
		tx, err = taxonomy.Load(cfg.Retrieval.TaxonomyFile)
		if err != nil {
			logger.Fatal("Failed to load taxonomy", zap.Error(err))
		}
	}
	analyzer := lexicon.Default()
	encoder, err := embedding.NewEncoder(analyzer, tx, cfg.Retrieval.Dimensions)
	if err != nil {
		logger.Fatal("Failed to create encoder", zap.Error(err))
	}
	scorer := keyword.NewScorer(analyzer, tx)
	logger.Info("Encoder ready",
		zap.Int("dimensions", encoder.Dim()),
		zap.Int("topics", tx.Len()),
	)

	policy := policyFromConfig(cfg.Retrieval)
	if err := policy.Validate(); err != nil {
		logger.Fatal("Invalid retrieval policy", zap.Error(err))
	}

	repo := journalrepo.New(store, cfg.Storage.KeyPrefix)

	indexingSvc := indexinguc.New(repo, encoder)
	retrievalSvc := retrievaluc.New(repo, analyzer, encoder, scorer).
		WithPolicy(policy).
		WithTopK(cfg.Retrieval.DefaultTopK, cfg.Retrieval.MaxTopK).
		WithPool(cfg.Retrieval.PoolFactor, *cfg.Retrieval.SimilarityFloor)

	// Nil interfaces (not typed nil pointers) when the template responder is used.
	var (
		responder askuc.Responder
		checker   healthuc.ResponderChecker
	)
	if cfg.Responder.Provider == config.ResponderOpenAI {
		r := openaiResp.NewResponder(&openaiResp.Config{
			APIKey:      cfg.Responder.APIKey,
			BaseURL:     cfg.Responder.BaseURL,
			Model:       cfg.Responder.Model,
			MaxTokens:   cfg.Responder.MaxTokens,
			Temperature: cfg.Responder.Temperature,
			RatePerSec:  cfg.Responder.RatePerSec,
			Logger:      logger,
		})
		responder, checker = r, r
	}
	askSvc := askuc.New(retrievalSvc, responder).WithTopK(cfg.Retrieval.DefaultTopK)
	healthSvc := healthuc.New(store, checker)

	server := chiTransport.NewServer(indexingSvc, retrievalSvc, askSvc, healthSvc, logger)
	handler := chiTransport.Handler(server, chiTransport.RouterOptions{
		Logger:  logger,
		APIKeys: cfg.Auth.APIKeys,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

func newStore(cfg config.DatabaseConfig) (db.Store, error) {
	switch cfg.Driver {
	case config.DriverValkey, config.DriverRedis:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("%s store: %w", cfg.Driver, err)
		}
		return s, nil
	case config.DriverMemory:
		return memory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// policyFromConfig reads the blend weights. ApplyDefaults has already filled every pointer.
func policyFromConfig(r config.RetrievalConfig) retrievaluc.Policy {
	return retrievaluc.Policy{
		KeywordThreshold:       *r.KeywordThreshold,
		StrongKeywordWeight:    *r.StrongKeywordWeight,
		StrongSimilarityWeight: *r.StrongSimilarityWeight,
		WeakKeywordWeight:      *r.WeakKeywordWeight,
		WeakSimilarityWeight:   *r.WeakSimilarityWeight,
	}
}
