package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"child-survey/internal/analytics"
	"child-survey/internal/config"
	"child-survey/internal/db"
	"child-survey/internal/domain"
	"child-survey/internal/metrics"
	"child-survey/internal/repository"
	"child-survey/internal/service"
)

const storeLockKey = "childsurvey:store:lock"

// App reune las dependencias compartidas por la API y la CLI.
type App struct {
	Config     *config.Config
	Logger     *zap.Logger
	Metrics    *metrics.Metrics
	Aggregator *analytics.Aggregator
	Repo       repository.SurveyRepository
	Surveys    *service.SurveyService
	Analysis   *service.AnalysisService

	closers []func()
}

// Open arma almacenamiento, analitica y servicios segun cfg.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger, Metrics: metrics.New()}

	analyticsCfg, err := analytics.LoadConfigFile(cfg.AnalyticsConfig)
	if err != nil {
		return nil, fmt.Errorf("analytics config: %w", err)
	}
	if cfg.TopTraits > 0 {
		analyticsCfg.TopTraits = cfg.TopTraits
	}
	a.Aggregator = analytics.NewAggregator(analyticsCfg)
	grades := domain.GradeRange{Min: cfg.ClassMin, Max: cfg.ClassMax}

	switch cfg.StoreBackend {
	case config.StoreBackendPostgres:
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		pgRepo := repository.NewPgSurveyRepository(pool, logger, grades)
		if err := pgRepo.EnsureSchema(ctx); err != nil {
			a.Close()
			return nil, err
		}
		a.Repo = pgRepo
	default:
		opts := repository.CSVOptions{
			Grades:  grades,
			Rescore: a.Aggregator.Scorer().Score,
		}
		if cfg.RedisAddr != "" {
			client := redis.NewClient(&redis.Options{
				Addr:     cfg.RedisAddr,
				Password: cfg.RedisPassword,
				DB:       cfg.RedisDB,
			})
			a.closers = append(a.closers, func() { _ = client.Close() })
			ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
			if err := client.Ping(ctxPing).Err(); err != nil {
				logger.Warn("redis ping failed", zap.Error(err))
			}
			cancel()
			opts.Lock = repository.NewRedisWriterLock(client, storeLockKey, cfg.StoreLockTTL, cfg.StoreLockWait)
		}
		csvRepo, err := repository.NewCSVSurveyRepository(cfg.StorePath, logger, opts)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("open survey store %s: %w", cfg.StorePath, err)
		}
		a.Repo = csvRepo
	}

	a.Surveys = service.NewSurveyService(logger, a.Repo, a.Aggregator.Scorer(), grades, a.Metrics)
	a.Analysis = service.NewAnalysisService(logger, a.Repo, a.Aggregator, a.Surveys, a.Metrics)
	return a, nil
}

// Close libera conexiones en orden inverso.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
