package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/silindokuhleL/document-search-portal/internal/config"
	"github.com/silindokuhleL/document-search-portal/internal/core/ports"
	"github.com/silindokuhleL/document-search-portal/internal/core/usecase"
	"github.com/silindokuhleL/document-search-portal/internal/infrastructure/cache/filecache"
	"github.com/silindokuhleL/document-search-portal/internal/infrastructure/cache/memory"
	"github.com/silindokuhleL/document-search-portal/internal/infrastructure/cache/redis"
	"github.com/silindokuhleL/document-search-portal/internal/infrastructure/extractor"
	"github.com/silindokuhleL/document-search-portal/internal/infrastructure/queue/nats"
	"github.com/silindokuhleL/document-search-portal/internal/infrastructure/repository/postgres"
	"github.com/silindokuhleL/document-search-portal/internal/infrastructure/repository/sqlite"
	"github.com/silindokuhleL/document-search-portal/internal/infrastructure/resilience"
	"github.com/silindokuhleL/document-search-portal/internal/infrastructure/storage/localfs"
	"github.com/silindokuhleL/document-search-portal/internal/observability/metrics"
)

// corpusRepository is what a relational driver has to provide.
type corpusRepository interface {
	ports.DocumentRepository
	ports.CorpusStore
	EnsureSchema(ctx context.Context) error
}

type App struct {
	Config config.Config

	Queue     ports.MessageQueue
	IngestUC  ports.DocumentIngestor
	ProcessUC ports.DocumentProcessor
	SearchUC  ports.DocumentSearcher
	CatalogUC ports.DocumentCatalog

	HTTPMetrics *metrics.HTTPServerMetrics

	closers []func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	app := &App{
		Config:      cfg,
		HTTPMetrics: metrics.NewHTTPServerMetrics("api"),
	}

	repo, err := app.openRepository(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	cacheStore, err := app.openCache(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}
	resultCache := usecase.NewResultCache(cacheStore, cfg.SearchCacheTTL)

	textExtractor := extractor.New(storage, cfg.MaxExtractBytes)
	processUC := usecase.NewProcessDocumentUseCase(repo, textExtractor, resultCache)

	var queue ports.MessageQueue
	if cfg.NATSURL == "" {
		slog.Info("queue_inline", "reason", "NATS_URL not set")
		queue = usecase.NewInlineQueue(processUC)
	} else {
		natsQueue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
			ResilienceExecutor: resilience.NewExecutor(resilience.DefaultConfig()),
		})
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("init message queue: %w", err)
		}
		app.closers = append(app.closers, natsQueue.Close)
		queue = natsQueue
	}

	app.Queue = queue
	app.ProcessUC = processUC
	app.IngestUC = usecase.NewIngestDocumentUseCase(repo, storage, queue, usecase.IngestConfig{
		MaxUploadBytes:    cfg.MaxUploadBytes,
		AllowedExtensions: cfg.AllowedExtensions,
	})
	app.SearchUC = usecase.NewSearchUseCase(repo, resultCache, usecase.SearchConfig{
		PreviewLength:          cfg.SearchPreviewLength,
		DefaultPageSize:        cfg.SearchDefaultPageSize,
		MaxPageSize:            cfg.SearchMaxPageSize,
		DefaultSuggestionLimit: cfg.SuggestionsDefaultLimit,
		MaxSuggestionLimit:     cfg.SuggestionsMaxLimit,
	})
	app.CatalogUC = usecase.NewDocumentCatalogUseCase(repo, storage, resultCache)
	return app, nil
}

func (a *App) openRepository(ctx context.Context) (corpusRepository, error) {
	var repo corpusRepository
	switch a.Config.StoreDriver {
	case "sqlite":
		db, err := sqlite.OpenDB(a.Config.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		a.closers = append(a.closers, func() { _ = db.Close() })
		repo = sqlite.NewDocumentRepository(db)
	case "postgres", "":
		db, err := postgres.OpenDB(a.Config.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		a.closers = append(a.closers, closeDB(db))

		options := postgres.Options{TextSearchConfig: a.Config.TextSearchConfig}
		if a.Config.StoreBreakerEnabled {
			policy := resilience.StoreConfig()
			policy.OnStateChange = a.HTTPMetrics.BreakerObserver("api")
			options.Executor = resilience.NewExecutor(policy)
		}
		repo = postgres.NewDocumentRepository(db, options)
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", a.Config.StoreDriver)
	}

	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return repo, nil
}

// openCache returns nil when caching is switched off.
func (a *App) openCache(ctx context.Context) (ports.CacheStore, error) {
	switch a.Config.CacheDriver {
	case "none", "off":
		return nil, nil
	case "file":
		store, err := filecache.New(a.Config.CacheDir)
		if err != nil {
			return nil, fmt.Errorf("init file cache: %w", err)
		}
		return store, nil
	case "redis":
		store, err := redis.New(redis.Config{
			Addrs:    a.Config.RedisAddrs,
			Password: a.Config.RedisPassword,
			DB:       a.Config.RedisDB,
		})
		if err != nil {
			return nil, fmt.Errorf("init redis cache: %w", err)
		}
		a.closers = append(a.closers, store.Close)
		if err := store.Ping(ctx); err != nil {
			return nil, fmt.Errorf("ping redis cache: %w", err)
		}
		return store, nil
	case "memory", "":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown CACHE_DRIVER %q", a.Config.CacheDriver)
	}
}

func closeDB(db *sql.DB) func() {
	return func() { _ = db.Close() }
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
