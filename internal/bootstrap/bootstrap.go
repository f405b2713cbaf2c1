package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tlemarchand/locadoc/internal/config"
	"github.com/tlemarchand/locadoc/internal/core/dedup"
	"github.com/tlemarchand/locadoc/internal/core/ports"
	"github.com/tlemarchand/locadoc/internal/core/usecase"
	"github.com/tlemarchand/locadoc/internal/infrastructure/extractor/pdftext"
	"github.com/tlemarchand/locadoc/internal/infrastructure/queue/nats"
	"github.com/tlemarchand/locadoc/internal/infrastructure/repository/postgres"
	"github.com/tlemarchand/locadoc/internal/infrastructure/resilience"
	"github.com/tlemarchand/locadoc/internal/infrastructure/storage/localfs"
)

type App struct {
	Config config.Config

	Queue     ports.MessageQueue
	Repo      ports.DocumentRepository
	IngestUC  ports.DocumentIngestor
	ProcessUC ports.DocumentProcessor
	AnalyzeUC ports.DuplicateAnalyzer

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts:    cfg.RetryMaxAttempts,
		RetryInitialBackoff: cfg.RetryInitialBackoff(),
		RetryMaxBackoff:     cfg.RetryMaxBackoff(),
		BreakerEnabled:      cfg.BreakerEnabled,
	})
	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	stopwords, err := config.LoadStoplist(cfg.DedupStoplistFile)
	if err != nil {
		return nil, fmt.Errorf("load stoplist: %w", err)
	}
	engine := dedup.NewEngine(stopwords)

	extractor := pdftext.NewExtractor(storage)

	ingestUC := usecase.NewIngestDocumentUseCase(repo, storage, queue)
	analyzeUC := usecase.NewAnalyzeDocumentUseCase(repo, engine, cfg.DedupCandidateLimit, logger)
	processUC := usecase.NewProcessDocumentUseCase(repo, extractor, analyzeUC)

	return &App{
		Config: cfg,
		Queue:  queue,
		Repo:   repo,

		IngestUC:  ingestUC,
		ProcessUC: processUC,
		AnalyzeUC: analyzeUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
