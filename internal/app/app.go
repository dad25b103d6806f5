package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"NewsNavigator/internal/config"
	"NewsNavigator/internal/enrichment"
	"NewsNavigator/internal/infrastructure/httpfeed"
	"NewsNavigator/internal/infrastructure/llm"
	"NewsNavigator/internal/infrastructure/parser"
	"NewsNavigator/internal/infrastructure/scheduler"
	"NewsNavigator/internal/infrastructure/storage"
	"NewsNavigator/internal/infrastructure/telegram"
	"NewsNavigator/internal/logging"
	"NewsNavigator/internal/ports"
	"NewsNavigator/internal/server"
	"NewsNavigator/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	repo      *storage.SQLRepository
	pipeline  *usecase.Pipeline
	scheduler *usecase.Scheduler
	server    *server.Server
}

// New opens storage and builds every component. Missing credentials
// disable the matching adapter instead of failing.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	repo, err := storage.Open(ctx, storage.Dialect(cfg.Database.Driver), cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	var generator ports.TextGenerator
	if cfg.ChatGPT.APIKey != "" {
		generator = llm.NewChatGPTClient(cfg.ChatGPT)
	} else {
		baseLogger.Warn("chatgpt api key not set, enrichment will use fallbacks")
	}
	enricher := enrichment.NewClient(generator, cfg.Enrichment.Language, baseLogger.With("component", "enrichment"))

	feedClient := httpfeed.NewClient(&http.Client{}, cfg.Sources.UserAgent)
	deps := usecase.FetcherDeps{
		Source:   parser.NewFeedSource(feedClient, parser.NewRegistry(), baseLogger.With("component", "source")),
		Enricher: enricher,
		Logger:   baseLogger,
	}

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.BotToken != "" {
		tg, err := telegram.NewNotifier(cfg.Notifications.Telegram, nil)
		if err != nil {
			baseLogger.Warn("telegram notifier disabled", "error", err)
		} else {
			notifier = tg
		}
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Papers:      usecase.NewArxivFetcher(cfg.Sources.Arxiv, repo, deps),
		News:        usecase.NewNewsFetcher(cfg.Sources.News, repo, deps),
		Products:    usecase.NewProductFetcher(cfg.Sources.Products, repo, deps),
		Synthesizer: usecase.NewInsightSynthesizer(enricher, baseLogger),
		Repository:  repo,
		Notifier:    notifier,
		Logger:      baseLogger,
	})

	driver, err := scheduler.NewDailyScheduler(cfg.Scheduler.CronExpression, cfg.Scheduler.Location(), baseLogger.With("component", "timer"))
	if err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("build scheduler: %w", err)
	}

	catalog := usecase.NewCatalog(repo, cfg.Scheduler.Location())

	return &Application{
		cfg:       cfg,
		logger:    baseLogger,
		repo:      repo,
		pipeline:  pipeline,
		scheduler: usecase.NewScheduler(driver, pipeline, baseLogger),
		server:    server.New(catalog, pipeline, cfg.Server, baseLogger),
	}, nil
}

// Run arms the daily timer and serves HTTP until ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	defer a.repo.Close()

	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer func() {
		if err := a.scheduler.Stop(context.WithoutCancel(ctx)); err != nil {
			a.logger.Warn("stop scheduler", "error", err)
		}
	}()

	if a.cfg.Scheduler.RunOnStart {
		go func() {
			out := a.scheduler.RunNow(context.WithoutCancel(ctx))
			a.logger.Info("startup run finished", "run_id", out.RunID, "success", out.Success)
		}()
	}

	return a.server.ListenAndServe(ctx, a.cfg.Server.Addr)
}

// RunOnce executes a single pipeline run and closes storage.
func (a *Application) RunOnce(ctx context.Context) usecase.Outcome {
	defer a.repo.Close()
	return a.pipeline.RunDaily(ctx)
}
