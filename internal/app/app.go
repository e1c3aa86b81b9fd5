// Package app wires configuration, feeds, scoring, dedup and delivery into
// one sequential run.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/deusflow/newsbot/internal/config"
	"github.com/deusflow/newsbot/internal/logger"
	"github.com/deusflow/newsbot/internal/metrics"
	"github.com/deusflow/newsbot/internal/news"
	"github.com/deusflow/newsbot/internal/ratelimit"
	"github.com/deusflow/newsbot/internal/rss"
	"github.com/deusflow/newsbot/internal/storage"
	"github.com/deusflow/newsbot/internal/telegram"
)

// FeedFetcher retrieves the entries of one feed.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) ([]rss.Entry, error)
}

// Sender delivers one message.
type Sender interface {
	SendMessage(ctx context.Context, m telegram.Message) error
}

var (
	_ FeedFetcher = (*rss.Fetcher)(nil)
	_ Sender      = (*telegram.Client)(nil)
)

// Deps are the collaborators of a run. Store, Fetcher and Sender are required.
type Deps struct {
	Store   storage.Store
	Fetcher FeedFetcher
	Sender  Sender
	Pacer   *ratelimit.Pacer
	Metrics *metrics.Metrics
	Logger  *slog.Logger
	Now     func() time.Time
}

// App is one configured run.
type App struct {
	cfg     *config.Config
	rules   news.Rules
	store   storage.Store
	fetcher FeedFetcher
	sender  Sender
	pacer   *ratelimit.Pacer
	metrics *metrics.Metrics
	log     *slog.Logger
	now     func() time.Time
}

// New builds an App from a validated configuration.
func New(cfg *config.Config, deps Deps) *App {
	a := &App{
		cfg:     cfg,
		rules:   news.RulesFromConfig(cfg),
		store:   deps.Store,
		fetcher: deps.Fetcher,
		sender:  deps.Sender,
		pacer:   deps.Pacer,
		metrics: deps.Metrics,
		log:     deps.Logger,
		now:     deps.Now,
	}
	if a.pacer == nil {
		a.pacer = ratelimit.NewPacer(cfg.Telegram.SendInterval)
	}
	if a.metrics == nil {
		a.metrics = metrics.New()
	}
	if a.log == nil {
		a.log = slog.Default()
	}
	if a.now == nil {
		a.now = time.Now
	}
	return a
}

// Metrics returns the counters of this run.
func (a *App) Metrics() *metrics.Metrics {
	return a.metrics
}

// Run processes every source once, then sends the optional index message.
// Only store failures and cancellation abort the run.
func (a *App) Run(ctx context.Context) error {
	for _, src := range a.cfg.Sources {
		if err := a.processSource(ctx, src); err != nil {
			return err
		}
	}

	a.log.Info("news posted", "count", a.metrics.Snapshot().MessagesPosted)

	if err := a.sendIndex(ctx); err != nil {
		return err
	}

	a.metrics.Finish()
	a.log.Info("run finished", "stats", a.metrics.Snapshot())
	return nil
}

func (a *App) processSource(ctx context.Context, src config.Source) error {
	log := a.log.With("source", src.Name)
	log.Info("reading feed", "url", src.URL)
	a.metrics.IncrementSourcesProcessed()

	entries, err := a.fetcher.Fetch(ctx, src.URL)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Error("feed failed, skipping source", "error", err)
		a.metrics.IncrementSourcesFailed()
		return nil
	}
	log.Debug("feed loaded", "entries", len(entries))

	for _, e := range entries {
		if err := a.processEntry(ctx, log, src, e); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) processEntry(ctx context.Context, log *slog.Logger, src config.Source, e rss.Entry) error {
	a.metrics.IncrementEntriesProcessed()

	it := a.rules.Evaluate(e, a.now())
	if !a.rules.Eligible(it) {
		a.metrics.IncrementBelowThreshold()
		log.Debug("below threshold", "title", it.Title, "score", it.Score, "min_score", a.rules.MinScore)
		return nil
	}

	ok, err := a.store.ShouldPost(ctx, it.ID)
	if err != nil {
		return fmt.Errorf("dedup check: %w", err)
	}
	if !ok {
		a.metrics.IncrementDuplicates()
		log.Debug("already posted", "title", it.Title)
		return nil
	}

	a.rules.Categorize(&it)
	text := FormatMessage(it, src.Name, FormatOptions{
		AddSourceHashtag: a.cfg.Telegram.AddSourceHashtag,
		AddTime:          a.cfg.Telegram.AddTime,
	})

	if err := a.pacer.Wait(ctx); err != nil {
		return err
	}
	err = a.sender.SendMessage(ctx, telegram.Message{
		ChatID:                string(a.cfg.Telegram.ChannelChatID),
		Text:                  text,
		ParseMode:             a.cfg.Telegram.ParseMode,
		DisableWebPagePreview: a.cfg.Telegram.DisableWebPagePreview,
	})
	if err != nil {
		// Delivery is attempted once; the item is still recorded below.
		a.metrics.IncrementDeliveryFailures()
		log.Error("telegram send failed", "title", it.Title, "error", err)
	} else {
		a.metrics.IncrementMessagesPosted()
		log.Info("posted", "title", it.Title, "score", it.Score, "categories", it.Categories, "companies", it.Companies)
	}

	if err := a.store.MarkPosted(ctx, it.ID, it.Link, it.Title); err != nil {
		return fmt.Errorf("record posted item: %w", err)
	}
	return nil
}

// Run is the process entry point: it reads the environment and configuration,
// opens the dedup store and performs one run.
func Run(ctx context.Context) error {
	env := config.FromEnv()
	log := logger.Init(env.LogLevel)

	cfg, err := config.Load(env.ConfigPath)
	if err != nil {
		return err
	}
	cfg.Env = env
	if err := cfg.Validate(); err != nil {
		return err
	}

	store, err := storage.Open(ctx, storage.Options{DatabaseURL: env.DatabaseURL, Path: env.DBPath})
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn("failed to close store", "error", err)
		}
	}()

	a := New(cfg, Deps{
		Store:   store,
		Fetcher: rss.NewFetcher(nil, cfg.Fetch.UserAgent, cfg.Fetch.Timeout),
		Sender:  telegram.NewClient(env.BotToken, cfg.Telegram.APIURL, nil),
		Logger:  log.With("component", "pipeline"),
	})
	log.Info("starting run", "sources", len(cfg.Sources), "min_score", cfg.Filters.MinScore, "send_interval", a.pacer.Interval())
	if err := a.Run(ctx); err != nil {
		return err
	}

	if n, err := store.Count(ctx); err == nil {
		log.Info("dedup table size", "records", n)
	}
	return nil
}
