package app

import (
	"context"
	"errors"
	"fmt"

	"gohan-planner/internal/config"
	"gohan-planner/internal/database"
	"gohan-planner/internal/llm"
	"gohan-planner/internal/logger"
	"gohan-planner/internal/metrics"
	"gohan-planner/internal/planner"
	"gohan-planner/internal/store"
	"gohan-planner/internal/telegram"
)

// Runtime bundles the wired application and the resources it owns.
type Runtime struct {
	App     *App
	Metrics *metrics.Store
	Notify  *telegram.Notifier

	closers []func() error
}

// Build opens the database, the store backend, the text generator and the
// optional notifier described by cfg.
func Build(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Runtime, error) {
	rt := &Runtime{}

	db, err := database.NewDB(cfg.DatabasePath, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	rt.closers = append(rt.closers, db.Close)
	rt.Metrics = metrics.NewStore(db.SQL)

	backend, err := store.NewBackendFromConfig(ctx, cfg, db.SQL)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("failed to initialize %s store: %w", cfg.StoreBackend, err)
	}
	if c, ok := backend.(llm.Closer); ok {
		rt.closers = append(rt.closers, c.Close)
	}
	if !backend.Available() {
		log.Warn("storage unavailable, plans and favorites will not be kept")
	}

	textGen, err := llm.NewFromConfig(ctx, cfg)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("failed to initialize %s client: %w", cfg.LLMProvider, err)
	}
	credential, _ := cfg.LLMCredential()
	if textGen == nil {
		log.Warn("no LLM credential configured, generation is disabled", "provider", cfg.LLMProvider, "missing", credential)
	} else if c, ok := textGen.(llm.Closer); ok {
		rt.closers = append(rt.closers, c.Close)
	}

	generator := planner.NewGenerator(textGen, planner.Options{
		CredentialName: credential,
		Timeout:        cfg.GenerationTimeout,
		Recorder:       rt.Metrics,
		Logger:         log.With("component", "planner"),
	})

	var notifier PlanNotifier
	if cfg.TelegramEnabled() {
		rt.Notify, err = telegram.NewNotifier(cfg.TelegramBotToken, cfg.TelegramChatID, log.With("component", "telegram"))
		if err != nil {
			// Notifications are optional; a bad token must not stop the service.
			log.Warn("telegram notifier disabled", "error", err)
		} else {
			notifier = rt.Notify
		}
	}

	rt.App = NewApp(generator, store.New(backend, log.With("component", "store")), notifier, cfg.Location, log)
	return rt, nil
}

// Close releases everything Build opened, in reverse order.
func (rt *Runtime) Close() error {
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	rt.closers = nil
	return errors.Join(errs...)
}
