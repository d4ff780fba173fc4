// Package app assembles the bot: config, logging, storage, the subscription
// registry, the Epic provider, the delivery engine and the Telegram
// transport, constructed once at startup and passed by reference.
package app

import (
	"context"
	"sync"
	"time"

	"epicbot/internal/config"
	"epicbot/internal/epic"
	"epicbot/internal/push"
	"epicbot/internal/storage"
	"epicbot/internal/subscription"
	"epicbot/internal/transport/telegram"
	logx "epicbot/pkg/logx"
)

type App struct {
	cfgm *config.Manager
	logs *logx.Service
	log  logx.Logger

	store    storage.Store
	registry *subscription.Registry
	provider *epic.Client
	adapter  *telegram.Adapter
	sched    *push.Scheduler
	janitor  *push.Janitor

	cfgCh chan *config.Config
	wg    sync.WaitGroup
}

func New(cfgPath string) (*App, error) {
	cfgm := config.NewManager(cfgPath)
	cfg, err := cfgm.Load()
	if err != nil {
		return nil, err
	}

	logs, log := logx.New(logCfg(cfg))
	cfgm.SetLogger(log.With(logx.String("comp", "config")))

	storePath := cfg.Storage.Path
	if storePath == "" {
		storePath = "./data"
	}
	busy, err := config.ParseDurationField("storage.busy_timeout", cfg.Storage.BusyTimeout)
	if err != nil {
		return nil, err
	}
	store, err := storage.Open(storage.Config{
		Driver:      cfg.Storage.Driver,
		Path:        storePath,
		BusyTimeout: busy,
	}, log.With(logx.String("comp", "storage")))
	if err != nil {
		return nil, err
	}

	registry := subscription.NewRegistry(store, log.With(logx.String("comp", "subscriptions")))

	providerCfg, err := providerCfg(cfg)
	if err != nil {
		return nil, err
	}
	provider := epic.New(providerCfg, log.With(logx.String("comp", "epic")))

	pollTimeout, err := config.ParseDurationOrDefault("telegram.poll_timeout", cfg.Telegram.PollTimeout, 10*time.Second)
	if err != nil {
		return nil, err
	}
	adapter, err := telegram.New(telegram.Config{
		Token:       cfg.Telegram.Token,
		PollTimeout: pollTimeout,
		RatePerSec:  cfg.Telegram.RatePerSec,
	}, log.With(logx.String("comp", "telegram")))
	if err != nil {
		return nil, err
	}

	tick, err := config.ParseDurationOrDefault("push.tick_interval", cfg.Push.TickInterval, time.Minute)
	if err != nil {
		return nil, err
	}
	sched := push.NewScheduler(push.Config{TickInterval: tick},
		store, registry, provider, adapter, log.With(logx.String("comp", "push")))

	telegram.NewCommands(adapter, registry, sched, cfg.Telegram.OwnerUserIDs,
		log.With(logx.String("comp", "commands"))).Register()

	return &App{
		cfgm:     cfgm,
		logs:     logs,
		log:      log.With(logx.String("comp", "app")),
		store:    store,
		registry: registry,
		provider: provider,
		adapter:  adapter,
		sched:    sched,
		janitor:  push.NewJanitor(sched, log.With(logx.String("comp", "janitor"))),
	}, nil
}

func (a *App) Start(ctx context.Context) error {
	restored := a.sched.RestoreAll(ctx)
	a.log.Info("starting", logx.Int("jobs", restored))

	if err := a.janitor.Start(); err != nil {
		return err
	}
	if err := a.adapter.Start(ctx); err != nil {
		return err
	}

	// Hot-reload: logging and provider settings follow the config file.
	a.cfgCh = a.cfgm.Subscribe(1)
	a.wg.Add(2)
	go func() {
		defer a.wg.Done()
		_ = a.cfgm.Watch(ctx)
	}()
	go func() {
		defer a.wg.Done()
		for cfg := range a.cfgCh {
			a.applyConfig(cfg)
		}
	}()

	return nil
}

func (a *App) Stop(ctx context.Context) error {
	err := a.adapter.Stop(ctx)
	a.sched.Stop()
	a.janitor.Stop()
	a.cfgm.Unsubscribe(a.cfgCh)
	a.wg.Wait()
	if cerr := a.store.Close(); err == nil {
		err = cerr
	}
	a.log.Info("stopped")
	_ = a.logs.Close()
	return err
}

func (a *App) applyConfig(cfg *config.Config) {
	a.logs.Apply(logCfg(cfg))
	pc, err := providerCfg(cfg)
	if err != nil {
		a.log.Warn("provider config rejected", logx.Err(err))
		return
	}
	a.provider.Apply(pc)
	a.log.Info("runtime config applied")
}

func logCfg(cfg *config.Config) logx.Config {
	return logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.ConsoleEnabled(),
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	}
}

func providerCfg(cfg *config.Config) (epic.Config, error) {
	timeout, err := config.ParseDurationOrDefault("provider.timeout", cfg.Provider.Timeout, 15*time.Second)
	if err != nil {
		return epic.Config{}, err
	}
	return epic.Config{
		Locale:  cfg.Provider.Locale,
		Country: cfg.Provider.Country,
		Timeout: timeout,
	}, nil
}
