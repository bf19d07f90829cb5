package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"etymap/internal/config"
	"etymap/internal/etymology"
	"etymap/internal/logging"
	"etymap/internal/prediction"
	"etymap/internal/services/llm"
	"etymap/internal/session"
	"etymap/internal/store"
	"etymap/internal/timeline"
	"etymap/internal/translate"
)

// Daemon coordinates the background services and enforces single-instance
// execution.
type Daemon struct {
	cfg        *config.Config
	logger     *slog.Logger
	store      *store.Store
	sessions   *session.Manager
	etym       *etymology.Source
	predict    *prediction.Source
	translator *translate.Client
	api        *apiServer

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running               bool
	PID                   int
	DBPath                string
	LockFilePath          string
	Sessions              int
	LLMConfigured         bool
	TranslationConfigured bool
}

// New constructs a daemon with initialized dependencies. The translation
// cache is backed by the store so localized strings survive restarts.
func New(cfg *config.Config, st *store.Store, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || st == nil {
		return nil, errors.New("daemon requires config and store")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	llmCfg := llm.Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		Model:          cfg.LLM.Model,
		TimeoutSeconds: cfg.LLM.TimeoutSeconds,
	}
	predictionCfg := cfg.PredictionLLM()

	etymSource := etymology.NewSource(llmCfg, logger)
	predictSource := prediction.NewSource(llm.Config{
		APIKey:         predictionCfg.APIKey,
		BaseURL:        predictionCfg.BaseURL,
		Model:          predictionCfg.Model,
		TimeoutSeconds: predictionCfg.TimeoutSeconds,
	}, logger)

	translator, err := translate.NewClient(translate.Config{
		APIKey:         cfg.Translation.APIKey,
		BaseURL:        cfg.Translation.BaseURL,
		SourceLocale:   cfg.Translation.SourceLocale,
		Locales:        cfg.Translation.Locales,
		TimeoutSeconds: cfg.Translation.TimeoutSeconds,
	}, st.Translations(), logger)
	if err != nil {
		return nil, fmt.Errorf("build translator: %w", err)
	}

	intervals := timeline.Intervals{
		Normal: time.Duration(cfg.Playback.NormalTickSeconds) * time.Second,
		Slow:   time.Duration(cfg.Playback.SlowTickSeconds) * time.Second,
	}
	sessions := session.NewManager(etymSource, translator, cfg.Translation.SourceLocale, intervals, logger)

	lockPath := filepath.Join(cfg.Paths.DataDir, "etymapd.lock")
	d := &Daemon{
		cfg:        cfg,
		logger:     logger,
		store:      st,
		sessions:   sessions,
		etym:       etymSource,
		predict:    predictSource,
		translator: translator,
		lockPath:   lockPath,
		lock:       flock.New(lockPath),
	}

	api, err := newAPIServer(cfg, d, logger)
	if err != nil {
		return nil, err
	}
	d.api = api
	return d, nil
}

// Start acquires the daemon lock and begins serving the API.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another etymap daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	if d.api != nil {
		if err := d.api.start(runCtx); err != nil {
			_ = d.lock.Unlock()
			cancel()
			d.cancel = nil
			return err
		}
	}

	d.running.Store(true)
	d.logger.Info("etymap daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop shuts down the API server, closes sessions, and releases the lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.api.stop()
	d.sessions.CloseAll()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("etymap daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// APIAddr returns the bound API listen address, empty before Start or when
// the API is disabled.
func (d *Daemon) APIAddr() string {
	if d.api == nil || d.api.listener == nil {
		return ""
	}
	return d.api.listener.Addr().String()
}

// Sessions exposes the session manager.
func (d *Daemon) Sessions() *session.Manager {
	return d.sessions
}

// Store exposes the persistence layer.
func (d *Daemon) Store() *store.Store {
	return d.store
}

// Status returns the current daemon status.
func (d *Daemon) Status() Status {
	return Status{
		Running:               d.running.Load(),
		PID:                   os.Getpid(),
		DBPath:                d.store.Path(),
		LockFilePath:          d.lockPath,
		Sessions:              len(d.sessions.List()),
		LLMConfigured:         d.cfg.LLM.APIKey != "",
		TranslationConfigured: d.cfg.Translation.APIKey != "",
	}
}
