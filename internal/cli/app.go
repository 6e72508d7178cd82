package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"intervue/internal/config"
	"intervue/internal/journal"
	"intervue/internal/logging"
	"intervue/internal/notify"
	"intervue/internal/speech"
	"intervue/internal/store"
	"intervue/pkg/scoring/httpclient"
)

// appOptions selects how a command wants its collaborators built.
type appOptions struct {
	// console logs to stderr; live programs leave it off so logs never
	// reach the screen.
	console bool
	journal bool
	stderr  io.Writer
}

// app holds the collaborators one command invocation shares.
type app struct {
	cfg      config.Config
	log      zerolog.Logger
	client   *httpclient.Client
	notifier notify.Notifier
	journal  *journal.Journal
	store    *store.Store
	closers  []func() error
}

// loadConfig resolves and loads the config for a command.
func loadConfig(configPath string) (config.Config, error) {
	resolved, err := resolveConfigPath(configPath)
	if err != nil {
		return config.Config{}, err
	}
	return config.Load(resolved)
}

// openApp builds the client, notifier, journal and store.
func openApp(ctx context.Context, cfg config.Config, opts appOptions) (*app, error) {
	log, closeLog, err := logging.New(logging.Options{
		Level:   cfg.Log.Level,
		File:    cfg.Log.File,
		Console: opts.console,
		Stderr:  opts.stderr,
		NoColor: cfg.UI.NoColor,
	})
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: log, closers: []func() error{closeLog}}

	a.client = httpclient.NewWithTimeout(cfg.Service.BaseURL, cfg.Service.Timeout, httpclient.WithLogger(log))

	a.notifier, err = notify.Open(ctx, notify.Settings{
		Backend:  cfg.Notify.Backend,
		RedisURL: cfg.Notify.RedisURL,
		AMQPURL:  cfg.Notify.AMQPURL,
		Channel:  cfg.Notify.Channel,
	}, log)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("open notifications: %w", err)
	}
	a.closers = append(a.closers, a.notifier.Close)

	storeOpts := []store.Option{store.WithLogger(log), store.WithPublisher(a.notifier)}
	if opts.journal && !cfg.Journal.Disabled {
		j, err := openJournal(ctx, cfg.Journal.Path)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.Journal.Path).Msg("journal unavailable")
		} else {
			a.journal = j
			a.closers = append(a.closers, j.Close)
			storeOpts = append(storeOpts, store.WithRecorder(j))
		}
	}
	a.store = store.New(a.client, storeOpts...)
	return a, nil
}

// recognizer builds the configured speech recognizer.
func (a *app) recognizer() speech.Recognizer {
	return speech.NewRecognizer(a.cfg.Speech.Command, a.cfg.Speech.Args, a.cfg.Speech.Lang, a.log)
}

// Close waits for background store work, then releases everything else
// in reverse order.
func (a *app) Close() error {
	var errs []error
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

func openJournal(ctx context.Context, path string) (*journal.Journal, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create journal dir: %w", err)
		}
	}
	return journal.Open(ctx, path)
}
