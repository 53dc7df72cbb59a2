package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/npratt/applyform/internal/config"
	"github.com/npratt/applyform/internal/controller"
	"github.com/npratt/applyform/internal/events"
	"github.com/npratt/applyform/internal/storage"
	"github.com/npratt/applyform/internal/submit"
)

// uiBufferSize is the buffer of the subscription feeding the form UI.
const uiBufferSize = 256

// loadConfig reads the layered configuration and applies explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed(FlagLogFile) {
		cfg.Paths.Log = viper.GetString(FlagLogFile)
	}
	if flags.Changed(FlagStorageFile) {
		cfg.Paths.Storage = viper.GetString(FlagStorageFile)
	}
	if flags.Changed(FlagStorageKey) {
		cfg.Storage.Key = viper.GetString(FlagStorageKey)
	}

	// Command flags are not bound to viper; start and submit share names.
	if flags.Changed(FlagErrorLimit) {
		cfg.Form.ErrorLimit, _ = flags.GetInt(FlagErrorLimit)
	}
	if flags.Changed(FlagLockout) {
		cfg.Form.LockoutDuration, _ = flags.GetDuration(FlagLockout)
	}
	if flags.Changed(FlagResetOnSubmit) {
		cfg.Form.ResetOnSubmit, _ = flags.GetBool(FlagResetOnSubmit)
	}
	if flags.Changed(FlagSubmitDelay) {
		cfg.Submission.Delay, _ = flags.GetDuration(FlagSubmitDelay)
	}
	if flags.Changed(FlagAltScreen) {
		cfg.UI.AltScreen, _ = flags.GetBool(FlagAltScreen)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// session wires the router, activity log, storage slot and controller for
// one command invocation.
type session struct {
	cfg        *config.Config
	router     *events.Router
	logSink    *events.LogSink
	store      *storage.SlotStore
	ctrl       *controller.Controller
	sinkCancel context.CancelFunc
}

// openSession starts the activity log and opens the storage slot. The
// controller is created by attach so callers can subscribe to the router
// before it emits its first events.
func openSession(ctx context.Context, cfg *config.Config, logger *slog.Logger, sinkOpts ...events.LogSinkOption) (*session, error) {
	router := events.NewRouter(events.DefaultBufferSize)
	logSink := events.NewLogSink(cfg.Paths.Log, sinkOpts...)

	sinkCtx, sinkCancel := context.WithCancel(ctx)
	if err := logSink.Start(sinkCtx, router.Subscribe()); err != nil {
		sinkCancel()
		router.Close()
		return nil, fmt.Errorf("start log sink: %w", err)
	}

	store := storage.NewSlotStore(afero.NewOsFs(), cfg.Paths.Storage, cfg.Storage.Key,
		storage.WithLogger(logger))

	return &session{
		cfg:        cfg,
		router:     router,
		logSink:    logSink,
		store:      store,
		sinkCancel: sinkCancel,
	}, nil
}

// attach creates the controller, restoring any saved application.
func (s *session) attach(logger *slog.Logger) *controller.Controller {
	s.ctrl = controller.New(s.cfg, s.store, submit.NewSimulated(s.cfg.Submission.Delay), s.router, logger)
	return s.ctrl
}

// Close stops the controller and flushes the activity log.
func (s *session) Close() {
	if s.ctrl != nil {
		s.ctrl.Close()
	}
	// Closing the router first lets the sink drain what is already queued.
	s.router.Close()
	_ = s.logSink.Stop()
	s.sinkCancel()
}
