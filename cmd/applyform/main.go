package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/npratt/applyform/internal/application"
	"github.com/npratt/applyform/internal/controller"
	"github.com/npratt/applyform/internal/events"
	"github.com/npratt/applyform/internal/review"
	"github.com/npratt/applyform/internal/schema"
	"github.com/npratt/applyform/internal/shutdown"
	"github.com/npratt/applyform/internal/storage"
	"github.com/npratt/applyform/internal/submit"
	"github.com/npratt/applyform/internal/tui"
)

var version = "dev"

// followPoll is how often `events --follow` checks the log for new lines.
const followPoll = 200 * time.Millisecond

// shutdownGrace is added to the submission delay when waiting for a
// cancelled headless submission to return.
const shutdownGrace = 5 * time.Second

// reviewJSON is the machine-readable output of `applyform review --json`.
type reviewJSON struct {
	Saved       bool              `json:"saved"`
	Key         string            `json:"key"`
	Application application.State `json:"application"`
	Missing     schema.Errors     `json:"missing,omitempty"`
}

func main() {
	logLevel := &slog.LevelVar{}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	viper.SetEnvPrefix("APPLYFORM")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	setVerbose := func() {
		if viper.GetBool(FlagVerbose) {
			logLevel.Set(slog.LevelDebug)
			logger.Debug("verbose logging enabled")
		}
	}

	rootCmd := &cobra.Command{
		Use:   "applyform",
		Short: "Multi-step job application form",
		Long: `applyform collects a job application in three steps: personal
information, professional experience and a final review.

Progress is saved after every change and restored on the next start.
Three failed attempts to continue lock the form for thirty seconds.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().Bool(FlagVerbose, false, "Enable verbose (debug) logging")
	rootCmd.PersistentFlags().String(FlagConfig, "", "Config file path (default: .applyform/config.yaml)")
	rootCmd.PersistentFlags().String(FlagLogFile, "", "Activity log path")
	rootCmd.PersistentFlags().String(FlagStorageFile, "", "Storage file path")
	rootCmd.PersistentFlags().String(FlagStorageKey, "", "Storage key holding the application")

	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		_ = viper.BindPFlag(f.Name, f)
	})

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("applyform %s\n", version)
		},
	}

	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Fill in the application",
		Long: `Open the application form.

On a terminal the full-screen form is shown. When stdin is not a terminal,
or with --line, the form is asked one field per line instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			setVerbose()

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			lineMode, _ := cmd.Flags().GetBool(FlagLine)
			if !lineMode && !term.IsTerminal(int(os.Stdin.Fd())) {
				lineMode = true
			}
			if !lineMode && tui.TerminalTooSmall() {
				logger.Info("terminal too small for the form, using line mode")
				lineMode = true
			}

			// The full-screen form owns the terminal, so logs go to a file.
			ctrlLogger := logger
			if !lineMode {
				tuiLog := SetupTUILogger(filepath.Dir(cfg.Paths.Log), logLevel, cfg.LogRotation)
				defer func() { _ = tuiLog.Close() }()
				ctrlLogger = tuiLog.Logger
				slog.SetDefault(ctrlLogger)
			}

			s, err := openSession(cmd.Context(), cfg, ctrlLogger)
			if err != nil {
				return err
			}
			defer s.Close()

			uiEvents := s.router.SubscribeBuffered(uiBufferSize)
			defer s.router.Unsubscribe(uiEvents)

			ctrl := s.attach(ctrlLogger)

			ctrlLogger.Info("applyform starting",
				"version", version,
				"log_file", cfg.Paths.Log,
				"storage_file", cfg.Paths.Storage,
				"storage_key", cfg.Storage.Key,
				"line_mode", lineMode,
			)

			opts := []tui.Option{
				tui.WithEvents(uiEvents),
				tui.WithToastDuration(cfg.UI.ToastDuration),
				tui.WithAltScreen(cfg.UI.AltScreen),
				tui.WithOnQuit(func() { ctrlLogger.Info("form closed by user", "step", ctrl.Step()) }),
			}
			if lineMode {
				opts = append(opts, tui.WithLineMode(os.Stdin, os.Stdout))
			}
			return tui.New(ctrl, opts...).Run(cmd.Context())
		},
	}

	startCmd.Flags().Bool(FlagLine, false, "Ask one field per line instead of the full-screen form")
	startCmd.Flags().Bool(FlagAltScreen, true, "Use the terminal's alternate screen")
	startCmd.Flags().Int(FlagErrorLimit, 3, "Failed attempts to continue before the form locks")
	startCmd.Flags().Duration(FlagLockout, 30*time.Second, "How long the form stays locked")
	startCmd.Flags().Bool(FlagResetOnSubmit, false, "Clear the application after a successful submission")
	startCmd.Flags().Duration(FlagSubmitDelay, submit.DefaultDelay, "Simulated submission latency")

	reviewCmd := &cobra.Command{
		Use:   "review",
		Short: "Show the saved application",
		RunE: func(cmd *cobra.Command, args []string) error {
			setVerbose()

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			store := storage.NewSlotStore(afero.NewOsFs(), cfg.Paths.Storage, cfg.Storage.Key,
				storage.WithLogger(logger))
			state, saved := store.Load()
			missing := schema.ValidateAll(state)

			asJSON, _ := cmd.Flags().GetBool(FlagJSON)
			if asJSON {
				data, err := json.MarshalIndent(reviewJSON{
					Saved:       saved,
					Key:         cfg.Storage.Key,
					Application: state,
					Missing:     missing,
				}, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal review: %w", err)
				}
				fmt.Println(string(data))
				return nil
			}

			if !saved {
				fmt.Println("No hay datos guardados.")
				return nil
			}
			fmt.Print(review.Build(state).Text())
			if !missing.Valid() {
				fmt.Printf("\nCampos pendientes (%d):\n", len(missing))
				for _, path := range missing.Fields() {
					fmt.Printf("  %s: %s\n", path, missing[path])
				}
			}
			return nil
		},
	}
	reviewCmd.Flags().Bool(FlagJSON, false, "Output the application as JSON")

	submitCmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit the saved application without opening the form",
		RunE: func(cmd *cobra.Command, args []string) error {
			setVerbose()

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			s, err := openSession(cmd.Context(), cfg, logger, events.WithAppend())
			if err != nil {
				return err
			}
			defer s.Close()

			ctrl := s.attach(logger)
			if ctrl.Record().Snapshot().IsZero() {
				return errors.New("no saved application to submit (run `applyform start` first)")
			}
			if err := ctrl.GoToStep(application.StepReview); err != nil {
				return err
			}

			receipts := make(chan submit.Receipt, 1)
			err = shutdown.Run(
				cmd.Context(),
				logger,
				cfg.Submission.Delay+shutdownGrace,
				func(runCtx context.Context) error {
					r, err := ctrl.Submit(runCtx)
					if err == nil {
						receipts <- r
					}
					return err
				},
				func(context.Context) error {
					ctrl.Close()
					return nil
				},
			)
			if err != nil {
				if errors.Is(err, controller.ErrIncomplete) {
					fmt.Println("La solicitud está incompleta. Usa `applyform review` para ver los campos pendientes.")
				}
				return err
			}
			select {
			case receipt := <-receipts:
				fmt.Printf("%s: %s\nRecibo: %s\n", controller.TitleSuccess, controller.DescSuccess, receipt.ID)
			default:
				fmt.Println("Envío cancelado.")
			}
			return nil
		},
	}
	submitCmd.Flags().Duration(FlagSubmitDelay, submit.DefaultDelay, "Simulated submission latency")
	submitCmd.Flags().Bool(FlagResetOnSubmit, false, "Clear the application after a successful submission")

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Discard the saved application",
		RunE: func(cmd *cobra.Command, args []string) error {
			setVerbose()

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			s, err := openSession(cmd.Context(), cfg, logger, events.WithAppend())
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.attach(logger).Reset(); err != nil {
				return err
			}
			fmt.Printf("Datos guardados eliminados (%s).\n", cfg.Storage.Key)
			return nil
		},
	}

	eventsCmd := &cobra.Command{
		Use:   "events",
		Short: "View recent activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			follow, _ := cmd.Flags().GetBool(FlagFollow)
			if follow {
				return tailFollow(cmd.Context(), os.Stdout, cfg.Paths.Log, followPoll)
			}
			count, _ := cmd.Flags().GetInt(FlagCount)
			return tailLast(os.Stdout, cfg.Paths.Log, count)
		},
	}
	eventsCmd.Flags().Bool(FlagFollow, false, "Follow the activity log (like tail -f)")
	eventsCmd.Flags().IntP(FlagCount, "n", 20, "Number of recent events to show")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(eventsCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}
