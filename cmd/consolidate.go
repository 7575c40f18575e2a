package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/marenkov/sheaf/internal/cache"
	"github.com/marenkov/sheaf/internal/config"
	"github.com/marenkov/sheaf/internal/engine"
	"github.com/marenkov/sheaf/internal/export"
	"github.com/marenkov/sheaf/internal/runlog"
	"github.com/marenkov/sheaf/internal/scan"
	"github.com/marenkov/sheaf/internal/tui"
	"github.com/marenkov/sheaf/internal/ui"
)

var consolidateCmd = &cobra.Command{
	Use:   "consolidate [dir]",
	Short: "Scan a directory tree and write the consolidated workbook",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConsolidate,
}

func init() {
	consolidateCmd.Flags().StringP("output", "o", "", "output workbook path")
	consolidateCmd.Flags().Bool("tui", false, "show the interactive progress UI")
	consolidateCmd.Flags().String("cache", "", "extraction cache database path")
	consolidateCmd.Flags().String("run-log", "", "run log file path (empty string disables)")

	rootCmd.AddCommand(consolidateCmd)
}

func runConsolidate(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	applyFlagOverrides(cmd, args, &cfg)
	printer := ui.New(cfg.Verbose)

	start := time.Now()
	summary, err := consolidateOnce(cmd.Context(), cfg)
	recordRun(cfg, start, summary, err, printer)

	if err != nil {
		return describeFailure(cfg.InputDir, err)
	}
	printer.Summary(summary, cfg.Output)
	return nil
}

// consolidateOnce builds one engine and runs a single consolidation,
// either under the TUI or with plain log output.
func consolidateOnce(ctx context.Context, cfg config.Config) (engine.Summary, error) {
	store, closeCache, err := openCache(ctx, cfg)
	if err != nil {
		return engine.Summary{}, err
	}
	defer closeCache()

	if cfg.TUI {
		return consolidateTUI(ctx, cfg, store)
	}

	eng, err := engine.New(engine.Config{
		Root:       cfg.InputDir,
		Exporter:   &export.XLSXWriter{},
		OnProgress: ui.New(cfg.Verbose).Milestone,
		Logger:     os.Stderr,
		Cache:      store,
	})
	if err != nil {
		return engine.Summary{}, err
	}

	runErr := eng.Run(ctx, cfg.Output)
	if runErr == nil {
		pruneCache(ctx, cfg, store)
	}
	return eng.Summary(), runErr
}

// pruneCache drops cache entries for files no longer under the root so
// deletions don't accumulate across watch-mode runs.
func pruneCache(ctx context.Context, cfg config.Config, store engine.RecordCache) {
	cs, ok := store.(*cache.Store)
	if !ok || cs == nil {
		return
	}
	files, err := scan.Discover(cfg.InputDir)
	if err != nil {
		return
	}
	_ = cs.Prune(ctx, files)
}

// consolidateTUI runs the engine on a goroutine and feeds its progress
// into a BubbleTea program. The engine's log stream is discarded so it
// cannot corrupt the terminal. Quitting the view cancels the run; the
// engine goroutine is always joined before its error is read.
func consolidateTUI(ctx context.Context, cfg config.Config, store engine.RecordCache) (engine.Summary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tui.NewProgram()

	eng, err := engine.New(engine.Config{
		Root:     cfg.InputDir,
		Exporter: &export.XLSXWriter{},
		OnProgress: func(p engine.Progress) {
			program.Send(tui.MsgProgress(p))
		},
		Logger: io.Discard,
		Cache:  store,
	})
	if err != nil {
		return engine.Summary{}, err
	}

	var runErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		runErr = eng.Run(ctx, cfg.Output)
		program.Send(tui.MsgDone{Err: runErr, Summary: eng.Summary(), Output: cfg.Output})
	}()

	model, uiErr := program.Run()
	cancel()
	<-done

	if uiErr != nil {
		return eng.Summary(), fmt.Errorf("progress UI: %w", uiErr)
	}
	if m, ok := model.(tui.Model); ok && m.Aborted() {
		return eng.Summary(), errors.New("consolidation aborted")
	}
	return eng.Summary(), runErr
}

// openCache opens the extraction cache when one is configured. The
// returned close function is a no-op for a disabled cache. The nil
// interface dance matters: engine.Config.Cache must stay nil, not a
// typed nil pointer.
func openCache(ctx context.Context, cfg config.Config) (engine.RecordCache, func(), error) {
	if cfg.CachePath == "" {
		return nil, func() {}, nil
	}
	store, err := cache.Open(ctx, cfg.CachePath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening cache %q: %w", cfg.CachePath, err)
	}
	return store, func() { store.Close() }, nil
}

// recordRun appends the run to the run log unless it is disabled.
func recordRun(cfg config.Config, start time.Time, summary engine.Summary, runErr error, printer *ui.Printer) {
	if cfg.RunLogPath == "" {
		return
	}
	run := runlog.Run{
		Root:       cfg.InputDir,
		OutputPath: cfg.Output,
		StartedAt:  start,
		Duration:   time.Since(start),
		FileCount:  summary.FileCount,
		KeyCount:   summary.KeyCount,
		Success:    runErr == nil,
		Failure:    failureClass(runErr),
	}
	if err := runlog.Save(cfg.RunLogPath, run); err != nil {
		printer.Info(fmt.Sprintf("run log: %v", err))
	}
}

// failureClass maps a run error to the stable label stored in the run log.
func failureClass(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, engine.ErrNoFiles):
		return "no_files"
	case errors.Is(err, engine.ErrNoData):
		return "no_data"
	default:
		return "error"
	}
}

// describeFailure converts run errors into the distinct user-facing
// messages for the three failure classes.
func describeFailure(root string, err error) error {
	switch {
	case errors.Is(err, engine.ErrNoFiles):
		return fmt.Errorf("no spreadsheet files found under %s", root)
	case errors.Is(err, engine.ErrNoData):
		return errors.New("spreadsheet files were found but none contained usable key/value data")
	default:
		return fmt.Errorf("consolidation failed: %w", err)
	}
}

// applyFlagOverrides layers positional args and explicitly set flags
// over the loaded config.
func applyFlagOverrides(cmd *cobra.Command, args []string, cfg *config.Config) {
	if len(args) > 0 {
		cfg.InputDir = args[0]
	}
	if cmd.Flags().Changed("output") {
		cfg.Output, _ = cmd.Flags().GetString("output")
	}
	if cmd.Flags().Changed("tui") {
		cfg.TUI, _ = cmd.Flags().GetBool("tui")
	}
	if cmd.Flags().Changed("cache") {
		cfg.CachePath, _ = cmd.Flags().GetString("cache")
	}
	if cmd.Flags().Changed("run-log") {
		cfg.RunLogPath, _ = cmd.Flags().GetString("run-log")
	}
	if v, _ := cmd.Root().PersistentFlags().GetBool("verbose"); v {
		cfg.Verbose = true
	}
}
