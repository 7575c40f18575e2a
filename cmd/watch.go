package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/marenkov/sheaf/internal/config"
	"github.com/marenkov/sheaf/internal/ui"
	"github.com/marenkov/sheaf/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Consolidate, then re-consolidate whenever the tree changes",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().StringP("output", "o", "", "output workbook path")
	watchCmd.Flags().String("cache", "", "extraction cache database path")
	watchCmd.Flags().String("run-log", "", "run log file path (empty string disables)")
	watchCmd.Flags().Int("debounce", 0, "debounce window in milliseconds")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	applyFlagOverrides(cmd, args, &cfg)
	if cmd.Flags().Changed("debounce") {
		cfg.DebounceMS, _ = cmd.Flags().GetInt("debounce")
	}
	printer := ui.New(cfg.Verbose)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initial pass. A failed first run is reported but does not stop
	// the watch; a later change may make the tree consolidatable.
	if err := watchPass(ctx, cfg, printer); err != nil {
		printer.Error(err.Error())
	}

	w, err := watch.New(cfg.InputDir, time.Duration(cfg.DebounceMS)*time.Millisecond)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	printer.Watching(cfg.InputDir)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.Triggers:
			printer.WatchTriggered()
			if err := watchPass(ctx, cfg, printer); err != nil {
				printer.Error(err.Error())
			}
		}
	}
}

// watchPass runs one consolidation, logging it like a standalone run.
// The TUI is never used in watch mode; its alternate screen would fight
// the long-running log stream.
func watchPass(ctx context.Context, cfg config.Config, printer *ui.Printer) error {
	passCfg := cfg
	passCfg.TUI = false

	start := time.Now()
	summary, err := consolidateOnce(ctx, passCfg)
	recordRun(passCfg, start, summary, err, printer)

	if err != nil {
		return describeFailure(passCfg.InputDir, err)
	}
	printer.Summary(summary, passCfg.Output)
	return nil
}
