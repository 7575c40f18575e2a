package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/marenkov/sheaf/internal/config"
	"github.com/marenkov/sheaf/internal/runlog"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded consolidation runs",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().String("run-log", "", "run log file path")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if cmd.Flags().Changed("run-log") {
		cfg.RunLogPath, _ = cmd.Flags().GetString("run-log")
	}
	if cfg.RunLogPath == "" {
		return fmt.Errorf("run log is disabled; set run_log_path or pass --run-log")
	}

	current, history, err := runlog.Load(cfg.RunLogPath)
	if err != nil {
		return err
	}
	if current.StartedAt.IsZero() && len(history) == 0 {
		fmt.Println("no recorded runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tROOT\tFILES\tKEYS\tDURATION\tRESULT")
	for _, r := range history {
		printRun(w, r)
	}
	printRun(w, current)
	return w.Flush()
}

func printRun(w *tabwriter.Writer, r runlog.Run) {
	result := "ok"
	if !r.Success {
		result = r.Failure
	}
	fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\n",
		r.StartedAt.Format(time.DateTime), r.Root, r.FileCount, r.KeyCount,
		r.Duration.Truncate(time.Millisecond), result)
}
