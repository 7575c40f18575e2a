package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/marenkov/sheaf/internal/config"
	"github.com/marenkov/sheaf/internal/scan"
	"github.com/marenkov/sheaf/internal/ui"
)

var scanCmd = &cobra.Command{
	Use:   "scan [dir]",
	Short: "List the spreadsheet files a consolidation would read",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if len(args) > 0 {
		cfg.InputDir = args[0]
	}

	info, err := os.Stat(cfg.InputDir)
	if err != nil {
		return fmt.Errorf("root path %q: %w", cfg.InputDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root path %q is not a directory", cfg.InputDir)
	}

	files, err := scan.Discover(cfg.InputDir)
	if err != nil {
		return fmt.Errorf("scanning %q: %w", cfg.InputDir, err)
	}

	// Discovered paths are absolute; relativize against the absolute root.
	absRoot, err := filepath.Abs(cfg.InputDir)
	if err != nil {
		absRoot = cfg.InputDir
	}
	rels := make([]string, len(files))
	for i, f := range files {
		if rel, err := filepath.Rel(absRoot, f); err == nil {
			rels[i] = rel
		} else {
			rels[i] = f
		}
	}

	ui.New(cfg.Verbose).FileList(cfg.InputDir, rels)
	return nil
}
