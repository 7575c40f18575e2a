// Package ui renders plain-terminal output for consolidation runs:
// progress milestones, summaries, and user-facing errors.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/marenkov/sheaf/internal/engine"
)

// ANSI color codes.
const (
	reset = "\033[0m"
	bold  = "\033[1m"
	dim   = "\033[2m"
	blue  = "\033[34m"
	green = "\033[32m"
	red   = "\033[31m"
	cyan  = "\033[36m"
)

type Printer struct {
	// Out receives all rendered output. Defaults to stderr so stdout
	// stays clean for shell pipelines.
	Out io.Writer

	// Verbose adds the per-file name listing to Summary output.
	Verbose bool
}

func New(verbose bool) *Printer {
	return &Printer{Out: os.Stderr, Verbose: verbose}
}

// Milestone renders one engine progress report. Suitable for use as an
// engine.ProgressFunc.
func (p *Printer) Milestone(pr engine.Progress) {
	switch pr.Stage {
	case engine.StageInitializing:
		// Quiet; scanning follows immediately.
	case engine.StageScanning:
		fmt.Fprintln(p.Out, cyan+"◆ scanning"+reset)
	case engine.StageReading:
		// Per-file lines come from the engine's log stream.
	case engine.StageAggregating:
		fmt.Fprintf(p.Out, cyan+"◆ aggregating"+reset+dim+" (%d files)"+reset+"\n", pr.FileTotal)
	case engine.StageSaving:
		fmt.Fprintln(p.Out, cyan+"◆ saving"+reset)
	case engine.StageDone:
		fmt.Fprintln(p.Out, green+bold+"✓ done"+reset)
	}
}

// Summary prints the post-run aggregate counts.
func (p *Printer) Summary(s engine.Summary, outputPath string) {
	fmt.Fprintf(p.Out, green+"◆ consolidated"+reset+" %d file(s), %d key(s) → %s\n",
		s.FileCount, s.KeyCount, outputPath)
	if p.Verbose {
		for _, name := range s.FileNames {
			fmt.Fprintf(p.Out, dim+"  • %s"+reset+"\n", name)
		}
	}
}

// FileList prints discovered files for a dry scan.
func (p *Printer) FileList(root string, files []string) {
	fmt.Fprintf(p.Out, cyan+"◆ %d spreadsheet file(s)"+reset+" under %s\n", len(files), root)
	for _, f := range files {
		fmt.Fprintf(p.Out, "  %s\n", f)
	}
}

// WatchTriggered announces a re-consolidation in watch mode.
func (p *Printer) WatchTriggered() {
	fmt.Fprintln(p.Out, blue+bold+"↻ change detected"+reset+": re-consolidating")
}

// Watching announces that watch mode is idle and waiting for changes.
func (p *Printer) Watching(root string) {
	fmt.Fprintf(p.Out, dim+"watching %s (ctrl-c to stop)"+reset+"\n", root)
}

func (p *Printer) Error(msg string) {
	fmt.Fprintf(p.Out, red+bold+"error: "+reset+"%s\n", msg)
}

func (p *Printer) Info(msg string) {
	fmt.Fprintf(p.Out, dim+"%s"+reset+"\n", msg)
}
