package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/marenkov/sheaf/internal/engine"
)

func capturePrinter(verbose bool) (*Printer, *bytes.Buffer) {
	var buf bytes.Buffer
	return &Printer{Out: &buf, Verbose: verbose}, &buf
}

func TestMilestoneWritesToInjectedWriter(t *testing.T) {
	p, buf := capturePrinter(false)

	p.Milestone(engine.Progress{Stage: engine.StageScanning})
	p.Milestone(engine.Progress{Stage: engine.StageAggregating, FileTotal: 3})
	p.Milestone(engine.Progress{Stage: engine.StageDone})

	out := buf.String()
	for _, want := range []string{"scanning", "aggregating", "(3 files)", "done"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSummaryVerboseListsFiles(t *testing.T) {
	p, buf := capturePrinter(true)

	p.Summary(engine.Summary{
		FileCount: 2,
		KeyCount:  5,
		FileNames: []string{"one.xlsx", "sub/two.xlsx"},
	}, "out.xlsx")

	out := buf.String()
	if !strings.Contains(out, "2 file(s), 5 key(s)") || !strings.Contains(out, "out.xlsx") {
		t.Errorf("summary line missing counts:\n%s", out)
	}
	if !strings.Contains(out, "sub/two.xlsx") {
		t.Errorf("verbose summary should list files:\n%s", out)
	}
}

func TestSummaryQuietOmitsFiles(t *testing.T) {
	p, buf := capturePrinter(false)

	p.Summary(engine.Summary{FileCount: 1, FileNames: []string{"one.xlsx"}}, "out.xlsx")

	if strings.Contains(buf.String(), "• one.xlsx") {
		t.Errorf("quiet summary should not list files:\n%s", buf.String())
	}
}

func TestErrorOutput(t *testing.T) {
	p, buf := capturePrinter(false)
	p.Error("boom")
	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("error output missing message:\n%s", buf.String())
	}
}
