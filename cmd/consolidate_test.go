package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/marenkov/sheaf/internal/engine"
)

func TestFailureClass(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{engine.ErrNoFiles, "no_files"},
		{engine.ErrNoData, "no_data"},
		{errors.New("disk full"), "error"},
	}
	for _, tt := range tests {
		if got := failureClass(tt.err); got != tt.want {
			t.Errorf("failureClass(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestDescribeFailureDistinctMessages(t *testing.T) {
	noFiles := describeFailure("/data", engine.ErrNoFiles).Error()
	noData := describeFailure("/data", engine.ErrNoData).Error()
	other := describeFailure("/data", errors.New("boom")).Error()

	if !strings.Contains(noFiles, "no spreadsheet files found") || !strings.Contains(noFiles, "/data") {
		t.Errorf("no-files message = %q", noFiles)
	}
	if !strings.Contains(noData, "usable key/value data") {
		t.Errorf("no-data message = %q", noData)
	}
	if !strings.Contains(other, "consolidation failed") || !strings.Contains(other, "boom") {
		t.Errorf("generic message = %q", other)
	}
	if noFiles == noData || noData == other {
		t.Error("failure messages must be distinct")
	}
}

func TestApplyFlagOverrides(t *testing.T) {
	cfg := configFixture()
	cmd := consolidateCmd
	if err := cmd.Flags().Set("output", "merged.xlsx"); err != nil {
		t.Fatalf("setting flag: %v", err)
	}
	t.Cleanup(func() {
		_ = cmd.Flags().Set("output", "")
		cmd.Flags().Lookup("output").Changed = false
	})

	applyFlagOverrides(cmd, []string{"/sheets"}, &cfg)
	if cfg.InputDir != "/sheets" {
		t.Errorf("InputDir = %q, want /sheets", cfg.InputDir)
	}
	if cfg.Output != "merged.xlsx" {
		t.Errorf("Output = %q, want merged.xlsx", cfg.Output)
	}
	// Untouched flags keep config values.
	if cfg.RunLogPath != ".sheaf.runs.toml" {
		t.Errorf("RunLogPath = %q, want default preserved", cfg.RunLogPath)
	}
}
