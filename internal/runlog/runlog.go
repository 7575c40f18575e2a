// Package runlog records consolidation runs in a TOML file: the most
// recent run plus a capped history of previous ones.
package runlog

import (
	"fmt"
	"os"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// maxHistoryEntries is the maximum number of previous runs kept.
const maxHistoryEntries = 20

// Run describes one consolidation run.
type Run struct {
	Root       string
	OutputPath string
	StartedAt  time.Time
	Duration   time.Duration
	FileCount  int
	KeyCount   int
	Success    bool
	Failure    string // empty on success; failure class otherwise
}

// logFile is the TOML-serializable representation of the run log.
type logFile struct {
	Current runRecord   `toml:"current"`
	History []runRecord `toml:"history"`
}

// runRecord is the TOML-serializable form of a Run. time.Duration is
// stored as nanoseconds since the TOML library does not natively
// support Go durations.
type runRecord struct {
	Root       string    `toml:"root"`
	OutputPath string    `toml:"output_path"`
	StartedAt  time.Time `toml:"started_at"`
	DurationNs int64     `toml:"duration_ns"`
	FileCount  int       `toml:"file_count"`
	KeyCount   int       `toml:"key_count"`
	Success    bool      `toml:"success"`
	Failure    string    `toml:"failure,omitempty"`
}

// Save writes the run to path as the current entry. If a previous log
// exists, its current entry rotates into the history array, capped at
// maxHistoryEntries most recent.
func Save(path string, r Run) error {
	existing, err := load(path)
	if err != nil {
		return fmt.Errorf("loading existing run log: %w", err)
	}

	var history []runRecord
	if existing != nil {
		history = append(existing.History, existing.Current)
	}
	if len(history) > maxHistoryEntries {
		history = history[len(history)-maxHistoryEntries:]
	}

	file := logFile{
		Current: toRecord(r),
		History: history,
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("marshaling run log: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing temp run log: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming run log: %w", err)
	}
	return nil
}

// Load reads the current run and up to maxHistoryEntries previous runs
// from path. If no file exists, all return values are zero (no error).
func Load(path string) (Run, []Run, error) {
	file, err := load(path)
	if err != nil {
		return Run{}, nil, err
	}
	if file == nil {
		return Run{}, nil, nil
	}

	history := make([]Run, len(file.History))
	for i, rec := range file.History {
		history[i] = fromRecord(rec)
	}
	return fromRecord(file.Current), history, nil
}

// load reads and parses the raw log file. Returns nil, nil if the file
// does not exist.
func load(path string) (*logFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading run log: %w", err)
	}

	var file logFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing run log: %w", err)
	}
	return &file, nil
}

func toRecord(r Run) runRecord {
	return runRecord{
		Root:       r.Root,
		OutputPath: r.OutputPath,
		StartedAt:  r.StartedAt,
		DurationNs: int64(r.Duration),
		FileCount:  r.FileCount,
		KeyCount:   r.KeyCount,
		Success:    r.Success,
		Failure:    r.Failure,
	}
}

func fromRecord(rec runRecord) Run {
	return Run{
		Root:       rec.Root,
		OutputPath: rec.OutputPath,
		StartedAt:  rec.StartedAt,
		Duration:   time.Duration(rec.DurationNs),
		FileCount:  rec.FileCount,
		KeyCount:   rec.KeyCount,
		Success:    rec.Success,
		Failure:    rec.Failure,
	}
}
