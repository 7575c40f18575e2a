package engine

// Stage identifies a discrete milestone in a consolidation run.
type Stage int

const (
	StageInitializing Stage = iota // run accepted, nothing scanned yet
	StageScanning                  // enumerating candidate files
	StageReading                   // extracting one file (FileIndex/FileTotal set)
	StageAggregating               // computing the key universe and table
	StageSaving                    // handing the table to the exporter
	StageDone                      // run finished successfully
)

// String returns the operator-facing label for a stage.
func (s Stage) String() string {
	switch s {
	case StageInitializing:
		return "initializing"
	case StageScanning:
		return "scanning"
	case StageReading:
		return "reading"
	case StageAggregating:
		return "aggregating"
	case StageSaving:
		return "saving"
	case StageDone:
		return "done"
	}
	return "unknown"
}

// Progress is one milestone report. During StageReading, FileIndex is
// 1-based and File holds the root-relative path being read.
type Progress struct {
	Stage     Stage
	FileIndex int
	FileTotal int
	File      string
}

// ProgressFunc receives milestone reports from a run. It is called on
// the Run goroutine; implementations must not block for long.
type ProgressFunc func(Progress)
