// Package extract reads one spreadsheet file's first sheet and produces
// a key/value Record from its first two columns.
package extract

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Record is one file's extracted data: the keys in the order they first
// appeared (top to bottom) and the value recorded for each. Values are
// plain strings end-to-end; an empty string means "present key, blank
// cell". Within a Record keys are unique; the first occurrence wins.
type Record struct {
	Keys   []string
	Values map[string]string
}

// Empty returns a Record with no keys. Files that fail to parse
// contribute an Empty record so they still produce an output row.
func Empty() Record {
	return Record{Values: make(map[string]string)}
}

// Has reports whether the record contains the given key.
func (r Record) Has(key string) bool {
	_, ok := r.Values[key]
	return ok
}

// Len returns the number of distinct keys in the record.
func (r Record) Len() int {
	return len(r.Keys)
}

// File opens the workbook at path and extracts a Record from its first
// sheet. Column 1 is the key, column 2 the value; all other columns and
// sheets are ignored. Keys are trimmed of surrounding whitespace and
// rows with an empty post-trim key are skipped entirely. A repeated key
// keeps its earliest value.
//
// Any failure to open or parse the file is returned as an error; the
// caller is expected to log it and substitute Empty() so one bad file
// never aborts a batch.
func File(path string) (Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Empty(), fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Empty(), nil
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		return Empty(), fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	defer rows.Close()

	rec := Empty()
	for rows.Next() {
		cols, err := rows.Columns()
		if err != nil {
			return Empty(), fmt.Errorf("reading row: %w", err)
		}

		var key, value string
		if len(cols) > 0 {
			key = strings.TrimSpace(cols[0])
		}
		if len(cols) > 1 {
			value = cols[1]
		}

		if key == "" {
			continue
		}
		if rec.Has(key) {
			continue // first occurrence wins
		}
		rec.Values[key] = value
		rec.Keys = append(rec.Keys, key)
	}
	if err := rows.Error(); err != nil {
		return Empty(), fmt.Errorf("iterating rows: %w", err)
	}

	return rec, nil
}
