package export

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/marenkov/sheaf/internal/engine"
)

func sampleTable() *engine.Table {
	return &engine.Table{
		Header: []string{"Source File", "Name", "A considerably longer key name"},
		Rows: [][]string{
			{"one.xlsx", "Alice", ""},
			{"sub/two.xlsx", "Bob", "value"},
		},
	}
}

func exportSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "out.xlsx")
	w := &XLSXWriter{}
	if err := w.Export(context.Background(), sampleTable(), path); err != nil {
		t.Fatalf("Export: %v", err)
	}
	return path
}

func TestExportRoundTrip(t *testing.T) {
	path := exportSample(t)

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopening workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != SheetName {
		t.Fatalf("sheets = %v, want [%s]", sheets, SheetName)
	}

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if rows[0][0] != "Source File" || rows[0][1] != "Name" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "one.xlsx" || rows[1][1] != "Alice" {
		t.Errorf("row 1 = %v", rows[1])
	}
	if rows[2][2] != "value" {
		t.Errorf("row 2 = %v", rows[2])
	}
}

func TestExportFreezesHeaderRow(t *testing.T) {
	path := exportSample(t)

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopening workbook: %v", err)
	}
	defer f.Close()

	panes, err := f.GetPanes(SheetName)
	if err != nil {
		t.Fatalf("GetPanes: %v", err)
	}
	if !panes.Freeze || panes.YSplit != 1 || panes.TopLeftCell != "A2" {
		t.Errorf("panes = %+v, want frozen first row", panes)
	}
}

func TestExportHeaderStyle(t *testing.T) {
	path := exportSample(t)

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopening workbook: %v", err)
	}
	defer f.Close()

	styleID, err := f.GetCellStyle(SheetName, "A1")
	if err != nil {
		t.Fatalf("GetCellStyle: %v", err)
	}
	style, err := f.GetStyle(styleID)
	if err != nil {
		t.Fatalf("GetStyle: %v", err)
	}
	if style.Font == nil || !style.Font.Bold {
		t.Error("header font is not bold")
	}
	if style.Fill.Type != "pattern" || len(style.Fill.Color) == 0 {
		t.Errorf("header fill = %+v, want solid pattern", style.Fill)
	}
}

func TestExportColumnWidths(t *testing.T) {
	path := exportSample(t)

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopening workbook: %v", err)
	}
	defer f.Close()

	// Column C's longest content is its 30-char header:
	// (30 + 2) * 1.2 = 38.4.
	width, err := f.GetColWidth(SheetName, "C")
	if err != nil {
		t.Fatalf("GetColWidth: %v", err)
	}
	if width < 38 || width > 39 {
		t.Errorf("column C width = %v, want ~38.4", width)
	}

	// Column B ("Name"/"Alice"): (5 + 2) * 1.2 = 8.4.
	width, err = f.GetColWidth(SheetName, "B")
	if err != nil {
		t.Fatalf("GetColWidth: %v", err)
	}
	if width < 8 || width > 9 {
		t.Errorf("column B width = %v, want ~8.4", width)
	}
}

func TestExportColumnWidthsCountRunes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	w := &XLSXWriter{}
	table := &engine.Table{
		// 6 runes, 18 bytes: width must come from the rune count.
		Header: []string{"Source File", "日本語のキー"},
		Rows:   [][]string{{"one.xlsx", "値"}},
	}
	if err := w.Export(context.Background(), table, path); err != nil {
		t.Fatalf("Export: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopening workbook: %v", err)
	}
	defer f.Close()

	// (6 + 2) * 1.2 = 9.6.
	width, err := f.GetColWidth(SheetName, "B")
	if err != nil {
		t.Fatalf("GetColWidth: %v", err)
	}
	if width < 9 || width > 10 {
		t.Errorf("column B width = %v, want ~9.6", width)
	}
}

func TestExportUnwritableTarget(t *testing.T) {
	w := &XLSXWriter{}
	err := w.Export(context.Background(), sampleTable(),
		filepath.Join(t.TempDir(), "missing-dir", "out.xlsx"))
	if err == nil {
		t.Fatal("Export into a missing directory should fail")
	}
}
