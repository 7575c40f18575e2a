// Package export renders an assembled table as a formatted xlsx
// workbook.
package export

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/marenkov/sheaf/internal/engine"
)

// SheetName is the single sheet the consolidated table is written to.
const SheetName = "Consolidated Data"

// headerFill is the header row's background color.
const headerFill = "CCFFCC"

// maxColWidth is the widest column xlsx allows, in character units.
const maxColWidth = 255

// XLSXWriter writes tables as xlsx workbooks: bold highlighted header,
// auto-sized columns, and the first row frozen for scrolling.
type XLSXWriter struct{}

// Export writes the table to outputPath, replacing any existing file.
func (w *XLSXWriter) Export(ctx context.Context, table *engine.Table, outputPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	if err := writeRow(f, 1, table.Header); err != nil {
		return err
	}
	for i, row := range table.Rows {
		if err := writeRow(f, i+2, row); err != nil {
			return err
		}
	}

	if err := styleHeader(f, len(table.Header)); err != nil {
		return err
	}
	if err := sizeColumns(f, table); err != nil {
		return err
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freezing header row: %w", err)
	}

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, rowNum int, cells []string) error {
	start, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("row %d: %w", rowNum, err)
	}
	if err := f.SetSheetRow(SheetName, start, &cells); err != nil {
		return fmt.Errorf("writing row %d: %w", rowNum, err)
	}
	return nil
}

// styleHeader makes the header row bold on a solid highlighted fill.
func styleHeader(f *excelize.File, cols int) error {
	styleID, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	last, err := excelize.ColumnNumberToName(cols)
	if err != nil {
		return fmt.Errorf("header extent: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", last+"1", styleID); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}
	return nil
}

// sizeColumns widens each column to fit its longest content, using the
// (max_text_length + 2) * 1.2 heuristic. Length is counted in runes so
// non-ASCII text does not inflate widths.
func sizeColumns(f *excelize.File, table *engine.Table) error {
	for i := range table.Header {
		longest := utf8.RuneCountInString(table.Header[i])
		for _, row := range table.Rows {
			if i < len(row) {
				if n := utf8.RuneCountInString(row[i]); n > longest {
					longest = n
				}
			}
		}

		width := (float64(longest) + 2) * 1.2
		if width > maxColWidth {
			width = maxColWidth
		}

		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("column %d: %w", i+1, err)
		}
		if err := f.SetColWidth(SheetName, name, name, width); err != nil {
			return fmt.Errorf("sizing column %s: %w", name, err)
		}
	}
	return nil
}
