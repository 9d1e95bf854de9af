package tabular

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadRows loads every row of the first sheet as raw strings.
func ReadRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets in %s", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading rows of %s: %w", path, err)
	}
	return rows, nil
}

// FromRows builds a table treating rows[headerOffset] as the header row and
// everything below it as data. Blank cells become nulls.
func FromRows(rows [][]string, headerOffset int) (*Table, error) {
	if headerOffset < 0 || headerOffset >= len(rows) {
		return nil, fmt.Errorf("header offset %d out of range", headerOffset)
	}
	header := rows[headerOffset]
	t := New()
	for _, h := range header {
		t.Columns = append(t.Columns, strings.TrimSpace(h))
	}
	for _, raw := range rows[headerOffset+1:] {
		cells := make([]*string, len(t.Columns))
		for i := range t.Columns {
			if i < len(raw) && strings.TrimSpace(raw[i]) != "" {
				v := strings.TrimSpace(raw[i])
				cells[i] = &v
			}
		}
		t.AppendRow(cells)
	}
	return t, nil
}

// Read loads the first sheet of a spreadsheet whose first row is the header.
func Read(path string) (*Table, error) {
	rows, err := ReadRows(path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return New(), nil
	}
	return FromRows(rows, 0)
}

// Write serializes the table to a single-sheet spreadsheet. Cells that parse
// as decimals are written as numbers rounded to 3 places, except in the named
// text columns, which are always written as strings so values like
// leading-zero identifiers survive a round trip. With styled set, the header
// row is bold and centered, every cell is bordered, and columns get a fixed
// width.
func Write(path, sheet string, t *Table, styled bool, textColumns ...string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	text := make(map[int]bool, len(textColumns))
	for _, name := range textColumns {
		if idx := t.ColumnIndex(name); idx >= 0 {
			text[idx] = true
		}
	}

	for col, name := range t.Columns {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return err
		}
	}
	for r, row := range t.Rows {
		for c := range t.Columns {
			if row[c] == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if text[c] {
				if err := f.SetCellStr(sheet, cell, *row[c]); err != nil {
					return err
				}
				continue
			}
			if v, err := strconv.ParseFloat(*row[c], 64); err == nil {
				err = f.SetCellValue(sheet, cell, round3(v))
				if err != nil {
					return err
				}
				continue
			}
			if err := f.SetCellValue(sheet, cell, *row[c]); err != nil {
				return err
			}
		}
	}

	if styled {
		if err := applyStyle(f, sheet, len(t.Columns), len(t.Rows)); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}

func applyStyle(f *excelize.File, sheet string, cols, rows int) error {
	border := []excelize.Border{
		{Type: "left", Style: 1, Color: "000000"},
		{Type: "right", Style: 1, Color: "000000"},
		{Type: "top", Style: 1, Color: "000000"},
		{Type: "bottom", Style: 1, Color: "000000"},
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return err
	}
	cellStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "right", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return err
	}

	if cols == 0 {
		return nil
	}
	lastCol, _ := excelize.ColumnNumberToName(cols)
	if err := f.SetColWidth(sheet, "A", lastCol, 20); err != nil {
		return err
	}
	first, _ := excelize.CoordinatesToCellName(1, 1)
	last, _ := excelize.CoordinatesToCellName(cols, 1)
	if err := f.SetCellStyle(sheet, first, last, headerStyle); err != nil {
		return err
	}
	if rows > 0 {
		first, _ = excelize.CoordinatesToCellName(1, 2)
		last, _ = excelize.CoordinatesToCellName(cols, rows+1)
		if err := f.SetCellStyle(sheet, first, last, cellStyle); err != nil {
			return err
		}
	}
	return nil
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
