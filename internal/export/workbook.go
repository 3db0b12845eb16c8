package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// Render writes sheets, in order, into one workbook and returns its bytes.
// Headers are bold and frozen; formats apply to whole data columns.
func Render(sheets ...Sheet) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook needs at least one sheet")
	}

	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	styles := map[string]int{}
	styleFor := func(format string) (int, error) {
		if id, ok := styles[format]; ok {
			return id, nil
		}
		numFmt := format
		id, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
		if err != nil {
			return 0, fmt.Errorf("number format %q: %w", format, err)
		}
		styles[format] = id
		return id, nil
	}

	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sh.Name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sh.Name); err != nil {
			return nil, fmt.Errorf("new sheet %s: %w", sh.Name, err)
		}
		if err := writeSheet(f, sh, bold, styleFor); err != nil {
			return nil, fmt.Errorf("sheet %s: %w", sh.Name, err)
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sh Sheet, headerStyle int, styleFor func(string) (int, error)) error {
	header := make([]any, len(sh.Headers))
	for i, h := range sh.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sh.Name, "A1", &header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(sh.Headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sh.Name, "A1", last, headerStyle); err != nil {
		return err
	}

	for i, row := range sh.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		r := row
		if err := f.SetSheetRow(sh.Name, cell, &r); err != nil {
			return err
		}
	}

	if len(sh.Rows) > 0 {
		for col, h := range sh.Headers {
			format, ok := sh.Formats[h]
			if !ok {
				continue
			}
			id, err := styleFor(format)
			if err != nil {
				return err
			}
			from, _ := excelize.CoordinatesToCellName(col+1, 2)
			to, _ := excelize.CoordinatesToCellName(col+1, len(sh.Rows)+1)
			if err := f.SetCellStyle(sh.Name, from, to, id); err != nil {
				return err
			}
		}
	}

	for i, w := range sh.Widths {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sh.Name, name, name, w); err != nil {
			return err
		}
	}

	return f.SetPanes(sh.Name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
