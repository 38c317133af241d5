// Package export renders flat process records as spreadsheet downloads.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/userTI10/Dashboard-admissao/internal/process"
)

// ContentType is the MIME type of the generated workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// defaultSheet is the sheet excelize creates with every new file.
const defaultSheet = "Sheet1"

// ErrNoRecords is returned when there is nothing to export.
var ErrNoRecords = errors.New("no records to export")

// Workbook returns an .xlsx document with a single sheet named sheetName: a
// header row of column labels followed by one row per record.
func Workbook(records []process.FlatRecord, sheetName string) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, records, sheetName); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write streams the workbook built by Workbook to w.
func Write(w io.Writer, records []process.FlatRecord, sheetName string) error {
	if len(records) == 0 {
		return ErrNoRecords
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if sheetName != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
			return fmt.Errorf("rename sheet: %w", err)
		}
	}

	for i, label := range process.Labels() {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err = f.SetCellValue(sheetName, cell, label); err != nil {
			return fmt.Errorf("set header %q: %w", label, err)
		}
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row cell: %w", err)
		}
		row := r.Cells()
		if err = f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("set row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
