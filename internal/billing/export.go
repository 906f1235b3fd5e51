package billing

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet that holds the ledger in exported workbooks.
const SheetName = "Ledger"

var exportHeader = []interface{}{"Student", "Date", "Amount", "Type", "Transaction ID"}

// ExportXLSX writes the ledger rows into an Excel workbook and returns its
// bytes.  Amounts are stored as numbers with a two decimal euro format.
func ExportXLSX(entries []Entry) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A1", &exportHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	euro := "€#,##0.00"
	style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &euro})
	if err != nil {
		return nil, fmt.Errorf("amount style: %w", err)
	}

	for i, e := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{e.StudentName, e.Date, e.Amount, e.Type, e.TransactionID}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if len(entries) > 0 {
		last, _ := excelize.CoordinatesToCellName(3, len(entries)+1)
		if err := f.SetCellStyle(SheetName, "C2", last, style); err != nil {
			return nil, fmt.Errorf("style amounts: %w", err)
		}
	}
	_ = f.SetColWidth(SheetName, "A", "A", 24)
	_ = f.SetColWidth(SheetName, "D", "E", 22)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
