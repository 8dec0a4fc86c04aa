// Package export renders filtered attendance rows for download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"latecomer/internal/attendance"
)

var header = []string{"Roll No", "Name", "Department", "Batch", "Date", "Time", "Status"}

func fields(r attendance.FilteredRow) []string {
	return []string{r.RollNo, r.Name, r.Department, r.Batch, r.Date, r.Time, r.Status}
}

// WriteCSV renders rows as CSV with a header line.
func WriteCSV(w io.Writer, rows []attendance.FilteredRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(fields(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX renders rows as a single-sheet workbook.
func WriteXLSX(w io.Writer, rows []attendance.FilteredRow) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	sheet := f.GetSheetName(0)

	for col, title := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return err
		}
	}
	for i, r := range rows {
		for col, val := range fields(r) {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return err
			}
		}
	}
	return f.Write(w)
}

// WritePDF renders rows as a landscape A4 table.
func WritePDF(w io.Writer, rows []attendance.FilteredRow) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, "Latecomer Attendance Report", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	widths := []float64{35, 60, 35, 35, 35, 35, 30}

	pdf.SetFont("Arial", "B", 10)
	for i, title := range header {
		pdf.CellFormat(widths[i], 8, title, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, r := range rows {
		for i, val := range fields(r) {
			pdf.CellFormat(widths[i], 7, val, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(rows) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.CellFormat(0, 8, "No records in the selected range.", "", 1, "L", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
