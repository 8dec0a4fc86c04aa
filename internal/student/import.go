package student

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"latecomer/internal/apperr"
)

// ImportResult summarizes a bulk import. Skipped carries the roll numbers
// that already existed, matching what the admin UI displays.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  []string `json:"skipped"`
}

type importRow struct {
	rollNo, name, department string
}

// ImportCSV reads rows with columns roll_no, name, department and inserts
// them under the given batch. Duplicate roll numbers are skipped, not
// treated as errors.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader, batch string) (ImportResult, error) {
	batch = strings.TrimSpace(batch)
	if batch == "" {
		return ImportResult{}, apperr.Errorf(apperr.ErrInvalidArgument, "batch is required")
	}

	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	var rows []importRow
	first := true
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return ImportResult{}, apperr.Errorf(apperr.ErrInvalidArgument, "malformed csv: %v", err)
		}
		if len(rec) < 3 {
			return ImportResult{}, apperr.Errorf(apperr.ErrInvalidArgument, "csv needs roll_no, name, department columns")
		}
		// Tolerate a header row.
		if first && strings.EqualFold(strings.TrimSpace(rec[0]), "roll_no") {
			first = false
			continue
		}
		first = false
		rows = append(rows, importRow{rollNo: rec[0], name: rec[1], department: rec[2]})
	}
	return s.importRows(ctx, rows, batch)
}

// ImportXLSX reads the first sheet of a workbook with the same columns as
// ImportCSV.
func (s *Service) ImportXLSX(ctx context.Context, r io.Reader, batch string) (ImportResult, error) {
	batch = strings.TrimSpace(batch)
	if batch == "" {
		return ImportResult{}, apperr.Errorf(apperr.ErrInvalidArgument, "batch is required")
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return ImportResult{}, apperr.Errorf(apperr.ErrInvalidArgument, "open workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	cells, err := f.GetRows(sheet)
	if err != nil {
		return ImportResult{}, apperr.Errorf(apperr.ErrInvalidArgument, "read sheet %s: %v", sheet, err)
	}

	var rows []importRow
	for i, rec := range cells {
		if len(rec) < 3 {
			continue
		}
		if i == 0 && strings.EqualFold(strings.TrimSpace(rec[0]), "roll_no") {
			continue
		}
		rows = append(rows, importRow{rollNo: rec[0], name: rec[1], department: rec[2]})
	}
	return s.importRows(ctx, rows, batch)
}

func (s *Service) importRows(ctx context.Context, rows []importRow, batch string) (ImportResult, error) {
	res := ImportResult{Skipped: []string{}}
	for _, row := range rows {
		st := Student{
			RollNo:     strings.TrimSpace(row.rollNo),
			Name:       strings.TrimSpace(row.name),
			Department: strings.TrimSpace(row.department),
			Batch:      batch,
		}
		if st.RollNo == "" {
			continue
		}
		if _, err := s.store.Create(ctx, st); err != nil {
			if errors.Is(err, apperr.ErrConflict) {
				res.Skipped = append(res.Skipped, st.RollNo)
				continue
			}
			return ImportResult{}, err
		}
		res.Imported++
	}
	return res, nil
}
