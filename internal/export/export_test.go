package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"latecomer/internal/attendance"
)

var sample = []attendance.FilteredRow{
	{RollNo: "21CS001", Name: "Asha", Department: "CSE", Batch: "2021-2025", Date: "2025-04-07", Time: "09:20:00 AM", Status: "Late"},
	{RollNo: "21EC001", Name: "Ravi", Department: "ECE", Batch: "2021-2025", Date: "2025-04-07", Time: "09:05:00 AM", Status: "On-Time"},
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sample))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Roll No", "Name", "Department", "Batch", "Date", "Time", "Status"}, records[0])
	assert.Equal(t, []string{"21CS001", "Asha", "CSE", "2021-2025", "2025-04-07", "09:20:00 AM", "Late"}, records[1])
}

func TestWriteXLSXRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sample))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "21EC001", rows[2][0])
	assert.Equal(t, "On-Time", rows[2][6])
}

func TestWritePDFProducesDocument(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, sample))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))

	buf.Reset()
	require.NoError(t, WritePDF(&buf, nil))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}
