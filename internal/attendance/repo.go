package attendance

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"latecomer/internal/apperr"
)

// Record is one attendance row joined with the student it belongs to.
// Department is the denormalized copy taken at scan time.
type Record struct {
	ID         string    `json:"id"`
	StudentID  string    `json:"student_id"`
	RollNo     string    `json:"roll_no"`
	Name       string    `json:"name"`
	Department string    `json:"department"`
	Batch      string    `json:"batch"`
	ScannedAt  time.Time `json:"scanned_at"`
	Status     string    `json:"status"`
}

// DepartmentCount is one group-by bucket for a day.
type DepartmentCount struct {
	Department string `json:"department"`
	Count      int    `json:"count"`
}

// Repository persists attendance rows in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// UpsertScan writes the scan as a single atomic statement keyed on
// (student_id, att_date): the first scan of the day inserts, later scans
// overwrite timestamp and status (last-scan-wins).
func (r *Repository) UpsertScan(ctx context.Context, rec Record, attDate string) (Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO attendance (id, student_id, department, scanned_at, att_date, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (student_id, att_date)
		DO UPDATE SET scanned_at = EXCLUDED.scanned_at, status = EXCLUDED.status
		RETURNING id
	`, rec.ID, rec.StudentID, rec.Department, rec.ScannedAt, attDate, rec.Status)
	if err := row.Scan(&rec.ID); err != nil {
		return Record{}, apperr.Errorf(apperr.ErrInternal, "upsert scan for %s on %s: %v", rec.RollNo, attDate, err)
	}
	return rec, nil
}

// CountsByDepartment aggregates rows in [start, end) grouped by the
// department recorded at scan time. Departments with zero rows are absent.
func (r *Repository) CountsByDepartment(ctx context.Context, start, end time.Time) ([]DepartmentCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT department, COUNT(*)
		FROM attendance
		WHERE scanned_at >= $1 AND scanned_at < $2
		GROUP BY department
		ORDER BY department
	`, start, end)
	if err != nil {
		return nil, apperr.Errorf(apperr.ErrInternal, "department counts: %v", err)
	}
	defer rows.Close()

	var out []DepartmentCount
	for rows.Next() {
		var dc DepartmentCount
		if err := rows.Scan(&dc.Department, &dc.Count); err != nil {
			return nil, apperr.Errorf(apperr.ErrInternal, "scan count row: %v", err)
		}
		out = append(out, dc)
	}
	return out, rows.Err()
}

const recordCols = `a.id, a.student_id, s.roll_no, s.name, a.department, s.batch, a.scanned_at, a.status`

func (r *Repository) queryRecords(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Errorf(apperr.ErrInternal, "query attendance: %v", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.StudentID, &rec.RollNo, &rec.Name, &rec.Department, &rec.Batch, &rec.ScannedAt, &rec.Status); err != nil {
			return nil, apperr.Errorf(apperr.ErrInternal, "scan attendance row: %v", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListByStudent returns one student's rows in [start, end), ascending.
func (r *Repository) ListByStudent(ctx context.Context, studentID string, start, end time.Time) ([]Record, error) {
	return r.queryRecords(ctx, `
		SELECT `+recordCols+`
		FROM attendance a
		JOIN students s ON a.student_id = s.id
		WHERE a.student_id = $1 AND a.scanned_at >= $2 AND a.scanned_at < $3
		ORDER BY a.scanned_at ASC
	`, studentID, start, end)
}

// ListByDepartmentBatch returns rows for one cohort in [start, end), ascending.
func (r *Repository) ListByDepartmentBatch(ctx context.Context, department, batch string, start, end time.Time) ([]Record, error) {
	return r.queryRecords(ctx, `
		SELECT `+recordCols+`
		FROM attendance a
		JOIN students s ON a.student_id = s.id
		WHERE s.department = $1 AND s.batch = $2 AND a.scanned_at >= $3 AND a.scanned_at < $4
		ORDER BY a.scanned_at ASC
	`, department, batch, start, end)
}

// ListRange returns every row in [start, end), newest first.
func (r *Repository) ListRange(ctx context.Context, start, end time.Time) ([]Record, error) {
	return r.queryRecords(ctx, `
		SELECT `+recordCols+`
		FROM attendance a
		JOIN students s ON a.student_id = s.id
		WHERE a.scanned_at >= $1 AND a.scanned_at < $2
		ORDER BY a.scanned_at DESC
	`, start, end)
}
