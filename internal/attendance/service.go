package attendance

import (
	"context"
	"strings"
	"time"

	"latecomer/internal/apperr"
	"latecomer/internal/student"
)

// Store is the attendance persistence the service needs.
type Store interface {
	UpsertScan(ctx context.Context, rec Record, attDate string) (Record, error)
	CountsByDepartment(ctx context.Context, start, end time.Time) ([]DepartmentCount, error)
	ListByStudent(ctx context.Context, studentID string, start, end time.Time) ([]Record, error)
	ListByDepartmentBatch(ctx context.Context, department, batch string, start, end time.Time) ([]Record, error)
	ListRange(ctx context.Context, start, end time.Time) ([]Record, error)
}

// Directory resolves roll numbers to students.
type Directory interface {
	GetByRoll(ctx context.Context, rollNo string) (*student.Student, error)
}

// CountsCache caches a day's department counts. Implementations must treat
// misses and backend failures identically (return ok=false).
type CountsCache interface {
	Get(ctx context.Context, day string) ([]DepartmentCount, bool)
	Set(ctx context.Context, day string, counts []DepartmentCount)
	Invalidate(ctx context.Context, day string)
}

// Entry is one row of a per-student report. The timestamp is presented in
// IST; the status is recomputed from the stored instant, never read back
// from the status column.
type Entry struct {
	Date   time.Time `json:"date"`
	Status string    `json:"status"`
}

// StudentReport is the per-student report payload.
type StudentReport struct {
	Student    student.Student `json:"student"`
	Attendance []Entry         `json:"attendance"`
}

// DeptRow is one row of a department/batch report, timestamp rendered in IST.
type DeptRow struct {
	RollNo     string `json:"roll_no"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Batch      string `json:"batch"`
	ScannedAt  string `json:"scanned_at"`
	Status     string `json:"status"`
}

// FilteredRow is one row of the unfiltered range report, timestamp split
// into IST date and 12-hour time for spreadsheet and PDF rendering.
type FilteredRow struct {
	ID         string `json:"id"`
	RollNo     string `json:"roll_no"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Batch      string `json:"batch"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Status     string `json:"status"`
}

// Service implements the attendance engine and report generator.
type Service struct {
	store    Store
	students Directory
	cache    CountsCache
	now      func() time.Time
}

// NewService creates a service. cache may be nil.
func NewService(store Store, students Directory, cache CountsCache) *Service {
	return &Service{store: store, students: students, cache: cache, now: time.Now}
}

// RecordScan resolves the roll number, assigns a status from the current
// IST time-of-day and writes the day's row (insert or overwrite).
func (s *Service) RecordScan(ctx context.Context, rollNo string) (Record, error) {
	rollNo = strings.TrimSpace(rollNo)
	if rollNo == "" {
		return Record{}, apperr.Errorf(apperr.ErrInvalidArgument, "roll number required")
	}

	st, err := s.students.GetByRoll(ctx, rollNo)
	if err != nil {
		return Record{}, err
	}

	now := s.now().UTC()
	status := StatusAt(now)
	day := DayOf(now)

	rec, err := s.store.UpsertScan(ctx, Record{
		StudentID:  st.ID,
		RollNo:     st.RollNo,
		Name:       st.Name,
		Department: st.Department,
		Batch:      st.Batch,
		ScannedAt:  now,
		Status:     status,
	}, day)
	if err != nil {
		return Record{}, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, day)
	}
	scansTotal.WithLabelValues(status).Inc()
	return rec, nil
}

// DepartmentCounts returns the day's attendance counts per department.
// Only departments with at least one row are present.
func (s *Service) DepartmentCounts(ctx context.Context, day string) ([]DepartmentCount, error) {
	start, end, err := DayBounds(day)
	if err != nil {
		return nil, apperr.Errorf(apperr.ErrInvalidArgument, "invalid date %q", day)
	}

	if s.cache != nil {
		if counts, ok := s.cache.Get(ctx, day); ok {
			return counts, nil
		}
	}
	counts, err := s.store.CountsByDepartment(ctx, start, end)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, day, counts)
	}
	return counts, nil
}

// StudentReport returns one student's rows in the closed day range.
// A student with zero rows in range yields an empty list, not NotFound.
func (s *Service) StudentReport(ctx context.Context, rollNo, startDay, endDay string) (StudentReport, error) {
	rollNo = strings.TrimSpace(rollNo)
	if rollNo == "" {
		return StudentReport{}, apperr.Errorf(apperr.ErrInvalidArgument, "roll number required")
	}
	start, end, err := RangeBounds(startDay, endDay)
	if err != nil {
		return StudentReport{}, apperr.Errorf(apperr.ErrInvalidArgument, "invalid date range %q..%q", startDay, endDay)
	}

	st, err := s.students.GetByRoll(ctx, rollNo)
	if err != nil {
		return StudentReport{}, err
	}

	rows, err := s.store.ListByStudent(ctx, st.ID, start, end)
	if err != nil {
		return StudentReport{}, err
	}

	report := StudentReport{Student: *st, Attendance: []Entry{}}
	for _, rec := range rows {
		report.Attendance = append(report.Attendance, Entry{
			Date:   rec.ScannedAt.In(IST),
			Status: StatusAt(rec.ScannedAt),
		})
	}
	return report, nil
}

// DepartmentReport returns a cohort's rows in the closed day range,
// ascending, timestamps rendered in IST.
func (s *Service) DepartmentReport(ctx context.Context, department, batch, startDay, endDay string) ([]DeptRow, error) {
	if strings.TrimSpace(department) == "" || strings.TrimSpace(batch) == "" {
		return nil, apperr.Errorf(apperr.ErrInvalidArgument, "department and batch are required")
	}
	start, end, err := RangeBounds(startDay, endDay)
	if err != nil {
		return nil, apperr.Errorf(apperr.ErrInvalidArgument, "invalid date range %q..%q", startDay, endDay)
	}

	rows, err := s.store.ListByDepartmentBatch(ctx, strings.TrimSpace(department), strings.TrimSpace(batch), start, end)
	if err != nil {
		return nil, err
	}

	out := []DeptRow{}
	for _, rec := range rows {
		out = append(out, DeptRow{
			RollNo:     rec.RollNo,
			Name:       rec.Name,
			Department: rec.Department,
			Batch:      rec.Batch,
			ScannedAt:  rec.ScannedAt.In(IST).Format("2006-01-02 15:04:05"),
			Status:     StatusAt(rec.ScannedAt),
		})
	}
	return out, nil
}

// FilteredAttendance returns every row in the closed day range, newest
// first, shaped for export rendering.
func (s *Service) FilteredAttendance(ctx context.Context, startDay, endDay string) ([]FilteredRow, error) {
	start, end, err := RangeBounds(startDay, endDay)
	if err != nil {
		return nil, apperr.Errorf(apperr.ErrInvalidArgument, "invalid date range %q..%q", startDay, endDay)
	}

	rows, err := s.store.ListRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	out := []FilteredRow{}
	for _, rec := range rows {
		ist := rec.ScannedAt.In(IST)
		out = append(out, FilteredRow{
			ID:         rec.ID,
			RollNo:     rec.RollNo,
			Name:       rec.Name,
			Department: rec.Department,
			Batch:      rec.Batch,
			Date:       ist.Format("2006-01-02"),
			Time:       ist.Format("03:04:05 PM"),
			Status:     StatusAt(rec.ScannedAt),
		})
	}
	return out, nil
}
