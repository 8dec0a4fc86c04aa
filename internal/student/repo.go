package student

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"latecomer/internal/apperr"
)

// Student is an identity record in the directory.
type Student struct {
	ID         string    `json:"id"`
	RollNo     string    `json:"roll_no"`
	Name       string    `json:"name"`
	Department string    `json:"department"`
	Batch      string    `json:"batch"`
	CreatedAt  time.Time `json:"created_at"`
}

// Repository persists the student directory in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const studentCols = `id, roll_no, name, department, batch, created_at`

func scanStudent(row interface{ Scan(...any) error }) (Student, error) {
	var s Student
	err := row.Scan(&s.ID, &s.RollNo, &s.Name, &s.Department, &s.Batch, &s.CreatedAt)
	return s, err
}

// List returns all students ordered by roll number.
func (r *Repository) List(ctx context.Context) ([]Student, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+studentCols+` FROM students ORDER BY roll_no
	`)
	if err != nil {
		return nil, apperr.Errorf(apperr.ErrInternal, "list students: %v", err)
	}
	defer rows.Close()

	var out []Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, apperr.Errorf(apperr.ErrInternal, "scan student: %v", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetByRoll returns the student with the given roll number.
func (r *Repository) GetByRoll(ctx context.Context, rollNo string) (*Student, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+studentCols+` FROM students WHERE roll_no = $1
	`, rollNo)
	s, err := scanStudent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.Errorf(apperr.ErrNotFound, "student %s", rollNo)
		}
		return nil, apperr.Errorf(apperr.ErrInternal, "get student %s: %v", rollNo, err)
	}
	return &s, nil
}

// Create inserts a new student. A duplicate roll number yields Conflict.
func (r *Repository) Create(ctx context.Context, s Student) (Student, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO students (id, roll_no, name, department, batch)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, s.ID, s.RollNo, s.Name, s.Department, s.Batch)
	if err := row.Scan(&s.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return Student{}, apperr.Errorf(apperr.ErrConflict, "roll number %s already exists", s.RollNo)
		}
		return Student{}, apperr.Errorf(apperr.ErrInternal, "create student %s: %v", s.RollNo, err)
	}
	return s, nil
}

// Update corrects name, department and batch for an existing roll number.
func (r *Repository) Update(ctx context.Context, rollNo, name, department, batch string) (*Student, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE students SET name = $2, department = $3, batch = $4
		WHERE roll_no = $1
		RETURNING `+studentCols+`
	`, rollNo, name, department, batch)
	s, err := scanStudent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.Errorf(apperr.ErrNotFound, "student %s", rollNo)
		}
		return nil, apperr.Errorf(apperr.ErrInternal, "update student %s: %v", rollNo, err)
	}
	return &s, nil
}

// DeleteByDepartmentBatch removes a whole cohort and returns the row count.
func (r *Repository) DeleteByDepartmentBatch(ctx context.Context, department, batch string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM students WHERE department = $1 AND batch = $2
	`, department, batch)
	if err != nil {
		return 0, apperr.Errorf(apperr.ErrInternal, "delete batch %s/%s: %v", department, batch, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, apperr.Errorf(apperr.ErrInternal, "delete batch %s/%s: %v", department, batch, err)
	}
	if n == 0 {
		return 0, apperr.Errorf(apperr.ErrNotFound, "no students in %s %s", department, batch)
	}
	return n, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
