package student

import (
	"context"
	"strings"

	"latecomer/internal/apperr"
)

// Store is the directory persistence the service needs.
type Store interface {
	List(ctx context.Context) ([]Student, error)
	GetByRoll(ctx context.Context, rollNo string) (*Student, error)
	Create(ctx context.Context, s Student) (Student, error)
	Update(ctx context.Context, rollNo, name, department, batch string) (*Student, error)
	DeleteByDepartmentBatch(ctx context.Context, department, batch string) (int64, error)
}

// Service validates directory operations before hitting the store.
type Service struct {
	store Store
}

// NewService creates a service backed by a store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) List(ctx context.Context) ([]Student, error) {
	return s.store.List(ctx)
}

func (s *Service) GetByRoll(ctx context.Context, rollNo string) (*Student, error) {
	rollNo = strings.TrimSpace(rollNo)
	if rollNo == "" {
		return nil, apperr.Errorf(apperr.ErrInvalidArgument, "roll number required")
	}
	return s.store.GetByRoll(ctx, rollNo)
}

// Create adds a single student. All fields are required.
func (s *Service) Create(ctx context.Context, st Student) (Student, error) {
	st.RollNo = strings.TrimSpace(st.RollNo)
	st.Name = strings.TrimSpace(st.Name)
	st.Department = strings.TrimSpace(st.Department)
	st.Batch = strings.TrimSpace(st.Batch)
	if st.RollNo == "" || st.Name == "" || st.Department == "" || st.Batch == "" {
		return Student{}, apperr.Errorf(apperr.ErrInvalidArgument, "roll_no, name, department and batch are required")
	}
	return s.store.Create(ctx, st)
}

// Update corrects an existing student's details.
func (s *Service) Update(ctx context.Context, rollNo, name, department, batch string) (*Student, error) {
	rollNo = strings.TrimSpace(rollNo)
	if rollNo == "" {
		return nil, apperr.Errorf(apperr.ErrInvalidArgument, "roll number required")
	}
	if strings.TrimSpace(name) == "" || strings.TrimSpace(department) == "" || strings.TrimSpace(batch) == "" {
		return nil, apperr.Errorf(apperr.ErrInvalidArgument, "name, department and batch are required")
	}
	return s.store.Update(ctx, rollNo, strings.TrimSpace(name), strings.TrimSpace(department), strings.TrimSpace(batch))
}

// DeleteBatch removes every student in a department cohort.
func (s *Service) DeleteBatch(ctx context.Context, department, batch string) (int64, error) {
	department = strings.TrimSpace(department)
	batch = strings.TrimSpace(batch)
	if department == "" || batch == "" {
		return 0, apperr.Errorf(apperr.ErrInvalidArgument, "department and batch are required")
	}
	return s.store.DeleteByDepartmentBatch(ctx, department, batch)
}
