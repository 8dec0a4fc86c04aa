package student

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"latecomer/internal/apperr"
)

// fakeStore keeps students in a map keyed by roll number.
type fakeStore struct {
	byRoll map[string]Student
}

func newFakeStore() *fakeStore {
	return &fakeStore{byRoll: map[string]Student{}}
}

func (f *fakeStore) List(ctx context.Context) ([]Student, error) {
	var out []Student
	for _, s := range f.byRoll {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeStore) GetByRoll(ctx context.Context, rollNo string) (*Student, error) {
	s, ok := f.byRoll[rollNo]
	if !ok {
		return nil, apperr.Errorf(apperr.ErrNotFound, "student %s", rollNo)
	}
	return &s, nil
}

func (f *fakeStore) Create(ctx context.Context, s Student) (Student, error) {
	if _, ok := f.byRoll[s.RollNo]; ok {
		return Student{}, apperr.Errorf(apperr.ErrConflict, "roll number %s already exists", s.RollNo)
	}
	f.byRoll[s.RollNo] = s
	return s, nil
}

func (f *fakeStore) Update(ctx context.Context, rollNo, name, department, batch string) (*Student, error) {
	s, ok := f.byRoll[rollNo]
	if !ok {
		return nil, apperr.Errorf(apperr.ErrNotFound, "student %s", rollNo)
	}
	s.Name, s.Department, s.Batch = name, department, batch
	f.byRoll[rollNo] = s
	return &s, nil
}

func (f *fakeStore) DeleteByDepartmentBatch(ctx context.Context, department, batch string) (int64, error) {
	var n int64
	for roll, s := range f.byRoll {
		if s.Department == department && s.Batch == batch {
			delete(f.byRoll, roll)
			n++
		}
	}
	if n == 0 {
		return 0, apperr.Errorf(apperr.ErrNotFound, "no students in %s %s", department, batch)
	}
	return n, nil
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newFakeStore())

	_, err := svc.Create(context.Background(), Student{RollNo: "21CS001", Name: "Asha"})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	st, err := svc.Create(context.Background(), Student{
		RollNo: " 21CS001 ", Name: "Asha", Department: "CSE", Batch: "2021-2025",
	})
	require.NoError(t, err)
	assert.Equal(t, "21CS001", st.RollNo)
}

func TestCreateDuplicateConflict(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	_, err := svc.Create(ctx, Student{RollNo: "21CS001", Name: "Asha", Department: "CSE", Batch: "2021-2025"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, Student{RollNo: "21CS001", Name: "Asha", Department: "CSE", Batch: "2021-2025"})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestDeleteBatch(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	ctx := context.Background()

	_, err := svc.Create(ctx, Student{RollNo: "21CS001", Name: "Asha", Department: "CSE", Batch: "2021-2025"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, Student{RollNo: "21EC001", Name: "Ravi", Department: "ECE", Batch: "2021-2025"})
	require.NoError(t, err)

	n, err := svc.DeleteBatch(ctx, "CSE", "2021-2025")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = svc.DeleteBatch(ctx, "CSE", "2021-2025")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestImportCSVSkipsDuplicates(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	ctx := context.Background()

	_, err := svc.Create(ctx, Student{RollNo: "21CS002", Name: "Old", Department: "CSE", Batch: "2021-2025"})
	require.NoError(t, err)

	csvData := strings.NewReader(
		"roll_no,name,department\n" +
			"21CS001,Asha,CSE\n" +
			"21CS002,Asha Again,CSE\n" +
			"21EC001,Ravi,ECE\n")

	res, err := svc.ImportCSV(ctx, csvData, "2021-2025")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, []string{"21CS002"}, res.Skipped)

	// Existing record is untouched by the skip.
	kept, err := svc.GetByRoll(ctx, "21CS002")
	require.NoError(t, err)
	assert.Equal(t, "Old", kept.Name)
}

func TestImportCSVRequiresBatch(t *testing.T) {
	svc := NewService(newFakeStore())
	_, err := svc.ImportCSV(context.Background(), strings.NewReader("a,b,c\n"), " ")
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestImportCSVMalformed(t *testing.T) {
	svc := NewService(newFakeStore())
	_, err := svc.ImportCSV(context.Background(), strings.NewReader("only-one-column\n"), "2021-2025")
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}
