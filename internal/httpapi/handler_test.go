package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"latecomer/internal/apperr"
	"latecomer/internal/attendance"
	"latecomer/internal/auth"
	"latecomer/internal/student"
)

type fakeScans struct{}

func (fakeScans) RecordScan(ctx context.Context, rollNo string) (attendance.Record, error) {
	if rollNo != "21CS001" {
		return attendance.Record{}, apperr.Errorf(apperr.ErrNotFound, "student %s", rollNo)
	}
	return attendance.Record{
		ID: "r1", RollNo: "21CS001", Name: "Asha", Department: "CSE",
		Batch: "2021-2025", Status: attendance.StatusOnTime,
	}, nil
}

func (fakeScans) DepartmentCounts(ctx context.Context, day string) ([]attendance.DepartmentCount, error) {
	return nil, nil
}

func (fakeScans) StudentReport(ctx context.Context, rollNo, startDay, endDay string) (attendance.StudentReport, error) {
	return attendance.StudentReport{}, nil
}

func (fakeScans) DepartmentReport(ctx context.Context, department, batch, startDay, endDay string) ([]attendance.DeptRow, error) {
	return nil, nil
}

func (fakeScans) FilteredAttendance(ctx context.Context, startDay, endDay string) ([]attendance.FilteredRow, error) {
	return []attendance.FilteredRow{}, nil
}

type fakeDirectory struct{}

func (fakeDirectory) List(ctx context.Context) ([]student.Student, error) { return nil, nil }
func (fakeDirectory) GetByRoll(ctx context.Context, rollNo string) (*student.Student, error) {
	return nil, apperr.Errorf(apperr.ErrNotFound, "student %s", rollNo)
}
func (fakeDirectory) Create(ctx context.Context, st student.Student) (student.Student, error) {
	return st, nil
}
func (fakeDirectory) Update(ctx context.Context, rollNo, name, department, batch string) (*student.Student, error) {
	return nil, nil
}
func (fakeDirectory) DeleteBatch(ctx context.Context, department, batch string) (int64, error) {
	return 0, nil
}
func (fakeDirectory) ImportCSV(ctx context.Context, r io.Reader, batch string) (student.ImportResult, error) {
	return student.ImportResult{}, nil
}
func (fakeDirectory) ImportXLSX(ctx context.Context, r io.Reader, batch string) (student.ImportResult, error) {
	return student.ImportResult{}, nil
}

type fakeAdmins struct{}

func (fakeAdmins) Register(ctx context.Context, username, password string) (auth.Admin, error) {
	return auth.Admin{ID: "a1", Username: username}, nil
}
func (fakeAdmins) Authenticate(ctx context.Context, username, password string) (auth.Admin, error) {
	if password != "s3cret" {
		return auth.Admin{}, auth.ErrInvalidCredentials
	}
	return auth.Admin{ID: "a1", Username: username}, nil
}

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := New(fakeDirectory{}, fakeScans{}, fakeAdmins{}, "latecomer", "test-key", time.Hour)
	h.Routes(r)
	return r
}

func TestMarkAttendanceIsAnonymous(t *testing.T) {
	r := testRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/attendance/mark-attendance",
		strings.NewReader(`{"roll_no":"21CS001"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var body struct {
		Record attendance.Record `json:"record"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Asha", body.Record.Name)
	assert.Equal(t, attendance.StatusOnTime, body.Record.Status)
}

func TestMarkAttendanceErrorMapping(t *testing.T) {
	r := testRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/attendance/mark-attendance",
		strings.NewReader(`{"roll_no":"99XX999"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/attendance/mark-attendance", strings.NewReader(`{`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStudentRoutesRequireToken(t *testing.T) {
	r := testRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/students", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, _, err := auth.Issue("a1", "admin", "latecomer", "test-key", time.Hour)
	require.NoError(t, err)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/students", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	r := testRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"admin","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"admin","password":"s3cret"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "token")
}

func TestFilteredAttendanceRequiresRange(t *testing.T) {
	r := testRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/attendance/filter", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/api/attendance/filter?startDate=2025-04-01&endDate=2025-04-07&format=csv", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")
}
