// Package httpapi exposes the service over gin.
package httpapi

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"latecomer/internal/apperr"
	"latecomer/internal/attendance"
	"latecomer/internal/auth"
	"latecomer/internal/student"
)

// Directory is the student-facing surface the API needs.
type Directory interface {
	List(ctx context.Context) ([]student.Student, error)
	GetByRoll(ctx context.Context, rollNo string) (*student.Student, error)
	Create(ctx context.Context, st student.Student) (student.Student, error)
	Update(ctx context.Context, rollNo, name, department, batch string) (*student.Student, error)
	DeleteBatch(ctx context.Context, department, batch string) (int64, error)
	ImportCSV(ctx context.Context, r io.Reader, batch string) (student.ImportResult, error)
	ImportXLSX(ctx context.Context, r io.Reader, batch string) (student.ImportResult, error)
}

// Scans is the attendance surface the API needs.
type Scans interface {
	RecordScan(ctx context.Context, rollNo string) (attendance.Record, error)
	DepartmentCounts(ctx context.Context, day string) ([]attendance.DepartmentCount, error)
	StudentReport(ctx context.Context, rollNo, startDay, endDay string) (attendance.StudentReport, error)
	DepartmentReport(ctx context.Context, department, batch, startDay, endDay string) ([]attendance.DeptRow, error)
	FilteredAttendance(ctx context.Context, startDay, endDay string) ([]attendance.FilteredRow, error)
}

// Admins is the account surface the API needs.
type Admins interface {
	Register(ctx context.Context, username, password string) (auth.Admin, error)
	Authenticate(ctx context.Context, username, password string) (auth.Admin, error)
}

// Handler wires services to routes.
type Handler struct {
	students  Directory
	scans     Scans
	admins    Admins
	jwtIssuer string
	jwtKey    string
	accessTTL time.Duration
}

// New creates a handler.
func New(students Directory, scans Scans, admins Admins, jwtIssuer, jwtKey string, accessTTL time.Duration) *Handler {
	return &Handler{
		students:  students,
		scans:     scans,
		admins:    admins,
		jwtIssuer: jwtIssuer,
		jwtKey:    jwtKey,
		accessTTL: accessTTL,
	}
}

// Routes mounts the API. The scan-ingest endpoint is intentionally
// anonymous (driven by scanner hardware); student mutation endpoints
// require an admin token.
func (h *Handler) Routes(r *gin.Engine) {
	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", h.registerAdmin)
	authGroup.POST("/login", h.login)

	att := api.Group("/attendance")
	att.POST("/mark-attendance", h.markAttendance)
	att.GET("/department-counts", h.departmentCounts)
	att.GET("/report", h.studentReport)
	// The legacy API had a second report path that recomputed status from
	// the timestamp; both now serve the same recomputed report.
	att.GET("/report/details", h.studentReport)
	att.GET("/filter", h.filteredAttendance)
	att.GET("/department-report", h.departmentReport)

	protected := api.Group("/students", auth.AdminAuth(h.jwtKey, h.jwtIssuer))
	protected.GET("", h.listStudents)
	protected.POST("", h.createStudent)
	protected.POST("/import", h.importStudents)
	protected.GET("/:rollNo", h.getStudent)
	protected.PUT("/:rollNo", h.updateStudent)
	protected.DELETE("/:department/:batch", h.deleteBatch)
}

// writeError maps error kinds to HTTP responses. Internal details are
// logged, not leaked.
func writeError(c *gin.Context, op string, err error) {
	if errors.Is(err, auth.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("%s: %v", op, err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// ---------- Auth ----------

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) registerAdmin(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, "register", apperr.Errorf(apperr.ErrInvalidArgument, "invalid body"))
		return
	}
	admin, err := h.admins.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, "register", err)
		return
	}
	token, exp, err := auth.Issue(admin.ID, "admin", h.jwtIssuer, h.jwtKey, h.accessTTL)
	if err != nil {
		writeError(c, "register", apperr.Errorf(apperr.ErrInternal, "issue token: %v", err))
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":         admin.ID,
		"username":   admin.Username,
		"token":      token,
		"expires_at": exp.Unix(),
	})
}

func (h *Handler) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, "login", apperr.Errorf(apperr.ErrInvalidArgument, "invalid body"))
		return
	}
	admin, err := h.admins.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, "login", err)
		return
	}
	token, exp, err := auth.Issue(admin.ID, "admin", h.jwtIssuer, h.jwtKey, h.accessTTL)
	if err != nil {
		writeError(c, "login", apperr.Errorf(apperr.ErrInternal, "issue token: %v", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":         admin.ID,
		"username":   admin.Username,
		"token":      token,
		"expires_at": exp.Unix(),
	})
}
