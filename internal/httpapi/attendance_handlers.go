package httpapi

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"latecomer/internal/apperr"
	"latecomer/internal/attendance"
	"latecomer/internal/export"
)

type markRequest struct {
	RollNo string `json:"roll_no"`
}

func (h *Handler) markAttendance(c *gin.Context) {
	var req markRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, "mark-attendance", apperr.Errorf(apperr.ErrInvalidArgument, "roll_no is required"))
		return
	}
	rec, err := h.scans.RecordScan(c.Request.Context(), req.RollNo)
	if err != nil {
		writeError(c, "mark-attendance", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Attendance marked successfully!",
		"record":  rec,
	})
}

func (h *Handler) departmentCounts(c *gin.Context) {
	day := c.Query("date")
	if day == "" {
		day = attendance.DayOf(time.Now())
	}
	counts, err := h.scans.DepartmentCounts(c.Request.Context(), day)
	if err != nil {
		writeError(c, "department-counts", err)
		return
	}
	if counts == nil {
		counts = []attendance.DepartmentCount{}
	}
	c.JSON(http.StatusOK, counts)
}

func (h *Handler) studentReport(c *gin.Context) {
	rollNo := c.Query("roll_no")
	startDay := c.Query("start_date")
	endDay := c.Query("end_date")
	if rollNo == "" || startDay == "" || endDay == "" {
		writeError(c, "student-report", apperr.Errorf(apperr.ErrInvalidArgument, "roll_no, start_date and end_date are required"))
		return
	}
	report, err := h.scans.StudentReport(c.Request.Context(), rollNo, startDay, endDay)
	if err != nil {
		writeError(c, "student-report", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) departmentReport(c *gin.Context) {
	department := c.Query("department")
	batch := c.Query("batch")
	startDay := c.Query("startDate")
	endDay := c.Query("endDate")
	if department == "" || batch == "" || startDay == "" || endDay == "" {
		writeError(c, "department-report", apperr.Errorf(apperr.ErrInvalidArgument, "department, batch, startDate and endDate are required"))
		return
	}
	rows, err := h.scans.DepartmentReport(c.Request.Context(), department, batch, startDay, endDay)
	if err != nil {
		writeError(c, "department-report", err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) filteredAttendance(c *gin.Context) {
	startDay := c.Query("startDate")
	endDay := c.Query("endDate")
	if startDay == "" || endDay == "" {
		writeError(c, "filter", apperr.Errorf(apperr.ErrInvalidArgument, "startDate and endDate are required"))
		return
	}
	rows, err := h.scans.FilteredAttendance(c.Request.Context(), startDay, endDay)
	if err != nil {
		writeError(c, "filter", err)
		return
	}

	filename := "attendance_" + startDay + "_" + endDay
	switch c.Query("format") {
	case "", "json":
		c.JSON(http.StatusOK, rows)
	case "csv":
		var buf bytes.Buffer
		if err := export.WriteCSV(&buf, rows); err != nil {
			writeError(c, "filter", apperr.Errorf(apperr.ErrInternal, "render csv: %v", err))
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+filename+`.csv"`)
		c.Data(http.StatusOK, "text/csv", buf.Bytes())
	case "xlsx":
		var buf bytes.Buffer
		if err := export.WriteXLSX(&buf, rows); err != nil {
			writeError(c, "filter", apperr.Errorf(apperr.ErrInternal, "render xlsx: %v", err))
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+filename+`.xlsx"`)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	case "pdf":
		var buf bytes.Buffer
		if err := export.WritePDF(&buf, rows); err != nil {
			writeError(c, "filter", apperr.Errorf(apperr.ErrInternal, "render pdf: %v", err))
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+filename+`.pdf"`)
		c.Data(http.StatusOK, "application/pdf", buf.Bytes())
	default:
		writeError(c, "filter", apperr.Errorf(apperr.ErrInvalidArgument, "format must be json, csv, xlsx or pdf"))
	}
}
