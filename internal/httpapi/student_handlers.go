package httpapi

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"latecomer/internal/apperr"
	"latecomer/internal/student"
)

func (h *Handler) listStudents(c *gin.Context) {
	students, err := h.students.List(c.Request.Context())
	if err != nil {
		writeError(c, "list-students", err)
		return
	}
	if students == nil {
		students = []student.Student{}
	}
	c.JSON(http.StatusOK, students)
}

func (h *Handler) getStudent(c *gin.Context) {
	st, err := h.students.GetByRoll(c.Request.Context(), c.Param("rollNo"))
	if err != nil {
		writeError(c, "get-student", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

type studentRequest struct {
	RollNo     string `json:"roll_no"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Batch      string `json:"batch"`
}

func (h *Handler) createStudent(c *gin.Context) {
	var req studentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, "create-student", apperr.Errorf(apperr.ErrInvalidArgument, "invalid body"))
		return
	}
	st, err := h.students.Create(c.Request.Context(), student.Student{
		RollNo:     req.RollNo,
		Name:       req.Name,
		Department: req.Department,
		Batch:      req.Batch,
	})
	if err != nil {
		writeError(c, "create-student", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Student added successfully", "student": st})
}

func (h *Handler) updateStudent(c *gin.Context) {
	var req studentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, "update-student", apperr.Errorf(apperr.ErrInvalidArgument, "invalid body"))
		return
	}
	st, err := h.students.Update(c.Request.Context(), c.Param("rollNo"), req.Name, req.Department, req.Batch)
	if err != nil {
		writeError(c, "update-student", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Student updated successfully", "student": st})
}

func (h *Handler) deleteBatch(c *gin.Context) {
	n, err := h.students.DeleteBatch(c.Request.Context(), c.Param("department"), c.Param("batch"))
	if err != nil {
		writeError(c, "delete-batch", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}

// importStudents accepts a multipart form with a "file" (CSV or XLSX,
// chosen by extension) and a "batch" field.
func (h *Handler) importStudents(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		writeError(c, "import-students", apperr.Errorf(apperr.ErrInvalidArgument, "file field required"))
		return
	}
	defer file.Close()

	batch := c.PostForm("batch")

	var res student.ImportResult
	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".xlsx", ".xls":
		res, err = h.students.ImportXLSX(c.Request.Context(), file, batch)
	default:
		res, err = h.students.ImportCSV(c.Request.Context(), file, batch)
	}
	if err != nil {
		writeError(c, "import-students", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Students imported successfully!",
		"imported": res.Imported,
		"skipped":  res.Skipped,
	})
}
