package handler

import (
	"net/http"
	"strconv"

	"github.com/classbridge/classbridge-backend/internal/middleware"
	"github.com/classbridge/classbridge-backend/internal/model"
	"github.com/classbridge/classbridge-backend/internal/response"
	"github.com/classbridge/classbridge-backend/internal/service"
	"github.com/classbridge/classbridge-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// AttendanceHandler handles attendance and performance endpoints.
type AttendanceHandler struct {
	attendanceService *service.AttendanceService
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(attendanceService *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService}
}

// RecordAttendance godoc
// POST /api/v1/classrooms/:id/attendance
// Upserts one row per (student, date); re-recording overwrites.
func (h *AttendanceHandler) RecordAttendance(c *gin.Context) {
	claims := middleware.GetClaims(c)

	classroomID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.RecordAttendanceRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.attendanceService.Record(c.Request.Context(), classroomID, req, claims.UserID); err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "attendance recorded"})
}

// AttendanceSheet godoc
// GET /api/v1/classrooms/:id/attendance?date=YYYY-MM-DD
func (h *AttendanceHandler) AttendanceSheet(c *gin.Context) {
	claims := middleware.GetClaims(c)

	classroomID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	dateStr := c.Query("date")
	if dateStr == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrValidation)
		return
	}

	sheet, err := h.attendanceService.Sheet(c.Request.Context(), classroomID, dateStr, claims.UserID)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"date": dateStr, "sheet": sheet})
}

// RecordPerformance godoc
// POST /api/v1/classrooms/:id/performance
// Appends a score entry; history is never overwritten.
func (h *AttendanceHandler) RecordPerformance(c *gin.Context) {
	claims := middleware.GetClaims(c)

	classroomID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.RecordPerformanceRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	entry, err := h.attendanceService.RecordPerformance(c.Request.Context(), classroomID, req, claims.UserID)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"entry": entry})
}

// StudentPerformance godoc
// GET /api/v1/classrooms/:id/students/:student_id/performance
func (h *AttendanceHandler) StudentPerformance(c *gin.Context) {
	claims := middleware.GetClaims(c)

	classroomID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	studentID, err := strconv.Atoi(c.Param("student_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	entries, err := h.attendanceService.ListPerformanceForClassroom(c.Request.Context(), classroomID, studentID, claims.UserID)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"entries": entries})
}

// MyPerformance godoc
// GET /api/v1/student/performance
// The student's own performance history.
func (h *AttendanceHandler) MyPerformance(c *gin.Context) {
	claims := middleware.GetClaims(c)

	entries, err := h.attendanceService.ListPerformance(c.Request.Context(), claims.UserID)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"entries": entries})
}
