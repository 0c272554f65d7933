package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/classbridge/classbridge-backend/internal/middleware"
	"github.com/classbridge/classbridge-backend/internal/model"
	"github.com/classbridge/classbridge-backend/internal/response"
	"github.com/classbridge/classbridge-backend/internal/service"
	"github.com/classbridge/classbridge-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AssignmentHandler handles assignment distribution and read endpoints.
type AssignmentHandler struct {
	assignmentService *service.AssignmentService
	reminderService   *service.ReminderService
}

// NewAssignmentHandler creates a new AssignmentHandler.
func NewAssignmentHandler(assignmentService *service.AssignmentService, reminderService *service.ReminderService) *AssignmentHandler {
	return &AssignmentHandler{
		assignmentService: assignmentService,
		reminderService:   reminderService,
	}
}

// CreateAssignment godoc
// POST /api/v1/classrooms/:id/assignments
// Fans the assignment out to its target students atomically.
func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	claims := middleware.GetClaims(c)

	classroomID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.CreateAssignmentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	assignment, err := h.assignmentService.Create(c.Request.Context(), classroomID, req, claims.UserID)
	if err != nil {
		// A failed fan-out rolled back completely; tell the caller to retry.
		if errors.Is(err, service.ErrDistributionFailed) {
			response.Fail(c, http.StatusServiceUnavailable, response.ErrDistributionFail)
			return
		}
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"assignment": assignment})
}

// ListAssignments godoc
// GET /api/v1/classrooms/:id/assignments
func (h *AssignmentHandler) ListAssignments(c *gin.Context) {
	claims := middleware.GetClaims(c)

	classroomID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	assignments, err := h.assignmentService.ListByClassroom(c.Request.Context(), classroomID, claims.UserID)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"assignments": assignments})
}

// ListSubmissions godoc
// GET /api/v1/assignments/:assignment_id/submissions
// Status is derived from the current due date on every call.
func (h *AssignmentHandler) ListSubmissions(c *gin.Context) {
	claims := middleware.GetClaims(c)

	assignmentID, err := uuid.Parse(c.Param("assignment_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	subs, err := h.assignmentService.ListSubmissions(c.Request.Context(), assignmentID, claims.UserID)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"submissions": subs})
}

// ReminderTargets godoc
// GET /api/v1/assignments/:assignment_id/reminder-targets
// Students whose derived status is PENDING; OVERDUE is excluded.
func (h *AssignmentHandler) ReminderTargets(c *gin.Context) {
	claims := middleware.GetClaims(c)

	assignmentID, err := uuid.Parse(c.Param("assignment_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	targets, err := h.reminderService.SelectTargets(c.Request.Context(), assignmentID, claims.UserID)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"student_ids": targets})
}

// DispatchReminders godoc
// POST /api/v1/assignments/:assignment_id/reminders
// Writes notifications and enqueues reminder emails for pending students.
func (h *AssignmentHandler) DispatchReminders(c *gin.Context) {
	claims := middleware.GetClaims(c)

	assignmentID, err := uuid.Parse(c.Param("assignment_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	notified, err := h.reminderService.Dispatch(c.Request.Context(), assignmentID, claims.UserID)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"notified": notified})
}

// MyAssignments godoc
// GET /api/v1/student/assignments
// The student's own assignments with derived status.
func (h *AssignmentHandler) MyAssignments(c *gin.Context) {
	claims := middleware.GetClaims(c)

	list, err := h.assignmentService.ListForStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"assignments": list})
}
