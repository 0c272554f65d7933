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
)

// ClassroomHandler handles classroom and roster endpoints.
type ClassroomHandler struct {
	classroomService *service.ClassroomService
}

// NewClassroomHandler creates a new ClassroomHandler.
func NewClassroomHandler(classroomService *service.ClassroomService) *ClassroomHandler {
	return &ClassroomHandler{classroomService: classroomService}
}

// CreateClassroom godoc
// POST /api/v1/classrooms
func (h *ClassroomHandler) CreateClassroom(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.CreateClassroomRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	classroom, err := h.classroomService.Create(c.Request.Context(), req, claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"classroom": classroom})
}

// ListClassrooms godoc
// GET /api/v1/classrooms
// Admins see all active classrooms; teachers and students see their own.
func (h *ClassroomHandler) ListClassrooms(c *gin.Context) {
	claims := middleware.GetClaims(c)

	classrooms, err := h.classroomService.List(c.Request.Context(), claims.UserID, claims.Role)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"classrooms": classrooms})
}

// GetClassroom godoc
// GET /api/v1/classrooms/:id
func (h *ClassroomHandler) GetClassroom(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	classroom, err := h.classroomService.GetByID(c.Request.Context(), id)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"classroom": classroom})
}

// DeleteClassroom godoc
// DELETE /api/v1/classrooms/:id
// Soft-deletes; submissions keep referencing the classroom.
func (h *ClassroomHandler) DeleteClassroom(c *gin.Context) {
	claims := middleware.GetClaims(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.classroomService.Deactivate(c.Request.Context(), id, claims.UserID, claims.Role); err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "classroom deactivated"})
}

// AddStudent godoc
// POST /api/v1/classrooms/:id/students
func (h *ClassroomHandler) AddStudent(c *gin.Context) {
	claims := middleware.GetClaims(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.AddMemberRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.classroomService.AddStudent(c.Request.Context(), id, req.UserID, claims.UserID); err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"message": "student added"})
}

// RemoveStudent godoc
// DELETE /api/v1/classrooms/:id/students/:student_id
// Removing an absent member succeeds.
func (h *ClassroomHandler) RemoveStudent(c *gin.Context) {
	claims := middleware.GetClaims(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	studentID, err := strconv.Atoi(c.Param("student_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.classroomService.RemoveStudent(c.Request.Context(), id, studentID, claims.UserID); err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "student removed"})
}

// AddTeacher godoc
// POST /api/v1/classrooms/:id/teachers
func (h *ClassroomHandler) AddTeacher(c *gin.Context) {
	claims := middleware.GetClaims(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.AddMemberRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.classroomService.AddTeacher(c.Request.Context(), id, req.UserID, claims.UserID, claims.Role); err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"message": "teacher added"})
}

// GetRoster godoc
// GET /api/v1/classrooms/:id/roster
func (h *ClassroomHandler) GetRoster(c *gin.Context) {
	claims := middleware.GetClaims(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	roster, err := h.classroomService.Roster(c.Request.Context(), id, claims.UserID)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"roster": roster})
}

// failFromService maps core service errors onto API error codes.
func failFromService(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrForbidden):
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
	case errors.Is(err, service.ErrEmptyTarget):
		response.Fail(c, http.StatusBadRequest, response.ErrEmptyTarget)
	case errors.Is(err, service.ErrTargetNotInRoster):
		response.Fail(c, http.StatusBadRequest, response.ErrTargetNotInRoster)
	case errors.Is(err, service.ErrGradeOutOfRange):
		response.Fail(c, http.StatusBadRequest, response.ErrGradeOutOfRange)
	case errors.Is(err, service.ErrRoleMismatch):
		response.Fail(c, http.StatusBadRequest, response.ErrRoleMismatch)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
