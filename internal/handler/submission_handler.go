package handler

import (
	"net/http"

	"github.com/classbridge/classbridge-backend/internal/middleware"
	"github.com/classbridge/classbridge-backend/internal/model"
	"github.com/classbridge/classbridge-backend/internal/response"
	"github.com/classbridge/classbridge-backend/internal/service"
	"github.com/classbridge/classbridge-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SubmissionHandler handles submission and grading endpoints.
type SubmissionHandler struct {
	assignmentService *service.AssignmentService
	gradingService    *service.GradingService
}

// NewSubmissionHandler creates a new SubmissionHandler.
func NewSubmissionHandler(assignmentService *service.AssignmentService, gradingService *service.GradingService) *SubmissionHandler {
	return &SubmissionHandler{
		assignmentService: assignmentService,
		gradingService:    gradingService,
	}
}

// Submit godoc
// POST /api/v1/student/assignments/:assignment_id/submit
// Marks the student's own submission on the assignment as turned in.
// Idempotent; the first submit wins and the timestamp never moves.
func (h *SubmissionHandler) Submit(c *gin.Context) {
	claims := middleware.GetClaims(c)

	assignmentID, err := uuid.Parse(c.Param("assignment_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	sub, err := h.assignmentService.Submit(c.Request.Context(), assignmentID, claims.UserID)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"submission": sub})
}

// Grade godoc
// PUT /api/v1/submissions/:id/grade
// Applies a grade and feedback. A null grade ungrades the submission.
func (h *SubmissionHandler) Grade(c *gin.Context) {
	claims := middleware.GetClaims(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.GradeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sub, err := h.gradingService.Grade(c.Request.Context(), id, req.Grade, req.Feedback, claims.UserID)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"submission": sub})
}
