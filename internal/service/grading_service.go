package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/classbridge/classbridge-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// GradingService applies grades and feedback to submissions.
type GradingService struct {
	submissions submissionStore
	assignments assignmentStore
	classrooms  classroomStore
}

// NewGradingService creates a new GradingService.
func NewGradingService(submissions submissionStore, assignments assignmentStore, classrooms classroomStore) *GradingService {
	return &GradingService{
		submissions: submissions,
		assignments: assignments,
		classrooms:  classrooms,
	}
}

// Grade validates and applies a grade/feedback update.
//
// The acting user must be a current teacher member of the submission's
// classroom. A nil grade ungrades. Grading a never-submitted row is
// allowed by policy (feedback or zero-grading of non-submissions).
// Neither submittedAt nor the derived status is affected.
func (s *GradingService) Grade(ctx context.Context, submissionID uuid.UUID, grade *int, feedback *string, actorID int) (*model.Submission, error) {
	if grade != nil && (*grade < 0 || *grade > 100) {
		return nil, ErrGradeOutOfRange
	}

	sub, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get submission: %w", err)
	}

	assignment, err := s.assignments.GetByID(ctx, sub.AssignmentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get assignment: %w", err)
	}

	isTeacher, err := s.classrooms.IsTeacher(ctx, assignment.ClassroomID, actorID)
	if err != nil {
		return nil, fmt.Errorf("check membership: %w", err)
	}
	if !isTeacher {
		return nil, ErrForbidden
	}

	updated, err := s.submissions.UpdateGrade(ctx, submissionID, grade, feedback)
	if err != nil {
		return nil, fmt.Errorf("update grade: %w", err)
	}

	updated.Status = model.DeriveStatus(updated.SubmittedAt, assignment.DueDate, time.Now())
	return updated, nil
}
