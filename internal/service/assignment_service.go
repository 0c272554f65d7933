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

// AssignmentService owns the assignment lifecycle: distribution fan-out
// on create and derived-status reads afterwards.
type AssignmentService struct {
	assignments assignmentStore
	submissions submissionStore
	classrooms  classroomStore
}

// NewAssignmentService creates a new AssignmentService.
func NewAssignmentService(assignments assignmentStore, submissions submissionStore, classrooms classroomStore) *AssignmentService {
	return &AssignmentService{
		assignments: assignments,
		submissions: submissions,
		classrooms:  classrooms,
	}
}

// Create validates the distribution request and fans the assignment out
// to its target students in one transaction.
//
// The roster is resolved exactly once, before the transaction; a
// concurrent roster edit cannot split the fan-out. In SELECTED mode
// every requested id must be on the roster — unknown ids are an error,
// never silently dropped. Notification and email dispatch are separate,
// caller-triggered steps.
func (s *AssignmentService) Create(ctx context.Context, classroomID int, req model.CreateAssignmentRequest, creatorID int) (*model.Assignment, error) {
	if _, err := s.classrooms.GetByID(ctx, classroomID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get classroom: %w", err)
	}

	isTeacher, err := s.classrooms.IsTeacher(ctx, classroomID, creatorID)
	if err != nil {
		return nil, fmt.Errorf("check membership: %w", err)
	}
	if !isTeacher {
		return nil, ErrForbidden
	}

	roster, err := s.classrooms.ResolveRoster(ctx, classroomID)
	if err != nil {
		return nil, fmt.Errorf("resolve roster: %w", err)
	}

	targets, err := resolveTargets(req.Mode, roster, req.StudentIDs)
	if err != nil {
		return nil, err
	}

	assignment := &model.Assignment{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		ClassroomID: classroomID,
		CreatorID:   creatorID,
	}

	if err := s.assignments.CreateWithSubmissions(ctx, assignment, targets); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDistributionFailed, err)
	}

	return assignment, nil
}

// resolveTargets computes the fan-out target set from the distribution
// mode and the roster snapshot.
func resolveTargets(mode model.DistributionMode, roster, selected []int) ([]int, error) {
	if mode == model.DistributionClassWide {
		if len(roster) == 0 {
			return nil, ErrEmptyTarget
		}
		return roster, nil
	}

	enrolled := make(map[int]bool, len(roster))
	for _, id := range roster {
		enrolled[id] = true
	}

	seen := make(map[int]bool, len(selected))
	targets := make([]int, 0, len(selected))
	for _, id := range selected {
		if !enrolled[id] {
			return nil, ErrTargetNotInRoster
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		targets = append(targets, id)
	}

	if len(targets) == 0 {
		return nil, ErrEmptyTarget
	}
	return targets, nil
}

// ListByClassroom returns a classroom's assignments for a teacher member.
func (s *AssignmentService) ListByClassroom(ctx context.Context, classroomID, actorID int) ([]model.Assignment, error) {
	isTeacher, err := s.classrooms.IsTeacher(ctx, classroomID, actorID)
	if err != nil {
		return nil, fmt.Errorf("check membership: %w", err)
	}
	if !isTeacher {
		return nil, ErrForbidden
	}
	return s.assignments.ListByClassroom(ctx, classroomID)
}

// ListSubmissions returns every submission of an assignment with its
// status derived from the current due date. The stored status column is
// never consulted.
func (s *AssignmentService) ListSubmissions(ctx context.Context, assignmentID uuid.UUID, actorID int) ([]model.SubmissionWithStudent, error) {
	assignment, err := s.assignments.GetByID(ctx, assignmentID)
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

	subs, err := s.submissions.ListByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}

	now := time.Now()
	for i := range subs {
		subs[i].Status = model.DeriveStatus(subs[i].SubmittedAt, assignment.DueDate, now)
	}
	return subs, nil
}

// ListForStudent returns a student's own assignments with derived status.
func (s *AssignmentService) ListForStudent(ctx context.Context, studentID int) ([]model.StudentAssignment, error) {
	list, err := s.assignments.ListForStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}

	now := time.Now()
	for i := range list {
		list[i].Status = model.DeriveStatus(list[i].SubmittedAt, list[i].DueDate, now)
	}
	return list, nil
}

// Submit marks the acting student's submission on an assignment as
// submitted. Students address assignments, never submission rows; the
// row is resolved from the (assignment, student) pair, so a student who
// was not targeted simply finds nothing. Re-submitting keeps the first
// timestamp. A late submit is allowed and flips the derived status to
// COMPLETED.
func (s *AssignmentService) Submit(ctx context.Context, assignmentID uuid.UUID, studentID int) (*model.Submission, error) {
	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get assignment: %w", err)
	}

	sub, err := s.submissions.GetByAssignmentAndStudent(ctx, assignmentID, studentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get submission: %w", err)
	}

	if err := s.submissions.MarkSubmitted(ctx, sub.ID); err != nil {
		return nil, fmt.Errorf("mark submitted: %w", err)
	}

	sub, err = s.submissions.GetByID(ctx, sub.ID)
	if err != nil {
		return nil, fmt.Errorf("reload submission: %w", err)
	}

	sub.Status = model.DeriveStatus(sub.SubmittedAt, assignment.DueDate, time.Now())
	return sub, nil
}
