package model

import (
	"time"

	"github.com/google/uuid"
)

// SubmissionStatus is the derived state of a submission. It is computed
// from stored timestamps on every read and never trusted from storage:
// a due-date edit must retroactively change the status without any
// migration step. OVERDUE is a time-dependent view of an unsubmitted
// row, so there is no stored transition for it.
type SubmissionStatus string

const (
	StatusPending   SubmissionStatus = "PENDING"
	StatusCompleted SubmissionStatus = "COMPLETED"
	StatusOverdue   SubmissionStatus = "OVERDUE"
)

// DeriveStatus computes the authoritative status of a submission.
//
// A submitted row is COMPLETED regardless of the due date: late but
// submitted is not overdue. An unsubmitted row is OVERDUE only once the
// due date has passed; without a due date it stays PENDING forever.
func DeriveStatus(submittedAt, dueDate *time.Time, now time.Time) SubmissionStatus {
	if submittedAt != nil {
		return StatusCompleted
	}
	if dueDate != nil && dueDate.Before(now) {
		return StatusOverdue
	}
	return StatusPending
}

// Submission is one student's copy of an assignment. Exactly one row
// exists per (assignment, student) pair, created by the fan-out.
// Grade is orthogonal to status: a COMPLETED submission may be
// ungraded, and grading never alters SubmittedAt.
type Submission struct {
	ID           uuid.UUID        `json:"id"`
	AssignmentID uuid.UUID        `json:"assignment_id"`
	StudentID    int              `json:"student_id"`
	SubmittedAt  *time.Time       `json:"submitted_at,omitempty"`
	Grade        *int             `json:"grade,omitempty"`
	Feedback     *string          `json:"feedback,omitempty"`
	Status       SubmissionStatus `json:"status"` // derived on read
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// SubmissionWithStudent is a submission joined with roster identity,
// as returned to teachers.
type SubmissionWithStudent struct {
	Submission
	StudentName  string `json:"student_name"`
	StudentEmail string `json:"student_email"`
}

// GradeRequest is the payload for grading a submission. A nil grade is
// a legal "ungrade" operation.
type GradeRequest struct {
	Grade    *int    `json:"grade" binding:"omitempty"`
	Feedback *string `json:"feedback" binding:"omitempty,max=5000"`
}
