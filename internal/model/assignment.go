package model

import (
	"time"

	"github.com/google/uuid"
)

// DistributionMode selects which students an assignment fans out to.
type DistributionMode string

const (
	// DistributionClassWide targets the whole current roster.
	DistributionClassWide DistributionMode = "CLASS_WIDE"
	// DistributionSelected targets an explicit subset of the roster.
	DistributionSelected DistributionMode = "SELECTED"
)

// Assignment represents a piece of work handed out to students of a
// classroom. Classroom and creator are immutable after creation.
type Assignment struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	ClassroomID int        `json:"classroom_id"`
	CreatorID   int        `json:"creator_id"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CreateAssignmentRequest is the payload for creating a new assignment.
// StudentIDs is only consulted in SELECTED mode.
type CreateAssignmentRequest struct {
	Title       string           `json:"title" binding:"required,min=3,max=255"`
	Description string           `json:"description" binding:"omitempty,max=5000"`
	DueDate     *time.Time       `json:"due_date" binding:"omitempty"`
	Mode        DistributionMode `json:"mode" binding:"required,oneof=CLASS_WIDE SELECTED"`
	StudentIDs  []int            `json:"student_ids" binding:"omitempty,dive,min=1"`
}

// StudentAssignment is an assignment as listed for a student, overlaid
// with their own submission state.
type StudentAssignment struct {
	Assignment
	Status      SubmissionStatus `json:"status"`
	SubmittedAt *time.Time       `json:"submitted_at,omitempty"`
	Grade       *int             `json:"grade,omitempty"`
	Feedback    *string          `json:"feedback,omitempty"`
}
