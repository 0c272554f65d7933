package model

import "time"

// Classroom represents a class group owned by its creating teacher.
// Classrooms are never hard-deleted while submissions reference them;
// deactivation flips IsActive instead.
type Classroom struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatorID   int       `json:"creator_id"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RosterEntry is a student as listed on a classroom roster.
type RosterEntry struct {
	StudentID  int       `json:"student_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	AssignedAt time.Time `json:"assigned_at"`
}

// CreateClassroomRequest is the payload for creating a classroom.
type CreateClassroomRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=100"`
	Description string `json:"description" binding:"omitempty,max=1000"`
}

// AddMemberRequest is the payload for adding a student or teacher member.
type AddMemberRequest struct {
	UserID int `json:"user_id" binding:"required,min=1"`
}
