package model

import "time"

// Notification is an in-app message from one user to another. The core
// only appends and marks read; delivery beyond that is the email
// collaborator's job.
type Notification struct {
	ID         int       `json:"id"`
	SenderID   int       `json:"sender_id"`
	ReceiverID int       `json:"receiver_id"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

// ReminderEmailJob is the queue payload handed to the reminder email
// worker.
type ReminderEmailJob struct {
	ToName       string `json:"to_name"`
	ToEmail      string `json:"to_email"`
	Assignment   string `json:"assignment"`
	Classroom    string `json:"classroom"`
	DueDate      string `json:"due_date,omitempty"`
	AssignmentID string `json:"assignment_id"`
}
