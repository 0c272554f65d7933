package service

import (
	"context"
	"time"

	"github.com/classbridge/classbridge-backend/internal/model"
	"github.com/google/uuid"
)

// The services consume narrow store interfaces satisfied by the pgx
// repositories. Tests substitute in-memory fakes.

type classroomStore interface {
	GetByID(ctx context.Context, id int) (*model.Classroom, error)
	ListForUser(ctx context.Context, userID int, role model.Role) ([]model.Classroom, error)
	Create(ctx context.Context, c *model.Classroom) error
	Deactivate(ctx context.Context, id int) error
	AddStudent(ctx context.Context, classroomID, studentID int) error
	RemoveStudent(ctx context.Context, classroomID, studentID int) error
	AddTeacher(ctx context.Context, classroomID, teacherID int) error
	RemoveTeacher(ctx context.Context, classroomID, teacherID int) error
	IsTeacher(ctx context.Context, classroomID, userID int) (bool, error)
	ResolveRoster(ctx context.Context, classroomID int) ([]int, error)
	ListRoster(ctx context.Context, classroomID int) ([]model.RosterEntry, error)
}

type userStore interface {
	GetByID(ctx context.Context, id int) (*model.User, error)
}

type accountStore interface {
	GetByID(ctx context.Context, id int) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, u *model.User) error
	UpdatePassword(ctx context.Context, id int, passwordHash string) error
}

type assignmentStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Assignment, error)
	CreateWithSubmissions(ctx context.Context, a *model.Assignment, studentIDs []int) error
	ListByClassroom(ctx context.Context, classroomID int) ([]model.Assignment, error)
	ListForStudent(ctx context.Context, studentID int) ([]model.StudentAssignment, error)
}

type submissionStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Submission, error)
	ListByAssignment(ctx context.Context, assignmentID uuid.UUID) ([]model.SubmissionWithStudent, error)
	MarkSubmitted(ctx context.Context, id uuid.UUID) error
	UpdateGrade(ctx context.Context, id uuid.UUID, grade *int, feedback *string) (*model.Submission, error)
	GetByAssignmentAndStudent(ctx context.Context, assignmentID uuid.UUID, studentID int) (*model.Submission, error)
}

type notificationStore interface {
	CreateBatch(ctx context.Context, notifications []model.Notification) error
	ListByReceiver(ctx context.Context, receiverID, limit int) ([]model.Notification, error)
	MarkRead(ctx context.Context, id, receiverID int) error
}

type activityStore interface {
	UpsertAttendance(ctx context.Context, classroomID int, date time.Time, records []model.AttendanceRecord, recordedBy int) error
	ListAttendanceByDate(ctx context.Context, classroomID int, date time.Time) (map[int]model.AttendanceEntry, error)
	CreatePerformance(ctx context.Context, e *model.PerformanceEntry) error
	ListPerformanceByStudent(ctx context.Context, studentID int) ([]model.PerformanceEntry, error)
}
