package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/classbridge/classbridge-backend/internal/model"
	"github.com/jackc/pgx/v5"
)

// ClassroomService handles classroom lifecycle and roster management.
type ClassroomService struct {
	classrooms classroomStore
	users      userStore
}

// NewClassroomService creates a new ClassroomService.
func NewClassroomService(classrooms classroomStore, users userStore) *ClassroomService {
	return &ClassroomService{classrooms: classrooms, users: users}
}

// Create creates a classroom owned by the acting teacher, who becomes
// its first teacher member.
func (s *ClassroomService) Create(ctx context.Context, req model.CreateClassroomRequest, creatorID int) (*model.Classroom, error) {
	classroom := &model.Classroom{
		Name:        req.Name,
		Description: req.Description,
		CreatorID:   creatorID,
	}
	if err := s.classrooms.Create(ctx, classroom); err != nil {
		return nil, fmt.Errorf("create classroom: %w", err)
	}
	return classroom, nil
}

// GetByID retrieves an active classroom.
func (s *ClassroomService) GetByID(ctx context.Context, id int) (*model.Classroom, error) {
	classroom, err := s.classrooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get classroom: %w", err)
	}
	return classroom, nil
}

// List retrieves the classrooms visible to the acting user.
func (s *ClassroomService) List(ctx context.Context, userID int, role model.Role) ([]model.Classroom, error) {
	return s.classrooms.ListForUser(ctx, userID, role)
}

// Deactivate soft-deletes a classroom. Only the creator or an admin may
// do so; submissions keep their classroom reference.
func (s *ClassroomService) Deactivate(ctx context.Context, id, actorID int, actorRole model.Role) error {
	classroom, err := s.classrooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("get classroom: %w", err)
	}
	if actorRole != model.RoleAdmin && classroom.CreatorID != actorID {
		return ErrForbidden
	}

	if err := s.classrooms.Deactivate(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Already deactivated concurrently; idempotent delete is success.
			return nil
		}
		return fmt.Errorf("deactivate classroom: %w", err)
	}
	return nil
}

// AddStudent enrolls a student. The acting user must be a teacher
// member; the target must exist and carry the STUDENT role.
func (s *ClassroomService) AddStudent(ctx context.Context, classroomID, studentID, actorID int) error {
	if err := s.requireTeacher(ctx, classroomID, actorID); err != nil {
		return err
	}
	if err := s.requireRole(ctx, studentID, model.RoleStudent); err != nil {
		return err
	}
	if err := s.classrooms.AddStudent(ctx, classroomID, studentID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("add student: %w", err)
	}
	return nil
}

// RemoveStudent unenrolls a student. Removing a non-member succeeds
// (idempotent delete).
func (s *ClassroomService) RemoveStudent(ctx context.Context, classroomID, studentID, actorID int) error {
	if err := s.requireTeacher(ctx, classroomID, actorID); err != nil {
		return err
	}
	if err := s.classrooms.RemoveStudent(ctx, classroomID, studentID); err != nil {
		return fmt.Errorf("remove student: %w", err)
	}
	return nil
}

// AddTeacher adds a co-teacher. Only the classroom creator or an admin
// may manage the teacher set.
func (s *ClassroomService) AddTeacher(ctx context.Context, classroomID, teacherID, actorID int, actorRole model.Role) error {
	classroom, err := s.classrooms.GetByID(ctx, classroomID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("get classroom: %w", err)
	}
	if actorRole != model.RoleAdmin && classroom.CreatorID != actorID {
		return ErrForbidden
	}
	if err := s.requireRole(ctx, teacherID, model.RoleTeacher); err != nil {
		return err
	}
	if err := s.classrooms.AddTeacher(ctx, classroomID, teacherID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("add teacher: %w", err)
	}
	return nil
}

// Roster lists the classroom's enrolled students for a teacher member.
func (s *ClassroomService) Roster(ctx context.Context, classroomID, actorID int) ([]model.RosterEntry, error) {
	if err := s.requireTeacher(ctx, classroomID, actorID); err != nil {
		return nil, err
	}
	return s.classrooms.ListRoster(ctx, classroomID)
}

func (s *ClassroomService) requireTeacher(ctx context.Context, classroomID, actorID int) error {
	if _, err := s.classrooms.GetByID(ctx, classroomID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("get classroom: %w", err)
	}
	isTeacher, err := s.classrooms.IsTeacher(ctx, classroomID, actorID)
	if err != nil {
		return fmt.Errorf("check membership: %w", err)
	}
	if !isTeacher {
		return ErrForbidden
	}
	return nil
}

func (s *ClassroomService) requireRole(ctx context.Context, userID int, role model.Role) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("get user: %w", err)
	}
	if user.Role != role || !user.IsActive {
		return ErrRoleMismatch
	}
	return nil
}
