package repository

import (
	"context"
	"errors"

	"github.com/classbridge/classbridge-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ClassroomRepository handles classroom and roster data access.
type ClassroomRepository struct {
	pool *pgxpool.Pool
}

// NewClassroomRepository creates a new ClassroomRepository.
func NewClassroomRepository(pool *pgxpool.Pool) *ClassroomRepository {
	return &ClassroomRepository{pool: pool}
}

// GetByID retrieves an active classroom by its ID. Soft-deleted
// classrooms behave as missing.
func (r *ClassroomRepository) GetByID(ctx context.Context, id int) (*model.Classroom, error) {
	c := &model.Classroom{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, description, creator_id, is_active, created_at, updated_at
		 FROM classrooms WHERE id = $1 AND is_active = TRUE`, id,
	).Scan(&c.ID, &c.Name, &c.Description, &c.CreatorID, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListForUser retrieves active classrooms visible to a user: all for
// admins, membership-scoped for teachers and students.
func (r *ClassroomRepository) ListForUser(ctx context.Context, userID int, role model.Role) ([]model.Classroom, error) {
	var (
		rows pgx.Rows
		err  error
	)

	switch role {
	case model.RoleAdmin:
		rows, err = r.pool.Query(ctx,
			`SELECT id, name, description, creator_id, is_active, created_at, updated_at
			 FROM classrooms WHERE is_active = TRUE ORDER BY name`)
	case model.RoleTeacher:
		rows, err = r.pool.Query(ctx,
			`SELECT c.id, c.name, c.description, c.creator_id, c.is_active, c.created_at, c.updated_at
			 FROM classrooms c
			 JOIN classroom_teachers ct ON ct.classroom_id = c.id
			 WHERE ct.teacher_id = $1 AND c.is_active = TRUE ORDER BY c.name`, userID)
	default:
		rows, err = r.pool.Query(ctx,
			`SELECT c.id, c.name, c.description, c.creator_id, c.is_active, c.created_at, c.updated_at
			 FROM classrooms c
			 JOIN classroom_students cs ON cs.classroom_id = c.id
			 WHERE cs.student_id = $1 AND c.is_active = TRUE ORDER BY c.name`, userID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classrooms []model.Classroom
	for rows.Next() {
		var c model.Classroom
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatorID, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		classrooms = append(classrooms, c)
	}
	return classrooms, rows.Err()
}

// Create inserts a new classroom and the creator's teacher membership
// in one transaction.
func (r *ClassroomRepository) Create(ctx context.Context, c *model.Classroom) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO classrooms (name, description, creator_id, is_active)
		 VALUES ($1, $2, $3, TRUE)
		 RETURNING id, is_active, created_at, updated_at`,
		c.Name, c.Description, c.CreatorID,
	).Scan(&c.ID, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO classroom_teachers (classroom_id, teacher_id) VALUES ($1, $2)`,
		c.ID, c.CreatorID,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Deactivate soft-deletes a classroom. Submissions keep referencing it.
func (r *ClassroomRepository) Deactivate(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE classrooms SET is_active = FALSE, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $1 AND is_active = TRUE`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// AddStudent inserts a student membership row. Adding an existing
// member is a no-op.
func (r *ClassroomRepository) AddStudent(ctx context.Context, classroomID, studentID int) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO classroom_students (classroom_id, student_id)
		 VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		classroomID, studentID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return pgx.ErrNoRows
		}
	}
	return err
}

// RemoveStudent deletes a student membership row. Removing an already
// absent member is treated as success.
func (r *ClassroomRepository) RemoveStudent(ctx context.Context, classroomID, studentID int) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM classroom_students WHERE classroom_id = $1 AND student_id = $2`,
		classroomID, studentID)
	return err
}

// AddTeacher inserts a teacher membership row.
func (r *ClassroomRepository) AddTeacher(ctx context.Context, classroomID, teacherID int) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO classroom_teachers (classroom_id, teacher_id)
		 VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		classroomID, teacherID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return pgx.ErrNoRows
		}
	}
	return err
}

// RemoveTeacher deletes a teacher membership row.
func (r *ClassroomRepository) RemoveTeacher(ctx context.Context, classroomID, teacherID int) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM classroom_teachers WHERE classroom_id = $1 AND teacher_id = $2`,
		classroomID, teacherID)
	return err
}

// IsTeacher reports whether the user is a current teacher member of the
// classroom.
func (r *ClassroomRepository) IsTeacher(ctx context.Context, classroomID, userID int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM classroom_teachers
		   WHERE classroom_id = $1 AND teacher_id = $2
		 )`, classroomID, userID,
	).Scan(&exists)
	return exists, err
}

// ResolveRoster returns the ids of all currently enrolled students of a
// classroom. Callers that fan out must resolve once and reuse the
// result so a concurrent roster edit cannot split the operation.
func (r *ClassroomRepository) ResolveRoster(ctx context.Context, classroomID int) ([]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT cs.student_id
		 FROM classroom_students cs
		 JOIN users u ON u.id = cs.student_id
		 WHERE cs.classroom_id = $1 AND u.is_active = TRUE
		 ORDER BY cs.student_id`, classroomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListRoster returns the roster with student identity for display.
func (r *ClassroomRepository) ListRoster(ctx context.Context, classroomID int) ([]model.RosterEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT cs.student_id, u.name, u.email, cs.assigned_at
		 FROM classroom_students cs
		 JOIN users u ON u.id = cs.student_id
		 WHERE cs.classroom_id = $1 AND u.is_active = TRUE
		 ORDER BY u.name`, classroomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roster []model.RosterEntry
	for rows.Next() {
		var e model.RosterEntry
		if err := rows.Scan(&e.StudentID, &e.Name, &e.Email, &e.AssignedAt); err != nil {
			return nil, err
		}
		roster = append(roster, e)
	}
	return roster, rows.Err()
}
