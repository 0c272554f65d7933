package repository

import (
	"context"
	"fmt"

	"github.com/classbridge/classbridge-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AssignmentRepository handles assignment data access, including the
// submission fan-out.
type AssignmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentRepository creates a new AssignmentRepository.
func NewAssignmentRepository(pool *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{pool: pool}
}

// GetByID retrieves an assignment by its UUID.
func (r *AssignmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Assignment, error) {
	a := &model.Assignment{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, description, due_date, classroom_id, creator_id, is_active, created_at, updated_at
		 FROM assignments WHERE id = $1 AND is_active = TRUE`, id,
	).Scan(&a.ID, &a.Title, &a.Description, &a.DueDate, &a.ClassroomID, &a.CreatorID, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// CreateWithSubmissions inserts the assignment and exactly one blank
// submission per target student inside a single transaction. Either
// every row lands or none do; a partial fan-out must never be
// observable.
func (r *AssignmentRepository) CreateWithSubmissions(ctx context.Context, a *model.Assignment, studentIDs []int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin fan-out tx: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO assignments (title, description, due_date, classroom_id, creator_id, is_active)
		 VALUES ($1, $2, $3, $4, $5, TRUE)
		 RETURNING id, is_active, created_at, updated_at`,
		a.Title, a.Description, a.DueDate, a.ClassroomID, a.CreatorID,
	).Scan(&a.ID, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert assignment: %w", err)
	}

	copied, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"submissions"},
		[]string{"assignment_id", "student_id"},
		pgx.CopyFromSlice(len(studentIDs), func(i int) ([]interface{}, error) {
			return []interface{}{a.ID, studentIDs[i]}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("fan out submissions: %w", err)
	}
	if copied != int64(len(studentIDs)) {
		return fmt.Errorf("fan out submissions: expected %d rows, copied %d", len(studentIDs), copied)
	}

	return tx.Commit(ctx)
}

// ListByClassroom retrieves active assignments of a classroom, newest first.
func (r *AssignmentRepository) ListByClassroom(ctx context.Context, classroomID int) ([]model.Assignment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, description, due_date, classroom_id, creator_id, is_active, created_at, updated_at
		 FROM assignments
		 WHERE classroom_id = $1 AND is_active = TRUE
		 ORDER BY created_at DESC`, classroomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []model.Assignment
	for rows.Next() {
		var a model.Assignment
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.DueDate, &a.ClassroomID, &a.CreatorID, &a.IsActive, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// ListForStudent retrieves a student's assignments joined with their own
// submission rows, soonest due date first.
func (r *AssignmentRepository) ListForStudent(ctx context.Context, studentID int) ([]model.StudentAssignment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT a.id, a.title, a.description, a.due_date, a.classroom_id, a.creator_id,
		        a.is_active, a.created_at, a.updated_at,
		        s.submitted_at, s.grade, s.feedback
		 FROM assignments a
		 JOIN submissions s ON s.assignment_id = a.id
		 WHERE s.student_id = $1 AND a.is_active = TRUE
		 ORDER BY a.due_date ASC NULLS LAST, a.created_at DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.StudentAssignment
	for rows.Next() {
		var sa model.StudentAssignment
		if err := rows.Scan(&sa.ID, &sa.Title, &sa.Description, &sa.DueDate, &sa.ClassroomID, &sa.CreatorID,
			&sa.IsActive, &sa.CreatedAt, &sa.UpdatedAt,
			&sa.SubmittedAt, &sa.Grade, &sa.Feedback); err != nil {
			return nil, err
		}
		list = append(list, sa)
	}
	return list, rows.Err()
}
