package repository

import (
	"context"

	"github.com/classbridge/classbridge-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SubmissionRepository handles submission data access. No status is
// stored; callers derive it from timestamps on every read.
type SubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository creates a new SubmissionRepository.
func NewSubmissionRepository(pool *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{pool: pool}
}

// GetByID retrieves a submission by its UUID.
func (r *SubmissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Submission, error) {
	s := &model.Submission{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, assignment_id, student_id, submitted_at, grade, feedback, created_at, updated_at
		 FROM submissions WHERE id = $1`, id,
	).Scan(&s.ID, &s.AssignmentID, &s.StudentID, &s.SubmittedAt, &s.Grade, &s.Feedback, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ListByAssignment retrieves all submissions of an assignment joined
// with student identity, ordered by student name.
func (r *SubmissionRepository) ListByAssignment(ctx context.Context, assignmentID uuid.UUID) ([]model.SubmissionWithStudent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT s.id, s.assignment_id, s.student_id, s.submitted_at, s.grade, s.feedback,
		        s.created_at, s.updated_at, u.name, u.email
		 FROM submissions s
		 JOIN users u ON u.id = s.student_id
		 WHERE s.assignment_id = $1
		 ORDER BY u.name`, assignmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []model.SubmissionWithStudent
	for rows.Next() {
		var s model.SubmissionWithStudent
		if err := rows.Scan(&s.ID, &s.AssignmentID, &s.StudentID, &s.SubmittedAt, &s.Grade, &s.Feedback,
			&s.CreatedAt, &s.UpdatedAt, &s.StudentName, &s.StudentEmail); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

// MarkSubmitted sets submitted_at once. Re-submitting keeps the first
// timestamp, so the call is idempotent.
func (r *SubmissionRepository) MarkSubmitted(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE submissions
		 SET submitted_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $1 AND submitted_at IS NULL`, id)
	return err
}

// UpdateGrade sets grade and feedback. Concurrent grade updates resolve
// last-write-wins at the storage layer. SubmittedAt is never touched.
func (r *SubmissionRepository) UpdateGrade(ctx context.Context, id uuid.UUID, grade *int, feedback *string) (*model.Submission, error) {
	s := &model.Submission{}
	err := r.pool.QueryRow(ctx,
		`UPDATE submissions
		 SET grade = $1, feedback = $2, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $3
		 RETURNING id, assignment_id, student_id, submitted_at, grade, feedback, created_at, updated_at`,
		grade, feedback, id,
	).Scan(&s.ID, &s.AssignmentID, &s.StudentID, &s.SubmittedAt, &s.Grade, &s.Feedback, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetByAssignmentAndStudent retrieves a student's own submission row.
func (r *SubmissionRepository) GetByAssignmentAndStudent(ctx context.Context, assignmentID uuid.UUID, studentID int) (*model.Submission, error) {
	s := &model.Submission{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, assignment_id, student_id, submitted_at, grade, feedback, created_at, updated_at
		 FROM submissions WHERE assignment_id = $1 AND student_id = $2`,
		assignmentID, studentID,
	).Scan(&s.ID, &s.AssignmentID, &s.StudentID, &s.SubmittedAt, &s.Grade, &s.Feedback, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}
