package repository

import (
	"context"
	"time"

	"github.com/classbridge/classbridge-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ActivityRepository handles attendance and performance data access.
type ActivityRepository struct {
	pool *pgxpool.Pool
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

// UpsertAttendance writes one attendance row per (student, date) in a
// single transaction. Re-recording a day overwrites the stored presence
// value (last write wins).
func (r *ActivityRepository) UpsertAttendance(ctx context.Context, classroomID int, date time.Time, records []model.AttendanceRecord, recordedBy int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, rec := range records {
		if _, err := tx.Exec(ctx,
			`INSERT INTO attendance_entries (student_id, classroom_id, entry_date, is_present, recorded_by)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (student_id, entry_date)
			 DO UPDATE SET is_present = EXCLUDED.is_present,
			               recorded_by = EXCLUDED.recorded_by,
			               updated_at = CURRENT_TIMESTAMP`,
			rec.StudentID, classroomID, date, rec.IsPresent, recordedBy,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// ListAttendanceByDate retrieves a classroom's stored attendance rows
// for one day, keyed by student id.
func (r *ActivityRepository) ListAttendanceByDate(ctx context.Context, classroomID int, date time.Time) (map[int]model.AttendanceEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, student_id, classroom_id, entry_date, is_present, recorded_by, created_at, updated_at
		 FROM attendance_entries
		 WHERE classroom_id = $1 AND entry_date = $2`, classroomID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make(map[int]model.AttendanceEntry)
	for rows.Next() {
		var e model.AttendanceEntry
		if err := rows.Scan(&e.ID, &e.StudentID, &e.ClassroomID, &e.Date, &e.IsPresent, &e.RecordedBy, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		entries[e.StudentID] = e
	}
	return entries, rows.Err()
}

// CreatePerformance appends a performance entry. Entries are never
// updated in place; each score stands on its own.
func (r *ActivityRepository) CreatePerformance(ctx context.Context, e *model.PerformanceEntry) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO performance_entries (student_id, classroom_id, entry_date, score, note, recorded_by)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		e.StudentID, e.ClassroomID, e.Date, e.Score, e.Note, e.RecordedBy,
	).Scan(&e.ID, &e.CreatedAt)
}

// ListPerformanceByStudent retrieves a student's performance history,
// newest first.
func (r *ActivityRepository) ListPerformanceByStudent(ctx context.Context, studentID int) ([]model.PerformanceEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, student_id, classroom_id, entry_date, score, note, recorded_by, created_at
		 FROM performance_entries
		 WHERE student_id = $1
		 ORDER BY entry_date DESC, created_at DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.PerformanceEntry
	for rows.Next() {
		var e model.PerformanceEntry
		if err := rows.Scan(&e.ID, &e.StudentID, &e.ClassroomID, &e.Date, &e.Score, &e.Note, &e.RecordedBy, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
