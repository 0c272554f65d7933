package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/classbridge/classbridge-backend/internal/model"
	"github.com/jackc/pgx/v5"
)

// DateLayout is the wire format for attendance and performance dates.
const DateLayout = "2006-01-02"

// AttendanceService records daily attendance and performance entries.
type AttendanceService struct {
	activities activityStore
	classrooms classroomStore
}

// NewAttendanceService creates a new AttendanceService.
func NewAttendanceService(activities activityStore, classrooms classroomStore) *AttendanceService {
	return &AttendanceService{activities: activities, classrooms: classrooms}
}

// Record upserts one attendance row per (student, date). Re-recording
// the same day overwrites the stored presence values; there is no audit
// trail of changes. Every student in the batch must be on the roster.
func (s *AttendanceService) Record(ctx context.Context, classroomID int, req model.RecordAttendanceRequest, actorID int) error {
	if err := s.requireTeacher(ctx, classroomID, actorID); err != nil {
		return err
	}

	date, err := time.Parse(DateLayout, req.Date)
	if err != nil {
		return fmt.Errorf("parse date: %w", err)
	}

	roster, err := s.classrooms.ResolveRoster(ctx, classroomID)
	if err != nil {
		return fmt.Errorf("resolve roster: %w", err)
	}
	enrolled := make(map[int]bool, len(roster))
	for _, id := range roster {
		enrolled[id] = true
	}
	for _, rec := range req.Records {
		if !enrolled[rec.StudentID] {
			return ErrTargetNotInRoster
		}
	}

	if err := s.activities.UpsertAttendance(ctx, classroomID, date, req.Records, actorID); err != nil {
		return fmt.Errorf("upsert attendance: %w", err)
	}
	return nil
}

// Sheet returns the day's attendance merged with the current roster.
// Students without a stored row default to present, unrecorded.
func (s *AttendanceService) Sheet(ctx context.Context, classroomID int, dateStr string, actorID int) ([]model.AttendanceSheetEntry, error) {
	if err := s.requireTeacher(ctx, classroomID, actorID); err != nil {
		return nil, err
	}

	date, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		return nil, fmt.Errorf("parse date: %w", err)
	}

	roster, err := s.classrooms.ListRoster(ctx, classroomID)
	if err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}
	entries, err := s.activities.ListAttendanceByDate(ctx, classroomID, date)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}

	return mergeSheet(roster, entries), nil
}

// mergeSheet overlays stored attendance rows on the roster.
func mergeSheet(roster []model.RosterEntry, entries map[int]model.AttendanceEntry) []model.AttendanceSheetEntry {
	sheet := make([]model.AttendanceSheetEntry, 0, len(roster))
	for _, r := range roster {
		row := model.AttendanceSheetEntry{
			StudentID: r.StudentID,
			Name:      r.Name,
			IsPresent: true,
		}
		if e, ok := entries[r.StudentID]; ok {
			row.IsPresent = e.IsPresent
			row.Recorded = true
		}
		sheet = append(sheet, row)
	}
	return sheet
}

// RecordPerformance appends a performance score entry for a student.
// Entries are append-only; several per day are fine.
func (s *AttendanceService) RecordPerformance(ctx context.Context, classroomID int, req model.RecordPerformanceRequest, actorID int) (*model.PerformanceEntry, error) {
	if err := s.requireTeacher(ctx, classroomID, actorID); err != nil {
		return nil, err
	}
	if req.Score < 0 || req.Score > 100 {
		return nil, ErrGradeOutOfRange
	}

	date, err := time.Parse(DateLayout, req.Date)
	if err != nil {
		return nil, fmt.Errorf("parse date: %w", err)
	}

	roster, err := s.classrooms.ResolveRoster(ctx, classroomID)
	if err != nil {
		return nil, fmt.Errorf("resolve roster: %w", err)
	}
	found := false
	for _, id := range roster {
		if id == req.StudentID {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrTargetNotInRoster
	}

	entry := &model.PerformanceEntry{
		StudentID:   req.StudentID,
		ClassroomID: classroomID,
		Date:        date,
		Score:       req.Score,
		Note:        req.Note,
		RecordedBy:  actorID,
	}
	if err := s.activities.CreatePerformance(ctx, entry); err != nil {
		return nil, fmt.Errorf("create performance entry: %w", err)
	}
	return entry, nil
}

// ListPerformance returns a student's performance history.
func (s *AttendanceService) ListPerformance(ctx context.Context, studentID int) ([]model.PerformanceEntry, error) {
	return s.activities.ListPerformanceByStudent(ctx, studentID)
}

// ListPerformanceForClassroom returns one student's history within a
// classroom, for a teacher member of that classroom.
func (s *AttendanceService) ListPerformanceForClassroom(ctx context.Context, classroomID, studentID, actorID int) ([]model.PerformanceEntry, error) {
	if err := s.requireTeacher(ctx, classroomID, actorID); err != nil {
		return nil, err
	}
	entries, err := s.activities.ListPerformanceByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("list performance: %w", err)
	}
	scoped := make([]model.PerformanceEntry, 0, len(entries))
	for _, e := range entries {
		if e.ClassroomID == classroomID {
			scoped = append(scoped, e)
		}
	}
	return scoped, nil
}

func (s *AttendanceService) requireTeacher(ctx context.Context, classroomID, actorID int) error {
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
