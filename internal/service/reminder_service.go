package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/classbridge/classbridge-backend/internal/config"
	"github.com/classbridge/classbridge-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
)

// reminderQueue enqueues email jobs for the reminder worker.
type reminderQueue interface {
	Enqueue(ctx context.Context, jobs []model.ReminderEmailJob) error
}

// RedisReminderQueue pushes reminder email jobs onto the worker queue.
type RedisReminderQueue struct {
	rdb *redis.Client
}

// NewRedisReminderQueue creates a new RedisReminderQueue.
func NewRedisReminderQueue(rdb *redis.Client) *RedisReminderQueue {
	return &RedisReminderQueue{rdb: rdb}
}

// Enqueue pushes each job as a JSON payload.
func (q *RedisReminderQueue) Enqueue(ctx context.Context, jobs []model.ReminderEmailJob) error {
	payloads := make([]interface{}, 0, len(jobs))
	for _, job := range jobs {
		raw, err := json.Marshal(job)
		if err != nil {
			return fmt.Errorf("marshal job: %w", err)
		}
		payloads = append(payloads, raw)
	}
	return q.rdb.RPush(ctx, config.WorkerKey.ReminderEmailQueue, payloads...).Err()
}

// ReminderService selects students still able to act on a reminder and
// drives the caller-triggered dispatch step.
type ReminderService struct {
	assignments   assignmentStore
	submissions   submissionStore
	classrooms    classroomStore
	notifications notificationStore
	queue         reminderQueue
}

// NewReminderService creates a new ReminderService.
func NewReminderService(
	assignments assignmentStore,
	submissions submissionStore,
	classrooms classroomStore,
	notifications notificationStore,
	queue reminderQueue,
) *ReminderService {
	return &ReminderService{
		assignments:   assignments,
		submissions:   submissions,
		classrooms:    classrooms,
		notifications: notifications,
		queue:         queue,
	}
}

// SelectTargets returns the students whose derived status is PENDING
// right now. OVERDUE students are excluded by policy: past the deadline
// a reminder has no remediation value.
func (s *ReminderService) SelectTargets(ctx context.Context, assignmentID uuid.UUID, actorID int) ([]int, error) {
	pending, _, err := s.pendingSubmissions(ctx, assignmentID, actorID)
	if err != nil {
		return nil, err
	}

	ids := make([]int, 0, len(pending))
	for _, sub := range pending {
		ids = append(ids, sub.StudentID)
	}
	return ids, nil
}

// Dispatch writes one notification per pending student and enqueues the
// matching reminder emails. Returns the number of students notified.
// Dispatch is an explicit caller action, never an implicit side effect
// of assignment creation.
func (s *ReminderService) Dispatch(ctx context.Context, assignmentID uuid.UUID, actorID int) (int, error) {
	pending, assignment, err := s.pendingSubmissions(ctx, assignmentID, actorID)
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}

	classroom, err := s.classrooms.GetByID(ctx, assignment.ClassroomID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("get classroom: %w", err)
	}

	title := "Reminder: " + assignment.Title
	message := fmt.Sprintf("You have not yet submitted %q in %s.", assignment.Title, classroom.Name)
	var due string
	if assignment.DueDate != nil {
		due = assignment.DueDate.Format(time.RFC1123)
		message += " Due " + due + "."
	}

	notifications := make([]model.Notification, 0, len(pending))
	jobs := make([]model.ReminderEmailJob, 0, len(pending))
	for _, sub := range pending {
		notifications = append(notifications, model.Notification{
			SenderID:   actorID,
			ReceiverID: sub.StudentID,
			Title:      title,
			Message:    message,
		})
		jobs = append(jobs, model.ReminderEmailJob{
			ToName:       sub.StudentName,
			ToEmail:      sub.StudentEmail,
			Assignment:   assignment.Title,
			Classroom:    classroom.Name,
			DueDate:      due,
			AssignmentID: assignment.ID.String(),
		})
	}

	if err := s.notifications.CreateBatch(ctx, notifications); err != nil {
		return 0, fmt.Errorf("create notifications: %w", err)
	}
	if err := s.queue.Enqueue(ctx, jobs); err != nil {
		return 0, fmt.Errorf("enqueue reminder emails: %w", err)
	}

	return len(pending), nil
}

func (s *ReminderService) pendingSubmissions(ctx context.Context, assignmentID uuid.UUID, actorID int) ([]model.SubmissionWithStudent, *model.Assignment, error) {
	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("get assignment: %w", err)
	}

	isTeacher, err := s.classrooms.IsTeacher(ctx, assignment.ClassroomID, actorID)
	if err != nil {
		return nil, nil, fmt.Errorf("check membership: %w", err)
	}
	if !isTeacher {
		return nil, nil, ErrForbidden
	}

	subs, err := s.submissions.ListByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, nil, fmt.Errorf("list submissions: %w", err)
	}

	return filterPending(subs, assignment.DueDate, time.Now()), assignment, nil
}

// filterPending keeps submissions whose derived status is PENDING at
// the given instant.
func filterPending(subs []model.SubmissionWithStudent, dueDate *time.Time, now time.Time) []model.SubmissionWithStudent {
	var pending []model.SubmissionWithStudent
	for _, sub := range subs {
		if model.DeriveStatus(sub.SubmittedAt, dueDate, now) == model.StatusPending {
			pending = append(pending, sub)
		}
	}
	return pending
}
