package service

import (
	"context"
	"errors"
	"time"

	"github.com/classbridge/classbridge-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// In-memory store fakes backing the service tests.

type fakeClassroomStore struct {
	classrooms map[int]*model.Classroom
	teachers   map[int]map[int]bool
	roster     map[int][]int
	names      map[int]string
}

func newFakeClassroomStore() *fakeClassroomStore {
	return &fakeClassroomStore{
		classrooms: make(map[int]*model.Classroom),
		teachers:   make(map[int]map[int]bool),
		roster:     make(map[int][]int),
		names:      make(map[int]string),
	}
}

func (f *fakeClassroomStore) addClassroom(id int, teacherID int, studentIDs ...int) {
	f.classrooms[id] = &model.Classroom{ID: id, Name: "Classroom", CreatorID: teacherID, IsActive: true}
	f.teachers[id] = map[int]bool{teacherID: true}
	f.roster[id] = studentIDs
}

func (f *fakeClassroomStore) GetByID(ctx context.Context, id int) (*model.Classroom, error) {
	c, ok := f.classrooms[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return c, nil
}

func (f *fakeClassroomStore) ListForUser(ctx context.Context, userID int, role model.Role) ([]model.Classroom, error) {
	var out []model.Classroom
	for _, c := range f.classrooms {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeClassroomStore) Create(ctx context.Context, c *model.Classroom) error {
	c.ID = len(f.classrooms) + 1
	c.IsActive = true
	f.classrooms[c.ID] = c
	f.teachers[c.ID] = map[int]bool{c.CreatorID: true}
	return nil
}

func (f *fakeClassroomStore) Deactivate(ctx context.Context, id int) error {
	c, ok := f.classrooms[id]
	if !ok || !c.IsActive {
		return pgx.ErrNoRows
	}
	c.IsActive = false
	return nil
}

func (f *fakeClassroomStore) AddStudent(ctx context.Context, classroomID, studentID int) error {
	for _, id := range f.roster[classroomID] {
		if id == studentID {
			return nil
		}
	}
	f.roster[classroomID] = append(f.roster[classroomID], studentID)
	return nil
}

func (f *fakeClassroomStore) RemoveStudent(ctx context.Context, classroomID, studentID int) error {
	roster := f.roster[classroomID]
	for i, id := range roster {
		if id == studentID {
			f.roster[classroomID] = append(roster[:i], roster[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeClassroomStore) AddTeacher(ctx context.Context, classroomID, teacherID int) error {
	if f.teachers[classroomID] == nil {
		f.teachers[classroomID] = make(map[int]bool)
	}
	f.teachers[classroomID][teacherID] = true
	return nil
}

func (f *fakeClassroomStore) RemoveTeacher(ctx context.Context, classroomID, teacherID int) error {
	delete(f.teachers[classroomID], teacherID)
	return nil
}

func (f *fakeClassroomStore) IsTeacher(ctx context.Context, classroomID, userID int) (bool, error) {
	return f.teachers[classroomID][userID], nil
}

func (f *fakeClassroomStore) ResolveRoster(ctx context.Context, classroomID int) ([]int, error) {
	return append([]int(nil), f.roster[classroomID]...), nil
}

func (f *fakeClassroomStore) ListRoster(ctx context.Context, classroomID int) ([]model.RosterEntry, error) {
	var out []model.RosterEntry
	for _, id := range f.roster[classroomID] {
		name := f.names[id]
		if name == "" {
			name = "Student"
		}
		out = append(out, model.RosterEntry{StudentID: id, Name: name})
	}
	return out, nil
}

type fakeAssignmentStore struct {
	assignments map[uuid.UUID]*model.Assignment
	submissions *fakeSubmissionStore
	failCreate  bool
}

func newFakeAssignmentStore(subs *fakeSubmissionStore) *fakeAssignmentStore {
	return &fakeAssignmentStore{
		assignments: make(map[uuid.UUID]*model.Assignment),
		submissions: subs,
	}
}

func (f *fakeAssignmentStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Assignment, error) {
	a, ok := f.assignments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return a, nil
}

// CreateWithSubmissions mirrors the transactional fan-out: on failure
// nothing is persisted, on success the assignment and every submission
// row land together.
func (f *fakeAssignmentStore) CreateWithSubmissions(ctx context.Context, a *model.Assignment, studentIDs []int) error {
	if f.failCreate {
		return errors.New("copy failed")
	}
	a.ID = uuid.New()
	a.IsActive = true
	f.assignments[a.ID] = a
	for _, studentID := range studentIDs {
		f.submissions.add(a.ID, studentID)
	}
	return nil
}

func (f *fakeAssignmentStore) ListByClassroom(ctx context.Context, classroomID int) ([]model.Assignment, error) {
	var out []model.Assignment
	for _, a := range f.assignments {
		if a.ClassroomID == classroomID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAssignmentStore) ListForStudent(ctx context.Context, studentID int) ([]model.StudentAssignment, error) {
	var out []model.StudentAssignment
	for _, sub := range f.submissions.order {
		if sub.StudentID != studentID {
			continue
		}
		a := f.assignments[sub.AssignmentID]
		out = append(out, model.StudentAssignment{
			Assignment:  *a,
			SubmittedAt: sub.SubmittedAt,
			Grade:       sub.Grade,
			Feedback:    sub.Feedback,
		})
	}
	return out, nil
}

type fakeSubmissionStore struct {
	order []*model.SubmissionWithStudent
	byID  map[uuid.UUID]*model.SubmissionWithStudent
}

func newFakeSubmissionStore() *fakeSubmissionStore {
	return &fakeSubmissionStore{byID: make(map[uuid.UUID]*model.SubmissionWithStudent)}
}

func (f *fakeSubmissionStore) add(assignmentID uuid.UUID, studentID int) *model.SubmissionWithStudent {
	sub := &model.SubmissionWithStudent{
		Submission: model.Submission{
			ID:           uuid.New(),
			AssignmentID: assignmentID,
			StudentID:    studentID,
			CreatedAt:    time.Now(),
		},
		StudentName:  "Student",
		StudentEmail: "student@example.com",
	}
	f.order = append(f.order, sub)
	f.byID[sub.ID] = sub
	return sub
}

func (f *fakeSubmissionStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Submission, error) {
	sub, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := sub.Submission
	return &cp, nil
}

func (f *fakeSubmissionStore) ListByAssignment(ctx context.Context, assignmentID uuid.UUID) ([]model.SubmissionWithStudent, error) {
	var out []model.SubmissionWithStudent
	for _, sub := range f.order {
		if sub.AssignmentID == assignmentID {
			out = append(out, *sub)
		}
	}
	return out, nil
}

func (f *fakeSubmissionStore) MarkSubmitted(ctx context.Context, id uuid.UUID) error {
	sub, ok := f.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if sub.SubmittedAt == nil {
		now := time.Now()
		sub.SubmittedAt = &now
	}
	return nil
}

func (f *fakeSubmissionStore) UpdateGrade(ctx context.Context, id uuid.UUID, grade *int, feedback *string) (*model.Submission, error) {
	sub, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	sub.Grade = grade
	sub.Feedback = feedback
	cp := sub.Submission
	return &cp, nil
}

func (f *fakeSubmissionStore) GetByAssignmentAndStudent(ctx context.Context, assignmentID uuid.UUID, studentID int) (*model.Submission, error) {
	for _, sub := range f.order {
		if sub.AssignmentID == assignmentID && sub.StudentID == studentID {
			cp := sub.Submission
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeNotificationStore struct {
	created []model.Notification
}

func (f *fakeNotificationStore) CreateBatch(ctx context.Context, notifications []model.Notification) error {
	f.created = append(f.created, notifications...)
	return nil
}

func (f *fakeNotificationStore) ListByReceiver(ctx context.Context, receiverID, limit int) ([]model.Notification, error) {
	var out []model.Notification
	for _, n := range f.created {
		if n.ReceiverID == receiverID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotificationStore) MarkRead(ctx context.Context, id, receiverID int) error {
	for i, n := range f.created {
		if n.ID == id && n.ReceiverID == receiverID {
			f.created[i].IsRead = true
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakeReminderQueue struct {
	jobs []model.ReminderEmailJob
}

func (f *fakeReminderQueue) Enqueue(ctx context.Context, jobs []model.ReminderEmailJob) error {
	f.jobs = append(f.jobs, jobs...)
	return nil
}

type attendanceKey struct {
	studentID int
	date      string
}

type fakeActivityStore struct {
	attendance  map[attendanceKey]model.AttendanceEntry
	performance []model.PerformanceEntry
}

func newFakeActivityStore() *fakeActivityStore {
	return &fakeActivityStore{attendance: make(map[attendanceKey]model.AttendanceEntry)}
}

func (f *fakeActivityStore) UpsertAttendance(ctx context.Context, classroomID int, date time.Time, records []model.AttendanceRecord, recordedBy int) error {
	for _, rec := range records {
		key := attendanceKey{rec.StudentID, date.Format("2006-01-02")}
		f.attendance[key] = model.AttendanceEntry{
			StudentID:   rec.StudentID,
			ClassroomID: classroomID,
			Date:        date,
			IsPresent:   rec.IsPresent,
			RecordedBy:  recordedBy,
		}
	}
	return nil
}

func (f *fakeActivityStore) ListAttendanceByDate(ctx context.Context, classroomID int, date time.Time) (map[int]model.AttendanceEntry, error) {
	out := make(map[int]model.AttendanceEntry)
	for key, e := range f.attendance {
		if e.ClassroomID == classroomID && key.date == date.Format("2006-01-02") {
			out[e.StudentID] = e
		}
	}
	return out, nil
}

func (f *fakeActivityStore) CreatePerformance(ctx context.Context, e *model.PerformanceEntry) error {
	e.ID = len(f.performance) + 1
	f.performance = append(f.performance, *e)
	return nil
}

func (f *fakeActivityStore) ListPerformanceByStudent(ctx context.Context, studentID int) ([]model.PerformanceEntry, error) {
	var out []model.PerformanceEntry
	for _, e := range f.performance {
		if e.StudentID == studentID {
			out = append(out, e)
		}
	}
	return out, nil
}
