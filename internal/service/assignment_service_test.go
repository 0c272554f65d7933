package service

import (
	"context"
	"testing"
	"time"

	"github.com/classbridge/classbridge-backend/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	teacherID  = 10
	outsiderID = 99
)

func newAssignmentFixture() (*AssignmentService, *fakeClassroomStore, *fakeAssignmentStore, *fakeSubmissionStore) {
	subs := newFakeSubmissionStore()
	assignments := newFakeAssignmentStore(subs)
	classrooms := newFakeClassroomStore()
	svc := NewAssignmentService(assignments, subs, classrooms)
	return svc, classrooms, assignments, subs
}

func TestCreateAssignment_ClassWideFanOut(t *testing.T) {
	svc, classrooms, _, subs := newAssignmentFixture()
	classrooms.addClassroom(1, teacherID, 1, 2, 3)

	a, err := svc.Create(context.Background(), 1, model.CreateAssignmentRequest{
		Title: "Essay one",
		Mode:  model.DistributionClassWide,
	}, teacherID)
	require.NoError(t, err)

	rows, err := subs.ListByAssignment(context.Background(), a.ID)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	seen := make(map[int]bool)
	for _, row := range rows {
		assert.Equal(t, a.ID, row.AssignmentID)
		assert.Nil(t, row.SubmittedAt)
		seen[row.StudentID] = true
	}
	assert.Equal(t, map[int]bool{1: true, 2: true, 3: true}, seen)
}

func TestCreateAssignment_SelectedSubset(t *testing.T) {
	svc, classrooms, _, subs := newAssignmentFixture()
	classrooms.addClassroom(1, teacherID, 1, 2, 3)

	a, err := svc.Create(context.Background(), 1, model.CreateAssignmentRequest{
		Title:      "Group task",
		Mode:       model.DistributionSelected,
		StudentIDs: []int{2, 3, 3}, // duplicate collapses to one row
	}, teacherID)
	require.NoError(t, err)

	rows, err := subs.ListByAssignment(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestCreateAssignment_SelectedRejectsNonRosterID(t *testing.T) {
	svc, classrooms, assignments, subs := newAssignmentFixture()
	classrooms.addClassroom(1, teacherID, 1, 2)

	_, err := svc.Create(context.Background(), 1, model.CreateAssignmentRequest{
		Title:      "Group task",
		Mode:       model.DistributionSelected,
		StudentIDs: []int{1, 7}, // 7 is not enrolled
	}, teacherID)
	assert.ErrorIs(t, err, ErrTargetNotInRoster)

	// Nothing persisted, not even for the valid ids.
	assert.Empty(t, assignments.assignments)
	assert.Empty(t, subs.order)
}

func TestCreateAssignment_EmptyTargets(t *testing.T) {
	svc, classrooms, _, _ := newAssignmentFixture()
	classrooms.addClassroom(1, teacherID) // empty roster
	classrooms.addClassroom(2, teacherID, 1, 2)

	_, err := svc.Create(context.Background(), 1, model.CreateAssignmentRequest{
		Title: "Essay",
		Mode:  model.DistributionClassWide,
	}, teacherID)
	assert.ErrorIs(t, err, ErrEmptyTarget)

	_, err = svc.Create(context.Background(), 2, model.CreateAssignmentRequest{
		Title:      "Essay",
		Mode:       model.DistributionSelected,
		StudentIDs: []int{},
	}, teacherID)
	assert.ErrorIs(t, err, ErrEmptyTarget)
}

func TestCreateAssignment_NonTeacherForbidden(t *testing.T) {
	svc, classrooms, _, _ := newAssignmentFixture()
	classrooms.addClassroom(1, teacherID, 1)

	_, err := svc.Create(context.Background(), 1, model.CreateAssignmentRequest{
		Title: "Essay",
		Mode:  model.DistributionClassWide,
	}, outsiderID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreateAssignment_UnknownClassroom(t *testing.T) {
	svc, _, _, _ := newAssignmentFixture()

	_, err := svc.Create(context.Background(), 42, model.CreateAssignmentRequest{
		Title: "Essay",
		Mode:  model.DistributionClassWide,
	}, teacherID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateAssignment_FailedFanOutPersistsNothing(t *testing.T) {
	svc, classrooms, assignments, subs := newAssignmentFixture()
	classrooms.addClassroom(1, teacherID, 1, 2, 3)
	assignments.failCreate = true

	_, err := svc.Create(context.Background(), 1, model.CreateAssignmentRequest{
		Title: "Essay",
		Mode:  model.DistributionClassWide,
	}, teacherID)
	assert.ErrorIs(t, err, ErrDistributionFailed)

	assert.Empty(t, assignments.assignments)
	assert.Empty(t, subs.order)
}

func TestListSubmissions_DerivesStatusFromDueDate(t *testing.T) {
	svc, classrooms, _, subs := newAssignmentFixture()
	classrooms.addClassroom(1, teacherID, 1, 2, 3)

	due := time.Now().Add(-24 * time.Hour) // due yesterday
	a, err := svc.Create(context.Background(), 1, model.CreateAssignmentRequest{
		Title:   "Essay",
		Mode:    model.DistributionClassWide,
		DueDate: &due,
	}, teacherID)
	require.NoError(t, err)

	// Student 1 submitted; 2 and 3 did not.
	for _, sub := range subs.order {
		if sub.StudentID == 1 {
			require.NoError(t, subs.MarkSubmitted(context.Background(), sub.ID))
		}
	}

	rows, err := svc.ListSubmissions(context.Background(), a.ID, teacherID)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	byStudent := make(map[int]model.SubmissionStatus)
	for _, row := range rows {
		byStudent[row.StudentID] = row.Status
	}
	assert.Equal(t, model.StatusCompleted, byStudent[1])
	assert.Equal(t, model.StatusOverdue, byStudent[2])
	assert.Equal(t, model.StatusOverdue, byStudent[3])
}

func TestListSubmissions_FutureDueDateReadsPending(t *testing.T) {
	svc, classrooms, _, subs := newAssignmentFixture()
	classrooms.addClassroom(1, teacherID, 1, 2)

	due := time.Now().Add(24 * time.Hour)
	a, err := svc.Create(context.Background(), 1, model.CreateAssignmentRequest{
		Title:   "Essay",
		Mode:    model.DistributionClassWide,
		DueDate: &due,
	}, teacherID)
	require.NoError(t, err)

	require.NoError(t, subs.MarkSubmitted(context.Background(), subs.order[0].ID))

	rows, err := svc.ListSubmissions(context.Background(), a.ID, teacherID)
	require.NoError(t, err)

	byStudent := make(map[int]model.SubmissionStatus)
	for _, row := range rows {
		byStudent[row.StudentID] = row.Status
	}
	assert.Equal(t, model.StatusCompleted, byStudent[1])
	assert.Equal(t, model.StatusPending, byStudent[2])
}

func TestSubmit_IdempotentFirstTimestampWins(t *testing.T) {
	svc, classrooms, _, _ := newAssignmentFixture()
	classrooms.addClassroom(1, teacherID, 1)

	a, err := svc.Create(context.Background(), 1, model.CreateAssignmentRequest{
		Title: "Essay",
		Mode:  model.DistributionClassWide,
	}, teacherID)
	require.NoError(t, err)

	first, err := svc.Submit(context.Background(), a.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, first.SubmittedAt)
	assert.Equal(t, model.StatusCompleted, first.Status)

	second, err := svc.Submit(context.Background(), a.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, *first.SubmittedAt, *second.SubmittedAt)
}

// A student submits against the assignment id they see in their own
// assignment list; no separate submission id is needed.
func TestSubmit_ReachableFromStudentList(t *testing.T) {
	svc, classrooms, _, _ := newAssignmentFixture()
	classrooms.addClassroom(1, teacherID, 1)

	_, err := svc.Create(context.Background(), 1, model.CreateAssignmentRequest{
		Title: "Essay",
		Mode:  model.DistributionClassWide,
	}, teacherID)
	require.NoError(t, err)

	mine, err := svc.ListForStudent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	sub, err := svc.Submit(context.Background(), mine[0].Assignment.ID, 1)
	require.NoError(t, err)
	assert.NotNil(t, sub.SubmittedAt)
}

func TestSubmit_NotTargetedStudentNotFound(t *testing.T) {
	svc, classrooms, _, subs := newAssignmentFixture()
	classrooms.addClassroom(1, teacherID, 1)

	a, err := svc.Create(context.Background(), 1, model.CreateAssignmentRequest{
		Title: "Essay",
		Mode:  model.DistributionClassWide,
	}, teacherID)
	require.NoError(t, err)

	// Student 2 has no submission row on this assignment.
	_, err = svc.Submit(context.Background(), a.ID, 2)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, subs.order[0].SubmittedAt)
}

func TestSubmit_UnknownAssignment(t *testing.T) {
	svc, _, _, _ := newAssignmentFixture()

	_, err := svc.Submit(context.Background(), uuid.New(), 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmit_LateSubmitCompletes(t *testing.T) {
	svc, classrooms, _, _ := newAssignmentFixture()
	classrooms.addClassroom(1, teacherID, 1)

	due := time.Now().Add(-time.Hour)
	a, err := svc.Create(context.Background(), 1, model.CreateAssignmentRequest{
		Title:   "Essay",
		Mode:    model.DistributionClassWide,
		DueDate: &due,
	}, teacherID)
	require.NoError(t, err)

	sub, err := svc.Submit(context.Background(), a.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, sub.Status)
}
