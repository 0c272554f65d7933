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

type reminderFixture struct {
	svc           *ReminderService
	subs          *fakeSubmissionStore
	classrooms    *fakeClassroomStore
	notifications *fakeNotificationStore
	queue         *fakeReminderQueue
	assignmentID  uuid.UUID
}

// Three students: 1 submitted, 2 and 3 did not.
func newReminderFixture(t *testing.T, dueDate *time.Time) *reminderFixture {
	t.Helper()

	subs := newFakeSubmissionStore()
	assignments := newFakeAssignmentStore(subs)
	classrooms := newFakeClassroomStore()
	notifications := &fakeNotificationStore{}
	queue := &fakeReminderQueue{}
	classrooms.addClassroom(1, teacherID, 1, 2, 3)

	a := &model.Assignment{Title: "Essay", ClassroomID: 1, CreatorID: teacherID, DueDate: dueDate}
	require.NoError(t, assignments.CreateWithSubmissions(context.Background(), a, []int{1, 2, 3}))
	require.NoError(t, subs.MarkSubmitted(context.Background(), subs.order[0].ID))

	return &reminderFixture{
		svc:           NewReminderService(assignments, subs, classrooms, notifications, queue),
		subs:          subs,
		classrooms:    classrooms,
		notifications: notifications,
		queue:         queue,
		assignmentID:  a.ID,
	}
}

func TestSelectTargets_PendingOnly(t *testing.T) {
	due := time.Now().Add(24 * time.Hour)
	fx := newReminderFixture(t, &due)

	targets, err := fx.svc.SelectTargets(context.Background(), fx.assignmentID, teacherID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{2, 3}, targets)
}

// Past the due date the unsubmitted students read OVERDUE, which the
// selector excludes: a reminder has no remediation value anymore.
func TestSelectTargets_OverdueExcluded(t *testing.T) {
	due := time.Now().Add(-24 * time.Hour)
	fx := newReminderFixture(t, &due)

	targets, err := fx.svc.SelectTargets(context.Background(), fx.assignmentID, teacherID)
	require.NoError(t, err)
	assert.Empty(t, targets)
}

func TestSelectTargets_NoDueDateStaysPending(t *testing.T) {
	fx := newReminderFixture(t, nil)

	targets, err := fx.svc.SelectTargets(context.Background(), fx.assignmentID, teacherID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{2, 3}, targets)
}

func TestSelectTargets_NonTeacherForbidden(t *testing.T) {
	fx := newReminderFixture(t, nil)

	_, err := fx.svc.SelectTargets(context.Background(), fx.assignmentID, outsiderID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDispatch_NotifiesAndEnqueuesPerPendingStudent(t *testing.T) {
	due := time.Now().Add(24 * time.Hour)
	fx := newReminderFixture(t, &due)

	notified, err := fx.svc.Dispatch(context.Background(), fx.assignmentID, teacherID)
	require.NoError(t, err)
	assert.Equal(t, 2, notified)

	require.Len(t, fx.notifications.created, 2)
	receivers := []int{fx.notifications.created[0].ReceiverID, fx.notifications.created[1].ReceiverID}
	assert.ElementsMatch(t, []int{2, 3}, receivers)
	for _, n := range fx.notifications.created {
		assert.Equal(t, teacherID, n.SenderID)
		assert.Contains(t, n.Title, "Essay")
	}

	require.Len(t, fx.queue.jobs, 2)
	assert.Equal(t, fx.assignmentID.String(), fx.queue.jobs[0].AssignmentID)
}

func TestDispatch_NoPendingIsNoOp(t *testing.T) {
	due := time.Now().Add(-24 * time.Hour)
	fx := newReminderFixture(t, &due)

	notified, err := fx.svc.Dispatch(context.Background(), fx.assignmentID, teacherID)
	require.NoError(t, err)
	assert.Zero(t, notified)
	assert.Empty(t, fx.notifications.created)
	assert.Empty(t, fx.queue.jobs)
}

// A classroom deactivated between assignment creation and dispatch
// reads as missing, not as an internal failure.
func TestDispatch_DeactivatedClassroomNotFound(t *testing.T) {
	due := time.Now().Add(24 * time.Hour)
	fx := newReminderFixture(t, &due)
	delete(fx.classrooms.classrooms, 1)

	_, err := fx.svc.Dispatch(context.Background(), fx.assignmentID, teacherID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, fx.notifications.created)
	assert.Empty(t, fx.queue.jobs)
}

func TestDispatch_UnknownAssignment(t *testing.T) {
	fx := newReminderFixture(t, nil)

	_, err := fx.svc.Dispatch(context.Background(), uuid.New(), teacherID)
	assert.ErrorIs(t, err, ErrNotFound)
}
