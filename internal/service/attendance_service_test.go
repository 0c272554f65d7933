package service

import (
	"context"
	"testing"

	"github.com/classbridge/classbridge-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAttendanceFixture() (*AttendanceService, *fakeClassroomStore, *fakeActivityStore) {
	activities := newFakeActivityStore()
	classrooms := newFakeClassroomStore()
	classrooms.addClassroom(1, teacherID, 1, 2, 3)
	return NewAttendanceService(activities, classrooms), classrooms, activities
}

func TestRecordAttendance_ReRecordingOverwrites(t *testing.T) {
	svc, _, activities := newAttendanceFixture()
	ctx := context.Background()

	err := svc.Record(ctx, 1, model.RecordAttendanceRequest{
		Date: "2026-03-02",
		Records: []model.AttendanceRecord{
			{StudentID: 1, IsPresent: false},
			{StudentID: 2, IsPresent: true},
		},
	}, teacherID)
	require.NoError(t, err)

	// Correction later the same day: student 1 was present after all.
	err = svc.Record(ctx, 1, model.RecordAttendanceRequest{
		Date:    "2026-03-02",
		Records: []model.AttendanceRecord{{StudentID: 1, IsPresent: true}},
	}, teacherID)
	require.NoError(t, err)

	key := attendanceKey{studentID: 1, date: "2026-03-02"}
	assert.True(t, activities.attendance[key].IsPresent)
	// One row per (student, date), not one per recording.
	assert.Len(t, activities.attendance, 2)
}

func TestRecordAttendance_RejectsNonRosterStudent(t *testing.T) {
	svc, _, activities := newAttendanceFixture()

	err := svc.Record(context.Background(), 1, model.RecordAttendanceRequest{
		Date: "2026-03-02",
		Records: []model.AttendanceRecord{
			{StudentID: 1, IsPresent: true},
			{StudentID: 42, IsPresent: true},
		},
	}, teacherID)
	assert.ErrorIs(t, err, ErrTargetNotInRoster)
	assert.Empty(t, activities.attendance)
}

func TestRecordAttendance_NonTeacherForbidden(t *testing.T) {
	svc, _, _ := newAttendanceFixture()

	err := svc.Record(context.Background(), 1, model.RecordAttendanceRequest{
		Date:    "2026-03-02",
		Records: []model.AttendanceRecord{{StudentID: 1, IsPresent: true}},
	}, outsiderID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAttendanceSheet_DefaultsToPresent(t *testing.T) {
	svc, _, _ := newAttendanceFixture()
	ctx := context.Background()

	err := svc.Record(ctx, 1, model.RecordAttendanceRequest{
		Date:    "2026-03-02",
		Records: []model.AttendanceRecord{{StudentID: 2, IsPresent: false}},
	}, teacherID)
	require.NoError(t, err)

	sheet, err := svc.Sheet(ctx, 1, "2026-03-02", teacherID)
	require.NoError(t, err)
	require.Len(t, sheet, 3)

	byStudent := make(map[int]model.AttendanceSheetEntry)
	for _, row := range sheet {
		byStudent[row.StudentID] = row
	}
	assert.True(t, byStudent[1].IsPresent)
	assert.False(t, byStudent[1].Recorded)
	assert.False(t, byStudent[2].IsPresent)
	assert.True(t, byStudent[2].Recorded)
	assert.True(t, byStudent[3].IsPresent)
	assert.False(t, byStudent[3].Recorded)
}

func TestRecordPerformance_AppendOnly(t *testing.T) {
	svc, _, activities := newAttendanceFixture()
	ctx := context.Background()

	// Two entries for the same student and day both survive.
	for _, score := range []int{60, 90} {
		_, err := svc.RecordPerformance(ctx, 1, model.RecordPerformanceRequest{
			StudentID: 1,
			Date:      "2026-03-02",
			Score:     score,
		}, teacherID)
		require.NoError(t, err)
	}

	assert.Len(t, activities.performance, 2)

	entries, err := svc.ListPerformance(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	scores := []int{entries[0].Score, entries[1].Score}
	assert.ElementsMatch(t, []int{60, 90}, scores)
}

func TestRecordPerformance_Validation(t *testing.T) {
	svc, _, _ := newAttendanceFixture()
	ctx := context.Background()

	_, err := svc.RecordPerformance(ctx, 1, model.RecordPerformanceRequest{
		StudentID: 1, Date: "2026-03-02", Score: 101,
	}, teacherID)
	assert.ErrorIs(t, err, ErrGradeOutOfRange)

	_, err = svc.RecordPerformance(ctx, 1, model.RecordPerformanceRequest{
		StudentID: 42, Date: "2026-03-02", Score: 50,
	}, teacherID)
	assert.ErrorIs(t, err, ErrTargetNotInRoster)
}
