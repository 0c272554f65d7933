package service

import (
	"context"
	"testing"

	"github.com/classbridge/classbridge-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserStore struct {
	users map[int]*model.User
}

func (f *fakeUserStore) GetByID(ctx context.Context, id int) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return u, nil
}

func newClassroomFixture() (*ClassroomService, *fakeClassroomStore, *fakeUserStore) {
	classrooms := newFakeClassroomStore()
	users := &fakeUserStore{users: map[int]*model.User{
		teacherID: {ID: teacherID, Role: model.RoleTeacher, IsActive: true},
		1:         {ID: 1, Role: model.RoleStudent, IsActive: true},
		2:         {ID: 2, Role: model.RoleStudent, IsActive: false},
		20:        {ID: 20, Role: model.RoleTeacher, IsActive: true},
	}}
	return NewClassroomService(classrooms, users), classrooms, users
}

func TestAddStudent_RequiresStudentRole(t *testing.T) {
	svc, classrooms, _ := newClassroomFixture()
	classrooms.addClassroom(1, teacherID)
	ctx := context.Background()

	require.NoError(t, svc.AddStudent(ctx, 1, 1, teacherID))

	// A teacher account cannot be enrolled as a student.
	err := svc.AddStudent(ctx, 1, 20, teacherID)
	assert.ErrorIs(t, err, ErrRoleMismatch)

	// Neither can an inactive student.
	err = svc.AddStudent(ctx, 1, 2, teacherID)
	assert.ErrorIs(t, err, ErrRoleMismatch)

	roster, err := classrooms.ResolveRoster(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, roster)
}

func TestRemoveStudent_Idempotent(t *testing.T) {
	svc, classrooms, _ := newClassroomFixture()
	classrooms.addClassroom(1, teacherID, 1)
	ctx := context.Background()

	require.NoError(t, svc.RemoveStudent(ctx, 1, 1, teacherID))
	require.NoError(t, svc.RemoveStudent(ctx, 1, 1, teacherID))

	roster, err := classrooms.ResolveRoster(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, roster)
}

func TestDeactivate_CreatorOrAdminOnly(t *testing.T) {
	svc, classrooms, _ := newClassroomFixture()
	classrooms.addClassroom(1, teacherID)
	ctx := context.Background()

	err := svc.Deactivate(ctx, 1, 20, model.RoleTeacher)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.True(t, classrooms.classrooms[1].IsActive)

	require.NoError(t, svc.Deactivate(ctx, 1, teacherID, model.RoleTeacher))
	assert.False(t, classrooms.classrooms[1].IsActive)

	// Repeating the delete is still a success.
	require.NoError(t, svc.Deactivate(ctx, 1, teacherID, model.RoleTeacher))
}

func TestAddTeacher_CreatorGate(t *testing.T) {
	svc, classrooms, _ := newClassroomFixture()
	classrooms.addClassroom(1, teacherID)
	ctx := context.Background()

	err := svc.AddTeacher(ctx, 1, 20, 20, model.RoleTeacher)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, svc.AddTeacher(ctx, 1, 20, teacherID, model.RoleTeacher))
	assert.True(t, classrooms.teachers[1][20])

	// Adding a student account as teacher is a role mismatch.
	err = svc.AddTeacher(ctx, 1, 1, teacherID, model.RoleTeacher)
	assert.ErrorIs(t, err, ErrRoleMismatch)
}
