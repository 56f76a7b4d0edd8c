package workspace_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/salarkhan2003/OLTECH-AI/internal/db/models"
	"github.com/salarkhan2003/OLTECH-AI/internal/workspace"
)

func TestCreateGroup(t *testing.T) {
	f := newFixture(t, codes("AB12CD"))
	f.user(t, "alice", "Alice")

	group, err := f.svc.CreateGroup(f.ctx, "alice", "  Q4 Team ")
	require.NoError(t, err)

	assert.Equal(t, "Q4 Team", group.Name)
	assert.Equal(t, "AB12CD", group.JoinCode)
	assert.Equal(t, "alice", group.CreatedBy)

	profile, err := f.svc.GetProfile(f.ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, profile.GroupID)
	assert.Equal(t, group.ID, *profile.GroupID)

	members, err := f.svc.ListMembers(f.ctx, "alice", group.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, models.RoleAdmin, members[0].Role)
	assert.Equal(t, "Alice", members[0].DisplayName)
}

func TestCreateGroupInvalidName(t *testing.T) {
	f := newFixture(t)
	f.user(t, "alice", "Alice")

	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "blank", input: "   "},
		{name: "too long", input: string(make([]rune, 101))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateGroup(f.ctx, "alice", tt.input)
			assert.ErrorIs(t, err, workspace.ErrInvalidGroupName)
			assert.ErrorIs(t, err, workspace.ErrInvalidInput)
		})
	}
}

func TestCreateGroupAlreadyInGroup(t *testing.T) {
	f := newFixture(t, codes("AAAAAA", "BBBBBB"))
	f.user(t, "alice", "Alice")

	_, err := f.svc.CreateGroup(f.ctx, "alice", "First")
	require.NoError(t, err)

	_, err = f.svc.CreateGroup(f.ctx, "alice", "Second")
	assert.ErrorIs(t, err, workspace.ErrAlreadyInGroup)

	var n int64
	require.NoError(t, f.db.Model(&models.Group{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestCreateGroupSkipsTakenCodes(t *testing.T) {
	f := newFixture(t, codes("AB12CD", "AB12CD", "ZZ99ZZ"))
	f.user(t, "alice", "Alice")
	f.user(t, "bob", "Bob")

	_, err := f.svc.CreateGroup(f.ctx, "alice", "One")
	require.NoError(t, err)

	group, err := f.svc.CreateGroup(f.ctx, "bob", "Two")
	require.NoError(t, err)
	assert.Equal(t, "ZZ99ZZ", group.JoinCode)
}

func TestCreateGroupCodesExhausted(t *testing.T) {
	f := newFixture(t, codes("AB12CD", "AB12CD", "AB12CD"), workspace.WithJoinCodeAttempts(2))
	f.user(t, "alice", "Alice")
	f.user(t, "bob", "Bob")

	_, err := f.svc.CreateGroup(f.ctx, "alice", "One")
	require.NoError(t, err)

	_, err = f.svc.CreateGroup(f.ctx, "bob", "Two")
	assert.ErrorIs(t, err, workspace.ErrJoinCodeExhausted)
}

func TestCreateGroupIsAtomic(t *testing.T) {
	f := newFixture(t, codes("AB12CD"))
	f.user(t, "alice", "Alice")

	boom := errors.New("boom")
	require.NoError(t, f.db.Callback().Create().Before("gorm:create").Register("test:fail_members", func(tx *gorm.DB) {
		if tx.Statement.Table == "group_members" {
			_ = tx.AddError(boom)
		}
	}))

	_, err := f.svc.CreateGroup(f.ctx, "alice", "Q4 Team")
	require.ErrorIs(t, err, boom)

	var groups int64
	require.NoError(t, f.db.Model(&models.Group{}).Count(&groups).Error)
	assert.Zero(t, groups)

	profile, err := f.svc.GetProfile(f.ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, profile.GroupID)
}

func TestJoinGroup(t *testing.T) {
	f := newFixture(t, codes("AB12CD"))
	f.user(t, "alice", "Alice")
	f.user(t, "bob", "Bob")

	group, err := f.svc.CreateGroup(f.ctx, "alice", "Q4 Team")
	require.NoError(t, err)

	joined, err := f.svc.JoinGroup(f.ctx, "bob", " ab12cd ")
	require.NoError(t, err)
	assert.Equal(t, group.ID, joined.ID)

	members, err := f.svc.ListMembers(f.ctx, "bob", group.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "bob", members[1].UID)
	assert.Equal(t, models.RoleMember, members[1].Role)

	_, err = f.svc.JoinGroup(f.ctx, "bob", "AB12CD")
	assert.ErrorIs(t, err, workspace.ErrAlreadyInGroup)
}

func TestJoinGroupBadCodes(t *testing.T) {
	f := newFixture(t, codes("AB12CD"))
	f.user(t, "alice", "Alice")
	f.user(t, "bob", "Bob")

	_, err := f.svc.CreateGroup(f.ctx, "alice", "Q4 Team")
	require.NoError(t, err)

	tests := []struct {
		name  string
		input string
		want  error
	}{
		{name: "empty", input: "", want: workspace.ErrInvalidJoinCode},
		{name: "short", input: "AB12C", want: workspace.ErrInvalidJoinCode},
		{name: "symbols", input: "AB-2CD", want: workspace.ErrInvalidJoinCode},
		{name: "unknown", input: "ZZZZZZ", want: workspace.ErrJoinCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.JoinGroup(f.ctx, "bob", tt.input)
			require.ErrorIs(t, err, tt.want)

			profile, err := f.svc.GetProfile(f.ctx, "bob")
			require.NoError(t, err)
			assert.Nil(t, profile.GroupID)

			var n int64
			require.NoError(t, f.db.Model(&models.GroupMember{}).Count(&n).Error)
			assert.EqualValues(t, 1, n)
		})
	}

	assert.EqualError(t, workspace.ErrJoinCodeNotFound, "invalid join code")
}

func TestLookupJoinCode(t *testing.T) {
	f := newFixture(t, codes("AB12CD"))
	f.user(t, "alice", "Alice")

	group, err := f.svc.CreateGroup(f.ctx, "alice", "Q4 Team")
	require.NoError(t, err)

	found, err := f.svc.LookupJoinCode(f.ctx, "ab12cd")
	require.NoError(t, err)
	assert.Equal(t, group.ID, found.ID)

	_, err = f.svc.LookupJoinCode(f.ctx, "nope")
	assert.ErrorIs(t, err, workspace.ErrInvalidJoinCode)
}

func TestCurrentGroup(t *testing.T) {
	f := newFixture(t, codes("AB12CD"))
	f.user(t, "alice", "Alice")

	_, _, err := f.svc.CurrentGroup(f.ctx, "alice")
	assert.ErrorIs(t, err, workspace.ErrNotInGroup)

	group, err := f.svc.CreateGroup(f.ctx, "alice", "Q4 Team")
	require.NoError(t, err)

	got, member, err := f.svc.CurrentGroup(f.ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, group.ID, got.ID)
	assert.Equal(t, models.RoleAdmin, member.Role)

	_, _, err = f.svc.CurrentGroup(f.ctx, "nobody")
	assert.ErrorIs(t, err, workspace.ErrProfileNotFound)
}

func TestGetGroupRequiresMembership(t *testing.T) {
	f := newFixture(t, codes("AB12CD"))
	f.user(t, "alice", "Alice")
	f.user(t, "mallory", "Mallory")

	group, err := f.svc.CreateGroup(f.ctx, "alice", "Q4 Team")
	require.NoError(t, err)

	_, err = f.svc.GetGroup(f.ctx, "mallory", group.ID)
	assert.ErrorIs(t, err, workspace.ErrNotMember)
	assert.ErrorIs(t, err, workspace.ErrForbidden)
}
