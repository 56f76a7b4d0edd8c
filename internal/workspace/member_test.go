package workspace_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salarkhan2003/OLTECH-AI/internal/db/models"
	"github.com/salarkhan2003/OLTECH-AI/internal/workspace"
)

// team is a group founded by alice that bob and carol joined.
func team(t *testing.T) (*fixture, string) {
	t.Helper()

	f := newFixture(t, codes("AB12CD"))
	f.user(t, "alice", "Alice")
	f.user(t, "bob", "Bob")
	f.user(t, "carol", "Carol")

	group, err := f.svc.CreateGroup(f.ctx, "alice", "Q4 Team")
	require.NoError(t, err)

	for _, uid := range []string{"bob", "carol"} {
		_, err = f.svc.JoinGroup(f.ctx, uid, "AB12CD")
		require.NoError(t, err)
	}

	return f, group.ID
}

func TestUpdateMemberRole(t *testing.T) {
	f, groupID := team(t)

	m, err := f.svc.UpdateMemberRole(f.ctx, "alice", groupID, "bob", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, m.Role)

	// with a second admin alice may step down
	m, err = f.svc.UpdateMemberRole(f.ctx, "alice", groupID, "alice", models.RoleMember)
	require.NoError(t, err)
	assert.Equal(t, models.RoleMember, m.Role)

	_, err = f.svc.UpdateMemberRole(f.ctx, "alice", groupID, "carol", models.RoleAdmin)
	assert.ErrorIs(t, err, workspace.ErrNotAdmin)
}

func TestUpdateMemberRoleErrors(t *testing.T) {
	f, groupID := team(t)
	f.user(t, "mallory", "Mallory")

	tests := []struct {
		name   string
		actor  string
		member string
		role   models.Role
		want   error
	}{
		{name: "invalid role", actor: "alice", member: "bob", role: "owner", want: workspace.ErrInvalidRole},
		{name: "not admin", actor: "bob", member: "carol", role: models.RoleAdmin, want: workspace.ErrNotAdmin},
		{name: "outsider", actor: "mallory", member: "bob", role: models.RoleAdmin, want: workspace.ErrNotMember},
		{name: "unknown target", actor: "alice", member: "mallory", role: models.RoleAdmin, want: workspace.ErrMemberNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.UpdateMemberRole(f.ctx, tt.actor, groupID, tt.member, tt.role)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLastAdminGuard(t *testing.T) {
	f, groupID := team(t)

	_, err := f.svc.UpdateMemberRole(f.ctx, "alice", groupID, "alice", models.RoleMember)

	var lastAdmin *workspace.LastAdminError
	require.ErrorAs(t, err, &lastAdmin)
	assert.Equal(t, "demote", lastAdmin.Action)
	assert.Equal(t, "alice", lastAdmin.UID)
	assert.ErrorIs(t, err, workspace.ErrConflict)

	err = f.svc.RemoveMember(f.ctx, "alice", groupID, "alice")
	require.ErrorAs(t, err, &lastAdmin)
	assert.Equal(t, "remove", lastAdmin.Action)

	err = f.svc.LeaveGroup(f.ctx, "alice")
	require.ErrorAs(t, err, &lastAdmin)

	members, err := f.svc.ListMembers(f.ctx, "alice", groupID)
	require.NoError(t, err)
	require.Len(t, members, 3)
	assert.Equal(t, models.RoleAdmin, members[0].Role)
}

func TestSoleMemberCanNotLeave(t *testing.T) {
	f := newFixture(t, codes("AB12CD"))
	f.user(t, "alice", "Alice")

	_, err := f.svc.CreateGroup(f.ctx, "alice", "Solo")
	require.NoError(t, err)

	var lastAdmin *workspace.LastAdminError
	assert.ErrorAs(t, f.svc.LeaveGroup(f.ctx, "alice"), &lastAdmin)
}

func TestRemoveMember(t *testing.T) {
	f, groupID := team(t)

	require.NoError(t, f.svc.RemoveMember(f.ctx, "alice", groupID, "bob"))

	profile, err := f.svc.GetProfile(f.ctx, "bob")
	require.NoError(t, err)
	assert.Nil(t, profile.GroupID)

	_, err = f.svc.ListMembers(f.ctx, "bob", groupID)
	assert.ErrorIs(t, err, workspace.ErrNotMember)

	// a removed user may join again
	_, err = f.svc.JoinGroup(f.ctx, "bob", "ab12cd")
	assert.NoError(t, err)
}

func TestRemoveMemberRequiresAdmin(t *testing.T) {
	f, groupID := team(t)

	err := f.svc.RemoveMember(f.ctx, "bob", groupID, "carol")
	assert.ErrorIs(t, err, workspace.ErrNotAdmin)

	err = f.svc.RemoveMember(f.ctx, "alice", groupID, "nobody")
	assert.ErrorIs(t, err, workspace.ErrMemberNotFound)
}

func TestLeaveGroup(t *testing.T) {
	f, groupID := team(t)

	require.NoError(t, f.svc.LeaveGroup(f.ctx, "carol"))

	members, err := f.svc.ListMembers(f.ctx, "alice", groupID)
	require.NoError(t, err)
	assert.Len(t, members, 2)

	assert.ErrorIs(t, f.svc.LeaveGroup(f.ctx, "carol"), workspace.ErrNotInGroup)
}

func TestUpdateProfilePropagates(t *testing.T) {
	f, groupID := team(t)

	oldPhoto := "https://img.test/bob-1.png"
	_, err := f.svc.UpdateProfile(f.ctx, "bob", workspace.ProfilePatch{PhotoURL: &oldPhoto})
	require.NoError(t, err)

	task, err := f.svc.CreateTask(f.ctx, "alice", groupID, workspace.TaskInput{Title: "Design mock", AssignedTo: "bob"})
	require.NoError(t, err)

	doc, err := upload(f, "bob", groupID, "mock.png", "png")
	require.NoError(t, err)

	name, photo, title, department := "Robert", "https://img.test/bob-2.png", "Designer", "Product"
	profile, err := f.svc.UpdateProfile(f.ctx, "bob", workspace.ProfilePatch{
		DisplayName: &name,
		PhotoURL:    &photo,
		Title:       &title,
		Department:  &department,
	})
	require.NoError(t, err)
	assert.Equal(t, "Robert", profile.DisplayName)

	members, err := f.svc.ListMembers(f.ctx, "bob", groupID)
	require.NoError(t, err)
	assert.Equal(t, "Robert", members[1].DisplayName)
	assert.Equal(t, photo, members[1].PhotoURL)
	assert.Equal(t, "Designer", members[1].Title)
	assert.Equal(t, "Product", members[1].Department)

	// tasks and documents keep the snapshot taken when they were written
	gotTask, err := f.svc.GetTask(f.ctx, "bob", groupID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bob", gotTask.AssigneeName)
	assert.Equal(t, oldPhoto, gotTask.AssigneePhotoURL)

	gotDoc, err := f.svc.GetDocument(f.ctx, "bob", groupID, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bob", gotDoc.UploaderName)
	assert.Equal(t, oldPhoto, gotDoc.UploaderPhotoURL)
}

func TestUpdateProfileSanitizesBio(t *testing.T) {
	f := newFixture(t)
	f.user(t, "alice", "Alice")

	bio := `<b>hi</b><script>alert(1)</script>`
	profile, err := f.svc.UpdateProfile(f.ctx, "alice", workspace.ProfilePatch{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "<b>hi</b>", profile.Bio)

	empty := " "
	_, err = f.svc.UpdateProfile(f.ctx, "alice", workspace.ProfilePatch{DisplayName: &empty})
	assert.ErrorIs(t, err, workspace.ErrInvalidInput)
}

func TestEnsureProfile(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.EnsureProfile(f.ctx, authIdentity("u1", "dana@example.com", ""))
	require.NoError(t, err)

	profile, err := f.svc.GetProfile(f.ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "dana", profile.DisplayName)

	// a second sign in keeps edits
	name := "Dana S."
	_, err = f.svc.UpdateProfile(f.ctx, "u1", workspace.ProfilePatch{DisplayName: &name})
	require.NoError(t, err)

	profile, err = f.svc.EnsureProfile(f.ctx, authIdentity("u1", "dana@example.com", "Dana"))
	require.NoError(t, err)
	assert.Equal(t, "Dana S.", profile.DisplayName)
}
