package workspace_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/salarkhan2003/OLTECH-AI/internal/blob"
	"github.com/salarkhan2003/OLTECH-AI/internal/db/models"
	"github.com/salarkhan2003/OLTECH-AI/internal/workspace"
)

func ptr[T any](v T) *T { return &v }

func TestProjects(t *testing.T) {
	f, groupID := team(t)

	_, err := f.svc.CreateProject(f.ctx, "bob", groupID, workspace.ProjectInput{Name: " "})
	require.ErrorIs(t, err, workspace.ErrEmptyName)

	_, err = f.svc.CreateProject(f.ctx, "bob", groupID, workspace.ProjectInput{Name: "Launch", Status: "Late"})
	require.ErrorIs(t, err, workspace.ErrInvalidStatus)

	first, err := f.svc.CreateProject(f.ctx, "bob", groupID, workspace.ProjectInput{Name: "Launch"})
	require.NoError(t, err)
	assert.Equal(t, models.ProjectOnTrack, first.Status)

	second, err := f.svc.CreateProject(f.ctx, "alice", groupID, workspace.ProjectInput{
		Name:        "Website",
		Description: `<p>Redesign</p><img src=x onerror=alert(1)>`,
	})
	require.NoError(t, err)
	assert.NotContains(t, second.Description, "onerror")

	list, err := f.svc.ListProjects(f.ctx, "carol", groupID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)

	updated, err := f.svc.UpdateProject(f.ctx, "carol", groupID, first.ID, workspace.ProjectPatch{
		Status: ptr(models.ProjectAtRisk),
	})
	require.NoError(t, err)
	assert.Equal(t, models.ProjectAtRisk, updated.Status)
	assert.Equal(t, "Launch", updated.Name)

	_, err = f.svc.UpdateProject(f.ctx, "carol", groupID, "missing", workspace.ProjectPatch{Name: ptr("x")})
	assert.ErrorIs(t, err, workspace.ErrProjectNotFound)
}

func TestDeleteProjectDetachesTasks(t *testing.T) {
	f, groupID := team(t)

	project, err := f.svc.CreateProject(f.ctx, "alice", groupID, workspace.ProjectInput{Name: "Launch"})
	require.NoError(t, err)

	task, err := f.svc.CreateTask(f.ctx, "alice", groupID, workspace.TaskInput{Title: "Plan", ProjectID: &project.ID})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteProject(f.ctx, "bob", groupID, project.ID))

	got, err := f.svc.GetTask(f.ctx, "alice", groupID, task.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ProjectID)

	_, err = f.svc.GetProject(f.ctx, "alice", groupID, project.ID)
	assert.ErrorIs(t, err, workspace.ErrProjectNotFound)
}

func TestContentRequiresMembership(t *testing.T) {
	f, groupID := team(t)
	f.user(t, "mallory", "Mallory")

	_, err := f.svc.CreateProject(f.ctx, "mallory", groupID, workspace.ProjectInput{Name: "x"})
	assert.ErrorIs(t, err, workspace.ErrNotMember)

	_, err = f.svc.CreateTask(f.ctx, "mallory", groupID, workspace.TaskInput{Title: "x"})
	assert.ErrorIs(t, err, workspace.ErrNotMember)

	_, err = f.svc.ListDocuments(f.ctx, "mallory", groupID)
	assert.ErrorIs(t, err, workspace.ErrNotMember)
}

func TestCreateTask(t *testing.T) {
	f, groupID := team(t)
	f.user(t, "mallory", "Mallory")

	task, err := f.svc.CreateTask(f.ctx, "alice", groupID, workspace.TaskInput{Title: "Design mock", AssignedTo: "bob"})
	require.NoError(t, err)
	assert.Equal(t, models.TaskToDo, task.Status)
	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.Equal(t, "Bob", task.AssigneeName)
	assert.Nil(t, task.CompletedAt)

	tests := []struct {
		name  string
		input workspace.TaskInput
		want  error
	}{
		{name: "blank title", input: workspace.TaskInput{Title: " "}, want: workspace.ErrEmptyName},
		{name: "bad status", input: workspace.TaskInput{Title: "x", Status: "done"}, want: workspace.ErrInvalidStatus},
		{name: "bad priority", input: workspace.TaskInput{Title: "x", Priority: "Urgent"}, want: workspace.ErrInvalidPriority},
		{name: "outside assignee", input: workspace.TaskInput{Title: "x", AssignedTo: "mallory"}, want: workspace.ErrAssigneeNotMember},
		{name: "unknown project", input: workspace.TaskInput{Title: "x", ProjectID: ptr("nope")}, want: workspace.ErrProjectNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateTask(f.ctx, "alice", groupID, tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUpdateTaskCompletion(t *testing.T) {
	f, groupID := team(t)

	task, err := f.svc.CreateTask(f.ctx, "alice", groupID, workspace.TaskInput{Title: "Ship"})
	require.NoError(t, err)

	done, err := f.svc.UpdateTask(f.ctx, "bob", groupID, task.ID, workspace.TaskPatch{Status: ptr(models.TaskDone)})
	require.NoError(t, err)
	require.NotNil(t, done.CompletedAt)

	reopened, err := f.svc.UpdateTask(f.ctx, "bob", groupID, task.ID, workspace.TaskPatch{Status: ptr(models.TaskInProgress)})
	require.NoError(t, err)
	assert.Nil(t, reopened.CompletedAt)
}

func TestUpdateTaskReassign(t *testing.T) {
	f, groupID := team(t)

	task, err := f.svc.CreateTask(f.ctx, "alice", groupID, workspace.TaskInput{Title: "Ship", AssignedTo: "bob"})
	require.NoError(t, err)

	got, err := f.svc.UpdateTask(f.ctx, "alice", groupID, task.ID, workspace.TaskPatch{AssignedTo: ptr("carol")})
	require.NoError(t, err)
	assert.Equal(t, "carol", got.AssignedTo)
	assert.Equal(t, "Carol", got.AssigneeName)

	got, err = f.svc.UpdateTask(f.ctx, "alice", groupID, task.ID, workspace.TaskPatch{AssignedTo: ptr("")})
	require.NoError(t, err)
	assert.Empty(t, got.AssignedTo)
	assert.Empty(t, got.AssigneeName)

	require.NoError(t, f.svc.DeleteTask(f.ctx, "carol", groupID, task.ID))

	_, err = f.svc.GetTask(f.ctx, "alice", groupID, task.ID)
	assert.ErrorIs(t, err, workspace.ErrTaskNotFound)
}

func upload(f *fixture, uid, groupID, name, body string) (*models.Document, error) {
	return f.svc.UploadDocument(f.ctx, uid, workspace.UploadInput{
		GroupID:  groupID,
		FileName: name,
		Size:     int64(len(body)),
		Body:     strings.NewReader(body),
	}, nil)
}

func TestUploadDocument(t *testing.T) {
	f, groupID := team(t)

	var progress []int

	doc, err := f.svc.UploadDocument(f.ctx, "bob", workspace.UploadInput{
		GroupID:     groupID,
		FileName:    "specs/brief.pdf",
		Description: "Kickoff brief",
		Size:        5,
		Body:        strings.NewReader("hello"),
	}, func(p int) { progress = append(progress, p) })
	require.NoError(t, err)

	assert.Equal(t, "specs/brief.pdf", doc.Name)
	assert.Equal(t, "application/pdf", doc.FileType)
	assert.EqualValues(t, 5, doc.Size)
	assert.Equal(t, "Bob", doc.UploaderName)
	assert.Equal(t, blob.DocumentKey(groupID, doc.ID, "brief.pdf"), doc.Path)
	assert.NotEmpty(t, doc.URL)

	require.NotEmpty(t, progress)
	assert.Equal(t, 0, progress[0])
	assert.Equal(t, 100, progress[len(progress)-1])
	assert.IsNonDecreasing(t, progress)

	data, _, err := f.blobs.Get(doc.Path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	docs, err := f.svc.ListDocuments(f.ctx, "carol", groupID)
	require.NoError(t, err)
	require.Len(t, docs, 1)
}

func TestUploadDocumentFileType(t *testing.T) {
	f, groupID := team(t)

	doc, err := upload(f, "alice", groupID, "notes", "x")
	require.NoError(t, err)
	assert.Equal(t, "unknown", doc.FileType)
}

func TestUploadDocumentTooLarge(t *testing.T) {
	f := newFixture(t, codes("AB12CD"), workspace.WithMaxUploadSize(4))
	f.user(t, "alice", "Alice")

	group, err := f.svc.CreateGroup(f.ctx, "alice", "Q4 Team")
	require.NoError(t, err)

	_, err = upload(f, "alice", group.ID, "big.txt", "hello")
	assert.ErrorIs(t, err, workspace.ErrFileTooLarge)
	assert.Zero(t, f.blobs.Len())
}

func TestUploadDocumentCompensates(t *testing.T) {
	f, groupID := team(t)

	boom := errors.New("boom")
	require.NoError(t, f.db.Callback().Create().Before("gorm:create").Register("test:fail_documents", func(tx *gorm.DB) {
		if tx.Statement.Table == "documents" {
			_ = tx.AddError(boom)
		}
	}))

	_, err := upload(f, "bob", groupID, "brief.pdf", "hello")
	require.ErrorIs(t, err, boom)

	assert.Zero(t, f.blobs.Len())

	var n int64
	require.NoError(t, f.db.Model(&models.Document{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestDeleteDocumentPermissions(t *testing.T) {
	f, groupID := team(t)

	doc, err := upload(f, "bob", groupID, "brief.pdf", "hello")
	require.NoError(t, err)

	err = f.svc.DeleteDocument(f.ctx, "carol", groupID, doc.ID)
	assert.ErrorIs(t, err, workspace.ErrNotUploader)

	require.NoError(t, f.svc.DeleteDocument(f.ctx, "alice", groupID, doc.ID))
	assert.Zero(t, f.blobs.Len())

	err = f.svc.DeleteDocument(f.ctx, "alice", groupID, doc.ID)
	assert.ErrorIs(t, err, workspace.ErrDocumentNotFound)
}

// flakyStore fails deletes while failDelete is set.
type flakyStore struct {
	*blob.Memory
	failDelete bool
}

var errBlobDown = errors.New("blob store down")

func (s *flakyStore) Delete(ctx context.Context, key string) error {
	if s.failDelete {
		return errBlobDown
	}

	return s.Memory.Delete(ctx, key)
}

func TestDeleteDocumentLeavesPending(t *testing.T) {
	store := &flakyStore{Memory: blob.NewMemory("")}
	f := newFixtureWithStore(t, store, codes("AB12CD"))
	f.user(t, "alice", "Alice")

	group, err := f.svc.CreateGroup(f.ctx, "alice", "Q4 Team")
	require.NoError(t, err)

	doc, err := upload(f, "alice", group.ID, "brief.pdf", "hello")
	require.NoError(t, err)

	store.failDelete = true
	err = f.svc.DeleteDocument(f.ctx, "alice", group.ID, doc.ID)
	require.ErrorIs(t, err, errBlobDown)

	docs, err := f.svc.ListDocuments(f.ctx, "alice", group.ID)
	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.Equal(t, 1, store.Len())

	n, err := f.svc.PurgePendingDocuments(f.ctx)
	require.ErrorIs(t, err, errBlobDown)
	assert.Zero(t, n)

	store.failDelete = false
	n, err = f.svc.PurgePendingDocuments(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Zero(t, store.Len())

	var count int64
	require.NoError(t, f.db.Model(&models.Document{}).Count(&count).Error)
	assert.Zero(t, count)
}

// presignStore hands out a new signed URL on every call, like S3 presigning.
type presignStore struct {
	*blob.Memory
	signed  atomic.Int64
	failURL atomic.Bool
}

func (s *presignStore) URL(_ context.Context, key string) (string, error) {
	if s.failURL.Load() {
		return "", errBlobDown
	}

	return fmt.Sprintf("https://blobs.test/%s?sig=%d", key, s.signed.Add(1)), nil
}

func TestDocumentURLsAreSignedOnRead(t *testing.T) {
	store := &presignStore{Memory: blob.NewMemory("")}
	f := newFixtureWithStore(t, store, codes("AB12CD"))
	f.user(t, "alice", "Alice")

	group, err := f.svc.CreateGroup(f.ctx, "alice", "Q4 Team")
	require.NoError(t, err)

	doc, err := upload(f, "alice", group.ID, "brief.pdf", "hello")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(doc.URL, "?sig=1"), doc.URL)

	got, err := f.svc.GetDocument(f.ctx, "alice", group.ID, doc.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(got.URL, "?sig=2"), got.URL)

	docs, err := f.svc.ListDocuments(f.ctx, "alice", group.ID)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.True(t, strings.HasSuffix(docs[0].URL, "?sig=3"), docs[0].URL)

	// the stored URL is served when signing fails
	store.failURL.Store(true)

	got, err = f.svc.GetDocument(f.ctx, "alice", group.ID, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.URL, got.URL)
}

func TestWatchTasks(t *testing.T) {
	f, groupID := team(t)

	ctx, cancel := context.WithCancel(f.ctx)
	defer cancel()

	stream, err := f.svc.WatchTasks(ctx, "bob", groupID)
	require.NoError(t, err)

	first := receive(t, stream)
	require.NoError(t, first.Err)
	assert.Empty(t, first.Items)

	_, err = f.svc.CreateTask(f.ctx, "alice", groupID, workspace.TaskInput{Title: "Design mock"})
	require.NoError(t, err)

	next := receive(t, stream)
	require.NoError(t, next.Err)
	require.Len(t, next.Items, 1)
	assert.Equal(t, "Design mock", next.Items[0].Title)

	cancel()

	for range stream { //nolint:revive
	}
}

func TestWatchRequiresMembership(t *testing.T) {
	f, groupID := team(t)
	f.user(t, "mallory", "Mallory")

	_, err := f.svc.WatchMembers(f.ctx, "mallory", groupID)
	assert.ErrorIs(t, err, workspace.ErrNotMember)
}

func receive[T any](t *testing.T, c <-chan T) T {
	t.Helper()

	select {
	case v, ok := <-c:
		require.True(t, ok, "stream closed")
		return v
	case <-time.After(5 * time.Second):
		require.FailNow(t, "no snapshot received")
	}

	var zero T

	return zero
}

func TestWorkspaceScenario(t *testing.T) {
	f := newFixture(t, codes("AB12CD"))
	f.user(t, "alice", "Alice")
	f.user(t, "bob", "Bob")

	group, err := f.svc.CreateGroup(f.ctx, "alice", "Q4 Team")
	require.NoError(t, err)
	require.Equal(t, "AB12CD", group.JoinCode)

	_, err = f.svc.JoinGroup(f.ctx, "bob", "ab12cd")
	require.NoError(t, err)

	task, err := f.svc.CreateTask(f.ctx, "alice", group.ID, workspace.TaskInput{
		Title:      "Design mock",
		AssignedTo: "bob",
		Priority:   models.PriorityHigh,
	})
	require.NoError(t, err)

	_, err = f.svc.UpdateTask(f.ctx, "bob", group.ID, task.ID, workspace.TaskPatch{Status: ptr(models.TaskDone)})
	require.NoError(t, err)

	var lastAdmin *workspace.LastAdminError
	require.ErrorAs(t, f.svc.LeaveGroup(f.ctx, "alice"), &lastAdmin)

	require.NoError(t, f.svc.LeaveGroup(f.ctx, "bob"))

	members, err := f.svc.ListMembers(f.ctx, "alice", group.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "alice", members[0].UID)

	tasks, err := f.svc.ListTasks(f.ctx, "alice", group.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, models.TaskDone, tasks[0].Status)
	assert.Equal(t, "Bob", tasks[0].AssigneeName)
}
