package workspace

import (
	"context"

	"github.com/salarkhan2003/OLTECH-AI/internal/db/models"
	"github.com/salarkhan2003/OLTECH-AI/internal/realtime"
)

// watch checks membership once and then streams the collection.
func watch[T any](
	ctx context.Context,
	s *Service,
	uid, groupID, collection string,
	list func(ctx context.Context, uid, groupID string) ([]T, error),
) (<-chan realtime.Snapshot[T], error) {
	if _, err := s.requireMember(ctx, groupID, uid); err != nil {
		return nil, err
	}

	load := func(ctx context.Context) ([]T, error) {
		return list(ctx, uid, groupID)
	}

	return realtime.Stream(ctx, s.hub, realtime.Topic(groupID, collection), load), nil
}

// WatchMembers streams the member list of groupID.
func (s *Service) WatchMembers(ctx context.Context, uid, groupID string) (<-chan realtime.Snapshot[models.GroupMember], error) {
	return watch(ctx, s, uid, groupID, realtime.Members, s.ListMembers)
}

// WatchProjects streams the projects of groupID.
func (s *Service) WatchProjects(ctx context.Context, uid, groupID string) (<-chan realtime.Snapshot[models.Project], error) {
	return watch(ctx, s, uid, groupID, realtime.Projects, s.ListProjects)
}

// WatchTasks streams the tasks of groupID.
func (s *Service) WatchTasks(ctx context.Context, uid, groupID string) (<-chan realtime.Snapshot[models.Task], error) {
	return watch(ctx, s, uid, groupID, realtime.Tasks, s.ListTasks)
}

// WatchDocuments streams the documents of groupID.
func (s *Service) WatchDocuments(ctx context.Context, uid, groupID string) (<-chan realtime.Snapshot[models.Document], error) {
	return watch(ctx, s, uid, groupID, realtime.Documents, s.ListDocuments)
}
