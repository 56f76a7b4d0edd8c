package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/salarkhan2003/OLTECH-AI/internal/db/models"
)

// Kind tags an activity item.
type Kind string

const (
	KindProject  Kind = "project"
	KindTask     Kind = "task"
	KindDocument Kind = "document"
)

// UnknownUser is shown when the actor of an activity can not be resolved.
const UnknownUser = "Unknown User"

// Activity is one line of the activity feed.
type Activity struct {
	Kind      Kind      `json:"kind"`
	ID        string    `json:"id"`
	ActorUID  string    `json:"actorUid"`
	ActorName string    `json:"actorName"`
	PhotoURL  string    `json:"photoURL"`
	Message   string    `json:"message"`
	At        time.Time `json:"at"`
}

type actors map[string]models.GroupMember

func (a actors) resolve(uid, fallbackName, fallbackPhoto string) (string, string) {
	if m, ok := a[uid]; ok {
		return m.DisplayName, m.PhotoURL
	}

	if fallbackName != "" {
		return fallbackName, fallbackPhoto
	}

	return UnknownUser, ""
}

// ActivityFeed merges projects, tasks and documents into one feed, newest first.
// Actors are looked up among members. Documents of former members fall back to
// the uploader name stored with the document.
func ActivityFeed(
	projects []models.Project,
	tasks []models.Task,
	documents []models.Document,
	members []models.GroupMember,
) []Activity {
	byUID := make(actors, len(members))
	for _, m := range members {
		byUID[m.UID] = m
	}

	feed := make([]Activity, 0, len(projects)+len(tasks)+len(documents))

	for _, p := range projects {
		name, photo := byUID.resolve(p.CreatedBy, "", "")
		feed = append(feed, Activity{
			Kind: KindProject, ID: p.ID, ActorUID: p.CreatedBy, ActorName: name, PhotoURL: photo,
			Message: fmt.Sprintf(`created a new project: "%s"`, p.Name),
			At:      p.CreatedAt,
		})
	}

	for _, t := range tasks {
		name, photo := byUID.resolve(t.CreatedBy, "", "")
		feed = append(feed, Activity{
			Kind: KindTask, ID: t.ID, ActorUID: t.CreatedBy, ActorName: name, PhotoURL: photo,
			Message: fmt.Sprintf(`created a new task: "%s"`, t.Title),
			At:      t.CreatedAt,
		})
	}

	for _, d := range documents {
		name, photo := byUID.resolve(d.UploadedBy, d.UploaderName, d.UploaderPhotoURL)
		feed = append(feed, Activity{
			Kind: KindDocument, ID: d.ID, ActorUID: d.UploadedBy, ActorName: name, PhotoURL: photo,
			Message: fmt.Sprintf(`uploaded a new document: "%s"`, d.Name),
			At:      d.UploadedAt,
		})
	}

	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].At.After(feed[j].At)
	})

	return feed
}
