// Package dashboard serves the read side figures of the current group.
package dashboard

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/salarkhan2003/OLTECH-AI/internal/analytics"
	"github.com/salarkhan2003/OLTECH-AI/internal/db/models"
	"github.com/salarkhan2003/OLTECH-AI/internal/web/handler"
)

const (
	// Path is the dashboard endpoint below the API router.
	Path = "/dashboard"

	recentLimit = 5
)

// Service is the dashboard handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
	now  func() time.Time
}

// Handler is the dashboard handler.
var Handler = Service{} //nolint:gochecknoglobals

// Dashboard is the landing view of a signed in member.
type Dashboard struct {
	Group           *models.Group          `json:"group"`
	Summary         analytics.Summary      `json:"summary"`
	MyOpenTasks     []models.Task          `json:"myOpenTasks"`
	RecentDocuments []models.Document      `json:"recentDocuments"`
	Members         []analytics.MemberLoad `json:"members"`
}

// Analytics are the chart series of a group.
type Analytics struct {
	Buckets map[models.TaskStatus]int `json:"buckets"`
	Trend   []analytics.TrendPoint    `json:"trend"`
	Summary analytics.Summary         `json:"summary"`
}

// Calendar lists deadline days and the tasks due on the requested day.
type Calendar struct {
	Day   string        `json:"day"`
	Days  []string      `json:"days"`
	Tasks []models.Task `json:"tasks"`
}

// Init initializes the dashboard handler.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || deps == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.deps = deps

	if s.now == nil {
		s.now = time.Now
	}

	router.Get(Path, s.Dashboard)
	router.Get("/analytics", s.Analytics)
	router.Get("/activity", s.Activity)
	router.Get("/calendar", s.Calendar)

	return nil
}

// groupData is everything the read side endpoints derive from.
type groupData struct {
	group     *models.Group
	members   []models.GroupMember
	projects  []models.Project
	tasks     []models.Task
	documents []models.Document
}

func (s *Service) load(c *fiber.Ctx) (*groupData, error) {
	ctx, uid, ws := c.UserContext(), handler.UID(c), s.deps.Workspace

	group, _, err := ws.CurrentGroup(ctx, uid)
	if err != nil {
		return nil, err
	}

	d := &groupData{group: group}

	if d.members, err = ws.ListMembers(ctx, uid, group.ID); err != nil {
		return nil, err
	}

	if d.projects, err = ws.ListProjects(ctx, uid, group.ID); err != nil {
		return nil, err
	}

	if d.tasks, err = ws.ListTasks(ctx, uid, group.ID); err != nil {
		return nil, err
	}

	if d.documents, err = ws.ListDocuments(ctx, uid, group.ID); err != nil {
		return nil, err
	}

	return d, nil
}

// Dashboard returns the landing view.
func (s *Service) Dashboard(c *fiber.Ctx) error {
	d, err := s.load(c)
	if err != nil {
		return handler.Error(c, err)
	}

	recent := d.documents
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}

	return c.JSON(Dashboard{
		Group:           d.group,
		Summary:         analytics.Summarize(d.tasks),
		MyOpenTasks:     analytics.OpenTasksFor(d.tasks, handler.UID(c)),
		RecentDocuments: recent,
		Members:         analytics.TasksPerMember(d.tasks, d.members),
	})
}

// Analytics returns the chart series.
func (s *Service) Analytics(c *fiber.Ctx) error {
	d, err := s.load(c)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(Analytics{
		Buckets: analytics.Buckets(d.tasks),
		Trend:   analytics.CompletionTrend(d.tasks, s.now()),
		Summary: analytics.Summarize(d.tasks),
	})
}

// Activity returns the activity feed.
func (s *Service) Activity(c *fiber.Ctx) error {
	d, err := s.load(c)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(analytics.ActivityFeed(d.projects, d.tasks, d.documents, d.members))
}

// Calendar returns deadlines. The day query parameter (YYYY-MM-DD) defaults to today.
func (s *Service) Calendar(c *fiber.Ctx) error {
	day := s.now()

	if q := c.Query("day"); q != "" {
		parsed, err := time.ParseInLocation(analytics.DayFormat, q, day.Location())
		if err != nil {
			return handler.Error(c, fiber.NewError(fiber.StatusBadRequest, "day must be YYYY-MM-DD"))
		}

		day = parsed
	}

	d, err := s.load(c)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(Calendar{
		Day:   day.Format(analytics.DayFormat),
		Days:  analytics.DeadlineDays(d.tasks, day.Location()),
		Tasks: analytics.DeadlinesOn(d.tasks, day),
	})
}
