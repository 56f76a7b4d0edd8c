package analytics

import (
	"sort"
	"time"

	"github.com/salarkhan2003/OLTECH-AI/internal/db/models"
)

// DayFormat is the layout of calendar days.
const DayFormat = "2006-01-02"

// DeadlineDays returns the distinct days in loc that have a task deadline, ascending.
func DeadlineDays(tasks []models.Task, loc *time.Location) []string {
	seen := make(map[string]struct{})

	for i := range tasks {
		if tasks[i].Deadline == nil {
			continue
		}

		seen[tasks[i].Deadline.In(loc).Format(DayFormat)] = struct{}{}
	}

	days := make([]string, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}

	sort.Strings(days)

	return days
}

// DeadlinesOn returns the tasks due on the calendar day of day, in day's
// location, ordered by deadline.
func DeadlinesOn(tasks []models.Task, day time.Time) []models.Task {
	start := startOfDay(day)
	end := start.AddDate(0, 0, 1)

	var out []models.Task

	for i := range tasks {
		dl := tasks[i].Deadline
		if dl == nil || dl.Before(start) || !dl.Before(end) {
			continue
		}

		out = append(out, tasks[i])
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Deadline.Before(*out[j].Deadline)
	})

	return out
}
