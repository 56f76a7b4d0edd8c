package analytics

import (
	"time"

	"github.com/salarkhan2003/OLTECH-AI/internal/db/models"
)

const (
	// TrendDays is the length of the completion trend.
	TrendDays = 30

	// DayLabel formats trend keys, e.g. "Jan 2".
	DayLabel = "Jan 2"
)

// TrendPoint is the number of completed tasks attributed to one day.
type TrendPoint struct {
	Day       string `json:"day"`
	Completed int    `json:"completed"`
}

// CompletionTrend returns TrendDays points ending today in now's location,
// oldest first. A Done task counts on the day it was created, not the day it
// was completed, so dashboards keep their historic shape.
func CompletionTrend(tasks []models.Task, now time.Time) []TrendPoint {
	loc := now.Location()
	today := startOfDay(now)

	points := make([]TrendPoint, TrendDays)
	index := make(map[string]int, TrendDays)

	for i := range TrendDays {
		day := today.AddDate(0, 0, i-(TrendDays-1))
		label := day.Format(DayLabel)
		points[i] = TrendPoint{Day: label}
		index[label] = i
	}

	first := today.AddDate(0, 0, -(TrendDays - 1))
	end := today.AddDate(0, 0, 1)

	for i := range tasks {
		if tasks[i].Status != models.TaskDone {
			continue
		}

		created := tasks[i].CreatedAt.In(loc)
		if created.Before(first) || !created.Before(end) {
			continue
		}

		points[index[created.Format(DayLabel)]].Completed++
	}

	return points
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()

	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
