// Package analytics derives dashboard figures from workspace records.
// Everything here is a pure function of its arguments.
package analytics

import (
	"github.com/salarkhan2003/OLTECH-AI/internal/db/models"
)

// Buckets counts tasks per known status. Statuses are matched exactly,
// tasks with any other status are not counted.
func Buckets(tasks []models.Task) map[models.TaskStatus]int {
	out := make(map[models.TaskStatus]int, len(models.TaskStatuses))
	for _, s := range models.TaskStatuses {
		out[s] = 0
	}

	for i := range tasks {
		if _, ok := out[tasks[i].Status]; ok {
			out[tasks[i].Status]++
		}
	}

	return out
}

// Summary are the headline numbers of a group.
type Summary struct {
	Total      int `json:"total"`
	ToDo       int `json:"toDo"`
	InProgress int `json:"inProgress"`
	Done       int `json:"done"`
	// Completion is Done in percent of Total, rounded down. 0 without tasks.
	Completion int `json:"completion"`
}

// Summarize counts tasks and computes the completion percentage.
func Summarize(tasks []models.Task) Summary {
	b := Buckets(tasks)

	s := Summary{
		Total:      len(tasks),
		ToDo:       b[models.TaskToDo],
		InProgress: b[models.TaskInProgress],
		Done:       b[models.TaskDone],
	}

	if s.Total > 0 {
		s.Completion = s.Done * 100 / s.Total //nolint:mnd
	}

	return s
}

// OpenTasksFor returns the tasks assigned to uid that are not Done, in input order.
func OpenTasksFor(tasks []models.Task, uid string) []models.Task {
	var out []models.Task

	for i := range tasks {
		if tasks[i].AssignedTo == uid && tasks[i].Status != models.TaskDone {
			out = append(out, tasks[i])
		}
	}

	return out
}

// MemberLoad is the number of open tasks of a member.
type MemberLoad struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL"`
	OpenTasks   int    `json:"openTasks"`
}

// TasksPerMember counts open tasks for every member, in member order.
// Members without open tasks are listed with zero.
func TasksPerMember(tasks []models.Task, members []models.GroupMember) []MemberLoad {
	open := make(map[string]int)

	for i := range tasks {
		if tasks[i].AssignedTo != "" && tasks[i].Status != models.TaskDone {
			open[tasks[i].AssignedTo]++
		}
	}

	out := make([]MemberLoad, 0, len(members))
	for _, m := range members {
		out = append(out, MemberLoad{
			UID:         m.UID,
			DisplayName: m.DisplayName,
			PhotoURL:    m.PhotoURL,
			OpenTasks:   open[m.UID],
		})
	}

	return out
}
