package client

import (
	"strings"
	"time"

	"github.com/taskdeck/apiserver/types"
)

// PriorityAll disables the priority predicate.
const PriorityAll = types.Priority("All")

// Filter narrows tasks by search text, priority and creation day. The
// three predicates compose with AND and the input order is preserved.
//
// Search matches a case-insensitive substring of title or description;
// a blank query passes everything. Priority compares exactly, with an
// unset task priority reading as Low; PriorityAll (or the empty string)
// disables the predicate. The date predicate compares calendar days in
// local time; a zero day disables it. A task with a zero createdAt is
// compared as the zero time, so it only ever matches a zero-day filter.
func Filter(tasks []types.Task, search string, priority types.Priority, day time.Time) []types.Task {
	query := strings.ToLower(strings.TrimSpace(search))

	out := make([]types.Task, 0, len(tasks))
	for _, task := range tasks {
		if query != "" && !matchesSearch(task, query) {
			continue
		}
		if priority != "" && priority != PriorityAll && task.Priority.OrLow() != priority {
			continue
		}
		if !day.IsZero() && !sameDay(task.CreatedAt, day) {
			continue
		}
		out = append(out, task)
	}
	return out
}

// CompletedTasks projects the completed subset, preserving order. It
// is independent of the three filter predicates.
func CompletedTasks(tasks []types.Task) []types.Task {
	out := make([]types.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.Completed {
			out = append(out, task)
		}
	}
	return out
}

func matchesSearch(task types.Task, query string) bool {
	return strings.Contains(strings.ToLower(task.Title), query) ||
		strings.Contains(strings.ToLower(task.Description), query)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
