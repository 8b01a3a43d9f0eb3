package client

import (
	"time"

	"github.com/taskdeck/apiserver/types"
)

// State is the client-side view model: the task list plus the three
// filter inputs. Values are treated as immutable; the With methods
// return updated copies so every transition is explicit and the
// derived views are pure functions of the state.
type State struct {
	Tasks    []types.Task
	Search   string
	Priority types.Priority // PriorityAll disables the predicate
	Date     time.Time      // zero disables the predicate
}

// NewState returns the initial state with no tasks and all filters off.
func NewState() State {
	return State{Priority: PriorityAll}
}

// WithTasks replaces the task list.
func (s State) WithTasks(tasks []types.Task) State {
	s.Tasks = tasks
	return s
}

// WithSearch replaces the search query.
func (s State) WithSearch(query string) State {
	s.Search = query
	return s
}

// WithPriority replaces the priority filter.
func (s State) WithPriority(priority types.Priority) State {
	s.Priority = priority
	return s
}

// WithDate replaces the date filter.
func (s State) WithDate(day time.Time) State {
	s.Date = day
	return s
}

// Filtered derives the visible task list from the current filters.
func (s State) Filtered() []types.Task {
	return Filter(s.Tasks, s.Search, s.Priority, s.Date)
}

// Completed derives the completed-task view, ignoring the filters.
func (s State) Completed() []types.Task {
	return CompletedTasks(s.Tasks)
}
