package planning

import (
	"strings"
)

// Filter narrows down which tasks a working hour period accepts
type Filter struct {
	ListIDs            []string `json:"listIds,omitempty"`
	SearchText         string   `json:"searchText,omitempty"`
	StarredOnly        bool     `json:"starredOnly,omitempty"`
	HideContainerTasks bool     `json:"hideContainerTasks,omitempty"`
	HasDueDate         bool     `json:"hasDueDate,omitempty"`
}

// Matches reports whether a task passes the filter. A nil filter lets
// every task through.
func (f *Filter) Matches(task *Task) bool {
	if f == nil {
		return true
	}

	if len(f.ListIDs) > 0 {
		found := false
		for _, listID := range f.ListIDs {
			if listID == task.ListID {
				found = true
				break
			}
		}

		if !found {
			return false
		}
	}

	if f.StarredOnly && !task.Favored {
		return false
	}

	if f.HideContainerTasks && task.HasSubtasks {
		return false
	}

	if f.HasDueDate && !task.HasDueDate() {
		return false
	}

	return f.matchesSearch(task)
}

// matchesSearch splits the search text on whitespace and requires every term
// as a case-insensitive substring of title, notes or list title. A leading
// "-" negates a term.
func (f *Filter) matchesSearch(task *Task) bool {
	terms := strings.Fields(f.SearchText)
	if len(terms) == 0 {
		return true
	}

	haystack := strings.ToLower(task.Title + " " + task.Notes + " " + task.ListTitle)

	for _, term := range terms {
		negated := strings.HasPrefix(term, "-")
		term = strings.ToLower(strings.TrimPrefix(term, "-"))
		if term == "" {
			continue
		}

		if strings.Contains(haystack, term) == negated {
			return false
		}
	}

	return true
}
