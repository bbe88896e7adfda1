package domain

import (
	"fmt"
	"strings"
)

// Canonical assignment statuses. Status is free text; these are the values
// the application itself writes.
const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
)

// Assignment is a piece of coursework with a due date
type Assignment struct {
	ID          int    `json:"id" yaml:"id"`
	CourseID    int    `json:"courseId" yaml:"courseId"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	DueDate     Date   `json:"dueDate" yaml:"dueDate"`
	Priority    int    `json:"priority" yaml:"priority"` // 1 = highest
	Status      string `json:"status" yaml:"status"`
}

// IsCompleted reports whether the status is Completed, ignoring case
func (a Assignment) IsCompleted() bool {
	return strings.EqualFold(a.Status, StatusCompleted)
}

// SetStatus replaces the status in place
func (a *Assignment) SetStatus(status string) {
	a.Status = status
}

// MarkCompleted moves the assignment to Completed
func (a *Assignment) MarkCompleted() {
	a.Status = StatusCompleted
}

// CompareDeadline orders assignments by due date, then priority (1 first),
// then id. It is a total order over assignments with distinct ids.
func CompareDeadline(a, b Assignment) int {
	if c := a.DueDate.Compare(b.DueDate); c != 0 {
		return c
	}
	if c := cmpInt(a.Priority, b.Priority); c != 0 {
		return c
	}
	return cmpInt(a.ID, b.ID)
}

// String returns a short human-readable label
func (a Assignment) String() string {
	return fmt.Sprintf("%d - %s (due %s, priority %d, %s)", a.ID, a.Title, a.DueDate, a.Priority, a.Status)
}
