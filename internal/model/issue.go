package model

import (
	"slices"
	"time"
)

// Issue enum allow-lists. Values outside these sets are rejected with a
// validation error that enumerates the set.
var (
	IssueTypes      = []string{"bug", "unfinished", "enhancement", "new"}
	IssuePriorities = []string{"critical", "high", "medium", "low"}
	IssueStatuses   = []string{"new", "in-progress", "resolved", "wont-fix"}
)

// Defaults applied on create when the field is omitted.
const (
	DefaultIssueType     = "bug"
	DefaultIssuePriority = "medium"
	DefaultIssueStatus   = "new"
)

// Issue is a tracked problem or request.
type Issue struct {
	ID          string    `json:"issue_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Type        string    `json:"type"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	ReporterID  string    `json:"reporter_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ValidEnumValue reports whether value is in the allow-list.
func ValidEnumValue(value string, allowed []string) bool {
	return slices.Contains(allowed, value)
}
