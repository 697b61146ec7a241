package domain

import (
	"sort"
	"time"
)

// ReviewComment is a note anchored to a path/position within a pull request
// diff. A reply carries the parent comment's ID in InReplyTo and inherits the
// parent's anchor; the service assigns ID, CreatedAt and UpdatedAt.
type ReviewComment struct {
	ID         int64
	PullNumber int
	Body       string
	Path       string
	Position   int
	CommitSHA  string
	Author     string
	InReplyTo  int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Edited reports whether the comment has been modified since creation.
// Immediately after creation UpdatedAt equals CreatedAt exactly; every edit
// strictly advances UpdatedAt.
func (c ReviewComment) Edited() bool {
	return c.UpdatedAt.After(c.CreatedAt)
}

// IsReply reports whether the comment is a reply to another comment.
func (c ReviewComment) IsReply() bool {
	return c.InReplyTo != 0
}

// SortDirection selects the ordering of repository-wide comment listings.
type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// Valid reports whether the direction is one of the two supported values.
func (d SortDirection) Valid() bool {
	return d == Ascending || d == Descending
}

// SortComments orders comments by creation time in the given direction.
// Comment IDs are server-assigned and monotonically increasing, so ID is the
// tie-breaker when timestamps collide at the service's clock resolution.
// This makes Descending the exact reverse of Ascending.
func SortComments(comments []ReviewComment, direction SortDirection) {
	less := func(i, j int) bool {
		a, b := comments[i], comments[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	}
	if direction == Descending {
		sort.SliceStable(comments, func(i, j int) bool { return less(j, i) })
		return
	}
	sort.SliceStable(comments, less)
}
