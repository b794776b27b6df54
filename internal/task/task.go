// Package task defines the core domain types for logbook.
package task

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Validation errors.
var (
	ErrEmptyContent = errors.New("task content cannot be empty")
)

// ErrTaskNotFound is returned by operations that require an existing task.
var ErrTaskNotFound = errors.New("task not found")

// Task represents a single recorded work item. Content and Date are fixed at
// creation; only the skill set mutates afterwards.
type Task struct {
	ID        string
	UserID    string
	Content   string
	Date      time.Time // the calendar day the work was done
	CreatedAt time.Time
	Skills    []string // free-text labels, no duplicates, insertion-ordered
}

// New creates a Task for the given day with a fresh identifier and an empty
// skill set. Returns ErrEmptyContent when content is blank after trimming.
func New(content string, date time.Time) (*Task, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	return &Task{
		ID:        uuid.NewString(),
		Content:   content,
		Date:      date,
		CreatedAt: time.Now(),
	}, nil
}

// AddSkills unions the given labels into the skill set. Matching is exact and
// case-sensitive; duplicates and blank entries are dropped. Insertion order
// of first occurrence is preserved.
func (t *Task) AddSkills(skills ...string) {
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" || t.HasSkill(s) {
			continue
		}
		t.Skills = append(t.Skills, s)
	}
}

// RemoveSkill removes one label if present. Removing an absent label is a
// no-op, not an error.
func (t *Task) RemoveSkill(skill string) {
	for i, s := range t.Skills {
		if s == skill {
			t.Skills = append(t.Skills[:i], t.Skills[i+1:]...)
			return
		}
	}
}

// HasSkill reports whether the exact label is present.
func (t *Task) HasSkill(skill string) bool {
	return slices.Contains(t.Skills, skill)
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	c.Skills = slices.Clone(t.Skills)
	return &c
}

// CloneAll deep-copies a slice of tasks. Used when snapshotting a week so
// later edits to the live records cannot leak into a compiled log.
func CloneAll(tasks []*Task) []*Task {
	if tasks == nil {
		return nil
	}
	out := make([]*Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

// SortByDate orders tasks chronologically by day, then by creation time
// within the same day.
func SortByDate(tasks []*Task) {
	slices.SortStableFunc(tasks, func(a, b *Task) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
}
