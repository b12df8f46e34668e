package model

import "strings"

// Task categories with special numbering behavior. Any other short code is a
// valid user-defined category and numbers sequentially.
const (
	CategoryTask    = "T"
	CategoryDaily   = "D"
	CategoryMeeting = "M"
)

// TemplateKeyPrefix marks task keys and sequence scopes that belong to
// recurrence templates rather than actionable tasks.
const TemplateKeyPrefix = "R-"

// Task represents a single item in the planner. Templates (IsTemplate=true)
// are recurrence definitions and never appear directly in a day view; the
// instances they generate carry ParentTaskID back to them.
type Task struct {
	ID              string  `gorm:"primaryKey" json:"id"`
	TaskKey         string  `gorm:"uniqueIndex" json:"task_key"`
	Category        string  `gorm:"index" json:"category"`
	TaskNumber      int     `json:"task_number"`
	Title           string  `json:"title"`
	Completed       bool    `gorm:"default:false" json:"completed"`
	ScheduledDate   *string `json:"scheduled_date"`
	RecurrenceRule  *string `json:"recurrence_rule"`
	IsTemplate      bool    `gorm:"default:false" json:"is_template"`
	ParentTaskID    *string `gorm:"index" json:"parent_task_id"`
	DurationMinutes *int    `json:"duration_minutes"`
	Priority        *int    `json:"priority"`
	CreatedAt       string  `json:"created_at"`

	// Projected marks transient occurrences synthesized for display only.
	// Never persisted.
	Projected bool `gorm:"-" json:"projected"`
}

// CategorySequence holds the next sequential task number for a category, or
// for the "R-"-prefixed template scope of a category. Rows are created lazily
// on first allocation and never reset.
type CategorySequence struct {
	Category   string `gorm:"primaryKey"`
	NextNumber int
}

// TaskPatch is a partial update. Nil means "leave unchanged"; a pointer to
// the zero value is an explicit write. An empty RecurrenceRule clears the
// rule, matching the assistant's remove-recurrence convention.
type TaskPatch struct {
	Title           *string
	Completed       *bool
	ScheduledDate   *string
	RecurrenceRule  *string
	Category        *string
	DurationMinutes *int
	Priority        *int
}

// IsZero reports whether the patch carries no fields at all.
func (p TaskPatch) IsZero() bool {
	return p.Title == nil && p.Completed == nil && p.ScheduledDate == nil &&
		p.RecurrenceRule == nil && p.Category == nil &&
		p.DurationMinutes == nil && p.Priority == nil
}

// DatePortion returns the calendar-date part of a scheduled date or
// timestamp, dropping any time-of-day suffix ("2025-01-20T09:00" becomes
// "2025-01-20").
func DatePortion(s string) string {
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		return s[:i]
	}
	return s
}

// TimeSuffix returns the time-of-day part including the separator, or ""
// when the value is a pure date.
func TimeSuffix(s string) string {
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		return s[i:]
	}
	return ""
}
