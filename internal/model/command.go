package model

// Command is the structured intent produced by the assistant for one user
// request. Every field except Operation and Message may be absent; absent
// fields leave the targeted task untouched.
type Command struct {
	Operation       string  `json:"operation"`
	Title           string  `json:"title"`
	TaskKey         string  `json:"task_key"`
	Category        string  `json:"category"`
	ScheduledDate   *string `json:"scheduled_date"`
	RecurrenceRule  *string `json:"recurrence_rule"`
	DurationMinutes *int    `json:"duration_minutes"`
	Priority        *int    `json:"priority"`
	Completed       *bool   `json:"completed"`
	Message         string  `json:"message"`
}

// Command operations understood by the assistant executor.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
	OpNone   = "none"
)
