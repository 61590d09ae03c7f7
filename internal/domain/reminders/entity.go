package reminders

import "time"

// Jurisdiction types
const (
	TypeFederal   = "federal"
	TypeState     = "state"
	TypeMunicipal = "municipal"
	TypeGeneral   = "general"
)

// Priorities
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Reminder is one tax-deadline entry. DueDate is a calendar date in
// YYYY-MM-DD form, matching the backing file.
type Reminder struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     string     `json:"dueDate"`
	Type        string     `json:"type"`
	Priority    string     `json:"priority"`
	Recurring   bool       `json:"recurring"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// Due parses the reminder's due date. ok is false when the stored value is
// not a valid calendar date.
func (r Reminder) Due() (time.Time, bool) {
	t, err := time.Parse("2006-01-02", r.DueDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Patch carries a partial update; nil fields are left untouched.
type Patch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
	Type        *string `json:"type,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	Recurring   *bool   `json:"recurring,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}
