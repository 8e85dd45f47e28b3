package core

import (
	"errors"
	"strings"
	"time"
)

// dateLayout is the wire and display layout for expense dates. The remote
// collection stores calendar dates without time-of-day.
const dateLayout = "2006-01-02"

type (
	// Date is a calendar date. Time-of-day carries no meaning; a zero Date
	// means the expense has no usable date and is excluded from any
	// time window narrower than "all".
	Date struct {
		time.Time
	}

	// Expense is a single spending record mirrored from the remote
	// collection. ID is assigned by the remote collaborator on creation
	// and never reassigned.
	Expense struct {
		ID          string `json:"id"`
		Amount      Money  `json:"amount"`
		Category    string `json:"category,omitempty"`
		Description string `json:"description"`
		Date        Date   `json:"date,omitempty"`
	}

	// ExpenseDraft carries the fields of an expense that does not have an
	// identifier yet. It is the create-request body.
	ExpenseDraft struct {
		Amount      Money  `json:"amount"`
		Category    string `json:"category"`
		Description string `json:"description"`
		Date        Date   `json:"date"`
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category")
	ErrMissingDate      = errors.New("missing date")
)

// NewDate creates a Date from year, month, day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses the wire layout, falling back to RFC 3339. An empty or
// unparseable value yields a zero Date and no error: the record is kept,
// only the narrower time windows drop it.
func ParseDate(s string) Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return Date{Time: t}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return Date{Time: t}
	}
	return Date{}
}

// IsEmpty reports whether the date is absent or was unparseable.
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// Human renders the date for reports, e.g. "January 2, 2006".
func (d Date) Human() string {
	if d.IsZero() {
		return ""
	}
	return d.Time.Format("January 2, 2006")
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time.Format(dateLayout)
}

// MarshalJSON encodes the date in the wire layout; zero dates encode as "".
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON is tolerant: null, empty and malformed values all decode to
// the zero Date so a single bad record cannot fail a whole list response.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" {
		s = ""
	}
	*d = ParseDate(s)
	return nil
}

// Validate checks the draft ahead of any remote call. A failure here blocks
// the operation entirely and is reported to the caller, never dispatched.
func (e ExpenseDraft) Validate() error {
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if e.Date.IsEmpty() {
		return ErrMissingDate
	}
	return nil
}

// Validate applies the draft rules to a full expense, e.g. before an update.
func (e Expense) Validate() error {
	return e.Draft().Validate()
}

// Draft strips the identifier, producing the create/update body shape.
func (e Expense) Draft() ExpenseDraft {
	return ExpenseDraft{
		Amount:      e.Amount,
		Category:    e.Category,
		Description: e.Description,
		Date:        e.Date,
	}
}
