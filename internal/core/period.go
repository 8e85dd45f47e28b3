package core

import (
	"errors"
	"time"
)

// TimePeriod is the dashboard-wide recency selector. It is process state,
// not a per-expense attribute.
type TimePeriod string

const (
	PeriodAll    TimePeriod = "all"
	Period7Days  TimePeriod = "7"
	Period30Days TimePeriod = "30"
	Period90Days TimePeriod = "90"
	PeriodYear   TimePeriod = "year"
)

var ErrInvalidPeriod = errors.New("invalid time period")

// ParsePeriod validates a selector value from config or a request.
func ParsePeriod(s string) (TimePeriod, error) {
	p := TimePeriod(s)
	if !p.IsValid() {
		return "", ErrInvalidPeriod
	}
	return p, nil
}

// IsValid reports membership in the fixed selector set.
func (p TimePeriod) IsValid() bool {
	switch p {
	case PeriodAll, Period7Days, Period30Days, Period90Days, PeriodYear:
		return true
	default:
		return false
	}
}

// CutoffFrom returns the window start for the given instant. Expenses dated
// strictly after the cutoff are inside the window. The second return is
// false for PeriodAll, which has no cutoff.
func (p TimePeriod) CutoffFrom(now time.Time) (time.Time, bool) {
	switch p {
	case Period7Days:
		return now.AddDate(0, 0, -7), true
	case Period30Days:
		return now.AddDate(0, 0, -30), true
	case Period90Days:
		return now.AddDate(0, 0, -90), true
	case PeriodYear:
		return now.AddDate(-1, 0, 0), true
	default:
		return time.Time{}, false
	}
}

func (p TimePeriod) String() string {
	return string(p)
}
