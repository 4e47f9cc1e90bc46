package types

import (
	"fmt"
	"time"
)

// DateLayout is the layout of the Date column in every table we read or write.
const DateLayout = "2006-01-02"

// Category identifies which sensor family a source file belongs to.
type Category string

const (
	CategoryPR  Category = "PR"
	CategoryGHI Category = "GHI"
)

// Column returns the name of the value column carried by files of this
// category.
func (c Category) Column() string {
	return string(c)
}

// Dir returns the sub-directory of the data directory holding this category.
func (c Category) Dir() string {
	switch c {
	case CategoryPR:
		return "pr"
	case CategoryGHI:
		return "ghi"
	default:
		panic(fmt.Errorf("unknown category: %s", string(c)))
	}
}

// Reading is a single (date, measurement) pair from one source category.
type Reading struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Record is one merged row carrying both measurements for a date.
type Record struct {
	Date time.Time `json:"date"`

	// PR is the performance ratio expressed as a percentage.
	PR float64 `json:"pr"`

	// GHI is the daily global horizontal irradiation in kWh/m².
	GHI float64 `json:"ghi"`
}

// Day normalizes t to midnight UTC of its calendar day so dates from
// different files compare equal.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a Date cell. Besides the canonical layout it accepts the
// timestamp forms exporters commonly produce and drops the time of day.
func ParseDate(s string) (time.Time, error) {
	layouts := []string{
		DateLayout,
		"2006-01-02 15:04:05",
		time.RFC3339,
		"2006/01/02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date format: %q", s)
}
