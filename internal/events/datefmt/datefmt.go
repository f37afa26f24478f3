// Package datefmt maps between the calendar-picker value an admin
// edits and the display fields stored on an event record: the
// long-form date string, the month/day badge tokens, and the status
// classification relative to "today".
package datefmt

import (
	"strings"
	"time"

	"club-site/internal/models"
)

const (
	// LongDateLayout is the canonical stored display date,
	// e.g. "Wednesday, November 20, 2024".
	LongDateLayout = "Monday, January 2, 2006"

	// PickerLayout is the calendar input value, e.g. "2024-11-20".
	PickerLayout = "2006-01-02"

	// DisplayTimeLayout is the stored 12-hour time, e.g. "2:00 PM".
	DisplayTimeLayout = "3:04 PM"

	// InputTimeLayout is the editable 24-hour time, e.g. "14:00".
	InputTimeLayout = "15:04"
)

// Fields holds everything derived from one chosen calendar date.
type Fields struct {
	Date   string
	Month  string
	Day    string
	Status models.EventStatus
}

// Transcode derives the stored display fields from a chosen calendar
// date, classifying status against the current day.
func Transcode(picked time.Time) Fields {
	return TranscodeAt(picked, time.Now())
}

// TranscodeAt is Transcode with an explicit "today" reference.
func TranscodeAt(picked, today time.Time) Fields {
	return Fields{
		Date:   picked.Format(LongDateLayout),
		Month:  strings.ToUpper(picked.Format("Jan")),
		Day:    picked.Format("02"),
		Status: StatusAt(picked, today),
	}
}

// StatusFor classifies an event date against the current day.
func StatusFor(picked time.Time) models.EventStatus {
	return StatusAt(picked, time.Now())
}

// StatusAt compares start-of-day to start-of-day: earlier is past,
// later is upcoming, the same day is ongoing.
func StatusAt(picked, today time.Time) models.EventStatus {
	d := startOfDay(picked)
	t := startOfDay(today)
	switch {
	case d.Before(t):
		return models.StatusPast
	case d.After(t):
		return models.StatusUpcoming
	default:
		return models.StatusOngoing
	}
}

// ParseLongDate attempts the exact inverse of the long-form format.
// The second return is false when the stored string does not parse;
// callers leave the calendar input blank in that case.
func ParseLongDate(stored string) (time.Time, bool) {
	t, err := time.Parse(LongDateLayout, stored)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// PickerValue converts a stored long-form date back into the calendar
// input value, or "" when the stored string does not parse.
func PickerValue(stored string) string {
	t, ok := ParseLongDate(stored)
	if !ok {
		return ""
	}
	return t.Format(PickerLayout)
}

// ParsePicker parses a calendar input value.
func ParsePicker(value string) (time.Time, bool) {
	t, err := time.Parse(PickerLayout, value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DisplayToInputTime converts a stored "2:00 PM" into the editable
// "14:00" form, or "" when the stored value does not parse.
func DisplayToInputTime(stored string) string {
	if stored == "" {
		return ""
	}
	t, err := time.Parse(DisplayTimeLayout, stored)
	if err != nil {
		return ""
	}
	return t.Format(InputTimeLayout)
}

// InputToDisplayTime converts an editable "14:00" into the stored
// "2:00 PM" form, or "" when the input does not parse.
func InputToDisplayTime(input string) string {
	if input == "" {
		return ""
	}
	t, err := time.Parse(InputTimeLayout, input)
	if err != nil {
		return ""
	}
	return t.Format(DisplayTimeLayout)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
