package journal

import (
	"fmt"
	"time"
)

// HourLabel is one of the 24 fixed slot labels ("7am" … "6am").
type HourLabel string

// HourLabels is the slot vocabulary in day order. The journal day starts
// at 7am and wraps past midnight, so "12am" through "6am" sort after
// "11pm" and fall on the next calendar date.
var HourLabels = []HourLabel{
	"7am", "8am", "9am", "10am", "11am",
	"12pm", "1pm", "2pm", "3pm", "4pm", "5pm", "6pm",
	"7pm", "8pm", "9pm", "10pm", "11pm",
	"12am", "1am", "2am", "3am", "4am", "5am", "6am",
}

var hourIndex = func() map[HourLabel]int {
	m := make(map[HourLabel]int, len(HourLabels))
	for i, h := range HourLabels {
		m[h] = i
	}
	return m
}()

// ErrInvalidHour reports an hour label outside the fixed vocabulary.
var ErrInvalidHour = fmt.Errorf("invalid hour label")

// ErrInvalidRange reports a range whose start does not precede its end.
var ErrInvalidRange = fmt.Errorf("invalid range: start must precede end")

// HourIndex returns the day-order position of a label (0 = "7am").
func HourIndex(h HourLabel) (int, error) {
	i, ok := hourIndex[h]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidHour, h)
	}
	return i, nil
}

// ValidHour reports whether h is in the vocabulary.
func ValidHour(h HourLabel) bool {
	_, ok := hourIndex[h]
	return ok
}

// ClockHour maps a label to its 24-hour clock value ("12am"→0, "1pm"→13).
func ClockHour(h HourLabel) (int, error) {
	if !ValidHour(h) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidHour, h)
	}
	n := 0
	suffix := h[len(h)-2:]
	switch {
	case h == "12am":
		return 0, nil
	case h == "12pm":
		return 12, nil
	}
	// 1-2 leading digits, "am"/"pm" suffix.
	for _, c := range h[:len(h)-2] {
		n = n*10 + int(c-'0')
	}
	if suffix == "pm" {
		n += 12
	}
	return n, nil
}

// ParseDate parses an ISO calendar date ("2006-01-02").
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid journal date %q: %w", date, err)
	}
	return t, nil
}

// HourTime resolves an hour label against a document date. Labels before
// 7am belong to the wrapped portion of the journal day and land on the
// next calendar date.
func HourTime(date string, h HourLabel) (time.Time, error) {
	day, err := ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	clock, err := ClockHour(h)
	if err != nil {
		return time.Time{}, err
	}
	if clock < 7 {
		day = day.AddDate(0, 0, 1)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), clock, 0, 0, 0, time.UTC), nil
}

// graceWindow is how long past an hour's start (or a range's end) an
// active plan may run before the sweeper marks it missed.
const graceWindow = time.Hour

// deadlineFor returns the instant after which a plan at h counts as missed.
func deadlineFor(date string, h HourLabel) (time.Time, error) {
	t, err := HourTime(date, h)
	if err != nil {
		return time.Time{}, err
	}
	return t.Add(graceWindow), nil
}
