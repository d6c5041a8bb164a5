// Package habit implements streak tracking over the habits sub-document.
//
// A streak counts consecutive calendar days on which a habit was marked
// done. The transition is keyed purely on the civil-date gap between the
// recorded last completion and today, never on wall-clock durations, so
// behavior is consistent across timezones and DST boundaries.
package habit

import (
	"errors"
	"strings"
	"time"

	"studyhub/internal/document"
)

// ErrBlankName rejects habits with an empty name.
var ErrBlankName = errors.New("habit name is required")

// dateLayout is the civil-date form habits store in last_done.
const dateLayout = "2006-01-02"

// Add appends a new habit with a zero streak and no completion date.
func Add(doc *document.UserDocument, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrBlankName
	}

	doc.Habits = append(doc.Habits, document.Habit{Name: name, Streak: 0})

	return nil
}

// MarkDone records a completion for the habit at index on the given day.
//
// Marking twice on the same day is a no-op, so the operation is idempotent
// within a day. A completion the day after last_done extends the streak by
// one; any other state (never done, a gap of two or more days, or an
// unparsable date) restarts the streak at one. An out-of-bounds index
// mutates nothing.
func MarkDone(doc *document.UserDocument, index int, today time.Time) {
	if index < 0 || index >= len(doc.Habits) {
		return
	}

	h := &doc.Habits[index]

	todayStr := civilDate(today).Format(dateLayout)
	if h.LastDone == todayStr {
		return
	}

	last, err := time.Parse(dateLayout, h.LastDone)
	if err == nil && dayOrdinal(today)-dayOrdinal(last) == 1 {
		h.Streak++
	} else {
		h.Streak = 1
	}

	h.LastDone = todayStr
}

// Delete removes the habit at index. Out-of-bounds is a no-op.
func Delete(doc *document.UserDocument, index int) {
	if index < 0 || index >= len(doc.Habits) {
		return
	}

	doc.Habits = append(doc.Habits[:index], doc.Habits[index+1:]...)
}

// civilDate strips a timestamp down to its calendar day in UTC.
func civilDate(t time.Time) time.Time {
	year, month, day := t.Date()

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// dayOrdinal returns a day count usable for calendar-gap comparison.
func dayOrdinal(t time.Time) int {
	const secondsPerDay = 86400

	return int(civilDate(t).Unix() / secondsPerDay)
}
