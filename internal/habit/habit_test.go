package habit

import (
	"errors"
	"testing"
	"time"

	"studyhub/internal/document"
)

func day(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}

	return t
}

func TestAdd(t *testing.T) {
	t.Parallel()

	doc := document.Default()

	err := Add(doc, "  morning run ")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	h := doc.Habits[0]
	if h.Name != "morning run" || h.Streak != 0 || h.LastDone != "" {
		t.Errorf("new habit = %+v, want name trimmed, streak 0, no last_done", h)
	}
}

func TestAddRejectsBlankName(t *testing.T) {
	t.Parallel()

	doc := document.Default()

	err := Add(doc, "   ")
	if !errors.Is(err, ErrBlankName) {
		t.Errorf("error = %v, want ErrBlankName", err)
	}

	if len(doc.Habits) != 0 {
		t.Error("rejected Add must not mutate the document")
	}
}

func TestMarkDoneTransitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		lastDone   string
		streak     int
		today      string
		wantStreak int
	}{
		{"first completion", "", 0, "2026-03-10", 1},
		{"consecutive day extends", "2026-03-09", 4, "2026-03-10", 5},
		{"same day is idempotent", "2026-03-10", 5, "2026-03-10", 5},
		{"two day gap resets", "2026-03-08", 7, "2026-03-10", 1},
		{"long gap resets", "2025-12-01", 30, "2026-03-10", 1},
		{"unparsable date resets", "not-a-date", 9, "2026-03-10", 1},
		{"across month boundary", "2026-02-28", 2, "2026-03-01", 3},
		{"across year boundary", "2025-12-31", 10, "2026-01-01", 11},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			doc := document.Default()
			doc.Habits = append(doc.Habits, document.Habit{
				Name:     "run",
				Streak:   testCase.streak,
				LastDone: testCase.lastDone,
			})

			MarkDone(doc, 0, day(testCase.today))

			h := doc.Habits[0]
			if h.Streak != testCase.wantStreak {
				t.Errorf("streak = %d, want %d", h.Streak, testCase.wantStreak)
			}

			if h.LastDone != testCase.today {
				t.Errorf("last_done = %q, want %q", h.LastDone, testCase.today)
			}
		})
	}
}

func TestMarkDoneConsecutiveDaysStrictlyIncrease(t *testing.T) {
	t.Parallel()

	doc := document.Default()
	if err := Add(doc, "read"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	start := day("2026-03-01")
	for i := range 10 {
		MarkDone(doc, 0, start.AddDate(0, 0, i))

		if doc.Habits[0].Streak != i+1 {
			t.Fatalf("after day %d streak = %d, want %d", i, doc.Habits[0].Streak, i+1)
		}
	}
}

func TestMarkDoneIgnoresWallClockTime(t *testing.T) {
	t.Parallel()

	doc := document.Default()
	doc.Habits = append(doc.Habits, document.Habit{Name: "run", Streak: 1, LastDone: "2026-03-09"})

	// 23:50 the next day is still "the next calendar day" even though
	// nearly 48 hours may have passed since an early-morning completion.
	lateNextDay := time.Date(2026, 3, 10, 23, 50, 0, 0, time.FixedZone("IST", 5*3600+1800))
	MarkDone(doc, 0, lateNextDay)

	if doc.Habits[0].Streak != 2 {
		t.Errorf("streak = %d, want 2 (calendar-day gap, not wall-clock)", doc.Habits[0].Streak)
	}
}

func TestMarkDoneOutOfBounds(t *testing.T) {
	t.Parallel()

	doc := document.Default()
	doc.Habits = append(doc.Habits, document.Habit{Name: "run", Streak: 3, LastDone: "2026-03-09"})

	for _, index := range []int{-1, 1, 99} {
		MarkDone(doc, index, day("2026-03-10"))
	}

	if doc.Habits[0].Streak != 3 || doc.Habits[0].LastDone != "2026-03-09" {
		t.Error("out-of-bounds MarkDone must not mutate any habit")
	}
}

func TestDelete(t *testing.T) {
	t.Parallel()

	doc := document.Default()
	doc.Habits = append(doc.Habits,
		document.Habit{Name: "a"},
		document.Habit{Name: "b"},
		document.Habit{Name: "c"},
	)

	Delete(doc, 1)

	if len(doc.Habits) != 2 || doc.Habits[0].Name != "a" || doc.Habits[1].Name != "c" {
		t.Errorf("habits after delete = %+v", doc.Habits)
	}

	Delete(doc, -1)
	Delete(doc, 5)

	if len(doc.Habits) != 2 {
		t.Error("out-of-bounds Delete must be a no-op")
	}
}
