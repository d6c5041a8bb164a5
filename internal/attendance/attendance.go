// Package attendance manages per-subject attendance records and the derived
// quota numbers: attendance percentage and the maximum number of remaining
// classes a user can still skip while meeting the target threshold.
package attendance

import (
	"errors"
	"math"
	"strings"

	"studyhub/internal/document"
)

// TargetPercent is the attendance threshold applied uniformly to every
// subject. The minimum-required count is rounded up, so a user is never
// told they satisfy a threshold they numerically miss.
const TargetPercent = 75

// Validation errors.
var (
	// ErrInvalidValues rejects counts violating 0 ≤ attended ≤ done ≤ total.
	ErrInvalidValues = errors.New("invalid attendance values")

	// ErrBlankSubject rejects records without a subject name.
	ErrBlankSubject = errors.New("subject name is required")
)

// Derived holds the values recomputed from the raw counts on every write.
type Derived struct {
	Percentage float64
	MaxSkips   int
}

// ComputeDerived validates the counts and returns the derived values.
//
//	percentage  = done > 0 ? round2(attended/done × 100) : 0
//	minRequired = ceil(TargetPercent% × total)
//	maxSkips    = max((total−done) − max(minRequired−attended, 0), 0)
func ComputeDerived(total, done, attended int) (Derived, error) {
	if attended < 0 || attended > done || done > total {
		return Derived{}, ErrInvalidValues
	}

	var percentage float64
	if done > 0 {
		percentage = math.Round(float64(attended)/float64(done)*100*100) / 100
	}

	// Integer ceiling keeps the threshold exact; float math here could
	// round 30.000000004 up to 31.
	minRequired := (TargetPercent*total + 99) / 100

	stillNeeded := minRequired - attended
	if stillNeeded < 0 {
		stillNeeded = 0
	}

	maxSkips := (total - done) - stillNeeded
	if maxSkips < 0 {
		maxSkips = 0
	}

	return Derived{Percentage: percentage, MaxSkips: maxSkips}, nil
}

// AddSubject validates the counts and appends a record with its derived
// values filled in.
func AddSubject(doc *document.UserDocument, subject string, total, done, attended int) error {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return ErrBlankSubject
	}

	derived, err := ComputeDerived(total, done, attended)
	if err != nil {
		return err
	}

	doc.Attendance = append(doc.Attendance, document.Subject{
		Subject:         subject,
		TotalClasses:    total,
		ClassesDone:     done,
		AttendedClasses: attended,
		Percentage:      derived.Percentage,
		MaxSkips:        derived.MaxSkips,
	})

	return nil
}

// EditSubject replaces the counts of the record at index and recomputes its
// derived values. The subject name is left unchanged. An out-of-bounds
// index mutates nothing and returns nil; invalid counts are rejected before
// any mutation.
func EditSubject(doc *document.UserDocument, index, total, done, attended int) error {
	if index < 0 || index >= len(doc.Attendance) {
		return nil
	}

	derived, err := ComputeDerived(total, done, attended)
	if err != nil {
		return err
	}

	record := &doc.Attendance[index]
	record.TotalClasses = total
	record.ClassesDone = done
	record.AttendedClasses = attended
	record.Percentage = derived.Percentage
	record.MaxSkips = derived.MaxSkips

	return nil
}

// DeleteSubject removes the record at index. Out-of-bounds is a no-op.
func DeleteSubject(doc *document.UserDocument, index int) {
	if index < 0 || index >= len(doc.Attendance) {
		return
	}

	doc.Attendance = append(doc.Attendance[:index], doc.Attendance[index+1:]...)
}
