// Package document defines the typed per-user record and its JSON shape.
//
// A [UserDocument] is the unit the store loads and persists: one JSON file
// per user holding todos, notes, habits, attendance records, the budget
// ledger, and uploaded-document metadata. Decoding tolerates the legacy
// shapes older files on disk may carry (budget stored as a list, attendance
// stored as a single counter object, absent top-level keys) and repairs them
// to the canonical containers.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Todo is a single task entry. Category, priority, and deadline are free
// text; the deadline is not validated for calendar correctness.
type Todo struct {
	Task      string `json:"task"`
	Category  string `json:"category"`
	Priority  string `json:"priority"`
	Deadline  string `json:"deadline"`
	Completed bool   `json:"completed"`
}

// Note is a titled text note with free-form tags.
// Tag insertion order is preserved for display.
type Note struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// Habit tracks a consecutive-day streak. LastDone is a civil date in
// "2006-01-02" form, or empty when the habit has never been completed.
type Habit struct {
	Name     string `json:"name"`
	Streak   int    `json:"streak"`
	LastDone string `json:"last_done,omitempty"`
}

// Subject is one attendance record. Percentage and MaxSkips are derived by
// the attendance module and recomputed on every write; they are persisted
// only so readers don't have to.
type Subject struct {
	Subject         string  `json:"subject"`
	TotalClasses    int     `json:"total_classes"`
	ClassesDone     int     `json:"classes_done"`
	AttendedClasses int     `json:"attended_classes"`
	Percentage      float64 `json:"attendance_percentage"`
	MaxSkips        int     `json:"max_skips"`
}

// Expense is one ledger line. Amount carries no sign constraint; negative
// amounts act as corrections.
type Expense struct {
	Item     string  `json:"item"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
}

// Ledger is the budget sub-document. Remaining is a running subtraction of
// the expense amounts from Total and may go negative when overspent.
type Ledger struct {
	Total     float64   `json:"total"`
	Remaining float64   `json:"remaining"`
	Expenses  []Expense `json:"expenses"`
}

// FileRef is the stored metadata for an uploaded file. Path is relative to
// the upload root; the file itself is owned by the upload collaborator.
type FileRef struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Category string `json:"category"`
}

// UserDocument is the complete per-user record. After [Decode] or [Default]
// every container is non-nil, so callers can append and marshal without
// nil checks.
type UserDocument struct {
	Todos      []Todo    `json:"todos"`
	Notes      []Note    `json:"notes"`
	Habits     []Habit   `json:"habits"`
	Attendance []Subject `json:"attendance"`
	Budget     Ledger    `json:"budget"`
	Documents  []FileRef `json:"documents"`
}

// ErrCorrupt is returned by Decode when stored bytes cannot be interpreted
// as a user document. Callers must surface it rather than overwrite the
// file; recovering corrupt data is an operator decision.
var ErrCorrupt = errors.New("corrupt user document")

// Default returns the empty document template created on first access.
func Default() *UserDocument {
	return &UserDocument{
		Todos:      []Todo{},
		Notes:      []Note{},
		Habits:     []Habit{},
		Attendance: []Subject{},
		Budget:     emptyLedger(),
		Documents:  []FileRef{},
	}
}

func emptyLedger() Ledger {
	return Ledger{Total: 0, Remaining: 0, Expenses: []Expense{}}
}

// rawDocument defers sub-document decoding so legacy shapes can be repaired
// field by field instead of failing the whole document.
type rawDocument struct {
	Todos      json.RawMessage `json:"todos"`
	Notes      json.RawMessage `json:"notes"`
	Habits     json.RawMessage `json:"habits"`
	Attendance json.RawMessage `json:"attendance"`
	Budget     json.RawMessage `json:"budget"`
	Documents  json.RawMessage `json:"documents"`
}

// Decode parses stored bytes into a normalized document.
//
// Normalization repairs the known legacy shapes in place of failing:
//   - an absent or null top-level key becomes its default container
//   - budget stored as a JSON array becomes the empty canonical ledger
//   - attendance stored as the old single counter object becomes an empty
//     record list
//
// Anything else that fails to parse is reported as [ErrCorrupt].
func Decode(data []byte) (*UserDocument, error) {
	var raw rawDocument

	err := json.Unmarshal(data, &raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	doc := Default()

	err = decodeList(raw.Todos, &doc.Todos, "todos")
	if err != nil {
		return nil, err
	}

	err = decodeList(raw.Notes, &doc.Notes, "notes")
	if err != nil {
		return nil, err
	}

	err = decodeList(raw.Habits, &doc.Habits, "habits")
	if err != nil {
		return nil, err
	}

	attendance, err := decodeAttendance(raw.Attendance)
	if err != nil {
		return nil, err
	}

	doc.Attendance = attendance

	ledger, err := decodeBudget(raw.Budget)
	if err != nil {
		return nil, err
	}

	doc.Budget = ledger

	err = decodeList(raw.Documents, &doc.Documents, "documents")
	if err != nil {
		return nil, err
	}

	// Tags inside notes may round-trip as null.
	for i := range doc.Notes {
		if doc.Notes[i].Tags == nil {
			doc.Notes[i].Tags = []string{}
		}
	}

	return doc, nil
}

// decodeList decodes a top-level array field, treating absent/null as empty.
func decodeList[T any](raw json.RawMessage, dst *[]T, field string) error {
	if isAbsent(raw) {
		return nil
	}

	var items []T

	err := json.Unmarshal(raw, &items)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCorrupt, field, err)
	}

	if items != nil {
		*dst = items
	}

	return nil
}

// decodeBudget accepts the canonical ledger object. A legacy array (or
// null/absent) is replaced by the empty ledger before any ledger operation
// can see it.
func decodeBudget(raw json.RawMessage) (Ledger, error) {
	if isAbsent(raw) {
		return emptyLedger(), nil
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return emptyLedger(), nil
	}

	var ledger Ledger

	err := json.Unmarshal(raw, &ledger)
	if err != nil {
		return Ledger{}, fmt.Errorf("%w: budget: %w", ErrCorrupt, err)
	}

	if ledger.Expenses == nil {
		ledger.Expenses = []Expense{}
	}

	return ledger, nil
}

// decodeAttendance accepts the canonical record list. Legacy documents
// stored attendance as {"attended": 0, "total": 0}; that shape carries no
// per-subject data and is replaced by an empty list.
func decodeAttendance(raw json.RawMessage) ([]Subject, error) {
	if isAbsent(raw) {
		return []Subject{}, nil
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return []Subject{}, nil
	}

	var subjects []Subject

	err := json.Unmarshal(raw, &subjects)
	if err != nil {
		return nil, fmt.Errorf("%w: attendance: %w", ErrCorrupt, err)
	}

	if subjects == nil {
		subjects = []Subject{}
	}

	return subjects, nil
}

func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// Encode marshals a document for storage. Output is indented to stay
// diffable and hand-editable, matching what the store has always written.
func Encode(doc *UserDocument) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding user document: %w", err)
	}

	return data, nil
}
