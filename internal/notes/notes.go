// Package notes implements the notes and todo operations: CRUD with
// bounds-safe index addressing, tag parsing, and read-only filtering.
package notes

import (
	"errors"
	"sort"
	"strings"

	"studyhub/internal/document"
)

// Validation errors.
var (
	// ErrBlankTask rejects todos with empty task text.
	ErrBlankTask = errors.New("todo task is required")

	// ErrEmptyNote rejects notes where both title and content are blank.
	ErrEmptyNote = errors.New("note needs a title or content")
)

// AddTodo appends a task. Category, priority, and deadline are free text
// and may be empty; the task text may not.
func AddTodo(doc *document.UserDocument, task, category, priority, deadline string) error {
	task = strings.TrimSpace(task)
	if task == "" {
		return ErrBlankTask
	}

	doc.Todos = append(doc.Todos, document.Todo{
		Task:     task,
		Category: strings.TrimSpace(category),
		Priority: strings.TrimSpace(priority),
		Deadline: strings.TrimSpace(deadline),
	})

	return nil
}

// ToggleTodo flips the completed flag at index. Out-of-bounds is a no-op.
func ToggleTodo(doc *document.UserDocument, index int) {
	if index < 0 || index >= len(doc.Todos) {
		return
	}

	doc.Todos[index].Completed = !doc.Todos[index].Completed
}

// DeleteTodo removes the todo at index. Out-of-bounds is a no-op.
func DeleteTodo(doc *document.UserDocument, index int) {
	if index < 0 || index >= len(doc.Todos) {
		return
	}

	doc.Todos = append(doc.Todos[:index], doc.Todos[index+1:]...)
}

// AddNote appends a note. At least one of title and content must be
// non-blank.
func AddNote(doc *document.UserDocument, title, content string, tags []string) error {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)

	if title == "" && content == "" {
		return ErrEmptyNote
	}

	doc.Notes = append(doc.Notes, document.Note{
		Title:   title,
		Content: content,
		Tags:    normalizeTags(tags),
	})

	return nil
}

// EditNote replaces the note at index wholesale. Out-of-bounds is a no-op.
func EditNote(doc *document.UserDocument, index int, title, content string, tags []string) {
	if index < 0 || index >= len(doc.Notes) {
		return
	}

	doc.Notes[index] = document.Note{
		Title:   strings.TrimSpace(title),
		Content: strings.TrimSpace(content),
		Tags:    normalizeTags(tags),
	}
}

// DeleteNote removes the note at index. Out-of-bounds is a no-op.
func DeleteNote(doc *document.UserDocument, index int) {
	if index < 0 || index >= len(doc.Notes) {
		return
	}

	doc.Notes = append(doc.Notes[:index], doc.Notes[index+1:]...)
}

// ParseTags splits a raw comma-separated tag string: whitespace trimmed,
// empty tokens dropped, duplicates removed keeping the first occurrence.
func ParseTags(raw string) []string {
	return normalizeTags(strings.Split(raw, ","))
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))

	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}

		seen[tag] = true
		out = append(out, tag)
	}

	return out
}

// Filter returns the notes matching a case-insensitive title substring
// query and an exact tag membership filter. Either may be empty; when both
// are supplied a note must match both. The result is a fresh slice and the
// document is never mutated.
func Filter(doc *document.UserDocument, query, tag string) []document.Note {
	query = strings.ToLower(strings.TrimSpace(query))
	tag = strings.TrimSpace(tag)

	matched := make([]document.Note, 0, len(doc.Notes))

	for _, note := range doc.Notes {
		if query != "" && !strings.Contains(strings.ToLower(note.Title), query) {
			continue
		}

		if tag != "" && !hasTag(note, tag) {
			continue
		}

		matched = append(matched, note)
	}

	return matched
}

func hasTag(note document.Note, tag string) bool {
	for _, t := range note.Tags {
		if t == tag {
			return true
		}
	}

	return false
}

// AllTags returns the sorted, de-duplicated union of every tag across all
// notes.
func AllTags(doc *document.UserDocument) []string {
	seen := make(map[string]bool)

	for _, note := range doc.Notes {
		for _, tag := range note.Tags {
			seen[tag] = true
		}
	}

	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}

	sort.Strings(tags)

	return tags
}
