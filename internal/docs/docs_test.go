package docs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"studyhub/internal/document"
)

func TestAddDefaultsCategory(t *testing.T) {
	t.Parallel()

	doc := document.Default()

	Add(doc, "a.pdf", "u/a.pdf", "  ")

	if doc.Documents[0].Category != DefaultCategory {
		t.Errorf("category = %q, want %q", doc.Documents[0].Category, DefaultCategory)
	}
}

func TestDeleteByPath(t *testing.T) {
	t.Parallel()

	doc := document.Default()
	Add(doc, "a.pdf", "u/a.pdf", "Notes")
	Add(doc, "b.pdf", "u/b.pdf", "Notes")
	Add(doc, "a2.pdf", "u/a.pdf", "Others") // same path, duplicate ref

	DeleteByPath(doc, "u/a.pdf")

	if len(doc.Documents) != 1 || doc.Documents[0].Name != "b.pdf" {
		t.Errorf("documents after delete = %+v", doc.Documents)
	}

	// Unknown path mutates nothing.
	DeleteByPath(doc, "u/missing.pdf")

	if len(doc.Documents) != 1 {
		t.Error("deleting an unknown path must be a no-op")
	}
}

func TestGroupByCategory(t *testing.T) {
	t.Parallel()

	doc := document.Default()
	Add(doc, "a.pdf", "u/a.pdf", "Notes")
	Add(doc, "b.pdf", "u/b.pdf", "Custom")
	Add(doc, "c.pdf", "u/c.pdf", "")

	groups := GroupByCategory(doc)

	// Seed groups are always present, even when empty.
	for _, seed := range []string{"Notes", "Assignments", "Modules", "Others"} {
		if _, ok := groups[seed]; !ok {
			t.Errorf("seed category %q missing", seed)
		}
	}

	if len(groups["Notes"]) != 1 || len(groups["Custom"]) != 1 {
		t.Errorf("groups = %+v", groups)
	}

	if len(groups["Others"]) != 1 {
		t.Error("blank category should land in Others")
	}
}

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"report.pdf", "report.pdf"},
		{"my notes (v2).pdf", "my_notes__v2_.pdf"},
		{"../../etc/passwd", "passwd"},
		{"weird/..name.png", "name.png"},
		{"", ""},
		{"...", ""},
	}

	for _, testCase := range tests {
		t.Run(testCase.input, func(t *testing.T) {
			t.Parallel()

			got := SanitizeFilename(testCase.input)
			if got != testCase.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", testCase.input, got, testCase.want)
			}
		})
	}
}

func TestFilesStoreAndRemove(t *testing.T) {
	t.Parallel()

	files, err := NewFiles(t.TempDir())
	if err != nil {
		t.Fatalf("NewFiles failed: %v", err)
	}

	relPath, err := files.Store("alice_at_x_dot_com", "notes.pdf", strings.NewReader("pdf bytes"))
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	if relPath != "alice_at_x_dot_com/notes.pdf" {
		t.Errorf("relPath = %q", relPath)
	}

	full, err := files.Resolve(relPath)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	data, err := os.ReadFile(full) //nolint:gosec // test path
	if err != nil {
		t.Fatalf("stored file unreadable: %v", err)
	}

	if string(data) != "pdf bytes" {
		t.Errorf("stored content = %q", data)
	}

	err = files.Remove(relPath)
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	// Removing again is not an error; the metadata may outlive the bytes.
	err = files.Remove(relPath)
	if err != nil {
		t.Errorf("Remove of missing file = %v, want nil", err)
	}
}

func TestFilesStoreRejectsBadUploads(t *testing.T) {
	t.Parallel()

	files, err := NewFiles(t.TempDir())
	if err != nil {
		t.Fatalf("NewFiles failed: %v", err)
	}

	_, err = files.Store("u", "malware.exe", strings.NewReader("x"))
	if !errors.Is(err, ErrFileType) {
		t.Errorf("disallowed extension error = %v, want ErrFileType", err)
	}

	_, err = files.Store("u", "", strings.NewReader("x"))
	if !errors.Is(err, ErrBlankFilename) {
		t.Errorf("blank filename error = %v, want ErrBlankFilename", err)
	}
}

func TestFilesResolveRejectsTraversal(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	files, err := NewFiles(root)
	if err != nil {
		t.Fatalf("NewFiles failed: %v", err)
	}

	_, err = files.Resolve("../outside.txt")
	if err == nil {
		t.Error("Resolve must reject paths escaping the upload root")
	}

	full, err := files.Resolve("user/file.pdf")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	want := filepath.Join(root, "user", "file.pdf")
	if diff := cmp.Diff(want, full); diff != "" {
		t.Errorf("Resolve mismatch (-want +got):\n%s", diff)
	}
}
