package resume

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestUploadStore_Save(t *testing.T) {
	store, err := NewUploadStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewUploadStore failed: %v", err)
	}

	key, err := store.Save("My Resume (final).txt", []byte("content"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if !strings.HasPrefix(key, "resumes/") {
		t.Errorf("Expected resumes/ key prefix, got %q", key)
	}
	if strings.ContainsAny(key, "() ") {
		t.Errorf("Key should be sanitized, got %q", key)
	}

	stored, err := os.ReadFile(filepath.Join(store.dir, filepath.FromSlash(key)))
	if err != nil {
		t.Fatalf("Stored file unreadable: %v", err)
	}
	if string(stored) != "content" {
		t.Errorf("Stored content mismatch: %q", stored)
	}
}

func TestUploadStore_SaveUniqueKeys(t *testing.T) {
	store, _ := NewUploadStore(t.TempDir())

	first, _ := store.Save("resume.txt", []byte("a"))
	second, _ := store.Save("resume.txt", []byte("b"))
	if first == second {
		t.Errorf("Repeated uploads of the same name must get distinct keys: %q", first)
	}
}

func TestUploadStore_ExtractTextCached(t *testing.T) {
	store, _ := NewUploadStore(t.TempDir())
	content := []byte("Jane Doe, Go Engineer")

	first, err := store.ExtractText("resume.txt", content)
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	second, err := store.ExtractText("other-name.txt", content)
	if err != nil {
		t.Fatalf("Cached ExtractText failed: %v", err)
	}
	if first != second {
		t.Errorf("Cache keyed on content must return identical text: %q vs %q", first, second)
	}
	if store.cache.Len() != 1 {
		t.Errorf("Expected one cache entry, got %d", store.cache.Len())
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"resume.pdf", "resume.pdf"},
		{"My Resume (final).pdf", "My_Resume_final_.pdf"},
		{"../../etc/passwd", "passwd"},
		{"", "resume"},
		{"...", "resume"},
	}
	for _, tt := range tests {
		if got := sanitizeName(tt.in); got != tt.want {
			t.Errorf("sanitizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
