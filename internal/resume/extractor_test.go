package resume

import (
	"errors"
	"testing"
)

func TestExtractText_PlainText(t *testing.T) {
	text, err := ExtractText("resume.txt", []byte("  Jane Doe\nGo Engineer  \n"))
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	if text != "Jane Doe\nGo Engineer" {
		t.Errorf("Expected trimmed text, got %q", text)
	}
}

func TestExtractText_Markdown(t *testing.T) {
	text, err := ExtractText("resume.MD", []byte("# Jane Doe"))
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	if text != "# Jane Doe" {
		t.Errorf("Unexpected text: %q", text)
	}
}

func TestExtractText_UnsupportedType(t *testing.T) {
	for _, name := range []string{"resume.docx", "resume.png", "resume", "resume.exe"} {
		if _, err := ExtractText(name, []byte("data")); !errors.Is(err, ErrUnsupportedType) {
			t.Errorf("Expected ErrUnsupportedType for %q, got %v", name, err)
		}
	}
}

func TestExtractText_MalformedPDF(t *testing.T) {
	// Not a PDF at all; the parser must fail with an error, never panic.
	if _, err := ExtractText("resume.pdf", []byte("definitely not a pdf")); err == nil {
		t.Error("Expected an error for a malformed PDF")
	}
}
