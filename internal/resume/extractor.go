// Package resume handles uploaded resume documents: text extraction, local
// storage of the original file, and LLM-backed summarization.
package resume

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrUnsupportedType marks uploads this service cannot extract text from.
var ErrUnsupportedType = errors.New("unsupported resume file type")

// ExtractText pulls plain text out of an uploaded resume document. PDF and
// plain-text files are supported; anything else is rejected with
// ErrUnsupportedType so the HTTP layer can surface a client error.
func ExtractText(filename string, content []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return extractPDF(content)
	case ".txt", ".md":
		return strings.TrimSpace(string(content)), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, filepath.Ext(filename))
	}
}

func extractPDF(content []byte) (text string, err error) {
	// The pdf library panics on some malformed documents; turn that into a
	// regular parse error.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("parse pdf: %w", err)
	}

	plainText, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plainText); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}
