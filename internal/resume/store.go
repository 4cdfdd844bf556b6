package resume

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"deepjobsearch/internal/logging"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

const extractCacheSize = 128

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// UploadStore keeps original resume uploads on local disk under
// resumes/<uuid>-<name> keys and caches extracted text by content hash so
// repeated uploads of the same document skip re-extraction.
type UploadStore struct {
	dir    string
	logger *logging.Logger
	cache  *lru.Cache[string, string]
}

// NewUploadStore creates the store rooted at dir.
func NewUploadStore(dir string) (*UploadStore, error) {
	if err := os.MkdirAll(filepath.Join(dir, "resumes"), 0755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	cache, err := lru.New[string, string](extractCacheSize)
	if err != nil {
		return nil, err
	}
	return &UploadStore{
		dir:    dir,
		logger: logging.NewComponentLogger("UploadStore"),
		cache:  cache,
	}, nil
}

// Save persists the original upload and returns its storage key.
func (s *UploadStore) Save(filename string, content []byte) (string, error) {
	key := fmt.Sprintf("resumes/%s-%s", uuid.New().String(), sanitizeName(filename))
	path := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	s.logger.Debug("Stored upload %s (%d bytes)", key, len(content))
	return key, nil
}

// ExtractText returns the document's plain text, serving repeats from the
// content-hash cache.
func (s *UploadStore) ExtractText(filename string, content []byte) (string, error) {
	hash := fmt.Sprintf("%x", sha256.Sum256(content))
	if text, ok := s.cache.Get(hash); ok {
		s.logger.Debug("Extraction cache hit for %s", filename)
		return text, nil
	}

	text, err := ExtractText(filename, content)
	if err != nil {
		return "", err
	}
	s.cache.Add(hash, text)
	return text, nil
}

func sanitizeName(filename string) string {
	base := filepath.Base(filename)
	base = unsafeNameChars.ReplaceAllString(base, "_")
	base = strings.Trim(base, "._")
	if base == "" {
		base = "resume"
	}
	if len(base) > 100 {
		base = base[len(base)-100:]
	}
	return base
}
