// Package session manages per-generation temp directories. Every generate
// request gets its own directory under the configured root; a janitor removes
// directories that have been idle longer than the TTL.
package session

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"pptgen/internal/pkg/errors"
	"pptgen/internal/pkg/logger"
)

// Prefix marks session directories so the janitor never touches anything
// else living in the root.
const Prefix = "pptgen-"

// Well-known artifact names inside a session directory.
const (
	DeckName = "output.pptx"
	PDFName  = "output.pdf"
)

// Store manages session directories under a single root.
type Store struct {
	root string
	log  *logger.Logger
}

// New creates a store rooted at dir, creating it if needed.
func New(dir string, log *logger.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "session.new", "create session root")
	}
	return &Store{root: dir, log: log.WithComponent("session")}, nil
}

// Root returns the session root directory.
func (s *Store) Root() string { return s.root }

// NewID returns a fresh session ID.
func NewID() string {
	return Prefix + uuid.NewString()
}

// ValidID reports whether id is a well-formed session ID. Malformed IDs from URLs
// never reach the filesystem.
func ValidID(id string) bool {
	if !strings.HasPrefix(id, Prefix) {
		return false
	}
	_, err := uuid.Parse(strings.TrimPrefix(id, Prefix))
	return err == nil
}

// Create makes a new session directory and returns its ID.
func (s *Store) Create(ctx context.Context) (string, error) {
	id := NewID()
	if err := os.MkdirAll(filepath.Join(s.root, id), 0o755); err != nil {
		return "", errors.Wrap(err, "session.create", "create session dir")
	}
	s.log.FromContext(ctx).Debug("session created", "session_id", id)
	return id, nil
}

// Dir resolves a session ID to its directory. Unknown or malformed IDs
// return a not-found error.
func (s *Store) Dir(id string) (string, error) {
	if !ValidID(id) {
		return "", errors.NotFound("session", id)
	}
	dir := filepath.Join(s.root, id)
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		return "", errors.NotFound("session", id)
	}
	return dir, nil
}

// Path resolves an artifact name inside a session without checking existence.
func (s *Store) Path(id, name string) (string, error) {
	dir, err := s.Dir(id)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, filepath.Base(name)), nil
}

// Put writes an artifact into a session directory.
func (s *Store) Put(id, name string, r io.Reader) (int64, error) {
	p, err := s.Path(id, name)
	if err != nil {
		return 0, err
	}

	f, err := os.Create(p)
	if err != nil {
		return 0, errors.Wrap(err, "session.put", "create artifact")
	}
	defer f.Close()

	n, err := io.Copy(f, r)
	if err != nil {
		return 0, errors.Wrap(err, "session.put", "write artifact")
	}
	return n, nil
}

// Open opens an artifact for reading and reports its content type and size.
// The type comes from the extension when known, otherwise from sniffing the
// first bytes.
func (s *Store) Open(id, name string) (rc io.ReadCloser, contentType string, size int64, err error) {
	p, err := s.Path(id, name)
	if err != nil {
		return nil, "", 0, err
	}

	f, err := os.Open(p)
	if err != nil {
		return nil, "", 0, errors.NotFound("artifact", fmt.Sprintf("%s/%s", id, name))
	}

	if st, statErr := f.Stat(); statErr == nil {
		size = st.Size()
	}

	// Prefer extension-based type. If empty, sniff first bytes.
	contentType = mime.TypeByExtension(filepath.Ext(p))
	if contentType == "" {
		buf := make([]byte, 512)
		n, _ := f.Read(buf)
		_, _ = f.Seek(0, 0)
		contentType = http.DetectContentType(buf[:n])
	}

	return f, contentType, size, nil
}

// Exists reports whether an artifact is present in a session.
func (s *Store) Exists(id, name string) bool {
	p, err := s.Path(id, name)
	if err != nil {
		return false
	}
	st, err := os.Stat(p)
	return err == nil && st.Size() > 0
}

// Remove deletes a single artifact from a session.
func (s *Store) Remove(id, name string) error {
	p, err := s.Path(id, name)
	if err != nil {
		return err
	}
	return os.Remove(p)
}

// Sweep deletes session directories idle longer than ttl and returns how
// many were removed.
func (s *Store) Sweep(ctx context.Context, ttl time.Duration) int {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		s.log.Warn("sweep failed to read session root", "error", err.Error())
		return 0
	}

	cutoff := time.Now().Add(-ttl)
	removed := 0
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), Prefix) {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(s.root, e.Name())); err != nil {
			s.log.Warn("sweep failed to remove session", "session_id", e.Name(), "error", err.Error())
			continue
		}
		removed++
	}

	if removed > 0 {
		s.log.FromContext(ctx).Info("swept expired sessions", "removed", removed)
	}
	return removed
}

// RunSweeper sweeps on a fixed interval until ctx is canceled.
func (s *Store) RunSweeper(ctx context.Context, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.Info("session sweeper started", "interval", interval.String(), "ttl", ttl.String())
	for {
		select {
		case <-ctx.Done():
			s.log.Info("session sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx, ttl)
		}
	}
}
