package blobstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/mobai/mobai-http/engine/core"
	"github.com/mobai/mobai-http/pkg/logger"
	"github.com/spf13/afero"
)

const (
	// DefaultPrefix names blobs saved without an explicit prefix.
	DefaultPrefix = "screenshot"
	// Extension is appended to every blob name.
	Extension = ".png"

	idLength = 6
	dirPerm  = 0o755
	filePerm = 0o644
)

// Clock supplies the timestamp embedded in blob names.
type Clock interface {
	Now() time.Time
}

// IDGenerator supplies the short disambiguator embedded in blob names.
type IDGenerator interface {
	NewID() string
}

// Observer is notified after each successful save.
type Observer interface {
	RecordBlobSaved(ctx context.Context, prefix, mime string, size int)
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type uuidGenerator struct{}

func (uuidGenerator) NewID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return id[:idLength]
}

// Store writes blobs as individual files under a single directory.
type Store struct {
	fs       afero.Fs
	dir      string
	clock    Clock
	ids      IDGenerator
	observer Observer
}

type Option func(*Store)

// WithFs replaces the filesystem, mainly for tests.
func WithFs(fs afero.Fs) Option {
	return func(s *Store) { s.fs = fs }
}

func WithClock(c Clock) Option {
	return func(s *Store) { s.clock = c }
}

func WithIDGenerator(g IDGenerator) Option {
	return func(s *Store) { s.ids = g }
}

func WithObserver(o Observer) Option {
	return func(s *Store) { s.observer = o }
}

// New creates a store rooted at dir. The directory is created on first save.
func New(dir string, opts ...Option) *Store {
	s := &Store{
		fs:    afero.NewOsFs(),
		dir:   dir,
		clock: systemClock{},
		ids:   uuidGenerator{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save persists data as <prefix>-<unix ms>-<id>.png and returns its absolute
// path. An empty prefix falls back to DefaultPrefix.
func (s *Store) Save(ctx context.Context, data []byte, prefix string) (string, error) {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	dir, err := filepath.Abs(s.dir)
	if err != nil {
		return "", core.NewStorageError("resolve directory", s.dir, err)
	}
	if err := s.fs.MkdirAll(dir, dirPerm); err != nil {
		return "", core.NewStorageError("create directory", dir, err)
	}
	name := fmt.Sprintf("%s-%d-%s%s", prefix, s.clock.Now().UnixMilli(), s.ids.NewID(), Extension)
	path := filepath.Join(dir, name)
	if err := s.writeAtomic(path, data); err != nil {
		return "", core.NewStorageError("write", path, err)
	}
	mime := mimetype.Detect(data).String()
	log := logger.FromContext(ctx)
	log.Debug("Blob saved", "path", path, "bytes", len(data), "mime", mime)
	if !strings.HasPrefix(mime, "image/") {
		log.Warn("Saved blob is not an image", "path", path, "mime", mime)
	}
	if s.observer != nil {
		s.observer.RecordBlobSaved(ctx, prefix, mime, len(data))
	}
	return path, nil
}

// writeAtomic writes to a temp file in the target directory and renames it
// into place so readers never observe a partial blob.
func (s *Store) writeAtomic(path string, data []byte) error {
	tmp, err := afero.TempFile(s.fs, filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = s.fs.Remove(tmpPath)
		}
	}()
	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := s.fs.Chmod(tmpPath, os.FileMode(filePerm)); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := s.fs.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	committed = true
	return nil
}
