package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// maxStoreAttempts bounds the collision-resolution loop. Hitting it means
// the owner already holds that many files with the same base name.
const maxStoreAttempts = 1000

// LocalStorage persists uploaded documents on disk, one subdirectory per
// owner under the storage root. Paths handed out are relative to the root
// and use forward slashes regardless of platform.
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage ensures the storage root exists and returns a handle.
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = "./user_files"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &LocalStorage{baseDir: baseDir}, nil
}

// Store writes the reader's content under the owner's directory. When the
// naturally derived path is taken, a numeric suffix is appended until an
// exclusive create succeeds, so two concurrent stores of the same name can
// never collide on one path.
func (s *LocalStorage) Store(ctx context.Context, ownerID, displayName string, r io.Reader, size int64) (string, error) {
	ownerDir := ownerSegment(ownerID)
	dir := filepath.Join(s.baseDir, ownerDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create owner directory: %w", err)
	}

	name := sanitizeFilename(displayName)
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	ext := filepath.Ext(name)

	for attempt := 0; attempt < maxStoreAttempts; attempt++ {
		candidate := name
		if attempt > 0 {
			candidate = fmt.Sprintf("%s_%d%s", stem, attempt, ext)
		}
		full := filepath.Join(dir, candidate)

		file, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create file %s: %w", candidate, err)
		}

		if _, err := io.Copy(file, r); err != nil {
			file.Close() //nolint:errcheck
			_ = os.Remove(full)
			return "", fmt.Errorf("write file %s: %w", candidate, err)
		}
		if err := file.Close(); err != nil {
			_ = os.Remove(full)
			return "", fmt.Errorf("close file %s: %w", candidate, err)
		}
		return path.Join(ownerDir, candidate), nil
	}

	return "", fmt.Errorf("no free path for %q after %d attempts", name, maxStoreAttempts)
}

// Open returns a read handle and the size of the stored file.
func (s *LocalStorage) Open(ctx context.Context, relPath string) (io.ReadCloser, int64, error) {
	full, err := s.resolve(relPath)
	if err != nil {
		return nil, 0, err
	}
	file, err := os.Open(full)
	if err != nil {
		return nil, 0, fmt.Errorf("open stored file: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close() //nolint:errcheck
		return nil, 0, fmt.Errorf("stat stored file: %w", err)
	}
	return file, info.Size(), nil
}

// Delete removes a stored file. A missing file is reported as fs.ErrNotExist
// so callers can tell "already gone" apart from an IO failure.
func (s *LocalStorage) Delete(ctx context.Context, relPath string) error {
	full, err := s.resolve(relPath)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("stored file %s: %w", relPath, fs.ErrNotExist)
		}
		return fmt.Errorf("delete stored file: %w", err)
	}
	return nil
}

// Path exposes the absolute on-disk path (useful for debugging).
func (s *LocalStorage) Path(relPath string) string {
	full, err := s.resolve(relPath)
	if err != nil {
		return filepath.Join(s.baseDir, relPath)
	}
	return full
}

// resolve joins relPath under the root and rejects anything escaping it.
func (s *LocalStorage) resolve(relPath string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(relPath))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes storage root", relPath)
	}
	return filepath.Join(s.baseDir, clean), nil
}

func ownerSegment(ownerID string) string {
	return "user_" + sanitizeFilename(ownerID)
}

// sanitizeFilename strips directory components and separator characters from
// a client-supplied name. The display name stored in metadata stays as the
// client sent it; only the on-disk name is cleaned.
func sanitizeFilename(raw string) string {
	base := filepath.Base(filepath.FromSlash(raw))
	base = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', 0:
			return '_'
		}
		return r
	}, base)
	if base == "" || base == "." || base == ".." {
		return "unnamed"
	}
	return base
}
