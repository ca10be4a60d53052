// Package storage implements the file store on the local filesystem.
package storage

import (
	"bytes"
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"userhub/config"
	"userhub/internal/domain/entity"
	domainerrors "userhub/internal/domain/errors"
	"userhub/internal/domain/service"
	"userhub/internal/errors"
	"userhub/internal/util"

	"github.com/google/uuid"
)

// signatures maps a declared content type to the magic-number prefix the
// actual bytes must start with.
var signatures = map[string][]byte{
	"image/jpeg":      {0xFF, 0xD8},
	"image/png":       {0x89, 0x50, 0x4E, 0x47},
	"image/gif":       []byte("GIF8"),
	"application/pdf": []byte("%PDF-"),
}

// localStore keeps every artifact under one root directory and exclusively
// owns the mapping from relative reference to the location on disk. Every
// operation re-resolves and re-checks containment before touching storage.
type localStore struct {
	root        string // absolute storage root
	maxSize     int64
	allowedExts map[string]bool
	logger      *slog.Logger
}

// NewLocalStore is the constructor for localStore. It resolves the root to
// an absolute path and creates it when missing.
func NewLocalStore(cfg *config.Config, logger *slog.Logger) (service.FileStore, error) {
	if cfg.Storage == nil || cfg.Storage.RootPath == "" {
		return nil, errors.New("storage root path must be configured")
	}

	root, err := filepath.Abs(cfg.Storage.RootPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve storage root")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create storage root")
	}

	allowed := make(map[string]bool, len(cfg.Storage.AllowedExtensions))
	for _, ext := range cfg.Storage.AllowedExtensions {
		allowed[strings.ToLower(ext)] = true
	}

	return &localStore{
		root:        root,
		maxSize:     cfg.Storage.MaxUploadSize,
		allowedExts: allowed,
		logger:      logger,
	}, nil
}

// resolve turns a storage-relative reference into an absolute path, failing
// closed when the resolution escapes the root (e.g. via ".." sequences).
func (s *localStore) resolve(ref string) (string, error) {
	abs, err := filepath.Abs(filepath.Join(s.root, filepath.FromSlash(ref)))
	if err != nil {
		return "", domainerrors.ErrPathOutsideRoot.WithDetails(ref)
	}
	if abs != s.root && !strings.HasPrefix(abs, s.root+string(filepath.Separator)) {
		return "", domainerrors.ErrPathOutsideRoot.WithDetails(ref)
	}

	return abs, nil
}

// Store validates and persists content under a generated collision-free
// name. The write is temp-then-rename, so a failed write never leaves a
// partial file visible under its final name.
func (s *localStore) Store(ctx context.Context, content []byte, contentType, filename, subdir string) (*entity.StoredFile, error) {
	if len(content) == 0 {
		return nil, domainerrors.ErrInvalidFile.WithDetails("content is empty")
	}
	if s.maxSize > 0 && int64(len(content)) > s.maxSize {
		return nil, domainerrors.ErrInvalidFile.WithDetails("content exceeds the size limit")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" || !s.allowedExts[ext] {
		return nil, domainerrors.ErrInvalidFile.WithDetails("file extension is not allowed")
	}

	signature, known := signatures[strings.ToLower(contentType)]
	if !known {
		return nil, domainerrors.ErrInvalidFile.WithDetails("unrecognized content type")
	}
	if !bytes.HasPrefix(content, signature) {
		return nil, domainerrors.ErrInvalidFile.WithDetails("content does not match its declared type")
	}

	storedName := uuid.NewString() + ext
	relPath := storedName
	if subdir != "" {
		relPath = filepath.ToSlash(filepath.Join(subdir, storedName))
	}

	target, err := s.resolve(relPath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create storage subdirectory")
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create temp file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)

		return nil, errors.Wrap(err, "failed to write upload")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)

		return nil, errors.Wrap(err, "failed to close upload")
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)

		return nil, errors.Wrap(err, "failed to place upload")
	}

	checksum, err := util.CalculateFileChecksum(target)
	if err != nil {
		os.Remove(target)

		return nil, errors.Wrap(err, "failed to checksum upload")
	}

	s.logger.Debug("Stored file",
		"path", relPath,
		"size", util.FormatBytes(int64(len(content))),
		"contentType", contentType,
		"checksum", checksum,
	)

	return &entity.StoredFile{
		Name:         storedName,
		OriginalName: filename,
		ContentType:  contentType,
		Size:         int64(len(content)),
		Path:         relPath,
		ModTime:      time.Now(),
	}, nil
}

// Load reads back the content behind a stored reference.
func (s *localStore) Load(_ context.Context, ref string) ([]byte, error) {
	path, err := s.resolve(ref)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domainerrors.ErrFileNotFound.WithDetails(ref)
		}

		return nil, errors.Wrap(err, "failed to read file")
	}

	return content, nil
}

// Delete removes the file behind a stored reference.
func (s *localStore) Delete(_ context.Context, ref string) error {
	path, err := s.resolve(ref)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return domainerrors.ErrFileNotFound.WithDetails(ref)
		}

		return errors.Wrap(err, "failed to delete file")
	}

	return nil
}

// GetInfo describes the file behind a stored reference without reading it.
func (s *localStore) GetInfo(_ context.Context, ref string) (*entity.StoredFile, error) {
	path, err := s.resolve(ref)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domainerrors.ErrFileNotFound.WithDetails(ref)
		}

		return nil, errors.Wrap(err, "failed to stat file")
	}

	return &entity.StoredFile{
		Name:    info.Name(),
		Size:    info.Size(),
		Path:    ref,
		ModTime: info.ModTime(),
	}, nil
}

// List enumerates stored files, optionally restricted to one subdirectory.
func (s *localStore) List(_ context.Context, subdir string) ([]*entity.StoredFile, error) {
	base, err := s.resolve(subdir)
	if err != nil {
		return nil, err
	}

	var files []*entity.StoredFile
	err = filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return filepath.SkipAll
			}

			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".upload-") {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}

		files = append(files, &entity.StoredFile{
			Name:    d.Name(),
			Size:    info.Size(),
			Path:    filepath.ToSlash(rel),
			ModTime: info.ModTime(),
		})

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list files")
	}

	return files, nil
}

// CleanupOlderThan removes files whose modification time is older than the
// given number of days. Idempotent and safe to drive from a periodic timer.
func (s *localStore) CleanupOlderThan(ctx context.Context, days int) (int, error) {
	if days < 0 {
		return 0, errors.New("days must not be negative")
	}

	files, err := s.List(ctx, "")
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	removed := 0
	for _, f := range files {
		if !f.ModTime.Before(cutoff) {
			continue
		}
		if err := s.Delete(ctx, f.Path); err != nil {
			s.logger.Warn("Failed to remove stale file", "path", f.Path, "error", err)

			continue
		}
		removed++
	}

	return removed, nil
}
