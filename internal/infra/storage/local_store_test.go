package storage

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"userhub/config"
	domainerrors "userhub/internal/domain/errors"
	"userhub/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngContent = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x01}

func newTestStore(t *testing.T) service.FileStore {
	t.Helper()

	cfg := &config.Config{
		Storage: &config.StorageConfig{
			RootPath:          t.TempDir(),
			MaxUploadSize:     1024,
			AllowedExtensions: []string{".jpg", ".png", ".gif", ".pdf"},
		},
	}

	store, err := NewLocalStore(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	return store
}

func TestLocalStore_StoreAndLoad(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	stored, err := store.Store(ctx, pngContent, "image/png", "avatar.png", "avatars")
	require.NoError(t, err)

	assert.NotEqual(t, "avatar.png", stored.Name, "stored name must be generated")
	assert.Equal(t, "avatar.png", stored.OriginalName)
	assert.EqualValues(t, len(pngContent), stored.Size)
	assert.Contains(t, stored.Path, "avatars/")

	loaded, err := store.Load(ctx, stored.Path)
	require.NoError(t, err)
	assert.Equal(t, pngContent, loaded)
}

func TestLocalStore_RejectsEmptyContent(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	_, err := store.Store(context.Background(), nil, "image/png", "avatar.png", "")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidFile)
}

func TestLocalStore_RejectsOversizedContent(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	big := append(append([]byte{}, pngContent...), make([]byte, 2048)...)
	_, err := store.Store(context.Background(), big, "image/png", "avatar.png", "")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidFile)
}

func TestLocalStore_RejectsDisallowedExtension(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	_, err := store.Store(context.Background(), pngContent, "image/png", "avatar.exe", "")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidFile)
}

func TestLocalStore_RejectsSignatureMismatch(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	// Declared JPEG but the bytes start with the PNG signature.
	_, err := store.Store(context.Background(), pngContent, "image/jpeg", "photo.jpg", "")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidFile)
}

func TestLocalStore_AcceptsKnownSignatures(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		contentType string
		filename    string
		content     []byte
	}{
		{contentType: "image/jpeg", filename: "a.jpg", content: []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x01}},
		{contentType: "image/gif", filename: "a.gif", content: []byte("GIF89a...")},
		{contentType: "application/pdf", filename: "a.pdf", content: []byte("%PDF-1.7 x")},
	}

	for _, tt := range tests {
		_, err := store.Store(ctx, tt.content, tt.contentType, tt.filename, "")
		assert.NoError(t, err, tt.contentType)
	}
}

func TestLocalStore_TraversalFailsClosed(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	ref := "../../etc/passwd"

	_, err := store.Load(ctx, ref)
	assert.ErrorIs(t, err, domainerrors.ErrPathOutsideRoot)

	err = store.Delete(ctx, ref)
	assert.ErrorIs(t, err, domainerrors.ErrPathOutsideRoot)

	_, err = store.GetInfo(ctx, ref)
	assert.ErrorIs(t, err, domainerrors.ErrPathOutsideRoot)

	_, err = store.List(ctx, "../..")
	assert.ErrorIs(t, err, domainerrors.ErrPathOutsideRoot)
}

func TestLocalStore_LoadMissingFile(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	_, err := store.Load(context.Background(), "no-such-file.png")
	assert.ErrorIs(t, err, domainerrors.ErrFileNotFound)
}

func TestLocalStore_ListAndGetInfo(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.Store(ctx, pngContent, "image/png", "one.png", "avatars")
	require.NoError(t, err)
	_, err = store.Store(ctx, pngContent, "image/png", "two.png", "")
	require.NoError(t, err)

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	scoped, err := store.List(ctx, "avatars")
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, first.Path, scoped[0].Path)

	info, err := store.GetInfo(ctx, first.Path)
	require.NoError(t, err)
	assert.EqualValues(t, len(pngContent), info.Size)
}

func TestLocalStore_CleanupOlderThan(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	cfg := &config.Config{
		Storage: &config.StorageConfig{
			RootPath:          root,
			MaxUploadSize:     1024,
			AllowedExtensions: []string{".png"},
		},
	}
	store, err := NewLocalStore(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	ctx := context.Background()

	old, err := store.Store(ctx, pngContent, "image/png", "old.png", "")
	require.NoError(t, err)
	fresh, err := store.Store(ctx, pngContent, "image/png", "fresh.png", "")
	require.NoError(t, err)

	// Age one file past the cutoff.
	stale := time.Now().AddDate(0, 0, -10)
	require.NoError(t, os.Chtimes(filepath.Join(root, old.Path), stale, stale))

	removed, err := store.CleanupOlderThan(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = store.Load(ctx, old.Path)
	assert.ErrorIs(t, err, domainerrors.ErrFileNotFound)
	_, err = store.Load(ctx, fresh.Path)
	assert.NoError(t, err)
}
