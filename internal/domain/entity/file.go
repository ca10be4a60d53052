// Package entity contains the core business objects of the project.
package entity

import "time"

// StoredFile describes one artifact kept by the file store, e.g. an avatar.
// The store exclusively owns the mapping from the relative Path to the
// backing location on disk; accounts only carry the reference.
type StoredFile struct {
	Name         string    // Generated unique stored name, never the client's filename.
	OriginalName string    // The filename supplied by the uploader, kept for display.
	ContentType  string    // Declared MIME type, verified against the content signature.
	Size         int64     // Size of the stored content in bytes.
	Path         string    // Path relative to the storage root.
	ModTime      time.Time // Last modification time reported by the backing storage.
}
