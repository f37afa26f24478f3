// Package media manages an event's image set: one cover plus an
// ordered gallery, capped at a combined maximum. Uploads go to object
// storage under randomly generated names; the draft records the
// resulting public URLs, never storage keys.
package media

import (
	"context"
	"errors"
	"fmt"

	"club-site/internal/models"
	"club-site/internal/utils"
)

// MaxImages caps cover + gallery combined.
const MaxImages = 10

// ErrGalleryFull rejects a gallery batch that would push the combined
// image count past the cap. The whole batch is refused; nothing is
// uploaded.
var ErrGalleryFull = fmt.Errorf("a maximum of %d images total (cover + gallery) is allowed", MaxImages)

var errNoFile = errors.New("no file provided")

// Uploader is the slice of the storage client the manager needs.
type Uploader interface {
	Upload(ctx context.Context, bucket, path string, data []byte, contentType string) error
	PublicURL(bucket, path string) string
}

// File is one image selected for upload.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// FileError reports a single failed gallery upload.
type FileError struct {
	Name string
	Err  error
}

// GalleryResult reports a gallery batch: URLs that made it into the
// draft and per-file failures that did not abort the rest.
type GalleryResult struct {
	URLs   []string
	Failed []FileError
}

type Manager struct {
	uploader Uploader
	bucket   string
}

func NewManager(uploader Uploader, bucket string) *Manager {
	return &Manager{uploader: uploader, bucket: bucket}
}

// UploadCover stores a replacement cover image and rewrites the
// draft's cover URL. Replacing never changes the combined count, so
// the cap is not checked. A failed upload leaves the draft untouched.
func (m *Manager) UploadCover(ctx context.Context, draft *models.Event, f File) error {
	if len(f.Data) == 0 {
		return errNoFile
	}

	path := utils.RandomObjectName(f.Name)
	if err := m.uploader.Upload(ctx, m.bucket, path, f.Data, f.ContentType); err != nil {
		return fmt.Errorf("cover upload failed: %w", err)
	}

	draft.Image = m.uploader.PublicURL(m.bucket, path)
	return nil
}

// UploadGallery appends a batch of images to the draft's gallery. A
// batch that would exceed the cap is rejected in full before any
// upload is attempted. Individual upload failures are collected and
// reported without aborting the remaining files.
func (m *Manager) UploadGallery(ctx context.Context, draft *models.Event, files []File) (GalleryResult, error) {
	if len(files) == 0 {
		return GalleryResult{}, nil
	}

	if m.Count(draft)+len(files) > MaxImages {
		return GalleryResult{}, ErrGalleryFull
	}

	var result GalleryResult
	for _, f := range files {
		path := utils.RandomObjectName(f.Name)
		if err := m.uploader.Upload(ctx, m.bucket, path, f.Data, f.ContentType); err != nil {
			result.Failed = append(result.Failed, FileError{Name: f.Name, Err: err})
			continue
		}
		url := m.uploader.PublicURL(m.bucket, path)
		result.URLs = append(result.URLs, url)
		draft.Gallery = append(draft.Gallery, url)
	}

	return result, nil
}

// RemoveGalleryImage drops the image at index from the in-memory
// draft only. The remote object stays; cleanup happens at record
// deletion.
func RemoveGalleryImage(draft *models.Event, index int) {
	if index < 0 || index >= len(draft.Gallery) {
		return
	}
	draft.Gallery = append(draft.Gallery[:index], draft.Gallery[index+1:]...)
}

// Count reports the combined image count: gallery plus the cover when
// one is set.
func (m *Manager) Count(draft *models.Event) int {
	n := len(draft.Gallery)
	if draft.Image != "" {
		n++
	}
	return n
}
