// Package editor is the admin event editor: a draft-holding state
// machine over the events table, the image set manager, and the date
// and section codecs. The remote store stays the single source of
// truth: every successful write is followed by a wholesale refetch
// of the listing, never an optimistic merge.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"club-site/internal/events/datefmt"
	"club-site/internal/events/media"
	"club-site/internal/events/sections"
	"club-site/internal/logger"
	"club-site/internal/models"
	"club-site/internal/storage"
	"club-site/internal/utils"
)

// Validation failures surface before any store call is made.
var (
	ErrTitleRequired = errors.New("title is required")
	ErrDateRequired  = errors.New("date is required")
	ErrCoverRequired = errors.New("cover image is required")

	// ErrBusy rejects a save or upload while another is outstanding.
	ErrBusy = errors.New("a save or upload is already in progress")

	// ErrNotEditing rejects draft operations outside Editing mode.
	ErrNotEditing = errors.New("no draft is open")
)

type Mode int

const (
	Idle Mode = iota
	Editing
)

// Store is the slice of the events db layer the editor needs.
type Store interface {
	ListEvents(ctx context.Context) ([]models.Event, error)
	GetEventByID(ctx context.Context, id string) (*models.Event, error)
	UpsertEvent(ctx context.Context, event models.Event) error
	DeleteEvent(ctx context.Context, id string) error
}

// ObjectStore removes stored objects during event deletion.
type ObjectStore interface {
	Remove(ctx context.Context, bucket string, paths []string) error
}

// Publisher announces content changes; failures are logged, never fatal.
type Publisher interface {
	PublishContentChanged(kind, action, id string) error
}

type Editor struct {
	store     Store
	objects   ObjectStore
	bucket    string
	media     *media.Manager
	publisher Publisher
	logger    *logger.Logger

	mu      sync.Mutex
	mode    Mode
	draft   *models.Event
	picker  string // calendar input value, yyyy-mm-dd
	busy    bool
	listing []models.Event
}

func New(store Store, objects ObjectStore, bucket string, mediaMgr *media.Manager, publisher Publisher, log *logger.Logger) *Editor {
	return &Editor{
		store:     store,
		objects:   objects,
		bucket:    bucket,
		media:     mediaMgr,
		publisher: publisher,
		logger:    log,
	}
}

// Refresh reloads the listing from the store, replacing it wholesale.
func (e *Editor) Refresh(ctx context.Context) error {
	events, err := e.store.ListEvents(ctx)
	if err != nil {
		return fmt.Errorf("failed to load events: %w", err)
	}
	e.mu.Lock()
	e.listing = events
	e.mu.Unlock()
	return nil
}

// Listing returns the last fetched event list.
func (e *Editor) Listing() []models.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.listing
}

func (e *Editor) Mode() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// NewDraft opens the editor on a fresh draft.
func (e *Editor) NewDraft() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft = &models.Event{
		Status:  models.StatusUpcoming,
		Gallery: []string{},
	}
	e.picker = ""
	e.mode = Editing
}

// Edit loads an existing record into the draft, seeding the calendar
// input by inverse-parsing the stored long-form date. A stored date
// that does not parse leaves the input blank rather than failing.
func (e *Editor) Edit(ctx context.Context, id string) error {
	event, err := e.store.GetEventByID(ctx, id)
	if err != nil {
		return fmt.Errorf("event %s not found: %w", id, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	draft := *event
	if draft.Gallery == nil {
		draft.Gallery = []string{}
	}
	e.draft = &draft
	e.picker = datefmt.PickerValue(event.Date)
	e.mode = Editing
	return nil
}

// Cancel discards the draft and returns to Idle. It refuses while a
// save or upload is in flight, so those never see the draft vanish.
func (e *Editor) Cancel() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.busy {
		return ErrBusy
	}
	e.draft = nil
	e.picker = ""
	e.mode = Idle
	return nil
}

// Draft returns a copy of the open draft.
func (e *Editor) Draft() (models.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode != Editing || e.draft == nil {
		return models.Event{}, ErrNotEditing
	}
	return *e.draft, nil
}

// PickerValue returns the current calendar input value.
func (e *Editor) PickerValue() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.picker
}

// SetTitle updates the draft title.
func (e *Editor) SetTitle(title string) error {
	return e.mutate(func(d *models.Event) { d.Title = title })
}

// SetDate runs the date transcoder: the long-form date, the month and
// day badge tokens, and the status classification are all rewritten
// from the picked calendar value. An unparseable value changes
// nothing.
func (e *Editor) SetDate(picker string) error {
	return e.mutate(func(d *models.Event) {
		e.picker = picker
		picked, ok := datefmt.ParsePicker(picker)
		if !ok {
			return
		}
		fields := datefmt.Transcode(picked)
		d.Date = fields.Date
		d.Month = fields.Month
		d.Day = fields.Day
		d.Status = fields.Status
	})
}

// SetTime accepts the editable 24-hour value and stores the 12-hour
// display form; an empty or unparseable value clears the field.
func (e *Editor) SetTime(input string) error {
	return e.mutate(func(d *models.Event) {
		d.Time = datefmt.InputToDisplayTime(input)
	})
}

// EditableTime converts the stored 12-hour time back for the form.
func (e *Editor) EditableTime() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.draft == nil {
		return ""
	}
	return datefmt.DisplayToInputTime(e.draft.Time)
}

func (e *Editor) SetLocation(location string) error {
	return e.mutate(func(d *models.Event) { d.Location = location })
}

func (e *Editor) SetRegisterLink(url string) error {
	return e.mutate(func(d *models.Event) { d.RegisterLink = url })
}

func (e *Editor) SetGalleryLink(url string) error {
	return e.mutate(func(d *models.Event) { d.GalleryLink = url })
}

func (e *Editor) SetFeatured(featured bool) error {
	return e.mutate(func(d *models.Event) { d.IsFeatured = featured })
}

// Section operations re-encode immediately; the draft always holds
// the canonical encoded description, never a parsed structure.

func (e *Editor) AddSection() error {
	return e.mutate(func(d *models.Event) {
		d.Description = sections.Append(d.Description)
	})
}

func (e *Editor) RemoveSection(index int) error {
	return e.mutate(func(d *models.Event) {
		d.Description = sections.Remove(d.Description, index)
	})
}

func (e *Editor) SetSectionHeading(index int, heading string) error {
	return e.mutate(func(d *models.Event) {
		d.Description = sections.SetHeading(d.Description, index, heading)
	})
}

func (e *Editor) SetSectionContent(index int, content string) error {
	return e.mutate(func(d *models.Event) {
		d.Description = sections.SetContent(d.Description, index, content)
	})
}

// Sections presents the draft description as structured content.
func (e *Editor) Sections() ([]sections.Section, error) {
	draft, err := e.Draft()
	if err != nil {
		return nil, err
	}
	return sections.Decode(draft.Description).Sections(), nil
}

// Uploads run against a private copy of the draft so that no write
// lands on the shared struct while e.mu is not held; the results are
// applied back under the lock once the network work is done. Field
// edits stay allowed during an upload, only the busy flag serializes
// uploads and saves against each other.

// UploadCover replaces the draft's cover image.
func (e *Editor) UploadCover(ctx context.Context, f media.File) error {
	release, err := e.acquire()
	if err != nil {
		return err
	}
	defer release()

	scratch := e.snapshot()
	if err := e.media.UploadCover(ctx, &scratch, f); err != nil {
		return err
	}

	e.mu.Lock()
	e.draft.Image = scratch.Image
	e.mu.Unlock()
	return nil
}

// UploadGallery appends a batch to the draft's gallery, subject to the
// combined cap. The cap is checked against the draft as it was when
// the upload started; concurrent removals only shrink the count.
func (e *Editor) UploadGallery(ctx context.Context, files []media.File) (media.GalleryResult, error) {
	release, err := e.acquire()
	if err != nil {
		return media.GalleryResult{}, err
	}
	defer release()

	scratch := e.snapshot()
	result, err := e.media.UploadGallery(ctx, &scratch, files)
	if err != nil {
		return result, err
	}

	e.mu.Lock()
	e.draft.Gallery = append(e.draft.Gallery, result.URLs...)
	e.mu.Unlock()

	for _, f := range result.Failed {
		e.logger.Error("EDITOR", fmt.Sprintf("gallery upload failed for %s: %v", f.Name, f.Err))
	}
	return result, nil
}

func (e *Editor) RemoveGalleryImage(index int) error {
	return e.mutate(func(d *models.Event) {
		media.RemoveGalleryImage(d, index)
	})
}

// Save validates the draft, upserts it, refetches the listing and
// returns to Idle. Validation failures make no store call.
func (e *Editor) Save(ctx context.Context) error {
	release, err := e.acquire()
	if err != nil {
		return err
	}
	defer release()

	draft := e.snapshot()

	if err := validate(draft); err != nil {
		return err
	}

	if draft.ID == "" {
		draft.ID = utils.NewRecordID()
	}

	if err := e.store.UpsertEvent(ctx, draft); err != nil {
		return fmt.Errorf("failed to save event: %w", err)
	}

	if e.publisher != nil {
		if err := e.publisher.PublishContentChanged("event", "upsert", draft.ID); err != nil {
			e.logger.Warn("EDITOR", fmt.Sprintf("content change publish failed: %v", err))
		}
	}

	e.mu.Lock()
	e.draft = nil
	e.picker = ""
	e.mode = Idle
	e.mu.Unlock()

	return e.Refresh(ctx)
}

// Delete removes an event. Storage cleanup and record deletion are
// two independent operations with no cross-system transaction: the
// image objects are removed best-effort (failures logged), then the
// database record is deleted unconditionally. A cleanup failure can
// orphan objects; it never blocks the delete.
func (e *Editor) Delete(ctx context.Context, id string) error {
	event, err := e.store.GetEventByID(ctx, id)
	if err != nil {
		return fmt.Errorf("event %s not found: %w", id, err)
	}

	var paths []string
	if p, ok := storage.PathFromPublicURL(event.Image, e.bucket); ok {
		paths = append(paths, p)
	}
	for _, url := range event.Gallery {
		if p, ok := storage.PathFromPublicURL(url, e.bucket); ok {
			paths = append(paths, p)
		}
	}

	if len(paths) > 0 {
		if err := e.objects.Remove(ctx, e.bucket, paths); err != nil {
			e.logger.Error("EDITOR", fmt.Sprintf("storage cleanup for event %s failed (objects may be orphaned): %v", id, err))
		}
	}

	if err := e.store.DeleteEvent(ctx, id); err != nil {
		return fmt.Errorf("failed to delete event %s: %w", id, err)
	}

	if e.publisher != nil {
		if err := e.publisher.PublishContentChanged("event", "delete", id); err != nil {
			e.logger.Warn("EDITOR", fmt.Sprintf("content change publish failed: %v", err))
		}
	}

	return e.Refresh(ctx)
}

func validate(draft models.Event) error {
	if draft.Title == "" {
		return ErrTitleRequired
	}
	if draft.Date == "" {
		return ErrDateRequired
	}
	if draft.Image == "" {
		return ErrCoverRequired
	}
	return nil
}

// snapshot copies the draft with its own gallery backing array, for
// work done outside the lock. Callers hold the busy slot, which keeps
// the draft from being closed underneath them.
func (e *Editor) snapshot() models.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	copied := *e.draft
	copied.Gallery = append([]string(nil), e.draft.Gallery...)
	return copied
}

// acquire takes the busy slot for a save or upload; the returned
// release must be deferred. Requires an open draft.
func (e *Editor) acquire() (func(), error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode != Editing || e.draft == nil {
		return nil, ErrNotEditing
	}
	if e.busy {
		return nil, ErrBusy
	}
	e.busy = true
	return func() {
		e.mu.Lock()
		e.busy = false
		e.mu.Unlock()
	}, nil
}

func (e *Editor) mutate(fn func(d *models.Event)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode != Editing || e.draft == nil {
		return ErrNotEditing
	}
	fn(e.draft)
	return nil
}
