package editor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"club-site/internal/events/editor"
	"club-site/internal/events/media"
	"club-site/internal/logger"
	"club-site/internal/models"
)

// Mock implementations
type MockStore struct {
	mock.Mock
}

func (m *MockStore) ListEvents(ctx context.Context) ([]models.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Event), args.Error(1)
}

func (m *MockStore) GetEventByID(ctx context.Context, id string) (*models.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockStore) UpsertEvent(ctx context.Context, event models.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockStore) DeleteEvent(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) Remove(ctx context.Context, bucket string, paths []string) error {
	args := m.Called(ctx, bucket, paths)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishContentChanged(kind, action, id string) error {
	args := m.Called(kind, action, id)
	return args.Error(0)
}

type fakeUploader struct{}

func (fakeUploader) Upload(ctx context.Context, bucket, path string, data []byte, contentType string) error {
	return nil
}

func (fakeUploader) PublicURL(bucket, path string) string {
	return "https://host/storage/v1/object/public/" + bucket + "/" + path
}

func newEditor(store *MockStore, objects *MockObjectStore, publisher *MockPublisher) *editor.Editor {
	mgr := media.NewManager(fakeUploader{}, "event-images")
	return editor.New(store, objects, "event-images", mgr, publisher, logger.NewLogger())
}

func TestNewDraftDefaults(t *testing.T) {
	e := newEditor(new(MockStore), new(MockObjectStore), new(MockPublisher))

	e.NewDraft()

	assert.Equal(t, editor.Editing, e.Mode())
	draft, err := e.Draft()
	require.NoError(t, err)
	assert.Equal(t, models.StatusUpcoming, draft.Status)
	assert.Empty(t, draft.Gallery)
	assert.Equal(t, "", e.PickerValue())
}

func TestEditSeedsPickerFromStoredDate(t *testing.T) {
	mockStore := new(MockStore)
	e := newEditor(mockStore, new(MockObjectStore), new(MockPublisher))

	stored := &models.Event{
		ID:    "ev-1",
		Title: "Hack Night",
		Date:  "Wednesday, November 20, 2024",
		Image: "https://host/storage/v1/object/public/event-images/cover.jpg",
	}
	mockStore.On("GetEventByID", mock.Anything, "ev-1").Return(stored, nil)

	require.NoError(t, e.Edit(context.Background(), "ev-1"))
	assert.Equal(t, "2024-11-20", e.PickerValue())
	mockStore.AssertExpectations(t)
}

func TestEditWithUnparseableDateLeavesPickerBlank(t *testing.T) {
	mockStore := new(MockStore)
	e := newEditor(mockStore, new(MockObjectStore), new(MockPublisher))

	stored := &models.Event{ID: "ev-1", Date: "sometime in November"}
	mockStore.On("GetEventByID", mock.Anything, "ev-1").Return(stored, nil)

	require.NoError(t, e.Edit(context.Background(), "ev-1"))
	assert.Equal(t, "", e.PickerValue())
}

func TestSetDateRewritesDerivedFields(t *testing.T) {
	e := newEditor(new(MockStore), new(MockObjectStore), new(MockPublisher))
	e.NewDraft()

	require.NoError(t, e.SetDate("2024-11-20"))

	draft, err := e.Draft()
	require.NoError(t, err)
	assert.Equal(t, "Wednesday, November 20, 2024", draft.Date)
	assert.Equal(t, "NOV", draft.Month)
	assert.Equal(t, "20", draft.Day)
}

func TestSaveValidation(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(e *editor.Editor)
		wantErr error
	}{
		{
			name: "missing title",
			prepare: func(e *editor.Editor) {
				_ = e.SetDate("2030-01-15")
				_ = e.UploadCover(context.Background(), media.File{Name: "c.jpg", Data: []byte("x")})
			},
			wantErr: editor.ErrTitleRequired,
		},
		{
			name: "missing date",
			prepare: func(e *editor.Editor) {
				_ = e.SetTitle("Hack Night")
				_ = e.UploadCover(context.Background(), media.File{Name: "c.jpg", Data: []byte("x")})
			},
			wantErr: editor.ErrDateRequired,
		},
		{
			name: "missing cover",
			prepare: func(e *editor.Editor) {
				_ = e.SetTitle("Hack Night")
				_ = e.SetDate("2030-01-15")
			},
			wantErr: editor.ErrCoverRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStore := new(MockStore)
			e := newEditor(mockStore, new(MockObjectStore), new(MockPublisher))
			e.NewDraft()
			tt.prepare(e)

			err := e.Save(context.Background())

			assert.ErrorIs(t, err, tt.wantErr)
			// Validation failures never reach the store.
			mockStore.AssertNotCalled(t, "UpsertEvent", mock.Anything, mock.Anything)
		})
	}
}

func TestSaveUpsertsAndRefetches(t *testing.T) {
	mockStore := new(MockStore)
	mockPublisher := new(MockPublisher)
	e := newEditor(mockStore, new(MockObjectStore), mockPublisher)

	e.NewDraft()
	require.NoError(t, e.SetTitle("Hack Night"))
	require.NoError(t, e.SetDate("2030-01-15"))
	require.NoError(t, e.UploadCover(context.Background(), media.File{Name: "c.jpg", Data: []byte("x")}))

	var savedID string
	mockStore.On("UpsertEvent", mock.Anything, mock.MatchedBy(func(ev models.Event) bool {
		savedID = ev.ID
		return ev.Title == "Hack Night" && ev.ID != ""
	})).Return(nil)
	mockStore.On("ListEvents", mock.Anything).Return([]models.Event{{ID: "ev-1"}}, nil)
	mockPublisher.On("PublishContentChanged", "event", "upsert", mock.Anything).Return(nil)

	require.NoError(t, e.Save(context.Background()))

	assert.Equal(t, editor.Idle, e.Mode())
	assert.Len(t, e.Listing(), 1)
	assert.NotEmpty(t, savedID, "new drafts get a generated ID")
	mockStore.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestSaveStoreErrorKeepsEditing(t *testing.T) {
	mockStore := new(MockStore)
	e := newEditor(mockStore, new(MockObjectStore), new(MockPublisher))

	e.NewDraft()
	require.NoError(t, e.SetTitle("Hack Night"))
	require.NoError(t, e.SetDate("2030-01-15"))
	require.NoError(t, e.UploadCover(context.Background(), media.File{Name: "c.jpg", Data: []byte("x")}))

	mockStore.On("UpsertEvent", mock.Anything, mock.Anything).Return(errors.New("store unreachable"))

	err := e.Save(context.Background())

	assert.Error(t, err)
	assert.Equal(t, editor.Editing, e.Mode(), "a failed save returns control to the editor")

	// The user may retry.
	_, draftErr := e.Draft()
	assert.NoError(t, draftErr)
}

func TestDeleteCleansStorageThenDeletesRecord(t *testing.T) {
	mockStore := new(MockStore)
	mockObjects := new(MockObjectStore)
	mockPublisher := new(MockPublisher)
	e := newEditor(mockStore, mockObjects, mockPublisher)

	stored := &models.Event{
		ID:    "ev-1",
		Image: "https://host/storage/v1/object/public/event-images/abc.jpg",
		Gallery: []string{
			"https://host/storage/v1/object/public/event-images/g1.jpg",
			"https://other-host/not-our-bucket/g2.jpg",
		},
	}
	mockStore.On("GetEventByID", mock.Anything, "ev-1").Return(stored, nil)
	mockObjects.On("Remove", mock.Anything, "event-images", []string{"abc.jpg", "g1.jpg"}).Return(nil)
	mockStore.On("DeleteEvent", mock.Anything, "ev-1").Return(nil)
	mockStore.On("ListEvents", mock.Anything).Return([]models.Event{}, nil)
	mockPublisher.On("PublishContentChanged", "event", "delete", "ev-1").Return(nil)

	require.NoError(t, e.Delete(context.Background(), "ev-1"))

	mockStore.AssertExpectations(t)
	mockObjects.AssertExpectations(t)
}

func TestDeleteProceedsWhenStorageCleanupFails(t *testing.T) {
	mockStore := new(MockStore)
	mockObjects := new(MockObjectStore)
	mockPublisher := new(MockPublisher)
	e := newEditor(mockStore, mockObjects, mockPublisher)

	stored := &models.Event{
		ID:    "ev-1",
		Image: "https://host/storage/v1/object/public/event-images/abc.jpg",
	}
	mockStore.On("GetEventByID", mock.Anything, "ev-1").Return(stored, nil)
	mockObjects.On("Remove", mock.Anything, "event-images", []string{"abc.jpg"}).
		Return(errors.New("storage down"))
	mockStore.On("DeleteEvent", mock.Anything, "ev-1").Return(nil)
	mockStore.On("ListEvents", mock.Anything).Return([]models.Event{}, nil)
	mockPublisher.On("PublishContentChanged", "event", "delete", "ev-1").Return(nil)

	// The record delete is authoritative; cleanup is advisory.
	require.NoError(t, e.Delete(context.Background(), "ev-1"))
	mockStore.AssertExpectations(t)
}

func TestSectionEditingKeepsDescriptionEncoded(t *testing.T) {
	e := newEditor(new(MockStore), new(MockObjectStore), new(MockPublisher))
	e.NewDraft()

	require.NoError(t, e.AddSection())
	require.NoError(t, e.SetSectionHeading(1, "Agenda"))
	require.NoError(t, e.SetSectionContent(1, "Doors at noon"))

	draft, err := e.Draft()
	require.NoError(t, err)
	assert.Equal(t, uint8('['), draft.Description[0], "draft holds the encoded form")

	secs, err := e.Sections()
	require.NoError(t, err)
	require.Len(t, secs, 2)
	assert.Equal(t, "Agenda", secs[1].Heading)
}

func TestDraftOperationsRequireEditingMode(t *testing.T) {
	e := newEditor(new(MockStore), new(MockObjectStore), new(MockPublisher))

	assert.ErrorIs(t, e.SetTitle("x"), editor.ErrNotEditing)
	assert.ErrorIs(t, e.Save(context.Background()), editor.ErrNotEditing)
	_, err := e.UploadGallery(context.Background(), nil)
	assert.ErrorIs(t, err, editor.ErrNotEditing)
}

// blockingUploader parks every upload until released, so tests can
// hold the busy slot open.
type blockingUploader struct {
	entered chan struct{}
	release chan struct{}
}

func newBlockingUploader() *blockingUploader {
	return &blockingUploader{
		entered: make(chan struct{}, 8),
		release: make(chan struct{}),
	}
}

func (u *blockingUploader) Upload(ctx context.Context, bucket, path string, data []byte, contentType string) error {
	u.entered <- struct{}{}
	<-u.release
	return nil
}

func (u *blockingUploader) PublicURL(bucket, path string) string {
	return "https://host/storage/v1/object/public/" + bucket + "/" + path
}

func newBlockingEditor(store *MockStore, up *blockingUploader) *editor.Editor {
	mgr := media.NewManager(up, "event-images")
	return editor.New(store, new(MockObjectStore), "event-images", mgr, nil, logger.NewLogger())
}

func TestBusyFlagGatesResubmission(t *testing.T) {
	up := newBlockingUploader()
	e := newBlockingEditor(new(MockStore), up)
	e.NewDraft()

	done := make(chan error, 1)
	go func() {
		_, err := e.UploadGallery(context.Background(), []media.File{{Name: "g.jpg", Data: []byte("x")}})
		done <- err
	}()
	<-up.entered // upload is now in flight

	assert.ErrorIs(t, e.Save(context.Background()), editor.ErrBusy)
	assert.ErrorIs(t, e.UploadCover(context.Background(), media.File{Name: "c.jpg", Data: []byte("x")}), editor.ErrBusy)
	_, err := e.UploadGallery(context.Background(), []media.File{{Name: "h.jpg", Data: []byte("x")}})
	assert.ErrorIs(t, err, editor.ErrBusy)
	assert.ErrorIs(t, e.Cancel(), editor.ErrBusy)

	close(up.release)
	require.NoError(t, <-done)

	// The slot frees once the upload finishes.
	require.NoError(t, e.Cancel())
	assert.Equal(t, editor.Idle, e.Mode())
}

func TestGalleryRemovalDuringUploadIsPreserved(t *testing.T) {
	mockStore := new(MockStore)
	up := newBlockingUploader()
	e := newBlockingEditor(mockStore, up)

	first := "https://host/storage/v1/object/public/event-images/g1.jpg"
	second := "https://host/storage/v1/object/public/event-images/g2.jpg"
	stored := &models.Event{
		ID:      "ev-1",
		Image:   "https://host/storage/v1/object/public/event-images/cover.jpg",
		Gallery: []string{first, second},
	}
	mockStore.On("GetEventByID", mock.Anything, "ev-1").Return(stored, nil)
	require.NoError(t, e.Edit(context.Background(), "ev-1"))

	done := make(chan error, 1)
	go func() {
		_, err := e.UploadGallery(context.Background(), []media.File{{Name: "g3.jpg", Data: []byte("x")}})
		done <- err
	}()
	<-up.entered

	// Field edits stay allowed while an upload is in flight, and the
	// removal survives the upload completing.
	require.NoError(t, e.RemoveGalleryImage(0))

	close(up.release)
	require.NoError(t, <-done)

	draft, err := e.Draft()
	require.NoError(t, err)
	require.Len(t, draft.Gallery, 2)
	assert.NotContains(t, draft.Gallery, first)
	assert.Equal(t, second, draft.Gallery[0])
	assert.Contains(t, draft.Gallery[1], "event-images/")
}

func TestGalleryCapThroughEditor(t *testing.T) {
	e := newEditor(new(MockStore), new(MockObjectStore), new(MockPublisher))
	e.NewDraft()

	require.NoError(t, e.UploadCover(context.Background(), media.File{Name: "c.jpg", Data: []byte("x")}))

	nine := make([]media.File, 9)
	for i := range nine {
		nine[i] = media.File{Name: "g.jpg", Data: []byte("x")}
	}
	_, err := e.UploadGallery(context.Background(), nine)
	require.NoError(t, err)

	// Cover + 9 gallery images is the cap; two more must be refused in full.
	_, err = e.UploadGallery(context.Background(), []media.File{
		{Name: "a.jpg", Data: []byte("x")},
		{Name: "b.jpg", Data: []byte("x")},
	})
	assert.ErrorIs(t, err, media.ErrGalleryFull)

	draft, _ := e.Draft()
	assert.Len(t, draft.Gallery, 9)
}
