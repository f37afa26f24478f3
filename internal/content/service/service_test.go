package content_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	content "club-site/internal/content/service"
	"club-site/internal/events/media"
	"club-site/internal/logger"
	"club-site/internal/models"
)

func mediaFile(name string) media.File {
	return media.File{Name: name, ContentType: "image/jpeg", Data: []byte("x")}
}

type MockDBLayer struct {
	mock.Mock
}

func (m *MockDBLayer) ListTeamMembers(ctx context.Context) ([]models.TeamMember, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TeamMember), args.Error(1)
}

func (m *MockDBLayer) GetTeamMemberByID(ctx context.Context, id string) (*models.TeamMember, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TeamMember), args.Error(1)
}

func (m *MockDBLayer) UpsertTeamMember(ctx context.Context, member models.TeamMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockDBLayer) DeleteTeamMember(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDBLayer) ListFAQs(ctx context.Context) ([]models.FAQ, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FAQ), args.Error(1)
}

func (m *MockDBLayer) UpsertFAQ(ctx context.Context, faq models.FAQ) error {
	args := m.Called(ctx, faq)
	return args.Error(0)
}

func (m *MockDBLayer) DeleteFAQ(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDBLayer) GetAboutInfo(ctx context.Context) (*models.AboutInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AboutInfo), args.Error(1)
}

func (m *MockDBLayer) UpsertAboutInfo(ctx context.Context, about models.AboutInfo) error {
	args := m.Called(ctx, about)
	return args.Error(0)
}

func (m *MockDBLayer) CreateInquiry(ctx context.Context, inquiry models.Inquiry) error {
	args := m.Called(ctx, inquiry)
	return args.Error(0)
}

func (m *MockDBLayer) ListInquiries(ctx context.Context) ([]models.Inquiry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Inquiry), args.Error(1)
}

type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) Remove(ctx context.Context, bucket string, paths []string) error {
	args := m.Called(ctx, bucket, paths)
	return args.Error(0)
}

type fakeUploader struct {
	uploaded []string
}

func (f *fakeUploader) Upload(ctx context.Context, bucket, path string, data []byte, contentType string) error {
	f.uploaded = append(f.uploaded, path)
	return nil
}

func (f *fakeUploader) PublicURL(bucket, path string) string {
	return "https://host/storage/v1/object/public/" + bucket + "/" + path
}

func newService(db *MockDBLayer, objects *MockObjectStore) (*content.ContentService, *fakeUploader) {
	up := &fakeUploader{}
	return content.NewContentService(db, up, objects, "team-images", nil, logger.NewLogger()), up
}

func TestSaveTeamMemberAssignsIDAndDefaultCategory(t *testing.T) {
	db := new(MockDBLayer)
	svc, _ := newService(db, new(MockObjectStore))

	db.On("UpsertTeamMember", mock.Anything, mock.MatchedBy(func(m models.TeamMember) bool {
		return m.ID != "" && m.Category == models.CategoryMember
	})).Return(nil)

	saved, err := svc.SaveTeamMember(context.Background(), models.TeamMember{Name: "Alex"})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	db.AssertExpectations(t)
}

func TestSaveTeamMemberRejectsUnknownCategory(t *testing.T) {
	db := new(MockDBLayer)
	svc, _ := newService(db, new(MockObjectStore))

	_, err := svc.SaveTeamMember(context.Background(), models.TeamMember{Name: "Alex", Category: "Mascot"})

	assert.ErrorIs(t, err, content.ErrInvalidCategory)
	db.AssertNotCalled(t, "UpsertTeamMember", mock.Anything, mock.Anything)
}

func TestDeleteTeamMemberCleansPhotoBestEffort(t *testing.T) {
	db := new(MockDBLayer)
	objects := new(MockObjectStore)
	svc, _ := newService(db, objects)

	member := &models.TeamMember{
		ID:       "tm-1",
		ImageURL: "https://host/storage/v1/object/public/team-images/photo.jpg",
	}
	db.On("GetTeamMemberByID", mock.Anything, "tm-1").Return(member, nil)
	objects.On("Remove", mock.Anything, "team-images", []string{"photo.jpg"}).
		Return(assert.AnError)
	db.On("DeleteTeamMember", mock.Anything, "tm-1").Return(nil)

	// Photo cleanup failing does not block the record delete.
	require.NoError(t, svc.DeleteTeamMember(context.Background(), "tm-1"))
	db.AssertExpectations(t)
	objects.AssertExpectations(t)
}

func TestUploadMemberPhotoRandomizesName(t *testing.T) {
	db := new(MockDBLayer)
	svc, up := newService(db, new(MockObjectStore))

	url, err := svc.UploadMemberPhoto(context.Background(), mediaFile("portrait.JPG"))
	require.NoError(t, err)

	require.Len(t, up.uploaded, 1)
	assert.NotContains(t, up.uploaded[0], "portrait")
	assert.Contains(t, up.uploaded[0], ".jpg")
	assert.Contains(t, url, "team-images/")
}

func TestSubmitInquiryValidates(t *testing.T) {
	tests := []struct {
		name    string
		inquiry models.Inquiry
		wantErr bool
	}{
		{
			name:    "valid",
			inquiry: models.Inquiry{Name: "Jordan", Email: "jordan@mail.com", Message: "I would like to join the club."},
		},
		{
			name:    "short name",
			inquiry: models.Inquiry{Name: "J", Email: "jordan@mail.com", Message: "I would like to join the club."},
			wantErr: true,
		},
		{
			name:    "bad email",
			inquiry: models.Inquiry{Name: "Jordan", Email: "not-an-email", Message: "I would like to join the club."},
			wantErr: true,
		},
		{
			name:    "short message",
			inquiry: models.Inquiry{Name: "Jordan", Email: "jordan@mail.com", Message: "hi"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := new(MockDBLayer)
			svc, _ := newService(db, new(MockObjectStore))

			if !tt.wantErr {
				db.On("CreateInquiry", mock.Anything, mock.MatchedBy(func(i models.Inquiry) bool {
					return i.ID != ""
				})).Return(nil)
			}

			saved, err := svc.SubmitInquiry(context.Background(), tt.inquiry)

			if tt.wantErr {
				assert.Error(t, err)
				db.AssertNotCalled(t, "CreateInquiry", mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, saved.ID)
			}
		})
	}
}

func TestSaveFAQRequiresQuestion(t *testing.T) {
	db := new(MockDBLayer)
	svc, _ := newService(db, new(MockObjectStore))

	_, err := svc.SaveFAQ(context.Background(), models.FAQ{Answer: "orphan answer"})

	assert.Error(t, err)
	db.AssertNotCalled(t, "UpsertFAQ", mock.Anything, mock.Anything)
}
