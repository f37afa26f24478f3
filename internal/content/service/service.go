package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"club-site/internal/events/media"
	"club-site/internal/logger"
	"club-site/internal/models"
	"club-site/internal/storage"
	"club-site/internal/utils"
)

var ErrInvalidCategory = errors.New("unknown team category")

type DBLayer interface {
	ListTeamMembers(ctx context.Context) ([]models.TeamMember, error)
	GetTeamMemberByID(ctx context.Context, id string) (*models.TeamMember, error)
	UpsertTeamMember(ctx context.Context, member models.TeamMember) error
	DeleteTeamMember(ctx context.Context, id string) error
	ListFAQs(ctx context.Context) ([]models.FAQ, error)
	UpsertFAQ(ctx context.Context, faq models.FAQ) error
	DeleteFAQ(ctx context.Context, id string) error
	GetAboutInfo(ctx context.Context) (*models.AboutInfo, error)
	UpsertAboutInfo(ctx context.Context, about models.AboutInfo) error
	CreateInquiry(ctx context.Context, inquiry models.Inquiry) error
	ListInquiries(ctx context.Context) ([]models.Inquiry, error)
}

// ObjectStore removes stored team photos on member deletion.
type ObjectStore interface {
	Remove(ctx context.Context, bucket string, paths []string) error
}

type Publisher interface {
	PublishContentChanged(kind, action, id string) error
}

type ContentService struct {
	DB        DBLayer
	Uploader  media.Uploader
	Objects   ObjectStore
	Bucket    string
	Validate  *validator.Validate
	Publisher Publisher
	Logger    *logger.Logger
}

func NewContentService(db DBLayer, uploader media.Uploader, objects ObjectStore, bucket string, publisher Publisher, log *logger.Logger) *ContentService {
	return &ContentService{
		DB:        db,
		Uploader:  uploader,
		Objects:   objects,
		Bucket:    bucket,
		Validate:  validator.New(),
		Publisher: publisher,
		Logger:    log,
	}
}

// ---------------- TEAM ----------------

func (s *ContentService) GetTeam(ctx context.Context) ([]models.TeamMember, error) {
	return s.DB.ListTeamMembers(ctx)
}

func (s *ContentService) SaveTeamMember(ctx context.Context, member models.TeamMember) (*models.TeamMember, error) {
	if member.Name == "" {
		return nil, errors.New("name is required")
	}
	if member.Category == "" {
		member.Category = models.CategoryMember
	}
	if !models.ValidCategory(member.Category) {
		return nil, ErrInvalidCategory
	}
	if member.ID == "" {
		member.ID = utils.NewRecordID()
	}

	if err := s.DB.UpsertTeamMember(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to save team member: %w", err)
	}
	s.notify("team", "upsert", member.ID)
	return &member, nil
}

// UploadMemberPhoto stores a photo under a random object name and
// returns its public URL.
func (s *ContentService) UploadMemberPhoto(ctx context.Context, f media.File) (string, error) {
	path := utils.RandomObjectName(f.Name)
	if err := s.Uploader.Upload(ctx, s.Bucket, path, f.Data, f.ContentType); err != nil {
		return "", fmt.Errorf("failed to upload photo: %w", err)
	}
	return s.Uploader.PublicURL(s.Bucket, path), nil
}

// DeleteTeamMember removes the member's photo best-effort, then the
// record. A cleanup failure never blocks the delete.
func (s *ContentService) DeleteTeamMember(ctx context.Context, id string) error {
	member, err := s.DB.GetTeamMemberByID(ctx, id)
	if err != nil {
		return fmt.Errorf("team member %s not found: %w", id, err)
	}

	if path, ok := storage.PathFromPublicURL(member.ImageURL, s.Bucket); ok {
		if err := s.Objects.Remove(ctx, s.Bucket, []string{path}); err != nil {
			s.Logger.Error("CONTENT", fmt.Sprintf("photo cleanup for member %s failed (object may be orphaned): %v", id, err))
		}
	}

	if err := s.DB.DeleteTeamMember(ctx, id); err != nil {
		return fmt.Errorf("failed to delete team member %s: %w", id, err)
	}
	s.notify("team", "delete", id)
	return nil
}

// ---------------- FAQS ----------------

func (s *ContentService) GetFAQs(ctx context.Context) ([]models.FAQ, error) {
	return s.DB.ListFAQs(ctx)
}

func (s *ContentService) SaveFAQ(ctx context.Context, faq models.FAQ) (*models.FAQ, error) {
	if faq.Question == "" {
		return nil, errors.New("question is required")
	}
	if faq.ID == "" {
		faq.ID = utils.NewRecordID()
	}

	if err := s.DB.UpsertFAQ(ctx, faq); err != nil {
		return nil, fmt.Errorf("failed to save FAQ: %w", err)
	}
	s.notify("faq", "upsert", faq.ID)
	return &faq, nil
}

func (s *ContentService) DeleteFAQ(ctx context.Context, id string) error {
	if err := s.DB.DeleteFAQ(ctx, id); err != nil {
		return fmt.Errorf("failed to delete FAQ %s: %w", id, err)
	}
	s.notify("faq", "delete", id)
	return nil
}

// ---------------- ABOUT ----------------

func (s *ContentService) GetAbout(ctx context.Context) (*models.AboutInfo, error) {
	return s.DB.GetAboutInfo(ctx)
}

func (s *ContentService) SaveAbout(ctx context.Context, about models.AboutInfo) error {
	if err := s.DB.UpsertAboutInfo(ctx, about); err != nil {
		return fmt.Errorf("failed to save about info: %w", err)
	}
	s.notify("about", "upsert", fmt.Sprintf("%d", models.AboutInfoID))
	return nil
}

// ---------------- INQUIRIES ----------------

// SubmitInquiry validates and stores a contact form submission.
func (s *ContentService) SubmitInquiry(ctx context.Context, inquiry models.Inquiry) (*models.Inquiry, error) {
	if err := s.Validate.Struct(inquiry); err != nil {
		return nil, fmt.Errorf("invalid inquiry: %w", err)
	}

	inquiry.ID = utils.NewRecordID()
	if err := s.DB.CreateInquiry(ctx, inquiry); err != nil {
		return nil, fmt.Errorf("failed to store inquiry: %w", err)
	}

	s.Logger.Info("CONTENT", fmt.Sprintf("New inquiry from %s", inquiry.Email))
	return &inquiry, nil
}

func (s *ContentService) Inquiries(ctx context.Context) ([]models.Inquiry, error) {
	return s.DB.ListInquiries(ctx)
}

func (s *ContentService) notify(kind, action, id string) {
	if s.Publisher == nil {
		return
	}
	if err := s.Publisher.PublishContentChanged(kind, action, id); err != nil {
		s.Logger.Warn("CONTENT", fmt.Sprintf("content change publish failed: %v", err))
	}
}
