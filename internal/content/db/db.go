package db

import (
	"context"

	"github.com/uptrace/bun"

	"club-site/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// ---------------- TEAM ----------------

// ListTeamMembers → display order, ties broken by insertion order
func (d *DB) ListTeamMembers(ctx context.Context) ([]models.TeamMember, error) {
	var members []models.TeamMember
	err := d.Bun.NewSelect().
		Model(&members).
		Order("order_index ASC").
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	if members == nil {
		members = []models.TeamMember{}
	}
	return members, nil
}

func (d *DB) GetTeamMemberByID(ctx context.Context, id string) (*models.TeamMember, error) {
	var member models.TeamMember
	err := d.Bun.NewSelect().
		Model(&member).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// UpsertTeamMember → insert-or-update keyed by primary ID
func (d *DB) UpsertTeamMember(ctx context.Context, member models.TeamMember) error {
	_, err := d.Bun.NewInsert().
		Model(&member).
		On("CONFLICT (id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("role = EXCLUDED.role").
		Set("category = EXCLUDED.category").
		Set("bio = EXCLUDED.bio").
		Set("image_url = EXCLUDED.image_url").
		Set("order_index = EXCLUDED.order_index").
		Exec(ctx)
	return err
}

func (d *DB) DeleteTeamMember(ctx context.Context, id string) error {
	_, err := d.Bun.NewDelete().
		Model((*models.TeamMember)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

// ---------------- FAQS ----------------

func (d *DB) ListFAQs(ctx context.Context) ([]models.FAQ, error) {
	var faqs []models.FAQ
	err := d.Bun.NewSelect().
		Model(&faqs).
		Order("order_index ASC").
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	if faqs == nil {
		faqs = []models.FAQ{}
	}
	return faqs, nil
}

func (d *DB) UpsertFAQ(ctx context.Context, faq models.FAQ) error {
	_, err := d.Bun.NewInsert().
		Model(&faq).
		On("CONFLICT (id) DO UPDATE").
		Set("question = EXCLUDED.question").
		Set("answer = EXCLUDED.answer").
		Set("link_text = EXCLUDED.link_text").
		Set("link_url = EXCLUDED.link_url").
		Set("order_index = EXCLUDED.order_index").
		Exec(ctx)
	return err
}

func (d *DB) DeleteFAQ(ctx context.Context, id string) error {
	_, err := d.Bun.NewDelete().
		Model((*models.FAQ)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

// ---------------- ABOUT ----------------

// GetAboutInfo → the singleton about record
func (d *DB) GetAboutInfo(ctx context.Context) (*models.AboutInfo, error) {
	var about models.AboutInfo
	err := d.Bun.NewSelect().
		Model(&about).
		Where("id = ?", models.AboutInfoID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &about, nil
}

// UpsertAboutInfo → always writes the fixed singleton row
func (d *DB) UpsertAboutInfo(ctx context.Context, about models.AboutInfo) error {
	about.ID = models.AboutInfoID
	_, err := d.Bun.NewInsert().
		Model(&about).
		On("CONFLICT (id) DO UPDATE").
		Set("title = EXCLUDED.title").
		Set("content = EXCLUDED.content").
		Set("membership_title = EXCLUDED.membership_title").
		Exec(ctx)
	return err
}

// ---------------- INQUIRIES ----------------

func (d *DB) CreateInquiry(ctx context.Context, inquiry models.Inquiry) error {
	_, err := d.Bun.NewInsert().
		Model(&inquiry).
		Exec(ctx)
	return err
}

// ListInquiries → newest first, for the admin inbox
func (d *DB) ListInquiries(ctx context.Context) ([]models.Inquiry, error) {
	var inquiries []models.Inquiry
	err := d.Bun.NewSelect().
		Model(&inquiries).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	if inquiries == nil {
		inquiries = []models.Inquiry{}
	}
	return inquiries, nil
}

// ---------------- ADMIN USERS ----------------

func (d *DB) GetAdminByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	var user models.AdminUser
	err := d.Bun.NewSelect().
		Model(&user).
		Where("email = ?", email).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
