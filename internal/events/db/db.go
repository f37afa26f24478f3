package db

import (
	"context"

	"github.com/uptrace/bun"

	"club-site/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// ---------------- EVENTS ----------------

// ListEvents → newest first, matching the public listing order
func (d *DB) ListEvents(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	err := d.Bun.NewSelect().
		Model(&events).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []models.Event{}
	}
	return events, nil
}

// GetEventByID → fetch one event by its ID
func (d *DB) GetEventByID(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	err := d.Bun.NewSelect().
		Model(&event).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// UpsertEvent → insert-or-update keyed by primary ID
func (d *DB) UpsertEvent(ctx context.Context, event models.Event) error {
	_, err := d.Bun.NewInsert().
		Model(&event).
		On("CONFLICT (id) DO UPDATE").
		Set("title = EXCLUDED.title").
		Set("date = EXCLUDED.date").
		Set("month = EXCLUDED.month").
		Set("day = EXCLUDED.day").
		Set("time = EXCLUDED.time").
		Set("location = EXCLUDED.location").
		Set("description = EXCLUDED.description").
		Set("image = EXCLUDED.image").
		Set("gallery = EXCLUDED.gallery").
		Set("is_featured = EXCLUDED.is_featured").
		Set("status = EXCLUDED.status").
		Set("register_link = EXCLUDED.register_link").
		Set("gallery_link = EXCLUDED.gallery_link").
		Exec(ctx)
	return err
}

// DeleteEvent → delete an event record by ID
func (d *DB) DeleteEvent(ctx context.Context, id string) error {
	_, err := d.Bun.NewDelete().
		Model((*models.Event)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

// GetFeaturedEvent → first featured event in listing order, for the hero
func (d *DB) GetFeaturedEvent(ctx context.Context) (*models.Event, error) {
	var event models.Event
	err := d.Bun.NewSelect().
		Model(&event).
		Where("is_featured = ?", true).
		Order("created_at DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &event, nil
}
