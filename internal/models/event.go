package models

import (
	"time"

	"github.com/uptrace/bun"
)

// EventStatus classifies an event's recency relative to "today" at the
// moment its date was chosen in the editor. It is a stored snapshot:
// nothing recomputes it on read, so an "upcoming" event keeps that
// status after its date passes until someone re-edits it.
type EventStatus string

const (
	StatusUpcoming EventStatus = "upcoming"
	StatusOngoing  EventStatus = "ongoing"
	StatusPast     EventStatus = "past"
)

type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID    string `bun:"id,pk" json:"id"`
	Title string `bun:"title,notnull" json:"title"`

	// Date is the canonical long-form display date, e.g.
	// "Thursday, November 20, 2024". Month and Day are derived display
	// tokens ("NOV", "20") recomputed from the calendar value, never
	// hand-edited.
	Date  string `bun:"date" json:"date"`
	Month string `bun:"month" json:"month"`
	Day   string `bun:"day" json:"day"`

	// Time is stored in 12-hour display form, e.g. "2:00 PM".
	Time     string `bun:"time" json:"time"`
	Location string `bun:"location" json:"location"`

	// Description holds either legacy plain text or a JSON array of
	// {heading, content} sections. The sections codec is the only code
	// allowed to interpret it.
	Description string `bun:"description" json:"description"`

	Image      string   `bun:"image" json:"image"`
	Gallery    []string `bun:"gallery,array" json:"gallery"`
	IsFeatured bool     `bun:"is_featured" json:"isFeatured"`

	Status       EventStatus `bun:"status" json:"status"`
	RegisterLink string      `bun:"register_link" json:"registerLink"`
	GalleryLink  string      `bun:"gallery_link" json:"galleryLink"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}
