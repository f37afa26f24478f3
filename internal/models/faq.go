package models

import (
	"time"

	"github.com/uptrace/bun"
)

type FAQ struct {
	bun.BaseModel `bun:"table:membership_faqs"`

	ID         string    `bun:"id,pk" json:"id"`
	Question   string    `bun:"question,notnull" json:"question"`
	Answer     string    `bun:"answer" json:"answer"`
	LinkText   string    `bun:"link_text" json:"linkText,omitempty"`
	LinkURL    string    `bun:"link_url" json:"linkUrl,omitempty"`
	OrderIndex int       `bun:"order_index" json:"orderIndex"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}
