package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Inquiry struct {
	bun.BaseModel `bun:"table:inquiries"`

	ID        string    `bun:"id,pk" json:"id"`
	Name      string    `bun:"name,notnull" json:"name" validate:"required,min=2"`
	Email     string    `bun:"email,notnull" json:"email" validate:"required,email"`
	Message   string    `bun:"message,notnull" json:"message" validate:"required,min=10"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}
