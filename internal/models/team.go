package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Team member categories, in display order on the public team page.
const (
	CategoryFacultyAdvisor = "Faculty Advisor"
	CategoryOfficeBearer   = "Office Bearer"
	CategoryVerticalHead   = "Vertical Head"
	CategoryMember         = "Member"
)

func ValidCategory(c string) bool {
	switch c {
	case CategoryFacultyAdvisor, CategoryOfficeBearer, CategoryVerticalHead, CategoryMember:
		return true
	}
	return false
}

type TeamMember struct {
	bun.BaseModel `bun:"table:team_members"`

	ID         string    `bun:"id,pk" json:"id"`
	Name       string    `bun:"name,notnull" json:"name"`
	Role       string    `bun:"role" json:"role"`
	Category   string    `bun:"category" json:"category"`
	Bio        string    `bun:"bio" json:"bio"`
	ImageURL   string    `bun:"image_url" json:"imageUrl"`
	OrderIndex int       `bun:"order_index" json:"orderIndex"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}
