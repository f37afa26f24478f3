package models

import "github.com/uptrace/bun"

// AboutInfoID is the fixed primary key of the singleton about record.
const AboutInfoID = 1

type AboutInfo struct {
	bun.BaseModel `bun:"table:about_info"`

	ID              int    `bun:"id,pk" json:"id"`
	Title           string `bun:"title" json:"title"`
	Content         string `bun:"content" json:"content"`
	MembershipTitle string `bun:"membership_title" json:"membershipTitle"`
}
