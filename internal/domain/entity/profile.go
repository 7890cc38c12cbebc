package entity

import (
	"time"
)

// DefaultDisplayName is shown when a profile row is missing or unreadable.
const DefaultDisplayName = "User"

type Profile struct {
	ID        string    `json:"id" firestore:"id"`
	Email     string    `json:"email" firestore:"email"`
	FullName  string    `json:"full_name" firestore:"fullName"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

func (p *Profile) DisplayName() string {
	if p == nil || p.FullName == "" {
		return DefaultDisplayName
	}
	return p.FullName
}
