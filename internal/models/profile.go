package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the public social identity bound 1:1 to a User account.
// Followers, Following and ReadingList are owned exclusively by the
// social-graph and engagement services; nothing else mutates them.
type Profile struct {
	ID           uuid.UUID   `json:"id"`
	UserID       uuid.UUID   `json:"user"`
	Username     string      `json:"username"`
	FirstName    string      `json:"firstname"`
	LastName     string      `json:"lastname"`
	Bio          string      `json:"bio"`
	DisplayEmail bool        `json:"displayemail"`
	AvatarID     *uuid.UUID  `json:"avatar,omitempty"`
	WebsiteURL   string      `json:"websiteurl"`
	Followers    []uuid.UUID `json:"followers"`
	Following    []uuid.UUID `json:"following"`
	ReadingList  []uuid.UUID `json:"readinglist"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// IsFollowingProfile reports membership of target in the following set.
func (p *Profile) IsFollowingProfile(target uuid.UUID) bool {
	return ContainsID(p.Following, target)
}

// HasSaved reports membership of the post in the reading list.
func (p *Profile) HasSaved(postID uuid.UUID) bool {
	return ContainsID(p.ReadingList, postID)
}

// ContainsID reports whether ids contains id.
func ContainsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

// WithoutID returns ids with every occurrence of id removed. The input
// slice is not modified.
func WithoutID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, candidate := range ids {
		if candidate != id {
			out = append(out, candidate)
		}
	}
	return out
}
