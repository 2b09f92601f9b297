package models

import (
	"time"

	"github.com/google/uuid"
)

// Post is a published blog entry. UpvoteCount must equal len(Upvotes)
// after every engagement mutation; Saves is the inverse relation of
// Profile.ReadingList.
type Post struct {
	ID           uuid.UUID   `json:"id"`
	ProfileID    uuid.UUID   `json:"profile"`
	UserID       uuid.UUID   `json:"user"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Content      string      `json:"content"`
	CoverImageID *uuid.UUID  `json:"coverImage,omitempty"`
	Categories   []uuid.UUID `json:"categories"`
	Upvotes      []uuid.UUID `json:"upvotes"`
	UpvoteCount  int         `json:"upvoteCount"`
	Saves        []uuid.UUID `json:"saves"`
	Comments     []uuid.UUID `json:"comments"`
	Featured     bool        `json:"featured"`
	Slug         string      `json:"slug"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// IsUpvotedBy reports membership of the profile in the upvote set.
func (p *Post) IsUpvotedBy(profileID uuid.UUID) bool {
	return ContainsID(p.Upvotes, profileID)
}

// Comment belongs to a post and forms a forest through Parent; a nil
// Parent marks a root. Depth is unbounded in the data model, display
// truncation is a rendering concern.
type Comment struct {
	ID        uuid.UUID  `json:"id"`
	AuthorID  uuid.UUID  `json:"author"`
	PostID    uuid.UUID  `json:"post"`
	Text      string     `json:"text"`
	ParentID  *uuid.UUID `json:"parent,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Media is the metadata record for an uploaded binary resource; the
// bytes live in blob storage under ObjectKey.
type Media struct {
	ID          uuid.UUID `json:"id"`
	ObjectKey   string    `json:"objectKey"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"mimeType"`
	Size        int64     `json:"filesize"`
	URL         string    `json:"url"`
	CreatedAt   time.Time `json:"createdAt"`
}
