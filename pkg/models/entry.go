package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AllowedEmojis are the only reactions the mobile client offers.
var AllowedEmojis = []string{"👍", "❤️", "😊", "🙏", "🎉"}

// IsAllowedEmoji reports whether emoji is one of the supported reactions.
func IsAllowedEmoji(emoji string) bool {
	for _, e := range AllowedEmojis {
		if e == emoji {
			return true
		}
	}
	return false
}

// GratitudeEntry is a single journal post. CircleID null means the entry is
// private; non-null means it is shared to that circle.
type GratitudeEntry struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID       string         `json:"userId" gorm:"type:text;not null;index"`
	Content      string         `json:"content" gorm:"type:text;not null"`
	Location     datatypes.JSON `json:"location,omitempty" gorm:"type:jsonb"` // {latitude, longitude, city, state, country, address}
	ImageURL     *string        `json:"imageUrl,omitempty" gorm:"type:text"`
	CircleID     *uuid.UUID     `json:"circleId,omitempty" gorm:"type:uuid;index"`
	CommentCount int            `json:"commentCount" gorm:"not null;default:0"` // denormalized for feed performance
	CreatedAt    int64          `json:"createdAt" gorm:"autoCreateTime:milli;not null;index"`
	UpdatedAt    int64          `json:"updatedAt" gorm:"autoUpdateTime:milli;not null"`
}

func (GratitudeEntry) TableName() string {
	return "gratitude_entries"
}

// EntryReaction holds one emoji per (entry, user) pair. Re-reacting with the
// same emoji removes it; a different emoji replaces it.
type EntryReaction struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EntryID   uuid.UUID `json:"entryId" gorm:"type:uuid;not null;index;uniqueIndex:entry_reactions_unique"`
	UserID    string    `json:"userId" gorm:"type:text;not null;index;uniqueIndex:entry_reactions_unique"`
	Emoji     string    `json:"emoji" gorm:"type:text;not null;default:'👍'"`
	CreatedAt int64     `json:"createdAt" gorm:"autoCreateTime:milli;not null"`
}

func (EntryReaction) TableName() string {
	return "entry_reactions"
}

// EntryComment is append-only, ordered by creation time.
type EntryComment struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EntryID   uuid.UUID `json:"entryId" gorm:"type:uuid;not null;index:entry_comments_entry_created_idx,priority:1"`
	UserID    string    `json:"userId" gorm:"type:text;not null;index"`
	Content   string    `json:"content" gorm:"type:text;not null"` // max 500 chars, enforced client-side
	CreatedAt int64     `json:"createdAt" gorm:"autoCreateTime:milli;not null;index:entry_comments_entry_created_idx,priority:2"`
}

func (EntryComment) TableName() string {
	return "entry_comments"
}
