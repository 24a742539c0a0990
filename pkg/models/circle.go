package models

import "github.com/google/uuid"

// Circle is a private sharing group. The invite code is exactly 6 uppercase
// characters and globally unique.
type Circle struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name       string    `json:"name" gorm:"type:text;not null"`
	OwnerID    string    `json:"ownerId" gorm:"type:text;not null;index"`
	InviteCode string    `json:"inviteCode" gorm:"type:text;not null;uniqueIndex"`
	Color      string    `json:"color" gorm:"type:text;not null;default:'green'"`
	CreatedAt  int64     `json:"createdAt" gorm:"autoCreateTime:milli;not null"`
}

func (Circle) TableName() string {
	return "circles"
}

// CircleMember joins a user into a circle; a user belongs to a circle at most
// once (unique on circleId+userId).
type CircleMember struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CircleID uuid.UUID `json:"circleId" gorm:"type:uuid;not null;index;uniqueIndex:circle_members_unique"`
	UserID   string    `json:"userId" gorm:"type:text;not null;index;uniqueIndex:circle_members_unique"`
	JoinedAt int64     `json:"joinedAt" gorm:"autoCreateTime:milli;not null"`
}

func (CircleMember) TableName() string {
	return "circle_members"
}
