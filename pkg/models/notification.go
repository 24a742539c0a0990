package models

import "github.com/google/uuid"

// PushToken associates a device push token with exactly one user at a time.
// Token strings are globally unique; re-registering a token reassigns
// ownership (last writer wins).
type PushToken struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    string    `json:"userId" gorm:"type:text;not null;index"`
	Token     string    `json:"token" gorm:"type:text;not null;uniqueIndex"`
	DeviceID  *string   `json:"deviceId,omitempty" gorm:"type:text"`
	Platform  string    `json:"platform" gorm:"type:text;not null"` // "ios" or "android"
	CreatedAt int64     `json:"createdAt" gorm:"autoCreateTime:milli;not null"`
	UpdatedAt int64     `json:"updatedAt" gorm:"autoUpdateTime:milli;not null"`
}

func (PushToken) TableName() string {
	return "push_tokens"
}

// NotificationPreference stores per-user reminder flags and times. Times are
// "HH:MM" strings interpreted by the scheduler, not by this service.
type NotificationPreference struct {
	ID                   uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID               string    `json:"userId" gorm:"type:text;not null;uniqueIndex"`
	DailyReminderEnabled bool      `json:"dailyReminderEnabled" gorm:"not null;default:true"`
	DailyReminderTime    string    `json:"dailyReminderTime" gorm:"type:text;not null;default:'09:00'"`
	PastReminderEnabled  bool      `json:"pastReminderEnabled" gorm:"not null;default:true"`
	PastReminderTime     string    `json:"pastReminderTime" gorm:"type:text;not null;default:'18:00'"`
	CreatedAt            int64     `json:"createdAt" gorm:"autoCreateTime:milli;not null"`
	UpdatedAt            int64     `json:"updatedAt" gorm:"autoUpdateTime:milli;not null"`
}

func (NotificationPreference) TableName() string {
	return "notification_preferences"
}
