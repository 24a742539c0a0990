package models

// User mirrors the profile issued by the external identity provider.
// The ID is the provider's user id, stored as text so we can join against it.
type User struct {
	ID              string  `json:"id" gorm:"primaryKey;type:text"`
	DisplayName     string  `json:"displayName" gorm:"type:text;not null;default:'Member';index"`
	ProfileImageURL *string `json:"profileImageUrl,omitempty" gorm:"type:text"`
	CreatedAt       int64   `json:"createdAt" gorm:"autoCreateTime:milli;not null"`
	UpdatedAt       int64   `json:"updatedAt" gorm:"autoUpdateTime:milli;not null"`
}

func (User) TableName() string {
	return "users"
}
