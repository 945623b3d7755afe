package entities

import (
	"time"
)

// Setting is a client-side key-value row, used for the persisted session
// state (auth token, current user id).
type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

// Known setting keys
const (
	SettingKeyAuthToken     = "auth_token"
	SettingKeyCurrentUserID = "current_user_id"
)
