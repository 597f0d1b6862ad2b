package models

import "time"

// UserSession tracks a signed-in session of one identity provider.
type UserSession struct {
	Base
	UserID    string     `json:"userId"    gorm:"type:char(36);index;not null"`
	Provider  Provider   `json:"provider"  gorm:"size:16;index;not null"`
	IP        string     `json:"ip"        gorm:"size:64"`
	UA        string     `json:"ua"        gorm:"type:text"`
	ExpiresAt time.Time  `json:"expiresAt" gorm:"index;not null"`
	RevokedAt *time.Time `json:"revokedAt" gorm:"index"`
}

func (UserSession) TableName() string { return "user_sessions" }
