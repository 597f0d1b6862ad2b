package models

import "time"

// MessageModel is a contact/support message and its admin reply thread.
type MessageModel struct {
	Base
	SenderID  *string    `json:"senderId"  gorm:"type:char(36);index"`
	Name      string     `json:"name"      gorm:"size:255"`
	Email     string     `json:"email"     gorm:"size:191;index"`
	Subject   string     `json:"subject"   gorm:"size:255"`
	Body      string     `json:"body"      gorm:"type:text;not null"`
	ParentID  *string    `json:"parentId"  gorm:"type:char(36);index"`
	FromAdmin bool       `json:"fromAdmin" gorm:"default:false"`
	ReadAt    *time.Time `json:"readAt"`
}

func (MessageModel) TableName() string { return "messages" }
