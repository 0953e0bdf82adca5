package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// MaxMessageLength bounds the text column.
const MaxMessageLength = 140

var (
	ErrTextRequired = errors.New("message text is required")
	ErrTextTooLong  = errors.New("message text exceeds 140 characters")
)

// Message represents a message in the system
type Message struct {
	ID      uint   `gorm:"primaryKey;column:message_id"`
	Text    string `gorm:"size:140"`
	PubDate int64  `gorm:"column:pub_date"`
	UserID  uint   `gorm:"column:user_id;index"`
	User    User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName overrides the table name used by GORM
func (Message) TableName() string {
	return "message"
}

// BeforeCreate validates the text and stamps the publication time (UTC).
func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.Text == "" {
		return ErrTextRequired
	}
	if len(m.Text) > MaxMessageLength {
		return ErrTextTooLong
	}
	if m.PubDate == 0 {
		m.PubDate = time.Now().UTC().Unix()
	}
	return nil
}
