package models

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Default profile images applied by the database when signup omits them.
const (
	DefaultImageURL       = "/static/images/default-pic.png"
	DefaultHeaderImageURL = "/static/images/warbler-hero.jpg"
)

var (
	ErrUsernameRequired = errors.New("username is required")
	ErrEmailRequired    = errors.New("email is required")
	ErrPasswordRequired = errors.New("password is required")
)

// User represents a user in the database
type User struct {
	ID             uint    `gorm:"primaryKey;column:user_id"`
	Username       string  `gorm:"uniqueIndex;size:255"`
	Email          string  `gorm:"uniqueIndex;size:255"`
	PwHash         string  `gorm:"column:pw_hash" json:"pw_hash"`
	ImageURL       string  `gorm:"column:image_url;default:'/static/images/default-pic.png'"`
	HeaderImageURL string  `gorm:"column:header_image_url;default:'/static/images/warbler-hero.jpg'"`
	Bio            *string `gorm:"type:text"`
	Location       *string `gorm:"size:255"`
}

// TableName overrides the table name used by User to `user`
func (User) TableName() string {
	return "user"
}

// BeforeCreate rejects rows missing required columns. Go strings have no
// NULL, so the NOT NULL check lives here; the error still surfaces from
// Create and nothing is persisted.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Username == "" {
		return ErrUsernameRequired
	}
	if u.Email == "" {
		return ErrEmailRequired
	}
	if u.PwHash == "" {
		return ErrPasswordRequired
	}
	return nil
}

func (u *User) String() string {
	return fmt.Sprintf("<User #%d: %s, %s>", u.ID, u.Username, u.Email)
}
