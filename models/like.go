package models

// Like marks a user's endorsement of a message.
// The combination of UserID and MessageID must be unique.
type Like struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_likes_user_message;column:user_id"`
	MessageID uint `gorm:"not null;uniqueIndex:idx_likes_user_message;column:message_id"`
}

// TableName overrides the table name used by GORM
func (Like) TableName() string {
	return "likes"
}
