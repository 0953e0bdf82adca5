package repositories

import (
	"warbler/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MessageRepository struct {
	DB *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{DB: db}
}

// Create saves a new message
func (repo *MessageRepository) Create(message *models.Message) error {
	return repo.DB.Create(message).Error
}

// GetByID fetches a message with its author preloaded
func (repo *MessageRepository) GetByID(id uint) (*models.Message, error) {
	var message models.Message
	err := repo.DB.Preload("User").First(&message, id).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// GetByUser lists a user's messages, newest first
func (repo *MessageRepository) GetByUser(userID uint, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := repo.DB.Where("user_id = ?", userID).
		Preload("User").
		Order("pub_date DESC, message_id DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

// Latest lists the newest messages across all users (the public timeline)
func (repo *MessageRepository) Latest(limit int) ([]models.Message, error) {
	var messages []models.Message
	err := repo.DB.Preload("User").
		Order("pub_date DESC, message_id DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

// Timeline lists messages from the users userID follows plus their own,
// newest first.
func (repo *MessageRepository) Timeline(userID uint, limit int) ([]models.Message, error) {
	followed := repo.DB.Model(&models.Follow{}).
		Select("followed_id").
		Where("follower_id = ?", userID)

	var messages []models.Message
	err := repo.DB.Preload("User").
		Where("user_id = ? OR user_id IN (?)", userID, followed).
		Order("pub_date DESC, message_id DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

// Delete removes a message and any likes pointing at it
func (repo *MessageRepository) Delete(id uint) error {
	return repo.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("message_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Message{}, id).Error
	})
}

// Like records that userID likes messageID. Liking twice leaves a single
// row; the unique index plus ON CONFLICT DO NOTHING make it idempotent.
func (repo *MessageRepository) Like(userID, messageID uint) error {
	like := models.Like{UserID: userID, MessageID: messageID}
	return repo.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error
}

// Unlike removes the like if present; removing a non-existent like is a no-op
func (repo *MessageRepository) Unlike(userID, messageID uint) error {
	return repo.DB.
		Where("user_id = ? AND message_id = ?", userID, messageID).
		Delete(&models.Like{}).Error
}

// IsLiked reports whether userID has liked messageID
func (repo *MessageRepository) IsLiked(userID, messageID uint) (bool, error) {
	var count int64
	err := repo.DB.Model(&models.Like{}).
		Where("user_id = ? AND message_id = ?", userID, messageID).
		Count(&count).Error
	return count > 0, err
}

// LikeCount counts likes on a message
func (repo *MessageRepository) LikeCount(messageID uint) (int64, error) {
	var count int64
	err := repo.DB.Model(&models.Like{}).
		Where("message_id = ?", messageID).
		Count(&count).Error
	return count, err
}

// LikedBy lists the messages userID has liked, newest first
func (repo *MessageRepository) LikedBy(userID uint) ([]models.Message, error) {
	var messages []models.Message
	err := repo.DB.Preload("User").
		Joins("INNER JOIN likes ON likes.message_id = message.message_id").
		Where("likes.user_id = ?", userID).
		Order("message.pub_date DESC, message.message_id DESC").
		Find(&messages).Error
	return messages, err
}
