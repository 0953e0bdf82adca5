package repositories

import (
	"errors"

	"warbler/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrAlreadyTaken is returned when a signup collides with an existing
	// username or email. The conflict only surfaces at commit time.
	ErrAlreadyTaken = errors.New("username or email already taken")

	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password so callers cannot tell which one failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// Signup hashes the password and creates the user. An empty password is
// rejected before any hashing happens; uniqueness violations come back from
// the database as ErrAlreadyTaken.
func (repo *UserRepository) Signup(username, email, password, imageURL string) (*models.User, error) {
	if password == "" {
		return nil, models.ErrPasswordRequired
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: username,
		Email:    email,
		PwHash:   string(hashed),
		ImageURL: imageURL,
	}
	if err := repo.DB.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyTaken
		}
		return nil, err
	}
	return user, nil
}

// Authenticate returns the user when the username exists and the password
// matches its bcrypt hash, otherwise (nil, ErrInvalidCredentials).
func (repo *UserRepository) Authenticate(username, password string) (*models.User, error) {
	var user models.User
	err := repo.DB.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PwHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// GetByID fetches a user by primary key
func (repo *UserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := repo.DB.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername fetches a user by username
func (repo *UserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	if err := repo.DB.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Search lists users whose username contains q. An empty q lists everyone.
func (repo *UserRepository) Search(q string) ([]models.User, error) {
	var users []models.User
	query := repo.DB.Order("user_id")
	if q != "" {
		query = query.Where("username LIKE ?", "%"+q+"%")
	}
	err := query.Find(&users).Error
	return users, err
}

// Update persists profile edits
func (repo *UserRepository) Update(user *models.User) error {
	if err := repo.DB.Save(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyTaken
		}
		return err
	}
	return nil
}

// Follow creates a follow edge. Following a user twice is a no-op.
func (repo *UserRepository) Follow(followerID, followedID uint) error {
	follow := models.Follow{FollowerID: followerID, FollowedID: followedID}
	return repo.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&follow).Error
}

// Unfollow removes a follow edge. Removing a missing edge is a no-op.
func (repo *UserRepository) Unfollow(followerID, followedID uint) error {
	return repo.DB.
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.Follow{}).Error
}

// IsFollowing reports whether follower follows followed
func (repo *UserRepository) IsFollowing(followerID, followedID uint) (bool, error) {
	var count int64
	err := repo.DB.Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error
	return count > 0, err
}

// IsFollowedBy is the mirror of IsFollowing
func (repo *UserRepository) IsFollowedBy(userID, otherID uint) (bool, error) {
	return repo.IsFollowing(otherID, userID)
}

// Followers lists the users following userID
func (repo *UserRepository) Followers(userID uint) ([]models.User, error) {
	var users []models.User
	err := repo.DB.Table("\"user\"").
		Joins("INNER JOIN follows ON follows.follower_id = \"user\".user_id").
		Where("follows.followed_id = ?", userID).
		Order("\"user\".user_id").
		Find(&users).Error
	return users, err
}

// Following lists the users userID follows
func (repo *UserRepository) Following(userID uint) ([]models.User, error) {
	var users []models.User
	err := repo.DB.Table("\"user\"").
		Joins("INNER JOIN follows ON follows.followed_id = \"user\".user_id").
		Where("follows.follower_id = ?", userID).
		Order("\"user\".user_id").
		Find(&users).Error
	return users, err
}

// Delete removes the user and everything hanging off of it in one
// transaction: likes on the user's messages, the user's own likes, follow
// edges in both directions, the user's messages, then the user row.
func (repo *UserRepository) Delete(userID uint) error {
	return repo.DB.Transaction(func(tx *gorm.DB) error {
		owned := tx.Model(&models.Message{}).Select("message_id").Where("user_id = ?", userID)
		if err := tx.Where("message_id IN (?)", owned).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("follower_id = ? OR followed_id = ?", userID, userID).
			Delete(&models.Follow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, userID).Error
	})
}
