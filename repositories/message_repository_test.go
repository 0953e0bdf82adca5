package repositories

import (
	"errors"
	"strings"
	"testing"

	"warbler/models"
)

func TestMessageModel(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	user1, _ := seedUsers(t, db)

	message := &models.Message{Text: "test_message_model_text", UserID: user1.ID}
	if err := repo.Create(message); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if message.ID == 0 {
		t.Error("Expected an assigned id")
	}
	if message.PubDate == 0 {
		t.Error("Expected the publication time to be stamped at creation")
	}

	got, err := repo.GetByID(message.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Text != "test_message_model_text" {
		t.Errorf("Expected text to round-trip, got %q", got.Text)
	}
	if got.UserID != user1.ID || got.User.ID != user1.ID {
		t.Errorf("Expected message to belong to user1, got user_id=%d", got.UserID)
	}
	if got.User.Username != "test1user" {
		t.Errorf("Expected the author to be preloaded, got %+v", got.User)
	}
}

func TestMessageValidation(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	user1, _ := seedUsers(t, db)

	if err := repo.Create(&models.Message{UserID: user1.ID}); !errors.Is(err, models.ErrTextRequired) {
		t.Errorf("Expected ErrTextRequired, got %v", err)
	}

	long := strings.Repeat("x", models.MaxMessageLength+1)
	if err := repo.Create(&models.Message{Text: long, UserID: user1.ID}); !errors.Is(err, models.ErrTextTooLong) {
		t.Errorf("Expected ErrTextTooLong, got %v", err)
	}

	var count int64
	db.Model(&models.Message{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected no messages persisted, got %d", count)
	}
}

func TestNewMessagesOrderAfterExisting(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	user1, _ := seedUsers(t, db)

	first := &models.Message{Text: "first", UserID: user1.ID}
	second := &models.Message{Text: "second", UserID: user1.ID}
	if err := repo.Create(first); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := repo.Create(second); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if second.ID <= first.ID {
		t.Errorf("Expected new messages to sort after existing ones by id, got %d then %d", first.ID, second.ID)
	}
}

func TestTimeline(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	repo := NewMessageRepository(db)
	user1, user2 := seedUsers(t, db)

	mine := &models.Message{Text: "mine", UserID: user1.ID, PubDate: 100}
	theirs := &models.Message{Text: "theirs", UserID: user2.ID, PubDate: 200}
	if err := repo.Create(mine); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := repo.Create(theirs); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Before following, only user1's own messages show up.
	timeline, err := repo.Timeline(user1.ID, 100)
	if err != nil {
		t.Fatalf("Timeline failed: %v", err)
	}
	if len(timeline) != 1 || timeline[0].Text != "mine" {
		t.Errorf("Expected only own messages before following, got %+v", timeline)
	}

	if err := users.Follow(user1.ID, user2.ID); err != nil {
		t.Fatalf("Follow failed: %v", err)
	}

	timeline, err = repo.Timeline(user1.ID, 100)
	if err != nil {
		t.Fatalf("Timeline failed: %v", err)
	}
	if len(timeline) != 2 {
		t.Fatalf("Expected both messages after following, got %+v", timeline)
	}
	// Newest first.
	if timeline[0].Text != "theirs" || timeline[1].Text != "mine" {
		t.Errorf("Expected newest-first ordering, got %q then %q", timeline[0].Text, timeline[1].Text)
	}
}

func TestLikeIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	user1, user2 := seedUsers(t, db)

	message := &models.Message{Text: "like me", UserID: user1.ID}
	if err := repo.Create(message); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := repo.Like(user2.ID, message.ID); err != nil {
		t.Fatalf("Like failed: %v", err)
	}
	if err := repo.Like(user2.ID, message.ID); err != nil {
		t.Fatalf("Second like should be a no-op, got %v", err)
	}

	count, err := repo.LikeCount(message.ID)
	if err != nil {
		t.Fatalf("LikeCount failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected exactly one like row, got %d", count)
	}

	liked, err := repo.IsLiked(user2.ID, message.ID)
	if err != nil {
		t.Fatalf("IsLiked failed: %v", err)
	}
	if !liked {
		t.Error("Expected IsLiked to report the like")
	}
}

func TestUnlikeIsNoopWhenAbsent(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	user1, user2 := seedUsers(t, db)

	message := &models.Message{Text: "like me", UserID: user1.ID}
	if err := repo.Create(message); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Never liked: unliking must not error.
	if err := repo.Unlike(user2.ID, message.ID); err != nil {
		t.Fatalf("Unlike of a non-existent like should be a no-op, got %v", err)
	}

	if err := repo.Like(user2.ID, message.ID); err != nil {
		t.Fatalf("Like failed: %v", err)
	}
	if err := repo.Unlike(user2.ID, message.ID); err != nil {
		t.Fatalf("Unlike failed: %v", err)
	}

	count, err := repo.LikeCount(message.ID)
	if err != nil {
		t.Fatalf("LikeCount failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected no likes left, got %d", count)
	}
}

func TestLikedBy(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	user1, user2 := seedUsers(t, db)

	m1 := &models.Message{Text: "one", UserID: user1.ID, PubDate: 100}
	m2 := &models.Message{Text: "two", UserID: user1.ID, PubDate: 200}
	if err := repo.Create(m1); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := repo.Create(m2); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := repo.Like(user2.ID, m1.ID); err != nil {
		t.Fatalf("Like failed: %v", err)
	}
	if err := repo.Like(user2.ID, m2.ID); err != nil {
		t.Fatalf("Like failed: %v", err)
	}

	liked, err := repo.LikedBy(user2.ID)
	if err != nil {
		t.Fatalf("LikedBy failed: %v", err)
	}
	if len(liked) != 2 {
		t.Fatalf("Expected two liked messages, got %+v", liked)
	}
	if liked[0].Text != "two" || liked[1].Text != "one" {
		t.Errorf("Expected newest-first ordering, got %q then %q", liked[0].Text, liked[1].Text)
	}
	if liked[0].User.Username != "test1user" {
		t.Errorf("Expected authors preloaded, got %+v", liked[0].User)
	}

	if got, _ := repo.LikedBy(user1.ID); len(got) != 0 {
		t.Errorf("Expected user1 to have no liked messages, got %+v", got)
	}
}

func TestDeleteMessageRemovesLikes(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	user1, user2 := seedUsers(t, db)

	message := &models.Message{Text: "going away", UserID: user1.ID}
	if err := repo.Create(message); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := repo.Like(user2.ID, message.ID); err != nil {
		t.Fatalf("Like failed: %v", err)
	}

	if err := repo.Delete(message.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	var count int64
	db.Model(&models.Like{}).Where("message_id = ?", message.ID).Count(&count)
	if count != 0 {
		t.Errorf("Expected likes on the deleted message to be gone, found %d", count)
	}
}
