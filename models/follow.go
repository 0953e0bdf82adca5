package models

// Follow is a directed edge in the social graph: follower follows followed.
// The pair is the primary key; self-follows are not forbidden.
type Follow struct {
	FollowerID uint `gorm:"primaryKey;column:follower_id"`
	FollowedID uint `gorm:"primaryKey;column:followed_id"`
}

// TableName overrides the table name used by GORM
func (Follow) TableName() string {
	return "follows"
}
