package model

import "time"

// Friendship 好友关系，单行存储：UserLow < UserHigh
type Friendship struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserLow   string    `json:"user_low" gorm:"type:varchar(36);not null;index:idx_friend_pair,unique;index:idx_friend_low"`
	UserHigh  string    `json:"user_high" gorm:"type:varchar(36);not null;index:idx_friend_pair,unique;index:idx_friend_high"`
	CreatedAt time.Time `json:"created_at"`
}

func (Friendship) TableName() string { return "friendships" }

// Other 返回关系中 userID 之外的一方
func (f *Friendship) Other(userID string) string {
	if f.UserLow == userID {
		return f.UserHigh
	}
	return f.UserLow
}
