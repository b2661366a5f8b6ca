package model

import "time"

// StoryLike 点赞记录，(user, story) 唯一
type StoryLike struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)"`
	UserID       string    `gorm:"type:varchar(36);not null;index:idx_like_pair,unique"`
	StoryID      string    `gorm:"type:varchar(36);not null;index:idx_like_pair,unique"`
	ReactionType string    `gorm:"type:varchar(20);not null;default:like"`
	CreatedAt    time.Time
}

func (StoryLike) TableName() string { return "story_likes" }
