package model

import "time"

// StoryView 曝光记录，(user, story) 唯一，永不删除，仅用于推荐排除
type StoryView struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `gorm:"type:varchar(36);not null;index:idx_view_pair,unique"`
	StoryID   string    `gorm:"type:varchar(36);not null;index:idx_view_pair,unique;index:idx_view_story"`
	CreatedAt time.Time
}

func (StoryView) TableName() string { return "story_views" }
