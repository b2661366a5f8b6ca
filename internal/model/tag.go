package model

import "time"

// MaxTagNameLength 与 tags.name 列宽一致（按字符计）
const MaxTagNameLength = 100

// Tag 全局标签，按 Name 去重，创建后不删除
type Tag struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `json:"name" gorm:"type:varchar(100);uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (Tag) TableName() string { return "tags" }

// StoryTag 快拍-标签关联，创建时冻结
type StoryTag struct {
	StoryID string `gorm:"primaryKey;type:varchar(36)"`
	TagID   string `gorm:"primaryKey;type:varchar(36);index:idx_story_tag_tag"`
}

func (StoryTag) TableName() string { return "story_tags" }
