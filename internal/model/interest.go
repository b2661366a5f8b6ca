package model

import "time"

// UserInterest 用户对某标签的累计兴趣分，(user, tag) 唯一，可为负
type UserInterest struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);not null;index:idx_interest_pair,unique"`
	TagID     string    `json:"tag_id" gorm:"type:varchar(36);not null;index:idx_interest_pair,unique"`
	Score     float64   `json:"score" gorm:"not null;default:0"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (UserInterest) TableName() string { return "user_interests" }

// InterestScore 用户兴趣（带标签名）
type InterestScore struct {
	TagID   string  `json:"tag_id"`
	TagName string  `json:"tag_name"`
	Score   float64 `json:"score"`
}
