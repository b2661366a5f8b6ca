package model

import "time"

// Streak 一对用户的连续互发天数，按 CanonicalPair 只存一行，不删除
type Streak struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserLow       string    `json:"user_low" gorm:"type:varchar(36);not null;index:idx_streak_pair,unique"`
	UserHigh      string    `json:"user_high" gorm:"type:varchar(36);not null;index:idx_streak_pair,unique"`
	Count         int       `json:"count" gorm:"not null;default:0"`
	LastMessageAt time.Time `json:"last_message_at" gorm:"not null"`
}

func (Streak) TableName() string { return "streaks" }
