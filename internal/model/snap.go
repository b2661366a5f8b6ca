package model

import "time"

// Snap 好友间的短时消息
type Snap struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	SenderID   string    `json:"sender_id" gorm:"type:varchar(36);not null;index:idx_snap_sender"`
	ReceiverID string    `json:"receiver_id" gorm:"type:varchar(36);not null;index:idx_snap_receiver"`
	Text       string    `json:"text" gorm:"type:text"`
	MediaURL   string    `json:"media_url" gorm:"type:varchar(255)"`
	Viewed     bool      `json:"viewed" gorm:"not null;default:false"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`
	ExpiresAt  time.Time `json:"expires_at" gorm:"index"`
}

func (Snap) TableName() string { return "snaps" }
