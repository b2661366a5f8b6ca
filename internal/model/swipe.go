package model

import (
	"fmt"
	"strings"
	"time"
)

// SwipeDirection 滑动方向，只有两个取值
type SwipeDirection string

const (
	SwipeAccept SwipeDirection = "accept"
	SwipeReject SwipeDirection = "reject"
)

// ParseSwipeDirection 接受 accept/reject 以及客户端使用的 right/left
func ParseSwipeDirection(s string) (SwipeDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "accept", "right":
		return SwipeAccept, nil
	case "reject", "left":
		return SwipeReject, nil
	}
	return "", fmt.Errorf("invalid swipe direction %q", s)
}

// Valid reports whether d is one of the two known directions.
func (d SwipeDirection) Valid() bool {
	return d == SwipeAccept || d == SwipeReject
}

// Delta 兴趣分增量：accept +1.0，reject -0.5
func (d SwipeDirection) Delta() float64 {
	switch d {
	case SwipeAccept:
		return 1.0
	case SwipeReject:
		return -0.5
	default:
		return 0
	}
}

// Swipe 追加写的滑动日志，不去重
type Swipe struct {
	ID        string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string         `json:"user_id" gorm:"type:varchar(36);not null;index:idx_swipe_user"`
	StoryID   string         `json:"story_id" gorm:"type:varchar(36);not null;index:idx_swipe_story"`
	Direction SwipeDirection `json:"direction" gorm:"type:varchar(10);not null"`
	CreatedAt time.Time      `json:"created_at"`
}

func (Swipe) TableName() string { return "swipes" }
