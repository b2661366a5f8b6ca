package model

import "time"

// User 用户（认证/资料为薄封装）
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username     string    `json:"username" gorm:"type:varchar(50);uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null"`
	DisplayName  string    `json:"display_name" gorm:"type:varchar(100)"`
	AvatarURL    string    `json:"avatar_url" gorm:"type:varchar(255)"`
	CreatedAt    time.Time `json:"created_at"`
}

func (User) TableName() string { return "users" }
