package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/d60-Lab/onyx/internal/model"
)

// UserSearchResult 搜索结果，附带是否已是好友
type UserSearchResult struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	IsFriend    bool   `json:"is_friend"`
}

type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	Exists(ctx context.Context, id string) (bool, error)
	// UpdateProfile 只更新非 nil 的字段
	UpdateProfile(ctx context.Context, id string, displayName, avatarURL *string) (*model.User, error)
	Search(ctx context.Context, requesterID, query string, limit int) ([]UserSearchResult, error)
}

type userRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepository{db: db} }

func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *userRepository) first(ctx context.Context, cond string, arg any) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Where(cond, arg).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Exists(ctx context.Context, id string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id string, displayName, avatarURL *string) (*model.User, error) {
	updates := map[string]any{}
	if displayName != nil {
		updates["display_name"] = *displayName
	}
	if avatarURL != nil {
		updates["avatar_url"] = *avatarURL
	}
	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return r.GetByID(ctx, id)
}

// likeEscaper 让用户输入中的通配符按字面匹配（转义符为 !）
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func (r *userRepository) Search(ctx context.Context, requesterID, query string, limit int) ([]UserSearchResult, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
	var res []UserSearchResult
	err := r.db.WithContext(ctx).
		Table("users AS u").
		Select(`u.id, u.username, u.display_name, u.avatar_url,
			EXISTS (
				SELECT 1 FROM friendships f
				WHERE (f.user_low = ? AND f.user_high = u.id) OR (f.user_high = ? AND f.user_low = u.id)
			) AS is_friend`, requesterID, requesterID).
		Where("u.id <> ?", requesterID).
		Where("(LOWER(u.username) LIKE ? ESCAPE '!' OR LOWER(u.display_name) LIKE ? ESCAPE '!')", pattern, pattern).
		Order("u.username ASC").
		Limit(limit).
		Scan(&res).Error
	return res, err
}
