package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/onyx/internal/model"
)

// FriendSummary 好友列表项，带连续天数
type FriendSummary struct {
	ID            string     `json:"id"`
	Username      string     `json:"username"`
	DisplayName   string     `json:"display_name"`
	AvatarURL     string     `json:"avatar_url"`
	FriendSince   time.Time  `json:"friend_since"`
	StreakCount   int        `json:"streak_count"`
	LastMessageAt *time.Time `json:"last_message_at"`
}

type FriendshipRepository interface {
	// Create 返回是否真正新建（已存在时为 false，不报错）
	Create(ctx context.Context, a, b string) (bool, error)
	Delete(ctx context.Context, a, b string) error
	Exists(ctx context.Context, a, b string) (bool, error)
	ListWithStreaks(ctx context.Context, userID string) ([]FriendSummary, error)
}

type friendshipRepository struct {
	db *gorm.DB
}

func NewFriendshipRepository(db *gorm.DB) FriendshipRepository {
	return &friendshipRepository{db: db}
}

func (r *friendshipRepository) Create(ctx context.Context, a, b string) (bool, error) {
	low, high := model.CanonicalPair(a, b)
	f := &model.Friendship{ID: uuid.New().String(), UserLow: low, UserHigh: high, CreatedAt: time.Now().UTC()}
	// 幂等：重复添加不报错
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(f)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *friendshipRepository) Delete(ctx context.Context, a, b string) error {
	low, high := model.CanonicalPair(a, b)
	return r.db.WithContext(ctx).
		Where("user_low = ? AND user_high = ?", low, high).
		Delete(&model.Friendship{}).Error
}

func (r *friendshipRepository) Exists(ctx context.Context, a, b string) (bool, error) {
	low, high := model.CanonicalPair(a, b)
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Friendship{}).
		Where("user_low = ? AND user_high = ?", low, high).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *friendshipRepository) ListWithStreaks(ctx context.Context, userID string) ([]FriendSummary, error) {
	var res []FriendSummary
	err := r.db.WithContext(ctx).
		Table("friendships AS f").
		Select(`u.id, u.username, u.display_name, u.avatar_url,
			f.created_at AS friend_since,
			COALESCE(s.count, 0) AS streak_count,
			s.last_message_at AS last_message_at`).
		Joins("JOIN users u ON u.id = CASE WHEN f.user_low = ? THEN f.user_high ELSE f.user_low END", userID).
		Joins("LEFT JOIN streaks s ON s.user_low = f.user_low AND s.user_high = f.user_high").
		Where("f.user_low = ? OR f.user_high = ?", userID, userID).
		Order("streak_count DESC, u.username ASC").
		Scan(&res).Error
	return res, err
}
