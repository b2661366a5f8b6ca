package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/onyx/internal/model"
)

type InterestRepository interface {
	// Accumulate 原子 upsert：不存在以 delta 建行，存在则 score += delta
	Accumulate(ctx context.Context, userID, tagID string, delta float64, now time.Time) error
	// Top 返回 score > 0 的前 n 个兴趣，分数降序
	Top(ctx context.Context, userID string, n int) ([]model.InterestScore, error)
}

type interestRepository struct{ db *gorm.DB }

func NewInterestRepository(db *gorm.DB) InterestRepository { return &interestRepository{db: db} }

func (r *interestRepository) Accumulate(ctx context.Context, userID, tagID string, delta float64, now time.Time) error {
	row := &model.UserInterest{ID: uuid.New().String(), UserID: userID, TagID: tagID, Score: delta, UpdatedAt: now}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "tag_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"score":      gorm.Expr("user_interests.score + excluded.score"),
			"updated_at": now,
		}),
	}).Create(row).Error
}

func (r *interestRepository) Top(ctx context.Context, userID string, n int) ([]model.InterestScore, error) {
	var res []model.InterestScore
	err := r.db.WithContext(ctx).
		Table("user_interests AS ui").
		Select("ui.tag_id AS tag_id, t.name AS tag_name, ui.score AS score").
		Joins("JOIN tags t ON t.id = ui.tag_id").
		Where("ui.user_id = ? AND ui.score > 0", userID).
		Order("ui.score DESC, t.name ASC").
		Limit(n).
		Scan(&res).Error
	return res, err
}
