package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/onyx/internal/model"
)

type SwipeRepository interface {
	Create(ctx context.Context, s *model.Swipe) error
}

type swipeRepository struct{ db *gorm.DB }

func NewSwipeRepository(db *gorm.DB) SwipeRepository { return &swipeRepository{db: db} }

// Create 追加写，不去重
func (r *swipeRepository) Create(ctx context.Context, s *model.Swipe) error {
	return r.db.WithContext(ctx).Create(s).Error
}
