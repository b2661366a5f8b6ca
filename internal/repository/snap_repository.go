package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/onyx/internal/model"
)

type SnapRepository interface {
	Create(ctx context.Context, s *model.Snap) error
	ListReceived(ctx context.Context, userID string, now time.Time) ([]*model.Snap, error)
	ListSent(ctx context.Context, userID string, now time.Time) ([]*model.Snap, error)
	MarkViewed(ctx context.Context, id, receiverID string) (*model.Snap, error)
}

type snapRepository struct{ db *gorm.DB }

func NewSnapRepository(db *gorm.DB) SnapRepository { return &snapRepository{db: db} }

func (r *snapRepository) Create(ctx context.Context, s *model.Snap) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *snapRepository) ListReceived(ctx context.Context, userID string, now time.Time) ([]*model.Snap, error) {
	var res []*model.Snap
	err := r.db.WithContext(ctx).
		Where("receiver_id = ? AND expires_at > ?", userID, now).
		Order("created_at DESC").
		Find(&res).Error
	return res, err
}

func (r *snapRepository) ListSent(ctx context.Context, userID string, now time.Time) ([]*model.Snap, error) {
	var res []*model.Snap
	err := r.db.WithContext(ctx).
		Where("sender_id = ? AND expires_at > ?", userID, now).
		Order("created_at DESC").
		Find(&res).Error
	return res, err
}

func (r *snapRepository) MarkViewed(ctx context.Context, id, receiverID string) (*model.Snap, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Snap{}).
		Where("id = ? AND receiver_id = ?", id, receiverID).
		Update("viewed", true)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	var s model.Snap
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}
