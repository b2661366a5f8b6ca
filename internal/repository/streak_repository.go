package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/onyx/internal/model"
)

// StreakAdvanceFunc 根据当前行与消息时间计算新状态；changed=false 时不写回
type StreakAdvanceFunc func(cur model.Streak, at time.Time) (next model.Streak, changed bool)

type StreakRepository interface {
	Get(ctx context.Context, a, b string) (*model.Streak, error)
	// Touch 在一个事务内锁定 pair 行：不存在则以 count=1 创建，否则交给 advance 推进
	Touch(ctx context.Context, a, b string, at time.Time, advance StreakAdvanceFunc) (*model.Streak, error)
}

type streakRepository struct{ db *gorm.DB }

func NewStreakRepository(db *gorm.DB) StreakRepository { return &streakRepository{db: db} }

func (r *streakRepository) Get(ctx context.Context, a, b string) (*model.Streak, error) {
	low, high := model.CanonicalPair(a, b)
	var rows []model.Streak
	if err := r.db.WithContext(ctx).
		Where("user_low = ? AND user_high = ?", low, high).
		Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

func (r *streakRepository) Touch(ctx context.Context, a, b string, at time.Time, advance StreakAdvanceFunc) (*model.Streak, error) {
	low, high := model.CanonicalPair(a, b)
	var out model.Streak

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lockRow := func() ([]model.Streak, error) {
			var rows []model.Streak
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("user_low = ? AND user_high = ?", low, high).
				Limit(1).Find(&rows).Error
			return rows, err
		}

		rows, err := lockRow()
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			out = model.Streak{ID: uuid.New().String(), UserLow: low, UserHigh: high, Count: 1, LastMessageAt: at}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&out)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				return nil
			}
			// 并发首条消息：对方已建行，按已有行推进
			if rows, err = lockRow(); err != nil {
				return err
			}
			if len(rows) == 0 {
				return ErrNotFound
			}
		}

		cur := rows[0]
		next, changed := advance(cur, at)
		out = next
		if !changed {
			return nil
		}
		return tx.Model(&model.Streak{}).
			Where("id = ?", cur.ID).
			Updates(map[string]any{"count": next.Count, "last_message_at": next.LastMessageAt}).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
