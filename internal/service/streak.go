package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/onyx/internal/model"
	"github.com/d60-Lab/onyx/internal/repository"
	"github.com/d60-Lab/onyx/pkg/logger"
)

const (
	streakSameDay = 24 * time.Hour
	streakWindow  = 48 * time.Hour
)

// AdvanceStreak 连续天数状态机：
//   - 距上次 < 24h：不变
//   - 24h ≤ 间隔 < 48h：count+1，更新时间
//   - ≥ 48h：重置为 1，更新时间
func AdvanceStreak(cur model.Streak, at time.Time) (model.Streak, bool) {
	elapsed := at.Sub(cur.LastMessageAt)
	switch {
	case elapsed < streakSameDay:
		return cur, false
	case elapsed < streakWindow:
		cur.Count++
	default:
		cur.Count = 1
	}
	cur.LastMessageAt = at
	return cur, true
}

// PairLocker 按 key 串行化；cache.LocalPairLocker / cache.RedisPairLocker 实现
type PairLocker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// StreakService 维护好友对的连续互发天数
type StreakService interface {
	// Record 处理一条 sender→receiver 的消息事件
	Record(ctx context.Context, senderID, receiverID string, at time.Time) (*model.Streak, error)
	// RecordNow 持锁后再取时间，同步发送路径使用
	RecordNow(ctx context.Context, senderID, receiverID string, now Clock) (*model.Streak, error)
	Get(ctx context.Context, a, b string) (*model.Streak, error)
}

type streakService struct {
	repo   repository.StreakRepository
	locker PairLocker
}

func NewStreakService(repo repository.StreakRepository, locker PairLocker) StreakService {
	return &streakService{repo: repo, locker: locker}
}

func (s *streakService) Record(ctx context.Context, senderID, receiverID string, at time.Time) (*model.Streak, error) {
	return s.record(ctx, senderID, receiverID, func() time.Time { return at })
}

func (s *streakService) RecordNow(ctx context.Context, senderID, receiverID string, now Clock) (*model.Streak, error) {
	if now == nil {
		now = systemClock
	}
	return s.record(ctx, senderID, receiverID, now)
}

func (s *streakService) record(ctx context.Context, senderID, receiverID string, at Clock) (*model.Streak, error) {
	if senderID == "" || receiverID == "" {
		return nil, ErrMissingID
	}
	low, high := model.CanonicalPair(senderID, receiverID)
	if s.locker != nil {
		unlock, err := s.locker.Lock(ctx, "streak:"+low+"|"+high)
		if err != nil {
			return nil, err
		}
		defer unlock()
	}
	st, err := s.repo.Touch(ctx, low, high, at().UTC(), AdvanceStreak)
	if err != nil {
		return nil, err
	}
	logger.Debug("streak recorded", zap.String("pair", low+"|"+high), zap.Int("count", st.Count))
	return st, nil
}

func (s *streakService) Get(ctx context.Context, a, b string) (*model.Streak, error) {
	if a == "" || b == "" {
		return nil, ErrMissingID
	}
	st, err := s.repo.Get(ctx, a, b)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrStreakNotFound
	}
	return st, err
}
