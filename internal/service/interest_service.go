package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/d60-Lab/onyx/internal/model"
	"github.com/d60-Lab/onyx/internal/repository"
	"github.com/d60-Lab/onyx/pkg/logger"
)

// TopInterestLimit 参与冷启动判断的兴趣数
const TopInterestLimit = 10

// InterestCache 兴趣缓存；cache.InterestCache 实现，可为 nil
type InterestCache interface {
	Get(ctx context.Context, userID string) ([]model.InterestScore, bool)
	// Version 反馈版本号；Set 只在版本未变时写入，避免回填旧值
	Version(ctx context.Context, userID string) (int64, error)
	Set(ctx context.Context, userID string, version int64, scores []model.InterestScore) error
	Invalidate(ctx context.Context, userID string) error
}

// InterestLedger 按滑动反馈累积用户对标签的兴趣分
type InterestLedger interface {
	// RecordFeedback 对快拍的每个标签施加增量，单个标签失败只记日志。
	// 返回成功施加的标签数。
	RecordFeedback(ctx context.Context, userID, storyID string, dir model.SwipeDirection) (int, error)
	TopInterests(ctx context.Context, userID string) ([]model.InterestScore, error)
}

type interestLedger struct {
	interests repository.InterestRepository
	tags      repository.TagRepository
	cache     InterestCache
	now       Clock
}

func NewInterestLedger(interests repository.InterestRepository, tags repository.TagRepository, cache InterestCache, now Clock) InterestLedger {
	if now == nil {
		now = systemClock
	}
	return &interestLedger{interests: interests, tags: tags, cache: cache, now: now}
}

func (l *interestLedger) RecordFeedback(ctx context.Context, userID, storyID string, dir model.SwipeDirection) (int, error) {
	if !dir.Valid() {
		return 0, ErrInvalidDirection
	}
	if userID == "" || storyID == "" {
		return 0, ErrMissingID
	}

	tags, err := l.tags.ListByStory(ctx, storyID)
	if err != nil {
		return 0, err
	}

	delta := dir.Delta()
	now := l.now()
	applied := 0
	for _, t := range tags {
		if err := l.interests.Accumulate(ctx, userID, t.ID, delta, now); err != nil {
			logger.Warn("interest update failed",
				zap.String("user", userID), zap.String("story", storyID),
				zap.String("tag", t.Name), zap.Error(err))
			continue
		}
		applied++
	}

	if l.cache != nil && applied > 0 {
		if err := l.cache.Invalidate(ctx, userID); err != nil {
			logger.Warn("interest cache invalidate failed", zap.String("user", userID), zap.Error(err))
		}
	}
	return applied, nil
}

func (l *interestLedger) TopInterests(ctx context.Context, userID string) ([]model.InterestScore, error) {
	var (
		version  int64
		cacheErr error
	)
	if l.cache != nil {
		if scores, ok := l.cache.Get(ctx, userID); ok {
			return scores, nil
		}
		version, cacheErr = l.cache.Version(ctx, userID)
	}
	scores, err := l.interests.Top(ctx, userID, TopInterestLimit)
	if err != nil {
		return nil, err
	}
	if l.cache != nil && cacheErr == nil {
		if err := l.cache.Set(ctx, userID, version, scores); err != nil {
			logger.Warn("interest cache set failed", zap.String("user", userID), zap.Error(err))
		}
	}
	return scores, nil
}
