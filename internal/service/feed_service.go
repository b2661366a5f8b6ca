package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/d60-Lab/onyx/internal/model"
	"github.com/d60-Lab/onyx/internal/repository"
	"github.com/d60-Lab/onyx/pkg/logger"
)

const DefaultFeedLimit = 20

// FeedService 快拍推荐流
type FeedService interface {
	// GetFeed 无正向兴趣时按时间倒序；否则按标签兴趣分之和排序
	GetFeed(ctx context.Context, userID string, limit int) ([]*model.RankedStory, error)
}

type feedService struct {
	stories      repository.StoryRepository
	ledger       InterestLedger
	now          Clock
	defaultLimit int
	maxLimit     int
}

func NewFeedService(stories repository.StoryRepository, ledger InterestLedger, now Clock, defaultLimit, maxLimit int) FeedService {
	if now == nil {
		now = systemClock
	}
	if defaultLimit <= 0 {
		defaultLimit = DefaultFeedLimit
	}
	return &feedService{stories: stories, ledger: ledger, now: now, defaultLimit: defaultLimit, maxLimit: maxLimit}
}

func (s *feedService) GetFeed(ctx context.Context, userID string, limit int) ([]*model.RankedStory, error) {
	if userID == "" {
		return nil, ErrMissingID
	}
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if s.maxLimit > 0 && limit > s.maxLimit {
		limit = s.maxLimit
	}

	top, err := s.ledger.TopInterests(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if len(top) == 0 {
		logger.Debug("feed cold start", zap.String("user", userID))
		return s.stories.FeedRecent(ctx, userID, now, limit)
	}
	return s.stories.FeedRanked(ctx, userID, now, limit)
}
