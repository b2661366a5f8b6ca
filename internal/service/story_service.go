package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/d60-Lab/onyx/internal/model"
	"github.com/d60-Lab/onyx/internal/repository"
	"github.com/d60-Lab/onyx/internal/tagging"
	"github.com/d60-Lab/onyx/pkg/logger"
)

// DefaultPermanentThreshold 点赞数达到该值后快拍永久保留
const DefaultPermanentThreshold int64 = 1000000

// CreateStoryInput 创建快拍参数
type CreateStoryInput struct {
	Text        string
	MediaURL    string
	TextOverlay string
	Kind        model.PostKind
	// Duration 为 0 时 story 使用默认时长，post 永久
	Duration time.Duration
}

// StoryService 快拍的创建、查看、互动
type StoryService interface {
	Create(ctx context.Context, ownerID string, in CreateStoryInput) (*model.Story, error)
	Get(ctx context.Context, id string) (*model.Story, error)
	ListMine(ctx context.Context, ownerID string) ([]*model.Story, error)
	Delete(ctx context.Context, id, ownerID string) error

	// MarkViewed 幂等，只有首次曝光会让浏览数 +1
	MarkViewed(ctx context.Context, userID, storyID string) error
	// RecordSwipe 追加滑动日志，随后标记已看并更新兴趣
	RecordSwipe(ctx context.Context, userID, storyID string, dir model.SwipeDirection) error

	Like(ctx context.Context, userID, storyID string) (*repository.LikeResult, error)
	Unlike(ctx context.Context, userID, storyID string) (*repository.LikeResult, error)
	Liked(ctx context.Context, userID, storyID string) (bool, error)
}

type storyService struct {
	stories   repository.StoryRepository
	swipes    repository.SwipeRepository
	ledger    InterestLedger
	now       Clock
	ttl       time.Duration
	threshold int64
}

func NewStoryService(stories repository.StoryRepository, swipes repository.SwipeRepository, ledger InterestLedger, now Clock, ttl time.Duration, threshold int64) StoryService {
	if now == nil {
		now = systemClock
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if threshold <= 0 {
		threshold = DefaultPermanentThreshold
	}
	return &storyService{stories: stories, swipes: swipes, ledger: ledger, now: now, ttl: ttl, threshold: threshold}
}

func (s *storyService) Create(ctx context.Context, ownerID string, in CreateStoryInput) (*model.Story, error) {
	if ownerID == "" {
		return nil, ErrMissingID
	}
	if strings.TrimSpace(in.Text) == "" && in.MediaURL == "" {
		return nil, ErrEmptyStory
	}
	kind := in.Kind
	if kind == "" {
		kind = model.PostKindStory
	}

	now := s.now()
	st := &model.Story{
		ID:          uuid.New().String(),
		UserID:      ownerID,
		Text:        in.Text,
		MediaURL:    in.MediaURL,
		TextOverlay: in.TextOverlay,
		PostType:    kind,
		CreatedAt:   now,
	}
	switch {
	case in.Duration > 0:
		exp := now.Add(in.Duration)
		st.ExpiresAt = &exp
	case kind == model.PostKindStory:
		exp := now.Add(s.ttl)
		st.ExpiresAt = &exp
	}

	labels := tagging.Extract(in.Text)
	if err := s.stories.Create(ctx, st, labels); err != nil {
		return nil, err
	}
	logger.Info("story created", zap.String("story", st.ID), zap.String("owner", ownerID), zap.Strings("tags", st.Labels))
	return st, nil
}

func (s *storyService) Get(ctx context.Context, id string) (*model.Story, error) {
	st, err := s.stories.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrStoryNotFound
	}
	return st, err
}

// live 写操作前校验：不存在或已过期都视为 not found
func (s *storyService) live(ctx context.Context, storyID string) (*model.Story, error) {
	if storyID == "" {
		return nil, ErrMissingID
	}
	st, err := s.Get(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if st.Expired(s.now()) {
		return nil, ErrStoryNotFound
	}
	return st, nil
}

func (s *storyService) ListMine(ctx context.Context, ownerID string) ([]*model.Story, error) {
	return s.stories.ListByOwner(ctx, ownerID, s.now())
}

func (s *storyService) Delete(ctx context.Context, id, ownerID string) error {
	err := s.stories.Delete(ctx, id, ownerID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrStoryNotFound
	}
	return err
}

func (s *storyService) MarkViewed(ctx context.Context, userID, storyID string) error {
	if userID == "" {
		return ErrMissingID
	}
	if _, err := s.live(ctx, storyID); err != nil {
		return err
	}
	_, err := s.stories.MarkViewed(ctx, userID, storyID, s.now())
	return err
}

func (s *storyService) RecordSwipe(ctx context.Context, userID, storyID string, dir model.SwipeDirection) error {
	if !dir.Valid() {
		return ErrInvalidDirection
	}
	if userID == "" {
		return ErrMissingID
	}
	if _, err := s.live(ctx, storyID); err != nil {
		return err
	}

	now := s.now()
	swipe := &model.Swipe{ID: uuid.New().String(), UserID: userID, StoryID: storyID, Direction: dir, CreatedAt: now}
	if err := s.swipes.Create(ctx, swipe); err != nil {
		return err
	}

	// 以下为派生状态，失败不影响滑动本身
	if _, err := s.stories.MarkViewed(ctx, userID, storyID, now); err != nil {
		logger.Warn("mark viewed after swipe failed", zap.String("user", userID), zap.String("story", storyID), zap.Error(err))
	}
	if _, err := s.ledger.RecordFeedback(ctx, userID, storyID, dir); err != nil {
		logger.Warn("interest feedback failed", zap.String("user", userID), zap.String("story", storyID), zap.Error(err))
	}
	return nil
}

func (s *storyService) Like(ctx context.Context, userID, storyID string) (*repository.LikeResult, error) {
	if userID == "" {
		return nil, ErrMissingID
	}
	if _, err := s.live(ctx, storyID); err != nil {
		return nil, err
	}
	res, err := s.stories.Like(ctx, userID, storyID, s.threshold, s.now())
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrStoryNotFound
	}
	if err != nil {
		return nil, err
	}
	if res.IsPermanent && res.Changed && res.LikesCount == s.threshold {
		logger.Info("story promoted to permanent", zap.String("story", storyID), zap.Int64("likes", res.LikesCount))
	}
	return res, nil
}

func (s *storyService) Unlike(ctx context.Context, userID, storyID string) (*repository.LikeResult, error) {
	if userID == "" || storyID == "" {
		return nil, ErrMissingID
	}
	res, err := s.stories.Unlike(ctx, userID, storyID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrStoryNotFound
	}
	return res, err
}

func (s *storyService) Liked(ctx context.Context, userID, storyID string) (bool, error) {
	return s.stories.IsLiked(ctx, userID, storyID)
}
