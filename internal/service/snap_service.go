package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/d60-Lab/onyx/internal/model"
	"github.com/d60-Lab/onyx/internal/repository"
	"github.com/d60-Lab/onyx/pkg/logger"
)

// SendSnapInput 发送参数
type SendSnapInput struct {
	ReceiverID string
	Text       string
	MediaURL   string
}

// SnapService 好友间短时消息；每次发送驱动连续天数
type SnapService interface {
	Send(ctx context.Context, senderID string, in SendSnapInput) (*model.Snap, error)
	ListReceived(ctx context.Context, userID string) ([]*model.Snap, error)
	ListSent(ctx context.Context, userID string) ([]*model.Snap, error)
	View(ctx context.Context, id, receiverID string) (*model.Snap, error)
}

type snapService struct {
	snaps    repository.SnapRepository
	friends  repository.FriendshipRepository
	streaks  StreakService
	recorder *StreakRecorder
	now      Clock
	ttl      time.Duration
	maxText  int
}

// NewSnapService recorder 为 nil 时连续天数同步更新
func NewSnapService(snaps repository.SnapRepository, friends repository.FriendshipRepository, streaks StreakService, recorder *StreakRecorder, now Clock, ttl time.Duration, maxText int) SnapService {
	if now == nil {
		now = systemClock
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &snapService{snaps: snaps, friends: friends, streaks: streaks, recorder: recorder, now: now, ttl: ttl, maxText: maxText}
}

func (s *snapService) Send(ctx context.Context, senderID string, in SendSnapInput) (*model.Snap, error) {
	if senderID == "" || in.ReceiverID == "" {
		return nil, ErrMissingID
	}
	if strings.TrimSpace(in.Text) == "" && in.MediaURL == "" {
		return nil, ErrEmptySnap
	}
	if s.maxText > 0 && utf8.RuneCountInString(in.Text) > s.maxText {
		return nil, ErrTextTooLong
	}
	ok, err := s.friends.Exists(ctx, senderID, in.ReceiverID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFriends
	}

	now := s.now()
	snap := &model.Snap{
		ID:         uuid.New().String(),
		SenderID:   senderID,
		ReceiverID: in.ReceiverID,
		Text:       in.Text,
		MediaURL:   in.MediaURL,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.ttl),
	}
	if err := s.snaps.Create(ctx, snap); err != nil {
		return nil, err
	}

	// 连续天数是派生状态：失败只记日志，消息照常成功
	if s.recorder != nil {
		s.recorder.Enqueue(senderID, in.ReceiverID, now)
	} else if _, err := s.streaks.RecordNow(ctx, senderID, in.ReceiverID, s.now); err != nil {
		logger.Warn("streak update failed", zap.String("sender", senderID), zap.String("receiver", in.ReceiverID), zap.Error(err))
	}
	return snap, nil
}

func (s *snapService) ListReceived(ctx context.Context, userID string) ([]*model.Snap, error) {
	return s.snaps.ListReceived(ctx, userID, s.now())
}

func (s *snapService) ListSent(ctx context.Context, userID string) ([]*model.Snap, error) {
	return s.snaps.ListSent(ctx, userID, s.now())
}

func (s *snapService) View(ctx context.Context, id, receiverID string) (*model.Snap, error) {
	snap, err := s.snaps.MarkViewed(ctx, id, receiverID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrSnapNotFound
	}
	return snap, err
}
