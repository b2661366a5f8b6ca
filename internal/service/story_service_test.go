package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/onyx/internal/model"
	"github.com/d60-Lab/onyx/internal/repository"
)

func TestStoryService_CreateLabelsAndExpiry(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	owner := f.user(t, "owner")

	s, err := f.story.Create(ctx, owner, CreateStoryInput{Text: "Watching the #Sunset 😍"})
	require.NoError(t, err)
	assert.Contains(t, s.Labels, "sunset")
	assert.Contains(t, s.Labels, "love")
	require.NotNil(t, s.ExpiresAt)
	assert.Equal(t, 24*time.Hour, s.ExpiresAt.Sub(s.CreatedAt))

	p, err := f.story.Create(ctx, owner, CreateStoryInput{MediaURL: "/uploads/a.jpg", Kind: model.PostKindPost})
	require.NoError(t, err)
	assert.Nil(t, p.ExpiresAt)
	assert.Empty(t, p.Labels)

	_, err = f.story.Create(ctx, owner, CreateStoryInput{Text: "   "})
	assert.ErrorIs(t, err, ErrEmptyStory)
}

func TestStoryService_CreateWithOverlongHashtag(t *testing.T) {
	f := newFixture(t, nil)
	owner := f.user(t, "owner")

	s, err := f.story.Create(context.Background(), owner, CreateStoryInput{Text: "#" + strings.Repeat("x", model.MaxTagNameLength+1) + " #beach"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"beach", "nature"}, s.Labels)
}

func TestStoryService_MarkViewedIdempotent(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	owner := f.user(t, "owner")
	me := f.user(t, "me")
	s := f.post(t, owner, "hello world")

	require.NoError(t, f.story.MarkViewed(ctx, me, s.ID))
	require.NoError(t, f.story.MarkViewed(ctx, me, s.ID))

	got, err := f.story.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ViewCount)

	assert.ErrorIs(t, f.story.MarkViewed(ctx, me, "missing"), ErrStoryNotFound)
}

func TestStoryService_RecordSwipe(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	owner := f.user(t, "owner")
	me := f.user(t, "me")
	s := f.post(t, owner, "#fitness")

	err := f.story.RecordSwipe(ctx, me, s.ID, model.SwipeDirection("up"))
	assert.ErrorIs(t, err, ErrInvalidDirection)
	assert.Equal(t, int64(0), f.swipeCount(t, me, s.ID), "rejected before any mutation")

	require.NoError(t, f.story.RecordSwipe(ctx, me, s.ID, model.SwipeAccept))
	require.NoError(t, f.story.RecordSwipe(ctx, me, s.ID, model.SwipeReject))

	assert.Equal(t, int64(2), f.swipeCount(t, me, s.ID), "swipes are append-only")

	got, err := f.story.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ViewCount)

	top, err := f.ledger.TopInterests(ctx, me)
	require.NoError(t, err)
	require.NotEmpty(t, top)
	for _, it := range top {
		assert.InDelta(t, 0.5, it.Score, 1e-9)
	}

	assert.ErrorIs(t, f.story.RecordSwipe(ctx, me, "missing", model.SwipeAccept), ErrStoryNotFound)
}

func TestStoryService_LikeDuplicateDoesNotDoubleCount(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	owner := f.user(t, "owner")
	me := f.user(t, "me")
	s := f.post(t, owner, "hello")

	res, err := f.story.Like(ctx, me, s.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.LikesCount)

	res, err = f.story.Like(ctx, me, s.ID)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, int64(1), res.LikesCount)

	liked, err := f.story.Liked(ctx, me, s.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	res, err = f.story.Unlike(ctx, me, s.ID)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, int64(0), res.LikesCount)
}

func TestStoryService_PermanenceBoundary(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	owner := f.user(t, "owner")
	s := f.post(t, owner, "hello")
	require.NoError(t, f.db.Model(&model.Story{}).Where("id = ?", s.ID).Update("likes_count", 999998).Error)

	res, err := f.story.Like(ctx, f.user(t, "a"), s.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(999999), res.LikesCount)
	assert.False(t, res.IsPermanent)

	res, err = f.story.Like(ctx, f.user(t, "b"), s.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000000), res.LikesCount)
	assert.True(t, res.IsPermanent)
}

func TestStoryService_ListMineAndDelete(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	owner := f.user(t, "owner")
	other := f.user(t, "other")

	old := f.post(t, owner, "old one")
	f.clock.Advance(25 * time.Hour)
	fresh := f.post(t, owner, "fresh one")

	mine, err := f.story.ListMine(ctx, owner)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, fresh.ID, mine[0].ID)

	assert.ErrorIs(t, f.story.Delete(ctx, fresh.ID, other), ErrStoryNotFound)
	require.NoError(t, f.story.Delete(ctx, fresh.ID, owner))
	require.NoError(t, f.story.Delete(ctx, old.ID, owner))

	_, err = f.story.Get(ctx, fresh.ID)
	assert.ErrorIs(t, err, ErrStoryNotFound)
}

type brokenLedger struct{}

func (brokenLedger) RecordFeedback(context.Context, string, string, model.SwipeDirection) (int, error) {
	return 0, errors.New("ledger down")
}

func (brokenLedger) TopInterests(context.Context, string) ([]model.InterestScore, error) {
	return nil, errors.New("ledger down")
}

// viewFailingStories 标记已看总是失败
type viewFailingStories struct {
	repository.StoryRepository
}

func (viewFailingStories) MarkViewed(context.Context, string, string, time.Time) (bool, error) {
	return false, errors.New("views table locked")
}

func TestStoryService_SwipeSurvivesDerivedFailures(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	owner := f.user(t, "owner")
	me := f.user(t, "me")
	s := f.post(t, owner, "#fitness")

	svc := NewStoryService(viewFailingStories{f.stories}, f.swipes, brokenLedger{}, f.clock.Now, 24*time.Hour, 0)
	require.NoError(t, svc.RecordSwipe(ctx, me, s.ID, model.SwipeAccept))

	assert.Equal(t, int64(1), f.swipeCount(t, me, s.ID), "swipe row written")
	got, err := f.story.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.ViewCount)
}
