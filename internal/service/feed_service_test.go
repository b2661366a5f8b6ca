package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/onyx/internal/cache"
	"github.com/d60-Lab/onyx/internal/model"
	"github.com/d60-Lab/onyx/internal/repository"
)

func TestRecordFeedback_AccumulatesPerLabel(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	owner := f.user(t, "owner")
	me := f.user(t, "me")
	s := f.post(t, owner, "#fitness #sunset")

	n, err := f.ledger.RecordFeedback(ctx, me, s.ID, model.SwipeAccept)
	require.NoError(t, err)
	assert.Equal(t, len(s.Labels), n)
	_, err = f.ledger.RecordFeedback(ctx, me, s.ID, model.SwipeAccept)
	require.NoError(t, err)

	assert.InDelta(t, 2.0, f.score(t, me, "fitness"), 1e-9)

	_, err = f.ledger.RecordFeedback(ctx, me, s.ID, model.SwipeReject)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, f.score(t, me, "fitness"), 1e-9)

	_, err = f.ledger.RecordFeedback(ctx, me, s.ID, model.SwipeDirection("sideways"))
	assert.ErrorIs(t, err, ErrInvalidDirection)
}

func TestRecordFeedback_NegativeAllowed(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	owner := f.user(t, "owner")
	me := f.user(t, "me")
	s := f.post(t, owner, "#drama")

	_, err := f.ledger.RecordFeedback(ctx, me, s.ID, model.SwipeReject)
	require.NoError(t, err)

	top, err := f.ledger.TopInterests(ctx, me)
	require.NoError(t, err)
	assert.Empty(t, top, "negative scores are not top interests")
}

func TestGetFeed_ColdStartRecency(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	owner := f.user(t, "owner")
	me := f.user(t, "me")

	a := f.post(t, owner, "#one")
	f.clock.Advance(time.Minute)
	b := f.post(t, owner, "#two")
	f.clock.Advance(time.Minute)
	_ = f.post(t, me, "#mine")
	f.clock.Advance(time.Minute)
	c := f.post(t, owner, "#three")
	f.clock.Advance(time.Minute)

	require.NoError(t, f.story.MarkViewed(ctx, me, b.ID))

	feed, err := f.feed.GetFeed(ctx, me, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{c.ID, a.ID}, storyIDs(feed))
}

func TestGetFeed_InterestRanksMatchingFirst(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	owner := f.user(t, "owner")
	me := f.user(t, "me")

	fit := f.post(t, owner, "#fitness")
	other := f.post(t, owner, "#cooking")

	require.NoError(t, f.interests.Accumulate(ctx, me, f.tagID(t, "fitness"), 3.0, f.clock.Now()))

	feed, err := f.feed.GetFeed(ctx, me, 20)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, []string{fit.ID, other.ID}, storyIDs(feed))
	assert.InDelta(t, 3.0, feed[0].Relevance, 1e-9)
	assert.InDelta(t, 0.0, feed[1].Relevance, 1e-9)
}

func TestGetFeed_PermanentSurvivesExpiry(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	owner := f.user(t, "owner")
	me := f.user(t, "me")

	keep := f.post(t, owner, "#legend")
	gone := f.post(t, owner, "#ordinary")
	require.NoError(t, f.db.Model(&model.Story{}).Where("id = ?", keep.ID).Update("likes_count", 999999).Error)

	fan := f.user(t, "fan")
	res, err := f.story.Like(ctx, fan, keep.ID)
	require.NoError(t, err)
	assert.True(t, res.IsPermanent)

	f.clock.Advance(72 * time.Hour)

	feed, err := f.feed.GetFeed(ctx, me, 20)
	require.NoError(t, err)
	assert.Equal(t, []string{keep.ID}, storyIDs(feed))

	_, err = f.story.Like(ctx, fan, gone.ID)
	assert.ErrorIs(t, err, ErrStoryNotFound)
}

func TestGetFeed_SwipeLoop(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	f := newFixture(t, cache.NewInterestCache(client, time.Minute))
	ctx := context.Background()
	owner := f.user(t, "owner")
	me := f.user(t, "me")

	first := f.post(t, owner, "Leg day at the gym 💪")
	f.clock.Advance(time.Minute)
	music := f.post(t, owner, "#concert tonight")
	f.clock.Advance(time.Minute)
	gym := f.post(t, owner, "#gym again")
	f.clock.Advance(time.Minute)
	food := f.post(t, owner, "#pizza")
	f.clock.Advance(time.Minute)

	// 冷启动：按时间
	feed, err := f.feed.GetFeed(ctx, me, 20)
	require.NoError(t, err)
	assert.Equal(t, []string{food.ID, gym.ID, music.ID, first.ID}, storyIDs(feed))

	require.NoError(t, f.story.RecordSwipe(ctx, me, first.ID, model.SwipeAccept))

	// 反馈后缓存失效，下次读取体现新权重；已滑过的不再出现
	feed, err = f.feed.GetFeed(ctx, me, 20)
	require.NoError(t, err)
	assert.Equal(t, []string{gym.ID, food.ID, music.ID}, storyIDs(feed))
	assert.True(t, mr.Exists("interests:top:"+me))

	feed, err = f.feed.GetFeed(ctx, me, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{gym.ID}, storyIDs(feed))
}

// flakyInterests 对指定标签的写入失败
type flakyInterests struct {
	repository.InterestRepository
	failTag string
}

func (r *flakyInterests) Accumulate(ctx context.Context, userID, tagID string, delta float64, now time.Time) error {
	if tagID == r.failTag {
		return errors.New("write failed")
	}
	return r.InterestRepository.Accumulate(ctx, userID, tagID, delta, now)
}

func TestRecordFeedback_OneLabelFailureDoesNotStopOthers(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	owner := f.user(t, "owner")
	me := f.user(t, "me")
	s := f.post(t, owner, "#fitness #sunset")
	require.Len(t, s.Labels, 3)

	ledger := NewInterestLedger(&flakyInterests{InterestRepository: f.interests, failTag: f.tagID(t, "sunset")}, f.tags, nil, f.clock.Now)
	n, err := ledger.RecordFeedback(ctx, me, s.ID, model.SwipeAccept)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.InDelta(t, 1.0, f.score(t, me, "fitness"), 1e-9)
	assert.InDelta(t, 1.0, f.score(t, me, "workout"), 1e-9)
	var cnt int64
	require.NoError(t, f.db.Model(&model.UserInterest{}).Where("user_id = ? AND tag_id = ?", me, f.tagID(t, "sunset")).Count(&cnt).Error)
	assert.Zero(t, cnt)
}

// racingInterests 在第一次 Top 读完数据库后执行 during，模拟并发反馈
type racingInterests struct {
	repository.InterestRepository
	once   sync.Once
	during func()
}

func (r *racingInterests) Top(ctx context.Context, userID string, n int) ([]model.InterestScore, error) {
	res, err := r.InterestRepository.Top(ctx, userID, n)
	r.once.Do(r.during)
	return res, err
}

func TestTopInterests_FeedbackDuringReadIsNotMasked(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	ic := cache.NewInterestCache(client, time.Minute)

	f := newFixture(t, ic)
	ctx := context.Background()
	owner := f.user(t, "owner")
	me := f.user(t, "me")
	s := f.post(t, owner, "#fitness")

	reader := NewInterestLedger(&racingInterests{
		InterestRepository: f.interests,
		during: func() {
			_, err := f.ledger.RecordFeedback(ctx, me, s.ID, model.SwipeAccept)
			assert.NoError(t, err)
		},
	}, f.tags, ic, f.clock.Now)

	top, err := reader.TopInterests(ctx, me)
	require.NoError(t, err)
	assert.Empty(t, top, "read started before the feedback")

	top, err = reader.TopInterests(ctx, me)
	require.NoError(t, err)
	assert.NotEmpty(t, top, "stale empty list must not be served from cache")
}
