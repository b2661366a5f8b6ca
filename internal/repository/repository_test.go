package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/onyx/internal/model"
	"github.com/d60-Lab/onyx/pkg/database/dbtest"
)

var baseTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func seedUser(t *testing.T, db *gorm.DB, name string) string {
	t.Helper()
	u := model.User{ID: uuid.New().String(), Username: name, Email: name + "@example.com", PasswordHash: "p", DisplayName: name}
	require.NoError(t, db.Create(&u).Error)
	return u.ID
}

func seedStory(t *testing.T, repo StoryRepository, owner string, created time.Time, labels ...string) *model.Story {
	t.Helper()
	exp := created.Add(24 * time.Hour)
	s := &model.Story{ID: uuid.New().String(), UserID: owner, Text: "story", PostType: model.PostKindStory, CreatedAt: created, ExpiresAt: &exp}
	require.NoError(t, repo.Create(context.Background(), s, labels))
	return s
}

func interestScore(t *testing.T, db *gorm.DB, userID, tagID string) float64 {
	t.Helper()
	var row model.UserInterest
	require.NoError(t, db.Where("user_id = ? AND tag_id = ?", userID, tagID).First(&row).Error)
	return row.Score
}

func ids(items []*model.RankedStory) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestInternTags_Idempotent(t *testing.T) {
	db := dbtest.Open(t)
	tx := db.WithContext(context.Background())

	first, err := internTags(tx, []string{"fitness", "food", "fitness"})
	require.NoError(t, err)
	require.Len(t, first, 2)

	second, err := internTags(tx, []string{"food", "travel"})
	require.NoError(t, err)
	require.Len(t, second, 2)

	var cnt int64
	require.NoError(t, db.Model(&model.Tag{}).Count(&cnt).Error)
	assert.Equal(t, int64(3), cnt)

	assert.Equal(t, first[1].ID, second[0].ID, "food interned once")
}

func TestStoryRepository_CreateFreezesLabels(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewStoryRepository(db)
	owner := seedUser(t, db, "alice")

	s := seedStory(t, repo, owner, baseTime, "sunset", "nature")
	assert.ElementsMatch(t, []string{"sunset", "nature"}, s.Labels)

	got, err := repo.GetByID(context.Background(), s.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"sunset", "nature"}, got.Labels)

	_, err = repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoryRepository_CreateSkipsOverlongLabels(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewStoryRepository(db)
	owner := seedUser(t, db, "alice")

	fits := strings.Repeat("a", model.MaxTagNameLength)
	tooLong := strings.Repeat("b", model.MaxTagNameLength+1)
	s := seedStory(t, repo, owner, baseTime, "sunset", tooLong, fits)
	assert.ElementsMatch(t, []string{"sunset", fits}, s.Labels)

	var cnt int64
	require.NoError(t, db.Model(&model.Tag{}).Where("name = ?", tooLong).Count(&cnt).Error)
	assert.Zero(t, cnt)
}

func TestInterestRepository_Accumulate(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewInterestRepository(db)
	ctx := context.Background()
	user := seedUser(t, db, "bob")

	tt, err := internTags(db.WithContext(ctx), []string{"fitness", "food"})
	require.NoError(t, err)
	fitness, food := tt[0], tt[1]

	require.NoError(t, repo.Accumulate(ctx, user, fitness.ID, 1.0, baseTime))
	require.NoError(t, repo.Accumulate(ctx, user, fitness.ID, 1.0, baseTime.Add(time.Minute)))
	require.NoError(t, repo.Accumulate(ctx, user, food.ID, -0.5, baseTime))

	assert.InDelta(t, 2.0, interestScore(t, db, user, fitness.ID), 1e-9)
	assert.InDelta(t, -0.5, interestScore(t, db, user, food.ID), 1e-9)

	var cnt int64
	require.NoError(t, db.Model(&model.UserInterest{}).Where("user_id = ?", user).Count(&cnt).Error)
	assert.Equal(t, int64(2), cnt)

	top, err := repo.Top(ctx, user, 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "fitness", top[0].TagName)
}

func TestInterestRepository_TopLimit(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewInterestRepository(db)
	ctx := context.Background()
	user := seedUser(t, db, "carol")

	names := make([]string, 12)
	for i := range names {
		names[i] = fmt.Sprintf("tag%02d", i)
	}
	tt, err := internTags(db.WithContext(ctx), names)
	require.NoError(t, err)
	for i, tag := range tt {
		require.NoError(t, repo.Accumulate(ctx, user, tag.ID, float64(i+1), baseTime))
	}

	top, err := repo.Top(ctx, user, 10)
	require.NoError(t, err)
	require.Len(t, top, 10)
	assert.Equal(t, "tag11", top[0].TagName)
	for i := 1; i < len(top); i++ {
		assert.GreaterOrEqual(t, top[i-1].Score, top[i].Score)
	}
}

func TestStoryRepository_MarkViewedCountsOnce(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewStoryRepository(db)
	ctx := context.Background()
	owner := seedUser(t, db, "owner")
	viewer := seedUser(t, db, "viewer")
	s := seedStory(t, repo, owner, baseTime)

	created, err := repo.MarkViewed(ctx, viewer, s.ID, baseTime)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.MarkViewed(ctx, viewer, s.ID, baseTime)
	require.NoError(t, err)
	assert.False(t, created)

	got, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ViewCount)
}

func TestStoryRepository_LikeUnlike(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewStoryRepository(db)
	ctx := context.Background()
	owner := seedUser(t, db, "owner")
	fan := seedUser(t, db, "fan")
	s := seedStory(t, repo, owner, baseTime)

	res, err := repo.Like(ctx, fan, s.ID, 1000000, baseTime)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, int64(1), res.LikesCount)

	// 重复点赞不重复计数
	res, err = repo.Like(ctx, fan, s.ID, 1000000, baseTime)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, int64(1), res.LikesCount)

	liked, err := repo.IsLiked(ctx, fan, s.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	res, err = repo.Unlike(ctx, fan, s.ID)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, int64(0), res.LikesCount)

	res, err = repo.Unlike(ctx, fan, s.ID)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, int64(0), res.LikesCount)

	_, err = repo.Like(ctx, fan, "missing", 1000000, baseTime)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoryRepository_PermanenceThreshold(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewStoryRepository(db)
	ctx := context.Background()
	owner := seedUser(t, db, "owner")
	a := seedUser(t, db, "a")
	b := seedUser(t, db, "b")

	below := seedStory(t, repo, owner, baseTime)
	require.NoError(t, db.Model(&model.Story{}).Where("id = ?", below.ID).Update("likes_count", 999998).Error)
	res, err := repo.Like(ctx, a, below.ID, 1000000, baseTime)
	require.NoError(t, err)
	assert.Equal(t, int64(999999), res.LikesCount)
	assert.False(t, res.IsPermanent)

	res, err = repo.Like(ctx, b, below.ID, 1000000, baseTime)
	require.NoError(t, err)
	assert.Equal(t, int64(1000000), res.LikesCount)
	assert.True(t, res.IsPermanent)

	// 单向：取消点赞不清除
	res, err = repo.Unlike(ctx, b, below.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(999999), res.LikesCount)
	assert.True(t, res.IsPermanent)
}

func TestStoryRepository_FeedRecent(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewStoryRepository(db)
	ctx := context.Background()
	me := seedUser(t, db, "me")
	other := seedUser(t, db, "other")

	old := seedStory(t, repo, other, baseTime.Add(-3*time.Hour))
	mid := seedStory(t, repo, other, baseTime.Add(-2*time.Hour))
	newest := seedStory(t, repo, other, baseTime.Add(-1*time.Hour))
	seen := seedStory(t, repo, other, baseTime.Add(-30*time.Minute))
	_ = seedStory(t, repo, me, baseTime)                      // 自己的
	_ = seedStory(t, repo, other, baseTime.Add(-48*time.Hour)) // 已过期

	_, err := repo.MarkViewed(ctx, me, seen.ID, baseTime)
	require.NoError(t, err)

	feed, err := repo.FeedRecent(ctx, me, baseTime, 20)
	require.NoError(t, err)
	assert.Equal(t, []string{newest.ID, mid.ID, old.ID}, ids(feed))

	feed, err = repo.FeedRecent(ctx, me, baseTime, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{newest.ID, mid.ID}, ids(feed))
}

func TestStoryRepository_FeedPermanentIgnoresExpiry(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewStoryRepository(db)
	ctx := context.Background()
	me := seedUser(t, db, "me")
	other := seedUser(t, db, "other")

	expired := seedStory(t, repo, other, baseTime.Add(-72*time.Hour))
	require.NoError(t, db.Model(&model.Story{}).Where("id = ?", expired.ID).Update("is_permanent", true).Error)

	feed, err := repo.FeedRecent(ctx, me, baseTime, 20)
	require.NoError(t, err)
	assert.Equal(t, []string{expired.ID}, ids(feed))
}

func TestStoryRepository_FeedRanked(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewStoryRepository(db)
	interests := NewInterestRepository(db)
	ctx := context.Background()
	me := seedUser(t, db, "me")
	other := seedUser(t, db, "other")

	created := baseTime.Add(-time.Hour)
	plain := seedStory(t, repo, other, created, "cooking")
	fit := seedStory(t, repo, other, created, "fitness")
	both := seedStory(t, repo, other, baseTime.Add(-5*time.Hour), "fitness", "music")
	disliked := seedStory(t, repo, other, baseTime.Add(-10*time.Minute), "drama")
	untagged := seedStory(t, repo, other, baseTime.Add(-20*time.Minute))

	tt, err := internTags(db.WithContext(ctx), []string{"fitness", "music", "drama"})
	require.NoError(t, err)
	score := map[string]float64{"fitness": 3.0, "music": 1.0, "drama": -0.5}
	for _, tag := range tt {
		require.NoError(t, interests.Accumulate(ctx, me, tag.ID, score[tag.Name], baseTime))
	}

	feed, err := repo.FeedRanked(ctx, me, baseTime, 20)
	require.NoError(t, err)
	// both=4.0, fit=3.0，然后非正相关按时间倒序
	assert.Equal(t, []string{both.ID, fit.ID, disliked.ID, untagged.ID, plain.ID}, ids(feed))
	assert.InDelta(t, 4.0, feed[0].Relevance, 1e-9)
	assert.InDelta(t, 3.0, feed[1].Relevance, 1e-9)
}
