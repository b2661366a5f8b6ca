package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/onyx/internal/model"
	"github.com/d60-Lab/onyx/internal/repository"
	"github.com/d60-Lab/onyx/pkg/database/dbtest"
)

// fakeClock 测试用可推进时钟
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fixture struct {
	db        *gorm.DB
	clock     *fakeClock
	stories   repository.StoryRepository
	interests repository.InterestRepository
	tags      repository.TagRepository
	swipes    repository.SwipeRepository
	ledger    InterestLedger
	feed      FeedService
	story     StoryService
}

func newFixture(t *testing.T, cache InterestCache) *fixture {
	t.Helper()
	db := dbtest.Open(t)
	clock := newFakeClock()
	f := &fixture{
		db:        db,
		clock:     clock,
		stories:   repository.NewStoryRepository(db),
		interests: repository.NewInterestRepository(db),
		tags:      repository.NewTagRepository(db),
		swipes:    repository.NewSwipeRepository(db),
	}
	f.ledger = NewInterestLedger(f.interests, f.tags, cache, clock.Now)
	f.feed = NewFeedService(f.stories, f.ledger, clock.Now, 0, 100)
	f.story = NewStoryService(f.stories, f.swipes, f.ledger, clock.Now, 24*time.Hour, 0)
	return f
}

func (f *fixture) user(t *testing.T, name string) string {
	t.Helper()
	u := model.User{ID: uuid.New().String(), Username: name, Email: name + "@example.com", PasswordHash: "x"}
	require.NoError(t, f.db.Create(&u).Error)
	return u.ID
}

func (f *fixture) post(t *testing.T, owner, text string) *model.Story {
	t.Helper()
	s, err := f.story.Create(context.Background(), owner, CreateStoryInput{Text: text})
	require.NoError(t, err)
	return s
}

func (f *fixture) tagID(t *testing.T, name string) string {
	t.Helper()
	var tag model.Tag
	require.NoError(t, f.db.Where("name = ?", name).First(&tag).Error)
	return tag.ID
}

func (f *fixture) score(t *testing.T, userID, tag string) float64 {
	t.Helper()
	var row model.UserInterest
	require.NoError(t, f.db.Where("user_id = ? AND tag_id = ?", userID, f.tagID(t, tag)).First(&row).Error)
	return row.Score
}

func (f *fixture) swipeCount(t *testing.T, userID, storyID string) int64 {
	t.Helper()
	var cnt int64
	require.NoError(t, f.db.Model(&model.Swipe{}).Where("user_id = ? AND story_id = ?", userID, storyID).Count(&cnt).Error)
	return cnt
}

func storyIDs(items []*model.RankedStory) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}
