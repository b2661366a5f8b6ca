package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/onyx/config"
	"github.com/d60-Lab/onyx/internal/cache"
	"github.com/d60-Lab/onyx/internal/model"
	"github.com/d60-Lab/onyx/internal/repository"
	"github.com/d60-Lab/onyx/internal/service"
	"github.com/d60-Lab/onyx/pkg/database"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func envInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

var captions = []string{
	"Leg day at the gym 💪 #fitness",
	"Sunset on the beach 🌅 #travel",
	"Homemade pizza tonight 🍕 #food",
	"New track dropping soon 🎵 #music",
	"Late night coding session 💻 #tech",
	"Puppy cuddles 🐶 #pets",
	"Concert vibes with friends 🎉",
	"Morning run before work #running",
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}

func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))
	ctx := context.Background()

	N := envInt("N", 2000)
	USERS := envInt("USERS", 100)
	REPEAT := envInt("REPEAT", 5)

	// ONYX_REDIS_ENABLED=true 时测带缓存的排序
	var (
		interestCache *cache.InterestCache
		ledgerCache   service.InterestCache
	)
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			panic(err)
		}
		interestCache = cache.NewInterestCache(rdb, cfg.Feed.InterestCacheTTL)
		ledgerCache = interestCache
	}

	stories := repository.NewStoryRepository(db)
	ledger := service.NewInterestLedger(repository.NewInterestRepository(db), repository.NewTagRepository(db), ledgerCache, nil)
	storySvc := service.NewStoryService(stories, repository.NewSwipeRepository(db), ledger, nil, cfg.Story.TTL, cfg.Story.PermanentThreshold)
	feedSvc := service.NewFeedService(stories, ledger, nil, cfg.Feed.DefaultLimit, cfg.Feed.MaxLimit)

	// seed users
	users := make([]model.User, USERS)
	for i := range users {
		id := uuid.New().String()
		users[i] = model.User{ID: id, Username: "b" + id[:8], Email: id[:8] + "@bench.local", PasswordHash: "x"}
	}
	if err := db.CreateInBatches(&users, 500).Error; err != nil {
		panic(err)
	}

	// seed stories
	rng := rand.New(rand.NewSource(1))
	t0 := time.Now()
	ids := make([]string, 0, N)
	for i := 0; i < N; i++ {
		owner := users[rng.Intn(USERS)].ID
		st := must(storySvc.Create(ctx, owner, service.CreateStoryInput{Text: captions[rng.Intn(len(captions))]}))
		ids = append(ids, st.ID)
	}
	seedDur := time.Since(t0)

	// cold feed: no interests yet
	coldRecs := make([]time.Duration, 0, USERS*REPEAT)
	for r := 0; r < REPEAT; r++ {
		for _, u := range users {
			st := time.Now()
			_, _ = feedSvc.GetFeed(ctx, u.ID, 0)
			coldRecs = append(coldRecs, time.Since(st))
		}
	}

	// a few swipes per user to build interests
	swipeRecs := make([]time.Duration, 0, USERS*5)
	for _, u := range users {
		for j := 0; j < 5; j++ {
			dir := model.SwipeAccept
			if rng.Intn(3) == 0 {
				dir = model.SwipeReject
			}
			st := time.Now()
			_ = storySvc.RecordSwipe(ctx, u.ID, ids[rng.Intn(len(ids))], dir)
			swipeRecs = append(swipeRecs, time.Since(st))
		}
	}

	rankedRecs := make([]time.Duration, 0, USERS*REPEAT)
	for r := 0; r < REPEAT; r++ {
		for _, u := range users {
			st := time.Now()
			_, _ = feedSvc.GetFeed(ctx, u.ID, 0)
			rankedRecs = append(rankedRecs, time.Since(st))
		}
	}

	// streak updates through the async recorder
	streakSvc := service.NewStreakService(repository.NewStreakRepository(db), cache.NewLocalPairLocker())
	recorder := service.NewStreakRecorder(streakSvc, cfg.Streak.Workers, USERS*4)
	stop := recorder.Start()
	maxQ := 0
	now := time.Now().UTC()
	for i := 0; i < USERS; i++ {
		a, b := users[i].ID, users[(i+1)%USERS].ID
		recorder.Enqueue(a, b, now)
		if q := recorder.QueueLen(); q > maxQ {
			maxQ = q
		}
	}
	landRecs := make([]time.Duration, 0, USERS)
	timeout := time.After(30 * time.Second)
collect:
	for len(landRecs) < USERS {
		select {
		case d := <-recorder.Metrics():
			landRecs = append(landRecs, d)
		case <-timeout:
			break collect
		}
	}
	_ = stop(ctx)

	fmt.Printf("N=%d, USERS=%d, REPEAT=%d\n", N, USERS, REPEAT)
	fmt.Printf("Seed stories total: %v, per story: %v\n", seedDur, seedDur/time.Duration(N))
	fmt.Printf("Cold feed: p50=%v, p95=%v, p99=%v\n", pct(coldRecs, 0.50), pct(coldRecs, 0.95), pct(coldRecs, 0.99))
	fmt.Printf("Swipe: p50=%v, p95=%v, p99=%v\n", pct(swipeRecs, 0.50), pct(swipeRecs, 0.95), pct(swipeRecs, 0.99))
	fmt.Printf("Ranked feed: p50=%v, p95=%v, p99=%v\n", pct(rankedRecs, 0.50), pct(rankedRecs, 0.95), pct(rankedRecs, 0.99))
	if interestCache != nil {
		hits, misses := interestCache.Counters()
		fmt.Printf("Interest cache: hits=%d, misses=%d\n", hits, misses)
	}
	fmt.Printf("Streak landing: samples=%d, p50=%v, p99=%v, maxQueue=%d\n", len(landRecs), pct(landRecs, 0.50), pct(landRecs, 0.99), maxQ)
}
