package service

import (
	"context"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"github.com/d60-Lab/onyx/internal/model"
	"github.com/d60-Lab/onyx/pkg/logger"
)

type streakJob struct {
	senderID   string
	receiverID string
	at         time.Time
	enqAt      time.Time
}

// StreakRecorder 本地异步执行器：消息发送后把连续天数更新放入队列，
// 由若干 worker 落库。同一好友对固定落在同一个 worker 的队列上，
// 因此按入队顺序处理；事件携带发送时间，落库延迟不影响 24/48h 判定。
type StreakRecorder struct {
	streaks   StreakService
	shards    []chan streakJob
	metricsCh chan time.Duration
}

func NewStreakRecorder(streaks StreakService, workers, queueSize int) *StreakRecorder {
	if workers <= 0 {
		workers = 4
	}
	if queueSize <= 0 {
		queueSize = 10000
	}
	per := queueSize / workers
	if per < 1 {
		per = 1
	}
	shards := make([]chan streakJob, workers)
	for i := range shards {
		shards[i] = make(chan streakJob, per)
	}
	return &StreakRecorder{streaks: streaks, shards: shards, metricsCh: make(chan time.Duration, 65536)}
}

func (r *StreakRecorder) shardFor(senderID, receiverID string) chan streakJob {
	low, high := model.CanonicalPair(senderID, receiverID)
	h := xxhash.Sum64String(low + "|" + high)
	return r.shards[h%uint64(len(r.shards))]
}

// Start 每个分片一个 worker；返回的停止函数会处理完已入队的事件
func (r *StreakRecorder) Start() func(context.Context) error {
	stopCh := make(chan struct{})
	var wg sync.WaitGroup
	for _, ch := range r.shards {
		wg.Add(1)
		go func(ch chan streakJob) {
			defer wg.Done()
			for {
				select {
				case job := <-ch:
					r.handle(job)
				case <-stopCh:
					for {
						select {
						case job := <-ch:
							r.handle(job)
						default:
							return
						}
					}
				}
			}
		}(ch)
	}

	var once sync.Once
	return func(ctx context.Context) error {
		once.Do(func() { close(stopCh) })
		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (r *StreakRecorder) handle(job streakJob) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := r.streaks.Record(ctx, job.senderID, job.receiverID, job.at); err != nil {
		logger.Warn("streak update failed", zap.String("sender", job.senderID), zap.String("receiver", job.receiverID), zap.Error(err))
	}
	select {
	case r.metricsCh <- time.Since(job.enqAt):
	default:
	}
}

// Enqueue 非阻塞入队；队列满时丢弃并告警
func (r *StreakRecorder) Enqueue(senderID, receiverID string, at time.Time) {
	select {
	case r.shardFor(senderID, receiverID) <- streakJob{senderID: senderID, receiverID: receiverID, at: at, enqAt: time.Now()}:
	default:
		logger.Warn("streak queue full, drop update", zap.String("sender", senderID), zap.String("receiver", receiverID))
	}
}

// Metrics 返回落库耗时的只读通道（每处理一条发送一次 duration）。
func (r *StreakRecorder) Metrics() <-chan time.Duration { return r.metricsCh }

// QueueLen 返回所有分片的排队总数（采样值）。
func (r *StreakRecorder) QueueLen() int {
	n := 0
	for _, ch := range r.shards {
		n += len(ch)
	}
	return n
}
