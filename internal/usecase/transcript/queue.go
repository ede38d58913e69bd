package transcript

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/voice-transcripts/pkg/jobcontext"
)

const jobTypeRecord = "record_transcript"

// QueueStats counts queue outcomes since start
type QueueStats struct {
	Recorded int64 `json:"recorded"`
	Failed   int64 `json:"failed"`
	Dropped  int64 `json:"dropped"`
}

// Queue hands fragments from pipeline callbacks to background writers.
// With a single worker, fragments are recorded in arrival order.
type Queue struct {
	recorder Service
	jobs     chan Fragment
	workers  int
	timeout  time.Duration
	logger   *zap.Logger

	sendMu sync.RWMutex
	closed bool

	workerMutex sync.Mutex
	running     bool
	workerWg    sync.WaitGroup

	recorded atomic.Int64
	failed   atomic.Int64
	dropped  atomic.Int64
}

// NewQueue creates a queue holding up to size pending fragments
func NewQueue(recorder Service, size, workers int, timeout time.Duration, logger *zap.Logger) *Queue {
	if size < 1 {
		size = 1
	}
	if workers < 1 {
		workers = 1
	}
	return &Queue{
		recorder: recorder,
		jobs:     make(chan Fragment, size),
		workers:  workers,
		timeout:  timeout,
		logger:   logger,
	}
}

// Start launches the workers. Pending fragments are still written after ctx
// is cancelled; Stop ends the workers.
func (q *Queue) Start(ctx context.Context) error {
	q.workerMutex.Lock()
	defer q.workerMutex.Unlock()

	if q.running {
		return fmt.Errorf("recorder queue already running")
	}
	q.sendMu.RLock()
	closed := q.closed
	q.sendMu.RUnlock()
	if closed {
		return fmt.Errorf("recorder queue already stopped")
	}

	q.running = true
	base := context.WithoutCancel(ctx)

	if q.logger != nil {
		q.logger.Info("🚀 Starting recorder queue",
			zap.Int("worker_count", q.workers),
			zap.Int("capacity", cap(q.jobs)),
		)
	}

	for i := 0; i < q.workers; i++ {
		q.workerWg.Add(1)
		go q.worker(base, i)
	}
	return nil
}

// Submit enqueues fragment without blocking. It returns false when the queue
// is full or stopped; the fragment is then dropped.
func (q *Queue) Submit(fragment Fragment) bool {
	q.sendMu.RLock()
	defer q.sendMu.RUnlock()

	if q.closed {
		q.dropped.Add(1)
		return false
	}

	select {
	case q.jobs <- fragment:
		return true
	default:
		q.dropped.Add(1)
		if q.logger != nil {
			q.logger.Warn("⚠️ Recorder queue full, dropping fragment",
				zap.Bool("is_final", fragment.IsFinal),
				zap.Int("text_length", len(fragment.Text)),
			)
		}
		return false
	}
}

// Stop closes the queue, waits for pending fragments to be written and stops the workers
func (q *Queue) Stop() error {
	q.workerMutex.Lock()
	defer q.workerMutex.Unlock()

	if !q.running {
		return fmt.Errorf("recorder queue not running")
	}

	if q.logger != nil {
		q.logger.Info("🛑 Stopping recorder queue...", zap.Int("pending", len(q.jobs)))
	}

	q.sendMu.Lock()
	q.closed = true
	close(q.jobs)
	q.sendMu.Unlock()

	q.workerWg.Wait()
	q.running = false

	if q.logger != nil {
		stats := q.Stats()
		q.logger.Info("✅ Recorder queue stopped",
			zap.Int64("recorded", stats.Recorded),
			zap.Int64("failed", stats.Failed),
			zap.Int64("dropped", stats.Dropped),
		)
	}
	return nil
}

// Stats returns the queue counters
func (q *Queue) Stats() QueueStats {
	return QueueStats{
		Recorded: q.recorded.Load(),
		Failed:   q.failed.Load(),
		Dropped:  q.dropped.Load(),
	}
}

func (q *Queue) worker(base context.Context, workerID int) {
	defer q.workerWg.Done()

	for fragment := range q.jobs {
		ctx, cancel := jobcontext.JobBegin(base, uuid.New(), jobTypeRecord, workerID, q.timeout)
		err := jobcontext.Run(ctx, func(ctx context.Context) error {
			_, err := q.recorder.Record(ctx, fragment)
			return err
		})
		cancel()

		if err != nil {
			q.failed.Add(1)
			if q.logger != nil {
				meta := jobcontext.GetJobMetadata(ctx)
				q.logger.Warn("❌ Fragment not recorded",
					zap.String("job_id", meta.JobID.String()),
					zap.Int("worker_id", workerID),
					zap.Error(err),
				)
			}
			continue
		}
		q.recorded.Add(1)
	}
}
