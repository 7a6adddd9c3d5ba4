package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/quizforge/quiz-cms-backend/internal/config"
	"github.com/quizforge/quiz-cms-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	DefaultSubmissionBatchSize = 50
	SubmissionBatchTimeout     = 2 * time.Second
	SubmissionPollTimeout      = 1 * time.Second
)

// Queue is the list submissions wait on before they reach Postgres.
type Queue interface {
	// Pop blocks up to timeout and returns ok=false when nothing arrived.
	Pop(ctx context.Context, timeout time.Duration) (payload []byte, ok bool, err error)
	Push(ctx context.Context, payload []byte) error
}

type submissionWriter interface {
	InsertBatch(ctx context.Context, batch []model.Submission) error
	Insert(ctx context.Context, s model.Submission) error
}

// RedisQueue is a Queue over a Redis list.
type RedisQueue struct {
	rdb *redis.Client
	key string
}

func NewRedisQueue(rdb *redis.Client, key string) *RedisQueue {
	return &RedisQueue{rdb: rdb, key: key}
}

// NewSubmissionQueue returns the queue SubmissionService pushes onto.
func NewSubmissionQueue(rdb *redis.Client) *RedisQueue {
	return NewRedisQueue(rdb, config.WorkerKey.PersistSubmissionsQueue)
}

func (q *RedisQueue) Pop(ctx context.Context, timeout time.Duration) ([]byte, bool, error) {
	item, err := q.rdb.BLPop(ctx, timeout, q.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if len(item) < 2 {
		return nil, false, nil
	}
	return []byte(item[1]), true, nil
}

func (q *RedisQueue) Push(ctx context.Context, payload []byte) error {
	return q.rdb.RPush(ctx, q.key, payload).Err()
}

// SubmissionWorker drains queued submissions into Postgres in batches.
type SubmissionWorker struct {
	queue     Queue
	writer    submissionWriter
	batchSize int
	log       zerolog.Logger
}

func NewSubmissionWorker(queue Queue, writer submissionWriter, batchSize int, log zerolog.Logger) *SubmissionWorker {
	if batchSize < 1 {
		batchSize = DefaultSubmissionBatchSize
	}
	return &SubmissionWorker{
		queue:     queue,
		writer:    writer,
		batchSize: batchSize,
		log:       log.With().Str("component", "submission_worker").Logger(),
	}
}

// ----------------------------------------------------------------
// Worker loop with batching
// ----------------------------------------------------------------

// Start runs until ctx is cancelled, then flushes what it holds.
func (w *SubmissionWorker) Start(ctx context.Context) {
	w.log.Info().Int("batch_size", w.batchSize).Msg("SubmissionWorker started")

	batch := make([]model.Submission, 0, w.batchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= w.batchSize || time.Since(lastFlush) >= SubmissionBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Int("pending", len(batch)).Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			raw, ok, err := w.queue.Pop(ctx, SubmissionPollTimeout)
			if err != nil {
				if ctx.Err() == nil {
					w.log.Error().Err(err).Msg("Queue pop error")
				}
				continue
			}
			if !ok {
				continue
			}

			var s model.Submission
			if err := json.Unmarshal(raw, &s); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}
			batch = append(batch, s)
		}
	}
}

// ----------------------------------------------------------------
// Batch insert with per-row fallback
// ----------------------------------------------------------------

func (w *SubmissionWorker) flushSafe(ctx context.Context, batch []model.Submission) {
	if len(batch) == 0 {
		return
	}

	if err := w.writer.InsertBatch(ctx, batch); err != nil {
		w.log.Warn().Err(err).Int("size", len(batch)).Msg("Batch insert failed, using fallback")

		for _, s := range batch {
			if err := w.writer.Insert(ctx, s); err != nil {
				w.log.Error().Err(err).Str("submission_id", s.ID.String()).Msg("Insert failed, requeueing")
				raw, _ := json.Marshal(s)
				if err := w.queue.Push(ctx, raw); err != nil {
					w.log.Error().Err(err).Str("submission_id", s.ID.String()).Msg("Requeue failed, submission lost")
				}
			}
		}
		return
	}

	w.log.Debug().Int("size", len(batch)).Msg("Submissions persisted")
}
