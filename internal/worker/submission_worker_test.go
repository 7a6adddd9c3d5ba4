package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/quizforge/quiz-cms-backend/internal/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memQueue struct {
	mu    sync.Mutex
	items [][]byte
}

func (q *memQueue) Pop(ctx context.Context, timeout time.Duration) ([]byte, bool, error) {
	q.mu.Lock()
	if len(q.items) > 0 {
		item := q.items[0]
		q.items = q.items[1:]
		q.mu.Unlock()
		return item, true, nil
	}
	q.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case <-time.After(5 * time.Millisecond):
		return nil, false, nil
	}
}

func (q *memQueue) Push(_ context.Context, payload []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, payload)
	return nil
}

func (q *memQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

type fakeWriter struct {
	mu        sync.Mutex
	batchErr  error
	failIDs   map[uuid.UUID]bool
	batches   int
	persisted []uuid.UUID
}

func (w *fakeWriter) InsertBatch(_ context.Context, batch []model.Submission) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.batches++
	if w.batchErr != nil {
		return w.batchErr
	}
	for _, s := range batch {
		w.persisted = append(w.persisted, s.ID)
	}
	return nil
}

func (w *fakeWriter) Insert(_ context.Context, s model.Submission) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.failIDs[s.ID] {
		return errors.New("insert failed")
	}
	w.persisted = append(w.persisted, s.ID)
	return nil
}

func (w *fakeWriter) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.persisted)
}

func submission(t *testing.T) (model.Submission, []byte) {
	t.Helper()
	s := model.Submission{ID: uuid.New(), QuizID: uuid.New(), VersionLabel: "A", Answers: json.RawMessage(`{"goal":"lose"}`)}
	raw, err := json.Marshal(s)
	require.NoError(t, err)
	return s, raw
}

func TestSubmissionWorker_FlushesFullBatches(t *testing.T) {
	queue := &memQueue{}
	for i := 0; i < 5; i++ {
		_, raw := submission(t)
		require.NoError(t, queue.Push(context.Background(), raw))
	}
	writer := &fakeWriter{}
	w := NewSubmissionWorker(queue, writer, 5, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return writer.count() == 5 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, 1, writer.batches)
}

func TestSubmissionWorker_DrainsOnShutdown(t *testing.T) {
	queue := &memQueue{}
	_, raw := submission(t)
	require.NoError(t, queue.Push(context.Background(), raw))
	writer := &fakeWriter{}
	w := NewSubmissionWorker(queue, writer, 100, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return queue.len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, 1, writer.count())
}

func TestSubmissionWorker_FallbackRequeuesFailures(t *testing.T) {
	good, _ := submission(t)
	bad, _ := submission(t)
	queue := &memQueue{}
	writer := &fakeWriter{batchErr: errors.New("batch failed"), failIDs: map[uuid.UUID]bool{bad.ID: true}}
	w := NewSubmissionWorker(queue, writer, 10, zerolog.Nop())

	w.flushSafe(context.Background(), []model.Submission{good, bad})

	assert.Equal(t, []uuid.UUID{good.ID}, writer.persisted)
	require.Equal(t, 1, queue.len())
	var requeued model.Submission
	require.NoError(t, json.Unmarshal(queue.items[0], &requeued))
	assert.Equal(t, bad.ID, requeued.ID)
}
