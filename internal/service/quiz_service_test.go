package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/quizforge/quiz-cms-backend/internal/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuizService_CreateStartsAsDraft(t *testing.T) {
	svc := NewQuizService(newFakeQuizStore(), &fakeVersionStore{}, &fakeCache{}, zerolog.Nop())

	q, err := svc.Create(context.Background(), &model.CreateQuizRequest{BrandID: uuid.NewString(), Slug: "skin-quiz", Title: "Skin"})
	require.NoError(t, err)
	assert.Equal(t, model.QuizStatusDraft, q.Status)
	assert.Equal(t, "en", q.LocaleDefault)
	assert.Equal(t, "bar", q.ProgressStyle)
}

func TestQuizService_Publish(t *testing.T) {
	ctx := context.Background()
	quiz := model.Quiz{ID: uuid.New(), Status: model.QuizStatusDraft}

	t.Run("without versions", func(t *testing.T) {
		svc := NewQuizService(newFakeQuizStore(quiz), &fakeVersionStore{}, &fakeCache{}, zerolog.Nop())
		_, err := svc.Publish(ctx, quiz.ID)
		assert.ErrorIs(t, err, ErrQuizNotPublishable)
	})

	t.Run("without a default", func(t *testing.T) {
		versions := &fakeVersionStore{versions: []model.Version{{ID: uuid.New(), QuizID: quiz.ID, Label: "A"}}}
		svc := NewQuizService(newFakeQuizStore(quiz), versions, &fakeCache{}, zerolog.Nop())
		_, err := svc.Publish(ctx, quiz.ID)
		assert.ErrorIs(t, err, ErrQuizNotPublishable)
	})

	t.Run("with one default", func(t *testing.T) {
		versions := &fakeVersionStore{versions: []model.Version{
			{ID: uuid.New(), QuizID: quiz.ID, Label: "A", IsDefault: true},
			{ID: uuid.New(), QuizID: quiz.ID, Label: "B"},
		}}
		cache := &fakeCache{}
		svc := NewQuizService(newFakeQuizStore(quiz), versions, cache, zerolog.Nop())

		published, err := svc.Publish(ctx, quiz.ID)
		require.NoError(t, err)
		assert.Equal(t, model.QuizStatusPublished, published.Status)
		assert.Equal(t, []uuid.UUID{quiz.ID}, cache.invalidated)

		archived, err := svc.Archive(ctx, quiz.ID)
		require.NoError(t, err)
		assert.Equal(t, model.QuizStatusArchived, archived.Status)
	})
}
