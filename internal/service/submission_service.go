package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/quizforge/quiz-cms-backend/internal/model"
	"github.com/quizforge/quiz-cms-backend/internal/repository"
	"github.com/rs/zerolog"
)

type submissionQueue interface {
	Push(ctx context.Context, payload []byte) error
}

// SubmissionService accepts respondent submissions onto a queue and reads
// persisted ones back. The submission worker does the writing.
type SubmissionService struct {
	submissionRepo *repository.SubmissionRepository
	quizzes        quizLookup
	versions       versionLister
	queue          submissionQueue
	log            zerolog.Logger
}

func NewSubmissionService(
	submissionRepo *repository.SubmissionRepository,
	quizzes quizLookup,
	versions versionLister,
	queue submissionQueue,
	log zerolog.Logger,
) *SubmissionService {
	return &SubmissionService{
		submissionRepo: submissionRepo,
		quizzes:        quizzes,
		versions:       versions,
		queue:          queue,
		log:            log.With().Str("component", "submission_service").Logger(),
	}
}

// Enqueue validates a submission against the published quiz and queues it.
// The id is assigned here so a retried batch cannot insert it twice.
func (s *SubmissionService) Enqueue(ctx context.Context, req *model.CreateSubmissionRequest, meta model.SubmissionMeta) (*model.Submission, error) {
	quizID, err := uuid.Parse(req.QuizID)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if quiz.Status != model.QuizStatusPublished {
		return nil, ErrQuizNotPublished
	}
	versions, err := s.versions.ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if _, err := PickVersion(versions, req.VersionLabel, ""); err != nil {
		return nil, err
	}

	answers, err := json.Marshal(req.Answers)
	if err != nil {
		return nil, fmt.Errorf("marshal answers: %w", err)
	}
	sub := &model.Submission{
		ID:           uuid.New(),
		QuizID:       quizID,
		VersionLabel: req.VersionLabel,
		Answers:      answers,
		Meta:         meta,
		CreatedAt:    time.Now().UTC(),
	}

	payload, err := json.Marshal(sub)
	if err != nil {
		return nil, fmt.Errorf("marshal submission: %w", err)
	}
	if err := s.queue.Push(ctx, payload); err != nil {
		return nil, fmt.Errorf("enqueue submission: %w", err)
	}
	return sub, nil
}

// ListByQuiz returns a page of a quiz's submissions and the total count.
func (s *SubmissionService) ListByQuiz(ctx context.Context, quizID uuid.UUID, q model.ListSubmissionsQuery) ([]model.Submission, int, error) {
	if _, err := s.quizzes.GetByID(ctx, quizID); err != nil {
		return nil, 0, err
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = 50
	}
	return s.submissionRepo.ListByQuiz(ctx, quizID, q.PerPage, (q.Page-1)*q.PerPage)
}
