package service

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math/rand"

	"github.com/google/uuid"
	"github.com/quizforge/quiz-cms-backend/internal/model"
	"github.com/quizforge/quiz-cms-backend/internal/repository"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type publicQuizLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Quiz, error)
	GetBySlug(ctx context.Context, slug string) (*model.Quiz, error)
}

// versionContent loads everything under one version.
type versionContent interface {
	Steps(ctx context.Context, versionID uuid.UUID) ([]model.Step, error)
	Fields(ctx context.Context, versionID uuid.UUID) ([]model.Field, error)
	Options(ctx context.Context, versionID uuid.UUID) ([]model.Option, error)
	GroupedInputs(ctx context.Context, versionID uuid.UUID) ([]model.GroupedInput, error)
	Media(ctx context.Context, ids []uuid.UUID) ([]model.Media, error)
}

type assembledCache interface {
	Get(ctx context.Context, quizID uuid.UUID, versionLabel, seed string) ([]byte, bool, error)
	Set(ctx context.Context, quizID uuid.UUID, versionLabel, seed string, payload []byte) error
}

// RepositoryContent adapts the repositories to versionContent.
type RepositoryContent struct {
	StepRepo         *repository.StepRepository
	FieldRepo        *repository.FieldRepository
	OptionRepo       *repository.OptionRepository
	GroupedInputRepo *repository.GroupedInputRepository
	MediaRepo        *repository.MediaRepository
}

func (c RepositoryContent) Steps(ctx context.Context, id uuid.UUID) ([]model.Step, error) {
	return c.StepRepo.ListByVersion(ctx, id)
}

func (c RepositoryContent) Fields(ctx context.Context, id uuid.UUID) ([]model.Field, error) {
	return c.FieldRepo.ListByVersion(ctx, id)
}

func (c RepositoryContent) Options(ctx context.Context, id uuid.UUID) ([]model.Option, error) {
	return c.OptionRepo.ListByVersion(ctx, id)
}

func (c RepositoryContent) GroupedInputs(ctx context.Context, id uuid.UUID) ([]model.GroupedInput, error) {
	return c.GroupedInputRepo.ListByVersion(ctx, id)
}

func (c RepositoryContent) Media(ctx context.Context, ids []uuid.UUID) ([]model.Media, error) {
	return c.MediaRepo.ListByIDs(ctx, ids)
}

// AssemblyService builds the render payload of a quiz version.
type AssemblyService struct {
	quizzes  publicQuizLookup
	versions versionLister
	content  versionContent
	cache    assembledCache
	log      zerolog.Logger
}

func NewAssemblyService(
	quizzes publicQuizLookup,
	versions versionLister,
	content versionContent,
	cache assembledCache,
	log zerolog.Logger,
) *AssemblyService {
	return &AssemblyService{
		quizzes:  quizzes,
		versions: versions,
		content:  content,
		cache:    cache,
		log:      log.With().Str("component", "assembly_service").Logger(),
	}
}

// Public returns the JSON payload of a published quiz. The version is the
// one named by versionLabel, else a traffic-weighted pick driven by seed,
// else the default. An empty seed is replaced by a random one.
func (s *AssemblyService) Public(ctx context.Context, slug, versionLabel, seed string) (json.RawMessage, error) {
	quiz, err := s.quizzes.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if quiz.Status != model.QuizStatusPublished {
		return nil, ErrQuizNotPublished
	}
	if seed == "" {
		seed = uuid.NewString()
	}

	versions, err := s.versions.ListByQuiz(ctx, quiz.ID)
	if err != nil {
		return nil, err
	}
	version, err := PickVersion(versions, versionLabel, seed)
	if err != nil {
		return nil, err
	}

	if cached, ok, err := s.cache.Get(ctx, quiz.ID, version.Label, seed); err != nil {
		s.log.Warn().Err(err).Str("quiz_id", quiz.ID.String()).Msg("Assembled cache read failed")
	} else if ok {
		return cached, nil
	}

	assembled, err := s.assemble(ctx, quiz, version, seed)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(assembled)
	if err != nil {
		return nil, fmt.Errorf("marshal assembled quiz: %w", err)
	}
	if err := s.cache.Set(ctx, quiz.ID, version.Label, seed, payload); err != nil {
		s.log.Warn().Err(err).Str("quiz_id", quiz.ID.String()).Msg("Assembled cache write failed")
	}
	return payload, nil
}

// Preview assembles any quiz regardless of status, bypassing the cache.
func (s *AssemblyService) Preview(ctx context.Context, quizID uuid.UUID, versionLabel, seed string) (*model.AssembledQuiz, error) {
	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	versions, err := s.versions.ListByQuiz(ctx, quiz.ID)
	if err != nil {
		return nil, err
	}
	version, err := PickVersion(versions, versionLabel, seed)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, quiz, version, seed)
}

func (s *AssemblyService) assemble(ctx context.Context, quiz *model.Quiz, version *model.Version, seed string) (*model.AssembledQuiz, error) {
	var (
		steps   []model.Step
		fields  []model.Field
		options []model.Option
		inputs  []model.GroupedInput
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		steps, err = s.content.Steps(gctx, version.ID)
		return err
	})
	g.Go(func() (err error) {
		fields, err = s.content.Fields(gctx, version.ID)
		return err
	})
	g.Go(func() (err error) {
		options, err = s.content.Options(gctx, version.ID)
		return err
	})
	g.Go(func() (err error) {
		inputs, err = s.content.GroupedInputs(gctx, version.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load version content: %w", err)
	}

	out := &model.AssembledQuiz{Quiz: *quiz, Version: *version, Seed: seed}
	out.Steps, out.Fields, out.Options, out.GroupedInputs = visibleContent(steps, fields, options, inputs)
	out.Options = shuffleOptions(out.Fields, out.Options, seed)

	media, err := s.content.Media(ctx, mediaIDs(out.Steps, out.Options))
	if err != nil {
		return nil, fmt.Errorf("load media: %w", err)
	}
	out.Media = media

	if out.Steps == nil {
		out.Steps = []model.Step{}
	}
	if out.Fields == nil {
		out.Fields = []model.Field{}
	}
	if out.Options == nil {
		out.Options = []model.Option{}
	}
	if out.GroupedInputs == nil {
		out.GroupedInputs = []model.GroupedInput{}
	}
	if out.Media == nil {
		out.Media = []model.Media{}
	}
	return out, nil
}

// PickVersion selects the version to serve. A non-empty label must match.
// Otherwise versions are drawn in proportion to traffic_weight using a
// generator seeded from seed; with no weight anywhere the default wins.
func PickVersion(versions []model.Version, label, seed string) (*model.Version, error) {
	if len(versions) == 0 {
		return nil, repository.ErrNotFound
	}
	if label != "" {
		for i := range versions {
			if versions[i].Label == label {
				return &versions[i], nil
			}
		}
		return nil, repository.ErrNotFound
	}

	total := 0
	for _, v := range versions {
		total += max(0, v.TrafficWeight)
	}
	if total > 0 {
		n := seededRand(seed).Intn(total)
		for i := range versions {
			n -= max(0, versions[i].TrafficWeight)
			if n < 0 {
				return &versions[i], nil
			}
		}
	}

	for i := range versions {
		if versions[i].IsDefault {
			return &versions[i], nil
		}
	}
	return &versions[0], nil
}

// visibleContent drops hidden items and everything nested under them.
func visibleContent(
	steps []model.Step,
	fields []model.Field,
	options []model.Option,
	inputs []model.GroupedInput,
) ([]model.Step, []model.Field, []model.Option, []model.GroupedInput) {
	liveSteps := make(map[uuid.UUID]bool)
	var outSteps []model.Step
	for _, st := range steps {
		if st.IsVisible {
			liveSteps[st.ID] = true
			outSteps = append(outSteps, st)
		}
	}

	liveFields := make(map[uuid.UUID]bool)
	var outFields []model.Field
	for _, f := range fields {
		if f.IsVisible && liveSteps[f.StepID] {
			liveFields[f.ID] = true
			outFields = append(outFields, f)
		}
	}

	var outOptions []model.Option
	for _, o := range options {
		if o.IsVisible && liveFields[o.FieldID] {
			outOptions = append(outOptions, o)
		}
	}

	var outInputs []model.GroupedInput
	for _, g := range inputs {
		if g.IsVisible && liveFields[g.FieldID] {
			outInputs = append(outInputs, g)
		}
	}
	return outSteps, outFields, outOptions, outInputs
}

// shuffleOptions reorders the options of fields with randomize_options set.
// The order depends only on seed and the field id, so the same seed always
// yields the same order.
func shuffleOptions(fields []model.Field, options []model.Option, seed string) []model.Option {
	randomized := make(map[uuid.UUID]bool)
	for _, f := range fields {
		if f.Choice != nil && f.Choice.RandomizeOptions {
			randomized[f.ID] = true
		}
	}
	if len(randomized) == 0 {
		return options
	}

	byField := make(map[uuid.UUID][]model.Option)
	var order []uuid.UUID
	for _, o := range options {
		if _, ok := byField[o.FieldID]; !ok {
			order = append(order, o.FieldID)
		}
		byField[o.FieldID] = append(byField[o.FieldID], o)
	}

	out := make([]model.Option, 0, len(options))
	for _, fieldID := range order {
		group := byField[fieldID]
		if randomized[fieldID] {
			r := seededRand(seed + "|" + fieldID.String())
			r.Shuffle(len(group), func(i, j int) { group[i], group[j] = group[j], group[i] })
		}
		out = append(out, group...)
	}
	return out
}

func mediaIDs(steps []model.Step, options []model.Option) []uuid.UUID {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	add := func(id *uuid.UUID) {
		if id != nil && !seen[*id] {
			seen[*id] = true
			ids = append(ids, *id)
		}
	}
	for _, st := range steps {
		add(st.MediaID)
	}
	for _, o := range options {
		add(o.IconMediaID)
		add(o.ImageMediaID)
	}
	return ids
}

func seededRand(seed string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(seed))
	return rand.New(rand.NewSource(int64(h.Sum64())))
}
