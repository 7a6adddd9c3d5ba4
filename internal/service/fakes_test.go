package service

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/quizforge/quiz-cms-backend/internal/model"
	"github.com/quizforge/quiz-cms-backend/internal/repository"
	ws "github.com/quizforge/quiz-cms-backend/internal/websocket"
)

type fakeFieldStore struct {
	mu     sync.Mutex
	fields map[uuid.UUID]model.Field
	steps  *fakeStepStore
	order  []uuid.UUID
}

func newFakeFieldStore(steps *fakeStepStore) *fakeFieldStore {
	return &fakeFieldStore{fields: make(map[uuid.UUID]model.Field), steps: steps}
}

func (s *fakeFieldStore) put(f model.Field) model.Field {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	if _, ok := s.fields[f.ID]; !ok {
		s.order = append(s.order, f.ID)
	}
	s.fields[f.ID] = cloneField(f)
	return f
}

// cloneField copies the variant attributes so stored fields never share
// them with a caller, as rows read from the database would not.
func cloneField(f model.Field) model.Field {
	if f.Input != nil {
		in := *f.Input
		f.Input = &in
	}
	if f.Choice != nil {
		c := *f.Choice
		f.Choice = &c
	}
	if f.Group != nil {
		g := *f.Group
		f.Group = &g
	}
	return f
}

func (s *fakeFieldStore) ListByStep(_ context.Context, stepID uuid.UUID) ([]model.Field, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Field
	for _, id := range s.order {
		if f, ok := s.fields[id]; ok && f.StepID == stepID {
			out = append(out, cloneField(f))
		}
	}
	return out, nil
}

func (s *fakeFieldStore) KeyExistsInVersion(_ context.Context, stepID uuid.UUID, key string, excludeID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	version := s.steps.versionOf(stepID)
	for _, f := range s.fields {
		if f.Key == key && f.ID != excludeID && s.steps.versionOf(f.StepID) == version {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeFieldStore) GetByID(_ context.Context, id uuid.UUID) (*model.Field, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.fields[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	f = cloneField(f)
	return &f, nil
}

func (s *fakeFieldStore) Create(_ context.Context, f *model.Field) error {
	f.ID = uuid.New()
	s.put(*f)
	return nil
}

func (s *fakeFieldStore) Update(_ context.Context, f *model.Field) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.fields[f.ID]; !ok {
		return repository.ErrNotFound
	}
	s.fields[f.ID] = cloneField(*f)
	return nil
}

// hookedFieldStore runs afterList once after the first ListByStep and
// afterGet once after the first GetByID, letting a test slip another
// operation in between a read and the write that depends on it.
type hookedFieldStore struct {
	*fakeFieldStore
	listOnce  sync.Once
	getOnce   sync.Once
	afterList func()
	afterGet  func()
}

func (s *hookedFieldStore) ListByStep(ctx context.Context, stepID uuid.UUID) ([]model.Field, error) {
	out, err := s.fakeFieldStore.ListByStep(ctx, stepID)
	if s.afterList != nil {
		s.listOnce.Do(s.afterList)
	}
	return out, err
}

func (s *hookedFieldStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Field, error) {
	f, err := s.fakeFieldStore.GetByID(ctx, id)
	if s.afterGet != nil {
		s.getOnce.Do(s.afterGet)
	}
	return f, err
}

// runBriefly starts fn and gives it a moment to finish, so an operation
// that does not hold the right lock lets fn complete first. The returned
// channel yields fn's result.
func runBriefly(fn func() error) <-chan error {
	done := make(chan error, 1)
	finished := make(chan struct{})
	go func() {
		done <- fn()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(50 * time.Millisecond):
	}
	return done
}

type fakeGroupedInputStore struct {
	mu     sync.Mutex
	inputs []model.GroupedInput
}

func (s *fakeGroupedInputStore) add(g model.GroupedInput) model.GroupedInput {
	s.mu.Lock()
	defer s.mu.Unlock()
	g.ID = uuid.New()
	s.inputs = append(s.inputs, g)
	return g
}

func (s *fakeGroupedInputStore) ListByField(_ context.Context, fieldID uuid.UUID) ([]model.GroupedInput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.GroupedInput
	for _, g := range s.inputs {
		if g.FieldID == fieldID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (s *fakeGroupedInputStore) GetByID(_ context.Context, id uuid.UUID) (*model.GroupedInput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.inputs {
		if g.ID == id {
			return &g, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeGroupedInputStore) Create(_ context.Context, g *model.GroupedInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.inputs {
		if other.FieldID == g.FieldID && other.FieldKey == g.FieldKey {
			return repository.ErrDuplicate
		}
	}
	g.ID = uuid.New()
	s.inputs = append(s.inputs, *g)
	return nil
}

func (s *fakeGroupedInputStore) Update(_ context.Context, g *model.GroupedInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.inputs {
		if s.inputs[i].ID == g.ID {
			s.inputs[i] = *g
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *fakeGroupedInputStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.inputs {
		if s.inputs[i].ID == id {
			s.inputs = append(s.inputs[:i], s.inputs[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *fakeFieldStore) UpdatePosition(_ context.Context, id uuid.UUID, p model.GridPosition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.fields[id]
	if !ok {
		return repository.ErrNotFound
	}
	f.Position = p
	s.fields[id] = f
	return nil
}

func (s *fakeFieldStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.fields[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.fields, id)
	return nil
}

type fakeStepStore struct {
	mu     sync.Mutex
	steps  map[uuid.UUID]model.Step
	quizOf map[uuid.UUID]uuid.UUID // version -> quiz
}

func newFakeStepStore() *fakeStepStore {
	return &fakeStepStore{steps: make(map[uuid.UUID]model.Step), quizOf: make(map[uuid.UUID]uuid.UUID)}
}

func (s *fakeStepStore) add(versionID, quizID uuid.UUID, columns int) model.Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := model.Step{ID: uuid.New(), QuizVersionID: versionID, GridColumns: columns, IsVisible: true, OrderIndex: len(s.steps)}
	s.steps[st.ID] = st
	s.quizOf[versionID] = quizID
	return st
}

func (s *fakeStepStore) versionOf(stepID uuid.UUID) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.steps[stepID].QuizVersionID
}

func (s *fakeStepStore) ListByVersion(_ context.Context, versionID uuid.UUID) ([]model.Step, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Step
	for _, st := range s.steps {
		if st.QuizVersionID == versionID {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (s *fakeStepStore) GetByID(_ context.Context, id uuid.UUID) (*model.Step, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.steps[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &st, nil
}

func (s *fakeStepStore) QuizIDOf(_ context.Context, stepID uuid.UUID) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.steps[stepID]
	if !ok {
		return uuid.Nil, repository.ErrNotFound
	}
	return s.quizOf[st.QuizVersionID], nil
}

func (s *fakeStepStore) Create(_ context.Context, st *model.Step) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st.ID = uuid.New()
	n := 0
	for _, other := range s.steps {
		if other.QuizVersionID == st.QuizVersionID {
			n++
		}
	}
	st.OrderIndex = n
	s.steps[st.ID] = *st
	return nil
}

func (s *fakeStepStore) Update(_ context.Context, st *model.Step) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps[st.ID] = *st
	return nil
}

func (s *fakeStepStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.steps, id)
	return nil
}

func (s *fakeStepStore) Reorder(_ context.Context, _ uuid.UUID, ids []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, id := range ids {
		st := s.steps[id]
		st.OrderIndex = i
		s.steps[id] = st
	}
	return nil
}

type fakeVersionStore struct {
	versions []model.Version
}

func (s *fakeVersionStore) ListByQuiz(_ context.Context, quizID uuid.UUID) ([]model.Version, error) {
	var out []model.Version
	for _, v := range s.versions {
		if v.QuizID == quizID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *fakeVersionStore) GetByID(_ context.Context, id uuid.UUID) (*model.Version, error) {
	for _, v := range s.versions {
		if v.ID == id {
			return &v, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeVersionStore) Create(_ context.Context, v *model.Version) error {
	v.ID = uuid.New()
	if v.IsDefault {
		s.clearDefault(v.QuizID, v.ID)
	}
	s.versions = append(s.versions, *v)
	return nil
}

func (s *fakeVersionStore) Update(_ context.Context, v *model.Version) error {
	if v.IsDefault {
		s.clearDefault(v.QuizID, v.ID)
	}
	for i := range s.versions {
		if s.versions[i].ID == v.ID {
			s.versions[i] = *v
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *fakeVersionStore) Delete(_ context.Context, id uuid.UUID) error {
	for i := range s.versions {
		if s.versions[i].ID == id {
			s.versions = append(s.versions[:i], s.versions[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *fakeVersionStore) clearDefault(quizID, keep uuid.UUID) {
	for i := range s.versions {
		if s.versions[i].QuizID == quizID && s.versions[i].ID != keep {
			s.versions[i].IsDefault = false
		}
	}
}

type fakeQuizStore struct {
	quizzes map[uuid.UUID]model.Quiz
}

func newFakeQuizStore(qs ...model.Quiz) *fakeQuizStore {
	s := &fakeQuizStore{quizzes: make(map[uuid.UUID]model.Quiz)}
	for _, q := range qs {
		s.quizzes[q.ID] = q
	}
	return s
}

func (s *fakeQuizStore) GetByID(_ context.Context, id uuid.UUID) (*model.Quiz, error) {
	q, ok := s.quizzes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &q, nil
}

func (s *fakeQuizStore) GetBySlug(_ context.Context, slug string) (*model.Quiz, error) {
	for _, q := range s.quizzes {
		if q.Slug == slug {
			return &q, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeQuizStore) List(_ context.Context, _, _ string, _, _ int) ([]model.Quiz, int, error) {
	var out []model.Quiz
	for _, q := range s.quizzes {
		out = append(out, q)
	}
	return out, len(out), nil
}

func (s *fakeQuizStore) Create(_ context.Context, q *model.Quiz) error {
	q.ID = uuid.New()
	s.quizzes[q.ID] = *q
	return nil
}

func (s *fakeQuizStore) Update(_ context.Context, q *model.Quiz) error {
	s.quizzes[q.ID] = *q
	return nil
}

func (s *fakeQuizStore) UpdateStatus(_ context.Context, id uuid.UUID, status model.QuizStatus) error {
	q, ok := s.quizzes[id]
	if !ok {
		return repository.ErrNotFound
	}
	q.Status = status
	s.quizzes[id] = q
	return nil
}

func (s *fakeQuizStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.quizzes, id)
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []ws.LayoutEvent
}

func (p *fakePublisher) PublishLayout(_ context.Context, ev ws.LayoutEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *fakePublisher) changes() []ws.LayoutChange {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]ws.LayoutChange, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Change
	}
	return out
}

type fakeCache struct {
	mu          sync.Mutex
	invalidated []uuid.UUID
	entries     map[string][]byte
}

func (c *fakeCache) Invalidate(_ context.Context, quizID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, quizID)
	return nil
}

func (c *fakeCache) Get(_ context.Context, quizID uuid.UUID, label, seed string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[quizID.String()+label+"|"+seed]
	return v, ok, nil
}

func (c *fakeCache) Set(_ context.Context, quizID uuid.UUID, label, seed string, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		c.entries = make(map[string][]byte)
	}
	c.entries[quizID.String()+label+"|"+seed] = payload
	return nil
}

type fakeMediaStore struct {
	items map[uuid.UUID]model.Media
}

func (s *fakeMediaStore) List(_ context.Context, _ string) ([]model.Media, error) {
	var out []model.Media
	for _, m := range s.items {
		out = append(out, m)
	}
	return out, nil
}

func (s *fakeMediaStore) GetByID(_ context.Context, id uuid.UUID) (*model.Media, error) {
	m, ok := s.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (s *fakeMediaStore) Create(_ context.Context, m *model.Media) error {
	if s.items == nil {
		s.items = make(map[uuid.UUID]model.Media)
	}
	s.items[m.ID] = *m
	return nil
}

func (s *fakeMediaStore) Delete(_ context.Context, id uuid.UUID) (*model.Media, error) {
	m, ok := s.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(s.items, id)
	return &m, nil
}

type memBlobStore struct {
	blobs map[string][]byte
}

func (s *memBlobStore) Put(_ context.Context, key string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if s.blobs == nil {
		s.blobs = make(map[string][]byte)
	}
	s.blobs[key] = data
	return nil
}

func (s *memBlobStore) Delete(_ context.Context, key string) error {
	delete(s.blobs, key)
	return nil
}
