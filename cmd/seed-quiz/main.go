package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/quizforge/quiz-cms-backend/internal/config"
	"github.com/quizforge/quiz-cms-backend/internal/database"
	"github.com/quizforge/quiz-cms-backend/internal/logger"
	"github.com/quizforge/quiz-cms-backend/internal/model"
	"github.com/quizforge/quiz-cms-backend/internal/repository"
	"github.com/rs/zerolog"
)

func main() {
	var (
		file    string
		publish bool
		dryRun  bool
	)
	flag.StringVar(&file, "file", "seeds/weight-loss.yaml", "Path to the YAML quiz definition")
	flag.BoolVar(&publish, "publish", false, "Publish the quiz after seeding")
	flag.BoolVar(&dryRun, "dry-run", false, "Validate the file without touching the database")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	f, err := os.Open(file)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open seed file")
	}
	def, err := Parse(f)
	f.Close()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse seed file")
	}

	if problems := def.Prepare(cfg.AutoPlaceMaxRows); len(problems) > 0 {
		for _, p := range problems {
			fmt.Println("  -", p)
		}
		log.Fatal().Int("problems", len(problems)).Msg("Seed file rejected")
	}
	if dryRun {
		fmt.Printf("%s is valid\n", file)
		return
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	s := &seeder{
		brands:   repository.NewBrandRepository(pool),
		quizzes:  repository.NewQuizRepository(pool),
		versions: repository.NewVersionRepository(pool),
		steps:    repository.NewStepRepository(pool),
		fields:   repository.NewFieldRepository(pool),
		options:  repository.NewOptionRepository(pool),
		inputs:   repository.NewGroupedInputRepository(pool),
		log:      log,
	}

	quiz, err := s.seed(ctx, def, publish)
	if err != nil {
		log.Fatal().Err(err).Msg("Seeding failed")
	}
	fmt.Printf("\nSuccess! Quiz '%s' seeded with ID: %s (status %s)\n", quiz.Slug, quiz.ID, quiz.Status)
}

type seeder struct {
	brands   *repository.BrandRepository
	quizzes  *repository.QuizRepository
	versions *repository.VersionRepository
	steps    *repository.StepRepository
	fields   *repository.FieldRepository
	options  *repository.OptionRepository
	inputs   *repository.GroupedInputRepository
	log      zerolog.Logger
}

func (s *seeder) seed(ctx context.Context, def *Definition, publish bool) (*model.Quiz, error) {
	brand, err := s.brand(ctx, def.Brand)
	if err != nil {
		return nil, err
	}

	quiz := &model.Quiz{
		BrandID:        brand.ID,
		Slug:           def.Quiz.Slug,
		Title:          def.Quiz.Title,
		Subtitle:       def.Quiz.Subtitle,
		LocaleDefault:  orDefault(def.Quiz.LocaleDefault, "en"),
		ProgressStyle:  orDefault(def.Quiz.ProgressStyle, "bar"),
		ShowTrustStrip: def.Quiz.ShowTrustStrip,
		ShowSeenOn:     def.Quiz.ShowSeenOn,
		Status:         model.QuizStatusDraft,
	}
	if err := s.quizzes.Create(ctx, quiz); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("quiz slug %q already exists", quiz.Slug)
		}
		return nil, fmt.Errorf("create quiz: %w", err)
	}
	s.log.Info().Str("quiz_id", quiz.ID.String()).Msg("Quiz created")

	for _, vd := range def.Versions {
		if err := s.version(ctx, quiz, vd); err != nil {
			return nil, err
		}
	}

	if publish {
		if err := s.quizzes.UpdateStatus(ctx, quiz.ID, model.QuizStatusPublished); err != nil {
			return nil, fmt.Errorf("publish quiz: %w", err)
		}
		quiz.Status = model.QuizStatusPublished
	}
	return quiz, nil
}

// brand returns the brand with name, creating it when missing.
func (s *seeder) brand(ctx context.Context, name string) (*model.Brand, error) {
	b := &model.Brand{Name: name}
	err := s.brands.Create(ctx, b)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, repository.ErrDuplicate) {
		return nil, fmt.Errorf("create brand: %w", err)
	}

	all, err := s.brands.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	for i := range all {
		if all[i].Name == name {
			return &all[i], nil
		}
	}
	return nil, fmt.Errorf("brand %q exists but was not found", name)
}

func (s *seeder) version(ctx context.Context, quiz *model.Quiz, vd VersionDef) error {
	v := &model.Version{QuizID: quiz.ID, Label: vd.Label, TrafficWeight: vd.TrafficWeight, IsDefault: vd.IsDefault}
	if err := s.versions.Create(ctx, v); err != nil {
		return fmt.Errorf("create version %q: %w", vd.Label, err)
	}

	for _, sd := range vd.Steps {
		st := &model.Step{
			QuizVersionID: v.ID,
			IsVisible:     !sd.Hidden,
			Title:         sd.Title,
			Description:   sd.Description,
			FootnoteText:  sd.FootnoteText,
			CTAText:       sd.CTAText,
			Layout:        model.StepLayout(orDefault(sd.Layout, string(model.StepLayoutDefault))),
			GridColumns:   sd.GridColumns,
			GridGapPx:     model.DefaultGridGapPx,
		}
		if sd.GridGapPx != nil {
			st.GridGapPx = *sd.GridGapPx
		}
		if err := s.steps.Create(ctx, st); err != nil {
			return fmt.Errorf("create step %q: %w", sd.Title, err)
		}

		for i, fd := range sd.Fields {
			if err := s.field(ctx, st, i, fd); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *seeder) field(ctx context.Context, st *model.Step, index int, fd FieldDef) error {
	f := &model.Field{FieldBase: model.FieldBase{
		StepID:     st.ID,
		OrderIndex: index,
		IsVisible:  true,
		Key:        fd.Key,
		Label:      fd.Label,
		HelpText:   fd.HelpText,
		Type:       fd.Type,
		Required:   fd.Required,
		Position:   fd.Position.gridPosition().Clamped(st.GridColumns),
	}}
	model.FieldAttrsInput{
		Placeholder:          &fd.Placeholder,
		Unit:                 &fd.Unit,
		Min:                  fd.Min,
		Max:                  fd.Max,
		RandomizeOptions:     &fd.RandomizeOptions,
		ContainerGridColumns: &fd.ContainerColumns,
	}.Apply(f)

	if err := s.fields.Create(ctx, f); err != nil {
		return fmt.Errorf("create field %q: %w", fd.Key, err)
	}

	for _, od := range fd.Options {
		o := &model.Option{
			FieldID:     f.ID,
			IsVisible:   true,
			Label:       od.Label,
			Description: od.Description,
			Value:       od.Value,
			IsDefault:   od.IsDefault,
			Score:       od.Score,
			Position:    model.DefaultPosition,
		}
		if err := s.options.Create(ctx, o); err != nil {
			return fmt.Errorf("create option %q of %q: %w", od.Value, fd.Key, err)
		}
	}

	for i, in := range fd.Inputs {
		g := &model.GroupedInput{
			FieldID:     f.ID,
			OrderIndex:  i,
			IsVisible:   true,
			FieldKey:    in.Key,
			Label:       in.Label,
			InputType:   orDefault(in.InputType, "text"),
			Unit:        in.Unit,
			Min:         in.Min,
			Max:         in.Max,
			Placeholder: in.Placeholder,
			Required:    in.Required,
			Position:    in.Position.gridPosition().Clamped(fd.ContainerColumns),
		}
		if err := s.inputs.Create(ctx, g); err != nil {
			return fmt.Errorf("create input %q of %q: %w", in.Key, fd.Key, err)
		}
	}
	return nil
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
