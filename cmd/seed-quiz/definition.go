package main

import (
	"fmt"
	"io"

	"github.com/quizforge/quiz-cms-backend/internal/grid"
	"github.com/quizforge/quiz-cms-backend/internal/model"
	"gopkg.in/yaml.v3"
)

// Definition is a whole quiz as written in a seed file.
type Definition struct {
	Brand string `yaml:"brand"`
	Quiz  struct {
		Slug           string `yaml:"slug"`
		Title          string `yaml:"title"`
		Subtitle       string `yaml:"subtitle"`
		LocaleDefault  string `yaml:"locale_default"`
		ProgressStyle  string `yaml:"progress_style"`
		ShowTrustStrip bool   `yaml:"show_trust_strip"`
		ShowSeenOn     bool   `yaml:"show_seen_on"`
	} `yaml:"quiz"`
	Versions []VersionDef `yaml:"versions"`
}

type VersionDef struct {
	Label         string    `yaml:"label"`
	TrafficWeight int       `yaml:"traffic_weight"`
	IsDefault     bool      `yaml:"is_default"`
	Steps         []StepDef `yaml:"steps"`
}

type StepDef struct {
	Title        string     `yaml:"title"`
	Description  string     `yaml:"description"`
	FootnoteText string     `yaml:"footnote_text"`
	CTAText      string     `yaml:"cta_text"`
	Layout       string     `yaml:"layout"`
	Hidden       bool       `yaml:"hidden"`
	GridColumns  int        `yaml:"grid_columns"`
	GridGapPx    *int       `yaml:"grid_gap_px"`
	Fields       []FieldDef `yaml:"fields"`
}

// PositionDef is a placement in the seed file. A nil position is auto-placed.
type PositionDef struct {
	Row     int `yaml:"row"`
	Col     int `yaml:"col"`
	RowSpan int `yaml:"row_span"`
	ColSpan int `yaml:"col_span"`
}

type FieldDef struct {
	Key              string          `yaml:"key"`
	Label            string          `yaml:"label"`
	HelpText         string          `yaml:"help_text"`
	Type             model.FieldType `yaml:"type"`
	Required         bool            `yaml:"required"`
	Position         *PositionDef    `yaml:"position"`
	Placeholder      string          `yaml:"placeholder"`
	Unit             string          `yaml:"unit"`
	Min              *float64        `yaml:"min"`
	Max              *float64        `yaml:"max"`
	RandomizeOptions bool            `yaml:"randomize_options"`
	ContainerColumns int             `yaml:"container_grid_columns"`
	Options          []OptionDef     `yaml:"options"`
	Inputs           []InputDef      `yaml:"inputs"`
}

type OptionDef struct {
	Label       string   `yaml:"label"`
	Description string   `yaml:"description"`
	Value       string   `yaml:"value"`
	IsDefault   bool     `yaml:"is_default"`
	Score       *float64 `yaml:"score"`
}

type InputDef struct {
	Key         string       `yaml:"key"`
	Label       string       `yaml:"label"`
	InputType   string       `yaml:"input_type"`
	Unit        string       `yaml:"unit"`
	Min         *float64     `yaml:"min"`
	Max         *float64     `yaml:"max"`
	Placeholder string       `yaml:"placeholder"`
	Required    bool         `yaml:"required"`
	Position    *PositionDef `yaml:"position"`
}

// Parse decodes a seed file, rejecting keys the definition does not know.
func Parse(r io.Reader) (*Definition, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var d Definition
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	return &d, nil
}

func (p *PositionDef) gridPosition() model.GridPosition {
	return model.GridPosition{Row: p.Row, Col: p.Col, RowSpan: max(1, p.RowSpan), ColSpan: max(1, p.ColSpan)}
}

// Prepare fills defaults, auto-places unpositioned items and returns every
// problem found. A definition with problems must not be inserted.
func (d *Definition) Prepare(maxRows int) []string {
	var problems []string
	report := func(format string, args ...interface{}) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}
	maxRows = model.RowLimit(maxRows)

	if d.Brand == "" {
		report("brand is required")
	}
	if d.Quiz.Slug == "" || d.Quiz.Title == "" {
		report("quiz.slug and quiz.title are required")
	}
	if len(d.Versions) == 0 {
		report("at least one version is required")
		return problems
	}

	defaults, weights := 0, 0
	for _, v := range d.Versions {
		weights += v.TrafficWeight
		if v.IsDefault {
			defaults++
		}
	}
	switch {
	case defaults == 0:
		d.Versions[0].IsDefault = true
	case defaults > 1:
		report("only one version may be the default, found %d", defaults)
	}
	if weights > model.MaxTrafficWeight {
		report("traffic weights sum to %d, above %d", weights, model.MaxTrafficWeight)
	}

	for vi := range d.Versions {
		v := &d.Versions[vi]
		var all []model.Field
		for si := range v.Steps {
			st := &v.Steps[si]
			where := fmt.Sprintf("version %q step %d", v.Label, si+1)
			if st.GridColumns == 0 {
				st.GridColumns = model.DefaultGridColumns
			}
			if st.GridColumns < 1 || st.GridColumns > model.MaxGridColumns {
				report("%s: grid_columns must be 1..%d", where, model.MaxGridColumns)
				continue
			}

			placements := prepareFields(st, where, maxRows, report)
			for _, c := range grid.DetectCollisions(placements, st.GridColumns) {
				report("%s: fields %q and %q overlap", where, c.A, c.B)
			}
			for _, f := range st.Fields {
				all = append(all, model.Field{FieldBase: model.FieldBase{Key: f.Key}})
			}
		}
		for _, key := range model.DuplicateFieldKeys(all) {
			report("version %q: field key %q is used more than once", v.Label, key)
		}
	}
	return problems
}

// prepareFields checks each field of a step and returns their placements,
// keyed by field key, after auto-placing the unpositioned ones.
func prepareFields(st *StepDef, where string, maxRows int, report func(string, ...interface{})) []grid.Placement {
	var placements []grid.Placement
	for fi := range st.Fields {
		f := &st.Fields[fi]
		at := fmt.Sprintf("%s field %q", where, f.Key)
		if f.Key == "" {
			report("%s field %d: key is required", where, fi+1)
		}
		if !f.Type.Valid() {
			report("%s: unknown type %q", at, f.Type)
		}
		if f.Position != nil {
			if f.Position.gridPosition().InBounds() {
				placements = append(placements, grid.Placement{ID: f.Key, Row: f.Position.Row, Col: f.Position.Col,
					RowSpan: max(1, f.Position.RowSpan), ColSpan: max(1, f.Position.ColSpan)})
			} else {
				report("%s: position is outside rows 1..%d or columns 1..%d", at, model.MaxGridRow, model.MaxGridColumns)
			}
		}

		kind := f.Type.Kind()
		if len(f.Options) > 0 && kind != model.KindChoice {
			report("%s: only choice fields take options", at)
		}
		if len(f.Inputs) > 0 && kind != model.KindGroup {
			report("%s: only group fields take inputs", at)
		}
		options := make([]model.Option, len(f.Options))
		for i, o := range f.Options {
			options[i].Value = o.Value
		}
		for _, v := range model.DuplicateOptionValues(options) {
			report("%s: option value %q is used more than once", at, v)
		}
		if kind == model.KindGroup {
			prepareInputs(f, at, maxRows, report)
		}
	}

	// Auto-placement runs after every explicit position is known, in file order.
	for fi := range st.Fields {
		f := &st.Fields[fi]
		if f.Position != nil {
			continue
		}
		row, col, ok := grid.FirstFreeCell(placements, 1, st.GridColumns, st.GridColumns, maxRows)
		if !ok {
			report("%s field %q: no free row to auto-place into", where, f.Key)
			continue
		}
		f.Position = &PositionDef{Row: row, Col: col, RowSpan: 1, ColSpan: st.GridColumns}
		placements = append(placements, grid.Placement{ID: f.Key, Row: row, Col: col, RowSpan: 1, ColSpan: st.GridColumns})
	}
	return placements
}

func prepareInputs(f *FieldDef, at string, maxRows int, report func(string, ...interface{})) {
	if f.ContainerColumns == 0 {
		f.ContainerColumns = model.DefaultGridColumns
	}

	keys := make([]model.Field, len(f.Inputs))
	var placements []grid.Placement
	for i, in := range f.Inputs {
		keys[i].Key = in.Key
		if in.Position != nil {
			if !in.Position.gridPosition().InBounds() {
				report("%s input %q: position is outside rows 1..%d or columns 1..%d", at, in.Key, model.MaxGridRow, model.MaxGridColumns)
				continue
			}
			placements = append(placements, grid.Placement{ID: in.Key, Row: in.Position.Row, Col: in.Position.Col,
				RowSpan: max(1, in.Position.RowSpan), ColSpan: max(1, in.Position.ColSpan)})
		}
	}
	for _, k := range model.DuplicateFieldKeys(keys) {
		report("%s: input key %q is used more than once", at, k)
	}

	for i := range f.Inputs {
		in := &f.Inputs[i]
		if in.Position != nil {
			continue
		}
		row, col, ok := grid.FirstFreeCell(placements, 1, 1, f.ContainerColumns, maxRows)
		if !ok {
			report("%s input %q: no free cell to auto-place into", at, in.Key)
			continue
		}
		in.Position = &PositionDef{Row: row, Col: col, RowSpan: 1, ColSpan: 1}
		placements = append(placements, grid.Placement{ID: in.Key, Row: row, Col: col, RowSpan: 1, ColSpan: 1})
	}

	for _, c := range grid.DetectCollisions(placements, f.ContainerColumns) {
		report("%s: inputs %q and %q overlap", at, c.A, c.B)
	}
}
