package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *Definition {
	t.Helper()
	def, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	return def
}

const header = `
brand: Acme
quiz: { slug: fit, title: Fit }
`

func TestPrepare_AutoPlacesAfterExplicitPositions(t *testing.T) {
	def := parse(t, header+`
versions:
  - label: a
    steps:
      - grid_columns: 4
        fields:
          - { key: later, type: input_text }
          - { key: fixed, type: input_text, position: { row: 1, col: 1, col_span: 4 } }
`)

	assert.Empty(t, def.Prepare(0))
	assert.True(t, def.Versions[0].IsDefault)

	fields := def.Versions[0].Steps[0].Fields
	assert.Equal(t, PositionDef{Row: 2, Col: 1, RowSpan: 1, ColSpan: 4}, *fields[0].Position)
}

func TestPrepare_RejectsOverlaps(t *testing.T) {
	def := parse(t, header+`
versions:
  - label: a
    steps:
      - grid_columns: 6
        fields:
          - { key: a, type: input_text, position: { row: 1, col: 1, col_span: 4 } }
          - { key: b, type: input_text, position: { row: 1, col: 3, col_span: 4 } }
`)

	problems := def.Prepare(0)
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0], `fields "a" and "b" overlap`)
}

func TestPrepare_RejectsOutOfRangePositions(t *testing.T) {
	def := parse(t, header+`
versions:
  - label: a
    steps:
      - fields:
          - { key: deep, type: input_text, position: { row: 1001, col: 1 } }
          - { key: tall, type: input_text, position: { row: 1, col: 1, row_span: 2000000 } }
          - key: body
            type: group
            position: { row: 2, col: 1 }
            inputs:
              - { key: height, position: { row: 1, col: 30 } }
`)

	problems := strings.Join(def.Prepare(0), "\n")
	assert.Contains(t, problems, `field "deep": position is outside rows 1..1000`)
	assert.Contains(t, problems, `field "tall": position is outside rows 1..1000`)
	assert.Contains(t, problems, `input "height": position is outside`)
	assert.NotContains(t, problems, "overlap")
}

func TestPrepare_GroupInputsOnContainerGrid(t *testing.T) {
	def := parse(t, header+`
versions:
  - label: a
    steps:
      - fields:
          - key: body
            type: group
            container_grid_columns: 2
            inputs:
              - { key: height }
              - { key: weight }
              - { key: age }
`)

	assert.Empty(t, def.Prepare(0))
	inputs := def.Versions[0].Steps[0].Fields[0].Inputs
	assert.Equal(t, PositionDef{Row: 1, Col: 2, RowSpan: 1, ColSpan: 1}, *inputs[1].Position)
	assert.Equal(t, PositionDef{Row: 2, Col: 1, RowSpan: 1, ColSpan: 1}, *inputs[2].Position)
}

func TestPrepare_ReportsAuthoringMistakes(t *testing.T) {
	def := parse(t, header+`
versions:
  - label: a
    traffic_weight: 80
    is_default: true
    steps:
      - fields:
          - key: goal
            type: choice_single
            options: [{ value: x }, { value: x }]
      - fields:
          - key: goal
            type: input_text
            options: [{ value: y }]
  - label: b
    traffic_weight: 40
    is_default: true
`)

	problems := strings.Join(def.Prepare(0), "\n")
	assert.Contains(t, problems, "only one version may be the default")
	assert.Contains(t, problems, "traffic weights sum to 120")
	assert.Contains(t, problems, `option value "x" is used more than once`)
	assert.Contains(t, problems, "only choice fields take options")
	assert.Contains(t, problems, `field key "goal" is used more than once`)
}

func TestParse_UnknownKey(t *testing.T) {
	_, err := Parse(strings.NewReader(header + "colour: red\n"))
	assert.Error(t, err)
}
