package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldType_Kind(t *testing.T) {
	tests := map[FieldType]FieldKind{
		FieldChoiceSingle: KindChoice,
		FieldChoiceMulti:  KindChoice,
		FieldInputText:    KindInput,
		FieldDate:         KindInput,
		FieldSlider:       KindInput,
		FieldGroup:        KindGroup,
		"dropdown":        "",
	}
	for ft, want := range tests {
		assert.Equal(t, want, ft.Kind(), string(ft))
	}
	assert.False(t, FieldType("dropdown").Valid())
}

func TestField_NormalizeKeepsOnlyMatchingVariant(t *testing.T) {
	f := Field{
		FieldBase: FieldBase{Type: FieldGroup},
		Input:     &InputAttrs{Placeholder: "stale"},
		Choice:    &ChoiceAttrs{RandomizeOptions: true},
	}
	f.Normalize()
	assert.Nil(t, f.Input)
	assert.Nil(t, f.Choice)
	require.NotNil(t, f.Group)
	assert.Equal(t, DefaultGridColumns, f.Group.GridColumns)
	assert.Equal(t, "grid", f.Group.LayoutMode)

	f.Type = FieldChoiceMulti
	f.Normalize()
	assert.Nil(t, f.Group)
	assert.NotNil(t, f.Choice)
}

func TestFieldAttrsInput_ApplyIgnoresOtherKinds(t *testing.T) {
	var req CreateFieldRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"step_id": "9d7c2f0e-3c1a-4b8e-9a51-1f4e2b7d6c30",
		"key": "height",
		"type": "input_number",
		"unit": "cm",
		"min": 50,
		"randomize_options": true,
		"container_grid_columns": 4,
		"row_index": 2, "col_index": 1, "col_span": 6
	}`), &req))

	f := Field{FieldBase: FieldBase{Type: req.Type}}
	req.FieldAttrsInput.Apply(&f)

	require.NotNil(t, f.Input)
	assert.Equal(t, "cm", f.Input.Unit)
	require.NotNil(t, f.Input.Min)
	assert.Equal(t, 50.0, *f.Input.Min)
	assert.Nil(t, f.Choice)
	assert.Nil(t, f.Group)
	assert.Equal(t, GridPosition{Row: 2, Col: 1, RowSpan: 1, ColSpan: 6}, req.Resolve(DefaultPosition))
}

func TestField_MarshalCarriesOnlyVariant(t *testing.T) {
	f := Field{FieldBase: FieldBase{Key: "consent", Type: FieldChoiceSingle}}
	f.Normalize()

	raw, err := json.Marshal(f)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "consent", out["key"])
	assert.Contains(t, out, "choice")
	assert.NotContains(t, out, "input")
	assert.NotContains(t, out, "group")
}

func TestAdminRole_Permissions(t *testing.T) {
	assert.Len(t, RoleOwner.Permissions(), len(AllPermissions))
	assert.Contains(t, RoleEditor.Permissions(), string(PermissionQuizzesWrite))
	assert.NotContains(t, RoleEditor.Permissions(), string(PermissionBrandsWrite))
	assert.NotContains(t, RoleViewer.Permissions(), string(PermissionQuizzesWrite))
	assert.Empty(t, AdminRole("intern").Permissions())
	assert.False(t, AdminRole("intern").Valid())
}

func TestDuplicates(t *testing.T) {
	fields := []Field{
		{FieldBase: FieldBase{Key: "email"}},
		{FieldBase: FieldBase{Key: "name"}},
		{FieldBase: FieldBase{Key: "email"}},
		{FieldBase: FieldBase{Key: "age"}},
		{FieldBase: FieldBase{Key: "age"}},
	}
	assert.Equal(t, []string{"age", "email"}, DuplicateFieldKeys(fields))
	assert.Empty(t, DuplicateFieldKeys(fields[:2]))

	options := []Option{{Value: "yes"}, {Value: "no"}, {Value: "yes"}}
	assert.Equal(t, []string{"yes"}, DuplicateOptionValues(options))
}
