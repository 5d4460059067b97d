package compat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Polqt/sbeschema/internal/sbe/compat"
	"github.com/Polqt/sbeschema/internal/sbe/model"
)

func version(v int) *int { return &v }

func header() model.Composite {
	return model.Composite{
		Name: "messageHeader",
		Types: []model.Type{
			{Name: "blockLength", PrimitiveType: model.Uint16},
			{Name: "templateId", PrimitiveType: model.Uint16},
			{Name: "schemaId", PrimitiveType: model.Uint16},
			{Name: "version", PrimitiveType: model.Uint16},
		},
	}
}

func schemaWithField(v int, price model.Type, fields []model.Field) model.Schema {
	return model.Schema{
		Version: version(v),
		TypesBlocks: []model.TypesBlock{{
			Types:      []model.Type{price},
			Composites: []model.Composite{header()},
		}},
		Messages: []model.Message{{ID: 1, Name: "Order", Fields: fields}},
	}
}

func TestCheckSchemas_IdenticalSchema_IsNoChange(t *testing.T) {
	p := model.Type{Name: "Price32", PrimitiveType: model.Uint32}
	s := schemaWithField(1, p, []model.Field{{ID: 7, Name: "price", Type: "Price32"}})

	level, err := compat.CheckSchemas(s, s)
	require.NoError(t, err)
	assert.Equal(t, compat.NoChange, level)
}

func TestCheckSchemas_VersionBumpOnly_IsFull(t *testing.T) {
	p := model.Type{Name: "Price32", PrimitiveType: model.Uint32}
	latest := schemaWithField(1, p, nil)
	current := schemaWithField(2, p, nil)

	level, err := compat.CheckSchemas(latest, current)
	require.NoError(t, err)
	assert.Equal(t, compat.Full, level)
}

func TestCheckSchemas_OptionalFieldAdded_IsFull(t *testing.T) {
	p := model.Type{Name: "Price32", PrimitiveType: model.Uint32, Presence: model.Optional}
	latest := schemaWithField(1, p, nil)
	current := schemaWithField(2, p, []model.Field{{ID: 7, Name: "price", Type: "Price32", SinceVersion: 2}})

	level, err := compat.CheckSchemas(latest, current)
	require.NoError(t, err)
	assert.Equal(t, compat.Full, level)
}

func TestCheckSchemas_RequiredFieldAdded_IsForward(t *testing.T) {
	p := model.Type{Name: "Price32", PrimitiveType: model.Uint32}
	latest := schemaWithField(1, p, nil)
	current := schemaWithField(2, p, []model.Field{{ID: 7, Name: "price", Type: "Price32", SinceVersion: 2}})

	level, err := compat.CheckSchemas(latest, current)
	require.NoError(t, err)
	assert.Equal(t, compat.Forward, level)
}

func TestCheckSchemas_OptionalFieldRemoved_IsForward(t *testing.T) {
	p := model.Type{Name: "Price32", PrimitiveType: model.Uint32, Presence: model.Optional}
	latest := schemaWithField(1, p, []model.Field{{ID: 7, Name: "price", Type: "Price32"}})
	current := schemaWithField(1, p, nil)

	level, err := compat.CheckSchemas(latest, current)
	require.NoError(t, err)
	assert.Equal(t, compat.Forward, level)
}

func TestCheckSchemas_RequiredFieldRemoved_IsBackward(t *testing.T) {
	p := model.Type{Name: "Price32", PrimitiveType: model.Uint32}
	latest := schemaWithField(1, p, []model.Field{{ID: 7, Name: "price", Type: "Price32"}})
	current := schemaWithField(1, p, nil)

	level, err := compat.CheckSchemas(latest, current)
	require.NoError(t, err)
	assert.Equal(t, compat.Backward, level)
}

func TestCheckSchemas_MessageRenamedOnly_IsNoChange(t *testing.T) {
	p := model.Type{Name: "Price32", PrimitiveType: model.Uint32}
	latest := schemaWithField(1, p, nil)
	current := schemaWithField(1, p, nil)
	current.Messages[0].Name = "OrderV2"

	level, err := compat.CheckSchemas(latest, current)
	require.NoError(t, err)
	assert.Equal(t, compat.NoChange, level)
}

func TestCheckSchemas_VersionJumpOfTwoWithNoOtherChange_IsNone(t *testing.T) {
	p := model.Type{Name: "Price32", PrimitiveType: model.Uint32}
	latest := schemaWithField(1, p, nil)
	current := schemaWithField(3, p, nil)

	level, err := compat.CheckSchemas(latest, current)
	require.NoError(t, err)
	assert.Equal(t, compat.None, level)
}

func TestCheckSchemas_MissingVersion_IsError(t *testing.T) {
	p := model.Type{Name: "Price32", PrimitiveType: model.Uint32}
	latest := schemaWithField(1, p, nil)
	latest.Version = nil
	current := schemaWithField(1, p, nil)

	_, err := compat.CheckSchemas(latest, current)
	require.Error(t, err)
}

func TestCheckSchemas_MissingMessageHeader_IsError(t *testing.T) {
	latest := model.Schema{Version: version(1)}
	current := model.Schema{Version: version(1)}

	_, err := compat.CheckSchemas(latest, current)
	require.Error(t, err)
}

func TestCheckSchemas_ReorderingSiblingFieldsDoesNotChangeVerdict(t *testing.T) {
	p := model.Type{Name: "Price32", PrimitiveType: model.Uint32}
	qty := model.Type{Name: "Qty32", PrimitiveType: model.Uint32}
	fields := []model.Field{
		{ID: 7, Name: "price", Type: "Price32"},
		{ID: 8, Name: "qty", Type: "Qty32"},
	}
	latest := model.Schema{
		Version: version(1),
		TypesBlocks: []model.TypesBlock{{
			Types:      []model.Type{p, qty},
			Composites: []model.Composite{header()},
		}},
		Messages: []model.Message{{ID: 1, Name: "Order", Fields: fields}},
	}
	current := latest
	current.Messages = []model.Message{{
		ID:   1,
		Name: "Order",
		Fields: []model.Field{
			{ID: 8, Name: "qty", Type: "Qty32"},
			{ID: 7, Name: "price", Type: "Price32"},
		},
	}}

	level, err := compat.CheckSchemas(latest, current)
	require.NoError(t, err)
	assert.Equal(t, compat.NoChange, level)
}

func TestMeet_IsCommutativeAssociativeWithIdentityAndAbsorber(t *testing.T) {
	levels := []compat.CompatibilityLevel{compat.NoChange, compat.Full, compat.Backward, compat.Forward, compat.None}
	for _, a := range levels {
		assert.Equal(t, a, compat.Meet(a, compat.NoChange), "NoChange must be the identity")
		assert.Equal(t, compat.None, compat.Meet(a, compat.None), "None must be absorbing")
		for _, b := range levels {
			assert.Equal(t, compat.Meet(a, b), compat.Meet(b, a), "meet must be commutative")
		}
	}
	assert.Equal(t, compat.None, compat.Meet(compat.Backward, compat.Forward))
}
