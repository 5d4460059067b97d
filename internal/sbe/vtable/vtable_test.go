package vtable_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Polqt/sbeschema/internal/sbe/model"
	"github.com/Polqt/sbeschema/internal/sbe/vtable"
)

func TestBuild_ResolvesComposite(t *testing.T) {
	schema := model.Schema{
		TypesBlocks: []model.TypesBlock{{
			Types:      []model.Type{{Name: "Price32", PrimitiveType: model.Uint32, Presence: model.Optional}},
			Composites: []model.Composite{{Name: "Money", Types: []model.Type{{Name: "mantissa", PrimitiveType: model.Int64}}}},
			Enums:      []model.EnumType{{Name: "Side"}},
			Sets:       []model.SetType{{Name: "OrderFlags"}},
		}},
	}

	vt, err := vtable.Build(schema)
	require.NoError(t, err)

	e, ok := vt.Lookup("Price32")
	require.True(t, ok)
	assert.Equal(t, vtable.KindType, e.Kind)
	assert.True(t, e.IsOptional())

	e, ok = vt.Lookup("Money")
	require.True(t, ok)
	assert.Equal(t, vtable.KindComposite, e.Kind)
	assert.Equal(t, "Money", e.Composite.Name)
	assert.False(t, e.IsOptional())

	e, ok = vt.Lookup("Side")
	require.True(t, ok)
	assert.Equal(t, vtable.KindEnum, e.Kind)

	e, ok = vt.Lookup("OrderFlags")
	require.True(t, ok)
	assert.Equal(t, vtable.KindSet, e.Kind)

	_, ok = vt.Lookup("DoesNotExist")
	assert.False(t, ok)

	// "mantissa" is nested inside the Money composite and must not be
	// independently resolvable at schema scope.
	_, ok = vt.Lookup("mantissa")
	assert.False(t, ok)
}

func TestBuild_DuplicateNameIsAnError(t *testing.T) {
	schema := model.Schema{
		TypesBlocks: []model.TypesBlock{
			{Composites: []model.Composite{{Name: "Money"}}},
			{Enums: []model.EnumType{{Name: "Money"}}},
		},
	}

	_, err := vtable.Build(schema)
	require.Error(t, err)
}
