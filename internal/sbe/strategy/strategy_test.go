package strategy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Polqt/sbeschema/internal/sbe/model"
	"github.com/Polqt/sbeschema/internal/sbe/sbeerr"
	"github.com/Polqt/sbeschema/internal/sbe/strategy"
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

// priceType declares a standalone uint32 Type named "Price32", carrying
// presence so a Field naming it resolves to that optionality through
// the VTable (Field itself has no presence attribute of its own).
func priceType(presence model.Presence) model.Type {
	return model.Type{Name: "Price32", PrimitiveType: model.Uint32, Presence: presence}
}

func baseSchema(v int, priceField []model.Field, price model.Type) model.Schema {
	return model.Schema{
		Version: version(v),
		TypesBlocks: []model.TypesBlock{{
			Composites: []model.Composite{header()},
			Types:      []model.Type{price},
		}},
		Messages: []model.Message{
			{ID: 1, Name: "Order", Fields: priceField},
		},
	}
}

func TestValidator_VersionBumpOnly_AcceptedByFull(t *testing.T) {
	p := priceType(model.Required)
	latest := baseSchema(1, nil, p)
	current := baseSchema(2, nil, p)

	v := strategy.NewValidator(strategy.Full)
	level, err := v.Check(latest, current)
	require.NoError(t, err)
	assert.Equal(t, "Full", level.String())
}

func TestValidator_OptionalFieldAdded_AcceptedByFull(t *testing.T) {
	p := priceType(model.Optional)
	latest := baseSchema(1, nil, p)
	current := baseSchema(2, []model.Field{
		{ID: 7, Name: "price", Type: "Price32", SinceVersion: 2},
	}, p)

	v := strategy.NewValidator(strategy.Full)
	level, err := v.Check(latest, current)
	require.NoError(t, err)
	assert.Equal(t, "Full", level.String())
}

func TestValidator_RequiredFieldAdded_RejectedByFull(t *testing.T) {
	p := priceType(model.Required)
	latest := baseSchema(1, nil, p)
	current := baseSchema(2, []model.Field{
		{ID: 7, Name: "price", Type: "Price32", SinceVersion: 2},
	}, p)

	v := strategy.NewValidator(strategy.Full)
	level, err := v.Check(latest, current)
	assert.Equal(t, "Forward", level.String())
	require.Error(t, err)
	assert.True(t, sbeerr.IsDataError(err))
}

func TestValidator_RequiredFieldAdded_AcceptedByForward(t *testing.T) {
	p := priceType(model.Required)
	latest := baseSchema(1, nil, p)
	current := baseSchema(2, []model.Field{
		{ID: 7, Name: "price", Type: "Price32", SinceVersion: 2},
	}, p)

	v := strategy.NewValidator(strategy.Forward)
	level, err := v.Check(latest, current)
	require.NoError(t, err)
	assert.Equal(t, "Forward", level.String())
}

func TestValidator_RequiredFieldRemoved_RejectedByForward_AcceptedByBackward(t *testing.T) {
	p := priceType(model.Required)
	latest := baseSchema(1, []model.Field{
		{ID: 7, Name: "price", Type: "Price32"},
	}, p)
	current := baseSchema(2, nil, p)

	forward := strategy.NewValidator(strategy.Forward)
	level, err := forward.Check(latest, current)
	assert.Equal(t, "Backward", level.String())
	require.Error(t, err)

	backward := strategy.NewValidator(strategy.Backward)
	level, err = backward.Check(latest, current)
	require.NoError(t, err)
	assert.Equal(t, "Backward", level.String())
}

func TestValidator_MessageRenamedOnly_IsNoChange(t *testing.T) {
	p := priceType(model.Required)
	latest := baseSchema(1, nil, p)
	current := baseSchema(1, nil, p)
	current.Messages[0].Name = "OrderV2"

	v := strategy.NewValidator(strategy.Full)
	level, err := v.Check(latest, current)
	require.NoError(t, err)
	assert.Equal(t, "NoChange", level.String())
}

func TestValidator_NoneAcceptsDeliberatelyBrokenVersionJump(t *testing.T) {
	p := priceType(model.Required)
	latest := baseSchema(1, nil, p)
	current := baseSchema(4, nil, p)

	v := strategy.NewValidator(strategy.None)
	level, err := v.Check(latest, current)
	require.NoError(t, err)
	assert.Equal(t, "None", level.String())
}

func TestParse(t *testing.T) {
	cases := map[string]string{"none": "None", "backward": "Backward", "forward": "Forward", "full": "Full"}
	for name, want := range cases {
		s, ok := strategy.Parse(name)
		require.True(t, ok, name)
		assert.Equal(t, want, s.String())
	}
	_, ok := strategy.Parse("bogus")
	assert.False(t, ok)
}
