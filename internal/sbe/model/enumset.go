package model

// ValidValue is one named member of an EnumType.
type ValidValue struct {
	Name        string
	Value       string
	Description string // ignored by Equal/Hash
}

// IsOptional is always false: enum valid values carry no presence
// attribute, so adding or removing one is always a required-side
// change.
func (ValidValue) IsOptional() bool { return false }

// Key returns the item's identity for bag membership.
func (v ValidValue) Key() string { return v.Name }

// Equal reports structural equality, ignoring Description.
func (v ValidValue) Equal(o ValidValue) bool {
	return v.Name == o.Name && v.Value == o.Value
}

// EnumType is a named enumeration over a primitive encoding type.
type EnumType struct {
	Name         string
	EncodingType PrimitiveType
	ValidValues  []ValidValue
	Description  string // ignored by Equal/Hash
}

// Equal reports structural equality: same name, same encoding type,
// same ValidValues bag.
func (e EnumType) Equal(o EnumType) bool {
	if e.Name != o.Name || e.EncodingType != o.EncodingType {
		return false
	}
	if len(e.ValidValues) != len(o.ValidValues) {
		return false
	}
	used := make([]bool, len(o.ValidValues))
	for _, va := range e.ValidValues {
		found := false
		for j, vb := range o.ValidValues {
			if !used[j] && va.Equal(vb) {
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// IsOptional is always false: EnumType has no presence attribute and is
// keyed by name, matching composites and sets as a structural value
// with stable identity rather than an optionally-present field.
func (EnumType) IsOptional() bool { return false }

// Key returns the item's identity for bag membership.
func (e EnumType) Key() string { return e.Name }

// Choice is one named bit position within a SetType.
type Choice struct {
	Name        string
	Value       string // bit position, as declared text
	Description string // ignored by Equal/Hash
}

// IsOptional is always false: choices carry no presence attribute.
func (Choice) IsOptional() bool { return false }

// Key returns the item's identity for bag membership.
func (c Choice) Key() string { return c.Name }

// Equal reports structural equality, ignoring Description.
func (c Choice) Equal(o Choice) bool {
	return c.Name == o.Name && c.Value == o.Value
}

// SetType is a named bitset over a primitive encoding type.
type SetType struct {
	Name         string
	EncodingType PrimitiveType
	Choices      []Choice
	Description  string // ignored by Equal/Hash
}

// Equal reports structural equality: same name, same encoding type,
// same Choices bag.
func (s SetType) Equal(o SetType) bool {
	if s.Name != o.Name || s.EncodingType != o.EncodingType {
		return false
	}
	if len(s.Choices) != len(o.Choices) {
		return false
	}
	used := make([]bool, len(o.Choices))
	for _, ca := range s.Choices {
		found := false
		for j, cb := range o.Choices {
			if !used[j] && ca.Equal(cb) {
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// IsOptional is always false: SetType has no presence attribute.
func (SetType) IsOptional() bool { return false }

// Key returns the item's identity for bag membership.
func (s SetType) Key() string { return s.Name }
