package model

// Type is a primitive field declaration, either standalone in a
// <types> block or nested inside a Composite.
type Type struct {
	Name              string
	PrimitiveType     PrimitiveType
	Length            int // 0 means "not declared"; SBE default is 1
	MinValue          string
	MaxValue          string
	NullValue         string
	CharacterEncoding CharacterEncoding
	Presence          Presence
	SinceVersion      int
	Description       string // ignored by Equal/Hash
	InlineValue       string // textual body, used for Constant presence
}

// effectiveLength returns Length defaulting to 1, matching SBE's
// "length, if absent, defaults to 1" rule.
func (t Type) effectiveLength() int {
	if t.Length == 0 {
		return 1
	}
	return t.Length
}

// Equal reports structural equality, ignoring Description.
func (t Type) Equal(o Type) bool {
	return t.Name == o.Name &&
		t.PrimitiveType == o.PrimitiveType &&
		t.effectiveLength() == o.effectiveLength() &&
		t.MinValue == o.MinValue &&
		t.MaxValue == o.MaxValue &&
		t.NullValue == o.NullValue &&
		t.CharacterEncoding == o.CharacterEncoding &&
		t.effectivePresence() == o.effectivePresence() &&
		t.SinceVersion == o.SinceVersion &&
		t.InlineValue == o.InlineValue
}

// effectivePresence defaults an empty Presence to Required.
func (t Type) effectivePresence() Presence {
	if t.Presence == "" {
		return Required
	}
	return t.Presence
}

// IsOptional implements the bag comparator's optionality test.
func (t Type) IsOptional() bool {
	return t.effectivePresence().IsOptional()
}

// Key returns the item's identity for bag membership (Type has no
// stable numeric id; name is its identity within a composite/types
// block).
func (t Type) Key() string { return t.Name }

// Ref is a named reference to another declared Type, Composite, Enum,
// or Set, resolved through the VTable during comparison.
type Ref struct {
	Name        string
	RefType     string // name of the referenced declaration
	Presence    Presence
	ValueRef    string
	Description string // ignored by Equal/Hash
}

func (r Ref) effectivePresence() Presence {
	if r.Presence == "" {
		return Required
	}
	return r.Presence
}

// EffectivePresence exposes the default-normalized presence so callers
// outside this package (the comparator engine's Ref-resolution logic)
// can replicate Equal's defaulting rule.
func (r Ref) EffectivePresence() Presence {
	return r.effectivePresence()
}

// IsOptional implements the bag comparator's optionality test.
func (r Ref) IsOptional() bool {
	return r.effectivePresence().IsOptional()
}

// Key returns the item's identity for bag membership.
func (r Ref) Key() string { return r.Name }

// Equal reports structural equality. A Ref's RefType is compared by
// name only; no VTable resolution happens here. The comparator engine's
// composite comparison uses its own VTable-resolving Ref equality
// instead, so a renamed but identical target is not a change there.
func (r Ref) Equal(o Ref) bool {
	return r.Name == o.Name &&
		r.RefType == o.RefType &&
		r.effectivePresence() == o.effectivePresence() &&
		r.ValueRef == o.ValueRef
}

// Composite is a named aggregate of Types and Refs, in declaration
// order. Sibling order is not semantic; comparison treats Types and
// Refs as bags.
type Composite struct {
	Name        string
	Description string // ignored by Equal/Hash
	Types       []Type
	Refs        []Ref
}

// IsMessageHeader reports whether this composite is the schema's
// mandatory header descriptor.
func (c Composite) IsMessageHeader() bool {
	return c.Name == "messageHeader"
}

// Key returns the item's identity for bag membership.
func (c Composite) Key() string { return c.Name }

// Equal reports structural equality: same name, same Types bag, same
// Refs bag. Order-independent.
func (c Composite) Equal(o Composite) bool {
	if c.Name != o.Name {
		return false
	}
	return equalTypeBag(c.Types, o.Types) && equalRefBag(c.Refs, o.Refs)
}

func equalTypeBag(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, ta := range a {
		found := false
		for j, tb := range b {
			if !used[j] && ta.Equal(tb) {
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

func equalRefBag(a, b []Ref) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, ra := range a {
		found := false
		for j, rb := range b {
			if !used[j] && ra.Equal(rb) {
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
