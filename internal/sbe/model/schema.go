// Package model defines the immutable, content-addressable
// representation of a parsed SBE schema: the schema header, its
// <types> blocks (composites, enums, sets, standalone types), and its
// messages. Values here are produced by the external deserializer
// (internal/sbe/sbexml) and read, never mutated, by the comparator
// engine (internal/sbe/compat).
package model

// Include is a schema-level <include href="..."/> reference. It has no
// bearing on compatibility and is carried only for round-tripping.
type Include struct {
	Href string
}

// TypesBlock groups the composites, enums, and sets declared within one
// <types>...</types> element. A schema may declare more than one; the
// comparator engine flattens all of a schema's TypesBlocks into a
// single view before comparing.
type TypesBlock struct {
	Types      []Type // standalone <type> declarations, not nested in a composite
	Composites []Composite
	Enums      []EnumType
	Sets       []SetType
}

// Schema is one immutable, parsed SBE schema document.
type Schema struct {
	Package         string
	ID              int
	Version         *int // nil means @version was not declared
	SemanticVersion string
	Description     string // ignored by Equal/Hash
	ByteOrder       ByteOrder
	Includes        []Include
	TypesBlocks     []TypesBlock
	Messages        []Message
}

// HasVersion reports whether @version was declared.
func (s Schema) HasVersion() bool {
	return s.Version != nil
}

// MessageHeader returns the composite named "messageHeader" across all
// of the schema's TypesBlocks, and whether it was found. SBE requires
// exactly one; a well-formed Schema (as produced by the deserializer)
// never has more than one, so the first match is authoritative.
func (s Schema) MessageHeader() (Composite, bool) {
	for _, tb := range s.TypesBlocks {
		for _, c := range tb.Composites {
			if c.IsMessageHeader() {
				return c, true
			}
		}
	}
	return Composite{}, false
}

// FlattenedTypes returns every standalone <type> declared directly
// within a <types> block across all TypesBlocks, excluding types
// nested inside a composite (those are scoped to their composite and
// compared as part of it, not independently).
func (s Schema) FlattenedTypes() []Type {
	var out []Type
	for _, tb := range s.TypesBlocks {
		out = append(out, tb.Types...)
	}
	return out
}

// FlattenedComposites returns every declared composite across all
// TypesBlocks except messageHeader, which is compared separately.
func (s Schema) FlattenedComposites() []Composite {
	var out []Composite
	for _, tb := range s.TypesBlocks {
		for _, c := range tb.Composites {
			if !c.IsMessageHeader() {
				out = append(out, c)
			}
		}
	}
	return out
}

// FlattenedEnums returns every declared enum across all TypesBlocks.
func (s Schema) FlattenedEnums() []EnumType {
	var out []EnumType
	for _, tb := range s.TypesBlocks {
		out = append(out, tb.Enums...)
	}
	return out
}

// FlattenedSets returns every declared set across all TypesBlocks.
func (s Schema) FlattenedSets() []SetType {
	var out []SetType
	for _, tb := range s.TypesBlocks {
		out = append(out, tb.Sets...)
	}
	return out
}

// Equal reports whole-schema structural equality: same package, id,
// semantic version, byte order, version, flattened composites
// (including messageHeader), standalone types, enums, sets, and
// messages. Description is ignored, and Includes are not compared at
// all (they carry no wire semantics).
func (s Schema) Equal(o Schema) bool {
	if s.Package != o.Package || s.ID != o.ID || s.SemanticVersion != o.SemanticVersion || s.ByteOrder != o.ByteOrder {
		return false
	}
	if (s.Version == nil) != (o.Version == nil) {
		return false
	}
	if s.Version != nil && *s.Version != *o.Version {
		return false
	}
	if !equalTypeBag(s.FlattenedTypes(), o.FlattenedTypes()) {
		return false
	}
	if !equalCompositeBag(allComposites(s), allComposites(o)) {
		return false
	}
	if !equalEnumBag(s.FlattenedEnums(), o.FlattenedEnums()) {
		return false
	}
	if !equalSetBag(s.FlattenedSets(), o.FlattenedSets()) {
		return false
	}
	return equalMessageBag(s.Messages, o.Messages)
}

func allComposites(s Schema) []Composite {
	var out []Composite
	for _, tb := range s.TypesBlocks {
		out = append(out, tb.Composites...)
	}
	return out
}

func equalCompositeBag(a, b []Composite) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, ca := range a {
		found := false
		for j, cb := range b {
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

func equalEnumBag(a, b []EnumType) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, ea := range a {
		found := false
		for j, eb := range b {
			if !used[j] && ea.Equal(eb) {
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

func equalSetBag(a, b []SetType) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, sa := range a {
		found := false
		for j, sb := range b {
			if !used[j] && sa.Equal(sb) {
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

func equalMessageBag(a, b []Message) bool {
	if len(a) != len(b) {
		return false
	}
	byID := make(map[int]Message, len(b))
	for _, m := range b {
		byID[m.ID] = m
	}
	for _, ma := range a {
		mb, ok := byID[ma.ID]
		if !ok {
			return false
		}
		if ma.SemanticType != mb.SemanticType {
			return false
		}
		if !equalFieldBag(ma.Fields, mb.Fields) || !equalGroupBag(ma.Groups, mb.Groups) || !equalDataBag(ma.Data, mb.Data) {
			return false
		}
	}
	return true
}

func equalGroupBag(a, b []Group) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, ga := range a {
		found := false
		for j, gb := range b {
			if !used[j] && ga.Equal(gb) {
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
