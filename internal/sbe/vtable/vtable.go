// Package vtable builds a by-name lookup index over a parsed schema so
// the comparator engine can resolve Ref.RefType and Field.Type
// indirection without materialising a cyclic object graph. A VTable
// holds only non-owning references into its parent model.Schema and
// MUST NOT outlive it.
package vtable

import (
	"github.com/Polqt/sbeschema/internal/sbe/model"
	"github.com/Polqt/sbeschema/internal/sbe/sbeerr"
)

// Kind identifies what sort of declaration a VTable entry resolves to.
type Kind int

const (
	KindType Kind = iota
	KindComposite
	KindEnum
	KindSet
)

// Entry is a non-owning reference to one named declaration. Exactly
// one of the typed fields is populated, selected by Kind.
type Entry struct {
	Kind      Kind
	Type      *model.Type
	Composite *model.Composite
	Enum      *model.EnumType
	Set       *model.SetType
}

// VTable is the by-name index over one schema's declared types,
// composites, enums, and sets. Built once per schema (Build); insertion
// order is irrelevant.
type VTable struct {
	byName map[string]Entry
}

// Build indexes every declared type name across schema's TypesBlocks.
// A duplicate name (the same name declared as two different
// constructs, or twice within the same construct kind) is reported as
// a sbeerr.DuplicateTypeName error; the caller's schema is malformed if
// this occurs, since a Ref/Field type name must resolve unambiguously.
func Build(schema model.Schema) (*VTable, error) {
	vt := &VTable{byName: make(map[string]Entry)}
	for _, tb := range schema.TypesBlocks {
		for i := range tb.Types {
			t := &tb.Types[i]
			if err := vt.insert(t.Name, Entry{Kind: KindType, Type: t}); err != nil {
				return nil, err
			}
		}
		for i := range tb.Composites {
			c := &tb.Composites[i]
			if err := vt.insert(c.Name, Entry{Kind: KindComposite, Composite: c}); err != nil {
				return nil, err
			}
			for j := range c.Types {
				t := &c.Types[j]
				// Types nested inside a composite are scoped to that
				// composite in SBE and are not independently
				// resolvable by name at the schema level; skip them
				// here to avoid spurious duplicate-name errors across
				// composites that happen to share a nested type name
				// (e.g. every composite's first field is often named
				// the same across unrelated composites).
				_ = t
			}
		}
		for i := range tb.Enums {
			e := &tb.Enums[i]
			if err := vt.insert(e.Name, Entry{Kind: KindEnum, Enum: e}); err != nil {
				return nil, err
			}
		}
		for i := range tb.Sets {
			s := &tb.Sets[i]
			if err := vt.insert(s.Name, Entry{Kind: KindSet, Set: s}); err != nil {
				return nil, err
			}
		}
	}
	return vt, nil
}

func (vt *VTable) insert(name string, e Entry) error {
	if _, exists := vt.byName[name]; exists {
		return sbeerr.DuplicateTypeName(name)
	}
	vt.byName[name] = e
	return nil
}

// Lookup resolves a type name declared across a schema's <types>
// blocks. ok is false if no declaration carries that name (including
// the case where name refers to a raw primitive type keyword, which
// the VTable does not index since primitives are never declared).
func (vt *VTable) Lookup(name string) (Entry, bool) {
	e, ok := vt.byName[name]
	return e, ok
}

// IsOptional reports whether the resolved declaration carries optional
// presence. Only a Type entry can be optional; composites, enums, and
// sets carry no presence attribute of their own.
func (e Entry) IsOptional() bool {
	if e.Kind == KindType {
		return e.Type.IsOptional()
	}
	return false
}

// ContentEqual compares two resolved entries structurally while
// ignoring each target's own declared Name. This lets a Ref's target
// be renamed across schema versions without the rename itself reading
// as a content change: only the underlying wire content of the
// referenced declaration matters.
func ContentEqual(a, b Entry) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindType:
		ta, tb := *a.Type, *b.Type
		ta.Name, tb.Name = "", ""
		return ta.Equal(tb)
	case KindComposite:
		ca, cb := *a.Composite, *b.Composite
		ca.Name, cb.Name = "", ""
		return ca.Equal(cb)
	case KindEnum:
		ea, eb := *a.Enum, *b.Enum
		ea.Name, eb.Name = "", ""
		return ea.Equal(eb)
	case KindSet:
		sa, sb := *a.Set, *b.Set
		sa.Name, sb.Name = "", ""
		return sa.Equal(sb)
	default:
		return false
	}
}
