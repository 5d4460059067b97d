package compat

import (
	"github.com/Polqt/sbeschema/internal/sbe/model"
	"github.com/Polqt/sbeschema/internal/sbe/sbeerr"
	"github.com/Polqt/sbeschema/internal/sbe/vtable"
)

// CheckSchemas produces the overall verdict for the pair (latest,
// current) by combining four sub-checks in order: compare_version,
// compare_message_header, compare_types, compare_messages. If any
// sub-check yields None the remaining checks still run — the engine
// has no side effects to avoid and short-circuiting saves no
// observable work here — but the overall verdict is None regardless.
func CheckSchemas(latest, current model.Schema) (CompatibilityLevel, error) {
	versionLevel, err := compareVersion(latest, current)
	if err != nil {
		return 0, err
	}

	latestVT, err := vtable.Build(latest)
	if err != nil {
		return 0, err
	}
	currentVT, err := vtable.Build(current)
	if err != nil {
		return 0, err
	}

	headerLevel, err := compareMessageHeader(latest, current, latestVT, currentVT)
	if err != nil {
		return 0, err
	}

	typesLevel := compareTypes(latest, current)
	messagesLevel := compareMessages(latest, current, latestVT, currentVT)

	return MeetAll(versionLevel, headerLevel, typesLevel, messagesLevel), nil
}

// compareVersion compares the two schemas' declared version numbers:
// equal versions are NoChange, a sequential bump is Full, and any
// larger gap is an unconditional None since consumers cannot
// interpolate a skipped version.
func compareVersion(latest, current model.Schema) (CompatibilityLevel, error) {
	if !latest.HasVersion() || !current.HasVersion() {
		return 0, sbeerr.MissingVersion()
	}
	l, c := *latest.Version, *current.Version
	switch {
	case c == l:
		return NoChange, nil
	case c == l+1:
		return Full, nil
	default:
		return None, nil
	}
}

// compareMessageHeader requires both schemas to declare a
// messageHeader composite, compared with the same composite
// partial-compatibility routine used for ordinary composites — the
// header gets no bespoke diff of its own.
func compareMessageHeader(latest, current model.Schema, latestVT, currentVT *vtable.VTable) (CompatibilityLevel, error) {
	latestHeader, ok := latest.MessageHeader()
	if !ok {
		return 0, sbeerr.MissingMessageHeader()
	}
	currentHeader, ok := current.MessageHeader()
	if !ok {
		return 0, sbeerr.MissingMessageHeader()
	}
	return compareComposite(currentHeader, latestHeader, currentVT, latestVT), nil
}

// compareComposite computes the partial compatibility of two composites
// matched by name. self is current, latest is the previously published
// version. Ref equality resolves RefType through the two VTables so a
// renamed-but-otherwise-identical target does not itself read as a
// content change.
func compareComposite(self, latest model.Composite, selfVT, latestVT *vtable.VTable) CompatibilityLevel {
	if self.Name != latest.Name {
		return None
	}
	refsEqual := resolvedRefEqual(selfVT, latestVT)
	if equalTypeBagExported(self.Types, latest.Types) && equalSetwise(self.Refs, latest.Refs, refsEqual) {
		return NoChange
	}
	levelTypes := bagCompareAbsence(self.Types, latest.Types, model.Type.Equal, model.Type.IsOptional)
	levelRefs := bagCompareAbsence(self.Refs, latest.Refs, refsEqual, model.Ref.IsOptional)
	return Meet(levelTypes, levelRefs)
}

// resolvedRefEqual builds a Ref equality test over the two VTables
// indexing either side of the comparison. bagCompare calls equal with
// swapped argument order between its deletion and addition passes (a
// given ref is passed as both the first and second argument across
// calls), so the test cannot assume a is drawn from selfVT and b from
// latestVT — each ref's RefType is resolved against whichever VTable
// actually recognises it.
func resolvedRefEqual(selfVT, latestVT *vtable.VTable) func(a, b model.Ref) bool {
	return func(a, b model.Ref) bool {
		if a.Name != b.Name || a.EffectivePresence() != b.EffectivePresence() || a.ValueRef != b.ValueRef {
			return false
		}
		if a.RefType == b.RefType {
			return true
		}
		aEntry, aOK := lookupEither(selfVT, latestVT, a.RefType)
		bEntry, bOK := lookupEither(selfVT, latestVT, b.RefType)
		if !aOK || !bOK {
			return false
		}
		return vtable.ContentEqual(aEntry, bEntry)
	}
}

// lookupEither resolves name against whichever of the two VTables
// declares it, trying vt1 first.
func lookupEither(vt1, vt2 *vtable.VTable, name string) (vtable.Entry, bool) {
	if e, ok := vt1.Lookup(name); ok {
		return e, true
	}
	return vt2.Lookup(name)
}

// compareTypes flattens each schema's <types> blocks into standalone
// types, composites (excluding messageHeader), enums, and sets,
// compares each bag, and meets the sub-verdicts. The standalone-type
// bag uses the general fold, so declaring a first optional type (e.g.
// alongside a newly added optional field) is Full rather than Backward.
func compareTypes(latest, current model.Schema) CompatibilityLevel {
	typesLevel := bagCompare(
		current.FlattenedTypes(), latest.FlattenedTypes(),
		model.Type.Equal, model.Type.IsOptional,
	)
	compositesLevel := bagCompareAbsence(
		current.FlattenedComposites(), latest.FlattenedComposites(),
		model.Composite.Equal, compositeNeverOptional,
	)
	enumsLevel := bagCompareAbsence(
		current.FlattenedEnums(), latest.FlattenedEnums(),
		model.EnumType.Equal, model.EnumType.IsOptional,
	)
	setsLevel := bagCompareAbsence(
		current.FlattenedSets(), latest.FlattenedSets(),
		model.SetType.Equal, model.SetType.IsOptional,
	)

	return MeetAll(typesLevel, compositesLevel, enumsLevel, setsLevel)
}

// compositeNeverOptional backs the composite bag comparison: a whole
// composite declaration carries no presence attribute, so adding or
// removing one is treated as a required-item change (Forward-only on
// add, Backward-only on delete), matching how SBE treats a dropped or
// newly declared composite as a breaking shape change rather than an
// optional extension.
func compositeNeverOptional(model.Composite) bool { return false }

// compareMessages matches messages by Id; present-in-both messages are
// compared field/group/data bag by bag and the three sub-verdicts
// meet. Messages present in only one schema are folded through the
// same added/deleted transition functions as any other bag member: an
// added message is Forward-only, a removed message is Backward-only.
func compareMessages(latest, current model.Schema, latestVT, currentVT *vtable.VTable) CompatibilityLevel {
	currentByID := make(map[int]model.Message, len(current.Messages))
	for _, m := range current.Messages {
		currentByID[m.ID] = m
	}
	latestByID := make(map[int]model.Message, len(latest.Messages))
	for _, m := range latest.Messages {
		latestByID[m.ID] = m
	}

	level := NoChange
	allFound := true

	for _, l := range latest.Messages {
		c, ok := currentByID[l.ID]
		if !ok {
			allFound = false
			level = deleted(level, false) // message removal is never optional
			continue
		}
		level = Meet(level, compareMessagePair(c, l, currentVT, latestVT))
	}

	if allFound {
		for _, c := range current.Messages {
			if _, ok := latestByID[c.ID]; ok {
				continue
			}
			level = added(level, false) // message addition is never optional
		}
	}

	return level
}

// compareMessagePair compares two messages matched by Id: identical
// field bag ⊓ identical group bag ⊓ identical data bag. Renamed
// messages (same Id, different Name) are unaffected since Name plays
// no part in any of the three bag comparisons. Field/Data optionality
// is resolved by looking up each item's Type name in whichever VTable
// recognises it: a Field itself carries no presence attribute in this
// model, it inherits one from the Type (or primitive alias) it names.
func compareMessagePair(current, latest model.Message, currentVT, latestVT *vtable.VTable) CompatibilityLevel {
	typeIsOptional := resolvedTypeNameOptional(currentVT, latestVT)
	fieldIsOptional := func(f model.Field) bool { return typeIsOptional(f.Type) }
	dataIsOptional := func(d model.Data) bool { return typeIsOptional(d.Type) }

	fieldsLevel := bagCompare(current.Fields, latest.Fields, model.Field.Equal, fieldIsOptional)
	groupsLevel := bagCompare(current.Groups, latest.Groups, model.Group.Equal, model.Group.IsOptional)
	dataLevel := bagCompare(current.Data, latest.Data, model.Data.Equal, dataIsOptional)
	return MeetAll(fieldsLevel, groupsLevel, dataLevel)
}

// resolvedTypeNameOptional builds a type-name optionality test that
// tries both schemas' VTables, since a bag item's type name may come
// from either side of the comparison and primitive type names (never
// indexed) are always treated as non-optional, matching a plain
// required-by-default Type declaration.
func resolvedTypeNameOptional(vts ...*vtable.VTable) func(name string) bool {
	return func(name string) bool {
		for _, vt := range vts {
			if vt == nil {
				continue
			}
			if e, ok := vt.Lookup(name); ok {
				return e.IsOptional()
			}
		}
		return false
	}
}

// equalTypeBagExported re-checks the fast-path "unchanged" condition
// for the Types side. bagCompare would reach
// the same NoChange result on its own, but computing it directly here
// avoids two nested linear scans when nothing changed at all, which is
// the overwhelmingly common case when re-checking an unmodified
// composite across many message header comparisons. The Refs side of
// the same fast path uses the generic equalSetwise helper directly with
// resolvedRefEqual, since Ref equality there needs VTable resolution
// that plain model.Ref.Equal does not perform.
func equalTypeBagExported(a, b []model.Type) bool {
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
