package compat

// bagItem is the constraint every entity compared by bagCompare must
// satisfy: a stable identity (Key). The optionality test used by the
// deleted/added transition functions is passed to bagCompare separately.
type bagItem[K comparable] interface {
	Key() K
}

// bagCompare compares current and latest set-wise: sibling order never
// affects the result. Items are matched by the equal function alone
// (structural equality), not by Key, so an item whose content changed
// counts as deleted from latest; isOptional classifies
// additions/deletions.
//
// spec.md §4.3.7 names four guard cases ahead of the general fold. Two
// of them ("both absent" and "current == latest set-eq") fall out of the
// general loop for free — an empty loop body or a fully-matched pass
// both leave level at its NoChange identity. "current absent, latest
// present" also coincides with the general loop's deleted() mapping
// (optional → Forward, required → Backward). The fourth, "current
// present, latest absent", does NOT coincide with added() — spec.md maps
// a newly-populated bag's items as optional → Backward, required →
// Forward, the mirror of deleted(), not added()'s optional → Full — but
// a plain []T cannot distinguish "the bag never existed" from "the bag
// happened to be empty", and for most of this package's callers that
// distinction does not arise in the original source either (see
// bagCompareAbsence). This function implements only the general fold;
// callers for which the fourth guard applies use bagCompareAbsence
// instead.
func bagCompare[T bagItem[K], K comparable](current, latest []T, equal func(a, b T) bool, isOptional func(T) bool) CompatibilityLevel {
	if len(current) == 0 && len(latest) == 0 {
		return NoChange
	}
	if equalSetwise(current, latest, equal) {
		return NoChange
	}

	level := NoChange
	allFound := true

	for _, l := range latest {
		if containsEqual(current, l, equal) {
			continue
		}
		allFound = false
		level = deleted(level, isOptional(l))
	}

	if allFound {
		for _, c := range current {
			if containsEqual(latest, c, equal) {
				continue
			}
			level = added(level, isOptional(c))
		}
	}

	return level
}

// bagCompareAbsence wraps bagCompare with spec.md §4.3.7's fourth guard
// case ("current present, latest absent"), for the bag comparisons whose
// grounding source — check_vec/check_types in
// partial_compatibility_for_types.rs — models the bag as an
// Option<Vec<T>> rather than a plain vector: Composite.types,
// Composite.refs, and the schema-level composite/enum/set bags flattened
// by compare_types. There, a bag going from
// never-declared to declared is a distinct state from a bag gaining
// items alongside ones it already had, and the spec maps a wholly new
// bag's items to the mirror of deletion (optional → Backward, required →
// Forward) rather than the general fold's optional → Full.
//
// Message Field/Group/Data bags are not modeled this way by the
// grounding source: validator.rs's compare_messages is unimplemented
// there, and spec.md §8 scenario 2 ("optional field added to a message,
// id unchanged" — the message's first field — expects Full) confirms the
// general fold governs those bags instead. compareMessagePair therefore
// calls bagCompare directly, not this wrapper, and so does compareTypes
// for the standalone-type bag.
func bagCompareAbsence[T bagItem[K], K comparable](current, latest []T, equal func(a, b T) bool, isOptional func(T) bool) CompatibilityLevel {
	if len(latest) == 0 && len(current) != 0 {
		level := NoChange
		for _, c := range current {
			level = addedToAbsentBag(level, isOptional(c))
		}
		return level
	}
	return bagCompare(current, latest, equal, isOptional)
}

func containsEqual[T any](items []T, target T, equal func(a, b T) bool) bool {
	for _, it := range items {
		if equal(it, target) {
			return true
		}
	}
	return false
}

// equalSetwise reports whether a and b contain the same items under
// equal, ignoring order and matching each item at most once (so a
// duplicate-by-equal item in a cannot be satisfied by reusing the same
// item in b twice).
func equalSetwise[T any](a, b []T, equal func(x, y T) bool) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, xa := range a {
		found := false
		for j, xb := range b {
			if !used[j] && equal(xa, xb) {
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

// deleted folds the removal of a latest-only item into level. Removing
// an optional item is Forward-compatible (old optional readers already
// tolerate its absence via nullValue fallback); removing a required
// item is Backward-compatible only.
func deleted(level CompatibilityLevel, isOptional bool) CompatibilityLevel {
	if isOptional {
		return Meet(level, Forward)
	}
	return Meet(level, Backward)
}

// added folds the addition of a current-only item into level. Adding
// an optional item is Full-compatible; adding a required item is
// Forward-compatible only.
func added(level CompatibilityLevel, isOptional bool) CompatibilityLevel {
	if isOptional {
		return Meet(level, Full)
	}
	return Meet(level, Forward)
}

// addedToAbsentBag folds an item into level when it joins a bag that
// did not exist at all in latest (bagCompare's "current present, latest
// absent" guard). This is the mirror of deleted(), not added(): an
// optional item is Backward-compatible only, a required item is
// Forward-compatible only.
func addedToAbsentBag(level CompatibilityLevel, isOptional bool) CompatibilityLevel {
	if isOptional {
		return Meet(level, Backward)
	}
	return Meet(level, Forward)
}
