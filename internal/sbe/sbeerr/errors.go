// Package sbeerr defines the error taxonomy shared by the schema model,
// lookup table, comparator engine, and strategy layer.
//
// Errors are surfaced unchanged to callers: the core performs no retry,
// no logging, and no partial-success reporting. A computed
// CompatibilityLevel of None is a successful computation, not an error —
// it is the strategy layer that decides whether None should be raised.
package sbeerr

import "fmt"

// Kind identifies which error condition occurred.
type Kind int

const (
	// KindSchemaNotCompatible means the computed verdict failed the
	// strategy's minimum threshold.
	KindSchemaNotCompatible Kind = iota
	// KindMissingVersion means one or both schemas omit @version.
	KindMissingVersion
	// KindMissingMessageHeader means one or both schemas omit the
	// messageHeader composite.
	KindMissingMessageHeader
	// KindSchemaParse means the external deserializer rejected malformed
	// XML or an unknown enumeration value.
	KindSchemaParse
	// KindDuplicateTypeName means the VTable found two declarations
	// sharing a type name while indexing a schema.
	KindDuplicateTypeName
)

func (k Kind) String() string {
	switch k {
	case KindSchemaNotCompatible:
		return "SchemaNotCompatible"
	case KindMissingVersion:
		return "MissingVersion"
	case KindMissingMessageHeader:
		return "MissingMessageHeader"
	case KindSchemaParse:
		return "SchemaParse"
	case KindDuplicateTypeName:
		return "DuplicateTypeName"
	default:
		return "Unknown"
	}
}

// Error is the single error type returned from the evolution core. Level
// is populated only for KindSchemaNotCompatible; it carries the verdict
// that failed the strategy's threshold so callers can report it.
type Error struct {
	Kind    Kind
	Level   string // string form of compat.CompatibilityLevel; avoids an import cycle
	Message string
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindSchemaNotCompatible:
		return fmt.Sprintf("schema is not compatible with the latest schema: compatibility level %s", e.Level)
	case KindMissingVersion:
		return "schema is missing @version"
	case KindMissingMessageHeader:
		return "schema is missing the messageHeader composite"
	case KindSchemaParse:
		return fmt.Sprintf("failed to parse schema: %s", e.Message)
	case KindDuplicateTypeName:
		return fmt.Sprintf("duplicate type name %q while building lookup table", e.Message)
	default:
		return e.Message
	}
}

// NotCompatible builds a KindSchemaNotCompatible error carrying level.
func NotCompatible(level string) *Error {
	return &Error{Kind: KindSchemaNotCompatible, Level: level}
}

// MissingVersion builds a KindMissingVersion error.
func MissingVersion() *Error {
	return &Error{Kind: KindMissingVersion}
}

// MissingMessageHeader builds a KindMissingMessageHeader error.
func MissingMessageHeader() *Error {
	return &Error{Kind: KindMissingMessageHeader}
}

// Parse builds a KindSchemaParse error wrapping msg.
func Parse(msg string) *Error {
	return &Error{Kind: KindSchemaParse, Message: msg}
}

// DuplicateTypeName builds a KindDuplicateTypeName error for name.
func DuplicateTypeName(name string) *Error {
	return &Error{Kind: KindDuplicateTypeName, Message: name}
}

// IsDataError reports whether err represents a business-level
// incompatibility (SchemaNotCompatible) as opposed to a structural
// error in the input schemas. The CLI uses this to pick an exit code.
func IsDataError(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == KindSchemaNotCompatible
}
