// Package sbexml is the external deserializer/serializer boundary for
// the evolution core: it turns an SBE messageSchema XML document into
// an immutable model.Schema and back. Parse errors are reported as
// sbeerr.SchemaParse; the core never parses XML itself.
package sbexml
