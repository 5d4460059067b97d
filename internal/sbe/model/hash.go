package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Signature returns a stable, content-addressable hex digest of the
// schema: two schemas that are Equal always produce the same
// Signature, regardless of the declaration order of sibling types,
// composites, messages, or fields. Description attributes and
// id-keyed entities' Name fields are excluded, matching the Equal
// semantics in schema.go.
func (s Schema) Signature() string {
	var b strings.Builder
	fmt.Fprintf(&b, "pkg=%s;id=%d;semver=%s;byteOrder=%s;", s.Package, s.ID, s.SemanticVersion, s.ByteOrder)
	if s.Version != nil {
		fmt.Fprintf(&b, "version=%d;", *s.Version)
	} else {
		b.WriteString("version=none;")
	}

	types := append([]Type(nil), s.FlattenedTypes()...)
	sort.Slice(types, func(i, j int) bool { return types[i].Name < types[j].Name })
	for _, t := range types {
		fmt.Fprintf(&b, "type(%s,%s,%d,%s,%s,%s,%s,%d,%s);",
			t.Name, t.PrimitiveType, t.effectiveLength(), t.MinValue, t.MaxValue, t.NullValue,
			t.effectivePresence(), t.SinceVersion, t.InlineValue)
	}

	composites := allComposites(s)
	sort.Slice(composites, func(i, j int) bool { return composites[i].Name < composites[j].Name })
	for _, c := range composites {
		writeComposite(&b, c)
	}

	enums := append([]EnumType(nil), s.FlattenedEnums()...)
	sort.Slice(enums, func(i, j int) bool { return enums[i].Name < enums[j].Name })
	for _, e := range enums {
		writeEnum(&b, e)
	}

	sets := append([]SetType(nil), s.FlattenedSets()...)
	sort.Slice(sets, func(i, j int) bool { return sets[i].Name < sets[j].Name })
	for _, st := range sets {
		writeSet(&b, st)
	}

	messages := append([]Message(nil), s.Messages...)
	sort.Slice(messages, func(i, j int) bool { return messages[i].ID < messages[j].ID })
	for _, m := range messages {
		writeMessage(&b, m)
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func writeComposite(b *strings.Builder, c Composite) {
	fmt.Fprintf(b, "composite{name=%s;", c.Name)
	types := append([]Type(nil), c.Types...)
	sort.Slice(types, func(i, j int) bool { return types[i].Name < types[j].Name })
	for _, t := range types {
		fmt.Fprintf(b, "type(%s,%s,%d,%s,%s,%s,%s,%d,%s);",
			t.Name, t.PrimitiveType, t.effectiveLength(), t.MinValue, t.MaxValue, t.NullValue,
			t.effectivePresence(), t.SinceVersion, t.InlineValue)
	}
	refs := append([]Ref(nil), c.Refs...)
	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	for _, r := range refs {
		fmt.Fprintf(b, "ref(%s,%s,%s,%s);", r.Name, r.RefType, r.effectivePresence(), r.ValueRef)
	}
	b.WriteString("}")
}

func writeEnum(b *strings.Builder, e EnumType) {
	fmt.Fprintf(b, "enum{name=%s;encoding=%s;", e.Name, e.EncodingType)
	vv := append([]ValidValue(nil), e.ValidValues...)
	sort.Slice(vv, func(i, j int) bool { return vv[i].Name < vv[j].Name })
	for _, v := range vv {
		fmt.Fprintf(b, "vv(%s,%s);", v.Name, v.Value)
	}
	b.WriteString("}")
}

func writeSet(b *strings.Builder, s SetType) {
	fmt.Fprintf(b, "set{name=%s;encoding=%s;", s.Name, s.EncodingType)
	ch := append([]Choice(nil), s.Choices...)
	sort.Slice(ch, func(i, j int) bool { return ch[i].Name < ch[j].Name })
	for _, c := range ch {
		fmt.Fprintf(b, "choice(%s,%s);", c.Name, c.Value)
	}
	b.WriteString("}")
}

func writeMessage(b *strings.Builder, m Message) {
	fmt.Fprintf(b, "message{id=%d;semanticType=%s;", m.ID, m.SemanticType)
	fields := append([]Field(nil), m.Fields...)
	sort.Slice(fields, func(i, j int) bool { return fields[i].ID < fields[j].ID })
	for _, f := range fields {
		fmt.Fprintf(b, "field(%d,%s,%d);", f.ID, f.Type, f.SinceVersion)
	}
	groups := append([]Group(nil), m.Groups...)
	sort.Slice(groups, func(i, j int) bool { return groups[i].ID < groups[j].ID })
	for _, g := range groups {
		writeGroup(b, g)
	}
	data := append([]Data(nil), m.Data...)
	sort.Slice(data, func(i, j int) bool { return data[i].ID < data[j].ID })
	for _, d := range data {
		fmt.Fprintf(b, "data(%d,%s,%d);", d.ID, d.Type, d.SinceVersion)
	}
	b.WriteString("}")
}

func writeGroup(b *strings.Builder, g Group) {
	fmt.Fprintf(b, "group{id=%d;dimensionType=%s;sinceVersion=%d;", g.ID, g.DimensionType, g.SinceVersion)
	fields := append([]Field(nil), g.Fields...)
	sort.Slice(fields, func(i, j int) bool { return fields[i].ID < fields[j].ID })
	for _, f := range fields {
		fmt.Fprintf(b, "field(%d,%s,%d);", f.ID, f.Type, f.SinceVersion)
	}
	data := append([]Data(nil), g.Data...)
	sort.Slice(data, func(i, j int) bool { return data[i].ID < data[j].ID })
	for _, d := range data {
		fmt.Fprintf(b, "data(%d,%s,%d);", d.ID, d.Type, d.SinceVersion)
	}
	b.WriteString("}")
}
