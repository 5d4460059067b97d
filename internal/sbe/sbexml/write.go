package sbexml

import (
	"strconv"

	"github.com/beevik/etree"

	"github.com/Polqt/sbeschema/internal/sbe/model"
)

// Write serializes schema back to an SBE messageSchema XML document.
// Round-tripping a parsed schema through Write then Parse yields a
// schema equal under model.Schema.Equal; description attributes are
// preserved where present but are not required to survive, since
// Equal ignores them.
func Write(schema model.Schema) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("messageSchema")
	setAttrIfNonEmpty(root, "package", schema.Package)
	if schema.ID != 0 {
		root.CreateAttr("id", strconv.Itoa(schema.ID))
	}
	if schema.Version != nil {
		root.CreateAttr("version", strconv.Itoa(*schema.Version))
	}
	setAttrIfNonEmpty(root, "semanticVersion", schema.SemanticVersion)
	setAttrIfNonEmpty(root, "description", schema.Description)
	if schema.ByteOrder != "" {
		root.CreateAttr("byteOrder", string(schema.ByteOrder))
	}

	for _, inc := range schema.Includes {
		root.CreateElement("include").CreateAttr("href", inc.Href)
	}
	for _, tb := range schema.TypesBlocks {
		writeTypesBlock(root, tb)
	}
	for _, m := range schema.Messages {
		writeMessage(root, m)
	}

	doc.Indent(2)
	return doc.WriteToBytes()
}

func setAttrIfNonEmpty(el *etree.Element, key, value string) {
	if value != "" {
		el.CreateAttr(key, value)
	}
}

func writeTypesBlock(parent *etree.Element, tb model.TypesBlock) {
	el := parent.CreateElement("types")
	for _, t := range tb.Types {
		writeType(el, t)
	}
	for _, c := range tb.Composites {
		writeComposite(el, c)
	}
	for _, e := range tb.Enums {
		writeEnum(el, e)
	}
	for _, s := range tb.Sets {
		writeSet(el, s)
	}
}

func writeType(parent *etree.Element, t model.Type) {
	el := parent.CreateElement("type")
	el.CreateAttr("name", t.Name)
	el.CreateAttr("primitiveType", string(t.PrimitiveType))
	if t.Length != 0 {
		el.CreateAttr("length", strconv.Itoa(t.Length))
	}
	setAttrIfNonEmpty(el, "minValue", t.MinValue)
	setAttrIfNonEmpty(el, "maxValue", t.MaxValue)
	setAttrIfNonEmpty(el, "nullValue", t.NullValue)
	if t.CharacterEncoding != "" {
		el.CreateAttr("characterEncoding", string(t.CharacterEncoding))
	}
	if t.Presence != "" {
		el.CreateAttr("presence", string(t.Presence))
	}
	if t.SinceVersion != 0 {
		el.CreateAttr("sinceVersion", strconv.Itoa(t.SinceVersion))
	}
	setAttrIfNonEmpty(el, "description", t.Description)
	if t.InlineValue != "" {
		el.SetText(t.InlineValue)
	}
}

func writeComposite(parent *etree.Element, c model.Composite) {
	el := parent.CreateElement("composite")
	el.CreateAttr("name", c.Name)
	setAttrIfNonEmpty(el, "description", c.Description)
	for _, t := range c.Types {
		writeType(el, t)
	}
	for _, r := range c.Refs {
		writeRef(el, r)
	}
}

func writeRef(parent *etree.Element, r model.Ref) {
	el := parent.CreateElement("ref")
	el.CreateAttr("name", r.Name)
	el.CreateAttr("type", r.RefType)
	if r.Presence != "" {
		el.CreateAttr("presence", string(r.Presence))
	}
	setAttrIfNonEmpty(el, "valueRef", r.ValueRef)
	setAttrIfNonEmpty(el, "description", r.Description)
}

func writeEnum(parent *etree.Element, e model.EnumType) {
	el := parent.CreateElement("enum")
	el.CreateAttr("name", e.Name)
	el.CreateAttr("encodingType", string(e.EncodingType))
	setAttrIfNonEmpty(el, "description", e.Description)
	for _, v := range e.ValidValues {
		vv := el.CreateElement("validValue")
		vv.CreateAttr("name", v.Name)
		setAttrIfNonEmpty(vv, "description", v.Description)
		vv.SetText(v.Value)
	}
}

func writeSet(parent *etree.Element, s model.SetType) {
	el := parent.CreateElement("set")
	el.CreateAttr("name", s.Name)
	el.CreateAttr("encodingType", string(s.EncodingType))
	setAttrIfNonEmpty(el, "description", s.Description)
	for _, c := range s.Choices {
		ch := el.CreateElement("choice")
		ch.CreateAttr("name", c.Name)
		setAttrIfNonEmpty(ch, "description", c.Description)
		ch.SetText(c.Value)
	}
}

func writeMessage(parent *etree.Element, m model.Message) {
	el := parent.CreateElement("message")
	el.CreateAttr("name", m.Name)
	el.CreateAttr("id", strconv.Itoa(m.ID))
	setAttrIfNonEmpty(el, "semanticType", m.SemanticType)
	setAttrIfNonEmpty(el, "description", m.Description)
	for _, f := range m.Fields {
		writeField(el, f)
	}
	for _, g := range m.Groups {
		writeGroup(el, g)
	}
	for _, d := range m.Data {
		writeData(el, d)
	}
}

func writeField(parent *etree.Element, f model.Field) {
	el := parent.CreateElement("field")
	el.CreateAttr("name", f.Name)
	el.CreateAttr("id", strconv.Itoa(f.ID))
	el.CreateAttr("type", f.Type)
	if f.SinceVersion != 0 {
		el.CreateAttr("sinceVersion", strconv.Itoa(f.SinceVersion))
	}
	setAttrIfNonEmpty(el, "description", f.Description)
}

func writeData(parent *etree.Element, d model.Data) {
	el := parent.CreateElement("data")
	el.CreateAttr("name", d.Name)
	el.CreateAttr("id", strconv.Itoa(d.ID))
	el.CreateAttr("type", d.Type)
	if d.SinceVersion != 0 {
		el.CreateAttr("sinceVersion", strconv.Itoa(d.SinceVersion))
	}
	setAttrIfNonEmpty(el, "description", d.Description)
}

func writeGroup(parent *etree.Element, g model.Group) {
	el := parent.CreateElement("group")
	el.CreateAttr("name", g.Name)
	el.CreateAttr("id", strconv.Itoa(g.ID))
	if g.DimensionType != "" {
		el.CreateAttr("dimensionType", g.DimensionType)
	}
	if g.SinceVersion != 0 {
		el.CreateAttr("sinceVersion", strconv.Itoa(g.SinceVersion))
	}
	setAttrIfNonEmpty(el, "description", g.Description)
	for _, f := range g.Fields {
		writeField(el, f)
	}
	for _, d := range g.Data {
		writeData(el, d)
	}
}
