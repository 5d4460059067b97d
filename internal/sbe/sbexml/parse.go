package sbexml

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"github.com/Polqt/sbeschema/internal/sbe/model"
	"github.com/Polqt/sbeschema/internal/sbe/sbeerr"
)

// Parse decodes an SBE messageSchema document into a model.Schema.
// Malformed XML or an unrecognised enumeration value is reported as
// a sbeerr.Parse error.
func Parse(data []byte) (model.Schema, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return model.Schema{}, sbeerr.Parse(err.Error())
	}

	root := doc.Root()
	if root == nil || root.Tag != "messageSchema" {
		return model.Schema{}, sbeerr.Parse("document has no messageSchema root element")
	}

	schema := model.Schema{
		Package:         root.SelectAttrValue("package", ""),
		SemanticVersion: root.SelectAttrValue("semanticVersion", ""),
		Description:     root.SelectAttrValue("description", ""),
	}

	if id := root.SelectAttrValue("id", ""); id != "" {
		n, err := strconv.Atoi(id)
		if err != nil {
			return model.Schema{}, sbeerr.Parse(fmt.Sprintf("invalid schema id %q", id))
		}
		schema.ID = n
	}

	if v := root.SelectAttrValue("version", ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return model.Schema{}, sbeerr.Parse(fmt.Sprintf("invalid schema version %q", v))
		}
		schema.Version = &n
	}

	bo, err := parseByteOrder(root.SelectAttrValue("byteOrder", ""))
	if err != nil {
		return model.Schema{}, err
	}
	schema.ByteOrder = bo

	for _, el := range root.ChildElements() {
		switch el.Tag {
		case "include":
			schema.Includes = append(schema.Includes, model.Include{Href: el.SelectAttrValue("href", "")})
		case "types":
			tb, err := parseTypesBlock(el)
			if err != nil {
				return model.Schema{}, err
			}
			schema.TypesBlocks = append(schema.TypesBlocks, tb)
		case "message":
			m, err := parseMessage(el)
			if err != nil {
				return model.Schema{}, err
			}
			schema.Messages = append(schema.Messages, m)
		}
	}

	return schema, nil
}

func parseByteOrder(s string) (model.ByteOrder, error) {
	switch s {
	case "", string(model.LittleEndian):
		return model.LittleEndian, nil
	case string(model.BigEndian):
		return model.BigEndian, nil
	default:
		return "", sbeerr.Parse(fmt.Sprintf("unknown byteOrder %q", s))
	}
}

func parsePrimitiveType(s string) (model.PrimitiveType, error) {
	switch model.PrimitiveType(s) {
	case model.Uint8, model.Int8, model.Uint16, model.Int16, model.Uint32, model.Int32,
		model.Uint64, model.Int64, model.Char, model.Float, model.Double:
		return model.PrimitiveType(s), nil
	default:
		return "", sbeerr.Parse(fmt.Sprintf("unknown primitiveType %q", s))
	}
}

func parsePresence(s string) (model.Presence, error) {
	switch s {
	case "":
		return model.Required, nil
	case string(model.Constant), string(model.Required), string(model.Optional):
		return model.Presence(s), nil
	default:
		return "", sbeerr.Parse(fmt.Sprintf("unknown presence %q", s))
	}
}

func parseCharacterEncoding(s string) (model.CharacterEncoding, error) {
	switch s {
	case "":
		return "", nil
	case string(model.ASCII):
		return model.ASCII, nil
	case "UTF-8", "UTF8":
		return model.UTF8, nil
	default:
		return "", sbeerr.Parse(fmt.Sprintf("unknown characterEncoding %q", s))
	}
}

func parseTypesBlock(el *etree.Element) (model.TypesBlock, error) {
	var tb model.TypesBlock
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "type":
			t, err := parseType(child)
			if err != nil {
				return model.TypesBlock{}, err
			}
			tb.Types = append(tb.Types, t)
		case "composite":
			c, err := parseComposite(child)
			if err != nil {
				return model.TypesBlock{}, err
			}
			tb.Composites = append(tb.Composites, c)
		case "enum":
			e, err := parseEnum(child)
			if err != nil {
				return model.TypesBlock{}, err
			}
			tb.Enums = append(tb.Enums, e)
		case "set":
			s, err := parseSet(child)
			if err != nil {
				return model.TypesBlock{}, err
			}
			tb.Sets = append(tb.Sets, s)
		}
	}
	return tb, nil
}

func parseType(el *etree.Element) (model.Type, error) {
	pt, err := parsePrimitiveType(el.SelectAttrValue("primitiveType", ""))
	if err != nil {
		return model.Type{}, err
	}
	presence, err := parsePresence(el.SelectAttrValue("presence", ""))
	if err != nil {
		return model.Type{}, err
	}
	enc, err := parseCharacterEncoding(el.SelectAttrValue("characterEncoding", ""))
	if err != nil {
		return model.Type{}, err
	}
	t := model.Type{
		Name:              el.SelectAttrValue("name", ""),
		PrimitiveType:     pt,
		MinValue:          el.SelectAttrValue("minValue", ""),
		MaxValue:          el.SelectAttrValue("maxValue", ""),
		NullValue:         el.SelectAttrValue("nullValue", ""),
		CharacterEncoding: enc,
		Presence:          presence,
		Description:       el.SelectAttrValue("description", ""),
		InlineValue:       el.Text(),
	}
	n, err := parseOptionalInt(el, "length")
	if err != nil {
		return model.Type{}, err
	}
	t.Length = n
	sv, err := parseOptionalInt(el, "sinceVersion")
	if err != nil {
		return model.Type{}, err
	}
	t.SinceVersion = sv
	return t, nil
}

func parseComposite(el *etree.Element) (model.Composite, error) {
	c := model.Composite{
		Name:        el.SelectAttrValue("name", ""),
		Description: el.SelectAttrValue("description", ""),
	}
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "type":
			t, err := parseType(child)
			if err != nil {
				return model.Composite{}, err
			}
			c.Types = append(c.Types, t)
		case "ref":
			r, err := parseRef(child)
			if err != nil {
				return model.Composite{}, err
			}
			c.Refs = append(c.Refs, r)
		}
	}
	return c, nil
}

func parseRef(el *etree.Element) (model.Ref, error) {
	presence, err := parsePresence(el.SelectAttrValue("presence", ""))
	if err != nil {
		return model.Ref{}, err
	}
	return model.Ref{
		Name:        el.SelectAttrValue("name", ""),
		RefType:     el.SelectAttrValue("type", ""),
		Presence:    presence,
		ValueRef:    el.SelectAttrValue("valueRef", ""),
		Description: el.SelectAttrValue("description", ""),
	}, nil
}

func parseEnum(el *etree.Element) (model.EnumType, error) {
	pt, err := parsePrimitiveType(el.SelectAttrValue("encodingType", ""))
	if err != nil {
		return model.EnumType{}, err
	}
	e := model.EnumType{
		Name:         el.SelectAttrValue("name", ""),
		EncodingType: pt,
		Description:  el.SelectAttrValue("description", ""),
	}
	for _, child := range el.ChildElements() {
		if child.Tag != "validValue" {
			continue
		}
		e.ValidValues = append(e.ValidValues, model.ValidValue{
			Name:        child.SelectAttrValue("name", ""),
			Value:       child.Text(),
			Description: child.SelectAttrValue("description", ""),
		})
	}
	return e, nil
}

func parseSet(el *etree.Element) (model.SetType, error) {
	pt, err := parsePrimitiveType(el.SelectAttrValue("encodingType", ""))
	if err != nil {
		return model.SetType{}, err
	}
	s := model.SetType{
		Name:         el.SelectAttrValue("name", ""),
		EncodingType: pt,
		Description:  el.SelectAttrValue("description", ""),
	}
	for _, child := range el.ChildElements() {
		if child.Tag != "choice" {
			continue
		}
		s.Choices = append(s.Choices, model.Choice{
			Name:        child.SelectAttrValue("name", ""),
			Value:       child.Text(),
			Description: child.SelectAttrValue("description", ""),
		})
	}
	return s, nil
}

func parseMessage(el *etree.Element) (model.Message, error) {
	id, err := parseRequiredInt(el, "id")
	if err != nil {
		return model.Message{}, err
	}
	m := model.Message{
		Name:         el.SelectAttrValue("name", ""),
		ID:           id,
		SemanticType: el.SelectAttrValue("semanticType", ""),
		Description:  el.SelectAttrValue("description", ""),
	}
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "field":
			f, err := parseField(child)
			if err != nil {
				return model.Message{}, err
			}
			m.Fields = append(m.Fields, f)
		case "group":
			g, err := parseGroup(child)
			if err != nil {
				return model.Message{}, err
			}
			m.Groups = append(m.Groups, g)
		case "data":
			d, err := parseData(child)
			if err != nil {
				return model.Message{}, err
			}
			m.Data = append(m.Data, d)
		}
	}
	return m, nil
}

func parseField(el *etree.Element) (model.Field, error) {
	id, err := parseRequiredInt(el, "id")
	if err != nil {
		return model.Field{}, err
	}
	sv, err := parseOptionalInt(el, "sinceVersion")
	if err != nil {
		return model.Field{}, err
	}
	return model.Field{
		Name:         el.SelectAttrValue("name", ""),
		ID:           id,
		Type:         el.SelectAttrValue("type", ""),
		SinceVersion: sv,
		Description:  el.SelectAttrValue("description", ""),
	}, nil
}

func parseData(el *etree.Element) (model.Data, error) {
	id, err := parseRequiredInt(el, "id")
	if err != nil {
		return model.Data{}, err
	}
	sv, err := parseOptionalInt(el, "sinceVersion")
	if err != nil {
		return model.Data{}, err
	}
	return model.Data{
		Name:         el.SelectAttrValue("name", ""),
		ID:           id,
		Type:         el.SelectAttrValue("type", ""),
		SinceVersion: sv,
		Description:  el.SelectAttrValue("description", ""),
	}, nil
}

func parseGroup(el *etree.Element) (model.Group, error) {
	id, err := parseRequiredInt(el, "id")
	if err != nil {
		return model.Group{}, err
	}
	sv, err := parseOptionalInt(el, "sinceVersion")
	if err != nil {
		return model.Group{}, err
	}
	g := model.Group{
		Name:          el.SelectAttrValue("name", ""),
		ID:            id,
		DimensionType: el.SelectAttrValue("dimensionType", "groupSizeEncoding"),
		SinceVersion:  sv,
		Description:   el.SelectAttrValue("description", ""),
	}
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "field":
			f, err := parseField(child)
			if err != nil {
				return model.Group{}, err
			}
			g.Fields = append(g.Fields, f)
		case "data":
			d, err := parseData(child)
			if err != nil {
				return model.Group{}, err
			}
			g.Data = append(g.Data, d)
		}
	}
	return g, nil
}

func parseRequiredInt(el *etree.Element, attr string) (int, error) {
	v := el.SelectAttrValue(attr, "")
	if v == "" {
		return 0, sbeerr.Parse(fmt.Sprintf("%s element missing required %q attribute", el.Tag, attr))
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, sbeerr.Parse(fmt.Sprintf("invalid %s %q on %s element", attr, v, el.Tag))
	}
	return n, nil
}

func parseOptionalInt(el *etree.Element, attr string) (int, error) {
	v := el.SelectAttrValue(attr, "")
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, sbeerr.Parse(fmt.Sprintf("invalid %s %q on %s element", attr, v, el.Tag))
	}
	return n, nil
}
