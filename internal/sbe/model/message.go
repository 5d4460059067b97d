package model

// Field is an ordered member of a Message or Group, identified by a
// stable numeric Id; Name may be changed across versions without
// affecting compatibility, since equality and hashing ignore the
// human-readable name on entities keyed by a stable id.
type Field struct {
	Name         string
	ID           int
	Type         string // name of the referenced Type/Composite/Enum/Set
	SinceVersion int
	Description  string // ignored
}

// Key returns the stable identity used for matching across schema
// versions.
func (f Field) Key() int { return f.ID }

// IsOptional always reports false: Fields do not carry a presence
// attribute of their own in this model. The comparator engine does not
// call it; it classifies an added or removed field by looking up the
// presence of the Type the field names in the schemas' VTables.
func (Field) IsOptional() bool { return false }

// Equal reports structural equality ignoring Name and Description.
func (f Field) Equal(o Field) bool {
	return f.ID == o.ID && f.Type == o.Type && f.SinceVersion == o.SinceVersion
}

// Data is a variable-length field (e.g. var-data group trailer),
// identified by a stable Id.
type Data struct {
	Name         string
	ID           int
	Type         string
	SinceVersion int
	Description  string // ignored
}

func (d Data) Key() int { return d.ID }

func (Data) IsOptional() bool { return false }

func (d Data) Equal(o Data) bool {
	return d.ID == o.ID && d.Type == o.Type && d.SinceVersion == o.SinceVersion
}

// Group is a repeating group within a Message, identified by a stable
// Id, carrying its own ordered Fields and Data.
type Group struct {
	Name          string
	ID            int
	DimensionType string
	Fields        []Field
	Data          []Data
	SinceVersion  int
	Description   string // ignored
}

func (g Group) Key() int { return g.ID }

func (Group) IsOptional() bool { return false }

// Equal reports structural equality ignoring Name and Description: same
// dimension type, same sinceVersion, and equal Field/Data bags.
func (g Group) Equal(o Group) bool {
	if g.ID != o.ID || g.DimensionType != o.DimensionType || g.SinceVersion != o.SinceVersion {
		return false
	}
	return equalFieldBag(g.Fields, o.Fields) && equalDataBag(g.Data, o.Data)
}

func equalFieldBag(a, b []Field) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, fa := range a {
		found := false
		for j, fb := range b {
			if !used[j] && fa.Equal(fb) {
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

func equalDataBag(a, b []Data) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, da := range a {
		found := false
		for j, db := range b {
			if !used[j] && da.Equal(db) {
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

// Message is a top-level, id-identified SBE message.
type Message struct {
	Name         string
	ID           int
	SemanticType string
	Fields       []Field
	Groups       []Group
	Data         []Data
	Description  string // ignored
}

// Key returns the stable identity used for matching across schema
// versions. Renaming a message (same Id, different Name) does not
// affect compatibility.
func (m Message) Key() int { return m.ID }

func (Message) IsOptional() bool { return false }
