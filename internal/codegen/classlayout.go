package codegen

import "jlitec/internal/ir3"

const pointerSize = 4

// ClassLayout assigns byte offsets to a class's fields: non-Bool fields
// first (4 bytes each), then every Bool field packed one byte apiece,
// with the total rounded up to a 4-byte multiple (the packed class layout rule). Grounded
// on cgstate.py's CGClass.
type ClassLayout struct {
	Name      string
	offsets   map[string]int
	types     map[string]string
	TotalSize int
}

// BuildClassLayouts computes a ClassLayout for every class in the
// program, keyed by class name.
func BuildClassLayouts(classes []ir3.ClassDefn) map[string]*ClassLayout {
	out := make(map[string]*ClassLayout, len(classes))
	for _, c := range classes {
		out[c.Name] = buildClassLayout(c)
	}
	return out
}

func buildClassLayout(c ir3.ClassDefn) *ClassLayout {
	layout := &ClassLayout{
		Name:    c.Name,
		offsets: map[string]int{},
		types:   map[string]string{},
	}

	offset := 0
	for _, f := range c.Fields {
		if f.Type == "Bool" {
			continue
		}
		layout.offsets[f.Name] = offset
		layout.types[f.Name] = f.Type
		offset += pointerSize
	}
	for _, f := range c.Fields {
		if f.Type != "Bool" {
			continue
		}
		layout.offsets[f.Name] = offset
		layout.types[f.Name] = f.Type
		offset++
	}

	layout.TotalSize = pointerSize * ((offset + pointerSize - 1) / pointerSize)
	if layout.TotalSize == 0 {
		layout.TotalSize = pointerSize
	}
	return layout
}

func (c *ClassLayout) FieldOffset(field string) int { return c.offsets[field] }

func (c *ClassLayout) IsBoolField(field string) bool { return c.types[field] == "Bool" }

// FieldSize returns 1 for a Bool field and 4 for everything else, matching
// the packed layout buildClassLayout assigns above.
func (c *ClassLayout) FieldSize(field string) int {
	if c.types[field] == "Bool" {
		return 1
	}
	return 4
}
