// Package tag is the structured-tag I/O substrate used to persist site
// registries: a typed keyed block (Compound), ordered record lists, and a
// compressed byte encoding of both.
package tag

import "maps"

// Compound is a keyed block of typed values. Missing keys read as the zero
// value; nested blocks read as empty blocks. The zero value is ready to use.
type Compound struct {
	Ints      map[string]int64
	Floats    map[string]float64
	Strings   map[string]string
	Bytes     map[string][]byte
	Compounds map[string]*Compound
	Lists     map[string][]*Compound
}

// NewCompound returns an empty block.
func NewCompound() *Compound { return &Compound{} }

func (c *Compound) SetInt(key string, v int64) {
	if c.Ints == nil {
		c.Ints = make(map[string]int64)
	}
	c.Ints[key] = v
}

func (c *Compound) Int(key string) int64 { return c.Ints[key] }

func (c *Compound) SetFloat(key string, v float64) {
	if c.Floats == nil {
		c.Floats = make(map[string]float64)
	}
	c.Floats[key] = v
}

func (c *Compound) Float(key string) float64 { return c.Floats[key] }

func (c *Compound) SetStr(key, v string) {
	if c.Strings == nil {
		c.Strings = make(map[string]string)
	}
	c.Strings[key] = v
}

func (c *Compound) Str(key string) string { return c.Strings[key] }

// SetBlob stores a copy of v.
func (c *Compound) SetBlob(key string, v []byte) {
	if c.Bytes == nil {
		c.Bytes = make(map[string][]byte)
	}
	c.Bytes[key] = append([]byte(nil), v...)
}

func (c *Compound) Blob(key string) []byte { return c.Bytes[key] }

// SetCompound stores v under key; nil is stored as an empty block.
func (c *Compound) SetCompound(key string, v *Compound) {
	if v == nil {
		v = NewCompound()
	}
	if c.Compounds == nil {
		c.Compounds = make(map[string]*Compound)
	}
	c.Compounds[key] = v
}

// Compound returns the nested block under key, or a fresh empty block.
func (c *Compound) Compound(key string) *Compound {
	if v, ok := c.Compounds[key]; ok && v != nil {
		return v
	}
	return NewCompound()
}

// SetList stores v under key; nil entries are replaced by empty blocks.
func (c *Compound) SetList(key string, v []*Compound) {
	if c.Lists == nil {
		c.Lists = make(map[string][]*Compound)
	}
	for i := range v {
		if v[i] == nil {
			v[i] = NewCompound()
		}
	}
	c.Lists[key] = v
}

func (c *Compound) List(key string) []*Compound { return c.Lists[key] }

// Has reports whether any value of any type is stored under key.
func (c *Compound) Has(key string) bool {
	if _, ok := c.Ints[key]; ok {
		return true
	}
	if _, ok := c.Floats[key]; ok {
		return true
	}
	if _, ok := c.Strings[key]; ok {
		return true
	}
	if _, ok := c.Bytes[key]; ok {
		return true
	}
	if _, ok := c.Compounds[key]; ok {
		return true
	}
	_, ok := c.Lists[key]
	return ok
}

// Len returns the number of stored keys across all types.
func (c *Compound) Len() int {
	return len(c.Ints) + len(c.Floats) + len(c.Strings) + len(c.Bytes) + len(c.Compounds) + len(c.Lists)
}

// Clone returns a deep copy of c.
func (c *Compound) Clone() *Compound {
	if c == nil {
		return nil
	}
	out := &Compound{
		Ints:    maps.Clone(c.Ints),
		Floats:  maps.Clone(c.Floats),
		Strings: maps.Clone(c.Strings),
	}
	for k, v := range c.Bytes {
		out.SetBlob(k, v)
	}
	for k, v := range c.Compounds {
		out.SetCompound(k, v.Clone())
	}
	for k, list := range c.Lists {
		cp := make([]*Compound, len(list))
		for i, v := range list {
			cp[i] = v.Clone()
		}
		out.SetList(k, cp)
	}
	return out
}
