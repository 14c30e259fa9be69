package tag

import (
	"iter"

	"github.com/banshee-data/sitegrid/internal/grid"
)

// Record keys used for every positioned entry.
const (
	KeyX    = "x"
	KeyY    = "y"
	KeyZ    = "z"
	KeyData = "data"
)

// RecordList is an ordered list of positioned records, each a block holding
// x/y/z and a nested "data" payload block.
type RecordList struct {
	records []*Compound
}

// NewRecordList wraps an existing list of record blocks, e.g. one read back
// from a Compound.
func NewRecordList(records []*Compound) *RecordList {
	return &RecordList{records: records}
}

// Append adds one record at the end of the list.
func (l *RecordList) Append(pos grid.Pos, payload *Compound) {
	rec := NewCompound()
	WritePos(rec, pos)
	if payload == nil {
		payload = NewCompound()
	}
	rec.SetCompound(KeyData, payload)
	l.records = append(l.records, rec)
}

// Records yields (position, payload) pairs in list order.
func (l *RecordList) Records() iter.Seq2[grid.Pos, *Compound] {
	return func(yield func(grid.Pos, *Compound) bool) {
		for _, rec := range l.records {
			if rec == nil {
				continue
			}
			if !yield(ReadPos(rec), rec.Compound(KeyData)) {
				return
			}
		}
	}
}

func (l *RecordList) Len() int { return len(l.records) }

// Compounds returns the underlying record blocks.
func (l *RecordList) Compounds() []*Compound { return l.records }

// WritePos stores pos under the x/y/z keys of c.
func WritePos(c *Compound, pos grid.Pos) {
	c.SetInt(KeyX, int64(pos.X))
	c.SetInt(KeyY, int64(pos.Y))
	c.SetInt(KeyZ, int64(pos.Z))
}

// ReadPos reads the x/y/z keys of c.
func ReadPos(c *Compound) grid.Pos {
	return grid.Pos{X: int(c.Int(KeyX)), Y: int(c.Int(KeyY)), Z: int(c.Int(KeyZ))}
}
