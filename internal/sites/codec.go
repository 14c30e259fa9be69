package sites

import (
	"fmt"
	"iter"

	"github.com/banshee-data/sitegrid/internal/grid"
	"github.com/banshee-data/sitegrid/internal/monitoring"
	"github.com/banshee-data/sitegrid/internal/tag"
)

// KeyElements is the list key a registry persists its records under.
const KeyElements = "elements"

// RecordWriter receives one record per element, in order.
type RecordWriter interface {
	Append(pos grid.Pos, payload *tag.Compound)
}

// RecordReader yields persisted records in order.
type RecordReader interface {
	Records() iter.Seq2[grid.Pos, *tag.Compound]
}

// WriteRecords appends one record per element, each carrying the element's
// position and its serialized payload.
func (r *Registry[E, S]) WriteRecords(w RecordWriter) {
	for _, e := range r.elements {
		data := tag.NewCompound()
		e.WritePayload(data)
		w.Append(e.Pos(), data)
	}
}

// ReadRecords replaces the registry contents with the records from rd.
// Each element is rebuilt through the factory with no environment; records the
// factory declines are skipped. Records past capacity or repeating a position
// are dropped. A payload error empties the registry and is returned.
func (r *Registry[E, S]) ReadRecords(rd RecordReader) error {
	r.Clear()

	var declined, dropped int
	for pos, data := range rd.Records() {
		if len(r.elements) >= r.capacity || r.HasElement(pos) {
			dropped++
			continue
		}
		e, ok := r.factory(nil, pos)
		if !ok {
			declined++
			continue
		}
		if err := e.ReadPayload(data); err != nil {
			r.Clear()
			return fmt.Errorf("read payload at %s: %w", pos, err)
		}
		r.elements = append(r.elements, e)
	}
	if dropped > 0 {
		monitoring.Logf("[sites] dropped %d persisted records over capacity %d or duplicated", dropped, r.capacity)
	}
	if declined > 0 {
		monitoring.Logf("[sites] factory declined %d persisted records", declined)
	}
	return nil
}

// Write stores the registry under KeyElements in c.
func (r *Registry[E, S]) Write(c *tag.Compound) {
	list := &tag.RecordList{}
	r.WriteRecords(list)
	c.SetList(KeyElements, list.Compounds())
}

// Read replaces the registry contents with the list stored under KeyElements.
func (r *Registry[E, S]) Read(c *tag.Compound) error {
	return r.ReadRecords(tag.NewRecordList(c.List(KeyElements)))
}
