package sites

import (
	"errors"

	"github.com/banshee-data/sitegrid/internal/grid"
	"github.com/banshee-data/sitegrid/internal/tag"
)

// marker is a minimal element whose payload is a label and a counter.
type marker struct {
	pos     grid.Pos
	label   string
	hits    int64
	readErr error
}

func (m *marker) Pos() grid.Pos { return m.pos }

func (m *marker) WritePayload(c *tag.Compound) {
	c.SetStr("label", m.label)
	c.SetInt("hits", m.hits)
}

func (m *marker) ReadPayload(c *tag.Compound) error {
	if m.readErr != nil {
		return m.readErr
	}
	m.label = c.Str("label")
	m.hits = c.Int("hits")
	return nil
}

var errCorrupt = errors.New("corrupt payload")

// fakeEnv is a world where every call is counted.
type fakeEnv struct {
	loaded    func(grid.Pos) bool
	site      string
	loadCalls int
	siteCalls int
}

func (e *fakeEnv) IsLoaded(at grid.Pos) bool {
	e.loadCalls++
	if e.loaded == nil {
		return true
	}
	return e.loaded(at)
}

func (e *fakeEnv) SiteAt(grid.Pos) string {
	e.siteCalls++
	return e.site
}

// countingPredicate accepts positions according to accept (default: all).
type countingPredicate struct {
	accept func(grid.Pos, string) bool
	calls  int
	last   grid.Pos
}

func (p *countingPredicate) Test(_ Environment[string], at grid.Pos, site string) bool {
	p.calls++
	p.last = at
	if p.accept == nil {
		return true
	}
	return p.accept(at, site)
}

// countingFactory builds markers; decline makes it refuse.
type countingFactory struct {
	decline  func(env Environment[string], pos grid.Pos) bool
	readErr  error
	calls    int
	envCalls int
}

func (f *countingFactory) create(env Environment[string], pos grid.Pos) (*marker, bool) {
	f.calls++
	if env != nil {
		f.envCalls++
	}
	if f.decline != nil && f.decline(env, pos) {
		return nil, false
	}
	return &marker{pos: pos, readErr: f.readErr}, true
}

// seed appends markers directly, bypassing placement.
func seed(r *Registry[*marker, string], positions ...grid.Pos) {
	for _, p := range positions {
		r.elements = append(r.elements, &marker{pos: p, label: p.String()})
	}
}
