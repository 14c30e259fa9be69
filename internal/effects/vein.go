package effects

import (
	"github.com/banshee-data/sitegrid/internal/grid"
	"github.com/banshee-data/sitegrid/internal/sites"
	"github.com/banshee-data/sitegrid/internal/tag"
	"github.com/banshee-data/sitegrid/internal/world"
)

// VeinYield is how many pulses a vein gives before it is exhausted.
const VeinYield = 4

// Vein is an ore site. Its ore type is read from the world on creation.
type Vein struct {
	pos   grid.Pos
	Ore   string
	Mined int64
}

func (v *Vein) Pos() grid.Pos { return v.pos }

func (v *Vein) WritePayload(c *tag.Compound) {
	c.SetStr("ore", v.Ore)
	c.SetInt("mined", v.Mined)
}

func (v *Vein) ReadPayload(c *tag.Compound) error {
	if ore := c.Str("ore"); ore != "" {
		v.Ore = ore
	}
	v.Mined = c.Int("mined")
	return nil
}

// NewVein is the vein factory. It declines without a world, or when the
// block at pos is not ore.
func NewVein(env sites.Environment[world.Block], pos grid.Pos) (*Vein, bool) {
	if env == nil {
		return nil, false
	}
	b := env.SiteAt(pos)
	if b.ID != world.Iron && b.ID != world.Gold {
		return nil, false
	}
	return &Vein{pos: pos, Ore: b.ID}, true
}

// VeinVariant tracks iron and gold ore and exhausts each after VeinYield pulses.
func VeinVariant() Variant[*Vein] {
	return Variant[*Vein]{
		Kind:     KindVein,
		Verifier: world.Matches(world.Iron, world.Gold),
		Factory:  NewVein,
		Pulse: func(v *Vein) bool {
			v.Mined++
			return v.Mined >= VeinYield
		},
	}
}
