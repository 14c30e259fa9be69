package effects

import (
	"fmt"

	"github.com/banshee-data/sitegrid/internal/grid"
	"github.com/banshee-data/sitegrid/internal/sites"
	"github.com/banshee-data/sitegrid/internal/tag"
	"github.com/banshee-data/sitegrid/internal/world"
)

// GrowthMaxStage is the stage at which a growth site is harvested.
const GrowthMaxStage = 3

// Growth is a plant-like site on an exposed grass block.
type Growth struct {
	pos   grid.Pos
	Stage int64
}

func (g *Growth) Pos() grid.Pos { return g.pos }

func (g *Growth) WritePayload(c *tag.Compound) { c.SetInt("stage", g.Stage) }

func (g *Growth) ReadPayload(c *tag.Compound) error {
	stage := c.Int("stage")
	if stage < 0 || stage > GrowthMaxStage {
		return fmt.Errorf("growth stage %d out of range [0, %d]", stage, GrowthMaxStage)
	}
	g.Stage = stage
	return nil
}

// NewGrowth is the growth factory. It never declines.
func NewGrowth(_ sites.Environment[world.Block], pos grid.Pos) (*Growth, bool) {
	return &Growth{pos: pos}, true
}

// GrowthVariant grows on exposed grass and is harvested at GrowthMaxStage.
func GrowthVariant() Variant[*Growth] {
	return Variant[*Growth]{
		Kind:     KindGrowth,
		Verifier: world.Exposed(world.Grass),
		Factory:  NewGrowth,
		Pulse: func(g *Growth) bool {
			g.Stage++
			return g.Stage >= GrowthMaxStage
		},
	}
}
