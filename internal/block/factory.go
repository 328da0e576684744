package block

import (
	"math/rand"

	"blockarena/internal/geometry"
)

// Factory produces new random blocks. The RNG is injected so tests can make
// block selection deterministic (spec.md §9).
type Factory struct {
	Rng *rand.Rand
}

// NewFactory creates a Factory seeded from the given source.
func NewFactory(rng *rand.Rand) *Factory {
	return &Factory{Rng: rng}
}

// weightedKind is one of the four content buckets a new block can take,
// with a weight function of the current game score (spec.md §4.2). Index 0
// is Normal, 1 is Cursed (a variant of Normal, not its own SquareContent
// kind), 2 is Drill, 3 is Bomb.
type weightedKind struct {
	weight func(score int) float64
}

var kindWeights = []weightedKind{
	{func(int) float64 { return 1 }},
	{func(score int) float64 {
		w := float64(score)/1000 - 0.5
		if w < 0 {
			w = 0
		}
		return w / 20
	}},
	{func(score int) float64 { return float64(score) / 200000 }},
	{func(score int) float64 { return float64(score)/80000 + 0.01 }},
}

// New produces a new random block given the current score. Normal and
// Cursed share one bucket (cursed is a variant of normal, not a distinct
// SquareContent kind) and are split by rollCursed once that bucket wins.
func (f *Factory) New(score int) *FallingBlock {
	normalWeight := kindWeights[0].weight(score) + kindWeights[1].weight(score)
	drillWeight := kindWeights[2].weight(score)
	bombWeight := kindWeights[3].weight(score)
	total := normalWeight + drillWeight + bombWeight

	pick := f.Rng.Float64() * total
	switch {
	case pick < drillWeight:
		return f.buildDrill()
	case pick < drillWeight+bombWeight:
		return f.buildBomb()
	default:
		return f.buildNormal(f.rollCursed(score))
	}
}

// rollCursed re-rolls the cursed/normal split independently once Normal has
// already been chosen over drill/bomb, matching spec.md's weight table
// where cursed is itself one of the four top-level options. This keeps New
// simple: treat {normal, cursed} as one combined bucket sized
// weight(normal)+weight(cursed), then split inside it.
func (f *Factory) rollCursed(score int) bool {
	cursedWeight := kindWeights[1].weight(score)
	if cursedWeight <= 0 {
		return false
	}
	normalWeight := kindWeights[0].weight(score)
	return f.Rng.Float64()*(normalWeight+cursedWeight) >= normalWeight
}

func (f *Factory) buildNormal(cursed bool) *FallingBlock {
	shape := Tetrominoes[f.Rng.Intn(len(Tetrominoes))]
	cells := append([]geometry.PlayerPoint(nil), shape.Cells[:]...)

	if cursed {
		cells = f.growPentomino(cells)
	}

	fb := &FallingBlock{
		Content: NewNormal(shape.Color),
		Cells:   cells,
		Center:  geometry.PlayerPoint{},
	}
	fb.RotateMode = DetectRotateMode(fb.Cells, false)
	return fb
}

// growPentomino repeatedly picks a random existing cell and a random
// orthogonal neighbour not yet occupied, adding it, then recenters on the
// integer centroid so rotations still pivot sensibly (spec.md §4.2).
func (f *Factory) growPentomino(cells []geometry.PlayerPoint) []geometry.PlayerPoint {
	occupied := make(map[geometry.PlayerPoint]bool, len(cells)+1)
	for _, c := range cells {
		occupied[c] = true
	}

	neighbours := []geometry.PlayerPoint{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}}

	for attempts := 0; attempts < 64; attempts++ {
		base := cells[f.Rng.Intn(len(cells))]
		dir := neighbours[f.Rng.Intn(len(neighbours))]
		cand := geometry.PlayerPoint{X: base.X + dir.X, Y: base.Y + dir.Y}
		if occupied[cand] {
			continue
		}
		cells = append(cells, cand)
		occupied[cand] = true
		break
	}

	var sx, sy int32
	for _, c := range cells {
		sx += c.X
		sy += c.Y
	}
	n := int32(len(cells))
	cx, cy := sx/n, sy/n
	out := make([]geometry.PlayerPoint, len(cells))
	for i, c := range cells {
		out[i] = geometry.PlayerPoint{X: c.X - cx, Y: c.Y - cy}
	}
	return out
}

func (f *Factory) buildDrill() *FallingBlock {
	cells := make([]geometry.PlayerPoint, 0, 10)
	for x := int32(-1); x <= 0; x++ {
		for y := int32(-2); y <= 2; y++ {
			cells = append(cells, geometry.PlayerPoint{X: x, Y: y})
		}
	}
	fb := &FallingBlock{
		Content:    NewFallingDrill(),
		Cells:      cells,
		RotateMode: RotateNone,
	}
	return fb
}

func (f *Factory) buildBomb() *FallingBlock {
	timer := 15
	if f.Rng.Intn(5) == 0 {
		timer = 3
	}
	oShape := Tetrominoes[ShapeO]
	cells := append([]geometry.PlayerPoint(nil), oShape.Cells[:]...)
	fb := &FallingBlock{
		Content: NewBomb(timer),
		Cells:   cells,
	}
	fb.RotateMode = DetectRotateMode(fb.Cells, false)
	return fb
}
