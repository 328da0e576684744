// Package geometry implements the two coordinate systems the engine uses:
// PlayerPoint, expressed relative to a single player's own orientation, and
// WorldPoint, the shared arena coordinate every landed square lives in.
package geometry

// PlayerPoint is a coordinate in a player's own frame of reference. It is
// wide (int32) because Ring-mode blocks spawn far above the visible arena
// before they scroll into view.
type PlayerPoint struct {
	X, Y int32
}

// WorldPoint is a coordinate shared across all players in a game. It is
// narrow (int16) since every mode's arena fits comfortably in that range.
type WorldPoint struct {
	X, Y int16
}

// Add returns the sum of two PlayerPoints.
func (p PlayerPoint) Add(o PlayerPoint) PlayerPoint {
	return PlayerPoint{X: p.X + o.X, Y: p.Y + o.Y}
}

// Down directions a player can face. Traditional and Bottle players are
// always DirDown; Ring players may face any of the four.
var (
	DirDown  = PlayerPoint{X: 0, Y: 1}
	DirUp    = PlayerPoint{X: 0, Y: -1}
	DirLeft  = PlayerPoint{X: -1, Y: 0}
	DirRight = PlayerPoint{X: 1, Y: 0}
)

// Opposite returns the reverse of a unit down-direction.
func Opposite(d PlayerPoint) PlayerPoint {
	return PlayerPoint{X: -d.X, Y: -d.Y}
}

// ToWorld maps a player's local point into world coordinates given the
// player's current down-direction and the mode's origin offset.
//
// For Traditional and Bottle this is the identity transform, narrowed to
// int16. For Ring it normalises y by wrap-around (only when y>0, so a block
// spawning above the visible top at negative y is left untouched), then
// rotates by the down vector and recenters on origin. When downDir is
// (0,1) the rotation step is the identity, matching Traditional/Bottle.
func ToWorld(p PlayerPoint, downDir PlayerPoint, ringRadius int32, origin PlayerPoint) WorldPoint {
	x, y := p.X, p.Y

	if ringRadius > 0 {
		span := 2*ringRadius + 1
		if y > 0 {
			y = ((y+ringRadius)%span + span) % span
			y -= ringRadius
		}
		rx := x*downDir.Y + y*downDir.X
		ry := -x*downDir.X + y*downDir.Y
		x, y = rx, ry
		x += origin.X
		y += origin.Y
	}

	return WorldPoint{X: int16(x), Y: int16(y)}
}
