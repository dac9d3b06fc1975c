package viewer

import "github.com/Garsondee/Snipe-Slash/internal/game"

// camera maps the arena's ground plane (x, z) onto the playfield. -Z points
// up the screen, so enemies in front of the player appear above it.
type camera struct {
	cx, cz float64 // world point at the viewport centre
	ppm    float64 // pixels per metre
	offX   int     // playfield origin on screen
	offY   int
	w, h   int // playfield size in pixels
}

func (c camera) toScreen(v game.Vec3) (float32, float32) {
	sx := float64(c.offX) + float64(c.w)/2 + (v.X-c.cx)*c.ppm
	sy := float64(c.offY) + float64(c.h)/2 + (v.Z-c.cz)*c.ppm
	return float32(sx), float32(sy)
}

func (c camera) toWorld(sx, sy int) (x, z float64) {
	x = c.cx + (float64(sx-c.offX)-float64(c.w)/2)/c.ppm
	z = c.cz + (float64(sy-c.offY)-float64(c.h)/2)/c.ppm
	return x, z
}

func (c camera) contains(sx, sy int) bool {
	return sx >= c.offX && sx < c.offX+c.w && sy >= c.offY && sy < c.offY+c.h
}

// aimPoint turns a cursor position into a world target. The height snaps to
// the enemy nearest the cursor when one is within snap metres, otherwise it
// stays level with the head.
func aimPoint(x, z float64, head game.Vec3, enemies []*game.Enemy, snap float64) game.Vec3 {
	p := game.Vec3{X: x, Y: head.Y, Z: z}
	best := snap
	for _, e := range enemies {
		ep := e.Position()
		d := game.Vec3{X: ep.X, Z: ep.Z}.Dist(game.Vec3{X: x, Z: z})
		if d < best {
			best = d
			p.Y = ep.Y
		}
	}
	return p
}
