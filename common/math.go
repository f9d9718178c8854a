package common

import "math"

const (
	// TileSize is the edge length of one grid tile in world pixels.
	TileSize = 32
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// AngleBetween returns the bearing in radians from (x1, y1) to (x2, y2).
func AngleBetween(x1, y1, x2, y2 float64) float64 {
	return math.Atan2(y2-y1, x2-x1)
}

func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

// Heading returns the velocity vector of length speed along angle.
func Heading(angle, speed float64) (vx, vy float64) {
	return math.Cos(angle) * speed, math.Sin(angle) * speed
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
