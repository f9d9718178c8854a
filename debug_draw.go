package main

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
)

// chipmunkDrawer renders chipmunk shapes for debugging, shifted by the
// camera's top-left.
type chipmunkDrawer struct {
	screen *ebiten.Image
	ox, oy float64
}

func (d *chipmunkDrawer) line(a, b cp.Vector, c color.Color) {
	vector.StrokeLine(d.screen, float32(a.X-d.ox), float32(a.Y-d.oy), float32(b.X-d.ox), float32(b.Y-d.oy), 1, c, false)
}

func (d *chipmunkDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	c := fcolorToRGBA(outline)
	vector.StrokeCircle(d.screen, float32(pos.X-d.ox), float32(pos.Y-d.oy), float32(radius), 1, c, false)
	// angle indicator
	d.line(pos, cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}, c)
}

func (d *chipmunkDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.line(a, b, fcolorToRGBA(fill))
}

func (d *chipmunkDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.line(a, b, fcolorToRGBA(outline))
	if radius > 0 {
		d.DrawCircle(a, 0, radius, outline, fill, data)
		d.DrawCircle(b, 0, radius, outline, fill, data)
	}
}

func (d *chipmunkDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	c := fcolorToRGBA(outline)
	for i := 0; i < count; i++ {
		d.line(verts[i], verts[(i+1)%count], c)
	}
}

func (d *chipmunkDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	c := fcolorToRGBA(fill)
	l := size / 2
	d.line(cp.Vector{X: pos.X - l, Y: pos.Y}, cp.Vector{X: pos.X + l, Y: pos.Y}, c)
	d.line(cp.Vector{X: pos.X, Y: pos.Y - l}, cp.Vector{X: pos.X, Y: pos.Y + l}, c)
}

func (d *chipmunkDrawer) Flags() uint {
	return cp.DRAW_SHAPES
}

func (d *chipmunkDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1.0, B: 0.2, A: 1.0}
}

func (d *chipmunkDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	if shape == nil {
		return cp.FColor{R: 1, G: 1, B: 1, A: 1}
	}
	if shape.Sensor() {
		return cp.FColor{R: 1.0, G: 0.85, B: 0.2, A: 1.0}
	}
	if shape.Body() != nil && shape.Body().GetType() == cp.BODY_STATIC {
		return cp.FColor{R: 0.4, G: 0.7, B: 1.0, A: 1.0}
	}
	return cp.FColor{R: 0.9, G: 0.4, B: 0.9, A: 1.0}
}

func (d *chipmunkDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 0.7, G: 0.7, B: 0.7, A: 1.0}
}

func (d *chipmunkDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1.0, G: 0.1, B: 0.1, A: 1.0}
}

func (d *chipmunkDrawer) Data() interface{} {
	return nil
}

func fcolorToRGBA(c cp.FColor) color.RGBA {
	clamp := func(v float32) uint8 {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		return uint8(v * 255)
	}
	return color.RGBA{R: clamp(c.R), G: clamp(c.G), B: clamp(c.B), A: clamp(c.A)}
}
