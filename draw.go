package main

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/milk9111/castlechase/common"
	"github.com/milk9111/castlechase/ecs"
	"github.com/milk9111/castlechase/grid"
	"github.com/milk9111/castlechase/level"
)

func rgb(hex uint32) color.RGBA {
	return color.RGBA{R: uint8(hex >> 16), G: uint8(hex >> 8), B: uint8(hex), A: 0xff}
}

var (
	colGrass      = rgb(0x4a8c2a)
	colGrassAlt   = rgb(0x3d7a22)
	colTree       = rgb(0x2d6b1a)
	colTreeTrunk  = rgb(0x8b5e3c)
	colRock       = rgb(0x888888)
	colRockDark   = rgb(0x666666)
	colCow        = rgb(0xffffff)
	colCowSpots   = rgb(0x222222)
	colKnight     = rgb(0xcc2222)
	colArmor      = rgb(0x888888)
	colCastleWall = rgb(0x8a7d6b)
	colCastleRoof = rgb(0x7a4a3a)
	colTurret     = rgb(0x9a8d7b)
	colGate       = rgb(0x5c4033)
	colGateBars   = rgb(0x333333)
	colBridge     = rgb(0x8b6914)
	colBridgeDark = rgb(0x6b4e0e)
	colKey        = rgb(0xffd700)
	colKeyBorder  = rgb(0x222222)
	colDragon     = rgb(0x2d8c2a)
	colDragonEye  = rgb(0xff0000)
	colFireball   = rgb(0xff4500)
	colFireCore   = rgb(0xffdd00)
	colArenaFloor = rgb(0x333333)
	colArenaWall  = rgb(0x555555)
	colBomb       = rgb(0x111111)
	colBombFuse   = rgb(0xff6600)
	colPath       = color.RGBA{R: 0xff, G: 0xff, B: 0x00, A: 0x90}
)

func fillRect(dst *ebiten.Image, x, y, w, h float64, c color.Color) {
	vector.DrawFilledRect(dst, float32(x), float32(y), float32(w), float32(h), c, false)
}

func fillCircle(dst *ebiten.Image, x, y, r float64, c color.Color) {
	vector.DrawFilledCircle(dst, float32(x), float32(y), float32(r), c, true)
}

// facing draws a short stroke from the body centre along its rotation.
func facing(dst *ebiten.Image, x, y, r, rot float64, c color.Color) {
	ex, ey := x+math.Cos(rot)*r, y+math.Sin(rot)*r
	vector.StrokeLine(dst, float32(x), float32(y), float32(ex), float32(ey), 3, c, true)
}

// drawText prints s with its top-left at (x, y), scaled up from the 7x13
// bitmap face.
func drawText(dst *ebiten.Image, s string, x, y, scale float64, c color.Color) {
	op := &ebtext.DrawOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	ebtext.Draw(dst, s, uiFace, op)
}

// drawTextCentered prints s centred horizontally on cx.
func drawTextCentered(dst *ebiten.Image, s string, cx, y, scale float64, c color.Color) {
	w, _ := ebtext.Measure(s, uiFace, 0)
	drawText(dst, s, cx-w*scale/2, y, scale, c)
}

func drawTile(dst *ebiten.Image, k grid.TileKind, c grid.Coord, x, y float64) {
	ts := float64(common.TileSize)
	switch k {
	case grid.Grass:
		if (c.Col+c.Row)%2 == 0 {
			fillRect(dst, x, y, ts, ts, colGrass)
		} else {
			fillRect(dst, x, y, ts, ts, colGrassAlt)
		}
	case grid.Tree:
		fillRect(dst, x, y, ts, ts, colGrass)
		fillRect(dst, x+ts/2-3, y+ts/2, 6, ts/2-2, colTreeTrunk)
		fillCircle(dst, x+ts/2, y+ts/2-2, ts/2-3, colTree)
	case grid.Rock:
		fillRect(dst, x, y, ts, ts, colGrass)
		fillCircle(dst, x+ts/2, y+ts/2, ts/2-2, colRockDark)
		fillCircle(dst, x+ts/2-2, y+ts/2-2, ts/2-6, colRock)
	case grid.CastleWall:
		fillRect(dst, x, y, ts, ts, colCastleWall)
		vector.StrokeRect(dst, float32(x), float32(y), float32(ts), float32(ts), 1, colCastleRoof, false)
	case grid.CastleRoof:
		fillRect(dst, x, y, ts, ts, colCastleRoof)
	case grid.Turret:
		fillRect(dst, x, y, ts, ts, colCastleWall)
		fillCircle(dst, x+ts/2, y+ts/2, ts/2, colTurret)
	case grid.Gate:
		fillRect(dst, x, y, ts, ts, colGate)
		for i := 1; i < 4; i++ {
			fillRect(dst, x+float64(i)*ts/4-1, y, 2, ts, colGateBars)
		}
	case grid.Drawbridge:
		fillRect(dst, x, y, ts, ts, colBridge)
		for i := 1; i < 4; i++ {
			fillRect(dst, x, y+float64(i)*ts/4-1, ts, 2, colBridgeDark)
		}
	}
}

func drawCow(dst *ebiten.Image, k *ecs.Kinematic, ox, oy float64) {
	x, y := k.X-ox, k.Y-oy
	fillCircle(dst, x, y, level.PlayerRadius, colCow)
	fillCircle(dst, x-4, y-3, 4, colCowSpots)
	fillCircle(dst, x+5, y+4, 3, colCowSpots)
	facing(dst, x, y, level.PlayerRadius+3, k.Rotation, colCowSpots)
}

func drawOverworld(dst *ebiten.Image, o *level.Overworld, cam *Camera, debug bool) {
	ox, oy := cam.ViewTopLeft()
	ts := float64(common.TileSize)
	m := o.Map()

	col0, row0 := int(math.Floor(ox/ts)), int(math.Floor(oy/ts))
	cols, rows := int(screenWidth/ts)+2, int(screenHeight/ts)+2
	for row := row0; row < row0+rows; row++ {
		for col := col0; col < col0+cols; col++ {
			c := grid.Coord{Col: col, Row: row}
			if !m.In(c) {
				continue
			}
			drawTile(dst, m.At(c), c, float64(col)*ts-ox, float64(row)*ts-oy)
		}
	}

	w := o.World()
	ecs.ForEachKind(w, ecs.KindKey, func(_ ecs.Entity, k *ecs.Kinematic) {
		fillCircle(dst, k.X-ox, k.Y-oy, level.KeyRadius-4, colKeyBorder)
		fillCircle(dst, k.X-ox, k.Y-oy, level.KeyRadius-6, colKey)
	})
	ecs.ForEachKind(w, ecs.KindKnight, func(_ ecs.Entity, k *ecs.Kinematic) {
		fillCircle(dst, k.X-ox, k.Y-oy, level.KnightRadius, colKnight)
		fillCircle(dst, k.X-ox, k.Y-oy, level.KnightRadius-5, colArmor)
		facing(dst, k.X-ox, k.Y-oy, level.KnightRadius+4, k.Rotation, colArmor)
	})
	drawCow(dst, o.Player(), ox, oy)

	if debug {
		for _, agent := range o.Agents() {
			path := agent.Path()
			for i := 1; i < len(path); i++ {
				a, b := path[i-1], path[i]
				vector.StrokeLine(dst, float32(a.X-ox), float32(a.Y-oy), float32(b.X-ox), float32(b.Y-oy), 2, colPath, false)
			}
		}
		o.Space().DebugDraw(&chipmunkDrawer{screen: dst, ox: ox, oy: oy})
	}

	hud := fmt.Sprintf("Keys: %d/%d   Time: %ds", o.KeysCollected(), o.KeysTotal(), o.Score())
	if m.GateOpen() {
		hud += "   The gate is open!"
	}
	drawText(dst, hud, 16, 16, 2, white)
	if debug {
		drawText(dst, fmt.Sprintf("seed %d (C to copy)  knights %d  pending paths %d", o.Seed(), o.KnightCount(), o.Planner().Pending()), 16, 48, 1, white)
	}
}

// arenaOrigin centres the arena on the screen.
func arenaOrigin() (float64, float64) {
	return (screenWidth - level.ArenaWidth) / 2, (screenHeight - level.ArenaHeight) / 2
}

func drawArena(dst *ebiten.Image, a *level.Arena, debug bool) {
	ax, ay := arenaOrigin()
	ox, oy := -ax, -ay
	wt := level.WallThickness

	fillRect(dst, ax, ay, level.ArenaWidth, level.ArenaHeight, colArenaWall)
	fillRect(dst, ax+wt, ay+wt, level.ArenaWidth-2*wt, level.ArenaHeight-2*wt, colArenaFloor)

	if x, y, ok := a.Bomb(); ok {
		fillCircle(dst, x-ox, y-oy, level.BombRadius, colBomb)
		fillRect(dst, x-ox-1.5, y-oy-level.BombRadius-7, 3, 8, colBombFuse)
	}

	w := a.World()
	ecs.ForEachKind(w, ecs.KindFireball, func(_ ecs.Entity, k *ecs.Kinematic) {
		fillCircle(dst, k.X-ox, k.Y-oy, level.FireballRadius, colFireball)
		fillCircle(dst, k.X-ox, k.Y-oy, level.FireballRadius/2, colFireCore)
	})

	enc := a.Encounter()
	d := a.Dragon()
	body := color.Color(colDragon)
	if enc.Flashing() {
		body = white
	}
	fillCircle(dst, d.X-ox, d.Y-oy, level.DragonRadius, body)
	ex, ey := common.Heading(d.Rotation, level.DragonRadius*0.6)
	fillCircle(dst, d.X-ox+ex, d.Y-oy+ey, 4, colDragonEye)

	drawCow(dst, a.Player(), ox, oy)

	if debug {
		a.Space().DebugDraw(&chipmunkDrawer{screen: dst, ox: ox, oy: oy})
		drawText(dst, fmt.Sprintf("phase %s  %.1fs  (1-6 to force)", enc.Phase(), enc.Elapsed().Seconds()), 16, 48, 1, white)
	}
	drawText(dst, fmt.Sprintf("Bombs: %d/%d", a.BombsCollected(), a.BombsToWin()), 16, 16, 2, white)
}

func drawGameOver(dst *ebiten.Image, r result) {
	cx := screenWidth / 2.0
	y := screenHeight / 3.0
	if r.victory {
		drawTextCentered(dst, "VICTORY!", cx, y-40, 5, colKey)
		drawTextCentered(dst, "The dragon is defeated!", cx, y+30, 2, white)
	} else {
		drawTextCentered(dst, "Game Over!", cx, y-20, 5, rgb(0xff4444))
	}
	drawTextCentered(dst, fmt.Sprintf("Survived: %ds", r.score), cx, screenHeight/2.0, 3, white)
	drawTextCentered(dst, "Press SPACE to Continue", cx, screenHeight/2.0+80, 2, rgb(0xcccccc))
}
