package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const stickDeadZone = 0.3

// Input holds the per-frame input state.
type Input struct {
	// MoveX and MoveY are -1, 0 or +1.
	MoveX float64
	MoveY float64
	// ConfirmPressed is true on the frame Space, Enter or the gamepad's
	// primary button was pressed.
	ConfirmPressed bool
	// PausePressed is true on the frame Escape or Start was pressed.
	PausePressed bool

	// debug keys
	CopySeedPressed bool
	OverlayPressed  bool
	// ForcePhase is 1..6 when a number key was pressed this frame, else 0.
	ForcePhase int
}

func NewInput() *Input {
	return &Input{}
}

var phaseKeys = [...]ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5, ebiten.Key6}

// Update polls keyboard and the first gamepad.
func (i *Input) Update() {
	var moveX, moveY float64
	// Left wins over right and up over down, as on a d-pad.
	switch {
	case ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyLeft):
		moveX = -1
	case ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyRight):
		moveX = 1
	}
	switch {
	case ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyUp):
		moveY = -1
	case ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyDown):
		moveY = 1
	}

	var gpConfirm, gpPause bool
	if ids := ebiten.GamepadIDs(); len(ids) > 0 {
		gid := ids[0]
		lx := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickHorizontal)
		ly := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickVertical)
		if lx < -stickDeadZone {
			moveX = -1
		} else if lx > stickDeadZone {
			moveX = 1
		}
		if ly < -stickDeadZone {
			moveY = -1
		} else if ly > stickDeadZone {
			moveY = 1
		}
		gpConfirm = inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonRightBottom)
		gpPause = inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonCenterRight)
	}

	i.MoveX, i.MoveY = moveX, moveY
	i.ConfirmPressed = inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyEnter) || gpConfirm
	i.PausePressed = inpututil.IsKeyJustPressed(ebiten.KeyEscape) || gpPause

	i.CopySeedPressed = inpututil.IsKeyJustPressed(ebiten.KeyC)
	i.OverlayPressed = inpututil.IsKeyJustPressed(ebiten.KeyF3)
	i.ForcePhase = 0
	for n, k := range phaseKeys {
		if inpututil.IsKeyJustPressed(k) {
			i.ForcePhase = n + 1
			break
		}
	}
}
