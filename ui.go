package main

import (
	"image/color"

	"golang.org/x/image/font/basicfont"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
)

var (
	white       = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	panelTint   = color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 200}
	buttonIdle  = color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255}
	buttonHover = color.NRGBA{R: 0x4a, G: 0x8c, B: 0x2a, A: 255}
)

var uiFace ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)

func newButton(label string, onClick func()) *widget.Button {
	idle := imageui.NewNineSliceColor(buttonIdle)
	hover := imageui.NewNineSliceColor(buttonHover)
	return widget.NewButton(
		widget.ButtonOpts.Image(&widget.ButtonImage{Idle: idle, Hover: hover, Pressed: hover}),
		widget.ButtonOpts.Text(label, &uiFace, &widget.ButtonTextColor{Idle: white}),
		widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter, Stretch: true})),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			onClick()
		}),
	)
}

// centeredPanel builds a vertical panel anchored in the middle of the screen
// and returns the root UI plus the panel to fill.
func centeredPanel(title string) (*ebitenui.UI, *widget.Container) {
	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(imageui.NewNineSliceColor(panelTint)),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(10),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 20, Bottom: 20, Left: 30, Right: 30}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: widget.AnchorLayoutPositionCenter}),
		),
	)
	panel.AddChild(widget.NewText(
		widget.TextOpts.Text(title, &uiFace, white),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
	))

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(panel)
	return &ebitenui.UI{Container: root}, panel
}

// NewMenuUI lists one start button per difficulty, easiest first.
func NewMenuUI(g *Game, names []string) *ebitenui.UI {
	ui, panel := centeredPanel("Run Cow Run!")
	for _, name := range names {
		panel.AddChild(newButton(name, func() {
			g.startRun(name)
		}))
	}
	return ui
}

// NewPauseUI builds the pause overlay with Resume and Menu buttons.
func NewPauseUI(g *Game) *ebitenui.UI {
	ui, panel := centeredPanel("Paused")
	panel.AddChild(newButton("Resume", func() {
		g.paused = false
	}))
	panel.AddChild(newButton("Menu", func() {
		g.paused = false
		g.toMenu()
	}))
	return ui
}
