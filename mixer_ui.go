package main

import (
	"fmt"
	"image/color"

	"github.com/milk9111/soundpool/common"
	"github.com/milk9111/soundpool/prefabs"
	"github.com/milk9111/soundpool/sound"
	"golang.org/x/image/font/basicfont"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
)

const mixerWidth = 360

// mixerView holds the widgets Refresh rewrites every tick.
type mixerView struct {
	header   *widget.Text
	rows     []*widget.Text
	loops    *widget.Text
	status   *widget.Text
	pauseBtn *widget.Button
}

// NewMixerUI builds the side panel listing every pool channel and loop slot,
// with buttons for the manager's diagnostic operations.
func NewMixerUI(g *Game, colors prefabs.MixerSpec) (*ebitenui.UI, *mixerView) {
	panelImg := imageui.NewNineSliceColor(colors.Background.Or(color.NRGBA{A: 200}))
	btnImg := imageui.NewNineSliceColor(colors.Accent.Or(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255}))
	textColor := colors.Text.Or(color.White)

	var face ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)
	btnTextColor := &widget.ButtonTextColor{Idle: color.NRGBA{A: 0xff}}

	text := func(label string) *widget.Text {
		return widget.NewText(widget.TextOpts.Text(label, &face, textColor))
	}
	button := func(label string, onClick func()) *widget.Button {
		return widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Pressed: btnImg}),
			widget.ButtonOpts.Text(label, &face, btnTextColor),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				onClick()
			}),
		)
	}

	view := &mixerView{
		header: text("Pool"),
		loops:  text(""),
		status: text(""),
	}

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(6),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 16, Bottom: 16, Left: 16, Right: 16}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(mixerWidth, common.BaseHeight),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionEnd, VerticalPosition: widget.AnchorLayoutPositionStart}),
		),
	)
	panel.AddChild(view.header)
	for i := 0; i < g.manager.Config().Capacity; i++ {
		row := text("")
		view.rows = append(view.rows, row)
		panel.AddChild(row)
	}
	panel.AddChild(text("Loops"))
	panel.AddChild(view.loops)

	buttons := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(6),
		)),
	)
	view.pauseBtn = button("Pause", g.togglePause)
	buttons.AddChild(view.pauseBtn)
	buttons.AddChild(button("Test", g.playTest))
	buttons.AddChild(button("Reload", g.reloadScene))
	buttons.AddChild(button("Copy", g.copySnapshot))
	panel.AddChild(buttons)
	panel.AddChild(view.status)

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(panel)

	return &ebitenui.UI{Container: root}, view
}

func (v *mixerView) Refresh(s sound.Snapshot, status string) {
	v.header.Label = fmt.Sprintf("Pool %d/%d  playing %d  pending %d", len(s.Pool), s.Capacity, s.Playing(), s.PendingDelays)

	for i, row := range v.rows {
		if i >= len(s.Pool) {
			row.Label = fmt.Sprintf("%2d  -", i)
			continue
		}
		ch := s.Pool[i]
		left := ch.CompletionTime - s.Now
		if left < 0 {
			left = 0
		}
		row.Label = fmt.Sprintf("%2d  %-8s vol %.2f  %5.2fs", i, ch.Clip, ch.Volume, left.Seconds())
	}

	loops := ""
	for _, l := range s.Loops {
		loops += fmt.Sprintf("slot %d  %s %.2f <- %s %.2f\n", l.Slot, l.Active.Clip, l.Active.Volume, l.Fading.Clip, l.Fading.Volume)
	}
	if loops == "" {
		loops = "none"
	}
	v.loops.Label = loops
	v.status.Label = status
}

func (v *mixerView) SetPaused(paused bool) {
	if v == nil || v.pauseBtn == nil {
		return
	}
	label := "Pause"
	if paused {
		label = "Resume"
	}
	if text := v.pauseBtn.Text(); text != nil {
		text.Label = label
	}
}
