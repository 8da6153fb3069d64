package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/groundcore/locomotion/internal/mover"
)

// groundColor maps a mover.GroundType to a display colour, drawn from the
// x/image colornames palette rather than hand-picked RGBA literals.
func groundColor(g mover.GroundType) color.Color {
	switch g {
	case mover.GroundGrass:
		return colornames.Forestgreen
	case mover.GroundGrassLong:
		return colornames.Darkolivegreen
	case mover.GroundScrub:
		return colornames.Olivedrab
	case mover.GroundMud:
		return colornames.Saddlebrown
	case mover.GroundSand:
		return colornames.Khaki
	case mover.GroundGravel:
		return colornames.Darkgray
	case mover.GroundDirt:
		return colornames.Peru
	case mover.GroundTarmac:
		return colornames.Dimgray
	case mover.GroundRubbleLight:
		return colornames.Gray
	case mover.GroundRubbleHeavy:
		return colornames.Slategray
	case mover.GroundWater:
		return colornames.Steelblue
	default:
		return colornames.Forestgreen
	}
}

func toRGBA(c color.Color) color.RGBA {
	r, g, b, a := c.RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 10, G: 10, B: 12, A: 255})

	v.worldBuf.Clear()
	v.drawTerrain(v.worldBuf)
	v.drawUnits(v.worldBuf)

	vpW := float64(battleW)
	vpH := float64(battleH)
	var cam ebiten.GeoM
	cam.Translate(-v.camX, -v.camY)
	cam.Scale(v.camZoom, v.camZoom)
	cam.Translate(vpW/2, vpH/2)

	opts := &ebiten.DrawImageOptions{GeoM: cam}
	screen.DrawImage(v.worldBuf, opts)

	v.drawHUD(screen)
	if v.selected != nil {
		v.drawInspector(screen)
	}
}

func (v *viewer) drawTerrain(dst *ebiten.Image) {
	tm := v.harness.Terrain
	cs := float32(tm.CellSize())
	for row := 0; row < tm.Rows; row++ {
		for col := 0; col < tm.Cols; col++ {
			cell := tm.Cells[row*tm.Cols+col]
			x := float32(col) * cs
			y := float32(row) * cs
			vector.FillRect(dst, x, y, cs, cs, toRGBA(groundColor(cell.Ground)), false)
			if cell.Object == mover.ObjectWall || cell.Object == mover.ObjectPillar || cell.Object == mover.ObjectCrate {
				vector.FillRect(dst, x, y, cs, cs, color.RGBA{R: 40, G: 40, B: 44, A: 255}, false)
			}
		}
	}
}

func (v *viewer) drawUnits(dst *ebiten.Image) {
	for _, m := range v.harness.Movers {
		u := m.Unit
		x := float32(u.Pos.X)
		y := float32(u.Pos.Z)
		radius := float32(u.Radius) * 4

		col := colornames.Royalblue
		if u.Team == 1 {
			col = colornames.Firebrick
		}
		rgba := toRGBA(col)
		if m == v.selected {
			vector.FillCircle(dst, x, y, radius+3, color.RGBA{R: 255, G: 255, B: 255, A: 160}, true)
		}
		vector.DrawFilledCircle(dst, x, y, radius, rgba, true)

		front := mover.DirFromHeading(u.Heading)
		hx := x + float32(front.X)*radius*1.6
		hy := y + float32(front.Z)*radius*1.6
		vector.StrokeLine(dst, x, y, hx, hy, 1.5, color.RGBA{R: 255, G: 255, B: 255, A: 220}, false)

		if !m.CurrWaypoint.Temporary() {
			wx := float32(m.CurrWaypoint.X)
			wz := float32(m.CurrWaypoint.Z)
			vector.StrokeLine(dst, x, y, wx, wz, 1, color.RGBA{R: 200, G: 200, B: 80, A: 90}, false)
		}
	}
}

func (v *viewer) drawHUD(screen *ebiten.Image) {
	v.hudBuf.Clear()
	lx, ly := 2, 2
	speedStr := fmt.Sprintf("%.1fx", v.simSpeed)
	if v.simSpeed == 0 {
		speedStr = "paused"
	}
	ebitenutil.DebugPrintAt(v.hudBuf, "speed: "+speedStr+"  [P pause , . speed]", lx, ly)
	ly += 12
	ebitenutil.DebugPrintAt(v.hudBuf, "tick: "+itoa(int(v.harness.CurrentTick())), lx, ly)
	ly += 12
	ebitenutil.DebugPrintAt(v.hudBuf, "click a unit to select; Enter=direct control; C=copy telemetry", lx, ly)
	ly += 16

	panelX := v.width/hudScale - logPanelWidth/hudScale
	vector.FillRect(v.hudBuf, float32(panelX), 0, float32(logPanelWidth/hudScale), float32(v.height/hudScale), color.RGBA{R: 8, G: 8, B: 10, A: 230}, false)
	ebitenutil.DebugPrintAt(v.hudBuf, "-- events --", panelX+4, 2)
	ey := 14
	for _, line := range v.log {
		ebitenutil.DebugPrintAt(v.hudBuf, line, panelX+4, ey)
		ey += 12
	}

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(float64(hudScale), float64(hudScale))
	screen.DrawImage(v.hudBuf, opts)
}

func (v *viewer) drawInspector(screen *ebiten.Image) {
	m := v.selected
	u := m.Unit

	const bw, bh = 230, 150
	px := v.offX + 8
	py := v.height - bh - 8

	panel := ebiten.NewImage(bw, bh)
	panel.Fill(color.RGBA{R: 12, G: 14, B: 16, A: 230})
	vector.StrokeRect(panel, 0, 0, bw, bh, 1, color.RGBA{R: 80, G: 90, B: 100, A: 255}, false)

	lx, ly := 6, 4
	line := func(s string) {
		ebitenutil.DebugPrintAt(panel, s, lx, ly)
		ly += 13
	}

	line(fmt.Sprintf("unit %d  team %d  [%s]", u.ID, u.Team, m.ProgressState))
	line(fmt.Sprintf("pos  (%.1f, %.1f, %.1f)", u.Pos.X, u.Pos.Y, u.Pos.Z))
	line(fmt.Sprintf("goal (%.1f, %.1f)", m.GoalPos.X, m.GoalPos.Z))
	line(fmt.Sprintf("speed %.3f / %.3f  rev=%v", m.CurrentSpeed, m.MaxSpeed, m.Reversing))
	line(fmt.Sprintf("heading %d  turn %.0f", u.Heading, m.TurnRate))
	line(fmt.Sprintf("skid=%v fly=%v idle=%v", m.Skidding, m.Flying, m.Idling))
	line(fmt.Sprintf("atGoal=%v atEnd=%v", m.AtGoal, m.AtEndOfPath))
	if v.direct {
		line("DIRECT CONTROL: arrows/hjkl")
	}

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Translate(float64(px), float64(py))
	screen.DrawImage(panel, opts)
}
