package main

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/groundcore/locomotion/internal/mover"
)

// handleInput is edge-triggered the same way the teacher's Game does it:
// a snapshot of this frame's key state is compared against the previous
// frame's to detect presses rather than held-down repeats.
func (v *viewer) handleInput() {
	current := map[ebiten.Key]bool{}

	panSpeed := 6.0 / v.camZoom
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		v.camY -= panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		v.camY += panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		v.camX -= panSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		v.camX += panSpeed
	}

	const zoomMin, zoomMax = 0.5, 3.0
	_, wy := ebiten.Wheel()
	if wy != 0 {
		v.camZoom *= 1.0 + wy*0.1
	}
	current[ebiten.KeyEqual] = ebiten.IsKeyPressed(ebiten.KeyEqual)
	if current[ebiten.KeyEqual] && !v.prevKeys[ebiten.KeyEqual] {
		v.camZoom *= 1.25
	}
	current[ebiten.KeyMinus] = ebiten.IsKeyPressed(ebiten.KeyMinus)
	if current[ebiten.KeyMinus] && !v.prevKeys[ebiten.KeyMinus] {
		v.camZoom /= 1.25
	}
	v.camZoom = clampf(v.camZoom, zoomMin, zoomMax)

	v.camX = clampf(v.camX, 0, battleW)
	v.camY = clampf(v.camY, 0, battleH)

	// P pauses, ,/. steps sim speed through the same ladder the teacher uses.
	speeds := []float64{0, 0.5, 1, 2, 4}
	current[ebiten.KeyP] = ebiten.IsKeyPressed(ebiten.KeyP)
	if current[ebiten.KeyP] && !v.prevKeys[ebiten.KeyP] {
		if v.simSpeed > 0 {
			v.simSpeed = 0
		} else {
			v.simSpeed = 1
		}
	}
	current[ebiten.KeyComma] = ebiten.IsKeyPressed(ebiten.KeyComma)
	if current[ebiten.KeyComma] && !v.prevKeys[ebiten.KeyComma] {
		for i, s := range speeds {
			if s >= v.simSpeed && i > 0 {
				v.simSpeed = speeds[i-1]
				break
			}
		}
	}
	current[ebiten.KeyPeriod] = ebiten.IsKeyPressed(ebiten.KeyPeriod)
	if current[ebiten.KeyPeriod] && !v.prevKeys[ebiten.KeyPeriod] {
		for i, s := range speeds {
			if s <= v.simSpeed && i < len(speeds)-1 && speeds[i+1] > v.simSpeed {
				v.simSpeed = speeds[i+1]
				break
			}
		}
	}

	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if !v.prevMouseLeft {
			mx, my := ebiten.CursorPosition()
			v.handleSelectClick(mx, my)
		}
	}
	v.prevMouseLeft = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)

	current[ebiten.KeyI] = ebiten.IsKeyPressed(ebiten.KeyI)
	if current[ebiten.KeyI] && !v.prevKeys[ebiten.KeyI] {
		v.rawView = !v.rawView
	}

	// Enter toggles direct control (§4.6) on the currently selected unit.
	current[ebiten.KeyEnter] = ebiten.IsKeyPressed(ebiten.KeyEnter)
	if current[ebiten.KeyEnter] && !v.prevKeys[ebiten.KeyEnter] && v.selected != nil {
		v.direct = !v.direct
		v.harness.Controller.SetDirectControl(v.selected, v.direct)
	}
	if v.direct && v.selected != nil {
		v.selected.SetDirectInput(mover.DirectControlInput{
			Forward: ebiten.IsKeyPressed(ebiten.KeyUp) || ebiten.IsKeyPressed(ebiten.KeyK),
			Back:    ebiten.IsKeyPressed(ebiten.KeyDown) || ebiten.IsKeyPressed(ebiten.KeyJ),
			Left:    ebiten.IsKeyPressed(ebiten.KeyLeft) || ebiten.IsKeyPressed(ebiten.KeyH),
			Right:   ebiten.IsKeyPressed(ebiten.KeyRight) || ebiten.IsKeyPressed(ebiten.KeyL),
		})
	}

	// C copies the selected unit's telemetry line to the system clipboard —
	// handy for pasting a repro position/heading into a bug report.
	current[ebiten.KeyC] = ebiten.IsKeyPressed(ebiten.KeyC)
	if current[ebiten.KeyC] && !v.prevKeys[ebiten.KeyC] && v.selected != nil {
		_ = clipboard.WriteAll(selectedTelemetry(v.selected, v.harness.CurrentTick()))
	}

	v.prevKeys = current
}

// handleSelectClick inverts the camera transform to find which unit, if
// any, was clicked (mirrors the teacher's handleInspectorClick).
func (v *viewer) handleSelectClick(mx, my int) {
	vpW := float64(battleW)
	vpH := float64(battleH)
	wx := (float64(mx)-float64(v.offX)-vpW/2)/v.camZoom + v.camX
	wz := (float64(my)-float64(v.offY)-vpH/2)/v.camZoom + v.camY

	clickRadius := 14.0 / v.camZoom
	clickRadius2 := clickRadius * clickRadius
	best2 := clickRadius2
	var hit *mover.Mover
	for _, m := range v.harness.Movers {
		dx := m.Unit.Pos.X - wx
		dz := m.Unit.Pos.Z - wz
		d2 := dx*dx + dz*dz
		if d2 <= best2 {
			best2 = d2
			hit = m
		}
	}
	if hit != nil {
		v.selected = hit
		return
	}
	v.selected = nil
	v.direct = false
}

func selectedTelemetry(m *mover.Mover, tick int64) string {
	u := m.Unit
	return fmt.Sprintf("tick=%d unit=%d pos=(%.1f,%.1f,%.1f) heading=%d speed=%.3f state=%s",
		tick, u.ID, u.Pos.X, u.Pos.Y, u.Pos.Z, u.Heading, m.CurrentSpeed, m.ProgressState)
}
