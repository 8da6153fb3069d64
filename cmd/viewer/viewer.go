package main

import (
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/groundcore/locomotion/internal/mover"
)

// mapCols/mapRows/cellSize size the demo terrain grid; battleW/battleH are
// the resulting world-space playfield dimensions.
const (
	mapCols  = 96
	mapRows  = 64
	cellSize = 12.0

	battleW = mapCols * cellSize
	battleH = mapRows * cellSize

	borderWidth  = 16
	logPanelWidth = 260
)

// viewer drives a headless mover.Harness and renders it with ebiten,
// mirroring the teacher's Game: an offscreen world buffer blitted through a
// camera transform, plus HUD/inspector overlays blitted at a fixed upscale.
type viewer struct {
	width, height int
	offX, offY    int

	harness *mover.Harness

	worldBuf *ebiten.Image
	hudBuf   *ebiten.Image

	camX, camY float64
	camZoom    float64

	prevKeys      map[ebiten.Key]bool
	prevMouseLeft bool

	selected *mover.Mover
	rawView  bool

	direct bool // direct-control mode active on the selected unit

	simSpeed  float64
	tickAccum float64

	log []string // recent event-bus lines, newest first
}

func newViewer() *viewer {
	v := &viewer{
		width:      borderWidth + battleW + borderWidth + logPanelWidth,
		height:     borderWidth + battleH + borderWidth,
		offX:       borderWidth,
		offY:       borderWidth,
		camZoom:    1.0,
		simSpeed:   1.0,
		prevKeys:   make(map[ebiten.Key]bool),
	}
	v.camX = battleW / 2
	v.camY = battleH / 2
	v.harness = buildDemoHarness()
	v.worldBuf = ebiten.NewImage(battleW, battleH)
	v.hudBuf = ebiten.NewImage(v.width/hudScale, v.height/hudScale)
	return v
}

const hudScale = 2

// buildDemoHarness wires a small garrison of units around a scattering of
// walls and rough ground, so the viewer has something worth watching on
// launch without requiring command-line scenario selection.
func buildDemoHarness() *mover.Harness {
	rng := rand.New(rand.NewSource(1234)) // #nosec G404 -- cosmetic demo layout only
	opts := []mover.HarnessOption{
		mover.WithMapSize(mapCols, mapRows, cellSize),
		mover.WithSeed(99),
	}
	for i := 0; i < 40; i++ {
		col := 20 + rng.Intn(mapCols-40)
		row := rng.Intn(mapRows)
		opts = append(opts, mover.WithWall(col, row))
	}
	for i := 0; i < 30; i++ {
		col := rng.Intn(mapCols)
		row := rng.Intn(mapRows)
		opts = append(opts, mover.WithGround(col, row, mover.GroundMud))
	}

	params := mover.DefaultUnitParams()
	for i := 0; i < 6; i++ {
		id := mover.UnitID(i + 1)
		pos := mover.Vec3{X: float64(4 + i*2*int(cellSize)), Z: cellSize * 4}
		goal := mover.Vec3{X: float64(4+i*2*int(cellSize)) + 20, Z: battleH - cellSize*4}
		opts = append(opts, mover.WithMovingUnit(id, pos, mover.Vec3{Z: 1}, i%2, i%2, params, goal, 4))
	}

	return mover.NewHarness(opts...)
}

func (v *viewer) Layout(_, _ int) (int, int) { return v.width, v.height }

func (v *viewer) Update() error {
	v.handleInput()

	if v.simSpeed <= 0 {
		return nil
	}
	v.tickAccum += v.simSpeed
	for v.tickAccum >= 1.0 {
		v.tickAccum -= 1.0
		v.harness.Tick()
		v.drainEvents()
	}
	return nil
}

// drainEvents pulls this tick's published events into the on-screen log,
// keeping only the most recent lines (§9 "Event bus" is publish-only: the
// viewer is just one subscriber).
func (v *viewer) drainEvents() {
	for _, e := range v.harness.Drain() {
		line := eventLine(e)
		v.log = append([]string{line}, v.log...)
	}
	const maxLines = 14
	if len(v.log) > maxLines {
		v.log = v.log[:maxLines]
	}
}

func eventLine(e mover.Event) string {
	switch e.Kind {
	case mover.EventUnitMoved:
		return itoa(int(e.Tick)) + " unit " + itoa(int(e.Unit)) + " arrived"
	case mover.EventUnitMoveFailed:
		return itoa(int(e.Tick)) + " unit " + itoa(int(e.Unit)) + " failed"
	case mover.EventUnitUnitCollision:
		if e.Crushed {
			return itoa(int(e.Tick)) + " unit " + itoa(int(e.Unit)) + " crushed " + itoa(int(e.Other))
		}
		return itoa(int(e.Tick)) + " unit " + itoa(int(e.Unit)) + " bumped " + itoa(int(e.Other))
	case mover.EventUnitFeatureCollision:
		return itoa(int(e.Tick)) + " unit " + itoa(int(e.Unit)) + " hit feature"
	default:
		return "?"
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
