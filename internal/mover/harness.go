package mover

import "math/rand"

// Harness is a headless simulation harness used by the tests, the
// locomotion-report CLI and the viewer. It
// mirrors a host's per-tick driver loop but has no rendering dependency
// and supports deterministic seeding, mirroring the teacher's
// TestSim/SimOption phased-options pattern.
type Harness struct {
	Config Config

	Terrain *GridTerrainMap
	Path    *GridPathService
	Spatial *BruteForceIndex
	Events  *LogEventBus

	Controller *Controller
	Movers     []*Mover

	tick int64
	rng  *rand.Rand
}

// harnessOptionKind controls the pass in which an option is applied.
type harnessOptionKind int

const (
	optInfra harnessOptionKind = iota // map size, terrain cells, seed — applied first
	optUnit                           // add units — applied after terrain is built
)

// HarnessOption is a builder function applied to a Harness during construction.
type HarnessOption struct {
	kind harnessOptionKind
	fn   func(*Harness)
}

// WithMapSize sets the terrain grid dimensions and cell size.
func WithMapSize(cols, rows int, cellSize float64) HarnessOption {
	return HarnessOption{optInfra, func(h *Harness) {
		h.Terrain = NewGridTerrainMap(cols, rows, cellSize)
	}}
}

// WithWall marks a grid cell impassable.
func WithWall(col, row int) HarnessOption {
	return HarnessOption{optInfra, func(h *Harness) {
		h.Terrain.SetObject(col, row, ObjectWall)
	}}
}

// WithGround sets a grid cell's ground type.
func WithGround(col, row int, g GroundType) HarnessOption {
	return HarnessOption{optInfra, func(h *Harness) {
		h.Terrain.SetGround(col, row, g)
	}}
}

// WithElevation sets a grid cell's terrain height.
func WithElevation(col, row int, height float64) HarnessOption {
	return HarnessOption{optInfra, func(h *Harness) {
		h.Terrain.SetElevation(col, row, height)
	}}
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) HarnessOption {
	return HarnessOption{optInfra, func(h *Harness) {
		h.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- test harness
	}}
}

// WithConfig overrides the default Config.
func WithConfig(cfg Config) HarnessOption {
	return HarnessOption{optInfra, func(h *Harness) {
		h.Config = cfg
	}}
}

// WithMovingUnit adds a unit at pos facing front, with params, and
// immediately issues a move order toward goal.
func WithMovingUnit(id UnitID, pos, front Vec3, team, allyTeam int, params UnitParams, goal Vec3, radius float64) HarnessOption {
	return HarnessOption{optUnit, func(h *Harness) {
		_, m := NewGroundUnit(id, pos, front, team, allyTeam, params)
		h.Movers = append(h.Movers, m)
		h.Controller.StartMoving(h.tick, m, goal, radius)
	}}
}

// WithIdleUnit adds a unit at pos facing front, with params, issuing no order.
func WithIdleUnit(id UnitID, pos, front Vec3, team, allyTeam int, params UnitParams) HarnessOption {
	return HarnessOption{optUnit, func(h *Harness) {
		_, m := NewGroundUnit(id, pos, front, team, allyTeam, params)
		h.Movers = append(h.Movers, m)
	}}
}

// NewHarness constructs a Harness from the given options in two ordered
// passes: infrastructure (map, terrain, seed, config), then units (which
// need the terrain and collaborator set already built).
func NewHarness(opts ...HarnessOption) *Harness {
	h := &Harness{
		Config:  DefaultConfig(),
		Terrain: NewGridTerrainMap(64, 64, 8),
		Spatial: NewBruteForceIndex(),
		Events:  NewLogEventBus(),
		rng:     rand.New(rand.NewSource(1)), // #nosec G404 -- test harness default
	}
	for _, o := range opts {
		if o.kind == optInfra {
			o.fn(h)
		}
	}
	h.Path = NewGridPathService(h.Terrain)
	h.Controller = &Controller{
		Config:    h.Config,
		Path:      h.Path,
		Terrain:   h.Terrain,
		MoveSem:   h.Terrain,
		Spatial:   h.Spatial,
		Events:    h.Events,
		LineTable: NewLineTable(4),
		Rand:      randAdapter{h.rng},
	}
	for _, o := range opts {
		if o.kind == optUnit {
			o.fn(h)
		}
	}
	h.syncSpatial()
	return h
}

type randAdapter struct{ r *rand.Rand }

func (a randAdapter) Float64() float64 { return a.r.Float64() }

func (h *Harness) syncSpatial() {
	units := make([]*UnitRecord, len(h.Movers))
	for i, m := range h.Movers {
		units[i] = m.Unit
	}
	h.Spatial.SetUnits(units)
}

// Tick advances the simulation one step: Controller.Update for every
// mover in deterministic order, then SlowUpdate every Config.SlowUpdateRate
// ticks (§2 "Pipeline", §5 determinism).
func (h *Harness) Tick() {
	h.tick++
	for _, m := range h.Movers {
		h.Controller.Update(h.tick, m)
	}
	if h.Config.SlowUpdateRate > 0 && h.tick%int64(h.Config.SlowUpdateRate) == 0 {
		for _, m := range h.Movers {
			h.Controller.SlowUpdate(h.tick, m)
		}
	}
}

// RunTicks advances the simulation n ticks.
func (h *Harness) RunTicks(n int) {
	for i := 0; i < n; i++ {
		h.Tick()
	}
}

// RunUntil advances the simulation up to maxTicks, stopping early if
// predicate returns true. Returns the tick at which the predicate was
// satisfied, or -1.
func (h *Harness) RunUntil(predicate func(*Harness) bool, maxTicks int) int64 {
	for i := 0; i < maxTicks; i++ {
		h.Tick()
		if predicate(h) {
			return h.tick
		}
	}
	return -1
}

// CurrentTick returns the current simulation tick.
func (h *Harness) CurrentTick() int64 { return h.tick }

// Drain returns and clears all events published since the last Drain.
func (h *Harness) Drain() []Event { return h.Events.Drain() }
