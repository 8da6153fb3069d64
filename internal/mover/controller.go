package mover

// Controller is the per-tick dispatcher described in §2/§4: it threads the
// external collaborators into the pipeline of Path Follower → Steering →
// Kinematics → Collision Resolver → Skid Subsystem → Arrival Reporter.
//
// A Controller is shared across every Mover in the simulation; it holds no
// per-unit state of its own, only the immutable collaborator set and config,
// so it is safe to call Update for every mover in the deterministic
// iteration order §5 requires.
type Controller struct {
	Config Config

	Path      PathService
	PathCtl   func(unit UnitID) PathController
	Terrain   TerrainService
	MoveSem   MoveSemantics
	Spatial   SpatialIndex
	Events    EventBus
	Queue     CommandQueue
	Script    UnitScript

	LineTable *LineTable

	// Rand is the shared simulation PRNG; all randomness the core consumes
	// (skid spin seeding) must come from here (§5 determinism requirement).
	Rand Rand
}

// Rand is the minimal PRNG surface the core needs, so hosts can plug in
// their own deterministic, order-stable generator instead of math/rand.
type Rand interface {
	Float64() float64
}

// Update runs one simulation tick for a single Mover, in the strict
// dispatch → follow path → steer → integrate → collide → skid → arrival
// order §5 mandates.
func (c *Controller) Update(tick int64, m *Mover) {
	mode := c.dispatch(m)

	switch mode {
	case modeTransported:
		return
	case modeSkidding, modeFalling:
		c.updateSkid(tick, m)
		c.resolveSkidCollisions(tick, m)
		return
	case modeDirect:
		// Direct control synthesizes curr/next waypoints each tick; it
		// still rides the normal kinematics/collision pipeline.
		c.driveDirectControl(tick, m, c.Config.MapWidth, c.Config.MapDepth)
		c.integrate(tick, m)
		c.resolveCollisions(tick, m)
		c.checkArrival(tick, m)
		return
	case modePathFollowing:
		c.followPath(tick, m)
		c.steer(tick, m)
		c.integrate(tick, m)
		c.resolveCollisions(tick, m)
		c.checkArrival(tick, m)
	}
}

// SlowUpdate fires every Config.SlowUpdateRate ticks to manage path
// liveness (§2 "slow_update").
func (c *Controller) SlowUpdate(tick int64, m *Mover) {
	if m.ProgressState != Active {
		return
	}
	if m.Unit.Transported || m.Skidding {
		return
	}
	if m.PathID != 0 && c.Path != nil {
		c.Path.UpdatePath(m.Unit, m.PathID)
	}
	m.NumIdlingSlowUpdates = clampInt(m.NumIdlingSlowUpdates, 0, c.Config.MaxIdlingSlowUpdates+1)
	if m.Idling {
		c.handlePersistentIdling(tick, m)
	}
}

type dispatchMode int

const (
	modeTransported dispatchMode = iota
	modeSkidding
	modeFalling
	modeDirect
	modePathFollowing
)

// dispatch decides which mode the unit is in this tick (§2 step 1).
func (c *Controller) dispatch(m *Mover) dispatchMode {
	if m.Unit.Transported {
		return modeTransported
	}
	if m.Flying {
		return modeFalling
	}
	if m.Skidding {
		return modeSkidding
	}
	if m.directControlActive {
		return modeDirect
	}
	return modePathFollowing
}
