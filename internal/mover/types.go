// Package mover implements the per-tick ground locomotion core for a
// real-time strategy simulation: the controller that drives wheeled,
// tracked, and hovering ground units from their current position toward a
// requested goal while respecting terrain, avoiding obstacles, resolving
// collisions, and handling skid/airborne physics.
package mover

// ProgressState is the Mover's path-following lifecycle state (§4.1).
type ProgressState int

const (
	Done ProgressState = iota
	Active
	Failed
)

func (s ProgressState) String() string {
	switch s {
	case Done:
		return "done"
	case Active:
		return "active"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// PhysState is the unit's physical support mode.
type PhysState int

const (
	OnGround PhysState = iota
	Hovering
	Flying
)

// MoveDefID names a move class / move def — a bundle of terrain-passability
// parameters (max slope, footprint, water depth, etc.) external to this core.
type MoveDefID string

// OrderKind is the command queue's current leading-order kind, inspected
// (never mutated) by the Path Follower's goal test (§4.1).
type OrderKind int

const (
	OrderNone OrderKind = iota
	OrderMove
	OrderBuild
	OrderOther
)

// Waypoint is a pathfinder-returned point. A Y of -1 marks it temporary:
// the Path Service is still computing and the controller must refuse to
// move toward it (§3 invariants).
type Waypoint struct {
	X, Y, Z float64
}

// Temporary reports whether this waypoint is still being computed.
func (w Waypoint) Temporary() bool { return w.Y == -1 }

// Failed reports the Path Service's terminal failure sentinel (-1,*,-1).
func (w Waypoint) Failed() bool { return w.X == -1 && w.Z == -1 }

func (w Waypoint) vec() Vec3 { return Vec3{X: w.X, Y: w.Y, Z: w.Z} }

// UnitRecord is the external, per-unit entity record this core mutates:
// position, orientation basis, speed, mass, radius, team, flags (§3).
// In a production host this would live in a separate engine-owned arena;
// here it is the concrete type the reference collaborators (SpatialIndex,
// EventBus) and Controller operate on directly.
type UnitRecord struct {
	ID UnitID

	Pos              Vec3
	Front, Right, Up Vec3
	Heading          ShortAngle
	Velocity         Vec3
	ResidualImpulse  Vec3

	Phys     PhysState
	IsMoving bool

	// Skidding mirrors the owning Mover's Skidding flag so other units'
	// collision resolvers can see it without reaching into a Mover they
	// don't own (§4.4.1 skips a skidding/flying collidee; Phys == Flying
	// doubles as the flying signal, synced by the Skid Subsystem).
	Skidding bool

	Mass   float64
	Radius float64

	Team, AllyTeam int
	XSize, ZSize   int // footprint, in grid squares

	MoveDef MoveDefID

	CanFloat          bool
	Waterline         float64
	PushResistant     bool
	BlockEnemyPushing bool
	BeingBuilt        bool
	UsingScriptMove   bool
	CrushResistant    bool

	// Transported/cross-loading state: a transported unit is a no-op for
	// this core's dispatcher (§2 step 1).
	Transported  bool
	CrossLoading bool
	TransporterID UnitID

	HP int
}

// UnitID identifies a UnitRecord; arena-stable across a unit's lifetime.
type UnitID int

// Mover is the per-unit locomotion state this core owns logic for (§3).
type Mover struct {
	Unit *UnitRecord

	ProgressState ProgressState
	PathID        PathID

	GoalPos    Vec3
	GoalRadius float64

	CurrWaypoint, NextWaypoint Waypoint
	CurrWPDist, PrevWPDist     float64

	CurrentSpeed, WantedSpeed, DeltaSpeed float64
	MaxSpeed, MaxReverseSpeed             float64
	AccRate, DecRate, TurnRate            float64

	WantedHeading ShortAngle

	FlatFrontDir, WaypointDir, LastAvoidanceDir Vec3

	Skidding       bool
	Flying         bool
	Reversing      bool
	Idling         bool
	CanReverse     bool
	UseMainHeading bool
	TurnInPlace    bool
	AtEndOfPath    bool
	AtGoal         bool

	SkidRotVector, SkidRotAxis Vec3
	SkidRotSpeed, SkidRotAccel float64
	OldPhysState               PhysState

	NumIdlingUpdates, NumIdlingSlowUpdates int

	PathRequestDelay          int64
	NextObstacleAvoidanceTick int64

	MainHeadingPos Vec3

	// OrderKind is the owning command queue's current leading order; read
	// by the goal test (§4.1) and the static collision handoff, and never
	// written by this package.
	OrderKind OrderKind

	// directControlActive and directInput implement §4.6: when a player is
	// piloting the unit, the dispatcher skips normal path-following mode
	// selection and DirectControlInput drives a synthetic waypoint.
	directControlActive bool
	directInput          DirectControlInput

	oldPos Vec3
}

// NewMover creates an idle Mover bound to the given unit record.
func NewMover(u *UnitRecord) *Mover {
	return &Mover{
		Unit:          u,
		ProgressState: Done,
		CanReverse:    true,
		UseMainHeading: true,
	}
}
