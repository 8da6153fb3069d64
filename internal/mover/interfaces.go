package mover

// This file declares the external collaborator contracts named in spec §6.
// The locomotion core (Controller) is parametric over these — it never
// assumes a concrete pathfinder, terrain store, or spatial index. Reference
// implementations usable in tests live in pathservice.go, terrain.go,
// spatialindex.go, and eventbus.go.

// PathID is an opaque handle from the Path Service. 0 means "no active path".
type PathID uint64

// PathService requests paths, serves the next waypoint, and reports path
// changes (§6). It is non-blocking: RequestPath returns a handle immediately
// and NextWaypoint may return a temporary waypoint while still computing.
type PathService interface {
	RequestPath(unit *UnitRecord, moveDef MoveDefID, start, goal Vec3, radius float64, synced bool) PathID
	NextWaypoint(unit *UnitRecord, id PathID, segment int, from Vec3, step float64, synced bool) Waypoint
	UpdatePath(unit *UnitRecord, id PathID)
	PathUpdated(id PathID) bool
	DeletePath(id PathID)
}

// PathController is the per-unit policy plug-in that turns desired
// speed/heading into turn-rate-limited deltas (§6).
type PathController interface {
	DeltaSpeed(id PathID, target, current, acc, dec float64, wantReverse, reversing bool) float64
	DeltaHeading(id PathID, wanted, current ShortAngle, turnRate float64) ShortAngle
	SetRealGoalPosition(pos Vec3)
	SetTempGoalPosition(pos Vec3)
	AllowSetTempGoalPosition() bool
	IgnoreCollision(other *UnitRecord) bool
}

// TerrainService answers ground height, slope, and normal queries (§6).
type TerrainService interface {
	HeightReal(x, z float64) float64
	HeightAboveWater(x, z float64) float64
	Slope(x, z float64) float64
	Normal(x, z float64) Vec3
}

// BlockType is the bitmask MoveSemantics.SquareBlocked returns.
type BlockType uint8

const (
	BlockNone       BlockType = 0
	BlockStructure  BlockType = 1 << 0
	BlockTerrain    BlockType = 1 << 1
	BlockMobile     BlockType = 1 << 2
)

// MoveSemantics answers per-move-class speed modifier, square blockage,
// crush-resistance, and non-blocking predicates (§6).
type MoveSemantics interface {
	PosSpeedMod(moveDef MoveDefID, pos, dir Vec3) float64
	SquareBlocked(moveDef MoveDefID, x, z int, unit *UnitRecord) BlockType
	IsNonBlocking(moveDef MoveDefID, other, self *UnitRecord) bool
	CrushResistant(moveDef MoveDefID, other *UnitRecord) bool
	TestMoveSquare(unit *UnitRecord, candidate Vec3) bool
}

// SpatialIndex queries units/features/solids in a radius, and tracks
// features for the remove-before-move/add-after-move protocol of §4.4.2.
type SpatialIndex interface {
	UnitsExact(center Vec3, radius float64) []*UnitRecord
	FeaturesExact(center Vec3, radius float64) []*Feature
	SolidsExact(center Vec3, radius float64) []*UnitRecord
	AddFeature(f *Feature)
	RemoveFeature(f *Feature)
}

// Feature is a world object (tree, rock, wreck) that can be collided with
// (§4.4.2). Moving features are treated as static per §4.4.3.
type Feature struct {
	ID       int
	Pos      Vec3
	Radius   float64
	Mass     float64
	Moving   bool
	MoveDef  MoveDefID
	HP       int
}

// EventKind enumerates the publish-only Event Bus's event types (§6).
type EventKind int

const (
	EventUnitMoved EventKind = iota
	EventUnitMoveFailed
	EventUnitUnitCollision
	EventUnitFeatureCollision
)

// FailureReason names why a move failed, for EventUnitMoveFailed payloads
// (§7). CrushEvent is deliberately absent: it is not a failure, it is
// published as EventUnitUnitCollision with Crushed=true.
type FailureReason int

const (
	FailureNone FailureReason = iota
	NoPathAvailable
	PathStalledExceeded
	TerminalWaypoint
)

// Event is one record published to the Event Bus during a tick.
type Event struct {
	Kind    EventKind
	Tick    int64
	Unit    UnitID
	Other   UnitID
	Reason  FailureReason
	Pos     Vec3
	Crushed bool
}

// EventBus is the append-only, publish-only sink subscribers read from
// after all unit updates for the tick (§6, §9 "Event bus").
type EventBus interface {
	Publish(e Event)
}

// CommandQueue is inspected (never mutated beyond the narrow arrival
// sequence in Controller.checkArrival) to determine the unit's leading
// order kind (§6).
type CommandQueue interface {
	LeadingOrder(unit UnitID) OrderKind
	QueueLen(unit UnitID) int
}

// UnitScript exposes start/stop/landed animation hooks (§6).
type UnitScript interface {
	StartMoving(unit UnitID)
	StopMoving(unit UnitID)
	Landed(unit UnitID)
}
