package mover

// Config is the process-wide, read-only-during-a-game set of mod options
// consumed by the locomotion core (§6 "Configuration surface", §9 "Global
// configuration"). It is threaded into every Controller at construction and
// never mutated afterward, mirroring the teacher's immutable
// gridRoadConfig/SimOption-built settings pattern.
type Config struct {
	AllowGroundUnitGravity   bool
	AllowUnitCollisionDamage bool
	AllowUnitCollisionOverlap bool
	AllowPushingEnemyUnits   bool
	AllowCrushingAlliedUnits bool
	AllowHoverUnitStrafing   bool

	// GameSpeedFPS is the fixed simulation tick rate (frames per second),
	// used by the skid spin integrator (§4.5), the steering reach horizon
	// (§4.2) and as the guard on the end-of-path speed cap (§4.3).
	GameSpeedFPS float64

	// SlowUpdateRate is K, the number of ticks between slow_update calls
	// (§2 "Pipeline").
	SlowUpdateRate int

	// SquareSize is the edge length, in world units, of one terrain grid cell.
	SquareSize float64

	// MaxIdlingSlowUpdates bounds the number of internal repaths attempted
	// before a stalled path is declared Failed (§4.1, §7 PathStalled).
	MaxIdlingSlowUpdates int

	// MapWidth/MapDepth clamp the synthetic waypoint §4.6 Direct Control
	// projects ahead of or behind a player-piloted unit.
	MapWidth, MapDepth float64
}

// DefaultConfig returns the conventional tuning used across the test suite
// and the reference collaborators; callers embedding this core in a real
// host are expected to supply their own.
func DefaultConfig() Config {
	return Config{
		AllowGroundUnitGravity:    true,
		AllowUnitCollisionDamage:  true,
		AllowUnitCollisionOverlap: false,
		AllowPushingEnemyUnits:    false,
		AllowCrushingAlliedUnits:  false,
		AllowHoverUnitStrafing:    true,
		GameSpeedFPS:              30,
		SlowUpdateRate:            8,
		SquareSize:                8,
		MaxIdlingSlowUpdates:      3,
		MapWidth:                  8192,
		MapDepth:                  8192,
	}
}
