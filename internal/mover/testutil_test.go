package mover

import "math"

// fakePathController is a minimal, deterministic PathController used across
// this package's tests: speed ramps toward target at the given acc/dec, and
// heading turns toward wanted at turnRate, exactly mirroring the contract
// §6 places on a real PathController without any pathfinder-specific policy.
type fakePathController struct {
	ignoreAll bool
}

func (f *fakePathController) DeltaSpeed(id PathID, target, current, acc, dec float64, wantReverse, reversing bool) float64 {
	diff := target - current
	if diff > 0 {
		return math.Min(diff, acc)
	}
	return math.Max(diff, -dec)
}

func (f *fakePathController) DeltaHeading(id PathID, wanted, current ShortAngle, turnRate float64) ShortAngle {
	delta := current.Delta(wanted)
	return ClampDelta(delta, int32(turnRate))
}

func (f *fakePathController) SetRealGoalPosition(pos Vec3)     {}
func (f *fakePathController) SetTempGoalPosition(pos Vec3)     {}
func (f *fakePathController) AllowSetTempGoalPosition() bool   { return true }
func (f *fakePathController) IgnoreCollision(other *UnitRecord) bool {
	return f.ignoreAll
}

// pathCtlHook adapts a single fakePathController into the per-unit
// func(UnitID) PathController hook Controller.PathCtl expects.
func pathCtlHook(pc PathController) func(UnitID) PathController {
	return func(UnitID) PathController { return pc }
}

// newTestUnit builds a minimal UnitRecord+Mover pair for package-internal
// tests that need direct field access the exported NewGroundUnit doesn't
// expose (e.g. pre-seeding Velocity or Phys).
func newTestUnit(id UnitID, pos Vec3) (*UnitRecord, *Mover) {
	u := &UnitRecord{
		ID:      id,
		Pos:     pos,
		Front:   Vec3{Z: 1},
		Right:   Vec3{X: 1},
		Up:      Vec3{Y: 1},
		Mass:    1,
		Radius:  1,
		MoveDef: "wheeled",
	}
	m := NewMover(u)
	m.MaxSpeed = 2
	m.MaxReverseSpeed = 1
	m.AccRate = 0.5
	m.DecRate = 0.5
	m.TurnRate = 4096
	m.FlatFrontDir = Vec3{Z: 1}
	return u, m
}
