package mover

// This file provides unit construction helpers in the teacher's
// NewSoldier/DefaultProfile style: a factory that builds a ready-to-drive
// UnitRecord+Mover pair from a small set of move-class parameters, instead
// of requiring every caller to hand-fill every UnitRecord field.

// UnitParams bundles the move-class constants a host supplies when
// spawning a ground unit (§3 "Data Model" per-unit fields that are fixed
// for the unit's lifetime rather than updated by the core).
type UnitParams struct {
	MoveDef    MoveDefID
	Mass       float64
	Radius     float64
	XSize      int
	ZSize      int
	MaxSpeed   float64
	MaxReverse float64
	AccRate    float64
	DecRate    float64
	TurnRate   float64
	CanFloat   bool
	Waterline  float64
	HP         int
}

// DefaultUnitParams returns the conventional wheeled-vehicle tuning used
// across the reference collaborators and test scenarios.
func DefaultUnitParams() UnitParams {
	return UnitParams{
		MoveDef:    "wheeled",
		Mass:       1,
		Radius:     1,
		XSize:      1,
		ZSize:      1,
		MaxSpeed:   2,
		MaxReverse: 1,
		AccRate:    0.1,
		DecRate:    0.2,
		TurnRate:   2048,
		CanFloat:   false,
		Waterline:  0,
		HP:         100,
	}
}

// NewGroundUnit builds a UnitRecord and its bound Mover at pos, facing
// front, from p (§3 construction).
func NewGroundUnit(id UnitID, pos Vec3, front Vec3, team, allyTeam int, p UnitParams) (*UnitRecord, *Mover) {
	if front == (Vec3{}) {
		front = Vec3{Z: 1}
	}
	front = front.FlatXZ().Normalize()
	right := Vec3{X: front.Z, Y: 0, Z: -front.X}

	u := &UnitRecord{
		ID:        id,
		Pos:       pos,
		Front:     front,
		Right:     right,
		Up:        Vec3{Y: 1},
		Heading:   HeadingFromDir(front),
		Phys:      OnGround,
		Mass:      p.Mass,
		Radius:    p.Radius,
		Team:      team,
		AllyTeam:  allyTeam,
		XSize:     p.XSize,
		ZSize:     p.ZSize,
		MoveDef:   p.MoveDef,
		CanFloat:  p.CanFloat,
		Waterline: p.Waterline,
		HP:        p.HP,
	}

	m := NewMover(u)
	m.MaxSpeed = p.MaxSpeed
	m.MaxReverseSpeed = p.MaxReverse
	m.AccRate = p.AccRate
	m.DecRate = p.DecRate
	m.TurnRate = p.TurnRate
	m.FlatFrontDir = front
	return u, m
}
