package mover

import "testing"

// TestGoalConvergence_SingleUnitReachesGoalOnOpenGround exercises the full
// Update pipeline (dispatch -> follow path -> steer -> integrate -> collide
// -> arrival) end to end, the S1 "open ground" scenario.
func TestGoalConvergence_SingleUnitReachesGoalOnOpenGround(t *testing.T) {
	h := NewHarness(
		WithMapSize(64, 64, 8),
		WithSeed(1),
		WithMovingUnit(1, Vec3{X: 32, Z: 32}, Vec3{Z: 1}, 0, 0, DefaultUnitParams(), Vec3{X: 400, Z: 32}, 4),
	)

	tick := h.RunUntil(func(h *Harness) bool {
		return h.Movers[0].AtGoal
	}, 2000)

	if tick < 0 {
		t.Fatalf("expected unit to reach its goal within 2000 ticks, never arrived")
	}
	if h.Movers[0].ProgressState != Done {
		t.Fatalf("expected ProgressState=Done on arrival, got %v", h.Movers[0].ProgressState)
	}
}

// TestHeadOnMeet_UnitsDoNotEndOverlapping is the S3 "head-on meet" scenario:
// two units on a collision course must never end a tick with their centers
// closer than the sum of their radii.
func TestHeadOnMeet_UnitsDoNotEndOverlapping(t *testing.T) {
	h := NewHarness(
		WithMapSize(64, 64, 8),
		WithSeed(2),
		WithMovingUnit(1, Vec3{X: 32, Z: 250}, Vec3{Z: -1}, 0, 0, DefaultUnitParams(), Vec3{X: 32, Z: 32}, 4),
		WithMovingUnit(2, Vec3{X: 32, Z: 32}, Vec3{Z: 1}, 1, 0, DefaultUnitParams(), Vec3{X: 32, Z: 250}, 4),
	)

	for i := 0; i < 600; i++ {
		h.Tick()
		a, b := h.Movers[0].Unit, h.Movers[1].Unit
		rSum := a.Radius + b.Radius
		if DistSqXZ(a.Pos, b.Pos) < rSum*rSum-1e-6 {
			t.Fatalf("tick %d: units overlapped, distSq=%v rSum^2=%v", i, DistSqXZ(a.Pos, b.Pos), rSum*rSum)
		}
	}
}

// TestUTurn_UnitReversesHeadingAndStillArrives is the S2 "U-turn" scenario:
// a unit facing away from its goal must still converge.
func TestUTurn_UnitReversesHeadingAndStillArrives(t *testing.T) {
	h := NewHarness(
		WithMapSize(64, 64, 8),
		WithSeed(3),
		WithMovingUnit(1, Vec3{X: 32, Z: 32}, Vec3{Z: -1}, 0, 0, DefaultUnitParams(), Vec3{X: 32, Z: 450}, 4),
	)

	tick := h.RunUntil(func(h *Harness) bool {
		return h.Movers[0].AtGoal
	}, 3000)

	if tick < 0 {
		t.Fatalf("expected the U-turn scenario to converge within 3000 ticks")
	}
}

// TestCorridorBlock_UnitEventuallyFailsOrRepathsAroundAWall is the
// "corridor block" scenario: a direct line to the goal is walled off, so
// the unit must either find a detour or report failure, never stall
// forever without either outcome.
func TestCorridorBlock_UnitEventuallyFailsOrRepathsAroundAWall(t *testing.T) {
	h := NewHarness(
		WithMapSize(64, 64, 8),
		WithSeed(4),
		WithWall(3, 2),
		WithWall(4, 2),
		WithWall(5, 2),
		WithMovingUnit(1, Vec3{X: 32, Z: 32}, Vec3{Z: -1}, 0, 0, DefaultUnitParams(), Vec3{X: 32, Z: 8}, 4),
	)

	arrived := false
	failed := false
	for i := 0; i < 4000 && !arrived && !failed; i++ {
		h.Tick()
		if h.Movers[0].AtGoal {
			arrived = true
		}
		if h.Movers[0].ProgressState == Failed {
			failed = true
		}
	}
	if !arrived && !failed {
		t.Fatalf("expected the unit to either arrive or report failure within 4000 ticks, did neither")
	}
}

// TestDeterministicOrdering_TwoRunsWithSameSeedProduceIdenticalPositions
// covers §5's determinism requirement across a full multi-unit tick loop.
func TestDeterministicOrdering_TwoRunsWithSameSeedProduceIdenticalPositions(t *testing.T) {
	build := func() *Harness {
		return NewHarness(
			WithMapSize(64, 64, 8),
			WithSeed(99),
			WithMovingUnit(1, Vec3{X: 20, Z: 20}, Vec3{Z: 1}, 0, 0, DefaultUnitParams(), Vec3{X: 300, Z: 300}, 4),
			WithMovingUnit(2, Vec3{X: 300, Z: 20}, Vec3{Z: 1}, 0, 1, DefaultUnitParams(), Vec3{X: 20, Z: 300}, 4),
			WithMovingUnit(3, Vec3{X: 160, Z: 20}, Vec3{Z: 1}, 0, 2, DefaultUnitParams(), Vec3{X: 160, Z: 300}, 4),
		)
	}

	h1, h2 := build(), build()
	h1.RunTicks(500)
	h2.RunTicks(500)

	for i := range h1.Movers {
		p1, p2 := h1.Movers[i].Unit.Pos, h2.Movers[i].Unit.Pos
		if p1 != p2 {
			t.Fatalf("unit %d diverged across identically-seeded runs: %v vs %v", i, p1, p2)
		}
	}
}

// TestDirectControl_OverridesPathFollowingUntilReleased covers the
// dispatcher's modeDirect branch end to end via the Harness.
func TestDirectControl_OverridesPathFollowingUntilReleased(t *testing.T) {
	h := NewHarness(
		WithMapSize(64, 64, 8),
		WithSeed(5),
		WithMovingUnit(1, Vec3{X: 32, Z: 32}, Vec3{Z: 1}, 0, 0, DefaultUnitParams(), Vec3{X: 400, Z: 32}, 4),
	)
	m := h.Movers[0]

	h.Controller.SetDirectControl(m, true)
	if m.ProgressState != Done {
		t.Fatalf("expected entering direct control to cancel the in-flight path, got ProgressState=%v", m.ProgressState)
	}

	m.SetDirectInput(DirectControlInput{Forward: true})
	start := m.Unit.Pos
	h.RunTicks(10)
	if m.Unit.Pos == start {
		t.Fatalf("expected forward direct-control input to move the unit")
	}

	h.Controller.SetDirectControl(m, false)
	if m.ProgressState == Active {
		t.Fatalf("releasing direct control should not by itself resume path-following without a new order")
	}
}
