package mover

import "testing"

type fixedRand struct{ v float64 }

func (f fixedRand) Float64() float64 { return f.v }

func TestApplyImpulse_SmallImpulseAccumulatesWithoutTriggeringSkid(t *testing.T) {
	terrain := NewGridTerrainMap(8, 8, 8)
	c := &Controller{Config: DefaultConfig(), Terrain: terrain, Rand: fixedRand{0.5}}
	_, m := newTestUnit(1, Vec3{})

	c.ApplyImpulse(m, Vec3{X: 0.05})
	if m.Skidding {
		t.Fatalf("expected a tiny impulse to accumulate, not trigger skid mode")
	}
	if m.Unit.ResidualImpulse.X != 0.05 {
		t.Fatalf("expected residual impulse to accumulate, got %v", m.Unit.ResidualImpulse)
	}
}

func TestApplyImpulse_LargeImpulseTriggersSkid(t *testing.T) {
	terrain := NewGridTerrainMap(8, 8, 8)
	c := &Controller{Config: DefaultConfig(), Terrain: terrain, Rand: fixedRand{0.5}}
	_, m := newTestUnit(1, Vec3{})

	c.ApplyImpulse(m, Vec3{X: 5})
	if !m.Skidding {
		t.Fatalf("expected a large impulse to trigger skid mode")
	}
	if m.UseMainHeading {
		t.Fatalf("expected UseMainHeading to be cleared while skidding")
	}
	if m.Unit.ResidualImpulse != (Vec3{}) {
		t.Fatalf("expected residual impulse to be consumed into velocity, got %v", m.Unit.ResidualImpulse)
	}
}

func TestApplyImpulse_IgnoresTransportedOrBeingBuiltUnits(t *testing.T) {
	terrain := NewGridTerrainMap(8, 8, 8)
	c := &Controller{Config: DefaultConfig(), Terrain: terrain}
	u, m := newTestUnit(1, Vec3{})
	u.Transported = true

	c.ApplyImpulse(m, Vec3{X: 5})
	if m.Skidding {
		t.Fatalf("expected a transported unit to ignore impulses entirely")
	}
}

func TestIntegrateGroundSkid_DecaysSpeedAndEventuallyExits(t *testing.T) {
	terrain := NewGridTerrainMap(8, 8, 8)
	c := &Controller{Config: DefaultConfig(), Terrain: terrain}
	u, m := newTestUnit(1, Vec3{X: 32, Y: 0, Z: 32})
	u.Velocity = Vec3{X: 0.3}
	m.Skidding = true
	m.UseMainHeading = false

	for i := 0; i < 30 && m.Skidding; i++ {
		c.updateSkid(int64(i), m)
	}
	if m.Skidding {
		t.Fatalf("expected ground skid to exit once speed decays below the reduction threshold")
	}
	if !m.UseMainHeading {
		t.Fatalf("expected exitSkid to restore UseMainHeading")
	}
}

func TestIntegrateFlying_LandsAndAppliesImpactDamage(t *testing.T) {
	terrain := NewGridTerrainMap(8, 8, 8)
	cfg := DefaultConfig()
	c := &Controller{Config: cfg, Terrain: terrain}
	u, m := newTestUnit(1, Vec3{X: 32, Y: 5, Z: 32})
	u.Velocity = Vec3{Y: -1}
	u.HP = 100
	m.Flying = true

	for i := 0; i < 60 && m.Flying; i++ {
		c.updateSkid(int64(i), m)
	}
	if m.Flying {
		t.Fatalf("expected the unit to land within 60 ticks")
	}
	if u.Pos.Y != 0 {
		t.Fatalf("expected the unit to settle at ground height 0, got %v", u.Pos.Y)
	}
	if u.HP >= 100 {
		t.Fatalf("expected impact damage to reduce HP, got %d", u.HP)
	}
}

func TestRodrigues_RotationPreservesLength(t *testing.T) {
	v := Vec3{X: 1, Z: 0}
	axis := Vec3{Y: 1}
	out := rodrigues(v, axis, 0, 1) // 90-degree rotation about +Y
	if diff := out.Len() - v.Len(); diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("expected rotation to preserve length, got %v", out.Len())
	}
}

func TestRodrigues_LeavesParallelComponentUnchanged(t *testing.T) {
	axis := Vec3{Y: 1}
	v := axis // parallel to the rotation axis
	out := rodrigues(v, axis, 0, 1)
	if out != v {
		t.Fatalf("expected a vector parallel to the axis to be unaffected, got %v", out)
	}
}

func TestIntegrateSpin_NoOpWhenNeitherSkiddingNorFlying(t *testing.T) {
	c := &Controller{Config: DefaultConfig()}
	_, m := newTestUnit(1, Vec3{})
	front := m.Unit.Front
	c.integrateSpin(m)
	if m.Unit.Front != front {
		t.Fatalf("expected integrateSpin to be a no-op outside skid/flying")
	}
}
