package mover

import "testing"

func TestBruteForceIndex_SetUnits_ExcludesFlyingFromSolids(t *testing.T) {
	idx := NewBruteForceIndex()
	grounded := &UnitRecord{ID: 1, Pos: Vec3{}, Phys: OnGround}
	airborne := &UnitRecord{ID: 2, Pos: Vec3{}, Phys: Flying}
	idx.SetUnits([]*UnitRecord{grounded, airborne})

	solids := idx.SolidsExact(Vec3{}, 10)
	if len(solids) != 1 || solids[0] != grounded {
		t.Fatalf("expected only the grounded unit among solids, got %v", solids)
	}

	all := idx.UnitsExact(Vec3{}, 10)
	if len(all) != 2 {
		t.Fatalf("expected both units from UnitsExact, got %d", len(all))
	}
}

func TestBruteForceIndex_UnitsExact_RadiusFilters(t *testing.T) {
	idx := NewBruteForceIndex()
	near := &UnitRecord{ID: 1, Pos: Vec3{X: 1}}
	far := &UnitRecord{ID: 2, Pos: Vec3{X: 100}}
	idx.SetUnits([]*UnitRecord{near, far})

	out := idx.UnitsExact(Vec3{}, 5)
	if len(out) != 1 || out[0] != near {
		t.Fatalf("expected only the near unit within radius 5, got %v", out)
	}
}

func TestBruteForceIndex_AddRemoveFeature_PreservesOtherEntries(t *testing.T) {
	idx := NewBruteForceIndex()
	f1 := &Feature{ID: 1, Pos: Vec3{X: 0}}
	f2 := &Feature{ID: 2, Pos: Vec3{X: 5}}
	f3 := &Feature{ID: 3, Pos: Vec3{X: 10}}
	idx.AddFeature(f1)
	idx.AddFeature(f2)
	idx.AddFeature(f3)

	idx.RemoveFeature(f1)

	out := idx.FeaturesExact(Vec3{}, 100)
	if len(out) != 2 {
		t.Fatalf("expected 2 remaining features, got %d", len(out))
	}
	for _, f := range out {
		if f.ID == 1 {
			t.Fatalf("removed feature 1 still present")
		}
	}

	// Removing again must be a harmless no-op.
	idx.RemoveFeature(f1)
	if len(idx.FeaturesExact(Vec3{}, 100)) != 2 {
		t.Fatalf("double-remove changed the feature count")
	}

	// The swap-removal must have kept f2/f3 independently queryable.
	idx.RemoveFeature(f2)
	out = idx.FeaturesExact(Vec3{}, 100)
	if len(out) != 1 || out[0].ID != 3 {
		t.Fatalf("expected only feature 3 to remain, got %v", out)
	}
}
