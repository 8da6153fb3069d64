package mover

// BruteForceIndex is a reference SpatialIndex: a flat registry scanned
// linearly on every query. Grounded on the teacher's plain-slice-of-agents
// scan pattern (soldiers/buildings iterated directly rather than through a
// spatial structure); it is the correctness baseline a host can swap for a
// grid or quadtree without changing the locomotion core's call sites.
type BruteForceIndex struct {
	units    []*UnitRecord
	solids   []*UnitRecord
	features []*Feature
	featIdx  map[int]int // feature ID -> index into features, for RemoveFeature
}

// NewBruteForceIndex builds an empty index.
func NewBruteForceIndex() *BruteForceIndex {
	return &BruteForceIndex{featIdx: make(map[int]int)}
}

// SetUnits replaces the tracked unit set, in deterministic iteration order
// (§5 "Determinism requirement").
func (idx *BruteForceIndex) SetUnits(units []*UnitRecord) {
	idx.units = units
	idx.solids = idx.solids[:0]
	for _, u := range units {
		if u.Phys != Flying {
			idx.solids = append(idx.solids, u)
		}
	}
}

func (idx *BruteForceIndex) UnitsExact(center Vec3, radius float64) []*UnitRecord {
	var out []*UnitRecord
	r2 := radius * radius
	for _, u := range idx.units {
		if DistSqXZ(center, u.Pos) <= r2 {
			out = append(out, u)
		}
	}
	return out
}

func (idx *BruteForceIndex) SolidsExact(center Vec3, radius float64) []*UnitRecord {
	var out []*UnitRecord
	r2 := radius * radius
	for _, u := range idx.solids {
		if DistSqXZ(center, u.Pos) <= r2 {
			out = append(out, u)
		}
	}
	return out
}

func (idx *BruteForceIndex) FeaturesExact(center Vec3, radius float64) []*Feature {
	var out []*Feature
	r2 := radius * radius
	for _, f := range idx.features {
		if DistSqXZ(center, f.Pos) <= r2 {
			out = append(out, f)
		}
	}
	return out
}

// AddFeature appends f to the tracked set, maintaining insertion order for
// deterministic iteration (§5).
func (idx *BruteForceIndex) AddFeature(f *Feature) {
	idx.featIdx[f.ID] = len(idx.features)
	idx.features = append(idx.features, f)
}

// RemoveFeature implements the remove-before-move half of §4.4.2's
// protocol via swap-removal, re-indexing the swapped element.
func (idx *BruteForceIndex) RemoveFeature(f *Feature) {
	i, ok := idx.featIdx[f.ID]
	if !ok {
		return
	}
	last := len(idx.features) - 1
	idx.features[i] = idx.features[last]
	idx.featIdx[idx.features[i].ID] = i
	idx.features = idx.features[:last]
	delete(idx.featIdx, f.ID)
}
