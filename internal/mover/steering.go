package mover

import "math"

// This file implements §4.2, Steering & Avoidance: blending the desired
// waypoint direction with a repulsion field from nearby solids.

const (
	avoiderWeight = 1.0
	desiredWeight = 0.5
	avoidLowPassAlpha = 0.7
)

// steer recomputes the modulated heading direction at most once per tick
// (§4.2 "Throttle"); within the same tick it is a no-op because
// NextObstacleAvoidanceTick has already been pushed forward.
func (c *Controller) steer(tick int64, m *Mover) {
	if m.PathID == 0 {
		m.LastAvoidanceDir = Vec3{}
		return
	}
	if tick < m.NextObstacleAvoidanceTick {
		return
	}
	m.NextObstacleAvoidanceTick = tick + 1

	desired := m.WaypointDir
	if m.Unit.Front.Dot(desired) < 0 {
		// Desired direction is anti-parallel to front: let waypoint
		// steering fight this out on its own rather than engaging avoidance.
		return
	}

	m.LastAvoidanceDir = c.computeAvoidance(m, desired)
	m.WantedHeading = HeadingFromDir(m.LastAvoidanceDir)
}

// computeAvoidance accumulates per-obstacle repulsion contributions and
// blends them with the desired direction (§4.2 "Repulsion accumulation",
// "Blend").
func (c *Controller) computeAvoidance(m *Mover, desired Vec3) Vec3 {
	if c.Spatial == nil {
		return desired
	}

	u := m.Unit
	horizon := math.Max(u.Velocity.Len(), 1) * 2 * u.Radius
	candidates := c.Spatial.SolidsExact(u.Pos, horizon)

	accum := Vec3{}
	for _, o := range candidates {
		if o == u {
			continue
		}
		if o.Phys == Flying || o.Phys == Hovering {
			continue
		}
		if c.MoveSem != nil && c.MoveSem.IsNonBlocking(u.MoveDef, o, u) {
			continue
		}
		if c.MoveSem != nil && !c.MoveSem.CrushResistant(u.MoveDef, o) {
			continue
		}

		// avoideeMobile/avoideeMovable per original_source: a structure
		// (no MoveDef) can never be "pushed aside" by collision handling,
		// so it must not be skipped here just for sitting idle.
		avoideeMobile := o.MoveDef != ""
		avoideeMovable := avoideeMobile && !o.PushResistant
		if avoideeMobile && avoideeMovable {
			if o.AllyTeam == u.AllyTeam && !o.IsMoving && !o.UsingScriptMove {
				continue
			}
		}

		rel := o.Pos.Sub(u.Pos).FlatXZ()
		dist := rel.Len()
		if dist < 1e-6 {
			continue
		}
		relDir := rel.Scale(1 / dist)
		if u.Front.Dot(relDir) < math.Cos(120*math.Pi/180) {
			continue
		}

		radiusSum := u.Radius + o.Radius
		reachHorizon := math.Max(u.Velocity.Len(), 1)*c.Config.GameSpeedFPS + radiusSum
		if dist > reachHorizon {
			continue
		}
		if dist*dist > DistSqXZ(u.Pos, m.GoalPos) {
			continue
		}

		ourSign := sign(o.Pos.Dot(u.Right) - u.Pos.Dot(u.Right))
		if u.Front.Dot(o.Front) < 0 {
			theirSign := sign(u.Pos.Dot(o.Right) - o.Pos.Dot(o.Right))
			ourSign = math.Max(ourSign, theirSign)
		}

		frontAngleCos := u.Front.Dot(o.Front)
		isMobile := 0.0
		if avoideeMobile {
			isMobile = 1.0
		}
		response := (1-frontAngleCos*isMobile)*1 + 0.1

		falloff := 1 - math.Min(1, dist/(5*radiusSum))
		if falloff < 0 {
			falloff = 0
		}

		massScale := 1.0
		if avoideeMobile {
			massScale = o.Mass / (u.Mass + o.Mass)
		}

		contribution := u.Right.Scale(ourSign * avoiderWeight * response * falloff * massScale)
		accum = accum.Add(contribution)
	}

	combined := desired.Scale(desiredWeight).Add(accum)
	avoidDir := combined.Normalize()
	if avoidDir == (Vec3{}) {
		avoidDir = desired
	}

	out := m.LastAvoidanceDir.Scale(avoidLowPassAlpha).Add(avoidDir.Scale(1 - avoidLowPassAlpha))
	return out.Normalize()
}
