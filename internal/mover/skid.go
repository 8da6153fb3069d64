package mover

import "math"

// This file implements §4.5, the Skid Subsystem: ballistic flight, ground
// skid deceleration, re-airborne/bounce handling, the skid-specific
// collision resolver, and Rodrigues spin integration.

const (
	skidSpeedReduction   = 0.35
	skidImpactDamageK    = 1.0
	gravityAccel         = -0.5
)

// ApplyImpulse is the Skid Subsystem's sole entry point (§4.5 "Entry").
// Impulses below threshold accumulate into ResidualImpulse without
// triggering skid mode, matching the teacher's habit of damping small
// jostles rather than flinging units on every minor nudge.
func (c *Controller) ApplyImpulse(m *Mover, v Vec3) {
	if m.Unit.BeingBuilt || m.Unit.Transported {
		return
	}
	m.Unit.ResidualImpulse = m.Unit.ResidualImpulse.Add(v)
	if v.Len() <= 0.1 || m.Unit.ResidualImpulse.LenSq() <= 9 {
		return
	}

	m.Unit.Velocity = m.Unit.Velocity.Add(m.Unit.ResidualImpulse)
	m.Unit.ResidualImpulse = Vec3{}

	skidDir := m.Unit.Velocity.FlatXZ().Normalize()
	if skidDir == (Vec3{}) {
		skidDir = m.FlatFrontDir
	}
	m.SkidRotAxis = skidDir.Cross(Vec3{Y: 1}).Normalize()
	m.SkidRotVector = m.SkidRotAxis

	m.OldPhysState = m.Unit.Phys
	m.Skidding = true
	m.Unit.Skidding = true
	m.UseMainHeading = false

	normal := Vec3{Y: 1}
	if c.Terrain != nil {
		normal = c.Terrain.Normal(m.Unit.Pos.X, m.Unit.Pos.Z)
	}
	if m.Unit.Velocity.Dot(normal) > 0.2 {
		m.Flying = true
		m.Unit.Phys = Flying
		if c.Rand != nil {
			m.SkidRotAccel = (c.Rand.Float64() - 0.5) * 0.1
		}
	}
}

// updateSkid is the per-tick Skid Subsystem dispatch for modeSkidding and
// modeFalling movers (§4.5).
func (c *Controller) updateSkid(tick int64, m *Mover) {
	if m.Flying {
		c.integrateFlying(tick, m)
	} else {
		c.integrateGroundSkid(tick, m)
	}
	c.integrateSpin(m)
}

// integrateFlying implements §4.5 "Integration while flying".
func (c *Controller) integrateFlying(tick int64, m *Mover) {
	u := m.Unit
	u.Velocity.Y += gravityAccel

	if u.CanFloat && c.Terrain != nil && c.Terrain.HeightReal(u.Pos.X, u.Pos.Z) < 0 {
		u.Velocity = u.Velocity.Scale(0.95)
	}

	u.Pos = u.Pos.Add(u.Velocity)

	groundY := 0.0
	if c.Terrain != nil {
		groundY = c.Terrain.HeightReal(u.Pos.X, u.Pos.Z)
	}
	if u.Pos.Y > groundY {
		return
	}

	u.Pos.Y = groundY
	impactSpeed := -u.Velocity.Y
	if c.Config.AllowUnitCollisionDamage {
		u.HP -= int(impactSpeed * u.Mass * skidImpactDamageK)
	}
	m.SkidRotSpeed = 0
	m.Flying = false
	u.Phys = m.OldPhysState
}

// integrateGroundSkid implements §4.5 "Integration while skidding on
// ground" and "Re-airborne".
func (c *Controller) integrateGroundSkid(tick int64, m *Mover) {
	u := m.Unit
	speed := u.Velocity.FlatXZ().Len()

	normal := Vec3{Y: 1}
	if c.Terrain != nil {
		normal = c.Terrain.Normal(u.Pos.X, u.Pos.Z)
	}
	onSlope := normal.Y < 0.999

	if onSlope {
		g := Vec3{Y: gravityAccel}
		tangentGravity := g.Sub(normal.Scale(g.Dot(normal)))
		u.Velocity = u.Velocity.Add(tangentGravity)
		u.Velocity = u.Velocity.Scale(1 - 0.1*normal.Y)
	} else {
		newSpeed := math.Max(0, speed-skidSpeedReduction)
		if speed > 0 {
			u.Velocity = u.Velocity.Scale(newSpeed / speed)
		}
		if newSpeed < skidSpeedReduction {
			c.exitSkid(m)
			return
		}
	}

	u.Pos = u.Pos.Add(u.Velocity)

	groundY := 0.0
	if c.Terrain != nil {
		groundY = c.Terrain.HeightReal(u.Pos.X, u.Pos.Z)
	}
	gap := groundY - u.Pos.Y

	if gap < u.Velocity.Y+gravityAccel {
		u.Velocity.Y += gravityAccel
		m.Flying = true
		u.Phys = Flying
		return
	}

	if gap > u.Velocity.Y {
		if u.Velocity.Dot(normal) > 0 {
			u.Velocity = u.Velocity.Scale(0.95)
		} else {
			vn := u.Velocity.Dot(normal)
			reflected := u.Velocity.Sub(normal.Scale(vn * (1 + 1.9)))
			u.Velocity = reflected.Scale(0.8)
		}
	}
}

// exitSkid implements §4.5 "Integration while skidding on ground" exit
// clause and §8 property 7 (skid idempotence).
func (c *Controller) exitSkid(m *Mover) {
	m.Skidding = false
	m.Flying = false
	m.Unit.Skidding = false
	m.UseMainHeading = true
	m.Unit.Phys = m.OldPhysState

	remaining := 1.0
	predicted := math.Floor(m.SkidRotSpeed+m.SkidRotAccel*(remaining-1)+0.5)
	m.SkidRotSpeed = predicted
	m.SkidRotAccel = 0
}

// resolveSkidCollisions implements §4.5 "Skid collisions", a resolver
// separate from §4.4 because a skidding unit can damage both parties.
func (c *Controller) resolveSkidCollisions(tick int64, m *Mover) {
	if c.Spatial == nil {
		return
	}
	a := m.Unit
	radius := math.Max(a.Velocity.Len(), 1) * a.Radius
	for _, b := range c.Spatial.UnitsExact(a.Pos, radius) {
		if b == a {
			continue
		}
		rSum := a.Radius + b.Radius
		if DistSqXZ(a.Pos, b.Pos) > rSum*rSum {
			continue
		}

		sep := a.Pos.Sub(b.Pos)
		sepDist := sep.Len()
		if sepDist < 1e-6 {
			continue
		}
		sepDir := sep.Scale(1 / sepDist)

		impactSpeed := -a.Velocity.Dot(sepDir)
		if impactSpeed <= 0 {
			continue
		}

		if !b.IsMoving && b.MoveDef == "" {
			if c.Config.AllowUnitCollisionDamage {
				dmg := int(impactSpeed * a.Mass * skidImpactDamageK)
				a.HP -= dmg
				b.HP -= dmg
			}
			c.publish(tick, m, Event{Kind: EventUnitUnitCollision, Unit: a.ID, Other: b.ID, Pos: b.Pos})
			continue
		}

		impact := b.Velocity.Sub(a.Velocity).Dot(sepDir) / 2
		ratio := a.Mass / (a.Mass + b.Mass)
		a.Velocity = a.Velocity.Add(sepDir.Scale(-impact * ratio))
		b.Velocity = b.Velocity.Add(sepDir.Scale(impact * (1 - ratio)))

		if c.Config.AllowUnitCollisionDamage {
			dmg := int(math.Abs(impact) * skidImpactDamageK)
			a.HP -= dmg
			b.HP -= dmg
		}
		c.publish(tick, m, Event{Kind: EventUnitUnitCollision, Unit: a.ID, Other: b.ID, Pos: b.Pos})
	}

	if c.Spatial == nil {
		return
	}
	for _, f := range c.Spatial.FeaturesExact(a.Pos, radius) {
		rSum := a.Radius + f.Radius
		if DistSqXZ(a.Pos, f.Pos) > rSum*rSum {
			continue
		}
		sep := a.Pos.Sub(f.Pos)
		sepDist := sep.Len()
		if sepDist < 1e-6 {
			continue
		}
		sepDir := sep.Scale(1 / sepDist)
		impactSpeed := -a.Velocity.Dot(sepDir)
		if impactSpeed <= 0 {
			continue
		}
		dmg := int(impactSpeed * f.Mass * skidImpactDamageK)
		f.HP -= dmg
		if c.Config.AllowUnitCollisionDamage {
			a.HP -= dmg / 4
		}
		c.publish(tick, m, Event{Kind: EventUnitFeatureCollision, Unit: a.ID, Pos: f.Pos})
	}
}

// integrateSpin implements §4.5 "Spin integration" via Rodrigues rotation
// of the unit's orientation basis about SkidRotVector.
func (c *Controller) integrateSpin(m *Mover) {
	if !m.Skidding && !m.Flying {
		return
	}
	if c.Config.GameSpeedFPS <= 0 {
		return
	}
	m.SkidRotSpeed += m.SkidRotAccel
	angle := m.SkidRotSpeed * 2 * math.Pi / c.Config.GameSpeedFPS
	if angle == 0 {
		return
	}
	cosT, sinT := math.Cos(angle), math.Sin(angle)
	axis := m.SkidRotVector
	if axis == (Vec3{}) {
		return
	}

	m.Unit.Front = rodrigues(m.Unit.Front, axis, cosT, sinT)
	m.Unit.Right = rodrigues(m.Unit.Right, axis, cosT, sinT)
	m.Unit.Up = rodrigues(m.Unit.Up, axis, cosT, sinT)
}

// rodrigues rotates v about the unit axis by angle (cosT, sinT), rotating
// only v's component perpendicular to axis (§4.5 "Spin integration").
func rodrigues(v, axis Vec3, cosT, sinT float64) Vec3 {
	parallel := axis.Scale(v.Dot(axis))
	perp := v.Sub(parallel)
	if perp == (Vec3{}) {
		return v
	}
	rotatedPerp := perp.Scale(cosT).Add(axis.Cross(perp).Scale(sinT))
	return parallel.Add(rotatedPerp)
}
