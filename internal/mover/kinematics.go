package mover

import "math"

// This file implements §4.3, Kinematics: heading update, speed selection,
// integration, and the waterline clamp.

// integrate applies heading update, speed selection, and position
// integration for one tick (§4.3, §2 step 4).
func (c *Controller) integrate(tick int64, m *Mover) {
	c.updateHeading(m)
	target := c.selectTargetSpeed(m)
	m.WantedSpeed = target
	m.DeltaSpeed = c.deltaSpeed(m, target)

	speedVec := c.integrateSpeedVec(m)

	candidate := m.Unit.Pos.Add(speedVec)
	if c.MoveSem != nil && !c.MoveSem.TestMoveSquare(m.Unit, candidate) {
		// §7 ImpassableIntegration: undo in-place, no event; the collision
		// resolver handles extrication next tick.
		speedVec = Vec3{}
	} else {
		m.Unit.Pos = candidate
	}

	m.Reversing = speedVec.Dot(m.FlatFrontDir) < 0
	m.CurrentSpeed = math.Abs(speedVec.Dot(m.FlatFrontDir))
	m.Unit.Velocity = speedVec
	m.Unit.IsMoving = speedVec.LenSq() > 1e-9

	c.clampWaterline(m)
}

// updateHeading delegates to the path controller hook (§4.3 "Heading
// update"). Skidding, transported, or flying movers skip heading updates.
func (c *Controller) updateHeading(m *Mover) {
	if m.Skidding || m.Flying || m.Unit.Transported {
		return
	}
	if c.PathCtl == nil {
		return
	}
	pc := c.PathCtl(m.Unit.ID)
	if pc == nil {
		return
	}
	delta := pc.DeltaHeading(m.PathID, m.WantedHeading, m.Unit.Heading, m.TurnRate)
	m.Unit.Heading += delta
	m.Unit.Front = DirFromHeading(m.Unit.Heading)
	m.Unit.Right = Vec3{X: m.Unit.Front.Z, Y: 0, Z: -m.Unit.Front.X}
	m.FlatFrontDir = m.Unit.Front.FlatXZ()
}

// selectTargetSpeed implements §4.3 steps 1-6. Direct Control (§4.6) takes
// its target straight from the player's forward/back input instead of the
// path-following defaults below.
func (c *Controller) selectTargetSpeed(m *Mover) float64 {
	if m.directControlActive {
		return c.directTargetSpeed(m)
	}

	target := m.MaxSpeed
	if m.Reversing {
		target = m.MaxReverseSpeed
	}

	if m.CurrWaypoint.Temporary() || m.NextWaypoint.Temporary() {
		return 0
	}

	if c.MoveSem != nil {
		mod := c.MoveSem.PosSpeedMod(m.Unit.MoveDef, m.Unit.Pos, m.Unit.Front)
		target *= mod
		if mod > 1 {
			m.WantedSpeed *= mod
		}
	}

	if c.Queue != nil && c.Queue.QueueLen(m.Unit.ID) <= 2 {
		brakeDistSq := brakingDistance(m.CurrentSpeed, m.DecRate)
		brakeDistSq *= brakeDistSq
		if DistSqXZ(m.Unit.Pos, m.GoalPos) <= brakeDistSq {
			target = 0
		}
	}

	requiredTurn := AngleFraction(m.Unit.Heading.Delta(m.WantedHeading)) * float64(FullCircle)
	maxTurnAngle := m.TurnRate
	if m.TurnInPlace {
		if requiredTurn > maxTurnAngle {
			target *= maxTurnAngle / requiredTurn
		}
	} else {
		scaled := target
		if requiredTurn > maxTurnAngle {
			scaled = target * maxTurnAngle / requiredTurn
		}
		target = math.Max(turnInPlaceSpeedLimit, scaled)
	}

	if m.AtEndOfPath && c.Config.GameSpeedFPS > 0 {
		framesPerFullTurn := float64(FullCircle) / math.Max(m.TurnRate, 1)
		orbitCap := m.CurrWPDist * math.Pi / framesPerFullTurn
		target = math.Min(target, orbitCap)
	}

	return target
}

// directTargetSpeed implements §4.6's three change_speed branches: Forward
// targets max speed, Back targets max reverse speed, neither (or both)
// targets a full stop.
func (c *Controller) directTargetSpeed(m *Mover) float64 {
	in := m.directInput
	switch {
	case in.Forward && !in.Back:
		return m.MaxSpeed
	case in.Back && !in.Forward:
		return m.MaxReverseSpeed
	default:
		return 0
	}
}

// turnInPlaceSpeedLimit is the minimum crawl speed allowed while rotating,
// for movers with TurnInPlace == false (§4.3 step 5).
const turnInPlaceSpeedLimit = 0.1

// brakingDistance returns the distance needed to decelerate from speed to 0
// at the given deceleration rate (§4.3 step 4, §8 property 3).
func brakingDistance(speed, decRate float64) float64 {
	if decRate <= 0 {
		return 0
	}
	t := speed / decRate
	return 0.5 * decRate * t * t
}

func (c *Controller) deltaSpeed(m *Mover, target float64) float64 {
	if m.directControlActive {
		wantReverse := m.directInput.Back && !m.directInput.Forward
		return c.deltaSpeedDirect(m, target, wantReverse)
	}
	wantReverse := target < 0 || (m.Reversing && target == 0)
	if c.PathCtl == nil {
		return signedDeltaSpeed(target, m.CurrentSpeed, wantReverse, m.Reversing)
	}
	pc := c.PathCtl(m.Unit.ID)
	if pc == nil {
		return signedDeltaSpeed(target, m.CurrentSpeed, wantReverse, m.Reversing)
	}
	return pc.DeltaSpeed(m.PathID, target, m.CurrentSpeed, m.AccRate, m.DecRate, wantReverse, m.Reversing)
}

// signedDeltaSpeed is the fallback used when no PathController is wired. A
// real PathController.DeltaSpeed implementation is trusted to fold
// wantReverse/reversing into the sign of its returned delta itself (that's
// why both are part of its signature); without one we reconstruct the same
// signed-target-minus-signed-current delta directly so a reversal commanded
// from a standstill doesn't get added on the wrong side of zero.
func signedDeltaSpeed(target, current float64, wantReverse, reversing bool) float64 {
	signedTarget := target * signOf(!wantReverse)
	signedCurrent := current * signOf(!reversing)
	return signedTarget - signedCurrent
}

// integrateSpeedVec implements §4.3 "Integration".
func (c *Controller) integrateSpeedVec(m *Mover) Vec3 {
	if !c.Config.AllowGroundUnitGravity {
		return m.FlatFrontDir.Scale(m.CurrentSpeed*signOf(!m.Reversing) + m.DeltaSpeed)
	}

	normal := Vec3{Y: 1}
	if c.Terrain != nil {
		normal = c.Terrain.Normal(m.Unit.Pos.X, m.Unit.Pos.Z)
	}
	tangent := m.Unit.Right.Cross(normal).Normalize()
	if tangent == (Vec3{}) {
		tangent = m.FlatFrontDir
	}

	horizontal := tangent.Scale(m.CurrentSpeed*signOf(!m.Reversing) + m.DeltaSpeed)

	const gravity = -0.5
	vertical := Vec3{Y: gravity}

	if m.Unit.Phys == Hovering && c.Config.AllowHoverUnitStrafing {
		slip := m.Unit.Right.Scale(m.Unit.Velocity.Dot(m.Unit.Right) * 0.9)
		horizontal = horizontal.Add(slip)
	}

	v := horizontal.Add(vertical)
	if m.Unit.Phys != Flying {
		v.Y = tangent.Y * (m.CurrentSpeed*signOf(!m.Reversing) + m.DeltaSpeed)
	}
	return v
}

// clampWaterline implements §4.3 "Waterline clamp".
func (c *Controller) clampWaterline(m *Mover) {
	if m.Flying || m.Unit.Phys == Flying {
		return
	}
	if c.Terrain == nil {
		return
	}
	groundY := c.Terrain.HeightReal(m.Unit.Pos.X, m.Unit.Pos.Z)

	if m.Unit.CanFloat {
		m.Unit.Pos.Y = math.Max(groundY, -m.Unit.Waterline)
		return
	}
	if c.Config.AllowGroundUnitGravity {
		m.Unit.Pos.Y = math.Max(groundY, m.Unit.Pos.Y)
		return
	}
	m.Unit.Pos.Y = groundY
}
