package mover

import "math"

// This file implements §4.4, the Collision Resolver: unit↔unit,
// unit↔feature, and unit↔static overlap resolution, run after integration
// every tick.

// featureMassScale is the "large constant" §4.4.2 multiplies a feature's
// effective mass by so heavy features barely move.
const featureMassScale = 50.0

// resolveCollisions runs the unit↔unit and unit↔feature phases for one
// collider (§2 step 5, §4.4). resolveUnitStatic runs only as a handoff
// from those phases (for structures, non-pushable collidees and moving
// features); the collider's own footprint is not scanned against static
// squares here.
func (c *Controller) resolveCollisions(tick int64, m *Mover) {
	c.resolveUnitUnit(tick, m)
	c.resolveUnitFeature(tick, m)
}

func (c *Controller) resolveUnitUnit(tick int64, m *Mover) {
	if c.Spatial == nil {
		return
	}
	collider := m.Unit
	radius := math.Max(collider.Velocity.Len(), 1) * collider.Radius
	for _, collidee := range c.Spatial.UnitsExact(collider.Pos, radius) {
		if collidee == collider {
			continue
		}
		if collidee.Transported && collidee.TransporterID == collider.ID {
			continue
		}
		if collider.Transported && collider.TransporterID == collidee.ID {
			continue
		}
		if collidee.CrossLoading || collider.CrossLoading {
			continue
		}
		if collidee.Skidding || collidee.Phys == Flying {
			// §4.4.1: a skidding/flying collidee is resolved by
			// resolveSkidCollisions (§4.5) instead; running the normal
			// push/crush response against it here would double-collide it
			// against two incompatible resolvers in the same tick.
			continue
		}

		rSum := collider.Radius + collidee.Radius
		if DistSqXZ(collider.Pos, collidee.Pos) > rSum*rSum {
			continue
		}

		if collidee.MoveDef == "" {
			// Structure/static: hand off to §4.4.3.
			c.resolveUnitStatic(tick, m, collidee.Pos, collidee.XSize, collidee.ZSize, true)
			continue
		}

		pushA, pushB := c.pushFlags(collider, collidee)
		if !pushA && !pushB {
			c.resolveUnitStatic(tick, m, collidee.Pos, collidee.XSize, collidee.ZSize, true)
			continue
		}

		if c.MoveSem != nil && (c.MoveSem.IsNonBlocking(collider.MoveDef, collidee, collider) ||
			c.MoveSem.IsNonBlocking(collidee.MoveDef, collider, collidee)) {
			continue
		}

		if c.isCrushing(collider, collidee) {
			collidee.HP = 0
			c.publish(tick, m, Event{Kind: EventUnitUnitCollision, Unit: collider.ID, Other: collidee.ID, Crushed: true, Pos: collidee.Pos})
			continue
		}

		c.checkGoalLock(m, collidee)
		c.applyUnitUnitResponse(collider, collidee, pushA, pushB)
		c.publish(tick, m, Event{Kind: EventUnitUnitCollision, Unit: collider.ID, Other: collidee.ID, Pos: collider.Pos})
	}
}

// pushFlags computes whether each party may be pushed, from alliance,
// mobility, push_resistant, blockEnemyPushing, beingBuilt,
// usingScriptMoveType, and the mod options (§4.4.1).
func (c *Controller) pushFlags(a, b *UnitRecord) (pushA, pushB bool) {
	enemies := a.AllyTeam != b.AllyTeam
	if enemies && !c.Config.AllowPushingEnemyUnits {
		return false, false
	}
	pushA = !a.PushResistant && !a.BeingBuilt && !a.UsingScriptMove && !(enemies && a.BlockEnemyPushing)
	pushB = !b.PushResistant && !b.BeingBuilt && !b.UsingScriptMove && !(enemies && b.BlockEnemyPushing)
	if !enemies && !c.Config.AllowCrushingAlliedUnits {
		// allied crush prevention is orthogonal to pushing; no-op here but
		// documents the mod option's reach per §6.
		_ = c.Config.AllowCrushingAlliedUnits
	}
	return pushA, pushB
}

func (c *Controller) isCrushing(collider, collidee *UnitRecord) bool {
	if collider.AllyTeam == collidee.AllyTeam && !c.Config.AllowCrushingAlliedUnits {
		return false
	}
	if c.MoveSem == nil {
		return false
	}
	return !c.MoveSem.CrushResistant(collider.MoveDef, collidee) && collider.Velocity.Len() > 0
}

// checkGoalLock implements §4.4.1 "Goal-lock arrival". The spec's rule is
// that the collidee must be Done-stationary with an empty queue; the
// collaborator set doesn't expose another unit's Mover/ProgressState, so
// we approximate "Done" with IsMoving false and tighten it with the same
// host-supplied CommandQueue accessor kinematics.go uses for braking
// (empty queue means nothing is about to move it again).
func (c *Controller) checkGoalLock(collider *Mover, collidee *UnitRecord) {
	if collider.ProgressState != Active || collidee.IsMoving {
		return
	}
	if c.Queue != nil && c.Queue.QueueLen(collidee.ID) > 0 {
		return
	}
	if DistSqXZ(collider.GoalPos, collidee.Pos) < 2 {
		collider.AtGoal = true
		collider.AtEndOfPath = true
	}
}

// applyUnitUnitResponse implements §4.4.1 "Response".
func (c *Controller) applyUnitUnitResponse(a, b *UnitRecord, pushA, pushB bool) {
	sep := a.Pos.Sub(b.Pos)
	sepDist := sep.Len() + 0.1
	sepDir := sep.Scale(1 / sepDist)
	rSum := a.Radius + b.Radius
	pen := math.Max(rSum-sepDist, 1)
	resp := math.Min(2*c.Config.SquareSize, pen/2)

	colResp := Vec3{X: sepDir.X, Y: 0, Z: sepDir.Z}.Scale(resp)

	ci := 1 + (1-math.Abs(a.Front.Dot(sepDir)))*5
	cj := 1 + (1-math.Abs(b.Front.Dot(sepDir.Scale(-1))))*5
	si := a.Mass * a.Velocity.Len() * ci
	sj := b.Mass * b.Velocity.Len() * cj
	ri := si / (si + sj + 1)
	massScaleA := clamp(1-ri, 0.01, 0.99)
	massScaleB := clamp(1-(sj/(si+sj+1)), 0.01, 0.99)

	slideA := a.Right.Scale(sign(sep.Dot(a.Right)) * (1 / pen) * (sj / (si + sj + 1)))
	slideB := b.Right.Scale(sign(sep.Scale(-1).Dot(b.Right)) * (1 / pen) * (si + sj + 1 - sj) / (si + sj + 1))

	if pushA {
		candidate := a.Pos.Add(colResp.Scale(massScaleA))
		if c.MoveSem == nil || c.MoveSem.TestMoveSquare(a, candidate) {
			a.Pos = candidate
		}
		candidateSlide := a.Pos.Add(slideA)
		if c.MoveSem == nil || c.MoveSem.TestMoveSquare(a, candidateSlide) {
			a.Pos = candidateSlide
		}
	}
	if pushB {
		candidate := b.Pos.Sub(colResp.Scale(massScaleB))
		if c.MoveSem == nil || c.MoveSem.TestMoveSquare(b, candidate) {
			b.Pos = candidate
		}
		candidateSlide := b.Pos.Add(slideB)
		if c.MoveSem == nil || c.MoveSem.TestMoveSquare(b, candidateSlide) {
			b.Pos = candidateSlide
		}
	}
}

// resolveUnitFeature implements §4.4.2. Features are removed from the
// spatial index before the position update and re-added after, to keep
// the index consistent.
func (c *Controller) resolveUnitFeature(tick int64, m *Mover) {
	if c.Spatial == nil {
		return
	}
	collider := m.Unit
	radius := math.Max(collider.Velocity.Len(), 1) * collider.Radius
	for _, f := range c.Spatial.FeaturesExact(collider.Pos, radius) {
		rSum := collider.Radius + f.Radius
		if DistSqXZ(collider.Pos, f.Pos) > rSum*rSum {
			continue
		}
		if f.Moving {
			c.resolveUnitStatic(tick, m, f.Pos, 1, 1, false)
			continue
		}

		c.Spatial.RemoveFeature(f)

		effMass := f.Mass * featureMassScale
		sep := collider.Pos.Sub(f.Pos)
		sepDist := sep.Len() + 0.1
		sepDir := sep.Scale(1 / sepDist)
		pen := math.Max(rSum-sepDist, 1)
		resp := math.Min(2*c.Config.SquareSize, pen/2)

		r := collider.Mass / (collider.Mass + effMass)
		massScale := clamp(1-r, 0.01, 0.99)

		candidate := collider.Pos.Add(Vec3{X: sepDir.X, Y: 0, Z: sepDir.Z}.Scale(resp * massScale))
		if c.MoveSem == nil || c.MoveSem.TestMoveSquare(collider, candidate) {
			collider.Pos = candidate
		}

		c.Spatial.AddFeature(f)
		c.publish(tick, m, Event{Kind: EventUnitFeatureCollision, Unit: collider.ID, Pos: f.Pos})
	}
}

// resolveUnitStatic implements §4.4.3: yardmap and terrain-grid collision
// against structures, yardmaps, and impassable terrain.
func (c *Controller) resolveUnitStatic(tick int64, m *Mover, obstaclePos Vec3, xsize, zsize int, yardmap bool) {
	collider := m.Unit
	sq := c.Config.SquareSize

	halfX := (float64(xsize)*sq)/2 + collider.Radius
	halfZ := (float64(zsize)*sq)/2 + collider.Radius

	insideYardmap := math.Abs(collider.Pos.X-obstaclePos.X) < halfX && math.Abs(collider.Pos.Z-obstaclePos.Z) < halfZ
	sep := collider.Pos.Sub(obstaclePos)
	exiting := collider.Front.Dot(sep) > 0 && collider.Velocity.Dot(sep) > 0

	if yardmap && insideYardmap && exiting {
		return // exiting the footprint: let normal steering resume
	}

	bounceVec := Vec3{}
	penSum, penCount := 0.0, 0

	if c.LineTable != nil && c.MoveSem != nil {
		minCX, maxCX := int((obstaclePos.X-halfX)/sq), int((obstaclePos.X+halfX)/sq)
		minCZ, maxCZ := int((obstaclePos.Z-halfZ)/sq), int((obstaclePos.Z+halfZ)/sq)
		for cz := minCZ; cz <= maxCZ; cz++ {
			for cx := minCX; cx <= maxCX; cx++ {
				bt := c.MoveSem.SquareBlocked(collider.MoveDef, cx, cz, collider)
				blocked := (yardmap && bt&BlockStructure != 0) || (!yardmap && bt&BlockTerrain != 0)
				if !blocked {
					continue
				}
				cellCenter := Vec3{X: (float64(cx) + 0.5) * sq, Y: 0, Z: (float64(cz) + 0.5) * sq}
				toCell := collider.Pos.Sub(cellCenter)
				if toCell.Dot(collider.Velocity) > 0 {
					continue
				}
				dist := toCell.Len()
				if dist < 1e-6 {
					continue
				}
				bounceVec = bounceVec.Add(toCell.Scale(1 / dist))
				microRadius := math.Sqrt(2 * (sq / 2) * (sq / 2))
				pen := microRadius + collider.Radius - dist
				penSum += pen
				penCount++
			}
		}
	}

	if penCount == 0 {
		return
	}
	meanPen := penSum / float64(penCount)

	strafeScale := math.Max(0, math.Min(collider.Velocity.Len(), math.Max(0, -meanPen/2)))
	bounceScale := math.Max(0, -meanPen)

	strafeSign := sign(sep.Dot(collider.Right))
	applied := false

	strafeCandidate := collider.Pos.Add(collider.Right.Scale(strafeSign * strafeScale))
	if strafeScale > 0 && (c.MoveSem == nil || c.MoveSem.TestMoveSquare(collider, strafeCandidate)) {
		collider.Pos = strafeCandidate
		applied = true
	}

	bounceDir := bounceVec.Normalize()
	bounceCandidate := collider.Pos.Add(bounceDir.Scale(bounceScale))
	if bounceScale > 0 && (c.MoveSem == nil || c.MoveSem.TestMoveSquare(collider, bounceCandidate)) {
		collider.Pos = bounceCandidate
		applied = true
	}

	if applied {
		goal, radius := m.GoalPos, m.GoalRadius
		leadingMove := m.OrderKind == OrderMove
		c.StopMoving(m)
		c.StartMoving(tick, m, goal, radius)
		if leadingMove {
			m.CurrentSpeed = 0
			m.WantedSpeed = 0
		}
	}
}
