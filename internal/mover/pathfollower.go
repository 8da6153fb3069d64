package mover

import "math"

// This file implements §4.1, the Path Follower: goal testing, waypoint
// progression, and the path request/retry state machine.

// minGoalDistSq is the squared goal-test threshold (§4.1 "Goal test").
// Build orders must not have their radius inflated by idling hysteresis —
// only move orders do.
func (m *Mover) minGoalDistSq() float64 {
	r := m.GoalRadius
	if m.OrderKind == OrderMove {
		r *= float64(m.NumIdlingSlowUpdates + 1)
	}
	return r * r
}

func (m *Mover) goalReached() bool {
	return DistSqXZ(m.Unit.Pos, m.GoalPos) < m.minGoalDistSq()
}

// turnRadius is (speed * frames_per_full_turn) / (2*pi), used by
// canAdvanceWaypoint's "don't advance too early on a long segment" check.
func (c *Controller) turnRadius(m *Mover) float64 {
	if m.TurnRate <= 0 {
		return 0
	}
	framesPerFullTurn := float64(FullCircle) / m.TurnRate
	return (m.CurrentSpeed * framesPerFullTurn) / (2 * math.Pi)
}

// canAdvanceWaypoint implements four of the gating conditions of §4.1
// (temporary waypoints, turn radius, alignment, square scan); the
// path-updated case is handled by followPath through refreshWaypoints.
func (c *Controller) canAdvanceWaypoint(tick int64, m *Mover) bool {
	if m.CurrWaypoint.Temporary() || m.NextWaypoint.Temporary() {
		return false
	}

	distToCurr := math.Sqrt(DistSqXZ(m.Unit.Pos, m.CurrWaypoint.vec()))

	if distToCurr > 2*c.turnRadius(m) {
		return false
	}

	if distToCurr > c.Config.SquareSize {
		toWP := m.CurrWaypoint.vec().Sub(m.Unit.Pos).FlatXZ().Normalize()
		align := m.FlatFrontDir.Dot(toWP) * signOf(!m.Reversing)
		if align >= 0.995 {
			return false
		}
	}

	if distToCurr > c.Config.SquareSize && c.squareScanBlocked(m.Unit.Pos, m.CurrWaypoint.vec()) {
		c.repathWaypointBlocked(tick, m)
		return false
	}

	return true
}

// repathWaypointBlocked implements §7's WaypointBlocked recovery: a newly
// appeared obstacle on the scan between pos and curr_waypoint triggers an
// internal repath rather than letting the follower advance onto it. Unlike
// PathStalledExceeded/NoPathAvailable/TerminalWaypoint, this is not a
// user-visible failure (§7), so no event is published here.
func (c *Controller) repathWaypointBlocked(tick int64, m *Mover) {
	goal, radius := m.GoalPos, m.GoalRadius
	c.StopMoving(m)
	c.StartMoving(tick, m, goal, radius)
}

// squareScanBlocked walks the Line Table between from and to and reports
// whether any sampled cell is structure-blocked or unwalkable (§4.1 item 4).
func (c *Controller) squareScanBlocked(from, to Vec3) bool {
	if c.LineTable == nil || c.MoveSem == nil {
		return false
	}
	sq := c.Config.SquareSize
	fx, fz := int(from.X/sq), int(from.Z/sq)
	tx, tz := int(to.X/sq), int(to.Z/sq)
	for _, off := range c.LineTable.Sample(fx, fz, tx, tz) {
		bt := c.MoveSem.SquareBlocked("", fx+off.DX, fz+off.DZ, nil)
		if bt&(BlockStructure|BlockTerrain) != 0 {
			return true
		}
	}
	return false
}

// followPath is the per-tick Path Follower entry point.
func (c *Controller) followPath(tick int64, m *Mover) {
	if m.ProgressState != Active {
		return
	}

	if m.PathID == 0 {
		c.maybeRequestPath(tick, m)
		m.WantedSpeed = 0
		return
	}

	if c.Path != nil && c.Path.PathUpdated(m.PathID) {
		// §4.1 transition 5: refresh both waypoints inline, no delete_path.
		c.refreshWaypoints(tick, m)
	}

	if !m.AtEndOfPath {
		if c.canAdvanceWaypoint(tick, m) {
			m.CurrWaypoint = m.NextWaypoint
			if c.Path != nil {
				m.NextWaypoint = c.Path.NextWaypoint(m.Unit, m.PathID, 1, m.CurrWaypoint.vec(), c.Config.SquareSize, true)
			}
			if m.NextWaypoint.Failed() {
				c.fail(tick, m, TerminalWaypoint)
				return
			}
		}
	}

	m.PrevWPDist = m.CurrWPDist
	m.CurrWPDist = math.Sqrt(DistSqXZ(m.Unit.Pos, m.CurrWaypoint.vec()))
	m.WaypointDir = m.CurrWaypoint.vec().Sub(m.Unit.Pos).FlatXZ().Normalize()
	if m.WaypointDir == (Vec3{}) {
		m.WaypointDir = m.FlatFrontDir
	}

	if m.goalReached() {
		atEnd := m.AtEndOfPath || (!m.CurrWaypoint.Temporary() && !m.NextWaypoint.Temporary())
		if atEnd {
			m.CurrWaypoint = Waypoint{X: m.GoalPos.X, Y: m.GoalPos.Y, Z: m.GoalPos.Z}
			m.NextWaypoint = m.CurrWaypoint
			m.AtEndOfPath = true
			c.arrive(tick, m)
			return
		}
	}

	c.updateIdling(m)
}

// refreshWaypoints re-fetches curr/next in place without releasing PathID,
// implementing §4.1 transition 5 and §8 property 8.
func (c *Controller) refreshWaypoints(tick int64, m *Mover) {
	if c.Path == nil {
		return
	}
	m.CurrWaypoint = c.Path.NextWaypoint(m.Unit, m.PathID, 0, m.Unit.Pos, c.Config.SquareSize, true)
	m.NextWaypoint = c.Path.NextWaypoint(m.Unit, m.PathID, 1, m.CurrWaypoint.vec(), c.Config.SquareSize, true)
}

// maybeRequestPath implements the Requesting state of §4.1: a new path may
// only be requested once PathRequestDelay has elapsed.
func (c *Controller) maybeRequestPath(tick int64, m *Mover) {
	if tick < m.PathRequestDelay {
		return
	}
	if c.Path == nil {
		c.fail(tick, m, NoPathAvailable)
		return
	}
	id := c.Path.RequestPath(m.Unit, m.Unit.MoveDef, m.Unit.Pos, m.GoalPos, m.GoalRadius, true)
	if id == 0 {
		c.fail(tick, m, NoPathAvailable)
		return
	}
	m.PathID = id
	m.AtEndOfPath = false
	m.CurrWaypoint = c.Path.NextWaypoint(m.Unit, id, 0, m.Unit.Pos, c.Config.SquareSize, true)
	m.NextWaypoint = c.Path.NextWaypoint(m.Unit, id, 1, m.CurrWaypoint.vec(), c.Config.SquareSize, true)
	if c.Script != nil {
		c.Script.StartMoving(m.Unit.ID)
	}
}

// StartMoving transitions any state to Requesting (§4.1 transitions).
func (c *Controller) StartMoving(tick int64, m *Mover, goal Vec3, radius float64) {
	m.ProgressState = Active
	m.GoalPos = goal
	m.GoalRadius = radius
	m.AtEndOfPath = false
	m.AtGoal = false
	m.NumIdlingSlowUpdates = 0
	m.NumIdlingUpdates = 0
	if m.PathID != 0 && c.Path != nil {
		c.Path.DeletePath(m.PathID)
	}
	m.PathID = 0
	m.PathRequestDelay = tick
}

// StopMoving transitions any state to Idle (§4.1 transitions).
func (c *Controller) StopMoving(m *Mover) {
	if m.PathID != 0 && c.Path != nil {
		c.Path.DeletePath(m.PathID)
	}
	m.PathID = 0
	m.ProgressState = Done
	m.WantedSpeed = 0
	if c.Script != nil {
		c.Script.StopMoving(m.Unit.ID)
	}
}

func (c *Controller) arrive(tick int64, m *Mover) {
	m.ProgressState = Done
	m.AtGoal = true
	if m.PathID != 0 && c.Path != nil {
		c.Path.DeletePath(m.PathID)
	}
	m.PathID = 0
	if c.Script != nil {
		c.Script.Landed(m.Unit.ID)
	}
	c.publish(tick, m, Event{Kind: EventUnitMoved, Unit: m.Unit.ID, Pos: m.Unit.Pos})
}

func (c *Controller) fail(tick int64, m *Mover, reason FailureReason) {
	m.ProgressState = Failed
	if m.PathID != 0 && c.Path != nil {
		c.Path.DeletePath(m.PathID)
	}
	m.PathID = 0
	m.WantedSpeed = 0
	c.publish(tick, m, Event{Kind: EventUnitMoveFailed, Unit: m.Unit.ID, Reason: reason, Pos: m.Unit.Pos})
}

func (c *Controller) publish(tick int64, m *Mover, e Event) {
	if c.Events == nil {
		return
	}
	e.Tick = tick
	c.Events.Publish(e)
}

// updateIdling implements the hysteresis of §4.1 "Idling detection".
func (c *Controller) updateIdling(m *Mover) {
	const epsY = 1e-3

	posDiff := m.Unit.Pos.Sub(m.oldPos)
	m.oldPos = m.Unit.Pos

	noVerticalJitter := math.Abs(posDiff.Y) < epsY*math.Abs(m.Unit.Pos.Y)

	approachAligned := false
	if !m.CurrWaypoint.Temporary() || !m.NextWaypoint.Temporary() {
		// The dot product means this can only succeed while we're oriented
		// toward the waypoint; turning or sidestepping shouldn't read as idling.
		wpDelta := m.CurrWPDist - m.PrevWPDist
		lhs := wpDelta * wpDelta
		rhs := m.FlatFrontDir.Dot(m.WaypointDir) * signOf(!m.Reversing) * posDiff.LenSq() * 0.5
		approachAligned = lhs < rhs
	}

	idling := noVerticalJitter && approachAligned && (!m.CurrWaypoint.Temporary() || !m.NextWaypoint.Temporary())

	if posDiff.LenSq() < 1e-12 {
		m.Unit.Velocity = Vec3{}
		idling = idling && !m.Unit.IsMoving
	}

	m.Idling = idling

	if idling {
		m.NumIdlingUpdates = clampInt(m.NumIdlingUpdates+1, 0, 1<<30)
	} else {
		m.NumIdlingUpdates = clampInt(m.NumIdlingUpdates-1, 0, 1<<30)
	}
}

// handlePersistentIdling implements the Following→repath/Failed transition
// of §4.1 and §7's PathStalled.
func (c *Controller) handlePersistentIdling(tick int64, m *Mover) {
	threshold := 0
	if m.TurnRate > 0 {
		threshold = int(math.MaxInt16 / m.TurnRate)
	}
	if m.NumIdlingUpdates <= threshold {
		return
	}
	if m.NumIdlingSlowUpdates < c.Config.MaxIdlingSlowUpdates {
		slowUpdates := m.NumIdlingSlowUpdates + 1
		goal, radius := m.GoalPos, m.GoalRadius
		c.StopMoving(m)
		c.StartMoving(tick, m, goal, radius)
		// StartMoving resets the slow-update count for a genuinely new order;
		// an internal repath must keep counting toward MaxIdlingSlowUpdates.
		m.NumIdlingSlowUpdates = slowUpdates
		return
	}
	c.fail(tick, m, PathStalledExceeded)
}

// Resume re-requests a path for the saved goal if one was held at
// deserialization time (§3 Lifecycle).
func (c *Controller) Resume(tick int64, m *Mover) {
	if m.PathID == 0 {
		return
	}
	m.PathID = 0
	c.maybeRequestPath(tick, m)
}

// checkArrival latches AtEndOfPath once AtGoal is set, either by arrive or
// by the collision resolver's goal-lock rule (§4.4.1 "Goal-lock arrival").
func (c *Controller) checkArrival(tick int64, m *Mover) {
	if m.AtGoal {
		m.AtEndOfPath = true
	}
}
