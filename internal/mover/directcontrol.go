package mover

import "math"

// This file implements §4.6, Direct Control: the player-piloted mode that
// bypasses the Path Follower and Steering stages with a synthetic waypoint
// placed directly ahead of or behind the unit.

// directControlRange is the fixed distance, in world units, the synthetic
// waypoint is placed ahead of or behind the unit (§4.6).
const directControlRange = 100.0

// DirectControlInput is the player's keyboard-like state for one tick.
type DirectControlInput struct {
	Forward, Back bool
	Left, Right   bool
}

// SetDirectControl toggles direct-piloting mode for a unit (§4.6, §2 step
// 1's dispatcher). Enabling it clears any in-flight path so the unit
// doesn't resume path-following with a stale PathID when control reverts.
func (c *Controller) SetDirectControl(m *Mover, active bool) {
	if active == m.directControlActive {
		return
	}
	m.directControlActive = active
	if active {
		c.StopMoving(m)
	}
}

// SetDirectInput records this tick's player input, read by
// driveDirectControl and the kinematics speed selection in the modeDirect
// dispatch branch.
func (m *Mover) SetDirectInput(in DirectControlInput) {
	m.directInput = in
}

// driveDirectControl implements §4.6's synthetic waypoint and heading
// rules. It is called in place of the ordinary Path Follower when the
// dispatcher selects modeDirect; the speed side of §4.6 is handled by
// kinematics.go's selectTargetSpeed/deltaSpeed, which read m.directInput
// directly during the integrate() call that follows.
func (c *Controller) driveDirectControl(tick int64, m *Mover, mapWidth, mapDepth float64) {
	in := m.directInput
	u := m.Unit

	dist := directControlRange
	if in.Back && !in.Forward {
		dist = -directControlRange
	}

	synthetic := u.Pos.Add(m.FlatFrontDir.Scale(dist))
	synthetic.X = clamp(synthetic.X, 0, mapWidth)
	synthetic.Z = clamp(synthetic.Z, 0, mapDepth)
	m.CurrWaypoint = Waypoint{X: synthetic.X, Y: synthetic.Y, Z: synthetic.Z}
	m.NextWaypoint = m.CurrWaypoint

	switch {
	case in.Left && !in.Right:
		m.WantedHeading = u.Heading - ShortAngle(m.TurnRate)
	case in.Right && !in.Left:
		m.WantedHeading = u.Heading + ShortAngle(m.TurnRate)
	}
}

// deltaSpeedDirect mirrors §4.3's path-controller speed delegation but in
// "fpsMode" (no acceleration ramp) per §4.6: with no acc/dec limit, the
// returned delta always closes the gap to target in a single tick.
func (c *Controller) deltaSpeedDirect(m *Mover, target float64, wantReverse bool) float64 {
	if c.PathCtl == nil {
		return signedDeltaSpeed(target, m.CurrentSpeed, wantReverse, m.Reversing)
	}
	pc := c.PathCtl(m.Unit.ID)
	if pc == nil {
		return signedDeltaSpeed(target, m.CurrentSpeed, wantReverse, m.Reversing)
	}
	return pc.DeltaSpeed(m.PathID, target, m.CurrentSpeed, math.MaxFloat64, math.MaxFloat64, wantReverse, m.Reversing)
}
