package mover

import "math"

// ShortAngle is a 16-bit fixed-point full-circle angle: ±32768 = ±180°.
// Differences between two ShortAngles must wrap through signed overflow so
// that the sign of the result always selects the shorter turn direction —
// see §9 "Short-int angles".
type ShortAngle int16

// FullCircle is the number of ShortAngle units in one full turn.
const FullCircle = 1 << 16

// Delta returns b-a, wrapped to the shortest signed turn from a to b.
func (a ShortAngle) Delta(b ShortAngle) ShortAngle {
	return b - a
}

// HeadingFromDir converts a flat (Y=0) direction vector into a ShortAngle,
// matching the XZ-planar heading convention used by waypoint_dir and
// flat_front_dir throughout the package.
func HeadingFromDir(d Vec3) ShortAngle {
	if d.X == 0 && d.Z == 0 {
		return 0
	}
	rad := math.Atan2(d.X, d.Z)
	return ShortAngle(int32(math.Round(rad / math.Pi * (FullCircle / 2))))
}

// DirFromHeading is the inverse of HeadingFromDir.
func DirFromHeading(h ShortAngle) Vec3 {
	rad := float64(h) / (FullCircle / 2) * math.Pi
	return Vec3{X: math.Sin(rad), Y: 0, Z: math.Cos(rad)}
}

// ClampDelta clips a wanted angular delta to a per-tick turn-rate budget,
// preserving sign. turnRate is in ShortAngle units/tick, matching Mover.TurnRate.
func ClampDelta(delta ShortAngle, turnRate int32) ShortAngle {
	d := int32(delta)
	if d > turnRate {
		return ShortAngle(turnRate)
	}
	if d < -turnRate {
		return ShortAngle(-turnRate)
	}
	return ShortAngle(d)
}

// AngleFraction returns |delta| as a fraction of a full circle, in [0,0.5]
// (a ShortAngle spans at most half a turn).
func AngleFraction(delta ShortAngle) float64 {
	d := int32(delta)
	if d < 0 {
		d = -d
	}
	return float64(d) / float64(FullCircle)
}
