package countdown

import "strconv"

// ArcStartAngle is the fixed start of the progress arc in degrees. Angles
// follow screen convention (0° at 3 o'clock, increasing clockwise), so 270°
// is the top of the circle.
const ArcStartAngle = 270.0

// RenderState is the derived data a drawing surface needs to repaint the
// ring for one remaining-time value.
type RenderState struct {
	Remaining  int     // whole seconds left
	Total      int     // configured duration in seconds
	Minutes    int     // Remaining / 60
	Seconds    int     // Remaining % 60
	StartAngle float64 // always ArcStartAngle
	SweepAngle float64 // clockwise extent in degrees, [0, 360]
	Label      string  // "m:s", no zero padding
}

// Project maps a remaining/total pair onto a RenderState. Remaining is
// clamped to [0, total]. A zero total yields an empty ring.
func Project(remaining, total int) RenderState {
	if total < 0 {
		total = 0
	}
	if remaining < 0 {
		remaining = 0
	}
	if remaining > total {
		remaining = total
	}

	return RenderState{
		Remaining:  remaining,
		Total:      total,
		Minutes:    remaining / 60,
		Seconds:    remaining % 60,
		StartAngle: ArcStartAngle,
		SweepAngle: SweepAngle(remaining, total),
		Label:      FormatLabel(remaining),
	}
}

// SweepAngle returns 360 × remaining / total, or 0 when total is zero.
func SweepAngle(remaining, total int) float64 {
	if total <= 0 || remaining <= 0 {
		return 0
	}
	if remaining >= total {
		return 360
	}
	return 360 * float64(remaining) / float64(total)
}

// FormatLabel renders remaining seconds as "minutes:seconds". Seconds are not
// zero-padded: 65 renders as "1:5".
func FormatLabel(remaining int) string {
	if remaining < 0 {
		remaining = 0
	}
	return strconv.Itoa(remaining/60) + ":" + strconv.Itoa(remaining%60)
}

// Fraction returns the remaining share of the ring in [0, 1].
func (s RenderState) Fraction() float64 {
	return s.SweepAngle / 360
}
