package engine

// repDetector recognizes completed movement cycles. A rep is counted only
// on a committed End→Start transition, after the cooldown since the last
// counted rep has elapsed, with the trailing range above the profile
// minimum, and with at least one Peak in the phase history since the last
// counted rep. Counts at most once per frame and never decrements.
type repDetector struct {
	lastRepTime float64
	counted     bool // a rep has been counted since the last reset
}

func (d *repDetector) completed(prev, committed Phase, history []Phase, now, observedRange float64, p Profile) bool {
	if committed != PhaseStart || prev != PhaseEnd {
		return false
	}
	// The cooldown gates the interval between reps; the first rep of a
	// session is never suppressed, whatever the timestamp origin.
	if d.counted && now-d.lastRepTime <= p.CooldownSeconds {
		return false
	}
	if observedRange <= p.MinAngleRange {
		return false
	}
	for _, ph := range history {
		if ph == PhasePeak {
			d.lastRepTime = now
			d.counted = true
			return true
		}
	}
	return false
}

func (d *repDetector) reset() {
	d.lastRepTime = 0
	d.counted = false
}
