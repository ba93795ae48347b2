package engine

// Movement summarizes the dominant movement channel for the current frame:
// which channel moved the most, where its latest value sits, and how fast
// the primary channels are moving.
type Movement struct {
	PrimaryChannel int
	PrimaryValue   float64
	WindowMin      float64
	WindowMax      float64
	Range          float64
	Velocity       float64 // max velocity across the candidate channels
}

// selectMovement picks the primary movement channel for this frame. When the
// profile carries a fixed channel set, the widest-range channel within that
// set wins; otherwise all channels are candidates. Ties break to the lowest
// channel index. Recomputed every frame, so the dominant joint may shift as
// the movement shape shifts. Returns false on insufficient data.
func selectMovement(w *FeatureWindow, p Profile, trailing, lag int) (Movement, bool) {
	candidates := p.PrimaryChannels
	if len(candidates) == 0 {
		candidates = allChannels
	}
	stats, ok := w.Stats(candidates, trailing, lag)
	if !ok {
		return Movement{}, false
	}

	best := 0
	maxVel := stats[0].Velocity
	for i := 1; i < len(stats); i++ {
		if stats[i].Range > stats[best].Range {
			best = i
		}
		if stats[i].Velocity > maxVel {
			maxVel = stats[i].Velocity
		}
	}
	s := stats[best]
	return Movement{
		PrimaryChannel: s.Channel,
		PrimaryValue:   s.Last,
		WindowMin:      s.Min,
		WindowMax:      s.Max,
		Range:          s.Range,
		Velocity:       maxVel,
	}, true
}

var allChannels = []int{0, 1, 2, 3, 4, 5, 6, 7}
