package engine

// FeatureWindow is a fixed-capacity ring buffer of recent angle frames.
// Push is O(1); the oldest frame is evicted when the buffer is full.
type FeatureWindow struct {
	frames []AngleFrame
	head   int // index of the oldest frame
	size   int
}

// NewFeatureWindow creates a window holding up to capacity frames.
func NewFeatureWindow(capacity int) *FeatureWindow {
	if capacity < 1 {
		capacity = 1
	}
	return &FeatureWindow{frames: make([]AngleFrame, capacity)}
}

// Push appends a frame, evicting the oldest if the window is full.
func (w *FeatureWindow) Push(f AngleFrame) {
	if w.size < len(w.frames) {
		w.frames[(w.head+w.size)%len(w.frames)] = f
		w.size++
		return
	}
	w.frames[w.head] = f
	w.head = (w.head + 1) % len(w.frames)
}

// Len returns the number of buffered frames.
func (w *FeatureWindow) Len() int { return w.size }

// Clear empties the window.
func (w *FeatureWindow) Clear() {
	w.head = 0
	w.size = 0
}

// at returns the i-th frame counted from the oldest buffered frame.
func (w *FeatureWindow) at(i int) AngleFrame {
	return w.frames[(w.head+i)%len(w.frames)]
}

// ChannelStats holds range and velocity statistics for one angle channel
// over the trailing sub-window.
type ChannelStats struct {
	Channel  int
	Min      float64
	Max      float64
	Range    float64
	Velocity float64 // degrees per frame interval over a fixed short lag
	Last     float64
}

// Stats computes per-channel statistics over the last trailing frames.
// Velocity is |v[-1] - v[-lag]| / (lag-1), the mean per-frame change over
// the lag span. The second return value is false while fewer than trailing
// frames are buffered; callers must treat that as an insufficient-data
// no-op, not an error.
func (w *FeatureWindow) Stats(channels []int, trailing, lag int) ([]ChannelStats, bool) {
	if trailing < 2 || w.size < trailing {
		return nil, false
	}
	if lag < 2 {
		lag = 2
	}
	if lag > trailing {
		lag = trailing
	}

	start := w.size - trailing
	stats := make([]ChannelStats, 0, len(channels))
	for _, ch := range channels {
		if ch < 0 || ch >= ChannelCount {
			continue
		}
		s := ChannelStats{Channel: ch}
		for i := start; i < w.size; i++ {
			v := w.at(i).Angles[ch]
			if i == start || v < s.Min {
				s.Min = v
			}
			if i == start || v > s.Max {
				s.Max = v
			}
		}
		s.Range = s.Max - s.Min
		s.Last = w.at(w.size - 1).Angles[ch]
		prev := w.at(w.size - lag).Angles[ch]
		s.Velocity = abs(s.Last-prev) / float64(lag-1)
		stats = append(stats, s)
	}
	if len(stats) == 0 {
		return nil, false
	}
	return stats, true
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
