package engine

// stabilizer filters raw classifier output before a phase change is
// committed. A candidate must win a majority of recent votes and lie on a
// legal transition edge; single noisy frames are discarded silently and the
// committed phase persists.
type stabilizer struct {
	votes []Phase
	cap   int
}

func newStabilizer(stabilityFrames int) *stabilizer {
	if stabilityFrames < 1 {
		stabilityFrames = 1
	}
	return &stabilizer{cap: stabilityFrames}
}

// Observe records one candidate vote and reports whether the candidate
// should be committed as the new phase. Commit requires the vote buffer to
// be full, at least 2 votes for the candidate among the last cap votes, a
// candidate differing from the current phase, and a legal transition edge.
func (s *stabilizer) Observe(candidate, current Phase) bool {
	if len(s.votes) == s.cap {
		copy(s.votes, s.votes[1:])
		s.votes[len(s.votes)-1] = candidate
	} else {
		s.votes = append(s.votes, candidate)
	}
	if len(s.votes) < s.cap {
		return false
	}

	count := 0
	for _, v := range s.votes {
		if v == candidate {
			count++
		}
	}
	if count < 2 {
		return false
	}
	if candidate == current {
		return false
	}
	return transitionAllowed(current, candidate)
}

// Reset clears the vote buffer.
func (s *stabilizer) Reset() {
	s.votes = s.votes[:0]
}
