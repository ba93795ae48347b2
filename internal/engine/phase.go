package engine

import "fmt"

// Phase is one of the five movement phases of a repetition cycle.
type Phase int

const (
	PhaseStart Phase = iota
	PhaseQuarter
	PhasePeak
	PhaseReturn
	PhaseEnd
)

var phaseNames = [...]string{"start", "quarter", "peak", "return", "end"}

func (p Phase) String() string {
	if p < PhaseStart || p > PhaseEnd {
		return "unknown"
	}
	return phaseNames[p]
}

// MarshalText makes Phase render as its lowercase name in JSON.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText parses the lowercase phase name.
func (p *Phase) UnmarshalText(text []byte) error {
	name := string(text)
	for i, n := range phaseNames {
		if n == name {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", name)
}

// validTransitions lists the edges a committed phase may move along.
// Anything else is rejected by the stabilizer regardless of consensus.
var validTransitions = map[Phase][]Phase{
	PhaseStart:   {PhaseQuarter},
	PhaseQuarter: {PhasePeak, PhaseStart},
	PhasePeak:    {PhaseReturn},
	PhaseReturn:  {PhaseEnd, PhasePeak},
	PhaseEnd:     {PhaseStart},
}

func transitionAllowed(from, to Phase) bool {
	for _, p := range validTransitions[from] {
		if p == to {
			return true
		}
	}
	return false
}

// Classify maps the current movement metrics to a candidate next phase,
// evaluated only from the committed phase. Below the profile's minimum
// range the current phase is held: there is not enough evidence to
// reclassify. The End state deliberately requires a pause (low velocity)
// followed by renewed fast movement before re-entering Start, so an
// oscillating limb is not counted as multiple reps.
func Classify(current Phase, m Movement, p Profile) Phase {
	if m.Range < p.MinAngleRange {
		return current
	}

	position := 0.5
	if m.WindowMax > m.WindowMin {
		position = clamp((m.PrimaryValue-m.WindowMin)/(m.WindowMax-m.WindowMin), 0, 1)
	}
	vThresh := p.VelocityThreshold

	switch current {
	case PhaseStart:
		if position > 0.25 && m.Velocity > vThresh {
			return PhaseQuarter
		}
	case PhaseQuarter:
		if position > 0.70 && m.Velocity > 0.8*vThresh {
			return PhasePeak
		}
		if position < 0.15 {
			return PhaseStart
		}
	case PhasePeak:
		if position < 0.60 && m.Velocity > 0.6*vThresh {
			return PhaseReturn
		}
	case PhaseReturn:
		if position < 0.20 && m.Velocity < 0.5*vThresh {
			return PhaseEnd
		}
		if position > 0.70 {
			return PhasePeak
		}
	case PhaseEnd:
		if m.Velocity < 1.0 && position < 0.15 {
			return PhaseEnd
		}
		if m.Velocity > vThresh && position > 0.20 {
			return PhaseStart
		}
	}
	return current
}
