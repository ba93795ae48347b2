package engine

import "math"

// canonicalSequence is the phase ordering of a clean repetition cycle.
var canonicalSequence = [...]Phase{PhaseStart, PhaseQuarter, PhasePeak, PhaseReturn, PhaseEnd}

// qualityScore combines range adequacy, velocity consistency, and
// phase-sequence adherence into one score in [0,1]. Missing-data terms
// default to exactly 0.5.
func qualityScore(observedRange float64, velocities []float64, history []Phase) float64 {
	rangeQuality := math.Min(observedRange/60.0, 1.0)

	consistency := 0.5
	if len(velocities) >= 2 {
		mean, std := meanStd(velocities)
		consistency = clamp(1.0-std/(mean+1e-6), 0, 1)
	}

	sequence := sequenceScore(history)

	return rangeQuality*0.4 + consistency*0.3 + sequence*0.3
}

// phaseConfidence estimates confidence in the current phase classification.
// Consistency is measured over the five most recent confidence values,
// which dampens frame-to-frame jitter. Clamped to [0.2, 1.0].
func phaseConfidence(observedRange float64, recentConfidences []float64, history []Phase) float64 {
	rangeQuality := math.Min(observedRange/60.0, 1.0)

	consistency := 0.5
	if len(recentConfidences) > 5 {
		_, std := meanStd(recentConfidences[len(recentConfidences)-5:])
		consistency = clamp(1.0-std, 0, 1)
	}

	sequence := sequenceScore(history)

	return clamp(rangeQuality*0.4+consistency*0.3+sequence*0.3, 0.2, 1.0)
}

// sequenceScore is the fraction of the last 5 committed phases matching the
// canonical cycle positionally, or 0.5 while history is short.
func sequenceScore(history []Phase) float64 {
	if len(history) < 5 {
		return 0.5
	}
	recent := history[len(history)-5:]
	matches := 0
	for i, ph := range recent {
		if ph == canonicalSequence[i] {
			matches++
		}
	}
	return float64(matches) / 5.0
}

func meanStd(vals []float64) (mean, std float64) {
	for _, v := range vals {
		mean += v
	}
	mean /= float64(len(vals))
	for _, v := range vals {
		d := v - mean
		std += d * d
	}
	std = math.Sqrt(std / float64(len(vals)))
	return mean, std
}
