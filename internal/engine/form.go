package engine

import "fmt"

// Left/right asymmetry above these thresholds (degrees) produces a
// correction cue.
const (
	elbowSymmetryLimit    = 20.0
	shoulderSymmetryLimit = 25.0
	hipSymmetryLimit      = 15.0
	kneeSymmetryLimit     = 20.0
)

// analyzeForm scores body symmetry for the frame and produces correction
// cues, including category-specific ones. The score is
// 1 - sum(asymmetries)/240 clamped to [0.2, 1.0].
func analyzeForm(f AngleFrame, category Category) (float64, []string) {
	var corrections []string

	elbowDiff := abs(f.Angles[ChanLeftElbow] - f.Angles[ChanRightElbow])
	shoulderDiff := abs(f.Angles[ChanLeftShoulder] - f.Angles[ChanRightShoulder])
	hipDiff := abs(f.Angles[ChanLeftHip] - f.Angles[ChanRightHip])
	kneeDiff := abs(f.Angles[ChanLeftKnee] - f.Angles[ChanRightKnee])

	if elbowDiff > elbowSymmetryLimit {
		corrections = append(corrections, fmt.Sprintf("Uneven arm movement: %.1f° difference", elbowDiff))
	}
	if shoulderDiff > shoulderSymmetryLimit {
		corrections = append(corrections, fmt.Sprintf("Shoulder imbalance: %.1f° difference", shoulderDiff))
	}
	if hipDiff > hipSymmetryLimit {
		corrections = append(corrections, fmt.Sprintf("Hip asymmetry: %.1f° difference", hipDiff))
	}
	if kneeDiff > kneeSymmetryLimit {
		corrections = append(corrections, fmt.Sprintf("Uneven leg position: %.1f° difference", kneeDiff))
	}

	switch category {
	case CategoryUpperBody:
		if min(f.Angles[ChanLeftElbow], f.Angles[ChanRightElbow]) > 160 {
			corrections = append(corrections, "Bend elbows more for better muscle activation")
		}
		if max(f.Angles[ChanLeftShoulder], f.Angles[ChanRightShoulder]) > 45 {
			corrections = append(corrections, "Keep elbows closer to body")
		}
	case CategoryLowerBody:
		if min(f.Angles[ChanLeftKnee], f.Angles[ChanRightKnee]) > 140 {
			corrections = append(corrections, "Bend knees more through the movement")
		}
		if max(f.Angles[ChanLeftHip], f.Angles[ChanRightHip]) < 90 {
			corrections = append(corrections, "Push hips back more")
		}
	}

	score := clamp(1.0-(elbowDiff+shoulderDiff+hipDiff+kneeDiff)/240.0, 0.2, 1.0)
	return score, corrections
}
