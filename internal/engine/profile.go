package engine

// Category groups exercises with similar movement dynamics. Per-category
// behavior is expressed entirely through profile values.
type Category string

const (
	CategoryDefault   Category = "default"
	CategoryUpperBody Category = "upper_body"
	CategoryLowerBody Category = "lower_body"
	CategoryCore      Category = "core"
	CategoryCardio    Category = "cardio"
)

// Profile holds the per-category thresholds that drive phase classification
// and rep detection. Read-only during a session.
type Profile struct {
	Category            Category `json:"category"`
	MinAngleRange       float64  `json:"min_angle_range"`      // degrees
	StabilityFrames     int      `json:"stability_frames"`     // consensus vote window
	CooldownSeconds     float64  `json:"cooldown_seconds"`     // min time between reps
	ConfidenceThreshold float64  `json:"confidence_threshold"` //
	VelocityThreshold   float64  `json:"velocity_threshold"`   // degrees per frame
	PrimaryChannels     []int    `json:"primary_channels"`     // empty = pick widest-range channel
}

// Cooldowns come from the reference frame counts at 30 fps.
var profiles = map[Category]Profile{
	CategoryDefault: {
		Category:            CategoryDefault,
		MinAngleRange:       25.0,
		StabilityFrames:     3,
		CooldownSeconds:     20.0 / 30.0,
		ConfidenceThreshold: 0.7,
		VelocityThreshold:   1.5,
		PrimaryChannels:     []int{ChanLeftElbow, ChanRightElbow, ChanLeftShoulder, ChanRightShoulder},
	},
	CategoryUpperBody: {
		Category:            CategoryUpperBody,
		MinAngleRange:       30.0,
		StabilityFrames:     3,
		CooldownSeconds:     15.0 / 30.0,
		ConfidenceThreshold: 0.7,
		VelocityThreshold:   2.0,
		PrimaryChannels:     []int{ChanLeftElbow, ChanRightElbow, ChanLeftShoulder, ChanRightShoulder},
	},
	CategoryLowerBody: {
		Category:            CategoryLowerBody,
		MinAngleRange:       35.0,
		StabilityFrames:     3,
		CooldownSeconds:     25.0 / 30.0,
		ConfidenceThreshold: 0.7,
		VelocityThreshold:   1.2,
		PrimaryChannels:     []int{ChanLeftHip, ChanRightHip, ChanLeftKnee, ChanRightKnee},
	},
	CategoryCore: {
		Category:            CategoryCore,
		MinAngleRange:       20.0,
		StabilityFrames:     3,
		CooldownSeconds:     18.0 / 30.0,
		ConfidenceThreshold: 0.7,
		VelocityThreshold:   1.8,
		PrimaryChannels:     []int{ChanLeftShoulder, ChanRightShoulder, ChanLeftHip, ChanRightHip},
	},
	CategoryCardio: {
		Category:            CategoryCardio,
		MinAngleRange:       15.0,
		StabilityFrames:     3,
		CooldownSeconds:     10.0 / 30.0,
		ConfidenceThreshold: 0.7,
		VelocityThreshold:   2.5,
		PrimaryChannels:     []int{ChanLeftElbow, ChanRightElbow, ChanLeftKnee, ChanRightKnee},
	},
}

// ProfileFor returns the threshold profile for a category. Unknown
// categories fall back to the default profile.
func ProfileFor(c Category) Profile {
	if p, ok := profiles[c]; ok {
		return p
	}
	return profiles[CategoryDefault]
}

// Categories lists all known categories.
func Categories() []Category {
	return []Category{CategoryDefault, CategoryUpperBody, CategoryLowerBody, CategoryCore, CategoryCardio}
}
