// Package engine implements per-session movement phase classification,
// repetition counting, and quality scoring over a stream of joint-angle
// frames produced by an external pose estimator.
package engine

// ChannelCount is the number of joint-angle channels in every frame.
const ChannelCount = 8

// Channel indices into AngleFrame.Angles. The order matches the feature
// vector emitted by the pose estimator.
const (
	ChanLeftElbow = iota
	ChanRightElbow
	ChanLeftShoulder
	ChanRightShoulder
	ChanLeftHip
	ChanRightHip
	ChanLeftKnee
	ChanRightKnee
)

// ChannelNames maps channel indices to joint names.
var ChannelNames = [ChannelCount]string{
	"left_elbow", "right_elbow",
	"left_shoulder", "right_shoulder",
	"left_hip", "right_hip",
	"left_knee", "right_knee",
}

// AngleFrame is one processed video frame: eight joint angles in degrees
// (range [0,180]) plus a monotonic arrival timestamp in seconds.
// Immutable once created.
type AngleFrame struct {
	Angles    [ChannelCount]float64 `json:"angles"`
	Timestamp float64               `json:"timestamp"`
}
