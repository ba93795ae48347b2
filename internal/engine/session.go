package engine

import (
	"fmt"
	"log/slog"
)

// Config sizes the per-session buffers. The defaults cover ~1.5 s of frames
// at 30 fps with a half-second trailing statistics window.
type Config struct {
	WindowSize   int `yaml:"window_size"`
	TrailingSize int `yaml:"trailing_size"`
	VelocityLag  int `yaml:"velocity_lag"`
}

// DefaultConfig returns the standard buffer sizes.
func DefaultConfig() Config {
	return Config{WindowSize: 45, TrailingSize: 15, VelocityLag: 5}
}

// Validate rejects impossible buffer sizes. Zero values are allowed; they
// are filled in from DefaultConfig.
func (c Config) Validate() error {
	if c.WindowSize < 0 || c.TrailingSize < 0 || c.VelocityLag < 0 {
		return fmt.Errorf("engine buffer sizes must be non-negative")
	}
	if c.WindowSize > 0 && c.TrailingSize > c.WindowSize {
		return fmt.Errorf("engine.trailing_size must not exceed engine.window_size")
	}
	if c.VelocityLag == 1 {
		return fmt.Errorf("engine.velocity_lag must be at least 2")
	}
	return nil
}

func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.WindowSize <= 0 {
		c.WindowSize = d.WindowSize
	}
	if c.TrailingSize <= 0 {
		c.TrailingSize = d.TrailingSize
	}
	if c.TrailingSize > c.WindowSize {
		c.TrailingSize = c.WindowSize
	}
	if c.VelocityLag <= 1 {
		c.VelocityLag = d.VelocityLag
	}
}

// historyCap bounds the committed-phase history between counted reps.
const historyCap = 20

// Snapshot is the per-frame result returned by Ingest.
type Snapshot struct {
	RepCount     int      `json:"rep_count"`
	Phase        Phase    `json:"phase"`
	Confidence   float64  `json:"confidence"`
	QualityScore float64  `json:"quality_score"`
	FormScore    float64  `json:"form_score"`
	Corrections  []string `json:"corrections"`
	RepCompleted bool     `json:"rep_completed"`
	AngleRange   float64  `json:"angle_range"`
}

// Summary aggregates a session.
type Summary struct {
	ExerciseID       string   `json:"exercise_id"`
	ExerciseName     string   `json:"exercise_name"`
	Category         Category `json:"category"`
	RepCount         int      `json:"rep_count"`
	DurationSeconds  float64  `json:"duration_seconds"`
	AvgQuality       float64  `json:"avg_quality"`
	AvgConfidence    float64  `json:"avg_confidence"`
	AvgFormScore     float64  `json:"avg_form_score"`
	PhaseTransitions int      `json:"phase_transitions"`
	TotalPhases      int      `json:"total_phases"`
}

// Engine classifies phases and counts reps for exactly one session. It owns
// all session state and performs only bounded-buffer arithmetic per frame —
// no I/O, no blocking. Not safe for concurrent calls; the caller serializes
// frames per session (one goroutine per connection).
type Engine struct {
	log *slog.Logger
	cfg Config

	exerciseID   string
	exerciseName string
	profile      Profile

	window *FeatureWindow
	stab   *stabilizer
	reps   repDetector

	phase       Phase
	history     []Phase // committed phases since the last counted rep
	repCount    int
	transitions int
	totalPhases int

	velocities  []float64 // recent primary velocities
	confidences []float64 // recent confidence values

	qualitySum    float64
	confidenceSum float64
	scoredFrames  int
	formSum       float64
	formFrames    int

	startTime  float64
	lastTime   float64
	framesSeen int
}

// New creates an engine with the default profile bound. Start rebinds it to
// a concrete exercise.
func New(cfg Config, log *slog.Logger) *Engine {
	cfg.applyDefaults()
	if log == nil {
		log = slog.Default()
	}
	e := &Engine{
		log:     log,
		cfg:     cfg,
		profile: ProfileFor(CategoryDefault),
	}
	e.window = NewFeatureWindow(cfg.WindowSize)
	e.stab = newStabilizer(e.profile.StabilityFrames)
	return e
}

// Start binds the session to an exercise profile and resets all counters
// and buffers.
func (e *Engine) Start(exerciseID, exerciseName string, p Profile) {
	e.exerciseID = exerciseID
	e.exerciseName = exerciseName
	e.profile = p
	e.Reset()
}

// Reset zeroes the rep count, clears all buffers, and returns the phase to
// Start. The exercise binding is kept. Idempotent.
func (e *Engine) Reset() {
	e.window.Clear()
	e.stab = newStabilizer(e.profile.StabilityFrames)
	e.reps.reset()
	e.phase = PhaseStart
	e.history = e.history[:0]
	e.repCount = 0
	e.transitions = 0
	e.totalPhases = 0
	e.velocities = e.velocities[:0]
	e.confidences = e.confidences[:0]
	e.qualitySum = 0
	e.confidenceSum = 0
	e.scoredFrames = 0
	e.formSum = 0
	e.formFrames = 0
	e.startTime = 0
	e.lastTime = 0
	e.framesSeen = 0
}

// Profile returns the bound exercise profile.
func (e *Engine) Profile() Profile { return e.profile }

// RepCount returns the current repetition count.
func (e *Engine) RepCount() int { return e.repCount }

// Ingest processes one frame and returns the updated session snapshot. A
// nil frame is the estimator's "no landmarks" signal: the current state is
// held and nothing is buffered. Rep count is monotonically non-decreasing
// across calls.
func (e *Engine) Ingest(f *AngleFrame) Snapshot {
	if f == nil {
		return Snapshot{
			RepCount:     e.repCount,
			Phase:        e.phase,
			Confidence:   0.5,
			QualityScore: 0.5,
		}
	}
	frame := *f

	now := frame.Timestamp
	if e.framesSeen == 0 {
		e.startTime = now
	} else if now <= e.lastTime {
		// Accept the frame but do not let time run backwards; velocity is
		// frame-lag based so only the cooldown clock is affected.
		e.log.Warn("stale frame timestamp", "timestamp", now, "last", e.lastTime)
		now = e.lastTime
	}
	e.lastTime = now
	e.framesSeen++
	e.window.Push(frame)

	formScore, corrections := analyzeForm(frame, e.profile.Category)
	e.formSum += formScore
	e.formFrames++

	m, ok := selectMovement(e.window, e.profile, e.cfg.TrailingSize, e.cfg.VelocityLag)
	if !ok {
		// Insufficient data: hold the previous phase, neutral scores.
		return Snapshot{
			RepCount:     e.repCount,
			Phase:        e.phase,
			Confidence:   0.5,
			QualityScore: 0.5,
			FormScore:    formScore,
			Corrections:  corrections,
		}
	}
	e.pushBounded(&e.velocities, m.Velocity, e.cfg.TrailingSize)

	candidate := Classify(e.phase, m, e.profile)
	repCompleted := false
	if e.stab.Observe(candidate, e.phase) {
		prev := e.phase
		e.phase = candidate
		e.appendHistory(candidate)
		e.transitions++
		e.totalPhases++
		e.log.Debug("phase transition", "from", prev.String(), "to", candidate.String())

		if e.reps.completed(prev, candidate, e.history, now, m.Range, e.profile) {
			e.repCount++
			e.history = e.history[:0]
			repCompleted = true
			e.log.Info("rep completed",
				"rep", e.repCount,
				"exercise", e.exerciseName,
				"range", m.Range,
			)
		}
	}

	quality := qualityScore(m.Range, e.velocities, e.history)
	confidence := phaseConfidence(m.Range, e.confidences, e.history)
	e.pushBounded(&e.confidences, confidence, 30)
	e.qualitySum += quality
	e.confidenceSum += confidence
	e.scoredFrames++

	return Snapshot{
		RepCount:     e.repCount,
		Phase:        e.phase,
		Confidence:   confidence,
		QualityScore: quality,
		FormScore:    formScore,
		Corrections:  corrections,
		RepCompleted: repCompleted,
		AngleRange:   m.Range,
	}
}

// Summary returns the session aggregate so far.
func (e *Engine) Summary() Summary {
	s := Summary{
		ExerciseID:       e.exerciseID,
		ExerciseName:     e.exerciseName,
		Category:         e.profile.Category,
		RepCount:         e.repCount,
		DurationSeconds:  e.lastTime - e.startTime,
		PhaseTransitions: e.transitions,
		TotalPhases:      e.totalPhases,
	}
	if e.scoredFrames > 0 {
		s.AvgQuality = e.qualitySum / float64(e.scoredFrames)
		s.AvgConfidence = e.confidenceSum / float64(e.scoredFrames)
	}
	if e.formFrames > 0 {
		s.AvgFormScore = e.formSum / float64(e.formFrames)
	}
	return s
}

func (e *Engine) appendHistory(p Phase) {
	if len(e.history) == historyCap {
		copy(e.history, e.history[1:])
		e.history[len(e.history)-1] = p
		return
	}
	e.history = append(e.history, p)
}

func (e *Engine) pushBounded(buf *[]float64, v float64, cap int) {
	b := *buf
	if len(b) == cap {
		copy(b, b[1:])
		b[len(b)-1] = v
	} else {
		b = append(b, v)
	}
	*buf = b
}
