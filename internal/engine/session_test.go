package engine

import (
	"log/slog"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func testProfile() Profile {
	return Profile{
		Category:            CategoryDefault,
		MinAngleRange:       25,
		StabilityFrames:     3,
		CooldownSeconds:     0.5,
		ConfidenceThreshold: 0.7,
		VelocityThreshold:   1.5,
		PrimaryChannels:     []int{0},
	}
}

// cycleValues is one synthetic repetition on the primary channel: a fast
// concentric ramp, a fast eccentric ramp, a deceleration into the baseline,
// a pause, and the explosive first frames of the next rep that carry the
// committed phase back to Start.
func cycleValues() []float64 {
	var vals []float64
	for v := 70.0; v <= 170; v += 10 { // rise: position high, velocity high
		vals = append(vals, v)
	}
	for v := 160.0; v >= 70; v -= 10 { // fall: position low, velocity high
		vals = append(vals, v)
	}
	vals = append(vals, 66, 63, 61, 60)          // decelerate into baseline
	vals = append(vals, 60, 60, 60, 60, 60, 60, 60) // pause: velocity near zero
	vals = append(vals, 75, 90)                  // kick-off of the next rep
	return vals
}

// feed ingests values on channel 0 at 30 fps starting from frame index
// offset, collecting every snapshot.
func feed(e *Engine, vals []float64, offset int) []Snapshot {
	snaps := make([]Snapshot, 0, len(vals))
	for i, v := range vals {
		f := frameWith(0, v, float64(offset+i)/30.0)
		snaps = append(snaps, e.Ingest(&f))
	}
	return snaps
}

func warmup(n int) []float64 {
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = 60
	}
	return vals
}

// committedSequence extracts the distinct committed phases in order.
func committedSequence(snaps []Snapshot) []Phase {
	var seq []Phase
	prev := PhaseStart
	for _, s := range snaps {
		if s.Phase != prev {
			seq = append(seq, s.Phase)
			prev = s.Phase
		}
	}
	return seq
}

// TestEndToEndSingleRep feeds one synthetic 60-frame repetition and expects
// exactly one full phase cycle and exactly one counted rep.
func TestEndToEndSingleRep(t *testing.T) {
	e := New(DefaultConfig(), testLogger())
	e.Start("xiA6lRr", "dumbbell seated bicep curl", testProfile())

	vals := append(warmup(15), cycleValues()...)
	for len(vals) < 60 {
		vals = append(vals, 90)
	}
	snaps := feed(e, vals, 0)

	if e.RepCount() != 1 {
		t.Fatalf("rep count = %d, want 1", e.RepCount())
	}

	seq := committedSequence(snaps)
	wantCycle := []Phase{PhaseQuarter, PhasePeak, PhaseReturn, PhaseEnd, PhaseStart}
	if len(seq) < len(wantCycle) {
		t.Fatalf("committed sequence %v shorter than full cycle", seq)
	}
	for i, want := range wantCycle {
		if seq[i] != want {
			t.Fatalf("committed sequence %v, want prefix %v", seq, wantCycle)
		}
	}

	// The rep fires on the End→Start commit, exactly once.
	reps := 0
	for _, s := range snaps {
		if s.RepCompleted {
			reps++
			if s.Phase != PhaseStart {
				t.Errorf("rep completed in phase %v, want start", s.Phase)
			}
		}
	}
	if reps != 1 {
		t.Errorf("rep-completed snapshots = %d, want 1", reps)
	}
}

// TestRepCountMonotonic verifies the count never decreases across frames.
func TestRepCountMonotonic(t *testing.T) {
	e := New(DefaultConfig(), testLogger())
	e.Start("x", "test", testProfile())

	vals := append(warmup(15), cycleValues()...)
	vals = append(vals, cycleValues()...)
	last := 0
	for i, v := range vals {
		f := frameWith(0, v, float64(i)/30.0)
		s := e.Ingest(&f)
		if s.RepCount < last {
			t.Fatalf("rep count decreased from %d to %d at frame %d", last, s.RepCount, i)
		}
		last = s.RepCount
	}
}

// TestInsufficientRangeCountsNothing compresses the same movement shape to
// a ~10 degree amplitude, below the 25 degree minimum: no phase changes, no
// reps.
func TestInsufficientRangeCountsNothing(t *testing.T) {
	e := New(DefaultConfig(), testLogger())
	e.Start("x", "test", testProfile())

	vals := append(warmup(15), cycleValues()...)
	for i, v := range vals {
		vals[i] = 60 + (v-60)*10.0/110.0
	}
	snaps := feed(e, vals, 0)

	if e.RepCount() != 0 {
		t.Fatalf("rep count = %d, want 0", e.RepCount())
	}
	for i, s := range snaps {
		if s.Phase != PhaseStart {
			t.Fatalf("phase changed to %v at frame %d despite insufficient range", s.Phase, i)
		}
	}
}

// TestCooldownSuppressesSecondRep runs two back-to-back cycles under a
// cooldown longer than the whole session: only the first may count.
func TestCooldownSuppressesSecondRep(t *testing.T) {
	p := testProfile()
	p.CooldownSeconds = 1000

	e := New(DefaultConfig(), testLogger())
	e.Start("x", "test", p)

	vals := append(warmup(15), cycleValues()...)
	vals = append(vals, cycleValues()...)
	feed(e, vals, 0)

	if e.RepCount() != 1 {
		t.Errorf("rep count = %d, want 1 (second cycle inside cooldown)", e.RepCount())
	}
}

// TestTwoCyclesTwoReps verifies the same double-cycle input counts two reps
// once the cooldown allows it.
func TestTwoCyclesTwoReps(t *testing.T) {
	e := New(DefaultConfig(), testLogger())
	e.Start("x", "test", testProfile())

	vals := append(warmup(15), cycleValues()...)
	vals = append(vals, cycleValues()...)
	feed(e, vals, 0)

	if e.RepCount() != 2 {
		t.Errorf("rep count = %d, want 2", e.RepCount())
	}
}

// TestResetIdempotent verifies two consecutive resets leave identical state.
func TestResetIdempotent(t *testing.T) {
	e := New(DefaultConfig(), testLogger())
	e.Start("x", "test", testProfile())
	feed(e, append(warmup(15), cycleValues()...), 0)

	e.Reset()
	first := e.Summary()
	firstSnap := e.Ingest(nil)

	e.Reset()
	second := e.Summary()
	secondSnap := e.Ingest(nil)

	if first != second {
		t.Errorf("summaries differ after double reset: %+v vs %+v", first, second)
	}
	if firstSnap.RepCount != 0 || firstSnap.Phase != PhaseStart {
		t.Errorf("state after reset: reps=%d phase=%v, want 0/start", firstSnap.RepCount, firstSnap.Phase)
	}
	if firstSnap.RepCount != secondSnap.RepCount || firstSnap.Phase != secondSnap.Phase {
		t.Errorf("snapshots differ after double reset")
	}
}

// TestNilFrameHoldsState verifies the "no landmarks" signal is a no-op:
// nothing is buffered and the current state is held.
func TestNilFrameHoldsState(t *testing.T) {
	e := New(DefaultConfig(), testLogger())
	e.Start("x", "test", testProfile())
	feed(e, warmup(10), 0)

	before := e.window.Len()
	s := e.Ingest(nil)
	if e.window.Len() != before {
		t.Errorf("nil frame was buffered")
	}
	if s.Phase != PhaseStart || s.RepCount != 0 {
		t.Errorf("nil frame changed state: %+v", s)
	}
	if s.Confidence != 0.5 || s.QualityScore != 0.5 {
		t.Errorf("nil frame scores = %v/%v, want 0.5/0.5", s.Confidence, s.QualityScore)
	}
}

// TestStaleTimestampsAccepted verifies non-increasing timestamps are
// buffered without faulting and the session clock never runs backwards.
func TestStaleTimestampsAccepted(t *testing.T) {
	e := New(DefaultConfig(), testLogger())
	e.Start("x", "test", testProfile())

	f1 := frameWith(0, 90, 1.0)
	f2 := frameWith(0, 95, 0.5) // stale
	e.Ingest(&f1)
	e.Ingest(&f2)

	if e.window.Len() != 2 {
		t.Errorf("stale frame not buffered: len = %d", e.window.Len())
	}
	if d := e.Summary().DurationSeconds; d < 0 {
		t.Errorf("duration went negative: %v", d)
	}
}

// TestSummaryAggregates feeds one rep and checks the summary fields are
// populated coherently.
func TestSummaryAggregates(t *testing.T) {
	e := New(DefaultConfig(), testLogger())
	e.Start("xiA6lRr", "dumbbell seated bicep curl", testProfile())
	feed(e, append(warmup(15), cycleValues()...), 0)

	s := e.Summary()
	if s.RepCount != 1 {
		t.Errorf("summary rep count = %d, want 1", s.RepCount)
	}
	if s.ExerciseID != "xiA6lRr" || s.ExerciseName != "dumbbell seated bicep curl" {
		t.Errorf("summary exercise = %q/%q", s.ExerciseID, s.ExerciseName)
	}
	if s.DurationSeconds <= 0 {
		t.Errorf("duration = %v, want > 0", s.DurationSeconds)
	}
	if s.PhaseTransitions < 5 {
		t.Errorf("phase transitions = %d, want >= 5", s.PhaseTransitions)
	}
	if s.AvgQuality <= 0 || s.AvgQuality > 1 {
		t.Errorf("avg quality = %v outside (0,1]", s.AvgQuality)
	}
	if s.AvgConfidence < 0.2 || s.AvgConfidence > 1 {
		t.Errorf("avg confidence = %v outside [0.2,1]", s.AvgConfidence)
	}
}
