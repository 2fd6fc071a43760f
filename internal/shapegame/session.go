package shapegame

import (
	"math/rand/v2"
	"time"
)

// Session defaults.
const (
	DefaultShapeCount = 5
	DefaultDuration   = 60 * time.Second
)

// State is the session lifecycle phase.
type State string

const (
	StateNotStarted State = "not_started"
	StateRunning    State = "running"
	StateOver       State = "over"
)

// Config holds the tunable parameters of a session.
type Config struct {
	ShapeCount int
	Duration   time.Duration
}

// DefaultConfig returns a Config with 5 shapes and a 60 second countdown.
func DefaultConfig() Config {
	return Config{
		ShapeCount: DefaultShapeCount,
		Duration:   DefaultDuration,
	}
}

// HitResult describes the outcome of a single pointer update.
type HitResult struct {
	Hit     bool   `json:"hit"`
	Matched bool   `json:"matched"`
	Score   int    `json:"score"`
	Shape   *Shape `json:"shape,omitempty"`
}

// Snapshot is a read-only copy of the session for rendering and broadcasting.
type Snapshot struct {
	State     State         `json:"state"`
	Remaining time.Duration `json:"-"`
	Seconds   int           `json:"remaining_seconds"`
	Over      bool          `json:"over"`
	Score     int           `json:"score"`
	Hits      int           `json:"hits"`
	Misses    int           `json:"misses"`
	Shapes    []Shape       `json:"shapes"`
	Goal      *Shape        `json:"goal,omitempty"`
	GoalIndex int           `json:"goal_index"`
}

// Session is one timed play-through. It is not safe for concurrent use; the
// frame loop that owns it calls Tick and OnPointerUpdate from a single goroutine.
type Session struct {
	config    Config
	placer    *Placer
	bounds    Bounds
	shapes    []*Shape
	goal      *Shape
	score     int
	hits      int
	misses    int
	startTime time.Time
	remaining time.Duration
	state     State
}

// NewSession creates a session in the NotStarted state. Zero config fields
// are replaced by their defaults; a negative shape count makes Start fail.
func NewSession(config Config, rng *rand.Rand) *Session {
	if config.ShapeCount == 0 {
		config.ShapeCount = DefaultShapeCount
	}
	if config.Duration <= 0 {
		config.Duration = DefaultDuration
	}

	return &Session{
		config:    config,
		placer:    NewPlacer(rng),
		remaining: config.Duration,
		state:     StateNotStarted,
	}
}

// Start places a new field, picks the goal and starts the countdown at now.
// Placement errors are returned unchanged and leave the session untouched.
func (s *Session) Start(bounds Bounds, now time.Time) error {
	shapes, err := s.placer.Generate(s.config.ShapeCount, bounds)
	if err != nil {
		return err
	}

	s.bounds = bounds
	s.shapes = shapes
	s.goal = s.placer.Pick(shapes)
	s.score = 0
	s.hits = 0
	s.misses = 0
	s.startTime = now
	s.remaining = s.config.Duration
	s.state = StateRunning

	return nil
}

// SetBounds changes the field used by later regenerations, e.g. after the
// capture resolution changed. Invalid bounds are rejected and the previous
// ones kept.
func (s *Session) SetBounds(bounds Bounds) error {
	if err := bounds.Validate(); err != nil {
		return err
	}
	s.bounds = bounds
	return nil
}

// Bounds returns the field bounds used for regeneration.
func (s *Session) Bounds() Bounds {
	return s.bounds
}

// OnPointerUpdate hit-tests the pointer against the field in stored order.
// The first shape whose hit box contains the pointer scores +1 when its color
// matches the goal and -1 otherwise, and the whole field is regenerated.
//
// Pointer updates are accepted in every state and never fail: a session that
// has not started has no shapes, and an over session keeps scoring.
func (s *Session) OnPointerUpdate(x, y int) HitResult {
	var hit *Shape
	for _, shape := range s.shapes {
		if shape.Contains(x, y) {
			hit = shape
			break
		}
	}
	if hit == nil {
		return HitResult{Hit: false, Score: s.score}
	}

	matched := hit.Color == s.goal.Color
	if matched {
		s.score++
		s.hits++
	} else {
		s.score--
		s.misses++
	}

	// On a failed regeneration the previous field stays, so the goal is never stale.
	if shapes, err := s.placer.Generate(s.config.ShapeCount, s.bounds); err == nil {
		s.shapes = shapes
		s.goal = s.placer.Pick(shapes)
	}

	caught := *hit
	return HitResult{
		Hit:     true,
		Matched: matched,
		Score:   s.score,
		Shape:   &caught,
	}
}

// Tick advances the countdown to now and returns the render snapshot.
// Once the session is over it stays over and remaining stays zero.
func (s *Session) Tick(now time.Time) Snapshot {
	if s.state == StateRunning {
		remaining := s.config.Duration - now.Sub(s.startTime)
		if remaining <= 0 {
			remaining = 0
			s.state = StateOver
		}
		s.remaining = remaining
	}

	return s.Snapshot()
}

// Snapshot returns the current render view without advancing time.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		State:     s.state,
		Remaining: s.remaining,
		Seconds:   int(s.remaining / time.Second),
		Over:      s.state == StateOver,
		Score:     s.score,
		Hits:      s.hits,
		Misses:    s.misses,
		Shapes:    make([]Shape, len(s.shapes)),
		GoalIndex: -1,
	}

	for i, shape := range s.shapes {
		snap.Shapes[i] = *shape
		if shape == s.goal {
			snap.GoalIndex = i
		}
	}
	if s.goal != nil {
		goal := *s.goal
		snap.Goal = &goal
	}

	return snap
}

// Shapes returns the current field. The slice is shared; callers must not modify it.
func (s *Session) Shapes() []*Shape {
	return s.shapes
}

// Goal returns the current goal shape, which is always an element of Shapes.
func (s *Session) Goal() *Shape {
	return s.goal
}

// Score returns the current score.
func (s *Session) Score() int {
	return s.score
}

// Hits returns the number of color-matching catches.
func (s *Session) Hits() int {
	return s.hits
}

// Misses returns the number of wrong-color catches.
func (s *Session) Misses() int {
	return s.misses
}

// State returns the lifecycle phase.
func (s *Session) State() State {
	return s.state
}

// IsOver reports whether the countdown has expired.
func (s *Session) IsOver() bool {
	return s.state == StateOver
}

// StartTime returns when the session was started.
func (s *Session) StartTime() time.Time {
	return s.startTime
}

// Config returns the session configuration.
func (s *Session) Config() Config {
	return s.config
}
