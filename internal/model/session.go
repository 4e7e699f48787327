package model

import (
	"time"

	"github.com/google/uuid"
)

// BuildOutcome is the resolution of a single attempt's build.
type BuildOutcome int

const (
	BuildPending BuildOutcome = iota
	BuildSuccess
	BuildFailure
)

// String returns a human-readable outcome name.
func (o BuildOutcome) String() string {
	switch o {
	case BuildSuccess:
		return "success"
	case BuildFailure:
		return "failure"
	default:
		return "pending"
	}
}

// Attempt is one generate-then-build cycle within a session. Once its
// build outcome is resolved the attempt is not mutated again.
type Attempt struct {
	Index          int
	Source         string
	GenerationTime time.Duration
	LOC            int
	Outcome        BuildOutcome
	Diagnostic     string
}

// Outcome is the terminal state of a refinement session. Time and attempt
// exhaustion are expected terminations of a bounded search, not errors.
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeSucceeded
	OutcomeExhaustedTime
	OutcomeExhaustedAttempts
)

// String returns a human-readable outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeExhaustedTime:
		return "exhausted_time"
	case OutcomeExhaustedAttempts:
		return "exhausted_attempts"
	default:
		return "pending"
	}
}

// Session is the full bounded refinement run from initial prompt to
// terminal state. It exclusively owns its Attempt sequence and lives only
// for the duration of the process; the numbered archive files on disk are
// the sole cross-run artifacts.
type Session struct {
	ID                uuid.UUID
	Model             string
	AttemptLimit      int
	TimeBudget        time.Duration
	CumulativeGenTime time.Duration
	Attempts          []Attempt
	SourcePath        string
	BaseName          string
	ArtifactPath      string
	Outcome           Outcome
}

// NewSession creates a session in its initial state.
func NewSession(modelID string, attemptLimit int, timeBudget time.Duration, sourcePath, baseName string) *Session {
	return &Session{
		ID:           uuid.New(),
		Model:        modelID,
		AttemptLimit: attemptLimit,
		TimeBudget:   timeBudget,
		SourcePath:   sourcePath,
		BaseName:     baseName,
	}
}

// RecordAttempt appends a pending attempt and adds its generation time to
// the cumulative total. Cumulative time only ever grows, by exactly the
// latency of each recorded attempt.
func (s *Session) RecordAttempt(a Attempt) {
	a.Index = len(s.Attempts) + 1
	a.Outcome = BuildPending
	s.CumulativeGenTime += a.GenerationTime
	s.Attempts = append(s.Attempts, a)
}

// LastAttempt returns the most recent attempt, or nil before the first
// generation.
func (s *Session) LastAttempt() *Attempt {
	if len(s.Attempts) == 0 {
		return nil
	}
	return &s.Attempts[len(s.Attempts)-1]
}

// ResolveLast sets the build outcome of the most recent attempt.
func (s *Session) ResolveLast(outcome BuildOutcome, diagnostic string) {
	if a := s.LastAttempt(); a != nil {
		a.Outcome = outcome
		a.Diagnostic = diagnostic
	}
}

// TimeExhausted reports whether the cumulative generation time has reached
// the session's time budget.
func (s *Session) TimeExhausted() bool {
	return s.CumulativeGenTime >= s.TimeBudget
}
