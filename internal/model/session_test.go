package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAttemptAccumulates(t *testing.T) {
	s := NewSession("m", 5, time.Minute, "foo.cpp", "foo")
	require.Nil(t, s.LastAttempt())

	s.RecordAttempt(Attempt{GenerationTime: 123 * time.Millisecond})
	s.RecordAttempt(Attempt{GenerationTime: 456 * time.Millisecond})

	assert.Equal(t, 579*time.Millisecond, s.CumulativeGenTime)
	assert.Equal(t, 1, s.Attempts[0].Index)
	assert.Equal(t, 2, s.Attempts[1].Index)
	assert.Equal(t, BuildPending, s.LastAttempt().Outcome)
}

func TestResolveLast(t *testing.T) {
	s := NewSession("m", 5, time.Minute, "foo.cpp", "foo")
	s.RecordAttempt(Attempt{})
	s.ResolveLast(BuildFailure, "undefined reference")

	assert.Equal(t, BuildFailure, s.LastAttempt().Outcome)
	assert.Equal(t, "undefined reference", s.LastAttempt().Diagnostic)
}

func TestTimeExhaustedBoundary(t *testing.T) {
	s := NewSession("m", 5, time.Second, "foo.cpp", "foo")
	assert.False(t, s.TimeExhausted())

	s.RecordAttempt(Attempt{GenerationTime: time.Second})
	// Reaching the budget exactly counts as exhausted.
	assert.True(t, s.TimeExhausted())
}

func TestZeroBudgetIsImmediatelyExhausted(t *testing.T) {
	s := NewSession("m", 5, 0, "foo.cpp", "foo")
	assert.True(t, s.TimeExhausted())
}

func TestOutcomeStrings(t *testing.T) {
	assert.Equal(t, "pending", OutcomePending.String())
	assert.Equal(t, "succeeded", OutcomeSucceeded.String())
	assert.Equal(t, "exhausted_time", OutcomeExhaustedTime.String())
	assert.Equal(t, "exhausted_attempts", OutcomeExhaustedAttempts.String())

	assert.Equal(t, "pending", BuildPending.String())
	assert.Equal(t, "success", BuildSuccess.String())
	assert.Equal(t, "failure", BuildFailure.String())
}

func TestSessionIDsAreUnique(t *testing.T) {
	a := NewSession("m", 1, 0, "foo.cpp", "foo")
	b := NewSession("m", 1, 0, "foo.cpp", "foo")
	assert.NotEqual(t, a.ID, b.ID)
}
