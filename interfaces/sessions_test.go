package interfaces

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-coach/domain"
)

func newTestSession(id, userID string, n int) *domain.InterviewSession {
	return &domain.InterviewSession{
		ID:              id,
		UserID:          userID,
		JobRole:         "Backend Engineer",
		Difficulty:      domain.DifficultyBeginner,
		Questions:       make([]string, n),
		ExpectedAnswers: make([]string, n),
		Answers:         make([]string, n),
		State:           domain.StateInProgress,
	}
}

func TestRegistry_UnknownSession(t *testing.T) {
	reg := NewSessionRegistry()

	err := reg.With("nope", "user-1", func(*domain.InterviewSession) error { return nil })
	assert.ErrorIs(t, err, errSessionNotFound)
}

func TestRegistry_OtherUsersSessionHidden(t *testing.T) {
	reg := NewSessionRegistry()
	reg.Put(newTestSession("s1", "owner", 3))

	err := reg.With("s1", "intruder", func(*domain.InterviewSession) error { return nil })
	assert.ErrorIs(t, err, errSessionNotFound)

	err = reg.With("s1", "owner", func(*domain.InterviewSession) error { return nil })
	assert.NoError(t, err)
}

func TestRegistry_EvictsCompletedSessions(t *testing.T) {
	reg := NewSessionRegistry()
	reg.Put(newTestSession("s1", "owner", 1))

	require.NoError(t, reg.With("s1", "owner", func(s *domain.InterviewSession) error {
		s.State = domain.StateCompleted
		return nil
	}))

	err := reg.With("s1", "owner", func(*domain.InterviewSession) error { return nil })
	assert.ErrorIs(t, err, errSessionNotFound)
}

func TestRegistry_SerializesMutations(t *testing.T) {
	reg := NewSessionRegistry()
	reg.Put(newTestSession("s1", "owner", 1000))

	// Concurrent skips must never race: the skip count ends exactly at the
	// number of successful operations.
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = reg.With("s1", "owner", func(s *domain.InterviewSession) error {
				return s.Skip()
			})
		}()
	}
	wg.Wait()

	var skipped, index int
	require.NoError(t, reg.With("s1", "owner", func(s *domain.InterviewSession) error {
		skipped = s.SkippedCount
		index = s.CurrentIndex
		return nil
	}))
	assert.Equal(t, 100, skipped)
	assert.Equal(t, 100, index)
}
