package domain

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradeSession_CountsCoverEveryQuestion(t *testing.T) {
	// 5 questions: 3 answered (2 of them correctly), 2 skipped.
	s := startTestSession(t, 5)
	require.NoError(t, s.SetAnswer(0, "expected 1"))
	require.NoError(t, s.Advance())
	require.NoError(t, s.SetAnswer(1, "expected 2"))
	require.NoError(t, s.Advance())
	require.NoError(t, s.SetAnswer(2, "totally wrong"))
	require.NoError(t, s.Advance())
	require.NoError(t, s.Skip())
	require.NoError(t, s.Skip())
	require.Equal(t, StateGrading, s.State)
	require.Equal(t, 2, s.SkippedCount)

	store := &memScoreStore{}
	result, err := GradeSession(context.Background(), &mockCognition{}, store, s)
	require.NoError(t, err)

	require.Len(t, result.Verdicts, 5)
	assert.Equal(t, 2, result.CorrectCount)
	assert.Equal(t, 3, result.WrongCount)
	assert.Equal(t, 2, result.SkippedCount)
	assert.Equal(t, len(s.Questions), result.CorrectCount+result.WrongCount)
	assert.Equal(t, StateCompleted, s.State)

	// One record committed with the originating report score.
	require.Len(t, store.records, 1)
	rec := store.records[0]
	assert.Equal(t, "user-1", rec.UserID)
	assert.Equal(t, "Backend Engineer", rec.JobRole)
	assert.Equal(t, 2, rec.CorrectAnswers)
	assert.Equal(t, 80, rec.ResumeAnalysisScore)
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestGradeSession_EmptyAnswersWrongByPolicy(t *testing.T) {
	// One answer is only whitespace, two questions are skipped. A lenient
	// judge approves everything; the policy overrides it for all three.
	s := startTestSession(t, 3)
	require.NoError(t, s.SetAnswer(0, "   "))
	require.NoError(t, s.Advance())
	require.NoError(t, s.Skip())
	require.NoError(t, s.Skip())
	require.Equal(t, StateGrading, s.State)

	cog := &mockCognition{
		GradeAnswerFunc: func(context.Context, string, string, string) (*Verdict, error) {
			return &Verdict{IsCorrect: true, Rationale: "close enough"}, nil
		},
	}
	result, err := GradeSession(context.Background(), cog, &memScoreStore{}, s)
	require.NoError(t, err)

	assert.Equal(t, 0, result.CorrectCount)
	assert.Equal(t, 3, result.WrongCount)
	assert.Equal(t, 2, result.SkippedCount)
	for _, v := range result.Verdicts {
		assert.False(t, v.IsCorrect)
	}
}

func TestGradeSession_InvalidOutsideGrading(t *testing.T) {
	s := startTestSession(t, 3)

	_, err := GradeSession(context.Background(), &mockCognition{}, &memScoreStore{}, s)
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
}

func TestGradeSession_CognitionFailureLeavesSessionGradable(t *testing.T) {
	s := startTestSession(t, 3)
	for i := 0; i < 3; i++ {
		require.NoError(t, s.SetAnswer(i, fmt.Sprintf("expected %d", i+1)))
		require.NoError(t, s.Advance())
	}
	require.Equal(t, StateGrading, s.State)

	// Judgments run concurrently, so the call counter must be atomic.
	var calls atomic.Int32
	cog := &mockCognition{
		GradeAnswerFunc: func(_ context.Context, _, _, _ string) (*Verdict, error) {
			if calls.Add(1) == 2 {
				return nil, ErrCognitionUnavailable
			}
			return &Verdict{IsCorrect: true}, nil
		},
	}
	store := &memScoreStore{}

	_, err := GradeSession(context.Background(), cog, store, s)
	require.ErrorIs(t, err, ErrCognitionUnavailable)

	// No partial result committed, session still gradable.
	assert.Empty(t, store.records)
	assert.Equal(t, StateGrading, s.State)

	// Retry succeeds once the collaborator recovers.
	result, err := GradeSession(context.Background(), &mockCognition{
		GradeAnswerFunc: func(context.Context, string, string, string) (*Verdict, error) {
			return &Verdict{IsCorrect: true}, nil
		},
	}, store, s)
	require.NoError(t, err)
	assert.Equal(t, 3, result.CorrectCount)
	assert.Equal(t, StateCompleted, s.State)
	assert.Len(t, store.records, 1)
}

func TestGradeSession_StoreFailureLeavesSessionGradable(t *testing.T) {
	s := startTestSession(t, 1)
	require.NoError(t, s.Advance())

	store := &memScoreStore{appendErr: errors.New("connection refused")}
	_, err := GradeSession(context.Background(), &mockCognition{}, store, s)
	require.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Equal(t, StateGrading, s.State)

	store.appendErr = nil
	_, err = GradeSession(context.Background(), &mockCognition{}, store, s)
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, s.State)
	assert.Len(t, store.records, 1)
}

func TestGradeSession_ZeroResumeScoreWhenReportMissing(t *testing.T) {
	cog := &mockCognition{}
	s, err := StartInterview(context.Background(), cog, "user-1", "resume", "role", DifficultyBeginner, 1, 0)
	require.NoError(t, err)
	require.NoError(t, s.Advance())

	store := &memScoreStore{}
	_, err = GradeSession(context.Background(), cog, store, s)
	require.NoError(t, err)
	require.Len(t, store.records, 1)
	assert.Zero(t, store.records[0].ResumeAnalysisScore)
}
