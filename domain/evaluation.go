package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Verdict is the cognition service's judgment of a single answer. IsCorrect
// is an explicit tagged field; callers never infer correctness from the
// rationale text.
type Verdict struct {
	IsCorrect bool   `json:"isCorrect"`
	Rationale string `json:"rationale"`
}

// EvaluationResult is the final graded outcome of one completed session.
// Invariant: CorrectCount + WrongCount == len(Verdicts); skipped questions are
// graded like any other and an empty answer is wrong by policy, so the totals
// always cover every question.
type EvaluationResult struct {
	Verdicts     []Verdict `json:"evaluation"`
	CorrectCount int       `json:"correctCount"`
	WrongCount   int       `json:"wrongCount"`
	SkippedCount int       `json:"skippedCount"`
	JobRole      string    `json:"jobRole"`
	Timestamp    time.Time `json:"timestamp"`
}

// GradeSession grades every answer of a session in the Grading state, appends
// one ScoreRecord and transitions the session to Completed.
//
// Per-question judgments are dispatched concurrently; if any of them fails the
// whole operation fails with no state change, so grading may be retried on the
// same session. The session is marked Completed only after the store append
// succeeds, keeping a failed append retryable as well.
func GradeSession(ctx context.Context, cog Cognition, store ScoreStore, s *InterviewSession) (*EvaluationResult, error) {
	if err := s.requireState(StateGrading); err != nil {
		return nil, err
	}

	verdicts := make([]Verdict, len(s.Questions))
	g, gctx := errgroup.WithContext(ctx)
	for i := range s.Questions {
		i := i
		g.Go(func() error {
			v, err := cog.GradeAnswer(gctx, s.Questions[i], s.ExpectedAnswers[i], s.Answers[i])
			if err != nil {
				return fmt.Errorf("grading question %d: %w", i+1, err)
			}
			// An empty answer (skipped or left blank) is wrong by policy,
			// whatever the remote judge decided.
			if strings.TrimSpace(s.Answers[i]) == "" {
				verdicts[i] = Verdict{IsCorrect: false, Rationale: "No answer was given."}
				return nil
			}
			verdicts[i] = *v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &EvaluationResult{
		Verdicts:     verdicts,
		SkippedCount: s.SkippedCount,
		JobRole:      s.JobRole,
		Timestamp:    time.Now(),
	}
	for _, v := range verdicts {
		if v.IsCorrect {
			result.CorrectCount++
		}
	}
	result.WrongCount = len(verdicts) - result.CorrectCount

	rec := &ScoreRecord{
		UserID:              s.UserID,
		JobRole:             s.JobRole,
		CorrectAnswers:      result.CorrectCount,
		ResumeAnalysisScore: s.ResumeScore,
		CreatedAt:           result.Timestamp,
	}
	if err := store.AppendScore(ctx, rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	s.State = StateCompleted
	return result, nil
}
