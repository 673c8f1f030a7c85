package domain

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type SessionState string

const (
	StateAwaitingQuestions SessionState = "awaiting_questions"
	StateInProgress        SessionState = "in_progress"
	StateGrading           SessionState = "grading"
	StateCompleted         SessionState = "completed"
)

// Interview difficulties accepted by the generator.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyPro          = "pro"
)

// InterviewSession is one user's in-progress question walkthrough. It is
// single-writer: callers must serialize mutating operations per session (the
// registry in interfaces does this with a per-session mutex).
//
// Invariant: len(Answers) == len(Questions) == len(ExpectedAnswers) and
// 0 <= CurrentIndex < len(Questions) while in progress.
type InterviewSession struct {
	ID              string       `json:"sessionId"`
	UserID          string       `json:"-"`
	JobRole         string       `json:"jobRole"`
	Difficulty      string       `json:"difficulty"`
	Questions       []string     `json:"questions"`
	ExpectedAnswers []string     `json:"-"`
	Answers         []string     `json:"-"`
	CurrentIndex    int          `json:"currentIndex"`
	SkippedCount    int          `json:"skippedCount"`
	State           SessionState `json:"state"`

	// ResumeScore is the overall score of the report the interview was
	// started from, 0 when no report was available.
	ResumeScore int `json:"-"`
}

// StartInterview requests questions from the cognition service and returns a
// new InProgress session. It fails with ErrGenerationFailed when generation
// yields zero questions or a question/answer length mismatch; no session
// exists after a failure, so the caller may simply retry.
func StartInterview(ctx context.Context, cog Cognition, userID, resumeText, jobRole, difficulty string, n int, resumeScore int) (*InterviewSession, error) {
	questions, expected, err := cog.GenerateInterview(ctx, resumeText, jobRole, difficulty, n)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: no questions returned", ErrGenerationFailed)
	}
	if len(questions) != len(expected) {
		return nil, fmt.Errorf("%w: %d questions but %d expected answers",
			ErrGenerationFailed, len(questions), len(expected))
	}

	return &InterviewSession{
		ID:              uuid.NewString(),
		UserID:          userID,
		JobRole:         jobRole,
		Difficulty:      difficulty,
		Questions:       questions,
		ExpectedAnswers: expected,
		Answers:         make([]string, len(questions)),
		CurrentIndex:    0,
		State:           StateInProgress,
		ResumeScore:     resumeScore,
	}, nil
}

func (s *InterviewSession) requireState(want SessionState) error {
	if s.State != want {
		return fmt.Errorf("%w: session is %s", ErrInvalidStateTransition, s.State)
	}
	return nil
}

// SetAnswer overwrites the answer at index. Valid only while in progress.
func (s *InterviewSession) SetAnswer(index int, text string) error {
	if err := s.requireState(StateInProgress); err != nil {
		return err
	}
	if index < 0 || index >= len(s.Questions) {
		return fmt.Errorf("%w: index %d of %d questions", ErrIndexOutOfRange, index, len(s.Questions))
	}
	s.Answers[index] = text
	return nil
}

// Advance moves to the next question, or to grading from the last one. This
// is the only way a session leaves InProgress, so every session reaches
// grading whether the last question was answered or skipped.
func (s *InterviewSession) Advance() error {
	if err := s.requireState(StateInProgress); err != nil {
		return err
	}
	if s.CurrentIndex < len(s.Questions)-1 {
		s.CurrentIndex++
		return nil
	}
	s.State = StateGrading
	return nil
}

// Retreat moves back one question. A no-op at index 0.
func (s *InterviewSession) Retreat() error {
	if err := s.requireState(StateInProgress); err != nil {
		return err
	}
	if s.CurrentIndex > 0 {
		s.CurrentIndex--
	}
	return nil
}

// Skip counts the current question as skipped, leaves its answer untouched
// and then behaves exactly like Advance.
func (s *InterviewSession) Skip() error {
	if err := s.requireState(StateInProgress); err != nil {
		return err
	}
	s.SkippedCount++
	return s.Advance()
}
