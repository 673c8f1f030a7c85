package domain

import "context"

// Cognition is the external text-understanding capability the orchestrator
// calls for critiques, question generation, grading verdicts and role
// suggestions. Every call is a fallible remote call bounded by a timeout;
// implementations report transport, timeout and malformed-response failures
// as ErrCognitionUnavailable.
type Cognition interface {
	// Critique scores resume text into a normalized five-category report.
	Critique(ctx context.Context, resumeText string) (*ResumeReport, error)

	// GenerateInterview produces n question/expected-answer pairs seeded by
	// the resume text, job role and difficulty. Both slices have length n.
	GenerateInterview(ctx context.Context, resumeText, jobRole, difficulty string, n int) (questions, expected []string, err error)

	// GradeAnswer judges one given answer against the expected one.
	GradeAnswer(ctx context.Context, question, expected, given string) (*Verdict, error)

	// SuggestRoles returns job roles matching the resume text.
	SuggestRoles(ctx context.Context, resumeText string) ([]string, error)
}

// ScoreStore is the durable append-only log of completed interview outcomes.
type ScoreStore interface {
	// AppendScore writes one record atomically.
	AppendScore(ctx context.Context, rec *ScoreRecord) error

	// ListScoresByUser returns all records for the user, newest first
	// (created_at DESC, id DESC). The order is stable between calls.
	ListScoresByUser(ctx context.Context, userID string) ([]ScoreRecord, error)
}
