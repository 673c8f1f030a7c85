package domain

import "errors"

// Error taxonomy for the orchestrator. Validation errors are local and leave
// no side effects; collaborator errors mean the whole operation failed and
// nothing was committed.
var (
	ErrUnsupportedFormat      = errors.New("unsupported resume format")
	ErrExtractionFailed       = errors.New("resume text extraction failed")
	ErrCognitionUnavailable   = errors.New("cognition service unavailable")
	ErrGenerationFailed       = errors.New("question generation failed")
	ErrIndexOutOfRange        = errors.New("answer index out of range")
	ErrInvalidStateTransition = errors.New("invalid session state transition")
	ErrStoreUnavailable       = errors.New("score store unavailable")
)
