package muse

import "fmt"

// Pipeline stages that external collaborators run.
const (
	StageImage = "image"
	StageModel = "model"
)

// ValidationError rejects a prompt before any pipeline stage runs.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid prompt: %s", e.Reason)
}

// EnhancementError reports a failed or timed-out prompt enhancement.
// Enhancement is a mandatory stage: nothing is persisted when it fails.
type EnhancementError struct {
	Err error
}

func (e *EnhancementError) Error() string {
	return fmt.Sprintf("enhancing prompt: %v", e.Err)
}

func (e *EnhancementError) Unwrap() error { return e.Err }

// GenerationError reports a failed or timed-out external generation call.
// Fatal for the image stage, degrading for the model stage.
type GenerationError struct {
	Stage string // StageImage or StageModel
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s generation failed: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// StorageError reports an artifact or record store I/O failure.
type StorageError struct {
	Op  string // what was being stored, e.g. "saving image"
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// NotFoundError reports a lookup by ID with no match. Queries report this
// as an empty result; it only surfaces as an error from direct operations
// such as retrying the model stage.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no creation with id %s", e.ID)
}
