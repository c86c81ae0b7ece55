package muse

import "time"

// Status values for a Creation. A creation is born only after the image
// stage succeeds, so a "failed" attempt normally never reaches storage.
const (
	StatusComplete = "complete"
	StatusPartial  = "partial"
	StatusFailed   = "failed"
)

// AnonymousUser is the user ID recorded when the caller does not supply one.
const AnonymousUser = "anonymous"

// Metadata carries open per-creation annotations.
type Metadata struct {
	// Tags derived from the original prompt, used by search.
	Tags []string `json:"tags,omitempty"`
	// Error records why the 3D stage failed for a partial creation.
	Error string `json:"error,omitempty"`
	// Extra holds any additional annotations.
	Extra map[string]string `json:"extra,omitempty"`
}

// Creation is one persisted record of a prompt-to-artifact generation attempt.
// Records are immutable once stored, except for the single allowed transition
// partial -> complete when a later retry fills in the model.
type Creation struct {
	ID             string    // UUID, assigned at pipeline start
	UserID         string    // Opaque caller identifier
	OriginalPrompt string    // The prompt as submitted
	EnhancedPrompt string    // The prompt after enhancement
	ImagePath      string    // Artifact store reference, never empty once persisted
	ModelPath      string    // Artifact store reference, empty for partial creations
	CreatedAt      time.Time // Set once at assembly
	Status         string    // complete or partial
	Metadata       Metadata
}
