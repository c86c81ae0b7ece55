package muse

import "time"

// CreationResult is the caller-facing projection of a finished pipeline run.
type CreationResult struct {
	Type           string `json:"type"` // always "creation"
	MemoryID       string `json:"memory_id"`
	OriginalPrompt string `json:"original_prompt"`
	EnhancedPrompt string `json:"enhanced_prompt"`
	ImagePath      string `json:"image_path"`
	ModelPath      string `json:"model_path,omitempty"`
	Status         string `json:"status"`
	Message        string `json:"message"`
}

// RecordView is one query result row: a stored creation plus derived
// artifact reporting. The exists/size fields reflect the artifact store at
// query time, so a file removed out-of-band shows up as absent rather than
// failing the query.
type RecordView struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	OriginalPrompt string    `json:"original_prompt"`
	EnhancedPrompt string    `json:"enhanced_prompt"`
	ImagePath      string    `json:"image_path,omitempty"`
	ModelPath      string    `json:"model_path,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	Status         string    `json:"status"`
	Tags           []string  `json:"tags,omitempty"`
	ImageExists    bool      `json:"image_exists"`
	ImageSize      int64     `json:"image_size"`
	ModelExists    bool      `json:"model_exists"`
	ModelSize      int64     `json:"model_size"`
}

// QueryResult is the caller-facing answer to a memory command.
type QueryResult struct {
	Type    string       `json:"type"` // always "memory_query"
	Summary string       `json:"summary"`
	Results []RecordView `json:"results"`
}

// Result is the outcome of submitting a free-text input: exactly one of
// Creation or Query is set, depending on how the input parsed.
type Result struct {
	Creation *CreationResult `json:"creation,omitempty"`
	Query    *QueryResult    `json:"query,omitempty"`
}
