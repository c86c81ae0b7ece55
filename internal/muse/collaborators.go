package muse

import "context"

// PromptEnhancer rewrites a raw prompt into one better suited for image
// generation. Implementations may call out to a model and may fail or time
// out; the pipeline treats any failure as fatal for the whole request.
type PromptEnhancer interface {
	Enhance(ctx context.Context, prompt string) (string, error)
}

// ImageGenerator produces image bytes from a prompt.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

// ImageTo3DConverter derives a 3D model from image bytes. Failures here are
// degrading, not fatal: the pipeline keeps the image and records a partial
// creation.
type ImageTo3DConverter interface {
	Convert(ctx context.Context, image []byte) ([]byte, error)
}
