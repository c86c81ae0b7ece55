package enhance

import (
	"context"
	"fmt"
	"time"

	"musegen/internal/config"
	"musegen/internal/muse"
)

// Passthrough returns prompts unchanged, for callers that want generation
// driven by the literal prompt.
type Passthrough struct{}

var _ muse.PromptEnhancer = (*Passthrough)(nil)

func (Passthrough) Enhance(_ context.Context, prompt string) (string, error) {
	return prompt, nil
}

// NewEnhancerFromConfig creates a PromptEnhancer based on the services config.
func NewEnhancerFromConfig(cfg config.ServicesConfig) (muse.PromptEnhancer, error) {
	switch cfg.Enhancer {
	case "local", "":
		return NewLocal(time.Now().UnixNano()), nil
	case "none":
		return Passthrough{}, nil
	default:
		return nil, fmt.Errorf("unknown enhancer type: %s", cfg.Enhancer)
	}
}
