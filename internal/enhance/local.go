package enhance

import (
	"context"
	"math/rand"
	"strings"
	"sync"

	"musegen/internal/muse"
)

// categoryDetails maps a prompt category to detail fragments appended during
// enhancement.
var categoryDetails = map[string][]string{
	"animal": {
		"with intricate fur patterns", "showing detailed skin texture",
		"with realistic eyes that reflect light", "in dynamic motion",
		"with anatomically correct features", "showcasing natural behavior",
	},
	"person": {
		"with detailed facial expressions", "wearing intricate clothing with fabric folds",
		"in dynamic pose showing emotion", "with realistic skin texture and tone",
		"with detailed hair that catches the light", "with anatomically correct proportions",
	},
	"landscape": {
		"with atmospheric perspective", "showing realistic lighting conditions",
		"with detailed foliage and terrain", "featuring realistic water reflections",
		"with volumetric clouds and sky", "showing accurate environmental details",
	},
	"object": {
		"with realistic material textures", "showing accurate surface reflections",
		"with fine mechanical details", "featuring realistic wear patterns",
		"with proper scale and proportions", "showing intricate design elements",
	},
	"fantasy": {
		"with otherworldly lighting effects", "showing magical atmospheric elements",
		"with surreal yet consistent physics", "featuring imaginative yet cohesive design",
		"with fantastical but believable textures", "showcasing impossible yet harmonious compositions",
	},
	"sci-fi": {
		"with futuristic lighting and reflections", "showing advanced technological details",
		"with mechanical and electronic elements", "featuring sleek, functional design",
		"with holographic or energy effects", "showcasing innovative yet plausible concepts",
	},
}

// styleEnhancements are generic style fragments appended after the details.
var styleEnhancements = []string{
	"photorealistic", "hyperdetailed", "8k resolution", "dramatic lighting",
	"cinematic composition", "professional photography", "volumetric lighting",
	"physically accurate rendering", "detailed textures", "high dynamic range",
	"award-winning", "trending on artstation", "octane render",
}

// categoryKeywords drives prompt classification. First matching category wins;
// prompts matching nothing fall back to "object".
var categoryKeywords = []struct {
	category string
	words    []string
}{
	{"person", []string{"person", "man", "woman", "child", "portrait", "face", "people"}},
	{"animal", []string{"animal", "dog", "cat", "bird", "wildlife", "creature"}},
	{"landscape", []string{"landscape", "mountain", "ocean", "forest", "sunset", "nature"}},
	{"fantasy", []string{"magic", "dragon", "wizard", "fairy", "mythical", "fantasy"}},
	{"sci-fi", []string{"robot", "spaceship", "futuristic", "tech", "sci-fi"}},
}

// Local is a rule-based prompt enhancer: it classifies the prompt into a
// category and appends a sample of category details and style fragments.
// It never fails and ignores the context; it exists so the pipeline works
// without a remote model, and as the reference collaborator for tests.
type Local struct {
	mu  sync.Mutex
	rng *rand.Rand
}

var _ muse.PromptEnhancer = (*Local)(nil)

// NewLocal creates a Local enhancer seeded for varied output.
func NewLocal(seed int64) *Local {
	return &Local{rng: rand.New(rand.NewSource(seed))}
}

// Enhance appends two category details and three style fragments:
// "<prompt>, <detail>, <detail>, <style>, <style>, <style>".
func (l *Local) Enhance(_ context.Context, prompt string) (string, error) {
	details := categoryDetails[Classify(prompt)]

	l.mu.Lock()
	parts := append([]string{prompt}, l.sample(details, 2)...)
	parts = append(parts, l.sample(styleEnhancements, 3)...)
	l.mu.Unlock()

	return strings.Join(parts, ", "), nil
}

// sample picks n distinct elements from options. Caller holds l.mu.
func (l *Local) sample(options []string, n int) []string {
	if n > len(options) {
		n = len(options)
	}
	idx := l.rng.Perm(len(options))[:n]
	picked := make([]string, n)
	for i, j := range idx {
		picked[i] = options[j]
	}
	return picked
}

// Classify buckets a prompt into a detail category by keyword.
func Classify(prompt string) string {
	lower := strings.ToLower(prompt)
	for _, c := range categoryKeywords {
		for _, w := range c.words {
			if strings.Contains(lower, w) {
				return c.category
			}
		}
	}
	return "object"
}
