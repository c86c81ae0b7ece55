package testutil

import "context"

// StubEnhancer returns a canned enhancement, or a scripted error.
type StubEnhancer struct {
	Suffix string
	Err    error
}

func (e *StubEnhancer) Enhance(ctx context.Context, prompt string) (string, error) {
	if e.Err != nil {
		return "", e.Err
	}
	suffix := e.Suffix
	if suffix == "" {
		suffix = ", detailed, high quality"
	}
	return prompt + suffix, nil
}

// StubGenerator returns canned image bytes, or a scripted error. Calls counts
// invocations so tests can assert on pipeline ordering.
type StubGenerator struct {
	Data  []byte
	Err   error
	Calls int
}

func (g *StubGenerator) Generate(ctx context.Context, prompt string) ([]byte, error) {
	g.Calls++
	if g.Err != nil {
		return nil, g.Err
	}
	if g.Data == nil {
		return []byte("fake-image-bytes"), nil
	}
	return g.Data, nil
}

// StubConverter returns canned model bytes, or a scripted error.
type StubConverter struct {
	Data  []byte
	Err   error
	Calls int
}

func (c *StubConverter) Convert(ctx context.Context, image []byte) ([]byte, error) {
	c.Calls++
	if c.Err != nil {
		return nil, c.Err
	}
	if c.Data == nil {
		return []byte("fake-model-bytes"), nil
	}
	return c.Data, nil
}
