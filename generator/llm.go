package generator

import "context"

// LLMClient abstracts the text-generation call so the pipeline can be tested
// without a live model.
type LLMClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// LLMSettings carries the provider configuration for concrete clients.
type LLMSettings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}
