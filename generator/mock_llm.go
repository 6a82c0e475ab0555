package generator

import (
	"context"
	"fmt"
	"strings"
)

// MockLLM is a placeholder client for local runs and tests. It produces three
// well-formed numbered drafts without calling any external model.
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, prompt string) (string, error) {
	snippet := prompt
	if i := strings.IndexByte(snippet, '\n'); i >= 0 {
		snippet = snippet[:i]
	}
	if len(snippet) > 60 {
		snippet = snippet[:60]
	}

	var sb strings.Builder
	for i := 1; i <= 3; i++ {
		fmt.Fprintf(&sb, "%d. Sample draft %d for: %s\n", i, i, snippet)
	}
	return sb.String(), nil
}
