package generator

import (
	"errors"
	"fmt"
	"regexp"
)

// Errors returned by Templates.Render. Both are fatal to a single platform's
// generation run only.
var (
	ErrUnknownPlatform = errors.New("no template registered for platform")
	ErrMissingVariable = errors.New("template variable not supplied")
)

// defaultTemplates are the built-in per-platform prompts. Each instructs the
// model to output exactly three numbered posts and nothing else; the splitter
// in split.go handles the cases where the model does not comply.
var defaultTemplates = map[string]string{
	PlatformTwitter: "Write 3 separate Twitter posts under 280 characters each about '{topic}'. " +
		"Use a {tone} tone with emojis and the hashtags {hashtags}. " +
		"Output only the posts, numbered 1, 2, and 3, without any extra explanation or introduction.",
	PlatformLinkedIn: "Write 3 professional LinkedIn posts about '{topic}'. " +
		"Include the insight '{insight}'. Use a {tone} tone. " +
		"Output only the posts, numbered 1, 2, and 3, with no extra introduction.",
	PlatformInstagram: "Write 3 Instagram captions about '{topic}' with a {tone} tone and relevant emojis. " +
		"Include a call to action in each. " +
		"Output only the captions, numbered 1, 2, and 3, without extra text.",
}

var placeholderRe = regexp.MustCompile(`\{([a-zA-Z_]+)\}`)

// Templates maps platform names to prompt templates with {name} placeholders.
type Templates struct {
	byPlatform map[string]string
}

// NewTemplates returns the built-in templates with overrides applied on top.
// An override for an unknown platform registers a new one.
func NewTemplates(overrides map[string]string) Templates {
	m := make(map[string]string, len(defaultTemplates)+len(overrides))
	for k, v := range defaultTemplates {
		m[k] = v
	}
	for k, v := range overrides {
		m[k] = v
	}
	return Templates{byPlatform: m}
}

// Platforms returns the names with a registered template.
func (t Templates) Platforms() []string {
	names := make([]string, 0, len(t.byPlatform))
	for k := range t.byPlatform {
		names = append(names, k)
	}
	return names
}

// Render looks up the platform's template and substitutes every {name}
// placeholder from vars. It fails with ErrUnknownPlatform when the platform
// has no template and ErrMissingVariable when the template references a
// variable absent from vars.
func (t Templates) Render(platform string, vars map[string]string) (string, error) {
	tmpl, ok := t.byPlatform[platform]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownPlatform, platform)
	}

	var missing string
	out := placeholderRe.ReplaceAllStringFunc(tmpl, func(m string) string {
		name := m[1 : len(m)-1]
		v, ok := vars[name]
		if !ok {
			if missing == "" {
				missing = name
			}
			return m
		}
		return v
	})
	if missing != "" {
		return "", fmt.Errorf("%w: {%s}", ErrMissingVariable, missing)
	}
	return out, nil
}
