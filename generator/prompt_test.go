package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullVars() map[string]string {
	return map[string]string{
		"topic":    "container security",
		"tone":     "professional",
		"hashtags": "#devops #security",
		"insight":  "supply chains are the new perimeter",
	}
}

func TestRenderSubstitutesAllPlaceholders(t *testing.T) {
	templates := NewTemplates(nil)

	for _, platform := range DefaultPlatforms {
		prompt, err := templates.Render(platform, fullVars())
		require.NoError(t, err, platform)
		assert.Contains(t, prompt, "container security")
		assert.NotContains(t, prompt, "{topic}")
		assert.NotContains(t, prompt, "{tone}")
	}
}

func TestRenderUnknownPlatform(t *testing.T) {
	templates := NewTemplates(nil)

	_, err := templates.Render("myspace", fullVars())
	require.ErrorIs(t, err, ErrUnknownPlatform)
	assert.Contains(t, err.Error(), "myspace")
}

func TestRenderMissingVariable(t *testing.T) {
	templates := NewTemplates(nil)

	vars := fullVars()
	delete(vars, "insight")
	_, err := templates.Render(PlatformLinkedIn, vars)
	require.ErrorIs(t, err, ErrMissingVariable)
	assert.Contains(t, err.Error(), "insight")
}

func TestTemplateOverridesRegisterNewPlatforms(t *testing.T) {
	templates := NewTemplates(map[string]string{
		"mastodon":      "Write 3 toots about {topic}, numbered 1-3.",
		PlatformTwitter: "Short: {topic}",
	})

	prompt, err := templates.Render("mastodon", map[string]string{"topic": "go"})
	require.NoError(t, err)
	assert.Equal(t, "Write 3 toots about go, numbered 1-3.", prompt)

	prompt, err = templates.Render(PlatformTwitter, map[string]string{"topic": "go"})
	require.NoError(t, err)
	assert.Equal(t, "Short: go", prompt)
}
