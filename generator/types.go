package generator

// Built-in generation platforms. Posting supports a wider set (see the
// publisher package); these are the ones with prompt templates out of the box.
const (
	PlatformTwitter   = "twitter"
	PlatformLinkedIn  = "linkedin"
	PlatformInstagram = "instagram"
)

// DefaultPlatforms lists the platforms generated for when a request does not
// name any.
var DefaultPlatforms = []string{PlatformTwitter, PlatformLinkedIn, PlatformInstagram}

// Tones offered to fill the {tone} template variable.
var Tones = []string{
	"casual", "professional", "humorous", "enthusiastic",
	"bold", "friendly", "sarcastic", "inspirational",
}
