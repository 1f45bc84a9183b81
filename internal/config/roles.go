package config

import "git.home.luguber.info/inful/talc/internal/foundation/normalization"

// TemplateRole decides how a template takes part in a build.
type TemplateRole string

const (
	// RolePost templates render once per published document.
	RolePost TemplateRole = "post"
	// RoleListing templates render once per transformer output over all documents.
	RoleListing TemplateRole = "listing"
	// RoleUnclassified templates are ignored.
	RoleUnclassified TemplateRole = ""
)

var templateRoleNormalizer = normalization.NewNormalizer("template type", map[string]TemplateRole{
	"post":    RolePost,
	"posts":   RolePost,
	"listing": RoleListing,
	"list":    RoleListing,
	"index":   RoleListing,
}, RoleUnclassified)

func NormalizeTemplateRole(raw string) TemplateRole {
	return templateRoleNormalizer.Normalize(raw)
}

// FeedFormat selects the feed syndication format.
type FeedFormat string

const (
	FeedFormatAtom FeedFormat = "atom"
	FeedFormatRSS  FeedFormat = "rss"
)

var feedFormatNormalizer = normalization.NewNormalizer("feed format", map[string]FeedFormat{
	"atom": FeedFormatAtom,
	"rss":  FeedFormatRSS,
}, FeedFormatAtom)

// ParseFeedFormat validates a configured feed format.
func ParseFeedFormat(raw string) (FeedFormat, error) {
	return feedFormatNormalizer.Parse(raw)
}

func NormalizeFeedFormat(raw string) FeedFormat {
	return feedFormatNormalizer.Normalize(raw)
}
