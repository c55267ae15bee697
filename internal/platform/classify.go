package platform

import (
	"regexp"

	"github.com/rudra-mondal/youtube-downloader/internal/model"
)

// rule maps a URL pattern to the platform it identifies. Rules are evaluated
// in order; short-link forms come before generic domain patterns so that a
// shortened URL is never misread as unsupported.
type rule struct {
	pattern  *regexp.Regexp
	platform model.Platform
}

var classifyRules = []rule{
	{
		pattern:  regexp.MustCompile(`(?i)^(https?://)?(www\.)?youtu\.be/.+`),
		platform: model.PlatformYouTube,
	},
	{
		pattern:  regexp.MustCompile(`(?i)^(https?://)?(www\.|m\.)?youtube\.com/(watch\?v=|embed/|v/|shorts/|c/|user/|channel/|live/|playlist\?list=|attribution_link\?).+`),
		platform: model.PlatformYouTube,
	},
	{
		pattern:  regexp.MustCompile(`(?i)^(https?://)?(www\.)?youtube-nocookie\.com/embed/.+`),
		platform: model.PlatformYouTube,
	},
	{
		pattern:  regexp.MustCompile(`(?i)^(https?://)?fb\.watch/.+`),
		platform: model.PlatformFacebook,
	},
	{
		pattern:  regexp.MustCompile(`(?i)^(https?://)?(www\.|m\.)?facebook\.com/(.*)?(videos|reel|watch|live|posts|story\.php|video/embed|v|photos|groups/.*/(permalink/\d+|.*)|events/.*/(permalink/\d+|.*)|share/(v|r)/.*|share/.*)/.*`),
		platform: model.PlatformFacebook,
	},
	{
		pattern:  regexp.MustCompile(`(?i)^(https?://)?pin\.it/.+`),
		platform: model.PlatformPinterest,
	},
	{
		pattern:  regexp.MustCompile(`(?i)^(https?://)?([a-z]{2,3}\.)?pinterest\.(com|ca|co\.uk|fr|de|es|it)/pin/.+`),
		platform: model.PlatformPinterest,
	},
}

// Classify maps a raw URL string to its source platform, or PlatformUnknown
// when no rule matches. Pure and deterministic; performs no I/O, so an
// unsupported URL is rejected without any network call.
func Classify(url string) model.Platform {
	for _, r := range classifyRules {
		if r.pattern.MatchString(url) {
			return r.platform
		}
	}
	return model.PlatformUnknown
}
