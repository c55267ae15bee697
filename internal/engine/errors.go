package engine

import (
	"strings"

	"github.com/rudra-mondal/youtube-downloader/internal/model"
)

// errorRule maps a marker substring of engine output to an error kind.
// Rules are evaluated in order; the first match wins.
type errorRule struct {
	marker string
	kind   model.Kind
}

var errorRules = []errorRule{
	{"unsupported url", model.KindInvalidURL},
	{"is not a valid url", model.KindInvalidURL},
	{"sign in to confirm", model.KindLoginRequired},
	{"login required", model.KindLoginRequired},
	{"use --cookies", model.KindLoginRequired},
	{"account", model.KindLoginRequired},
	{"private video", model.KindUnavailable},
	{"video unavailable", model.KindUnavailable},
	{"content isn't available", model.KindUnavailable},
	{"has been removed", model.KindUnavailable},
	{"available in your country", model.KindUnavailable},
	{"geo restricted", model.KindUnavailable},
	{"unable to download", model.KindNetwork},
	{"getaddrinfo", model.KindNetwork},
	{"timed out", model.KindNetwork},
	{"connection refused", model.KindNetwork},
	{"connection reset", model.KindNetwork},
	{"network", model.KindNetwork},
}

// ClassifyError maps an engine failure to a user-legible kind, falling back
// to the given kind when no marker matches. The message passed to the user
// keeps the original cause attached.
func ClassifyError(err error, message string, fallback model.Kind) *model.Error {
	text := strings.ToLower(err.Error())
	for _, r := range errorRules {
		if strings.Contains(text, r.marker) {
			return model.E(r.kind, message, err)
		}
	}
	return model.E(fallback, message, err)
}
