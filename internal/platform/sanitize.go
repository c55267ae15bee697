package platform

import (
	"regexp"
	"strings"
)

// Filename constraints shared by the acquisition and conversion phases.
const (
	// MaxFilenameLength caps sanitized titles, matching the metadata
	// display cap.
	MaxFilenameLength = 100

	// DefaultFilename is substituted when sanitization leaves nothing
	// usable.
	DefaultFilename = "download"
)

var (
	illegalChars    = regexp.MustCompile(`[\\/:*?"<>|]|[\x00-\x1f]`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
	underscoreRun   = regexp.MustCompile(`_{2,}`)
	periodRun       = regexp.MustCompile(`\.{2,}`)
	countPrefix     = regexp.MustCompile(`^[^|]*\| `)
	punctuationOnly = regexp.MustCompile(`^[_.\-]*$`)
)

// SanitizeFilename turns a media title into a safe filename stem: path-illegal
// and control characters removed, whitespace runs collapsed to single
// underscores, repeated underscores/periods collapsed, capped at
// MaxFilenameLength runes. Empty or punctuation-only results become
// DefaultFilename. Idempotent: applying it twice yields the same output.
func SanitizeFilename(title string) string {
	s := whitespaceRun.ReplaceAllString(title, "_")
	s = illegalChars.ReplaceAllString(s, "")
	s = underscoreRun.ReplaceAllString(s, "_")
	s = periodRun.ReplaceAllString(s, ".")
	s = strings.Trim(s, "_.")

	if runes := []rune(s); len(runes) > MaxFilenameLength {
		s = string(runes[:MaxFilenameLength])
		s = strings.Trim(s, "_.")
	}

	if s == "" || punctuationOnly.MatchString(s) {
		return DefaultFilename
	}
	return s
}

// CleanTitle normalizes a probed title for display: collapses internal
// whitespace and caps the length at MaxFilenameLength runes.
func CleanTitle(title string) string {
	s := whitespaceRun.ReplaceAllString(title, " ")
	s = strings.TrimSpace(s)
	if runes := []rune(s); len(runes) > MaxFilenameLength {
		s = strings.TrimSpace(string(runes[:MaxFilenameLength]))
	}
	return s
}

// StripCountPrefix removes the leading "<reactions and shares> | " token that
// the engine's Facebook title field sometimes concatenates before the real
// title.
func StripCountPrefix(title string) string {
	return countPrefix.ReplaceAllString(title, "")
}
