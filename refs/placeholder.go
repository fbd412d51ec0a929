package refs

import (
	"regexp"
	"strings"
)

// Placeholder token formats. External denormalization pattern-matches these
// exact shapes, so they must never change.
const (
	localTokenPrefix  = "[REFERENCED-ITEM-"
	remoteTokenPrefix = "[REFERENCED-REMOTE-ITEM-"
	tokenSuffix       = "]"

	imageMapTokenPrefix    = "IMAGEMAP___"
	imageMapTokenSeparator = "___"
)

var imageMapTokenPattern = regexp.MustCompile(`^IMAGEMAP___(.*)___(.+)$`)

// Placeholder returns the token substituted for an unresolved local
// reference, e.g. "[REFERENCED-ITEM-abc123.en_GB]".
func Placeholder(canonicalID string) string {
	return localTokenPrefix + canonicalID + tokenSuffix
}

// RemotePlaceholder returns the token substituted for an unresolved
// remote-project reference, e.g. "[REFERENCED-REMOTE-ITEM-media#abc123.en_GB]".
func RemotePlaceholder(canonicalID string) string {
	return remoteTokenPrefix + canonicalID + tokenSuffix
}

// ImageMapPlaceholder returns the token substituted for a media reference
// reached through an image map. The token keeps the requested resolution so
// denormalization can pick the matching rendition,
// e.g. "IMAGEMAP___ORIGINAL___abc123.en_GB".
func ImageMapPlaceholder(resolution, canonicalID string) string {
	return imageMapTokenPrefix + resolution + imageMapTokenSeparator + canonicalID
}

// TokenID extracts the canonical identifier embedded in a placeholder token.
// The second return distinguishes the image-map variant, whose resolution is
// returned alongside. ok is false when s is not a placeholder token at all.
func TokenID(s string) (canonicalID, resolution string, ok bool) {
	switch {
	case strings.HasPrefix(s, remoteTokenPrefix) && strings.HasSuffix(s, tokenSuffix):
		return s[len(remoteTokenPrefix) : len(s)-len(tokenSuffix)], "", true
	case strings.HasPrefix(s, localTokenPrefix) && strings.HasSuffix(s, tokenSuffix):
		return s[len(localTokenPrefix) : len(s)-len(tokenSuffix)], "", true
	case strings.HasPrefix(s, imageMapTokenPrefix):
		m := imageMapTokenPattern.FindStringSubmatch(s)
		if m == nil {
			return "", "", false
		}
		return m[2], m[1], true
	}
	return "", "", false
}
