// Package ident implements the canonical identifier scheme used for every
// cache and registry lookup in the SDK.
//
// CaaS documents address each other by bare uuids, by uuids with a locale
// suffix, and across project boundaries. Before any of those spellings may
// be used as a key they are unified into the canonical form
//
//	{uuid}.{locale}
//
// optionally prefixed with {remoteProject}#, e.g.
//
//	media#5c2e9e10-8b26-4a3b-9a1e-4f1c1a9c0b77.en_GB
//
// The canonical form disambiguates locale variants of the same document and
// documents living in different remote projects. All functions in this
// package are pure; no network or cache access happens here.
package ident

import "strings"

// RemotePrefixSeparator separates the remote project id from the rest of a
// canonical identifier.
const RemotePrefixSeparator = "#"

// RemoteProject describes one configured remote project a reference may
// point into. When Locale is set it overrides any locale carried by the raw
// identifier, since the remote project is served in its own locale.
type RemoteProject struct {
	// ID is the key under which the remote project is configured. It becomes
	// the canonical identifier prefix.
	ID string `json:"id" yaml:"id"`

	// Locale is the locale the remote project's content is fetched in,
	// e.g. "en_GB". Empty means the referencing request's locale is kept.
	Locale string `json:"locale,omitempty" yaml:"locale,omitempty"`
}

// Unify normalizes a raw identifier into canonical form.
//
// A raw identifier may arrive as "{uuid}" or "{uuid}.{locale}". The locale
// is chosen in this order: the remote project's locale when one is
// configured, the locale already present on the raw id, the active request
// locale. When remote is non-nil the result is prefixed with "{remote.ID}#".
//
//	Unify("abc123", "en_GB", nil)                                  // "abc123.en_GB"
//	Unify("abc123.de_DE", "en_GB", nil)                            // "abc123.de_DE"
//	Unify("abc123.de_DE", "en_GB", &RemoteProject{"media","en_GB"}) // "media#abc123.en_GB"
func Unify(raw, locale string, remote *RemoteProject) string {
	uuid, rawLocale := splitLocale(raw)

	resolved := locale
	if rawLocale != "" {
		resolved = rawLocale
	}
	if remote != nil && remote.Locale != "" {
		resolved = remote.Locale
	}

	canonical := uuid + "." + resolved
	if remote != nil {
		canonical = remote.ID + RemotePrefixSeparator + canonical
	}
	return canonical
}

// Split decomposes a canonical identifier into its remote project id (empty
// for local identifiers), uuid and locale.
func Split(canonical string) (remoteID, uuid, locale string) {
	rest := canonical
	if i := strings.Index(rest, RemotePrefixSeparator); i >= 0 {
		remoteID = rest[:i]
		rest = rest[i+1:]
	}
	uuid, locale = splitLocale(rest)
	return remoteID, uuid, locale
}

// UUID strips a canonical identifier back to the raw store-level uuid the
// CaaS fetch endpoint expects in an identifier filter.
func UUID(canonical string) string {
	_, uuid, _ := Split(canonical)
	return uuid
}

// IsRemote reports whether a canonical identifier carries a remote project
// prefix.
func IsRemote(canonical string) bool {
	return strings.Contains(canonical, RemotePrefixSeparator)
}

// PreviewID builds the preview-mode address of a document, which is its
// identifier joined with the locale it was fetched in.
func PreviewID(id, locale string) string {
	return id + "." + locale
}

// splitLocale separates "{uuid}.{locale}" into its parts. A separator at
// position 0 is not treated as a locale boundary, matching the store's own
// identifier grammar.
func splitLocale(raw string) (uuid, locale string) {
	if i := strings.Index(raw, "."); i > 0 {
		return raw[:i], raw[i+1:]
	}
	return raw, ""
}
