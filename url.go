package searchcrawl

import (
	"net/url"
	"strings"
)

// NormalizeURL canonicalizes a URL for use as an identity key.
// The scheme and host are lower-cased, trailing slashes are stripped from the
// path (the root path "/" is kept), and the fragment is dropped. Query
// strings and path parameters are preserved as-is.
//
// Normalization is deterministic and idempotent. It never fails: input that
// cannot be parsed as a URL is returned unchanged.
func NormalizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Path != "/" {
		u.Path = strings.TrimRight(u.Path, "/")
		u.RawPath = strings.TrimRight(u.RawPath, "/")
	}
	u.Fragment = ""
	u.RawFragment = ""

	return u.String()
}
