package utils

import (
	"crypto/rand"
	"strings"
)

const (
	publicIDAlphabet     = "abcdefghijklmnopqrstuvwxyz0123456789"
	publicIDPrefixLen    = 8
	publicIDSuffixLen    = 6
	publicIDFallbackSeed = "scene"
)

// PublicID derives a short gallery identifier from a scene id: a prefix of
// the id with a random suffix, so listings stay traceable to their scene
// while the full scene id is never exposed.
func PublicID(sceneID string) string {
	prefix := strings.ReplaceAll(sceneID, "-", "")
	if prefix == "" {
		prefix = publicIDFallbackSeed
	}
	if len(prefix) > publicIDPrefixLen {
		prefix = prefix[:publicIDPrefixLen]
	}

	buf := make([]byte, publicIDSuffixLen)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing is effectively fatal elsewhere; here a
		// degenerate suffix only risks a listing id collision, which the
		// insert will surface.
		for i := range buf {
			buf[i] = publicIDAlphabet[0]
		}
	}
	suffix := make([]byte, publicIDSuffixLen)
	for i, b := range buf {
		suffix[i] = publicIDAlphabet[int(b)%len(publicIDAlphabet)]
	}
	return prefix + "-" + string(suffix)
}
