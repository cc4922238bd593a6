package markdown

import "github.com/inful/mdfp"

// Fingerprint returns the canonical content fingerprint of a documentation
// source or rendered page. Neither carries frontmatter, so only the body is hashed.
func Fingerprint(src []byte) string {
	return mdfp.CalculateFingerprintFromParts("", string(src))
}
