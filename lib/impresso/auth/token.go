package auth

import (
	"regexp"
	"strings"
)

// JWTs are preferred; the long-form fallbacks exist so CSRF tokens and
// short session ids never pass for an API token.
var (
	jwtRegex       = regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`)
	hexLongRegex   = regexp.MustCompile(`[a-fA-F0-9]{64,}`)
	base64ishRegex = regexp.MustCompile(`[A-Za-z0-9_\-]{64,}`)

	wholeToken = regexp.MustCompile(
		`\A(` + jwtRegex.String() + `|` + hexLongRegex.String() + `|` + base64ishRegex.String() + `)\z`,
	)
)

// Strips surrounding quotes, zero-width characters and embedded
// whitespace that UIs tend to smuggle into copied tokens.
func CleanToken(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`)
	for _, junk := range []string{"\u200b", "\u200c", "\ufeff"} {
		s = strings.ReplaceAll(s, junk, "")
	}
	return strings.Join(strings.Fields(s), "")
}

func IsPlausibleToken(tok string) bool {
	return tok != "" && wholeToken.MatchString(tok)
}

// Picks the first plausible token out of arbitrary text, trying JWT
// shapes before the long hex and base64ish fallbacks.
func ExtractToken(text string) string {
	for _, rx := range []*regexp.Regexp{jwtRegex, hexLongRegex, base64ishRegex} {
		if m := rx.FindString(text); m != "" {
			return m
		}
	}
	return ""
}
