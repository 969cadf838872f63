// Package rules holds the pattern catalog that account and vault fields are
// checked against.
package rules

import "regexp"

// Matcher reports whether a whole value satisfies a rule.
type Matcher interface {
	MatchString(s string) bool
}

// Set is a conjunction of patterns: a value matches only if every pattern
// matches it.
type Set []*regexp.Regexp

// MatchString implements Matcher.
func (s Set) MatchString(v string) bool {
	for _, re := range s {
		if !re.MatchString(v) {
			return false
		}
	}
	return true
}

var (
	// Username allows at least five word characters and nothing else.
	Username = regexp.MustCompile(`^\w{5,}$`)

	// Password needs eight or more non-whitespace characters with at least
	// one lowercase letter, one uppercase letter, one digit and one symbol.
	// Letters and digits of any script are not symbols.
	Password = Set{
		regexp.MustCompile(`^\S{8,}$`),
		regexp.MustCompile(`[a-z]`),
		regexp.MustCompile(`[A-Z]`),
		regexp.MustCompile(`\d`),
		regexp.MustCompile(`[^\p{L}\p{N}_\s]`),
	}

	// NonWhitespace matches values without any whitespace.
	NonWhitespace = regexp.MustCompile(`^\S*$`)
)

// Tags used with go-playground/validator for shapes that are not expressed
// as regular expressions here.
const (
	EmailTag = "required,email"
	HostTag  = "required,hostname_rfc1123|ip"
)
