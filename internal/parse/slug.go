package parse

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// accentFold decomposes to NFD, strips combining marks and recomposes, so
// "Café" folds to "Cafe".
var accentFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slug reduces a name to its comparison key: lower-case, accents stripped,
// runs of non-alphanumerics collapsed to single dashes. "Café  Nero" and
// "cafe nero" produce the same slug.
func Slug(s string) string {
	folded, _, err := transform.String(accentFold, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	pendingDash := false
	for _, r := range folded {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !alnum {
			pendingDash = b.Len() > 0
			continue
		}
		if pendingDash {
			b.WriteByte('-')
			pendingDash = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Role says which candidate list a token is being resolved against, so a
// miss can be reported with the right failure.
type Role int

const (
	RoleCategory Role = iota
	RoleSource
	RoleDestination
)

func (r Role) notFound() error {
	switch r {
	case RoleSource:
		return ErrSourceNotFound
	case RoleDestination:
		return ErrDestinationNotFound
	default:
		return ErrCategoryNotFound
	}
}

// Resolve returns the first candidate whose slug equals the token's slug.
// A nil candidate list means the user has no cached snapshot at all and
// yields ErrSessionNotInitialized; a present-but-empty list (or no match)
// yields the role's not-found failure.
func Resolve(token string, candidates []string, role Role) (string, error) {
	if candidates == nil {
		return "", ErrSessionNotInitialized
	}
	want := Slug(token)
	for _, candidate := range candidates {
		if Slug(candidate) == want {
			return candidate, nil
		}
	}
	return "", role.notFound()
}
