// Package urlcheck decides whether a field value is a syntactically valid URL.
package urlcheck

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/jonesrussell/north-cloud/tools/validate-uri-fields/internal/document"
)

// ErrInvalidInputKind is returned when a non-string value is checked.
// A URI field holding anything but a string is a data bug, so callers
// should treat it as fatal.
var ErrInvalidInputKind = errors.New("url check only accepts string values")

// Pattern is the URL grammar: optional http/https/ftp/ftps scheme, optional
// www., a 2-256 character host, a 2-6 letter suffix and an optional path or
// query.
const Pattern = `^((http|ftp)s?://)?(www\.)?[-a-zA-Z0-9@:%._\+~#=]{2,256}\.[a-z]{2,6}\b([-a-zA-Z0-9@:%_\+.~#?&/=]*)$`

var urlPattern = regexp.MustCompile(Pattern)

// MatchString reports whether s matches Pattern in full.
func MatchString(s string) bool {
	return urlPattern.MatchString(s)
}

// IsValid reports whether v is a valid URL. v must be a string.
func IsValid(v document.Value) (bool, error) {
	s, ok := v.Str()
	if !ok {
		return false, fmt.Errorf("%w: got %s %s", ErrInvalidInputKind, v.Kind(), v)
	}
	return MatchString(s), nil
}
