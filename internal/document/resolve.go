package document

import "strings"

// PathSeparator splits a dotted field path into keys.
const PathSeparator = "."

// SplitPath returns the keys of a dotted field path.
func SplitPath(dottedPath string) []string {
	return strings.Split(dottedPath, PathSeparator)
}

// Resolve walks dottedPath through doc one key at a time. It returns false
// as soon as a key is absent or the current value is not a map.
func Resolve(doc Value, dottedPath string) (Value, bool) {
	curr := doc
	for _, key := range SplitPath(dottedPath) {
		next, ok := curr.Field(key)
		if !ok {
			return Value{}, false
		}
		curr = next
	}
	return curr, true
}
