package mapping

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// FieldPath is a parsed dotted source path.
type FieldPath struct {
	Segments []string
}

func (p FieldPath) String() string {
	return strings.Join(p.Segments, ".")
}

// IsSimple reports whether the path names a single member.
func (p FieldPath) IsSimple() bool {
	return len(p.Segments) == 1
}

// ParsePath parses a member path string.
// Supports: "Field", "Nested.Field", "Nested.Method".
func ParsePath(path string) (FieldPath, error) {
	if path == "" {
		return FieldPath{}, errors.New("empty path")
	}

	var segments []string
	for part := range strings.SplitSeq(path, ".") {
		if part == "" {
			return FieldPath{}, fmt.Errorf("invalid path %q: empty segment", path)
		}

		if !isExportedIdent(part) {
			return FieldPath{}, fmt.Errorf("invalid path %q: %q is not an exported identifier", path, part)
		}

		segments = append(segments, part)
	}

	return FieldPath{Segments: segments}, nil
}

// isExportedIdent checks if a string is an exported Go identifier.
func isExportedIdent(s string) bool {
	for i, r := range s {
		switch {
		case i == 0 && !unicode.IsUpper(r):
			return false
		case !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_':
			return false
		}
	}

	return s != ""
}
