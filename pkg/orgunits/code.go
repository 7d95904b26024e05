package orgunits

import (
	"fmt"
	"strings"
)

// CodeUnitLength is the zero-padded width of one code segment.
const CodeUnitLength = 5

// MaxCodeDepth bounds how deep a unit hierarchy can nest.
const MaxCodeDepth = 16

// CreateCode builds a hierarchical code from per-level ordinals:
// CreateCode(1, 2) == "00001.00002".
func CreateCode(numbers ...int64) string {
	segments := make([]string, len(numbers))
	for i, n := range numbers {
		segments[i] = fmt.Sprintf("%0*d", CodeUnitLength, n)
	}
	return strings.Join(segments, ".")
}

// AppendCode joins a parent code and a relative child code. An empty parent
// returns the child code unchanged.
func AppendCode(parentCode, childCode string) string {
	if parentCode == "" {
		return childCode
	}
	return parentCode + "." + childCode
}

// ParentCode returns the code one level up, or "" for a root code.
func ParentCode(code string) string {
	idx := strings.LastIndex(code, ".")
	if idx < 0 {
		return ""
	}
	return code[:idx]
}

// LastUnitCode returns the final segment of a code: the unit's own relative
// code under its parent.
func LastUnitCode(code string) string {
	idx := strings.LastIndex(code, ".")
	if idx < 0 {
		return code
	}
	return code[idx+1:]
}

// CodeDepth returns how many levels deep a code nests. The empty code has
// depth 0.
func CodeDepth(code string) int {
	if code == "" {
		return 0
	}
	return strings.Count(code, ".") + 1
}

// hasCodePrefix is the descendant test: a unit is at or below another when
// its code starts with the other's code as a raw string. This matches the
// SQL form `code LIKE parent || '%'` used by the database store.
func hasCodePrefix(code, prefix string) bool {
	return strings.HasPrefix(code, prefix)
}
