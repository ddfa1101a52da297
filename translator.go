package sqlport

import (
	"regexp"
)

// namedParamPattern matches a named placeholder: a colon, a letter, then any
// run of letters, digits, or underscores. One pattern serves both detection
// and rewriting, so a placeholder that is detected is always the placeholder
// that gets rewritten. Compiled once at init and never mutated, so it is safe
// to share across invocations.
var namedParamPattern = regexp.MustCompile(`:([a-zA-Z][a-zA-Z0-9_]*)`)

// HasNamedParameters reports whether query contains at least one :name
// placeholder. It is a pure existence check.
//
// The scan is textual. sqlport does not parse SQL, so placeholder-shaped text
// inside string literals or comments counts too; keep such text out of
// templates that use named parameters.
func HasNamedParameters(query string) bool {
	return namedParamPattern.MatchString(query)
}

// Translate rewrites every :name placeholder in query with a positional
// placeholder from pa and returns the rewritten query along with the extracted
// names, in left-to-right order with the colons stripped. A name used twice
// yields two entries. A query with no named placeholders comes back unchanged
// with a nil name list.
//
// Translate never mutates its input; translating the same query twice yields
// identical output.
func Translate(query string, pa ParamAdapter) (string, []string) {
	if pa == nil {
		pa = questionAdapter
	}
	var names []string
	pos := 0
	rewritten := namedParamPattern.ReplaceAllStringFunc(query, func(match string) string {
		names = append(names, match[1:])
		pos++
		return pa(pos)
	})
	return rewritten, names
}

// questionAdapter is the default placeholder style when no ParamAdapter is
// supplied.
func questionAdapter(pos int) string {
	return "?"
}
