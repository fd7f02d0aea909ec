package pattern

import (
	"regexp"
	"strings"
)

// ToRegex converts a glob-style wildcard pattern into an anchored regular
// expression source. `*` becomes "any run of characters", `?` becomes
// "exactly one character", everything else is escaped literally.
func ToRegex(wildcard string) string {
	var builder strings.Builder
	builder.WriteString("^")

	for _, r := range wildcard {
		switch r {
		case '*':
			builder.WriteString(".*")
		case '?':
			builder.WriteString(".")
		default:
			builder.WriteString(regexp.QuoteMeta(string(r)))
		}
	}

	builder.WriteString("$")
	return builder.String()
}

// IsValid reports whether the wildcard pattern converts to a compilable
// regular expression.
func IsValid(wildcard string) bool {
	_, err := regexp.Compile(ToRegex(wildcard))
	return err == nil
}

// Matches reports whether name matches the wildcard pattern as a full-string
// match. If the converted pattern fails to compile, it falls back to plain
// substring containment; it never returns an error to the caller.
func Matches(name string, wildcard string, caseSensitive bool) bool {
	source := ToRegex(wildcard)
	if !caseSensitive {
		source = "(?i)" + source
	}

	re, err := regexp.Compile(source)
	if err != nil {
		return containsFallback(name, wildcard, caseSensitive)
	}
	return re.MatchString(name)
}

// MatchesAny splits a delimiter-separated pattern list on `;` or `,`, trims
// each part, and reports whether any sub-pattern matches the name.
func MatchesAny(name string, patterns string, caseSensitive bool) bool {
	for _, part := range splitPatterns(patterns) {
		if Matches(name, part, caseSensitive) {
			return true
		}
	}
	return false
}

// splitPatterns breaks a `;`/`,`-separated list into trimmed, non-empty parts.
func splitPatterns(patterns string) []string {
	parts := strings.FieldsFunc(patterns, func(r rune) bool {
		return r == ';' || r == ','
	})

	result := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}

// containsFallback is the substring fallback used when pattern compilation fails.
func containsFallback(name string, pat string, caseSensitive bool) bool {
	if caseSensitive {
		return strings.Contains(name, pat)
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(pat))
}
