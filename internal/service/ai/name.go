package ai

import (
	"regexp"
	"strings"
	"unicode"
)

// FallbackName is used whenever no usable name can be derived from a profile URL
const FallbackName = "there"

var (
	profileSlugRe     = regexp.MustCompile(`(?i)linkedin\.com/in/([^/?]+)`)
	numericSuffixRe   = regexp.MustCompile(`-\d+$`)
	nonLetterHyphenRe = regexp.MustCompile(`[^a-zA-Z-]`)
)

// ExtractName derives a display name from a LinkedIn profile URL.
// It never fails: unparseable input yields FallbackName.
func ExtractName(url string) string {
	match := profileSlugRe.FindStringSubmatch(url)
	if match == nil || match[1] == "" {
		return FallbackName
	}

	slug := numericSuffixRe.ReplaceAllString(match[1], "")
	slug = nonLetterHyphenRe.ReplaceAllString(slug, "")

	var name string
	if strings.Contains(slug, "-") {
		var parts []string
		for _, p := range strings.Split(slug, "-") {
			if len(p) > 1 {
				parts = append(parts, titleCase(p))
			}
			if len(parts) == 2 {
				break
			}
		}
		name = strings.Join(parts, " ")
	} else {
		parts := splitBeforeUpper(slug)
		if len(parts) > 2 {
			parts = parts[:2]
		}
		for i, p := range parts {
			parts[i] = titleCase(p)
		}
		name = strings.Join(parts, " ")
	}

	if len(name) > 2 {
		return name
	}
	return FallbackName
}

// splitBeforeUpper breaks "JohnDoe" into ["John", "Doe"]. Empty parts are dropped.
func splitBeforeUpper(s string) []string {
	var parts []string
	start := 0
	for i, r := range s {
		if i > start && unicode.IsUpper(r) {
			parts = append(parts, s[start:i])
			start = i
		}
	}
	if start < len(s) {
		parts = append(parts, s[start:])
	}
	return parts
}

// titleCase upper-cases the first letter and lower-cases the rest. Input is ASCII letters.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
