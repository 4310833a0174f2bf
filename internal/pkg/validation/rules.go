package validation

import (
	"regexp"
	"strings"
)

// Validation rule patterns
var (
	// NIS validation pattern - 4 to 10 digits as issued by the school
	NISPattern = `^\d{4,10}$`

	// Placeholder NIS prefix used by bootstrap-created records. Placeholder
	// values never match NISPattern, so the two populations stay disjoint.
	PlaceholderNISPrefix = "TMP-"

	// Name validation min/max length
	NameMinLength = 2
	NameMaxLength = 100
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	NIS *regexp.Regexp
}{
	NIS: regexp.MustCompile(NISPattern),
}

// IsValidNIS reports whether value is a real school-issued NIS.
func IsValidNIS(value string) bool {
	return CompiledPatterns.NIS.MatchString(value)
}

// IsPlaceholderNIS reports whether value is a generated placeholder rather
// than a school-issued number.
func IsPlaceholderNIS(value string) bool {
	return strings.HasPrefix(value, PlaceholderNISPrefix)
}

// IsValidName reports whether a display name falls within accepted bounds.
func IsValidName(value string) bool {
	trimmed := strings.TrimSpace(value)
	return len(trimmed) >= NameMinLength && len(trimmed) <= NameMaxLength
}
