package signal

import (
	"strings"

	proemerrors "github.com/alexisbeaulieu97/proem/pkg/errors"
)

const (
	// WildcardSuffix marks a subscription to every event below a dot-prefix.
	WildcardSuffix = ".*"
	// RootWildcard subscribes to every event. A bare WildcardSuffix (".*")
	// is accepted as an alias and stored as RootWildcard.
	RootWildcard = "*"
)

// normalizePattern maps the ".*" alias onto RootWildcard.
func normalizePattern(name string) string {
	if name == WildcardSuffix {
		return RootWildcard
	}
	return name
}

// parsePattern validates an attachment name and reports whether it is a
// wildcard subscription.
func parsePattern(name string) (bool, error) {
	switch {
	case name == "":
		return false, proemerrors.NewPatternError(name, "name is empty")
	case name == RootWildcard, name == WildcardSuffix:
		return true, nil
	case strings.HasSuffix(name, WildcardSuffix):
		prefix := strings.TrimSuffix(name, WildcardSuffix)
		if err := validateSegments(name, prefix); err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, validateSegments(name, name)
	}
}

// validateConcrete checks a name used to trigger or remove a queue.
func validateConcrete(name string) error {
	if name == "" {
		return proemerrors.NewPatternError(name, "name is empty")
	}
	return validateSegments(name, name)
}

func validateSegments(pattern, name string) error {
	for _, segment := range strings.Split(name, ".") {
		if segment == "" {
			return proemerrors.NewPatternError(pattern, "empty segment")
		}
		if strings.Contains(segment, "*") {
			return proemerrors.NewPatternError(pattern, "'*' is only allowed as the final segment")
		}
	}
	return nil
}

// wildcardCandidates lists, most specific first, the wildcard keys that match
// name: "a.b.c" yields "a.b.*", "a.*", "*".
func wildcardCandidates(name string) []string {
	segments := strings.Split(name, ".")
	candidates := make([]string, 0, len(segments))
	for i := len(segments) - 1; i > 0; i-- {
		candidates = append(candidates, strings.Join(segments[:i], ".")+WildcardSuffix)
	}
	return append(candidates, RootWildcard)
}

// IsWildcard reports whether name is a wildcard subscription pattern.
func IsWildcard(name string) bool {
	return name == RootWildcard || strings.HasSuffix(name, WildcardSuffix)
}
