package releases

import "strings"

// FilterConfig decides which releases are eligible for a sync. It is built
// once at the CLI boundary and passed by value into the engine.
type FilterConfig struct {
	// IncludePrerelease allows prereleases to be selected
	IncludePrerelease bool

	// VersionPrefix restricts selection to tags starting with the prefix
	VersionPrefix string

	// AllowedKinds restricts which prerelease kinds may be selected. An
	// empty set allows any kind.
	AllowedKinds []Kind
}

// ParseKinds parses a comma separated list of prerelease kinds, e.g.
// "beta,rc". Unknown names map to KindOther so they can still be matched
// against unconventional tags.
func ParseKinds(list string) []Kind {
	if strings.TrimSpace(list) == "" {
		return nil
	}

	kinds := []Kind{}
	for _, name := range strings.Split(list, ",") {
		switch Kind(strings.ToLower(strings.TrimSpace(name))) {
		case KindAlpha:
			kinds = append(kinds, KindAlpha)
		case KindBeta:
			kinds = append(kinds, KindBeta)
		case KindRC:
			kinds = append(kinds, KindRC)
		default:
			kinds = append(kinds, KindOther)
		}
	}
	return kinds
}

func (f FilterConfig) allowsKind(kind Kind) bool {
	if len(f.AllowedKinds) == 0 {
		return true
	}

	for _, allowed := range f.AllowedKinds {
		if allowed == kind {
			return true
		}
	}
	return false
}

// Select returns the first release in the given newest-first order that
// survives all filters, or nil if none qualifies. The result only depends
// on the input sequence and the filter.
func Select(list []Release, filter FilterConfig) *Release {
	for i := range list {
		release := list[i]
		if release.Prerelease && !filter.IncludePrerelease {
			continue
		}
		if filter.VersionPrefix != "" && !strings.HasPrefix(release.Tag, filter.VersionPrefix) {
			continue
		}
		if release.Prerelease && !filter.allowsKind(release.Kind()) {
			continue
		}

		return &release
	}

	return nil
}
