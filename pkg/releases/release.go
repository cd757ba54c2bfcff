package releases

import (
	"strings"
	"time"
)

// Kind is a coarse classification of a prerelease derived from its
// naming convention.
type Kind string

const (
	KindNone  Kind = "none"
	KindAlpha Kind = "alpha"
	KindBeta  Kind = "beta"
	KindRC    Kind = "rc"
	KindOther Kind = "other"
)

// Release is an immutable, tagged publication of zero or more downloadable
// assets from a source repository.
type Release struct {
	// Tag is the provider-assigned identifier, unique within a repository
	Tag string `json:"tag"`

	// Name is the display name of the release
	Name string `json:"name,omitempty"`

	// Prerelease marks the release as a prerelease
	Prerelease bool `json:"prerelease,omitempty"`

	// PublishedAt is the publication timestamp
	PublishedAt time.Time `json:"publishedAt,omitempty"`

	// Assets are the downloadable files attached to the release
	Assets []Asset `json:"assets,omitempty"`

	// Notes is the free-text release body in markdown
	Notes string `json:"notes,omitempty"`

	// HTMLURL points at the release page
	HTMLURL string `json:"htmlUrl,omitempty"`
}

// Asset is a single downloadable file attached to a release.
type Asset struct {
	// Name is the file name of the asset
	Name string `json:"name"`

	// ID is the opaque download reference understood by the source client
	ID int64 `json:"id"`

	// URL is the browser download url of the asset
	URL string `json:"url,omitempty"`

	// Size is the asset size in bytes
	Size int64 `json:"size,omitempty"`
}

// Kind derives the prerelease kind from the release tag and name. The first
// match in alpha, beta, rc priority order wins; a prerelease without any
// marker is KindOther, a stable release is KindNone.
func (r Release) Kind() Kind {
	haystack := strings.ToLower(r.Tag + " " + r.Name)
	for _, kind := range []Kind{KindAlpha, KindBeta, KindRC} {
		if strings.Contains(haystack, string(kind)) {
			return kind
		}
	}

	if r.Prerelease {
		return KindOther
	}
	return KindNone
}
