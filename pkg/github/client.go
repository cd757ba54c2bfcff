package github

import (
	"context"
	"io"
	"net/http"
	"time"

	gogithub "github.com/google/go-github/v30/github"
	"golang.org/x/oauth2"

	"github.com/relware/relsync/pkg/download"
	"github.com/relware/relsync/pkg/releases"
)

// TokenEnv is the environment variable supplying the access token.
const TokenEnv = "GITHUB_TOKEN"

// Client wraps the list-releases and fetch-asset capabilities of the GitHub
// API. It performs no retries, retry policy belongs to the caller.
type Client struct {
	gh *gogithub.Client
}

// NewClient creates a new client. An empty token yields an anonymous client
// that can only see public repositories.
func NewClient(ctx context.Context, token string) *Client {
	var httpClient *http.Client
	if token != "" {
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	}

	return &Client{gh: gogithub.NewClient(httpClient)}
}

// ListReleases returns the published releases of owner/repo in the provider
// order, newest published first. Drafts are skipped.
func (c *Client) ListReleases(ctx context.Context, owner, repo string) ([]releases.Release, error) {
	ghReleases, _, err := c.gh.Repositories.ListReleases(ctx, owner, repo, &gogithub.ListOptions{PerPage: 100})
	if err != nil {
		return nil, translateError(err)
	}

	result := []releases.Release{}
	for _, ghRelease := range ghReleases {
		if ghRelease.GetDraft() {
			continue
		}

		release := releases.Release{
			Tag:         ghRelease.GetTagName(),
			Name:        ghRelease.GetName(),
			Prerelease:  ghRelease.GetPrerelease(),
			PublishedAt: ghRelease.GetPublishedAt().Time,
			Notes:       ghRelease.GetBody(),
			HTMLURL:     ghRelease.GetHTMLURL(),
		}
		for _, ghAsset := range ghRelease.Assets {
			release.Assets = append(release.Assets, releases.Asset{
				Name: ghAsset.GetName(),
				ID:   ghAsset.GetID(),
				URL:  ghAsset.GetBrowserDownloadURL(),
				Size: int64(ghAsset.GetSize()),
			})
		}

		result = append(result, release)
	}

	return result, nil
}

// DownloadAsset opens the raw byte stream of a release asset. When the API
// reference is stale the browser download url is tried before giving up.
// The caller is responsible for closing the stream.
func (c *Client) DownloadAsset(ctx context.Context, owner, repo string, asset releases.Asset) (io.ReadCloser, error) {
	reader, _, err := c.gh.Repositories.DownloadReleaseAsset(ctx, owner, repo, asset.ID, http.DefaultClient)
	if err == nil {
		return reader, nil
	}

	if asset.URL != "" {
		reader, downloadErr := download.File(ctx, asset.URL)
		if downloadErr == nil {
			return reader, nil
		}
	}

	return nil, &AssetUnavailableError{Name: asset.Name, Err: err}
}

func translateError(err error) error {
	switch typed := err.(type) {
	case *gogithub.RateLimitError:
		return &RateLimitedError{RetryAfter: time.Until(typed.Rate.Reset.Time)}
	case *gogithub.AbuseRateLimitError:
		return &RateLimitedError{RetryAfter: typed.GetRetryAfter()}
	case *gogithub.ErrorResponse:
		if typed.Response != nil && typed.Response.StatusCode == http.StatusNotFound {
			return ErrNotFound
		}

		return &SourceUnavailableError{Err: err}
	default:
		return &SourceUnavailableError{Err: err}
	}
}
