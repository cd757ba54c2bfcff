package download

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"

	relsynchttp "github.com/relware/relsync/pkg/http"
)

// File opens the byte stream behind a raw download URL. The caller is
// responsible for closing the stream.
func File(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := relsynchttp.GetHTTPClient().Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "download file")
	} else if resp.StatusCode >= 400 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("received status code %d when trying to download %s", resp.StatusCode, rawURL)
	}

	return resp.Body, nil
}
