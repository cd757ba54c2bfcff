package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	relsynchttp "github.com/relware/relsync/pkg/http"
	"github.com/relware/relsync/pkg/releases"
)

type webhookMessage struct {
	Text string `json:"text"`
}

// BuildMessage renders the Slack text for a freshly synced release. The
// release notes are appended in mrkdwn form when includeNotes is set and the
// release carries a body.
func BuildMessage(release releases.Release, clientURL string, includeNotes bool) string {
	message := fmt.Sprintf(":rocket: New release <%s|%s> deployed at %s", release.HTMLURL, release.Tag, clientURL)
	if includeNotes && strings.TrimSpace(release.Notes) != "" {
		message += "\n\nRelease notes:\n" + FormatMarkdown(release.Notes)
	}

	return message
}

// Notify posts the message to the Slack incoming webhook.
func Notify(ctx context.Context, webhookURL, message string) error {
	payload, err := json.Marshal(&webhookMessage{Text: message})
	if err != nil {
		return err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := relsynchttp.GetHTTPClient().Do(request)
	if err != nil {
		return errors.Wrap(err, "send slack notification")
	}
	defer response.Body.Close()

	if response.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(response.Body, 512))
		return errors.Errorf("slack webhook returned status %d: %s", response.StatusCode, strings.TrimSpace(string(body)))
	}

	return nil
}
