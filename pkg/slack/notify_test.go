package slack

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gotest.tools/assert"

	"github.com/relware/relsync/pkg/releases"
)

func TestBuildMessageWithoutNotes(t *testing.T) {
	release := releases.Release{
		Tag:     "v1.0.0",
		HTMLURL: "https://github.com/acme/widget/releases/tag/v1.0.0",
		Notes:   "## What's New\n\n- Added **new feature**\n- Fixed bug",
	}

	message := BuildMessage(release, "https://example.com", false)
	assert.Assert(t, strings.Contains(message, "v1.0.0"))
	assert.Assert(t, strings.Contains(message, "https://example.com"))
	assert.Assert(t, strings.Contains(message, "<https://github.com/acme/widget/releases/tag/v1.0.0|v1.0.0>"))
	assert.Assert(t, !strings.Contains(message, "Release notes:"))
	assert.Assert(t, !strings.Contains(message, "new feature"))
}

func TestBuildMessageWithNotes(t *testing.T) {
	release := releases.Release{
		Tag:     "v1.0.0",
		HTMLURL: "https://github.com/acme/widget/releases/tag/v1.0.0",
		Notes:   "## What's New\n\n- Added **new feature**\n- Fixed bug",
	}

	message := BuildMessage(release, "https://example.com", true)
	assert.Assert(t, strings.Contains(message, "Release notes:"))
	assert.Assert(t, strings.Contains(message, "*What's New*"))
	assert.Assert(t, strings.Contains(message, "• Added *new feature*"))
}

func TestBuildMessageEmptyNotes(t *testing.T) {
	release := releases.Release{Tag: "v1.0.0", HTMLURL: "https://example.com/r"}

	message := BuildMessage(release, "https://example.com", true)
	assert.Assert(t, !strings.Contains(message, "Release notes:"))
}

func TestNotify(t *testing.T) {
	var received webhookMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		assert.NilError(t, err)
		assert.NilError(t, json.Unmarshal(body, &received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	err := Notify(context.Background(), server.URL, ":rocket: New release")
	assert.NilError(t, err)
	assert.Equal(t, received.Text, ":rocket: New release")
}

func TestNotifyFailsOnErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid_payload", http.StatusBadRequest)
	}))
	defer server.Close()

	err := Notify(context.Background(), server.URL, "message")
	assert.ErrorContains(t, err, "invalid_payload")
}
