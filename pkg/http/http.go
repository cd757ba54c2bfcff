package http

import (
	"net/http"
	"sync"
	"time"
)

var httpClient *http.Client
var httpClientOnce sync.Once

// GetHTTPClient returns the shared client used for webhook calls.
func GetHTTPClient() *http.Client {
	httpClientOnce.Do(func() {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	})

	return httpClient
}
