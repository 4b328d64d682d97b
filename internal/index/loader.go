// Package index dispatches extracted knowledge-base files to the external
// index-loading collaborator.
package index

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
)

// Loader ingests one data file into a named index at the given host. The
// collaborator's contract is accepted as given; this package only governs what
// gets passed in and how a failed call is reported.
type Loader interface {
	Load(ctx context.Context, appName, indexName, dataFile, host string) error
}

// HTTPLoader talks to an HTTP index host.
type HTTPLoader struct {
	client *resty.Client
}

// loadResponse is the index host's acknowledgement payload.
type loadResponse struct {
	Acknowledged bool  `json:"acknowledged"`
	Documents    int64 `json:"documents"`
}

// NewHTTPLoader creates an HTTPLoader with the given request timeout.
func NewHTTPLoader(timeout time.Duration) *HTTPLoader {
	client := resty.New()
	client.
		SetTimeout(timeout).
		SetHeader("User-Agent", "workbench-blueprint/1.0")
	return &HTTPLoader{client: client}
}

// Load implements Loader. The data file's content is sent opaquely; the index
// host owns its interpretation.
func (l *HTTPLoader) Load(ctx context.Context, appName, indexName, dataFile, host string) error {
	data, err := os.ReadFile(dataFile)
	if err != nil {
		return fmt.Errorf("read index data %s: %w", dataFile, err)
	}

	endpoint, err := url.JoinPath(host, "indexes", appName, indexName, "_load")
	if err != nil {
		return fmt.Errorf("build index endpoint: %w", err)
	}

	resp, err := l.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(data).
		Post(endpoint)
	if err != nil {
		return fmt.Errorf("load index %q at %s: %w", indexName, host, err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("load index %q at %s: unexpected status %d", indexName, host, resp.StatusCode())
	}

	var ack loadResponse
	if err := sonic.Unmarshal(resp.Body(), &ack); err != nil {
		return fmt.Errorf("decode index host response for %q: %w", indexName, err)
	}
	if !ack.Acknowledged {
		return fmt.Errorf("index host did not acknowledge load of %q", indexName)
	}
	return nil
}
