package capture

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/os2357/fuels-wallet/pkg/types"
)

const reportTimeout = 15 * time.Second

// HTTPReporter posts captured-error batches to a collection endpoint as a
// JSON array.
type HTTPReporter struct {
	url    string
	client *http.Client
}

// NewHTTPReporter creates a reporter for the given endpoint.
func NewHTTPReporter(url string) *HTTPReporter {
	return &HTTPReporter{
		url:    url,
		client: &http.Client{Timeout: reportTimeout},
	}
}

// Send posts the batch. Any transport failure or non-2xx response is an
// error; the caller keeps the records stored for a later retry.
func (r *HTTPReporter) Send(ctx context.Context, records []types.CapturedError) error {
	body, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building report request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting report: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("report rejected: %s", resp.Status)
	}
	return nil
}
