// Package netx holds small HTTP helpers shared by the command-line client.
package netx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// MaxErrorBody caps how much of a failed response is quoted in errors.
const MaxErrorBody = 512

// PostJSON encodes body as JSON and POSTs it to url. The caller owns the
// response and must close its body.
func PostJSON(ctx context.Context, client *http.Client, url string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if client == nil {
		client = http.DefaultClient
	}
	return client.Do(req)
}

// UnexpectedStatus builds an error quoting the status and the start of the
// response body.
func UnexpectedStatus(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, MaxErrorBody))
	if len(b) == 0 {
		return fmt.Errorf("unexpected response: %s", resp.Status)
	}
	return fmt.Errorf("unexpected response: %s; body: %s", resp.Status, string(b))
}
