package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// HTTPWebhookSink posts webhook events to a configured URL with optional
// static headers. The caller's context bounds the call; the sink itself sets
// no timeout.
type HTTPWebhookSink struct {
	url     string
	headers map[string]string
	client  *http.Client
}

func NewHTTPWebhookSink(url string, headers map[string]string) *HTTPWebhookSink {
	return &HTTPWebhookSink{
		url:     url,
		headers: headers,
		client:  &http.Client{},
	}
}

func (s *HTTPWebhookSink) Send(ctx context.Context, event WebhookEvent) error {
	jsonData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range s.headers {
		req.Header.Set(key, value)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook responded with status %d", resp.StatusCode)
	}

	return nil
}
