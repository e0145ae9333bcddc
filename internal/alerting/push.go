package alerting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/petprotect/hub/internal/errors"
)

// PushRelay delivers a notification to a device identified by its push token.
type PushRelay interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

// ExpoRelay posts notifications to an Expo-compatible push endpoint.
type ExpoRelay struct {
	endpoint string
	client   *http.Client
}

func NewExpoRelay(endpoint string, client *http.Client) *ExpoRelay {
	return &ExpoRelay{endpoint: endpoint, client: client}
}

type pushMessage struct {
	To    string            `json:"to"`
	Sound string            `json:"sound"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

func (r *ExpoRelay) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	payload, err := json.Marshal(pushMessage{
		To:    token,
		Sound: "default",
		Title: title,
		Body:  body,
		Data:  data,
	})
	if err != nil {
		return errors.NewInternalError("failed to encode push message", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(payload))
	if err != nil {
		return errors.NewInternalError("failed to build push request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return errors.NewTransportError("push relay unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.NewTransportError(
			fmt.Sprintf("push relay returned status %d", resp.StatusCode), nil)
	}
	return nil
}
