package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"ofo/internal/config"
)

type OneSignal struct {
	cfg  config.PushConfig
	http *http.Client
}

func NewOneSignal(cfg config.PushConfig, httpClient *http.Client) *OneSignal {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &OneSignal{cfg: cfg, http: httpClient}
}

type oneSignalMessage struct {
	AppID            string            `json:"app_id"`
	Headings         map[string]string `json:"headings"`
	Contents         map[string]string `json:"contents"`
	IncludePlayerIDs []string          `json:"include_player_ids"`
}

func (o *OneSignal) Notify(ctx context.Context, deviceRef, title, message string) error {
	body, err := json.Marshal(oneSignalMessage{
		AppID:            o.cfg.OneSignalAppID,
		Headings:         map[string]string{"en": title},
		Contents:         map[string]string{"en": message},
		IncludePlayerIDs: []string{deviceRef},
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.cfg.OneSignalURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Basic "+o.cfg.OneSignalAPIKey)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := o.http.Do(req)
	if err != nil {
		return fmt.Errorf("onesignal request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("onesignal returned status %d", resp.StatusCode)
	}
	return nil
}
