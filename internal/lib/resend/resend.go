// Package resend отправляет письма через HTTP API Resend.
package resend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultURL адрес API отправки писем.
const DefaultURL = "https://api.resend.com/emails"

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text"`
}

// Client клиент Resend.
type Client struct {
	apiKey string
	url    string
	from   string
	http   *http.Client
}

// New создаёт клиента. Пустой url заменяется на DefaultURL.
func New(apiKey, url, from string) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		apiKey: apiKey,
		url:    url,
		from:   from,
		http:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Send отправляет письмо. Ответ со статусом вне 2xx считается ошибкой.
func (c *Client) Send(ctx context.Context, to, subject, html, text string) error {
	const op = "resend.Send"

	body, err := json.Marshal(sendRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
		Text:    text,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%s: unexpected status %d: %s", op, resp.StatusCode, bytes.TrimSpace(detail))
	}
	return nil
}
