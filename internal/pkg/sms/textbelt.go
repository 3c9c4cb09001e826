package sms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopforge/shopforge/internal/pkg/env"
)

const defaultTextbeltURL = "https://textbelt.com/text"

// TextbeltClient sends SMS through the Textbelt HTTP API.
type TextbeltClient struct {
	APIKey string
	APIURL string

	HTTPClient *http.Client
}

type textbeltResponse struct {
	Success        bool   `json:"success"`
	QuotaRemaining int    `json:"quotaRemaining"`
	Error          string `json:"error"`
}

func NewTextbeltClientFromEnv() *TextbeltClient {
	return &TextbeltClient{
		APIKey: strings.TrimSpace(env.GetEnv("TEXTBELT_API_KEY", "")),
		APIURL: strings.TrimSpace(env.GetEnv("TEXTBELT_API_URL", defaultTextbeltURL)),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// SendSMS delivers one message to one phone number.
func (c *TextbeltClient) SendSMS(ctx context.Context, phone, message string) error {
	if strings.TrimSpace(c.APIKey) == "" {
		return errors.New("TEXTBELT_API_KEY is not configured")
	}
	if strings.TrimSpace(phone) == "" || strings.TrimSpace(message) == "" {
		return errors.New("phone and message are required")
	}

	form := url.Values{}
	form.Set("phone", strings.TrimSpace(phone))
	form.Set("message", message)
	form.Set("key", c.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("textbelt send failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var out textbeltResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return err
	}
	if !out.Success {
		return fmt.Errorf("textbelt rejected message: %s", out.Error)
	}
	return nil
}
