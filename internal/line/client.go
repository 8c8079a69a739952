// Package line is the thin adapter to the messaging platform: webhook
// signature verification, webhook event parsing and reply delivery. The
// journey engine itself never talks to the platform.
package line

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/yourorg/okaeri/internal/config"
)

const defaultEndpoint = "https://api.line.me"

// Client delivers replies to the messaging platform.
type Client struct {
	channelSecret string
	channelToken  string
	endpoint      string
	httpClient    *http.Client
}

// NewClient creates an adapter client from the process configuration.
func NewClient(cfg config.LineConfig) *Client {
	return &Client{
		channelSecret: cfg.ChannelSecret,
		channelToken:  cfg.ChannelToken,
		endpoint:      defaultEndpoint,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SetEndpoint overrides the platform endpoint (tests only).
func (c *Client) SetEndpoint(endpoint string) {
	c.endpoint = strings.TrimSuffix(endpoint, "/")
}

// Configured reports whether platform credentials are present.
func (c *Client) Configured() bool {
	return c.channelSecret != "" && c.channelToken != ""
}

// ValidateSignature checks the webhook signature header: base64 of the
// HMAC-SHA256 digest of the raw request body keyed with the channel secret.
func (c *Client) ValidateSignature(body []byte, signature string) bool {
	if c.channelSecret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(c.channelSecret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

type replyRequest struct {
	ReplyToken string         `json:"replyToken"`
	Messages   []replyMessage `json:"messages"`
}

type replyMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Reply sends one text message back for a webhook event.
func (c *Client) Reply(ctx context.Context, replyToken, text string) error {
	payload, err := json.Marshal(replyRequest{
		ReplyToken: replyToken,
		Messages:   []replyMessage{{Type: "text", Text: text}},
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.endpoint+"/v2/bot/message/reply", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.channelToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("reply rejected with status %d", resp.StatusCode)
	}
	return nil
}
