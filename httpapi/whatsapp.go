package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/realvia/realvia/logging"
)

// webhookPayload mirrors the WhatsApp Cloud API webhook envelope, down to
// the first text message.
type webhookPayload struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Messages []struct {
					From string `json:"from"`
					Type string `json:"type"`
					Text struct {
						Body string `json:"body"`
					} `json:"text"`
				} `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// firstTextMessage digs out the sender and body of the first text message in
// the envelope, if any.
func (p webhookPayload) firstTextMessage() (from, text string, ok bool) {
	for _, entry := range p.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				if msg.Type != "" && msg.Type != "text" {
					continue
				}
				if msg.From == "" || msg.Text.Body == "" {
					continue
				}
				return msg.From, msg.Text.Body, true
			}
		}
	}
	return "", "", false
}

// Sender delivers outbound messages back to the client's channel.
type Sender interface {
	SendText(ctx context.Context, to, body string) error
}

// LogSender is a Sender that only logs, for local runs without Cloud API
// credentials.
type LogSender struct {
	Logger logging.Logger
}

// SendText implements Sender.
func (s *LogSender) SendText(ctx context.Context, to, body string) error {
	if s.Logger != nil {
		s.Logger.Info("outbound message", "to", to, "body", body)
	}
	return nil
}

// CloudSenderOptions configures a CloudSender.
type CloudSenderOptions struct {
	// BaseURL overrides the Graph API endpoint, mainly for tests.
	BaseURL string
	// HTTPClient defaults to http.DefaultClient.
	HTTPClient *http.Client
}

// CloudSender delivers messages through the WhatsApp Cloud API.
type CloudSender struct {
	token         string
	phoneNumberID string
	baseURL       string
	client        *http.Client
}

// NewCloudSender constructs a sender for the given WhatsApp business phone
// number.
func NewCloudSender(token, phoneNumberID string, optFns ...func(o *CloudSenderOptions)) *CloudSender {
	opts := CloudSenderOptions{
		BaseURL:    "https://graph.facebook.com/v17.0",
		HTTPClient: http.DefaultClient,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &CloudSender{
		token:         token,
		phoneNumberID: phoneNumberID,
		baseURL:       opts.BaseURL,
		client:        opts.HTTPClient,
	}
}

// SendText implements Sender.
func (s *CloudSender) SendText(ctx context.Context, to, body string) error {
	payload, err := json.Marshal(map[string]any{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "text",
		"text":              map[string]string{"body": body},
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s/messages", s.baseURL, s.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp send to %s: %w", to, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("whatsapp send to %s: status %d: %s", to, resp.StatusCode, detail)
	}
	return nil
}
