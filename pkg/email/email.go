package email

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"calnotify/pkg/client"
)

const (
	TokenHeader = "X-Postmark-Server-Token"
	sendPath    = "/email"
)

var ErrNotConfigured = errors.New("email: provider token or sender address is not configured")

type Attachment struct {
	Name        string
	Content     []byte
	ContentType string
}

type Message struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
	ReplyTo  string
	Calendar *Attachment
}

// ProviderError is returned for any non-2xx provider response.
type ProviderError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("email provider returned %d (code %d): %s", e.StatusCode, e.Code, e.Message)
}

type Config struct {
	BaseURL       string
	Token         string
	From          string
	MessageStream string
	Timeout       time.Duration
}

// Client sends one transactional message per Send call. It never retries.
type Client struct {
	http   *client.HttpClient
	token  string
	from   string
	stream string
}

func NewClient(cfg Config) *Client {
	return &Client{
		http:   client.NewHttpClient(cfg.BaseURL, cfg.Timeout).WithHeader(TokenHeader, cfg.Token),
		token:  cfg.Token,
		from:   cfg.From,
		stream: cfg.MessageStream,
	}
}

func (c *Client) Ready() error {
	if c.token == "" || c.from == "" {
		return ErrNotConfigured
	}
	return nil
}

type sendRequest struct {
	From          string              `json:"From"`
	To            string              `json:"To"`
	Subject       string              `json:"Subject"`
	HTMLBody      string              `json:"HtmlBody"`
	TextBody      string              `json:"TextBody,omitempty"`
	ReplyTo       string              `json:"ReplyTo,omitempty"`
	MessageStream string              `json:"MessageStream,omitempty"`
	Attachments   []attachmentPayload `json:"Attachments,omitempty"`
}

type attachmentPayload struct {
	Name        string `json:"Name"`
	Content     string `json:"Content"`
	ContentType string `json:"ContentType"`
}

type sendResponse struct {
	MessageID string `json:"MessageID"`
	ErrorCode int    `json:"ErrorCode"`
	Message   string `json:"Message"`
}

// Send delivers msg and returns the provider's message id.
func (c *Client) Send(ctx context.Context, msg Message) (string, error) {
	if err := c.Ready(); err != nil {
		return "", err
	}
	if strings.TrimSpace(msg.To) == "" {
		return "", errors.New("email: recipient is required")
	}

	req := sendRequest{
		From:          c.from,
		To:            msg.To,
		Subject:       msg.Subject,
		HTMLBody:      msg.HTMLBody,
		TextBody:      msg.TextBody,
		ReplyTo:       msg.ReplyTo,
		MessageStream: c.stream,
	}
	if msg.Calendar != nil {
		req.Attachments = append(req.Attachments, attachmentPayload{
			Name:        msg.Calendar.Name,
			Content:     base64.StdEncoding.EncodeToString(msg.Calendar.Content),
			ContentType: msg.Calendar.ContentType,
		})
	}

	resp, err := c.http.POST(ctx, sendPath, req)
	if err != nil {
		return "", fmt.Errorf("email: send: %w", err)
	}

	var body sendResponse
	decodeErr := resp.DecodeJSON(&body)

	if !resp.IsSuccess() {
		perr := &ProviderError{StatusCode: resp.StatusCode, Message: client.GetErrorMessage(resp)}
		if decodeErr == nil {
			perr.Code = body.ErrorCode
		}
		return "", perr
	}

	// Postmark reports some rejections with a 200 and a non-zero ErrorCode.
	if decodeErr == nil && body.ErrorCode != 0 {
		return "", &ProviderError{StatusCode: http.StatusOK, Code: body.ErrorCode, Message: body.Message}
	}

	return body.MessageID, nil
}
