// Package linesim posts signed LINE-shaped webhook events to a bot, so the
// callback can be exercised without a LINE channel.
package linesim

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/eldtechnologies/keywordbot/internal/crypto"
)

// DefaultCallbackPath is the bot's webhook route.
const DefaultCallbackPath = "/line_bot/callback"

// Client sends simulated events.
type Client struct {
	BaseURL      string
	CallbackPath string
	Secret       string
	UserID       string
	HTTPClient   *http.Client
}

// NewClient creates a simulator for the bot at baseURL signing with secret.
func NewClient(baseURL, secret string) *Client {
	return &Client{
		BaseURL:      strings.TrimRight(baseURL, "/"),
		CallbackPath: DefaultCallbackPath,
		Secret:       secret,
		UserID:       "Usimulator",
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Event is the subset of a LINE webhook event the bot reads.
type Event struct {
	Type            string           `json:"type"`
	Mode            string           `json:"mode"`
	Timestamp       int64            `json:"timestamp"`
	WebhookEventID  string           `json:"webhookEventId"`
	DeliveryContext DeliveryContext  `json:"deliveryContext"`
	Source          Source           `json:"source"`
	ReplyToken      string           `json:"replyToken"`
	Message         *TextMessage     `json:"message,omitempty"`
	Postback        *PostbackContent `json:"postback,omitempty"`
}

// DeliveryContext marks platform redeliveries.
type DeliveryContext struct {
	IsRedelivery bool `json:"isRedelivery"`
}

// Source identifies the sending user.
type Source struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
}

// TextMessage is a text message body.
type TextMessage struct {
	Type       string `json:"type"`
	ID         string `json:"id"`
	QuoteToken string `json:"quoteToken"`
	Text       string `json:"text"`
}

// PostbackContent carries button data.
type PostbackContent struct {
	Data string `json:"data"`
}

// Callback is the webhook request body.
type Callback struct {
	Destination string  `json:"destination"`
	Events      []Event `json:"events"`
}

// Result is the bot's answer to a delivery.
type Result struct {
	Status int
	Body   string
	Event  Event
}

// TextEvent builds a text message event.
func (c *Client) TextEvent(text string) Event {
	ev := c.baseEvent("message")
	ev.Message = &TextMessage{
		Type:       "text",
		ID:         ev.WebhookEventID,
		QuoteToken: ev.ReplyToken,
		Text:       text,
	}
	return ev
}

// PostbackEvent builds a postback event for a pressed button.
func (c *Client) PostbackEvent(data string) Event {
	ev := c.baseEvent("postback")
	ev.Postback = &PostbackContent{Data: data}
	return ev
}

func (c *Client) baseEvent(typ string) Event {
	return Event{
		Type:           typ,
		Mode:           "active",
		Timestamp:      time.Now().UnixMilli(),
		WebhookEventID: crypto.NewEventID(),
		Source:         Source{Type: "user", UserID: c.UserID},
		ReplyToken:     crypto.NewReplyToken(),
	}
}

// SendText delivers a text message event.
func (c *Client) SendText(text string) (*Result, error) {
	return c.Send(c.TextEvent(text))
}

// SendPostback delivers a postback event.
func (c *Client) SendPostback(data string) (*Result, error) {
	return c.Send(c.PostbackEvent(data))
}

// Send delivers ev in a signed callback.
func (c *Client) Send(ev Event) (*Result, error) {
	body, err := json.Marshal(Callback{Destination: "Usimulator", Events: []Event{ev}})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, c.BaseURL+c.CallbackPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(crypto.SignatureHeader, crypto.Sign(c.Secret, body))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post callback: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Result{Status: resp.StatusCode, Body: strings.TrimSpace(string(respBody)), Event: ev}, nil
}

// Health fetches the bot's /health document.
func (c *Client) Health() (map[string]any, error) {
	resp, err := c.HTTPClient.Get(c.BaseURL + "/health")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
