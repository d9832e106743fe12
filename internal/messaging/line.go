// Package messaging adapts the LINE Messaging API to the bot's models.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"

	"github.com/eldtechnologies/keywordbot/internal/models"
)

// ErrInvalidSignature is returned by ParseCallback when X-Line-Signature
// does not match the body.
var ErrInvalidSignature = webhook.ErrInvalidSignature

// ErrEmptyReply is returned when a reply has neither text nor menu.
var ErrEmptyReply = errors.New("reply has no content")

// Replier sends the single reply allowed for a reply token.
type Replier interface {
	Reply(ctx context.Context, replyToken string, reply models.Reply) error
}

// LineReplier sends replies through the LINE reply API.
type LineReplier struct {
	api *messaging_api.MessagingApiAPI
}

// NewLineReplier creates a replier for the channel access token. endpoint
// overrides the API base URL when non-empty.
func NewLineReplier(accessToken, endpoint string, httpClient *http.Client) (*LineReplier, error) {
	var opts []messaging_api.MessagingApiAPIOption
	if endpoint != "" {
		opts = append(opts, messaging_api.WithEndpoint(endpoint))
	}
	if httpClient != nil {
		opts = append(opts, messaging_api.WithHTTPClient(httpClient))
	}

	api, err := messaging_api.NewMessagingApiAPI(accessToken, opts...)
	if err != nil {
		return nil, fmt.Errorf("create messaging api client: %w", err)
	}
	return &LineReplier{api: api}, nil
}

// Reply sends reply for replyToken. The SDK's WithContext mutates the shared
// client, so the call is bounded by the HTTP client timeout instead of ctx.
func (l *LineReplier) Reply(ctx context.Context, replyToken string, reply models.Reply) error {
	msg, err := BuildMessage(reply)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err = l.api.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages:   []messaging_api.MessageInterface{msg},
	})
	if err != nil {
		return fmt.Errorf("reply message: %w", err)
	}
	return nil
}

// BuildMessage converts a reply into a LINE message: a text message, or a
// buttons template whose actions are postbacks.
func BuildMessage(reply models.Reply) (messaging_api.MessageInterface, error) {
	if reply.Menu != nil {
		actions := make([]messaging_api.ActionInterface, len(reply.Menu.Options))
		for i, opt := range reply.Menu.Options {
			actions[i] = &messaging_api.PostbackAction{
				Label:       opt.Label,
				Data:        opt.Data,
				DisplayText: opt.Label,
			}
		}
		return &messaging_api.TemplateMessage{
			AltText: reply.Menu.AltText,
			Template: &messaging_api.ButtonsTemplate{
				Title:   reply.Menu.Title,
				Text:    reply.Menu.Text,
				Actions: actions,
			},
		}, nil
	}

	if reply.Text == "" {
		return nil, ErrEmptyReply
	}
	return &messaging_api.TextMessage{Text: reply.Text}, nil
}

// ParseCallback verifies the request signature with channelSecret and
// returns its events. Unsupported events come back as EventIgnored.
func ParseCallback(channelSecret string, r *http.Request) ([]models.IncomingEvent, error) {
	cb, err := webhook.ParseRequest(channelSecret, r)
	if err != nil {
		return nil, err
	}

	events := make([]models.IncomingEvent, 0, len(cb.Events))
	for _, event := range cb.Events {
		events = append(events, convertEvent(event))
	}
	return events, nil
}

func convertEvent(event webhook.EventInterface) models.IncomingEvent {
	switch e := event.(type) {
	case webhook.MessageEvent:
		in := models.IncomingEvent{
			Kind:           models.EventIgnored,
			ReplyToken:     e.ReplyToken,
			WebhookEventID: e.WebhookEventId,
			Redelivery:     e.DeliveryContext != nil && e.DeliveryContext.IsRedelivery,
		}
		if msg, ok := e.Message.(webhook.TextMessageContent); ok {
			in.Kind = models.EventText
			in.Text = msg.Text
		}
		return in

	case webhook.PostbackEvent:
		in := models.IncomingEvent{
			Kind:           models.EventPostback,
			ReplyToken:     e.ReplyToken,
			WebhookEventID: e.WebhookEventId,
			Redelivery:     e.DeliveryContext != nil && e.DeliveryContext.IsRedelivery,
		}
		if e.Postback != nil {
			in.PostbackData = e.Postback.Data
		}
		return in
	}

	return models.IncomingEvent{Kind: models.EventIgnored}
}
