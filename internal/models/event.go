package models

// EventKind identifies which part of a webhook event carries the user input.
type EventKind string

const (
	EventText     EventKind = "text"
	EventPostback EventKind = "postback"
	EventIgnored  EventKind = "ignored" // non-text messages, follows, joins, ...
)

// IncomingEvent is one user action delivered by a webhook callback.
type IncomingEvent struct {
	Kind           EventKind
	ReplyToken     string
	Text           string // message text for EventText
	PostbackData   string // button data for EventPostback
	WebhookEventID string
	Redelivery     bool
}
