package messaging

import (
	"bytes"
	"net/http"
	"net/http/httptest"

	"github.com/eldtechnologies/keywordbot/internal/crypto"
)

const testSecret = "0123456789abcdef0123456789abcdef"

const textEventBody = `{
  "destination": "Ubot",
  "events": [
    {
      "type": "message",
      "mode": "active",
      "timestamp": 1700000000000,
      "webhookEventId": "01HTEXT",
      "deliveryContext": {"isRedelivery": false},
      "source": {"type": "user", "userId": "U1"},
      "replyToken": "reply-text",
      "message": {"type": "text", "id": "m1", "quoteToken": "q1", "text": "3,4"}
    },
    {
      "type": "postback",
      "mode": "active",
      "timestamp": 1700000000001,
      "webhookEventId": "01HPOST",
      "deliveryContext": {"isRedelivery": true},
      "source": {"type": "user", "userId": "U1"},
      "replyToken": "reply-postback",
      "postback": {"data": "structure_wall"}
    },
    {
      "type": "message",
      "mode": "active",
      "timestamp": 1700000000002,
      "webhookEventId": "01HSTICKER",
      "deliveryContext": {"isRedelivery": false},
      "source": {"type": "user", "userId": "U1"},
      "replyToken": "reply-sticker",
      "message": {"type": "sticker", "id": "m2", "quoteToken": "q2", "packageId": "1", "stickerId": "1", "stickerResourceType": "STATIC"}
    },
    {
      "type": "follow",
      "mode": "active",
      "timestamp": 1700000000003,
      "webhookEventId": "01HFOLLOW",
      "deliveryContext": {"isRedelivery": false},
      "source": {"type": "user", "userId": "U1"},
      "replyToken": "reply-follow",
      "follow": {"isUnblocked": false}
    }
  ]
}`

func signedRequest(secret, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/line_bot/callback", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(crypto.SignatureHeader, crypto.Sign(secret, []byte(body)))
	return req
}
