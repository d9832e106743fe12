package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/eldtechnologies/keywordbot/internal/bot"
	"github.com/eldtechnologies/keywordbot/internal/crypto"
	"github.com/eldtechnologies/keywordbot/internal/models"
	"github.com/eldtechnologies/keywordbot/internal/store"
)

const testSecret = "fedcba9876543210fedcba9876543210"

type sentReply struct {
	Token string
	Reply models.Reply
}

// fakeReplier records replies instead of calling the messaging API.
type fakeReplier struct {
	mu   sync.Mutex
	sent []sentReply
	err  error
	// failTokens fails only the listed reply tokens.
	failTokens map[string]bool
}

func (f *fakeReplier) Reply(_ context.Context, replyToken string, reply models.Reply) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.failTokens[replyToken] {
		return errReplyFailed
	}
	f.sent = append(f.sent, sentReply{Token: replyToken, Reply: reply})
	return nil
}

func (f *fakeReplier) setFailTokens(tokens ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failTokens = make(map[string]bool)
	for _, tok := range tokens {
		f.failTokens[tok] = true
	}
}

func (f *fakeReplier) repliesTo(token string) int {
	n := 0
	for _, s := range f.replies() {
		if s.Token == token {
			n++
		}
	}
	return n
}

func (f *fakeReplier) replies() []sentReply {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentReply(nil), f.sent...)
}

var errReplyFailed = errors.New("reply api unavailable")

type testEnv struct {
	handler *Handler
	store   *store.SQLiteStore
	replier *fakeReplier
}

func newTestEnv(t *testing.T, redis *store.RedisStore) *testEnv {
	t.Helper()
	s, err := store.NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "bot.db"))
	require.NoError(t, err)
	t.Cleanup(s.Close)

	replier := &fakeReplier{}
	h := NewHandler(Deps{
		Logger:        zerolog.Nop(),
		Store:         s,
		Redis:         redis,
		Resolver:      bot.NewResolver(s),
		Replier:       replier,
		ChannelSecret: testSecret,
	})
	return &testEnv{handler: h, store: s, replier: replier}
}

type eventSpec struct {
	ID       string
	Token    string
	Text     string
	Postback string
	Sticker  bool
}

func callbackBody(t *testing.T, specs ...eventSpec) []byte {
	t.Helper()
	events := make([]map[string]any, 0, len(specs))
	for i, s := range specs {
		ev := map[string]any{
			"mode":            "active",
			"timestamp":       1700000000000 + i,
			"webhookEventId":  s.ID,
			"deliveryContext": map[string]any{"isRedelivery": false},
			"source":          map[string]any{"type": "user", "userId": "U1"},
			"replyToken":      s.Token,
		}
		switch {
		case s.Postback != "":
			ev["type"] = "postback"
			ev["postback"] = map[string]any{"data": s.Postback}
		case s.Sticker:
			ev["type"] = "message"
			ev["message"] = map[string]any{"type": "sticker", "id": "s1", "quoteToken": "q", "packageId": "1", "stickerId": "1", "stickerResourceType": "STATIC"}
		default:
			ev["type"] = "message"
			ev["message"] = map[string]any{"type": "text", "id": "m1", "quoteToken": "q", "text": s.Text}
		}
		events = append(events, ev)
	}
	body, err := json.Marshal(map[string]any{"destination": "Ubot", "events": events})
	require.NoError(t, err)
	return body
}

func (e *testEnv) post(body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/line_bot/callback", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set(crypto.SignatureHeader, signature)
	}
	rec := httptest.NewRecorder()
	e.handler.Callback(rec, req)
	return rec
}

func (e *testEnv) postSigned(body []byte) *httptest.ResponseRecorder {
	return e.post(body, crypto.Sign(testSecret, body))
}
