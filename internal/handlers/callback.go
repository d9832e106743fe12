package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/eldtechnologies/keywordbot/internal/messaging"
	"github.com/eldtechnologies/keywordbot/internal/metrics"
	"github.com/eldtechnologies/keywordbot/internal/models"
	"github.com/eldtechnologies/keywordbot/internal/store"
)

// Callback handles LINE webhook deliveries. A bad signature or payload is
// answered with 400 and nothing is replied. If any event fails to resolve or
// reply the delivery is answered with 500 so the platform retries it.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}
	h.logger.Debug().Str("body", string(body)).Msg("request body")
	r.Body = io.NopCloser(bytes.NewReader(body))

	events, err := messaging.ParseCallback(h.channelSecret, r)
	if err != nil {
		if errors.Is(err, messaging.ErrInvalidSignature) {
			metrics.InvalidSignatures.Inc()
			h.logger.Error().
				Str("type", "security").
				Str("remote_addr", r.RemoteAddr).
				Msg("invalid signature, check the channel access token/channel secret")
			http.Error(w, "invalid signature", http.StatusBadRequest)
			return
		}
		h.logger.Warn().Err(err).Msg("invalid webhook payload")
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	failed := 0
	for _, event := range events {
		if err := h.handleEvent(r.Context(), event); err != nil {
			failed++
			h.logger.Error().
				Err(err).
				Str("webhook_event_id", event.WebhookEventID).
				Str("kind", string(event.Kind)).
				Msg("event handling failed")
		}
	}

	if failed > 0 {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *Handler) handleEvent(ctx context.Context, event models.IncomingEvent) error {
	metrics.WebhookEvents.WithLabelValues(string(event.Kind)).Inc()
	if event.Kind == models.EventIgnored {
		return nil
	}

	if !h.claim(ctx, event) {
		metrics.DuplicateDeliveries.Inc()
		h.logger.Info().
			Str("webhook_event_id", event.WebhookEventID).
			Bool("redelivery", event.Redelivery).
			Msg("skipping already handled event")
		return nil
	}

	if err := h.respond(ctx, event); err != nil {
		h.release(ctx, event)
		return err
	}
	return nil
}

func (h *Handler) respond(ctx context.Context, event models.IncomingEvent) error {
	var reply models.Reply
	switch event.Kind {
	case models.EventText:
		h.logger.Info().Str("text", event.Text).Msg("received message")
		var err error
		reply, err = h.resolver.Resolve(ctx, event.Text)
		if err != nil {
			return err
		}
	case models.EventPostback:
		h.logger.Info().Str("data", event.PostbackData).Msg("received postback")
		reply = h.resolver.ResolvePostback(event.PostbackData)
	default:
		return fmt.Errorf("unsupported event kind %q", event.Kind)
	}

	kind := "text"
	if reply.IsMenu() {
		kind = "menu"
	}
	h.logger.Info().Str("kind", kind).Str("text", reply.Text).Msg("response message")

	if err := h.replier.Reply(ctx, event.ReplyToken, reply); err != nil {
		metrics.RepliesSent.WithLabelValues(kind, "error").Inc()
		return err
	}
	metrics.RepliesSent.WithLabelValues(kind, "ok").Inc()
	return nil
}

// claim reports whether the event should be handled. Without a delivery
// ledger, or when it fails, every event is handled.
func (h *Handler) claim(ctx context.Context, event models.IncomingEvent) bool {
	if h.deliveries == nil || event.WebhookEventID == "" {
		return true
	}
	ok, err := h.deliveries.ClaimDelivery(ctx, event.WebhookEventID, store.DeliveryTTL)
	if err != nil {
		h.logger.Warn().Err(err).Msg("delivery claim failed")
		return true
	}
	return ok
}

func (h *Handler) release(ctx context.Context, event models.IncomingEvent) {
	if h.deliveries == nil || event.WebhookEventID == "" {
		return
	}
	if err := h.deliveries.ReleaseDelivery(ctx, event.WebhookEventID); err != nil {
		h.logger.Error().
			Err(err).
			Str("webhook_event_id", event.WebhookEventID).
			Msg("delivery release failed, a redelivery will be skipped")
	}
}
