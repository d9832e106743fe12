package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/eldtechnologies/keywordbot/internal/bot"
	"github.com/eldtechnologies/keywordbot/internal/messaging"
	"github.com/eldtechnologies/keywordbot/internal/store"
)

// CallbackPath is where the LINE channel's webhook URL points.
const CallbackPath = "/line_bot/callback"

// Deps are the collaborators shared by all HTTP handlers.
type Deps struct {
	Logger        zerolog.Logger
	Store         store.KeywordStore
	Redis         *store.RedisStore // optional
	Resolver      *bot.Resolver
	Replier       messaging.Replier
	ChannelSecret string

	// Deliveries defaults to Redis when configured, else to Store when it
	// can record deliveries itself.
	Deliveries store.DeliveryLedger

	// ExposeKeywords enables the read-only GET /keywords listing.
	ExposeKeywords bool
}

// Handler contains shared dependencies for all HTTP handlers.
type Handler struct {
	logger        zerolog.Logger
	store         store.KeywordStore
	redis         *store.RedisStore
	resolver      *bot.Resolver
	replier       messaging.Replier
	deliveries    store.DeliveryLedger
	channelSecret string
}

// NewHandler creates a new Handler from deps.
func NewHandler(deps Deps) *Handler {
	deliveries := deps.Deliveries
	if deliveries == nil {
		if deps.Redis != nil {
			deliveries = deps.Redis
		} else if ledger, ok := deps.Store.(store.DeliveryLedger); ok {
			deliveries = ledger
		}
	}

	return &Handler{
		logger:        deps.Logger,
		store:         deps.Store,
		redis:         deps.Redis,
		resolver:      deps.Resolver,
		replier:       deps.Replier,
		deliveries:    deliveries,
		channelSecret: deps.ChannelSecret,
	}
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error sends a JSON error response with the given status code.
func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, map[string]string{"error": message})
}
