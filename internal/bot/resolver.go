// Package bot decides what the bot answers to a message or a button press.
package bot

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/eldtechnologies/keywordbot/internal/metrics"
	"github.com/eldtechnologies/keywordbot/internal/models"
)

const (
	// DefaultMenuTrigger is the text that opens the pricing menu.
	DefaultMenuTrigger = "structure pricing"

	// AddCommand prefixes the admin command "新增功能;<keyword>;<response>".
	AddCommand = "新增功能"
	commandSep = ";"
)

// Fixed user-facing replies.
const (
	MsgAddFormatError  = "格式錯誤，請使用：新增功能;關鍵字;回應內容"
	MsgAreaFormatError = "格式錯誤，請輸入兩個數字並以逗號分隔，例如：3,4"
	MsgUnknownOption   = "未知的選項，請重新選擇"
)

// Resolver outcome labels.
const (
	OutcomeMenu         = "menu"
	OutcomeAdminAdded   = "admin_added"
	OutcomeAdminInvalid = "admin_invalid"
	OutcomeAdminFailed  = "admin_failed"
	OutcomeKeyword      = "keyword"
	OutcomeArea         = "area"
	OutcomeAreaInvalid  = "area_invalid"
	OutcomeEcho         = "echo"
)

// Keywords is the part of the keyword store the resolver needs.
type Keywords interface {
	Lookup(ctx context.Context, keyword string) (string, bool, error)
	Insert(ctx context.Context, keyword, response string) error
}

// Resolver maps incoming text to a reply.
type Resolver struct {
	keywords    Keywords
	menuTrigger string
	menu        MenuSpec
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMenuTrigger replaces DefaultMenuTrigger.
func WithMenuTrigger(trigger string) Option {
	return func(r *Resolver) {
		if trigger != "" {
			r.menuTrigger = trigger
		}
	}
}

// WithMenu replaces the default pricing menu.
func WithMenu(menu MenuSpec) Option {
	return func(r *Resolver) {
		r.menu = menu
	}
}

// NewResolver creates a resolver backed by keywords.
func NewResolver(keywords Keywords, opts ...Option) *Resolver {
	r := &Resolver{
		keywords:    keywords,
		menuTrigger: DefaultMenuTrigger,
		menu:        PricingMenu(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the reply for text. The first matching rule wins:
// menu trigger, add command, stored keyword, numeric pair, echo.
// Only keyword lookup failures are returned as errors.
func (r *Resolver) Resolve(ctx context.Context, text string) (models.Reply, error) {
	trimmed := strings.TrimSpace(text)

	if trimmed == r.menuTrigger {
		return r.done(OutcomeMenu, models.Reply{Menu: r.menu.Reply()}), nil
	}

	if strings.HasPrefix(trimmed, AddCommand) {
		return r.addKeyword(ctx, trimmed), nil
	}

	resp, ok, err := r.keywords.Lookup(ctx, trimmed)
	if err != nil {
		return models.Reply{}, fmt.Errorf("lookup keyword: %w", err)
	}
	if ok {
		return r.done(OutcomeKeyword, models.TextReply(resp)), nil
	}

	if length, height, isPair := splitPair(trimmed); isPair {
		area, err := computeArea(length, height)
		if err != nil {
			return r.done(OutcomeAreaInvalid, models.TextReply(MsgAreaFormatError)), nil
		}
		return r.done(OutcomeArea, models.TextReply(formatArea(area))), nil
	}

	return r.done(OutcomeEcho, models.TextReply(text)), nil
}

// ResolvePostback returns the prompt for a menu button.
func (r *Resolver) ResolvePostback(data string) models.Reply {
	for _, item := range r.menu.Items {
		if item.Data == data {
			return models.TextReply(item.Prompt)
		}
	}
	return models.TextReply(MsgUnknownOption)
}

func (r *Resolver) addKeyword(ctx context.Context, text string) models.Reply {
	fields := strings.Split(text, commandSep)
	if len(fields) != 3 || fields[0] != AddCommand {
		return r.done(OutcomeAdminInvalid, models.TextReply(MsgAddFormatError))
	}

	keyword := strings.TrimSpace(fields[1])
	response := strings.TrimSpace(fields[2])
	if keyword == "" || response == "" {
		return r.done(OutcomeAdminInvalid, models.TextReply(MsgAddFormatError))
	}

	if err := r.keywords.Insert(ctx, keyword, response); err != nil {
		return r.done(OutcomeAdminFailed, models.TextReply(fmt.Sprintf("新增功能失敗：%v", err)))
	}

	return r.done(OutcomeAdminAdded, models.TextReply(
		fmt.Sprintf("已新增功能！關鍵字：%s，回應：%s", keyword, response),
	))
}

func (r *Resolver) done(outcome string, reply models.Reply) models.Reply {
	metrics.ResolverOutcomes.WithLabelValues(outcome).Inc()
	return reply
}

// splitPair splits "a,b" (ASCII or full-width comma) into two trimmed tokens.
func splitPair(text string) (string, string, bool) {
	text = strings.ReplaceAll(text, "，", ",")
	parts := strings.Split(text, ",")
	if len(parts) != 2 {
		return "", "", false
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), true
}

func computeArea(lengthStr, heightStr string) (float64, error) {
	length, err := parseDimension(lengthStr)
	if err != nil {
		return 0, err
	}
	height, err := parseDimension(heightStr)
	if err != nil {
		return 0, err
	}
	area := length * height
	if math.IsInf(area, 0) {
		return 0, fmt.Errorf("area overflows: %s x %s", lengthStr, heightStr)
	}
	return area, nil
}

func parseDimension(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, fmt.Errorf("invalid dimension %q", s)
	}
	return v, nil
}

func formatArea(area float64) string {
	return fmt.Sprintf("計算結果：面積為 %s 平方公尺", strconv.FormatFloat(area, 'f', -1, 64))
}
