// Package engine orchestrates the conversation: it owns the transcript, the
// selected category, and the in-flight flag, and merges backend replies (or
// fallbacks) into the visible log.
package engine

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/xaenox/health-coach/internal/api"
	"github.com/xaenox/health-coach/internal/models"
	"github.com/xaenox/health-coach/internal/session"
	"github.com/xaenox/health-coach/internal/transcript"
)

// WelcomeText seeds every new transcript before any user interaction.
const WelcomeText = "Hello! I'm your **Smart Health Coach** 🌟\n\n" +
	"I can help you with:\n\n" +
	"✅ **Personalized meal plans** - Custom nutrition based on your goals\n" +
	"✅ **Workout schedules** - Tailored fitness routines\n" +
	"✅ **Health tracking** - Monitor your progress\n" +
	"✅ **Sleep optimization** - Better rest and recovery\n" +
	"✅ **Wellness goals** - Achieve your health targets\n" +
	"✅ **Progress analytics** - Data-driven insights\n\n" +
	"What would you like to work on today?"

// FallbackText is appended as the assistant's reply when the exchange fails
// for any reason.
const FallbackText = "I'm having trouble connecting right now, but I'm here to help! 💪 Try again in a moment."

// MissingReplyText substitutes for a response with no reply text.
const MissingReplyText = "I'm here to help! Could you provide more details?"

// Exchanger issues one chat round trip. *api.Client satisfies it.
type Exchanger interface {
	Exchange(ctx context.Context, token, message, category string) (*api.ExchangeResponse, error)
}

// Config holds engine tunables.
type Config struct {
	// QuickActionDelay is slept before dispatching a quick action so a
	// front-end can render the selected category first.
	QuickActionDelay time.Duration
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{QuickActionDelay: 100 * time.Millisecond}
}

// Engine drives the conversation. Only one exchange is meant to be in
// flight at a time; InFlight lets a caller gate further submissions, but
// overlapping Submit calls are a caller error the engine does not correct.
type Engine struct {
	mu         sync.Mutex
	transcript transcript.Transcript
	category   models.Category

	inFlight atomic.Bool

	cfg      Config
	client   Exchanger
	sessions *session.Store
	logger   *zap.Logger
}

// New creates an engine whose transcript is seeded with the welcome message.
func New(cfg Config, client Exchanger, sessions *session.Store, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		transcript: transcript.New(models.NewMessage(models.OriginAssistant, WelcomeText, "")),
		cfg:        cfg,
		client:     client,
		sessions:   sessions,
		logger:     logger,
	}
}

// Transcript returns the current transcript value.
func (e *Engine) Transcript() transcript.Transcript {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.transcript
}

// InFlight reports whether an exchange is pending.
func (e *Engine) InFlight() bool { return e.inFlight.Load() }

// SelectedCategory returns the sticky category, or "" when none is selected.
func (e *Engine) SelectedCategory() models.Category {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.category
}

// SelectCategory sets the sticky category. Values outside the closed set
// are ignored.
func (e *Engine) SelectCategory(c models.Category) {
	if !c.Valid() {
		return
	}
	e.mu.Lock()
	e.category = c
	e.mu.Unlock()
}

// ClearCategory drops the sticky category.
func (e *Engine) ClearCategory() {
	e.mu.Lock()
	e.category = ""
	e.mu.Unlock()
}

// Submit runs one conversation turn: the user message is appended locally
// before the network call starts, and exactly one assistant message (reply
// or fallback) is appended after it settles. Empty or whitespace-only text
// is rejected silently. Submit never returns an error; backend failures
// degrade to the fallback reply.
func (e *Engine) Submit(ctx context.Context, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}

	e.mu.Lock()
	category := string(e.category)
	e.transcript = e.transcript.Append(models.NewMessage(models.OriginUser, text, category))
	e.mu.Unlock()

	e.inFlight.Store(true)
	defer e.inFlight.Store(false)

	token := e.sessions.GetOrCreate()
	resp, err := e.client.Exchange(ctx, token, text, category)
	if err != nil {
		e.logger.Warn("exchange failed",
			zap.Error(err),
			zap.String("category", category))
		e.appendAssistant(FallbackText, "")
		return
	}

	if resp.SessionID != "" {
		e.sessions.Replace(resp.SessionID)
	}

	reply := resp.Response
	if strings.TrimSpace(reply) == "" {
		reply = MissingReplyText
	}
	e.appendAssistant(reply, resp.Category)
}

// SubmitQuickAction selects the category, waits out the configured dispatch
// delay, then submits the canned text. Quick actions are meant for fresh
// conversations, but that gate belongs to the presentation layer; the
// engine behaves the same at any point.
func (e *Engine) SubmitQuickAction(ctx context.Context, text string, category models.Category) {
	e.SelectCategory(category)
	if e.cfg.QuickActionDelay > 0 {
		select {
		case <-time.After(e.cfg.QuickActionDelay):
		case <-ctx.Done():
		}
	}
	e.Submit(ctx, text)
}

func (e *Engine) appendAssistant(text, category string) {
	e.mu.Lock()
	e.transcript = e.transcript.Append(models.NewMessage(models.OriginAssistant, text, category))
	e.mu.Unlock()
}
