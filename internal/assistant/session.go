// Package assistant runs the on-page Q&A conversation: ordered message
// history persisted per origin, quick-reply chips, and the open/closed
// state of the widget.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/rcliao/page-enhancer/internal/model"
	"github.com/rcliao/page-enhancer/internal/store"
)

// DefaultStorageKey is the single key the history is stored under.
const DefaultStorageKey = "page_assistant_history"

// KeyEscape closes the panel.
const KeyEscape = "Escape"

// Answerer resolves questions and exposes its intent rules.
type Answerer interface {
	Answer(question string) string
	Rules() []model.IntentRule
}

// Options configures a Session.
type Options struct {
	Origin     string
	StorageKey string
	Labels     Labels
}

// Session is one visitor's conversation with the assistant.
type Session struct {
	id      string
	index   Answerer
	kv      store.KV
	opts    Options
	logger  *zap.Logger
	history []model.ChatMessage

	open         bool
	inputFocused bool
}

// NewSession creates a session and restores persisted history. A missing
// or unreadable history starts the session empty.
func NewSession(ctx context.Context, index Answerer, kv store.KV, opts Options, logger *zap.Logger) *Session {
	if opts.StorageKey == "" {
		opts.StorageKey = DefaultStorageKey
	}
	opts.Labels = opts.Labels.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}

	entropy := rand.New(rand.NewSource(time.Now().UnixNano()))
	s := &Session{
		id:     ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String(),
		index:  index,
		kv:     kv,
		opts:   opts,
		logger: logger,
	}
	s.logger = logger.With(zap.String("session", s.id), zap.String("origin", opts.Origin))
	s.restore(ctx)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

func (s *Session) restore(ctx context.Context) {
	if s.kv == nil {
		return
	}
	raw, err := s.kv.Get(ctx, s.opts.Origin, s.opts.StorageKey)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Debug("history unavailable", zap.Error(err))
		}
		return
	}

	var msgs []model.ChatMessage
	if err := json.Unmarshal([]byte(raw), &msgs); err != nil {
		s.logger.Debug("history corrupt, starting empty", zap.Error(err))
		return
	}
	for _, m := range msgs {
		if (m.Role == model.RoleUser || m.Role == model.RoleBot) && m.Text != "" {
			s.history = append(s.history, m)
		}
	}
	s.history = model.TrimHistory(s.history)
	s.logger.Debug("history restored", zap.Int("messages", len(s.history)))
}

func (s *Session) persist(ctx context.Context) {
	if s.kv == nil {
		return
	}
	b, err := json.Marshal(s.history)
	if err != nil {
		s.logger.Debug("encode history", zap.Error(err))
		return
	}
	if err := s.kv.Set(ctx, s.opts.Origin, s.opts.StorageKey, string(b)); err != nil {
		s.logger.Debug("persist history", zap.Error(err))
	}
}

func (s *Session) append(ctx context.Context, m model.ChatMessage) {
	s.history = model.TrimHistory(append(s.history, m))
	s.persist(ctx)
}

// Submit records the question and the assistant's answer, in that order,
// and returns the answer. Blank input is ignored.
func (s *Session) Submit(ctx context.Context, text string) (model.ChatMessage, bool) {
	q := strings.TrimSpace(text)
	if q == "" {
		return model.ChatMessage{}, false
	}

	s.append(ctx, model.ChatMessage{Role: model.RoleUser, Text: q})
	reply := model.ChatMessage{Role: model.RoleBot, Text: s.index.Answer(q)}
	s.append(ctx, reply)
	return reply, true
}

// Chips returns one quick reply per intent rule exemplar.
func (s *Session) Chips() []string {
	rules := s.index.Rules()
	chips := make([]string, 0, len(rules))
	for _, r := range rules {
		chips = append(chips, r.Exemplar)
	}
	return chips
}

// ChooseChip submits the i-th quick reply.
func (s *Session) ChooseChip(ctx context.Context, i int) (model.ChatMessage, bool) {
	chips := s.Chips()
	if i < 0 || i >= len(chips) {
		return model.ChatMessage{}, false
	}
	return s.Submit(ctx, chips[i])
}

// History returns a copy of the retained messages, oldest first.
func (s *Session) History() []model.ChatMessage {
	return append([]model.ChatMessage(nil), s.history...)
}

// Toggle flips the panel and reports whether it is now open.
func (s *Session) Toggle() bool {
	if s.open {
		s.Close()
	} else {
		s.Open()
	}
	return s.open
}

// Open shows the panel and focuses the input.
func (s *Session) Open() {
	s.open = true
	s.inputFocused = true
}

// Close hides the panel. History is kept.
func (s *Session) Close() {
	s.open = false
	s.inputFocused = false
}

// KeyDown closes an open panel on Escape and reports whether it did.
func (s *Session) KeyDown(key string) bool {
	if key != KeyEscape || !s.open {
		return false
	}
	s.Close()
	return true
}

// IsOpen reports whether the panel is shown.
func (s *Session) IsOpen() bool {
	return s.open
}

// Expanded returns the aria-expanded value of the toggle.
func (s *Session) Expanded() string {
	if s.open {
		return "true"
	}
	return "false"
}

// InputFocused reports whether the input holds focus.
func (s *Session) InputFocused() bool {
	return s.inputFocused
}
