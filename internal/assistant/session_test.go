package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/page-enhancer/internal/model"
	"github.com/rcliao/page-enhancer/internal/retrieval"
	"github.com/rcliao/page-enhancer/internal/store"
)

const origin = "https://staffing.example.com"

type failingKV struct{}

func (failingKV) Get(context.Context, string, string) (string, error) {
	return "", errors.New("storage disabled")
}
func (failingKV) Set(context.Context, string, string, string) error {
	return errors.New("quota exceeded")
}
func (failingKV) Delete(context.Context, string, string) error { return nil }

func newIndex(t *testing.T) *retrieval.Index {
	t.Helper()
	rules, err := retrieval.BuildRules(retrieval.DefaultRuleTemplates(), model.ContactFacts{
		Phone:   "(770) 555-0100",
		Address: "12 Main St, Winder, GA",
	})
	require.NoError(t, err)
	return retrieval.New([]string{
		"We help job seekers find work with local employers.",
	}, retrieval.Options{Rules: rules}, nil)
}

func TestSubmit_AppendsUserThenBot(t *testing.T) {
	ctx := context.Background()
	s := NewSession(ctx, newIndex(t), &store.MemoryKV{}, Options{Origin: origin}, nil)

	reply, ok := s.Submit(ctx, "  What is your phone number?  ")
	require.True(t, ok)
	assert.Equal(t, model.RoleBot, reply.Role)
	assert.Equal(t, "You can reach them at (770) 555-0100.", reply.Text)

	assert.Equal(t, []model.ChatMessage{
		{Role: model.RoleUser, Text: "What is your phone number?"},
		{Role: model.RoleBot, Text: "You can reach them at (770) 555-0100."},
	}, s.History())

	_, ok = s.Submit(ctx, "   ")
	assert.False(t, ok)
	assert.Len(t, s.History(), 2)
}

func TestHistory_RoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := &store.MemoryKV{}
	s := NewSession(ctx, newIndex(t), kv, Options{Origin: origin}, nil)

	for i := 0; i < 5; i++ {
		s.Submit(ctx, fmt.Sprintf("question %d about employers", i))
	}
	require.Len(t, s.History(), 10)

	restored := NewSession(ctx, newIndex(t), kv, Options{Origin: origin}, nil)
	assert.Equal(t, s.History(), restored.History())
	assert.NotEqual(t, s.ID(), restored.ID())
}

func TestHistory_KeepsMostRecent30(t *testing.T) {
	ctx := context.Background()
	kv := &store.MemoryKV{}

	var msgs []model.ChatMessage
	for i := 0; i < 35; i++ {
		msgs = append(msgs, model.ChatMessage{Role: model.RoleUser, Text: fmt.Sprintf("m%d", i)})
	}
	s := NewSession(ctx, newIndex(t), kv, Options{Origin: origin}, nil)
	for _, m := range msgs {
		s.append(ctx, m)
	}

	got := s.History()
	require.Len(t, got, model.MaxHistory)
	assert.Equal(t, "m5", got[0].Text)
	assert.Equal(t, "m34", got[len(got)-1].Text)

	restored := NewSession(ctx, newIndex(t), kv, Options{Origin: origin}, nil)
	assert.Equal(t, got, restored.History())
}

func TestHistory_CorruptOrUnavailable(t *testing.T) {
	ctx := context.Background()

	kv := &store.MemoryKV{}
	kv.Set(ctx, origin, DefaultStorageKey, "{not json")
	s := NewSession(ctx, newIndex(t), kv, Options{Origin: origin}, nil)
	assert.Empty(t, s.History())

	kv.Set(ctx, origin, DefaultStorageKey, `[{"role":"system","text":"x"},{"role":"bot","text":"kept"},{"role":"user","text":""}]`)
	s = NewSession(ctx, newIndex(t), kv, Options{Origin: origin}, nil)
	assert.Equal(t, []model.ChatMessage{{Role: model.RoleBot, Text: "kept"}}, s.History())

	s = NewSession(ctx, newIndex(t), failingKV{}, Options{Origin: origin}, nil)
	assert.Empty(t, s.History())
	_, ok := s.Submit(ctx, "where are you located")
	assert.True(t, ok)
	assert.Len(t, s.History(), 2)

	s = NewSession(ctx, newIndex(t), nil, Options{Origin: origin}, nil)
	_, ok = s.Submit(ctx, "hello there")
	assert.True(t, ok)
}

func TestHistory_SharedKeyPerOrigin(t *testing.T) {
	ctx := context.Background()
	kv := &store.MemoryKV{}

	a := NewSession(ctx, newIndex(t), kv, Options{Origin: origin}, nil)
	a.Submit(ctx, "first")
	other := NewSession(ctx, newIndex(t), kv, Options{Origin: "https://other.example"}, nil)
	assert.Empty(t, other.History())

	raw, err := kv.Get(ctx, origin, DefaultStorageKey)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(raw, `[{"role":"user","text":"first"}`))
}

func TestPanelState(t *testing.T) {
	ctx := context.Background()
	s := NewSession(ctx, newIndex(t), &store.MemoryKV{}, Options{Origin: origin}, nil)

	assert.Equal(t, "false", s.Expanded())
	assert.False(t, s.KeyDown(KeyEscape))

	assert.True(t, s.Toggle())
	assert.Equal(t, "true", s.Expanded())
	assert.True(t, s.InputFocused())

	s.Submit(ctx, "hello")
	assert.False(t, s.KeyDown("Enter"))
	assert.True(t, s.KeyDown(KeyEscape))
	assert.False(t, s.IsOpen())
	assert.False(t, s.InputFocused())
	assert.Len(t, s.History(), 2)

	s.Open()
	s.Close()
	assert.Equal(t, "false", s.Expanded())
	assert.True(t, s.Toggle())
}

func TestChips(t *testing.T) {
	ctx := context.Background()
	s := NewSession(ctx, newIndex(t), &store.MemoryKV{}, Options{Origin: origin}, nil)

	assert.Equal(t, []string{"What is your phone number?", "Where are you located?"}, s.Chips())

	reply, ok := s.ChooseChip(ctx, 1)
	require.True(t, ok)
	assert.Equal(t, "Address found on the site: 12 Main St, Winder, GA", reply.Text)

	_, ok = s.ChooseChip(ctx, 5)
	assert.False(t, ok)
}

func TestRender(t *testing.T) {
	ctx := context.Background()
	kv := &store.MemoryKV{}
	first := NewSession(ctx, newIndex(t), kv, Options{Origin: origin}, nil)
	first.Submit(ctx, "<b>phone</b>?")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<html><body><p>page</p></body></html>`))
	require.NoError(t, err)

	s := NewSession(ctx, newIndex(t), kv, Options{Origin: origin}, nil)
	require.True(t, s.Render(doc))
	assert.False(t, s.Render(doc))

	root := doc.Find(".itrm-chatbot")
	require.Equal(t, 1, root.Length())
	assert.Equal(t, s.ID(), root.AttrOr("data-session", ""))
	assert.Equal(t, "false", root.Find("#itrmChatToggle").AttrOr("aria-expanded", ""))
	assert.Equal(t, 2, root.Find(".itrm-chatbot__chip").Length())

	msgs := root.Find(".itrm-chatbot__msg")
	require.Equal(t, 3, msgs.Length())
	assert.Equal(t, DefaultLabels().Greeting, msgs.Eq(0).Text())
	assert.True(t, msgs.Eq(1).HasClass("user"))
	assert.Equal(t, "<b>phone</b>?", msgs.Eq(1).Text())
	assert.Equal(t, 0, msgs.Eq(1).Find("b").Length())
	assert.True(t, msgs.Eq(2).HasClass("bot"))
}
