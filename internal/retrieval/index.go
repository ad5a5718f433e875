// Package retrieval answers visitor questions from page text: an ordered
// intent table first, then keyword overlap ranking over knowledge chunks.
package retrieval

import (
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/rcliao/page-enhancer/internal/model"
)

const (
	defaultTopK      = 2
	defaultCacheSize = 128
)

// Messages are the fixed replies of the index.
type Messages struct {
	EmptyPrompt string `koanf:"empty_prompt" yaml:"empty_prompt"`
	Fallback    string `koanf:"fallback" yaml:"fallback"`
}

// DefaultMessages returns the stock replies.
func DefaultMessages() Messages {
	return Messages{
		EmptyPrompt: "Ask me a question about this site (services, contact, applications, partners, etc.).",
		Fallback:    "I could not find a precise answer on this page. Try keywords like services, apply, employers, job seekers or contact.",
	}
}

// Options configures an Index.
type Options struct {
	Rules     []model.IntentRule
	Messages  Messages
	TopK      int
	CacheSize int
}

// Ranked is a scored chunk. Position is the chunk's document order.
type Ranked struct {
	Chunk    string `json:"chunk"`
	Score    int    `json:"score"`
	Position int    `json:"position"`
}

// Index holds the knowledge chunks and intent rules of one page.
type Index struct {
	chunks []string
	sets   []map[string]struct{}
	rules  []model.IntentRule
	msgs   Messages
	topK   int
	cache  *lru.Cache[string, string]
	logger *zap.Logger
}

// New indexes chunks.
func New(chunks []model.KnowledgeChunk, opts Options, logger *zap.Logger) *Index {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := DefaultMessages()
	if opts.Messages.EmptyPrompt == "" {
		opts.Messages.EmptyPrompt = d.EmptyPrompt
	}
	if opts.Messages.Fallback == "" {
		opts.Messages.Fallback = d.Fallback
	}
	if opts.TopK <= 0 {
		opts.TopK = defaultTopK
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = defaultCacheSize
	}

	idx := &Index{
		chunks: append([]string(nil), chunks...),
		rules:  opts.Rules,
		msgs:   opts.Messages,
		topK:   opts.TopK,
		logger: logger,
	}
	for _, c := range idx.chunks {
		idx.sets = append(idx.sets, tokenSet(c))
	}
	// lru.New only fails on a non-positive size.
	idx.cache, _ = lru.New[string, string](opts.CacheSize)
	return idx
}

// Chunks returns the indexed chunks in document order.
func (idx *Index) Chunks() []string {
	return idx.chunks
}

// Rules returns the intent rules in evaluation order.
func (idx *Index) Rules() []model.IntentRule {
	return idx.rules
}

// Messages returns the fixed replies.
func (idx *Index) Messages() Messages {
	return idx.msgs
}

// Rank returns the best scoring chunks for query, highest first. Equal
// scores keep document order.
func (idx *Index) Rank(query string) []Ranked {
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return nil
	}

	var ranked []Ranked
	for i, set := range idx.sets {
		if score := scoreSet(tokens, set); score > 0 {
			ranked = append(ranked, Ranked{Chunk: idx.chunks[i], Score: score, Position: i})
		}
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		if ranked[a].Score != ranked[b].Score {
			return ranked[a].Score > ranked[b].Score
		}
		return ranked[a].Position < ranked[b].Position
	})
	if len(ranked) > idx.topK {
		ranked = ranked[:idx.topK]
	}
	return ranked
}

// MatchIntent returns the rule answering question. An exact normalized
// exemplar match wins; otherwise rules are tried in order and the first
// whose pattern matches is returned. It is first-match, not best-match.
func (idx *Index) MatchIntent(question string) (model.IntentRule, bool) {
	q := Normalize(question)
	if q == "" {
		return model.IntentRule{}, false
	}
	for _, r := range idx.rules {
		if Normalize(r.Exemplar) == q {
			return r, true
		}
	}
	for _, r := range idx.rules {
		if r.Matches(q) {
			return r, true
		}
	}
	return model.IntentRule{}, false
}

// Answer resolves question by exact intent, pattern intent, ranked chunks,
// then the fallback, in that order.
func (idx *Index) Answer(question string) string {
	if strings.TrimSpace(question) == "" {
		return idx.msgs.EmptyPrompt
	}

	key := Normalize(question)
	if a, ok := idx.cache.Get(key); ok {
		return a
	}
	a := idx.answer(question)
	idx.cache.Add(key, a)
	return a
}

func (idx *Index) answer(question string) string {
	if rule, ok := idx.MatchIntent(question); ok {
		idx.logger.Debug("intent matched", zap.String("exemplar", rule.Exemplar))
		return rule.Answer
	}

	ranked := idx.Rank(question)
	if len(ranked) == 0 {
		idx.logger.Debug("no confident answer", zap.String("question", question))
		return idx.msgs.Fallback
	}

	parts := make([]string, len(ranked))
	for i, r := range ranked {
		parts[i] = r.Chunk
	}
	return strings.Join(parts, " ")
}
