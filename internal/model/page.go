// Package model defines the records extracted from a page and the state
// shared between the carousel and assistant components.
package model

import "regexp"

// Extraction bounds.
const (
	MinChunkLen = 24
	MaxChunkLen = 380
	MaxChunks   = 280
)

// MediaItem is a normalized partner logo.
type MediaItem struct {
	Src  string `json:"src"`
	Href string `json:"href,omitempty"`
	Alt  string `json:"alt,omitempty"`
}

// Key returns the (src, href) uniqueness key.
func (m MediaItem) Key() string {
	return m.Src + "|" + m.Href
}

// KnowledgeChunk is a bounded unit of page text used for retrieval.
type KnowledgeChunk = string

// ContactFacts holds contact details found on the page. Empty means absent.
type ContactFacts struct {
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// IntentRule is a hand-authored question/pattern/answer triple.
// Rules are evaluated in order and the first match wins.
type IntentRule struct {
	Exemplar string           `json:"exemplar"`
	Patterns []*regexp.Regexp `json:"-"`
	Answer   string           `json:"answer"`
}

// Matches reports whether any pattern matches the normalized question.
func (r IntentRule) Matches(normalized string) bool {
	for _, p := range r.Patterns {
		if p.MatchString(normalized) {
			return true
		}
	}
	return false
}
