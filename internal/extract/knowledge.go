package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/rcliao/page-enhancer/internal/model"
)

const (
	knowledgeSelector = "h1, h2, h3, h4, p, li"
	phoneSelector     = `a[href^="tel:"]`
	addressSelector   = `[data-aid="FOOTER_ADDRESS_RENDERED"], p`

	// Injected assistant markup is never page knowledge.
	widgetScope = ".itrm-chatbot"
)

// DefaultAddressPatterns match a Georgia region code or the home town.
var DefaultAddressPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i),\s*GA\b`),
	regexp.MustCompile(`(?i)winder`),
}

// CollapseSpace trims text and collapses whitespace runs to one space.
func CollapseSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// KnowledgeChunks returns heading, paragraph and list text in document
// order, bounded to [MinChunkLen, MaxChunkLen] characters, deduplicated,
// and capped at MaxChunks entries.
func KnowledgeChunks(doc *goquery.Document) []model.KnowledgeChunk {
	var chunks []model.KnowledgeChunk
	seen := map[string]bool{}

	pageText(doc, knowledgeSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := CollapseSpace(s.Text())
		n := utf8.RuneCountInString(text)
		if n < model.MinChunkLen || n > model.MaxChunkLen || seen[text] {
			return true
		}
		seen[text] = true
		chunks = append(chunks, text)
		return len(chunks) < model.MaxChunks
	})
	return chunks
}

// Contacts extracts the first telephone link text and the first
// address-like paragraph. Missing facts are left empty.
func Contacts(doc *goquery.Document, addressPatterns []*regexp.Regexp) model.ContactFacts {
	if len(addressPatterns) == 0 {
		addressPatterns = DefaultAddressPatterns
	}

	var facts model.ContactFacts
	facts.Phone = strings.TrimSpace(doc.Find(phoneSelector).First().Text())

	pageText(doc, addressSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		for _, p := range addressPatterns {
			if p.MatchString(text) {
				facts.Address = text
				return false
			}
		}
		return true
	})
	return facts
}

func pageText(doc *goquery.Document, selector string) *goquery.Selection {
	return doc.Find(selector).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Closest(widgetScope).Length() == 0
	})
}
