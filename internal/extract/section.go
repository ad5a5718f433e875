package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const headingSelector = `h1, h2, h3, h4, [data-ux*="Heading"]`

// SectionByHeading finds the first heading whose trimmed text matches
// pattern and returns its enclosing section. The result is empty when no
// heading matches.
func SectionByHeading(doc *goquery.Document, pattern *regexp.Regexp) *goquery.Selection {
	heading := doc.Find(headingSelector).FilterFunction(func(_ int, h *goquery.Selection) bool {
		return pattern.MatchString(strings.TrimSpace(h.Text()))
	}).First()
	if heading.Length() == 0 {
		return heading
	}

	if s := heading.Closest(`section[data-ux="Section"]`); s.Length() > 0 {
		return s
	}
	if s := heading.Closest("section"); s.Length() > 0 {
		return s
	}
	return heading.Parent()
}
