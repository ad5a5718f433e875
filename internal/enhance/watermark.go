package enhance

import "github.com/PuerkitoBio/goquery"

// StripWatermark removes platform watermark nodes and returns how many
// were removed.
func StripWatermark(doc *goquery.Document, selectors []string) int {
	removed := 0
	for _, sel := range selectors {
		found := doc.Find(sel)
		removed += found.Length()
		found.Remove()
	}
	return removed
}
