package carousel

import (
	"github.com/PuerkitoBio/goquery"
)

// Geometry is the layout assumed for a server-side track.
type Geometry struct {
	ItemWidth     float64
	Gap           float64
	ViewportWidth float64
}

// DOMTrack exposes a carousel track node as a motion track. Widths are
// computed from Geometry since no layout engine is available.
type DOMTrack struct {
	sel *goquery.Selection
	geo Geometry
}

// NewDOMTrack wraps the track of c.
func NewDOMTrack(c *Carousel, geo Geometry) *DOMTrack {
	return &DOMTrack{sel: c.Track, geo: geo}
}

// Len returns the number of item nodes in the track.
func (t *DOMTrack) Len() int {
	return t.sel.Children().Length()
}

// ScrollWidth returns the total width of the track content.
func (t *DOMTrack) ScrollWidth() float64 {
	return float64(t.Len()) * (t.geo.ItemWidth + t.geo.Gap)
}

// ViewportWidth returns the visible width.
func (t *DOMTrack) ViewportWidth() float64 {
	return t.geo.ViewportWidth
}

// AppendClones appends a deep copy of the first n items.
func (t *DOMTrack) AppendClones(n int) {
	items := t.sel.Children()
	if n < items.Length() {
		items = items.Slice(0, n)
	}
	t.sel.AppendSelection(items.Clone())
}
