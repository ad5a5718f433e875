package reveal

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<html><body>
<section data-ux="Section" data-aid="HEADER_SECTION"><div data-ux="GridCell">nav</div></section>
<section data-ux="Section" id="a" style="color: red"><div data-ux="GridCell" id="b">cell</div></section>
<div data-aid="ITEM_3_CARD_RENDERED" id="c">card</div>
<div id="plain">not a target</div>
</body></html>`

func parse(t *testing.T) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)
	return doc
}

func TestTag_ExcludesHeaderAndStaggers(t *testing.T) {
	doc := parse(t)
	obs := NewManualObserver()
	targets := New(Options{}, obs, nil).Tag(doc)

	require.Equal(t, 3, targets.Length())
	assert.Equal(t, "a", targets.Eq(0).AttrOr("id", ""))
	assert.Equal(t, "color: red; --reveal-delay: 0ms;", targets.Eq(0).AttrOr("style", ""))
	assert.Equal(t, "--reveal-delay: 45ms;", targets.Eq(1).AttrOr("style", ""))
	assert.Equal(t, "--reveal-delay: 90ms;", targets.Eq(2).AttrOr("style", ""))
	assert.False(t, doc.Find(`[data-aid="HEADER_SECTION"]`).HasClass(ItemClass))
	assert.False(t, doc.Find("#plain").HasClass(ItemClass))

	assert.Equal(t, 3, obs.Observed())
	assert.Equal(t, 0, doc.Find("."+VisibleClass).Length())

	assert.True(t, obs.Intersect(doc.Find("#b").Get(0)))
	assert.True(t, doc.Find("#b").HasClass(VisibleClass))
	assert.Equal(t, 2, obs.Observed())
	assert.False(t, obs.Intersect(doc.Find("#b").Get(0)))
}

func TestTag_ReducedMotionShowsAll(t *testing.T) {
	doc := parse(t)
	obs := NewManualObserver()
	targets := New(Options{ReducedMotion: true}, obs, nil).Tag(doc)

	assert.Equal(t, 3, doc.Find("."+VisibleClass).Length())
	assert.Equal(t, 3, targets.Length())
	assert.Equal(t, 0, obs.Observed())
}

func TestTag_NoObserverShowsAll(t *testing.T) {
	doc := parse(t)
	New(Options{}, nil, nil).Tag(doc)
	assert.Equal(t, 3, doc.Find("."+VisibleClass+"."+ItemClass).Length())
}

func TestDelay(t *testing.T) {
	a := New(Options{}, nil, nil)
	assert.Equal(t, 0, a.Delay(0))
	assert.Equal(t, 315, a.Delay(7))
	assert.Equal(t, 0, a.Delay(8))
	assert.Equal(t, 45, a.Delay(9))

	capped := New(Options{StepMs: 100, MaxDelayMs: 250}, nil, nil)
	assert.Equal(t, 250, capped.Delay(5))
}

func TestPrune_DropsDetachedTargets(t *testing.T) {
	doc := parse(t)
	obs := NewManualObserver()
	a := New(Options{}, obs, nil)
	targets := a.Tag(doc)
	require.Equal(t, 3, targets.Length())

	detached := doc.Find("#b").Get(0)
	doc.Find("#b").Remove()

	kept := a.Prune(doc, targets)
	assert.Equal(t, 2, kept.Length())
	assert.Equal(t, 2, obs.Observed())
	assert.False(t, obs.Intersect(detached))
	assert.Equal(t, doc.Find("."+ItemClass).Length(), kept.Length())
}
