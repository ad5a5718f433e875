package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestCollectPartnerItems_LinkedThenStandalone(t *testing.T) {
	doc := parse(t, `<section>
		<img src="https://cdn.example.com/solo.png" alt="Solo Inc">
		<a href="https://acme.example.com"><img src="https://cdn.example.com/acme.png" alt="Acme logo"></a>
	</section>`)

	items := CollectPartnerItems(doc.Find("section"))
	require.Len(t, items, 2)
	assert.Equal(t, "https://cdn.example.com/acme.png", items[0].Src)
	assert.Equal(t, "https://acme.example.com", items[0].Href)
	assert.Equal(t, "Acme logo", items[0].Alt)
	assert.Equal(t, "https://cdn.example.com/solo.png", items[1].Src)
	assert.Empty(t, items[1].Href)
}

func TestCollectPartnerItems_Dedup(t *testing.T) {
	doc := parse(t, `<div id="s">
		<a href="/a"><img src="https://x/1.png"></a>
		<a href="/a"><img src="https://x/1.png"></a>
		<a href="/b"><img src="https://x/1.png"></a>
		<img src="https://x/1.png">
		<img src="https://x/1.png">
	</div>`)

	items := CollectPartnerItems(doc.Find("#s"))
	require.Len(t, items, 3)

	seen := map[string]bool{}
	for _, it := range items {
		assert.False(t, seen[it.Key()], "duplicate key %s", it.Key())
		seen[it.Key()] = true
	}
	assert.Equal(t, "/a", items[0].Href)
	assert.Equal(t, "/b", items[1].Href)
	assert.Equal(t, "", items[2].Href)
}

func TestCollectPartnerItems_SourcePriority(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "lazy attribute wins",
			html: `<img data-srclazy="//img.example.com/lazy.png" src="https://img.example.com/live.png">`,
			want: "https://img.example.com/lazy.png",
		},
		{
			name: "deferred source before live src",
			html: `<img data-src="https://img.example.com/deferred.png" src="https://img.example.com/live.png">`,
			want: "https://img.example.com/deferred.png",
		},
		{
			name: "placeholder src falls through to srcset",
			html: `<img src="https://img.example.com/transparent_placeholder.png" srcset="https://img.example.com/a.png 1x, https://img.example.com/b.png 2x">`,
			want: "https://img.example.com/a.png",
		},
		{
			name: "srcset skips placeholder candidates",
			html: `<img srcset="//img.example.com/transparent_placeholder.png 1x, //img.example.com/real.png 2x">`,
			want: "https://img.example.com/real.png",
		},
		{
			name: "data gif skipped for picture source",
			html: `<picture><source srcset="https://img.example.com/pic.webp 1x"><img src="data:image/gif;base64,R0lGODlhAQABAAAAACw="></picture>`,
			want: "https://img.example.com/pic.webp",
		},
		{
			name: "picture lazy attribute last",
			html: `<picture data-srclazy="//img.example.com/picture-lazy.png"><img src=""></picture>`,
			want: "https://img.example.com/picture-lazy.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parse(t, `<div id="s">`+tt.html+`</div>`)
			items := CollectPartnerItems(doc.Find("#s"))
			require.Len(t, items, 1)
			assert.Equal(t, tt.want, items[0].Src)
		})
	}
}

func TestCollectPartnerItems_PlaceholderFirstInSourceSet(t *testing.T) {
	doc := parse(t, `<div id="s">
		<a href="https://acme.example.com"><img srcset="https://cdn.example.com/transparent_placeholder.png 1x, https://cdn.example.com/acme.png 2x"></a>
		<picture><source srcset="//cdn.example.com/transparent_placeholder.gif 1x, //cdn.example.com/beta.png 2x"><img alt="Beta"></picture>
	</div>`)

	items := CollectPartnerItems(doc.Find("#s"))
	require.Len(t, items, 2)
	assert.Equal(t, "https://cdn.example.com/acme.png", items[0].Src)
	assert.Equal(t, "https://cdn.example.com/beta.png", items[1].Src)
}

func TestCollectPartnerItems_RejectsPlaceholders(t *testing.T) {
	doc := parse(t, `<div id="s">
		<img src="data:image/gif;base64,R0lGODlhAQABAAAAACw=">
		<img src="https://img.example.com/transparent_placeholder.gif">
		<img alt="no source">
		<a href="/x"><img src=""></a>
	</div>`)

	items := CollectPartnerItems(doc.Find("#s"))
	assert.Empty(t, items)
	for _, it := range items {
		assert.False(t, IsPlaceholder(it.Src))
	}
}

func TestCollectPartnerItems_EmptyScope(t *testing.T) {
	doc := parse(t, `<p>nothing</p>`)
	assert.Nil(t, CollectPartnerItems(doc.Find("section")))
	assert.Nil(t, CollectPartnerItems(nil))
}

func TestReadableName(t *testing.T) {
	assert.Equal(t, "", ReadableName("   "))
	assert.Equal(t, "", ReadableName("x"))
	assert.Equal(t, "Acme", ReadableName("  Acme "))
	assert.Equal(t, "Logo", ReadableName("Logo"))
	assert.Equal(t, "ab", ReadableName("ab"))
}

func TestNormalizeAssetURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com/a.png", NormalizeAssetURL(" //cdn.example.com/a.png "))
	assert.Equal(t, "/local.png", NormalizeAssetURL("/local.png"))
	assert.Equal(t, "", NormalizeAssetURL("  "))
}

func TestIsExternalURL(t *testing.T) {
	assert.True(t, IsExternalURL("HTTPS://partner.example.com"))
	assert.True(t, IsExternalURL("http://partner.example.com"))
	assert.False(t, IsExternalURL("/partners"))
	assert.False(t, IsExternalURL("mailto:hi@example.com"))
}
