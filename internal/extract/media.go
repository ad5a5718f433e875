// Package extract scans a parsed page for partner logos, knowledge text and
// contact facts. Every function degrades to an empty result on missing
// markup; none of them return errors.
package extract

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/rcliao/page-enhancer/internal/model"
)

const placeholderFragment = "transparent_placeholder"

var externalURL = regexp.MustCompile(`(?i)^https?://`)

// IsPlaceholder reports whether src is empty or a known blank stand-in image.
func IsPlaceholder(src string) bool {
	if src == "" {
		return true
	}
	return strings.Contains(src, placeholderFragment) || strings.HasPrefix(src, "data:image/gif")
}

// IsExternalURL reports whether href is an absolute http(s) URL.
func IsExternalURL(href string) bool {
	return externalURL.MatchString(href)
}

// NormalizeAssetURL trims the value and qualifies protocol-relative URLs.
func NormalizeAssetURL(value string) string {
	u := strings.TrimSpace(value)
	if u == "" {
		return ""
	}
	if strings.HasPrefix(u, "//") {
		return "https:" + u
	}
	return u
}

// ReadableName returns usable alt text. Text mentioning "logo" is always
// kept; anything shorter than two characters is dropped.
func ReadableName(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}
	if strings.Contains(strings.ToLower(text), "logo") {
		return text
	}
	if utf8.RuneCountInString(text) < 2 {
		return ""
	}
	return text
}

// CollectPartnerItems gathers linked images, then standalone images, under
// scope and returns them as MediaItems deduplicated by (src, href).
func CollectPartnerItems(scope *goquery.Selection) []model.MediaItem {
	if scope == nil || scope.Length() == 0 {
		return nil
	}

	linked := scope.Find("a").FilterFunction(func(_ int, a *goquery.Selection) bool {
		return a.Find("img").Length() > 0
	})
	standalone := scope.Find("img").FilterFunction(func(_ int, img *goquery.Selection) bool {
		return img.Closest("a").Length() == 0
	})

	var nodes []*goquery.Selection
	linked.Each(func(_ int, s *goquery.Selection) { nodes = append(nodes, s) })
	standalone.Each(func(_ int, s *goquery.Selection) { nodes = append(nodes, s) })

	seen := map[string]bool{}
	var items []model.MediaItem
	for _, node := range nodes {
		isLink := goquery.NodeName(node) == "a"
		img := node
		if isLink {
			img = node.Find("img").First()
		}
		if img.Length() == 0 {
			continue
		}

		src := resolveImageSource(img)
		if IsPlaceholder(src) {
			continue
		}

		href := ""
		if isLink {
			href, _ = node.Attr("href")
		}

		item := model.MediaItem{Src: src, Href: href, Alt: ReadableName(img.AttrOr("alt", ""))}
		if seen[item.Key()] {
			continue
		}
		seen[item.Key()] = true
		items = append(items, item)
	}
	return items
}

// resolveImageSource walks the lazy-load attribute chain and returns the
// first usable source, or "".
func resolveImageSource(img *goquery.Selection) string {
	picture := img.Closest("picture")
	var sourceSet, pictureLazy string
	if picture.Length() > 0 {
		sourceSet = picture.Find("source").First().AttrOr("srcset", "")
		pictureLazy = picture.AttrOr("data-srclazy", "")
	}

	candidates := []string{
		img.AttrOr("data-srclazy", ""),
		img.AttrOr("data-src", ""),
		img.AttrOr("data-original", ""),
		img.AttrOr("src", ""),
		img.AttrOr("srcset", ""),
		sourceSet,
		pictureLazy,
	}

	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		// Data URIs contain commas and would be split as a source set.
		if candidate == "" || strings.HasPrefix(strings.ToLower(candidate), "data:") {
			continue
		}
		parsed := candidate
		if strings.ContainsAny(candidate, ", \t\n") {
			parsed = firstFromSrcset(candidate)
		}
		src := NormalizeAssetURL(parsed)
		if IsPlaceholder(src) || !validURL(src) {
			continue
		}
		return src
	}
	return ""
}

// firstFromSrcset returns the first non-placeholder URL of a source set.
func firstFromSrcset(value string) string {
	for _, part := range strings.Split(value, ",") {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		if !IsPlaceholder(fields[0]) {
			return fields[0]
		}
	}
	return ""
}

func validURL(src string) bool {
	_, err := url.Parse(src)
	return err == nil
}
