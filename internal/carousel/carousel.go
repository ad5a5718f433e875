// Package carousel replaces a static partner-logo gallery with a looping
// carousel widget.
package carousel

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/rcliao/page-enhancer/internal/dom"
	"github.com/rcliao/page-enhancer/internal/extract"
	"github.com/rcliao/page-enhancer/internal/model"
)

const (
	enhancedAttr      = "data-partner-carousel-enhanced"
	reducedMotionMark = "is-reduced-motion"
	defaultAlt        = "Partner logo"
	minItems          = 2
)

// DefaultLegacySelectors match the gallery markup the carousel supersedes.
var DefaultLegacySelectors = []string{
	`[data-aid="LOGO_ROWS_CONTAINER"]`,
	`[id^="gallery4-"]`,
	`[data-aid^="GALLERY_IMAGE"]`,
	`[data-ux="Element"][id^="bs-9"]`,
}

// DefaultKeepSelector matches the section title, which survives removal.
const DefaultKeepSelector = `[data-aid="GALLERY_SECTION_TITLE_RENDERED"]`

// Options configures a Builder.
type Options struct {
	ReducedMotion   bool
	LegacySelectors []string
	KeepSelector    string
}

// SectionSpec pairs a heading pattern with the carousel label.
type SectionSpec struct {
	Heading *regexp.Regexp
	Label   string
}

// Carousel is a built widget.
type Carousel struct {
	Label    string
	Items    []model.MediaItem
	Static   bool
	Section  *goquery.Selection
	Root     *goquery.Selection
	Viewport *goquery.Selection
	Track    *goquery.Selection
}

// Builder builds carousels into a document.
type Builder struct {
	opts   Options
	logger *zap.Logger
}

// NewBuilder returns a Builder. A nil logger is replaced with a no-op one.
func NewBuilder(opts Options, logger *zap.Logger) *Builder {
	if len(opts.LegacySelectors) == 0 {
		opts.LegacySelectors = DefaultLegacySelectors
	}
	if opts.KeepSelector == "" {
		opts.KeepSelector = DefaultKeepSelector
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{opts: opts, logger: logger}
}

// InitPartnerCarousels builds one carousel per SectionSpec found in doc.
func (b *Builder) InitPartnerCarousels(doc *goquery.Document, specs []SectionSpec) []*Carousel {
	var built []*Carousel
	for _, spec := range specs {
		section := extract.SectionByHeading(doc, spec.Heading)
		if c := b.Build(section, spec.Label); c != nil {
			built = append(built, c)
		}
	}
	return built
}

// Build converts section into a carousel. It returns nil without touching
// the document when the section is missing, already enhanced, or has fewer
// than two usable items.
func (b *Builder) Build(section *goquery.Selection, label string) *Carousel {
	if section == nil || section.Length() == 0 {
		return nil
	}
	section = section.First()
	if section.AttrOr(enhancedAttr, "") == "1" {
		b.logger.Debug("carousel already enhanced", zap.String("label", label))
		return nil
	}

	items := extract.CollectPartnerItems(section)
	if len(items) < minItems {
		b.logger.Debug("carousel skipped", zap.String("label", label), zap.Int("items", len(items)))
		return nil
	}

	b.removeLegacyLayout(section)

	root := dom.Element(atom.Div, "class", "partner-carousel", "role", "region", "aria-label", label+" carousel")
	viewport := dom.Element(atom.Div, "class", "partner-carousel__viewport", "tabindex", "0")
	track := dom.Element(atom.Div, "class", "partner-carousel__track")

	for _, item := range items {
		track.AppendChild(createItem(item))
	}

	c := &Carousel{Label: label, Items: items}
	if b.opts.ReducedMotion {
		dom.AddClass(root, reducedMotionMark)
		c.Static = true
	}

	viewport.AppendChild(track)
	root.AppendChild(viewport)
	section.AppendNodes(root)
	section.SetAttr(enhancedAttr, "1")

	c.Section = section
	c.Root = section.Children().Last()
	c.Viewport = c.Root.Children().First()
	c.Track = c.Viewport.Children().First()
	if !c.Static {
		c.Track.AppendSelection(c.Track.Children().Clone())
	}

	b.logger.Info("carousel built",
		zap.String("label", label),
		zap.Int("items", len(items)),
		zap.Bool("static", c.Static),
	)
	return c
}

func (b *Builder) removeLegacyLayout(section *goquery.Selection) {
	for _, sel := range b.opts.LegacySelectors {
		section.Find(sel).Not(b.opts.KeepSelector).Remove()
	}
}

func createItem(item model.MediaItem) *html.Node {
	wrapper := dom.Element(atom.Div, "class", "partner-carousel__item")

	var card *html.Node
	if item.Href != "" {
		card = dom.Element(atom.A, "class", "partner-carousel__card", "href", item.Href)
		if extract.IsExternalURL(item.Href) {
			dom.SetAttr(card, "target", "_blank")
			dom.SetAttr(card, "rel", "noopener noreferrer")
		}
	} else {
		card = dom.Element(atom.Div, "class", "partner-carousel__card")
	}

	alt := item.Alt
	if alt == "" {
		alt = defaultAlt
	}
	img := dom.Element(atom.Img,
		"class", "partner-carousel__logo",
		"src", item.Src,
		"alt", alt,
		"loading", "lazy",
		"decoding", "async",
	)

	if item.Alt != "" {
		dom.SetAttr(card, "title", item.Alt)
		dom.SetAttr(card, "aria-label", item.Alt)
	}

	card.AppendChild(img)
	wrapper.AppendChild(card)
	return wrapper
}
