// Package reveal tags layout sections for CSS-driven fade-in and marks them
// visible as a visibility observer reports them.
package reveal

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

const (
	ItemClass    = "reveal-item"
	VisibleClass = "is-visible"
	delayVar     = "--reveal-delay"
)

// Default selectors.
const (
	DefaultSelector = `section[data-ux="Section"], [data-ux="GridCell"], [data-aid*="_CELL_RENDERED"], [data-aid*="_CARD_RENDERED"]`
	DefaultExclude  = `[data-aid="HEADER_SECTION"]`
)

// Observer reports when an element first becomes visible.
type Observer interface {
	Observe(target *html.Node, onVisible func())
	Unobserve(target *html.Node)
}

// Options configures an Animator.
type Options struct {
	ReducedMotion bool
	Selector      string
	Exclude       string
	StepMs        int
	MaxDelayMs    int
}

func (o Options) withDefaults() Options {
	if o.Selector == "" {
		o.Selector = DefaultSelector
	}
	if o.Exclude == "" {
		o.Exclude = DefaultExclude
	}
	if o.StepMs <= 0 {
		o.StepMs = 45
	}
	if o.MaxDelayMs <= 0 {
		o.MaxDelayMs = 315
	}
	return o
}

// Animator tags reveal targets.
type Animator struct {
	opts     Options
	observer Observer
	logger   *zap.Logger
}

// New returns an Animator. With a nil observer every target is shown at once.
func New(opts Options, observer Observer, logger *zap.Logger) *Animator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Animator{opts: opts.withDefaults(), observer: observer, logger: logger}
}

// Delay returns the staggered delay of the i-th target in milliseconds.
func (a *Animator) Delay(i int) int {
	return min((i%8)*a.opts.StepMs, a.opts.MaxDelayMs)
}

// Tag marks every target in doc and returns them in document order.
func (a *Animator) Tag(doc *goquery.Document) *goquery.Selection {
	targets := doc.Find(a.opts.Selector).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Closest(a.opts.Exclude).Length() == 0
	})

	targets.Each(func(i int, s *goquery.Selection) {
		s.AddClass(ItemClass)
		s.SetAttr("style", withDelay(s.AttrOr("style", ""), a.Delay(i)))
	})

	if a.opts.ReducedMotion || a.observer == nil {
		targets.AddClass(VisibleClass)
		return targets
	}

	targets.Each(func(_ int, s *goquery.Selection) {
		node := s.Get(0)
		a.observer.Observe(node, func() {
			s.AddClass(VisibleClass)
			a.observer.Unobserve(node)
		})
	})
	a.logger.Debug("reveal targets observed", zap.Int("count", targets.Length()))
	return targets
}

// Prune drops targets that later phases detached from doc and stops
// observing them. It returns the targets still in the document.
func (a *Animator) Prune(doc *goquery.Document, targets *goquery.Selection) *goquery.Selection {
	root := doc.Get(0)
	kept := targets.FilterFunction(func(_ int, s *goquery.Selection) bool {
		n := s.Get(0)
		if attached(root, n) {
			return true
		}
		if a.observer != nil {
			a.observer.Unobserve(n)
		}
		return false
	})
	if dropped := targets.Length() - kept.Length(); dropped > 0 {
		a.logger.Debug("reveal targets detached", zap.Int("count", dropped))
	}
	return kept
}

func attached(root, n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == root {
			return true
		}
	}
	return false
}

func withDelay(style string, ms int) string {
	style = strings.TrimSpace(style)
	if style != "" && !strings.HasSuffix(style, ";") {
		style += ";"
	}
	if style != "" {
		style += " "
	}
	return style + fmt.Sprintf("%s: %dms;", delayVar, ms)
}
