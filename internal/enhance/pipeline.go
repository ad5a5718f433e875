// Package enhance runs every enhancement over a page in a fixed order:
// watermark removal, reveal tagging, carousels, knowledge extraction and
// the assistant widget.
package enhance

import (
	"context"
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/rcliao/page-enhancer/internal/assistant"
	"github.com/rcliao/page-enhancer/internal/carousel"
	"github.com/rcliao/page-enhancer/internal/config"
	"github.com/rcliao/page-enhancer/internal/extract"
	"github.com/rcliao/page-enhancer/internal/model"
	"github.com/rcliao/page-enhancer/internal/motion"
	"github.com/rcliao/page-enhancer/internal/retrieval"
	"github.com/rcliao/page-enhancer/internal/reveal"
	"github.com/rcliao/page-enhancer/internal/store"
)

// Motion pairs a built carousel with its controller. The controller is
// loop-filled but not started; Clock drives it.
type Motion struct {
	Carousel   *carousel.Carousel
	Track      *carousel.DOMTrack
	Controller *motion.Controller
	Clock      *motion.ManualScheduler
}

// Result is an enhanced page.
type Result struct {
	Doc        *goquery.Document
	Watermarks int
	Reveal     *goquery.Selection
	Observer   *reveal.ManualObserver
	Carousels  []*carousel.Carousel
	Motion     []*Motion
	Chunks     []model.KnowledgeChunk
	Contacts   model.ContactFacts
	Index      *retrieval.Index
	Session    *assistant.Session
}

// Render writes the enhanced HTML.
func (r *Result) Render(w io.Writer) error {
	return html.Render(w, r.Doc.Get(0))
}

// Pipeline enhances pages with one configuration.
type Pipeline struct {
	cfg    *config.Config
	kv     store.KV
	logger *zap.Logger
}

// New returns a pipeline. kv may be nil, in which case chat history is not
// persisted.
func New(cfg *config.Config, kv store.KV, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{cfg: cfg, kv: kv, logger: logger}
}

// Run parses r and applies every enhancement.
func (p *Pipeline) Run(ctx context.Context, r io.Reader) (*Result, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	return p.Apply(ctx, doc)
}

// Apply enhances an already parsed document in place.
func (p *Pipeline) Apply(ctx context.Context, doc *goquery.Document) (*Result, error) {
	cfg := p.cfg
	specs, err := cfg.SectionSpecs()
	if err != nil {
		return nil, err
	}
	addressPatterns, err := cfg.AddressPatterns()
	if err != nil {
		return nil, err
	}

	res := &Result{Doc: doc}

	res.Watermarks = StripWatermark(doc, cfg.Watermark.Selectors)

	var observer reveal.Observer
	if cfg.Reveal.Observe && !cfg.ReducedMotion {
		res.Observer = reveal.NewManualObserver()
		observer = res.Observer
	}
	animator := reveal.New(reveal.Options{
		ReducedMotion: cfg.ReducedMotion,
		Selector:      cfg.Reveal.Selector,
		Exclude:       cfg.Reveal.Exclude,
	}, observer, p.logger)
	res.Reveal = animator.Tag(doc)

	builder := carousel.NewBuilder(carousel.Options{
		ReducedMotion:   cfg.ReducedMotion,
		LegacySelectors: cfg.Carousel.LegacySelectors,
		KeepSelector:    cfg.Carousel.KeepSelector,
	}, p.logger)
	res.Carousels = builder.InitPartnerCarousels(doc, specs)
	// The builder removes legacy gallery cells that were tagged above.
	res.Reveal = animator.Prune(doc, res.Reveal)

	for _, c := range res.Carousels {
		if c.Static {
			continue
		}
		m := &Motion{
			Carousel: c,
			Track:    carousel.NewDOMTrack(c, cfg.Geometry()),
			Clock:    motion.NewManualScheduler(0),
		}
		m.Controller = motion.New(m.Track, m.Clock, cfg.MotionOptions(), p.logger.With(zap.String("carousel", c.Label)))
		m.Controller.LoopFill()
		res.Motion = append(res.Motion, m)
	}

	if !cfg.Assistant.Enabled {
		p.logger.Info("page enhanced", zap.Int("carousels", len(res.Carousels)), zap.Int("watermarks", res.Watermarks))
		return res, nil
	}

	res.Chunks = extract.KnowledgeChunks(doc)
	res.Contacts = extract.Contacts(doc, addressPatterns)

	rules, err := retrieval.BuildRules(cfg.Assistant.Rules, res.Contacts)
	if err != nil {
		return nil, fmt.Errorf("build rules: %w", err)
	}
	res.Index = retrieval.New(res.Chunks, retrieval.Options{
		Rules:     rules,
		Messages:  cfg.Assistant.Messages,
		CacheSize: cfg.Assistant.CacheSize,
	}, p.logger)

	res.Session = assistant.NewSession(ctx, res.Index, p.kv, assistant.Options{
		Origin:     cfg.Origin,
		StorageKey: cfg.Assistant.StorageKey,
		Labels:     cfg.Assistant.Labels,
	}, p.logger)
	res.Session.Render(doc)

	p.logger.Info("page enhanced",
		zap.Int("carousels", len(res.Carousels)),
		zap.Int("reveal_targets", res.Reveal.Length()),
		zap.Int("chunks", len(res.Chunks)),
		zap.Int("rules", len(rules)),
		zap.Int("watermarks", res.Watermarks),
	)
	return res, nil
}
