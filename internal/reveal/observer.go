package reveal

import "golang.org/x/net/html"

// ManualObserver records observed targets and fires them on Intersect.
type ManualObserver struct {
	pending map[*html.Node]func()
}

// NewManualObserver returns an empty observer.
func NewManualObserver() *ManualObserver {
	return &ManualObserver{pending: map[*html.Node]func(){}}
}

func (o *ManualObserver) Observe(target *html.Node, onVisible func()) {
	o.pending[target] = onVisible
}

func (o *ManualObserver) Unobserve(target *html.Node) {
	delete(o.pending, target)
}

// Intersect reports target as visible. It returns false if the target is
// not observed.
func (o *ManualObserver) Intersect(target *html.Node) bool {
	fn, ok := o.pending[target]
	if !ok {
		return false
	}
	fn()
	return true
}

// Observed returns the number of targets still waiting.
func (o *ManualObserver) Observed() int {
	return len(o.pending)
}
