package model

// DragAnchor records where a pointer drag started.
type DragAnchor struct {
	X           float64 `json:"x"`
	StartOffset float64 `json:"start_offset"`
}

// CarouselState is a snapshot of one carousel's motion state.
type CarouselState struct {
	ScrollOffset   float64    `json:"scroll_offset"`
	Paused         bool       `json:"paused"`
	Dragging       bool       `json:"dragging"`
	DragAnchor     DragAnchor `json:"drag_anchor"`
	LoopResetPoint float64    `json:"loop_reset_point"`
}
