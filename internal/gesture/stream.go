package gesture

// PointerEvent is a pointer position in screen pixels.
type PointerEvent struct {
	X float64
	Y float64
}

// Stream delivers global pointer movement for the duration of one gesture,
// independent of any UI toolkit. Subscribe is called on gesture start and the
// returned cancel on gesture end (pointer-up or teardown); events arrive on
// the single UI event thread in delivery order.
type Stream interface {
	Subscribe(onMove, onUp func(PointerEvent)) (cancel func())
}

// Feed is a Stream fed manually by the embedding UI (the wasm bridge forwards
// browser pointermove/pointerup events into it). At most one subscriber is
// active at a time, matching the one-active-gesture invariant.
type Feed struct {
	onMove func(PointerEvent)
	onUp   func(PointerEvent)
}

// NewFeed creates an empty feed.
func NewFeed() *Feed {
	return &Feed{}
}

// Subscribe installs the gesture's move/up listeners, replacing any previous
// subscription.
func (f *Feed) Subscribe(onMove, onUp func(PointerEvent)) func() {
	f.onMove = onMove
	f.onUp = onUp
	return func() {
		f.onMove = nil
		f.onUp = nil
	}
}

// Move forwards a pointer-move event to the active subscriber, if any.
func (f *Feed) Move(ev PointerEvent) {
	if f.onMove != nil {
		f.onMove(ev)
	}
}

// Up forwards a pointer-up event to the active subscriber, if any.
func (f *Feed) Up(ev PointerEvent) {
	if f.onUp != nil {
		f.onUp(ev)
	}
}
