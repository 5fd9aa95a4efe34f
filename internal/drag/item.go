package drag

import (
	"time"

	"github.com/dshills/reorderlist/internal/event"
	"github.com/dshills/reorderlist/internal/input/mouse"
	"github.com/dshills/reorderlist/internal/logging"
)

// listenerPair is the document move/release subscription owned by an item.
type listenerPair struct {
	move    event.Subscription
	release event.Subscription
}

// cancel detaches both listeners. Safe on a zero pair.
func (p *listenerPair) cancel() {
	if p.move != nil {
		p.move.Cancel()
	}
	if p.release != nil {
		p.release.Cancel()
	}
	*p = listenerPair{}
}

// attached reports whether any listener is held.
func (p *listenerPair) attached() bool {
	return p.move != nil || p.release != nil
}

// Item tracks drag sessions for one list item.
type Item struct {
	id       ItemID
	ctrl     Controller
	doc      *event.Document
	element  Element
	children any
	flags    Flags

	s         session
	listeners listenerPair

	clock  func() time.Time
	logger *logging.Logger
}

// Option configures an Item.
type Option func(*Item)

// WithClock sets the time source used when events carry no timestamp.
func WithClock(clock func() time.Time) Option {
	return func(it *Item) {
		if clock != nil {
			it.clock = clock
		}
	}
}

// WithLogger sets the item's logger.
func WithLogger(l *logging.Logger) Option {
	return func(it *Item) {
		if l != nil {
			it.logger = l
		}
	}
}

// WithChildren sets the content the item renders.
func WithChildren(children any) Option {
	return func(it *Item) {
		it.children = children
	}
}

// NewItem creates an idle item reporting to ctrl and listening on doc.
func NewItem(id ItemID, ctrl Controller, doc *event.Document, opts ...Option) *Item {
	it := &Item{
		id:     id,
		ctrl:   ctrl,
		doc:    doc,
		clock:  time.Now,
		logger: logging.Null(),
	}
	for _, opt := range opts {
		opt(it)
	}
	it.logger = it.logger.WithComponent("drag").WithField("item", id)
	return it
}

// ID returns the item's identity.
func (it *Item) ID() ItemID { return it.id }

// Children returns the item's content unmodified.
func (it *Item) Children() any { return it.children }

// Flags returns the item's presentation flags.
func (it *Item) Flags() Flags { return it.flags }

// SetFlags replaces the item's presentation flags.
func (it *Item) SetFlags(f Flags) { it.flags = f }

// Phase returns the current session phase.
func (it *Item) Phase() Phase { return it.s.phase }

// IsDragging reports whether a drag has been confirmed.
func (it *Item) IsDragging() bool { return it.s.phase == PhaseDragging }

// Listening reports whether the item holds document listeners.
func (it *Item) Listening() bool { return it.listeners.attached() }

// OnAttached binds the item to its rendered element and publishes its box.
func (it *Item) OnAttached(el Element) {
	it.element = el
	it.reportBox()
}

// OnGeometryMayHaveChanged publishes the item's current box. Owners call
// it after every layout pass.
func (it *Item) OnGeometryMayHaveChanged() {
	it.reportBox()
}

// OnDetached releases the item's document listeners and unbinds its
// element. A drag in progress is ended so the controller does not keep
// waiting for a release that will never be delivered.
func (it *Item) OnDetached() {
	prev := it.s.phase
	it.listeners.cancel()
	it.s = session{}
	it.element = nil

	if prev == PhaseDragging {
		it.logger.Debug("detached while dragging")
		it.ctrl.HandleDragEnd()
	}
}

// Box returns the element's current box, or the zero Box when the item is
// not attached.
func (it *Item) Box() Box {
	if it.element == nil {
		return Box{}
	}
	return it.element.BoundingBox()
}

// OffsetOf returns the pointer position of ev relative to the item's
// current box, corrected for document scroll.
func (it *Item) OffsetOf(ev mouse.Event) Offset {
	box := it.Box()
	m := it.doc.Scroll()
	return Offset{
		X: ev.PageX() - (box.Left + m.ScrollLeft - m.ClientLeft),
		Y: ev.PageY() - (box.Top + m.ScrollTop - m.ClientTop),
	}
}

// HandlePress starts a session for a press that landed on the item.
func (it *Item) HandlePress(ev *mouse.Event) {
	at := it.timeOf(*ev)

	// A press while a session is active means the release was lost.
	if it.s.active() {
		it.logger.Warn("press during %s session, ending it", it.s.phase)
		it.handleRelease(*ev)
	}

	it.s = it.s.press(at, it.OffsetOf(*ev))
	ev.PreventDefault()
	it.attach()

	it.logger.Debug("pressed at %d,%d", ev.PageX(), ev.PageY())
}

// attach subscribes the document move and release listeners, replacing
// any pair already held.
func (it *Item) attach() {
	it.listeners.cancel()

	move, err := it.doc.Subscribe(event.KindMove, it.handleMove)
	if err != nil {
		it.logger.Error("attach move listener: %v", err)
		return
	}
	release, err := it.doc.Subscribe(event.KindRelease, it.handleRelease)
	if err != nil {
		move.Cancel()
		it.logger.Error("attach release listener: %v", err)
		return
	}
	it.listeners = listenerPair{move: move, release: release}
}

// handleMove is the document move listener.
func (it *Item) handleMove(ev mouse.Event) {
	if !it.s.active() {
		return
	}

	next, res := it.s.move(it.timeOf(ev), it.ctrl.GetDragDelay())
	if res == moveIgnored {
		return
	}
	it.commit(next)

	if res == moveBegan {
		it.logger.Debug("drag began")
		it.ctrl.HandleDragBegin(it.id)
	}
	it.ctrl.HandleDragMove(it.id, next.dragOffset(ev.PageX(), ev.PageY()))
}

// handleRelease is the document release listener.
func (it *Item) handleRelease(_ mouse.Event) {
	next, from := it.s.release()

	switch from {
	case PhaseDragging:
		it.logger.Debug("drag ended")
		it.ctrl.HandleDragEnd()
	case PhasePressed:
		if ch, ok := it.ctrl.(ClickHandler); ok {
			ch.HandleClick(it.id)
		}
	}

	it.commit(next)
}

// commit installs the next session and detaches the document listeners
// when it leaves the active phases.
func (it *Item) commit(next session) {
	prev := it.s
	it.s = next
	if prev.active() && !next.active() {
		it.listeners.cancel()
	}
}

// reportBox publishes the current box to the controller.
func (it *Item) reportBox() {
	it.ctrl.SetItemBoxRect(it.id, it.Box())
}

// timeOf returns the event's timestamp, falling back to the clock.
func (it *Item) timeOf(ev mouse.Event) time.Time {
	if ev.Timestamp.IsZero() {
		return it.clock()
	}
	return ev.Timestamp
}
