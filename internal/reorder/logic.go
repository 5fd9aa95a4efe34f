// Package reorder provides a list controller that reorders items from the
// boxes and drag offsets reported by drag.Item.
package reorder

import (
	"sync/atomic"
	"time"

	"github.com/dshills/reorderlist/internal/drag"
	"github.com/dshills/reorderlist/internal/event"
	"github.com/dshills/reorderlist/internal/logging"
)

// Logic is a drag.Controller that keeps the list order.
//
// Only the drag delay may be changed from another goroutine; every other
// method belongs to the event loop.
type Logic struct {
	delay atomic.Int64

	order []drag.ItemID
	boxes map[drag.ItemID]drag.Box

	dragging   drag.ItemID
	isDragging bool
	offset     drag.Offset
	hovered    int

	active    drag.ItemID
	hasActive bool

	scroll    func() event.Metrics
	onReorder func(order []drag.ItemID)
	logger    *logging.Logger
}

// Option configures Logic.
type Option func(*Logic)

// WithScroll sets the source of the document scroll metrics used to bring
// page offsets back into viewport cells.
func WithScroll(fn func() event.Metrics) Option {
	return func(l *Logic) {
		if fn != nil {
			l.scroll = fn
		}
	}
}

// WithOnReorder registers a callback run after a drop changed the order.
func WithOnReorder(fn func(order []drag.ItemID)) Option {
	return func(l *Logic) {
		l.onReorder = fn
	}
}

// WithLogger sets the logger.
func WithLogger(lg *logging.Logger) Option {
	return func(l *Logic) {
		if lg != nil {
			l.logger = lg
		}
	}
}

// New creates a controller for the given initial order.
func New(order []drag.ItemID, delay time.Duration, opts ...Option) *Logic {
	l := &Logic{
		order:   append([]drag.ItemID(nil), order...),
		boxes:   make(map[drag.ItemID]drag.Box, len(order)),
		hovered: -1,
		scroll:  func() event.Metrics { return event.Metrics{} },
		logger:  logging.Null(),
	}
	l.delay.Store(int64(delay))
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.WithComponent("reorder")
	return l
}

// GetDragDelay returns the current drag delay.
func (l *Logic) GetDragDelay() time.Duration {
	return time.Duration(l.delay.Load())
}

// SetDragDelay replaces the drag delay. Safe for concurrent use.
func (l *Logic) SetDragDelay(d time.Duration) {
	if d < 0 {
		d = 0
	}
	l.delay.Store(int64(d))
}

// SetItemBoxRect stores the current box of an item.
func (l *Logic) SetItemBoxRect(id drag.ItemID, box drag.Box) {
	l.boxes[id] = box
}

// HandleDragBegin marks id as the dragged item.
func (l *Logic) HandleDragBegin(id drag.ItemID) {
	idx := l.indexOf(id)
	if idx < 0 {
		l.logger.Warn("drag begin for unknown item %s", id)
		return
	}
	l.dragging = id
	l.isDragging = true
	l.hovered = idx
	l.offset = drag.Offset{}
	l.logger.Debug("begin %s at slot %d", id, idx)
}

// HandleDragMove records the drag offset and recomputes the hovered slot.
func (l *Logic) HandleDragMove(id drag.ItemID, offset drag.Offset) {
	if !l.isDragging || id != l.dragging {
		return
	}
	l.offset = offset
	l.hovered = l.slotFor(offset)
}

// HandleDragEnd drops the dragged item into the hovered slot.
func (l *Logic) HandleDragEnd() {
	if !l.isDragging {
		return
	}

	from := l.indexOf(l.dragging)
	to := l.hovered
	id := l.dragging

	l.isDragging = false
	l.dragging = ""
	l.hovered = -1
	l.offset = drag.Offset{}

	if from < 0 || to < 0 || from == to {
		return
	}

	l.order = move(l.order, from, to)
	l.logger.Debug("dropped %s from slot %d to %d", id, from, to)
	if l.onReorder != nil {
		l.onReorder(l.Order())
	}
}

// HandleClick makes id the active item.
func (l *Logic) HandleClick(id drag.ItemID) {
	l.active = id
	l.hasActive = true
}

// Order returns a copy of the current order.
func (l *Logic) Order() []drag.ItemID {
	return append([]drag.ItemID(nil), l.order...)
}

// Dragged returns the item being dragged, if any.
func (l *Logic) Dragged() (drag.ItemID, bool) {
	return l.dragging, l.isDragging
}

// Hovered returns the slot the dragged item would drop into, or -1.
func (l *Logic) Hovered() int {
	return l.hovered
}

// DragOffset returns the last reported drag offset.
func (l *Logic) DragOffset() drag.Offset {
	return l.offset
}

// Active returns the last clicked item, if any.
func (l *Logic) Active() (drag.ItemID, bool) {
	return l.active, l.hasActive
}

// Box returns the last reported box for id.
func (l *Logic) Box(id drag.ItemID) (drag.Box, bool) {
	b, ok := l.boxes[id]
	return b, ok
}

// Flags returns the presentation flags for the item in slot idx.
func (l *Logic) Flags(idx int) drag.Flags {
	if idx < 0 || idx >= len(l.order) {
		return drag.Flags{}
	}
	id := l.order[idx]
	return drag.Flags{
		Dragged:  l.isDragging && id == l.dragging,
		Hovered:  l.isDragging && idx == l.hovered && id != l.dragging,
		Activity: l.hasActive && id == l.active,
	}
}

// slotFor returns the slot under the centre of the dragged item when its
// top-left sits at the page offset.
func (l *Logic) slotFor(offset drag.Offset) int {
	dragged := l.boxes[l.dragging]
	m := l.scroll()
	centre := offset.Y - m.ScrollTop + m.ClientTop + dragged.Height/2

	best := -1
	for i, id := range l.order {
		box, ok := l.boxes[id]
		if !ok || box.Empty() {
			continue
		}
		if centre >= box.Top && centre < box.Bottom() {
			return i
		}
		if centre >= box.Top {
			best = i
		} else if best < 0 {
			// Above the first laid out slot
			return i
		}
	}
	if best < 0 {
		return l.indexOf(l.dragging)
	}
	return best
}

// indexOf returns the slot of id, or -1.
func (l *Logic) indexOf(id drag.ItemID) int {
	for i, v := range l.order {
		if v == id {
			return i
		}
	}
	return -1
}

// move returns order with the element at from moved to to.
func move(order []drag.ItemID, from, to int) []drag.ItemID {
	id := order[from]
	out := make([]drag.ItemID, 0, len(order))
	out = append(out, order[:from]...)
	out = append(out, order[from+1:]...)

	result := make([]drag.ItemID, 0, len(order))
	result = append(result, out[:to]...)
	result = append(result, id)
	result = append(result, out[to:]...)
	return result
}
