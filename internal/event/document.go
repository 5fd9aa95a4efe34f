package event

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/dshills/reorderlist/internal/input/mouse"
)

// Kind identifies a class of document events.
type Kind string

const (
	// KindMove is pointer motion anywhere in the document.
	KindMove Kind = "mousemove"

	// KindRelease is a button release anywhere in the document.
	KindRelease Kind = "mouseup"
)

// Metrics describes the document's root scrolling element.
type Metrics struct {
	// ScrollLeft and ScrollTop are how far the content is scrolled.
	ScrollLeft int
	ScrollTop  int

	// ClientLeft and ClientTop are the widths of the root's left and top
	// borders.
	ClientLeft int
	ClientTop  int
}

// Document is a registry of document-scoped listeners.
type Document struct {
	mu     sync.RWMutex
	subs   map[Kind][]*subscription
	scroll Metrics

	nextID atomic.Uint64

	// Stats
	dispatched atomic.Uint64
	delivered  atomic.Uint64
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{
		subs: make(map[Kind][]*subscription),
	}
}

// Subscribe attaches a listener for events of the given kind.
func (d *Document) Subscribe(kind Kind, l Listener) (Subscription, error) {
	if kind == "" {
		return nil, ErrInvalidKind
	}
	if l == nil {
		return nil, ErrNilListener
	}

	id := string(kind) + "-" + strconv.FormatUint(d.nextID.Add(1), 10)
	sub := newSubscription(id, kind, l, d)

	d.mu.Lock()
	d.subs[kind] = append(d.subs[kind], sub)
	d.mu.Unlock()

	return sub, nil
}

// remove deletes a subscription from the registry.
func (d *Document) remove(sub *subscription) {
	d.mu.Lock()
	defer d.mu.Unlock()

	subs := d.subs[sub.kind]
	for i, s := range subs {
		if s == sub {
			d.subs[sub.kind] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}

	// Clean up empty kind entries
	if len(d.subs[sub.kind]) == 0 {
		delete(d.subs, sub.kind)
	}
}

// Dispatch delivers ev to every listener of kind in registration order and
// returns the number of listeners that received it.
func (d *Document) Dispatch(kind Kind, ev mouse.Event) int {
	d.mu.RLock()
	subs := d.subs[kind]
	snapshot := make([]*subscription, len(subs))
	copy(snapshot, subs)
	d.mu.RUnlock()

	d.dispatched.Add(1)

	n := 0
	for _, sub := range snapshot {
		if sub.deliver(ev) {
			n++
		}
	}
	d.delivered.Add(uint64(n))
	return n
}

// ListenerCount returns the number of listeners attached for kind.
func (d *Document) ListenerCount(kind Kind) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.subs[kind])
}

// Len returns the total number of attached listeners.
func (d *Document) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	n := 0
	for _, subs := range d.subs {
		n += len(subs)
	}
	return n
}

// SetScroll replaces the root scrolling element metrics.
func (d *Document) SetScroll(m Metrics) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scroll = m
}

// Scroll returns the root scrolling element metrics.
func (d *Document) Scroll() Metrics {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.scroll
}

// Stats contains document dispatch statistics.
type Stats struct {
	// Dispatched is the number of Dispatch calls.
	Dispatched uint64

	// Delivered is the number of listener invocations.
	Delivered uint64

	// Listeners is the number of currently attached listeners.
	Listeners int
}

// Stats returns dispatch statistics.
func (d *Document) Stats() Stats {
	return Stats{
		Dispatched: d.dispatched.Load(),
		Delivered:  d.delivered.Load(),
		Listeners:  d.Len(),
	}
}
