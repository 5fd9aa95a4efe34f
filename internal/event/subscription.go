package event

import (
	"sync/atomic"

	"github.com/dshills/reorderlist/internal/input/mouse"
)

// Listener receives document events.
type Listener func(ev mouse.Event)

// SubscriptionState represents the state of a subscription.
type SubscriptionState int32

const (
	// SubscriptionStateActive means the subscription is receiving events.
	SubscriptionStateActive SubscriptionState = iota

	// SubscriptionStateCancelled means the subscription has been permanently cancelled.
	SubscriptionStateCancelled
)

// String returns a human-readable state name.
func (s SubscriptionState) String() string {
	switch s {
	case SubscriptionStateActive:
		return "active"
	case SubscriptionStateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Subscription represents an attached document listener.
type Subscription interface {
	// ID returns the unique subscription identifier.
	ID() string

	// Kind returns the event kind the listener is attached to.
	Kind() Kind

	// State returns the current subscription state.
	State() SubscriptionState

	// IsActive returns true if the subscription can receive events.
	IsActive() bool

	// Cancel detaches the listener from its document.
	// After cancellation, the subscription cannot be resumed.
	Cancel()
}

// subscription is the internal implementation of Subscription.
type subscription struct {
	id       string
	kind     Kind
	listener Listener
	doc      *Document
	state    atomic.Int32
}

// newSubscription creates a new active subscription.
func newSubscription(id string, kind Kind, l Listener, doc *Document) *subscription {
	s := &subscription{
		id:       id,
		kind:     kind,
		listener: l,
		doc:      doc,
	}
	s.state.Store(int32(SubscriptionStateActive))
	return s
}

// ID returns the subscription ID.
func (s *subscription) ID() string {
	return s.id
}

// Kind returns the subscribed event kind.
func (s *subscription) Kind() Kind {
	return s.kind
}

// State returns the current subscription state.
func (s *subscription) State() SubscriptionState {
	return SubscriptionState(s.state.Load())
}

// IsActive returns true if the subscription is active.
func (s *subscription) IsActive() bool {
	return s.State() == SubscriptionStateActive
}

// Cancel permanently cancels the subscription and removes it from the
// document. Only the first call has an effect.
func (s *subscription) Cancel() {
	if !s.state.CompareAndSwap(int32(SubscriptionStateActive), int32(SubscriptionStateCancelled)) {
		return
	}
	s.doc.remove(s)
}

// deliver calls the listener if the subscription is still active.
func (s *subscription) deliver(ev mouse.Event) bool {
	if !s.IsActive() {
		return false
	}
	s.listener(ev)
	return true
}
