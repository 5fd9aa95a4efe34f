package mouse

import (
	"sync"
	"time"
)

// Translator converts held-button samples into discrete mouse events.
type Translator struct {
	mu sync.Mutex

	// held is the button reported by the previous non-wheel sample.
	held Button

	// last is the previous pointer position.
	last Position

	// seen is false until the first sample arrives.
	seen bool
}

// NewTranslator creates a new translator with no button held.
func NewTranslator() *Translator {
	return &Translator{}
}

// Translate converts one sample into an event. The returned event has
// ActionNone when the sample carries no new information (same position,
// same button state).
// If timestamp is zero, uses time.Now() as fallback.
func (t *Translator) Translate(pos Position, button Button, timestamp time.Time) Event {
	t.mu.Lock()
	defer t.mu.Unlock()

	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	ev := Event{Position: pos, Button: button, Timestamp: timestamp}

	// Wheel ticks never change the held state
	if button.IsScroll() {
		ev.Action = ActionScroll
		return ev
	}

	moved := !t.seen || !pos.Equal(t.last)
	t.seen = true
	t.last = pos

	switch {
	case t.held == ButtonNone && button != ButtonNone:
		ev.Action = ActionPress
	case t.held != ButtonNone && button == ButtonNone:
		// Report which button went up
		ev.Action = ActionRelease
		ev.Button = t.held
	case t.held != ButtonNone && button != t.held:
		// A different button while one is held: release the old one first
		// so that a press never arrives without its release.
		ev.Action = ActionRelease
		ev.Button = t.held
		t.held = ButtonNone
		return ev
	case t.held != ButtonNone && moved:
		ev.Action = ActionDrag
	case t.held == ButtonNone && moved:
		ev.Action = ActionMove
	default:
		ev.Action = ActionNone
	}

	t.held = button
	return ev
}

// Held returns the button currently considered held.
func (t *Translator) Held() Button {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.held
}

// Reset clears all translator state.
func (t *Translator) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.held = ButtonNone
	t.last = Position{}
	t.seen = false
}
