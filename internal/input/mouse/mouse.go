package mouse

import "time"

// Button represents a mouse button.
type Button uint8

const (
	// ButtonNone indicates no button.
	ButtonNone Button = iota
	// ButtonLeft is the primary (left) mouse button.
	ButtonLeft
	// ButtonMiddle is the middle mouse button (scroll wheel click).
	ButtonMiddle
	// ButtonRight is the secondary (right) mouse button.
	ButtonRight
	// ButtonScrollUp indicates scroll wheel up.
	ButtonScrollUp
	// ButtonScrollDown indicates scroll wheel down.
	ButtonScrollDown
	// ButtonScrollLeft indicates horizontal scroll left.
	ButtonScrollLeft
	// ButtonScrollRight indicates horizontal scroll right.
	ButtonScrollRight
)

// String returns a string representation of the button.
func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	case ButtonScrollUp:
		return "scroll-up"
	case ButtonScrollDown:
		return "scroll-down"
	case ButtonScrollLeft:
		return "scroll-left"
	case ButtonScrollRight:
		return "scroll-right"
	default:
		return "none"
	}
}

// IsScroll returns true if this is a scroll button.
func (b Button) IsScroll() bool {
	return b == ButtonScrollUp || b == ButtonScrollDown ||
		b == ButtonScrollLeft || b == ButtonScrollRight
}

// Action represents the type of mouse action.
type Action uint8

const (
	// ActionNone indicates no action.
	ActionNone Action = iota
	// ActionPress indicates a button press.
	ActionPress
	// ActionRelease indicates a button release.
	ActionRelease
	// ActionMove indicates mouse movement (no button held).
	ActionMove
	// ActionDrag indicates mouse movement with a button held.
	ActionDrag
	// ActionScroll indicates a wheel tick.
	ActionScroll
)

// String returns a string representation of the action.
func (a Action) String() string {
	switch a {
	case ActionPress:
		return "press"
	case ActionRelease:
		return "release"
	case ActionMove:
		return "move"
	case ActionDrag:
		return "drag"
	case ActionScroll:
		return "scroll"
	default:
		return "none"
	}
}

// Position represents a coordinate in cells.
type Position struct {
	X int
	Y int
}

// Equal returns true if two positions are equal.
func (p Position) Equal(other Position) bool {
	return p.X == other.X && p.Y == other.Y
}

// Event represents a mouse input event.
type Event struct {
	// Position is the pointer position. Screen cells when produced by a
	// Translator, page cells once the owner has applied its scroll.
	Position Position

	// Button is the mouse button involved.
	Button Button

	// Action is the type of mouse action.
	Action Action

	// Timestamp is when the event occurred.
	Timestamp time.Time

	defaultPrevented bool
}

// PreventDefault marks the event as consumed. Owners check
// DefaultPrevented after delivering a press to decide whether it still
// needs their own handling.
func (e *Event) PreventDefault() {
	e.defaultPrevented = true
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}

// PageX returns the horizontal pointer coordinate.
func (e Event) PageX() int { return e.Position.X }

// PageY returns the vertical pointer coordinate.
func (e Event) PageY() int { return e.Position.Y }
