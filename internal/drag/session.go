package drag

import "time"

// Phase is the state of an item's drag session.
type Phase uint8

const (
	// PhaseIdle means no press is active.
	PhaseIdle Phase = iota
	// PhasePressed means the pointer is down but no drag is confirmed.
	PhasePressed
	// PhaseDragging means the drag delay passed and moves are reported.
	PhaseDragging
)

// String returns a string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePressed:
		return "pressed"
	case PhaseDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// session is the value form of Idle | Pressed{start, initial} |
// Dragging{start, initial}. start and initial are zero when idle.
type session struct {
	phase   Phase
	start   time.Time
	initial Offset
}

// moveResult describes what a move did to a session.
type moveResult uint8

const (
	// moveIgnored: not pressed, or still inside the drag delay.
	moveIgnored moveResult = iota
	// moveBegan: the move confirmed the drag.
	moveBegan
	// moveContinued: the session was already dragging.
	moveContinued
)

// active reports whether a press is in progress.
func (s session) active() bool {
	return s.phase == PhasePressed || s.phase == PhaseDragging
}

// press starts a new session anchored at initial.
func (s session) press(at time.Time, initial Offset) session {
	return session{phase: PhasePressed, start: at, initial: initial}
}

// move applies a pointer move observed at the given time.
func (s session) move(at time.Time, delay time.Duration) (session, moveResult) {
	switch s.phase {
	case PhasePressed:
		if at.Sub(s.start) < delay {
			return s, moveIgnored
		}
		s.phase = PhaseDragging
		return s, moveBegan
	case PhaseDragging:
		return s, moveContinued
	default:
		return s, moveIgnored
	}
}

// release ends the session, returning the phase it ended from.
func (s session) release() (session, Phase) {
	return session{}, s.phase
}

// dragOffset is the pointer position relative to the press anchor.
func (s session) dragOffset(pageX, pageY int) Offset {
	return Offset{X: pageX - s.initial.X, Y: pageY - s.initial.Y}
}
