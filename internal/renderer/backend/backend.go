// Package backend provides terminal backend abstraction for the list view.
package backend

import (
	"time"

	"github.com/mattn/go-runewidth"
)

// EventType identifies the type of terminal event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventMouse
	EventResize
	EventInterrupt
)

// Event represents a terminal event.
type Event struct {
	Type EventType

	// When is the time the terminal reported the event.
	When time.Time

	// Key event fields
	Key  Key
	Rune rune
	Mod  ModMask

	// Mouse event fields
	MouseX, MouseY int
	MouseButton    MouseButton

	// Resize event fields
	Width, Height int

	// Interrupt event payload
	Data any
}

// Key represents a keyboard key.
type Key int

// Key constants for special keys.
const (
	KeyNone Key = iota
	KeyRune     // Regular character (use Rune field)
	KeyEscape
	KeyEnter
	KeyUp
	KeyDown
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
	KeyCtrlC
)

// ModMask represents modifier key state.
type ModMask int

const (
	ModNone  ModMask = 0
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
)

// MouseButton represents mouse button state.
type MouseButton int

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
	MouseWheelLeft
	MouseWheelRight
)

// Color is a palette color index, or ColorDefault.
type Color int32

// ColorDefault leaves the terminal's own color in place.
const ColorDefault Color = -1

// Palette colors used by the list.
const (
	ColorBlack Color = iota
	ColorMaroon
	ColorGreen
	ColorOlive
	ColorNavy
	ColorPurple
	ColorTeal
	ColorSilver
	ColorGray
)

// Attr is a set of text attributes.
type Attr uint8

const (
	AttrNone Attr = 0
	AttrBold Attr = 1 << iota
	AttrDim
	AttrReverse
	AttrUnderline
)

// Has reports whether all attributes in a are set.
func (s Attr) Has(a Attr) bool { return s&a == a }

// Style is the visual style of a cell.
type Style struct {
	Foreground Color
	Background Color
	Attrs      Attr
}

// DefaultStyle returns the terminal's default style.
func DefaultStyle() Style {
	return Style{Foreground: ColorDefault, Background: ColorDefault}
}

// Cell is one screen cell.
type Cell struct {
	Rune  rune
	Style Style
}

// EmptyCell returns a blank cell in the default style.
func EmptyCell() Cell {
	return Cell{Rune: ' ', Style: DefaultStyle()}
}

// Rect is a screen rectangle. Right and Bottom are exclusive.
type Rect struct {
	Left, Top, Right, Bottom int
}

// Backend defines the interface for terminal backends.
type Backend interface {
	// Init initializes the backend for use.
	// Must be called before any other methods.
	Init() error

	// Shutdown releases backend resources and restores terminal state.
	Shutdown()

	// Size returns the current terminal dimensions.
	Size() (width, height int)

	// SetCell sets a single cell at the given position.
	// Positions outside the terminal are silently ignored.
	SetCell(x, y int, cell Cell)

	// GetCell returns the cell at the given position.
	// Returns an empty cell for positions outside the terminal.
	GetCell(x, y int) Cell

	// Fill fills a rectangular region with the given cell.
	Fill(rect Rect, cell Cell)

	// Clear clears the entire screen with the default style.
	Clear()

	// Show flushes changes to the display.
	Show()

	// PollEvent waits for and returns the next terminal event.
	// Returns an EventNone event once the backend is shut down.
	PollEvent() Event

	// PostEvent posts a synthetic event to the event queue.
	PostEvent(event Event)
}

// DrawText writes text starting at (x, y), clipped to maxWidth cells.
// Wide runes take two cells. Returns the number of cells used.
func DrawText(b Backend, x, y, maxWidth int, text string, style Style) int {
	if maxWidth <= 0 {
		return 0
	}
	text = runewidth.Truncate(text, maxWidth, "…")

	col := 0
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col+w > maxWidth {
			break
		}
		b.SetCell(x+col, y, Cell{Rune: r, Style: style})
		if w == 2 {
			// Continuation cell of a wide rune
			b.SetCell(x+col+1, y, Cell{Rune: 0, Style: style})
		}
		col += w
	}
	return col
}

// NullBackend is an in-memory backend for testing.
type NullBackend struct {
	width, height int
	cells         [][]Cell
	events        chan Event
	shown         int
}

// NewNullBackend creates a null backend with the given dimensions.
func NewNullBackend(width, height int) *NullBackend {
	return &NullBackend{
		width:  width,
		height: height,
		events: make(chan Event, 100),
	}
}

func (b *NullBackend) Init() error {
	b.cells = make([][]Cell, b.height)
	for i := range b.cells {
		b.cells[i] = make([]Cell, b.width)
	}
	b.Clear()
	return nil
}

func (b *NullBackend) Shutdown() {}

func (b *NullBackend) Size() (int, int) {
	return b.width, b.height
}

func (b *NullBackend) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.width && y < b.height && b.cells != nil
}

func (b *NullBackend) SetCell(x, y int, cell Cell) {
	if b.inBounds(x, y) {
		b.cells[y][x] = cell
	}
}

func (b *NullBackend) GetCell(x, y int) Cell {
	if !b.inBounds(x, y) {
		return EmptyCell()
	}
	return b.cells[y][x]
}

func (b *NullBackend) Fill(rect Rect, cell Cell) {
	for y := rect.Top; y < rect.Bottom; y++ {
		for x := rect.Left; x < rect.Right; x++ {
			b.SetCell(x, y, cell)
		}
	}
}

func (b *NullBackend) Clear() {
	b.Fill(Rect{Right: b.width, Bottom: b.height}, EmptyCell())
}

func (b *NullBackend) Show() {
	b.shown++
}

// ShowCount returns how many times Show was called.
func (b *NullBackend) ShowCount() int {
	return b.shown
}

func (b *NullBackend) PollEvent() Event {
	return <-b.events
}

func (b *NullBackend) PostEvent(event Event) {
	select {
	case b.events <- event:
	default:
	}
}

// Resize changes the backend dimensions, clearing its contents.
func (b *NullBackend) Resize(width, height int) {
	b.width, b.height = width, height
	_ = b.Init()
}

// Row returns the runes of row y as a string, for assertions.
func (b *NullBackend) Row(y int) string {
	if y < 0 || y >= b.height || b.cells == nil {
		return ""
	}
	rs := make([]rune, 0, b.width)
	for _, c := range b.cells[y] {
		if c.Rune == 0 {
			continue
		}
		rs = append(rs, c.Rune)
	}
	return string(rs)
}
