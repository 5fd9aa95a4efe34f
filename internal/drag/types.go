package drag

import (
	"strconv"
	"time"
)

// Box is an item's bounding rectangle in viewport cells.
type Box struct {
	Top    int
	Left   int
	Width  int
	Height int
}

// Bottom returns the row just past the box.
func (b Box) Bottom() int { return b.Top + b.Height }

// Right returns the column just past the box.
func (b Box) Right() int { return b.Left + b.Width }

// Empty reports whether the box has no area.
func (b Box) Empty() bool { return b.Width <= 0 || b.Height <= 0 }

// Contains reports whether the cell (x, y) lies inside the box.
func (b Box) Contains(x, y int) bool {
	return x >= b.Left && x < b.Right() && y >= b.Top && y < b.Bottom()
}

// Offset is a signed displacement in cells.
type Offset struct {
	X int
	Y int
}

// ItemID identifies an item to its controller. The drag core never
// interprets it.
type ItemID string

// IDFromInt returns the ItemID for a numeric identity.
func IDFromInt(n int) ItemID {
	return ItemID(strconv.Itoa(n))
}

// Controller is the reordering logic that items report to.
type Controller interface {
	// GetDragDelay returns how long a press must be held before movement
	// counts as a drag.
	GetDragDelay() time.Duration

	// SetItemBoxRect stores the current box of an item.
	SetItemBoxRect(id ItemID, box Box)

	// HandleDragBegin is called once when a press becomes a drag.
	HandleDragBegin(id ItemID)

	// HandleDragMove is called for every move while dragging.
	HandleDragMove(id ItemID, offset Offset)

	// HandleDragEnd is called once when a drag finishes.
	HandleDragEnd()
}

// ClickHandler is implemented by controllers that want to hear about
// presses that were released without becoming a drag.
type ClickHandler interface {
	HandleClick(id ItemID)
}

// Element is the rendered surface of an item.
type Element interface {
	// BoundingBox returns the element's current box in viewport cells.
	BoundingBox() Box
}

// ElementFunc adapts a function to the Element interface.
type ElementFunc func() Box

// BoundingBox calls f.
func (f ElementFunc) BoundingBox() Box { return f() }

// Flags are presentation-only states set by the item's owner.
type Flags struct {
	// Dragged marks the item currently being dragged.
	Dragged bool

	// Hovered marks the slot the dragged item would drop into.
	Hovered bool

	// Activity marks the active (last clicked) item.
	Activity bool
}

// Classes returns the style classes for the flags, always starting with
// the base item class.
func (f Flags) Classes() []string {
	classes := []string{"dl-item"}
	if f.Activity {
		classes = append(classes, "activity")
	}
	if f.Dragged {
		classes = append(classes, "dragged")
	}
	if f.Hovered {
		classes = append(classes, "hovered")
	}
	return classes
}
