// Package drag implements the per-item drag tracking core of the
// reorderable list.
//
// An Item converts pointer events into a drag session and reports the
// session to a Controller. A press on the item starts a session; moves
// and releases are observed on the whole document so the drag continues
// after the pointer leaves the item.
//
// # Sessions
//
// Every item is in exactly one phase:
//
//	Idle --press--> Pressed --move after delay--> Dragging
//	  ^                |                              |
//	  +----release-----+-----------release------------+
//
// A move only counts once the controller's drag delay has elapsed since
// the press. A press followed by a quick release is a click: the
// controller hears nothing about it unless it implements ClickHandler.
//
// # Offsets
//
// The press records the pointer position relative to the item's box,
// corrected for document scroll. Every drag move reports the pointer
// position minus that anchor, so the reported offset follows the pointer
// even when reordering moves the item's own box mid-drag.
//
// # Lifecycle Hooks
//
// The owner of an item calls OnAttached when the item's element is laid
// out, OnGeometryMayHaveChanged after every layout pass, and OnDetached
// when the item goes away. Each of these publishes the item's box to the
// controller or releases the item's document listeners.
//
// # Thread Safety
//
// Item is not safe for concurrent use. All methods, and all document
// dispatches reaching its listeners, must run on the owner's event loop.
package drag
