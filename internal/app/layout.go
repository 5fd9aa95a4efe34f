package app

import (
	"github.com/dshills/reorderlist/internal/drag"
	"github.com/dshills/reorderlist/internal/event"
)

// viewRows returns how many list rows fit between the header and the
// status line.
func (app *Application) viewRows() int {
	return max(app.height-listTop-1, 0)
}

// maxScroll returns the largest useful scroll offset.
func (app *Application) maxScroll() int {
	return max(len(app.items)-app.viewRows(), 0)
}

// rowBox returns the viewport box of the item with id: one full-width row
// at its slot, shifted by the scroll offset.
func (app *Application) rowBox(id drag.ItemID) drag.Box {
	idx := -1
	for i, v := range app.logic.Order() {
		if v == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return drag.Box{}
	}
	return drag.Box{
		Top:    listTop + idx - app.scrollTop,
		Left:   0,
		Width:  app.width,
		Height: 1,
	}
}

// hitTest returns the visible item whose box contains the screen cell.
func (app *Application) hitTest(x, y int) *drag.Item {
	if y < listTop || y >= listTop+app.viewRows() {
		return nil
	}
	for _, id := range app.logic.Order() {
		it := app.items[id]
		if it.Box().Contains(x, y) {
			return it
		}
	}
	return nil
}

// scrollBy moves the viewport by delta rows, clamped to the list.
func (app *Application) scrollBy(delta int) {
	app.scrollTo(app.scrollTop + delta)
}

func (app *Application) scrollTo(top int) {
	top = min(max(top, 0), app.maxScroll())
	if top == app.scrollTop {
		return
	}
	app.scrollTop = top
	app.publishScroll()
}

// publishScroll exposes the scroll offset as the document's root
// scrolling metrics.
func (app *Application) publishScroll() {
	app.doc.SetScroll(event.Metrics{ScrollTop: app.scrollTop})
}

// publishGeometry lets every item report its box again and refreshes
// the presentation flags.
func (app *Application) publishGeometry() {
	for _, id := range app.logic.Order() {
		app.items[id].OnGeometryMayHaveChanged()
	}
	app.syncFlags()
}

func (app *Application) syncFlags() {
	for idx, id := range app.logic.Order() {
		app.items[id].SetFlags(app.logic.Flags(idx))
	}
}
