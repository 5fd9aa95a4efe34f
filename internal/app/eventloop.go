package app

import (
	"github.com/dshills/reorderlist/internal/event"
	"github.com/dshills/reorderlist/internal/input/mouse"
	"github.com/dshills/reorderlist/internal/renderer/backend"
)

// handleBackendEvent processes a backend event and routes it appropriately.
// Returns ErrQuit if the application should exit.
func (app *Application) handleBackendEvent(ev backend.Event) error {
	var err error
	switch ev.Type {
	case backend.EventResize:
		app.handleResize(ev)
	case backend.EventKey:
		err = app.handleKeyEvent(ev)
	case backend.EventMouse:
		app.handleMouseEvent(ev)
	case backend.EventInterrupt:
		// Wake-up only; the caller redraws
	default:
		return nil
	}
	if err != nil {
		return err
	}
	app.publishGeometry()
	return nil
}

// handleResize processes terminal resize events.
func (app *Application) handleResize(ev backend.Event) {
	app.width, app.height = ev.Width, ev.Height
	app.scrollTo(app.scrollTop)
}

// handleKeyEvent quits on q, Esc and Ctrl+C. Navigation keys scroll the
// viewport; they never reorder.
func (app *Application) handleKeyEvent(ev backend.Event) error {
	switch ev.Key {
	case backend.KeyEscape, backend.KeyCtrlC:
		return ErrQuit
	case backend.KeyRune:
		if ev.Rune == 'q' || ev.Rune == 'Q' {
			return ErrQuit
		}
	case backend.KeyUp:
		app.scrollBy(-1)
	case backend.KeyDown:
		app.scrollBy(1)
	case backend.KeyPageUp:
		app.scrollBy(-app.viewRows())
	case backend.KeyPageDown:
		app.scrollBy(app.viewRows())
	case backend.KeyHome:
		app.scrollTo(0)
	case backend.KeyEnd:
		app.scrollTo(app.maxScroll())
	}
	return nil
}

// handleMouseEvent turns a terminal mouse sample into a press on the item
// under the pointer, or a document move or release.
func (app *Application) handleMouseEvent(ev backend.Event) {
	m := app.doc.Scroll()
	page := mouse.Position{X: ev.MouseX + m.ScrollLeft, Y: ev.MouseY + m.ScrollTop}
	mev := app.translator.Translate(page, convertButton(ev.MouseButton), ev.When)

	switch mev.Action {
	case mouse.ActionPress:
		if mev.Button != mouse.ButtonLeft {
			return
		}
		if it := app.hitTest(ev.MouseX, ev.MouseY); it != nil {
			it.HandlePress(&mev)
		}
		if !mev.DefaultPrevented() {
			// No item took the press; the list has no background action.
			app.ignoredPress++
			app.logger.Debug("press at %d,%d outside the list", ev.MouseX, ev.MouseY)
		}

	case mouse.ActionMove, mouse.ActionDrag:
		app.doc.Dispatch(event.KindMove, mev)

	case mouse.ActionRelease:
		app.doc.Dispatch(event.KindRelease, mev)

	case mouse.ActionScroll:
		switch mev.Button {
		case mouse.ButtonScrollUp:
			app.scrollBy(-1)
		case mouse.ButtonScrollDown:
			app.scrollBy(1)
		}
	}
}

// convertButton maps the backend's button to the mouse package's.
func convertButton(b backend.MouseButton) mouse.Button {
	switch b {
	case backend.MouseLeft:
		return mouse.ButtonLeft
	case backend.MouseMiddle:
		return mouse.ButtonMiddle
	case backend.MouseRight:
		return mouse.ButtonRight
	case backend.MouseWheelUp:
		return mouse.ButtonScrollUp
	case backend.MouseWheelDown:
		return mouse.ButtonScrollDown
	case backend.MouseWheelLeft:
		return mouse.ButtonScrollLeft
	case backend.MouseWheelRight:
		return mouse.ButtonScrollRight
	default:
		return mouse.ButtonNone
	}
}
