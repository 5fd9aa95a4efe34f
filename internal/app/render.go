package app

import (
	"fmt"
	"slices"

	"github.com/dshills/reorderlist/internal/drag"
	"github.com/dshills/reorderlist/internal/renderer/backend"
)

var (
	headerStyle   = backend.Style{Foreground: backend.ColorSilver, Background: backend.ColorNavy, Attrs: backend.AttrBold}
	statusStyle   = backend.Style{Foreground: backend.ColorGray, Background: backend.ColorDefault}
	floatingStyle = backend.Style{Foreground: backend.ColorBlack, Background: backend.ColorOlive, Attrs: backend.AttrBold}
)

// classStyle returns the row style for an item's style classes. Later
// classes take precedence.
func classStyle(classes []string) backend.Style {
	style := backend.DefaultStyle()
	if slices.Contains(classes, "activity") {
		style.Attrs |= backend.AttrBold
		style.Foreground = backend.ColorGreen
	}
	if slices.Contains(classes, "hovered") {
		style.Background = backend.ColorTeal
	}
	if slices.Contains(classes, "dragged") {
		style = backend.Style{Foreground: backend.ColorGray, Background: backend.ColorDefault, Attrs: backend.AttrDim}
	}
	return style
}

// render draws the header, the visible rows, the floating dragged row and
// the status line.
func (app *Application) render() {
	b := app.backend
	b.Clear()

	app.drawLine(0, fmt.Sprintf(" reorderlist  delay %s  drag to reorder, q quits", app.logic.GetDragDelay()), headerStyle)

	order := app.logic.Order()
	for row := range app.viewRows() {
		idx := app.scrollTop + row
		if idx >= len(order) {
			break
		}
		app.drawItem(listTop+row, app.items[order[idx]])
	}

	app.drawFloating()
	app.drawLine(app.height-1, " "+app.status, statusStyle)
	b.Show()
}

func (app *Application) drawItem(y int, it *drag.Item) {
	flags := it.Flags()
	style := classStyle(flags.Classes())
	marker := "  "
	if flags.Activity {
		marker = "> "
	}
	label, _ := it.Children().(string)
	app.drawLine(y, marker+label, style)
}

// drawFloating draws the dragged item where its top-left currently is.
func (app *Application) drawFloating() {
	id, ok := app.logic.Dragged()
	if !ok {
		return
	}
	off := app.logic.DragOffset()
	m := app.doc.Scroll()
	x := off.X - m.ScrollLeft + m.ClientLeft
	y := off.Y - m.ScrollTop + m.ClientTop
	if y < listTop || y >= listTop+app.viewRows() {
		return
	}
	text := "= " + app.labels[id]
	start := max(x, 0)
	backend.DrawText(app.backend, start, y, app.width-start, text, floatingStyle)
}

// drawLine fills row y with style and writes text over it.
func (app *Application) drawLine(y int, text string, style backend.Style) {
	if y < 0 || y >= app.height {
		return
	}
	app.backend.Fill(backend.Rect{Top: y, Bottom: y + 1, Right: app.width}, backend.Cell{Rune: ' ', Style: style})
	backend.DrawText(app.backend, 0, y, app.width, text, style)
}
