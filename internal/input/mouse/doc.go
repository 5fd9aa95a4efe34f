// Package mouse provides the pointer event model for the reorderable list.
//
// Terminals report mouse input as samples of the currently held buttons at
// a cell position. The mouse package turns those samples into discrete
// events with an explicit action:
//
//	tr := mouse.NewTranslator()
//	ev := tr.Translate(mouse.Position{X: 10, Y: 4}, mouse.ButtonLeft, time.Now())
//	// ev.Action == mouse.ActionPress
//
// # Actions
//
//   - Press: a button went down that was not held in the previous sample
//   - Drag: the pointer moved while the pressed button is still held
//   - Move: the pointer moved with no button held
//   - Release: the held button is no longer reported
//   - Scroll: a wheel sample; wheels never start a press
//
// # Coordinates
//
// Positions produced by the Translator are in screen cells. Callers that
// scroll their content convert them to page coordinates with
// Position.Add before handing events to the drag layer.
//
// # Thread Safety
//
// Translator is safe for concurrent use.
package mouse
