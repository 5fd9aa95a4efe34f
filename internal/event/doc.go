// Package event provides the document-scoped listener registry.
//
// A Document plays the role of the page: components subscribe to pointer
// events by kind (move, release) and receive every such event no matter
// which cell the pointer is over. This is what lets a drag continue after
// the pointer leaves the item that started it.
//
// # Subscriptions
//
// Subscribe returns a Subscription handle. The handle is the only way to
// stop delivery; Cancel removes the listener from the document and is safe
// to call more than once:
//
//	sub, err := doc.Subscribe(event.KindMove, item.handleMove)
//	if err != nil {
//	    return err
//	}
//	defer sub.Cancel()
//
// # Dispatch
//
// Dispatch delivers to a snapshot of the listeners registered when it was
// called. A listener may cancel its own or another subscription from inside
// a delivery; cancelled listeners that have not yet been reached are skipped.
//
// # Scroll Metrics
//
// The document also carries the metrics of its root scrolling element
// (scroll offsets and client insets), read by components that convert
// between page and viewport coordinates.
//
// # Thread Safety
//
// Document is safe for concurrent use.
package event
