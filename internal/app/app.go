package app

import (
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/reorderlist/internal/config"
	"github.com/dshills/reorderlist/internal/drag"
	"github.com/dshills/reorderlist/internal/event"
	"github.com/dshills/reorderlist/internal/input/mouse"
	"github.com/dshills/reorderlist/internal/logging"
	"github.com/dshills/reorderlist/internal/renderer/backend"
	"github.com/dshills/reorderlist/internal/reorder"
	"github.com/dshills/reorderlist/internal/trace"
)

// listTop is the first screen row of the list; row 0 is the header.
const listTop = 1

// Application is the reorderable list. It wires the document, the items,
// their controller and the terminal backend, and runs the event loop.
type Application struct {
	mu sync.Mutex

	doc        *event.Document
	logic      *reorder.Logic
	recorder   *trace.Recorder
	translator *mouse.Translator

	items  map[drag.ItemID]*drag.Item
	labels map[drag.ItemID]string

	backend       backend.Backend
	width, height int
	scrollTop     int
	status        string
	ignoredPress  int

	logger *logging.Logger

	running atomic.Bool
	done    chan struct{}
	stop    sync.Once
}

// Options configures the application.
type Options struct {
	// Items are the labels of the list entries, in initial order.
	Items []string

	// DragDelay is the hold time before a press turns into a drag.
	DragDelay time.Duration

	// Trace, when set, receives one JSON line per controller call.
	Trace io.Writer

	// TraceBoxes includes box reports in the trace.
	TraceBoxes bool

	// Logger receives diagnostics. Defaults to a disabled logger.
	Logger *logging.Logger

	// Clock is used by items for events without a timestamp.
	Clock func() time.Time
}

// New creates the application and its items. The backend is set
// separately with SetBackend.
func New(opts Options) (*Application, error) {
	if len(opts.Items) == 0 {
		return nil, ErrNoItems
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Null()
	}

	app := &Application{
		doc:        event.NewDocument(),
		translator: mouse.NewTranslator(),
		items:      make(map[drag.ItemID]*drag.Item, len(opts.Items)),
		labels:     make(map[drag.ItemID]string, len(opts.Items)),
		logger:     logger,
		done:       make(chan struct{}),
	}

	order := make([]drag.ItemID, len(opts.Items))
	for i, label := range opts.Items {
		id := drag.IDFromInt(i)
		order[i] = id
		app.labels[id] = label
	}

	app.logic = reorder.New(order, opts.DragDelay,
		reorder.WithScroll(app.doc.Scroll),
		reorder.WithOnReorder(app.reordered),
		reorder.WithLogger(logger),
	)

	var ctrl drag.Controller = app.logic
	if opts.Trace != nil {
		var topts []trace.Option
		if opts.TraceBoxes {
			topts = append(topts, trace.WithBoxes())
		}
		app.recorder = trace.NewRecorder(app.logic, opts.Trace, topts...)
		ctrl = app.recorder
	}

	for _, id := range order {
		itemOpts := []drag.Option{
			drag.WithLogger(logger),
			drag.WithChildren(app.labels[id]),
		}
		if opts.Clock != nil {
			itemOpts = append(itemOpts, drag.WithClock(opts.Clock))
		}
		app.items[id] = drag.NewItem(id, ctrl, app.doc, itemOpts...)
	}

	app.logger = logger.WithComponent("app")
	return app, nil
}

// SetBackend sets the terminal backend.
// Must be called before Run().
func (app *Application) SetBackend(b backend.Backend) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.running.Load() {
		return ErrAlreadyRunning
	}
	app.backend = b
	return nil
}

// Run starts the event loop and blocks until the user quits or Shutdown
// is called.
func (app *Application) Run() error {
	if app.backend == nil {
		return ErrNoBackend
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if err := app.backend.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer app.backend.Shutdown()

	app.attach()
	defer app.detach()

	app.render()
	return app.eventLoop()
}

// eventLoop handles backend events until quit.
func (app *Application) eventLoop() error {
	for {
		select {
		case <-app.done:
			return nil
		default:
		}

		ev := app.backend.PollEvent()
		if err := app.handleBackendEvent(ev); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			return err
		}
		app.render()
	}
}

// Shutdown asks a running event loop to stop.
func (app *Application) Shutdown() {
	app.stop.Do(func() {
		close(app.done)
		if b := app.backend; b != nil {
			b.PostEvent(backend.Event{Type: backend.EventInterrupt, Data: "shutdown"})
		}
	})
}

// IsRunning reports whether the event loop is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// attach mounts every item with an element laid out by the list.
func (app *Application) attach() {
	app.width, app.height = app.backend.Size()
	app.publishScroll()
	for _, id := range app.logic.Order() {
		app.items[id].OnAttached(drag.ElementFunc(func() drag.Box {
			return app.rowBox(id)
		}))
	}
	app.syncFlags()
}

// detach unmounts every item and forgets any held button.
func (app *Application) detach() {
	if held := app.translator.Held(); held != mouse.ButtonNone {
		app.logger.Debug("detaching with %s button held", held)
	}
	for _, id := range app.logic.Order() {
		app.items[id].OnDetached()
	}
	app.translator.Reset()

	if app.logger.Enabled(logging.LevelDebug) {
		st := app.doc.Stats()
		app.logger.Debug("document: %d dispatched, %d delivered, %d listeners left, %d presses outside the list",
			st.Dispatched, st.Delivered, st.Listeners, app.ignoredPress)
	}
}

// ApplyConfig takes the settings that may change while running. It is
// safe to call from the config watcher goroutine.
func (app *Application) ApplyConfig(cfg config.Config) {
	app.logic.SetDragDelay(cfg.Drag.Delay.Std())
	app.logger.SetLevel(cfg.LogLevel())
	app.logger.Info("config applied, drag delay %s", cfg.Drag.Delay.Std())

	app.mu.Lock()
	b := app.backend
	app.mu.Unlock()
	if b != nil && app.running.Load() {
		// Wake the loop so the header shows the new delay
		b.PostEvent(backend.Event{Type: backend.EventInterrupt, Data: "config"})
	}
}

// Order returns the labels in their current order.
func (app *Application) Order() []string {
	order := app.logic.Order()
	labels := make([]string, len(order))
	for i, id := range order {
		labels[i] = app.labels[id]
	}
	return labels
}

// Item returns the item at slot idx, or nil.
func (app *Application) Item(idx int) *drag.Item {
	order := app.logic.Order()
	if idx < 0 || idx >= len(order) {
		return nil
	}
	return app.items[order[idx]]
}

// Document returns the document the items listen on.
func (app *Application) Document() *event.Document {
	return app.doc
}

// Controller returns the list controller.
func (app *Application) Controller() *reorder.Logic {
	return app.logic
}

// Recorder returns the trace recorder, or nil when tracing is off.
func (app *Application) Recorder() *trace.Recorder {
	return app.recorder
}

// Status returns the status line text.
func (app *Application) Status() string {
	return app.status
}

func (app *Application) reordered(order []drag.ItemID) {
	labels := make([]string, len(order))
	for i, id := range order {
		labels[i] = app.labels[id]
	}
	app.status = "order: " + strings.Join(labels, ", ")
	app.logger.Info("reordered: %s", strings.Join(labels, ", "))
}
