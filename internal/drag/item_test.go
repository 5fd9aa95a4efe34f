package drag

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/dshills/reorderlist/internal/event"
	"github.com/dshills/reorderlist/internal/input/mouse"
)

// recorder is a Controller that records every call.
type recorder struct {
	delay  time.Duration
	calls  []string
	boxes  map[ItemID]Box
	delays int
}

func newRecorder(delay time.Duration) *recorder {
	return &recorder{delay: delay, boxes: make(map[ItemID]Box)}
}

func (r *recorder) GetDragDelay() time.Duration {
	r.delays++
	return r.delay
}

func (r *recorder) SetItemBoxRect(id ItemID, box Box) {
	r.boxes[id] = box
	r.calls = append(r.calls, fmt.Sprintf("box %s %+v", id, box))
}

func (r *recorder) HandleDragBegin(id ItemID) {
	r.calls = append(r.calls, "begin "+string(id))
}

func (r *recorder) HandleDragMove(id ItemID, offset Offset) {
	r.calls = append(r.calls, fmt.Sprintf("move %s %d,%d", id, offset.X, offset.Y))
}

func (r *recorder) HandleDragEnd() {
	r.calls = append(r.calls, "end")
}

// dragCalls returns the recorded calls excluding box reports.
func (r *recorder) dragCalls() []string {
	var out []string
	for _, c := range r.calls {
		if len(c) >= 3 && c[:3] == "box" {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (r *recorder) count(prefix string) int {
	n := 0
	for _, c := range r.dragCalls() {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

// clickRecorder also implements ClickHandler.
type clickRecorder struct {
	*recorder
	clicks []ItemID
}

func (c *clickRecorder) HandleClick(id ItemID) {
	c.clicks = append(c.clicks, id)
}

type fixture struct {
	doc   *event.Document
	ctrl  *recorder
	item  *Item
	start time.Time
}

func newFixture(t *testing.T, delay time.Duration, box Box) *fixture {
	t.Helper()
	f := &fixture{
		doc:   event.NewDocument(),
		ctrl:  newRecorder(delay),
		start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	f.item = NewItem("a", f.ctrl, f.doc)
	f.item.OnAttached(ElementFunc(func() Box { return box }))
	return f
}

func (f *fixture) at(ms int, x, y int) mouse.Event {
	return mouse.Event{
		Position:  mouse.Position{X: x, Y: y},
		Button:    mouse.ButtonLeft,
		Timestamp: f.start.Add(time.Duration(ms) * time.Millisecond),
	}
}

func (f *fixture) press(ms, x, y int) mouse.Event {
	ev := f.at(ms, x, y)
	ev.Action = mouse.ActionPress
	f.item.HandlePress(&ev)
	return ev
}

func (f *fixture) move(ms, x, y int) {
	ev := f.at(ms, x, y)
	ev.Action = mouse.ActionDrag
	f.doc.Dispatch(event.KindMove, ev)
}

func (f *fixture) release(ms, x, y int) {
	ev := f.at(ms, x, y)
	ev.Action = mouse.ActionRelease
	f.doc.Dispatch(event.KindRelease, ev)
}

func TestItemEndToEndDrag(t *testing.T) {
	f := newFixture(t, 150*time.Millisecond, Box{})

	f.press(0, 100, 100)
	f.move(50, 100, 100)
	if calls := f.ctrl.dragCalls(); len(calls) != 0 {
		t.Fatalf("calls before delay = %v, want none", calls)
	}

	f.move(200, 140, 130)
	f.move(260, 150, 150)
	f.release(300, 150, 150)

	want := []string{"begin a", "move a 40,30", "move a 50,50", "end"}
	if got := f.ctrl.dragCalls(); !reflect.DeepEqual(got, want) {
		t.Errorf("calls = %v, want %v", got, want)
	}
	if f.ctrl.count("begin") != 1 || f.ctrl.count("end") != 1 {
		t.Errorf("begin=%d end=%d, want 1 and 1", f.ctrl.count("begin"), f.ctrl.count("end"))
	}
	if f.item.Phase() != PhaseIdle {
		t.Errorf("Phase() = %s after release, want idle", f.item.Phase())
	}
}

func TestItemClickIsNotADrag(t *testing.T) {
	f := newFixture(t, 150*time.Millisecond, Box{Top: 10, Left: 10, Width: 20, Height: 1})

	f.press(0, 20, 20)
	f.release(30, 20, 20)

	if calls := f.ctrl.dragCalls(); len(calls) != 0 {
		t.Errorf("calls = %v, want none", calls)
	}
	if f.ctrl.delays != 0 {
		t.Errorf("GetDragDelay called %d times without moves, want 0", f.ctrl.delays)
	}
	if f.doc.Len() != 0 {
		t.Errorf("listeners after click = %d, want 0", f.doc.Len())
	}
}

func TestItemClickWithJitterBeforeDelay(t *testing.T) {
	f := newFixture(t, 150*time.Millisecond, Box{})

	f.press(0, 20, 20)
	f.move(10, 21, 20)
	f.move(90, 22, 21)
	f.release(120, 22, 21)

	if calls := f.ctrl.dragCalls(); len(calls) != 0 {
		t.Errorf("calls = %v, want none", calls)
	}
	if f.ctrl.delays != 2 {
		t.Errorf("GetDragDelay calls = %d, want 2 (one per move)", f.ctrl.delays)
	}
}

func TestItemSingleBeginPerSession(t *testing.T) {
	for _, n := range []int{1, 2, 10} {
		t.Run(fmt.Sprintf("moves=%d", n), func(t *testing.T) {
			f := newFixture(t, 100*time.Millisecond, Box{})
			f.press(0, 0, 0)
			for i := 0; i < n; i++ {
				f.move(100+i, i, i)
			}

			calls := f.ctrl.dragCalls()
			if f.ctrl.count("begin") != 1 {
				t.Errorf("begin count = %d, want 1", f.ctrl.count("begin"))
			}
			if calls[0] != "begin a" {
				t.Errorf("first call = %q, want begin", calls[0])
			}
			if f.ctrl.count("move") != n {
				t.Errorf("move count = %d, want %d", f.ctrl.count("move"), n)
			}
		})
	}
}

func TestItemSecondSessionBeginsAgain(t *testing.T) {
	f := newFixture(t, 0, Box{})

	f.press(0, 0, 0)
	f.move(1, 1, 1)
	f.release(2, 1, 1)
	f.press(10, 5, 5)
	f.move(11, 6, 6)
	f.release(12, 6, 6)

	if f.ctrl.count("begin") != 2 || f.ctrl.count("end") != 2 {
		t.Errorf("begin=%d end=%d, want 2 and 2", f.ctrl.count("begin"), f.ctrl.count("end"))
	}
}

func TestItemListenerLifecycle(t *testing.T) {
	f := newFixture(t, 0, Box{})

	before := f.doc.Len()
	f.press(0, 0, 0)
	if f.doc.ListenerCount(event.KindMove) != 1 || f.doc.ListenerCount(event.KindRelease) != 1 {
		t.Fatalf("listeners while pressed = %d/%d, want 1/1",
			f.doc.ListenerCount(event.KindMove), f.doc.ListenerCount(event.KindRelease))
	}
	if !f.item.Listening() {
		t.Error("Listening() = false while pressed")
	}

	f.move(5, 3, 3)
	f.release(6, 3, 3)

	if after := f.doc.Len(); after != before {
		t.Errorf("listeners after cycle = %d, want %d", after, before)
	}
	if f.item.Listening() {
		t.Error("Listening() = true after release")
	}
}

func TestItemRepeatedPressKeepsOnePair(t *testing.T) {
	f := newFixture(t, 0, Box{})

	f.press(0, 0, 0)
	f.press(10, 0, 0)
	f.press(20, 0, 0)

	if f.doc.ListenerCount(event.KindMove) != 1 || f.doc.ListenerCount(event.KindRelease) != 1 {
		t.Errorf("listeners = %d/%d, want 1/1",
			f.doc.ListenerCount(event.KindMove), f.doc.ListenerCount(event.KindRelease))
	}
}

func TestItemPressWhileDraggingEndsStaleDrag(t *testing.T) {
	f := newFixture(t, 0, Box{})

	f.press(0, 0, 0)
	f.move(1, 2, 2)
	f.press(10, 4, 4)

	if f.ctrl.count("end") != 1 {
		t.Errorf("end count = %d, want 1", f.ctrl.count("end"))
	}
	if f.item.Phase() != PhasePressed {
		t.Errorf("Phase() = %s, want pressed", f.item.Phase())
	}
}

func TestItemDetachMidSession(t *testing.T) {
	tests := []struct {
		name    string
		drag    bool
		wantEnd int
	}{
		{"pressed", false, 0},
		{"dragging", true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 0, Box{})
			f.press(0, 0, 0)
			if tt.drag {
				f.move(1, 1, 1)
			}

			f.item.OnDetached()

			if f.doc.Len() != 0 {
				t.Errorf("listeners after detach = %d, want 0", f.doc.Len())
			}
			if f.ctrl.count("end") != tt.wantEnd {
				t.Errorf("end count = %d, want %d", f.ctrl.count("end"), tt.wantEnd)
			}
			if f.item.Phase() != PhaseIdle {
				t.Errorf("Phase() = %s after detach, want idle", f.item.Phase())
			}

			// Later document events reach nobody.
			f.move(50, 9, 9)
			f.release(60, 9, 9)
			if f.ctrl.count("move") > 1 {
				t.Errorf("moves delivered after detach: %v", f.ctrl.dragCalls())
			}
		})
	}
}

func TestItemDetachWhileIdle(t *testing.T) {
	f := newFixture(t, 0, Box{})
	f.item.OnDetached()

	if f.doc.Len() != 0 || len(f.ctrl.dragCalls()) != 0 {
		t.Errorf("idle detach produced listeners=%d calls=%v", f.doc.Len(), f.ctrl.dragCalls())
	}
}

func TestItemOffsetDeterminism(t *testing.T) {
	tests := []struct {
		box    Box
		scroll event.Metrics
		press  mouse.Position
		move   mouse.Position
	}{
		{Box{}, event.Metrics{}, mouse.Position{X: 100, Y: 100}, mouse.Position{X: 140, Y: 130}},
		{Box{Top: 5, Left: 2, Width: 10, Height: 1}, event.Metrics{}, mouse.Position{X: 4, Y: 5}, mouse.Position{X: 4, Y: 9}},
		{Box{Top: 3, Left: 0, Width: 10, Height: 1}, event.Metrics{ScrollTop: 20}, mouse.Position{X: 1, Y: 23}, mouse.Position{X: 1, Y: 30}},
		{Box{Top: 3, Left: 1, Width: 10, Height: 1}, event.Metrics{ScrollTop: 20, ScrollLeft: 4, ClientTop: 1, ClientLeft: 1}, mouse.Position{X: 8, Y: 25}, mouse.Position{X: 2, Y: 21}},
	}

	for i, tt := range tests {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			f := newFixture(t, 0, tt.box)
			f.doc.SetScroll(tt.scroll)

			pressEv := f.press(0, tt.press.X, tt.press.Y)
			initial := Offset{
				X: tt.press.X - (tt.box.Left + tt.scroll.ScrollLeft - tt.scroll.ClientLeft),
				Y: tt.press.Y - (tt.box.Top + tt.scroll.ScrollTop - tt.scroll.ClientTop),
			}
			if got := f.item.OffsetOf(pressEv); got != initial {
				t.Errorf("OffsetOf(press) = %+v, want %+v", got, initial)
			}

			f.move(10, tt.move.X, tt.move.Y)
			want := fmt.Sprintf("move a %d,%d", tt.move.X-initial.X, tt.move.Y-initial.Y)
			calls := f.ctrl.dragCalls()
			if len(calls) != 2 || calls[1] != want {
				t.Errorf("calls = %v, want [begin a %s]", calls, want)
			}
		})
	}
}

func TestItemOffsetIgnoresBoxMovementDuringDrag(t *testing.T) {
	box := Box{Top: 0, Left: 0, Width: 10, Height: 1}
	doc := event.NewDocument()
	ctrl := newRecorder(0)
	item := NewItem("a", ctrl, doc)
	item.OnAttached(ElementFunc(func() Box { return box }))

	ev := mouse.Event{Position: mouse.Position{X: 2, Y: 0}, Timestamp: time.Now()}
	item.HandlePress(&ev)

	// Reordering moves the item down three rows mid-drag.
	box.Top = 3
	item.OnGeometryMayHaveChanged()

	doc.Dispatch(event.KindMove, mouse.Event{Position: mouse.Position{X: 2, Y: 4}, Timestamp: time.Now()})

	calls := ctrl.dragCalls()
	if len(calls) != 2 || calls[1] != "move a 0,4" {
		t.Errorf("calls = %v, want [begin a, move a 0,4]", calls)
	}
}

func TestItemPressPreventsDefault(t *testing.T) {
	f := newFixture(t, 0, Box{})
	if ev := f.press(0, 1, 1); !ev.DefaultPrevented() {
		t.Error("HandlePress did not prevent default")
	}
}

func TestItemBoxDegeneracy(t *testing.T) {
	doc := event.NewDocument()
	ctrl := newRecorder(0)
	item := NewItem(IDFromInt(7), ctrl, doc)

	if got := item.Box(); got != (Box{}) {
		t.Errorf("unattached Box() = %+v, want zero", got)
	}

	item.OnGeometryMayHaveChanged()
	if got, ok := ctrl.boxes["7"]; !ok || got != (Box{}) {
		t.Errorf("reported box = %+v (ok=%v), want zero box", got, ok)
	}
}

func TestItemReportsBoxOnAttachAndUpdate(t *testing.T) {
	box := Box{Top: 1, Left: 2, Width: 3, Height: 4}
	doc := event.NewDocument()
	ctrl := newRecorder(0)
	item := NewItem("b", ctrl, doc)

	item.OnAttached(ElementFunc(func() Box { return box }))
	if ctrl.boxes["b"] != box {
		t.Errorf("box after attach = %+v, want %+v", ctrl.boxes["b"], box)
	}

	box = Box{Top: 9, Left: 2, Width: 3, Height: 4}
	item.OnGeometryMayHaveChanged()
	if ctrl.boxes["b"] != box {
		t.Errorf("box after update = %+v, want %+v", ctrl.boxes["b"], box)
	}

	item.OnDetached()
	item.OnGeometryMayHaveChanged()
	if ctrl.boxes["b"] != (Box{}) {
		t.Errorf("box after detach = %+v, want zero", ctrl.boxes["b"])
	}
}

func TestItemClickHandler(t *testing.T) {
	doc := event.NewDocument()
	ctrl := &clickRecorder{recorder: newRecorder(time.Second)}
	item := NewItem("c", ctrl, doc)

	now := time.Now()
	press := mouse.Event{Timestamp: now}
	item.HandlePress(&press)
	doc.Dispatch(event.KindRelease, mouse.Event{Timestamp: now.Add(10 * time.Millisecond)})

	if len(ctrl.clicks) != 1 || ctrl.clicks[0] != "c" {
		t.Errorf("clicks = %v, want [c]", ctrl.clicks)
	}
	if len(ctrl.dragCalls()) != 0 {
		t.Errorf("drag calls = %v, want none", ctrl.dragCalls())
	}
}

func TestItemClockFallback(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	doc := event.NewDocument()
	ctrl := newRecorder(100 * time.Millisecond)
	item := NewItem("d", ctrl, doc, WithClock(func() time.Time { return now }))

	press := mouse.Event{}
	item.HandlePress(&press)

	now = now.Add(50 * time.Millisecond)
	doc.Dispatch(event.KindMove, mouse.Event{Position: mouse.Position{X: 1}})
	if len(ctrl.dragCalls()) != 0 {
		t.Fatalf("calls at +50ms = %v, want none", ctrl.dragCalls())
	}

	now = now.Add(50 * time.Millisecond)
	doc.Dispatch(event.KindMove, mouse.Event{Position: mouse.Position{X: 2}})
	if ctrl.count("begin") != 1 {
		t.Errorf("begin count at +100ms = %d, want 1", ctrl.count("begin"))
	}
}

func TestItemIndependentSessions(t *testing.T) {
	doc := event.NewDocument()
	ctrl := newRecorder(0)
	a := NewItem("a", ctrl, doc)
	b := NewItem("b", ctrl, doc)

	now := time.Now()
	pa := mouse.Event{Timestamp: now}
	pb := mouse.Event{Timestamp: now}
	a.HandlePress(&pa)
	b.HandlePress(&pb)

	if doc.Len() != 4 {
		t.Errorf("listeners = %d, want 4", doc.Len())
	}

	a.OnDetached()
	if doc.Len() != 2 {
		t.Errorf("listeners after detaching a = %d, want 2", doc.Len())
	}
	if b.Phase() != PhasePressed {
		t.Errorf("b.Phase() = %s, want pressed", b.Phase())
	}
}

func TestItemChildrenAndFlags(t *testing.T) {
	children := []string{"x", "y"}
	item := NewItem("e", newRecorder(0), event.NewDocument(), WithChildren(children))

	if got := item.Children(); !reflect.DeepEqual(got, children) {
		t.Errorf("Children() = %v, want %v", got, children)
	}

	item.SetFlags(Flags{Dragged: true, Hovered: true, Activity: true})
	want := []string{"dl-item", "activity", "dragged", "hovered"}
	if got := item.Flags().Classes(); !reflect.DeepEqual(got, want) {
		t.Errorf("Classes() = %v, want %v", got, want)
	}
	if got := (Flags{}).Classes(); !reflect.DeepEqual(got, []string{"dl-item"}) {
		t.Errorf("zero Classes() = %v, want [dl-item]", got)
	}
}

func TestBoxHelpers(t *testing.T) {
	b := Box{Top: 2, Left: 3, Width: 4, Height: 1}
	if b.Bottom() != 3 || b.Right() != 7 {
		t.Errorf("Bottom/Right = %d/%d, want 3/7", b.Bottom(), b.Right())
	}
	if !b.Contains(3, 2) || !b.Contains(6, 2) || b.Contains(7, 2) || b.Contains(3, 3) {
		t.Error("Contains gave wrong result on box edges")
	}
	if b.Empty() || !(Box{}).Empty() {
		t.Error("Empty gave wrong result")
	}
}
