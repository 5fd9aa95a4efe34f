// Package trace records the calls items make to their controller as JSON
// lines, and reads such recordings back.
//
// A recording line looks like:
//
//	{"seq":3,"time":"2024-01-01T00:00:00.2Z","call":"move","item":"a","offset":{"x":40,"y":30}}
package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/reorderlist/internal/drag"
)

// Call names used in recordings.
const (
	CallBox   = "box"
	CallBegin = "begin"
	CallMove  = "move"
	CallEnd   = "end"
	CallClick = "click"
)

// ErrInvalidRecord is returned for lines that are not a trace record.
var ErrInvalidRecord = errors.New("invalid trace record")

// Record is one controller call.
type Record struct {
	Seq    int
	Time   time.Time
	Call   string
	Item   drag.ItemID
	Offset drag.Offset
	Box    drag.Box
	// Delay is the drag delay in effect when the call was made.
	Delay time.Duration
}

// Recorder is a drag.Controller that writes every call to w and forwards
// it to the wrapped controller.
type Recorder struct {
	next drag.Controller

	mu    sync.Mutex
	w     io.Writer
	seq   int
	err   error
	clock func() time.Time
	boxes bool
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithBoxes includes box reports in the recording. They are left out by
// default because every layout pass reports every item.
func WithBoxes() Option {
	return func(r *Recorder) { r.boxes = true }
}

// WithClock sets the time source for record timestamps.
func WithClock(clock func() time.Time) Option {
	return func(r *Recorder) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// NewRecorder wraps next, writing recordings to w.
func NewRecorder(next drag.Controller, w io.Writer, opts ...Option) *Recorder {
	r := &Recorder{next: next, w: w, clock: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Err returns the first write or encoding error, if any. Recording stops
// after an error; forwarding does not.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// GetDragDelay forwards to the wrapped controller. Reads are not recorded.
func (r *Recorder) GetDragDelay() time.Duration {
	return r.next.GetDragDelay()
}

// SetItemBoxRect records and forwards a box report.
func (r *Recorder) SetItemBoxRect(id drag.ItemID, box drag.Box) {
	if r.boxes {
		r.record(CallBox, id, func(line string) (string, error) {
			return setAll(line, map[string]any{
				"box.top":    box.Top,
				"box.left":   box.Left,
				"box.width":  box.Width,
				"box.height": box.Height,
			})
		})
	}
	r.next.SetItemBoxRect(id, box)
}

// HandleDragBegin records and forwards a drag begin.
func (r *Recorder) HandleDragBegin(id drag.ItemID) {
	r.record(CallBegin, id, nil)
	r.next.HandleDragBegin(id)
}

// HandleDragMove records and forwards a drag move.
func (r *Recorder) HandleDragMove(id drag.ItemID, offset drag.Offset) {
	r.record(CallMove, id, func(line string) (string, error) {
		return setAll(line, map[string]any{"offset.x": offset.X, "offset.y": offset.Y})
	})
	r.next.HandleDragMove(id, offset)
}

// HandleDragEnd records and forwards a drag end.
func (r *Recorder) HandleDragEnd() {
	r.record(CallEnd, "", nil)
	r.next.HandleDragEnd()
}

// HandleClick records a click and forwards it when the wrapped controller
// handles clicks.
func (r *Recorder) HandleClick(id drag.ItemID) {
	r.record(CallClick, id, nil)
	if ch, ok := r.next.(drag.ClickHandler); ok {
		ch.HandleClick(id)
	}
}

// record encodes one line and writes it.
func (r *Recorder) record(call string, id drag.ItemID, extra func(string) (string, error)) {
	delay := r.next.GetDragDelay()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return
	}
	r.seq++

	line, err := sjson.Set("", "seq", r.seq)
	if err == nil {
		line, err = sjson.Set(line, "time", r.clock().UTC().Format(time.RFC3339Nano))
	}
	if err == nil {
		line, err = sjson.Set(line, "call", call)
	}
	if err == nil && id != "" {
		line, err = sjson.Set(line, "item", string(id))
	}
	if err == nil {
		line, err = sjson.Set(line, "delay_ms", delay.Milliseconds())
	}
	if err == nil && extra != nil {
		line, err = extra(line)
	}
	if err != nil {
		r.err = fmt.Errorf("encoding %s record: %w", call, err)
		return
	}

	if _, err := io.WriteString(r.w, line+"\n"); err != nil {
		r.err = fmt.Errorf("writing %s record: %w", call, err)
	}
}

// setAll applies several sjson paths in a stable order.
func setAll(line string, values map[string]any) (string, error) {
	for _, path := range []string{
		"offset.x", "offset.y",
		"box.top", "box.left", "box.width", "box.height",
	} {
		v, ok := values[path]
		if !ok {
			continue
		}
		var err error
		if line, err = sjson.Set(line, path, v); err != nil {
			return "", err
		}
	}
	return line, nil
}

// Decode parses one recording line.
func Decode(line []byte) (Record, error) {
	if !gjson.ValidBytes(line) {
		return Record{}, fmt.Errorf("%w: not JSON", ErrInvalidRecord)
	}

	res := gjson.ParseBytes(line)
	call := res.Get("call")
	if !call.Exists() || call.String() == "" {
		return Record{}, fmt.Errorf("%w: missing call", ErrInvalidRecord)
	}

	rec := Record{
		Seq:  int(res.Get("seq").Int()),
		Call: call.String(),
		Item: drag.ItemID(res.Get("item").String()),
		Offset: drag.Offset{
			X: int(res.Get("offset.x").Int()),
			Y: int(res.Get("offset.y").Int()),
		},
		Box: drag.Box{
			Top:    int(res.Get("box.top").Int()),
			Left:   int(res.Get("box.left").Int()),
			Width:  int(res.Get("box.width").Int()),
			Height: int(res.Get("box.height").Int()),
		},
		Delay: time.Duration(res.Get("delay_ms").Int()) * time.Millisecond,
	}

	if ts := res.Get("time"); ts.Exists() {
		t, err := time.Parse(time.RFC3339Nano, ts.String())
		if err != nil {
			return Record{}, fmt.Errorf("%w: bad time %q", ErrInvalidRecord, ts.String())
		}
		rec.Time = t
	}

	return rec, nil
}

// ReadAll decodes every non-empty line of r.
func ReadAll(r io.Reader) ([]Record, error) {
	var records []Record

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		b := sc.Bytes()
		if len(b) == 0 {
			continue
		}
		rec, err := Decode(b)
		if err != nil {
			return records, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return records, fmt.Errorf("reading trace: %w", err)
	}
	return records, nil
}
