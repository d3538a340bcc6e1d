// Package replay records the input timeline of a run and plays it back
// headlessly. Because the engine is deterministic, a recording of the seed,
// every frame time and every action reproduces the run exactly.
package replay

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/skyline-sprint/internal/core"
	"github.com/vovakirdan/skyline-sprint/internal/engine"
)

// FormatVersion is written into every recording.
const FormatVersion = 1

// ErrVersion is returned when decoding a recording of an unknown version.
var ErrVersion = errors.New("replay: unsupported format version")

// Recording is a complete input timeline for one engine.
type Recording struct {
	Version int           `msgpack:"v"`
	Mode    engine.Mode   `msgpack:"m"`
	Seed    uint32        `msgpack:"s"`
	Preset  string        `msgpack:"p,omitempty"`
	Created time.Time     `msgpack:"c"`
	Frames  []FrameRecord `msgpack:"f"`
}

// FrameRecord is one host frame: the actions that arrived before it and the
// host time it was driven with.
type FrameRecord struct {
	Now     time.Duration      `msgpack:"n"`
	Actions []core.TimedAction `msgpack:"a,omitempty"`
}

// Duration is the host time of the last recorded frame.
func (r *Recording) Duration() time.Duration {
	if len(r.Frames) == 0 {
		return 0
	}
	return r.Frames[len(r.Frames)-1].Now
}

// ActionCount is the number of recorded actions.
func (r *Recording) ActionCount() int {
	n := 0
	for _, f := range r.Frames {
		n += len(f.Actions)
	}
	return n
}

// Capture builds a Recording while a host drives an engine. Call Input for
// every action passed to the engine and Frame for every engine frame.
type Capture struct {
	rec     Recording
	pending []core.TimedAction
}

// NewCapture starts a recording for a run with the given mode and seed.
func NewCapture(mode engine.Mode, seed uint32, preset string) *Capture {
	return &Capture{rec: Recording{
		Version: FormatVersion,
		Mode:    mode,
		Seed:    seed,
		Preset:  preset,
		Created: time.Now().UTC(),
	}}
}

// Input records an action delivered at host time at.
func (c *Capture) Input(a core.Action, at time.Duration) {
	c.pending = append(c.pending, core.TimedAction{Action: a, At: at})
}

// Frame closes the current frame at host time now.
func (c *Capture) Frame(now time.Duration) {
	c.rec.Frames = append(c.rec.Frames, FrameRecord{Now: now, Actions: c.pending})
	c.pending = nil
}

// Recording returns the timeline captured so far.
func (c *Capture) Recording() *Recording {
	out := c.rec
	out.Frames = make([]FrameRecord, len(c.rec.Frames))
	copy(out.Frames, c.rec.Frames)
	return &out
}

// Encode writes rec to w as msgpack.
func Encode(w io.Writer, rec *Recording) error {
	if err := msgpack.NewEncoder(w).Encode(rec); err != nil {
		return fmt.Errorf("replay: encode: %w", err)
	}
	return nil
}

// Decode reads a recording from r.
func Decode(r io.Reader) (*Recording, error) {
	var rec Recording
	if err := msgpack.NewDecoder(r).Decode(&rec); err != nil {
		return nil, fmt.Errorf("replay: decode: %w", err)
	}
	if rec.Version != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrVersion, rec.Version)
	}
	return &rec, nil
}

// Save writes rec to path.
func Save(path string, rec *Recording) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("replay: cannot create %s: %w", path, err)
	}
	if err := Encode(f, rec); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Load reads a recording from path.
func Load(path string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("replay: cannot open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}
