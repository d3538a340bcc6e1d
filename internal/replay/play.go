package replay

import (
	"encoding/binary"
	"fmt"
	"hash"
	"hash/fnv"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/skyline-sprint/internal/config"
	"github.com/vovakirdan/skyline-sprint/internal/core"
	"github.com/vovakirdan/skyline-sprint/internal/engine"
)

// Options tune headless playback.
type Options struct {
	Logger   *log.Logger
	Recorder engine.Recorder
	// StopAtGameOver ends playback at the first finished run.
	StopAtGameOver bool
}

// Result is what a playback produced.
type Result struct {
	Summary engine.Summary
	Frames  int
	Steps   int
	Dropped int
	// Sequence lists every obstacle spawned, in spawn order.
	Sequence []SpawnRecord
	// Hash fingerprints Sequence; equal hashes mean equal obstacle streams.
	Hash uint64
}

// SpawnRecord is one spawned obstacle.
type SpawnRecord struct {
	ID   uint64
	Type engine.ObstacleType
	Lane int
	At   float64
}

// Play drives a fresh engine through rec and reports the outcome.
func Play(cfg config.RunnerConfig, rec *Recording, opts Options) (Result, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	eng, err := engine.New(cfg, engine.Options{
		Daily:    rec.Mode == engine.ModeDaily,
		Seed:     engine.SeedPtr(rec.Seed),
		Logger:   opts.Logger,
		Recorder: opts.Recorder,
	})
	if err != nil {
		return Result{}, fmt.Errorf("replay: %w", err)
	}
	eng.Start()

	var (
		res    Result
		seen   uint64
		last   uint64
		hasher = newSequenceHash()
	)
	for _, f := range rec.Frames {
		for _, ta := range f.Actions {
			eng.Input(ta.Action, ta.At)
		}
		frame, err := eng.Frame(f.Now)
		if err != nil {
			return res, fmt.Errorf("replay: %w", err)
		}
		res.Frames++
		res.Steps += frame.Steps
		if frame.Dropped {
			res.Dropped++
		}

		snap := frame.Snapshot
		if snap.Tick < last {
			// a restart resets obstacle IDs
			seen = 0
		}
		last = snap.Tick
		for _, o := range snap.Obstacles {
			if o.ID <= seen {
				continue
			}
			seen = o.ID
			s := SpawnRecord{ID: o.ID, Type: o.Type, Lane: o.Lane, At: o.SpawnedAt}
			res.Sequence = append(res.Sequence, s)
			hasher.add(s)
		}

		if opts.StopAtGameOver && snap.Scene == engine.SceneGameOver {
			break
		}
	}
	res.Summary = eng.Summary()
	res.Hash = hasher.sum()
	opts.Logger.Debug("replay finished", "frames", res.Frames, "steps", res.Steps, "score", res.Summary.Score)
	return res, nil
}

type sequenceHash struct {
	buf [8]byte
	h   hash.Hash64
}

func newSequenceHash() *sequenceHash {
	return &sequenceHash{h: fnv.New64a()}
}

func (s *sequenceHash) add(r SpawnRecord) {
	binary.LittleEndian.PutUint64(s.buf[:], uint64(r.Type))
	_, _ = s.h.Write(s.buf[:])
	binary.LittleEndian.PutUint64(s.buf[:], uint64(r.Lane))
	_, _ = s.h.Write(s.buf[:])
}

func (s *sequenceHash) sum() uint64 { return s.h.Sum64() }

// Script generates a recording without a human: frames arrive at a steady
// rate and actions are drawn from a seeded sequence, so the same arguments
// always produce the same recording.
type Script struct {
	Mode     engine.Mode
	Seed     uint32
	FPS      int
	Duration time.Duration
	// ActionEvery is the mean number of frames between actions; 0 means
	// no input at all.
	ActionEvery int
}

// Build renders the script into a recording.
func (s Script) Build() *Recording {
	fps := s.FPS
	if fps <= 0 {
		fps = 60
	}
	frameDur := time.Second / time.Duration(fps)
	rng := engine.NewRandomSequence(s.Seed ^ 0x5bd1e995)
	actions := [...]core.Action{core.ActionLaneLeft, core.ActionLaneRight, core.ActionJump, core.ActionSlide}

	rec := &Recording{Version: FormatVersion, Mode: s.Mode, Seed: s.Seed}
	for now := frameDur; now <= s.Duration; now += frameDur {
		f := FrameRecord{Now: now}
		if s.ActionEvery > 0 && rng.Intn(s.ActionEvery) == 0 {
			f.Actions = []core.TimedAction{{Action: actions[rng.Intn(len(actions))], At: now - frameDur/2}}
		}
		rec.Frames = append(rec.Frames, f)
	}
	return rec
}
