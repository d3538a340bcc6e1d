package engine

import (
	"maps"
	"math"
	"slices"

	"github.com/vovakirdan/skyline-sprint/internal/config"
)

// ScoreState is the scoring side of a snapshot.
type ScoreState struct {
	Score         int     `json:"score"`
	Combo         float64 `json:"combo"`
	Multiplier    int     `json:"multiplier"`
	Shards        int     `json:"shards"`
	Lives         int     `json:"lives"`
	MaxMultiplier int     `json:"max_multiplier"`
	MaxCombo      float64 `json:"max_combo"`
	PerfectDodges int     `json:"perfect_dodges"`
}

// dodgeTrack follows one obstacle while it passes through the hit zone.
type dodgeTrack struct {
	near bool
	hit  bool
}

// Scorer runs collision tests and keeps score and power-up timers.
type Scorer struct {
	cfg      config.ScoringConfig
	powerCfg config.PowerUpConfig
	lives    int

	state    ScoreState
	carry    float64
	idle     float64
	powerUps PowerUps
	dodges   map[uint64]*dodgeTrack
	tick     uint64
	ended    bool
}

// NewScorer creates a scorer with the configured number of lives.
func NewScorer(cfg config.RunnerConfig) *Scorer {
	s := &Scorer{
		cfg:      cfg.Scoring,
		powerCfg: cfg.PowerUps,
		lives:    cfg.Lives,
	}
	s.Reset()
	return s
}

// Reset starts a fresh run.
func (s *Scorer) Reset() {
	s.state = ScoreState{Multiplier: 1, MaxMultiplier: 1, Lives: s.lives}
	s.carry = 0
	s.idle = 0
	s.powerUps = PowerUps{}
	s.dodges = make(map[uint64]*dodgeTrack)
	s.tick = 0
	s.ended = false
}

// SpeedFactor returns the scroll speed scale from slow-time.
func (s *Scorer) SpeedFactor() float64 {
	if s.powerUps.Active(PowerUpSlowTime) {
		return s.powerCfg.SlowTimeFactor
	}
	return 1
}

// Evaluate runs one tick of timers, score accretion, pickups and collisions.
// w is the view the tick ran with, so distance scoring follows slow-time.
func (s *Scorer) Evaluate(p *Player, sp *Spawner, w WorldView, dt float64) []Event {
	if s.ended {
		return nil
	}
	s.tick++

	var events []Event
	var expired []PowerUpKind
	s.powerUps, expired = s.powerUps.Tick(dt)
	for _, k := range expired {
		events = append(events, Event{Kind: EventPowerUpExpired, Tick: s.tick, PowerUp: &k})
	}

	rush := 1.0
	if s.powerUps.Active(PowerUpScoreRush) {
		rush = s.powerCfg.ScoreRushMultiplier
	}
	s.carry += w.Speed() * dt * s.cfg.DistanceRate * float64(s.state.Multiplier) * rush
	if whole := math.Floor(s.carry); whole >= 1 {
		s.state.Score += int(whole)
		s.carry -= whole
	}

	events = append(events, s.collectPickups(p, sp, w)...)
	events = append(events, s.collide(p, sp, w)...)

	s.idle += dt
	if s.idle > s.cfg.IdleGrace {
		s.state.Combo = math.Max(0, s.state.Combo-s.cfg.DecayPerSecond*dt)
	}
	next := s.multiplierFor(s.state.Combo)
	if next > s.state.Multiplier {
		events = append(events, Event{Kind: EventMultiplierUp, Tick: s.tick, Value: next})
	}
	s.state.Multiplier = next
	s.state.MaxMultiplier = max(s.state.MaxMultiplier, s.state.Multiplier)
	s.state.MaxCombo = math.Max(s.state.MaxCombo, s.state.Combo)
	return events
}

func (s *Scorer) collectPickups(p *Player, sp *Spawner, w WorldView) []Event {
	var events []Event
	pbox := p.Box()
	magnet := s.powerUps.Active(PowerUpMagnet)

	var taken []uint64
	for _, pk := range sp.Pickups() {
		if !w.IsVisible(pk.Position) {
			continue
		}
		inZone := math.Abs(pk.Position) < pk.Depth+p.Depth()
		touched := inZone && pbox.Intersects(pk.Box)
		if !touched && magnet && pk.Kind == PickupShard {
			dx := pk.Box.CenterX() - p.X()
			touched = math.Hypot(dx, pk.Position) <= s.powerCfg.MagnetRadius
		}
		if !touched {
			continue
		}
		taken = append(taken, pk.ID)

		if kind, ok := pk.Kind.PowerUp(); ok {
			s.powerUps = s.powerUps.Activate(kind, powerUpDuration(s.powerCfg, kind))
			events = append(events, Event{Kind: EventPowerUpCollected, Tick: s.tick, PowerUp: &kind})
			continue
		}
		s.state.Shards++
		s.award(s.cfg.ShardValue)
		events = append(events, Event{Kind: EventShardCollected, Tick: s.tick, Value: s.cfg.ShardValue})
	}
	for _, id := range taken {
		sp.Collect(id)
	}
	return events
}

func (s *Scorer) collide(p *Player, sp *Spawner, w WorldView) []Event {
	var events []Event
	pbox := p.Box()
	invulnerable := p.IsInvulnerable()
	handled := false
	inZone := make(map[uint64]bool, len(s.dodges))

	for _, o := range sp.Obstacles() {
		if !w.IsVisible(o.Position) || math.Abs(o.Position) >= o.Depth+p.Depth() {
			continue
		}
		inZone[o.ID] = true
		track := s.dodges[o.ID]
		if track == nil {
			track = &dodgeTrack{}
			s.dodges[o.ID] = track
		}

		if !pbox.Intersects(o.Box) {
			if pbox.OverlapsX(o.Box) && pbox.VerticalGap(o.Box) <= s.cfg.PerfectClearance {
				track.near = true
			}
			continue
		}
		track.hit = true
		if invulnerable || handled {
			continue
		}
		handled = true
		events = append(events, s.hit(p, o))
	}

	for _, id := range slices.Sorted(maps.Keys(s.dodges)) {
		if inZone[id] {
			continue
		}
		track := s.dodges[id]
		if track.near && !track.hit && !s.ended {
			s.state.PerfectDodges++
			s.award(s.cfg.PerfectDodgeValue)
			events = append(events, Event{Kind: EventPerfectDodge, Tick: s.tick, ObstacleID: id, Value: s.cfg.PerfectDodgeValue})
		}
		delete(s.dodges, id)
	}
	return events
}

// hit resolves the first unprotected overlap of a tick.
func (s *Scorer) hit(p *Player, o Obstacle) Event {
	if s.powerUps.Active(PowerUpShield) {
		s.powerUps = s.powerUps.Deactivate(PowerUpShield)
		p.HitInvulnerable()
		s.penalize()
		return Event{Kind: EventAbsorbedHit, Tick: s.tick, ObstacleID: o.ID}
	}

	s.state.Lives--
	if s.state.Lives > 0 {
		p.HitInvulnerable()
		s.penalize()
		return Event{Kind: EventLifeLost, Tick: s.tick, ObstacleID: o.ID, Value: s.state.Lives}
	}
	s.state.Lives = 0
	s.ended = true
	return Event{Kind: EventRunEnded, Tick: s.tick, ObstacleID: o.ID, Value: s.state.Score}
}

func (s *Scorer) award(points int) {
	s.state.Score += points
	s.state.Combo += float64(points)
	s.idle = 0
}

func (s *Scorer) penalize() {
	s.state.Combo = math.Max(0, s.state.Combo-s.cfg.HitPenalty)
}

// multiplierFor returns 1 plus the number of thresholds reached.
func (s *Scorer) multiplierFor(combo float64) int {
	m := 1
	for _, t := range s.cfg.Thresholds {
		if combo >= t {
			m++
		}
	}
	return m
}

// State returns the current score state.
func (s *Scorer) State() ScoreState { return s.state }

// PowerUps returns the current power-up table.
func (s *Scorer) PowerUps() PowerUps { return s.powerUps }

// Ended reports whether the run is over.
func (s *Scorer) Ended() bool { return s.ended }
