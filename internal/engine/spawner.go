package engine

import (
	"github.com/vovakirdan/skyline-sprint/internal/config"
)

// pickupSeedSalt derives the pickup sequence from the run seed so pickups
// never consume entropy from the obstacle sequence.
const pickupSeedSalt = 0x9E3779B9

// safeLanePreference is the order in which a lane is kept free during safe start.
var safeLanePreference = [LaneCount]int{1, 0, 2}

// HistoryEntry records one placed obstacle for the fairness windows.
// At is simulation time in seconds.
type HistoryEntry struct {
	Type ObstacleType
	Lane int
	At   float64
}

// Spawner generates obstacles and pickups from distance travelled.
type Spawner struct {
	cfg     config.SpawnerConfig
	pickCfg config.PickupConfig
	shapes  []config.Shape
	cull    float64

	rng     *RandomSequence
	pickRng *RandomSequence

	obstacles []Obstacle
	pickups   []Pickup
	history   []HistoryEntry

	distance    float64
	lastSpawn   float64
	lastPickup  float64
	lastPowerUp float64
	nextID      uint64
	spawned     int
	fallbacks   int
}

// NewSpawner creates a spawner owning both random sequences for seed.
func NewSpawner(cfg config.RunnerConfig, seed uint32) *Spawner {
	s := &Spawner{
		cfg:     cfg.Spawner,
		pickCfg: cfg.Pickups,
		shapes:  cfg.Shapes.Slice(),
		cull:    cfg.World.VisibleNear - cfg.Spawner.CullMargin,
	}
	s.Reset(seed)
	return s
}

// Reset clears all state and reseeds both sequences.
func (s *Spawner) Reset(seed uint32) {
	s.rng = NewRandomSequence(seed)
	s.pickRng = NewRandomSequence(seed ^ pickupSeedSalt)
	s.obstacles = s.obstacles[:0]
	s.pickups = s.pickups[:0]
	s.history = s.history[:0]
	s.distance = 0
	// first spawn happens on the first tick
	s.lastSpawn = -s.cfg.Interval
	s.lastPickup = 0
	s.lastPowerUp = 0
	s.nextID = 0
	s.spawned = 0
	s.fallbacks = 0
}

// Update scrolls live entities, culls the ones behind the player and spawns
// new ones. It returns the obstacle spawned this tick, if any.
func (s *Spawner) Update(w WorldView, dt float64) (Obstacle, bool) {
	travel := w.Speed() * dt
	s.distance += travel

	live := s.obstacles[:0]
	for _, o := range s.obstacles {
		o.Position -= travel
		if o.Position >= s.cull {
			live = append(live, o)
		}
	}
	s.obstacles = live

	livePickups := s.pickups[:0]
	for _, p := range s.pickups {
		p.Position -= travel
		if p.Position >= s.cull {
			livePickups = append(livePickups, p)
		}
	}
	s.pickups = livePickups

	if s.distance-s.lastPickup >= s.pickCfg.Interval {
		s.lastPickup = s.distance
		s.spawnPickup(w)
	}

	if s.distance-s.lastSpawn < s.cfg.Interval {
		return Obstacle{}, false
	}
	s.lastSpawn = s.distance

	now := w.Elapsed()
	typ, lane := s.place(now, w.Speed())
	o := s.newObstacle(typ, lane, now, w)
	s.obstacles = append(s.obstacles, o)
	s.remember(HistoryEntry{Type: typ, Lane: lane, At: now})
	s.spawned++
	return o, true
}

// place picks the type and lane for a spawn at simulation time now.
func (s *Spawner) place(now, speed float64) (ObstacleType, int) {
	if now < s.cfg.SafeStart {
		typ := s.drawType(s.cfg.Phases[0].Weights, true)
		return typ, s.safeLane(now)
	}

	typ := s.drawType(s.cfg.PhaseAt(now), false)
	lane := 0
	for attempt := 0; attempt < s.cfg.MaxAttempts; attempt++ {
		lane = s.rng.Intn(LaneCount)
		if s.violatesSpacing(typ, now, speed) || s.violatesBreather(typ, now) {
			// the lane cannot fix a type-level conflict
			typ = s.drawType(s.cfg.PhaseAt(now), true)
			continue
		}
		if s.violatesCompound(typ, lane, now) {
			continue
		}
		return typ, lane
	}
	s.fallbacks++
	return typ, lane
}

// drawType makes a weighted draw in obstacle type order. With reliefOnly,
// non-relief weights are zeroed; an empty table yields SlowRoller.
func (s *Spawner) drawType(w config.Weights, reliefOnly bool) ObstacleType {
	weights := w.Slice()
	total := 0
	for i, v := range weights {
		if reliefOnly && !ObstacleType(i).IsRelief() {
			weights[i] = 0
			continue
		}
		total += v
	}
	if total <= 0 {
		return SlowRoller
	}
	r := s.rng.Intn(total)
	for i, v := range weights {
		if r < v {
			return ObstacleType(i)
		}
		r -= v
	}
	return SlowRoller
}

// safeLane keeps one lane, preferably the center, clear of recent spawns and
// draws uniformly among the other two.
func (s *Spawner) safeLane(now float64) int {
	var occupied [LaneCount]bool
	for _, e := range s.history {
		if now-e.At <= s.cfg.SafeLaneWindow {
			occupied[e.Lane] = true
		}
	}
	reserved := safeLanePreference[0]
	for _, l := range safeLanePreference {
		if !occupied[l] {
			reserved = l
			break
		}
	}
	candidates := make([]int, 0, LaneCount-1)
	for l := 0; l < LaneCount; l++ {
		if l != reserved {
			candidates = append(candidates, l)
		}
	}
	return candidates[s.rng.Intn(len(candidates))]
}

// violatesSpacing checks the minimum interval between mandatory hazards,
// which is shorter at high speed.
func (s *Spawner) violatesSpacing(typ ObstacleType, now, speed float64) bool {
	if !typ.IsMandatory() {
		return false
	}
	spacing := s.cfg.MandatorySpacing
	if speed >= s.cfg.FastSpeed {
		spacing = s.cfg.MandatorySpacingFast
	}
	for i := len(s.history) - 1; i >= 0; i-- {
		if e := s.history[i]; e.Type.IsMandatory() {
			return now-e.At < spacing
		}
	}
	return false
}

// violatesBreather checks the pause required after an advanced pattern.
func (s *Spawner) violatesBreather(typ ObstacleType, now float64) bool {
	if !typ.IsAdvanced() {
		return false
	}
	for i := len(s.history) - 1; i >= 0; i-- {
		if e := s.history[i]; e.Type.IsAdvanced() {
			return now-e.At < s.cfg.AdvancedBreather
		}
	}
	return false
}

// violatesCompound rejects a mandatory hazard and a different-lane hazard
// inside the same short window.
func (s *Spawner) violatesCompound(typ ObstacleType, lane int, now float64) bool {
	for i := len(s.history) - 1; i >= 0; i-- {
		e := s.history[i]
		if now-e.At >= s.cfg.CompoundWindow {
			break
		}
		if e.Lane != lane && (typ.IsMandatory() || e.Type.IsMandatory()) {
			return true
		}
	}
	return false
}

func (s *Spawner) remember(e HistoryEntry) {
	s.history = append(s.history, e)
	if over := len(s.history) - s.cfg.HistorySize; over > 0 {
		s.history = append(s.history[:0], s.history[over:]...)
	}
}

func (s *Spawner) newObstacle(typ ObstacleType, lane int, now float64, w WorldView) Obstacle {
	s.nextID++
	shape := s.shapes[typ]
	return Obstacle{
		ID:        s.nextID,
		Type:      typ,
		Lane:      lane,
		Position:  s.cfg.Lookahead,
		Depth:     shape.Depth,
		Box:       shapeBox(shape, w.LaneCenter(lane), s.cfg.Margin),
		SpawnedAt: now,
	}
}

// spawnPickup rolls the pickup sequence: a power-up when enough time has
// passed since the last one, otherwise maybe a shard.
func (s *Spawner) spawnPickup(w WorldView) {
	now := w.Elapsed()
	kind := PickupShard
	switch {
	case now-s.lastPowerUp >= s.pickCfg.PowerUpSpacing && s.pickRng.Chance(s.pickCfg.PowerUpChance):
		kind = PickupShield + PickupKind(s.pickRng.Intn(int(powerUpCount)))
		s.lastPowerUp = now
	case s.pickRng.Chance(s.pickCfg.ShardChance):
	default:
		return
	}

	lane := s.pickRng.Intn(LaneCount)
	s.nextID++
	s.pickups = append(s.pickups, Pickup{
		ID:       s.nextID,
		Kind:     kind,
		Lane:     lane,
		Position: s.cfg.Lookahead,
		Depth:    s.pickCfg.Shape.Depth,
		Box:      shapeBox(s.pickCfg.Shape, w.LaneCenter(lane), 0),
	})
}

// Collect removes a pickup. It reports whether the pickup was live.
func (s *Spawner) Collect(id uint64) bool {
	for i, p := range s.pickups {
		if p.ID == id {
			s.pickups = append(s.pickups[:i], s.pickups[i+1:]...)
			return true
		}
	}
	return false
}

// Obstacles returns the live obstacles. Callers must not modify the slice.
func (s *Spawner) Obstacles() []Obstacle { return s.obstacles }

// Pickups returns the live pickups. Callers must not modify the slice.
func (s *Spawner) Pickups() []Pickup { return s.pickups }

// History returns a copy of the spawn history, oldest first.
func (s *Spawner) History() []HistoryEntry {
	out := make([]HistoryEntry, len(s.history))
	copy(out, s.history)
	return out
}

// Spawned returns the number of obstacles generated since reset.
func (s *Spawner) Spawned() int { return s.spawned }

// Fallbacks returns how many placements exhausted the attempt budget.
func (s *Spawner) Fallbacks() int { return s.fallbacks }

// Distance returns the scrolled distance since reset.
func (s *Spawner) Distance() float64 { return s.distance }
