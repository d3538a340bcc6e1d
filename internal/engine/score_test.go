package engine

import (
	"math"
	"testing"

	"github.com/vovakirdan/skyline-sprint/internal/config"
)

type scoreFixture struct {
	cfg     config.RunnerConfig
	scorer  *Scorer
	player  *Player
	spawner *Spawner
	world   *fakeWorld
}

// newScoreFixture returns a vulnerable player in the center lane and a
// stopped world, so only the injected entities affect the score.
func newScoreFixture(mutate ...func(*config.RunnerConfig)) *scoreFixture {
	cfg := config.DefaultRunnerConfig()
	for _, m := range mutate {
		m(&cfg)
	}
	f := &scoreFixture{
		cfg:     cfg,
		scorer:  NewScorer(cfg),
		player:  NewPlayer(cfg.Player, cfg.World.Lanes),
		spawner: NewSpawner(cfg, 1),
		world:   &fakeWorld{elapsed: 10},
	}
	f.player.Update(f.world, 0)
	return f
}

func (f *scoreFixture) evaluate(dt float64) []Event {
	return f.scorer.Evaluate(f.player, f.spawner, f.world, dt)
}

func hasEvent(events []Event, kind EventKind) bool {
	for _, e := range events {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

func TestScorerDistanceScore(t *testing.T) {
	f := newScoreFixture()
	f.world.speed = 6
	for i := 0; i < 10; i++ {
		f.evaluate(0.1)
	}
	if got := f.scorer.State().Score; got != 60 {
		t.Errorf("Score = %d, expected 60", got)
	}
}

func TestScorerScoreRush(t *testing.T) {
	f := newScoreFixture()
	f.world.speed = 6
	f.scorer.powerUps = f.scorer.powerUps.Activate(PowerUpScoreRush, 100)
	for i := 0; i < 10; i++ {
		f.evaluate(0.1)
	}
	if got := f.scorer.State().Score; got < 131 || got > 132 {
		t.Errorf("Score = %d, expected 132 with score rush", got)
	}
}

func TestScorerRunEnded(t *testing.T) {
	f := newScoreFixture()
	f.spawner.obstacles = []Obstacle{testObstacle(f.cfg, 1, Block, 1, 0)}

	events := f.evaluate(testStep)
	if !hasEvent(events, EventRunEnded) {
		t.Fatalf("events = %v, expected run_ended", events)
	}
	if !f.scorer.Ended() || f.scorer.State().Lives != 0 {
		t.Error("scorer should be ended with no lives")
	}
	if events := f.evaluate(testStep); events != nil {
		t.Errorf("Evaluate() after the end = %v, expected nil", events)
	}
}

func TestScorerShieldAbsorbsHit(t *testing.T) {
	f := newScoreFixture()
	f.scorer.powerUps = f.scorer.powerUps.Activate(PowerUpShield, 8)
	f.scorer.state.Combo = 300
	f.spawner.obstacles = []Obstacle{testObstacle(f.cfg, 1, Block, 1, 0)}

	events := f.evaluate(testStep)
	if !hasEvent(events, EventAbsorbedHit) {
		t.Fatalf("events = %v, expected absorbed_hit", events)
	}
	if f.scorer.PowerUps().Active(PowerUpShield) {
		t.Error("shield should be consumed")
	}
	if f.player.State() != StateHitInvulnerable {
		t.Errorf("player state = %v, expected hit_invulnerable", f.player.State())
	}
	if got := f.scorer.State().Combo; got != 150 {
		t.Errorf("Combo = %v, expected 150 after the penalty", got)
	}

	if events := f.evaluate(testStep); hasEvent(events, EventRunEnded) || hasEvent(events, EventAbsorbedHit) {
		t.Errorf("overlap while invulnerable produced %v", events)
	}
}

func TestScorerLifeLost(t *testing.T) {
	f := newScoreFixture(func(c *config.RunnerConfig) { c.Lives = 2 })
	f.spawner.obstacles = []Obstacle{testObstacle(f.cfg, 1, Gap, 1, 0)}

	events := f.evaluate(testStep)
	if !hasEvent(events, EventLifeLost) {
		t.Fatalf("events = %v, expected life_lost", events)
	}
	if f.scorer.Ended() || f.scorer.State().Lives != 1 {
		t.Errorf("Lives = %d, expected 1 and the run going on", f.scorer.State().Lives)
	}
}

func TestScorerStartInvulnerability(t *testing.T) {
	f := newScoreFixture()
	f.world.elapsed = 0.5
	f.player.Update(f.world, 0)
	f.spawner.obstacles = []Obstacle{testObstacle(f.cfg, 1, Block, 1, 0)}

	if events := f.evaluate(testStep); len(events) != 0 {
		t.Errorf("events = %v, expected none during start invulnerability", events)
	}
}

func TestScorerOnlyFirstOverlapCounts(t *testing.T) {
	f := newScoreFixture(func(c *config.RunnerConfig) { c.Lives = 3 })
	f.spawner.obstacles = []Obstacle{
		testObstacle(f.cfg, 1, Block, 1, 0),
		testObstacle(f.cfg, 2, SlowRoller, 1, 0.1),
	}
	f.evaluate(testStep)
	if got := f.scorer.State().Lives; got != 2 {
		t.Errorf("Lives = %d, expected one hit per tick", got)
	}
}

func TestScorerMissesOtherLanes(t *testing.T) {
	f := newScoreFixture()
	f.spawner.obstacles = []Obstacle{
		testObstacle(f.cfg, 1, Block, 0, 0),
		testObstacle(f.cfg, 2, ZigzagGate, 2, 0),
		testObstacle(f.cfg, 3, Block, 1, 5),
	}
	if events := f.evaluate(testStep); hasEvent(events, EventRunEnded) {
		t.Error("obstacles in other lanes or outside the hit zone should not collide")
	}
}

func TestScorerSlideUnderBeamIsPerfectDodge(t *testing.T) {
	f := newScoreFixture()
	f.player.Slide()
	f.spawner.obstacles = []Obstacle{testObstacle(f.cfg, 4, OverheadBeam, 1, 0)}

	if events := f.evaluate(testStep); hasEvent(events, EventRunEnded) {
		t.Fatal("sliding player should pass under the beam")
	}
	f.spawner.obstacles[0].Position = -1
	events := f.evaluate(testStep)
	if !hasEvent(events, EventPerfectDodge) {
		t.Fatalf("events = %v, expected perfect_dodge", events)
	}
	state := f.scorer.State()
	if state.PerfectDodges != 1 || state.Score != f.cfg.Scoring.PerfectDodgeValue {
		t.Errorf("PerfectDodges = %d Score = %d", state.PerfectDodges, state.Score)
	}
}

func TestScorerStandingUnderBeamHits(t *testing.T) {
	f := newScoreFixture()
	f.spawner.obstacles = []Obstacle{testObstacle(f.cfg, 4, OverheadBeam, 1, 0)}
	if events := f.evaluate(testStep); !hasEvent(events, EventRunEnded) {
		t.Error("standing player should hit the beam")
	}
}

func TestScorerNoDodgeAfterHit(t *testing.T) {
	f := newScoreFixture(func(c *config.RunnerConfig) { c.Lives = 2 })
	f.spawner.obstacles = []Obstacle{testObstacle(f.cfg, 1, Block, 1, 0)}
	f.evaluate(testStep)
	f.spawner.obstacles[0].Position = -1
	if events := f.evaluate(testStep); hasEvent(events, EventPerfectDodge) {
		t.Error("a hit obstacle must not award a perfect dodge")
	}
}

func TestScorerCollectsShard(t *testing.T) {
	f := newScoreFixture()
	f.spawner.pickups = []Pickup{testPickup(f.cfg, 9, PickupShard, 1, 0)}

	events := f.evaluate(testStep)
	if !hasEvent(events, EventShardCollected) {
		t.Fatalf("events = %v, expected shard_collected", events)
	}
	state := f.scorer.State()
	if state.Shards != 1 || state.Score != 15 || state.Combo != 15 {
		t.Errorf("state = %+v, expected 1 shard worth 15", state)
	}
	if len(f.spawner.Pickups()) != 0 {
		t.Error("collected shard should be removed")
	}
}

func TestScorerMagnet(t *testing.T) {
	f := newScoreFixture()
	f.spawner.pickups = []Pickup{testPickup(f.cfg, 9, PickupShard, 0, 0.5)}
	f.evaluate(testStep)
	if f.scorer.State().Shards != 0 {
		t.Fatal("shard in another lane collected without magnet")
	}

	f.scorer.powerUps = f.scorer.powerUps.Activate(PowerUpMagnet, 10)
	f.evaluate(testStep)
	if f.scorer.State().Shards != 1 {
		t.Error("magnet should pull the shard within 3.5 units")
	}
}

func TestScorerCollectsPowerUp(t *testing.T) {
	f := newScoreFixture()
	f.spawner.pickups = []Pickup{testPickup(f.cfg, 9, PickupSlowTime, 1, 0)}

	events := f.evaluate(testStep)
	if !hasEvent(events, EventPowerUpCollected) {
		t.Fatalf("events = %v, expected power_up_collected", events)
	}
	pu := f.scorer.PowerUps()[PowerUpSlowTime]
	if !pu.Active || pu.TimeLeft != f.cfg.PowerUps.SlowTimeDuration {
		t.Errorf("slow-time = %+v, expected a fresh timer", pu)
	}
	if got := f.scorer.SpeedFactor(); got != 0.65 {
		t.Errorf("SpeedFactor() = %v, expected 0.65", got)
	}
}

func TestScorerPowerUpExpires(t *testing.T) {
	f := newScoreFixture()
	f.scorer.powerUps = f.scorer.powerUps.Activate(PowerUpMagnet, 0.05)
	f.evaluate(0.03)
	events := f.evaluate(0.03)
	if !hasEvent(events, EventPowerUpExpired) {
		t.Fatalf("events = %v, expected power_up_expired", events)
	}
	if pu := f.scorer.PowerUps()[PowerUpMagnet]; pu.Active || pu.TimeLeft != 0 {
		t.Errorf("magnet = %+v, expected inactive with 0 time left", pu)
	}
}

func TestScorerMultiplier(t *testing.T) {
	f := newScoreFixture()
	f.scorer.state.Combo = 190
	f.spawner.pickups = []Pickup{testPickup(f.cfg, 9, PickupShard, 1, 0)}

	events := f.evaluate(testStep)
	if !hasEvent(events, EventMultiplierUp) {
		t.Fatalf("events = %v, expected multiplier_up", events)
	}
	if got := f.scorer.State().Multiplier; got != 2 {
		t.Errorf("Multiplier = %d, expected 2", got)
	}

	tests := []struct {
		combo float64
		want  int
	}{
		{0, 1},
		{199.9, 1},
		{200, 2},
		{900, 4},
		{5000, 5},
	}
	for _, tt := range tests {
		if got := f.scorer.multiplierFor(tt.combo); got != tt.want {
			t.Errorf("multiplierFor(%v) = %d, expected %d", tt.combo, got, tt.want)
		}
	}
}

func TestScorerComboDecay(t *testing.T) {
	f := newScoreFixture()
	f.scorer.state.Combo = 100

	f.evaluate(1.0)
	if got := f.scorer.State().Combo; got != 100 {
		t.Errorf("Combo = %v inside the grace period, expected 100", got)
	}
	f.evaluate(1.0)
	want := 100 - f.cfg.Scoring.DecayPerSecond
	if got := f.scorer.State().Combo; math.Abs(got-want) > 1e-9 {
		t.Errorf("Combo = %v, expected %v", got, want)
	}
}

func TestPowerUpsTick(t *testing.T) {
	var p PowerUps
	p = p.Activate(PowerUpMagnet, 1.0)
	orig := p

	p, expired := p.Tick(0.6)
	if len(expired) != 0 || !p.Active(PowerUpMagnet) || math.Abs(p[PowerUpMagnet].TimeLeft-0.4) > 1e-9 {
		t.Errorf("after 0.6s: %+v expired %v", p[PowerUpMagnet], expired)
	}
	if orig[PowerUpMagnet].TimeLeft != 1.0 {
		t.Error("Tick() must not modify the receiver")
	}

	p, expired = p.Tick(0.6)
	if len(expired) != 1 || expired[0] != PowerUpMagnet {
		t.Errorf("expired = %v, expected [magnet]", expired)
	}
	if p[PowerUpMagnet] != (PowerUpTimer{}) {
		t.Errorf("magnet = %+v, expected zero timer", p[PowerUpMagnet])
	}
}
