package engine

import (
	"math"
	"testing"

	"github.com/vovakirdan/skyline-sprint/internal/config"
)

func newTestPlayer() (*Player, *World) {
	cfg := config.DefaultRunnerConfig()
	return NewPlayer(cfg.Player, cfg.World.Lanes), NewWorld(cfg.World)
}

func tickPlayer(p *Player, w *World, n int) {
	for i := 0; i < n; i++ {
		w.Update(testStep)
		p.Update(w, testStep)
	}
}

func TestPlayerJumpKinematics(t *testing.T) {
	p, w := newTestPlayer()
	if !p.Jump() {
		t.Fatal("Jump() from Running should be accepted")
	}

	peak := 0.0
	landedAt := -1.0
	sawDescent := false
	for i := 1; i <= 120; i++ {
		tickPlayer(p, w, 1)
		peak = math.Max(peak, p.Y())
		if p.State() == StateJumpDescent {
			sawDescent = true
		}
		if !p.Airborne() {
			landedAt = float64(i) * testStep
			break
		}
	}

	if landedAt < 0 {
		t.Fatal("player never landed")
	}
	if math.Abs(landedAt-0.96) > 0.02 {
		t.Errorf("landed at %v, expected within 0.02 of 0.96", landedAt)
	}
	if math.Abs(peak-3.8) > 0.02 {
		t.Errorf("peak = %v, expected within 0.02 of 3.8", peak)
	}
	if !sawDescent {
		t.Error("expected a JumpDescent phase")
	}
	if p.Y() != 0 || p.VelocityY() != 0 {
		t.Errorf("after landing y = %v, vy = %v; expected exactly 0", p.Y(), p.VelocityY())
	}
	if p.State() != StateRunning {
		t.Errorf("State() = %v, expected running", p.State())
	}
}

func TestPlayerIgnoresInvalidRequests(t *testing.T) {
	p, w := newTestPlayer()
	p.Jump()
	tickPlayer(p, w, 5)

	if p.Jump() {
		t.Error("Jump() while airborne should be ignored")
	}
	if p.Slide() {
		t.Error("Slide() while airborne should be ignored")
	}
	if p.State() != StateJumpAscent {
		t.Errorf("State() = %v, expected jump_ascent", p.State())
	}
}

func TestPlayerSlide(t *testing.T) {
	p, w := newTestPlayer()
	if !p.Slide() {
		t.Fatal("Slide() from Running should be accepted")
	}
	tickPlayer(p, w, 1)

	box := p.Box()
	if math.Abs(box.Height()-0.65) > 0.01 {
		t.Errorf("sliding box height = %v, expected 0.65", box.Height())
	}
	if math.Abs(box.Width()-0.8) > 1e-9 {
		t.Errorf("sliding box width = %v, expected 0.8", box.Width())
	}

	tickPlayer(p, w, 29)
	if p.State() != StateSliding {
		t.Errorf("State() at 0.5s = %v, expected sliding", p.State())
	}
	tickPlayer(p, w, 10)
	if p.State() != StateRunning {
		t.Errorf("State() after 0.66s = %v, expected running", p.State())
	}
	if h := p.Box().Height(); h != 1.0 {
		t.Errorf("standing box height = %v, expected 1.0", h)
	}
}

func TestPlayerJumpCancelsSlide(t *testing.T) {
	p, w := newTestPlayer()
	p.Slide()
	tickPlayer(p, w, 3)
	if !p.Jump() {
		t.Fatal("Jump() from Sliding should be accepted")
	}
	if p.State() != StateJumpAscent {
		t.Errorf("State() = %v, expected jump_ascent", p.State())
	}
	if h := p.Box().Height(); h != 1.0 {
		t.Errorf("box height = %v, expected standing height", h)
	}
}

func TestPlayerLaneSwitch(t *testing.T) {
	p, w := newTestPlayer()
	if p.Lane() != 1 || p.X() != 0 {
		t.Fatalf("start lane = %d x = %v, expected center", p.Lane(), p.X())
	}

	if !p.SwitchLane(-1) {
		t.Fatal("SwitchLane(-1) should start a switch")
	}
	if p.SwitchLane(1) {
		t.Error("SwitchLane() during a switch should be ignored")
	}

	tickPlayer(p, w, 3)
	if x := p.X(); x <= -2.4 || x >= 0 {
		t.Errorf("mid-switch x = %v, expected strictly between lanes", x)
	}
	if p.Lane() != 1 || p.TargetLane() != 0 {
		t.Errorf("mid-switch lane = %d target = %d", p.Lane(), p.TargetLane())
	}

	tickPlayer(p, w, 10)
	if p.Lane() != 0 || p.X() != -2.4 || p.Switching() {
		t.Errorf("after switch lane = %d x = %v switching = %v", p.Lane(), p.X(), p.Switching())
	}
	if p.SwitchLane(-1) {
		t.Error("SwitchLane() past the left edge should be ignored")
	}
}

func TestPlayerStartInvulnerability(t *testing.T) {
	p, _ := newTestPlayer()
	fw := &fakeWorld{elapsed: 1.0}
	p.Update(fw, 0)
	if !p.IsInvulnerable() {
		t.Error("IsInvulnerable() at 1.0s should be true")
	}
	fw.elapsed = 1.6
	p.Update(fw, 0)
	if p.IsInvulnerable() {
		t.Error("IsInvulnerable() at 1.6s should be false")
	}
}

func TestPlayerHitInvulnerableKeepsArc(t *testing.T) {
	p, w := newTestPlayer()
	p.Jump()
	tickPlayer(p, w, 10)
	before := p.Y()

	p.HitInvulnerable()
	if p.State() != StateHitInvulnerable || !p.IsInvulnerable() {
		t.Fatalf("State() = %v, expected hit_invulnerable", p.State())
	}
	tickPlayer(p, w, 1)
	if p.Y() <= before {
		t.Errorf("y = %v after hit, expected the arc to keep rising from %v", p.Y(), before)
	}

	tickPlayer(p, w, 60)
	if p.Airborne() || p.Y() != 0 {
		t.Errorf("expected landing, airborne = %v y = %v", p.Airborne(), p.Y())
	}
	if p.State() != StateRunning {
		t.Errorf("State() = %v, expected running", p.State())
	}
}

func TestPlayerHitInvulnerableExpires(t *testing.T) {
	p, w := newTestPlayer()
	tickPlayer(p, w, 120)
	p.HitInvulnerable()
	tickPlayer(p, w, 40)
	if p.State() != StateHitInvulnerable {
		t.Errorf("State() at 0.67s = %v, expected hit_invulnerable", p.State())
	}
	tickPlayer(p, w, 5)
	if p.State() != StateRunning || p.IsInvulnerable() {
		t.Errorf("State() after 0.75s = %v, expected running and vulnerable", p.State())
	}
}
