package engine

import (
	"math"

	"github.com/vovakirdan/skyline-sprint/internal/config"
	"github.com/vovakirdan/skyline-sprint/internal/core"
)

// MotionState is the player's vertical/hit state. Lane switching runs
// alongside it and is tracked separately.
type MotionState int

const (
	StateRunning MotionState = iota
	StateJumpAscent
	StateJumpDescent
	StateSliding
	StateHitInvulnerable
)

func (s MotionState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateJumpAscent:
		return "jump_ascent"
	case StateJumpDescent:
		return "jump_descent"
	case StateSliding:
		return "sliding"
	case StateHitInvulnerable:
		return "hit_invulnerable"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state by name in snapshots.
func (s MotionState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Player holds the runner's kinematics.
type Player struct {
	cfg     config.PlayerConfig
	lanes   []float64
	gravity float64
	v0      float64

	state MotionState
	lane  int
	x     float64
	y     float64
	vy    float64

	// the jump arc is closed-form in jumpClock and keeps running while
	// hit-invulnerable in the air
	airborne  bool
	jumpClock float64

	slideLeft  float64
	invulnLeft float64

	switching   bool
	target      int
	switchClock float64
	fromX       float64

	now              float64
	startInvulnUntil float64
}

// NewPlayer creates a player running in the center lane.
func NewPlayer(cfg config.PlayerConfig, lanes []float64) *Player {
	g := cfg.Gravity()
	p := &Player{
		cfg:     cfg,
		lanes:   lanes,
		gravity: g,
		v0:      math.Sqrt(2 * g * cfg.JumpHeight),
	}
	p.Reset()
	return p
}

// Reset puts the player back at the start of a run with the start-of-run
// invulnerability window measured from simulation time 0.
func (p *Player) Reset() {
	*p = Player{cfg: p.cfg, lanes: p.lanes, gravity: p.gravity, v0: p.v0}
	p.lane = 1
	p.target = 1
	p.x = p.lanes[1]
	p.startInvulnUntil = p.cfg.StartInvulnerability
}

// Jump starts a jump from Running or Sliding. Other states ignore it.
func (p *Player) Jump() bool {
	if p.state != StateRunning && p.state != StateSliding {
		return false
	}
	p.state = StateJumpAscent
	p.slideLeft = 0
	p.airborne = true
	p.jumpClock = 0
	p.vy = p.v0
	return true
}

// Slide starts a slide from Running. Other states ignore it.
func (p *Player) Slide() bool {
	if p.state != StateRunning {
		return false
	}
	p.state = StateSliding
	p.slideLeft = p.cfg.SlideDuration
	return true
}

// SwitchLane starts a lane switch by dir (-1 left, +1 right). It is ignored
// while another switch runs or when the clamped target is the current lane.
func (p *Player) SwitchLane(dir int) bool {
	if p.switching {
		return false
	}
	target := core.Clamp(p.lane+dir, 0, len(p.lanes)-1)
	if target == p.lane {
		return false
	}
	p.switching = true
	p.target = target
	p.switchClock = 0
	p.fromX = p.x
	return true
}

// HitInvulnerable enters the post-hit state for the configured duration.
func (p *Player) HitInvulnerable() {
	p.state = StateHitInvulnerable
	p.invulnLeft = p.cfg.HitInvulnerability
	p.slideLeft = 0
}

// Update advances the player by dt seconds.
func (p *Player) Update(w WorldView, dt float64) {
	p.now = w.Elapsed()

	if p.airborne {
		p.jumpClock += dt
		t := p.jumpClock
		p.y = p.v0*t - 0.5*p.gravity*t*t
		p.vy = p.v0 - p.gravity*t
		if p.state == StateJumpAscent && p.vy < 0 {
			p.state = StateJumpDescent
		}
		if p.vy < 0 && p.y <= 0 {
			p.y = 0
			p.vy = 0
			p.airborne = false
			if p.state == StateJumpDescent {
				p.state = StateRunning
			}
		}
	}

	switch p.state {
	case StateSliding:
		p.slideLeft -= dt
		if p.slideLeft <= 0 {
			p.slideLeft = 0
			p.state = StateRunning
		}
	case StateHitInvulnerable:
		p.invulnLeft -= dt
		if p.invulnLeft <= 0 {
			p.invulnLeft = 0
			p.state = p.airState()
		}
	}

	if p.switching {
		p.switchClock += dt
		progress := math.Min(p.switchClock/p.cfg.LaneSwitchDuration, 1)
		to := p.lanes[p.target]
		p.x = p.fromX + (to-p.fromX)*easeInOutCubic(progress)
		if progress >= 1 {
			p.lane = p.target
			p.x = to
			p.switching = false
		}
	}
}

// airState returns the motion state matching the current jump arc.
func (p *Player) airState() MotionState {
	switch {
	case !p.airborne:
		return StateRunning
	case p.vy >= 0:
		return StateJumpAscent
	default:
		return StateJumpDescent
	}
}

// IsInvulnerable reports the hit state or the start-of-run window.
func (p *Player) IsInvulnerable() bool {
	return p.state == StateHitInvulnerable || p.now < p.startInvulnUntil
}

// Box returns the hitbox, narrower and lower while sliding.
func (p *Player) Box() core.Box {
	if p.state == StateSliding {
		return core.NewBox(p.x, p.y, p.cfg.SlideWidth, p.cfg.SlideHeight())
	}
	return core.NewBox(p.x, p.y, p.cfg.Width, p.cfg.Height)
}

func (p *Player) State() MotionState { return p.state }
func (p *Player) Lane() int { return p.lane }
func (p *Player) TargetLane() int { return p.target }
func (p *Player) X() float64 { return p.x }
func (p *Player) Y() float64 { return p.y }
func (p *Player) VelocityY() float64 { return p.vy }
func (p *Player) Switching() bool { return p.switching }
func (p *Player) Airborne() bool { return p.airborne }

// Depth returns the half extent of the player along the track.
func (p *Player) Depth() float64 { return p.cfg.Depth }

func easeInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	f := -2*t + 2
	return 1 - f*f*f/2
}
