package engine

import "github.com/vovakirdan/skyline-sprint/internal/config"

// PowerUpKind indexes the fixed power-up table.
type PowerUpKind int

const (
	PowerUpShield PowerUpKind = iota
	PowerUpMagnet
	PowerUpSlowTime
	PowerUpScoreRush

	powerUpCount
)

func (k PowerUpKind) String() string {
	switch k {
	case PowerUpShield:
		return "shield"
	case PowerUpMagnet:
		return "magnet"
	case PowerUpSlowTime:
		return "slow_time"
	case PowerUpScoreRush:
		return "score_rush"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name in events.
func (k PowerUpKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// PowerUpTimer is the state of one power-up. TimeLeft is 0 when inactive.
type PowerUpTimer struct {
	Active   bool    `json:"active"`
	TimeLeft float64 `json:"time_left"`
}

// PowerUps is the per-kind timer table.
type PowerUps [powerUpCount]PowerUpTimer

// Active reports whether kind is running.
func (p PowerUps) Active(kind PowerUpKind) bool {
	return p[kind].Active
}

// Activate returns a table with kind running for duration seconds. Picking up
// a running power-up restarts its timer.
func (p PowerUps) Activate(kind PowerUpKind, duration float64) PowerUps {
	p[kind] = PowerUpTimer{Active: true, TimeLeft: duration}
	return p
}

// Deactivate returns a table with kind stopped.
func (p PowerUps) Deactivate(kind PowerUpKind) PowerUps {
	p[kind] = PowerUpTimer{}
	return p
}

// Tick is the per-step transition: active timers lose dt and stop at 0.
// It returns the new table and the kinds that expired.
func (p PowerUps) Tick(dt float64) (PowerUps, []PowerUpKind) {
	var expired []PowerUpKind
	for k := range p {
		if !p[k].Active {
			continue
		}
		left := p[k].TimeLeft - dt
		if left <= 0 {
			p[k] = PowerUpTimer{}
			expired = append(expired, PowerUpKind(k))
			continue
		}
		p[k].TimeLeft = left
	}
	return p, expired
}

// powerUpDuration returns the configured duration of kind.
func powerUpDuration(cfg config.PowerUpConfig, kind PowerUpKind) float64 {
	switch kind {
	case PowerUpShield:
		return cfg.ShieldDuration
	case PowerUpMagnet:
		return cfg.MagnetDuration
	case PowerUpSlowTime:
		return cfg.SlowTimeDuration
	case PowerUpScoreRush:
		return cfg.ScoreRushDuration
	default:
		return 0
	}
}
