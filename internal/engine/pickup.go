package engine

import "github.com/vovakirdan/skyline-sprint/internal/core"

// PickupKind is a collectible shard or power-up.
type PickupKind int

const (
	PickupShard PickupKind = iota
	PickupShield
	PickupMagnet
	PickupSlowTime
	PickupScoreRush
)

func (k PickupKind) String() string {
	switch k {
	case PickupShard:
		return "shard"
	case PickupShield:
		return "shield"
	case PickupMagnet:
		return "magnet"
	case PickupSlowTime:
		return "slow_time"
	case PickupScoreRush:
		return "score_rush"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name in snapshots.
func (k PickupKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// PowerUp returns the power-up granted by the pickup, if any.
func (k PickupKind) PowerUp() (PowerUpKind, bool) {
	switch k {
	case PickupShield:
		return PowerUpShield, true
	case PickupMagnet:
		return PowerUpMagnet, true
	case PickupSlowTime:
		return PowerUpSlowTime, true
	case PickupScoreRush:
		return PowerUpScoreRush, true
	default:
		return 0, false
	}
}

// Pickup is a collectible on the track.
type Pickup struct {
	ID       uint64     `json:"id"`
	Kind     PickupKind `json:"kind"`
	Lane     int        `json:"lane"`
	Position float64    `json:"position"`
	Depth    float64    `json:"depth"`
	Box      core.Box   `json:"box"`
}
