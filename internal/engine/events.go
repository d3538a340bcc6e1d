package engine

// EventKind identifies a gameplay outcome reported to the host.
type EventKind int

const (
	EventAbsorbedHit EventKind = iota
	EventLifeLost
	EventRunEnded
	EventShardCollected
	EventPowerUpCollected
	EventPowerUpExpired
	EventPerfectDodge
	EventMultiplierUp
)

func (k EventKind) String() string {
	switch k {
	case EventAbsorbedHit:
		return "absorbed_hit"
	case EventLifeLost:
		return "life_lost"
	case EventRunEnded:
		return "run_ended"
	case EventShardCollected:
		return "shard_collected"
	case EventPowerUpCollected:
		return "power_up_collected"
	case EventPowerUpExpired:
		return "power_up_expired"
	case EventPerfectDodge:
		return "perfect_dodge"
	case EventMultiplierUp:
		return "multiplier_up"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name.
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Event is emitted during a tick. Fields that do not apply are zero; PowerUp
// is only set on power-up events.
type Event struct {
	Kind       EventKind    `json:"kind"`
	Tick       uint64       `json:"tick"`
	ObstacleID uint64       `json:"obstacle_id,omitempty"`
	PowerUp    *PowerUpKind `json:"power_up,omitempty"`
	Value      int          `json:"value,omitempty"`
}

// Recorder observes engine activity. The metrics package provides a
// Prometheus implementation.
type Recorder interface {
	ObserveFrame(steps int, dropped bool)
	ObstacleSpawned(kind string)
	FairnessFallback()
	RunEnded(mode string, score int)
}

type nopRecorder struct{}

func (nopRecorder) ObserveFrame(int, bool) {}
func (nopRecorder) ObstacleSpawned(string) {}
func (nopRecorder) FairnessFallback() {}
func (nopRecorder) RunEnded(string, int) {}
