package engine

import "github.com/vovakirdan/skyline-sprint/internal/core"

// Scene is the engine's top-level state.
type Scene int

const (
	SceneLoading Scene = iota
	ScenePlay
	ScenePause
	SceneGameOver
)

func (s Scene) String() string {
	switch s {
	case SceneLoading:
		return "loading"
	case ScenePlay:
		return "play"
	case ScenePause:
		return "pause"
	case SceneGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// MarshalText encodes the scene by name.
func (s Scene) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// PlayerView is the player geometry for renderers.
type PlayerView struct {
	Lane         int         `json:"lane"`
	TargetLane   int         `json:"target_lane"`
	X            float64     `json:"x"`
	Y            float64     `json:"y"`
	State        MotionState `json:"state"`
	Switching    bool        `json:"switching"`
	Invulnerable bool        `json:"invulnerable"`
	Box          core.Box    `json:"box"`
}

// Snapshot is a read-only copy of everything a renderer needs. It never
// shares memory with the engine.
type Snapshot struct {
	Scene    Scene   `json:"scene"`
	Mode     Mode    `json:"mode"`
	Seed     uint32  `json:"seed"`
	Tick     uint64  `json:"tick"`
	Elapsed  float64 `json:"elapsed"`
	Distance float64 `json:"distance"`
	Speed    float64 `json:"speed"`
	Alpha    float64 `json:"alpha"`

	ScoreState
	PowerUps PowerUps `json:"power_ups"`

	Player    PlayerView `json:"player"`
	Obstacles []Obstacle `json:"obstacles"`
	Pickups   []Pickup   `json:"pickups"`
}

// Summary describes a finished or abandoned run for storage.
type Summary struct {
	Mode          Mode    `json:"mode"`
	Seed          uint32  `json:"seed"`
	Score         int     `json:"score"`
	Shards        int     `json:"shards"`
	Elapsed       float64 `json:"elapsed"`
	MaxMultiplier int     `json:"max_multiplier"`
	PerfectDodges int     `json:"perfect_dodges"`
	Obstacles     int     `json:"obstacles"`
	Fallbacks     int     `json:"fallbacks"`
	Completed     bool    `json:"completed"`
	SeedOverride  bool    `json:"seed_override"`
}

// Ranked reports whether the run may enter the shared leaderboard. A daily
// run played on any seed other than the date seed is practice.
func (s Summary) Ranked() bool {
	return s.Mode != ModeDaily || !s.SeedOverride
}
