package core

// RuntimeConfig contains configuration passed to games at initialization.
// Hosts use it to size the terminal projection and to pin the seed.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Host frame rate; the simulation step is fixed separately
	Seed     int64 // RNG seed override, used when HasSeed is set
	HasSeed  bool  // false = daily seed or generated
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
	}
}

// GameState represents the current state of a run.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score      int
	Multiplier int
	GameOver   bool
	Paused     bool
}

// StepResult is returned by Game.Frame() after each host frame.
type StepResult struct {
	State GameState
	Steps int // Fixed simulation steps executed during the frame
}
