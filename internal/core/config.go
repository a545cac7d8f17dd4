package core

import "time"

// RuntimeConfig contains configuration passed to games at initialization.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second
	Seed     int64 // RNG seed; 0 means seed from the clock
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 30,
	}
}

// TickInterval returns the simulated time covered by one tick.
func (c RuntimeConfig) TickInterval() time.Duration {
	if c.TickRate <= 0 {
		return 0
	}
	return time.Second / time.Duration(c.TickRate)
}

// GameState is the status a game reports to the platform.
type GameState struct {
	Score    int
	Best     int
	GameOver bool
	Paused   bool
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState
}
