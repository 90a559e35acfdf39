package game

import "errors"

// Validation errors. Rejected intents leave the state untouched and are
// never fatal to the match.
var (
	ErrOutOfBounds      = errors.New("coordinates out of bounds")
	ErrCooldownActive   = errors.New("bomb cooldown active")
	ErrBombLimitReached = errors.New("bomb limit reached")
	ErrCellOccupied     = errors.New("cell occupied")
)

// Capacity and lifecycle errors, surfaced to the joining connection.
var (
	ErrDuplicateID      = errors.New("player id already present")
	ErrGameFull         = errors.New("game is full")
	ErrNoSpawnAvailable = errors.New("no spawn point available")
	ErrMatchRunning     = errors.New("match already in progress")
	ErrNotEnoughPlayers = errors.New("not enough players to start")
)
