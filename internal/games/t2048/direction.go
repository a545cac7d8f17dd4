package t2048

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDirection is returned when a move names no known direction.
var ErrInvalidDirection = errors.New("t2048: invalid direction")

// Direction represents a move direction.
// The zero value is not a valid direction.
type Direction int

const (
	DirUp Direction = iota + 1
	DirDown
	DirLeft
	DirRight
)

// Directions lists every valid direction in a stable order.
var Directions = [...]Direction{DirUp, DirDown, DirLeft, DirRight}

// Valid reports whether d is one of the four move directions.
func (d Direction) Valid() bool {
	return d >= DirUp && d <= DirRight
}

// Vector returns the column and row deltas for d.
// Up decreases the row index, left decreases the column index.
func (d Direction) Vector() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	default:
		return 0, 0
	}
}

// String returns a human-readable name for the direction.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "invalid"
	}
}

// ParseDirection converts user input into a Direction.
// Accepts full names and WASD letters.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "w":
		return DirUp, nil
	case "down", "s":
		return DirDown, nil
	case "left", "a":
		return DirLeft, nil
	case "right", "d":
		return DirRight, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}
