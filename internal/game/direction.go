package game

import "fmt"

// Direction is one of the four orthogonal unit vectors. The zero value None
// means "no direction" and is only used for an empty input request.
type Direction uint8

const (
	None Direction = iota
	Up
	Left
	Down
	Right
)

// Directions lists the four unit directions in neighbour enumeration order
// (left, up, right, down).
var Directions = [4]Direction{Left, Up, Right, Down}

// Delta returns the unit vector for d.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Left:
		return -1, 0
	case Down:
		return 0, 1
	case Right:
		return 1, 0
	default:
		return 0, 0
	}
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Left:
		return Right
	case Down:
		return Up
	case Right:
		return Left
	default:
		return None
	}
}

// Vertical reports whether d moves along the y axis.
func (d Direction) Vertical() bool { return d == Up || d == Down }

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Left:
		return "left"
	case Down:
		return "down"
	case Right:
		return "right"
	default:
		return "none"
	}
}

// ParseDirection maps "up", "left", "down", "right" to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "up":
		return Up, nil
	case "left":
		return Left, nil
	case "down":
		return Down, nil
	case "right":
		return Right, nil
	default:
		return None, fmt.Errorf("unknown direction %q", s)
	}
}

// DirectionBetween returns the direction of a single orthogonal step from a to
// b, or None if b is not adjacent to a.
func DirectionBetween(a, b Cell) Direction {
	switch {
	case b.X == a.X-1 && b.Y == a.Y:
		return Left
	case b.X == a.X+1 && b.Y == a.Y:
		return Right
	case b.X == a.X && b.Y == a.Y-1:
		return Up
	case b.X == a.X && b.Y == a.Y+1:
		return Down
	default:
		return None
	}
}

// MarshalText encodes d by name so frames read "left" rather than 2.
func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText accepts the names ParseDirection accepts, plus "none".
func (d *Direction) UnmarshalText(b []byte) error {
	if string(b) == "none" || len(b) == 0 {
		*d = None
		return nil
	}
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}
