package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// BoardSize is the side of the square grid; coordinates live in [0, BoardSize).
const BoardSize = 10

const (
	OrientationHorizontal = "horizontal"
	OrientationVertical   = "vertical"
)

// Coordinate is an immutable (x, y) pair on the grid.
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (that Coordinate) IsValid() bool {
	return that.X >= 0 && that.X < BoardSize && that.Y >= 0 && that.Y < BoardSize
}

// Display renders the coordinate as a letter+number label, letter = 'A'+x, number = y+1.
func (that Coordinate) Display() string {
	return fmt.Sprintf("%c%d", 'A'+rune(that.X), that.Y+1)
}

// ParseCoordinate is the inverse of Display. Case-insensitive; rejects
// anything outside the 10x10 grid or not matching the letter+number pattern.
func ParseCoordinate(label string) (Coordinate, error) {
	if len(label) < 2 {
		return Coordinate{}, fmt.Errorf("malformed coordinate %q", label)
	}

	letter := strings.ToUpper(label)[0]
	if letter < 'A' || letter > 'A'+BoardSize-1 {
		return Coordinate{}, fmt.Errorf("column %q is out of the grid", string(label[0]))
	}

	digits := label[1:]
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return Coordinate{}, fmt.Errorf("malformed coordinate %q", label)
		}
	}

	// zero-padded labels such as "A01" are not part of the format
	if digits[0] == '0' {
		return Coordinate{}, fmt.Errorf("malformed coordinate %q", label)
	}

	number, err := strconv.Atoi(digits)
	if err != nil {
		return Coordinate{}, fmt.Errorf("malformed coordinate %q", label)
	}

	if number > BoardSize {
		return Coordinate{}, fmt.Errorf("row %d is out of the grid", number)
	}

	return Coordinate{X: int(letter - 'A'), Y: number - 1}, nil
}

// Contains reports whether the set holds the coordinate; equality is structural over (x, y).
func Contains(set []Coordinate, c Coordinate) bool {
	for _, member := range set {
		if member == c {
			return true
		}
	}

	return false
}

// CellsFrom produces length cells stepping +1 in x (horizontal) or +1 in y
// (vertical) from start. It does not bounds-check; callers use AllValid.
func CellsFrom(start Coordinate, length int, orientation string) []Coordinate {
	cells := make([]Coordinate, 0, length)

	for i := 0; i < length; i++ {
		cell := start
		if orientation == OrientationVertical {
			cell.Y += i
		} else {
			cell.X += i
		}

		cells = append(cells, cell)
	}

	return cells
}

func AllValid(cells []Coordinate) bool {
	for _, cell := range cells {
		if !cell.IsValid() {
			return false
		}
	}

	return true
}

func Overlaps(a, b []Coordinate) bool {
	for _, cell := range a {
		if Contains(b, cell) {
			return true
		}
	}

	return false
}
