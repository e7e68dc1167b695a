package battleship

import (
	"errors"
	"fmt"

	"github.com/armadahq/battleship-backend/internal/entity"
)

var (
	ErrWrongShipCount     = errors.New("wrong number of ships")
	ErrFleetComposition   = errors.New("missing or duplicate ships")
	ErrInvalidShipType    = errors.New("invalid ship type")
	ErrWrongShipSize      = errors.New("wrong ship size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrShipOutOfBounds    = errors.New("ship is out of bounds")
	ErrShipOverlap        = errors.New("ships overlap")
)

// ValidateFleet checks a proposed layout against the fixed fleet composition,
// bounds and overlap rules, and builds the resulting ships. Single pass,
// first violation wins; adjacent ships are legal.
func ValidateFleet(placements []ShipPlacement) ([]*entity.Ship, error) {
	if len(placements) != len(Fleet) {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrWrongShipCount, len(Fleet), len(placements))
	}

	seen := make(map[string]int, len(Fleet))
	for _, placement := range placements {
		seen[placement.ShipID]++
	}

	for _, kind := range Fleet {
		if seen[kind.ID] != 1 {
			return nil, ErrFleetComposition
		}
	}

	ships := make([]*entity.Ship, 0, len(Fleet))

	for _, placement := range placements {
		kind, known := kindByID(placement.ShipID)
		if !known {
			return nil, fmt.Errorf("%w: %s", ErrInvalidShipType, placement.ShipID)
		}

		if placement.Length != kind.Length {
			return nil, fmt.Errorf("%w: %s must be %d cells", ErrWrongShipSize, kind.Name, kind.Length)
		}

		if placement.Orientation != entity.OrientationHorizontal && placement.Orientation != entity.OrientationVertical {
			return nil, fmt.Errorf("%w: %s", ErrInvalidOrientation, placement.Orientation)
		}

		cells := entity.CellsFrom(placement.Start, kind.Length, placement.Orientation)
		if !entity.AllValid(cells) {
			return nil, fmt.Errorf("%w: %s at %s", ErrShipOutOfBounds, kind.Name, placement.Start.Display())
		}

		for _, accepted := range ships {
			if entity.Overlaps(cells, accepted.Cells) {
				return nil, fmt.Errorf("%w: %s overlaps with %s", ErrShipOverlap, kind.Name, accepted.Name)
			}
		}

		ships = append(ships, &entity.Ship{
			ID:     kind.ID,
			Name:   kind.Name,
			Length: kind.Length,
			Cells:  cells,
		})
	}

	return ships, nil
}
