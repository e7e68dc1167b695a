package battleship

import "github.com/armadahq/battleship-backend/internal/entity"

// ShipKind is one entry of the fixed fleet every player must place.
type ShipKind struct {
	ID     string
	Name   string
	Length int
}

// Fleet is the canonical 5-ship composition. It is process-wide constant
// configuration and must never be mutated.
var Fleet = []ShipKind{
	{ID: "carrier", Name: "Carrier", Length: 5},
	{ID: "battleship", Name: "Battleship", Length: 4},
	{ID: "cruiser", Name: "Cruiser", Length: 3},
	{ID: "submarine", Name: "Submarine", Length: 3},
	{ID: "destroyer", Name: "Destroyer", Length: 2},
}

// TotalFleetCells is the number of grid cells the full fleet occupies.
const TotalFleetCells = 5 + 4 + 3 + 3 + 2

func kindByID(id string) (ShipKind, bool) {
	for _, kind := range Fleet {
		if kind.ID == id {
			return kind, true
		}
	}

	return ShipKind{}, false
}

// ShipPlacement is the ephemeral setup-phase input a player submits for one
// ship; a valid placement becomes an entity.Ship.
type ShipPlacement struct {
	ShipID      string            `json:"ship_id"`
	Name        string            `json:"name,omitempty"`
	Length      int               `json:"length"`
	Start       entity.Coordinate `json:"start"`
	Orientation string            `json:"orientation"`
}
