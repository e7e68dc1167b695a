package entity

// Ship is one placed ship on a player's board. Cells are fixed at placement;
// only Hits and Sunk change afterwards.
type Ship struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Length int          `json:"length"`
	Cells  []Coordinate `json:"cells"`
	Hits   int          `json:"hits"`
	Sunk   bool         `json:"sunk"`
}

// RegisterHit counts a hit and marks the ship sunk once hits reach its
// length. Sunk is monotonic: it never flips back.
func (that *Ship) RegisterHit() {
	that.Hits++
	if that.Hits >= that.Length {
		that.Sunk = true
	}
}

func (that *Ship) Occupies(c Coordinate) bool {
	return Contains(that.Cells, c)
}

// Board is one player's private ship layout plus the opponent's recorded
// shots against it. Hits and Misses are append-only and mutually exclusive.
type Board struct {
	Ships  []*Ship      `json:"ships"`
	Hits   []Coordinate `json:"hits"`
	Misses []Coordinate `json:"misses"`
}

// WasAttacked reports whether the coordinate was already shot at, hit or miss.
func (that *Board) WasAttacked(c Coordinate) bool {
	return Contains(that.Hits, c) || Contains(that.Misses, c)
}

// ShipAt returns the ship occupying the coordinate, or nil. Ships never share
// cells, so the first match is the only match.
func (that *Board) ShipAt(c Coordinate) *Ship {
	for _, ship := range that.Ships {
		if ship.Occupies(c) {
			return ship
		}
	}

	return nil
}

// AllSunk is true when the board has ships and every one of them is sunk.
// An empty board never counts as defeated.
func (that *Board) AllSunk() bool {
	if len(that.Ships) == 0 {
		return false
	}

	for _, ship := range that.Ships {
		if !ship.Sunk {
			return false
		}
	}

	return true
}

func (that *Board) ShipsRemaining() int {
	remaining := 0

	for _, ship := range that.Ships {
		if !ship.Sunk {
			remaining++
		}
	}

	return remaining
}

// SunkShips returns the subset of ships already sunk; this is the only part
// of a board ever shown to the opponent.
func (that *Board) SunkShips() []*Ship {
	var sunk []*Ship

	for _, ship := range that.Ships {
		if ship.Sunk {
			sunk = append(sunk, ship)
		}
	}

	return sunk
}
