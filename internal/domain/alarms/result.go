package alarms

import (
	"math/bits"
	"time"
)

// ResultSet holds the outcome of one decode: exactly one mask per registered
// board, indexed by output slot. It is complete even when no input resolved;
// unmatched boards keep a zero mask.
type ResultSet struct {
	// registry the masks were decoded against.
	registry *Registry
	// masks holds one bitmask per output slot.
	masks []uint32
}

// Mask returns the bitmask for the provided output slot.
func (rs ResultSet) Mask(slot int) uint32 {
	return rs.masks[slot]
}

// MaskByBoard returns the bitmask for the provided board identifier.
func (rs ResultSet) MaskByBoard(id string) (uint32, bool) {
	board, found := rs.registry.Lookup(id)
	if !found {
		return 0, false
	}

	return rs.masks[board.Slot], true
}

// Masks returns a copy of the masks in output slot order.
func (rs ResultSet) Masks() []uint32 {
	return append([]uint32(nil), rs.masks...)
}

// Registry returns the registry the result set was decoded against.
func (rs ResultSet) Registry() *Registry {
	return rs.registry
}

// BoardStatus is the decoded status of one board within a snapshot.
type BoardStatus struct {
	// BoardID identifies the board.
	BoardID string `json:"board_id"`
	// Slot is the board's output slot index.
	Slot int `json:"slot"`
	// Mask is the fault bitmask; bit i set means catalog entry i is asserted.
	Mask uint32 `json:"mask"`
	// Active lists the asserted catalog entries in bit order.
	Active []string `json:"active,omitempty"`
}

// FaultCount returns the number of asserted faults on the board.
func (b BoardStatus) FaultCount() int {
	return bits.OnesCount32(b.Mask)
}

// Snapshot is one completed decode cycle prepared for distribution: the
// per-board statuses in registry order plus provenance for auditing.
type Snapshot struct {
	// Timestamp is when the cycle was decoded.
	Timestamp time.Time `json:"timestamp"`
	// CycleID uniquely identifies the decode cycle across sinks and logs.
	CycleID string `json:"cycle_id"`
	// Source records where the raw line came from (topic, host or user).
	Source string `json:"source,omitempty"`
	// Boards holds one entry per registered board, in registry order.
	Boards []BoardStatus `json:"boards"`
}

// NewSnapshot expands a result set into a snapshot. The board order follows
// the registry, and every registered board is present regardless of input.
func NewSnapshot(rs ResultSet, cycleID, source string, at time.Time) *Snapshot {
	boards := rs.registry.Boards()
	statuses := make([]BoardStatus, 0, len(boards))

	for _, board := range boards {
		mask := rs.masks[board.Slot]

		var active []string

		for bit := 0; bit < board.Catalog.Len(); bit++ {
			if mask&(1<<bit) != 0 {
				active = append(active, board.Catalog.Entry(bit))
			}
		}

		statuses = append(statuses, BoardStatus{
			BoardID: board.ID,
			Slot:    board.Slot,
			Mask:    mask,
			Active:  active,
		})
	}

	return &Snapshot{
		Timestamp: at,
		CycleID:   cycleID,
		Source:    source,
		Boards:    statuses,
	}
}

// Board returns the status for the provided board identifier.
func (s *Snapshot) Board(id string) (BoardStatus, bool) {
	for _, board := range s.Boards {
		if board.BoardID == id {
			return board, true
		}
	}

	return BoardStatus{}, false
}
