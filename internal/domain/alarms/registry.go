package alarms

import (
	"errors"
	"fmt"
)

var (
	// errNoBoards is returned when a registry is created without boards.
	errNoBoards = errors.New("registry must contain at least one board")
	// errEmptyBoardID is returned when a board definition has no identifier.
	errEmptyBoardID = errors.New("board identifier must be provided")
	// errDuplicateBoardID is returned when two boards share an identifier.
	errDuplicateBoardID = errors.New("duplicate board identifier")
	// errNilCatalog is returned when a board definition has no catalog.
	errNilCatalog = errors.New("board catalog must be provided")
	// errSlotOutOfRange is returned when an output slot index is invalid.
	errSlotOutOfRange = errors.New("output slot out of range")
	// errDuplicateSlot is returned when two boards share an output slot.
	errDuplicateSlot = errors.New("duplicate output slot")
)

// BoardDefinition binds a monitored board to its status catalog and the
// output slot its mask is written to.
type BoardDefinition struct {
	// ID is the exact-match board identifier (e.g. "MB1.T1"). Case-sensitive.
	ID string
	// Catalog is the status catalog for this board's type.
	Catalog *StatusCatalog
	// Slot is the output slot index, unique and in range 0..N-1.
	Slot int
}

// Registry is the fixed, ordered set of monitored boards. It is immutable
// after construction, so concurrent readers need no locking.
type Registry struct {
	// boards holds the definitions in registry order.
	boards []BoardDefinition
	// byID indexes boards by identifier for record lookup.
	byID map[string]int
}

// NewRegistry validates the provided definitions and builds a registry.
// Validation failures are configuration errors: callers must refuse to run
// rather than decode against a truncated or ambiguous board set.
func NewRegistry(boards []BoardDefinition) (*Registry, error) {
	if len(boards) == 0 {
		return nil, errNoBoards
	}

	var (
		byID      = make(map[string]int, len(boards))
		seenSlots = make(map[int]string, len(boards))
	)

	for i, board := range boards {
		if board.ID == "" {
			return nil, fmt.Errorf("board %d: %w", i, errEmptyBoardID)
		}

		if _, found := byID[board.ID]; found {
			return nil, fmt.Errorf("board %s: %w", board.ID, errDuplicateBoardID)
		}

		if board.Catalog == nil {
			return nil, fmt.Errorf("board %s: %w", board.ID, errNilCatalog)
		}

		if board.Slot < 0 || board.Slot >= len(boards) {
			return nil, fmt.Errorf("board %s slot %d: %w", board.ID, board.Slot, errSlotOutOfRange)
		}

		if other, found := seenSlots[board.Slot]; found {
			return nil, fmt.Errorf("board %s slot %d already used by %s: %w",
				board.ID, board.Slot, other, errDuplicateSlot)
		}

		byID[board.ID] = i
		seenSlots[board.Slot] = board.ID
	}

	return &Registry{
		boards: append([]BoardDefinition(nil), boards...),
		byID:   byID,
	}, nil
}

// DefaultRegistry returns the registry matching the stock controller wiring:
// two temperature boards, one levels board and one pressure board.
func DefaultRegistry() *Registry {
	registry, err := NewRegistry([]BoardDefinition{
		{ID: "MB1.T1", Catalog: temperatureCatalog, Slot: 0},
		{ID: "DB8.T1", Catalog: temperatureCatalog, Slot: 1},
		{ID: "DB1.L1", Catalog: levelCatalog, Slot: 2},
		{ID: "DB5.P1", Catalog: pressureCatalog, Slot: 3},
	})
	if err != nil {
		// The stock wiring is fixed at compile time and always valid.
		panic(err)
	}

	return registry
}

// Size returns the number of registered boards.
func (r *Registry) Size() int {
	return len(r.boards)
}

// Boards returns the board definitions in registry order.
func (r *Registry) Boards() []BoardDefinition {
	return append([]BoardDefinition(nil), r.boards...)
}

// Lookup resolves a board identifier with an exact, case-sensitive match.
func (r *Registry) Lookup(id string) (BoardDefinition, bool) {
	index, found := r.byID[id]
	if !found {
		return BoardDefinition{}, false
	}

	return r.boards[index], true
}
