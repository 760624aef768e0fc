//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"fmt"

	"github.com/magnetlab/ips-alarm-monitor/internal/config"
	"github.com/magnetlab/ips-alarm-monitor/internal/domain/alarms"
)

// defaultBoards mirrors the stock controller wiring as configuration
// entries so that catalog overrides still apply when the boards table
// is left empty.
var defaultBoards = []config.BoardConfig{
	{ID: "MB1.T1", Catalog: "temperature", Slot: 0},
	{ID: "DB8.T1", Catalog: "temperature", Slot: 1},
	{ID: "DB1.L1", Catalog: "level", Slot: 2},
	{ID: "DB5.P1", Catalog: "pressure", Slot: 3},
}

// BuildRegistry assembles the board registry from the configuration,
// merging user-declared catalogs over the built-in ones.
func BuildRegistry(cfg *config.Config) (*alarms.Registry, error) {
	catalogs := alarms.BuiltinCatalogs()

	for name, entries := range cfg.Catalogs {
		catalog, err := alarms.NewStatusCatalog(name, entries)
		if err != nil {
			return nil, fmt.Errorf("build catalog %q: %w", name, err)
		}

		catalogs[name] = catalog
	}

	boards := cfg.Boards
	if len(boards) == 0 {
		boards = defaultBoards
	}

	definitions := make([]alarms.BoardDefinition, 0, len(boards))

	for _, board := range boards {
		catalog, found := catalogs[board.Catalog]
		if !found {
			return nil, fmt.Errorf("board %q references unknown catalog %q", board.ID, board.Catalog)
		}

		definitions = append(definitions, alarms.BoardDefinition{
			ID:      board.ID,
			Catalog: catalog,
			Slot:    board.Slot,
		})
	}

	registry, err := alarms.NewRegistry(definitions)
	if err != nil {
		return nil, fmt.Errorf("build registry: %w", err)
	}

	return registry, nil
}

// BuildDecoder assembles the decoder from the configuration,
// applying the configured strictness knobs.
func BuildDecoder(cfg *config.Config) (*alarms.Decoder, error) {
	registry, err := BuildRegistry(cfg)
	if err != nil {
		return nil, err
	}

	options := []alarms.Option{
		alarms.WithTrimSpace(cfg.Decoder.TrimSpace),
	}

	if len(cfg.Decoder.StripPrefixes) > 0 {
		options = append(options, alarms.WithStripPrefixes(cfg.Decoder.StripPrefixes...))
	}

	return alarms.NewDecoder(registry, options...), nil
}
