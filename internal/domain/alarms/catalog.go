package alarms

import (
	"errors"
	"fmt"
	"strings"
)

// MaxCatalogSize is the maximum number of entries a catalog may hold so that
// every entry maps onto a bit of a uint32 mask.
const MaxCatalogSize = 32

var (
	// errEmptyCatalogName is returned when a catalog is created without a name.
	errEmptyCatalogName = errors.New("catalog name must be provided")
	// errEmptyCatalog is returned when a catalog is created with no entries.
	errEmptyCatalog = errors.New("catalog must contain at least one entry")
	// errCatalogTooLarge is returned when a catalog exceeds the mask width.
	errCatalogTooLarge = errors.New("catalog exceeds maximum size")
	// errBlankCatalogEntry is returned when a catalog entry is empty or blank.
	errBlankCatalogEntry = errors.New("catalog entry must not be blank")
)

// StatusCatalog is an ordered, immutable list of fault descriptions for one
// board type. The position of an entry defines the bit index in the output
// mask, so the order is never reindexed after construction.
type StatusCatalog struct {
	// name identifies the board type this catalog describes (e.g. "level").
	name string
	// entries are the fault descriptions in bit order.
	entries []string
}

// NewStatusCatalog builds a catalog from the provided entries.
// Entry order is significant and preserved verbatim.
func NewStatusCatalog(name string, entries []string) (*StatusCatalog, error) {
	if name == "" {
		return nil, errEmptyCatalogName
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("catalog %s: %w", name, errEmptyCatalog)
	}

	if len(entries) > MaxCatalogSize {
		return nil, fmt.Errorf("catalog %s has %d entries: %w", name, len(entries), errCatalogTooLarge)
	}

	for i, entry := range entries {
		if strings.TrimSpace(entry) == "" {
			return nil, fmt.Errorf("catalog %s entry %d: %w", name, i, errBlankCatalogEntry)
		}
	}

	return &StatusCatalog{
		name:    name,
		entries: append([]string(nil), entries...),
	}, nil
}

// mustNewStatusCatalog builds a catalog and panics on invalid input.
// Only used for the built-in tables, which are fixed at compile time.
func mustNewStatusCatalog(name string, entries []string) *StatusCatalog {
	catalog, err := NewStatusCatalog(name, entries)
	if err != nil {
		panic(err)
	}

	return catalog
}

// Name returns the board type name of the catalog.
func (c *StatusCatalog) Name() string {
	return c.name
}

// Len returns the number of entries in the catalog.
func (c *StatusCatalog) Len() int {
	return len(c.entries)
}

// Entry returns the fault description at the provided bit index.
func (c *StatusCatalog) Entry(index int) string {
	return c.entries[index]
}

// Resolve maps a status message onto its bit index using case-insensitive,
// whole-string comparison. It returns the index of the first matching entry,
// or false when the message (including an empty one) matches nothing.
func (c *StatusCatalog) Resolve(message string) (int, bool) {
	if message == "" {
		return 0, false
	}

	for i, entry := range c.entries {
		if strings.EqualFold(entry, message) {
			return i, true
		}
	}

	return 0, false
}

// Built-in catalogs reproducing the controller fault tables.
//
//nolint:gochecknoglobals // Immutable after construction; shared by design.
var (
	temperatureCatalog = mustNewStatusCatalog("temperature", []string{
		"Open circuit",
		"Short circuit",
		"Calibration error",
		"Firmware error",
		"Board not configured",
	})

	levelCatalog = mustNewStatusCatalog("level", []string{
		"Open circuit",
		"Short circuit",
		"ADC error",
		"Over demand",
		"Over temperature",
		"Firmware error",
		"Board not configured",
		"No reserve",
	})

	pressureCatalog = mustNewStatusCatalog("pressure", []string{
		"Open circuit",
		"Short circuit",
		"Calibration error",
		"Firmware error",
		"Board not configured",
		"Over current",
		"Current leakage",
		"Power on fail",
		"Checksum fail",
		"Clock fail",
		"ADC fail",
		"Mains fail",
		"Reference fail",
		"12V fail",
		"-12V fail",
		"8V fail",
		"-8V fail",
		"Amp gain error",
		"Amp offset error",
		"ADC offset error",
		"ADC PGA error",
		"ADC XTAL error",
		"Excitation + error",
		"Excitation - error",
	})
)

// TemperatureCatalog returns the built-in temperature controller catalog.
func TemperatureCatalog() *StatusCatalog {
	return temperatureCatalog
}

// LevelCatalog returns the built-in levels controller catalog.
func LevelCatalog() *StatusCatalog {
	return levelCatalog
}

// PressureCatalog returns the built-in pressure controller catalog.
func PressureCatalog() *StatusCatalog {
	return pressureCatalog
}

// BuiltinCatalogs returns the built-in catalogs keyed by board type name.
func BuiltinCatalogs() map[string]*StatusCatalog {
	return map[string]*StatusCatalog{
		temperatureCatalog.Name(): temperatureCatalog,
		levelCatalog.Name():       levelCatalog,
		pressureCatalog.Name():    pressureCatalog,
	}
}
