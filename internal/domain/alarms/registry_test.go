package alarms

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestNewRegistry_Validation exercises the configuration checks that must
// refuse to run rather than decode against a broken board set.
func TestNewRegistry_Validation(t *testing.T) {
	t.Parallel()

	catalog := TemperatureCatalog()

	// No boards.
	_, err := NewRegistry(nil)
	require.Error(t, err)

	// Empty identifier.
	_, err = NewRegistry([]BoardDefinition{
		{ID: "", Catalog: catalog, Slot: 0},
	})
	require.Error(t, err)

	// Duplicate identifier.
	_, err = NewRegistry([]BoardDefinition{
		{ID: "MB1.T1", Catalog: catalog, Slot: 0},
		{ID: "MB1.T1", Catalog: catalog, Slot: 1},
	})
	require.Error(t, err)

	// Missing catalog.
	_, err = NewRegistry([]BoardDefinition{
		{ID: "MB1.T1", Catalog: nil, Slot: 0},
	})
	require.Error(t, err)

	// Slot out of range.
	_, err = NewRegistry([]BoardDefinition{
		{ID: "MB1.T1", Catalog: catalog, Slot: 1},
	})
	require.Error(t, err)

	_, err = NewRegistry([]BoardDefinition{
		{ID: "MB1.T1", Catalog: catalog, Slot: -1},
	})
	require.Error(t, err)

	// Duplicate slot.
	_, err = NewRegistry([]BoardDefinition{
		{ID: "MB1.T1", Catalog: catalog, Slot: 0},
		{ID: "DB8.T1", Catalog: catalog, Slot: 0},
	})
	require.Error(t, err)
}

// TestDefaultRegistry verifies the stock wiring: board order, slots and
// catalog assignments.
func TestDefaultRegistry(t *testing.T) {
	t.Parallel()

	registry := DefaultRegistry()
	require.Equal(t, 4, registry.Size())

	boards := registry.Boards()
	require.Equal(t, "MB1.T1", boards[0].ID)
	require.Equal(t, "DB8.T1", boards[1].ID)
	require.Equal(t, "DB1.L1", boards[2].ID)
	require.Equal(t, "DB5.P1", boards[3].ID)

	for i, board := range boards {
		require.Equal(t, i, board.Slot)
	}

	levels, found := registry.Lookup("DB1.L1")
	require.True(t, found)
	require.Equal(t, "level", levels.Catalog.Name())
	require.Equal(t, 8, levels.Catalog.Len())

	pressure, found := registry.Lookup("DB5.P1")
	require.True(t, found)
	require.Equal(t, "pressure", pressure.Catalog.Name())
	require.Equal(t, 24, pressure.Catalog.Len())

	_, found = registry.Lookup("DB9.X1")
	require.False(t, found)
}

// TestNewStatusCatalog_Validation covers catalog construction limits.
func TestNewStatusCatalog_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewStatusCatalog("", []string{"Open circuit"})
	require.Error(t, err)

	_, err = NewStatusCatalog("temperature", nil)
	require.Error(t, err)

	_, err = NewStatusCatalog("temperature", []string{"Open circuit", "  "})
	require.Error(t, err)

	oversized := make([]string, MaxCatalogSize+1)
	for i := range oversized {
		oversized[i] = "Fault"
	}

	_, err = NewStatusCatalog("temperature", oversized)
	require.Error(t, err)

	catalog, err := NewStatusCatalog("custom", []string{"Open circuit", "Short circuit"})
	require.NoError(t, err)
	require.Equal(t, 2, catalog.Len())
	require.Equal(t, "Short circuit", catalog.Entry(1))
}

// TestStatusCatalogResolve verifies ordered, case-insensitive, whole-string
// resolution and the empty-message edge case.
func TestStatusCatalogResolve(t *testing.T) {
	t.Parallel()

	catalog := PressureCatalog()

	index, found := catalog.Resolve("mains FAIL")
	require.True(t, found)
	require.Equal(t, 11, index)

	_, found = catalog.Resolve("")
	require.False(t, found)

	_, found = catalog.Resolve("Mains")
	require.False(t, found)
}

// TestBuiltinCatalogs verifies the catalog lookup table used by config
// translation.
func TestBuiltinCatalogs(t *testing.T) {
	t.Parallel()

	catalogs := BuiltinCatalogs()
	require.Len(t, catalogs, 3)
	require.Same(t, TemperatureCatalog(), catalogs["temperature"])
	require.Same(t, LevelCatalog(), catalogs["level"])
	require.Same(t, PressureCatalog(), catalogs["pressure"])
}
