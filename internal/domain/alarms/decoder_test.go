package alarms

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestDecode_EmptyLine verifies an empty line yields one zero mask per board.
func TestDecode_EmptyLine(t *testing.T) {
	t.Parallel()

	decoder := NewDecoder(DefaultRegistry())

	rs, diagnostics := decoder.Decode("")
	require.Empty(t, diagnostics)
	require.Equal(t, []uint32{0, 0, 0, 0}, rs.Masks())
}

// TestDecode_SingleFault verifies bit 0 is set for a single index-0 fault and
// all other boards keep zero masks.
func TestDecode_SingleFault(t *testing.T) {
	t.Parallel()

	decoder := NewDecoder(DefaultRegistry())

	rs, diagnostics := decoder.Decode("MB1.T1\tOpen circuit;")
	require.Empty(t, diagnostics)
	require.Equal(t, uint32(0b1), rs.Mask(0))
	require.Equal(t, uint32(0), rs.Mask(1))
	require.Equal(t, uint32(0), rs.Mask(2))
	require.Equal(t, uint32(0), rs.Mask(3))
}

// TestDecode_AccumulatesFaults verifies multiple faults on one board OR into
// the same mask.
func TestDecode_AccumulatesFaults(t *testing.T) {
	t.Parallel()

	decoder := NewDecoder(DefaultRegistry())

	rs, diagnostics := decoder.Decode("MB1.T1\tOpen circuit;MB1.T1\tShort circuit;")
	require.Empty(t, diagnostics)
	require.Equal(t, uint32(0b11), rs.Mask(0))

	// Non-adjacent bits: index 0 and index 2 of the temperature catalog.
	rs, diagnostics = decoder.Decode("MB1.T1\tOpen circuit;MB1.T1\tCalibration error;")
	require.Empty(t, diagnostics)
	require.Equal(t, uint32(0b101), rs.Mask(0))
}

// TestDecode_CaseInsensitiveStatus verifies status matching ignores case but
// requires the whole string to match.
func TestDecode_CaseInsensitiveStatus(t *testing.T) {
	t.Parallel()

	decoder := NewDecoder(DefaultRegistry())

	for _, message := range []string{"open circuit", "OPEN CIRCUIT", "Open Circuit", "open CIRCUIT"} {
		rs, diagnostics := decoder.Decode("DB1.L1\t" + message + ";")
		require.Empty(t, diagnostics)

		mask, found := rs.MaskByBoard("DB1.L1")
		require.True(t, found)
		require.Equal(t, uint32(0b1), mask, "message %q", message)
	}

	// Substrings must not match.
	rs, diagnostics := decoder.Decode("DB1.L1\tOpen;")
	require.Len(t, diagnostics, 1)
	require.Equal(t, DiagnosticUnknownStatus, diagnostics[0].Kind)
	require.Equal(t, []uint32{0, 0, 0, 0}, rs.Masks())
}

// TestDecode_CaseSensitiveBoardID verifies board lookup is exact and
// case-sensitive.
func TestDecode_CaseSensitiveBoardID(t *testing.T) {
	t.Parallel()

	decoder := NewDecoder(DefaultRegistry())

	rs, diagnostics := decoder.Decode("mb1.t1\tOpen circuit;")
	require.Len(t, diagnostics, 1)
	require.Equal(t, DiagnosticUnknownBoard, diagnostics[0].Kind)
	require.Equal(t, "mb1.t1", diagnostics[0].BoardID)
	require.Equal(t, []uint32{0, 0, 0, 0}, rs.Masks())
}

// TestDecode_UnknownBoard verifies records for unregistered boards are skipped
// without affecting any mask.
func TestDecode_UnknownBoard(t *testing.T) {
	t.Parallel()

	decoder := NewDecoder(DefaultRegistry())

	rs, diagnostics := decoder.Decode("XX.99\tOpen circuit;")
	require.Len(t, diagnostics, 1)
	require.Equal(t, DiagnosticUnknownBoard, diagnostics[0].Kind)
	require.Equal(t, "XX.99", diagnostics[0].BoardID)
	require.Equal(t, "Open circuit", diagnostics[0].Message)
	require.Equal(t, []uint32{0, 0, 0, 0}, rs.Masks())
}

// TestDecode_MalformedRecord verifies a record without a tab is skipped with
// a diagnostic carrying the token verbatim.
func TestDecode_MalformedRecord(t *testing.T) {
	t.Parallel()

	decoder := NewDecoder(DefaultRegistry())

	rs, diagnostics := decoder.Decode("MB1.T1Open circuit;")
	require.Len(t, diagnostics, 1)
	require.Equal(t, DiagnosticMalformedRecord, diagnostics[0].Kind)
	require.Equal(t, "MB1.T1Open circuit", diagnostics[0].Token)
	require.Equal(t, []uint32{0, 0, 0, 0}, rs.Masks())
}

// TestDecode_EmptyMessage verifies a record with a tab but no message fails
// to resolve and is skipped.
func TestDecode_EmptyMessage(t *testing.T) {
	t.Parallel()

	decoder := NewDecoder(DefaultRegistry())

	rs, diagnostics := decoder.Decode("MB1.T1\t;")
	require.Len(t, diagnostics, 1)
	require.Equal(t, DiagnosticUnknownStatus, diagnostics[0].Kind)
	require.Equal(t, uint32(0), rs.Mask(0))
}

// TestDecode_SkipsBadRecordsAndContinues verifies a failing record in the
// middle of the line does not abort the remaining records.
func TestDecode_SkipsBadRecordsAndContinues(t *testing.T) {
	t.Parallel()

	decoder := NewDecoder(DefaultRegistry())

	rs, diagnostics := decoder.Decode("MB1.T1\tOpen circuit;garbage;DB1.L1\tNo reserve;XX.99\tOpen circuit;")
	require.Len(t, diagnostics, 2)
	require.Equal(t, DiagnosticMalformedRecord, diagnostics[0].Kind)
	require.Equal(t, DiagnosticUnknownBoard, diagnostics[1].Kind)

	require.Equal(t, uint32(0b1), rs.Mask(0))

	mask, found := rs.MaskByBoard("DB1.L1")
	require.True(t, found)
	require.Equal(t, uint32(1<<7), mask)
}

// TestDecode_EmptyTokensDiscarded verifies consecutive, leading and trailing
// separators produce no diagnostics.
func TestDecode_EmptyTokensDiscarded(t *testing.T) {
	t.Parallel()

	decoder := NewDecoder(DefaultRegistry())

	rs, diagnostics := decoder.Decode(";;MB1.T1\tOpen circuit;;;")
	require.Empty(t, diagnostics)
	require.Equal(t, uint32(0b1), rs.Mask(0))
}

// TestDecode_Idempotent verifies decoding the same line twice yields
// identical results with no hidden state.
func TestDecode_Idempotent(t *testing.T) {
	t.Parallel()

	decoder := NewDecoder(DefaultRegistry())
	raw := "MB1.T1\tOpen circuit;DB5.P1\tMains fail;DB1.L1\tOver demand;"

	first, firstDiagnostics := decoder.Decode(raw)
	second, secondDiagnostics := decoder.Decode(raw)

	require.Equal(t, first.Masks(), second.Masks())
	require.Equal(t, firstDiagnostics, secondDiagnostics)

	// A following empty line must not inherit anything from the previous one.
	rs, _ := decoder.Decode("")
	require.Equal(t, []uint32{0, 0, 0, 0}, rs.Masks())
}

// TestDecode_OrderIndependentWithinBoard verifies the same status set in a
// different record order yields an identical mask.
func TestDecode_OrderIndependentWithinBoard(t *testing.T) {
	t.Parallel()

	decoder := NewDecoder(DefaultRegistry())

	forward, _ := decoder.Decode("DB5.P1\tOpen circuit;DB5.P1\tMains fail;DB5.P1\tClock fail;")
	backward, _ := decoder.Decode("DB5.P1\tClock fail;DB5.P1\tMains fail;DB5.P1\tOpen circuit;")

	require.Equal(t, forward.Masks(), backward.Masks())
}

// TestDecode_ReplyHeaderRejectedByDefault verifies an unstripped device reply
// header corrupts the leading record, which is rejected at board lookup.
func TestDecode_ReplyHeaderRejectedByDefault(t *testing.T) {
	t.Parallel()

	decoder := NewDecoder(DefaultRegistry())

	rs, diagnostics := decoder.Decode("STAT:SYS:ALRM:DB8.T1\tOpen circuit;MB1.T1\tShort circuit;")
	require.Len(t, diagnostics, 1)
	require.Equal(t, DiagnosticUnknownBoard, diagnostics[0].Kind)
	require.Equal(t, "STAT:SYS:ALRM:DB8.T1", diagnostics[0].BoardID)

	// The rest of the line still decodes.
	require.Equal(t, uint32(0b10), rs.Mask(0))
	require.Equal(t, uint32(0), rs.Mask(1))
}

// TestDecode_StripPrefixes verifies a configured reply header is removed
// before tokenizing so the leading record resolves normally.
func TestDecode_StripPrefixes(t *testing.T) {
	t.Parallel()

	decoder := NewDecoder(DefaultRegistry(), WithStripPrefixes("STAT:SYS:ALRM:"))

	rs, diagnostics := decoder.Decode("STAT:SYS:ALRM:DB8.T1\tOpen circuit;MB1.T1\tShort circuit;")
	require.Empty(t, diagnostics)
	require.Equal(t, uint32(0b1), rs.Mask(1))
	require.Equal(t, uint32(0b10), rs.Mask(0))

	// Lines without the header are untouched.
	rs, diagnostics = decoder.Decode("MB1.T1\tOpen circuit;")
	require.Empty(t, diagnostics)
	require.Equal(t, uint32(0b1), rs.Mask(0))
}

// TestDecode_TrimSpace verifies the strictness knob: padded fields only
// resolve when trimming is enabled.
func TestDecode_TrimSpace(t *testing.T) {
	t.Parallel()

	strict := NewDecoder(DefaultRegistry())

	_, diagnostics := strict.Decode("MB1.T1\t Open circuit;")
	require.Len(t, diagnostics, 1)
	require.Equal(t, DiagnosticUnknownStatus, diagnostics[0].Kind)

	lenient := NewDecoder(DefaultRegistry(), WithTrimSpace(true))

	rs, diagnostics := lenient.Decode(" MB1.T1 \t Open circuit ;")
	require.Empty(t, diagnostics)
	require.Equal(t, uint32(0b1), rs.Mask(0))
}

// TestDiagnosticKindString verifies diagnostic kinds map to stable names used
// in structured logs.
func TestDiagnosticKindString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "malformed_record", DiagnosticMalformedRecord.String())
	require.Equal(t, "unknown_board", DiagnosticUnknownBoard.String())
	require.Equal(t, "unknown_status", DiagnosticUnknownStatus.String())
	require.Equal(t, "unknown", DiagnosticKind(42).String())
}
