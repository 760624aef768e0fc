package decode

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestRun_TextOutput verifies the default text rendering of a decoded line.
func TestRun_TextOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	err := Run(context.Background(), &Options{
		ConfigPath: filepath.Join(t.TempDir(), "missing.yaml"),
		Line:       "MB1.T1\tOpen circuit;DB5.P1\tMains fail;",
		Output:     &buf,
	})
	require.NoError(t, err)

	output := buf.String()
	require.Contains(t, output, "MB1.T1\t0x00000001\tOpen circuit")
	require.Contains(t, output, "DB5.P1\t0x00000800\tMains fail")
	require.Contains(t, output, "DB8.T1\t0x00000000\t-")
	require.Contains(t, output, "DB1.L1\t0x00000000\t-")
}

// TestRun_TextOutput_Diagnostics verifies warnings are rendered after masks.
func TestRun_TextOutput_Diagnostics(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	err := Run(context.Background(), &Options{
		ConfigPath: filepath.Join(t.TempDir(), "missing.yaml"),
		Line:       "DB9.X1\tOpen circuit;",
		Output:     &buf,
	})
	require.NoError(t, err)
	require.Contains(t, buf.String(), "warning: unknown_board")
}

// TestRun_JSONOutput verifies the JSON report shape.
func TestRun_JSONOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	err := Run(context.Background(), &Options{
		ConfigPath: filepath.Join(t.TempDir(), "missing.yaml"),
		Line:       "DB1.L1\tNo reserve;garbage;",
		AsJSON:     true,
		Output:     &buf,
	})
	require.NoError(t, err)

	var report decodeReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	require.NotNil(t, report.Snapshot)
	require.Len(t, report.Snapshot.Boards, 4)
	require.Len(t, report.Diagnostics, 1)
	require.Equal(t, "malformed_record", report.Diagnostics[0].Kind)

	board, found := report.Snapshot.Board("DB1.L1")
	require.True(t, found)
	require.Equal(t, uint32(1)<<7, board.Mask)
}

// TestReadLine covers the stdin reading helper.
func TestReadLine(t *testing.T) {
	t.Parallel()

	line, err := readLine(strings.NewReader("MB1.T1\tOpen circuit;\n"))
	require.NoError(t, err)
	require.Equal(t, "MB1.T1\tOpen circuit;", line)

	_, err = readLine(strings.NewReader(""))
	require.ErrorIs(t, err, ErrNoInput)
}
