package decode

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magnetlab/ips-alarm-monitor/internal/config"
	"github.com/magnetlab/ips-alarm-monitor/internal/domain/alarms"
	"github.com/magnetlab/ips-alarm-monitor/internal/logger"
	"github.com/magnetlab/ips-alarm-monitor/internal/service/common"
)

// Options configures the one-shot decode run.
type Options struct {
	// ConfigPath specifies the path to settings YAML file. When the file
	// does not exist the stock board wiring is used.
	ConfigPath string
	// Line is the raw alarm line to decode. Empty means read from stdin.
	Line string
	// AsJSON switches the output from the text table to a JSON snapshot.
	AsJSON bool
	// Output receives the rendered result; defaults to stdout.
	Output io.Writer
}

// ErrNoInput indicates that no alarm line was provided.
var ErrNoInput = errors.New("no alarm line provided")

// Run decodes one raw alarm line and renders the result.
// Decode findings are printed alongside the masks and never fail the run.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "ips-alarm-decode")

	decoder, err := buildDecoder(opts.ConfigPath)
	if err != nil {
		return err
	}

	raw := opts.Line
	if raw == "" {
		if raw, err = readLine(os.Stdin); err != nil {
			return err
		}
	}

	output := opts.Output
	if output == nil {
		output = os.Stdout
	}

	results, diagnostics := decoder.Decode(raw)
	snapshot := alarms.NewSnapshot(results, uuid.NewString(), "ips-alarm-decode", time.Now())

	if opts.AsJSON {
		return renderJSON(output, snapshot, diagnostics)
	}

	renderText(output, snapshot, diagnostics)

	logger.DebugKV(ctx, "Line decoded", "boards", len(snapshot.Boards), "diagnostics", len(diagnostics))

	return nil
}

// buildDecoder loads the configuration when present and falls back to the
// stock wiring when the settings file does not exist.
func buildDecoder(configPath string) (*alarms.Decoder, error) {
	settings, err := config.Load(configPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load settings: %w", err)
		}

		settings = &config.Config{}
	}

	decoder, err := common.BuildDecoder(settings)
	if err != nil {
		return nil, fmt.Errorf("build decoder: %w", err)
	}

	return decoder, nil
}

// readLine reads a single line from the reader, trimming the trailing newline.
func readLine(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}

		return "", ErrNoInput
	}

	return scanner.Text(), nil
}

// decodeReport is the JSON shape produced with the --json flag.
type decodeReport struct {
	// Snapshot holds the decoded per-board statuses.
	Snapshot *alarms.Snapshot `json:"snapshot"`
	// Diagnostics lists the non-fatal findings of the decode.
	Diagnostics []diagnosticReport `json:"diagnostics,omitempty"`
}

// diagnosticReport mirrors a decode diagnostic with a stable kind string.
type diagnosticReport struct {
	Kind    string `json:"kind"`
	Token   string `json:"token,omitempty"`
	BoardID string `json:"board_id,omitempty"`
	Message string `json:"message,omitempty"`
}

func renderJSON(w io.Writer, snapshot *alarms.Snapshot, diagnostics []alarms.Diagnostic) error {
	report := decodeReport{Snapshot: snapshot}
	for _, d := range diagnostics {
		report.Diagnostics = append(report.Diagnostics, diagnosticReport{
			Kind:    d.Kind.String(),
			Token:   d.Token,
			BoardID: d.BoardID,
			Message: d.Message,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	return nil
}

func renderText(w io.Writer, snapshot *alarms.Snapshot, diagnostics []alarms.Diagnostic) {
	for _, board := range snapshot.Boards {
		faults := "-"
		if len(board.Active) > 0 {
			faults = strings.Join(board.Active, ", ")
		}

		fmt.Fprintf(w, "%s\t0x%08X\t%s\n", board.BoardID, board.Mask, faults)
	}

	for _, d := range diagnostics {
		fmt.Fprintf(w, "warning: %s: %q\n", d.Kind, d.Token)
	}
}
