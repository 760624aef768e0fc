package alarms

import (
	"strings"
)

const (
	// entrySeparator splits the raw line into board records. Not escapable:
	// a literal ';' inside a status message corrupts the wire format.
	entrySeparator = ";"
	// recordSeparator splits one record into board identifier and message.
	recordSeparator = "\t"
)

// DiagnosticKind classifies why a record was skipped during a decode.
type DiagnosticKind int

const (
	// DiagnosticMalformedRecord marks a token without a tab separator.
	DiagnosticMalformedRecord DiagnosticKind = iota
	// DiagnosticUnknownBoard marks a board identifier missing from the registry.
	DiagnosticUnknownBoard
	// DiagnosticUnknownStatus marks a message missing from the board's catalog.
	DiagnosticUnknownStatus
)

// String returns a short machine-friendly name for the diagnostic kind.
func (k DiagnosticKind) String() string {
	switch k {
	case DiagnosticMalformedRecord:
		return "malformed_record"
	case DiagnosticUnknownBoard:
		return "unknown_board"
	case DiagnosticUnknownStatus:
		return "unknown_status"
	default:
		return "unknown"
	}
}

// Diagnostic describes one skipped record. Diagnostics never abort a decode;
// they are surfaced so callers can log the offending input.
type Diagnostic struct {
	// Kind classifies the failure.
	Kind DiagnosticKind
	// Token is the offending record verbatim.
	Token string
	// BoardID is the parsed board identifier, when the record had one.
	BoardID string
	// Message is the parsed status message, when the record had one.
	Message string
}

// Option configures decoder behaviour.
type Option func(*Decoder)

// WithTrimSpace controls whether board identifiers and status messages are
// trimmed of surrounding whitespace before matching. The wire format does not
// pad fields, so trimming is off by default; the knob exists because some
// firmware revisions have been observed to pad messages.
func WithTrimSpace(trim bool) Option {
	return func(d *Decoder) {
		d.trimSpace = trim
	}
}

// WithStripPrefixes registers free-text prefixes (such as the device's reply
// header) that are removed from the start of the raw line before tokenizing.
// At most one prefix is stripped per decode. Without a matching prefix the
// leading record keeps the header glued to its board identifier and is
// rejected at registry lookup.
func WithStripPrefixes(prefixes ...string) Option {
	return func(d *Decoder) {
		d.stripPrefixes = append(d.stripPrefixes, prefixes...)
	}
}

// Decoder turns one raw alarm line into per-board fault bitmasks.
// It holds only immutable configuration, so a single instance is safe for
// concurrent use and Decode is deterministic for identical inputs.
type Decoder struct {
	// registry is the fixed set of monitored boards.
	registry *Registry
	// trimSpace enables whitespace trimming of parsed fields.
	trimSpace bool
	// stripPrefixes are reply headers removed before tokenizing.
	stripPrefixes []string
}

// NewDecoder builds a decoder over the provided registry.
func NewDecoder(registry *Registry, opts ...Option) *Decoder {
	d := &Decoder{
		registry: registry,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Registry returns the registry the decoder resolves boards against.
func (d *Decoder) Registry() *Registry {
	return d.registry
}

// Decode processes one raw alarm line in a single pass and returns exactly
// one mask per registered board plus the diagnostics for skipped records.
//
// Every mask starts at zero: a board absent from the line (or contributing
// only unresolvable records) resolves to a zero mask, never to a previous
// value. Multiple faults for one board accumulate by OR, so record order
// within a board does not matter.
func (d *Decoder) Decode(raw string) (ResultSet, []Diagnostic) {
	masks := make([]uint32, d.registry.Size())

	var diagnostics []Diagnostic

	for _, prefix := range d.stripPrefixes {
		if prefix != "" && strings.HasPrefix(raw, prefix) {
			raw = raw[len(prefix):]
			break
		}
	}

	for _, token := range strings.Split(raw, entrySeparator) {
		if token == "" {
			continue
		}

		boardID, message, found := strings.Cut(token, recordSeparator)
		if !found {
			diagnostics = append(diagnostics, Diagnostic{
				Kind:  DiagnosticMalformedRecord,
				Token: token,
			})

			continue
		}

		if d.trimSpace {
			boardID = strings.TrimSpace(boardID)
			message = strings.TrimSpace(message)
		}

		board, ok := d.registry.Lookup(boardID)
		if !ok {
			diagnostics = append(diagnostics, Diagnostic{
				Kind:    DiagnosticUnknownBoard,
				Token:   token,
				BoardID: boardID,
				Message: message,
			})

			continue
		}

		bit, ok := board.Catalog.Resolve(message)
		if !ok {
			diagnostics = append(diagnostics, Diagnostic{
				Kind:    DiagnosticUnknownStatus,
				Token:   token,
				BoardID: boardID,
				Message: message,
			})

			continue
		}

		masks[board.Slot] |= 1 << bit
	}

	return ResultSet{
		registry: d.registry,
		masks:    masks,
	}, diagnostics
}
