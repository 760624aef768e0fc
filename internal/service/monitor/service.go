package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/magnetlab/ips-alarm-monitor/internal/domain/alarms"
	"github.com/magnetlab/ips-alarm-monitor/internal/emitter"
	"github.com/magnetlab/ips-alarm-monitor/internal/logger"
)

// service decodes raw alarm lines and forwards snapshots to the sinks.
// It is unexported to keep the transport decoupled from the implementation.
type service struct {
	// decoder translates raw lines into per-board fault masks.
	decoder *alarms.Decoder
	// sink receives every decoded snapshot.
	sink emitter.Emitter
	// source identifies the producer recorded in each snapshot.
	source string
	// now returns the current time; replaceable in tests.
	now func() time.Time
	// mu protects the counters and the last snapshot.
	mu sync.RWMutex
	// last is the most recently produced snapshot.
	last *alarms.Snapshot
	// cycles counts processed lines since startup.
	cycles uint64
	// diagnostics counts non-fatal decode findings since startup.
	diagnostics uint64
}

// newService creates a service writing snapshots to the provided sink.
func newService(decoder *alarms.Decoder, sink emitter.Emitter, source string) *service {
	return &service{
		decoder: decoder,
		sink:    sink,
		source:  source,
		now:     time.Now,
	}
}

// ProcessLine decodes one raw alarm line and emits the resulting snapshot.
// Decode findings are logged and counted but never abort the cycle; only
// sink failures are returned.
func (s *service) ProcessLine(ctx context.Context, raw string) (*alarms.Snapshot, error) {
	cycleID := uuid.NewString()
	ctx = logger.WithKV(ctx, "cycle_id", cycleID)

	results, diagnostics := s.decoder.Decode(raw)
	for _, d := range diagnostics {
		logger.WarnKV(ctx, "Alarm line diagnostic",
			"kind", d.Kind.String(),
			"token", d.Token,
			"board", d.BoardID,
			"message", d.Message)
	}

	snapshot := alarms.NewSnapshot(results, cycleID, s.source, s.now())

	s.mu.Lock()
	s.last = snapshot
	s.cycles++
	s.diagnostics += uint64(len(diagnostics))
	s.mu.Unlock()

	if err := s.sink.Emit(ctx, snapshot); err != nil {
		logger.ErrorKV(ctx, "Failed to emit snapshot", "error", err)

		return snapshot, err
	}

	logger.DebugKV(ctx, "Alarm line processed",
		"boards", len(snapshot.Boards),
		"diagnostics", len(diagnostics))

	return snapshot, nil
}

// Health reports the processing counters for the health topic.
func (s *service) Health() HealthReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report := HealthReport{
		Source:      s.source,
		Cycles:      s.cycles,
		Diagnostics: s.diagnostics,
		Timestamp:   s.now(),
	}

	if s.last != nil {
		report.LastCycleID = s.last.CycleID
		report.LastCycleAt = s.last.Timestamp
	}

	return report
}

// HealthReport is the payload published on the monitor health topic.
type HealthReport struct {
	// Source identifies the monitor instance (username@hostname).
	Source string `json:"source"`
	// Cycles counts processed lines since startup.
	Cycles uint64 `json:"cycles"`
	// Diagnostics counts non-fatal decode findings since startup.
	Diagnostics uint64 `json:"diagnostics"`
	// LastCycleID is the identifier of the most recent cycle, if any.
	LastCycleID string `json:"last_cycle_id,omitempty"`
	// LastCycleAt is the timestamp of the most recent cycle, if any.
	LastCycleAt time.Time `json:"last_cycle_at,omitzero"`
	// Timestamp is when the report was generated.
	Timestamp time.Time `json:"timestamp"`
}
