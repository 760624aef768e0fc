package emitter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/magnetlab/ips-alarm-monitor/internal/domain/alarms"
	"github.com/magnetlab/ips-alarm-monitor/internal/influx"
	"github.com/magnetlab/ips-alarm-monitor/internal/mqtt"
	"github.com/magnetlab/ips-alarm-monitor/internal/repository/snapshot"
)

// Emitter delivers one completed decode cycle to a sink. Implementations
// must deliver every board of the snapshot, in order, every cycle: a board
// with no active faults is published with a zero mask, not omitted.
type Emitter interface {
	Emit(ctx context.Context, snap *alarms.Snapshot) error
}

// Publisher is the broker operation the MQTT emitter depends on.
type Publisher interface {
	Publish(topic string, payload []byte, retained bool) error
}

// boardPayload is the JSON shape published per board.
type boardPayload struct {
	alarms.BoardStatus

	// Timestamp is when the cycle was decoded.
	Timestamp time.Time `json:"timestamp"`
	// CycleID ties the message to its decode cycle across sinks and logs.
	CycleID string `json:"cycle_id"`
}

// MQTT publishes one retained message per board so late subscribers always
// see the current state of every board.
type MQTT struct {
	// publisher is the broker connection messages are sent through.
	publisher Publisher
	// system is the installation name used in topic construction.
	system string
}

// NewMQTT builds the broker emitter for the provided installation.
func NewMQTT(publisher Publisher, system string) *MQTT {
	return &MQTT{
		publisher: publisher,
		system:    system,
	}
}

// Emit publishes every board of the snapshot in registry order. A failing
// board does not stop the remaining ones; all failures are reported together.
func (e *MQTT) Emit(_ context.Context, snap *alarms.Snapshot) error {
	var errs []error

	for _, board := range snap.Boards {
		payload, err := json.Marshal(boardPayload{
			BoardStatus: board,
			Timestamp:   snap.Timestamp,
			CycleID:     snap.CycleID,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("encode board %s: %w", board.BoardID, err))

			continue
		}

		topic := mqtt.BoardTopic(e.system, board.BoardID)
		if err := e.publisher.Publish(topic, payload, true); err != nil {
			errs = append(errs, fmt.Errorf("publish board %s: %w", board.BoardID, err))
		}
	}

	return errors.Join(errs...)
}

// Influx records the snapshot to InfluxDB. Writes are batched and
// asynchronous, so Emit never blocks on the database.
type Influx struct {
	// client is the InfluxDB connection points are written through.
	client *influx.Client
	// system is the installation name used as a point tag.
	system string
}

// NewInflux builds the InfluxDB emitter for the provided installation.
func NewInflux(client *influx.Client, system string) *Influx {
	return &Influx{
		client: client,
		system: system,
	}
}

// Emit queues one point per board for asynchronous writing.
func (e *Influx) Emit(_ context.Context, snap *alarms.Snapshot) error {
	e.client.RecordSnapshot(e.system, snap)

	return nil
}

// Snapshot persists the cycle through the snapshot repository so the checker
// and operators can inspect the latest decoded state.
type Snapshot struct {
	// repo is the persistence backend.
	repo snapshot.Repository
}

// NewSnapshot builds the snapshot-persisting emitter.
func NewSnapshot(repo snapshot.Repository) *Snapshot {
	return &Snapshot{
		repo: repo,
	}
}

// Emit saves the snapshot, replacing the previous cycle.
func (e *Snapshot) Emit(ctx context.Context, snap *alarms.Snapshot) error {
	if err := e.repo.Save(ctx, snap); err != nil {
		return fmt.Errorf("persist snapshot: %w", err)
	}

	return nil
}

// Multi fans one cycle out to several sinks. Every sink is attempted every
// cycle regardless of earlier failures; the combined error is returned.
type Multi struct {
	// emitters are the sinks, attempted in order.
	emitters []Emitter
}

// NewMulti combines the provided emitters. Nil entries are skipped so
// callers can pass optional sinks unconditionally.
func NewMulti(emitters ...Emitter) *Multi {
	combined := make([]Emitter, 0, len(emitters))

	for _, e := range emitters {
		if e != nil {
			combined = append(combined, e)
		}
	}

	return &Multi{
		emitters: combined,
	}
}

// Emit delivers the snapshot to every sink and joins their failures.
func (m *Multi) Emit(ctx context.Context, snap *alarms.Snapshot) error {
	var errs []error

	for _, e := range m.emitters {
		if err := e.Emit(ctx, snap); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
