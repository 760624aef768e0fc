package influx

import (
	"context"
	"errors"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/magnetlab/ips-alarm-monitor/internal/config"
	"github.com/magnetlab/ips-alarm-monitor/internal/domain/alarms"
	"github.com/magnetlab/ips-alarm-monitor/internal/logger"
)

const (
	// measurement is the InfluxDB measurement decoded statuses are written to.
	measurement = "board_alarms"

	// defaultBatchSize is used when the configuration does not set one.
	defaultBatchSize = 100
	// defaultFlushIntervalSeconds is used when the configuration does not set one.
	defaultFlushIntervalSeconds = 10

	// millisecondsPerSecond converts seconds to the milliseconds the API expects.
	millisecondsPerSecond = 1000

	// pingTimeout bounds the connectivity check at startup.
	pingTimeout = 10 * time.Second
)

var (
	// ErrDisabled is returned when connecting while the sink is disabled.
	ErrDisabled = errors.New("influxdb sink is disabled")
	// ErrConnectionFailed is returned when the server cannot be reached.
	ErrConnectionFailed = errors.New("influxdb connection failed")
)

// Client wraps the InfluxDB v2 client with snapshot recording.
// Writes are batched and asynchronous; write errors surface through the
// configured logger rather than failing a decode cycle.
type Client struct {
	// client is the underlying InfluxDB connection.
	client influxdb2.Client
	// writeAPI is the non-blocking batched write handle.
	writeAPI api.WriteAPI
}

// Connect verifies connectivity and prepares the batched write API.
func Connect(ctx context.Context, cfg config.InfluxConfig) (*Client, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	flushInterval := cfg.FlushIntervalSeconds
	if flushInterval <= 0 {
		flushInterval = defaultFlushIntervalSeconds
	}

	//nolint:gosec // Both values are validated to be positive above.
	client := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(uint(batchSize)).
			SetFlushInterval(uint(flushInterval)*millisecondsPerSecond))

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	healthy, err := client.Ping(pingCtx)
	if err != nil {
		client.Close()

		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	if !healthy {
		client.Close()

		return nil, fmt.Errorf("%w: server not healthy", ErrConnectionFailed)
	}

	writeAPI := client.WriteAPI(cfg.Org, cfg.Bucket)

	// Async write failures are logged; they must not fail decode cycles.
	go func() {
		for writeErr := range writeAPI.Errors() {
			logger.ErrorKV(ctx, "InfluxDB write failed", "error", writeErr)
		}
	}()

	logger.InfoKV(ctx, "Connected to InfluxDB", "url", cfg.URL, "bucket", cfg.Bucket)

	return &Client{
		client:   client,
		writeAPI: writeAPI,
	}, nil
}

// RecordSnapshot writes one point per board for the provided snapshot.
func (c *Client) RecordSnapshot(system string, snapshot *alarms.Snapshot) {
	for _, board := range snapshot.Boards {
		c.writeAPI.WritePoint(boardPoint(system, board, snapshot.Timestamp))
	}
}

// Close flushes pending writes and shuts the connection down.
func (c *Client) Close() {
	if c.client == nil {
		return
	}

	c.writeAPI.Flush()
	c.client.Close()
}

// boardPoint builds the measurement point for one board's decoded status.
func boardPoint(system string, board alarms.BoardStatus, at time.Time) *write.Point {
	return influxdb2.NewPoint(measurement,
		map[string]string{
			"system": system,
			"board":  board.BoardID,
		},
		map[string]interface{}{
			"mask":   int64(board.Mask),
			"faults": board.FaultCount(),
		},
		at)
}
