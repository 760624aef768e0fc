package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/magnetlab/ips-alarm-monitor/internal/config"
	"github.com/magnetlab/ips-alarm-monitor/internal/emitter"
	"github.com/magnetlab/ips-alarm-monitor/internal/influx"
	"github.com/magnetlab/ips-alarm-monitor/internal/logger"
	"github.com/magnetlab/ips-alarm-monitor/internal/mqtt"
	"github.com/magnetlab/ips-alarm-monitor/internal/repository/snapshot"
	"github.com/magnetlab/ips-alarm-monitor/internal/service/common"
)

// Options controls the ips-alarm-monitor process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// SnapshotFile provides an optional override for the snapshot JSON path.
	SnapshotFile string
}

const (
	// healthInterval is how often the monitor publishes its health report.
	healthInterval = 30 * time.Second
	// lineQueueSize bounds the raw line queue between the MQTT callback
	// and the processing loop.
	lineQueueSize = 64
)

// Run starts the monitor daemon and blocks until the context is canceled.
// It subscribes to the raw alarm topic and decodes every received line.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "ips-alarm-monitor")

	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if level, ok := logger.ParseLogLevel(settings.LogLevel); ok {
		logger.SetLevel(level)
	}

	// Use snapshot file from config unless overridden by command line option.
	snapshotFile := settings.SnapshotFile
	if opts.SnapshotFile != "" {
		snapshotFile = opts.SnapshotFile
	}

	// An invalid board or catalog table is fatal: masks would be
	// meaningless, so the daemon refuses to start.
	decoder, err := common.BuildDecoder(settings)
	if err != nil {
		return fmt.Errorf("build decoder: %w", err)
	}

	actor, err := common.DetectActor()
	if err != nil {
		return fmt.Errorf("detect actor: %w", err)
	}

	broker, err := mqtt.Connect(ctx, settings.Broker, settings.Timeout)
	if err != nil {
		return fmt.Errorf("connect broker: %w", err)
	}
	defer broker.Close()

	sinks := []emitter.Emitter{
		emitter.NewMQTT(broker, settings.System),
		emitter.NewSnapshot(snapshot.NewFileRepository(snapshotFile)),
	}

	if settings.Influx.Enabled {
		metrics, influxErr := influx.Connect(ctx, settings.Influx)
		if influxErr != nil {
			return fmt.Errorf("connect influx: %w", influxErr)
		}
		defer metrics.Close()

		sinks = append(sinks, emitter.NewInflux(metrics, settings.System))
	}

	svc := newService(decoder, emitter.NewMulti(sinks...), actor.String())

	lines := make(chan string, lineQueueSize)

	rawTopic := mqtt.RawTopic(settings.System)
	if err = broker.Subscribe(rawTopic, func(_ string, payload []byte) {
		select {
		case lines <- string(payload):
		default:
			logger.Warn(ctx, "Line queue full, dropping alarm line")
		}
	}); err != nil {
		return fmt.Errorf("subscribe to %s: %w", rawTopic, err)
	}

	logger.InfoKV(ctx, "Alarm monitor started",
		"raw_topic", rawTopic,
		"snapshot_file", snapshotFile,
		"actor", actor.String())

	healthTicker := time.NewTicker(healthInterval)
	defer healthTicker.Stop()

	publishHealth(ctx, broker, settings.System, svc)

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Alarm monitor stopped")

			return nil
		case raw := <-lines:
			// Sink failures are logged inside ProcessLine; the daemon
			// keeps decoding so a slow sink never stalls the stream.
			_, _ = svc.ProcessLine(ctx, raw)
		case <-healthTicker.C:
			publishHealth(ctx, broker, settings.System, svc)
		}
	}
}

// publishHealth publishes a retained health report for the checker.
func publishHealth(ctx context.Context, broker *mqtt.Client, system string, svc *service) {
	payload, err := json.Marshal(svc.Health())
	if err != nil {
		logger.ErrorKV(ctx, "Failed to marshal health report", "error", err)

		return
	}

	if err = broker.Publish(mqtt.HealthTopic(system), payload, true); err != nil {
		logger.WarnKV(ctx, "Failed to publish health report", "error", err)
	}
}
