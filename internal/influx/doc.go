// Package influx records decoded board statuses to InfluxDB so fault
// history can be charted next to the rest of the installation's telemetry.
// Writes are batched and non-blocking; the sink is optional.
package influx
