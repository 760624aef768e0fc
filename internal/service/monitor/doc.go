// Package monitor implements the ips-alarm-monitor daemon: it subscribes
// to the raw alarm line topic, decodes each line into per-board fault
// masks and fans the resulting snapshots out to the configured sinks.
package monitor
