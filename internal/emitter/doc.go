// Package emitter defines the boundary through which completed decode
// cycles leave the core: the Emitter interface plus sinks for the broker,
// InfluxDB and the on-disk snapshot, and a fan-out combining them.
package emitter
