// Package checker implements the ips-alarm-checker watchdog: it verifies
// that the monitor process is alive and that the persisted snapshot keeps
// getting refreshed.
package checker
