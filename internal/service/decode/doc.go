// Package decode implements the one-shot ips-alarm-decode command: it
// decodes a single raw alarm line and prints the per-board fault masks
// without touching the broker.
package decode
