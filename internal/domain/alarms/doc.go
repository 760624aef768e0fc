// Package alarms contains the core domain logic for decoding controller
// alarm lines.
//
// It defines the status catalogs and board registry, and the Decoder that
// turns one raw alarm line into a fixed set of per-board fault bitmasks.
// The decoder is a pure function over its inputs: no state is retained
// between invocations.
package alarms
