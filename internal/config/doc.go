// Package config defines the settings shared by the monitor suite binaries
// and provides helpers to load, validate and save them in YAML format.
//
// The Config type holds broker and InfluxDB parameters, decoder knobs and
// the optional catalog/board tables overriding the stock registry.
package config
