// Package common holds helpers shared by several services.
//
// It provides utilities to detect the current system actor
// (hostname/username) for audit purposes and to build the board registry
// and decoder from configuration tables.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
