// Package types defines the engine and table contracts, entity types, and
// standard errors for the wallet storage system.
package types
