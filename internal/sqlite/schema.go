// Package sqlite implements the storage engine for the wallet store on top
// of modernc.org/sqlite. The engine owns the database file, the table
// schema, and the versioned migration run performed on open.
package sqlite

// Schema DDL for all tables. Statements are idempotent so an open against an
// existing database leaves user data untouched.
const (
	createVaults = `CREATE TABLE IF NOT EXISTS vaults (
    key TEXT PRIMARY KEY,
    data TEXT NOT NULL
);`

	createAccounts = `CREATE TABLE IF NOT EXISTS accounts (
    address TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    data TEXT NOT NULL
);`

	createNetworks = `CREATE TABLE IF NOT EXISTS networks (
    id TEXT PRIMARY KEY,
    chain_id INTEGER NOT NULL,
    url TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL UNIQUE,
    is_selected INTEGER NOT NULL DEFAULT 0
);`

	createConnections = `CREATE TABLE IF NOT EXISTS connections (
    origin TEXT PRIMARY KEY,
    data TEXT NOT NULL
);`

	createTransactions = `CREATE TABLE IF NOT EXISTS transactions (
    id TEXT PRIMARY KEY,
    data TEXT NOT NULL
);`

	createAssets = `CREATE TABLE IF NOT EXISTS assets (
    asset_id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    symbol TEXT NOT NULL UNIQUE,
    data TEXT NOT NULL
);`

	createABIs = `CREATE TABLE IF NOT EXISTS abis (
    contract_id TEXT PRIMARY KEY,
    data TEXT NOT NULL
);`

	createErrors = `CREATE TABLE IF NOT EXISTS errors (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    message TEXT NOT NULL,
    stack TEXT NOT NULL,
    timestamp TEXT NOT NULL,
    location TEXT,
    pathname TEXT,
    hash TEXT,
    counts INTEGER NOT NULL DEFAULT 0
);`
)

// Index DDL for common queries.
const (
	idxNetworksChainID = `CREATE INDEX IF NOT EXISTS idx_networks_chain_id ON networks(chain_id);`
	idxErrorsTimestamp = `CREATE INDEX IF NOT EXISTS idx_errors_timestamp ON errors(timestamp);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createVaults,
	createAccounts,
	createNetworks,
	createConnections,
	createTransactions,
	createAssets,
	createABIs,
	createErrors,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxNetworksChainID,
	idxErrorsTimestamp,
}
