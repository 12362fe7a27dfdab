package types

// Standard table names.
const (
	TableVaults       = "vaults"
	TableAccounts     = "accounts"
	TableNetworks     = "networks"
	TableConnections  = "connections"
	TableTransactions = "transactions"
	TableAssets       = "assets"
	TableABIs         = "abis"
	TableErrors       = "errors"
)

// AllTables lists the declared tables in schema order.
var AllTables = []string{
	TableVaults,
	TableAccounts,
	TableNetworks,
	TableConnections,
	TableTransactions,
	TableAssets,
	TableABIs,
	TableErrors,
}
