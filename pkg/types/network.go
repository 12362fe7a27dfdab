package types

// Network represents a chain endpoint the wallet can connect to.
type Network struct {
	ID         string `json:"id"`
	ChainID    int64  `json:"chainId"`
	URL        string `json:"url"`
	Name       string `json:"name"`
	IsSelected bool   `json:"isSelected"`
}
