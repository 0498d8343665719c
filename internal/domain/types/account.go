package types

// Account is the on-chain account state returned by the network reader.
type Account struct {
	Address Address `json:"address"`
	Balance string  `json:"balance"`
	Nonce   uint64  `json:"nonce"`
}
