package types

import "encoding/json"

// Transaction is an unsigned or signed chain transaction.
type Transaction struct {
	Nonce     uint64  `json:"nonce"`
	Value     string  `json:"value"`
	Receiver  Address `json:"receiver"`
	Sender    Address `json:"sender"`
	GasPrice  uint64  `json:"gasPrice"`
	GasLimit  uint64  `json:"gasLimit"`
	Data      []byte  `json:"data,omitempty"`
	ChainID   string  `json:"chainID"`
	Version   int     `json:"version"`
	Signature string  `json:"signature,omitempty"`
}

// SigningBytes returns the canonical encoding that gets signed: the JSON
// form with the signature field omitted.
func (tx Transaction) SigningBytes() ([]byte, error) {
	tx.Signature = ""
	return json.Marshal(tx)
}
