package wallet

import "socialfi/internal/domain"

// Relay message types exchanged with a remote wallet.
const (
	MsgSessionPropose = "session_propose"
	MsgSessionApprove = "session_approve"
	MsgSessionReject  = "session_reject"
	MsgSessionDelete  = "session_delete"
	MsgSignRequest    = "sign_request"
	MsgSignResponse   = "sign_response"
	MsgSignError      = "sign_error"
)

// Message is one JSON frame on the wallet relay. Replies carry the ID of the
// request they answer.
type Message struct {
	Type        string              `json:"type"`
	ID          string              `json:"id,omitempty"`
	Topic       string              `json:"topic,omitempty"`
	Project     string              `json:"project,omitempty"`
	ChainID     string              `json:"chainId,omitempty"`
	Address     domain.Address      `json:"address,omitempty"`
	Transaction *domain.Transaction `json:"transaction,omitempty"`
	Signature   string              `json:"signature,omitempty"`
	Reason      string              `json:"reason,omitempty"`
}
