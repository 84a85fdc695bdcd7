package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// IncomingPayment is the resource created on the receiver's resource server.
// The saga treats it as a capability token and only reads ID.
type IncomingPayment struct {
	ID             string    `json:"id"`
	WalletAddress  string    `json:"walletAddress"`
	IncomingAmount Amount    `json:"incomingAmount"`
	ReceivedAmount *Amount   `json:"receivedAmount,omitempty"`
	Completed      bool      `json:"completed"`
	CreatedAt      time.Time `json:"createdAt,omitzero"`
	ExpiresAt      time.Time `json:"expiresAt,omitzero"`
}

// Quote is the priced commitment created against an incoming payment.
type Quote struct {
	ID            string    `json:"id"`
	WalletAddress string    `json:"walletAddress"`
	Receiver      string    `json:"receiver"`
	DebitAmount   Amount    `json:"debitAmount"`
	ReceiveAmount Amount    `json:"receiveAmount"`
	Method        string    `json:"method"`
	CreatedAt     time.Time `json:"createdAt,omitzero"`
	ExpiresAt     time.Time `json:"expiresAt,omitzero"`
}

// OutgoingPayment is the resource created on the sender's resource server once
// the outgoing-payment grant is finalized.
type OutgoingPayment struct {
	ID            string            `json:"id"`
	WalletAddress string            `json:"walletAddress"`
	QuoteID       string            `json:"quoteId,omitempty"`
	Receiver      string            `json:"receiver,omitempty"`
	DebitAmount   *Amount           `json:"debitAmount,omitempty"`
	ReceiveAmount *Amount           `json:"receiveAmount,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	Failed        bool              `json:"failed,omitempty"`
	CreatedAt     time.Time         `json:"createdAt,omitzero"`
}

// PendingPayment is the saga checkpoint persisted between the initiate and
// complete phases. It is created at the end of initiate, consumed by complete,
// and deleted on completion or terminal failure.
type PendingPayment struct {
	PaymentID       string            `json:"paymentId"`
	SenderWallet    WalletAddress     `json:"senderWallet"`
	ReceiverWallet  WalletAddress     `json:"receiverWallet"`
	IncomingPayment IncomingPayment   `json:"incomingPayment"`
	Quote           Quote             `json:"quote"`
	Grant           Grant             `json:"outgoingPaymentGrant"`
	Amount          Amount            `json:"amount"`
	Metadata        map[string]string `json:"metadata,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
}

// NewPaymentID generates a process-unique pending payment identifier. The
// random component rules out collisions between concurrent sagas.
func NewPaymentID() string {
	return fmt.Sprintf("payment_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
