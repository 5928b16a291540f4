package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxMessageLength is the maximum number of characters in a message body.
const MaxMessageLength = 1000

// Message is a persisted chat entry.
type Message struct {
	ID            string    `json:"id"            db:"id"`
	WalletAddress string    `json:"walletAddress" db:"wallet_address"`
	SenderName    string    `json:"senderName"    db:"sender_name"`
	Text          string    `json:"text"          db:"text"`
	CreatedAt     time.Time `json:"createdAt"     db:"created_at"`
}

// NewMessage is a message that has not been persisted yet.
type NewMessage struct {
	WalletAddress string
	SenderName    string
	Text          string
}

// Materialize assigns the server-side identity of a new message.
func (n NewMessage) Materialize(now time.Time) *Message {
	return &Message{
		ID:            uuid.NewString(),
		WalletAddress: n.WalletAddress,
		SenderName:    n.SenderName,
		Text:          n.Text,
		CreatedAt:     now.UTC(),
	}
}

// DefaultSenderName derives a display label from a wallet address.
func DefaultSenderName(walletAddress string) string {
	prefix := walletAddress
	if len(prefix) > 4 {
		prefix = prefix[:4]
	}
	return "Holder_" + prefix
}
