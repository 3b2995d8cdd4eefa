package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"finbot/internal/core"
)

// Message is the wire envelope for a ledger event.
type Message struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	core.LedgerEvent
}

func NewMessage(ev core.LedgerEvent) *Message {
	return &Message{
		ID:          uuid.NewString(),
		Timestamp:   time.Now().UTC(),
		LedgerEvent: ev,
	}
}

func (m *Message) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func MessageFromJSON(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
