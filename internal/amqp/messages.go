package amqp

import (
	"encoding/json"
	"time"
)

// TransactionBackupMessage asks the worker to mirror one transaction to the
// backup sheet. It carries only the id; the worker fetches the current row
// from the store, so a stale message never writes stale data.
type TransactionBackupMessage struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionBackupMessage(id string) *TransactionBackupMessage {
	return &TransactionBackupMessage{
		ID:        id,
		Timestamp: time.Now(),
	}
}

func (m *TransactionBackupMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionBackupMessageFromJSON(data []byte) (*TransactionBackupMessage, error) {
	var msg TransactionBackupMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
