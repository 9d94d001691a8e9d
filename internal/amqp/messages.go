package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Routing keys used on the exchange.
const (
	EventRecordSaved = "record.saved"
	EventStockLow    = "stock.low"
)

// Event is the message published after a ledger change. It only names what
// changed; consumers re-read the table from the record store.
type Event struct {
	Type      string    `json:"type"`
	Kind      string    `json:"kind,omitempty"`
	Operation string    `json:"operation,omitempty"`
	RecordID  string    `json:"record_id,omitempty"`
	Rows      int       `json:"rows,omitempty"`
	Items     []string  `json:"items,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRecordSaved describes a successful write to kind.
func NewRecordSaved(kind, operation, recordID string, rows int) *Event {
	return &Event{
		Type:      EventRecordSaved,
		Kind:      kind,
		Operation: operation,
		RecordID:  recordID,
		Rows:      rows,
		Timestamp: time.Now(),
	}
}

// NewStockLow lists the stock items at or below their alert threshold.
func NewStockLow(items []string) *Event {
	return &Event{
		Type:      EventStockLow,
		Kind:      "stock",
		Items:     append([]string(nil), items...),
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// EventFromJSON decodes and checks a message body.
func EventFromJSON(data []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	switch e.Type {
	case EventRecordSaved:
		if e.Kind == "" {
			return nil, fmt.Errorf("%s event without kind", e.Type)
		}
	case EventStockLow:
	default:
		return nil, fmt.Errorf("unknown event type %q", e.Type)
	}
	return &e, nil
}
