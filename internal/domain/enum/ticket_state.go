package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// TicketState represents the kitchen-side progress of an order.
// Pending → InPreparation → Ready; Ready is terminal.
type TicketState int

const (
	TicketStatePending       TicketState = 0
	TicketStateInPreparation TicketState = 1
	TicketStateReady         TicketState = 2
)

func (s TicketState) String() string {
	return [...]string{"Pending", "InPreparation", "Ready"}[s]
}

func (s TicketState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *TicketState) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = TicketState(i)
		return nil
	}
	switch str {
	case "Pending":
		*s = TicketStatePending
	case "InPreparation":
		*s = TicketStateInPreparation
	case "Ready":
		*s = TicketStateReady
	}
	return nil
}

func (s TicketState) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *TicketState) Scan(value interface{}) error {
	if value == nil {
		*s = TicketStatePending
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = TicketState(v)
	case int:
		*s = TicketState(v)
	}
	return nil
}
