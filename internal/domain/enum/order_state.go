package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// OrderState represents the lifecycle state of an order.
// Free → Occupied → InPreparation → Served → Paid → Free (loop).
type OrderState int

const (
	OrderStateFree          OrderState = 0
	OrderStateOccupied      OrderState = 1
	OrderStateInPreparation OrderState = 2
	OrderStateServed        OrderState = 3
	OrderStatePaid          OrderState = 4
)

func (s OrderState) String() string {
	return [...]string{"Free", "Occupied", "InPreparation", "Served", "Paid"}[s]
}

// IsActive reports whether the order may receive line-item mutations and be finalized
func (s OrderState) IsActive() bool {
	return s == OrderStateOccupied || s == OrderStateInPreparation || s == OrderStateServed
}

func (s OrderState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *OrderState) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = OrderState(i)
		return nil
	}
	switch str {
	case "Free":
		*s = OrderStateFree
	case "Occupied":
		*s = OrderStateOccupied
	case "InPreparation":
		*s = OrderStateInPreparation
	case "Served":
		*s = OrderStateServed
	case "Paid":
		*s = OrderStatePaid
	}
	return nil
}

func (s OrderState) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *OrderState) Scan(value interface{}) error {
	if value == nil {
		*s = OrderStateFree
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = OrderState(v)
	case int:
		*s = OrderState(v)
	}
	return nil
}
