package amqp

import (
	"encoding/json"
	"time"
)

// BudgetAlertMessage is a lightweight message announcing that a user's
// monthly budget reached its alert threshold. The worker re-evaluates the
// budget against the database on receipt, so the snapshot fields are only
// used for logging and notification text.
type BudgetAlertMessage struct {
	UserID     string    `json:"userId"`
	Month      int       `json:"month"`
	Year       int       `json:"year"`
	Percentage string    `json:"percentage"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewBudgetAlertMessage creates a new alert message for the given budget period
func NewBudgetAlertMessage(userID string, month, year int, percentage, message string) BudgetAlertMessage {
	return BudgetAlertMessage{
		UserID:     userID,
		Month:      month,
		Year:       year,
		Percentage: percentage,
		Message:    message,
		Timestamp:  time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m BudgetAlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FromJSON creates a message from JSON bytes
func BudgetAlertMessageFromJSON(data []byte) (*BudgetAlertMessage, error) {
	var msg BudgetAlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
