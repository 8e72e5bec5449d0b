// internal/models/notification.go
package models

import "time"

// NotificationMessage is built once per qualifying approval and never reused.
type NotificationMessage struct {
	Recipients []string `json:"recipients"`
	Subject    string   `json:"subject"`
	HTMLBody   string   `json:"htmlBody"`
	TextBody   string   `json:"textBody"`
	Sender     string   `json:"sender"`
	Facility   string   `json:"facility"`
}

type DeliveryReceipt struct {
	MessageID string    `json:"messageId"`
	SentAt    time.Time `json:"sentAt"`
}
