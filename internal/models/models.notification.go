package models

import "time"

// Notification is the durable record of an alert, kept for the in-app
// notification history regardless of how (or whether) delivery succeeded.
type Notification struct {
	ID        string    `json:"id" db:"id"`
	PetID     string    `json:"pet_id" db:"pet_id"`
	Title     string    `json:"title" db:"title"`
	Body      string    `json:"body" db:"body"`
	Data      string    `json:"data" db:"data"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
