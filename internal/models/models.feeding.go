package models

import "time"

// FeedingSchedule is the canonical daily feeding plan for a pet. All three
// slots are stored in 24-hour HH:MM form, whatever format the owner typed.
// One row per pet; saves replace in place.
type FeedingSchedule struct {
	PetID     string    `json:"pet_id" db:"pet_id"`
	Morning   string    `json:"morning" db:"morning"`
	Afternoon string    `json:"afternoon" db:"afternoon"`
	Night     string    `json:"night" db:"night"`
	Owner     string    `json:"owner" db:"owner_email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsSet reports whether the schedule has been configured at all.
func (s *FeedingSchedule) IsSet() bool {
	return s.Morning != "" || s.Afternoon != "" || s.Night != ""
}

// FeedStatus is the settled outcome of a scheduled feed event.
type FeedStatus string

const (
	FeedUpcoming  FeedStatus = "Upcoming"
	FeedCompleted FeedStatus = "Completed"
	FeedFailed    FeedStatus = "Failed"
)

// FeedEvent is one scheduled dispense for the current cycle. Status moves
// Upcoming -> Completed or Upcoming -> Failed exactly once; Triggered guards
// against re-firing within the same cycle.
type FeedEvent struct {
	PetID     string     `json:"pet_id"`
	Time      string     `json:"time"`
	Status    FeedStatus `json:"status"`
	Triggered bool       `json:"triggered"`
}
