package models

import "time"

// DeviceKind distinguishes the two device classes a pet can be linked to.
type DeviceKind string

const (
	DeviceCollar    DeviceKind = "collar"
	DeviceDispenser DeviceKind = "dispenser"
)

// DeviceLink binds a physical device to a pet. A device carries at most one
// active pet at a time; linking it elsewhere is a conflict, never a silent
// overwrite.
type DeviceLink struct {
	DeviceID string     `json:"device_id" db:"device_id"`
	PetID    string     `json:"pet_id" db:"pet_id"`
	Owner    string     `json:"owner" db:"owner_email"`
	Kind     DeviceKind `json:"kind" db:"kind"`
	LinkedAt time.Time  `json:"linked_at" db:"linked_at"`
}
