// Package telemetry provides the MQTT link to the feeder device: actuation
// commands go out on the control topic, weight-sensor readings come back on
// the weight topic. The device has no acknowledgement channel; the weight
// feed is the only evidence of anything happening.
package telemetry

import "context"

// WeightMessage is the payload the feeder publishes after every scale read.
type WeightMessage struct {
	Weight float64 `json:"weight"`
}

// WeightHandler receives inbound weight readings. It is called from the MQTT
// client's goroutine and may run concurrently with everything else.
type WeightHandler func(msg WeightMessage)

// Channel publishes opaque command strings to the feeder, e.g. "on" or
// "set HH:MM".
type Channel interface {
	Publish(ctx context.Context, command string) error
	Close()
}
