package telemetry

import (
	"context"
	"sync"
)

// FakeChannel records published commands and lets tests inject weight
// readings as if they arrived from the broker.
type FakeChannel struct {
	mu        sync.Mutex
	published []string
	handler   WeightHandler
	onPublish func(command string)
	failWith  error
}

func NewFakeChannel() *FakeChannel {
	return &FakeChannel{}
}

// SetWeightHandler wires the inbound side the way NewPahoChannel does.
func (c *FakeChannel) SetWeightHandler(handler WeightHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handler = handler
}

// FailWith makes subsequent publishes return err.
func (c *FakeChannel) FailWith(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failWith = err
}

// SetPublishHook registers a callback invoked after every successful
// publish, letting tests simulate the device reacting to a command.
func (c *FakeChannel) SetPublishHook(hook func(command string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onPublish = hook
}

func (c *FakeChannel) Publish(ctx context.Context, command string) error {
	c.mu.Lock()
	if c.failWith != nil {
		c.mu.Unlock()
		return c.failWith
	}
	c.published = append(c.published, command)
	hook := c.onPublish
	c.mu.Unlock()
	if hook != nil {
		hook(command)
	}
	return nil
}

func (c *FakeChannel) Close() {}

// Published returns a copy of every command published so far.
func (c *FakeChannel) Published() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.published))
	copy(out, c.published)
	return out
}

// InjectWeight delivers a weight reading to the registered handler.
func (c *FakeChannel) InjectWeight(weight float64) {
	c.mu.Lock()
	handler := c.handler
	c.mu.Unlock()
	if handler != nil {
		handler(WeightMessage{Weight: weight})
	}
}
