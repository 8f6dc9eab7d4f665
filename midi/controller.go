package midi

import (
	"fmt"
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// Controller is one open input port
type Controller struct {
	id       string
	inPort   drivers.In
	stopFunc func()
	once     sync.Once
}

// NewController opens inPort and passes every decoded event to handle.
// handle runs on the driver's goroutine.
func NewController(id string, inPort drivers.In, handle func(Event)) (*Controller, error) {
	c := &Controller{id: id, inPort: inPort}

	stop, err := gomidi.ListenTo(inPort, func(msg gomidi.Message, timestampms int32) {
		if ev, ok := FromMessage(msg); ok {
			handle(ev)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("open input %s: %w", id, err)
	}
	c.stopFunc = stop
	return c, nil
}

func (c *Controller) ID() string {
	return c.id
}

// Close stops listening; it is safe to call more than once
func (c *Controller) Close() error {
	c.once.Do(func() {
		if c.stopFunc != nil {
			c.stopFunc()
		}
	})
	return nil
}
