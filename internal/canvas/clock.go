package canvas

import "github.com/opd-ai/go-annotate/internal/particle"

// FrameClock fans per-frame ticks out to subscribed tickers. The host
// render loop calls Tick once per frame; with no subscribers a tick is a
// no-op.
//
// FrameClock is not safe for concurrent use; Canvas serializes access.
type FrameClock struct {
	subs    []particle.Ticker
	scratch []particle.Ticker
	frames  uint64
}

// Subscribe adds t. Subscribing a ticker twice has no effect.
func (c *FrameClock) Subscribe(t particle.Ticker) {
	for _, s := range c.subs {
		if s == t {
			return
		}
	}
	c.subs = append(c.subs, t)
}

// Unsubscribe removes t. Unknown tickers are ignored.
func (c *FrameClock) Unsubscribe(t particle.Ticker) {
	for i, s := range c.subs {
		if s == t {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			return
		}
	}
}

// Subscribed returns the number of subscribed tickers.
func (c *FrameClock) Subscribed() int {
	return len(c.subs)
}

// Frames returns the number of ticks delivered to at least one subscriber.
func (c *FrameClock) Frames() uint64 {
	return c.frames
}

// Tick advances every subscriber once and reports whether any ran.
// Subscribers may unsubscribe themselves while being ticked.
func (c *FrameClock) Tick() bool {
	if len(c.subs) == 0 {
		return false
	}
	c.scratch = append(c.scratch[:0], c.subs...)
	for _, t := range c.scratch {
		t.Tick()
	}
	clear(c.scratch)
	c.frames++
	return true
}
