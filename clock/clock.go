// Package clock schedules per-tick callbacks in priority order.
package clock

import (
	"reflect"
	"sort"
	"time"
)

// Info describes the tick being run.
type Info struct {
	// DT is the elapsed time of this tick in seconds, after clamping.
	DT float64
	// Time is the accumulated clock time in seconds, including DT.
	Time  float64
	Frame uint64
}

type Priority int

const (
	PriorityLowest Priority = iota
	PriorityLower
	PriorityLow
	PriorityNormal
	PriorityHigh
	PriorityHigher
	PriorityHighest
)

// Tickable is anything the clock can run once per tick.
type Tickable interface {
	Tick(info Info)
}

// TickFunc adapts a plain function to Tickable.
type TickFunc func(info Info)

func (f TickFunc) Tick(info Info) {
	f(info)
}

// Handle identifies a registration for Unregister.
type Handle uint64

// CallbackStats reports how often and how long a callback ran.
type CallbackStats struct {
	Name         string
	Priority     Priority
	Count        int64
	LastDuration time.Duration
}

type entry struct {
	handle   Handle
	name     string
	tickable Tickable
	priority Priority
	seq      uint64

	count int64
	last  time.Duration
}

// Clock runs registered callbacks synchronously: highest priority first,
// registration order within a priority.
type Clock struct {
	name    string
	maxDT   float64
	entries []*entry
	nextSeq uint64
	info    Info
	paused  bool
	running bool
	pending []func()
}

// New creates a clock. A positive maxDT caps the DT of a single tick.
func New(name string, maxDT float64) *Clock {
	return &Clock{name: name, maxDT: maxDT}
}

func (c *Clock) Name() string {
	return c.name
}

// SetMaxDT changes the per-tick DT cap; zero or less disables it.
func (c *Clock) SetMaxDT(maxDT float64) {
	c.maxDT = maxDT
}

// Register adds t at priority p. Registering during a tick takes effect on
// the next tick.
func (c *Clock) Register(t Tickable, p Priority) Handle {
	if t == nil {
		return 0
	}
	return c.RegisterNamed(tickableName(t), t, p)
}

// RegisterNamed is Register with an explicit name for Stats.
func (c *Clock) RegisterNamed(name string, t Tickable, p Priority) Handle {
	if t == nil {
		return 0
	}
	c.nextSeq++
	e := &entry{
		handle:   Handle(c.nextSeq),
		name:     name,
		tickable: t,
		priority: p,
		seq:      c.nextSeq,
	}
	c.apply(func() {
		c.entries = append(c.entries, e)
		sort.SliceStable(c.entries, func(i, j int) bool {
			if c.entries[i].priority != c.entries[j].priority {
				return c.entries[i].priority > c.entries[j].priority
			}
			return c.entries[i].seq < c.entries[j].seq
		})
	})
	return e.handle
}

// Unregister removes a registration. Unknown handles are ignored.
func (c *Clock) Unregister(h Handle) {
	c.apply(func() {
		for i, e := range c.entries {
			if e.handle == h {
				c.entries = append(c.entries[:i], c.entries[i+1:]...)
				return
			}
		}
	})
}

func (c *Clock) apply(fn func()) {
	if c.running {
		c.pending = append(c.pending, fn)
		return
	}
	fn()
}

// Len returns the number of registered callbacks.
func (c *Clock) Len() int {
	return len(c.entries)
}

func (c *Clock) Pause() {
	c.paused = true
}

func (c *Clock) Resume() {
	c.paused = false
}

func (c *Clock) Paused() bool {
	return c.paused
}

// Info returns the most recent tick.
func (c *Clock) Info() Info {
	return c.info
}

// Update advances the clock by dt seconds and runs every callback once.
// Non-positive dt and paused clocks do nothing.
func (c *Clock) Update(dt float64) {
	if c.paused || dt <= 0 {
		return
	}
	if c.maxDT > 0 && dt > c.maxDT {
		dt = c.maxDT
	}

	c.info.DT = dt
	c.info.Time += dt
	c.info.Frame++

	c.running = true
	for _, e := range c.entries {
		start := time.Now()
		e.tickable.Tick(c.info)
		e.last = time.Since(start)
		e.count++
	}
	c.running = false

	pending := c.pending
	c.pending = nil
	for _, fn := range pending {
		fn()
	}
}

// Stats returns per-callback statistics in execution order.
func (c *Clock) Stats() []CallbackStats {
	out := make([]CallbackStats, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, CallbackStats{
			Name:         e.name,
			Priority:     e.priority,
			Count:        e.count,
			LastDuration: e.last,
		})
	}
	return out
}

func tickableName(t Tickable) string {
	typ := reflect.TypeOf(t)
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if name := typ.Name(); name != "" {
		return name
	}
	return typ.String()
}
