package clock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recorder(order *[]string, name string) TickFunc {
	return func(Info) { *order = append(*order, name) }
}

func TestUpdateOrder(t *testing.T) {
	c := New("core", 0)
	var order []string

	c.RegisterNamed("low", recorder(&order, "low"), PriorityLow)
	c.RegisterNamed("normal-a", recorder(&order, "normal-a"), PriorityNormal)
	c.RegisterNamed("highest", recorder(&order, "highest"), PriorityHighest)
	c.RegisterNamed("normal-b", recorder(&order, "normal-b"), PriorityNormal)
	c.RegisterNamed("lower", recorder(&order, "lower"), PriorityLower)

	c.Update(1.0 / 60)

	assert.Equal(t, []string{"highest", "normal-a", "normal-b", "low", "lower"}, order)
}

func TestUpdateDT(t *testing.T) {
	tests := []struct {
		name      string
		maxDT     float64
		dts       []float64
		wantDT    float64
		wantTime  float64
		wantFrame uint64
	}{
		{name: "plain", maxDT: 0, dts: []float64{0.25, 0.5}, wantDT: 0.5, wantTime: 0.75, wantFrame: 2},
		{name: "clamped", maxDT: 0.1, dts: []float64{0.5}, wantDT: 0.1, wantTime: 0.1, wantFrame: 1},
		{name: "zero_ignored", maxDT: 0.1, dts: []float64{0.05, 0}, wantDT: 0.05, wantTime: 0.05, wantFrame: 1},
		{name: "negative_ignored", maxDT: 0, dts: []float64{-1}, wantDT: 0, wantTime: 0, wantFrame: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := New("core", tc.maxDT)
			var seen []Info
			c.Register(TickFunc(func(info Info) { seen = append(seen, info) }), PriorityNormal)

			for _, dt := range tc.dts {
				c.Update(dt)
			}

			info := c.Info()
			assert.InDelta(t, tc.wantDT, info.DT, 1e-9)
			assert.InDelta(t, tc.wantTime, info.Time, 1e-9)
			assert.Equal(t, tc.wantFrame, info.Frame)
			assert.Len(t, seen, int(tc.wantFrame))
		})
	}
}

func TestPause(t *testing.T) {
	c := New("core", 0)
	calls := 0
	c.Register(TickFunc(func(Info) { calls++ }), PriorityNormal)

	c.Pause()
	require.True(t, c.Paused())
	c.Update(0.1)
	assert.Equal(t, 0, calls)

	c.Resume()
	c.Update(0.1)
	assert.Equal(t, 1, calls)
}

func TestUnregister(t *testing.T) {
	c := New("core", 0)
	calls := 0
	h := c.Register(TickFunc(func(Info) { calls++ }), PriorityNormal)
	require.Equal(t, 1, c.Len())

	c.Unregister(h)
	c.Unregister(Handle(999))
	c.Update(0.1)

	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, calls)
}

func TestRegisterDuringTick(t *testing.T) {
	c := New("core", 0)
	lateCalls := 0
	var self Handle
	self = c.Register(TickFunc(func(Info) {
		c.Register(TickFunc(func(Info) { lateCalls++ }), PriorityHighest)
		c.Unregister(self)
	}), PriorityNormal)

	c.Update(0.1)
	assert.Equal(t, 0, lateCalls, "registration made during a tick must wait for the next one")
	assert.Equal(t, 1, c.Len())

	c.Update(0.1)
	assert.Equal(t, 1, lateCalls)
}

func TestRegisterNil(t *testing.T) {
	c := New("core", 0)
	assert.Equal(t, Handle(0), c.Register(nil, PriorityNormal))
	assert.Equal(t, 0, c.Len())
}

type namedTicker struct{ n int }

func (n *namedTicker) Tick(Info) { n.n++ }

func TestStats(t *testing.T) {
	c := New("core", 0)
	ticker := &namedTicker{}
	c.Register(ticker, PriorityHigh)
	c.RegisterNamed("physics", TickFunc(func(Info) {}), PriorityLower)

	c.Update(0.1)
	c.Update(0.1)

	stats := c.Stats()
	require.Len(t, stats, 2)
	assert.Equal(t, "namedTicker", stats[0].Name)
	assert.Equal(t, PriorityHigh, stats[0].Priority)
	assert.Equal(t, int64(2), stats[0].Count)
	assert.Equal(t, "physics", stats[1].Name)
	assert.Equal(t, 2, ticker.n)
}
