package query

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collector struct {
	mu     sync.Mutex
	values []string
	ch     chan struct{}
}

func newCollector() *collector {
	return &collector{ch: make(chan struct{}, 8)}
}

func (c *collector) apply(v string) {
	c.mu.Lock()
	c.values = append(c.values, v)
	c.mu.Unlock()
	c.ch <- struct{}{}
}

func (c *collector) snapshot() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.values...)
}

func TestDebouncerAppliesLatestValueOnce(t *testing.T) {
	c := newCollector()
	d := NewDebouncer(20*time.Millisecond, c.apply)
	defer d.Stop()

	d.Push("b")
	d.Push("bo")
	d.Push("bor")

	select {
	case <-c.ch:
	case <-time.After(time.Second):
		t.Fatal("debounced value never applied")
	}
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, []string{"bor"}, c.snapshot())
	assert.False(t, d.Pending())
}

func TestDebouncerFlushAndStop(t *testing.T) {
	c := newCollector()
	d := NewDebouncer(time.Hour, c.apply)

	assert.False(t, d.Flush())
	d.Push("golden")
	require.True(t, d.Pending())
	assert.True(t, d.Flush())
	assert.Equal(t, []string{"golden"}, c.snapshot())

	d.Push("ignored")
	d.Stop()
	d.Push("after-stop")
	assert.False(t, d.Pending())
	assert.False(t, d.Flush())
	assert.Equal(t, []string{"golden"}, c.snapshot())
}
