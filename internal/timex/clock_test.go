package timex

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemClock_Now(t *testing.T) {
	c := NewSystemClock()
	before := time.Now()
	got := c.Now()
	after := time.Now()
	require.False(t, got.Before(before))
	require.False(t, got.After(after))
}

func TestSystemClock_TickerFires(t *testing.T) {
	c := NewSystemClock()
	ticker := c.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()

	select {
	case <-ticker.C():
	case <-time.After(2 * time.Second):
		t.Fatal("ticker did not fire")
	}
}

func TestManualClock_NowAdvances(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewManualClock(start)

	assert.Equal(t, start, c.Now())
	c.Advance(90 * time.Second)
	assert.Equal(t, start.Add(90*time.Second), c.Now())
}

func TestManualClock_TickerFiresPerInterval(t *testing.T) {
	c := NewManualClock(time.Unix(0, 0))
	ticker := c.NewTicker(time.Second)
	defer ticker.Stop()

	// до первого интервала тиков нет
	c.Advance(500 * time.Millisecond)
	select {
	case <-ticker.C():
		t.Fatal("ticker fired before the first interval elapsed")
	default:
	}

	for i := 0; i < 3; i++ {
		c.Advance(time.Second)
		select {
		case <-ticker.C():
		default:
			t.Fatalf("expected tick %d to be pending", i+1)
		}
	}
}

func TestManualClock_TicksCoalesce(t *testing.T) {
	c := NewManualClock(time.Unix(0, 0))
	ticker := c.NewTicker(time.Second)
	defer ticker.Stop()

	// nobody reads in between, so the buffer holds at most one tick
	c.Advance(5 * time.Second)

	n := 0
	for {
		select {
		case <-ticker.C():
			n++
			continue
		default:
		}
		break
	}
	assert.Equal(t, 1, n)
}

func TestManualClock_StoppedTickerStaysSilent(t *testing.T) {
	c := NewManualClock(time.Unix(0, 0))
	ticker := c.NewTicker(time.Second)
	ticker.Stop()

	c.Advance(3 * time.Second)
	select {
	case <-ticker.C():
		t.Fatal("stopped ticker fired")
	default:
	}
}

func TestManualClock_NonPositiveIntervalPanics(t *testing.T) {
	c := NewManualClock(time.Unix(0, 0))
	assert.Panics(t, func() { c.NewTicker(0) })
}

func TestManualClock_BlockUntilSeesLateTicker(t *testing.T) {
	c := NewManualClock(time.Unix(0, 0))

	done := make(chan Ticker)
	go func() {
		done <- c.NewTicker(time.Second)
	}()

	c.BlockUntil(1)
	ticker := <-done
	defer ticker.Stop()

	c.Advance(time.Second)
	select {
	case <-ticker.C():
	default:
		t.Fatal("expected a pending tick after BlockUntil+Advance")
	}
}
