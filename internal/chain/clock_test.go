package chain

import "testing"

func TestBlockClock_Now(t *testing.T) {
	heights := NewCounter(0)
	clock := NewBlockClock(1_700_000_000, 2, heights)

	if got := clock.Now(); got != 1_700_000_000 {
		t.Errorf("at height 0 expected genesis, got %d", got)
	}

	heights.Advance(150)
	if got := clock.Now(); got != 1_700_000_300 {
		t.Errorf("expected genesis+300, got %d", got)
	}
}

func TestBlockClock_At(t *testing.T) {
	clock := NewBlockClock(1000, 5, NewCounter(0))

	if got := clock.At(10); got != 1050 {
		t.Errorf("At(10) = %d, want 1050", got)
	}
}

func TestCounter_Set(t *testing.T) {
	c := NewCounter(7)
	if c.Height() != 7 {
		t.Errorf("expected start height 7, got %d", c.Height())
	}
	c.Set(42)
	if c.Height() != 42 {
		t.Errorf("expected height 42, got %d", c.Height())
	}
}

func TestDayBucket(t *testing.T) {
	cases := []struct {
		ts   int64
		want int64
	}{
		{0, 0},
		{86399, 0},
		{86400, 86400},
		{86401, 86400},
		{1_700_000_000, 1_699_920_000},
	}
	for _, tc := range cases {
		if got := DayBucket(tc.ts); got != tc.want {
			t.Errorf("DayBucket(%d) = %d, want %d", tc.ts, got, tc.want)
		}
	}
}

func TestManual(t *testing.T) {
	m := NewManual(100)
	if m.Now() != 100 {
		t.Errorf("expected 100, got %d", m.Now())
	}
	m.Advance(50)
	if m.Now() != 150 {
		t.Errorf("expected 150, got %d", m.Now())
	}
	m.Set(10)
	if m.Now() != 10 {
		t.Errorf("expected 10, got %d", m.Now())
	}
}
