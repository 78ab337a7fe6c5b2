package oracle

import (
	"testing"

	"github.com/updown/bet-engine/internal/model"
)

func point(ts, price int64) model.PricePoint {
	return model.PricePoint{
		Timestamp:  ts,
		Price:      price,
		Source:     "feed",
		Confidence: model.MaxConfidence,
	}
}

func TestRecord_LastWriterWins(t *testing.T) {
	f := NewFeed(300)

	f.Record(point(1000, 500))
	f.Record(point(1000, 750))

	p, err := f.At(1000)
	if err != nil {
		t.Fatalf("At: %v", err)
	}
	if p.Price != 750 {
		t.Errorf("expected overwrite to 750, got %d", p.Price)
	}
}

func TestLatest(t *testing.T) {
	f := NewFeed(300)

	f.Record(point(100, 10))
	f.Record(point(200, 20))
	f.Record(point(300, 30))

	p, err := f.Latest(250)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if p.Timestamp != 200 || p.Price != 20 {
		t.Errorf("expected point at 200, got %+v", p)
	}

	// Future observations are invisible.
	if _, err := f.Latest(50); err != ErrNoPrice {
		t.Errorf("expected ErrNoPrice before first record, got %v", err)
	}
}

func TestFresh_Boundary(t *testing.T) {
	f := NewFeed(300)

	if !f.Fresh(1000, 1300) {
		t.Error("age equal to tolerance must be fresh")
	}
	if f.Fresh(1000, 1301) {
		t.Error("age past tolerance must be stale")
	}
	if !f.Fresh(1000, 1000) {
		t.Error("zero age must be fresh")
	}
}

func TestNewFeed_DefaultTolerance(t *testing.T) {
	f := NewFeed(0)
	if f.Tolerance() != DefaultTolerance {
		t.Errorf("expected default tolerance %d, got %d", DefaultTolerance, f.Tolerance())
	}
}
