package risk

import (
	"testing"

	"github.com/updown/bet-engine/internal/model"
)

func pool(rise, drop int64) *model.DailyPool {
	return &model.DailyPool{
		RiseVolume:  rise,
		DropVolume:  drop,
		TotalVolume: rise + drop,
	}
}

func TestAdmit_ExactBoundary(t *testing.T) {
	l := NewLimiter(8000, 0)

	// rise=80, drop=20: one more unit of rise gives 81/101 ≈ 80.2% — reject.
	if err := l.Admit(pool(80, 20), model.PredictionRise, 1); err != ErrPoolImbalance {
		t.Errorf("expected ErrPoolImbalance at 81/101, got %v", err)
	}

	// The drop side is nowhere near the cap.
	if err := l.Admit(pool(80, 20), model.PredictionDrop, 1); err != nil {
		t.Errorf("drop side should be admitted, got %v", err)
	}
}

func TestAdmit_StrictlyBelowCap(t *testing.T) {
	l := NewLimiter(8000, 0)

	// 79+1 = 80 of 100 total: exactly 80% — the bound is exclusive.
	if err := l.Admit(pool(79, 20), model.PredictionRise, 1); err != ErrPoolImbalance {
		t.Errorf("exactly 80%% must be rejected, got %v", err)
	}

	// 78+1 = 79 of 100 total: 79% — admitted.
	if err := l.Admit(pool(78, 21), model.PredictionRise, 1); err != nil {
		t.Errorf("79%% should be admitted, got %v", err)
	}
}

func TestAdmit_ThinPoolExempt(t *testing.T) {
	l := NewLimiter(8000, 5_000_000)

	// The first bet of a day is 100% one-sided; the volume floor admits it.
	if err := l.Admit(&model.DailyPool{}, model.PredictionRise, 1_000_000); err != nil {
		t.Errorf("thin pool should be exempt, got %v", err)
	}

	// Once the hypothetical total reaches the floor the cap applies.
	p := pool(4_500_000, 0)
	if err := l.Admit(p, model.PredictionRise, 1_000_000); err != ErrPoolImbalance {
		t.Errorf("expected ErrPoolImbalance above the floor, got %v", err)
	}
}

func TestAdmit_ZeroFloorRejectsFirstBet(t *testing.T) {
	l := NewLimiter(8000, 0)

	// Documented consequence of a zero floor: a lone bet is 100% one-sided.
	if err := l.Admit(&model.DailyPool{}, model.PredictionDrop, 100); err != ErrPoolImbalance {
		t.Errorf("expected ErrPoolImbalance for lone bet, got %v", err)
	}
}

func TestRecord(t *testing.T) {
	p := &model.DailyPool{Day: 86400}

	Record(p, model.PredictionRise, 300)
	Record(p, model.PredictionDrop, 200)
	Record(p, model.PredictionRise, 100)

	if p.RiseVolume != 400 || p.DropVolume != 200 {
		t.Errorf("unexpected side volumes: rise=%d drop=%d", p.RiseVolume, p.DropVolume)
	}
	if p.TotalVolume != p.RiseVolume+p.DropVolume {
		t.Errorf("total %d != rise+drop %d", p.TotalVolume, p.RiseVolume+p.DropVolume)
	}
	if p.BetCount != 3 {
		t.Errorf("expected bet count 3, got %d", p.BetCount)
	}
}

func TestNewLimiter_DefaultCap(t *testing.T) {
	l := NewLimiter(0, 0)
	if l.MaxShareBps != DefaultMaxShareBps {
		t.Errorf("expected default cap %d, got %d", DefaultMaxShareBps, l.MaxShareBps)
	}
}
