package timing

import "testing"

func TestCalculatePositivecutoff(t *testing.T) {
	p := Calculate(201, 0, 100, 50)
	if p.Start != 0 {
		t.Errorf("Start = %v, want 0", p.Start)
	}
	if p.Con != 0.05 {
		t.Errorf("Con = %v, want 0.05", p.Con)
	}
	wantEnd := p.Positions[len(p.Positions)-1] - 0.1
	if p.End != wantEnd {
		t.Errorf("End = %v, want %v", p.End, wantEnd)
	}
}

func TestCalculateNegativeCutoff(t *testing.T) {
	p := Calculate(201, 10, -500, 20)
	wantStart := 0.01
	if p.Start != wantStart {
		t.Errorf("Start = %v, want %v", p.Start, wantStart)
	}
	wantEnd := wantStart - (-500.0)/1000.0
	if p.End != wantEnd {
		t.Errorf("End = %v, want %v", p.End, wantEnd)
	}
}

func TestCalculateInvariantOrdering(t *testing.T) {
	p := Calculate(500, 0, 100, 50)
	if !(p.Start <= p.Con) {
		t.Errorf("expected start <= con, got start=%v con=%v", p.Start, p.Con)
	}
	if p.End < 0 {
		t.Errorf("expected non-negative end, got %v", p.End)
	}
}

func TestCalculatePositionsGrid(t *testing.T) {
	p := Calculate(3, 0, 0, 0)
	want := []float64{0, 0.005, 0.010}
	for i, v := range want {
		if p.Positions[i] != v {
			t.Errorf("Positions[%d] = %v, want %v", i, p.Positions[i], v)
		}
	}
}
