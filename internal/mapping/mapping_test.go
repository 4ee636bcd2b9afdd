package mapping

import "testing"

func TestNewRejectsSelfCoupling(t *testing.T) {
	_, err := New(Config{
		NChannels:   2,
		Submaps:     []Submap{{Floor: 0, Residue: 0}},
		Multiplex:   []int{0, 0},
		Couplings:   []Coupling{{Magnitude: 0, Angle: 0}},
		NumFloors:   1,
		NumResidues: 1,
	})
	if err == nil {
		t.Fatal("expected error for self-coupling")
	}
}

func TestNewRejectsOutOfRangeCouplingChannel(t *testing.T) {
	_, err := New(Config{
		NChannels:   2,
		Submaps:     []Submap{{Floor: 0, Residue: 0}},
		Multiplex:   []int{0, 0},
		Couplings:   []Coupling{{Magnitude: 0, Angle: 5}},
		NumFloors:   1,
		NumResidues: 1,
	})
	if err == nil {
		t.Fatal("expected error for out-of-range coupling channel")
	}
}

func TestNewRejectsOutOfRangeMultiplex(t *testing.T) {
	_, err := New(Config{
		NChannels:   1,
		Submaps:     []Submap{{Floor: 0, Residue: 0}},
		Multiplex:   []int{3},
		NumFloors:   1,
		NumResidues: 1,
	})
	if err == nil {
		t.Fatal("expected error for out-of-range multiplex entry")
	}
}

func TestChannelSetCollectsByMultiplex(t *testing.T) {
	m, err := New(Config{
		NChannels:   4,
		Submaps:     []Submap{{Floor: 0, Residue: 0}, {Floor: 0, Residue: 0}},
		Multiplex:   []int{0, 1, 0, 1},
		NumFloors:   1,
		NumResidues: 1,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got := m.ChannelSet(0)
	want := []int{0, 2}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("ChannelSet(0) = %v, want %v", got, want)
	}
}

func TestNewModeRejectsOutOfRangeMapping(t *testing.T) {
	if _, err := NewMode(false, 2, 2); err == nil {
		t.Fatal("expected error for out-of-range mapping index")
	}
	if _, err := NewMode(false, 1, 2); err != nil {
		t.Fatalf("NewMode: unexpected error %v", err)
	}
}

func TestPropagateUnusedClearsExactlyOne(t *testing.T) {
	couplings := []Coupling{{Magnitude: 0, Angle: 1}, {Magnitude: 2, Angle: 3}}
	unused := []bool{true, false, true, true}
	PropagateUnused(couplings, unused)
	if unused[0] || unused[1] {
		t.Fatalf("expected pair (0,1) cleared, got %v %v", unused[0], unused[1])
	}
	if !unused[2] || !unused[3] {
		t.Fatalf("expected both-unused pair (2,3) untouched, got %v %v", unused[2], unused[3])
	}
}

// coupleInverse is the encode-side coupling that Invert undoes, solved
// case-by-case from Invert's four branches (not part of the production
// package: this decoder never re-couples, only inverts). Each of its four
// branches lands in the Invert branch that maps it back, so
// Invert(coupleInverse(l,r)) == (l,r) for every pair. The other order does
// not hold in general: Invert is not one-to-one (Invert(7,9) and
// Invert(-2,-9) both give (7,-2)), and re-applying Invert to its own output
// is not an involution either. TestInvertRoundTrip below therefore checks
// Invert(coupleInverse(l,r)) == (l,r).
func coupleInverse(l, r float32) (m, a float32) {
	switch {
	case l > 0 && l > r:
		return l, l - r
	case l > 0 && l <= r:
		return r, l - r
	case l <= 0 && r > l:
		return l, r - l
	default:
		return r, r - l
	}
}

func TestInvertRoundTrip(t *testing.T) {
	cases := [][2]float32{
		{3, 1}, {3, -1}, {-3, 1}, {-3, -1}, {0, 0}, {5, 0}, {0, 5}, {1, 7}, {-2, -9},
	}
	for _, c := range cases {
		l, r := c[0], c[1]
		m, a := coupleInverse(l, r)
		l2, r2 := Invert(m, a)
		if !closeEnough(l2, l) || !closeEnough(r2, r) {
			t.Errorf("Invert(coupleInverse(%v,%v)) = (%v,%v), want original", l, r, l2, r2)
		}
	}
}

func closeEnough(a, b float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-6
}

func TestApplyCouplingInvertInPlace(t *testing.T) {
	couplings := []Coupling{{Magnitude: 0, Angle: 1}}
	ch0 := []float32{3, -3}
	ch1 := []float32{1, 1}
	channels := [][]float32{ch0, ch1}
	ApplyCouplingInvert(couplings, channels, 2)
	// m=3,a=1 -> m>0,a>0 -> (3, 2)
	if ch0[0] != 3 || ch1[0] != 2 {
		t.Errorf("sample 0 = (%v,%v), want (3,2)", ch0[0], ch1[0])
	}
	// m=-3,a=1 -> m<=0,a>0 -> (m, m+a) = (-3, -2)
	if ch0[1] != -3 || ch1[1] != -2 {
		t.Errorf("sample 1 = (%v,%v), want (-3,-2)", ch0[1], ch1[1])
	}
}
