package window

import "testing"

func TestShortShortSymmetry(t *testing.T) {
	tb := New(64, 8192)
	w := tb.ShortShort
	n := len(w.Left) + len(w.Right)
	full := make([]float32, n)
	copy(full, w.Left)
	copy(full[len(w.Left):], w.Right)
	for i := range full {
		got := full[i]
		want := full[n-1-i]
		if diff := got - want; diff > 1e-6 || diff < -1e-6 {
			t.Fatalf("window not symmetric at %d: %v != %v", i, got, want)
		}
	}
}

func TestWindowRangeAndRampShape(t *testing.T) {
	tb := New(64, 8192)
	for _, w := range []Window{tb.ShortShort, tb.ShortLongShort, tb.ShortLongLong, tb.LongLongShort, tb.LongLongLong} {
		for _, v := range w.Left {
			if v < 0 || v > 1.0001 {
				t.Fatalf("left sample out of [0,1]: %v", v)
			}
		}
		for _, v := range w.Right {
			if v < 0 || v > 1.0001 {
				t.Fatalf("right sample out of [0,1]: %v", v)
			}
		}
		// the sample nearest the block center is 1: exactly, where a flat
		// sustain region exists, and within float32 rounding where the ramp
		// spans the whole half (sin(pi/2*sin^2(pi*(n/2-0.5)/n)) just below 1).
		if len(w.Left) > 0 && 1-w.Left[len(w.Left)-1] > 1e-6 {
			t.Fatalf("left window does not reach 1 before center: %v", w.Left[len(w.Left)-1])
		}
		if len(w.Right) > 0 && 1-w.Right[0] > 1e-6 {
			t.Fatalf("right window does not start at 1 from center: %v", w.Right[0])
		}
	}
}

func TestLongLongLongRampLength(t *testing.T) {
	tb := New(64, 8192)
	w := tb.LongLongLong
	if len(w.Left) != 4096 || len(w.Right) != 4096 {
		t.Fatalf("unexpected half length: %d/%d", len(w.Left), len(w.Right))
	}
}
