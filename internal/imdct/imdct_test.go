package imdct

import (
	"math"
	"testing"
)

func TestDoMatchesDirectFormula(t *testing.T) {
	n := 16
	tr := New(n)
	half := n / 2
	spectrum := make([]float32, half)
	for k := range spectrum {
		spectrum[k] = float32(k%3) - 1
	}
	out := make([]float32, n)
	tr.Do(spectrum, out)

	for i := 0; i < n; i++ {
		var want float64
		for k := 0; k < half; k++ {
			angle := math.Pi / float64(2*n) * float64(2*i+1+half) * float64(2*k+1)
			want += float64(spectrum[k]) * math.Cos(angle)
		}
		if diff := float64(out[i]) - want; diff > 1e-5 || diff < -1e-5 {
			t.Fatalf("out[%d] = %v, want %v", i, out[i], want)
		}
	}
}

func TestDoLinear(t *testing.T) {
	n := 32
	tr := New(n)
	half := n / 2
	x := make([]float32, half)
	y := make([]float32, half)
	for k := range x {
		x[k] = float32(k) * 0.1
		y[k] = float32(half-k) * 0.3
	}
	sum := make([]float32, half)
	for k := range sum {
		sum[k] = x[k] + y[k]
	}

	outX := make([]float32, n)
	outY := make([]float32, n)
	outSum := make([]float32, n)
	tr.Do(x, outX)
	tr.Do(y, outY)
	tr.Do(sum, outSum)

	for i := 0; i < n; i++ {
		want := outX[i] + outY[i]
		if diff := outSum[i] - want; diff > 1e-3 || diff < -1e-3 {
			t.Fatalf("additivity failed at %d: %v != %v", i, outSum[i], want)
		}
	}
}

func TestNewCachesBySize(t *testing.T) {
	a := New(64)
	b := New(64)
	if a != b {
		t.Fatal("New(64) returned distinct instances, want cached singleton")
	}
	c := New(128)
	if a == c {
		t.Fatal("New(128) aliased the size-64 transform")
	}
}
