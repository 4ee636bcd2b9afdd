// Package imdct implements the inverse modified discrete cosine transform
// the Vorbis I orchestrator applies once per channel per packet, turning
// n/2 spectral floor*residue values into n time-domain samples.
package imdct

import (
	"math"
	"sync"
)

// Transform holds precomputed cosine twiddle factors for one block size n,
// kept as a long-lived instance so a packet decode never re-derives them.
// A decoder keeps exactly two of these, one for the short block size and
// one for the long block size (spec §4.7).
type Transform struct {
	n     int
	cos   [][]float32 // cos[k] has length n, cos[k][i] = cos(pi/(2n)*(2i+1+n/2)*(2k+1))
	mu    sync.Mutex
	built bool
}

var (
	cache   = map[int]*Transform{}
	cacheMu sync.Mutex
)

// New returns the Transform for block size n, building and caching its
// twiddle table on first use. n must be a power of two and at least 4.
func New(n int) *Transform {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	if t, ok := cache[n]; ok {
		return t
	}
	t := &Transform{n: n}
	t.build()
	cache[n] = t
	return t
}

func (t *Transform) build() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.built {
		return
	}
	n := t.n
	half := n / 2
	t.cos = make([][]float32, half)
	for k := 0; k < half; k++ {
		row := make([]float32, n)
		for i := 0; i < n; i++ {
			angle := math.Pi / float64(2*n) * float64(2*i+1+half) * float64(2*k+1)
			row[i] = float32(math.Cos(angle))
		}
		t.cos[k] = row
	}
	t.built = true
}

// N returns the block size this Transform was built for.
func (t *Transform) N() int { return t.n }

// Do computes the n-point inverse MDCT of spectrum (length n/2) into out
// (length n). out[i] = sum_k spectrum[k] * cos(pi/(2n)*(2i+1+n/2)*(2k+1)),
// the direct formula from the Vorbis I spec, evaluated exactly rather than
// through a fast (FFT-based) factorization so its output can be checked by
// inspection against the same naive reference the conformance tests use.
func (t *Transform) Do(spectrum, out []float32) {
	n := t.n
	half := n / 2
	for i := 0; i < n; i++ {
		var sum float32
		for k := 0; k < half; k++ {
			sum += spectrum[k] * t.cos[k][i]
		}
		out[i] = sum
	}
}
