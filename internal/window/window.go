// Package window precomputes the MDCT window tables the Vorbis I orchestrator
// selects between once per packet: short-short, and the four long-block
// ramp combinations (short-long-short, short-long-long, long-long-short,
// long-long-long), per the previous/next block-size flags.
package window

import "math"

// Window holds the per-sample multipliers applied to a block's time-domain
// output: Left covers the first n/2 samples, Right the last n/2, where n is
// the block size this Window was built for.
type Window struct {
	Left  []float32
	Right []float32
}

// vorbisWindow computes the canonical Vorbis window shape at position i of
// a window spanning n samples: w(i) = sin(pi/2 * sin^2(pi*(i+0.5)/n)).
// Symmetric (w[i] = w[n-1-i]) and power-complementary across a half-window
// shift: w[i]^2 + w[i+n/2]^2 = 1.
func vorbisWindow(i, n int) float32 {
	x := float64(i) + 0.5
	s := math.Sin(math.Pi * x / float64(n))
	return float32(math.Sin(math.Pi / 2 * s * s))
}

// build constructs the length-n window split into two n/2 halves, with a
// rising ramp of ln/2 samples at the start and a falling ramp of rn/2
// samples at the end; the span between ramps is flat at 1. ln and rn are
// the "window size" of the neighboring block on each side (bs0 or bs1).
func build(n, ln, rn int) Window {
	half := n / 2
	left := make([]float32, half)
	right := make([]float32, half)

	for i := 0; i < half; i++ {
		if i < ln/2 {
			left[i] = vorbisWindow(i, ln)
		} else {
			left[i] = 1
		}
	}

	rampStart := n - rn/2
	for i := 0; i < half; i++ {
		global := half + i
		if global >= rampStart {
			j := global - rampStart
			right[i] = vorbisWindow(rn/2+j, rn)
		} else {
			right[i] = 1
		}
	}

	return Window{Left: left, Right: right}
}

// Tables holds the five window shapes a packet's mode/flags can select,
// precomputed once from the ident header's two block exponents.
type Tables struct {
	ShortShort    Window // block_flag=false
	ShortLongShort Window // block_flag=true, prev=0, next=0
	ShortLongLong  Window // prev=0, next=1
	LongLongShort  Window // prev=1, next=0
	LongLongLong   Window // prev=1, next=1
}

// New precomputes all five window shapes for the given short (bs0) and
// long (bs1) block sizes (already 1<<exp, not the exponents).
func New(bs0, bs1 int) *Tables {
	return &Tables{
		ShortShort:     build(bs0, bs0, bs0),
		ShortLongShort: build(bs1, bs0, bs0),
		ShortLongLong:  build(bs1, bs0, bs1),
		LongLongShort:  build(bs1, bs1, bs0),
		LongLongLong:   build(bs1, bs1, bs1),
	}
}

// Select returns the window for a short block, or for a long block given
// the previous/next window flags read from the packet.
func (t *Tables) Select(blockFlag, prevFlag, nextFlag bool) *Window {
	if !blockFlag {
		return &t.ShortShort
	}
	switch {
	case !prevFlag && !nextFlag:
		return &t.ShortLongShort
	case !prevFlag && nextFlag:
		return &t.ShortLongLong
	case prevFlag && !nextFlag:
		return &t.LongLongShort
	default:
		return &t.LongLongLong
	}
}
