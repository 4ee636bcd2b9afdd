// Package floor implements the two Vorbis I spectral envelope curve
// synthesizers: floor type 0 (LSP-based) and floor type 1 (piecewise
// linear-in-log). Both are reimplemented here as a tagged variant rather
// than runtime polymorphism, since there are exactly two shapes.
package floor

import (
	"github.com/pkg/errors"

	"github.com/go-vorbis/vorbis/internal/bitreader"
)

// ErrInvalidFloor covers every per-floor construction or decode failure:
// duplicate X posits, an out-of-range book reference, or an unknown kind.
var ErrInvalidFloor = errors.New("floor: invalid floor configuration")

// Kind distinguishes the two floor curve families.
type Kind int

const (
	Type0 Kind = iota
	Type1
)

// Channel is the per-channel, per-packet scratch and output for one floor
// read: Curve is sized to n/2 by the caller (the packet orchestrator in
// decoder.go, slicing the dsp channel's FloorCurve) before each call and is
// overwritten in place.
type Channel struct {
	Curve  []float32
	Unused bool
}

// Floor dispatches ReadChannel to whichever concrete synthesizer this
// instance was built for. A Floor's internal scratch is shared across every
// channel that references it through a mapping's submaps; callers must
// finish synthesizing into a channel's own Curve before reading the next
// channel, per the ordering discipline the Vorbis I design requires.
type Floor struct {
	kind Kind
	f0   *floor0
	f1   *floor1
}

// NewType0 builds a floor type 0 (LSP) synthesizer.
func NewType0(cfg Floor0Config) (*Floor, error) {
	f0, err := newFloor0(cfg)
	if err != nil {
		return nil, err
	}
	return &Floor{kind: Type0, f0: f0}, nil
}

// NewType1 builds a floor type 1 (piecewise linear) synthesizer.
func NewType1(cfg Floor1Config) (*Floor, error) {
	f1, err := newFloor1(cfg)
	if err != nil {
		return nil, err
	}
	return &Floor{kind: Type1, f1: f1}, nil
}

// ReadChannel reads one channel's floor for a block of size n, writing the
// resulting n/2-sample curve (or marking the channel unused) into ch.
func (f *Floor) ReadChannel(r *bitreader.Reader, n int, ch *Channel) error {
	switch f.kind {
	case Type0:
		return f.f0.readChannel(r, n, ch)
	case Type1:
		return f.f1.readChannel(r, n, ch)
	default:
		return ErrInvalidFloor
	}
}
