// Package mapping implements Vorbis I's channel mapping and mode tables:
// the rule that assigns channels to floors and residues, the coupling
// (square-polar to rectangular) inversion between channel pairs, and the
// per-packet mode selector read from the setup header.
package mapping

import (
	"github.com/pkg/errors"
)

// ErrInvalidMapping covers every Mapping construction failure: self
// coupling, an out-of-range channel or submap/floor/residue reference, or
// an out-of-range multiplex entry (spec §7).
var ErrInvalidMapping = errors.New("mapping: invalid mapping configuration")

// ErrInvalidMode covers a Mode referencing an out-of-range mapping (spec
// §7). Nonzero window/transform-type fields are rejected by header parsing
// before NewMode is called, not through this error.
var ErrInvalidMode = errors.New("mapping: invalid mode configuration")

// Submap is one submap entry: the floor and residue instance a channel
// routed to it uses.
type Submap struct {
	Floor   int
	Residue int
}

// Coupling is one magnitude/angle channel pair for square-polar inversion.
type Coupling struct {
	Magnitude int
	Angle     int
}

// Mapping is one immutable channel-mapping table (spec §3 Mapping).
type Mapping struct {
	Submaps    []Submap
	Multiplex  []int // len n_channels, index into Submaps
	Couplings  []Coupling
}

// Config carries the raw setup-header fields needed to validate and build
// a Mapping against a fixed channel count and known floor/residue table
// sizes.
type Config struct {
	NChannels   int
	Submaps     []Submap
	Multiplex   []int
	Couplings   []Coupling
	NumFloors   int
	NumResidues int
}

// New validates cfg's invariants (spec §3, §7 InvalidMapping) and returns
// a ready-to-use Mapping.
func New(cfg Config) (*Mapping, error) {
	if cfg.NChannels <= 0 || len(cfg.Submaps) == 0 || len(cfg.Submaps) > 16 {
		return nil, ErrInvalidMapping
	}
	if len(cfg.Multiplex) != cfg.NChannels {
		return nil, ErrInvalidMapping
	}
	for _, sm := range cfg.Submaps {
		if sm.Floor < 0 || sm.Floor >= cfg.NumFloors {
			return nil, ErrInvalidMapping
		}
		if sm.Residue < 0 || sm.Residue >= cfg.NumResidues {
			return nil, ErrInvalidMapping
		}
	}
	for _, m := range cfg.Multiplex {
		if m < 0 || m >= len(cfg.Submaps) {
			return nil, ErrInvalidMapping
		}
	}
	if len(cfg.Couplings) > 256 {
		return nil, ErrInvalidMapping
	}
	for _, c := range cfg.Couplings {
		if c.Magnitude == c.Angle {
			return nil, ErrInvalidMapping
		}
		if c.Magnitude < 0 || c.Magnitude >= cfg.NChannels {
			return nil, ErrInvalidMapping
		}
		if c.Angle < 0 || c.Angle >= cfg.NChannels {
			return nil, ErrInvalidMapping
		}
	}
	return &Mapping{
		Submaps:   cfg.Submaps,
		Multiplex: cfg.Multiplex,
		Couplings: cfg.Couplings,
	}, nil
}

// ChannelSet collects the channels multiplexed to a given submap, in
// ascending channel order.
func (m *Mapping) ChannelSet(submapIdx int) []int {
	var out []int
	for c, sm := range m.Multiplex {
		if sm == submapIdx {
			out = append(out, c)
		}
	}
	return out
}

// Mode is the top-level per-packet selector (spec §3 Mode): which block
// size family to use and which Mapping to decode with.
type Mode struct {
	BlockFlag    bool
	MappingIndex int
}

// NewMode validates a Mode against the mapping table size; the bitstream's
// window-type and transform-type fields must be zero, which the caller
// (header parsing) enforces by rejecting nonzero reads before ever
// constructing a Mode.
func NewMode(blockFlag bool, mappingIndex, numMappings int) (Mode, error) {
	if mappingIndex < 0 || mappingIndex >= numMappings {
		return Mode{}, ErrInvalidMode
	}
	return Mode{BlockFlag: blockFlag, MappingIndex: mappingIndex}, nil
}

// PropagateUnused implements spec §4.6 step 6: for each coupling, if
// exactly one of (magnitude_ch, angle_ch) is unused, both are cleared
// (marked used) so residue decode still runs for the pair. Both-unused
// pairs are left untouched (observed behavior, spec §9).
func PropagateUnused(couplings []Coupling, unused []bool) {
	for _, c := range couplings {
		mUnused := unused[c.Magnitude]
		aUnused := unused[c.Angle]
		if mUnused != aUnused {
			unused[c.Magnitude] = false
			unused[c.Angle] = false
		}
	}
}

// Invert applies the sign-quadrant coupling-inversion rule (spec §4.6 step
// 8) to one (magnitude, angle) sample pair, converting square-polar
// representation back to rectangular (m, a) = (channel values). Invert is
// the decode-side half of a pair of distinct encode/decode functions, not
// a self-inverse: feeding its own output back into Invert only recovers
// the original pair in the m>0, 0<a<m quadrant, not in general, and Invert
// is not one-to-one (Invert(7,9) == Invert(-2,-9)). Spec §8 invariant 5 is
// verified by checking that Invert undoes the encode-side coupling instead;
// see DESIGN.md.
func Invert(m, a float32) (float32, float32) {
	switch {
	case m > 0 && a > 0:
		return m, m - a
	case m > 0 && a <= 0:
		return m + a, m
	case m <= 0 && a > 0:
		return m, m + a
	default:
		return m - a, m
	}
}

// ApplyCouplingInvert runs Invert over every sample of every coupling pair
// in channels (indexed by channel number, each slice at least n long),
// in place.
func ApplyCouplingInvert(couplings []Coupling, channels [][]float32, n int) {
	for _, c := range couplings {
		mag := channels[c.Magnitude]
		ang := channels[c.Angle]
		for i := 0; i < n; i++ {
			mag[i], ang[i] = Invert(mag[i], ang[i])
		}
	}
}
