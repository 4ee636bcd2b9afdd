// decoder.go implements the public Decoder API: construction from an
// ident+setup header blob and the per-packet decode orchestrator (spec
// §4.6), tying the bit reader, codebook, floor, residue, mapping, and dsp
// packages together.

package vorbis

import (
	"log/slog"

	"github.com/pkg/errors"

	"github.com/go-vorbis/vorbis/internal/bitreader"
	"github.com/go-vorbis/vorbis/internal/codebook"
	"github.com/go-vorbis/vorbis/internal/dsp"
	"github.com/go-vorbis/vorbis/internal/floor"
	"github.com/go-vorbis/vorbis/internal/mapping"
	"github.com/go-vorbis/vorbis/internal/residue"
	"github.com/go-vorbis/vorbis/internal/window"
)

// Option configures a Decoder at construction time. The decoder's real
// "configuration" is the ident+setup header blob itself (spec §6); these
// are the few knobs that sit outside that blob.
type Option func(*Decoder)

// WithLogger overrides the decoder's diagnostic logger (default:
// slog.Default()). Only used for non-fatal, non-per-packet conditions.
func WithLogger(l *slog.Logger) Option {
	return func(d *Decoder) { d.logger = l }
}

// WithStrict makes leftover bits after the setup header (normally only
// logged at debug level) a construction error instead.
func WithStrict(strict bool) Option {
	return func(d *Decoder) { d.strict = strict }
}

// Decoder decodes Vorbis I packets into planar float32 PCM samples.
//
// A Decoder instance maintains internal lapping state and is NOT safe for
// concurrent use; each goroutine should create its own instance (spec §5).
type Decoder struct {
	ident IdentHeader

	codebooks []*codebook.Codebook
	floors    []*floor.Floor
	residues  []*residue.Residue
	mappings  []*mapping.Mapping
	modes     []mapping.Mode

	windows *window.Tables
	dsp     *dsp.Dsp

	reader *bitreader.Reader

	// submapChannels[mappingIdx][submapIdx] is the fixed (construction-time)
	// ascending list of channel indices routed to that submap; computed
	// once since Mapping.Multiplex never changes (spec §3 Mapping is
	// immutable).
	submapChannels [][][]int

	// allResidueBufs aliases dsp.Channels[c].Residue for every channel, in
	// absolute channel order; stable for the decoder's lifetime, reused
	// every packet for inverse coupling.
	allResidueBufs [][]float32

	// residueScratch and unusedScratch are reused per-packet working sets
	// sized once to NChannels, avoiding per-decode-call allocation (spec §5).
	residueScratch [][]float32
	unusedScratch  []bool

	logger *slog.Logger
	strict bool
}

// NewDecoder constructs a Decoder from the ident+setup header blob (spec
// §6's "extra data": the identification header followed immediately by the
// setup header, with no Ogg framing).
func NewDecoder(extraData []byte, opts ...Option) (*Decoder, error) {
	if len(extraData) == 0 {
		return nil, newErr(KindUnsupported, "missing extra data")
	}

	ident, err := parseIdentHeader(extraData)
	if err != nil {
		return nil, err
	}
	if ident.NChannels > 8 {
		return nil, newErr(KindUnsupported, "maximum 8 supported channels")
	}

	setup, bitsLeft, err := parseSetupHeader(extraData[identHeaderLen:], ident)
	if err != nil {
		return nil, err
	}

	d := &Decoder{
		ident:     *ident,
		codebooks: setup.codebooks,
		floors:    setup.floors,
		residues:  setup.residues,
		mappings:  setup.mappings,
		modes:     setup.modes,
		windows:   window.New(1<<ident.Bs0Exp, 1<<ident.Bs1Exp),
		dsp:       dsp.New(ident.NChannels, 1<<ident.Bs0Exp, 1<<ident.Bs1Exp),
		reader:    bitreader.New(nil),
		logger:    logger(),
	}
	for _, opt := range opts {
		opt(d)
	}

	if bitsLeft > 0 {
		if d.strict {
			return nil, newErr(KindInvalidHeader, "leftover bits in setup header extra data")
		}
		d.logger.Debug("vorbis: leftover bits in setup header extra data", "bits", bitsLeft)
	}

	d.submapChannels = make([][][]int, len(d.mappings))
	for mi, m := range d.mappings {
		sets := make([][]int, len(m.Submaps))
		for si := range sets {
			sets[si] = m.ChannelSet(si)
		}
		d.submapChannels[mi] = sets
	}

	d.allResidueBufs = make([][]float32, ident.NChannels)
	for c := range d.allResidueBufs {
		d.allResidueBufs[c] = d.dsp.Channels[c].Residue
	}
	d.residueScratch = make([][]float32, ident.NChannels)
	d.unusedScratch = make([]bool, ident.NChannels)

	return d, nil
}

// Channels returns the number of audio channels.
func (d *Decoder) Channels() int { return d.ident.NChannels }

// SampleRate returns the sample rate in Hz.
func (d *Decoder) SampleRate() int { return int(d.ident.SampleRate) }

// ChannelLayout returns the fixed speaker assignment for this stream's
// channel count (spec §6).
func (d *Decoder) ChannelLayout() ([]Speaker, error) {
	return channelLayout(d.ident.NChannels)
}

// Reset clears lapping state for a new stream position (e.g. after a seek).
func (d *Decoder) Reset() {
	d.dsp.Reset()
}

// Decode decodes one Vorbis audio packet (no Ogg framing) and returns the
// samples emitted this call, one slice per channel (nil/empty on the first
// packet after construction or Reset, per spec §4.6 step 12). The returned
// slices alias Decoder-owned scratch and are only valid until the next
// Decode or Reset call.
func (d *Decoder) Decode(packet []byte) ([][]float32, error) {
	r := d.reader
	r.Reset(packet)

	// Step 1: packet type.
	first, err := r.ReadBit()
	if err != nil {
		return nil, wrapErr(KindIoShort, "reading packet type bit", err)
	}
	if first != 0 {
		return nil, ErrPacketTypeMismatch
	}

	// Step 2: mode index.
	modeBits := bitreader.ILog(uint32(len(d.modes) - 1))
	modeNum, err := r.ReadBitsLeq32(modeBits)
	if err != nil {
		return nil, wrapErr(KindIoShort, "reading mode number", err)
	}
	if int(modeNum) >= len(d.modes) {
		return nil, newErr(KindInvalidMode, "invalid packet mode number")
	}
	mode := d.modes[modeNum]
	curMapping := d.mappings[mode.MappingIndex]

	// Step 3: window shape and block exponent.
	var exp int
	var win *window.Window
	if mode.BlockFlag {
		prevFlag, err := r.ReadBit()
		if err != nil {
			return nil, wrapErr(KindIoShort, "reading previous window flag", err)
		}
		nextFlag, err := r.ReadBit()
		if err != nil {
			return nil, wrapErr(KindIoShort, "reading next window flag", err)
		}
		win = d.windows.Select(true, prevFlag != 0, nextFlag != 0)
		exp = d.ident.Bs1Exp
	} else {
		win = d.windows.Select(false, false, false)
		exp = d.ident.Bs0Exp
	}

	n := 1 << exp
	half := n / 2

	// Step 5: per-channel floor decode.
	for c, submapIdx := range curMapping.Multiplex {
		submap := curMapping.Submaps[submapIdx]
		flr := d.floors[submap.Floor]

		fch := floor.Channel{Curve: d.dsp.Channels[c].FloorCurve[:half]}
		if err := flr.ReadChannel(r, n, &fch); err != nil {
			return nil, wrapDecodeErr(KindInvalidFloor, "reading channel floor", err)
		}
		d.dsp.Channels[c].DoNotDecode = fch.Unused
		if fch.Unused {
			clear32(d.dsp.Channels[c].FloorCurve[:half])
		}
	}

	// Step 6: non-zero propagation.
	for c := range d.unusedScratch {
		d.unusedScratch[c] = d.dsp.Channels[c].DoNotDecode
	}
	mapping.PropagateUnused(curMapping.Couplings, d.unusedScratch)
	for c := range d.unusedScratch {
		d.dsp.Channels[c].DoNotDecode = d.unusedScratch[c]
	}

	// Residue decode accumulates onto the residue buffer (spec §4.5 cascade
	// passes add into the vector); every channel's span must start at zero,
	// whether or not it ends up participating.
	for c := 0; c < d.ident.NChannels; c++ {
		clear32(d.dsp.Channels[c].Residue[:half])
	}

	// Step 7: residue decode, one submap at a time.
	for si, submap := range curMapping.Submaps {
		bufs := d.residueScratch[:0]
		for _, c := range d.submapChannels[mode.MappingIndex][si] {
			if d.dsp.Channels[c].DoNotDecode {
				continue
			}
			bufs = append(bufs, d.dsp.Channels[c].Residue)
		}
		if err := d.residues[submap.Residue].Decode(r, bufs, half); err != nil {
			return nil, wrapDecodeErr(KindInvalidResidue, "decoding residue", err)
		}
	}

	// Step 8: inverse coupling.
	mapping.ApplyCouplingInvert(curMapping.Couplings, d.allResidueBufs, half)

	// Steps 9-12: dot product, IMDCT, windowing, overlap-add.
	return d.dsp.Process(n, win), nil
}

func clear32(s []float32) {
	for i := range s {
		s[i] = 0
	}
}

// wrapDecodeErr reports a Huffman tree walk that escaped without hitting a
// leaf as KindInvalidCode (spec §7), regardless of which higher-level
// decode step (floor or residue) triggered the codebook read; every other
// cause is tagged with the caller's own kind.
func wrapDecodeErr(kind ErrorKind, msg string, cause error) *DecodeError {
	if errors.Is(cause, codebook.ErrEscapedTree) {
		return wrapErr(KindInvalidCode, msg, cause)
	}
	return wrapErr(kind, msg, cause)
}
