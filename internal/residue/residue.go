// Package residue implements Vorbis I's three residue coding variants
// (types 0, 1, and 2), the partitioned, classbook-driven, eight-pass
// cascade decode that reconstructs each channel's spectral fine structure.
package residue

import (
	"github.com/pkg/errors"

	"github.com/go-vorbis/vorbis/internal/bitreader"
	"github.com/go-vorbis/vorbis/internal/codebook"
)

// ErrInvalidResidue covers malformed residue configuration or an
// out-of-range book reference encountered during decode.
var ErrInvalidResidue = errors.New("residue: invalid residue configuration")

// maxClasswords bounds classwords_per_codeword (the classbook's
// dimension), which in every real Vorbis I stream is a small single-digit
// count; this guards the fixed-size digit-unpack buffer below.
const maxClasswords = 32

// Kind distinguishes the three residue layouts.
type Kind int

const (
	Type0 Kind = iota // interleaved VQ within a partition
	Type1             // sequential VQ within a partition
	Type2             // channels merged into one interleaved vector
)

// Config is the immutable, setup-header-derived configuration of one
// residue instance.
type Config struct {
	Kind            Kind
	Begin, End      int
	PartitionSize   int
	Classifications int
	ClassBook       *codebook.Codebook
	// CascadeBooks[class][pass] is the book used for that class on that
	// cascade pass, or nil if the pass is skipped for that class.
	CascadeBooks [][8]*codebook.Codebook
}

// Residue decodes packets against a fixed Config, reusing scratch buffers
// across calls.
type Residue struct {
	cfg       Config
	classwords int

	classScratch [][]int // [channel][partition], grown on demand
	merged       []float32
}

// New validates cfg and returns a ready-to-use Residue.
func New(cfg Config) (*Residue, error) {
	if cfg.PartitionSize <= 0 || cfg.End < cfg.Begin || cfg.ClassBook == nil {
		return nil, ErrInvalidResidue
	}
	if (cfg.End-cfg.Begin)%cfg.PartitionSize != 0 {
		return nil, ErrInvalidResidue
	}
	cw := cfg.ClassBook.Dimensions
	if cw <= 0 || cw > maxClasswords {
		return nil, ErrInvalidResidue
	}
	if len(cfg.CascadeBooks) < cfg.Classifications {
		return nil, ErrInvalidResidue
	}
	return &Residue{cfg: cfg, classwords: cw}, nil
}

// Decode reads this residue's contribution into channels, one slice per
// participating channel, each indexed absolutely (so cfg.Begin..cfg.End is
// the span written, clamped to the current packet's half-block length).
// Channels already excluded by do_not_decode must not be passed in; their
// buffers are the caller's responsibility to zero.
//
// half is the active packet's n/2 (mirroring floor.ReadChannel's n): a
// short-block packet may configure fewer usable coefficients than the
// residue's setup-header Begin/End span allows for a long block, so End
// (and Begin, if it too falls past half) must be clamped per-packet rather
// than read verbatim from Config.
func (res *Residue) Decode(r *bitreader.Reader, channels [][]float32, half int) error {
	begin, end := res.clampSpan(half)
	switch res.cfg.Kind {
	case Type0:
		return res.decodeMulti(r, channels, begin, end, true)
	case Type1:
		return res.decodeMulti(r, channels, begin, end, false)
	case Type2:
		return res.decodeType2(r, channels, begin, end)
	default:
		return ErrInvalidResidue
	}
}

// clampSpan bounds the configured [Begin,End) span to the current block's
// half-length, matching real Vorbis I decode (confirmed by the threaded
// bs_exp/half-length parameter the original source passes into residue
// decode): End never reads past half, and Begin is pulled down to End if it
// would otherwise exceed it, leaving an empty span rather than a negative
// one.
func (res *Residue) clampSpan(half int) (begin, end int) {
	end = res.cfg.End
	if end > half {
		end = half
	}
	begin = res.cfg.Begin
	if begin > end {
		begin = end
	}
	return begin, end
}

func (res *Residue) ensureScratch(nch, numPartitions int) {
	if len(res.classScratch) < nch {
		old := res.classScratch
		res.classScratch = make([][]int, nch)
		copy(res.classScratch, old)
	}
	for c := 0; c < nch; c++ {
		if len(res.classScratch[c]) < numPartitions {
			res.classScratch[c] = make([]int, numPartitions)
		}
	}
}

func (res *Residue) ensureMerged(n int) {
	if len(res.merged) < n {
		res.merged = make([]float32, n)
	}
}

// decodeMulti decodes residue type 0 or 1 across [begin,end) for nch
// independent channels. interleaved selects type 0's stride pattern versus
// type 1's contiguous one.
func (res *Residue) decodeMulti(r *bitreader.Reader, channels [][]float32, begin, end int, interleaved bool) error {
	nch := len(channels)
	if nch == 0 {
		return nil
	}
	span := end - begin
	numPartitions := span / res.cfg.PartitionSize
	res.ensureScratch(nch, numPartitions)
	cw := res.classwords

	var digits [maxClasswords]int
	for pStart := 0; pStart < numPartitions; pStart += cw {
		group := cw
		if pStart+group > numPartitions {
			group = numPartitions - pStart
		}
		for c := 0; c < nch; c++ {
			v, err := res.cfg.ClassBook.ScalarDecode(r)
			if err != nil {
				return err
			}
			for k := cw - 1; k >= 0; k-- {
				digits[k] = v % res.cfg.Classifications
				v /= res.cfg.Classifications
			}
			for k := 0; k < group; k++ {
				res.classScratch[c][pStart+k] = digits[k]
			}
		}
	}

	for pass := 0; pass < 8; pass++ {
		for p := 0; p < numPartitions; p++ {
			partOffset := begin + p*res.cfg.PartitionSize
			for c := 0; c < nch; c++ {
				cls := res.classScratch[c][p]
				if cls < 0 || cls >= len(res.cfg.CascadeBooks) {
					return ErrInvalidResidue
				}
				book := res.cfg.CascadeBooks[cls][pass]
				if book == nil {
					continue
				}
				dim := book.Dimensions
				if dim <= 0 {
					return ErrInvalidResidue
				}
				reads := res.cfg.PartitionSize / dim
				for i := 0; i < reads; i++ {
					vec, err := book.VQDecode(r)
					if err != nil {
						return err
					}
					if interleaved {
						for j, v := range vec {
							channels[c][partOffset+i+j*reads] += v
						}
					} else {
						base := partOffset + i*dim
						for j, v := range vec {
							channels[c][base+j] += v
						}
					}
				}
			}
		}
	}
	return nil
}

// decodeType2 merges channels into one virtual channel of length
// nch*(end-begin), decodes it exactly like type 1, then deinterleaves
// round-robin across the real channels (spec §4.5). begin/end are already
// clamped to the active packet's half-block length by Decode.
func (res *Residue) decodeType2(r *bitreader.Reader, channels [][]float32, begin, end int) error {
	nch := len(channels)
	if nch == 0 {
		return nil
	}
	span := end - begin
	vlen := nch * span
	res.ensureMerged(vlen)
	merged := res.merged[:vlen]
	for i := range merged {
		merged[i] = 0
	}
	if err := res.decodeMulti(r, [][]float32{merged}, 0, vlen, false); err != nil {
		return err
	}
	for i := 0; i < vlen; i++ {
		c := i % nch
		pos := i / nch
		channels[c][begin+pos] += merged[i]
	}
	return nil
}
