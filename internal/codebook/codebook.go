// Package codebook implements Vorbis I's Huffman/VQ codebooks: a canonical
// prefix code over entry indices, with an optional vector-quantization
// lookup that turns a decoded index into a vector of dimensions floats.
package codebook

import (
	"math"

	"github.com/pkg/errors"

	"github.com/go-vorbis/vorbis/internal/bitreader"
)

// ErrUnderOverSpecified means the entry lengths do not form a valid,
// uniquely-decodable prefix code (Kraft inequality violated).
var ErrUnderOverSpecified = errors.New("codebook: entry lengths are not a valid prefix code")

// ErrEscapedTree means a Huffman bit walk ran off the tree without hitting
// a leaf: the decoder and encoder's codebooks have diverged.
var ErrEscapedTree = errors.New("codebook: huffman walk escaped the tree")

// ErrBadLookupType means lookup_type was not 0, 1, or 2.
var ErrBadLookupType = errors.New("codebook: invalid lookup type")

type node struct {
	leaf     bool
	entry    int
	children [2]*node
}

// Codebook is an immutable, constructed-once Huffman/VQ codebook.
type Codebook struct {
	Dimensions int
	Entries    int
	Lengths    []uint8 // per-entry codeword length, 0 = unused

	root *node

	LookupType int // 0, 1, or 2

	// vq is the precomputed, per-entry vector table (Entries*Dimensions
	// floats, flattened) built from multiplicands at construction time.
	// nil when LookupType == 0.
	vq []float32
}

// Config carries the raw fields read from a codebook's setup-header entry,
// exactly as the bitstream encodes them.
type Config struct {
	Dimensions    int
	Lengths       []uint8
	LookupType    int
	MinValue      float32
	DeltaValue    float32
	ValueBits     int
	SequenceP     bool
	Multiplicands []uint32 // raw quantized values, width ValueBits each
}

// New validates cfg's prefix code and, for lookup_type 1/2, precomputes the
// VQ vector table, returning a ready-to-use Codebook.
func New(cfg Config) (*Codebook, error) {
	cb := &Codebook{
		Dimensions: cfg.Dimensions,
		Entries:    len(cfg.Lengths),
		Lengths:    cfg.Lengths,
		LookupType: cfg.LookupType,
	}

	root, err := buildTree(cfg.Lengths)
	if err != nil {
		return nil, err
	}
	cb.root = root

	switch cfg.LookupType {
	case 0:
		// no VQ lookup; scalar_decode only.
	case 1, 2:
		vq, err := buildVQTable(cfg)
		if err != nil {
			return nil, err
		}
		cb.vq = vq
	default:
		return nil, ErrBadLookupType
	}

	return cb, nil
}

// buildTree assigns canonical Huffman codewords to entries by ascending
// length (the same bl_count/next_code construction as DEFLATE, applied to
// entry index order rather than a sorted alphabet — entries ARE the
// alphabet, already in their final order) and inserts each into a binary
// trie for bit-at-a-time decode.
func buildTree(lengths []uint8) (*node, error) {
	maxLen := 0
	for _, l := range lengths {
		if int(l) > maxLen {
			maxLen = int(l)
		}
	}
	if maxLen == 0 {
		return nil, ErrUnderOverSpecified
	}

	count := make([]int, maxLen+1)
	for _, l := range lengths {
		if l > 0 {
			count[l]++
		}
	}

	// Kraft inequality: sum(2^-length) must equal 1 for a complete code,
	// unless there is exactly one entry (which needs no bits at all).
	var used int
	for _, l := range lengths {
		if l > 0 {
			used++
		}
	}
	if used > 1 {
		var kraft float64
		for length, c := range count {
			if c == 0 {
				continue
			}
			kraft += float64(c) * math.Pow(2, -float64(length))
		}
		if kraft > 1.0+1e-9 || kraft < 1.0-1e-9 {
			return nil, ErrUnderOverSpecified
		}
	}

	nextCode := make([]uint32, maxLen+2)
	var code uint32
	for bits := 1; bits <= maxLen; bits++ {
		code = (code + uint32(count[bits-1])) << 1
		nextCode[bits] = code
	}

	root := &node{}
	for entry, length := range lengths {
		if length == 0 {
			continue
		}
		cw := nextCode[length]
		nextCode[length]++
		if err := insert(root, cw, int(length), entry); err != nil {
			return nil, err
		}
	}
	return root, nil
}

func insert(root *node, codeword uint32, length, entry int) error {
	n := root
	for depth := 0; depth < length; depth++ {
		bit := (codeword >> uint(length-1-depth)) & 1
		if depth == length-1 {
			if n.children[bit] != nil {
				return ErrUnderOverSpecified
			}
			n.children[bit] = &node{leaf: true, entry: entry}
			return nil
		}
		if n.children[bit] == nil {
			n.children[bit] = &node{}
		} else if n.children[bit].leaf {
			return ErrUnderOverSpecified
		}
		n = n.children[bit]
	}
	return nil
}

// ScalarDecode walks the Huffman tree bit by bit (MSB of the codeword
// first) and returns the decoded entry index.
func (cb *Codebook) ScalarDecode(r *bitreader.Reader) (int, error) {
	n := cb.root
	for {
		bit, err := r.ReadBit()
		if err != nil {
			return 0, err
		}
		n = n.children[bit]
		if n == nil {
			return 0, ErrEscapedTree
		}
		if n.leaf {
			return n.entry, nil
		}
	}
}

// VQDecode scalar-decodes an entry and returns its precomputed vector of
// Dimensions floats. Must only be called when LookupType != 0.
func (cb *Codebook) VQDecode(r *bitreader.Reader) ([]float32, error) {
	entry, err := cb.ScalarDecode(r)
	if err != nil {
		return nil, err
	}
	off := entry * cb.Dimensions
	return cb.vq[off : off+cb.Dimensions], nil
}

// QuantValues exposes quantValues so setup-header parsing can compute how
// many multiplicands a lookup-type-1 codebook packs, before a Config can be
// built.
func QuantValues(entries, dim int) int {
	return quantValues(entries, dim)
}

// quantValues returns the integer base v such that v^dim <= entries <
// (v+1)^dim, the lookup_type-1 "lattice" index base (libvorbis's
// _book_maptype1_quantvals).
func quantValues(entries, dim int) int {
	if dim == 0 {
		return 0
	}
	v := int(math.Floor(math.Pow(float64(entries), 1.0/float64(dim))))
	for pow(v+1, dim) <= entries {
		v++
	}
	for v > 0 && pow(v, dim) > entries {
		v--
	}
	return v
}

func pow(base, exp int) int {
	r := 1
	for i := 0; i < exp; i++ {
		r *= base
		if r < 0 { // overflow guard; entries/dims are small in practice
			return math.MaxInt32
		}
	}
	return r
}

// buildVQTable expands cfg.Multiplicands into the per-entry vector table,
// per spec §4.2: lookup type 1 indexes a lattice of quantValues digits per
// dimension (base lookup_values, libvorbis's "maptype 1"); lookup type 2
// stores one multiplicand per dimension per entry directly ("maptype 2").
func buildVQTable(cfg Config) ([]float32, error) {
	entries := len(cfg.Lengths)
	dim := cfg.Dimensions
	out := make([]float32, entries*dim)

	switch cfg.LookupType {
	case 1:
		lookupValues := quantValues(entries, dim)
		if lookupValues == 0 {
			return out, nil
		}
		for e := 0; e < entries; e++ {
			idx := e
			var last float32
			for d := 0; d < dim; d++ {
				digit := idx % lookupValues
				idx /= lookupValues
				if digit >= len(cfg.Multiplicands) {
					return nil, errors.New("codebook: multiplicand index out of range")
				}
				val := cfg.MinValue + float32(cfg.Multiplicands[digit])*cfg.DeltaValue + last
				if cfg.SequenceP {
					last = val
				}
				out[e*dim+d] = val
			}
		}
	case 2:
		for e := 0; e < entries; e++ {
			var last float32
			for d := 0; d < dim; d++ {
				mi := e*dim + d
				if mi >= len(cfg.Multiplicands) {
					return nil, errors.New("codebook: multiplicand index out of range")
				}
				val := cfg.MinValue + float32(cfg.Multiplicands[mi])*cfg.DeltaValue + last
				if cfg.SequenceP {
					last = val
				}
				out[e*dim+d] = val
			}
		}
	default:
		return nil, ErrBadLookupType
	}
	return out, nil
}
