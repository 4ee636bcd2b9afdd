package residue

import (
	"testing"

	"github.com/go-vorbis/vorbis/internal/bitreader"
	"github.com/go-vorbis/vorbis/internal/codebook"
)

// bitWriter packs bits LSB-first to match bitreader.Reader's read order,
// mirroring the helper used in the codebook package's tests.
type bitWriter struct {
	buf  []byte
	nbit uint
}

func (w *bitWriter) writeBits(v uint32, n int) {
	for i := 0; i < n; i++ {
		byteIdx := int(w.nbit / 8)
		for byteIdx >= len(w.buf) {
			w.buf = append(w.buf, 0)
		}
		if (v>>uint(i))&1 != 0 {
			w.buf[byteIdx] |= 1 << (w.nbit % 8)
		}
		w.nbit++
	}
}

// singleEntryBook returns a one-entry codebook (codeword length 1, bit "0")
// whose scalar decode always yields entry 0, used to drive classification
// reads deterministically.
func singleEntryBook(t *testing.T, dims int) *codebook.Codebook {
	t.Helper()
	cb, err := codebook.New(codebook.Config{
		Dimensions: dims,
		Lengths:    []uint8{1},
		LookupType: 0,
	})
	if err != nil {
		t.Fatalf("codebook.New: %v", err)
	}
	return cb
}

// vqBook returns a 2-entry lookup-type-1 codebook (lengths [1,1]) used as a
// cascade-pass VQ book with the given dimension: codeword "0" decodes to
// entry 0 and codeword "1" to entry 1, and with dims == 1 their vectors are
// {0} and {1} (min 0, delta 1, multiplicands [0,1]).
func vqBook(t *testing.T, dims int) *codebook.Codebook {
	t.Helper()
	cb, err := codebook.New(codebook.Config{
		Dimensions:    dims,
		Lengths:       []uint8{1, 1},
		LookupType:    1,
		MinValue:      0,
		DeltaValue:    1,
		ValueBits:     1,
		SequenceP:     false,
		Multiplicands: []uint32{0, 1},
	})
	if err != nil {
		t.Fatalf("codebook.New: %v", err)
	}
	return cb
}

func TestDecodeType1Contiguous(t *testing.T) {
	classBook := singleEntryBook(t, 1) // classwords_per_codeword == 1
	book := vqBook(t, 1)

	cascades := make([][8]*codebook.Codebook, 1)
	cascades[0][0] = book

	res, err := New(Config{
		Kind:            Type1,
		Begin:           0,
		End:             4,
		PartitionSize:   2,
		Classifications: 1,
		ClassBook:       classBook,
		CascadeBooks:    cascades,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	w := &bitWriter{}
	// Two partitions, one classification codeword ("0") each.
	w.writeBits(0, 1)
	w.writeBits(0, 1)
	// Four VQ reads (partition_size/dim = 2 per partition), codeword "1"
	// decodes to entry 1 -> value 1 per the lattice above.
	for i := 0; i < 4; i++ {
		w.writeBits(1, 1)
	}

	r := bitreader.New(w.buf)
	out := [][]float32{make([]float32, 4)}
	if err := res.Decode(r, out, 4); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for i, v := range out[0] {
		if v != 1 {
			t.Errorf("out[0][%d] = %v, want 1", i, v)
		}
	}
}

func TestDecodeType0Interleaved(t *testing.T) {
	classBook := singleEntryBook(t, 1)
	book := vqBook(t, 1)

	cascades := make([][8]*codebook.Codebook, 1)
	cascades[0][0] = book

	res, err := New(Config{
		Kind:            Type0,
		Begin:           0,
		End:             4,
		PartitionSize:   4,
		Classifications: 1,
		ClassBook:       classBook,
		CascadeBooks:    cascades,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	w := &bitWriter{}
	w.writeBits(0, 1) // one partition's classification codeword
	// reads = partition_size/dim = 4; write codeword "1" each time, so every
	// decoded value is 1, but written with stride reads=4, i.e. identical to
	// contiguous layout when dim==1 and reads==partition_size.
	for i := 0; i < 4; i++ {
		w.writeBits(1, 1)
	}

	r := bitreader.New(w.buf)
	out := [][]float32{make([]float32, 4)}
	if err := res.Decode(r, out, 4); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for i, v := range out[0] {
		if v != 1 {
			t.Errorf("out[0][%d] = %v, want 1", i, v)
		}
	}
}

func TestDecodeType2MergesChannelsRoundRobin(t *testing.T) {
	classBook := singleEntryBook(t, 1)
	book := vqBook(t, 1)

	cascades := make([][8]*codebook.Codebook, 1)
	cascades[0][0] = book

	res, err := New(Config{
		Kind:            Type2,
		Begin:           0,
		End:             2,
		PartitionSize:   1,
		Classifications: 1,
		ClassBook:       classBook,
		CascadeBooks:    cascades,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// Virtual length = nch(2) * span(2) = 4, partition_size=1 -> 4
	// partitions, 4 classification codewords, then 4 single-sample VQ reads.
	w := &bitWriter{}
	for i := 0; i < 4; i++ {
		w.writeBits(0, 1)
	}
	// virtual samples: 0 -> entry0 (value 0), 1 -> entry1 (value 1),
	// 2 -> entry0 (value 0), 3 -> entry1 (value 1)
	codes := []uint32{0, 1, 0, 1}
	for _, c := range codes {
		w.writeBits(c, 1)
	}

	r := bitreader.New(w.buf)
	ch0 := make([]float32, 2)
	ch1 := make([]float32, 2)
	out := [][]float32{ch0, ch1}
	if err := res.Decode(r, out, 2); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	// round-robin: virtual[0]->ch0[0], virtual[1]->ch1[0],
	// virtual[2]->ch0[1], virtual[3]->ch1[1]
	want := [][]float32{{0, 0}, {1, 1}}
	for c := range out {
		for i := range out[c] {
			if out[c][i] != want[c][i] {
				t.Errorf("out[%d][%d] = %v, want %v", c, i, out[c][i], want[c][i])
			}
		}
	}
}

func TestNewRejectsNonDivisiblePartitionSize(t *testing.T) {
	classBook := singleEntryBook(t, 1)
	_, err := New(Config{
		Kind:            Type1,
		Begin:           0,
		End:             5,
		PartitionSize:   2,
		Classifications: 1,
		ClassBook:       classBook,
		CascadeBooks:    make([][8]*codebook.Codebook, 1),
	})
	if err == nil {
		t.Fatal("expected error for non-divisible span/partition_size")
	}
}

func TestDecodeSkipsEmptyChannelSet(t *testing.T) {
	classBook := singleEntryBook(t, 1)
	res, err := New(Config{
		Kind:            Type1,
		Begin:           0,
		End:             2,
		PartitionSize:   1,
		Classifications: 1,
		ClassBook:       classBook,
		CascadeBooks:    make([][8]*codebook.Codebook, 1),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r := bitreader.New([]byte{0x00})
	if err := res.Decode(r, nil, 2); err != nil {
		t.Fatalf("Decode with no channels should no-op: %v", err)
	}
}

// TestDecodeClampsEndToHalfBlockLength exercises a short-block packet
// against a residue configured (at setup-header time) for the long block's
// wider span: End must be clamped to the current packet's half-length
// before any partition/classword count is derived, or the reader desyncs
// reading codewords the short block's bitstream never contains.
func TestDecodeClampsEndToHalfBlockLength(t *testing.T) {
	classBook := singleEntryBook(t, 1)
	book := vqBook(t, 1)

	cascades := make([][8]*codebook.Codebook, 1)
	cascades[0][0] = book

	// Configured as if for a long block: End=8, but the active packet below
	// is a short block with half=2, so only one partition (of size 2)
	// should be read, not four.
	res, err := New(Config{
		Kind:            Type1,
		Begin:           0,
		End:             8,
		PartitionSize:   2,
		Classifications: 1,
		ClassBook:       classBook,
		CascadeBooks:    cascades,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	w := &bitWriter{}
	w.writeBits(0, 1) // one partition's classification codeword
	for i := 0; i < 2; i++ {
		w.writeBits(1, 1) // reads = partition_size/dim = 2
	}
	// No further codewords: if End weren't clamped, decode would read four
	// classification codewords, and the second one would be the VQ bit "1",
	// which the one-entry classbook rejects as escaping its tree.

	r := bitreader.New(w.buf)
	out := [][]float32{make([]float32, 2)}
	if err := res.Decode(r, out, 2); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for i, v := range out[0] {
		if v != 1 {
			t.Errorf("out[0][%d] = %v, want 1", i, v)
		}
	}
}

// TestDecodeClampsBeginPastHalfBlockLength covers a residue whose Begin
// itself falls past the current block's half-length: the span collapses to
// empty and Decode must consume zero bits rather than underflow.
func TestDecodeClampsBeginPastHalfBlockLength(t *testing.T) {
	classBook := singleEntryBook(t, 1)
	cascades := make([][8]*codebook.Codebook, 1)

	res, err := New(Config{
		Kind:            Type1,
		Begin:           4,
		End:             8,
		PartitionSize:   2,
		Classifications: 1,
		ClassBook:       classBook,
		CascadeBooks:    cascades,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	r := bitreader.New(nil)
	out := [][]float32{make([]float32, 2)}
	if err := res.Decode(r, out, 2); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for i, v := range out[0] {
		if v != 0 {
			t.Errorf("out[0][%d] = %v, want 0 (untouched)", i, v)
		}
	}
}
