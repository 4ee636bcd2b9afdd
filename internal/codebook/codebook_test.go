package codebook

import (
	"testing"

	"github.com/go-vorbis/vorbis/internal/bitreader"
)

// bitWriter packs bits LSB-first into bytes, matching bitreader.Reader's
// read order, so tests can hand-construct codeword sequences.
type bitWriter struct {
	buf  []byte
	bit  uint
}

func (w *bitWriter) writeBit(b uint32) {
	if w.bit == 0 {
		w.buf = append(w.buf, 0)
	}
	if b != 0 {
		w.buf[len(w.buf)-1] |= byte(1) << w.bit
	}
	w.bit = (w.bit + 1) % 8
}

func (w *bitWriter) writeCodeword(cw uint32, length int) {
	for i := 0; i < length; i++ {
		bit := (cw >> uint(length-1-i)) & 1
		w.writeBit(bit)
	}
}

func TestScalarDecodeRoundTrip(t *testing.T) {
	cb, err := New(Config{
		Dimensions: 1,
		Lengths:    []uint8{1, 2, 3, 3},
		LookupType: 0,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// Canonical codewords for lengths [1,2,3,3]: 0, 10, 110, 111.
	w := &bitWriter{}
	seq := []struct {
		entry  int
		cw     uint32
		length int
	}{
		{0, 0, 1},
		{1, 2, 2},
		{2, 6, 3},
		{3, 7, 3},
		{0, 0, 1},
	}
	for _, s := range seq {
		w.writeCodeword(s.cw, s.length)
	}

	r := bitreader.New(w.buf)
	for i, s := range seq {
		got, err := cb.ScalarDecode(r)
		if err != nil {
			t.Fatalf("decode %d: %v", i, err)
		}
		if got != s.entry {
			t.Fatalf("decode %d = %d, want %d", i, got, s.entry)
		}
	}
}

func TestNewRejectsOverspecifiedLengths(t *testing.T) {
	// Two length-1 entries alone already exhaust the code space (0 and 1);
	// a third length-1 entry cannot be assigned a codeword.
	_, err := New(Config{Dimensions: 1, Lengths: []uint8{1, 1, 1}})
	if err == nil {
		t.Fatal("expected an error for an overspecified prefix code")
	}
}

func TestVQDecodeLookupType2(t *testing.T) {
	// 2 entries, 2 dimensions, explicit per-dimension multiplicands.
	cfg := Config{
		Dimensions:    2,
		Lengths:       []uint8{1, 1},
		LookupType:    2,
		MinValue:      -1,
		DeltaValue:    0.5,
		Multiplicands: []uint32{0, 2, 4, 6},
	}
	cb, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	w := &bitWriter{}
	w.writeCodeword(0, 1)
	r := bitreader.New(w.buf)
	vec, err := cb.VQDecode(r)
	if err != nil {
		t.Fatalf("VQDecode: %v", err)
	}
	want := []float32{-1 + 0*0.5, -1 + 2*0.5}
	if vec[0] != want[0] || vec[1] != want[1] {
		t.Fatalf("vec = %v, want %v", vec, want)
	}
}

func TestQuantValues(t *testing.T) {
	cases := []struct {
		entries, dim, want int
	}{
		{16, 2, 4},
		{15, 2, 3},
		{27, 3, 3},
		{28, 3, 3},
	}
	for _, c := range cases {
		if got := quantValues(c.entries, c.dim); got != c.want {
			t.Errorf("quantValues(%d,%d) = %d, want %d", c.entries, c.dim, got, c.want)
		}
	}
}
