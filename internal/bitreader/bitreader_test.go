package bitreader

import "testing"

func TestReadBitsLeq32SplitEqualsCombined(t *testing.T) {
	buf := []byte{0xB5, 0x3C, 0x7A, 0x01}
	a, b := 5, 11

	r1 := New(buf)
	lo, err := r1.ReadBitsLeq32(a)
	if err != nil {
		t.Fatalf("read a: %v", err)
	}
	hi, err := r1.ReadBitsLeq32(b)
	if err != nil {
		t.Fatalf("read b: %v", err)
	}
	split := lo | (hi << uint(a))

	r2 := New(buf)
	combined, err := r2.ReadBitsLeq32(a + b)
	if err != nil {
		t.Fatalf("read combined: %v", err)
	}

	if split != combined {
		t.Fatalf("split read %#x != combined read %#x", split, combined)
	}
}

func TestReadBitEqualsReadBitsLeq32One(t *testing.T) {
	buf := []byte{0b10110101}
	r1 := New(buf)
	r2 := New(buf)
	for i := 0; i < 8; i++ {
		b1, err := r1.ReadBit()
		if err != nil {
			t.Fatalf("bit %d: %v", i, err)
		}
		b2, err := r2.ReadBitsLeq32(1)
		if err != nil {
			t.Fatalf("bit %d: %v", i, err)
		}
		if b1 != b2 {
			t.Fatalf("bit %d mismatch: %d != %d", i, b1, b2)
		}
	}
}

func TestBitsLeft(t *testing.T) {
	buf := []byte{0xFF, 0xFF}
	r := New(buf)
	if got := r.BitsLeft(); got != 16 {
		t.Fatalf("BitsLeft() = %d, want 16", got)
	}
	if _, err := r.ReadBitsLeq32(10); err != nil {
		t.Fatal(err)
	}
	if got := r.BitsLeft(); got != 6 {
		t.Fatalf("BitsLeft() = %d, want 6", got)
	}
}

func TestReadPastEndFailsShort(t *testing.T) {
	r := New([]byte{0x01})
	if _, err := r.ReadBitsLeq32(9); err != ErrShort {
		t.Fatalf("err = %v, want ErrShort", err)
	}
}

func TestILog(t *testing.T) {
	cases := []struct {
		x    uint32
		want int
	}{
		{0, 0},
		{1, 1},
		{2, 2},
		{3, 2},
		{4, 3},
		{7, 3},
		{8, 4},
		{255, 8},
	}
	for _, c := range cases {
		if got := ILog(c.x); got != c.want {
			t.Errorf("ILog(%d) = %d, want %d", c.x, got, c.want)
		}
	}
}

func TestReadZeroBits(t *testing.T) {
	r := New([]byte{0xFF})
	v, err := r.ReadBitsLeq32(0)
	if err != nil || v != 0 {
		t.Fatalf("ReadBitsLeq32(0) = %d, %v, want 0, nil", v, err)
	}
}
