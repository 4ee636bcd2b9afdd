package floor

import (
	"sort"

	"github.com/go-vorbis/vorbis/internal/bitreader"
	"github.com/go-vorbis/vorbis/internal/codebook"
	"github.com/go-vorbis/vorbis/internal/tables"
)

// rangeForMultiplier maps floor1's multiplier field (1..4) to the Y-value
// range (spec §4.4): {256,128,86,64}.
func rangeForMultiplier(m int) int {
	switch m {
	case 1:
		return 256
	case 2:
		return 128
	case 3:
		return 86
	case 4:
		return 64
	default:
		return 0
	}
}

// Floor1Class is one partition class: it contributes Dimension Y posits per
// occurrence, optionally gated by a per-occurrence class codeword read from
// ClassBook that selects which of SubclassSet's entries says whether this
// occurrence's posits carry a transmitted offset at all.
type Floor1Class struct {
	Dimension   int
	ClassBook   *codebook.Codebook // nil: no codeword read, always variant 0
	SubclassSet []bool             // len >= 1; SubclassSet[csub] gates the read
}

// Floor1Config is the immutable configuration of one floor type 1 instance.
type Floor1Config struct {
	Multiplier     int // 1..4
	RangeBits      int // bit width of intermediate X positions
	PartitionClass []int
	Classes        []Floor1Class
	XList          []int // decode-order X positions, len = 2 + sum(dimensions)
}

type floor1 struct {
	cfg     Floor1Config
	rng     int
	yBits   int
	order   []int // indices into cfg.XList, sorted by X ascending
	rawY    []int32
	finalY  []int32
}

func newFloor1(cfg Floor1Config) (*floor1, error) {
	rng := rangeForMultiplier(cfg.Multiplier)
	if rng == 0 || len(cfg.XList) < 2 {
		return nil, ErrInvalidFloor
	}

	seen := make(map[int]bool, len(cfg.XList))
	for _, x := range cfg.XList {
		if seen[x] {
			return nil, ErrInvalidFloor
		}
		seen[x] = true
	}

	order := make([]int, len(cfg.XList))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return cfg.XList[order[a]] < cfg.XList[order[b]]
	})

	return &floor1{
		cfg:    cfg,
		rng:    rng,
		yBits:  bitreader.ILog(uint32(rng - 1)),
		order:  order,
		rawY:   make([]int32, len(cfg.XList)),
		finalY: make([]int32, len(cfg.XList)),
	}, nil
}

func (f *floor1) readChannel(r *bitreader.Reader, n int, ch *Channel) error {
	nz, err := r.ReadBit()
	if err != nil {
		return err
	}
	if nz == 0 {
		ch.Unused = true
		return nil
	}
	ch.Unused = false

	y0, err := r.ReadBitsLeq32(f.yBits)
	if err != nil {
		return err
	}
	y1, err := r.ReadBitsLeq32(f.yBits)
	if err != nil {
		return err
	}
	f.rawY[0] = int32(y0)
	f.rawY[1] = int32(y1)

	idx := 2
	for _, class := range f.cfg.PartitionClass {
		if class >= len(f.cfg.Classes) {
			return ErrInvalidFloor
		}
		cc := f.cfg.Classes[class]

		csub := 0
		if cc.ClassBook != nil {
			v, err := cc.ClassBook.ScalarDecode(r)
			if err != nil {
				return err
			}
			csub = v
		}
		set := true
		if csub < len(cc.SubclassSet) {
			set = cc.SubclassSet[csub]
		}

		for d := 0; d < cc.Dimension; d++ {
			if idx >= len(f.rawY) {
				return ErrInvalidFloor
			}
			if set {
				v, err := r.ReadBitsLeq32(f.yBits)
				if err != nil {
					return err
				}
				f.rawY[idx] = int32(v)
			} else {
				f.rawY[idx] = 0
			}
			idx++
		}
	}

	f.finalY[0] = f.rawY[0]
	f.finalY[1] = f.rawY[1]
	for i := 2; i < len(f.cfg.XList); i++ {
		lowIdx, highIdx := f.neighbors(i)
		predicted := renderPoint(
			f.cfg.XList[lowIdx], int(f.finalY[lowIdx]),
			f.cfg.XList[highIdx], int(f.finalY[highIdx]),
			f.cfg.XList[i],
		)
		val := predicted + foldOffset(int(f.rawY[i]))
		if val < 0 {
			val = 0
		}
		if val >= f.rng {
			val = f.rng - 1
		}
		f.finalY[i] = int32(val)
	}

	synthesizeFloor1(ch.Curve[:n/2], f.cfg.XList, f.finalY, f.order)
	return nil
}

// neighbors finds, among posits with index < i, the one immediately below
// and immediately above XList[i] (spec §4.4 step 4: "two nearest
// lower-index neighbors in X order").
func (f *floor1) neighbors(i int) (low, high int) {
	x := f.cfg.XList[i]
	lowX, highX := -1, 1<<31-1
	low, high = 0, 1
	for j := 0; j < i; j++ {
		xj := f.cfg.XList[j]
		if xj < x && xj > lowX {
			lowX = xj
			low = j
		}
		if xj > x && xj < highX {
			highX = xj
			high = j
		}
	}
	return low, high
}

// renderPoint is the Bresenham-like integer line predictor of spec §4.4.
func renderPoint(x0, y0, x1, y1, x int) int {
	dy := y1 - y0
	adx := x1 - x0
	ady := dy
	if ady < 0 {
		ady = -ady
	}
	if adx == 0 {
		return y0
	}
	off := ady * (x - x0) / adx
	if dy < 0 {
		return y0 - off
	}
	return y0 + off
}

// foldOffset unpacks a raw Y codeword into a signed line-prediction offset:
// even values are non-negative (val/2), odd values fold to -(val/2 + 1)
// (spec §4.4 step 4).
func foldOffset(raw int) int {
	if raw&1 != 0 {
		return -((raw >> 1) + 1)
	}
	return raw >> 1
}

// synthesizeFloor1 draws unit-width piecewise linear segments between
// X-sorted neighboring posits and converts each integer Y through the
// inverse-dB table, filling curve (length n/2).
func synthesizeFloor1(curve []float32, xlist []int, y []int32, order []int) {
	n2 := len(curve)
	for i := range curve {
		curve[i] = 0
	}
	for k := 0; k+1 < len(order); k++ {
		lo, hi := order[k], order[k+1]
		x0, x1 := xlist[lo], xlist[hi]
		y0, y1 := int(y[lo]), int(y[hi])
		if x0 >= n2 {
			break
		}
		end := x1
		if end > n2 {
			end = n2
		}
		for x := x0; x < end; x++ {
			v := renderPoint(x0, y0, x1, y1, x)
			if v < 0 {
				v = 0
			}
			if v > 255 {
				v = 255
			}
			curve[x] = tables.InverseDB[v]
		}
	}
	last := xlist[order[len(order)-1]]
	if last < n2 {
		v := y[order[len(order)-1]]
		if v < 0 {
			v = 0
		}
		if v > 255 {
			v = 255
		}
		fill := tables.InverseDB[v]
		for x := last; x < n2; x++ {
			curve[x] = fill
		}
	}
}
