package floor

import (
	"math"

	"github.com/go-vorbis/vorbis/internal/bitreader"
	"github.com/go-vorbis/vorbis/internal/codebook"
	"github.com/go-vorbis/vorbis/internal/tables"
)

// Floor0Config is the immutable configuration of one floor type 0 instance,
// read from the setup header.
type Floor0Config struct {
	Order           int
	Rate            int
	BarkMapSize     int
	AmplitudeBits   int
	AmplitudeOffset int
	Books           []*codebook.Codebook
}

type floor0 struct {
	cfg Floor0Config

	barkN   int // block size the cached bark map was built for, 0 if none
	barkMap []int32

	scratch []float32 // reused LSP coefficient scratch, length cfg.Order
}

func newFloor0(cfg Floor0Config) (*floor0, error) {
	if cfg.Order <= 0 || len(cfg.Books) == 0 {
		return nil, ErrInvalidFloor
	}
	return &floor0{cfg: cfg, scratch: make([]float32, cfg.Order)}, nil
}

func (f *floor0) barkMapFor(n int) []int32 {
	if f.barkMap == nil || f.barkN != n {
		f.barkMap = make([]int32, n/2)
		tables.BarkMap(f.barkMap, n/2, f.cfg.Rate, f.cfg.BarkMapSize)
		f.barkN = n
	}
	return f.barkMap
}

func (f *floor0) readChannel(r *bitreader.Reader, n int, ch *Channel) error {
	amp, err := r.ReadBitsLeq32(f.cfg.AmplitudeBits)
	if err != nil {
		return err
	}
	if amp == 0 {
		ch.Unused = true
		return nil
	}
	ch.Unused = false

	bookBits := bitreader.ILog(uint32(len(f.cfg.Books) - 1))
	bookIdx, err := r.ReadBitsLeq32(bookBits)
	if err != nil {
		return err
	}
	if int(bookIdx) >= len(f.cfg.Books) {
		return ErrInvalidFloor
	}
	book := f.cfg.Books[bookIdx]
	if book.LookupType == 0 {
		return ErrInvalidFloor
	}

	got := 0
	for got < f.cfg.Order {
		vec, err := book.VQDecode(r)
		if err != nil {
			return err
		}
		for _, v := range vec {
			if got >= f.cfg.Order {
				break
			}
			f.scratch[got] = v
			got++
		}
	}

	curve := ch.Curve[:n/2]
	synthesizeFloor0(curve, f.barkMapFor(n), f.cfg.BarkMapSize, f.scratch, float32(amp), f.cfg.AmplitudeOffset, f.cfg.AmplitudeBits)
	return nil
}

// synthesizeFloor0 evaluates the LSP magnitude response at each bark-mapped
// spectral line, using the standard even/odd P/Q product decomposition of
// the LSP polynomial, then scales by the decoded amplitude. Output is
// always non-negative (spec §8 invariant 7).
func synthesizeFloor0(curve []float32, barkMap []int32, barkMapSize int, lsp []float32, amp float32, ampOffset, ampBits int) {
	order := len(lsp)
	cosLSP := make([]float64, order)
	for i, v := range lsp {
		cosLSP[i] = math.Cos(float64(v))
	}

	maxVal := float64((uint32(1) << uint(ampBits)) - 1)
	ampDB := float64(amp) * float64(ampOffset) / maxVal
	gain := math.Exp(ampDB * math.Ln10 / 20)

	for i := range curve {
		k := barkMap[i]
		if int(k) >= barkMapSize {
			k = int32(barkMapSize - 1)
		}
		w := math.Pi * float64(k) / float64(barkMapSize)
		x := math.Cos(w)

		p, q := 1.0, 1.0
		j := 0
		for ; j+1 < order; j += 2 {
			p *= x - cosLSP[j]
			q *= x - cosLSP[j+1]
		}
		if order%2 == 1 {
			p *= x - cosLSP[order-1]
		} else {
			p *= 1 - x
			q *= 1 + x
		}
		p *= p
		q *= q
		mag := 0.5 * (p + q)
		if mag < 1e-9 {
			mag = 1e-9
		}
		curve[i] = float32(gain / math.Sqrt(mag))
	}
}
