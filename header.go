// header.go parses the identification and setup headers (spec §6), which
// fully determine every decode table a Decoder needs before it can accept
// packets. Both headers arrive pre-framed (container demuxing is out of
// scope, spec §1): the identification header occupies a fixed 30 bytes,
// the setup header is everything after it.

package vorbis

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/go-vorbis/vorbis/internal/bitreader"
	"github.com/go-vorbis/vorbis/internal/codebook"
	"github.com/go-vorbis/vorbis/internal/floor"
	"github.com/go-vorbis/vorbis/internal/mapping"
	"github.com/go-vorbis/vorbis/internal/residue"
)

const (
	packetTypeIdentification = 1
	packetTypeSetup          = 5

	headerSignature = "vorbis"

	vorbisVersion = 0

	blocksizeMin = 6
	blocksizeMax = 13

	// identHeaderLen is the fixed byte length of the identification
	// header: 1 (packet type) + 6 (signature) + 4 (version) + 1
	// (channels) + 4 (sample rate) + 4+4+4 (bitrates) + 1 (block sizes)
	// + 1 (framing) = 30. Splitting extraData at this fixed offset
	// needs no Ogg lacing-byte scheme, consistent with spec §1 excluding
	// container demuxing from scope.
	identHeaderLen = 30

	// codebookSyncPattern is the 24-bit magic every codebook entry in
	// the setup header begins with.
	codebookSyncPattern = 0x564342
)

// IdentHeader is the decoded identification header (spec §3 IdentHeader).
type IdentHeader struct {
	NChannels  int
	SampleRate uint32
	Bs0Exp     int
	Bs1Exp     int
}

// parseIdentHeader parses the fixed-layout identification header (spec §6).
func parseIdentHeader(data []byte) (*IdentHeader, error) {
	if len(data) < identHeaderLen {
		return nil, wrapErr(KindInvalidHeader, "identification header truncated", bitreader.ErrShort)
	}
	if data[0] != packetTypeIdentification {
		return nil, newErr(KindInvalidHeader, "invalid packet type for identification header")
	}
	if string(data[1:7]) != headerSignature {
		return nil, newErr(KindInvalidHeader, "invalid identification header signature")
	}

	version := binary.LittleEndian.Uint32(data[7:11])
	if version != vorbisVersion {
		return nil, newErr(KindUnsupported, "only vorbis version 0 is supported")
	}

	nChannels := int(data[11])
	if nChannels == 0 {
		return nil, newErr(KindInvalidHeader, "number of channels cannot be 0")
	}

	sampleRate := binary.LittleEndian.Uint32(data[12:16])
	if sampleRate == 0 {
		return nil, newErr(KindInvalidHeader, "sample rate cannot be 0")
	}

	// Bitrate range (max, nominal, min) at data[16:28] is ignored.

	blockSizes := data[28]
	bs0Exp := int(blockSizes & 0x0f)
	bs1Exp := int(blockSizes&0xf0) >> 4

	if bs0Exp < blocksizeMin || bs0Exp > blocksizeMax {
		return nil, newErr(KindInvalidHeader, "blocksize_0 out-of-bounds")
	}
	if bs1Exp < blocksizeMin || bs1Exp > blocksizeMax {
		return nil, newErr(KindInvalidHeader, "blocksize_1 out-of-bounds")
	}
	if bs0Exp > bs1Exp {
		return nil, newErr(KindInvalidHeader, "blocksize_0 exceeds blocksize_1")
	}

	if data[29] != 1 {
		return nil, newErr(KindInvalidHeader, "identification header framing flag unset")
	}

	return &IdentHeader{
		NChannels:  nChannels,
		SampleRate: sampleRate,
		Bs0Exp:     bs0Exp,
		Bs1Exp:     bs1Exp,
	}, nil
}

// setupTables holds every table the setup header instantiates (spec §3,
// components 2-9): these are built once and never mutated again.
type setupTables struct {
	codebooks []*codebook.Codebook
	floors    []*floor.Floor
	residues  []*residue.Residue
	mappings  []*mapping.Mapping
	modes     []mapping.Mode
}

// parseSetupHeader parses the bit-packed setup header (spec §6), dispatching
// to the codebook/floor/residue/mapping/mode constructors as each table is
// read off the bitstream.
func parseSetupHeader(data []byte, ident *IdentHeader) (*setupTables, int, error) {
	if len(data) < 7 {
		return nil, 0, wrapErr(KindInvalidHeader, "setup header truncated", bitreader.ErrShort)
	}
	if data[0] != packetTypeSetup {
		return nil, 0, newErr(KindInvalidHeader, "invalid packet type for setup header")
	}
	if string(data[1:7]) != headerSignature {
		return nil, 0, newErr(KindInvalidHeader, "invalid setup header signature")
	}

	r := bitreader.New(data[7:])

	codebooks, err := readCodebooks(r)
	if err != nil {
		return nil, 0, err
	}

	if err := readTimeDomainTransforms(r); err != nil {
		return nil, 0, err
	}

	floors, err := readFloors(r, codebooks)
	if err != nil {
		return nil, 0, err
	}

	residues, err := readResidues(r, codebooks)
	if err != nil {
		return nil, 0, err
	}

	mappings, err := readMappings(r, ident.NChannels, len(floors), len(residues))
	if err != nil {
		return nil, 0, err
	}

	modes, err := readModes(r, len(mappings))
	if err != nil {
		return nil, 0, err
	}

	framing, err := r.ReadBit()
	if err != nil {
		return nil, 0, wrapErr(KindIoShort, "reading setup header framing flag", err)
	}
	if framing != 1 {
		return nil, 0, newErr(KindInvalidHeader, "setup header framing flag unset")
	}

	return &setupTables{
		codebooks: codebooks,
		floors:    floors,
		residues:  residues,
		mappings:  mappings,
		modes:     modes,
	}, r.BitsLeft(), nil
}

// unpackFloat32 decodes Vorbis I's packed 32-bit float representation used
// for codebook min_value/delta_value fields: bit 31 is sign, bits 21-30 are
// a biased exponent, bits 0-20 are the mantissa.
func unpackFloat32(x uint32) float32 {
	mantissa := float64(x & 0x1fffff)
	sign := x&0x80000000 != 0
	exponent := int((x & 0x7fe00000) >> 21)
	if sign {
		mantissa = -mantissa
	}
	return float32(mantissa * pow2(exponent-788))
}

func pow2(exp int) float64 {
	if exp >= 0 {
		v := 1.0
		for i := 0; i < exp; i++ {
			v *= 2
		}
		return v
	}
	v := 1.0
	for i := 0; i > exp; i-- {
		v /= 2
	}
	return v
}

func readCodebooks(r *bitreader.Reader) ([]*codebook.Codebook, error) {
	count, err := r.ReadBitsLeq32(8)
	if err != nil {
		return nil, wrapErr(KindIoShort, "reading codebook count", err)
	}
	books := make([]*codebook.Codebook, count+1)
	for i := range books {
		cb, err := readCodebook(r)
		if err != nil {
			return nil, err
		}
		books[i] = cb
	}
	return books, nil
}

func readCodebook(r *bitreader.Reader) (*codebook.Codebook, error) {
	sync, err := r.ReadBitsLeq32(24)
	if err != nil {
		return nil, wrapErr(KindIoShort, "reading codebook sync pattern", err)
	}
	if sync != codebookSyncPattern {
		return nil, newErr(KindInvalidCodebook, "bad codebook sync pattern")
	}

	dimensions, err := r.ReadBitsLeq32(16)
	if err != nil {
		return nil, wrapErr(KindIoShort, "reading codebook dimensions", err)
	}
	entries, err := r.ReadBitsLeq32(24)
	if err != nil {
		return nil, wrapErr(KindIoShort, "reading codebook entry count", err)
	}

	lengths := make([]uint8, entries)

	ordered, err := r.ReadBit()
	if err != nil {
		return nil, wrapErr(KindIoShort, "reading codebook ordered flag", err)
	}

	if ordered == 0 {
		sparse, err := r.ReadBit()
		if err != nil {
			return nil, wrapErr(KindIoShort, "reading codebook sparse flag", err)
		}
		for i := range lengths {
			if sparse != 0 {
				flag, err := r.ReadBit()
				if err != nil {
					return nil, wrapErr(KindIoShort, "reading codebook sparse entry flag", err)
				}
				if flag == 0 {
					continue // length stays 0 (unused entry)
				}
			}
			length, err := r.ReadBitsLeq32(5)
			if err != nil {
				return nil, wrapErr(KindIoShort, "reading codebook entry length", err)
			}
			lengths[i] = uint8(length + 1)
		}
	} else {
		currentLen, err := r.ReadBitsLeq32(5)
		if err != nil {
			return nil, wrapErr(KindIoShort, "reading codebook ordered start length", err)
		}
		length := int(currentLen) + 1
		current := 0
		for current < int(entries) {
			bits := bitreader.ILog(uint32(int(entries) - current))
			number, err := r.ReadBitsLeq32(bits)
			if err != nil {
				return nil, wrapErr(KindIoShort, "reading codebook ordered run length", err)
			}
			if current+int(number) > int(entries) {
				return nil, newErr(KindInvalidCodebook, "codebook ordered run overflows entry count")
			}
			for i := 0; i < int(number); i++ {
				lengths[current+i] = uint8(length)
			}
			current += int(number)
			length++
		}
	}

	lookupType, err := r.ReadBitsLeq32(4)
	if err != nil {
		return nil, wrapErr(KindIoShort, "reading codebook lookup type", err)
	}

	cfg := codebook.Config{
		Dimensions: int(dimensions),
		Lengths:    lengths,
		LookupType: int(lookupType),
	}

	switch lookupType {
	case 0:
		// no VQ lookup.
	case 1, 2:
		minRaw, err := r.ReadBitsLeq32(32)
		if err != nil {
			return nil, wrapErr(KindIoShort, "reading codebook min value", err)
		}
		deltaRaw, err := r.ReadBitsLeq32(32)
		if err != nil {
			return nil, wrapErr(KindIoShort, "reading codebook delta value", err)
		}
		valueBits, err := r.ReadBitsLeq32(4)
		if err != nil {
			return nil, wrapErr(KindIoShort, "reading codebook value bits", err)
		}
		sequenceP, err := r.ReadBit()
		if err != nil {
			return nil, wrapErr(KindIoShort, "reading codebook sequence flag", err)
		}

		cfg.MinValue = unpackFloat32(minRaw)
		cfg.DeltaValue = unpackFloat32(deltaRaw)
		cfg.ValueBits = int(valueBits) + 1
		cfg.SequenceP = sequenceP != 0

		var quantVals int
		if lookupType == 1 {
			quantVals = codebook.QuantValues(int(entries), int(dimensions))
		} else {
			quantVals = int(entries) * int(dimensions)
		}
		multiplicands := make([]uint32, quantVals)
		for i := range multiplicands {
			v, err := r.ReadBitsLeq32(cfg.ValueBits)
			if err != nil {
				return nil, wrapErr(KindIoShort, "reading codebook multiplicand", err)
			}
			multiplicands[i] = v
		}
		cfg.Multiplicands = multiplicands
	default:
		return nil, newErr(KindInvalidCodebook, "invalid codebook lookup type")
	}

	cb, err := codebook.New(cfg)
	if err != nil {
		return nil, wrapErr(KindInvalidCodebook, "constructing codebook", err)
	}
	return cb, nil
}

func readTimeDomainTransforms(r *bitreader.Reader) error {
	count, err := r.ReadBitsLeq32(6)
	if err != nil {
		return wrapErr(KindIoShort, "reading time domain transform count", err)
	}
	for i := 0; i <= int(count); i++ {
		v, err := r.ReadBitsLeq32(16)
		if err != nil {
			return wrapErr(KindIoShort, "reading time domain transform placeholder", err)
		}
		if v != 0 {
			return newErr(KindInvalidHeader, "invalid (non-placeholder) time domain transform")
		}
	}
	return nil
}

func readFloors(r *bitreader.Reader, books []*codebook.Codebook) ([]*floor.Floor, error) {
	count, err := r.ReadBitsLeq32(6)
	if err != nil {
		return nil, wrapErr(KindIoShort, "reading floor count", err)
	}
	floors := make([]*floor.Floor, count+1)
	for i := range floors {
		f, err := readFloor(r, books)
		if err != nil {
			return nil, err
		}
		floors[i] = f
	}
	return floors, nil
}

func readFloor(r *bitreader.Reader, books []*codebook.Codebook) (*floor.Floor, error) {
	floorType, err := r.ReadBitsLeq32(16)
	if err != nil {
		return nil, wrapErr(KindIoShort, "reading floor type", err)
	}
	switch floorType {
	case 0:
		return readFloor0(r, books)
	case 1:
		return readFloor1(r, books)
	default:
		return nil, newErr(KindInvalidFloor, "invalid floor type")
	}
}

func readFloor0(r *bitreader.Reader, books []*codebook.Codebook) (*floor.Floor, error) {
	order, err := r.ReadBitsLeq32(8)
	if err != nil {
		return nil, wrapErr(KindIoShort, "reading floor0 order", err)
	}
	rate, err := r.ReadBitsLeq32(16)
	if err != nil {
		return nil, wrapErr(KindIoShort, "reading floor0 rate", err)
	}
	barkMapSize, err := r.ReadBitsLeq32(16)
	if err != nil {
		return nil, wrapErr(KindIoShort, "reading floor0 bark map size", err)
	}
	ampBits, err := r.ReadBitsLeq32(6)
	if err != nil {
		return nil, wrapErr(KindIoShort, "reading floor0 amplitude bits", err)
	}
	ampOffset, err := r.ReadBitsLeq32(8)
	if err != nil {
		return nil, wrapErr(KindIoShort, "reading floor0 amplitude offset", err)
	}
	numBooks, err := r.ReadBitsLeq32(4)
	if err != nil {
		return nil, wrapErr(KindIoShort, "reading floor0 book count", err)
	}

	bookList := make([]*codebook.Codebook, numBooks+1)
	for i := range bookList {
		idx, err := r.ReadBitsLeq32(8)
		if err != nil {
			return nil, wrapErr(KindIoShort, "reading floor0 book index", err)
		}
		if int(idx) >= len(books) {
			return nil, newErr(KindInvalidFloor, "floor0 book index out of range")
		}
		bookList[i] = books[idx]
	}

	f, err := floor.NewType0(floor.Floor0Config{
		Order:           int(order),
		Rate:            int(rate),
		BarkMapSize:     int(barkMapSize),
		AmplitudeBits:   int(ampBits),
		AmplitudeOffset: int(ampOffset),
		Books:           bookList,
	})
	if err != nil {
		return nil, wrapErr(KindInvalidFloor, "constructing floor0", err)
	}
	return f, nil
}

func readFloor1(r *bitreader.Reader, books []*codebook.Codebook) (*floor.Floor, error) {
	partitions, err := r.ReadBitsLeq32(5)
	if err != nil {
		return nil, wrapErr(KindIoShort, "reading floor1 partition count", err)
	}

	partitionClass := make([]int, partitions)
	maxClass := -1
	for i := range partitionClass {
		c, err := r.ReadBitsLeq32(4)
		if err != nil {
			return nil, wrapErr(KindIoShort, "reading floor1 partition class", err)
		}
		partitionClass[i] = int(c)
		if int(c) > maxClass {
			maxClass = int(c)
		}
	}

	classes := make([]floor.Floor1Class, maxClass+1)
	for c := range classes {
		dim, err := r.ReadBitsLeq32(3)
		if err != nil {
			return nil, wrapErr(KindIoShort, "reading floor1 class dimension", err)
		}
		subclassBits, err := r.ReadBitsLeq32(2)
		if err != nil {
			return nil, wrapErr(KindIoShort, "reading floor1 class subclass bits", err)
		}

		var classBook *codebook.Codebook
		if subclassBits != 0 {
			idx, err := r.ReadBitsLeq32(8)
			if err != nil {
				return nil, wrapErr(KindIoShort, "reading floor1 class masterbook", err)
			}
			if int(idx) >= len(books) {
				return nil, newErr(KindInvalidFloor, "floor1 masterbook index out of range")
			}
			classBook = books[idx]
		}

		subclassSet := make([]bool, 1<<subclassBits)
		for j := range subclassSet {
			idx, err := r.ReadBitsLeq32(8)
			if err != nil {
				return nil, wrapErr(KindIoShort, "reading floor1 subclass book", err)
			}
			subclassSet[j] = int(idx)-1 >= 0
		}

		classes[c] = floor.Floor1Class{
			Dimension:   int(dim) + 1,
			ClassBook:   classBook,
			SubclassSet: subclassSet,
		}
	}

	multiplier, err := r.ReadBitsLeq32(2)
	if err != nil {
		return nil, wrapErr(KindIoShort, "reading floor1 multiplier", err)
	}
	rangeBits, err := r.ReadBitsLeq32(4)
	if err != nil {
		return nil, wrapErr(KindIoShort, "reading floor1 range bits", err)
	}

	xlist := []int{0, 1 << rangeBits}
	for i := range partitionClass {
		cls := partitionClass[i]
		if cls >= len(classes) {
			return nil, newErr(KindInvalidFloor, "floor1 partition class out of range")
		}
		for d := 0; d < classes[cls].Dimension; d++ {
			v, err := r.ReadBitsLeq32(int(rangeBits))
			if err != nil {
				return nil, wrapErr(KindIoShort, "reading floor1 X position", err)
			}
			xlist = append(xlist, int(v))
		}
	}

	f, err := floor.NewType1(floor.Floor1Config{
		Multiplier:     int(multiplier) + 1,
		RangeBits:      int(rangeBits),
		PartitionClass: partitionClass,
		Classes:        classes,
		XList:          xlist,
	})
	if err != nil {
		return nil, wrapErr(KindInvalidFloor, "constructing floor1", err)
	}
	return f, nil
}

func readResidues(r *bitreader.Reader, books []*codebook.Codebook) ([]*residue.Residue, error) {
	count, err := r.ReadBitsLeq32(6)
	if err != nil {
		return nil, wrapErr(KindIoShort, "reading residue count", err)
	}
	residues := make([]*residue.Residue, count+1)
	for i := range residues {
		res, err := readResidue(r, books)
		if err != nil {
			return nil, err
		}
		residues[i] = res
	}
	return residues, nil
}

func readResidue(r *bitreader.Reader, books []*codebook.Codebook) (*residue.Residue, error) {
	residueType, err := r.ReadBitsLeq32(16)
	if err != nil {
		return nil, wrapErr(KindIoShort, "reading residue type", err)
	}
	if residueType > 2 {
		return nil, newErr(KindInvalidResidue, "invalid residue type")
	}

	begin, err := r.ReadBitsLeq32(24)
	if err != nil {
		return nil, wrapErr(KindIoShort, "reading residue begin", err)
	}
	end, err := r.ReadBitsLeq32(24)
	if err != nil {
		return nil, wrapErr(KindIoShort, "reading residue end", err)
	}
	partitionSize, err := r.ReadBitsLeq32(24)
	if err != nil {
		return nil, wrapErr(KindIoShort, "reading residue partition size", err)
	}
	classifications, err := r.ReadBitsLeq32(6)
	if err != nil {
		return nil, wrapErr(KindIoShort, "reading residue classification count", err)
	}
	classbookIdx, err := r.ReadBitsLeq32(8)
	if err != nil {
		return nil, wrapErr(KindIoShort, "reading residue classbook index", err)
	}
	if int(classbookIdx) >= len(books) {
		return nil, newErr(KindInvalidResidue, "residue classbook index out of range")
	}

	nClasses := int(classifications) + 1
	cascadeBits := make([]int, nClasses)
	for i := range cascadeBits {
		low, err := r.ReadBitsLeq32(3)
		if err != nil {
			return nil, wrapErr(KindIoShort, "reading residue cascade low bits", err)
		}
		flag, err := r.ReadBit()
		if err != nil {
			return nil, wrapErr(KindIoShort, "reading residue cascade flag", err)
		}
		high := uint32(0)
		if flag != 0 {
			high, err = r.ReadBitsLeq32(5)
			if err != nil {
				return nil, wrapErr(KindIoShort, "reading residue cascade high bits", err)
			}
		}
		cascadeBits[i] = int(high)*8 + int(low)
	}

	cascadeBooks := make([][8]*codebook.Codebook, nClasses)
	for i, bits := range cascadeBits {
		for pass := 0; pass < 8; pass++ {
			if bits&(1<<pass) == 0 {
				continue
			}
			idx, err := r.ReadBitsLeq32(8)
			if err != nil {
				return nil, wrapErr(KindIoShort, "reading residue cascade book index", err)
			}
			if int(idx) >= len(books) {
				return nil, newErr(KindInvalidResidue, "residue cascade book index out of range")
			}
			cascadeBooks[i][pass] = books[idx]
		}
	}

	res, err := residue.New(residue.Config{
		Kind:            residue.Kind(residueType),
		Begin:           int(begin),
		End:             int(end),
		PartitionSize:   int(partitionSize) + 1,
		Classifications: nClasses,
		ClassBook:       books[classbookIdx],
		CascadeBooks:    cascadeBooks,
	})
	if err != nil {
		return nil, wrapErr(KindInvalidResidue, "constructing residue", err)
	}
	return res, nil
}

func readMappings(r *bitreader.Reader, nChannels, numFloors, numResidues int) ([]*mapping.Mapping, error) {
	count, err := r.ReadBitsLeq32(6)
	if err != nil {
		return nil, wrapErr(KindIoShort, "reading mapping count", err)
	}
	mappings := make([]*mapping.Mapping, count+1)
	for i := range mappings {
		m, err := readMapping(r, nChannels, numFloors, numResidues)
		if err != nil {
			return nil, err
		}
		mappings[i] = m
	}
	return mappings, nil
}

func readMapping(r *bitreader.Reader, nChannels, numFloors, numResidues int) (*mapping.Mapping, error) {
	mappingType, err := r.ReadBitsLeq32(16)
	if err != nil {
		return nil, wrapErr(KindIoShort, "reading mapping type", err)
	}
	if mappingType != 0 {
		return nil, newErr(KindInvalidMapping, "invalid mapping type")
	}
	return readMappingType0(r, nChannels, numFloors, numResidues)
}

func readMappingType0(r *bitreader.Reader, nChannels, numFloors, numResidues int) (*mapping.Mapping, error) {
	hasSubmaps, err := r.ReadBit()
	if err != nil {
		return nil, wrapErr(KindIoShort, "reading mapping submap flag", err)
	}
	numSubmaps := 1
	if hasSubmaps != 0 {
		v, err := r.ReadBitsLeq32(4)
		if err != nil {
			return nil, wrapErr(KindIoShort, "reading mapping submap count", err)
		}
		numSubmaps = int(v) + 1
	}

	hasCoupling, err := r.ReadBit()
	if err != nil {
		return nil, wrapErr(KindIoShort, "reading mapping coupling flag", err)
	}

	var couplings []mapping.Coupling
	if hasCoupling != 0 {
		stepsRaw, err := r.ReadBitsLeq32(8)
		if err != nil {
			return nil, wrapErr(KindIoShort, "reading mapping coupling step count", err)
		}
		steps := int(stepsRaw) + 1
		maxCh := nChannels - 1
		couplingBits := bitreader.ILog(uint32(maxCh))

		couplings = make([]mapping.Coupling, steps)
		for i := range couplings {
			mag, err := r.ReadBitsLeq32(couplingBits)
			if err != nil {
				return nil, wrapErr(KindIoShort, "reading mapping coupling magnitude channel", err)
			}
			ang, err := r.ReadBitsLeq32(couplingBits)
			if err != nil {
				return nil, wrapErr(KindIoShort, "reading mapping coupling angle channel", err)
			}
			couplings[i] = mapping.Coupling{Magnitude: int(mag), Angle: int(ang)}
		}
	}

	reserved, err := r.ReadBitsLeq32(2)
	if err != nil {
		return nil, wrapErr(KindIoShort, "reading mapping reserved bits", err)
	}
	if reserved != 0 {
		return nil, newErr(KindInvalidMapping, "reserved mapping bits non-zero")
	}

	multiplex := make([]int, nChannels)
	if numSubmaps > 1 {
		for c := range multiplex {
			v, err := r.ReadBitsLeq32(4)
			if err != nil {
				return nil, wrapErr(KindIoShort, "reading mapping channel multiplex", err)
			}
			multiplex[c] = int(v)
		}
	}

	submaps := make([]mapping.Submap, numSubmaps)
	for i := range submaps {
		if _, err := r.ReadBitsLeq32(8); err != nil { // unused placeholder
			return nil, wrapErr(KindIoShort, "reading mapping submap placeholder", err)
		}
		floorIdx, err := r.ReadBitsLeq32(8)
		if err != nil {
			return nil, wrapErr(KindIoShort, "reading mapping submap floor", err)
		}
		residueIdx, err := r.ReadBitsLeq32(8)
		if err != nil {
			return nil, wrapErr(KindIoShort, "reading mapping submap residue", err)
		}
		submaps[i] = mapping.Submap{Floor: int(floorIdx), Residue: int(residueIdx)}
	}

	m, err := mapping.New(mapping.Config{
		NChannels:   nChannels,
		Submaps:     submaps,
		Multiplex:   multiplex,
		Couplings:   couplings,
		NumFloors:   numFloors,
		NumResidues: numResidues,
	})
	if err != nil {
		return nil, wrapErr(KindInvalidMapping, "constructing mapping", err)
	}
	return m, nil
}

func readModes(r *bitreader.Reader, numMappings int) ([]mapping.Mode, error) {
	count, err := r.ReadBitsLeq32(6)
	if err != nil {
		return nil, wrapErr(KindIoShort, "reading mode count", err)
	}
	modes := make([]mapping.Mode, count+1)
	for i := range modes {
		m, err := readMode(r, numMappings)
		if err != nil {
			return nil, err
		}
		modes[i] = m
	}
	return modes, nil
}

func readMode(r *bitreader.Reader, numMappings int) (mapping.Mode, error) {
	blockFlag, err := r.ReadBit()
	if err != nil {
		return mapping.Mode{}, wrapErr(KindIoShort, "reading mode block flag", err)
	}
	windowType, err := r.ReadBitsLeq32(16)
	if err != nil {
		return mapping.Mode{}, wrapErr(KindIoShort, "reading mode window type", err)
	}
	transformType, err := r.ReadBitsLeq32(16)
	if err != nil {
		return mapping.Mode{}, wrapErr(KindIoShort, "reading mode transform type", err)
	}
	mappingIdx, err := r.ReadBitsLeq32(8)
	if err != nil {
		return mapping.Mode{}, wrapErr(KindIoShort, "reading mode mapping index", err)
	}

	if windowType != 0 {
		return mapping.Mode{}, newErr(KindInvalidMode, "invalid window type for mode")
	}
	if transformType != 0 {
		return mapping.Mode{}, newErr(KindInvalidMode, "invalid transform type for mode")
	}

	m, err := mapping.NewMode(blockFlag != 0, int(mappingIdx), numMappings)
	if err != nil {
		return mapping.Mode{}, wrapErr(KindInvalidMode, "constructing mode", err)
	}
	return m, nil
}

// Speaker names one output channel position (spec §6 channel layout table).
type Speaker int

const (
	SpeakerFrontLeft Speaker = iota
	SpeakerFrontRight
	SpeakerFrontCenter
	SpeakerRearLeft
	SpeakerRearRight
	SpeakerSideLeft
	SpeakerSideRight
	SpeakerRearCenter
	SpeakerLFE
)

// channelLayouts is the fixed 1-8 channel speaker table (spec §6).
var channelLayouts = [][]Speaker{
	1: {SpeakerFrontLeft},
	2: {SpeakerFrontLeft, SpeakerFrontRight},
	3: {SpeakerFrontLeft, SpeakerFrontCenter, SpeakerFrontRight},
	4: {SpeakerFrontLeft, SpeakerFrontRight, SpeakerRearLeft, SpeakerRearRight},
	5: {SpeakerFrontLeft, SpeakerFrontCenter, SpeakerFrontRight, SpeakerRearLeft, SpeakerRearRight},
	6: {SpeakerFrontLeft, SpeakerFrontCenter, SpeakerFrontRight, SpeakerRearLeft, SpeakerRearRight, SpeakerLFE},
	7: {SpeakerFrontLeft, SpeakerFrontCenter, SpeakerFrontRight, SpeakerSideLeft, SpeakerSideRight, SpeakerRearCenter, SpeakerLFE},
	8: {SpeakerFrontLeft, SpeakerFrontCenter, SpeakerFrontRight, SpeakerSideLeft, SpeakerSideRight, SpeakerRearLeft, SpeakerRearRight, SpeakerLFE},
}

// channelLayout returns the speaker assignment for nChannels (spec §6);
// nChannels must be in [1,8], enforced at Decoder construction.
func channelLayout(nChannels int) ([]Speaker, error) {
	if nChannels < 1 || nChannels > 8 {
		return nil, errors.Errorf("vorbis: no defined channel layout for %d channels", nChannels)
	}
	return channelLayouts[nChannels], nil
}
