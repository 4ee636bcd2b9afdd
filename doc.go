// Package vorbis implements the core of a Vorbis I audio decoder: the
// per-packet decoding pipeline that turns a compressed audio packet into
// linear PCM samples, given a previously parsed identification and setup
// header.
//
// Vorbis I packets are decoded through several cooperating stages: a
// right-to-left bit reader, Huffman/VQ codebook decode, two families of
// spectral envelope ("floor") synthesis, three residue coding variants,
// channel coupling inversion, inverse MDCT, and windowed overlap-add
// lapping. This package owns all of that pipeline, along with the ident
// and setup header parsing that instantiates it (container demuxing, Ogg
// framing, and packet delivery are the caller's responsibility).
//
// # Construction
//
// NewDecoder takes the identification header immediately followed by the
// setup header, exactly as the Vorbis I bitstream format defines them, with
// no Ogg lacing:
//
//	dec, err := vorbis.NewDecoder(extraData)
//
// # Decoding
//
// Decode takes one Vorbis audio packet (no Ogg framing) and returns the PCM
// samples emitted this call, one slice per channel. The first packet after
// construction (or after Reset) always emits zero samples, since overlap-add
// lapping needs a previous block to combine with.
//
//	samples, err := dec.Decode(packet)
package vorbis
