// Package aviftest builds small ISOBMFF byte streams shaped like AVIF
// files, for tests that need a container without an AV1 encoder.
package aviftest

import (
	"encoding/binary"
)

// AlphaURN is the auxiliary type AVIF uses for alpha planes.
const AlphaURN = "urn:mpeg:mpegB:cicp:systems:auxiliary:alpha"

// Box wraps payload in a box of the given type.
func Box(typ string, payload ...[]byte) []byte {
	n := 8
	for _, p := range payload {
		n += len(p)
	}
	out := binary.BigEndian.AppendUint32(nil, uint32(n))
	out = append(out, typ...)
	for _, p := range payload {
		out = append(out, p...)
	}
	return out
}

// FullBox is Box with a version and 24-bit flags prefix.
func FullBox(typ string, version uint8, flags uint32, payload ...[]byte) []byte {
	hdr := []byte{version, byte(flags >> 16), byte(flags >> 8), byte(flags)}
	return Box(typ, append([][]byte{hdr}, payload...)...)
}

func U16(v uint16) []byte { return binary.BigEndian.AppendUint16(nil, v) }
func U32(v uint32) []byte { return binary.BigEndian.AppendUint32(nil, v) }

// Ftyp builds a file type box with minor version 0.
func Ftyp(major string, compat ...string) []byte {
	p := [][]byte{[]byte(major), U32(0)}
	for _, c := range compat {
		p = append(p, []byte(c))
	}
	return Box("ftyp", p...)
}

// Infe builds a version 2 item info entry.
func Infe(id uint16, typ string) []byte {
	return FullBox("infe", 2, 0, U16(id), U16(0), []byte(typ))
}

// Iloc0 builds a version 0 iloc with 4-byte offsets and lengths and a
// single extent per item, in the given order.
func Iloc0(lengths map[uint16]uint32, order ...uint16) []byte {
	p := [][]byte{U16(0x4400), U16(uint16(len(order)))}
	for _, id := range order {
		p = append(p, U16(id), U16(0), U16(1), U32(0), U32(lengths[id]))
	}
	return FullBox("iloc", 0, 0, p...)
}

// Ispe builds an image spatial extents property.
func Ispe(w, h uint32) []byte { return FullBox("ispe", 0, 0, U32(w), U32(h)) }

// AuxC builds an auxiliary type property.
func AuxC(urn string) []byte {
	return FullBox("auxC", 0, 0, append([]byte(urn), 0))
}

// Still returns a single-image AVIF container of w×h whose color item
// is colorSize bytes long. A non-zero alphaSize adds an alpha auxiliary
// item. The mdat payload is zero-filled.
func Still(w, h uint32, colorSize, alphaSize uint32) []byte {
	infos := [][]byte{U16(1), Infe(1, "av01")}
	lengths := map[uint16]uint32{1: colorSize}
	order := []uint16{1}
	props := [][]byte{Ispe(w, h)}
	assoc := [][]byte{U32(1), U16(1), []byte{1, 0x81}}
	var iref []byte

	if alphaSize > 0 {
		infos = [][]byte{U16(2), Infe(1, "av01"), Infe(2, "av01")}
		lengths[2] = alphaSize
		order = append(order, 2)
		props = append(props, AuxC(AlphaURN))
		assoc = [][]byte{U32(2), U16(1), []byte{1, 0x81}, U16(2), []byte{2, 0x81, 0x02}}
		iref = FullBox("iref", 0, 0, Box("auxl", U16(2), U16(1), U16(1)))
	}

	children := [][]byte{
		FullBox("hdlr", 0, 0, U32(0), []byte("pict"), make([]byte, 13)),
		FullBox("pitm", 0, 0, U16(1)),
		FullBox("iinf", 0, 0, infos...),
		Iloc0(lengths, order...),
	}
	if iref != nil {
		children = append(children, iref)
	}
	children = append(children, Box("iprp",
		Box("ipco", props...),
		FullBox("ipma", 0, 0, assoc...),
	))

	out := Ftyp("avif", "mif1", "miaf")
	out = append(out, FullBox("meta", 0, 0, children...)...)
	out = append(out, Box("mdat", make([]byte, colorSize+alphaSize))...)
	return out
}
