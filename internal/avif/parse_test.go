package avif

import (
	"encoding/binary"
	"testing"

	at "github.com/kolserdav/ravif-go/internal/avif/aviftest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ColorAndAlpha(t *testing.T) {
	info, err := Parse(at.Still(640, 480, 1234, 321))
	require.NoError(t, err)

	assert.Equal(t, "avif", info.MajorBrand)
	assert.Equal(t, 640, info.Width)
	assert.Equal(t, 480, info.Height)
	assert.Equal(t, uint32(1), info.PrimaryItemID)
	assert.Equal(t, 1234, info.ColorItemSize)
	assert.True(t, info.HasAlpha)
	assert.Equal(t, uint32(2), info.AlphaItemID)
	assert.Equal(t, 321, info.AlphaItemSize)
}

func TestParse_NoAlpha(t *testing.T) {
	meta := at.FullBox("meta", 0, 0,
		at.FullBox("pitm", 0, 0, at.U16(7)),
		at.FullBox("iinf", 0, 0, at.U16(1), at.Infe(7, "av01")),
		at.Iloc0(map[uint16]uint32{7: 99}, 7),
		at.Box("iprp", at.Box("ipco", at.Ispe(1, 1000)), at.FullBox("ipma", 0, 0, at.U32(1), at.U16(7), []byte{1, 1})),
	)
	data := append(at.Ftyp("mif1", "avif"), meta...)

	info, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "mif1", info.MajorBrand)
	assert.Equal(t, 1, info.Width)
	assert.Equal(t, 1000, info.Height)
	assert.Equal(t, 99, info.ColorItemSize)
	assert.False(t, info.HasAlpha)
	assert.Zero(t, info.AlphaItemSize)
}

func TestParse_DepthAuxiliaryIsNotAlpha(t *testing.T) {
	meta := at.FullBox("meta", 0, 0,
		at.FullBox("pitm", 0, 0, at.U16(1)),
		at.FullBox("iinf", 0, 0, at.U16(2), at.Infe(1, "av01"), at.Infe(2, "av01")),
		at.Iloc0(map[uint16]uint32{1: 10, 2: 20}, 1, 2),
		at.FullBox("iref", 0, 0, at.Box("auxl", at.U16(2), at.U16(1), at.U16(1))),
		at.Box("iprp",
			at.Box("ipco", at.Ispe(8, 8), at.AuxC("urn:mpeg:hevc:2015:auxid:2")),
			at.FullBox("ipma", 0, 0, at.U32(2), at.U16(1), []byte{1, 1}, at.U16(2), []byte{2, 1, 2}),
		),
	)
	info, err := Parse(append(at.Ftyp("avif"), meta...))
	require.NoError(t, err)
	assert.False(t, info.HasAlpha)
	assert.Equal(t, 10, info.ColorItemSize)
}

func TestParse_Grid(t *testing.T) {
	// Version 1 iloc with an index field, and a wide ipma layout.
	iloc := at.FullBox("iloc", 1, 0,
		at.U16(0x4444), at.U16(3),
		at.U16(1), at.U16(0), at.U16(0), at.U32(0), at.U16(1), at.U32(0), at.U32(0), at.U32(8),
		at.U16(2), at.U16(0), at.U16(0), at.U32(0), at.U16(1), at.U32(0), at.U32(0), at.U32(100),
		at.U16(3), at.U16(0), at.U16(0), at.U32(0), at.U16(2), at.U32(0), at.U32(0), at.U32(50), at.U32(0), at.U32(0), at.U32(25),
	)
	meta := at.FullBox("meta", 0, 0,
		at.FullBox("pitm", 0, 0, at.U16(1)),
		at.FullBox("iinf", 0, 0, at.U16(3), at.Infe(1, "grid"), at.Infe(2, "av01"), at.Infe(3, "av01")),
		iloc,
		at.FullBox("iref", 0, 0, at.Box("dimg", at.U16(1), at.U16(2), at.U16(2), at.U16(3))),
		at.Box("iprp", at.Box("ipco", at.Ispe(4096, 2048)), at.FullBox("ipma", 1, 1, at.U32(1), at.U32(1), []byte{1}, at.U16(0x8001))),
	)
	info, err := Parse(append(at.Ftyp("avif"), meta...))
	require.NoError(t, err)
	assert.Equal(t, 4096, info.Width)
	assert.Equal(t, 2048, info.Height)
	assert.Equal(t, 175, info.ColorItemSize)
}

func TestParse_Errors(t *testing.T) {
	full := at.Still(16, 16, 100, 10)

	_, err := Parse(nil)
	assert.ErrorIs(t, err, ErrNotAVIF)

	_, err = Parse(append(at.Ftyp("heic", "mif1", "heix"), at.Box("free")...))
	assert.ErrorIs(t, err, ErrNotAVIF)

	_, err = Parse(full[:len(full)-5])
	assert.ErrorIs(t, err, ErrTruncated)

	_, err = Parse([]byte{0, 0, 0})
	assert.ErrorIs(t, err, ErrNotAVIF)

	// First word reads as a huge box size.
	_, err = Parse([]byte("not an avif file at all"))
	assert.ErrorIs(t, err, ErrNotAVIF)

	// ftyp claims more bytes than follow.
	_, err = Parse(append(at.U32(4096), "ftypavif"...))
	assert.ErrorIs(t, err, ErrTruncated)

	_, err = Parse(append(at.Ftyp("avif"), at.Box("mdat", []byte{1, 2, 3})...))
	assert.ErrorIs(t, err, ErrNoPrimaryItem)

	// pitm points at an item that does not exist.
	meta := at.FullBox("meta", 0, 0, at.FullBox("pitm", 0, 0, at.U16(9)))
	_, err = Parse(append(at.Ftyp("avif"), meta...))
	assert.ErrorIs(t, err, ErrNoPrimaryItem)

	// iloc cut short inside an extent.
	meta = at.FullBox("meta", 0, 0,
		at.FullBox("pitm", 0, 0, at.U16(1)),
		at.FullBox("iloc", 0, 0, at.U16(0x4400), at.U16(1), at.U16(1), at.U16(0), at.U16(1), at.U32(0)),
	)
	_, err = Parse(append(at.Ftyp("avif"), meta...))
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestParse_ExtentLengthOverflow(t *testing.T) {
	// Two 8-byte extents whose lengths sum past any sane item size.
	var extents []byte
	for i := 0; i < 2; i++ {
		extents = append(extents, at.U32(0)...)
		extents = binary.BigEndian.AppendUint64(extents, 1<<62)
	}
	meta := at.FullBox("meta", 0, 0,
		at.FullBox("pitm", 0, 0, at.U16(1)),
		at.FullBox("iinf", 0, 0, at.U16(1), at.Infe(1, "av01")),
		at.FullBox("iloc", 0, 0, at.U16(0x4800), at.U16(1), at.U16(1), at.U16(0), at.U16(2), extents),
	)

	_, err := Parse(append(at.Ftyp("avif"), meta...))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestReadBoxes_LargeSize(t *testing.T) {
	b := at.U32(1)
	b = append(b, "free"...)
	b = binary.BigEndian.AppendUint64(b, 20)
	b = append(b, 1, 2, 3, 4)

	boxes, err := readBoxes(b)
	require.NoError(t, err)
	require.Len(t, boxes, 1)
	assert.Equal(t, "free", boxes[0].typ)
	assert.Equal(t, []byte{1, 2, 3, 4}, boxes[0].body)
}
