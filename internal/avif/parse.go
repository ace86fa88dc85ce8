// Package avif reads the ISOBMFF container of an AVIF still image far
// enough to report its dimensions and the coded size of its color and
// alpha planes. It does not decode AV1 payloads.
package avif

import (
	"math"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrNotAVIF       = errors.New("avif: not an AVIF file")
	ErrTruncated     = errors.New("avif: truncated box")
	ErrMalformed     = errors.New("avif: malformed box")
	ErrNoPrimaryItem = errors.New("avif: no primary item")
)

// Info summarizes an AVIF file.
type Info struct {
	MajorBrand    string
	Width         int // from the primary item's ispe property
	Height        int
	PrimaryItemID uint32
	AlphaItemID   uint32 // 0 when there is no alpha plane
	ColorItemSize int    // coded bytes of the color plane
	AlphaItemSize int    // coded bytes of the alpha plane, 0 without alpha
	HasAlpha      bool
}

type item struct {
	typ   string
	size  int
	props []uint16 // 1-based ipco indices
}

type ref struct {
	typ  string
	from uint32
	to   []uint32
}

type meta struct {
	primary uint32
	items   map[uint32]*item
	refs    []ref
	props   []box
}

// Parse inspects an AVIF file held in memory.
func Parse(data []byte) (*Info, error) {
	if len(data) < 8 || string(data[4:8]) != "ftyp" {
		return nil, ErrNotAVIF
	}
	boxes, err := readBoxes(data)
	if err != nil {
		return nil, err
	}
	if len(boxes) == 0 || boxes[0].typ != "ftyp" {
		return nil, ErrNotAVIF
	}
	major, ok := checkBrands(boxes[0].body)
	if !ok {
		return nil, ErrNotAVIF
	}

	var m *meta
	for _, b := range boxes[1:] {
		if b.typ == "meta" {
			if m, err = parseMeta(b.body); err != nil {
				return nil, errors.Wrap(err, "meta")
			}
			break
		}
	}
	if m == nil || m.primary == 0 {
		return nil, ErrNoPrimaryItem
	}
	if _, ok := m.items[m.primary]; !ok {
		return nil, ErrNoPrimaryItem
	}

	info := &Info{MajorBrand: major, PrimaryItemID: m.primary}
	if w, h, ok := m.spatialExtent(m.primary); ok {
		info.Width, info.Height = w, h
	}
	info.ColorItemSize = m.codedSize(m.primary)

	if alpha := m.alphaItem(); alpha != 0 {
		info.HasAlpha = true
		info.AlphaItemID = alpha
		info.AlphaItemSize = m.codedSize(alpha)
	}
	return info, nil
}

// checkBrands accepts files that declare avif or avis as major or
// compatible brand.
func checkBrands(body []byte) (string, bool) {
	if len(body) < 8 {
		return "", false
	}
	major := string(body[0:4])
	if major == "avif" || major == "avis" {
		return major, true
	}
	for b := body[8:]; len(b) >= 4; b = b[4:] {
		if c := string(b[:4]); c == "avif" || c == "avis" {
			return major, true
		}
	}
	return major, false
}

func parseMeta(body []byte) (*meta, error) {
	_, _, rest, err := fullBox(body)
	if err != nil {
		return nil, err
	}
	children, err := readBoxes(rest)
	if err != nil {
		return nil, err
	}

	m := &meta{items: make(map[uint32]*item)}
	get := func(id uint32) *item {
		it, ok := m.items[id]
		if !ok {
			it = &item{}
			m.items[id] = it
		}
		return it
	}

	for _, c := range children {
		switch c.typ {
		case "pitm":
			v, _, rest, err := fullBox(c.body)
			if err != nil {
				return nil, err
			}
			cur := &cursor{b: rest}
			m.primary = cur.itemID(v != 0)
			if cur.err != nil {
				return nil, cur.err
			}
		case "iinf":
			if err := parseIinf(c.body, get); err != nil {
				return nil, errors.Wrap(err, "iinf")
			}
		case "iloc":
			if err := parseIloc(c.body, get); err != nil {
				return nil, errors.Wrap(err, "iloc")
			}
		case "iref":
			refs, err := parseIref(c.body)
			if err != nil {
				return nil, errors.Wrap(err, "iref")
			}
			m.refs = append(m.refs, refs...)
		case "iprp":
			props, err := parseIprp(c.body, get)
			if err != nil {
				return nil, errors.Wrap(err, "iprp")
			}
			m.props = props
		}
	}
	return m, nil
}

func parseIinf(body []byte, get func(uint32) *item) error {
	v, _, rest, err := fullBox(body)
	if err != nil {
		return err
	}
	cur := &cursor{b: rest}
	count := cur.itemID(v != 0)
	if cur.err != nil {
		return cur.err
	}
	entries, err := readBoxes(cur.b)
	if err != nil {
		return err
	}
	if uint32(len(entries)) < count {
		return ErrTruncated
	}
	for _, e := range entries {
		if e.typ != "infe" {
			continue
		}
		ev, _, rest, err := fullBox(e.body)
		if err != nil {
			return err
		}
		if ev < 2 {
			// Versions 0 and 1 carry no item_type; AVIF requires 2 or 3.
			continue
		}
		ec := &cursor{b: rest}
		id := ec.itemID(ev == 3)
		ec.u16() // item_protection_index
		typ := ec.take(4)
		if ec.err != nil {
			return ec.err
		}
		get(id).typ = string(typ)
	}
	return nil
}

func parseIloc(body []byte, get func(uint32) *item) error {
	v, _, rest, err := fullBox(body)
	if err != nil {
		return err
	}
	if v > 2 {
		return ErrMalformed
	}
	cur := &cursor{b: rest}
	sizes := cur.u16()
	offsetSize := int(sizes >> 12)
	lengthSize := int(sizes >> 8 & 0xF)
	baseOffsetSize := int(sizes >> 4 & 0xF)
	indexSize := 0
	if v == 1 || v == 2 {
		indexSize = int(sizes & 0xF)
	}

	var count uint32
	if v < 2 {
		count = uint32(cur.u16())
	} else {
		count = cur.u32()
	}
	for i := uint32(0); i < count && cur.err == nil; i++ {
		id := cur.itemID(v == 2)
		if v == 1 || v == 2 {
			cur.u16() // reserved + construction_method
		}
		cur.u16() // data_reference_index
		cur.uintN(baseOffsetSize)
		extents := cur.u16()
		var total uint64
		for e := uint16(0); e < extents && cur.err == nil; e++ {
			if indexSize > 0 {
				cur.uintN(indexSize)
			}
			cur.uintN(offsetSize)
			total += cur.uintN(lengthSize)
			if total > math.MaxInt32 {
				return ErrMalformed
			}
		}
		if cur.err == nil {
			get(id).size = int(total)
		}
	}
	return cur.err
}

func parseIref(body []byte) ([]ref, error) {
	v, _, rest, err := fullBox(body)
	if err != nil {
		return nil, err
	}
	children, err := readBoxes(rest)
	if err != nil {
		return nil, err
	}
	var refs []ref
	for _, c := range children {
		cur := &cursor{b: c.body}
		r := ref{typ: c.typ, from: cur.itemID(v != 0)}
		n := cur.u16()
		for i := uint16(0); i < n; i++ {
			r.to = append(r.to, cur.itemID(v != 0))
		}
		if cur.err != nil {
			return nil, cur.err
		}
		refs = append(refs, r)
	}
	return refs, nil
}

// parseIprp returns the ipco property boxes and records ipma
// associations on each item.
func parseIprp(body []byte, get func(uint32) *item) ([]box, error) {
	children, err := readBoxes(body)
	if err != nil {
		return nil, err
	}
	var props []box
	for _, c := range children {
		switch c.typ {
		case "ipco":
			if props, err = readBoxes(c.body); err != nil {
				return nil, err
			}
		case "ipma":
			v, flags, rest, err := fullBox(c.body)
			if err != nil {
				return nil, err
			}
			cur := &cursor{b: rest}
			entries := cur.u32()
			for i := uint32(0); i < entries && cur.err == nil; i++ {
				it := get(cur.itemID(v >= 1))
				n := cur.u8()
				for j := uint8(0); j < n; j++ {
					var idx uint16
					if flags&1 != 0 {
						idx = cur.u16() & 0x7FFF
					} else {
						idx = uint16(cur.u8() & 0x7F)
					}
					if idx != 0 {
						it.props = append(it.props, idx)
					}
				}
			}
			if cur.err != nil {
				return nil, cur.err
			}
		}
	}
	return props, nil
}

// property returns the first property of the given type associated with id.
func (m *meta) property(id uint32, typ string) ([]byte, bool) {
	it, ok := m.items[id]
	if !ok {
		return nil, false
	}
	for _, idx := range it.props {
		if int(idx) > len(m.props) {
			continue
		}
		if p := m.props[idx-1]; p.typ == typ {
			return p.body, true
		}
	}
	return nil, false
}

func (m *meta) spatialExtent(id uint32) (int, int, bool) {
	body, ok := m.property(id, "ispe")
	if !ok {
		return 0, 0, false
	}
	_, _, rest, err := fullBox(body)
	if err != nil {
		return 0, 0, false
	}
	cur := &cursor{b: rest}
	w, h := cur.u32(), cur.u32()
	if cur.err != nil {
		return 0, 0, false
	}
	return int(w), int(h), true
}

// codedSize sums the extents of id, or of its tiles when id is a grid.
func (m *meta) codedSize(id uint32) int {
	it := m.items[id]
	if it == nil {
		return 0
	}
	if it.typ != "grid" {
		return it.size
	}
	total := 0
	for _, r := range m.refs {
		if r.typ == "dimg" && r.from == id {
			for _, tile := range r.to {
				if t := m.items[tile]; t != nil {
					total += t.size
				}
			}
		}
	}
	return total
}

// alphaItem finds the auxiliary image that refers to the primary item
// and is tagged as alpha. Items without an auxC property are accepted.
func (m *meta) alphaItem() uint32 {
	for _, r := range m.refs {
		if r.typ != "auxl" {
			continue
		}
		linked := false
		for _, to := range r.to {
			if to == m.primary {
				linked = true
			}
		}
		if !linked {
			continue
		}
		body, ok := m.property(r.from, "auxC")
		if !ok {
			return r.from
		}
		if _, _, rest, err := fullBox(body); err == nil && isAlphaURN(rest) {
			return r.from
		}
	}
	return 0
}

func isAlphaURN(b []byte) bool {
	urn := string(b)
	if i := strings.IndexByte(urn, 0); i >= 0 {
		urn = urn[:i]
	}
	return urn == "urn:mpeg:mpegB:cicp:systems:auxiliary:alpha" ||
		urn == "urn:mpeg:hevc:2015:auxid:1"
}
