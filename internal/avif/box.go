package avif

import (
	"encoding/binary"
)

// box is one ISOBMFF box with its header stripped.
type box struct {
	typ  string
	body []byte
}

// readBoxes splits b into consecutive boxes.
func readBoxes(b []byte) ([]box, error) {
	var out []box
	for len(b) > 0 {
		if len(b) < 8 {
			return nil, ErrTruncated
		}
		size := uint64(binary.BigEndian.Uint32(b))
		typ := string(b[4:8])
		hdr := uint64(8)
		switch size {
		case 0: // extends to end of enclosing container
			size = uint64(len(b))
		case 1:
			if len(b) < 16 {
				return nil, ErrTruncated
			}
			size = binary.BigEndian.Uint64(b[8:])
			hdr = 16
		}
		if size < hdr || size > uint64(len(b)) {
			return nil, ErrTruncated
		}
		out = append(out, box{typ: typ, body: b[hdr:size]})
		b = b[size:]
	}
	return out, nil
}

// fullBox splits a FullBox payload into version, flags and the rest.
func fullBox(body []byte) (version uint8, flags uint32, rest []byte, err error) {
	if len(body) < 4 {
		return 0, 0, nil, ErrTruncated
	}
	flags = uint32(body[1])<<16 | uint32(body[2])<<8 | uint32(body[3])
	return body[0], flags, body[4:], nil
}

// cursor reads big-endian integers; the first short read sticks in err.
type cursor struct {
	b   []byte
	err error
}

func (c *cursor) take(n int) []byte {
	if c.err != nil {
		return nil
	}
	if n > len(c.b) {
		c.err = ErrTruncated
		c.b = nil
		return nil
	}
	v := c.b[:n]
	c.b = c.b[n:]
	return v
}

func (c *cursor) u8() uint8 {
	if v := c.take(1); v != nil {
		return v[0]
	}
	return 0
}

func (c *cursor) u16() uint16 {
	if v := c.take(2); v != nil {
		return binary.BigEndian.Uint16(v)
	}
	return 0
}

func (c *cursor) u32() uint32 {
	if v := c.take(4); v != nil {
		return binary.BigEndian.Uint32(v)
	}
	return 0
}

func (c *cursor) u64() uint64 {
	if v := c.take(8); v != nil {
		return binary.BigEndian.Uint64(v)
	}
	return 0
}

// uintN reads a field of 0, 4 or 8 bytes as used by iloc.
func (c *cursor) uintN(size int) uint64 {
	switch size {
	case 0:
		return 0
	case 4:
		return uint64(c.u32())
	case 8:
		return c.u64()
	}
	if c.err == nil {
		c.err = ErrMalformed
	}
	return 0
}

// itemID reads a 16-bit id for version 0 boxes and 32-bit otherwise.
func (c *cursor) itemID(wide bool) uint32 {
	if wide {
		return c.u32()
	}
	return uint32(c.u16())
}
