package warts

import (
	"encoding/binary"
	"fmt"
	"net/netip"
)

// Address family codes used by inline address encodings.
const (
	addrIPv4 = 0x01
	addrIPv6 = 0x02
)

// cursor is a read offset over one fully buffered record payload. It also
// owns the address back-reference table: inline addresses are appended as
// they are decoded and later entries may refer back to them by index. The
// table is scoped to a single top-level record, so a traceroute and its
// nested hops share it. A cursor is never shared across record decodes.
type cursor struct {
	buf   []byte
	off   int
	addrs []netip.Addr
}

func newCursor(buf []byte) *cursor {
	return &cursor{buf: buf}
}

// remaining reports the number of unread bytes.
func (c *cursor) remaining() int {
	return len(c.buf) - c.off
}

// take consumes exactly n bytes and returns them as a subslice of the
// payload buffer.
func (c *cursor) take(n int) ([]byte, error) {
	if n < 0 || c.remaining() < n {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d",
			ErrTruncated, n, c.off, c.remaining())
	}
	b := c.buf[c.off : c.off+n]
	c.off += n
	return b, nil
}

// skip discards n bytes.
func (c *cursor) skip(n int) error {
	_, err := c.take(n)
	return err
}

func (c *cursor) uint8() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *cursor) uint16() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (c *cursor) uint32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// timeval reads seconds and microseconds as two uint32 and combines them
// into a single fractional timestamp.
func (c *cursor) timeval() (float64, error) {
	sec, err := c.uint32()
	if err != nil {
		return 0, err
	}
	usec, err := c.uint32()
	if err != nil {
		return 0, err
	}
	return float64(sec) + float64(usec)/1e6, nil
}

// cstring reads a zero-terminated UTF-8 string, consuming the terminator.
func (c *cursor) cstring() (string, error) {
	for i := c.off; i < len(c.buf); i++ {
		if c.buf[i] == 0 {
			s := string(c.buf[c.off:i])
			c.off = i + 1
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: unterminated string at offset %d", ErrTruncated, c.off)
}

// address reads either an inline address (length byte > 0: family byte plus
// raw address bytes, appended to the back-reference table) or a uint32
// back-reference into the table (length byte == 0).
func (c *cursor) address() (netip.Addr, error) {
	length, err := c.uint8()
	if err != nil {
		return netip.Addr{}, err
	}
	if length == 0 {
		id, err := c.uint32()
		if err != nil {
			return netip.Addr{}, err
		}
		if int(id) >= len(c.addrs) {
			return netip.Addr{}, fmt.Errorf("%w: id %d, table size %d",
				ErrBackReference, id, len(c.addrs))
		}
		return c.addrs[id], nil
	}
	family, err := c.uint8()
	if err != nil {
		return netip.Addr{}, err
	}
	raw, err := c.take(int(length))
	if err != nil {
		return netip.Addr{}, err
	}
	switch family {
	case addrIPv4, addrIPv6:
	default:
		return netip.Addr{}, fmt.Errorf("%w: family 0x%02x", ErrAddressType, family)
	}
	addr, ok := netip.AddrFromSlice(raw)
	if !ok {
		return netip.Addr{}, fmt.Errorf("%w: family 0x%02x with %d address bytes",
			ErrAddressType, family, length)
	}
	c.addrs = append(c.addrs, addr)
	return addr, nil
}
