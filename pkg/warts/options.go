package warts

import (
	"fmt"
	"net/netip"
)

// parseFunc decodes one optional field, advancing the cursor.
type parseFunc func(c *cursor) error

// optField is one entry of a record's option table. The table index is the
// field's bit position in the presence bitmask, so tables are append-only:
// inserting or removing an entry breaks compatibility with every existing
// producer. ignore marks fields that must be consumed but not recorded
// (the deprecated address-id encodings).
type optField struct {
	name   string
	parse  parseFunc
	ignore bool
}

// readOptions decodes an option block against its declared table. An
// all-zero bitmask means no option bytes follow at all. Otherwise a uint16
// gives the byte length of the option data; bits beyond the table are
// fields from a newer producer and cannot be decoded individually, so any
// bytes left inside the declared length after the known fields are skipped
// in aggregate.
func readOptions(c *cursor, fields []optField) error {
	set, err := c.flags()
	if err != nil {
		return err
	}
	if set.empty() {
		return nil
	}
	optLen, err := c.uint16()
	if err != nil {
		return err
	}
	end := c.off + int(optLen)
	for i, f := range fields {
		if !set.isSet(i) {
			continue
		}
		if err := f.parse(c); err != nil {
			return fmt.Errorf("option %q: %w", f.name, err)
		}
	}
	if c.off > end {
		return fmt.Errorf("%w: options consumed %d bytes, declared %d",
			ErrOptionLength, int(optLen)+c.off-end, optLen)
	}
	if c.off < end {
		return c.skip(end - c.off)
	}
	return nil
}

// Setter helpers bind option table entries to a record's pointer fields,
// so an absent option stays nil rather than reading as a zero value.

func setU8(dst **uint8) parseFunc {
	return func(c *cursor) error {
		v, err := c.uint8()
		if err != nil {
			return err
		}
		*dst = &v
		return nil
	}
}

func setU16(dst **uint16) parseFunc {
	return func(c *cursor) error {
		v, err := c.uint16()
		if err != nil {
			return err
		}
		*dst = &v
		return nil
	}
}

func setU32(dst **uint32) parseFunc {
	return func(c *cursor) error {
		v, err := c.uint32()
		if err != nil {
			return err
		}
		*dst = &v
		return nil
	}
}

func setTimeval(dst **float64) parseFunc {
	return func(c *cursor) error {
		v, err := c.timeval()
		if err != nil {
			return err
		}
		*dst = &v
		return nil
	}
}

func setString(dst **string) parseFunc {
	return func(c *cursor) error {
		v, err := c.cstring()
		if err != nil {
			return err
		}
		*dst = &v
		return nil
	}
}

func setAddr(dst **netip.Addr) parseFunc {
	return func(c *cursor) error {
		v, err := c.address()
		if err != nil {
			return err
		}
		*dst = &v
		return nil
	}
}

func setExtensions(dst *[]ICMPExtension) parseFunc {
	return func(c *cursor) error {
		v, err := c.icmpExtensions()
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
}

// discardU32 consumes a uint32 whose value is superseded by a later field.
func discardU32() parseFunc {
	return func(c *cursor) error {
		_, err := c.uint32()
		return err
	}
}
