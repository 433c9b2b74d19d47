// Package warts decodes the scamper warts binary container format into
// typed records: list/cycle metadata and traceroutes with nested hops.
package warts

import "errors"

// Sentinel decode errors. All are wrapped with positional context before
// being returned, so callers should match them with errors.Is.
var (
	// ErrMagic means the record header magic was not 0x1205. Framing is
	// lost at this point and the stream cannot be resynchronized.
	ErrMagic = errors.New("warts: invalid magic header")

	// ErrTruncated means the input ended in the middle of a header or a
	// field. A clean end of stream at a record boundary is io.EOF, not
	// ErrTruncated.
	ErrTruncated = errors.New("warts: truncated input")

	// ErrOptionLength means an option table consumed more bytes than its
	// declared option-block length.
	ErrOptionLength = errors.New("warts: inconsistent option length")

	// ErrExtensionLength means an ICMP extension entry overran the
	// declared extension budget.
	ErrExtensionLength = errors.New("warts: inconsistent ICMP extension length")

	// ErrBackReference means an address back-reference id pointed at or
	// beyond the end of the address table.
	ErrBackReference = errors.New("warts: invalid referenced address")

	// ErrAddressType means an inline address carried an unknown address
	// family code.
	ErrAddressType = errors.New("warts: unknown address type")
)
