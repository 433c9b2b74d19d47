package warts

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"firestige.xyz/warts/internal/log"
)

// Magic identifies every warts record header.
const Magic uint16 = 0x1205

// headerLen is the fixed record header size: magic, type, payload length.
const headerLen = 8

// Known record type codes.
const (
	TypeList            uint16 = 0x0001
	TypeCycleStart      uint16 = 0x0002
	TypeCycleDefinition uint16 = 0x0003
	TypeCycleStop       uint16 = 0x0004
	TypeTraceroute      uint16 = 0x0006
)

// Record is one decoded warts object. Records are immutable once returned
// and owned by the caller.
type Record interface {
	// Type returns the 16-bit warts type code of the record.
	Type() uint16
	// String returns a one-line summary.
	String() string
}

// Unknown is a record whose type code has no registered decoder. It carries
// the raw payload so callers can account for coverage gaps; producing one
// is not an error.
type Unknown struct {
	TypeCode uint16 `json:"type_code"`
	Data     []byte `json:"data"`
}

func (u *Unknown) Type() uint16 { return u.TypeCode }

func (u *Unknown) String() string {
	return fmt.Sprintf("Unknown(type=0x%04x, %d bytes)", u.TypeCode, len(u.Data))
}

// TypeName returns a human-readable name for a record type code.
func TypeName(code uint16) string {
	switch code {
	case TypeList:
		return "list"
	case TypeCycleStart:
		return "cycle-start"
	case TypeCycleDefinition:
		return "cycle-definition"
	case TypeCycleStop:
		return "cycle-stop"
	case TypeTraceroute:
		return "traceroute"
	default:
		return fmt.Sprintf("unknown-0x%04x", code)
	}
}

type decodeFunc func(c *cursor) (Record, error)

// registry maps type codes to decoders. Built once at startup and read-only
// afterwards, so concurrent readers need no synchronization.
var registry = map[uint16]decodeFunc{
	TypeList:            decodeList,
	TypeCycleStart:      decodeCycleStart,
	TypeCycleDefinition: decodeCycleDefinition,
	TypeCycleStop:       decodeCycleStop,
	TypeTraceroute:      decodeTraceroute,
}

// Reader decodes warts records sequentially from a byte stream. It is not
// safe for concurrent use; decoding is strictly one record at a time since
// the stream position is the only framing.
type Reader struct {
	src io.Reader
	hdr [headerLen]byte
}

// NewReader returns a Reader over r. r is typically a file or a pipe.
func NewReader(r io.Reader) *Reader {
	return &Reader{src: r}
}

// Next decodes and returns the next record. It returns io.EOF when the
// stream ends exactly at a record boundary. After any other error the
// stream framing cannot be trusted and Next must not be called again.
func (r *Reader) Next() (Record, error) {
	if _, err := io.ReadFull(r.src, r.hdr[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: partial record header", ErrTruncated)
		}
		return nil, fmt.Errorf("warts: header read: %w", err)
	}
	magic := binary.BigEndian.Uint16(r.hdr[0:2])
	typ := binary.BigEndian.Uint16(r.hdr[2:4])
	length := binary.BigEndian.Uint32(r.hdr[4:8])
	if magic != Magic {
		return nil, fmt.Errorf("%w: 0x%04x", ErrMagic, magic)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r.src, payload); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: record type 0x%04x declared %d payload bytes",
				ErrTruncated, typ, length)
		}
		return nil, fmt.Errorf("warts: payload read: %w", err)
	}

	decode, ok := registry[typ]
	if !ok {
		log.GetLogger().WithFields(map[string]interface{}{
			"type":  fmt.Sprintf("0x%04x", typ),
			"bytes": length,
		}).Warn("skipping record of unknown type")
		return &Unknown{TypeCode: typ, Data: payload}, nil
	}

	c := newCursor(payload)
	rec, err := decode(c)
	if err != nil {
		return nil, fmt.Errorf("warts: record type 0x%04x: %w", typ, err)
	}
	if n := c.remaining(); n > 0 {
		// Trailing bytes belong to fields added by a newer producer.
		log.GetLogger().WithFields(map[string]interface{}{
			"type":  fmt.Sprintf("0x%04x", typ),
			"bytes": n,
		}).Debug("skipping unknown trailing record bytes")
	}
	return rec, nil
}

// ReadAll drains r and returns every record up to the end of the stream.
// It stops at the first structural error.
func ReadAll(r io.Reader) ([]Record, error) {
	wr := NewReader(r)
	var records []Record
	for {
		rec, err := wr.Next()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
}
