package warts

import (
	"fmt"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// RFC 4884 object class / c-type identifying an MPLS label stack object
// (RFC 4950).
const (
	mplsClassNum = 1
	mplsCType    = 1

	mplsEntrySize = 4
)

// ICMPExtension is one RFC 4884 extension object quoted in an ICMP reply.
// Data is kept undecoded except for the MPLS label stack view below.
type ICMPExtension struct {
	Class uint8
	Type  uint8
	Data  []byte
}

// MPLSLabel is one RFC 4950 label stack entry.
type MPLSLabel struct {
	Label       uint32
	Exp         uint8
	BottomStack bool
	TTL         uint8
}

// IsMPLS reports whether the extension carries an MPLS label stack.
func (e ICMPExtension) IsMPLS() bool {
	return e.Class == mplsClassNum && e.Type == mplsCType
}

// MPLSLabelStack decodes the extension data as a stack of 4-byte MPLS
// label entries, outermost first. Returns nil for non-MPLS extensions or
// data that is not a whole number of entries.
func (e ICMPExtension) MPLSLabelStack() []MPLSLabel {
	if !e.IsMPLS() || len(e.Data) == 0 || len(e.Data)%mplsEntrySize != 0 {
		return nil
	}
	labels := make([]MPLSLabel, 0, len(e.Data)/mplsEntrySize)
	for off := 0; off < len(e.Data); off += mplsEntrySize {
		var shim layers.MPLS
		if err := shim.DecodeFromBytes(e.Data[off:off+mplsEntrySize], gopacket.NilDecodeFeedback); err != nil {
			return nil
		}
		labels = append(labels, MPLSLabel{
			Label:       shim.Label,
			Exp:         shim.TrafficClass,
			BottomStack: shim.StackBottom,
			TTL:         shim.TTL,
		})
		if shim.StackBottom {
			break
		}
	}
	return labels
}

// icmpExtensions reads an ICMP extension block: a uint16 byte budget
// followed by {length:u16, class:u8, type:u8, data:length bytes} entries
// until the budget is used up.
func (c *cursor) icmpExtensions() ([]ICMPExtension, error) {
	total, err := c.uint16()
	if err != nil {
		return nil, err
	}
	end := c.off + int(total)
	var exts []ICMPExtension
	for c.off < end {
		extLen, err := c.uint16()
		if err != nil {
			return nil, err
		}
		class, err := c.uint8()
		if err != nil {
			return nil, err
		}
		typ, err := c.uint8()
		if err != nil {
			return nil, err
		}
		data, err := c.take(int(extLen))
		if err != nil {
			return nil, err
		}
		exts = append(exts, ICMPExtension{Class: class, Type: typ, Data: data})
	}
	if c.off > end {
		return nil, fmt.Errorf("%w: consumed %d bytes past the declared %d",
			ErrExtensionLength, c.off-end, total)
	}
	return exts, nil
}
