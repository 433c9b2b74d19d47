package warts

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeTracerouteRecord(t *testing.T, payload []byte) *Traceroute {
	t.Helper()
	rec, err := NewReader(bytes.NewReader(frame(TypeTraceroute, payload))).Next()
	require.NoError(t, err)
	tr, ok := rec.(*Traceroute)
	require.True(t, ok)
	return tr
}

func TestTracerouteNoHops(t *testing.T) {
	tr := decodeTracerouteRecord(t, []byte{
		0x00,       // no options
		0x00, 0x00, // hop_count = 0
	})

	assert.Empty(t, tr.Hops)
	assert.Nil(t, tr.ListID)
	assert.Nil(t, tr.SrcAddress)
	assert.Equal(t, "Traceroute(dst=?, 0 hops)", tr.String())
}

func TestTracerouteWithHops(t *testing.T) {
	tr := decodeTracerouteRecord(t, []byte{
		0x03,       // list_id + cycle_id
		0x00, 0x08, // option bytes
		0, 0, 0, 1, // list_id
		0, 0, 0, 2, // cycle_id
		0x00, 0x02, // hop_count = 2
		// hop 0: probe_ttl + inline address
		0x82, 0x80, 0x08, // flags: bits 1, 17
		0x00, 0x07,
		0x01,                         // probe_ttl
		4, 0x01, 192, 0, 2, 1,        // address 192.0.2.1 -> table[0]
		// hop 1: probe_ttl + back-referenced address
		0x82, 0x80, 0x08,
		0x00, 0x06,
		0x02,                         // probe_ttl
		0, 0x00, 0x00, 0x00, 0x00,    // back-reference to table[0]
	})

	require.NotNil(t, tr.ListID)
	assert.Equal(t, uint32(1), *tr.ListID)
	require.NotNil(t, tr.CycleID)
	assert.Equal(t, uint32(2), *tr.CycleID)

	require.Len(t, tr.Hops, 2)
	first, second := tr.Hops[0], tr.Hops[1]

	require.NotNil(t, first.ProbeTTL)
	assert.Equal(t, uint8(1), *first.ProbeTTL)
	require.NotNil(t, first.Address)
	assert.Equal(t, "192.0.2.1", first.Address.String())

	// Hop order is file order: index 0 is the nearest hop.
	require.NotNil(t, second.ProbeTTL)
	assert.Equal(t, uint8(2), *second.ProbeTTL)
	require.NotNil(t, second.Address)
	assert.Equal(t, "192.0.2.1", second.Address.String())
}

func TestTracerouteAddressTableSharedWithHops(t *testing.T) {
	tr := decodeTracerouteRecord(t, []byte{
		0x80, 0x80, 0x80, 0x30, // flags: bits 25 (src) and 26 (dst)
		0x00, 0x0C,
		4, 0x01, 192, 0, 2, 1, // src -> table[0]
		4, 0x01, 192, 0, 2, 2, // dst -> table[1]
		0x00, 0x01, // hop_count = 1
		0x80, 0x80, 0x08, // flags: bit 17 (address)
		0x00, 0x05,
		0, 0x00, 0x00, 0x00, 0x01, // back-reference to dst
	})

	require.NotNil(t, tr.SrcAddress)
	assert.Equal(t, "192.0.2.1", tr.SrcAddress.String())
	require.NotNil(t, tr.DstAddress)
	assert.Equal(t, "192.0.2.2", tr.DstAddress.String())

	require.Len(t, tr.Hops, 1)
	require.NotNil(t, tr.Hops[0].Address)
	assert.Equal(t, "192.0.2.2", tr.Hops[0].Address.String())
	assert.Equal(t, "Traceroute(dst=192.0.2.2, 1 hops)", tr.String())
}

func TestTracerouteIgnoredAddressIDs(t *testing.T) {
	// Deprecated src/dst address ids are consumed but never surface.
	tr := decodeTracerouteRecord(t, []byte{
		0x0D,       // bits 0, 2, 3: list_id + src_address_id + dst_address_id
		0x00, 0x0C,
		0, 0, 0, 7, // list_id
		0, 0, 0, 1, // src_address_id (dropped)
		0, 0, 0, 2, // dst_address_id (dropped)
		0x00, 0x00, // hop_count = 0
	})

	require.NotNil(t, tr.ListID)
	assert.Equal(t, uint32(7), *tr.ListID)
	assert.Nil(t, tr.SrcAddress)
	assert.Nil(t, tr.DstAddress)
}

func TestTracerouteHopICMPExtensions(t *testing.T) {
	tr := decodeTracerouteRecord(t, []byte{
		0x00,       // no traceroute options
		0x00, 0x01, // hop_count = 1
		0x80, 0x80, 0x04, // flags: bit 16 (icmpext)
		0x00, 0x0A,
		0x00, 0x08, // extension budget
		0x00, 0x04, 0x01, 0x01, // MPLS object, 4 data bytes
		0x00, 0x01, 0x01, 0x40, // label 16, bottom of stack, ttl 64
	})

	require.Len(t, tr.Hops, 1)
	hop := tr.Hops[0]
	require.Len(t, hop.Extensions, 1)

	labels := hop.Extensions[0].MPLSLabelStack()
	require.Len(t, labels, 1)
	assert.Equal(t, uint32(16), labels[0].Label)
	assert.True(t, labels[0].BottomStack)
	assert.Equal(t, uint8(64), labels[0].TTL)
}

func TestTracerouteHopTruncatedMidHop(t *testing.T) {
	// hop_count says 1 but the payload ends before the hop options.
	payload := []byte{
		0x00,
		0x00, 0x01,
	}
	_, err := NewReader(bytes.NewReader(frame(TypeTraceroute, payload))).Next()
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestHopICMPTypeCode(t *testing.T) {
	hop := &TracerouteHop{}
	_, ok := hop.ICMPType()
	assert.False(t, ok)

	tc := uint16(11<<8 | 3)
	hop.ReplyICMPTypecode = &tc

	typ, ok := hop.ICMPType()
	require.True(t, ok)
	assert.Equal(t, uint8(11), typ)

	code, ok := hop.ICMPCode()
	require.True(t, ok)
	assert.Equal(t, uint8(3), code)

	assert.Equal(t, "Hop", hop.String())
}
