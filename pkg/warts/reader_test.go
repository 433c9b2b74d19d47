package warts

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// frame wraps a payload in a record header.
func frame(typ uint16, payload []byte) []byte {
	buf := make([]byte, headerLen, headerLen+len(payload))
	binary.BigEndian.PutUint16(buf[0:2], Magic)
	binary.BigEndian.PutUint16(buf[2:4], typ)
	binary.BigEndian.PutUint32(buf[4:8], uint32(len(payload)))
	return append(buf, payload...)
}

func TestNextEndOfStream(t *testing.T) {
	r := NewReader(bytes.NewReader(nil))

	rec, err := r.Next()
	assert.Nil(t, rec)
	assert.ErrorIs(t, err, io.EOF)
}

func TestNextPartialHeader(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0x12, 0x05, 0x00}))

	_, err := r.Next()
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestNextInvalidMagic(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0xDE, 0xAD, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00}))

	_, err := r.Next()
	assert.ErrorIs(t, err, ErrMagic)
}

func TestNextTruncatedPayload(t *testing.T) {
	buf := frame(TypeList, make([]byte, 20))
	r := NewReader(bytes.NewReader(buf[:12]))

	_, err := r.Next()
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestNextUnknownType(t *testing.T) {
	payload := []byte{1, 2, 3}
	r := NewReader(bytes.NewReader(frame(0x00FF, payload)))

	rec, err := r.Next()
	require.NoError(t, err)
	unk, ok := rec.(*Unknown)
	require.True(t, ok)
	assert.Equal(t, uint16(0x00FF), unk.Type())
	assert.Equal(t, payload, unk.Data)

	// The stream position must be at the next record boundary.
	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestNextListRecord(t *testing.T) {
	payload := []byte{
		0, 0, 0, 1, // auto_id
		0, 0, 0, 2, // manual_id
		't', 'e', 's', 't', 0, // name
		0x00, // no options
	}
	r := NewReader(bytes.NewReader(frame(TypeList, payload)))

	rec, err := r.Next()
	require.NoError(t, err)
	list, ok := rec.(*List)
	require.True(t, ok)

	assert.Equal(t, TypeList, list.Type())
	assert.Equal(t, uint32(1), list.AutoID)
	assert.Equal(t, uint32(2), list.ManualID)
	assert.Equal(t, "test", list.Name)
	assert.Nil(t, list.Description)
	assert.Nil(t, list.MonitorName)
	assert.Equal(t, `List(name="test", auto_id=1, manual_id=2)`, list.String())
}

func TestNextListRecordWithOptions(t *testing.T) {
	payload := []byte{
		0, 0, 0, 1,
		0, 0, 0, 2,
		'l', 0,
		0x03,       // description + monitor_name
		0x00, 0x09, // option bytes
		'd', 'e', 's', 'c', 0,
		'm', 'o', 'n', 0,
	}
	r := NewReader(bytes.NewReader(frame(TypeList, payload)))

	rec, err := r.Next()
	require.NoError(t, err)
	list := rec.(*List)

	require.NotNil(t, list.Description)
	assert.Equal(t, "desc", *list.Description)
	require.NotNil(t, list.MonitorName)
	assert.Equal(t, "mon", *list.MonitorName)
}

func TestNextCycleRecords(t *testing.T) {
	start := []byte{
		0, 0, 0, 5, // auto_id
		0, 0, 0, 1, // list_id
		0, 0, 0, 9, // manual_id
		0x60, 0x00, 0x00, 0x00, // start_time
		0x03,       // stop_time + hostname
		0x00, 0x09, // option bytes
		0x60, 0x00, 0x01, 0x00,
		'h', 'o', 's', 't', 0,
	}
	stop := []byte{
		0, 0, 0, 5, // cycle_id
		0x60, 0x00, 0x02, 0x00, // stop_time
	}
	stream := append(frame(TypeCycleStart, start), frame(TypeCycleDefinition, start)...)
	stream = append(stream, frame(TypeCycleStop, stop)...)

	r := NewReader(bytes.NewReader(stream))

	rec, err := r.Next()
	require.NoError(t, err)
	cs := rec.(*CycleStart)
	assert.Equal(t, uint32(5), cs.AutoID)
	assert.Equal(t, uint32(1), cs.ListID)
	assert.Equal(t, uint32(9), cs.ManualID)
	assert.Equal(t, uint32(0x60000000), cs.StartTime)
	require.NotNil(t, cs.StopTime)
	assert.Equal(t, uint32(0x60000100), *cs.StopTime)
	require.NotNil(t, cs.Hostname)
	assert.Equal(t, "host", *cs.Hostname)

	rec, err = r.Next()
	require.NoError(t, err)
	cd, ok := rec.(*CycleDefinition)
	require.True(t, ok)
	assert.Equal(t, TypeCycleDefinition, cd.Type())
	assert.Equal(t, uint32(5), cd.AutoID)

	rec, err = r.Next()
	require.NoError(t, err)
	cstop := rec.(*CycleStop)
	assert.Equal(t, uint32(5), cstop.CycleID)
	assert.Equal(t, uint32(0x60000200), cstop.StopTime)

	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestNextSkipsTrailingRecordBytes(t *testing.T) {
	// A newer producer appends bytes this decoder does not understand.
	payload := []byte{
		0, 0, 0, 1,
		0, 0, 0, 2,
		'x', 0,
		0x00,
		0xCA, 0xFE, // trailing unknown bytes
	}
	stream := append(frame(TypeList, payload), frame(TypeCycleStop, []byte{
		0, 0, 0, 1, 0, 0, 0, 2,
	})...)
	r := NewReader(bytes.NewReader(stream))

	rec, err := r.Next()
	require.NoError(t, err)
	assert.IsType(t, &List{}, rec)

	// Framing survives the skip.
	rec, err = r.Next()
	require.NoError(t, err)
	assert.IsType(t, &CycleStop{}, rec)
}

func TestReadAll(t *testing.T) {
	list := frame(TypeList, []byte{
		0, 0, 0, 1, 0, 0, 0, 2, 'a', 0, 0x00,
	})
	unknown := frame(0x0042, []byte{9, 9})
	stream := append(append([]byte{}, list...), unknown...)

	records, err := ReadAll(bytes.NewReader(stream))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.IsType(t, &List{}, records[0])
	assert.IsType(t, &Unknown{}, records[1])
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "list", TypeName(TypeList))
	assert.Equal(t, "traceroute", TypeName(TypeTraceroute))
	assert.Equal(t, "unknown-0x0042", TypeName(0x0042))
}
