package warts

import (
	"fmt"
	"net/netip"
)

// Traceroute is one multi-hop trace measurement. Every field except Hops is
// optional on the wire; absent fields stay nil.
type Traceroute struct {
	ListID        *uint32     `json:"list_id,omitempty"`
	CycleID       *uint32     `json:"cycle_id,omitempty"`
	StartTime     *float64    `json:"start_time,omitempty"`
	StopReason    *uint8      `json:"stop_reason,omitempty"`
	StopData      *uint8      `json:"stop_data,omitempty"`
	TraceFlags    *uint8      `json:"trace_flags,omitempty"`
	Attempts      *uint8      `json:"attempts,omitempty"`
	HopLimit      *uint8      `json:"hoplimit,omitempty"`
	TraceType     *uint8      `json:"trace_type,omitempty"`
	ProbeSize     *uint16     `json:"probe_size,omitempty"`
	SrcPort       *uint16     `json:"src_port,omitempty"`
	DstPort       *uint16     `json:"dst_port,omitempty"`
	FirstTTL      *uint8      `json:"first_ttl,omitempty"`
	IPToS         *uint8      `json:"ip_tos,omitempty"`
	ProbeTimeout  *uint8      `json:"probe_timeout,omitempty"`
	NumLoops      *uint8      `json:"nb_loops,omitempty"`
	NumHops       *uint16     `json:"nb_hops,omitempty"`
	GapLimit      *uint8      `json:"gap_limit,omitempty"`
	GapAction     *uint8      `json:"gap_action,omitempty"`
	LoopAction    *uint8      `json:"loop_action,omitempty"`
	ProbesSent    *uint16     `json:"nb_probes_sent,omitempty"`
	ProbeInterval *uint8      `json:"probes_interval,omitempty"`
	Confidence    *uint8      `json:"confidence,omitempty"`
	SrcAddress    *netip.Addr `json:"src_address,omitempty"`
	DstAddress    *netip.Addr `json:"dst_address,omitempty"`
	UserID        *uint32     `json:"user_id,omitempty"`
	IPOffset      *uint16     `json:"ip_offset,omitempty"`

	Hops []*TracerouteHop `json:"hops"`
}

func (t *Traceroute) Type() uint16 { return TypeTraceroute }

func (t *Traceroute) String() string {
	dst := "?"
	if t.DstAddress != nil {
		dst = t.DstAddress.String()
	}
	return fmt.Sprintf("Traceroute(dst=%s, %d hops)", dst, len(t.Hops))
}

// optionTable declares the traceroute option layout. Entry order is bit
// order on the wire and must never change; new fields append at the end.
// The src/dst address-id entries are a deprecated encoding superseded by
// the src_address/dst_address fields, so they are consumed and dropped.
func (t *Traceroute) optionTable() []optField {
	return []optField{
		{name: "list_id", parse: setU32(&t.ListID)},                        // Bit 0
		{name: "cycle_id", parse: setU32(&t.CycleID)},                      // Bit 1
		{name: "src_address_id", parse: discardU32(), ignore: true},        // Bit 2
		{name: "dst_address_id", parse: discardU32(), ignore: true},        // Bit 3
		{name: "start_time", parse: setTimeval(&t.StartTime)},              // Bit 4
		{name: "stop_reason", parse: setU8(&t.StopReason)},                 // Bit 5
		{name: "stop_data", parse: setU8(&t.StopData)},                     // Bit 6
		{name: "trace_flags", parse: setU8(&t.TraceFlags)},                 // Bit 7
		{name: "attempts", parse: setU8(&t.Attempts)},                      // Bit 8
		{name: "hoplimit", parse: setU8(&t.HopLimit)},                      // Bit 9
		{name: "trace_type", parse: setU8(&t.TraceType)},                   // Bit 10
		{name: "probe_size", parse: setU16(&t.ProbeSize)},                  // Bit 11
		{name: "src_port", parse: setU16(&t.SrcPort)},                      // Bit 12
		{name: "dst_port", parse: setU16(&t.DstPort)},                      // Bit 13
		{name: "first_ttl", parse: setU8(&t.FirstTTL)},                     // Bit 14
		{name: "ip_tos", parse: setU8(&t.IPToS)},                           // Bit 15
		{name: "probe_timeout", parse: setU8(&t.ProbeTimeout)},             // Bit 16
		{name: "nb_loops", parse: setU8(&t.NumLoops)},                      // Bit 17
		{name: "nb_hops", parse: setU16(&t.NumHops)},                       // Bit 18
		{name: "gap_limit", parse: setU8(&t.GapLimit)},                     // Bit 19
		{name: "gap_action", parse: setU8(&t.GapAction)},                   // Bit 20
		{name: "loop_action", parse: setU8(&t.LoopAction)},                 // Bit 21
		{name: "nb_probes_sent", parse: setU16(&t.ProbesSent)},             // Bit 22
		{name: "probes_interval", parse: setU8(&t.ProbeInterval)},          // Bit 23
		{name: "confidence", parse: setU8(&t.Confidence)},                  // Bit 24
		{name: "src_address", parse: setAddr(&t.SrcAddress)},               // Bit 25
		{name: "dst_address", parse: setAddr(&t.DstAddress)},               // Bit 26
		{name: "user_id", parse: setU32(&t.UserID)},                        // Bit 27
		{name: "ip_offset", parse: setU16(&t.IPOffset)},                    // Bit 28
	}
}

// decodeTraceroute reads the traceroute option block, then the hop count,
// then each hop in file order. Hops share the enclosing record's cursor and
// therefore its address back-reference table. Any pmtud/last-ditch/
// doubletree blocks after the hops are left for the trailing-byte skip.
func decodeTraceroute(c *cursor) (Record, error) {
	t := &Traceroute{}
	if err := readOptions(c, t.optionTable()); err != nil {
		return nil, err
	}
	hopCount, err := c.uint16()
	if err != nil {
		return nil, err
	}
	t.Hops = make([]*TracerouteHop, 0, hopCount)
	for i := 0; i < int(hopCount); i++ {
		h := &TracerouteHop{}
		if err := readOptions(c, h.optionTable()); err != nil {
			return nil, fmt.Errorf("hop %d: %w", i, err)
		}
		t.Hops = append(t.Hops, h)
	}
	return t, nil
}

// TracerouteHop is one probed hop of a traceroute. Index 0 is the hop
// nearest the probing host.
type TracerouteHop struct {
	ProbeTTL          *uint8          `json:"probe_ttl,omitempty"`
	ReplyTTL          *uint8          `json:"reply_ttl,omitempty"`
	HopFlags          *uint8          `json:"hop_flags,omitempty"`
	ProbeID           *uint8          `json:"probe_id,omitempty"`
	RTT               *uint32         `json:"rtt,omitempty"`
	ReplyICMPTypecode *uint16         `json:"reply_icmp_typecode,omitempty"`
	ProbeSize         *uint16         `json:"probe_size,omitempty"`
	ReplySize         *uint16         `json:"reply_size,omitempty"`
	ReplyIPID         *uint16         `json:"reply_ip_id,omitempty"`
	ToS               *uint8          `json:"tos,omitempty"`
	NextHopMTU        *uint16         `json:"nexthop_mtu,omitempty"`
	QuotedIPLength    *uint16         `json:"quoted_ip_length,omitempty"`
	QuotedTTL         *uint8          `json:"quoted_ttl,omitempty"`
	ReplyTCPFlags     *uint8          `json:"reply_tcp_flags,omitempty"`
	QuotedToS         *uint8          `json:"quoted_tos,omitempty"`
	Extensions        []ICMPExtension `json:"icmpext,omitempty"`
	Address           *netip.Addr     `json:"address,omitempty"`
	TransmitTime      *float64        `json:"transmit_time,omitempty"`
}

func (h *TracerouteHop) String() string {
	if h.Address != nil {
		return fmt.Sprintf("Hop(%s)", h.Address)
	}
	return "Hop"
}

func (h *TracerouteHop) optionTable() []optField {
	return []optField{
		{name: "address_id", parse: discardU32(), ignore: true},               // Bit 0
		{name: "probe_ttl", parse: setU8(&h.ProbeTTL)},                        // Bit 1
		{name: "reply_ttl", parse: setU8(&h.ReplyTTL)},                        // Bit 2
		{name: "hop_flags", parse: setU8(&h.HopFlags)},                        // Bit 3
		{name: "probe_id", parse: setU8(&h.ProbeID)},                          // Bit 4
		{name: "rtt", parse: setU32(&h.RTT)},                                  // Bit 5
		{name: "reply_icmp_typecode", parse: setU16(&h.ReplyICMPTypecode)},    // Bit 6
		{name: "probe_size", parse: setU16(&h.ProbeSize)},                     // Bit 7
		{name: "reply_size", parse: setU16(&h.ReplySize)},                     // Bit 8
		{name: "reply_ip_id", parse: setU16(&h.ReplyIPID)},                    // Bit 9
		{name: "tos", parse: setU8(&h.ToS)},                                   // Bit 10
		{name: "nexthop_mtu", parse: setU16(&h.NextHopMTU)},                   // Bit 11
		{name: "quoted_ip_length", parse: setU16(&h.QuotedIPLength)},          // Bit 12
		{name: "quoted_ttl", parse: setU8(&h.QuotedTTL)},                      // Bit 13
		{name: "reply_tcp_flags", parse: setU8(&h.ReplyTCPFlags)},             // Bit 14
		{name: "quoted_tos", parse: setU8(&h.QuotedToS)},                      // Bit 15
		{name: "icmpext", parse: setExtensions(&h.Extensions)},                // Bit 16
		{name: "address", parse: setAddr(&h.Address)},                         // Bit 17
		{name: "transmit_time", parse: setTimeval(&h.TransmitTime)},           // Bit 18
	}
}

// ICMPType returns the reply ICMP type, the high byte of the combined
// typecode field. ok is false when the field is absent.
func (h *TracerouteHop) ICMPType() (v uint8, ok bool) {
	if h.ReplyICMPTypecode == nil {
		return 0, false
	}
	return uint8(*h.ReplyICMPTypecode >> 8), true
}

// ICMPCode returns the reply ICMP code, the low byte of the combined
// typecode field.
func (h *TracerouteHop) ICMPCode() (v uint8, ok bool) {
	if h.ReplyICMPTypecode == nil {
		return 0, false
	}
	return uint8(*h.ReplyICMPTypecode & 0xff), true
}
