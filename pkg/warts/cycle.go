package warts

import "fmt"

// CycleStart marks the beginning of one pass over a measurement list.
type CycleStart struct {
	AutoID    uint32  `json:"auto_id"`
	ListID    uint32  `json:"list_id"`
	ManualID  uint32  `json:"manual_id"`
	StartTime uint32  `json:"start_time"`
	StopTime  *uint32 `json:"stop_time,omitempty"`
	Hostname  *string `json:"hostname,omitempty"`
}

func (s *CycleStart) Type() uint16 { return TypeCycleStart }

func (s *CycleStart) String() string {
	return fmt.Sprintf("CycleStart(auto_id=%d, manual_id=%d)", s.AutoID, s.ManualID)
}

func (s *CycleStart) optionTable() []optField {
	return []optField{
		{name: "stop_time", parse: setU32(&s.StopTime)},  // Bit 0
		{name: "hostname", parse: setString(&s.Hostname)}, // Bit 1
	}
}

func (s *CycleStart) decode(c *cursor) error {
	var err error
	if s.AutoID, err = c.uint32(); err != nil {
		return err
	}
	if s.ListID, err = c.uint32(); err != nil {
		return err
	}
	if s.ManualID, err = c.uint32(); err != nil {
		return err
	}
	if s.StartTime, err = c.uint32(); err != nil {
		return err
	}
	return readOptions(c, s.optionTable())
}

func decodeCycleStart(c *cursor) (Record, error) {
	s := &CycleStart{}
	if err := s.decode(c); err != nil {
		return nil, err
	}
	return s, nil
}

// CycleDefinition has the same wire layout as CycleStart under its own type
// code. It is a format alias, not a behavioral difference.
type CycleDefinition struct {
	CycleStart
}

func (d *CycleDefinition) Type() uint16 { return TypeCycleDefinition }

func (d *CycleDefinition) String() string {
	return fmt.Sprintf("CycleDefinition(auto_id=%d, manual_id=%d)", d.AutoID, d.ManualID)
}

func decodeCycleDefinition(c *cursor) (Record, error) {
	d := &CycleDefinition{}
	if err := d.decode(c); err != nil {
		return nil, err
	}
	return d, nil
}

// CycleStop marks the end of a cycle. It carries no option table.
type CycleStop struct {
	CycleID  uint32 `json:"cycle_id"`
	StopTime uint32 `json:"stop_time"`
}

func (s *CycleStop) Type() uint16 { return TypeCycleStop }

func (s *CycleStop) String() string {
	return fmt.Sprintf("CycleStop(cycle_id=%d, stop_time=%d)", s.CycleID, s.StopTime)
}

func decodeCycleStop(c *cursor) (Record, error) {
	s := &CycleStop{}
	var err error
	if s.CycleID, err = c.uint32(); err != nil {
		return nil, err
	}
	if s.StopTime, err = c.uint32(); err != nil {
		return nil, err
	}
	return s, nil
}
