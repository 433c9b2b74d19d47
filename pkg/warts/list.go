package warts

import "fmt"

// List describes a measurement list: a named set of probe targets.
type List struct {
	AutoID      uint32  `json:"auto_id"`
	ManualID    uint32  `json:"manual_id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	MonitorName *string `json:"monitor_name,omitempty"`
}

func (l *List) Type() uint16 { return TypeList }

func (l *List) String() string {
	return fmt.Sprintf("List(name=%q, auto_id=%d, manual_id=%d)", l.Name, l.AutoID, l.ManualID)
}

func (l *List) optionTable() []optField {
	return []optField{
		{name: "description", parse: setString(&l.Description)},   // Bit 0
		{name: "monitor_name", parse: setString(&l.MonitorName)},  // Bit 1
	}
}

func decodeList(c *cursor) (Record, error) {
	l := &List{}
	var err error
	if l.AutoID, err = c.uint32(); err != nil {
		return nil, err
	}
	if l.ManualID, err = c.uint32(); err != nil {
		return nil, err
	}
	if l.Name, err = c.cstring(); err != nil {
		return nil, err
	}
	if err := readOptions(c, l.optionTable()); err != nil {
		return nil, err
	}
	return l, nil
}
