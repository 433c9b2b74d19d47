package warts

// flagSet is the presence bitmask that prefixes every option block. Real
// records stay well under 32 flags, so a single word covers them; the spill
// slice only exists because the encoding permits unbounded growth.
type flagSet struct {
	word  uint64
	spill []uint64
}

func (f *flagSet) set(pos int) {
	if pos < 64 {
		f.word |= 1 << pos
		return
	}
	idx := pos/64 - 1
	for len(f.spill) <= idx {
		f.spill = append(f.spill, 0)
	}
	f.spill[idx] |= 1 << (pos % 64)
}

func (f flagSet) isSet(pos int) bool {
	if pos < 64 {
		return f.word&(1<<pos) != 0
	}
	idx := pos/64 - 1
	if idx >= len(f.spill) {
		return false
	}
	return f.spill[idx]&(1<<(pos%64)) != 0
}

func (f flagSet) empty() bool {
	if f.word != 0 {
		return false
	}
	for _, w := range f.spill {
		if w != 0 {
			return false
		}
	}
	return true
}

// flags reads the variable-length presence bitmask. Each byte contributes
// its low 7 bits at bit offset 0, 7, 14, ... and the high bit marks
// continuation; the terminating byte (high bit clear) contributes all 8
// bits at its position. See warts(5) for the encoding.
func (c *cursor) flags() (flagSet, error) {
	var set flagSet
	pos := 0
	for {
		b, err := c.uint8()
		if err != nil {
			return flagSet{}, err
		}
		for i := 0; i < 7; i++ {
			if b&(1<<i) != 0 {
				set.set(pos + i)
			}
		}
		if b&0x80 == 0 {
			return set, nil
		}
		pos += 7
	}
}
