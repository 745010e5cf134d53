package role

// Mask128 is a 128-bit role bitset supporting up to 63 declared roles plus the
// reserved super-admin flag.
type Mask128 struct {
	A uint64
	B uint64
}

func (m *Mask128) Has(bit int) bool {
	if bit < 0 || bit >= 128 {
		return false
	}

	if bit < 64 {
		return (m.A & (1 << bit)) != 0
	}

	return (m.B & (1 << (bit - 64))) != 0
}

func (m *Mask128) Set(bit int) {
	if bit < 0 || bit >= 128 {
		return
	}

	if bit < 64 {
		m.A |= (1 << bit)
	} else {
		m.B |= (1 << (bit - 64))
	}
}

func (m *Mask128) Clear(bit int) {
	if bit < 0 || bit >= 128 {
		return
	}

	if bit < 64 {
		m.A &^= (1 << bit)
	} else {
		m.B &^= (1 << (bit - 64))
	}
}

func (m *Mask128) IsZero() bool {
	return m.A == 0 && m.B == 0
}

func (m *Mask128) Width() int {
	return 128
}
