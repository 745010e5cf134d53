package role

// Mask64 is a 64-bit role bitset supporting up to 31 declared roles plus the
// reserved super-admin flag.
type Mask64 uint64

func (m *Mask64) Has(bit int) bool {
	if bit < 0 || bit >= 64 {
		return false
	}
	return (*m & (1 << bit)) != 0
}

func (m *Mask64) Set(bit int) {
	if bit < 0 || bit >= 64 {
		return
	}
	*m |= (1 << bit)
}

func (m *Mask64) Clear(bit int) {
	if bit < 0 || bit >= 64 {
		return
	}
	*m &^= (1 << bit)
}

func (m *Mask64) IsZero() bool {
	return *m == 0
}

func (m *Mask64) Width() int {
	return 64
}

func (m *Mask64) Raw() uint64 {
	return uint64(*m)
}
