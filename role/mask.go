package role

// Mask is the interface satisfied by both bitset widths ([Mask64] and
// [Mask128]). Bit i set means the capability at bit index i is granted.
type Mask interface {
	Has(bit int) bool
	Set(bit int)
	Clear(bit int)
	IsZero() bool
	Width() int
}

// NewMask returns a zero mask of the given width (64 or 128), or nil for any
// other width.
func NewMask(width int) Mask {
	switch width {
	case 64:
		m := Mask64(0)
		return &m
	case 128:
		return &Mask128{}
	default:
		return nil
	}
}
