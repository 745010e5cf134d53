package role

import (
	"encoding/binary"
	"errors"
)

// EncodeMask serializes a mask into its big-endian persistent form: 8 bytes
// for [Mask64], 16 bytes for [Mask128]. The state store writes this exact
// layout and the store-side scripts manipulate it byte for byte, so the
// encoding is part of the storage contract and must not change.
func EncodeMask(mask Mask) ([]byte, error) {
	switch m := mask.(type) {
	case *Mask64:
		out := make([]byte, 8)
		binary.BigEndian.PutUint64(out, uint64(*m))
		return out, nil
	case *Mask128:
		out := make([]byte, 16)
		binary.BigEndian.PutUint64(out[0:8], m.A)
		binary.BigEndian.PutUint64(out[8:16], m.B)
		return out, nil
	default:
		return nil, errors.New("invalid mask type")
	}
}

// DecodeMask deserializes a persistent mask blob. The width is inferred from
// the blob length.
func DecodeMask(data []byte) (Mask, error) {
	switch len(data) {
	case 8:
		m := Mask64(binary.BigEndian.Uint64(data))
		return &m, nil
	case 16:
		return &Mask128{
			A: binary.BigEndian.Uint64(data[0:8]),
			B: binary.BigEndian.Uint64(data[8:16]),
		}, nil
	default:
		return nil, errors.New("invalid mask size")
	}
}
