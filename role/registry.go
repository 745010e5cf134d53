package role

import (
	"errors"
	"sync"
)

// Registry maps role names to bit positions within a bitset. Supports widths
// of 64 or 128 bits.
//
// Every registered role consumes a pair of bits: the grantee bit (accounts
// holding the role) and the admin bit (accounts allowed to grant and revoke
// the role). The highest bit of the mask is always reserved for the
// super-admin flag, which bypasses predicate evaluation entirely.
//
// The table is fixed at deployment: roles are registered during engine
// construction and the registry is frozen before any runtime check runs.
type Registry struct {
	maxBits int

	mu        sync.RWMutex
	nameToBit map[string]int
	bitToName map[int]string
	names     []string
	frozen    bool
}

// NewRegistry creates a role [Registry] that maps role names to bit pairs.
// maxBits selects the mask width (64 or 128).
func NewRegistry(maxBits int) (*Registry, error) {
	if maxBits != 64 && maxBits != 128 {
		return nil, errors.New("invalid maxBits")
	}

	return &Registry{
		maxBits:   maxBits,
		nameToBit: make(map[string]int),
		bitToName: make(map[int]string),
	}, nil
}

// Register assigns the next available bit pair to the named role and returns
// the grantee bit index. The paired admin bit is always granteeBit+1. Must be
// called before [Registry.Freeze].
func (r *Registry) Register(name string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return -1, errors.New("registry frozen")
	}

	if name == "" {
		return -1, errors.New("role name cannot be empty")
	}

	if _, exists := r.nameToBit[name]; exists {
		return -1, errors.New("role already registered")
	}

	granteeBit := len(r.names) * 2

	// granteeBit+1 is the admin bit; the super-admin bit sits at maxBits-1.
	if granteeBit+1 >= r.maxBits-1 {
		return -1, errors.New("role limit exceeded (super-admin bit reserved)")
	}

	r.nameToBit[name] = granteeBit
	r.bitToName[granteeBit] = name
	r.names = append(r.names, name)

	return granteeBit, nil
}

// Bit returns the grantee bit index for the named role, or false if not
// registered.
func (r *Registry) Bit(name string) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bit, ok := r.nameToBit[name]
	return bit, ok
}

// AdminBit returns the admin bit index for the named role, or false if not
// registered.
func (r *Registry) AdminBit(name string) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bit, ok := r.nameToBit[name]
	if !ok {
		return -1, false
	}
	return bit + 1, true
}

// Name returns the role name for the given grantee bit index, or false if
// unassigned or not a grantee bit.
func (r *Registry) Name(bit int) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.bitToName[bit]
	return name, ok
}

// SuperBit returns the reserved super-admin bit index.
func (r *Registry) SuperBit() int {
	return r.maxBits - 1
}

// MaxBits returns the mask width of the registry.
func (r *Registry) MaxBits() int {
	return r.maxBits
}

// NewMask returns a zero mask matching the registry width.
func (r *Registry) NewMask() Mask {
	return NewMask(r.maxBits)
}

// Names returns the registered role names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Freeze prevents further registrations. Must be called before the registry
// is used for authorization checks.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Count returns the number of registered roles.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.names)
}
