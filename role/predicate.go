package role

import (
	"errors"
	"strings"
)

type predicateKind uint8

const (
	predicateNone predicateKind = iota
	predicateAny
	predicateAnyOf
	predicateAllOf
)

// Predicate is a boolean expression over an account's granted roles. It holds
// no persistent state: evaluation is a pure function of the registry and a
// mask. The zero value is the empty predicate, which always evaluates true.
type Predicate struct {
	kind  predicateKind
	roles []string
}

// None returns the empty predicate. It evaluates true for every account and
// marks entry points that carry no role requirement.
func None() Predicate {
	return Predicate{}
}

// Any returns a predicate that holds when the account has been granted the
// named role.
func Any(name string) Predicate {
	return Predicate{kind: predicateAny, roles: []string{name}}
}

// AnyOf returns a predicate that holds when the account has been granted at
// least one of the named roles.
func AnyOf(names ...string) Predicate {
	return Predicate{kind: predicateAnyOf, roles: append([]string(nil), names...)}
}

// AllOf returns a predicate that holds when the account has been granted
// every one of the named roles.
func AllOf(names ...string) Predicate {
	return Predicate{kind: predicateAllOf, roles: append([]string(nil), names...)}
}

// IsNone reports whether the predicate is the empty predicate.
func (p Predicate) IsNone() bool {
	return p.kind == predicateNone
}

// Roles returns the role names referenced by the predicate.
func (p Predicate) Roles() []string {
	return append([]string(nil), p.roles...)
}

// Validate checks that every referenced role is registered. Called once at
// deployment by the engine builder; an unknown role is a configuration error,
// never a runtime failure.
func (p Predicate) Validate(reg *Registry) error {
	if p.kind != predicateNone && len(p.roles) == 0 {
		return errors.New("predicate references no roles")
	}
	for _, name := range p.roles {
		if _, ok := reg.Bit(name); !ok {
			return errors.New("unknown role: " + name)
		}
	}
	return nil
}

// Eval evaluates the predicate against a mask. The super-admin flag
// short-circuits every predicate to true. A nil mask is the empty bitset.
func (p Predicate) Eval(reg *Registry, m Mask) bool {
	if p.kind == predicateNone {
		return true
	}
	if m == nil {
		return false
	}
	if m.Has(reg.SuperBit()) {
		return true
	}

	switch p.kind {
	case predicateAny, predicateAnyOf:
		for _, name := range p.roles {
			bit, ok := reg.Bit(name)
			if ok && m.Has(bit) {
				return true
			}
		}
		return false
	case predicateAllOf:
		for _, name := range p.roles {
			bit, ok := reg.Bit(name)
			if !ok || !m.Has(bit) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// String renders the predicate for audit metadata, e.g. "any_of(minter,burner)".
func (p Predicate) String() string {
	switch p.kind {
	case predicateNone:
		return "none"
	case predicateAny:
		return "any(" + p.roles[0] + ")"
	case predicateAnyOf:
		return "any_of(" + strings.Join(p.roles, ",") + ")"
	case predicateAllOf:
		return "all_of(" + strings.Join(p.roles, ",") + ")"
	default:
		return "invalid"
	}
}
