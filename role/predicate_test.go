package role

import "testing"

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()

	reg, err := NewRegistry(64)
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	for _, name := range []string{"minter", "burner", "oracle"} {
		if _, err := reg.Register(name); err != nil {
			t.Fatalf("Register %s failed: %v", name, err)
		}
	}
	reg.Freeze()
	return reg
}

func maskWithRoles(t *testing.T, reg *Registry, names ...string) Mask {
	t.Helper()

	m := reg.NewMask()
	for _, name := range names {
		bit, ok := reg.Bit(name)
		if !ok {
			t.Fatalf("role %s not registered", name)
		}
		m.Set(bit)
	}
	return m
}

func TestPredicateNoneAlwaysTrue(t *testing.T) {
	reg := newTestRegistry(t)

	if !None().Eval(reg, nil) {
		t.Fatal("none predicate must pass a nil mask")
	}
	if !None().Eval(reg, reg.NewMask()) {
		t.Fatal("none predicate must pass an empty mask")
	}
	if !None().IsNone() {
		t.Fatal("IsNone must report true for None()")
	}
}

func TestPredicateNilMaskDenied(t *testing.T) {
	reg := newTestRegistry(t)

	if Any("minter").Eval(reg, nil) {
		t.Fatal("nil mask must fail a role predicate")
	}
}

func TestPredicateAnyOf(t *testing.T) {
	reg := newTestRegistry(t)
	m := maskWithRoles(t, reg, "burner")

	if !AnyOf("minter", "burner").Eval(reg, m) {
		t.Fatal("expected any_of(minter,burner) to pass with burner")
	}
	if AnyOf("minter", "oracle").Eval(reg, m) {
		t.Fatal("expected any_of(minter,oracle) to fail with only burner")
	}
}

func TestPredicateAllOf(t *testing.T) {
	reg := newTestRegistry(t)

	both := maskWithRoles(t, reg, "minter", "burner")
	if !AllOf("minter", "burner").Eval(reg, both) {
		t.Fatal("expected all_of to pass when both roles held")
	}

	one := maskWithRoles(t, reg, "minter")
	if AllOf("minter", "burner").Eval(reg, one) {
		t.Fatal("expected all_of to fail with a missing role")
	}
}

func TestPredicateSuperAdminBypass(t *testing.T) {
	reg := newTestRegistry(t)

	m := reg.NewMask()
	m.Set(reg.SuperBit())

	if !Any("minter").Eval(reg, m) {
		t.Fatal("super-admin flag must satisfy any()")
	}
	if !AllOf("minter", "burner", "oracle").Eval(reg, m) {
		t.Fatal("super-admin flag must satisfy all_of()")
	}
}

func TestPredicateValidateUnknownRole(t *testing.T) {
	reg := newTestRegistry(t)

	if err := Any("minter").Validate(reg); err != nil {
		t.Fatalf("expected minter to validate, got %v", err)
	}
	if err := Any("ghost").Validate(reg); err == nil {
		t.Fatal("expected unknown role to fail validation")
	}
	if err := AllOf("minter", "ghost").Validate(reg); err == nil {
		t.Fatal("expected all_of with unknown role to fail validation")
	}
	if err := None().Validate(reg); err != nil {
		t.Fatalf("none predicate must always validate, got %v", err)
	}
}

func TestPredicateString(t *testing.T) {
	cases := []struct {
		pred Predicate
		want string
	}{
		{None(), "none"},
		{Any("minter"), "any(minter)"},
		{AnyOf("minter", "burner"), "any_of(minter,burner)"},
		{AllOf("minter", "oracle"), "all_of(minter,oracle)"},
	}
	for _, tc := range cases {
		if got := tc.pred.String(); got != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, got)
		}
	}
}
