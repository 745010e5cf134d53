package role

import "testing"

func TestRegistryAssignsBitPairs(t *testing.T) {
	reg, err := NewRegistry(64)
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	minter, err := reg.Register("minter")
	if err != nil {
		t.Fatalf("Register minter failed: %v", err)
	}
	if minter != 0 {
		t.Fatalf("expected grantee bit 0, got %d", minter)
	}

	burner, err := reg.Register("burner")
	if err != nil {
		t.Fatalf("Register burner failed: %v", err)
	}
	if burner != 2 {
		t.Fatalf("expected grantee bit 2, got %d", burner)
	}

	admin, ok := reg.AdminBit("minter")
	if !ok || admin != 1 {
		t.Fatalf("expected admin bit 1, got %d ok=%v", admin, ok)
	}

	name, ok := reg.Name(2)
	if !ok || name != "burner" {
		t.Fatalf("expected burner for bit 2, got %q ok=%v", name, ok)
	}
}

func TestRegistryInvalidWidth(t *testing.T) {
	if _, err := NewRegistry(32); err == nil {
		t.Fatal("expected error for width 32")
	}
	if _, err := NewRegistry(96); err == nil {
		t.Fatal("expected error for width 96")
	}
}

func TestRegistryRejectsDuplicateAndEmpty(t *testing.T) {
	reg, err := NewRegistry(64)
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	if _, err := reg.Register("minter"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := reg.Register("minter"); err == nil {
		t.Fatal("expected duplicate registration error")
	}
	if _, err := reg.Register(""); err == nil {
		t.Fatal("expected empty name error")
	}
}

func TestRegistryFrozenRejectsRegistration(t *testing.T) {
	reg, err := NewRegistry(64)
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	reg.Freeze()

	if _, err := reg.Register("minter"); err == nil {
		t.Fatal("expected registration after freeze to fail")
	}
}

func TestRegistrySuperBitNeverAssigned(t *testing.T) {
	reg, err := NewRegistry(64)
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	if reg.SuperBit() != 63 {
		t.Fatalf("expected super bit 63, got %d", reg.SuperBit())
	}

	// Bit pairs occupy 0..61; bit 62 would collide with the reserved
	// admin slot of a 32nd role, bit 63 is the super-admin flag.
	registered := 0
	for i := 0; i < 64; i++ {
		name := "role-" + string(rune('a'+i%26)) + string(rune('0'+i/26))
		bit, err := reg.Register(name)
		if err != nil {
			break
		}
		if bit+1 >= reg.SuperBit() {
			t.Fatalf("role pair %d/%d overlaps super bit", bit, bit+1)
		}
		registered++
	}
	if registered != 31 {
		t.Fatalf("expected 31 roles to fit in 64-bit mask, got %d", registered)
	}
}

func TestRegistryNamesPreservesOrder(t *testing.T) {
	reg, err := NewRegistry(128)
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	want := []string{"minter", "burner", "pause-manager"}
	for _, name := range want {
		if _, err := reg.Register(name); err != nil {
			t.Fatalf("Register %s failed: %v", name, err)
		}
	}

	got := reg.Names()
	if len(got) != len(want) {
		t.Fatalf("expected %d names, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %s at index %d, got %s", want[i], i, got[i])
		}
	}
	if reg.Count() != 3 {
		t.Fatalf("expected count 3, got %d", reg.Count())
	}
}
