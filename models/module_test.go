package models

import "testing"

func TestValidateModuleRoles(t *testing.T) {
	if err := ValidateModuleRoles(); err != nil {
		t.Fatalf("static module tables are inconsistent: %v", err)
	}
}

func TestModuleIDsAreStable(t *testing.T) {
	// The numeric codes are persisted on notification rows; changing
	// them silently would corrupt historical data.
	want := map[ModuleKind]int{
		ModuleMaterial:         2,
		ModuleMaterialCategory: 3,
		ModuleProject:          4,
		ModuleProjectTask:      5,
		ModuleRequirement:      6,
		ModuleSupplier:         7,
		ModuleUser:             8,
	}
	for module, id := range want {
		if got := module.ID(); got != id {
			t.Errorf("%s.ID() = %d, want %d", module, got, id)
		}
	}
	if got := ModuleKind("Unknown").ID(); got != 0 {
		t.Errorf("unknown module ID = %d, want 0", got)
	}
}

func TestValidRequirementStatus(t *testing.T) {
	for _, s := range []RequirementStatus{StatusPending, StatusApproved, StatusOrdered, StatusDelivered, StatusRejected} {
		if !ValidRequirementStatus(s) {
			t.Errorf("ValidRequirementStatus(%q) = false, want true", s)
		}
	}
	for _, s := range []RequirementStatus{"", "pending", "Shipped"} {
		if ValidRequirementStatus(s) {
			t.Errorf("ValidRequirementStatus(%q) = true, want false", s)
		}
	}
}

func TestValidRatingScore(t *testing.T) {
	for _, s := range []float64{1, 2, 3, 4, 5} {
		if !ValidRatingScore(s) {
			t.Errorf("ValidRatingScore(%v) = false, want true", s)
		}
	}
	for _, s := range []float64{0, 0.5, 3.5, 5.1, -1} {
		if ValidRatingScore(s) {
			t.Errorf("ValidRatingScore(%v) = true, want false", s)
		}
	}
}
