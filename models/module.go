package models

import "fmt"

// ModuleKind identifies the application module an event or notification
// originates from. The numeric codes are stored on notification rows.
type ModuleKind string

const (
	ModuleMaterial         ModuleKind = "Material"
	ModuleMaterialCategory ModuleKind = "Material Category"
	ModuleProject          ModuleKind = "Project"
	ModuleProjectTask      ModuleKind = "Project Task"
	ModuleRequirement      ModuleKind = "Project Material Requirement"
	ModuleSupplier         ModuleKind = "Supplier"
	ModuleUser             ModuleKind = "User"
)

var moduleIDs = map[ModuleKind]int{
	ModuleMaterial:         2,
	ModuleMaterialCategory: 3,
	ModuleProject:          4,
	ModuleProjectTask:      5,
	ModuleRequirement:      6,
	ModuleSupplier:         7,
	ModuleUser:             8,
}

// ModuleRoleInterest maps each module to the roles notified about its
// lifecycle events: master-data changes interest admins, project-level
// changes interest project managers, and requirement changes interest
// project managers and supervisors.
var ModuleRoleInterest = map[ModuleKind][]string{
	ModuleMaterial:         {RoleAdmin},
	ModuleMaterialCategory: {RoleAdmin},
	ModuleSupplier:         {RoleAdmin},
	ModuleUser:             {RoleAdmin},
	ModuleProject:          {RolePM},
	ModuleProjectTask:      {RolePM},
	ModuleRequirement:      {RolePM, RoleSupervisor},
}

// ID returns the numeric module code, or 0 for an unknown module.
func (m ModuleKind) ID() int {
	return moduleIDs[m]
}

// ValidateModuleRoles checks at startup that every module has a numeric
// code and a non-empty role audience of known roles, so a typo in the
// static tables fails fast instead of silently dropping notifications.
func ValidateModuleRoles() error {
	known := map[string]bool{RoleAdmin: true, RolePM: true, RoleSupervisor: true}

	for module, id := range moduleIDs {
		if id <= 0 {
			return fmt.Errorf("module %q has invalid id %d", module, id)
		}
		roles, ok := ModuleRoleInterest[module]
		if !ok || len(roles) == 0 {
			return fmt.Errorf("module %q has no interested roles", module)
		}
		for _, r := range roles {
			if !known[r] {
				return fmt.Errorf("module %q references unknown role %q", module, r)
			}
		}
	}
	for module := range ModuleRoleInterest {
		if _, ok := moduleIDs[module]; !ok {
			return fmt.Errorf("module %q has roles but no id", module)
		}
	}
	return nil
}
