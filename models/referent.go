package models

import "strings"

// Person is a referent that can be linked to farms under a person role.
type Person struct {
	UUID      string `gorm:"column:uuid;primaryKey;size:36" json:"uuid"`
	FirstName string `gorm:"column:first_name;not null" json:"first_name"`
	LastName  string `gorm:"column:last_name;not null" json:"last_name"`
}

func (Person) TableName() string { return "persons" }

func (p Person) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Company is linked to farms under a company role (O&M provider, grid operator...).
type Company struct {
	UUID string `gorm:"column:uuid;primaryKey;size:36" json:"uuid"`
	Name string `gorm:"column:name;not null" json:"name"`
}

func (Company) TableName() string { return "companies" }

type PersonRole struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	RoleName string `gorm:"column:role_name;uniqueIndex;not null" json:"role_name"`
}

func (PersonRole) TableName() string { return "person_roles" }

type CompanyRole struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	RoleName string `gorm:"column:role_name;uniqueIndex;not null" json:"role_name"`
}

func (CompanyRole) TableName() string { return "company_roles" }

// TargetKind tags which entity an assignment points at.
type TargetKind string

const (
	TargetPerson  TargetKind = "person"
	TargetCompany TargetKind = "company"
)

func (k TargetKind) Valid() bool {
	return k == TargetPerson || k == TargetCompany
}

// Target is either a Person or a Company, identified by uuid.
type Target struct {
	Kind TargetKind `json:"kind"`
	UUID string     `json:"uuid"`
}

func PersonTarget(uuid string) Target  { return Target{Kind: TargetPerson, UUID: uuid} }
func CompanyTarget(uuid string) Target { return Target{Kind: TargetCompany, UUID: uuid} }

// FarmReferent assigns a target to a farm under a role. RoleID points into person_roles or
// company_roles depending on TargetKind. A farm holds at most one row per (kind, role).
type FarmReferent struct {
	UUID       string     `gorm:"column:uuid;primaryKey;size:36" json:"uuid"`
	FarmUUID   string     `gorm:"column:farm_uuid;not null;size:36;uniqueIndex:idx_farm_referent_role" json:"farm_uuid"`
	FarmCode   string     `gorm:"column:farm_code" json:"farm_code"`
	TargetKind TargetKind `gorm:"column:target_kind;not null;size:16;uniqueIndex:idx_farm_referent_role" json:"target_kind"`
	RoleID     uint       `gorm:"column:role_id;not null;uniqueIndex:idx_farm_referent_role" json:"role_id"`
	TargetUUID string     `gorm:"column:target_uuid;not null;size:36" json:"target_uuid"`
}

func (FarmReferent) TableName() string { return "farm_referents" }

func (r FarmReferent) Target() Target {
	return Target{Kind: r.TargetKind, UUID: r.TargetUUID}
}

// ReferentDisplay is the read model listed on the farm dashboard.
type ReferentDisplay struct {
	ReferentName string     `json:"referent_name"`
	Role         string     `json:"role"`
	RoleID       uint       `json:"role_id"`
	Kind         TargetKind `json:"kind"`
	TargetUUID   string     `json:"target_uuid"`
}
