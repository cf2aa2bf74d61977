package repository

import (
	"github.com/wndmngr/farmregistry/models"
)

// FarmRepository defines the methods for farm data operations
type FarmRepository interface {
	Create(farm *models.Farm) error
	GetByUUID(uuid string) (*models.Farm, error)
	GetFull(uuid string) (*models.Farm, error)
	ListAll() ([]models.Farm, error)
	Update(uuid string, fields map[string]interface{}) error
	Delete(uuid string) (int64, error)
	DeleteDependents(table, column, farmUUID string) (int64, error)

	ListTypes() ([]models.FarmType, error)
	TypeExists(id uint) (bool, error)

	CountTurbineGenerators(farmUUID string) (int64, error)
	RecentPerformances(farmUUID string, limit int) ([]models.FarmActualPerformance, error)
}

// SatelliteRepository defines the row primitives for one-to-one satellite tables.
// model is a pointer to the satellite struct, e.g. &models.FarmLocation{}.
type SatelliteRepository interface {
	Exists(model interface{}, keyColumn, farmUUID string) (bool, error)
	Insert(model interface{}, fields map[string]interface{}) error
	Update(model interface{}, keyColumn, farmUUID string, fields map[string]interface{}) error
}

// ReferentRepository defines the methods for persons, companies, their roles and farm assignments
type ReferentRepository interface {
	RoleIDByName(kind models.TargetKind, roleName string) (uint, error)
	ListPersonRoles() ([]models.PersonRole, error)
	ListCompanyRoles() ([]models.CompanyRole, error)

	CreatePerson(person *models.Person) error
	CreateCompany(company *models.Company) error
	ListPersons() ([]models.Person, error)
	ListCompanies() ([]models.Company, error)
	TargetExists(target models.Target) (bool, error)

	FindAssignment(farmUUID string, kind models.TargetKind, roleID uint) (*models.FarmReferent, error)
	CreateAssignment(assignment *models.FarmReferent) error
	UpdateAssignmentTarget(assignmentUUID, targetUUID string) error
	DeleteAssignment(assignmentUUID string) error
	ListDisplayByFarm(farmUUID string) ([]models.ReferentDisplay, error)
}

// StatsRepository defines the registry-wide aggregate queries
type StatsRepository interface {
	Global() (models.FarmStats, error)
}
