package database

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wndmngr/farmregistry/models"
)

// DefaultPersonRoles and DefaultCompanyRoles are seeded so referent assignment works on a fresh database.
var (
	DefaultPersonRoles = []string{
		"Asset Manager",
		"Technical Manager",
		"Electrical Manager",
		"Administrative Manager",
		"Field Crew Manager",
	}
	DefaultCompanyRoles = []string{
		"O&M Provider",
		"Grid Operator",
		"Substation Maintenance",
		"Owner",
	}
)

// AutoMigrateModels creates or updates every table this service reads or writes.
func AutoMigrateModels(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.FarmType{},
		&models.Farm{},
		&models.FarmLocation{},
		&models.FarmStatus{},
		&models.FarmTurbineDetail{},
		&models.FarmAdministration{},
		&models.FarmEnvironmentalInstallation{},
		&models.FarmOMContract{},
		&models.FarmTCMAContract{},
		&models.FarmActualPerformance{},
		&models.Substation{},
		&models.WindTurbineGenerator{},
		&models.Person{},
		&models.Company{},
		&models.PersonRole{},
		&models.CompanyRole{},
		&models.FarmReferent{},
	)
	if err != nil {
		return fmt.Errorf("GORM AutoMigrate failed: %w", err)
	}
	return nil
}

// Seed inserts the farm types and default roles. Existing rows are left alone.
func Seed(db *gorm.DB) error {
	farmTypes := []models.FarmType{
		{ID: models.FarmTypeWind, TypeTitle: "Wind"},
		{ID: models.FarmTypeSolar, TypeTitle: "Solar"},
		{ID: models.FarmTypeHybrid, TypeTitle: "Hybrid"},
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&farmTypes).Error; err != nil {
		return fmt.Errorf("failed to seed farm types: %w", err)
	}

	for _, name := range DefaultPersonRoles {
		role := models.PersonRole{RoleName: name}
		if err := db.Where(models.PersonRole{RoleName: name}).FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("failed to seed person role %s: %w", name, err)
		}
	}
	for _, name := range DefaultCompanyRoles {
		role := models.CompanyRole{RoleName: name}
		if err := db.Where(models.CompanyRole{RoleName: name}).FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("failed to seed company role %s: %w", name, err)
		}
	}
	return nil
}
