package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wndmngr/farmregistry/models"
)

// GormFarmRepository handles database operations for farms and their dependent tables
type GormFarmRepository struct {
	DB *gorm.DB
}

// NewFarmRepository creates a new farm repository bound to db (which may be a transaction)
func NewFarmRepository(db *gorm.DB) *GormFarmRepository {
	return &GormFarmRepository{DB: db}
}

// Create inserts the farm row only; associations are written by their own services
func (r *GormFarmRepository) Create(farm *models.Farm) error {
	if err := r.DB.Omit(clause.Associations).Create(farm).Error; err != nil {
		return dbError(err, "Farm with this code")
	}
	return nil
}

// GetByUUID retrieves a farm with its type
func (r *GormFarmRepository) GetByUUID(uuid string) (*models.Farm, error) {
	var farm models.Farm
	err := r.DB.Preload("FarmType").Where("uuid = ?", uuid).First(&farm).Error
	if err != nil {
		return nil, dbError(err, "Farm")
	}
	return &farm, nil
}

// GetFull retrieves a farm with every satellite record preloaded
func (r *GormFarmRepository) GetFull(uuid string) (*models.Farm, error) {
	var farm models.Farm
	err := r.DB.
		Preload("FarmType").
		Preload("Location").
		Preload("Status").
		Preload("TurbineDetails").
		Preload("Administration").
		Preload("EnvironmentalInstallation").
		Preload("OMContract").
		Preload("TCMAContract").
		Preload("Substations").
		Where("uuid = ?", uuid).
		First(&farm).Error
	if err != nil {
		return nil, dbError(err, "Farm")
	}
	return &farm, nil
}

// ListAll retrieves all farms ordered by code, preloading their type
func (r *GormFarmRepository) ListAll() ([]models.Farm, error) {
	var farms []models.Farm
	if err := r.DB.Preload("FarmType").Order("code ASC").Find(&farms).Error; err != nil {
		return nil, dbError(err, "farms")
	}
	return farms, nil
}

// Update applies a partial update; keys are column names
func (r *GormFarmRepository) Update(uuid string, fields map[string]interface{}) error {
	result := r.DB.Model(&models.Farm{}).Where("uuid = ?", uuid).Updates(fields)
	if result.Error != nil {
		if IsUniqueViolation(result.Error) {
			return dbError(result.Error, "Farm with this code")
		}
		return dbError(result.Error, "Farm")
	}
	if result.RowsAffected == 0 {
		return dbError(gorm.ErrRecordNotFound, "Farm")
	}
	return nil
}

// Delete removes the farm row and reports how many rows went away
func (r *GormFarmRepository) Delete(uuid string) (int64, error) {
	result := r.DB.Where("uuid = ?", uuid).Delete(&models.Farm{})
	if result.Error != nil {
		return 0, dbError(result.Error, "Farm")
	}
	return result.RowsAffected, nil
}

// DeleteDependents removes all rows of table whose column references the farm
func (r *GormFarmRepository) DeleteDependents(table, column, farmUUID string) (int64, error) {
	result := r.DB.Exec("DELETE FROM ? WHERE ? = ?", clause.Table{Name: table}, clause.Column{Name: column}, farmUUID)
	if result.Error != nil {
		return 0, dbError(result.Error, table)
	}
	return result.RowsAffected, nil
}

// ListTypes retrieves the farm type enumeration
func (r *GormFarmRepository) ListTypes() ([]models.FarmType, error) {
	var types []models.FarmType
	if err := r.DB.Order("id ASC").Find(&types).Error; err != nil {
		return nil, dbError(err, "farm types")
	}
	return types, nil
}

func (r *GormFarmRepository) TypeExists(id uint) (bool, error) {
	var n int64
	if err := r.DB.Model(&models.FarmType{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, dbError(err, "farm type")
	}
	return n > 0, nil
}

func (r *GormFarmRepository) CountTurbineGenerators(farmUUID string) (int64, error) {
	var n int64
	if err := r.DB.Model(&models.WindTurbineGenerator{}).Where("farm_uuid = ?", farmUUID).Count(&n).Error; err != nil {
		return 0, dbError(err, "wind turbine generators")
	}
	return n, nil
}

// RecentPerformances returns the latest yearly performances, newest first
func (r *GormFarmRepository) RecentPerformances(farmUUID string, limit int) ([]models.FarmActualPerformance, error) {
	var perfs []models.FarmActualPerformance
	err := r.DB.Where("farm_uuid = ?", farmUUID).Order("year DESC").Limit(limit).Find(&perfs).Error
	if err != nil {
		return nil, dbError(err, "farm performances")
	}
	return perfs, nil
}
