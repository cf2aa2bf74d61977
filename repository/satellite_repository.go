package repository

import (
	"gorm.io/gorm"
)

// GormSatelliteRepository performs row-level operations on one-to-one satellite tables
type GormSatelliteRepository struct {
	DB *gorm.DB
}

func NewSatelliteRepository(db *gorm.DB) *GormSatelliteRepository {
	return &GormSatelliteRepository{DB: db}
}

func tableOf(db *gorm.DB, model interface{}) string {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return "satellite record"
	}
	return stmt.Schema.Table
}

// Exists reports whether the farm already has a row in the model's table
func (r *GormSatelliteRepository) Exists(model interface{}, keyColumn, farmUUID string) (bool, error) {
	var n int64
	if err := r.DB.Model(model).Where(keyColumn+" = ?", farmUUID).Count(&n).Error; err != nil {
		return false, dbError(err, tableOf(r.DB, model))
	}
	return n > 0, nil
}

// Insert creates a row from column/value pairs; unspecified columns take their database default
func (r *GormSatelliteRepository) Insert(model interface{}, fields map[string]interface{}) error {
	if err := r.DB.Model(model).Create(fields).Error; err != nil {
		return dbError(err, tableOf(r.DB, model))
	}
	return nil
}

// Update changes only the supplied columns of the farm's row
func (r *GormSatelliteRepository) Update(model interface{}, keyColumn, farmUUID string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	if err := r.DB.Model(model).Where(keyColumn+" = ?", farmUUID).Updates(fields).Error; err != nil {
		return dbError(err, tableOf(r.DB, model))
	}
	return nil
}
