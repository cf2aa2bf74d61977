package repository

import (
	"fmt"
	"math"

	"gorm.io/gorm"

	"github.com/wndmngr/farmregistry/database"
	"github.com/wndmngr/farmregistry/models"
)

type GormStatsRepository struct {
	DB *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *GormStatsRepository {
	return &GormStatsRepository{DB: db}
}

type typeCountRow struct {
	TypeTitle string
	Total     int64
}

type turbineTotalsRow struct {
	Turbines int64
	PowerMW  float64
}

// Global counts farms per type and sums the turbine details of every farm
func (r *GormStatsRepository) Global() (models.FarmStats, error) {
	builder := database.StatementBuilder(r.DB)
	stats := models.FarmStats{ByType: map[string]int64{}}

	byTypeSQL, args, err := builder.
		Select("COALESCE(ft.type_title, 'Unknown') AS type_title", "COUNT(*) AS total").
		From("farms f").
		LeftJoin("farm_types ft ON ft.id = f.farm_type_id").
		GroupBy("ft.type_title").
		ToSql()
	if err != nil {
		return stats, fmt.Errorf("failed to build SQL for farm type counts: %w", err)
	}
	var counts []typeCountRow
	if err := r.DB.Raw(byTypeSQL, args...).Scan(&counts).Error; err != nil {
		return stats, dbError(err, "farm statistics")
	}
	for _, c := range counts {
		stats.ByType[c.TypeTitle] += c.Total
		stats.TotalFarms += c.Total
	}

	totalsSQL, args, err := builder.
		Select("COALESCE(SUM(turbine_count), 0) AS turbines", "COALESCE(SUM(total_mmw), 0) AS power_mw").
		From("farm_turbine_details").
		ToSql()
	if err != nil {
		return stats, fmt.Errorf("failed to build SQL for turbine totals: %w", err)
	}
	var totals turbineTotalsRow
	if err := r.DB.Raw(totalsSQL, args...).Scan(&totals).Error; err != nil {
		return stats, dbError(err, "turbine statistics")
	}
	stats.TotalTurbines = totals.Turbines
	stats.TotalPowerMW = math.Round(totals.PowerMW*100) / 100

	return stats, nil
}
