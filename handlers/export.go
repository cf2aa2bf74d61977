package handlers

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/wndmngr/farmregistry/models"
	"github.com/wndmngr/farmregistry/services"
)

const (
	farmsSheet = "Farms"
	statsSheet = "Stats"
	xlsxMime   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var farmColumns = []interface{}{"Code", "SPV", "Project", "Type", "UUID"}

type ExportHandler struct {
	Farms *services.FarmService
	Log   *zap.Logger
}

func NewExportHandler(farms *services.FarmService, log *zap.Logger) *ExportHandler {
	return &ExportHandler{Farms: farms, Log: log}
}

// BuildFarmWorkbook lays the farm list out on one sheet and the registry totals on another.
func BuildFarmWorkbook(farms []models.Farm, stats models.FarmStats) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", farmsSheet); err != nil {
		return nil, err
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(farmsSheet, "A1", &farmColumns); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(farmsSheet, "A1", "E1", header); err != nil {
		return nil, err
	}
	for i, farm := range farms {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{farm.Code, farm.SPV, farm.Project, farm.TypeTitle(), farm.UUID}
		if err := f.SetSheetRow(farmsSheet, cell, &row); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(farmsSheet, "A", "D", 24); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(farmsSheet, "E", "E", 40); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(statsSheet); err != nil {
		return nil, err
	}
	rows := [][]interface{}{
		{"Total farms", stats.TotalFarms},
		{"Total turbines", stats.TotalTurbines},
		{"Total power (MW)", stats.TotalPowerMW},
	}
	for _, title := range sortedKeys(stats.ByType) {
		rows = append(rows, []interface{}{title + " farms", stats.ByType[title]})
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(statsSheet, cell, &row); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(statsSheet, "A", "A", 24); err != nil {
		return nil, err
	}
	return f, nil
}

// ExportFarms streams the registry as an xlsx workbook.
// @Router /api/farms/export [get]
func (h *ExportHandler) ExportFarms(w http.ResponseWriter, r *http.Request) {
	farms, err := h.Farms.List(r.Context())
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	stats, err := h.Farms.Stats(r.Context())
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}

	f, err := BuildFarmWorkbook(farms, stats)
	if err != nil {
		writeError(h.Log, w, r, fmt.Errorf("build workbook: %w", err))
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("farms-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", xlsxMime)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	if err := f.Write(w); err != nil {
		h.Log.Error("failed to write workbook", zap.Error(err))
	}
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
