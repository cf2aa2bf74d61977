package handlers

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/wndmngr/farmregistry/models"
	"github.com/wndmngr/farmregistry/services"
)

type FarmHandler struct {
	Farms *services.FarmService
	Log   *zap.Logger
}

func NewFarmHandler(farms *services.FarmService, log *zap.Logger) *FarmHandler {
	return &FarmHandler{Farms: farms, Log: log}
}

// FarmListItem is a farm row of the registry list.
type FarmListItem struct {
	UUID       string `json:"uuid"`
	Code       string `json:"code"`
	SPV        string `json:"spv"`
	Project    string `json:"project"`
	FarmTypeID uint   `json:"farm_type_id"`
	FarmType   string `json:"farm_type"`
}

func toFarmListItem(f models.Farm) FarmListItem {
	return FarmListItem{
		UUID:       f.UUID,
		Code:       f.Code,
		SPV:        f.SPV,
		Project:    f.Project,
		FarmTypeID: f.FarmTypeID,
		FarmType:   f.TypeTitle(),
	}
}

// ListFarms returns every farm ordered by code.
// @Router /api/farms [get]
func (h *FarmHandler) ListFarms(w http.ResponseWriter, r *http.Request) {
	farms, err := h.Farms.List(r.Context())
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	items := make([]FarmListItem, len(farms))
	for i, f := range farms {
		items[i] = toFarmListItem(f)
	}
	writeJSON(h.Log, w, http.StatusOK, items)
}

// CreateFarm registers a farm. A duplicate code answers 409.
// @Router /api/farms [post]
func (h *FarmHandler) CreateFarm(w http.ResponseWriter, r *http.Request) {
	var payload services.FarmInput
	if err := decodeJSON(r, &payload); err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	farm, err := h.Farms.Create(r.Context(), payload)
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	writeJSON(h.Log, w, http.StatusCreated, farm)
}

// GetFarm returns the farm with every satellite record.
// @Router /api/farms/{uuid} [get]
func (h *FarmHandler) GetFarm(w http.ResponseWriter, r *http.Request) {
	farm, err := h.Farms.Full(r.Context(), FarmFromContext(r.Context()).UUID)
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	writeJSON(h.Log, w, http.StatusOK, farm)
}

// PatchFarm updates spv, project or farm type.
// @Router /api/farms/{uuid} [patch]
func (h *FarmHandler) PatchFarm(w http.ResponseWriter, r *http.Request) {
	var payload services.FarmPatch
	if err := decodeJSON(r, &payload); err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	if err := h.Farms.Patch(r.Context(), FarmFromContext(r.Context()), payload); err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	writeSuccess(h.Log, w)
}

// ReplaceFarm overwrites all farm attributes (legacy PUT).
// @Router /api/farms/{uuid} [put]
func (h *FarmHandler) ReplaceFarm(w http.ResponseWriter, r *http.Request) {
	var payload services.FarmInput
	if err := decodeJSON(r, &payload); err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	farm, err := h.Farms.Replace(r.Context(), FarmFromContext(r.Context()), payload)
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	writeJSON(h.Log, w, http.StatusOK, farm)
}

// DeleteFarmResponse confirms a cascade delete.
type DeleteFarmResponse struct {
	Message string                 `json:"message"`
	Report  *services.DeleteReport `json:"report"`
}

// DeleteFarm removes the farm and all dependent records.
// @Router /api/farms/{uuid} [delete]
func (h *FarmHandler) DeleteFarm(w http.ResponseWriter, r *http.Request) {
	report, err := h.Farms.Delete(r.Context(), FarmFromContext(r.Context()).UUID)
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	writeJSON(h.Log, w, http.StatusOK, DeleteFarmResponse{Message: fmt.Sprintf("Farm %s deleted successfully", report.FarmCode), Report: report})
}

// GetSummary returns the aggregated dashboard view of one farm.
// @Router /api/farms/{uuid}/summary [get]
func (h *FarmHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Farms.Summary(r.Context(), FarmFromContext(r.Context()).UUID)
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	writeJSON(h.Log, w, http.StatusOK, summary)
}

// GetStats returns registry-wide totals.
// @Router /api/farms/stats [get]
func (h *FarmHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Farms.Stats(r.Context())
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	writeJSON(h.Log, w, http.StatusOK, stats)
}

// ListFarmTypes returns the farm type enumeration.
// @Router /api/farm-types [get]
func (h *FarmHandler) ListFarmTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.Farms.ListTypes(r.Context())
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	writeJSON(h.Log, w, http.StatusOK, types)
}
