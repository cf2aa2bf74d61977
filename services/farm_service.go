package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wndmngr/farmregistry/apperrors"
	"github.com/wndmngr/farmregistry/metrics"
	"github.com/wndmngr/farmregistry/models"
	"github.com/wndmngr/farmregistry/realtime"
	"github.com/wndmngr/farmregistry/repository"
)

// recentPerformanceLimit is how many yearly performances the summary carries.
const recentPerformanceLimit = 5

// cascadeStep names a dependent table and the column that references the farm.
type cascadeStep struct {
	Table  string
	Column string
}

// cascadeOrder is the fixed removal order for a farm's dependents. The first four tables
// share the farm's key space; the rest reference it through farm_uuid.
var cascadeOrder = []cascadeStep{
	{"farm_locations", "uuid"},
	{"farm_statuses", "uuid"},
	{"farm_turbine_details", "uuid"},
	{"farm_administrations", "uuid"},
	{"farm_actual_performances", "farm_uuid"},
	{"substations", "farm_uuid"},
	{"wind_turbine_generators", "farm_uuid"},
	{"farm_environmental_installations", "farm_uuid"},
	{"farm_om_contracts", "farm_uuid"},
	{"farm_tcma_contracts", "farm_uuid"},
	{"farm_referents", "farm_uuid"},
}

// FarmInput is the full set of farm attributes for create and replace.
type FarmInput struct {
	Code       string `json:"code"`
	SPV        string `json:"spv"`
	Project    string `json:"project"`
	FarmTypeID int    `json:"farm_type_id"`
}

// FarmPatch holds the optional attributes of a partial farm update.
type FarmPatch struct {
	SPV        *string `json:"spv"`
	Project    *string `json:"project"`
	FarmTypeID *int    `json:"farm_type_id"`
}

// DeleteStepResult records how many rows one cascade step removed.
type DeleteStepResult struct {
	Table string `json:"table"`
	Rows  int64  `json:"rows"`
}

// DeleteReport describes a completed cascade.
type DeleteReport struct {
	FarmUUID string             `json:"farm_uuid"`
	FarmCode string             `json:"farm_code"`
	Steps    []DeleteStepResult `json:"steps"`
}

// FarmService implements the farm aggregate operations
type FarmService struct {
	db      *gorm.DB
	metrics *metrics.Metrics
	events  EventPublisher
	log     *zap.Logger
}

func NewFarmService(db *gorm.DB, m *metrics.Metrics, events EventPublisher, log *zap.Logger) *FarmService {
	return &FarmService{
		db:      db,
		metrics: m,
		events:  publisherOrNoop(events),
		log:     log.Named("farms"),
	}
}

func (s *FarmService) repo(ctx context.Context) *repository.GormFarmRepository {
	return repository.NewFarmRepository(s.db.WithContext(ctx))
}

// Resolve returns the farm identified by uuid or a NotFound error. It never writes.
func (s *FarmService) Resolve(ctx context.Context, farmUUID string) (*models.Farm, error) {
	if strings.TrimSpace(farmUUID) == "" {
		return nil, apperrors.NotFound("Farm not found")
	}
	return s.repo(ctx).GetByUUID(farmUUID)
}

func (in FarmInput) normalize() (FarmInput, error) {
	out := FarmInput{
		Code:       strings.TrimSpace(in.Code),
		SPV:        strings.TrimSpace(in.SPV),
		Project:    strings.TrimSpace(in.Project),
		FarmTypeID: in.FarmTypeID,
	}
	var missing []string
	if out.Code == "" {
		missing = append(missing, "code")
	}
	if out.SPV == "" {
		missing = append(missing, "spv")
	}
	if out.Project == "" {
		missing = append(missing, "project")
	}
	if out.FarmTypeID <= 0 {
		missing = append(missing, "farm_type_id")
	}
	if len(missing) > 0 {
		return out, apperrors.Validation("Missing or invalid fields: %s", strings.Join(missing, ", "))
	}
	return out, nil
}

func checkType(repo *repository.GormFarmRepository, id int) error {
	ok, err := repo.TypeExists(uint(id))
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.Validation("Unknown farm type: %d", id)
	}
	return nil
}

// Create inserts a farm with a fresh uuid. A duplicate code fails with Conflict and writes nothing.
func (s *FarmService) Create(ctx context.Context, input FarmInput) (*models.Farm, error) {
	input, err := input.normalize()
	if err != nil {
		return nil, err
	}

	farm := &models.Farm{
		UUID:       uuid.NewString(),
		Code:       input.Code,
		SPV:        input.SPV,
		Project:    input.Project,
		FarmTypeID: uint(input.FarmTypeID),
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.NewFarmRepository(tx)
		if err := checkType(repo, input.FarmTypeID); err != nil {
			return err
		}
		return repo.Create(farm)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("farm created", zap.String("farm_uuid", farm.UUID), zap.String("code", farm.Code))
	s.events.Broadcast(farmEvent(ctx, realtime.EventFarmCreated, farm, "farm", nil))
	return farm, nil
}

// Patch updates the supplied attributes; at least one is required
func (s *FarmService) Patch(ctx context.Context, farm *models.Farm, patch FarmPatch) error {
	fields := map[string]interface{}{}
	if patch.SPV != nil {
		v := strings.TrimSpace(*patch.SPV)
		if v == "" {
			return apperrors.Validation("spv must not be empty")
		}
		fields["spv"] = v
	}
	if patch.Project != nil {
		v := strings.TrimSpace(*patch.Project)
		if v == "" {
			return apperrors.Validation("project must not be empty")
		}
		fields["project"] = v
	}
	if patch.FarmTypeID != nil {
		if *patch.FarmTypeID <= 0 {
			return apperrors.Validation("farm_type_id must be a positive integer")
		}
		fields["farm_type_id"] = uint(*patch.FarmTypeID)
	}
	if len(fields) == 0 {
		return apperrors.Validation("At least one field must be provided")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.NewFarmRepository(tx)
		if patch.FarmTypeID != nil {
			if err := checkType(repo, *patch.FarmTypeID); err != nil {
				return err
			}
		}
		return repo.Update(farm.UUID, fields)
	})
	if err != nil {
		return err
	}
	s.events.Broadcast(farmEvent(ctx, realtime.EventFarmUpdated, farm, "farm", nil))
	return nil
}

// Replace overwrites every farm attribute, including the code
func (s *FarmService) Replace(ctx context.Context, farm *models.Farm, input FarmInput) (*models.Farm, error) {
	input, err := input.normalize()
	if err != nil {
		return nil, err
	}

	var updated *models.Farm
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.NewFarmRepository(tx)
		if err := checkType(repo, input.FarmTypeID); err != nil {
			return err
		}
		err := repo.Update(farm.UUID, map[string]interface{}{
			"code":         input.Code,
			"spv":          input.SPV,
			"project":      input.Project,
			"farm_type_id": uint(input.FarmTypeID),
		})
		if err != nil {
			return err
		}
		updated, err = repo.GetByUUID(farm.UUID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.events.Broadcast(farmEvent(ctx, realtime.EventFarmUpdated, updated, "farm", nil))
	return updated, nil
}

func (s *FarmService) List(ctx context.Context) ([]models.Farm, error) {
	return s.repo(ctx).ListAll()
}

func (s *FarmService) ListTypes(ctx context.Context) ([]models.FarmType, error) {
	return s.repo(ctx).ListTypes()
}

// Full returns the farm with every satellite record preloaded
func (s *FarmService) Full(ctx context.Context, farmUUID string) (*models.Farm, error) {
	return s.repo(ctx).GetFull(farmUUID)
}

// Summary aggregates the dashboard view of one farm
func (s *FarmService) Summary(ctx context.Context, farmUUID string) (*models.FarmSummary, error) {
	repo := s.repo(ctx)
	farm, err := repo.GetFull(farmUUID)
	if err != nil {
		return nil, err
	}
	wtgCount, err := repo.CountTurbineGenerators(farm.UUID)
	if err != nil {
		return nil, err
	}
	perfs, err := repo.RecentPerformances(farm.UUID, recentPerformanceLimit)
	if err != nil {
		return nil, err
	}

	summary := &models.FarmSummary{
		Farm: models.SummaryFarm{
			UUID:    farm.UUID,
			Code:    farm.Code,
			SPV:     farm.SPV,
			Project: farm.Project,
			Type:    farm.TypeTitle(),
		},
		Status:   farm.Status,
		Location: farm.Location,
		Technical: models.SummaryTechnical{
			SubstationCount: len(farm.Substations),
			WTGCount:        wtgCount,
		},
		RecentPerformances: perfs,
	}
	if td := farm.TurbineDetails; td != nil {
		if td.TurbineCount != nil {
			summary.Technical.TurbineCount = *td.TurbineCount
		}
		if td.TotalMMW != nil {
			summary.Technical.TotalPowerMW = *td.TotalMMW
		}
		summary.Technical.Manufacturer = td.Manufacturer
	}
	if farm.Administration != nil {
		summary.Administration.Subsidiary = farm.Administration.WindmanagerSubsidiary
	}
	return summary, nil
}

func (s *FarmService) Stats(ctx context.Context) (models.FarmStats, error) {
	return repository.NewStatsRepository(s.db.WithContext(ctx)).Global()
}

// Delete removes the farm and every dependent row in one transaction. A missing farm
// returns NotFound before any write; any failure rolls the whole cascade back.
func (s *FarmService) Delete(ctx context.Context, farmUUID string) (*DeleteReport, error) {
	var report *DeleteReport
	var farm *models.Farm
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.NewFarmRepository(tx)
		var err error
		farm, err = repo.GetByUUID(farmUUID)
		if err != nil {
			return err
		}

		report = &DeleteReport{FarmUUID: farm.UUID, FarmCode: farm.Code}
		for _, step := range cascadeOrder {
			n, err := repo.DeleteDependents(step.Table, step.Column, farm.UUID)
			if err != nil {
				return err
			}
			report.Steps = append(report.Steps, DeleteStepResult{Table: step.Table, Rows: n})
		}

		n, err := repo.Delete(farm.UUID)
		if err != nil {
			return err
		}
		report.Steps = append(report.Steps, DeleteStepResult{Table: "farms", Rows: n})
		return nil
	})
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	s.metrics.ObserveDelete(err)
	if err != nil {
		s.log.Error("farm cascade delete rolled back", zap.String("farm_uuid", farmUUID), zap.Error(err))
		if apperrors.KindOf(err) != apperrors.KindPersistence {
			err = apperrors.Persistence(err, "Failed to delete farm")
		}
		return nil, err
	}

	s.log.Info("farm deleted", zap.String("farm_uuid", farm.UUID), zap.String("code", farm.Code), zap.Any("steps", report.Steps))
	s.events.Broadcast(farmEvent(ctx, realtime.EventFarmDeleted, farm, "farm", nil))
	return report, nil
}
