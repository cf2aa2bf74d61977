package services

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wndmngr/farmregistry/metrics"
	"github.com/wndmngr/farmregistry/models"
	"github.com/wndmngr/farmregistry/realtime"
	"github.com/wndmngr/farmregistry/repository"
)

// Upsert outcomes, used as metric labels.
const (
	OutcomeCreated = "created"
	OutcomeUpdated = "updated"
	OutcomeRemoved = "removed"
	OutcomeNoop    = "noop"
)

// SatelliteService merges partial edits into a farm's one-to-one satellite rows
type SatelliteService struct {
	db      *gorm.DB
	metrics *metrics.Metrics
	events  EventPublisher
	log     *zap.Logger
}

func NewSatelliteService(db *gorm.DB, m *metrics.Metrics, events EventPublisher, log *zap.Logger) *SatelliteService {
	return &SatelliteService{
		db:      db,
		metrics: m,
		events:  publisherOrNoop(events),
		log:     log.Named("satellites"),
	}
}

// Upsert validates input and merges it into the farm's row for sat, inserting the row on first edit.
// It returns the outcome (created or updated).
func (s *SatelliteService) Upsert(ctx context.Context, farm *models.Farm, sat Satellite, input map[string]interface{}) (string, error) {
	fields, err := sat.Parse(input)
	if err != nil {
		return "", err
	}

	outcome := OutcomeUpdated
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.NewSatelliteRepository(tx)
		exists, err := repo.Exists(sat.Model(), sat.KeyColumn, farm.UUID)
		if err != nil {
			return err
		}
		if exists {
			return repo.Update(sat.Model(), sat.KeyColumn, farm.UUID, fields)
		}

		outcome = OutcomeCreated
		row := make(map[string]interface{}, len(fields)+2)
		for k, v := range fields {
			row[k] = v
		}
		row[sat.KeyColumn] = farm.UUID
		row["farm_code"] = farm.Code
		return repo.Insert(sat.Model(), row)
	})
	if err != nil {
		s.log.Error("satellite upsert failed",
			zap.String("satellite", sat.Name),
			zap.String("farm_uuid", farm.UUID),
			zap.Error(err))
		return "", err
	}

	s.metrics.ObserveUpsert(sat.Name, outcome)
	s.log.Debug("satellite upserted",
		zap.String("satellite", sat.Name),
		zap.String("farm_uuid", farm.UUID),
		zap.String("outcome", outcome),
		zap.Int("fields", len(fields)))
	s.events.Broadcast(farmEvent(ctx, realtime.EventSatelliteUpdate, farm, sat.Name, map[string]interface{}{"outcome": outcome}))
	return outcome, nil
}
