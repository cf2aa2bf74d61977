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

// NewPerson carries the attributes of a person created during an assignment.
type NewPerson struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// NewCompany carries the attributes of a company created during an assignment.
type NewCompany struct {
	Name string `json:"name"`
}

// AssignRequest sets or clears the target of one role on a farm.
// A nil TargetUUID (and no new target) clears the role.
type AssignRequest struct {
	Kind       models.TargetKind
	RoleName   string
	TargetUUID *string
	NewPerson  *NewPerson
	NewCompany *NewCompany
	// PreviousTargetUUID, when set, must match the current assignment's target.
	PreviousTargetUUID *string
}

// AssignResult reports what the reconciliation did.
type AssignResult struct {
	Outcome    string               `json:"outcome"`
	Assignment *models.FarmReferent `json:"assignment,omitempty"`
}

// ReferentService reconciles person and company role assignments on farms
type ReferentService struct {
	db      *gorm.DB
	metrics *metrics.Metrics
	events  EventPublisher
	log     *zap.Logger
}

func NewReferentService(db *gorm.DB, m *metrics.Metrics, events EventPublisher, log *zap.Logger) *ReferentService {
	return &ReferentService{
		db:      db,
		metrics: m,
		events:  publisherOrNoop(events),
		log:     log.Named("referents"),
	}
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

func kindLabel(kind models.TargetKind) string {
	if kind == models.TargetCompany {
		return "Company"
	}
	return "Person"
}

func resolveRole(repo repository.ReferentRepository, kind models.TargetKind, roleName string) (uint, error) {
	roleID, err := repo.RoleIDByName(kind, roleName)
	if errors.Is(err, apperrors.ErrNotFound) {
		return 0, apperrors.Validation("Unknown role: %s", roleName)
	}
	return roleID, err
}

// createTarget inserts the new person or company named in req, returning its uuid, or "" when none was supplied.
func createTarget(repo repository.ReferentRepository, req AssignRequest) (string, error) {
	switch {
	case req.NewPerson != nil:
		if req.Kind != models.TargetPerson {
			return "", apperrors.Validation("newPerson is only valid for person roles")
		}
		first := strings.TrimSpace(req.NewPerson.FirstName)
		last := strings.TrimSpace(req.NewPerson.LastName)
		if first == "" || last == "" {
			return "", apperrors.Validation("newPerson requires first_name and last_name")
		}
		person := &models.Person{UUID: uuid.NewString(), FirstName: first, LastName: last}
		if err := repo.CreatePerson(person); err != nil {
			return "", err
		}
		return person.UUID, nil
	case req.NewCompany != nil:
		if req.Kind != models.TargetCompany {
			return "", apperrors.Validation("newCompany is only valid for company roles")
		}
		name := strings.TrimSpace(req.NewCompany.Name)
		if name == "" {
			return "", apperrors.Validation("newCompany requires name")
		}
		company := &models.Company{UUID: uuid.NewString(), Name: name}
		if err := repo.CreateCompany(company); err != nil {
			return "", err
		}
		return company.UUID, nil
	}
	return "", nil
}

func findAssignment(repo repository.ReferentRepository, farmUUID string, kind models.TargetKind, roleID uint) (*models.FarmReferent, error) {
	existing, err := repo.FindAssignment(farmUUID, kind, roleID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	return existing, err
}

// Assign points the (farm, kind, role) assignment at the requested target, creating the target first
// when new attributes are supplied. Assigning a second target to a role replaces the first.
func (s *ReferentService) Assign(ctx context.Context, farm *models.Farm, req AssignRequest) (AssignResult, error) {
	if !req.Kind.Valid() {
		return AssignResult{}, apperrors.Validation("invalid target kind %q", req.Kind)
	}
	req.RoleName = strings.TrimSpace(req.RoleName)
	if req.RoleName == "" {
		return AssignResult{}, apperrors.Validation("role is required")
	}
	req.TargetUUID = emptyToNil(req.TargetUUID)
	req.PreviousTargetUUID = emptyToNil(req.PreviousTargetUUID)

	var result AssignResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.NewReferentRepository(tx)

		roleID, err := resolveRole(repo, req.Kind, req.RoleName)
		if err != nil {
			return err
		}

		created, err := createTarget(repo, req)
		if err != nil {
			return err
		}
		var target *models.Target
		switch {
		case created != "":
			t := models.Target{Kind: req.Kind, UUID: created}
			target = &t
		case req.TargetUUID != nil:
			t := models.Target{Kind: req.Kind, UUID: *req.TargetUUID}
			ok, err := repo.TargetExists(t)
			if err != nil {
				return err
			}
			if !ok {
				return apperrors.NotFound("%s %s not found", kindLabel(t.Kind), t.UUID)
			}
			target = &t
		}

		existing, err := findAssignment(repo, farm.UUID, req.Kind, roleID)
		if err != nil {
			return err
		}
		if req.PreviousTargetUUID != nil && existing != nil {
			previous := models.Target{Kind: req.Kind, UUID: *req.PreviousTargetUUID}
			if existing.Target() != previous {
				return apperrors.Conflict("Role %s is now assigned to a different %s", req.RoleName, req.Kind)
			}
		}

		switch {
		case target == nil && existing == nil:
			result = AssignResult{Outcome: OutcomeNoop}
			return nil
		case target == nil:
			result = AssignResult{Outcome: OutcomeRemoved, Assignment: existing}
			return repo.DeleteAssignment(existing.UUID)
		case existing != nil && existing.Target() == *target:
			result = AssignResult{Outcome: OutcomeNoop, Assignment: existing}
			return nil
		case existing != nil:
			if err := repo.UpdateAssignmentTarget(existing.UUID, target.UUID); err != nil {
				return err
			}
			existing.TargetUUID = target.UUID
			result = AssignResult{Outcome: OutcomeUpdated, Assignment: existing}
			return nil
		}

		assignment := &models.FarmReferent{
			UUID:       uuid.NewString(),
			FarmUUID:   farm.UUID,
			FarmCode:   farm.Code,
			TargetKind: target.Kind,
			RoleID:     roleID,
			TargetUUID: target.UUID,
		}
		if err := repo.CreateAssignment(assignment); err != nil {
			return err
		}
		result = AssignResult{Outcome: OutcomeCreated, Assignment: assignment}
		return nil
	})
	if err != nil {
		s.logFailure("assign", farm, req.Kind, req.RoleName, err)
		return AssignResult{}, err
	}

	s.committed(ctx, farm, req.Kind, req.RoleName, result.Outcome)
	return result, nil
}

// Unassign clears the role only while it still points at targetUUID; anything else is a no-op.
func (s *ReferentService) Unassign(ctx context.Context, farm *models.Farm, kind models.TargetKind, roleName, targetUUID string) (string, error) {
	if !kind.Valid() {
		return "", apperrors.Validation("invalid target kind %q", kind)
	}
	roleName = strings.TrimSpace(roleName)
	if roleName == "" {
		return "", apperrors.Validation("role is required")
	}

	outcome := OutcomeNoop
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.NewReferentRepository(tx)
		roleID, err := resolveRole(repo, kind, roleName)
		if err != nil {
			return err
		}
		existing, err := findAssignment(repo, farm.UUID, kind, roleID)
		if err != nil {
			return err
		}
		if existing == nil || existing.TargetUUID != targetUUID {
			return nil
		}
		outcome = OutcomeRemoved
		return repo.DeleteAssignment(existing.UUID)
	})
	if err != nil {
		s.logFailure("unassign", farm, kind, roleName, err)
		return "", err
	}

	s.committed(ctx, farm, kind, roleName, outcome)
	return outcome, nil
}

// ListByFarm returns the farm's assignments joined with target and role names
func (s *ReferentService) ListByFarm(ctx context.Context, farm *models.Farm) ([]models.ReferentDisplay, error) {
	return repository.NewReferentRepository(s.db.WithContext(ctx)).ListDisplayByFarm(farm.UUID)
}

func (s *ReferentService) ListPersons(ctx context.Context) ([]models.Person, error) {
	return repository.NewReferentRepository(s.db.WithContext(ctx)).ListPersons()
}

func (s *ReferentService) ListCompanies(ctx context.Context) ([]models.Company, error) {
	return repository.NewReferentRepository(s.db.WithContext(ctx)).ListCompanies()
}

func (s *ReferentService) ListPersonRoles(ctx context.Context) ([]models.PersonRole, error) {
	return repository.NewReferentRepository(s.db.WithContext(ctx)).ListPersonRoles()
}

func (s *ReferentService) ListCompanyRoles(ctx context.Context) ([]models.CompanyRole, error) {
	return repository.NewReferentRepository(s.db.WithContext(ctx)).ListCompanyRoles()
}

func (s *ReferentService) logFailure(op string, farm *models.Farm, kind models.TargetKind, role string, err error) {
	fields := []zap.Field{
		zap.String("op", op),
		zap.String("farm_uuid", farm.UUID),
		zap.String("kind", string(kind)),
		zap.String("role", role),
		zap.Error(err),
	}
	if apperrors.KindOf(err) == apperrors.KindPersistence {
		s.log.Error("role reconciliation failed", fields...)
		return
	}
	s.log.Info("role reconciliation rejected", fields...)
}

func (s *ReferentService) committed(ctx context.Context, farm *models.Farm, kind models.TargetKind, role, outcome string) {
	s.metrics.ObserveAssignment(string(kind), outcome)
	if outcome == OutcomeNoop {
		return
	}
	s.events.Broadcast(farmEvent(ctx, realtime.EventReferentUpdate, farm, "referents", map[string]interface{}{
		"kind":    string(kind),
		"role":    role,
		"outcome": outcome,
	}))
}
