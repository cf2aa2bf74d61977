package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wndmngr/farmregistry/apperrors"
	"github.com/wndmngr/farmregistry/models"
	"github.com/wndmngr/farmregistry/realtime"
	dbtest "github.com/wndmngr/farmregistry/testutil"
)

func createPerson(t *testing.T, db *gorm.DB, first, last string) *models.Person {
	t.Helper()
	p := &models.Person{UUID: uuid.NewString(), FirstName: first, LastName: last}
	require.NoError(t, db.Create(p).Error)
	return p
}

func createCompany(t *testing.T, db *gorm.DB, name string) *models.Company {
	t.Helper()
	c := &models.Company{UUID: uuid.NewString(), Name: name}
	require.NoError(t, db.Create(c).Error)
	return c
}

func TestReferentService_SecondAssignmentSupersedesFirst(t *testing.T) {
	db := dbtest.NewDB(t)
	svc := NewReferentService(db, nil, nil, zap.NewNop())
	farm := dbtest.CreateFarm(t, db, "ROLE")
	a := createPerson(t, db, "Alice", "Durand")
	b := createPerson(t, db, "Bruno", "Petit")
	ctx := context.Background()

	res, err := svc.Assign(ctx, farm, AssignRequest{Kind: models.TargetPerson, RoleName: "Asset Manager", TargetUUID: &a.UUID})
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, res.Outcome)

	res, err = svc.Assign(ctx, farm, AssignRequest{Kind: models.TargetPerson, RoleName: "Asset Manager", TargetUUID: &b.UUID})
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, res.Outcome)

	var rows []models.FarmReferent
	require.NoError(t, db.Where("farm_uuid = ?", farm.UUID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, b.UUID, rows[0].TargetUUID)
	assert.Equal(t, models.TargetPerson, rows[0].TargetKind)
}

func TestReferentService_UnassignWithoutAssignmentIsNoop(t *testing.T) {
	db := dbtest.NewDB(t)
	events := &recordingPublisher{}
	svc := NewReferentService(db, nil, events, zap.NewNop())
	farm := dbtest.CreateFarm(t, db, "NOOP")

	res, err := svc.Assign(context.Background(), farm, AssignRequest{Kind: models.TargetPerson, RoleName: "Technical Manager"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoop, res.Outcome)
	assert.Zero(t, dbtest.CountRows(t, db, "farm_referents", "farm_uuid", farm.UUID))
	assert.Empty(t, events.types())
}

func TestReferentService_ClearRemovesAssignment(t *testing.T) {
	db := dbtest.NewDB(t)
	events := &recordingPublisher{}
	svc := NewReferentService(db, nil, events, zap.NewNop())
	farm := dbtest.CreateFarm(t, db, "CLEAR")
	p := createPerson(t, db, "Chloe", "Moreau")
	ctx := context.Background()

	_, err := svc.Assign(ctx, farm, AssignRequest{Kind: models.TargetPerson, RoleName: "Electrical Manager", TargetUUID: &p.UUID})
	require.NoError(t, err)
	res, err := svc.Assign(ctx, farm, AssignRequest{Kind: models.TargetPerson, RoleName: "Electrical Manager", TargetUUID: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, OutcomeRemoved, res.Outcome)
	assert.Zero(t, dbtest.CountRows(t, db, "farm_referents", "farm_uuid", farm.UUID))
	assert.Equal(t, []string{realtime.EventReferentUpdate, realtime.EventReferentUpdate}, events.types())
}

func TestReferentService_UnknownRole(t *testing.T) {
	db := dbtest.NewDB(t)
	svc := NewReferentService(db, nil, nil, zap.NewNop())
	farm := dbtest.CreateFarm(t, db, "UNK")

	_, err := svc.Assign(context.Background(), farm, AssignRequest{Kind: models.TargetCompany, RoleName: "Wizard"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	assert.Equal(t, "Unknown role: Wizard", apperrors.Message(err))
}

func TestReferentService_UnknownTarget(t *testing.T) {
	db := dbtest.NewDB(t)
	svc := NewReferentService(db, nil, nil, zap.NewNop())
	farm := dbtest.CreateFarm(t, db, "GHOST")

	_, err := svc.Assign(context.Background(), farm, AssignRequest{
		Kind: models.TargetCompany, RoleName: "Grid Operator", TargetUUID: strPtr(uuid.NewString()),
	})
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestReferentService_NewTargetTakesPrecedence(t *testing.T) {
	db := dbtest.NewDB(t)
	svc := NewReferentService(db, nil, nil, zap.NewNop())
	farm := dbtest.CreateFarm(t, db, "NEWC")
	existing := createCompany(t, db, "Existing SA")

	res, err := svc.Assign(context.Background(), farm, AssignRequest{
		Kind:       models.TargetCompany,
		RoleName:   "O&M Provider",
		TargetUUID: &existing.UUID,
		NewCompany: &NewCompany{Name: "  Nordex France  "},
	})
	require.NoError(t, err)
	require.NotNil(t, res.Assignment)
	assert.NotEqual(t, existing.UUID, res.Assignment.TargetUUID)

	var created models.Company
	require.NoError(t, db.Where("uuid = ?", res.Assignment.TargetUUID).First(&created).Error)
	assert.Equal(t, "Nordex France", created.Name)
}

func TestReferentService_NewPersonOnCompanyRoleRejected(t *testing.T) {
	db := dbtest.NewDB(t)
	svc := NewReferentService(db, nil, nil, zap.NewNop())
	farm := dbtest.CreateFarm(t, db, "MIX")

	_, err := svc.Assign(context.Background(), farm, AssignRequest{
		Kind: models.TargetCompany, RoleName: "Owner", NewPerson: &NewPerson{FirstName: "A", LastName: "B"},
	})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	var n int64
	require.NoError(t, db.Model(&models.Person{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestReferentService_StalePreviousTargetConflicts(t *testing.T) {
	db := dbtest.NewDB(t)
	svc := NewReferentService(db, nil, nil, zap.NewNop())
	farm := dbtest.CreateFarm(t, db, "STALE")
	a := createPerson(t, db, "Denis", "Roux")
	b := createPerson(t, db, "Emma", "Fabre")
	c := createPerson(t, db, "Felix", "Girard")
	ctx := context.Background()

	_, err := svc.Assign(ctx, farm, AssignRequest{Kind: models.TargetPerson, RoleName: "Field Crew Manager", TargetUUID: &a.UUID})
	require.NoError(t, err)

	_, err = svc.Assign(ctx, farm, AssignRequest{
		Kind: models.TargetPerson, RoleName: "Field Crew Manager", TargetUUID: &c.UUID, PreviousTargetUUID: &b.UUID,
	})
	assert.True(t, errors.Is(err, apperrors.ErrConflict))

	res, err := svc.Assign(ctx, farm, AssignRequest{
		Kind: models.TargetPerson, RoleName: "Field Crew Manager", TargetUUID: &c.UUID, PreviousTargetUUID: &a.UUID,
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, res.Outcome)
}

func TestReferentService_SameTargetIsNoop(t *testing.T) {
	db := dbtest.NewDB(t)
	events := &recordingPublisher{}
	svc := NewReferentService(db, nil, events, zap.NewNop())
	farm := dbtest.CreateFarm(t, db, "SAME")
	a := createPerson(t, db, "Gael", "Henry")
	ctx := context.Background()

	res, err := svc.Assign(ctx, farm, AssignRequest{Kind: models.TargetPerson, RoleName: "Asset Manager", TargetUUID: &a.UUID})
	require.NoError(t, err)
	require.Equal(t, OutcomeCreated, res.Outcome)

	res, err = svc.Assign(ctx, farm, AssignRequest{
		Kind: models.TargetPerson, RoleName: "Asset Manager", TargetUUID: &a.UUID, PreviousTargetUUID: &a.UUID,
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoop, res.Outcome)
	require.NotNil(t, res.Assignment)
	assert.Equal(t, models.PersonTarget(a.UUID), res.Assignment.Target())
	assert.Equal(t, []string{realtime.EventReferentUpdate}, events.types())
}

func TestReferentService_PersonAndCompanyRolesAreIndependent(t *testing.T) {
	db := dbtest.NewDB(t)
	svc := NewReferentService(db, nil, nil, zap.NewNop())
	farm := dbtest.CreateFarm(t, db, "BOTH")
	p := createPerson(t, db, "Gina", "Henry")
	c := createCompany(t, db, "RTE")
	ctx := context.Background()

	_, err := svc.Assign(ctx, farm, AssignRequest{Kind: models.TargetPerson, RoleName: "Asset Manager", TargetUUID: &p.UUID})
	require.NoError(t, err)
	_, err = svc.Assign(ctx, farm, AssignRequest{Kind: models.TargetCompany, RoleName: "Grid Operator", TargetUUID: &c.UUID})
	require.NoError(t, err)

	list, err := svc.ListByFarm(ctx, farm)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "RTE", list[0].ReferentName)
	assert.Equal(t, "Gina Henry", list[1].ReferentName)
}

func TestReferentService_Unassign(t *testing.T) {
	db := dbtest.NewDB(t)
	svc := NewReferentService(db, nil, nil, zap.NewNop())
	farm := dbtest.CreateFarm(t, db, "UNAS")
	c := createCompany(t, db, "Enercon Service")
	other := createCompany(t, db, "Siemens Gamesa")
	ctx := context.Background()

	_, err := svc.Assign(ctx, farm, AssignRequest{Kind: models.TargetCompany, RoleName: "Substation Maintenance", TargetUUID: &c.UUID})
	require.NoError(t, err)

	outcome, err := svc.Unassign(ctx, farm, models.TargetCompany, "Substation Maintenance", other.UUID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoop, outcome)
	assert.Equal(t, int64(1), dbtest.CountRows(t, db, "farm_referents", "farm_uuid", farm.UUID))

	outcome, err = svc.Unassign(ctx, farm, models.TargetCompany, "Substation Maintenance", c.UUID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeRemoved, outcome)
	assert.Zero(t, dbtest.CountRows(t, db, "farm_referents", "farm_uuid", farm.UUID))

	outcome, err = svc.Unassign(ctx, farm, models.TargetCompany, "Substation Maintenance", c.UUID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoop, outcome)
}
