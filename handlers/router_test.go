package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wndmngr/farmregistry/config"
	"github.com/wndmngr/farmregistry/metrics"
	"github.com/wndmngr/farmregistry/models"
	"github.com/wndmngr/farmregistry/services"
	"github.com/wndmngr/farmregistry/testutil"
)

func devConfig() config.Config {
	return config.Config{
		Environment:        config.EnvDevelopment,
		AllowedOrigins:     []string{"*"},
		RequestTimeout:     5 * time.Second,
		AllowedEmailDomain: "wpd.fr",
	}
}

type testServer struct {
	handler http.Handler
	db      *gorm.DB
	metrics *metrics.Metrics
}

func newTestServer(t *testing.T, cfg config.Config) *testServer {
	t.Helper()
	db := testutil.NewDB(t)
	log := zap.NewNop()
	m := metrics.New()
	h := NewRouter(RouterDeps{
		Config:     cfg,
		DB:         db,
		Log:        log,
		Metrics:    m,
		Farms:      services.NewFarmService(db, m, nil, log),
		Satellites: services.NewSatelliteService(db, m, nil, log),
		Referents:  services.NewReferentService(db, m, nil, log),
	})
	return &testServer{handler: h, db: db, metrics: m}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeErrorDetail(t *testing.T, rec *httptest.ResponseRecorder) APIErrorDetail {
	t.Helper()
	var resp APIErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Errors, 1)
	return resp.Errors[0]
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, devConfig())
	rec := s.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "ok", resp.Database)

	metricsRec := s.do(t, http.MethodGet, "/metrics", nil, nil)
	assert.Contains(t, metricsRec.Body.String(), `windmanager_http_requests_total{method="GET",route="/health",status="200"} 1`)
}

func TestCreateFarmFlow(t *testing.T) {
	s := newTestServer(t, devConfig())

	rec := s.do(t, http.MethodPost, "/api/farms", services.FarmInput{Code: "WF10", SPV: "SPV 10", Project: "Haut Plateau", FarmTypeID: 1}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var farm models.Farm
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &farm))
	assert.NotEmpty(t, farm.UUID)

	rec = s.do(t, http.MethodPost, "/api/farms", services.FarmInput{Code: "WF10", SPV: "x", Project: "y", FarmTypeID: 1}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Farm with this code already exists", decodeErrorDetail(t, rec).Detail)

	rec = s.do(t, http.MethodPost, "/api/farms", map[string]string{"code": "X"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/farms", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []FarmListItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Wind", list[0].FarmType)
}

func TestFarmGuardUnknownFarm(t *testing.T) {
	s := newTestServer(t, devConfig())

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/farms/does-not-exist"},
		{http.MethodDelete, "/api/farms/does-not-exist"},
		{http.MethodPatch, "/api/farms/does-not-exist/location"},
		{http.MethodPut, "/api/farms/does-not-exist/referents"},
	} {
		rec := s.do(t, tc.method, tc.path, map[string]string{}, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, tc.path)
		assert.Equal(t, "Farm not found", decodeErrorDetail(t, rec).Detail)
	}
}

func TestSatellitePatch(t *testing.T) {
	s := newTestServer(t, devConfig())
	farm := testutil.CreateFarm(t, s.db, "SAT")

	rec := s.do(t, http.MethodPatch, "/api/farms/"+farm.UUID+"/location", map[string]interface{}{"country": "France"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	rec = s.do(t, http.MethodPatch, "/api/farms/"+farm.UUID+"/location", map[string]interface{}{"arras_toll_eur": "18.40"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPatch, "/api/farms/"+farm.UUID+"/om-contract", map[string]interface{}{"contract_end_date": "not a date"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/farms/"+farm.UUID, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var full models.Farm
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &full))
	require.NotNil(t, full.Location)
	assert.Equal(t, "France", *full.Location.Country)
	assert.Equal(t, 18.4, *full.Location.ArrasTollEUR)
	assert.Nil(t, full.OMContract)
}

func TestReferentRoutes(t *testing.T) {
	s := newTestServer(t, devConfig())
	farm := testutil.CreateFarm(t, s.db, "REF")
	base := "/api/farms/" + farm.UUID

	rec := s.do(t, http.MethodPut, base+"/referents", map[string]interface{}{"role": "Chief Wizard", "personUuid": nil}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Unknown role: Chief Wizard", decodeErrorDetail(t, rec).Detail)

	rec = s.do(t, http.MethodPut, base+"/referents", map[string]interface{}{
		"role":       "Asset Manager",
		"personUuid": nil,
		"newPerson":  map[string]string{"first_name": "Hugo", "last_name": "Lambert"},
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// a missing personUuid must not read as a clear
	rec = s.do(t, http.MethodPut, base+"/referents", map[string]interface{}{"role": "Asset Manager"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "personUuid is required", decodeErrorDetail(t, rec).Detail)
	assert.Equal(t, int64(1), testutil.CountRows(t, s.db, "farm_referents", "farm_uuid", farm.UUID))

	rec = s.do(t, http.MethodPut, base+"/referents", map[string]interface{}{"role": "Asset Manager", "personUuid": 42}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPut, base+"/company-roles", map[string]interface{}{
		"roleName":   "Grid Operator",
		"newCompany": map[string]string{"name": "Enedis"},
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, base+"/referents", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []models.ReferentDisplay
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "Enedis", rows[0].ReferentName)
	assert.Equal(t, "Hugo Lambert", rows[1].ReferentName)

	rec = s.do(t, http.MethodDelete, base+"/company-roles", map[string]string{"roleName": "Grid Operator", "companyUuid": rows[0].TargetUUID}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"outcome":"removed"`)

	rec = s.do(t, http.MethodPut, base+"/company-roles", map[string]interface{}{"roleName": "Owner"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteFarmRoute(t *testing.T) {
	s := newTestServer(t, devConfig())
	farm := testutil.CreateFarm(t, s.db, "DEL")
	require.NoError(t, s.db.Create(&models.FarmLocation{UUID: farm.UUID, FarmCode: farm.Code}).Error)

	rec := s.do(t, http.MethodDelete, "/api/farms/"+farm.UUID, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp DeleteFarmResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Farm DEL deleted successfully", resp.Message)
	assert.Equal(t, farm.Code, resp.Report.FarmCode)

	rec = s.do(t, http.MethodGet, "/api/farms/"+farm.UUID, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatsAndExport(t *testing.T) {
	s := newTestServer(t, devConfig())
	testutil.CreateFarm(t, s.db, "B2")
	testutil.CreateFarm(t, s.db, "A1")

	rec := s.do(t, http.MethodGet, "/api/farms/stats", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats models.FarmStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, int64(2), stats.TotalFarms)

	rec = s.do(t, http.MethodGet, "/api/farms/export", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxMime, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(farmsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Code", rows[0][0])
	assert.Equal(t, "A1", rows[1][0])
	assert.Equal(t, "B2", rows[2][0])
}

func TestLookups(t *testing.T) {
	s := newTestServer(t, devConfig())

	rec := s.do(t, http.MethodGet, "/api/farm-types", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var types []models.FarmType
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &types))
	assert.Len(t, types, 3)

	rec = s.do(t, http.MethodGet, "/api/person-roles", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Asset Manager")

	rec = s.do(t, http.MethodGet, "/api/permissions", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "farm.delete")
}
