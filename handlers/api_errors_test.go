package handlers

import (
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWriteJSON_LogsEncodeFailure(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	rec := httptest.NewRecorder()

	writeJSON(zap.New(core), rec, http.StatusOK, map[string]float64{"arras_toll_eur": math.NaN()})

	assert.Equal(t, http.StatusOK, rec.Code)
	entries := logs.FilterMessage("failed to encode response").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(http.StatusOK), entries[0].ContextMap()["status"])
}

func TestWriteJSON_NoLogOnSuccess(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	rec := httptest.NewRecorder()

	writeSuccess(zap.New(core), rec)

	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	assert.Zero(t, logs.Len())
}
