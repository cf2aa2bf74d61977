package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/wndmngr/farmregistry/apperrors"
	"github.com/wndmngr/farmregistry/services"
)

type SatelliteHandler struct {
	Satellites *services.SatelliteService
	Log        *zap.Logger
}

func NewSatelliteHandler(satellites *services.SatelliteService, log *zap.Logger) *SatelliteHandler {
	return &SatelliteHandler{Satellites: satellites, Log: log}
}

// Patch returns the PATCH handler for one satellite table. The body is a partial object;
// absent keys are left untouched and explicit nulls clear nullable columns.
func (h *SatelliteHandler) Patch(sat services.Satellite) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		if err := dec.Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
			writeError(h.Log, w, r, apperrors.Validation("Invalid JSON payload: %s", err.Error()))
			return
		}

		if _, err := h.Satellites.Upsert(r.Context(), FarmFromContext(r.Context()), sat, payload); err != nil {
			writeError(h.Log, w, r, err)
			return
		}
		writeSuccess(h.Log, w)
	}
}
