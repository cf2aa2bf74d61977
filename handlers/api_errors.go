package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/wndmngr/farmregistry/apperrors"
)

// APIErrorDetail represents a single error in the standardized error response.
type APIErrorDetail struct {
	Code   string `json:"code"`
	Status string `json:"status"`
	Detail string `json:"detail"`
}

// APIErrorResponse represents the standardized error response body.
type APIErrorResponse struct {
	Errors []APIErrorDetail `json:"errors"`
}

// WriteAPIError writes a standardized error response with the given HTTP status, code, and detail.
func WriteAPIError(w http.ResponseWriter, httpStatus int, code string, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	resp := APIErrorResponse{
		Errors: []APIErrorDetail{
			{
				Code:   code,
				Status: strconv.Itoa(httpStatus),
				Detail: detail,
			},
		},
	}

	_ = json.NewEncoder(w).Encode(resp)
}

// writeError maps an apperrors kind onto a status code. Persistence failures are
// logged and answered with a generic detail.
func writeError(log *zap.Logger, w http.ResponseWriter, r *http.Request, err error) {
	kind := apperrors.KindOf(err)
	switch kind {
	case apperrors.KindNotFound:
		WriteAPIError(w, http.StatusNotFound, string(kind), apperrors.Message(err))
	case apperrors.KindValidation:
		WriteAPIError(w, http.StatusBadRequest, string(kind), apperrors.Message(err))
	case apperrors.KindConflict:
		WriteAPIError(w, http.StatusConflict, string(kind), apperrors.Message(err))
	default:
		log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
		detail := "Internal server error"
		if errors.Is(err, apperrors.ErrPersistence) {
			detail = apperrors.Message(err)
		}
		WriteAPIError(w, http.StatusInternalServerError, string(apperrors.KindPersistence), detail)
	}
}

// writeJSON encodes data as the response body. The status line is already sent when
// encoding fails, so the failure can only be logged.
func writeJSON(log *zap.Logger, w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("failed to encode response", zap.Int("status", status), zap.Error(err))
	}
}

func writeSuccess(log *zap.Logger, w http.ResponseWriter) {
	writeJSON(log, w, http.StatusOK, map[string]bool{"success": true})
}

// decodeJSON reads a JSON body into v. An empty body is a validation error.
func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.Validation("Request body is required")
		}
		return apperrors.Validation("Invalid JSON payload: %s", err.Error())
	}
	return nil
}
