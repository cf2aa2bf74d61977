package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/wndmngr/farmregistry/apperrors"
	"github.com/wndmngr/farmregistry/models"
	"github.com/wndmngr/farmregistry/services"
)

type ReferentHandler struct {
	Referents *services.ReferentService
	Log       *zap.Logger
}

func NewReferentHandler(referents *services.ReferentService, log *zap.Logger) *ReferentHandler {
	return &ReferentHandler{Referents: referents, Log: log}
}

// PersonRolePayload assigns (or clears, with a null personUuid) a person role.
// personUuid is required; raw decoding keeps an absent key apart from null.
type PersonRolePayload struct {
	Role               string              `json:"role"`
	PersonUUID         json.RawMessage     `json:"personUuid"`
	NewPerson          *services.NewPerson `json:"newPerson,omitempty"`
	PreviousPersonUUID *string             `json:"previousPersonUuid,omitempty"`
}

// nullableUUID reads a required key that may be null. A missing key fails validation.
func nullableUUID(raw json.RawMessage, field string) (*string, error) {
	if len(raw) == 0 {
		return nil, apperrors.Validation("%s is required", field)
	}
	if string(raw) == "null" {
		return nil, nil
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, apperrors.Validation("%s must be a string or null", field)
	}
	return &v, nil
}

// CompanyRolePayload assigns a company role. OldCompanyUUID guards against stale edits.
type CompanyRolePayload struct {
	RoleName       string               `json:"roleName"`
	CompanyUUID    *string              `json:"companyUuid"`
	NewCompany     *services.NewCompany `json:"newCompany,omitempty"`
	OldCompanyUUID *string              `json:"oldCompanyUuid,omitempty"`
}

// CompanyRoleDeletePayload removes a company role if it still points at CompanyUUID.
type CompanyRoleDeletePayload struct {
	RoleName    string `json:"roleName"`
	CompanyUUID string `json:"companyUuid"`
}

// ListReferents returns the farm's person and company assignments.
// @Router /api/farms/{uuid}/referents [get]
func (h *ReferentHandler) ListReferents(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Referents.ListByFarm(r.Context(), FarmFromContext(r.Context()))
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	writeJSON(h.Log, w, http.StatusOK, rows)
}

// AssignPersonRole sets the person holding a role on the farm.
// @Router /api/farms/{uuid}/referents [put]
func (h *ReferentHandler) AssignPersonRole(w http.ResponseWriter, r *http.Request) {
	var payload PersonRolePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	personUUID, err := nullableUUID(payload.PersonUUID, "personUuid")
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	result, err := h.Referents.Assign(r.Context(), FarmFromContext(r.Context()), services.AssignRequest{
		Kind:               models.TargetPerson,
		RoleName:           payload.Role,
		TargetUUID:         personUUID,
		NewPerson:          payload.NewPerson,
		PreviousTargetUUID: payload.PreviousPersonUUID,
	})
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	writeJSON(h.Log, w, http.StatusOK, map[string]interface{}{"success": true, "outcome": result.Outcome})
}

// AssignCompanyRole sets the company holding a role on the farm.
// @Router /api/farms/{uuid}/company-roles [put]
func (h *ReferentHandler) AssignCompanyRole(w http.ResponseWriter, r *http.Request) {
	var payload CompanyRolePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	if payload.NewCompany == nil && (payload.CompanyUUID == nil || strings.TrimSpace(*payload.CompanyUUID) == "") {
		writeError(h.Log, w, r, apperrors.Validation("companyUuid is required"))
		return
	}
	result, err := h.Referents.Assign(r.Context(), FarmFromContext(r.Context()), services.AssignRequest{
		Kind:               models.TargetCompany,
		RoleName:           payload.RoleName,
		TargetUUID:         payload.CompanyUUID,
		NewCompany:         payload.NewCompany,
		PreviousTargetUUID: payload.OldCompanyUUID,
	})
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	writeJSON(h.Log, w, http.StatusOK, map[string]interface{}{"success": true, "outcome": result.Outcome})
}

// RemoveCompanyRole clears a company role held by the given company.
// @Router /api/farms/{uuid}/company-roles [delete]
func (h *ReferentHandler) RemoveCompanyRole(w http.ResponseWriter, r *http.Request) {
	var payload CompanyRoleDeletePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	if strings.TrimSpace(payload.CompanyUUID) == "" {
		writeError(h.Log, w, r, apperrors.Validation("companyUuid is required"))
		return
	}
	outcome, err := h.Referents.Unassign(r.Context(), FarmFromContext(r.Context()), models.TargetCompany, payload.RoleName, payload.CompanyUUID)
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	writeJSON(h.Log, w, http.StatusOK, map[string]interface{}{"success": true, "outcome": outcome})
}

// ListPersons, ListCompanies and the role lookups feed the referent pickers.

func (h *ReferentHandler) ListPersons(w http.ResponseWriter, r *http.Request) {
	persons, err := h.Referents.ListPersons(r.Context())
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	writeJSON(h.Log, w, http.StatusOK, persons)
}

func (h *ReferentHandler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.Referents.ListCompanies(r.Context())
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	writeJSON(h.Log, w, http.StatusOK, companies)
}

func (h *ReferentHandler) ListPersonRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.Referents.ListPersonRoles(r.Context())
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	writeJSON(h.Log, w, http.StatusOK, roles)
}

func (h *ReferentHandler) ListCompanyRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.Referents.ListCompanyRoles(r.Context())
	if err != nil {
		writeError(h.Log, w, r, err)
		return
	}
	writeJSON(h.Log, w, http.StatusOK, roles)
}
