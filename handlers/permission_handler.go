package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/wndmngr/farmregistry/permissions"
)

// PermissionHandler serves the package-level permission tables.
type PermissionHandler struct {
	Log *zap.Logger
}

// ListPermissionDefinitions serves the statically defined permission groups.
func (h *PermissionHandler) ListPermissionDefinitions(w http.ResponseWriter, r *http.Request) {
	writeJSON(h.Log, w, http.StatusOK, permissions.DefinedPermissionGroups)
}

// ListPermissionKeys serves just the keys of all defined permissions.
func (h *PermissionHandler) ListPermissionKeys(w http.ResponseWriter, r *http.Request) {
	writeJSON(h.Log, w, http.StatusOK, permissions.GetAllPermissionKeys())
}
