package permissions

// PermissionScope defines the context in which a permission applies
type PermissionScope string

const (
	ScopeGlobal PermissionScope = "global" // applies to the whole registry
	ScopeFarm   PermissionScope = "farm"   // applies to a single farm and its satellites
)

const (
	FarmView      = "farm.view"
	FarmEdit      = "farm.edit"
	FarmCreate    = "farm.create"
	FarmDelete    = "farm.delete"
	ReferentEdit  = "referent.edit"
	RegistryStats = "registry.stats"
)

// PermissionDefinition describes a single, specific permission
type PermissionDefinition struct {
	Key         string          `json:"key"`         // unique key, e.g., "farm.edit"
	Name        string          `json:"name"`        // friendly name, e.g., "Edit Farm"
	Description string          `json:"description"` // detailed description of what the permission allows
	Scope       PermissionScope `json:"scope"`
	AdminOnly   bool            `json:"admin_only"` // only granted to configured administrators
}

// PermissionGroupDefinition groups related permissions
type PermissionGroupDefinition struct {
	Key         string                 `json:"key"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Permissions []PermissionDefinition `json:"permissions"`
}

// DefinedPermissionGroups holds all statically defined permission groups and their permissions
var DefinedPermissionGroups = []PermissionGroupDefinition{
	{
		Key:         "farm",
		Name:        "Farm Management",
		Description: "Permissions related to farm records and their satellite data.",
		Permissions: []PermissionDefinition{
			{
				Key:         FarmView,
				Name:        "View Farms",
				Description: "Allows listing farms and viewing their location, administration and contract data.",
				Scope:       ScopeGlobal,
			},
			{
				Key:         FarmEdit,
				Name:        "Edit Farm",
				Description: "Allows editing a farm's identity fields and satellite records.",
				Scope:       ScopeFarm,
			},
			{
				Key:         FarmCreate,
				Name:        "Create Farm",
				Description: "Allows registering new farms.",
				Scope:       ScopeGlobal,
				AdminOnly:   true,
			},
			{
				Key:         FarmDelete,
				Name:        "Delete Farm",
				Description: "Allows deleting a farm together with all of its dependent records.",
				Scope:       ScopeFarm,
				AdminOnly:   true,
			},
		},
	},
	{
		Key:         "referent",
		Name:        "Referent Management",
		Description: "Permissions related to person and company role assignments.",
		Permissions: []PermissionDefinition{
			{
				Key:         ReferentEdit,
				Name:        "Edit Referents",
				Description: "Allows assigning persons and companies to farm roles, creating them on demand.",
				Scope:       ScopeFarm,
			},
		},
	},
	{
		Key:         "registry",
		Name:        "Registry",
		Description: "Registry-wide views.",
		Permissions: []PermissionDefinition{
			{
				Key:         RegistryStats,
				Name:        "View Statistics",
				Description: "Allows viewing aggregated statistics and exporting the farm list.",
				Scope:       ScopeGlobal,
			},
		},
	},
}

var (
	allPermissionKeysMap map[string]PermissionDefinition
	allPermissionKeys    []string
)

func init() {
	allPermissionKeysMap = make(map[string]PermissionDefinition)
	for _, group := range DefinedPermissionGroups {
		for _, perm := range group.Permissions {
			allPermissionKeysMap[perm.Key] = perm
			allPermissionKeys = append(allPermissionKeys, perm.Key)
		}
	}
}

// GetAllPermissionKeys returns a slice of all unique permission string keys
func GetAllPermissionKeys() []string {
	keys := make([]string, len(allPermissionKeys))
	copy(keys, allPermissionKeys)
	return keys
}

// IsValidPermissionKey checks if a given permission key is defined
func IsValidPermissionKey(key string) bool {
	_, ok := allPermissionKeysMap[key]
	return ok
}

// GrantedPermissions returns the keys held by a user. Administrators hold every permission,
// everyone else holds the non admin-only ones.
func GrantedPermissions(isAdmin bool) []string {
	keys := make([]string, 0, len(allPermissionKeys))
	for _, key := range allPermissionKeys {
		if allPermissionKeysMap[key].AdminOnly && !isAdmin {
			continue
		}
		keys = append(keys, key)
	}
	return keys
}
