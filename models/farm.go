package models

// Farm type identifiers seeded into farm_types.
const (
	FarmTypeWind   uint = 1
	FarmTypeSolar  uint = 2
	FarmTypeHybrid uint = 3
)

// FarmType is the wind/solar/hybrid enumeration.
type FarmType struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	TypeTitle string `gorm:"column:type_title;uniqueIndex;not null" json:"type_title"`
}

func (FarmType) TableName() string {
	return "farm_types"
}

// Farm is the aggregate root. UUID is immutable once created, Code is unique.
type Farm struct {
	UUID       string `gorm:"column:uuid;primaryKey;size:36" json:"uuid"`
	Code       string `gorm:"column:code;uniqueIndex;not null" json:"code"`
	SPV        string `gorm:"column:spv;not null" json:"spv"`
	Project    string `gorm:"column:project;not null" json:"project"`
	FarmTypeID uint   `gorm:"column:farm_type_id;not null" json:"farm_type_id"`

	// Relationships, only populated when preloaded
	FarmType                  *FarmType                      `gorm:"foreignKey:FarmTypeID" json:"farm_type,omitempty"`
	Location                  *FarmLocation                  `gorm:"foreignKey:UUID;references:UUID" json:"location,omitempty"`
	Status                    *FarmStatus                    `gorm:"foreignKey:UUID;references:UUID" json:"status,omitempty"`
	TurbineDetails            *FarmTurbineDetail             `gorm:"foreignKey:UUID;references:UUID" json:"turbine_details,omitempty"`
	Administration            *FarmAdministration            `gorm:"foreignKey:UUID;references:UUID" json:"administration,omitempty"`
	EnvironmentalInstallation *FarmEnvironmentalInstallation `gorm:"foreignKey:FarmUUID;references:UUID" json:"environmental_installation,omitempty"`
	OMContract                *FarmOMContract                `gorm:"foreignKey:FarmUUID;references:UUID" json:"om_contract,omitempty"`
	TCMAContract              *FarmTCMAContract              `gorm:"foreignKey:FarmUUID;references:UUID" json:"tcma_contract,omitempty"`
	Substations               []Substation                   `gorm:"foreignKey:FarmUUID;references:UUID" json:"substations,omitempty"`
}

func (Farm) TableName() string {
	return "farms"
}

// TypeTitle returns the preloaded type name or "Unknown".
func (f Farm) TypeTitle() string {
	if f.FarmType == nil || f.FarmType.TypeTitle == "" {
		return "Unknown"
	}
	return f.FarmType.TypeTitle
}
